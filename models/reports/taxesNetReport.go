package reports

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/mmdatafocus/dailycash_backend/models"
	"github.com/mmdatafocus/dailycash_backend/utils"
)

// taxesNetLine is a report row with amounts fixed to two decimals.
type taxesNetLine struct {
	Date                 string `csv:"Fecha"`
	DayName              string `csv:"Día"`
	Surcharges           string `csv:"Cargos y Comisiones"`
	PettyCashSnapshot    string `csv:"Gastos Menores"`
	TotalByPaymentMethod string `csv:"Total Ventas"`
	CollectedAmount      string `csv:"Monto Recaudado"`
	Deposit              string `csv:"Depósito"`
	PettyCashLive        string `csv:"Gastos Menores (actual)"`
	Stale                string `csv:"Desactualizado"`
}

var taxesNetHeadings = []string{
	"Fecha", "Día", "Cargos y Comisiones", "Gastos Menores", "Total Ventas",
	"Monto Recaudado", "Depósito", "Gastos Menores (actual)", "Desactualizado",
}

func newTaxesNetLine(r *models.TaxesNetRow) *taxesNetLine {
	return &taxesNetLine{
		Date:                 r.Date.String(),
		DayName:              r.DayName,
		Surcharges:           utils.FormatAmount(r.Surcharges),
		PettyCashSnapshot:    utils.FormatAmount(r.PettyCashSnapshot),
		TotalByPaymentMethod: utils.FormatAmount(r.TotalByPaymentMethod),
		CollectedAmount:      utils.FormatAmount(r.CollectedAmount),
		Deposit:              utils.FormatAmount(r.Deposit),
		PettyCashLive:        utils.FormatAmount(r.PettyCashLive),
		Stale:                strconv.FormatBool(r.Stale),
	}
}

func (l *taxesNetLine) GetCellValues() []interface{} {
	return []interface{}{
		l.Date, l.DayName, l.Surcharges, l.PettyCashSnapshot, l.TotalByPaymentMethod,
		l.CollectedAmount, l.Deposit, l.PettyCashLive, l.Stale,
	}
}

// taxesNetLines lists every row followed by the totals row.
func taxesNetLines(report *models.TaxesNetReport) []*taxesNetLine {
	lines := make([]*taxesNetLine, 0, len(report.Rows)+1)
	for _, r := range report.Rows {
		lines = append(lines, newTaxesNetLine(r))
	}
	return append(lines, newTaxesNetLine(&report.Totals))
}

// TaxesNetFilename is the download name, e.g. reporte-impuestos-neto_2024-03-01_2024-03-31.csv.
func TaxesNetFilename(from utils.DateString, to utils.DateString, format models.ExportFormat) string {
	name := "reporte-impuestos-neto"
	if !from.IsZero() {
		name += "_" + from.String()
	}
	if !to.IsZero() {
		name += "_" + to.String()
	}
	return name + "." + string(format)
}

func ContentType(format models.ExportFormat) string {
	switch format {
	case models.ExportFormatCSV:
		return "text/csv; charset=utf-8"
	case models.ExportFormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/json; charset=utf-8"
	}
}

func ExportTaxesNet(w io.Writer, report *models.TaxesNetReport, format models.ExportFormat) error {
	switch format {
	case models.ExportFormatCSV:
		return writeCSV(w, taxesNetLines(report))
	case models.ExportFormatXLSX:
		lines := taxesNetLines(report)
		data := make([]ExcelExporter, 0, len(lines))
		for _, l := range lines {
			data = append(data, l)
		}
		return writeExcel(w, "Impuestos y Neto", taxesNetHeadings, data)
	case models.ExportFormatJSON:
		return json.NewEncoder(w).Encode(report)
	}
	return fmt.Errorf("unsupported export format %q", format)
}
