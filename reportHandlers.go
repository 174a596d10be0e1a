package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/dailycash_backend/models"
	"github.com/mmdatafocus/dailycash_backend/models/reports"
)

func cajaFuerteReportHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		from, to, ok := dateRangeQuery(c)
		if !ok {
			return
		}
		report, err := models.GetCajaFuerteReport(c.Request.Context(), models.DailyRecordFilter{FromDate: from, ToDate: to})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, report)
	}
}

// taxesNetReportHandler serves JSON, or a CSV/XLSX download with format=csv|xlsx.
func taxesNetReportHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		from, to, ok := dateRangeQuery(c)
		if !ok {
			return
		}
		format, err := models.ParseExportFormat(c.Query("format"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "field": "format"})
			return
		}
		report, err := reports.GetTaxesNetReport(c.Request.Context(), models.DailyRecordFilter{FromDate: from, ToDate: to})
		if err != nil {
			respondError(c, err)
			return
		}
		if format == models.ExportFormatJSON {
			c.JSON(http.StatusOK, report)
			return
		}

		c.Header("Content-Type", reports.ContentType(format))
		c.Header("Content-Disposition", `attachment; filename="`+reports.TaxesNetFilename(from, to, format)+`"`)
		c.Status(http.StatusOK)
		if err := reports.ExportTaxesNet(c.Writer, report, format); err != nil {
			_ = c.Error(err)
		}
	}
}
