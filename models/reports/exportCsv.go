package reports

import (
	"io"

	"github.com/gocarina/gocsv"
)

// writeCSV marshals a slice of csv-tagged structs, header row first.
func writeCSV(w io.Writer, rows interface{}) error {
	return gocsv.Marshal(rows, w)
}
