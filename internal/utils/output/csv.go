package output

import (
	"encoding/csv"
	"io"
	"strconv"
)

var csvHeader = []string{"url", "success", "id", "method", "name", "title", "thumbnail", "error", "code", "duration_ms"}

// WriteCSV writes one header row and one row per record
func WriteCSV(w io.Writer, records []Record) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.URL,
			strconv.FormatBool(r.Success),
			r.ID,
			string(r.Method),
			r.Name,
			r.Title,
			r.Thumbnail,
			r.Error,
			string(r.Code),
			strconv.FormatInt(r.DurationMS, 10),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
