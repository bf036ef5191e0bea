package output

import (
	"encoding/json"
	"io"
)

// WriteJSON writes records as an indented JSON array
func WriteJSON(w io.Writer, records []Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(records)
}
