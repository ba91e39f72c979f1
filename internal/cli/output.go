package cli

import (
	"encoding/json"
	"io"
)

// printer writes command results as JSON or text.
type printer struct {
	format string
	w      io.Writer
}

// print renders data as indented JSON, or calls text for the text format.
func (p printer) print(data any, text func(w io.Writer)) error {
	if p.format == "json" {
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	}
	text(p.w)
	return nil
}
