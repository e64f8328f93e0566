package ui

import (
	"encoding/json"
	"io"
)

// RenderJSON writes result as indented JSON for machine consumption
func RenderJSON(out io.Writer, result interface{}) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}
