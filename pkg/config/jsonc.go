package config

import (
	"github.com/knadh/koanf/parsers/json"
	"github.com/tidwall/jsonc"
)

// JSONC is a koanf.Parser for JSON that tolerates comments and trailing
// commas, which hand-edited config files tend to grow
type JSONC struct {
	json *json.JSON
}

// Parser returns a JSONC parser
func Parser() *JSONC {
	return &JSONC{json: json.Parser()}
}

// Unmarshal strips comments then decodes into a nested map
func (p *JSONC) Unmarshal(b []byte) (map[string]interface{}, error) {
	return p.json.Unmarshal(jsonc.ToJSON(b))
}

// Marshal encodes a nested map as JSON
func (p *JSONC) Marshal(o map[string]interface{}) ([]byte, error) {
	return p.json.Marshal(o)
}
