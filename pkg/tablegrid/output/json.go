// Package output serializes inspection results and documents.
package output

import (
	"encoding/json"
)

// ToJSON encodes v, indented when pretty is set.
func ToJSON(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}
