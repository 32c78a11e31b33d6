package helpers

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spektr-org/chartcore/engine"
)

// ParseJSON decodes a JSON array of objects, or an object whose "data" key
// holds one. Numbers decode as float64. A null element is an error, as a
// chart would reject it anyway.
func ParseJSON(data []byte) ([]engine.Record, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("JSON: empty input")
	}

	var records []engine.Record
	if data[0] == '{' {
		var wrapped struct {
			Data []engine.Record `json:"data"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, fmt.Errorf("JSON: %w", err)
		}
		if wrapped.Data == nil {
			return nil, fmt.Errorf(`JSON: object has no "data" array`)
		}
		records = wrapped.Data
	} else if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("JSON: %w", err)
	}

	for i, r := range records {
		if r == nil {
			return nil, fmt.Errorf("JSON: element %d is not an object", i)
		}
	}
	return records, nil
}
