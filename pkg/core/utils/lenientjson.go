// Package utils holds small helpers shared across the provider clients.
package utils

import (
	"encoding/json"
	"fmt"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
)

// DecodeLenient unmarshals JSON into v, retrying through json-repair when
// the payload is malformed. Financial providers occasionally emit truncated
// or sloppily quoted responses; repairing covers unclosed objects, single
// quotes, trailing commas and similar defects.
func DecodeLenient(data []byte, v any) error {
	strictErr := json.Unmarshal(data, v)
	if strictErr == nil {
		return nil
	}

	repaired, err := jsonrepair.RepairJSON(string(data))
	if err != nil {
		return fmt.Errorf("malformed JSON payload: %w", strictErr)
	}
	if err := json.Unmarshal([]byte(repaired), v); err != nil {
		return fmt.Errorf("malformed JSON payload after repair: %w", err)
	}
	return nil
}
