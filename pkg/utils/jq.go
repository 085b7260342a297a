package utils

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/itchyny/gojq"
)

// ApplyJQ runs a jq filter over an already-decoded value and returns the
// first result. Used to narrow JSON output to the fields a caller wants.
func ApplyJQ(jqQuery string, value any) (any, error) {
	query, err := gojq.Parse(jqQuery)
	if err != nil {
		return nil, fmt.Errorf("invalid jq query %q: %w", jqQuery, err)
	}

	iter := query.Run(value)
	v, ok := iter.Next()
	if !ok {
		return nil, fmt.Errorf("jq query %q produced no result", jqQuery)
	}
	if err, ok := v.(error); ok {
		return nil, err
	}
	return v, nil
}

func PerformJqQuery(jsonContent []byte, jqQuery string) ([]byte, error) {
	var jsonData any
	if err := json.Unmarshal(jsonContent, &jsonData); err != nil {
		return nil, err
	}

	v, err := ApplyJQ(jqQuery, jsonData)
	if err != nil {
		return nil, err
	}

	return json.Marshal(v)
}

func PerformJqQueryOnFile(filePath string, jqQuery string) ([]byte, error) {
	jsonContent, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	return PerformJqQuery(jsonContent, jqQuery)
}
