package llm

import (
	"encoding/json"
	"errors"
	"strings"
)

var errNoJSON = errors.New("no JSON object in model response")

// extractJSON returns the outermost JSON object in a completion, tolerating
// markdown code fences and leading prose.
func extractJSON(s string) (string, error) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return "", errNoJSON
	}
	return s[start : end+1], nil
}

// decodeJSON decodes the JSON object embedded in s into v. Unknown fields
// are ignored.
func decodeJSON(s string, v interface{}) error {
	raw, err := extractJSON(s)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(raw), v)
}

type matchWire struct {
	Cell        string  `json:"cell"`
	Match       bool    `json:"match"`
	Reason      string  `json:"reason"`
	MatchedText *string `json:"matched_text"`
	SourcePath  *string `json:"source_path"`
}

type matchBatchWire struct {
	Results []matchWire `json:"results"`
}

type inputWire struct {
	Cell     string   `json:"cell"`
	Value    *float64 `json:"value"`
	Metadata []string `json:"metadata"`
}

type inputBatchWire struct {
	Inputs []inputWire `json:"inputs"`
}
