package copywriter

import (
	"bytes"
	"encoding/json"
	"strings"

	"adcraft/internal/domain/adcopy"
)

// SchemaError reports model output that does not match ResponseSchema.
type SchemaError struct {
	Field  string
	Reason string
	Err    error
}

func (e *SchemaError) Error() string {
	msg := "schema mismatch"
	if e.Field != "" {
		msg += ": " + e.Field
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// DecodeResponse parses model text into an AdResponse and checks that every
// schema property is present with the right JSON type. A surrounding
// markdown code fence is tolerated.
func DecodeResponse(raw string) (*adcopy.AdResponse, error) {
	cleaned := extractJSONObject(raw)
	if cleaned == "" {
		return nil, &SchemaError{Reason: "no JSON object in response"}
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &fields); err != nil {
		return nil, &SchemaError{Reason: "invalid JSON", Err: err}
	}

	res := &adcopy.AdResponse{}
	strs := []struct {
		name     string
		dst      *string
		nonBlank bool
	}{
		{fieldHeadline, &res.Headline, true},
		{fieldBody, &res.Body, true},
		{fieldCallToAction, &res.CallToAction, true},
		{fieldExplanation, &res.Explanation, false},
	}
	for _, f := range strs {
		value, err := requiredField(fields, f.name)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(value, f.dst); err != nil {
			return nil, &SchemaError{Field: f.name, Reason: "expected string", Err: err}
		}
		if f.nonBlank && strings.TrimSpace(*f.dst) == "" {
			return nil, &SchemaError{Field: f.name, Reason: "must not be blank"}
		}
	}

	value, err := requiredField(fields, fieldHashtags)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(value, &res.Hashtags); err != nil {
		return nil, &SchemaError{Field: fieldHashtags, Reason: "expected array of strings", Err: err}
	}
	if res.Hashtags == nil {
		res.Hashtags = []string{}
	}
	return res, nil
}

func requiredField(fields map[string]json.RawMessage, name string) (json.RawMessage, error) {
	value, ok := fields[name]
	if !ok {
		return nil, &SchemaError{Field: name, Reason: "missing"}
	}
	if bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
		return nil, &SchemaError{Field: name, Reason: "must not be null"}
	}
	return value, nil
}

func extractJSONObject(raw string) string {
	text := trimCodeFence(raw)
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end < start {
		return ""
	}
	return strings.TrimSpace(text[start : end+1])
}

func trimCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```JSON")
	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}
