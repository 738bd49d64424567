package tools

import (
	"encoding/json"
	"strings"

	"jira-bridge/internal/adf"
)

// processADFValue normalizes a value destined for an ADF field
// (description, environment, comment body). It accepts:
//   - string holding a JSON object: parsed and passed through as-is
//   - any other string: converted from markdown into an ADF document
//   - map[string]interface{}: used as-is (caller already built a doc)
//
// The second return reports whether the field should be set at all.
func processADFValue(raw interface{}) (interface{}, bool) {
	switch v := raw.(type) {
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil, false
		}
		if strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") {
			var obj map[string]interface{}
			if err := json.Unmarshal([]byte(s), &obj); err == nil {
				return obj, true
			}
		}
		return adf.Convert(s), true
	case map[string]interface{}:
		if v == nil {
			return nil, false
		}
		return v, true
	}
	return nil, false
}

// handleADFField converts fields[fieldName] in place when it holds a
// markdown string or a document; absent or unusable values are left alone.
func handleADFField(fields map[string]interface{}, fieldName string) {
	if raw, ok := fields[fieldName]; ok {
		if processed, set := processADFValue(raw); set {
			fields[fieldName] = processed
		}
	}
}
