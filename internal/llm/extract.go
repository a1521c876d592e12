package llm

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

// ErrNoJSON indicates no parseable JSON value was found in a completion.
var ErrNoJSON = errors.New("no JSON value found in completion")

var fencedJSON = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\}|\\[.*?\\])\\s*```")

// ExtractJSON pulls a JSON object or array out of a model completion.
//
// Models frequently wrap JSON in prose or markdown fences despite
// instructions. Extraction is attempted in order of strictness:
//  1. the whole trimmed completion
//  2. the first fenced ```json block
//  3. the outermost {...} or [...] span
func ExtractJSON(text string) (json.RawMessage, error) {
	trimmed := strings.TrimSpace(text)
	if isJSONValue(trimmed) {
		return json.RawMessage(trimmed), nil
	}

	if m := fencedJSON.FindStringSubmatch(text); m != nil && isJSONValue(m[1]) {
		return json.RawMessage(m[1]), nil
	}

	for _, pair := range []struct{ open, close byte }{{'{', '}'}, {'[', ']'}} {
		start := strings.IndexByte(text, pair.open)
		end := strings.LastIndexByte(text, pair.close)
		if start >= 0 && end > start {
			candidate := text[start : end+1]
			if isJSONValue(candidate) {
				return json.RawMessage(candidate), nil
			}
		}
	}

	return nil, ErrNoJSON
}

// isJSONValue reports whether s is a valid JSON object or array.
func isJSONValue(s string) bool {
	if !strings.HasPrefix(s, "{") && !strings.HasPrefix(s, "[") {
		return false
	}
	return json.Valid([]byte(s))
}
