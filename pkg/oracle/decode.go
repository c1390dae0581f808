package oracle

import (
	"encoding/json"
	"strings"

	"github.com/shariquekazmi/plan-generation-api/pkg/jsonutil"
)

// rawEvaluation mirrors the JSON shape the evaluation prompt asks for, with
// raw fields so loosely typed values still decode.
type rawEvaluation struct {
	Message     json.RawMessage `json:"message"`
	Suggestions json.RawMessage `json:"suggestions"`
}

// decodeEvaluation turns a model completion into an Evaluation using a
// strict-then-fallback policy:
//
//  1. direct unmarshal of the whole completion
//  2. balanced-JSON extraction (markdown fences, prose around the object)
//  3. double-encoded JSON (a JSON string containing the object)
//  4. the raw completion text as the message, no suggestions
//
// It returns ok=false only when the completion is effectively empty.
func decodeEvaluation(completion string) (*Evaluation, bool) {
	trimmed := strings.TrimSpace(completion)
	if trimmed == "" {
		return nil, false
	}

	if ev, ok := decodeEvaluationJSON([]byte(trimmed)); ok {
		return ev, true
	}

	if jsonStr, ok := extractBalancedJSON(trimmed, '{', '}'); ok {
		if ev, ok := decodeEvaluationJSON([]byte(jsonStr)); ok {
			return ev, true
		}
	}

	// Double-encoded: the completion is a JSON string whose value is the
	// actual JSON object.
	var inner string
	if err := json.Unmarshal([]byte(trimmed), &inner); err == nil {
		if ev, ok := decodeEvaluationJSON([]byte(inner)); ok {
			return ev, true
		}
	}

	// Degrade to raw text.
	return &Evaluation{Message: trimmed}, true
}

func decodeEvaluationJSON(data []byte) (*Evaluation, bool) {
	var raw rawEvaluation
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, false
	}

	message := strings.TrimSpace(jsonutil.FlexibleString(raw.Message))
	if message == "" {
		return nil, false
	}

	return &Evaluation{
		Message:     message,
		Suggestions: jsonutil.FlexibleStringSlice(raw.Suggestions),
	}, true
}

// extractBalancedJSON finds the first balanced JSON structure starting with
// openChar, counting bracket depth and skipping string literals.
func extractBalancedJSON(s string, openChar, closeChar byte) (string, bool) {
	start := strings.IndexByte(s, openChar)
	if start == -1 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]

		if escaped {
			escaped = false
			continue
		}

		if c == '\\' && inString {
			escaped = true
			continue
		}

		if c == '"' {
			inString = !inString
			continue
		}

		if inString {
			continue
		}

		if c == openChar {
			depth++
		} else if c == closeChar {
			depth--
			if depth == 0 {
				candidate := s[start : i+1]
				if json.Valid([]byte(candidate)) {
					return candidate, true
				}
				return "", false
			}
		}
	}

	return "", false
}
