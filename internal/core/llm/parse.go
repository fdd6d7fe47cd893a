package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	apperrors "github.com/Archimed-Anderson/FreeMobilaChat-sub003/internal/core/errors"
)

// stripCodeFence removes a markdown code-fence wrapper, with or without a
// language tag, from around an LLM response.
func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)

	if !strings.HasPrefix(text, "```") {
		return text
	}

	text = strings.TrimPrefix(text, "```")
	if idx := strings.Index(text, "\n"); idx != -1 {
		// Drop the language tag line (e.g. "json").
		if !strings.ContainsAny(text[:idx], "{[") {
			text = text[idx+1:]
		}
	}

	text = strings.TrimSuffix(strings.TrimSpace(text), "```")

	return strings.TrimSpace(text)
}

// extractJSON tries to extract JSON from a response that might have extra text.
func extractJSON(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")

	if start != -1 && end != -1 && end > start {
		return text[start : end+1]
	}

	start = strings.Index(text, "[")
	end = strings.LastIndex(text, "]")

	if start != -1 && end != -1 && end > start {
		return text[start : end+1]
	}

	return text
}

// parseBatchResponse decodes an LLM response into batch results. It accepts
// either the requested {"results": [...]} wrapper or a bare array, after
// stripping code fences and surrounding prose.
func parseBatchResponse(content string) ([]BatchResult, error) {
	content = extractJSON(stripCodeFence(content))

	var wrapper struct {
		Results []BatchResult `json:"results"`
	}

	if err := json.Unmarshal([]byte(content), &wrapper); err == nil && len(wrapper.Results) > 0 {
		return wrapper.Results, nil
	}

	var results []BatchResult
	if err := json.Unmarshal([]byte(content), &results); err == nil && len(results) > 0 {
		return results, nil
	}

	return nil, fmt.Errorf("%w: %s", apperrors.ErrNoResults, truncateForLog(content))
}

const logContentMax = 200

func truncateForLog(s string) string {
	if len(s) <= logContentMax {
		return s
	}

	return s[:logContentMax] + "..."
}
