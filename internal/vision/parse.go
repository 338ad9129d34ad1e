package vision

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"nutrisnap/internal/models"
)

var ErrMalformedResponse = errors.New("malformed model response")

// extractJSON returns the outermost {...} span of text. Models often wrap
// JSON in prose or code fences.
func extractJSON(text string) (string, error) {
	start := strings.Index(text, "{")
	if start == -1 {
		return "", fmt.Errorf("%w: no JSON object in %q", ErrMalformedResponse, truncate(text, 80))
	}
	end := strings.LastIndex(text, "}")
	if end == -1 || end <= start {
		return "", fmt.Errorf("%w: unterminated JSON object", ErrMalformedResponse)
	}
	return text[start : end+1], nil
}

func parseIdentification(text string) (*models.Identification, error) {
	jsonStr, err := extractJSON(text)
	if err != nil {
		return nil, err
	}

	var out models.Identification
	if err := json.Unmarshal([]byte(jsonStr), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return &out, nil
}

func parseTips(text string) ([]string, error) {
	jsonStr, err := extractJSON(text)
	if err != nil {
		return nil, err
	}

	var out struct {
		Tips []string `json:"tips"`
	}
	if err := json.Unmarshal([]byte(jsonStr), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	tips := make([]string, 0, len(out.Tips))
	for _, tip := range out.Tips {
		if tip = strings.TrimSpace(tip); tip != "" {
			tips = append(tips, tip)
		}
	}
	if len(tips) == 0 {
		return nil, fmt.Errorf("%w: no tips returned", ErrMalformedResponse)
	}
	return tips, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
