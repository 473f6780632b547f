package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// parseClassification extracts category, confidence and evidence from
// the LLM response content.
func parseClassification(content string) (ClassificationResponse, error) {
	var jsonResp struct {
		Category   string   `json:"category"`
		Evidence   []string `json:"evidence,omitempty"`
		Confidence float64  `json:"confidence"`
	}

	content = cleanMarkdownWrapper(content)

	if err := json.Unmarshal([]byte(content), &jsonResp); err != nil {
		return ClassificationResponse{}, fmt.Errorf("failed to parse JSON response: %w, content: %s", err, content)
	}

	if jsonResp.Category == "" {
		return ClassificationResponse{}, fmt.Errorf("empty category in response")
	}

	// Models report confidence as either a fraction or a percentage.
	confidence := jsonResp.Confidence
	if confidence > 0 && confidence <= 1 {
		confidence *= 100
	}
	if confidence < 0 || confidence > 100 {
		return ClassificationResponse{}, fmt.Errorf("invalid confidence value: %f", jsonResp.Confidence)
	}

	return ClassificationResponse{
		Category:   jsonResp.Category,
		Confidence: confidence,
		Evidence:   jsonResp.Evidence,
	}, nil
}

// cleanMarkdownWrapper strips ```json fences some models insist on.
func cleanMarkdownWrapper(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}
