package content

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/BTreeMap/TalentPipe/internal/models"
)

// extractJSON strips markdown code fences and surrounding prose so that the
// remaining text starts at the first JSON value. Providers frequently wrap
// JSON payloads in ```json fences despite being asked not to.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	raw = strings.TrimSpace(raw)

	// Drop any leading prose before the first JSON bracket.
	objIdx := strings.IndexAny(raw, "[{")
	if objIdx > 0 {
		raw = raw[objIdx:]
	}
	return strings.TrimSpace(raw)
}

func parseQuestions(raw string) ([]models.Question, error) {
	cleaned := extractJSON(raw)

	var questions []models.Question
	if err := json.Unmarshal([]byte(cleaned), &questions); err != nil {
		return nil, fmt.Errorf("parse questions array: %w", err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("provider returned no questions")
	}
	for i := range questions {
		questions[i].Text = strings.TrimSpace(questions[i].Text)
		if questions[i].Text == "" {
			return nil, fmt.Errorf("question %d has empty text", i)
		}
	}
	return questions, nil
}

func parseAnalysis(raw string) (*Analysis, error) {
	cleaned := extractJSON(raw)

	var a Analysis
	if err := json.Unmarshal([]byte(cleaned), &a); err != nil {
		return nil, fmt.Errorf("parse analysis object: %w", err)
	}
	if a.Score < 0 {
		a.Score = 0
	}
	if a.Score > 100 {
		a.Score = 100
	}
	a.Feedback = strings.TrimSpace(a.Feedback)
	if a.Feedback == "" {
		a.Feedback = "No specific feedback provided"
	}
	return &a, nil
}

func parseMatch(raw string) (*models.MatchResult, error) {
	cleaned := extractJSON(raw)

	var m models.MatchResult
	if err := json.Unmarshal([]byte(cleaned), &m); err != nil {
		return nil, fmt.Errorf("parse match object: %w", err)
	}
	if m.Score < 0 {
		m.Score = 0
	}
	if m.Score > 100 {
		m.Score = 100
	}
	m.Explanation = strings.TrimSpace(m.Explanation)
	return &m, nil
}
