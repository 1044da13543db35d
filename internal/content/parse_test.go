package content

import (
	"strings"
	"testing"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain object",
			in:   `{"score": 80}`,
			want: `{"score": 80}`,
		},
		{
			name: "json code fence",
			in:   "```json\n{\"score\": 80}\n```",
			want: `{"score": 80}`,
		},
		{
			name: "bare code fence",
			in:   "```\n[{\"text\": \"q\"}]\n```",
			want: `[{"text": "q"}]`,
		},
		{
			name: "leading prose",
			in:   "Here are the questions:\n[{\"text\": \"q\"}]",
			want: `[{"text": "q"}]`,
		},
		{
			name: "surrounding whitespace",
			in:   "  \n {\"score\": 1} \n ",
			want: `{"score": 1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractJSON(tt.in); got != tt.want {
				t.Errorf("extractJSON(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseQuestions(t *testing.T) {
	raw := "```json\n[" +
		`{"text": "Describe a time you handled a difficult customer.", "category": "behavioral", "expectedAnswer": "Specific situation with resolution"},` +
		`{"text": "How do you prioritize restocking?", "category": "technical", "expectedAnswer": "Mentions demand and shelf life"}` +
		"]\n```"

	questions, err := parseQuestions(raw)
	if err != nil {
		t.Fatalf("parseQuestions failed: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(questions))
	}
	if !strings.HasPrefix(questions[0].Text, "Describe a time") {
		t.Errorf("unexpected first question: %q", questions[0].Text)
	}
	if questions[1].Category != "technical" {
		t.Errorf("expected technical category, got %q", questions[1].Category)
	}
}

func TestParseQuestionsRejectsBadPayloads(t *testing.T) {
	if _, err := parseQuestions("not json at all"); err == nil {
		t.Error("expected error for non-JSON payload")
	}
	if _, err := parseQuestions("[]"); err == nil {
		t.Error("expected error for empty array")
	}
	if _, err := parseQuestions(`[{"text": "  "}]`); err == nil {
		t.Error("expected error for blank question text")
	}
}

func TestParseAnalysis(t *testing.T) {
	a, err := parseAnalysis(`{"score": 85.5, "feedback": "Clear and specific."}`)
	if err != nil {
		t.Fatalf("parseAnalysis failed: %v", err)
	}
	if a.Score != 85.5 {
		t.Errorf("expected score 85.5, got %f", a.Score)
	}
	if a.Feedback != "Clear and specific." {
		t.Errorf("unexpected feedback: %q", a.Feedback)
	}
}

func TestParseAnalysisClampsAndDefaults(t *testing.T) {
	a, err := parseAnalysis(`{"score": 140, "feedback": ""}`)
	if err != nil {
		t.Fatalf("parseAnalysis failed: %v", err)
	}
	if a.Score != 100 {
		t.Errorf("expected score clamped to 100, got %f", a.Score)
	}
	if a.Feedback != "No specific feedback provided" {
		t.Errorf("expected default feedback, got %q", a.Feedback)
	}

	a, err = parseAnalysis(`{"score": -5}`)
	if err != nil {
		t.Fatalf("parseAnalysis failed: %v", err)
	}
	if a.Score != 0 {
		t.Errorf("expected score clamped to 0, got %f", a.Score)
	}
}

func TestParseMatch(t *testing.T) {
	raw := `{"score": 72, "explanation": " Good overlap. ", "strengths": ["retail experience"], "gaps": ["no forklift license"], "recommendations": ["ask about certification plans"]}`

	m, err := parseMatch(raw)
	if err != nil {
		t.Fatalf("parseMatch failed: %v", err)
	}
	if m.Score != 72 {
		t.Errorf("expected score 72, got %f", m.Score)
	}
	if m.Explanation != "Good overlap." {
		t.Errorf("expected trimmed explanation, got %q", m.Explanation)
	}
	if len(m.Strengths) != 1 || len(m.Gaps) != 1 || len(m.Recommendations) != 1 {
		t.Errorf("unexpected list lengths: %+v", m)
	}
}
