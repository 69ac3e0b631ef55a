package cli

import (
	"strings"
	"testing"
)

func TestParseQuestionFileJSON(t *testing.T) {
	data := []byte(`[
  {"id": 1, "question": "2 + 2?", "options": ["3", "4"], "correctAnswer": 1, "weightage": 5},
  {"id": 2, "question": "Capital of Peru?", "options": ["Lima", "Quito", "Bogota"], "correctAnswer": 0, "weightage": 20}
]`)
	questions, err := parseQuestionFile(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(questions) != 2 || questions[1].Score != 20 || questions[1].Options[0] != "Lima" {
		t.Fatalf("unexpected questions: %+v", questions)
	}
}

func TestParseQuestionFileYAML(t *testing.T) {
	data := []byte(`
- id: 3
  question: Largest ocean?
  options: [Atlantic, Pacific, Indian]
  correctAnswer: 1
  weightage: 10
`)
	questions, err := parseQuestionFile(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(questions) != 1 || questions[0].CorrectIndex != 1 {
		t.Fatalf("unexpected questions: %+v", questions)
	}
}

func TestParseQuestionFileRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"schema":       `[{"id": 1, "question": "", "options": ["a"], "correctAnswer": 0, "weightage": 5}]`,
		"answer range": `[{"id": 1, "question": "q?", "options": ["a", "b"], "correctAnswer": 2, "weightage": 5}]`,
		"duplicate": `[{"id": 1, "question": "q?", "options": ["a", "b"], "correctAnswer": 0, "weightage": 5},
		               {"id": 1, "question": "r?", "options": ["a", "b"], "correctAnswer": 0, "weightage": 5}]`,
		"empty": `[]`,
	}
	for name, data := range cases {
		if _, err := parseQuestionFile([]byte(data)); err == nil {
			t.Fatalf("%s: expected an error", name)
		}
	}
}

func TestParseQuestionFileReportsSchemaErrors(t *testing.T) {
	_, err := parseQuestionFile([]byte(`[{"id": 0, "question": "q?", "options": ["a", "b"], "correctAnswer": 0, "weightage": 5}]`))
	if err == nil || !strings.Contains(err.Error(), "invalid question file") {
		t.Fatalf("expected schema error, got %v", err)
	}
}
