package service

import (
	"testing"

	"smart_classroom_backend/internal/model"
)

func question(correct int) model.Question {
	return model.Question{CorrectAnswerIndex: correct}
}

func TestGradeAllCorrect(t *testing.T) {
	questions := []model.Question{question(0), question(2), question(1)}
	correct, score := Grade(questions, []int{0, 2, 1})
	if correct != 3 {
		t.Fatalf("correct = %d, want 3", correct)
	}
	if score != 100 {
		t.Fatalf("score = %v, want 100", score)
	}
}

func TestGradeTwoOfThree(t *testing.T) {
	questions := []model.Question{question(0), question(1), question(2)}
	correct, score := Grade(questions, []int{0, 1, 0})
	if correct != 2 {
		t.Fatalf("correct = %d, want 2", correct)
	}
	if score != 66.7 {
		t.Fatalf("score = %v, want 66.7", score)
	}
}

func TestGradeExtraAnswersTruncated(t *testing.T) {
	questions := []model.Question{question(1), question(1)}
	correct, score := Grade(questions, []int{1, 1, 1, 1, 1})
	if correct != 2 {
		t.Fatalf("correct = %d, want 2", correct)
	}
	if score != 100 {
		t.Fatalf("score = %v, want 100", score)
	}
}

func TestGradeMissingAnswersCountWrong(t *testing.T) {
	questions := []model.Question{question(0), question(0), question(0), question(0)}
	correct, score := Grade(questions, []int{0})
	if correct != 1 {
		t.Fatalf("correct = %d, want 1", correct)
	}
	if score != 25 {
		t.Fatalf("score = %v, want 25", score)
	}
}

func TestGradeOutOfRangeAnswerIsWrong(t *testing.T) {
	questions := []model.Question{question(0), question(1)}
	correct, score := Grade(questions, []int{99, -1})
	if correct != 0 {
		t.Fatalf("correct = %d, want 0", correct)
	}
	if score != 0 {
		t.Fatalf("score = %v, want 0", score)
	}
}

func TestGradeEmptyQuiz(t *testing.T) {
	correct, score := Grade(nil, []int{0, 1})
	if correct != 0 || score != 0 {
		t.Fatalf("got (%d, %v), want (0, 0)", correct, score)
	}
}

func TestValidateQuestionsRejectsBadInput(t *testing.T) {
	cases := []struct {
		name      string
		questions []QuestionInput
	}{
		{"empty quiz", nil},
		{"blank text", []QuestionInput{{Text: "  ", Options: []string{"a", "b"}}}},
		{"single option", []QuestionInput{{Text: "q", Options: []string{"a"}}}},
		{"answer index too large", []QuestionInput{{Text: "q", Options: []string{"a", "b"}, CorrectAnswerIndex: 2}}},
		{"negative answer index", []QuestionInput{{Text: "q", Options: []string{"a", "b"}, CorrectAnswerIndex: -1}}},
	}
	for _, tc := range cases {
		if err := validateQuestions(tc.questions); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestValidateQuestionsAcceptsWellFormed(t *testing.T) {
	questions := []QuestionInput{
		{Text: "2+2?", Options: []string{"3", "4"}, CorrectAnswerIndex: 1},
		{Text: "capital of France?", Options: []string{"Paris", "Rome", "Berlin"}, CorrectAnswerIndex: 0},
	}
	if err := validateQuestions(questions); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
