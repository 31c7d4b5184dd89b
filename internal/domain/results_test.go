package domain

import (
	"errors"
	"testing"
)

func TestNewQuestionResultRejectsMismatchedLengths(t *testing.T) {
	_, err := NewQuestionResult("埼玉県", []string{"浦和レッズ", "大宮アルディージャ"}, []string{"浦和レッズ"}, []bool{true})
	if !errors.Is(err, ErrAnswerCountMismatch) {
		t.Fatalf("expected ErrAnswerCountMismatch, got %v", err)
	}
}

func TestNewQuestionResultCopiesInputs(t *testing.T) {
	correct := []string{"a", "b"}
	user := []string{"a", ""}
	results := []bool{true, false}

	r, err := NewQuestionResult("p", correct, user, results)
	if err != nil {
		t.Fatalf("new result: %v", err)
	}
	user[0] = "changed"
	results[0] = false
	if r.UserAnswers[0] != "a" || !r.Results[0] {
		t.Fatalf("result shares storage with caller: %+v", r)
	}
	if r.CorrectCount() != 1 {
		t.Fatalf("expected 1 correct, got %d", r.CorrectCount())
	}
}

func TestTallyAccuracy(t *testing.T) {
	if got := (Tally{}).Accuracy(); got != 0 {
		t.Fatalf("expected 0 for empty tally, got %v", got)
	}
	if got := (Tally{Correct: 4, Total: 5}).Accuracy(); got != 80 {
		t.Fatalf("expected 80, got %v", got)
	}
}
