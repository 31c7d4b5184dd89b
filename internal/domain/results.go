package domain

import "fmt"

// QuestionResult records how one question was answered. It is created once and never mutated.
type QuestionResult struct {
	Prefecture     string   `json:"prefecture"`
	CorrectAnswers []string `json:"correctAnswers"`
	UserAnswers    []string `json:"userAnswers"`
	Results        []bool   `json:"results"`
}

// NewQuestionResult copies its inputs and enforces that all three sequences have the same length.
func NewQuestionResult(prefecture string, correct, user []string, results []bool) (QuestionResult, error) {
	if len(user) != len(correct) || len(results) != len(correct) {
		return QuestionResult{}, fmt.Errorf("%w: %s has %d teams, got %d answers and %d verdicts",
			ErrAnswerCountMismatch, prefecture, len(correct), len(user), len(results))
	}
	return QuestionResult{
		Prefecture:     prefecture,
		CorrectAnswers: append([]string(nil), correct...),
		UserAnswers:    append([]string(nil), user...),
		Results:        append([]bool(nil), results...),
	}, nil
}

// CorrectCount returns the number of slots scored true.
func (r QuestionResult) CorrectCount() int {
	n := 0
	for _, ok := range r.Results {
		if ok {
			n++
		}
	}
	return n
}

// Tally is the running score of a session.
type Tally struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// Accuracy returns the percentage of correct slots, or 0 for an empty tally.
func (t Tally) Accuracy() float64 {
	if t.Total == 0 {
		return 0
	}
	return 100 * float64(t.Correct) / float64(t.Total)
}
