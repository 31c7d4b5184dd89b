package scoring

import (
	"fmt"

	"jleague-quiz/internal/domain"
)

// Scorer compares user answers with a question's teams.
type Scorer struct {
	aliases *AliasTable
}

// NewScorer returns a Scorer using aliases; nil falls back to the default table.
func NewScorer(aliases *AliasTable) *Scorer {
	if aliases == nil {
		aliases = defaultTable
	}
	return &Scorer{aliases: aliases}
}

var defaultScorer = NewScorer(nil)

// Score scores userAnswers against correctAnswers with the default alias table.
func Score(userAnswers, correctAnswers []string) []bool {
	return defaultScorer.Score(userAnswers, correctAnswers)
}

// Normalize canonicalizes name with the scorer's alias table.
func (s *Scorer) Normalize(name string) string {
	return s.aliases.Normalize(name)
}

// Score returns one verdict per user answer. An answer is correct when it is non-empty, matches any
// correct answer after normalization, and is the first occurrence of that normalized value.
func (s *Scorer) Score(userAnswers, correctAnswers []string) []bool {
	correct := make(map[string]struct{}, len(correctAnswers))
	for _, a := range correctAnswers {
		correct[s.Normalize(a)] = struct{}{}
	}

	normalized := make([]string, len(userAnswers))
	results := make([]bool, len(userAnswers))
	for i, a := range userAnswers {
		normalized[i] = s.Normalize(a)
		if normalized[i] == "" {
			continue
		}
		_, results[i] = correct[normalized[i]]
	}

	// Second pass: only the first occurrence of a normalized answer keeps its verdict.
	seen := make(map[string]struct{}, len(normalized))
	for i, a := range normalized {
		if a == "" {
			continue
		}
		if _, dup := seen[a]; dup {
			results[i] = false
			continue
		}
		seen[a] = struct{}{}
	}
	return results
}

// ScoreQuestion scores answers for prefecture and builds the resulting QuestionResult.
func (s *Scorer) ScoreQuestion(prefecture domain.Prefecture, answers []string) (domain.QuestionResult, error) {
	if len(answers) != len(prefecture.Teams) {
		return domain.QuestionResult{}, fmt.Errorf("%w: %s has %d teams, got %d answers",
			domain.ErrAnswerCountMismatch, prefecture.Name, len(prefecture.Teams), len(answers))
	}
	return domain.NewQuestionResult(prefecture.Name, prefecture.Teams, answers, s.Score(answers, prefecture.Teams))
}

// Aggregate totals slots and correct verdicts over a session's results.
func Aggregate(results []domain.QuestionResult) domain.Tally {
	var t domain.Tally
	for _, r := range results {
		t.Total += len(r.CorrectAnswers)
		t.Correct += r.CorrectCount()
	}
	return t
}
