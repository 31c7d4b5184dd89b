package report

import (
	"testing"

	"jleague-quiz/internal/domain"
)

func TestSummaryAndShareText(t *testing.T) {
	tally := domain.Tally{Correct: 4, Total: 5}

	if got := Summary(English, tally); got != "score: 4/5" {
		t.Fatalf("unexpected english summary %q", got)
	}
	if got := Summary(Japanese, tally); got != "スコア: 4/5" {
		t.Fatalf("unexpected japanese summary %q", got)
	}
	if got := ShareText(Japanese, tally); got != "Jリーグクイズの結果!\nスコア: 4/5\n" {
		t.Fatalf("unexpected share text %q", got)
	}
}

func TestFormatAccuracyEmptySession(t *testing.T) {
	if got := FormatAccuracy(domain.Tally{}); got != "0.00%" {
		t.Fatalf("expected 0.00%%, got %q", got)
	}
	if got := FormatAccuracy(domain.Tally{Correct: 1, Total: 3}); got != "33.33%" {
		t.Fatalf("expected 33.33%%, got %q", got)
	}
}

func TestParseLocale(t *testing.T) {
	if ParseLocale("EN") != English {
		t.Fatalf("expected english")
	}
	if ParseLocale("") != Japanese || ParseLocale("fr") != Japanese {
		t.Fatalf("expected japanese default")
	}
}

func TestBuildCopiesResults(t *testing.T) {
	results := []domain.QuestionResult{{Prefecture: "愛知県"}}
	r := Build("s1", English, results, domain.Tally{Correct: 0, Total: 1})
	results[0].Prefecture = "changed"
	if r.Results[0].Prefecture != "愛知県" {
		t.Fatalf("report shares results storage")
	}
	if r.Summary != "score: 0/1" || r.Accuracy != 0 {
		t.Fatalf("unexpected report %+v", r)
	}
}
