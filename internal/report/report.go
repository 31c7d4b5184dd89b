// Package report renders the end-of-quiz summary in the supported locales.
package report

import (
	"fmt"
	"strings"

	"jleague-quiz/internal/domain"
)

// Locale selects the language of player-facing text.
type Locale string

const (
	Japanese Locale = "ja"
	English  Locale = "en"
)

// ParseLocale maps a config or flag value to a Locale, defaulting to Japanese.
func ParseLocale(raw string) Locale {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "en", "en-us", "en-gb", "english":
		return English
	default:
		return Japanese
	}
}

// Summary renders "score: {correct}/{total}" in the given locale.
func Summary(locale Locale, t domain.Tally) string {
	if locale == English {
		return fmt.Sprintf("score: %d/%d", t.Correct, t.Total)
	}
	return fmt.Sprintf("スコア: %d/%d", t.Correct, t.Total)
}

// ShareText is the clipboard-ready result: a heading line followed by the summary.
func ShareText(locale Locale, t domain.Tally) string {
	heading := "Jリーグクイズの結果!"
	if locale == English {
		heading = "J.League quiz results!"
	}
	return heading + "\n" + Summary(locale, t) + "\n"
}

// FormatAccuracy renders the accuracy with two decimals. An empty tally reports 0.00%.
func FormatAccuracy(t domain.Tally) string {
	return fmt.Sprintf("%.2f%%", t.Accuracy())
}

// Build assembles the final report for a session.
func Build(sessionID string, locale Locale, results []domain.QuestionResult, t domain.Tally) domain.Report {
	return domain.Report{
		SessionID: sessionID,
		Results:   append([]domain.QuestionResult(nil), results...),
		Tally:     t,
		Accuracy:  t.Accuracy(),
		Summary:   Summary(locale, t),
		ShareText: ShareText(locale, t),
	}
}

// Labels holds the column headers and markers of the results table.
type Labels struct {
	Title      string
	Prefecture string
	Correct    string
	Answer     string
	Result     string
	Total      string
	Unanswered string
	Right      string
	Wrong      string
}

// LabelsFor returns table labels for locale.
func LabelsFor(locale Locale) Labels {
	if locale == English {
		return Labels{
			Title: "Quiz results", Prefecture: "Prefecture", Correct: "Answer", Answer: "Your answer",
			Result: "Result", Total: "Total score", Unanswered: "-", Right: "○", Wrong: "×",
		}
	}
	return Labels{
		Title: "クイズ結果", Prefecture: "都道府県", Correct: "正解", Answer: "あなたの回答",
		Result: "結果", Total: "総合スコア", Unanswered: "-", Right: "○", Wrong: "×",
	}
}
