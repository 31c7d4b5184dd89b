package terminal

import (
	"bytes"
	"context"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/table"

	"jleague-quiz/internal/app"
	"jleague-quiz/internal/domain"
	"jleague-quiz/internal/infra/memory"
	"jleague-quiz/internal/report"
)

func TestPlayWholeQuiz(t *testing.T) {
	in := strings.NewReader("浦和レッドダイヤモンズ\n浦和レッズ\n名古屋グランパス\n")
	var out bytes.Buffer

	rep, err := Play(context.Background(), newTestService(report.Japanese), in, &out, Options{DatasetID: "mini", Locale: report.Japanese, NoColor: true})
	if err != nil {
		t.Fatalf("play: %v", err)
	}
	if rep.Tally != (domain.Tally{Correct: 2, Total: 3}) {
		t.Fatalf("unexpected tally %+v", rep.Tally)
	}
	text := out.String()
	for _, want := range []string{"問題 1 / 2", "埼玉県", "チーム数: 2", "問題 2 / 2", "総合スコア: 2/3 (66.67%)", "Jリーグクイズの結果!\nスコア: 2/3"} {
		if !strings.Contains(text, want) {
			t.Fatalf("output missing %q:\n%s", want, text)
		}
	}
}

func TestPlayQuitDiscardsCurrentQuestion(t *testing.T) {
	in := strings.NewReader("浦和レッズ\n大宮アルディージャ\n:q\n")
	var out bytes.Buffer

	rep, err := Play(context.Background(), newTestService(report.English), in, &out, Options{DatasetID: "mini", Locale: report.English, NoColor: true})
	if err != nil {
		t.Fatalf("play: %v", err)
	}
	if len(rep.Results) != 1 || rep.Tally != (domain.Tally{Correct: 2, Total: 2}) {
		t.Fatalf("unexpected report %+v", rep)
	}
	if !strings.Contains(out.String(), "Finishing early.") {
		t.Fatalf("expected early finish notice:\n%s", out.String())
	}
}

func TestPlayEndOfInputFinishes(t *testing.T) {
	var out bytes.Buffer
	rep, err := Play(context.Background(), newTestService(report.English), strings.NewReader(""), &out, Options{DatasetID: "mini", Locale: report.English, NoColor: true})
	if err != nil {
		t.Fatalf("play: %v", err)
	}
	if rep.Tally.Total != 0 || !strings.Contains(out.String(), "Total score: 0/0 (0.00%)") {
		t.Fatalf("expected empty report, got %+v\n%s", rep, out.String())
	}
}

func TestReportRows(t *testing.T) {
	rep := domain.Report{Results: []domain.QuestionResult{{
		Prefecture:     "埼玉県",
		CorrectAnswers: []string{"浦和レッズ", "大宮アルディージャ"},
		UserAnswers:    []string{"浦和レッズ", ""},
		Results:        []bool{true, false},
	}}}
	got := reportRows(rep, report.LabelsFor(report.Japanese))
	want := []table.Row{
		{"埼玉県", "浦和レッズ", "浦和レッズ", "○"},
		{"", "大宮アルディージャ", "-", "×"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("rows = %v, want %v", got, want)
	}
}

func newTestService(locale report.Locale) *app.QuizService {
	repo := memory.NewDatasetRepository(memory.NewStaticDatasetLoader(domain.Dataset{
		ID:    "mini",
		Title: "mini",
		Prefectures: []domain.Prefecture{
			{Name: "埼玉県", Teams: []string{"浦和レッズ", "大宮アルディージャ"}},
			{Name: "愛知県", Teams: []string{"名古屋グランパス"}},
		},
	}), time.Minute)
	return app.NewQuizService(memory.NewSessionStore(0), repo, nil,
		app.WithLocale(locale),
		app.WithShuffler(func([]domain.Prefecture) {}),
	)
}
