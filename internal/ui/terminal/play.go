package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"jleague-quiz/internal/domain"
	"jleague-quiz/internal/report"
)

// QuitCommand finishes the quiz early; the question being answered is discarded.
const QuitCommand = ":q"

// Quiz is the part of the quiz service the terminal loop drives.
type Quiz interface {
	Start(ctx context.Context, datasetID string) (domain.Question, error)
	SubmitAnswer(ctx context.Context, sessionID string, answers []string) (domain.AnswerOutcome, error)
	Finish(ctx context.Context, sessionID string) (domain.Report, error)
}

// Options configures a terminal play session.
type Options struct {
	DatasetID string
	Locale    report.Locale
	NoColor   bool
}

// Play runs one quiz over in/out and returns the final report. End of input finishes the quiz.
func Play(ctx context.Context, quiz Quiz, in io.Reader, out io.Writer, opts Options) (domain.Report, error) {
	p := promptsFor(opts.Locale)
	lines := bufio.NewScanner(in)

	q, err := quiz.Start(ctx, opts.DatasetID)
	if err != nil {
		return domain.Report{}, err
	}
	fmt.Fprintln(out, p.hint)

	for {
		if err := ctx.Err(); err != nil {
			return domain.Report{}, err
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, stylize(p.questionHeader(q), opts.NoColor, lipgloss.Color("240")))
		fmt.Fprintln(out, stylize(q.Prefecture, opts.NoColor, lipgloss.Color("33")))
		fmt.Fprintf(out, p.slots+"\n", q.Slots)

		answers, quit := readAnswers(lines, out, p, q.Slots)
		if quit {
			fmt.Fprintln(out, p.aborted)
			break
		}
		outcome, err := quiz.SubmitAnswer(ctx, q.SessionID, answers)
		if err != nil {
			return domain.Report{}, err
		}
		if outcome.Next == nil {
			break
		}
		q = *outcome.Next
	}

	rep, err := quiz.Finish(ctx, q.SessionID)
	if err != nil {
		return domain.Report{}, err
	}
	fmt.Fprintln(out)
	fmt.Fprint(out, RenderReport(rep, opts.Locale, opts.NoColor))
	return rep, nil
}

// readAnswers prompts for each slot. It reports quit on QuitCommand or end of input.
func readAnswers(lines *bufio.Scanner, out io.Writer, p prompts, slots int) ([]string, bool) {
	answers := make([]string, slots)
	for i := range answers {
		fmt.Fprintf(out, p.slot, i+1)
		if !lines.Scan() {
			fmt.Fprintln(out)
			return nil, true
		}
		line := strings.TrimSpace(lines.Text())
		if line == QuitCommand {
			return nil, true
		}
		answers[i] = line
	}
	return answers, false
}
