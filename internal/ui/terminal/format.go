package terminal

import (
	"fmt"
	"strconv"

	"jleague-quiz/internal/domain"
	"jleague-quiz/internal/report"
)

// fmtInt formats integers for display.
func fmtInt(value int) string {
	return strconv.Itoa(value)
}

type prompts struct {
	header  string
	slots   string
	slot    string
	hint    string
	aborted string
}

func promptsFor(locale report.Locale) prompts {
	if locale == report.English {
		return prompts{
			header:  "Question %d / %d",
			slots:   "Teams: %d",
			slot:    "Team %d: ",
			hint:    "(enter :q to finish early)",
			aborted: "Finishing early.",
		}
	}
	return prompts{
		header:  "問題 %d / %d",
		slots:   "チーム数: %d",
		slot:    "チーム %d: ",
		hint:    "(:q で途中終了)",
		aborted: "途中で終了します。",
	}
}

func (p prompts) questionHeader(q domain.Question) string {
	return fmt.Sprintf(p.header, q.Number, q.Total)
}
