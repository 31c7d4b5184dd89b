// Package terminal plays the quiz on a line-oriented terminal and renders the results table.
package terminal

import (
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"jleague-quiz/internal/domain"
	"jleague-quiz/internal/report"
)

// ColorEnabled reports whether f is a terminal that should receive styled output.
func ColorEnabled(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// RenderReport renders the title, total score line, results table and share text.
func RenderReport(rep domain.Report, locale report.Locale, noColor bool) string {
	labels := report.LabelsFor(locale)

	var b strings.Builder
	b.WriteString(stylize(labels.Title, noColor, lipgloss.Color("33")))
	b.WriteString("\n")
	b.WriteString(renderTotal(rep, labels))
	b.WriteString("\n\n")
	if len(rep.Results) > 0 {
		b.WriteString(resultsTable(rep, labels, noColor).View())
		b.WriteString("\n\n")
	}
	b.WriteString(stylize(strings.TrimRight(rep.ShareText, "\n"), noColor, lipgloss.Color("242")))
	b.WriteString("\n")
	return b.String()
}

// renderTotal renders "総合スコア: c/t (xx.xx%)".
func renderTotal(rep domain.Report, labels report.Labels) string {
	return labels.Total + ": " + fmtInt(rep.Tally.Correct) + "/" + fmtInt(rep.Tally.Total) +
		" (" + report.FormatAccuracy(rep.Tally) + ")"
}

// resultsTable builds a static table with one row per answer slot.
func resultsTable(rep domain.Report, labels report.Labels, noColor bool) table.Model {
	rows := reportRows(rep, labels)
	headers := []string{labels.Prefecture, labels.Correct, labels.Answer, labels.Result}
	columns := make([]table.Column, len(headers))
	for i, h := range headers {
		width := lipgloss.Width(h)
		for _, row := range rows {
			if w := lipgloss.Width(row[i]); w > width {
				width = w
			}
		}
		columns[i] = table.Column{Title: h, Width: width}
	}
	return table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(len(rows)+2),
		table.WithStyles(tableStyles(noColor)),
	)
}

// tableStyles returns table styles without a highlighted cursor row.
func tableStyles(noColor bool) table.Styles {
	styles := table.DefaultStyles()
	styles.Selected = lipgloss.NewStyle()
	if noColor {
		styles.Header = styles.Header.UnsetBold()
		return styles
	}
	styles.Header = styles.Header.Foreground(lipgloss.Color("252"))
	return styles
}

// reportRows flattens results into table rows; the prefecture is shown on its first slot only.
func reportRows(rep domain.Report, labels report.Labels) []table.Row {
	var rows []table.Row
	for _, r := range rep.Results {
		for i, team := range r.CorrectAnswers {
			prefecture := ""
			if i == 0 {
				prefecture = r.Prefecture
			}
			answer := labels.Unanswered
			if i < len(r.UserAnswers) && strings.TrimSpace(r.UserAnswers[i]) != "" {
				answer = r.UserAnswers[i]
			}
			verdict := labels.Wrong
			if i < len(r.Results) && r.Results[i] {
				verdict = labels.Right
			}
			rows = append(rows, table.Row{prefecture, team, answer, verdict})
		}
	}
	return rows
}

// stylize applies optional color styling.
func stylize(text string, noColor bool, color lipgloss.Color) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}
