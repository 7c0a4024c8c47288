// Package static provides non-interactive terminal output components,
// such as the per-path results table printed after a doctor run.
package static

import (
	"strconv"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/raphi011/doclint/internal/doctor"
	"github.com/raphi011/doclint/internal/ui/styles"
)

// ResultHeaders are the column headers matching ResultRow.
var ResultHeaders = []string{"PATH", "OUTCOME", "ISSUES", "FIXED", "DECLINED", "TIME", "DETAIL"}

// RenderTable creates a formatted table with proper column alignment.
// Column widths follow the content. No borders are rendered.
func RenderTable(headers []string, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	var output strings.Builder

	t := table.New().
		Headers(headers...).
		Rows(rows...).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		BorderRow(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).PaddingRight(2)
			}
			return lipgloss.NewStyle().PaddingRight(2)
		})

	output.WriteString(t.String())
	output.WriteString("\n")

	return output.String()
}

// ResultRow formats one path result as a table row.
func ResultRow(res doctor.PathRunResult) []string {
	detail := res.Reason
	if res.Err != nil {
		detail = res.Err.Error()
	}
	return []string{
		res.Target,
		OutcomeCell(res.Outcome),
		strconv.Itoa(len(res.Diagnostics)),
		strconv.Itoa(len(res.Fixed)),
		strconv.Itoa(len(res.Declined)),
		res.Duration.Round(time.Millisecond).String(),
		detail,
	}
}

// OutcomeCell renders an outcome in its status color.
func OutcomeCell(kind doctor.OutcomeKind) string {
	switch kind {
	case doctor.OutcomeClean, doctor.OutcomeFixedApplied:
		return styles.SuccessStyle.Render(kind.String())
	case doctor.OutcomeFixesDeclined, doctor.OutcomeSkipped:
		return styles.WarningStyle.Render(kind.String())
	case doctor.OutcomeFailed:
		return styles.ErrorStyle.Render(kind.String())
	default:
		return kind.String()
	}
}
