// Package coverage computes data-completeness reports over daily file counts.
package coverage

import (
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bradlipovsky/file-org/internal/counts"
	"github.com/bradlipovsky/file-org/internal/model"
)

const sparkChars = " .:-=+*#%@"

var (
	historyHeaderStyle = lipgloss.NewStyle().Bold(true)
	completeStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	partialStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	gapStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// WriteReport prints the gap report in the line format downstream pipeline
// scripts consume: a header, one line per gap day, and a trailing
// completeness percentage.
func WriteReport(w io.Writer, report model.Report) error {
	if _, err := fmt.Fprintln(w, "Data Gaps:"); err != nil {
		return err
	}
	for _, gap := range report.Gaps {
		if _, err := fmt.Fprintf(w, "%s %d files missing\n", gap.Date.Format(counts.DateLayout), gap.Missing); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "Percent Completeness: %.2f%%\n", report.Percent); err != nil {
		return err
	}
	return nil
}

// CompletenessSparkline renders percentages on a fixed 0-100 scale, one
// character per value.
func CompletenessSparkline(percents []float64) string {
	if len(percents) == 0 {
		return ""
	}
	var b strings.Builder
	for _, p := range percents {
		if p < 0 {
			p = 0
		}
		if p > 100 {
			p = 100
		}
		idx := int(math.Round(p / 100 * float64(len(sparkChars)-1)))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderHistory prints recorded runs as an aligned table followed by a
// completeness trend sparkline.
func RenderHistory(w io.Writer, runs []model.RunSummary, useColor bool) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No recorded runs.")
		return err
	}

	headers := []string{"Ran At", "Input", "First", "Last", "Days", "Observed", "Expected", "Complete", "Gap Days"}
	rows := make([][]string, 0, len(runs))
	percents := make([]float64, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			run.RanAt.Format("2006-01-02 15:04"),
			filepath.Base(run.InputPath),
			run.FirstDate.Format(counts.DateLayout),
			run.LastDate.Format(counts.DateLayout),
			strconv.Itoa(run.DaysWalked),
			strconv.Itoa(run.TotalObserved),
			strconv.Itoa(run.TotalExpected),
			fmt.Sprintf("%.2f%%", run.Percent),
			strconv.Itoa(run.GapDays),
		})
		percents = append(percents, run.Percent)
	}
	rightAlign := map[int]bool{4: true, 5: true, 6: true, 7: true, 8: true}
	lines := formatTable(headers, rows, rightAlign)
	for i, line := range lines {
		if useColor {
			if i == 0 {
				line = historyHeaderStyle.Render(line)
			} else {
				line = severityStyle(runs[i-1].Percent).Render(line)
			}
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "\nCompleteness trend: %s\n", CompletenessSparkline(percents)); err != nil {
		return err
	}
	return nil
}

func severityStyle(percent float64) lipgloss.Style {
	switch {
	case percent >= 100:
		return completeStyle
	case percent >= 90:
		return partialStyle
	default:
		return gapStyle
	}
}
