// Package coverage computes data-completeness reports over daily file counts.
package coverage

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/bradlipovsky/file-org/internal/counts"
	"github.com/bradlipovsky/file-org/internal/model"
)

const (
	defaultPlotHeight = 8
	minPlotWidth      = 16
	fallbackTermWidth = 80
	plotFillChar      = '#'
	plotEmptyChar     = ' '
)

// RenderDailyPlot draws the observed file count for each walked day as a
// vertical bar chart, scaled against the larger of expectedPerDay and the
// highest observed count. A width of 0 sizes the chart to the terminal;
// ranges wider than the chart are averaged into buckets.
func RenderDailyPlot(w io.Writer, report model.Report, expectedPerDay, width, height int) error {
	if len(report.Daily) == 0 {
		_, err := fmt.Fprintln(w, "No walked days to plot.")
		return err
	}
	if height <= 0 {
		height = defaultPlotHeight
	}

	top := float64(expectedPerDay)
	minObserved := report.Daily[0].Count
	maxObserved := report.Daily[0].Count
	for _, day := range report.Daily {
		if float64(day.Count) > top {
			top = float64(day.Count)
		}
		if day.Count < minObserved {
			minObserved = day.Count
		}
		if day.Count > maxObserved {
			maxObserved = day.Count
		}
	}
	if top <= 0 {
		top = 1
	}

	topLabel := strconv.Itoa(int(top))
	gutter := len(topLabel)
	if width <= 0 {
		width = autoPlotWidth()
	}
	plotWidth := width - gutter - 2
	if plotWidth < minPlotWidth {
		plotWidth = minPlotWidth
	}
	if plotWidth > len(report.Daily) {
		plotWidth = len(report.Daily)
	}

	cols := resampleDaily(report.Daily, plotWidth)
	levels := make([]int, len(cols))
	for i, v := range cols {
		levels[i] = int(math.Round(v / top * float64(height)))
	}

	for row := height; row >= 1; row-- {
		label := ""
		if row == height {
			label = topLabel
		}
		var b strings.Builder
		for _, level := range levels {
			if level >= row {
				b.WriteByte(plotFillChar)
			} else {
				b.WriteByte(plotEmptyChar)
			}
		}
		if _, err := fmt.Fprintf(w, "%*s |%s\n", gutter, label, b.String()); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "%*s +%s\n", gutter, "0", strings.Repeat("-", len(cols))); err != nil {
		return err
	}

	first := report.Daily[0].Date.Format(counts.DateLayout)
	last := report.Daily[len(report.Daily)-1].Date.Format(counts.DateLayout)
	if _, err := fmt.Fprintf(w, "%s .. %s (%d days)\n", first, last, len(report.Daily)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "expected %d files/day; observed min %d, max %d\n", expectedPerDay, minObserved, maxObserved); err != nil {
		return err
	}
	return nil
}

func resampleDaily(daily []model.DailyCount, width int) []float64 {
	if width <= 0 || len(daily) == 0 {
		return nil
	}
	if width >= len(daily) {
		out := make([]float64, len(daily))
		for i, day := range daily {
			out[i] = float64(day.Count)
		}
		return out
	}
	out := make([]float64, width)
	for i := 0; i < width; i++ {
		start := i * len(daily) / width
		end := (i + 1) * len(daily) / width
		if end <= start {
			end = start + 1
		}
		var sum float64
		for j := start; j < end; j++ {
			sum += float64(daily[j].Count)
		}
		out[i] = sum / float64(end-start)
	}
	return out
}

func autoPlotWidth() int {
	fd := int(os.Stdout.Fd())
	if w, _, err := term.GetSize(fd); err == nil && w > 0 {
		return w
	}
	return fallbackTermWidth
}
