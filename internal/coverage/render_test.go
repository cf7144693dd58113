package coverage

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/bradlipovsky/file-org/internal/model"
)

func TestWriteReportFormat(t *testing.T) {
	report := model.Report{
		Percent: 91.67,
		Gaps: []model.Gap{
			{Date: day(t, "2023-11-02"), Missing: 240},
		},
	}
	var buf bytes.Buffer
	if err := WriteReport(&buf, report); err != nil {
		t.Fatalf("WriteReport failed: %v", err)
	}
	want := "Data Gaps:\n2023-11-02 240 files missing\nPercent Completeness: 91.67%\n"
	if buf.String() != want {
		t.Fatalf("unexpected report:\n%q\nwant:\n%q", buf.String(), want)
	}
}

func TestWriteReportNoGaps(t *testing.T) {
	report := model.Report{Percent: 100.00}
	var buf bytes.Buffer
	if err := WriteReport(&buf, report); err != nil {
		t.Fatalf("WriteReport failed: %v", err)
	}
	want := "Data Gaps:\nPercent Completeness: 100.00%\n"
	if buf.String() != want {
		t.Fatalf("unexpected report:\n%q\nwant:\n%q", buf.String(), want)
	}
}

func TestWriteReportEmptyInput(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteReport(&buf, model.Report{}); err != nil {
		t.Fatalf("WriteReport failed: %v", err)
	}
	want := "Data Gaps:\nPercent Completeness: 0.00%\n"
	if buf.String() != want {
		t.Fatalf("unexpected report:\n%q\nwant:\n%q", buf.String(), want)
	}
}

func TestCompletenessSparkline(t *testing.T) {
	got := CompletenessSparkline([]float64{0, 50, 100})
	if got != " +@" {
		t.Fatalf("unexpected sparkline: %q", got)
	}
	if CompletenessSparkline(nil) != "" {
		t.Fatalf("expected empty sparkline for no values")
	}
}

func TestRenderHistory(t *testing.T) {
	runs := []model.RunSummary{
		{
			RunID:         1,
			RanAt:         time.Date(2023, 11, 4, 9, 30, 0, 0, time.UTC),
			InputPath:     "/data/file_counts.txt",
			FirstDate:     day(t, "2023-11-01"),
			LastDate:      day(t, "2023-11-03"),
			DaysWalked:    2,
			TotalExpected: 2880,
			TotalObserved: 2640,
			Percent:       91.67,
			GapDays:       1,
		},
		{
			RunID:         2,
			RanAt:         time.Date(2023, 11, 5, 9, 30, 0, 0, time.UTC),
			InputPath:     "/data/file_counts.txt",
			FirstDate:     day(t, "2023-11-01"),
			LastDate:      day(t, "2023-11-04"),
			DaysWalked:    3,
			TotalExpected: 4320,
			TotalObserved: 4320,
			Percent:       100.00,
			GapDays:       0,
		},
	}
	var buf bytes.Buffer
	if err := RenderHistory(&buf, runs, false); err != nil {
		t.Fatalf("RenderHistory failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Ran At") {
		t.Fatalf("expected table header, got:\n%s", out)
	}
	if !strings.Contains(out, "91.67%") || !strings.Contains(out, "100.00%") {
		t.Fatalf("expected completeness columns, got:\n%s", out)
	}
	if !strings.Contains(out, "Completeness trend: ") {
		t.Fatalf("expected trend sparkline, got:\n%s", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("expected no ANSI escapes without color, got:\n%q", out)
	}
}

func TestRenderHistoryEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderHistory(&buf, nil, false); err != nil {
		t.Fatalf("RenderHistory failed: %v", err)
	}
	if buf.String() != "No recorded runs.\n" {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}
