// Package coverage computes data-completeness reports over daily file counts.
package coverage

import (
	"errors"
	"fmt"
	"math"

	"github.com/bradlipovsky/file-org/internal/counts"
	"github.com/bradlipovsky/file-org/internal/model"
)

// DefaultExpectedPerDay is one file per minute over a 24-hour day.
const DefaultExpectedPerDay = 1440

// ErrInvalidDateRange reports that the last record's date precedes the first
// record's date, so the day walk has no chronological range to cover.
var ErrInvalidDateRange = errors.New("last date precedes first date")

// Analyze walks every calendar day from the dataset's first date up to, but
// not including, its last date, and classifies each day against
// expectedPerDay. Days absent from the dataset count as zero observed files.
//
// The final date is excluded from both the gap list and the aggregate. This
// matches the long-standing reporting behavior and downstream consumers
// depend on it; see TestAnalyzeExcludesFinalDay before changing it.
func Analyze(ds counts.Dataset, expectedPerDay int) (model.Report, error) {
	if expectedPerDay <= 0 {
		return model.Report{}, fmt.Errorf("expected per day must be > 0, got %d", expectedPerDay)
	}
	if ds.Empty() {
		return model.Report{}, nil
	}
	if ds.LastDate.Before(ds.FirstDate) {
		return model.Report{}, fmt.Errorf("%w: %s before %s",
			ErrInvalidDateRange,
			ds.LastDate.Format(counts.DateLayout),
			ds.FirstDate.Format(counts.DateLayout))
	}

	report := model.Report{
		FirstDate: ds.FirstDate,
		LastDate:  ds.LastDate,
	}
	for day := ds.FirstDate; !day.Equal(ds.LastDate); day = day.AddDate(0, 0, 1) {
		observed := ds.Counts[day]
		report.DaysWalked++
		report.TotalExpected += expectedPerDay
		report.TotalObserved += observed
		report.Daily = append(report.Daily, model.DailyCount{Date: day, Count: observed})
		if observed < expectedPerDay {
			report.Gaps = append(report.Gaps, model.Gap{Date: day, Missing: expectedPerDay - observed})
		}
	}
	if report.TotalExpected > 0 {
		ratio := float64(report.TotalObserved) / float64(report.TotalExpected)
		report.Percent = math.Round(ratio*10000) / 100
	}
	return report, nil
}
