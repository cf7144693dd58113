// Package model defines shared data structures.
package model

import "time"

// ReportConfig defines settings for a completeness analysis run.
type ReportConfig struct {
	InputPath      string
	ExpectedPerDay int
	Record         bool
}

// HistoryConfig defines filters and options for the history listing.
type HistoryConfig struct {
	Since *time.Time
	Last  int
	Color bool
}

// DailyCount is the observed file count for one calendar day.
type DailyCount struct {
	Date  time.Time
	Count int
}

// Gap describes a day whose observed count fell below the expected count.
type Gap struct {
	Date    time.Time
	Missing int
}

// Report is the result of one completeness analysis.
type Report struct {
	FirstDate     time.Time
	LastDate      time.Time
	DaysWalked    int
	TotalExpected int
	TotalObserved int
	Percent       float64
	Gaps          []Gap
	// Daily holds the observed count for every walked day in
	// chronological order, days absent from the input included as zero.
	Daily []DailyCount
}

// RunSummary is one recorded analysis run.
type RunSummary struct {
	RunID         int64
	RanAt         time.Time
	InputPath     string
	FirstDate     time.Time
	LastDate      time.Time
	DaysWalked    int
	TotalExpected int
	TotalObserved int
	Percent       float64
	GapDays       int
}
