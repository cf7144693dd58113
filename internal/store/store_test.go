package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/bradlipovsky/file-org/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "das-report.db")
	st, err := Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func testRun(ranAt time.Time, percent float64) model.RunSummary {
	return model.RunSummary{
		RanAt:         ranAt,
		InputPath:     "/data/file_counts.txt",
		FirstDate:     time.Date(2023, 11, 1, 0, 0, 0, 0, time.UTC),
		LastDate:      time.Date(2023, 11, 3, 0, 0, 0, 0, time.UTC),
		DaysWalked:    2,
		TotalExpected: 2880,
		TotalObserved: 2640,
		Percent:       percent,
		GapDays:       1,
	}
}

func TestInsertAndListRuns(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	base := time.Unix(0, 0).UTC()
	var ids []int64
	for i := 0; i < 3; i++ {
		id, err := st.InsertRun(ctx, testRun(base.Add(time.Duration(i)*time.Hour), 90+float64(i)))
		if err != nil {
			t.Fatalf("insert run: %v", err)
		}
		ids = append(ids, id)
	}

	runs, err := st.ListRuns(ctx, model.HistoryConfig{})
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}
	for i, run := range runs {
		if run.RunID != ids[i] {
			t.Fatalf("unexpected run order: %+v", runs)
		}
	}
	first := runs[0]
	if first.InputPath != "/data/file_counts.txt" {
		t.Fatalf("unexpected input path: %q", first.InputPath)
	}
	if !first.FirstDate.Equal(time.Date(2023, 11, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected first date: %v", first.FirstDate)
	}
	if first.DaysWalked != 2 || first.TotalExpected != 2880 || first.TotalObserved != 2640 {
		t.Fatalf("unexpected aggregates: %+v", first)
	}
	if first.Percent != 90 || first.GapDays != 1 {
		t.Fatalf("unexpected summary fields: %+v", first)
	}
}

func TestListRunsSinceFilter(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	base := time.Unix(0, 0).UTC()
	for i := 0; i < 3; i++ {
		if _, err := st.InsertRun(ctx, testRun(base.Add(time.Duration(i)*time.Hour), 95)); err != nil {
			t.Fatalf("insert run: %v", err)
		}
	}

	since := base.Add(90 * time.Minute)
	runs, err := st.ListRuns(ctx, model.HistoryConfig{Since: &since})
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run after since filter, got %d", len(runs))
	}
	if runs[0].RanAt.Before(since) {
		t.Fatalf("run before since filter: %v", runs[0].RanAt)
	}
}

func TestOpenReusesExistingDatabase(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "das-report.db")

	st, err := Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	ctx := context.Background()
	if _, err := st.InsertRun(ctx, testRun(time.Unix(0, 0).UTC(), 99)); err != nil {
		t.Fatalf("insert run: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	st, err = Open(dbPath)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	runs, err := st.ListRuns(ctx, model.HistoryConfig{})
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected persisted run after reopen, got %d", len(runs))
	}
}
