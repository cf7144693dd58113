package coverage

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Ran At", "Days", "Complete"}
	rows := [][]string{
		{"2023-11-01 12:00", "2", "91.67%"},
		{"2023-11-02 12:00", "31", "100.00%"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Ran At           Days Complete" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "2023-11-01 12:00    2   91.67%" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "2023-11-02 12:00   31  100.00%" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableEmpty(t *testing.T) {
	if lines := formatTable(nil, nil, nil); lines != nil {
		t.Fatalf("expected nil for empty table, got %v", lines)
	}
}
