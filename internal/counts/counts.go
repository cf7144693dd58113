// Package counts parses daily file-count exports.
package counts

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the calendar-day format used by count exports.
const DateLayout = "2006-01-02"

// ParseError reports a malformed counts-file line.
type ParseError struct {
	Path   string
	Line   int
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s: %q", e.Path, e.Line, e.Reason, e.Text)
}

// Dataset holds parsed day counts and the file-order date range.
// FirstDate and LastDate come from the first and last parsed lines,
// not from chronological order.
type Dataset struct {
	Counts    map[time.Time]int
	FirstDate time.Time
	LastDate  time.Time
}

// Empty reports whether no records were parsed.
func (d Dataset) Empty() bool {
	return len(d.Counts) == 0
}

// Load reads a counts file with one "YYYY-MM-DD <count> ..." record per
// non-empty line. Only the first two tokens of each line are consulted;
// duplicate dates overwrite earlier ones. A malformed date or count fails
// the whole load with a ParseError rather than being coerced to zero.
func Load(path string) (Dataset, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Dataset{}, err
	}
	if !info.Mode().IsRegular() {
		return Dataset{}, fmt.Errorf("not a regular file: %s", path)
	}
	file, err := os.Open(path)
	if err != nil {
		return Dataset{}, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only counts file.
			_ = cerr
		}
	}()

	ds := Dataset{Counts: map[time.Time]int{}}
	seen := false
	lineNum := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return Dataset{}, &ParseError{Path: path, Line: lineNum, Text: line, Reason: "expected date and count"}
		}
		date, err := time.Parse(DateLayout, fields[0])
		if err != nil {
			return Dataset{}, &ParseError{Path: path, Line: lineNum, Text: line, Reason: "invalid date"}
		}
		count, err := strconv.Atoi(fields[1])
		if err != nil || count < 0 {
			return Dataset{}, &ParseError{Path: path, Line: lineNum, Text: line, Reason: "count must be a non-negative integer"}
		}
		ds.Counts[date] = count
		if !seen {
			ds.FirstDate = date
			seen = true
		}
		ds.LastDate = date
	}
	if err := scanner.Err(); err != nil {
		return Dataset{}, fmt.Errorf("failed to read counts file: %w", err)
	}
	return ds, nil
}
