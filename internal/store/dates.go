package store

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Relation places a due date relative to the current day.
type Relation int

const (
	Past Relation = iota - 1
	Today
	Future
)

func (r Relation) String() string {
	switch r {
	case Past:
		return "past"
	case Today:
		return "today"
	case Future:
		return "future"
	default:
		return "unknown"
	}
}

// ParseDate validates a D/M/Y date and returns it as DD/MM/YYYY. The year
// must have 2 or 4 digits; a 2-digit year is read as 20YY. Day and month
// are range checked independently, so 31/02 is accepted.
func ParseDate(raw string) (string, error) {
	day, month, year, err := splitDate(raw, false)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%02d/%02d/%04d", day, month, year), nil
}

// CompareToToday compares a DD/MM/YYYY date with the current local day.
func CompareToToday(date string) (Relation, error) {
	day, month, year, err := splitDate(date, true)
	if err != nil {
		return Today, err
	}
	now := timeNow()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	// time.Date normalises overflow (31/02 becomes early March).
	due := time.Date(year, time.Month(month), day, 0, 0, 0, 0, now.Location())
	switch {
	case due.Equal(today):
		return Today, nil
	case due.After(today):
		return Future, nil
	default:
		return Past, nil
	}
}

func splitDate(raw string, canonical bool) (int, int, int, error) {
	raw = strings.TrimSpace(raw)
	parts := strings.Split(raw, "/")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("%w: %q: expected D/M/Y", ErrInvalidDate, raw)
	}
	for _, p := range parts {
		if !isDigits(p) {
			return 0, 0, 0, fmt.Errorf("%w: %q: not a number", ErrInvalidDate, raw)
		}
	}
	if len(parts[0]) > 2 || len(parts[1]) > 2 {
		return 0, 0, 0, fmt.Errorf("%w: %q: day and month take 1 or 2 digits", ErrInvalidDate, raw)
	}
	day, _ := strconv.Atoi(parts[0])
	month, _ := strconv.Atoi(parts[1])
	year, _ := strconv.Atoi(parts[2])
	switch len(parts[2]) {
	case 2:
		if canonical {
			return 0, 0, 0, fmt.Errorf("%w: %q: expected a 4-digit year", ErrInvalidDate, raw)
		}
		year += 2000
	case 4:
	default:
		return 0, 0, 0, fmt.Errorf("%w: %q: year takes 2 or 4 digits", ErrInvalidDate, raw)
	}
	if day < 1 || day > 31 {
		return 0, 0, 0, fmt.Errorf("%w: %q: day out of range", ErrInvalidDate, raw)
	}
	if month < 1 || month > 12 {
		return 0, 0, 0, fmt.Errorf("%w: %q: month out of range", ErrInvalidDate, raw)
	}
	return day, month, year, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
