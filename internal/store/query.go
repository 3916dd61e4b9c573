package store

import (
	"fmt"
	"strings"
)

// SearchResult is the ordered subset of categories holding matching tasks.
// Categories without hits are omitted, so an empty result means no match.
type SearchResult []Category

func (s SearchResult) Empty() bool {
	return len(s) == 0
}

// Count returns the number of matching tasks.
func (s SearchResult) Count() int {
	n := 0
	for _, c := range s {
		n += len(c.Tasks)
	}
	return n
}

// CategoryOf returns the category holding the task identified by k.
func (s SearchResult) CategoryOf(k Key) (string, bool) {
	for _, c := range s {
		for _, t := range c.Tasks {
			if t.matches(k) {
				return c.Name, true
			}
		}
	}
	return "", false
}

// Search filters task names case-insensitively. A single-character query
// matches name prefixes; anything longer matches substrings.
func (r *Repository) Search(query string) SearchResult {
	q := strings.ToLower(query)
	if strings.TrimSpace(q) == "" {
		return nil
	}
	var out SearchResult
	for _, c := range r.categories {
		var hits []Task
		for _, t := range c.Tasks {
			if nameMatches(strings.ToLower(t.Name), q) {
				hits = append(hits, t)
			}
		}
		if len(hits) > 0 {
			out = append(out, Category{Name: c.Name, Tasks: hits})
		}
	}
	return out
}

func nameMatches(name, q string) bool {
	if len([]rune(q)) == 1 {
		return strings.HasPrefix(name, q)
	}
	return strings.Contains(name, q)
}

// SelectOne narrows results to a single task. A lone hit is returned
// directly; otherwise date picks among the hits, with rawQuery breaking a
// tie between hits sharing that date. A blank date on several hits yields
// a *MatchConflictError so the caller can ask for one.
func SelectOne(results SearchResult, rawQuery, date string) (Task, error) {
	if results.Empty() {
		return Task{}, fmt.Errorf("%w: no task matches %q", ErrNotFound, rawQuery)
	}
	if len(results) == 1 && len(results[0].Tasks) == 1 {
		return results[0].Tasks[0], nil
	}
	if strings.TrimSpace(date) == "" {
		return Task{}, &MatchConflictError{Reason: fmt.Sprintf("%d tasks match %q", results.Count(), rawQuery), Matches: results}
	}
	date, err := ParseDate(date)
	if err != nil {
		return Task{}, err
	}
	var onDate []Task
	for _, c := range results {
		for _, t := range c.Tasks {
			if t.Date == date {
				onDate = append(onDate, t)
			}
		}
	}
	switch len(onDate) {
	case 0:
		return Task{}, fmt.Errorf("%w: no match for %q on %s", ErrNotFound, rawQuery, date)
	case 1:
		return onDate[0], nil
	}
	want := strings.ToLower(strings.TrimSpace(rawQuery))
	for _, t := range onDate {
		if strings.ToLower(t.Name) == want {
			return t, nil
		}
	}
	var narrowed SearchResult
	for _, c := range results {
		var hits []Task
		for _, t := range c.Tasks {
			if t.Date == date {
				hits = append(hits, t)
			}
		}
		if len(hits) > 0 {
			narrowed = append(narrowed, Category{Name: c.Name, Tasks: hits})
		}
	}
	return Task{}, &MatchConflictError{Reason: fmt.Sprintf("%d tasks match %q on %s", len(onDate), rawQuery, date), Matches: narrowed}
}
