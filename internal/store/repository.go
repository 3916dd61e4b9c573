package store

import (
	"fmt"
	"strings"
)

// Repository owns every category and task. It is not safe for concurrent
// use; a single interactive session drives it.
type Repository struct {
	categories []Category
}

// NewRepository returns a repository holding only the empty default categories.
func NewRepository() *Repository {
	r := &Repository{}
	r.ensureDefaults()
	return r
}

func (r *Repository) ensureDefaults() {
	var missing []Category
	for _, name := range DefaultCategories {
		if r.categoryIndex(name) < 0 {
			missing = append(missing, Category{Name: name})
		}
	}
	if len(missing) > 0 {
		r.categories = append(missing, r.categories...)
	}
}

func (r *Repository) categoryIndex(name string) int {
	for i, c := range r.categories {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// index locates the first task with identity k in category order.
func (r *Repository) index(k Key) (int, int) {
	for ci, c := range r.categories {
		for ti, t := range c.Tasks {
			if t.matches(k) {
				return ci, ti
			}
		}
	}
	return -1, -1
}

func (r *Repository) indexByName(name string) (int, int) {
	for ci, c := range r.categories {
		for ti, t := range c.Tasks {
			if t.Name == name {
				return ci, ti
			}
		}
	}
	return -1, -1
}

// Add appends t to category, creating the category if needed. A task with
// the same name and date anywhere in the repository rejects the insert.
func (r *Repository) Add(category string, t Task) error {
	category = strings.TrimSpace(category)
	if category == "" {
		return fmt.Errorf("%w: category is required", ErrEmptyInput)
	}
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return fmt.Errorf("%w: name is required", ErrEmptyInput)
	}
	date, err := ParseDate(t.Date)
	if err != nil {
		return err
	}
	t.Date = date
	if ci, _ := r.index(t.Key()); ci >= 0 {
		return fmt.Errorf("%w: %s already exists in %s", ErrDuplicate, t.Key(), r.categories[ci].Name)
	}
	if ci := r.categoryIndex(category); ci >= 0 {
		r.categories[ci].Tasks = append(r.categories[ci].Tasks, t)
		return nil
	}
	r.categories = append(r.categories, Category{Name: category, Tasks: []Task{t}})
	return nil
}

// Remove deletes the first task matching k. An emptied non-default
// category is dropped. It reports whether anything was removed.
func (r *Repository) Remove(k Key) bool {
	ci, ti := r.index(k)
	if ci < 0 {
		return false
	}
	c := &r.categories[ci]
	c.Tasks = append(c.Tasks[:ti], c.Tasks[ti+1:]...)
	if len(c.Tasks) == 0 && !IsDefaultCategory(c.Name) {
		r.categories = append(r.categories[:ci], r.categories[ci+1:]...)
	}
	return true
}

// Rename changes the first task named oldName. Blank newName or newDate
// keep the current value.
func (r *Repository) Rename(oldName, newName, newDate string) error {
	ci, ti := r.indexByName(oldName)
	if ci < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, oldName)
	}
	return r.modify(ci, ti, newName, newDate)
}

// Update is Rename with the target resolved by full identity.
func (r *Repository) Update(k Key, newName, newDate string) error {
	ci, ti := r.index(k)
	if ci < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, k)
	}
	return r.modify(ci, ti, newName, newDate)
}

func (r *Repository) modify(ci, ti int, newName, newDate string) error {
	cur := r.categories[ci].Tasks[ti].Key()
	next := cur
	if name := strings.TrimSpace(newName); name != "" {
		next.Name = name
	}
	if strings.TrimSpace(newDate) != "" {
		date, err := ParseDate(newDate)
		if err != nil {
			return err
		}
		next.Date = date
	}
	if next == cur {
		return nil
	}
	if c2, _ := r.index(next); c2 >= 0 {
		return fmt.Errorf("%w: %s already exists in %s", ErrDuplicate, next, r.categories[c2].Name)
	}
	t := &r.categories[ci].Tasks[ti]
	t.Name = next.Name
	t.Date = next.Date
	return nil
}

// MarkComplete completes the first task named name. Rejecting a task that is
// already completed is up to the caller.
func (r *Repository) MarkComplete(name string) error {
	ci, ti := r.indexByName(name)
	if ci < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	r.categories[ci].Tasks[ti].MarkComplete()
	return nil
}

// Complete marks the task identified by k, refusing one that is already done.
func (r *Repository) Complete(k Key) error {
	ci, ti := r.index(k)
	if ci < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, k)
	}
	t := &r.categories[ci].Tasks[ti]
	if t.Completed {
		return fmt.Errorf("%w: %s", ErrAlreadyCompleted, k)
	}
	t.MarkComplete()
	return nil
}

// ToggleComplete flips the completion flag of k and returns the new value.
func (r *Repository) ToggleComplete(k Key) (bool, error) {
	ci, ti := r.index(k)
	if ci < 0 {
		return false, fmt.Errorf("%w: %s", ErrNotFound, k)
	}
	t := &r.categories[ci].Tasks[ti]
	t.Completed = !t.Completed
	return t.Completed, nil
}

// Find returns the category and a copy of the task identified by k.
func (r *Repository) Find(k Key) (string, Task, bool) {
	ci, ti := r.index(k)
	if ci < 0 {
		return "", Task{}, false
	}
	return r.categories[ci].Name, r.categories[ci].Tasks[ti], true
}

// Categories returns a copy of every category in order.
func (r *Repository) Categories() []Category {
	out := make([]Category, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, c.clone())
	}
	return out
}

func (r *Repository) CategoryNames() []string {
	out := make([]string, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, c.Name)
	}
	return out
}

// Len returns the number of tasks across all categories.
func (r *Repository) Len() int {
	n := 0
	for _, c := range r.categories {
		n += len(c.Tasks)
	}
	return n
}

// Listing numbers the tasks of the whole repository for display.
func (r *Repository) Listing() []Listing {
	return List(r.categories)
}

// ListEntry is one numbered line of a listing.
type ListEntry struct {
	Index int
	Task  Task
}

type Listing struct {
	Category string
	Entries  []ListEntry
}

// List numbers each category's tasks: incomplete ones first, then completed
// ones, both in list order, with one counter shared by the two passes.
func List(categories []Category) []Listing {
	out := make([]Listing, 0, len(categories))
	for _, c := range categories {
		l := Listing{Category: c.Name, Entries: make([]ListEntry, 0, len(c.Tasks))}
		n := 0
		for _, t := range c.Tasks {
			if !t.Completed {
				n++
				l.Entries = append(l.Entries, ListEntry{Index: n, Task: t})
			}
		}
		for _, t := range c.Tasks {
			if t.Completed {
				n++
				l.Entries = append(l.Entries, ListEntry{Index: n, Task: t})
			}
		}
		out = append(out, l)
	}
	return out
}
