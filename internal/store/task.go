package store

import "strings"

// Task is a named, dated, completable unit of work.
type Task struct {
	Name      string `json:"name" yaml:"name"`
	Date      string `json:"date" yaml:"date"`
	Completed bool   `json:"completed" yaml:"completed"`
}

// Key is the identity of a task. It is unique across the whole repository.
type Key struct {
	Name string
	Date string
}

func NewTask(name, date string) Task {
	return Task{Name: name, Date: date}
}

func (t Task) Key() Key {
	return Key{Name: t.Name, Date: t.Date}
}

// MarkComplete sets the completion flag unconditionally.
func (t *Task) MarkComplete() {
	t.Completed = true
}

func (t Task) matches(k Key) bool {
	return t.Name == k.Name && t.Date == k.Date
}

func (k Key) String() string {
	if strings.TrimSpace(k.Date) == "" {
		return k.Name
	}
	return k.Name + " (" + k.Date + ")"
}

// Category is a named, ordered bucket of tasks.
type Category struct {
	Name  string `json:"name" yaml:"name"`
	Tasks []Task `json:"tasks" yaml:"tasks"`
}

func (c Category) clone() Category {
	tasks := make([]Task, len(c.Tasks))
	copy(tasks, c.Tasks)
	return Category{Name: c.Name, Tasks: tasks}
}
