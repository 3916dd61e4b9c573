package cli

import (
	"errors"
	"fmt"

	"github.com/amirbrooks/promemoria/internal/store"
)

const datePrompt = "Due date (DD/MM/YY): "

// Interactive runs the main menu until the user saves and exits or input
// ends. Ending input discards unsaved changes.
func (a *App) Interactive() error {
	for {
		banner(a.out, "Promemoria")
		fmt.Fprintln(a.out, "  1. Modify reminders")
		fmt.Fprintln(a.out, "  2. View tasks")
		fmt.Fprintln(a.out, "  3. Save and exit")
		choice, err := a.prompt.choice("> ", 3)
		if errors.Is(err, errTooManyAttempts) {
			continue
		}
		if err != nil {
			return a.leave(err)
		}

		switch choice {
		case 1:
			err = a.modifyMenu()
		case 2:
			err = a.viewMenu()
		case 3:
			if err := a.Save(); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Saved. Goodbye.")
			return nil
		}
		if err != nil {
			return a.leave(err)
		}
	}
}

func (a *App) leave(err error) error {
	if !errors.Is(err, errInputClosed) {
		return err
	}
	if a.dirty {
		a.log.Warn("input closed, unsaved changes discarded")
	}
	return nil
}

// settle turns recoverable action errors into a message and keeps the menu
// running. Input errors and I/O failures propagate.
func (a *App) settle(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, errTooManyAttempts):
		fmt.Fprintln(a.out, "Too many invalid attempts, back to the menu.")
		return nil
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, store.ErrDuplicate),
		errors.Is(err, store.ErrAmbiguous),
		errors.Is(err, store.ErrInvalidDate),
		errors.Is(err, store.ErrEmptyInput),
		errors.Is(err, store.ErrAlreadyCompleted):
		a.log.Debug("action rejected", "err", err)
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return nil
	default:
		return err
	}
}

func (a *App) modifyMenu() error {
	for {
		banner(a.out, "Modify reminders")
		fmt.Fprintln(a.out, "  1. Add a task")
		fmt.Fprintln(a.out, "  2. Delete a task")
		fmt.Fprintln(a.out, "  3. Modify a task")
		fmt.Fprintln(a.out, "  4. Mark a task as done")
		fmt.Fprintln(a.out, "  5. Back")
		choice, err := a.prompt.choice("> ", 5)
		if err != nil {
			if err := a.settle(err); err != nil {
				return err
			}
			continue
		}

		switch choice {
		case 1:
			err = a.addTask()
		case 2:
			err = a.deleteTask()
		case 3:
			err = a.modifyTask()
		case 4:
			err = a.markTask()
		case 5:
			return nil
		}
		if err := a.settle(err); err != nil {
			return err
		}
	}
}

func (a *App) viewMenu() error {
	for {
		banner(a.out, "View tasks")
		fmt.Fprintln(a.out, "  1. List all tasks")
		fmt.Fprintln(a.out, "  2. Search tasks")
		fmt.Fprintln(a.out, "  3. Notifications")
		fmt.Fprintln(a.out, "  4. Back")
		choice, err := a.prompt.choice("> ", 4)
		if err != nil {
			if err := a.settle(err); err != nil {
				return err
			}
			continue
		}

		switch choice {
		case 1:
			a.render.listing(a.out, a.repo.Listing())
		case 2:
			err = a.searchTasks()
		case 3:
			a.render.notifications(a.out, store.Classify(a.repo))
		case 4:
			return nil
		}
		if err := a.settle(err); err != nil {
			return err
		}
	}
}

func (a *App) addTask() error {
	a.render.listing(a.out, a.repo.Listing())
	for attempt := 1; ; attempt++ {
		category, err := a.prompt.name("Category: ")
		if err != nil {
			return err
		}
		name, err := a.prompt.name("Task name: ")
		if err != nil {
			return err
		}
		date, err := a.prompt.date(datePrompt)
		if err != nil {
			return err
		}

		err = a.repo.Add(category, store.NewTask(name, date))
		if errors.Is(err, store.ErrDuplicate) {
			a.log.Debug("add rejected", "task", name, "date", date, "err", err)
			fmt.Fprintln(a.out, "Two tasks with the same name cannot share a due date.")
			if a.cfg.MaxAttempts > 0 && attempt >= a.cfg.MaxAttempts {
				return errTooManyAttempts
			}
			continue
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Added %q to %s.\n", name, category)
		return a.changed()
	}
}

// selectTask searches by name and narrows the hits to one task, asking for a
// due date when several match. ok is false when nothing was selected.
func (a *App) selectTask() (category string, task store.Task, ok bool, err error) {
	a.render.listing(a.out, a.repo.Listing())
	query, err := a.prompt.line("Task name: ")
	if err != nil {
		return "", store.Task{}, false, err
	}
	query = capitalize(query)
	results := a.repo.Search(query)
	if results.Empty() {
		fmt.Fprintln(a.out, "No task found.")
		return "", store.Task{}, false, nil
	}

	task, err = store.SelectOne(results, query, "")
	var conflict *store.MatchConflictError
	if errors.As(err, &conflict) {
		fmt.Fprintln(a.out, "Several tasks match, specify the due date.")
		a.render.listing(a.out, store.List(results))
		stillAmbiguous := false
		err = a.prompt.retry(datePrompt, func(raw string) error {
			t, err := store.SelectOne(results, query, raw)
			if errors.As(err, &conflict) {
				stillAmbiguous = true
				return nil
			}
			if err != nil {
				return err
			}
			task = t
			return nil
		})
		if err == nil && stillAmbiguous {
			fmt.Fprintln(a.out, "Still ambiguous, refine the search.")
			return "", store.Task{}, false, nil
		}
	}
	if err != nil {
		return "", store.Task{}, false, err
	}

	category, _ = results.CategoryOf(task.Key())
	fmt.Fprintln(a.out, "Task found:")
	a.render.listing(a.out, []store.Listing{{
		Category: category,
		Entries:  []store.ListEntry{{Index: 1, Task: task}},
	}})
	return category, task, true, nil
}

func (a *App) deleteTask() error {
	category, task, ok, err := a.selectTask()
	if err != nil || !ok {
		return err
	}
	yes, err := a.prompt.confirm(fmt.Sprintf("Delete %q from %s?", task.Name, category))
	if err != nil {
		return err
	}
	if !yes {
		fmt.Fprintln(a.out, "Nothing deleted.")
		return nil
	}
	if !a.repo.Remove(task.Key()) {
		return fmt.Errorf("%w: %s", store.ErrNotFound, task.Key())
	}
	fmt.Fprintln(a.out, "Task deleted.")
	return a.changed()
}

func (a *App) modifyTask() error {
	_, task, ok, err := a.selectTask()
	if err != nil || !ok {
		return err
	}
	fmt.Fprintln(a.out, "What do you want to change?")
	fmt.Fprintln(a.out, "  1. Name")
	fmt.Fprintln(a.out, "  2. Due date")
	fmt.Fprintln(a.out, "  3. Both")
	fmt.Fprintln(a.out, "  4. Cancel")
	choice, err := a.prompt.choice("> ", 4)
	if err != nil {
		return err
	}
	if choice == 4 {
		fmt.Fprintln(a.out, "Nothing changed.")
		return nil
	}

	var newName, newDate string
	if choice == 1 || choice == 3 {
		if newName, err = a.prompt.name("New name: "); err != nil {
			return err
		}
	}
	if choice == 2 || choice == 3 {
		if newDate, err = a.prompt.date("New " + datePrompt); err != nil {
			return err
		}
	}
	yes, err := a.prompt.confirm(fmt.Sprintf("Apply the change to %q?", task.Name))
	if err != nil {
		return err
	}
	if !yes {
		fmt.Fprintln(a.out, "Nothing changed.")
		return nil
	}

	if err := a.repo.Update(task.Key(), newName, newDate); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			a.log.Debug("modify rejected", "task", task.Key(), "err", err)
			fmt.Fprintln(a.out, "Two tasks with the same name cannot share a due date.")
			return nil
		}
		return err
	}
	fmt.Fprintln(a.out, "Task updated.")
	return a.changed()
}

func (a *App) markTask() error {
	_, task, ok, err := a.selectTask()
	if err != nil || !ok {
		return err
	}

	if a.cfg.ToggleCompletion {
		yes, err := a.prompt.confirm(fmt.Sprintf("Toggle completion of %q?", task.Name))
		if err != nil || !yes {
			return err
		}
		done, err := a.repo.ToggleComplete(task.Key())
		if err != nil {
			return err
		}
		if done {
			fmt.Fprintln(a.out, "Task marked as done.")
		} else {
			fmt.Fprintln(a.out, "Task marked as not done.")
		}
		return a.changed()
	}

	if task.Completed {
		fmt.Fprintln(a.out, "This task is already completed.")
		return nil
	}
	yes, err := a.prompt.confirm(fmt.Sprintf("Mark %q as done?", task.Name))
	if err != nil || !yes {
		return err
	}
	if err := a.repo.Complete(task.Key()); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Task marked as done.")
	return a.changed()
}

func (a *App) searchTasks() error {
	query, err := a.prompt.line("Search: ")
	if err != nil {
		return err
	}
	results := a.repo.Search(capitalize(query))
	if results.Empty() {
		fmt.Fprintln(a.out, "No task found.")
		return nil
	}
	a.render.listing(a.out, store.List(results))
	return nil
}
