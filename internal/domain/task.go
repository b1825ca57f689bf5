package domain

import "strings"

// Task is one server-identified unit of work.
type Task struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// TaskDraft is the creation payload for a task the server has not assigned an id to yet.
type TaskDraft struct {
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

func NewTaskDraft(title string) (TaskDraft, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return TaskDraft{}, ErrInvalidTitle
	}
	return TaskDraft{Title: title, Completed: false}, nil
}

// Toggled returns a copy of the task with the completion flag flipped.
func (t Task) Toggled() Task {
	t.Completed = !t.Completed
	return t
}

// Renamed returns a copy of the task carrying the trimmed title.
func (t Task) Renamed(title string) (Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Task{}, ErrInvalidTitle
	}
	t.Title = title
	return t, nil
}

// ValidateCollection checks the id invariants of a server-provided collection.
func ValidateCollection(tasks []Task) error {
	seen := make(map[int64]struct{}, len(tasks))
	for _, task := range tasks {
		if task.ID <= 0 {
			return ErrInvalidID
		}
		if _, ok := seen[task.ID]; ok {
			return ErrDuplicateID
		}
		seen[task.ID] = struct{}{}
	}
	return nil
}

// IndexOf returns the position of the task with id, or -1.
func IndexOf(tasks []Task, id int64) int {
	for idx, task := range tasks {
		if task.ID == id {
			return idx
		}
	}
	return -1
}
