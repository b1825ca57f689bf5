package app

import "github.com/evanschultz/todomirror/internal/domain"

// Effect is one side effect requested by Reconcile. The Executor performs it.
type Effect interface {
	isEffect()
}

// FetchTasks reads the full remote collection.
type FetchTasks struct{}

// CreateTask sends one creation request.
type CreateTask struct {
	Draft domain.TaskDraft
}

// UpdateTask sends one full-record update. Op is OpToggle or OpRename.
type UpdateTask struct {
	Op   Op
	Task domain.Task
}

// DeleteTask sends one deletion request.
type DeleteTask struct {
	ID int64
}

// LoadPreferences reads the persisted display preference.
type LoadPreferences struct{}

// SavePreferences writes the display preference.
type SavePreferences struct {
	DarkMode bool
}

// Report surfaces a failed or rejected operation on the diagnostic channel.
type Report struct {
	Op       Op
	TaskID   int64
	Err      error
	Rejected bool
}

func (FetchTasks) isEffect()      {}
func (CreateTask) isEffect()      {}
func (UpdateTask) isEffect()      {}
func (DeleteTask) isEffect()      {}
func (LoadPreferences) isEffect() {}
func (SavePreferences) isEffect() {}
func (Report) isEffect()          {}
