package app

import "github.com/evanschultz/todomirror/internal/domain"

// Action is one input to Reconcile: a user intent or the completion of an effect.
type Action interface {
	isAction()
}

// LoadRequested asks for the full remote collection.
type LoadRequested struct{}

// LoadCompleted carries the fetched collection.
type LoadCompleted struct {
	Tasks []domain.Task
	Err   error
}

// InputChanged tracks the new-task input field.
type InputChanged struct {
	Text string
}

// CreateRequested asks the remote to create a task titled Title.
type CreateRequested struct {
	Title string
}

// CreateCompleted carries the server-created record.
type CreateCompleted struct {
	Task domain.Task
	Err  error
}

// ToggleRequested flips the completion flag of one task.
type ToggleRequested struct {
	ID int64
}

// ToggleCompleted carries the server record after a toggle.
type ToggleCompleted struct {
	ID   int64
	Task domain.Task
	Err  error
}

// DeleteRequested asks the remote to delete one task.
type DeleteRequested struct {
	ID int64
}

// DeleteCompleted confirms or fails one deletion.
type DeleteCompleted struct {
	ID  int64
	Err error
}

// EditBegan opens the edit session for one task, replacing any other.
type EditBegan struct {
	ID           int64
	CurrentTitle string
}

// EditChanged updates the pending title of the active session.
type EditChanged struct {
	Title string
}

// EditSaveRequested submits the pending title of the session for ID.
type EditSaveRequested struct {
	ID int64
}

// EditSaveCompleted carries the server record after a rename.
type EditSaveCompleted struct {
	ID   int64
	Task domain.Task
	Err  error
}

// EditCanceled closes the active session without a remote call.
type EditCanceled struct{}

// FilterSelected switches the visible view.
type FilterSelected struct {
	Filter domain.Filter
}

// PreferencesRequested reads the persisted display preference.
type PreferencesRequested struct{}

// PreferencesLoaded carries the persisted display preference.
type PreferencesLoaded struct {
	DarkMode bool
	Err      error
}

// DarkModeToggled flips and persists the display preference.
type DarkModeToggled struct{}

// PreferencesSaved confirms or fails one preference write.
type PreferencesSaved struct {
	DarkMode bool
	Err      error
}

func (LoadRequested) isAction()        {}
func (LoadCompleted) isAction()        {}
func (InputChanged) isAction()         {}
func (CreateRequested) isAction()      {}
func (CreateCompleted) isAction()      {}
func (ToggleRequested) isAction()      {}
func (ToggleCompleted) isAction()      {}
func (DeleteRequested) isAction()      {}
func (DeleteCompleted) isAction()      {}
func (EditBegan) isAction()            {}
func (EditChanged) isAction()          {}
func (EditSaveRequested) isAction()    {}
func (EditSaveCompleted) isAction()    {}
func (EditCanceled) isAction()         {}
func (FilterSelected) isAction()       {}
func (PreferencesRequested) isAction() {}
func (PreferencesLoaded) isAction()    {}
func (DarkModeToggled) isAction()      {}
func (PreferencesSaved) isAction()     {}
