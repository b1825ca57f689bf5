package app

import (
	"fmt"
	"slices"

	"github.com/evanschultz/todomirror/internal/domain"
)

// Reconcile applies one action to s and returns the next state plus the effects to perform.
// It performs no I/O. Remote results are applied only from completion actions, so the
// collection never holds a record the server has not confirmed.
func Reconcile(s State, action Action) (State, []Effect) {
	switch a := action.(type) {
	case LoadRequested:
		if s.LoadInFlight() {
			return reject(s, OpLoad, 0, ErrBusy)
		}
		s = s.withPending(loadKey)
		s.Status = "loading..."
		return s, []Effect{FetchTasks{}}

	case LoadCompleted:
		s = s.withoutPending(loadKey)
		err := a.Err
		if err == nil {
			if verr := domain.ValidateCollection(a.Tasks); verr != nil {
				err = fmt.Errorf("%w: %w", ErrRemoteMalformed, verr)
			}
		}
		if err != nil {
			return fail(s, OpLoad, 0, err)
		}
		s.Tasks = slices.Clone(a.Tasks)
		if s.Edit != nil && domain.IndexOf(s.Tasks, s.Edit.TaskID) < 0 {
			s.Edit = nil
		}
		return succeed(s, fmt.Sprintf("loaded %d tasks", len(s.Tasks))), nil

	case InputChanged:
		s.Input = a.Text
		return s, nil

	case CreateRequested:
		draft, err := domain.NewTaskDraft(a.Title)
		if err != nil {
			return reject(s, OpCreate, 0, err)
		}
		if s.CreateInFlight() {
			return reject(s, OpCreate, 0, ErrBusy)
		}
		s = s.withPending(createKey)
		s.Status = "creating..."
		return s, []Effect{CreateTask{Draft: draft}}

	case CreateCompleted:
		s = s.withoutPending(createKey)
		err := a.Err
		if err == nil && a.Task.ID <= 0 {
			err = fmt.Errorf("%w: created task has no id", ErrRemoteMalformed)
		}
		if err != nil {
			return fail(s, OpCreate, 0, err)
		}
		s.Tasks = upsertTask(s.Tasks, a.Task)
		s.Input = ""
		return succeed(s, "task created"), nil

	case ToggleRequested:
		task, ok := s.TaskByID(a.ID)
		if !ok {
			return reject(s, OpToggle, a.ID, ErrTaskNotFound)
		}
		if s.TaskInFlight(a.ID) {
			return reject(s, OpToggle, a.ID, ErrBusy)
		}
		s = s.withPending(taskKey(a.ID))
		s.Status = "updating..."
		return s, []Effect{UpdateTask{Op: OpToggle, Task: task.Toggled()}}

	case ToggleCompleted:
		return applyTaskUpdate(s, OpToggle, a.ID, a.Task, a.Err)

	case DeleteRequested:
		if a.ID <= 0 {
			return reject(s, OpDelete, a.ID, domain.ErrInvalidID)
		}
		if s.TaskInFlight(a.ID) {
			return reject(s, OpDelete, a.ID, ErrBusy)
		}
		s = s.withPending(taskKey(a.ID))
		s.Status = "deleting..."
		return s, []Effect{DeleteTask{ID: a.ID}}

	case DeleteCompleted:
		s = s.withoutPending(taskKey(a.ID))
		if a.Err != nil {
			return fail(s, OpDelete, a.ID, a.Err)
		}
		s.Tasks = slices.DeleteFunc(slices.Clone(s.Tasks), func(task domain.Task) bool {
			return task.ID == a.ID
		})
		if s.Editing(a.ID) {
			s.Edit = nil
		}
		return succeed(s, "task deleted"), nil

	case EditBegan:
		s.Edit = &domain.EditSession{TaskID: a.ID, PendingTitle: a.CurrentTitle}
		s.Status = "editing"
		return s, nil

	case EditChanged:
		if s.Edit == nil {
			return s, nil
		}
		s.Edit = &domain.EditSession{TaskID: s.Edit.TaskID, PendingTitle: a.Title}
		return s, nil

	case EditCanceled:
		s.Edit = nil
		s.Status = "edit canceled"
		return s, nil

	case EditSaveRequested:
		if !s.Editing(a.ID) {
			return reject(s, OpRename, a.ID, ErrNoEditSession)
		}
		task, ok := s.TaskByID(a.ID)
		if !ok {
			// The record is gone; the session can never succeed.
			s.Edit = nil
			return reject(s, OpRename, a.ID, ErrTaskNotFound)
		}
		renamed, err := task.Renamed(s.Edit.PendingTitle)
		if err != nil {
			return reject(s, OpRename, a.ID, err)
		}
		if s.TaskInFlight(a.ID) {
			return reject(s, OpRename, a.ID, ErrBusy)
		}
		s = s.withPending(taskKey(a.ID))
		s.Status = "saving..."
		return s, []Effect{UpdateTask{Op: OpRename, Task: renamed}}

	case EditSaveCompleted:
		next, effects := applyTaskUpdate(s, OpRename, a.ID, a.Task, a.Err)
		if a.Err == nil && len(effects) == 0 && next.Editing(a.ID) {
			next.Edit = nil
		}
		return next, effects

	case FilterSelected:
		filter, err := domain.ParseFilter(string(a.Filter))
		if err != nil {
			return reject(s, OpFilter, 0, err)
		}
		s.Filter = filter
		s.Status = "showing " + string(filter)
		return s, nil

	case PreferencesRequested:
		return s, []Effect{LoadPreferences{}}

	case PreferencesLoaded:
		if a.Err != nil {
			return fail(s, OpLoadPreferences, 0, a.Err)
		}
		s.DarkMode = a.DarkMode
		return s, nil

	case DarkModeToggled:
		// Writes are serialized so the stored value always ends at the displayed one.
		if s.PreferencesSaving() {
			return reject(s, OpSavePreferences, 0, ErrBusy)
		}
		s = s.withPending(prefsKey)
		s.DarkMode = !s.DarkMode
		return s, []Effect{SavePreferences{DarkMode: s.DarkMode}}

	case PreferencesSaved:
		s = s.withoutPending(prefsKey)
		if a.Err != nil {
			return fail(s, OpSavePreferences, 0, a.Err)
		}
		if a.DarkMode {
			s.Status = "dark mode on"
		} else {
			s.Status = "dark mode off"
		}
		return s, nil

	default:
		return s, nil
	}
}

// applyTaskUpdate replaces the local record for id with the server response.
func applyTaskUpdate(s State, op Op, id int64, task domain.Task, err error) (State, []Effect) {
	s = s.withoutPending(taskKey(id))
	if err == nil && task.ID != id {
		err = fmt.Errorf("%w: response id %d does not match requested id %d", ErrRemoteMalformed, task.ID, id)
	}
	if err != nil {
		return fail(s, op, id, err)
	}
	idx := domain.IndexOf(s.Tasks, id)
	if idx < 0 {
		// A reload dropped the record while the call was in flight; the server view wins.
		s.Status = "task updated remotely"
		return s, nil
	}
	tasks := slices.Clone(s.Tasks)
	tasks[idx] = task
	s.Tasks = tasks
	return succeed(s, "task updated"), nil
}

// upsertTask appends task, or replaces an existing record carrying the same id.
func upsertTask(tasks []domain.Task, task domain.Task) []domain.Task {
	out := slices.Clone(tasks)
	if idx := domain.IndexOf(out, task.ID); idx >= 0 {
		out[idx] = task
		return out
	}
	return append(out, task)
}

func succeed(s State, status string) State {
	s.Status = status
	s.LastErr = nil
	return s
}

// fail records a terminal remote failure and reports it.
func fail(s State, op Op, id int64, err error) (State, []Effect) {
	s.LastErr = err
	s.Status = fmt.Sprintf("%s failed: %v", op, err)
	return s, []Effect{Report{Op: op, TaskID: id, Err: err}}
}

// reject records an intent whose preconditions did not hold. No remote call is made.
func reject(s State, op Op, id int64, err error) (State, []Effect) {
	s.Status = fmt.Sprintf("%s skipped: %v", op, err)
	return s, []Effect{Report{Op: op, TaskID: id, Err: err, Rejected: true}}
}
