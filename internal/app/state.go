package app

import (
	"maps"

	"github.com/evanschultz/todomirror/internal/domain"
)

// Op names one synchronization operation.
type Op string

// OpLoad and related constants name every operation the reconciler drives.
const (
	OpLoad            Op = "load"
	OpCreate          Op = "create"
	OpToggle          Op = "toggle"
	OpRename          Op = "rename"
	OpDelete          Op = "delete"
	OpFilter          Op = "filter"
	OpLoadPreferences Op = "load-preferences"
	OpSavePreferences Op = "save-preferences"
)

// pendingKey identifies one guarded in-flight call.
type pendingKey struct {
	scope string
	id    int64
}

var (
	loadKey   = pendingKey{scope: "load"}
	createKey = pendingKey{scope: "create"}
	prefsKey  = pendingKey{scope: "preferences"}
)

// taskKey guards every mutation of one task id.
func taskKey(id int64) pendingKey {
	return pendingKey{scope: "task", id: id}
}

// State is the complete client-side view: the mirrored collection plus presentation state.
// Values are copy-on-write; Reconcile never mutates the slices or maps it receives.
type State struct {
	Tasks    []domain.Task
	Filter   domain.Filter
	Edit     *domain.EditSession
	Input    string
	DarkMode bool

	// Status is a short human-readable description of the last outcome.
	Status  string
	LastErr error

	pending map[pendingKey]struct{}
}

// NewState returns an empty state showing the requested view.
func NewState(filter domain.Filter) State {
	if filter == "" {
		filter = domain.FilterAll
	}
	return State{Filter: filter}
}

// Visible returns the tasks matching the active filter.
func (s State) Visible() []domain.Task {
	return domain.FilterTasks(s.Tasks, s.Filter)
}

// TaskByID returns the local record for id.
func (s State) TaskByID(id int64) (domain.Task, bool) {
	idx := domain.IndexOf(s.Tasks, id)
	if idx < 0 {
		return domain.Task{}, false
	}
	return s.Tasks[idx], true
}

// Editing reports whether an edit session targets id.
func (s State) Editing(id int64) bool {
	return s.Edit != nil && s.Edit.TaskID == id
}

// LoadInFlight reports whether a full fetch is outstanding.
func (s State) LoadInFlight() bool {
	return s.has(loadKey)
}

// CreateInFlight reports whether a creation request is outstanding.
func (s State) CreateInFlight() bool {
	return s.has(createKey)
}

// TaskInFlight reports whether a toggle, rename or delete of id is outstanding.
func (s State) TaskInFlight(id int64) bool {
	return s.has(taskKey(id))
}

// PreferencesSaving reports whether a preference write is outstanding.
func (s State) PreferencesSaving() bool {
	return s.has(prefsKey)
}

// Busy reports whether any remote call is outstanding.
func (s State) Busy() bool {
	return len(s.pending) > 0
}

func (s State) has(key pendingKey) bool {
	_, ok := s.pending[key]
	return ok
}

func (s State) withPending(key pendingKey) State {
	next := make(map[pendingKey]struct{}, len(s.pending)+1)
	maps.Copy(next, s.pending)
	next[key] = struct{}{}
	s.pending = next
	return s
}

func (s State) withoutPending(key pendingKey) State {
	if !s.has(key) {
		return s
	}
	next := maps.Clone(s.pending)
	delete(next, key)
	s.pending = next
	return s
}
