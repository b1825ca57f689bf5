package app

import (
	"context"
	"slices"

	"github.com/evanschultz/todomirror/internal/domain"
)

// Syncer is the synchronous facade over Reconcile and Executor. Each mutating method
// dispatches one intent, runs the resulting effects to completion and returns the
// operation's reported error. A Syncer is driven by one caller at a time.
type Syncer struct {
	exec  *Executor
	state State
}

// SyncerOption configures a Syncer.
type SyncerOption func(*Syncer)

// WithInitialFilter selects the view shown before any FilterSelected action.
func WithInitialFilter(filter domain.Filter) SyncerOption {
	return func(s *Syncer) {
		if parsed, err := domain.ParseFilter(string(filter)); err == nil {
			s.state.Filter = parsed
		}
	}
}

// NewSyncer constructs a facade with an empty local collection.
func NewSyncer(exec *Executor, opts ...SyncerOption) *Syncer {
	s := &Syncer{
		exec:  exec,
		state: NewState(domain.FilterAll),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Dispatch applies action and drains every effect it causes.
// It returns the first reported error, or nil when nothing was reported.
func (s *Syncer) Dispatch(ctx context.Context, action Action) error {
	var opErr error
	queue := []Action{action}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]

		var effects []Effect
		s.state, effects = Reconcile(s.state, next)
		for _, effect := range effects {
			if report, ok := effect.(Report); ok && opErr == nil {
				opErr = report.Err
			}
			if result := s.exec.Execute(ctx, effect); result != nil {
				queue = append(queue, result)
			}
		}
	}
	return opErr
}

// Load replaces the local collection with the remote one.
func (s *Syncer) Load(ctx context.Context) error {
	return s.Dispatch(ctx, LoadRequested{})
}

// Create creates a task and appends the server record.
func (s *Syncer) Create(ctx context.Context, title string) error {
	return s.Dispatch(ctx, CreateRequested{Title: title})
}

// Toggle flips the completion flag of the task with id.
func (s *Syncer) Toggle(ctx context.Context, id int64) error {
	return s.Dispatch(ctx, ToggleRequested{ID: id})
}

// Delete removes the task with id.
func (s *Syncer) Delete(ctx context.Context, id int64) error {
	return s.Dispatch(ctx, DeleteRequested{ID: id})
}

// BeginEdit opens the edit session for id, replacing any other.
func (s *Syncer) BeginEdit(id int64, currentTitle string) {
	s.state, _ = Reconcile(s.state, EditBegan{ID: id, CurrentTitle: currentTitle})
}

// UpdateEdit changes the pending title of the active session.
func (s *Syncer) UpdateEdit(title string) {
	s.state, _ = Reconcile(s.state, EditChanged{Title: title})
}

// SaveEdit submits the pending title for id.
func (s *Syncer) SaveEdit(ctx context.Context, id int64) error {
	return s.Dispatch(ctx, EditSaveRequested{ID: id})
}

// CancelEdit closes the active session.
func (s *Syncer) CancelEdit() {
	s.state, _ = Reconcile(s.state, EditCanceled{})
}

// SetInput records the new-task input text.
func (s *Syncer) SetInput(text string) {
	s.state, _ = Reconcile(s.state, InputChanged{Text: text})
}

// SetFilter switches the active view.
func (s *Syncer) SetFilter(ctx context.Context, filter domain.Filter) error {
	return s.Dispatch(ctx, FilterSelected{Filter: filter})
}

// LoadPreferences reads the persisted display preference.
func (s *Syncer) LoadPreferences(ctx context.Context) error {
	return s.Dispatch(ctx, PreferencesRequested{})
}

// ToggleDarkMode flips and persists the display preference.
func (s *Syncer) ToggleDarkMode(ctx context.Context) error {
	return s.Dispatch(ctx, DarkModeToggled{})
}

// Filter projects the local collection through view without changing any state.
func (s *Syncer) Filter(view domain.Filter) []domain.Task {
	return domain.FilterTasks(s.state.Tasks, view)
}

// Tasks returns a copy of the local collection.
func (s *Syncer) Tasks() []domain.Task {
	return slices.Clone(s.state.Tasks)
}

// Edit returns the active edit session.
func (s *Syncer) Edit() (domain.EditSession, bool) {
	if s.state.Edit == nil {
		return domain.EditSession{}, false
	}
	return *s.state.Edit, true
}

// Input returns the pending new-task input.
func (s *Syncer) Input() string {
	return s.state.Input
}

// DarkMode returns the display preference.
func (s *Syncer) DarkMode() bool {
	return s.state.DarkMode
}

// State returns the current state value.
func (s *Syncer) State() State {
	out := s.state
	out.Tasks = slices.Clone(s.state.Tasks)
	if s.state.Edit != nil {
		edit := *s.state.Edit
		out.Edit = &edit
	}
	return out
}
