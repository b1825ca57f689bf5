package app

import (
	"context"
	"time"
)

// Executor performs the effects produced by Reconcile and turns each result into a completion action.
type Executor struct {
	remote TaskRemote
	prefs  PreferenceStore
	logger Logger
	clock  func() time.Time
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithLogger routes diagnostics to logger.
func WithLogger(logger Logger) ExecutorOption {
	return func(e *Executor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithPreferenceStore sets the display preference store.
func WithPreferenceStore(prefs PreferenceStore) ExecutorOption {
	return func(e *Executor) {
		if prefs != nil {
			e.prefs = prefs
		}
	}
}

// WithClock overrides the clock used for call durations.
func WithClock(clock func() time.Time) ExecutorOption {
	return func(e *Executor) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// NewExecutor constructs an executor bound to one remote collection.
// Without a preference store the preference lives in memory for the process lifetime.
func NewExecutor(remote TaskRemote, opts ...ExecutorOption) *Executor {
	e := &Executor{
		remote: remote,
		prefs:  &memoryPreferences{},
		logger: nopLogger{},
		clock:  time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Execute performs one effect. It returns the completion action, or nil for effects without one.
func (e *Executor) Execute(ctx context.Context, effect Effect) Action {
	if ctx == nil {
		ctx = context.Background()
	}
	switch eff := effect.(type) {
	case FetchTasks:
		started := e.clock()
		tasks, err := e.remote.ListTasks(ctx)
		e.logCall(ctx, OpLoad, 0, started, err, "count", len(tasks))
		return LoadCompleted{Tasks: tasks, Err: err}

	case CreateTask:
		started := e.clock()
		task, err := e.remote.CreateTask(ctx, eff.Draft)
		e.logCall(ctx, OpCreate, task.ID, started, err)
		return CreateCompleted{Task: task, Err: err}

	case UpdateTask:
		started := e.clock()
		task, err := e.remote.UpdateTask(ctx, eff.Task)
		e.logCall(ctx, eff.Op, eff.Task.ID, started, err)
		if eff.Op == OpRename {
			return EditSaveCompleted{ID: eff.Task.ID, Task: task, Err: err}
		}
		return ToggleCompleted{ID: eff.Task.ID, Task: task, Err: err}

	case DeleteTask:
		started := e.clock()
		err := e.remote.DeleteTask(ctx, eff.ID)
		e.logCall(ctx, OpDelete, eff.ID, started, err)
		return DeleteCompleted{ID: eff.ID, Err: err}

	case LoadPreferences:
		darkMode, err := e.prefs.LoadDarkMode(ctx)
		return PreferencesLoaded{DarkMode: darkMode, Err: err}

	case SavePreferences:
		err := e.prefs.SaveDarkMode(ctx, eff.DarkMode)
		return PreferencesSaved{DarkMode: eff.DarkMode, Err: err}

	case Report:
		e.report(ctx, eff)
		return nil

	default:
		return nil
	}
}

// logCall records one remote round trip at debug level.
func (e *Executor) logCall(ctx context.Context, op Op, id int64, started time.Time, err error, extra ...any) {
	keyvals := []any{"op", op, "duration", e.clock().Sub(started)}
	if id > 0 {
		keyvals = append(keyvals, "task_id", id)
	}
	if origin, ok := OriginFromContext(ctx); ok {
		keyvals = append(keyvals, "origin", origin)
	}
	keyvals = append(keyvals, extra...)
	if err != nil {
		keyvals = append(keyvals, "err", err)
	}
	e.logger.Debug("remote call finished", keyvals...)
}

// report writes one Report effect to the diagnostic channel.
func (e *Executor) report(ctx context.Context, r Report) {
	keyvals := []any{"op", r.Op, "error_kind", KindOf(r.Err)}
	if r.TaskID != 0 {
		keyvals = append(keyvals, "task_id", r.TaskID)
	}
	if origin, ok := OriginFromContext(ctx); ok {
		keyvals = append(keyvals, "origin", origin)
	}
	keyvals = append(keyvals, "err", r.Err)
	if r.Rejected {
		e.logger.Debug("operation skipped", keyvals...)
		return
	}
	e.logger.Error("operation failed", keyvals...)
}
