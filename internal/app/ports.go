package app

import (
	"context"

	"github.com/evanschultz/todomirror/internal/domain"
)

// TaskRemote is the remote task collection the local state mirrors.
type TaskRemote interface {
	ListTasks(context.Context) ([]domain.Task, error)
	CreateTask(context.Context, domain.TaskDraft) (domain.Task, error)
	UpdateTask(context.Context, domain.Task) (domain.Task, error)
	DeleteTask(context.Context, int64) error
}

// PreferenceStore persists the dark-mode display preference.
type PreferenceStore interface {
	LoadDarkMode(context.Context) (bool, error)
	SaveDarkMode(context.Context, bool) error
}

// Logger receives structured diagnostics. *log.Logger from charmbracelet/log satisfies it.
type Logger interface {
	Debug(msg any, keyvals ...any)
	Info(msg any, keyvals ...any)
	Warn(msg any, keyvals ...any)
	Error(msg any, keyvals ...any)
}

// nopLogger discards every event.
type nopLogger struct{}

func (nopLogger) Debug(any, ...any) {}
func (nopLogger) Info(any, ...any)  {}
func (nopLogger) Warn(any, ...any)  {}
func (nopLogger) Error(any, ...any) {}

// memoryPreferences keeps the preference for the process lifetime when no store is configured.
type memoryPreferences struct {
	darkMode bool
}

// LoadDarkMode returns the in-memory value.
func (m *memoryPreferences) LoadDarkMode(context.Context) (bool, error) {
	return m.darkMode, nil
}

// SaveDarkMode stores the in-memory value.
func (m *memoryPreferences) SaveDarkMode(_ context.Context, darkMode bool) error {
	m.darkMode = darkMode
	return nil
}
