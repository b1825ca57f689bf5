package tui

import (
	"context"

	"github.com/evanschultz/todomirror/internal/domain"
)

type Option func(*Model)

// ClipboardFunc copies text to the system clipboard.
type ClipboardFunc func(string) error

func WithConfirmDelete(enabled bool) Option {
	return func(m *Model) {
		m.confirmDelete = enabled
	}
}

func WithInitialFilter(filter domain.Filter) Option {
	return func(m *Model) {
		if parsed, err := domain.ParseFilter(string(filter)); err == nil {
			m.state.Filter = parsed
		}
	}
}

func WithClipboard(fn ClipboardFunc) Option {
	return func(m *Model) {
		if fn != nil {
			m.copyText = fn
		}
	}
}

// WithContext sets the base context for remote calls. The TUI origin is attached to it.
func WithContext(ctx context.Context) Option {
	return func(m *Model) {
		if ctx != nil {
			m.ctx = ctx
		}
	}
}
