package app

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/evanschultz/todomirror/internal/domain"
)

// fakeRemote is an in-memory remote collection that counts calls and injects failures.
type fakeRemote struct {
	tasks  []domain.Task
	nextID int64

	listErr   error
	createErr error
	updateErr error
	deleteErr error

	// echo, when set, replaces the record returned by create/update.
	echo func(domain.Task) domain.Task

	calls map[string]int
}

func newFakeRemote(tasks ...domain.Task) *fakeRemote {
	next := int64(1)
	for _, task := range tasks {
		if task.ID >= next {
			next = task.ID + 1
		}
	}
	return &fakeRemote{
		tasks:  slices.Clone(tasks),
		nextID: next,
		calls:  map[string]int{},
	}
}

func (f *fakeRemote) totalCalls() int {
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

func (f *fakeRemote) ListTasks(context.Context) ([]domain.Task, error) {
	f.calls["list"]++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return slices.Clone(f.tasks), nil
}

func (f *fakeRemote) CreateTask(_ context.Context, draft domain.TaskDraft) (domain.Task, error) {
	f.calls["create"]++
	if f.createErr != nil {
		return domain.Task{}, f.createErr
	}
	task := domain.Task{ID: f.nextID, Title: draft.Title, Completed: draft.Completed}
	f.nextID++
	if f.echo != nil {
		task = f.echo(task)
	}
	f.tasks = append(f.tasks, task)
	return task, nil
}

func (f *fakeRemote) UpdateTask(_ context.Context, task domain.Task) (domain.Task, error) {
	f.calls["update"]++
	if f.updateErr != nil {
		return domain.Task{}, f.updateErr
	}
	idx := domain.IndexOf(f.tasks, task.ID)
	if idx < 0 {
		return domain.Task{}, fmt.Errorf("%w: 404", ErrRemoteRejected)
	}
	if f.echo != nil {
		task = f.echo(task)
	}
	f.tasks[idx] = task
	return task, nil
}

func (f *fakeRemote) DeleteTask(_ context.Context, id int64) error {
	f.calls["delete"]++
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.tasks = slices.DeleteFunc(f.tasks, func(task domain.Task) bool { return task.ID == id })
	return nil
}

// fakePrefs is a preference store with injectable failures.
type fakePrefs struct {
	darkMode bool
	loadErr  error
	saveErr  error
	saves    []bool
}

func (f *fakePrefs) LoadDarkMode(context.Context) (bool, error) {
	if f.loadErr != nil {
		return false, f.loadErr
	}
	return f.darkMode, nil
}

func (f *fakePrefs) SaveDarkMode(_ context.Context, darkMode bool) error {
	f.saves = append(f.saves, darkMode)
	if f.saveErr != nil {
		return f.saveErr
	}
	f.darkMode = darkMode
	return nil
}

// logEntry is one captured log event.
type logEntry struct {
	level   string
	msg     string
	keyvals []any
}

// recordingLogger captures log events for assertions.
type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *recordingLogger) add(level string, msg any, keyvals []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level: level, msg: fmt.Sprint(msg), keyvals: keyvals})
}

func (l *recordingLogger) Debug(msg any, keyvals ...any) { l.add("debug", msg, keyvals) }
func (l *recordingLogger) Info(msg any, keyvals ...any)  { l.add("info", msg, keyvals) }
func (l *recordingLogger) Warn(msg any, keyvals ...any)  { l.add("warn", msg, keyvals) }
func (l *recordingLogger) Error(msg any, keyvals ...any) { l.add("error", msg, keyvals) }

// find returns the first entry with msg at level.
func (l *recordingLogger) find(level, msg string) (logEntry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, entry := range l.entries {
		if entry.level == level && entry.msg == msg {
			return entry, true
		}
	}
	return logEntry{}, false
}

// value returns the value logged for key.
func (e logEntry) value(key string) (any, bool) {
	for i := 0; i+1 < len(e.keyvals); i += 2 {
		if e.keyvals[i] == key {
			return e.keyvals[i+1], true
		}
	}
	return nil, false
}
