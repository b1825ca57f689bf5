package app

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/evanschultz/todomirror/internal/domain"
)

func fixedClock(step time.Duration) func() time.Time {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(step)
		return now
	}
}

func TestExecutorMapsUpdateEffectsByOp(t *testing.T) {
	remote := newFakeRemote(domain.Task{ID: 1, Title: "A"})
	exec := NewExecutor(remote)

	toggled := exec.Execute(context.Background(), UpdateTask{Op: OpToggle, Task: domain.Task{ID: 1, Title: "A", Completed: true}})
	if got, ok := toggled.(ToggleCompleted); !ok || got.ID != 1 || !got.Task.Completed {
		t.Fatalf("unexpected toggle completion %#v", toggled)
	}

	renamed := exec.Execute(context.Background(), UpdateTask{Op: OpRename, Task: domain.Task{ID: 1, Title: "B"}})
	if got, ok := renamed.(EditSaveCompleted); !ok || got.Task.Title != "B" {
		t.Fatalf("unexpected rename completion %#v", renamed)
	}
}

func TestExecutorLogsRemoteCallWithOrigin(t *testing.T) {
	logger := &recordingLogger{}
	exec := NewExecutor(newFakeRemote(domain.Task{ID: 1, Title: "A"}),
		WithLogger(logger),
		WithClock(fixedClock(25*time.Millisecond)),
	)
	ctx := WithOrigin(context.Background(), " CLI ")

	exec.Execute(ctx, FetchTasks{})

	entry, ok := logger.find("debug", "remote call finished")
	if !ok {
		t.Fatalf("expected debug entry, got %#v", logger.entries)
	}
	if op, _ := entry.value("op"); op != OpLoad {
		t.Fatalf("unexpected op %v", op)
	}
	if origin, _ := entry.value("origin"); origin != OriginCLI {
		t.Fatalf("unexpected origin %v", origin)
	}
	if duration, _ := entry.value("duration"); duration != 25*time.Millisecond {
		t.Fatalf("unexpected duration %v", duration)
	}
	if count, _ := entry.value("count"); count != 1 {
		t.Fatalf("unexpected count %v", count)
	}
}

func TestExecutorReportLevels(t *testing.T) {
	logger := &recordingLogger{}
	exec := NewExecutor(newFakeRemote(), WithLogger(logger))

	if next := exec.Execute(context.Background(), Report{Op: OpToggle, TaskID: 3, Err: ErrTaskNotFound, Rejected: true}); next != nil {
		t.Fatalf("expected no follow-up action, got %#v", next)
	}
	skipped, ok := logger.find("debug", "operation skipped")
	if !ok {
		t.Fatal("expected skipped entry at debug")
	}
	if kind, _ := skipped.value("error_kind"); kind != ErrorKindRejected {
		t.Fatalf("unexpected kind %v", kind)
	}

	exec.Execute(context.Background(), Report{Op: OpDelete, TaskID: 4, Err: fmt.Errorf("%w: dial tcp", ErrRemoteUnavailable)})
	failed, ok := logger.find("error", "operation failed")
	if !ok {
		t.Fatal("expected failure entry at error")
	}
	if kind, _ := failed.value("error_kind"); kind != ErrorKindTransport {
		t.Fatalf("unexpected kind %v", kind)
	}
	if id, _ := failed.value("task_id"); id != int64(4) {
		t.Fatalf("unexpected task id %v", id)
	}
}

func TestExecutorSyncerReportsEveryFailureOnce(t *testing.T) {
	logger := &recordingLogger{}
	remote := newFakeRemote(domain.Task{ID: 1, Title: "A"})
	remote.updateErr = fmt.Errorf("%w: status 500", ErrRemoteRejected)
	s := NewSyncer(NewExecutor(remote, WithLogger(logger)))

	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := s.Toggle(context.Background(), 1); !errors.Is(err, ErrRemoteRejected) {
		t.Fatalf("expected ErrRemoteRejected, got %v", err)
	}
	failures := 0
	for _, entry := range logger.entries {
		if entry.level == "error" {
			failures++
		}
	}
	if failures != 1 {
		t.Fatalf("expected one error entry, got %d", failures)
	}
	if remote.calls["update"] != 1 {
		t.Fatalf("expected one update call, got %d", remote.calls["update"])
	}
}

func TestKindOf(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{name: "nil", err: nil, want: ""},
		{name: "transport", err: fmt.Errorf("%w: eof", ErrRemoteUnavailable), want: ErrorKindTransport},
		{name: "status", err: fmt.Errorf("%w: 422", ErrRemoteRejected), want: ErrorKindStatus},
		{name: "malformed", err: ErrRemoteMalformed, want: ErrorKindMalformed},
		{name: "duplicate", err: domain.ErrDuplicateID, want: ErrorKindMalformed},
		{name: "preference", err: ErrInvalidPreference, want: ErrorKindMalformed},
		{name: "busy", err: ErrBusy, want: ErrorKindRejected},
		{name: "title", err: domain.ErrInvalidTitle, want: ErrorKindRejected},
		{name: "other", err: errors.New("boom"), want: ErrorKindUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := KindOf(tc.err); got != tc.want {
				t.Fatalf("KindOf() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestOriginFromContext(t *testing.T) {
	if _, ok := OriginFromContext(context.Background()); ok {
		t.Fatal("expected no origin on empty context")
	}
	ctx := WithOrigin(context.Background(), "   ")
	if _, ok := OriginFromContext(ctx); ok {
		t.Fatal("expected blank origin ignored")
	}
	ctx = WithOrigin(context.Background(), OriginTUI)
	if origin, ok := OriginFromContext(ctx); !ok || origin != OriginTUI {
		t.Fatalf("unexpected origin %q", origin)
	}
}

func TestParseDarkMode(t *testing.T) {
	cases := []struct {
		raw     string
		want    bool
		wantErr bool
	}{
		{raw: "", want: false},
		{raw: "true", want: true},
		{raw: " TRUE ", want: true},
		{raw: "false", want: false},
		{raw: "maybe", wantErr: true},
		{raw: "1", wantErr: true},
	}
	for _, tc := range cases {
		got, err := ParseDarkMode(tc.raw)
		if tc.wantErr {
			if !errors.Is(err, ErrInvalidPreference) {
				t.Fatalf("ParseDarkMode(%q) expected ErrInvalidPreference, got %v", tc.raw, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseDarkMode(%q) error = %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("ParseDarkMode(%q) = %t, want %t", tc.raw, got, tc.want)
		}
	}
	if FormatDarkMode(true) != "true" || FormatDarkMode(false) != "false" {
		t.Fatal("unexpected stored form")
	}
}
