package domain

import (
	"errors"
	"slices"
	"testing"
)

func sampleTasks() []Task {
	return []Task{
		{ID: 1, Title: "A", Completed: false},
		{ID: 2, Title: "B", Completed: true},
		{ID: 3, Title: "C", Completed: false},
		{ID: 4, Title: "D", Completed: true},
	}
}

func TestNewTaskDraft(t *testing.T) {
	draft, err := NewTaskDraft("  Buy milk  ")
	if err != nil {
		t.Fatalf("NewTaskDraft() error = %v", err)
	}
	if draft.Title != "Buy milk" || draft.Completed {
		t.Fatalf("unexpected draft %#v", draft)
	}
	if _, err := NewTaskDraft(" \t\n "); err != ErrInvalidTitle {
		t.Fatalf("expected ErrInvalidTitle, got %v", err)
	}
}

func TestTaskToggledAndRenamedReturnCopies(t *testing.T) {
	task := Task{ID: 7, Title: "old", Completed: false}
	flipped := task.Toggled()
	if !flipped.Completed || task.Completed {
		t.Fatalf("expected copy flip, got original=%#v flipped=%#v", task, flipped)
	}
	renamed, err := task.Renamed("  new  ")
	if err != nil {
		t.Fatalf("Renamed() error = %v", err)
	}
	if renamed.Title != "new" || task.Title != "old" || renamed.ID != 7 {
		t.Fatalf("unexpected rename result original=%#v renamed=%#v", task, renamed)
	}
	if _, err := task.Renamed("   "); err != ErrInvalidTitle {
		t.Fatalf("expected ErrInvalidTitle, got %v", err)
	}
}

func TestValidateCollection(t *testing.T) {
	if err := ValidateCollection(sampleTasks()); err != nil {
		t.Fatalf("ValidateCollection() error = %v", err)
	}
	if err := ValidateCollection(nil); err != nil {
		t.Fatalf("ValidateCollection(nil) error = %v", err)
	}
	dup := append(sampleTasks(), Task{ID: 2, Title: "again"})
	if err := ValidateCollection(dup); err != ErrDuplicateID {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
	if err := ValidateCollection([]Task{{ID: 0, Title: "zero"}}); err != ErrInvalidID {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
}

func TestParseFilter(t *testing.T) {
	cases := []struct {
		raw  string
		want Filter
	}{
		{"", FilterAll},
		{"all", FilterAll},
		{" Completed ", FilterCompleted},
		{"PENDING", FilterPending},
	}
	for _, tc := range cases {
		got, err := ParseFilter(tc.raw)
		if err != nil {
			t.Fatalf("ParseFilter(%q) error = %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("ParseFilter(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
	if _, err := ParseFilter("done"); !errors.Is(err, ErrInvalidFilter) {
		t.Fatalf("expected ErrInvalidFilter, got %v", err)
	}
}

func TestFilterTasksRuleTable(t *testing.T) {
	tasks := sampleTasks()
	for _, f := range Filters() {
		got := FilterTasks(tasks, f)
		for _, task := range got {
			if !slices.Contains(tasks, task) {
				t.Fatalf("%s: result %#v not in input", f, task)
			}
		}
		for _, task := range tasks {
			want := f == FilterAll ||
				(f == FilterCompleted && task.Completed) ||
				(f == FilterPending && !task.Completed)
			if slices.Contains(got, task) != want {
				t.Fatalf("%s: membership of %#v = %t, want %t", f, task, !want, want)
			}
		}
		again := FilterTasks(got, f)
		if !slices.Equal(again, got) {
			t.Fatalf("%s: expected idempotent projection, got %#v then %#v", f, got, again)
		}
	}
}

func TestFilterTasksDoesNotMutateInput(t *testing.T) {
	tasks := sampleTasks()
	before := slices.Clone(tasks)
	out := FilterTasks(tasks, FilterCompleted)
	if len(out) > 0 {
		out[0].Title = "changed"
	}
	if !slices.Equal(tasks, before) {
		t.Fatalf("input mutated: %#v", tasks)
	}
}

func TestFilterNextCycles(t *testing.T) {
	f := FilterAll
	seen := []Filter{f}
	for range 3 {
		f = f.Next()
		seen = append(seen, f)
	}
	want := []Filter{FilterAll, FilterPending, FilterCompleted, FilterAll}
	if !slices.Equal(seen, want) {
		t.Fatalf("unexpected cycle %v", seen)
	}
	if Filter("bogus").Next() != FilterAll {
		t.Fatal("expected unknown filter to reset to all")
	}
}

func TestIndexOf(t *testing.T) {
	tasks := sampleTasks()
	if idx := IndexOf(tasks, 3); idx != 2 {
		t.Fatalf("IndexOf(3) = %d", idx)
	}
	if idx := IndexOf(tasks, 99); idx != -1 {
		t.Fatalf("IndexOf(99) = %d", idx)
	}
}
