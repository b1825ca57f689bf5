package domain

import (
	"fmt"
	"strings"
)

// Filter selects a view over the local task collection.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterPending   Filter = "pending"
	FilterCompleted Filter = "completed"
)

// filterCycle stores the order used when stepping through views.
var filterCycle = []Filter{FilterAll, FilterPending, FilterCompleted}

// Filters returns every supported filter in display order.
func Filters() []Filter {
	return append([]Filter(nil), filterCycle...)
}

// ParseFilter normalizes a user-supplied filter name. Empty input selects all.
func ParseFilter(raw string) (Filter, error) {
	switch Filter(strings.ToLower(strings.TrimSpace(raw))) {
	case "", FilterAll:
		return FilterAll, nil
	case FilterPending:
		return FilterPending, nil
	case FilterCompleted:
		return FilterCompleted, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidFilter, raw)
	}
}

// Matches reports whether one task belongs to the view.
func (f Filter) Matches(task Task) bool {
	switch f {
	case FilterCompleted:
		return task.Completed
	case FilterPending:
		return !task.Completed
	default:
		return true
	}
}

// Next returns the filter that follows f in display order.
func (f Filter) Next() Filter {
	for idx, candidate := range filterCycle {
		if candidate == f {
			return filterCycle[(idx+1)%len(filterCycle)]
		}
	}
	return FilterAll
}

// FilterTasks projects tasks through f without mutating the input.
func FilterTasks(tasks []Task, f Filter) []Task {
	out := make([]Task, 0, len(tasks))
	for _, task := range tasks {
		if f.Matches(task) {
			out = append(out, task)
		}
	}
	return out
}
