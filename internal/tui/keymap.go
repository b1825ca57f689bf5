package tui

import "charm.land/bubbles/v2/key"

// keyMap holds the list-view key bindings.
type keyMap struct {
	quit            key.Binding
	reload          key.Binding
	toggleHelp      key.Binding
	moveUp          key.Binding
	moveDown        key.Binding
	addTask         key.Binding
	toggleTask      key.Binding
	editTask        key.Binding
	deleteTask      key.Binding
	cycleFilter     key.Binding
	filterAll       key.Binding
	filterPending   key.Binding
	filterCompleted key.Binding
	toggleTheme     key.Binding
	copyTitle       key.Binding
}

// newKeyMap constructs the default bindings.
func newKeyMap() keyMap {
	return keyMap{
		quit:            key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		reload:          key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		toggleHelp:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		moveUp:          key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		moveDown:        key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
		addTask:         key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new task")),
		toggleTask:      key.NewBinding(key.WithKeys("space", " ", "x"), key.WithHelp("space/x", "toggle done")),
		editTask:        key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit title")),
		deleteTask:      key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		cycleFilter:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "next filter")),
		filterAll:       key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "all")),
		filterPending:   key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "pending")),
		filterCompleted: key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "completed")),
		toggleTheme:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "dark/light")),
		copyTitle:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy title")),
	}
}

// ShortHelp returns the bindings shown in the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.addTask, k.toggleTask, k.editTask, k.deleteTask, k.cycleFilter, k.toggleHelp, k.quit,
	}
}

// FullHelp returns the grouped bindings shown in the help overlay.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.moveUp, k.moveDown, k.addTask, k.editTask},
		{k.toggleTask, k.deleteTask, k.copyTitle, k.reload},
		{k.cycleFilter, k.filterAll, k.filterPending, k.filterCompleted},
		{k.toggleTheme, k.toggleHelp, k.quit},
	}
}
