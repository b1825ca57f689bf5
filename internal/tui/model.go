package tui

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/atotto/clipboard"

	"github.com/evanschultz/todomirror/internal/app"
	"github.com/evanschultz/todomirror/internal/domain"
)

// Executor performs reconciler effects.
type Executor interface {
	Execute(context.Context, app.Effect) app.Action
}

// inputMode represents a selectable mode.
type inputMode int

// modeNone and related constants define package defaults.
const (
	modeNone inputMode = iota
	modeAddTask
	modeEditTask
	modeConfirmDelete
)

// Model is the interactive list view. It owns an app.State and advances it only through app.Reconcile.
type Model struct {
	exec Executor
	ctx  context.Context

	state   app.State
	startup []app.Effect

	ready  bool
	width  int
	height int

	help help.Model
	keys keyMap

	mode     inputMode
	input    textinput.Model
	selected int

	confirmDelete   bool
	pendingDeleteID int64

	copyText ClipboardFunc
	notice   string
	markdown *markdownRenderer
}

// actionMsg carries completion actions produced by the executor.
type actionMsg struct {
	actions []app.Action
}

// NewModel constructs a model and queues the initial load.
func NewModel(exec Executor, opts ...Option) Model {
	h := help.New()
	h.ShowAll = false
	m := Model{
		exec:          exec,
		ctx:           context.Background(),
		state:         app.NewState(domain.FilterAll),
		help:          h,
		keys:          newKeyMap(),
		input:         newModalInput("> ", "", "", 200),
		confirmDelete: true,
		copyText:      clipboard.WriteAll,
		markdown:      &markdownRenderer{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}
	m.ctx = app.WithOrigin(m.ctx, app.OriginTUI)

	var loadEffects, prefEffects []app.Effect
	m.state, prefEffects = app.Reconcile(m.state, app.PreferencesRequested{})
	m.state, loadEffects = app.Reconcile(m.state, app.LoadRequested{})
	m.startup = append(prefEffects, loadEffects...)
	return m
}

// Init runs the startup effects.
func (m Model) Init() tea.Cmd {
	return m.runEffects(m.startup)
}

// State returns the reconciled state.
func (m Model) State() app.State {
	return m.state
}

// Update updates state for the requested operation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case actionMsg:
		return m.applyActions(msg.actions...)

	case tea.KeyPressMsg:
		m.notice = ""
		switch m.mode {
		case modeAddTask, modeEditTask:
			return m.handleInputModeKey(msg)
		case modeConfirmDelete:
			return m.handleConfirmKey(msg)
		}
		return m.handleNormalModeKey(msg)

	default:
		return m, nil
	}
}

// applyActions reconciles each action in order and runs every resulting effect.
func (m Model) applyActions(actions ...app.Action) (tea.Model, tea.Cmd) {
	var effects []app.Effect
	for _, action := range actions {
		var next []app.Effect
		m.state, next = app.Reconcile(m.state, action)
		effects = append(effects, next...)
	}
	m.syncModeWithState()
	m.clampSelection()
	return m, m.runEffects(effects)
}

// runEffects executes effects off the update loop and reports their completions as one message.
func (m Model) runEffects(effects []app.Effect) tea.Cmd {
	if len(effects) == 0 {
		return nil
	}
	exec, ctx := m.exec, m.ctx
	return func() tea.Msg {
		actions := make([]app.Action, 0, len(effects))
		for _, effect := range effects {
			if action := exec.Execute(ctx, effect); action != nil {
				actions = append(actions, action)
			}
		}
		return actionMsg{actions: actions}
	}
}

// syncModeWithState leaves edit mode once the session has closed.
func (m *Model) syncModeWithState() {
	if m.mode == modeEditTask && m.state.Edit == nil {
		m.mode = modeNone
		m.input.Blur()
	}
}

func (m Model) handleNormalModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.toggleHelp):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case msg.String() == "esc":
		m.help.ShowAll = false
		return m, nil
	case key.Matches(msg, m.keys.reload):
		return m.applyActions(app.LoadRequested{})
	case key.Matches(msg, m.keys.moveDown):
		if visible := m.state.Visible(); m.selected < len(visible)-1 {
			m.selected++
		}
		return m, nil
	case key.Matches(msg, m.keys.moveUp):
		if m.selected > 0 {
			m.selected--
		}
		return m, nil
	case key.Matches(msg, m.keys.addTask):
		m.help.ShowAll = false
		return m, m.startInput(modeAddTask, m.state.Input, "new task title")
	case key.Matches(msg, m.keys.editTask):
		task, ok := m.selectedTask()
		if !ok {
			m.notice = "no task selected"
			return m, nil
		}
		m.help.ShowAll = false
		m.state, _ = app.Reconcile(m.state, app.EditBegan{ID: task.ID, CurrentTitle: task.Title})
		return m, m.startInput(modeEditTask, task.Title, "task title")
	case key.Matches(msg, m.keys.toggleTask):
		task, ok := m.selectedTask()
		if !ok {
			m.notice = "no task selected"
			return m, nil
		}
		return m.applyActions(app.ToggleRequested{ID: task.ID})
	case key.Matches(msg, m.keys.deleteTask):
		task, ok := m.selectedTask()
		if !ok {
			m.notice = "no task selected"
			return m, nil
		}
		if m.confirmDelete {
			m.mode = modeConfirmDelete
			m.pendingDeleteID = task.ID
			return m, nil
		}
		return m.applyActions(app.DeleteRequested{ID: task.ID})
	case key.Matches(msg, m.keys.cycleFilter):
		return m.selectFilter(m.state.Filter.Next())
	case key.Matches(msg, m.keys.filterAll):
		return m.selectFilter(domain.FilterAll)
	case key.Matches(msg, m.keys.filterPending):
		return m.selectFilter(domain.FilterPending)
	case key.Matches(msg, m.keys.filterCompleted):
		return m.selectFilter(domain.FilterCompleted)
	case key.Matches(msg, m.keys.toggleTheme):
		return m.applyActions(app.DarkModeToggled{})
	case key.Matches(msg, m.keys.copyTitle):
		task, ok := m.selectedTask()
		if !ok {
			m.notice = "no task selected"
			return m, nil
		}
		if err := m.copyText(task.Title); err != nil {
			m.notice = "copy failed: " + err.Error()
			return m, nil
		}
		m.notice = fmt.Sprintf("copied %q", truncate(task.Title, 40))
		return m, nil
	default:
		return m, nil
	}
}

func (m Model) handleInputModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		mode := m.mode
		m.mode = modeNone
		m.input.Blur()
		if mode == modeEditTask {
			m.state, _ = app.Reconcile(m.state, app.EditCanceled{})
		}
		return m, nil
	case "enter":
		if m.mode == modeAddTask {
			m.mode = modeNone
			m.input.Blur()
			return m.applyActions(app.CreateRequested{Title: m.input.Value()})
		}
		if m.state.Edit == nil {
			m.mode = modeNone
			m.input.Blur()
			return m, nil
		}
		return m.applyActions(app.EditSaveRequested{ID: m.state.Edit.TaskID})
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.mode == modeAddTask {
		m.state, _ = app.Reconcile(m.state, app.InputChanged{Text: m.input.Value()})
	} else {
		m.state, _ = app.Reconcile(m.state, app.EditChanged{Title: m.input.Value()})
	}
	return m, cmd
}

func (m Model) handleConfirmKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	id := m.pendingDeleteID
	switch msg.String() {
	case "y", "enter":
		m.mode = modeNone
		m.pendingDeleteID = 0
		return m.applyActions(app.DeleteRequested{ID: id})
	case "n", "esc", "q":
		m.mode = modeNone
		m.pendingDeleteID = 0
		m.notice = "delete canceled"
		return m, nil
	default:
		return m, nil
	}
}

func (m Model) selectFilter(filter domain.Filter) (tea.Model, tea.Cmd) {
	m.selected = 0
	return m.applyActions(app.FilterSelected{Filter: filter})
}

// startInput focuses the shared text input for mode.
func (m *Model) startInput(mode inputMode, value, placeholder string) tea.Cmd {
	m.mode = mode
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

// selectedTask returns the highlighted task in the visible view.
func (m Model) selectedTask() (domain.Task, bool) {
	visible := m.state.Visible()
	if len(visible) == 0 {
		return domain.Task{}, false
	}
	return visible[clamp(m.selected, 0, len(visible)-1)], true
}

func (m *Model) clampSelection() {
	m.selected = clamp(m.selected, 0, len(m.state.Visible())-1)
}

// newModalInput constructs a text input.
func newModalInput(prompt, placeholder, value string, limit int) textinput.Model {
	in := textinput.New()
	in.Prompt = prompt
	in.Placeholder = placeholder
	in.CharLimit = limit
	if value != "" {
		in.SetValue(value)
	}
	return in
}

// View renders the list, the active prompt and the footer.
func (m Model) View() tea.View {
	if !m.ready {
		v := tea.NewView("loading...")
		v.AltScreen = true
		return v
	}
	colors := paletteFor(m.state.DarkMode)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(colors.title)
	statusStyle := lipgloss.NewStyle().Foreground(colors.muted)

	header := titleStyle.Render("todomirror") + "  " + m.renderFilterTabs(colors)
	if m.state.Busy() {
		header += statusStyle.Render("  syncing...")
	}

	sections := []string{header, "", m.renderList(colors)}
	if prompt := m.renderPrompt(colors); prompt != "" {
		sections = append(sections, "", prompt)
	}
	if line := m.renderStatusLine(colors); line != "" {
		sections = append(sections, "", line)
	}
	content := strings.Join(sections, "\n")

	helpBubble := m.help
	helpBubble.ShowAll = false
	helpBubble.SetWidth(max(0, m.width-2))
	helpLine := lipgloss.NewStyle().
		Foreground(colors.muted).
		BorderTop(true).
		BorderForeground(colors.dim).
		Padding(0, 1).
		Width(max(0, m.width)).
		Render(helpBubble.View(m.keys))

	if m.help.ShowAll {
		content = m.renderHelpOverlay(colors)
	}
	if m.height > 0 {
		content = fitLines(content, max(0, m.height-lipgloss.Height(helpLine)))
	}

	view := tea.NewView(content + "\n" + helpLine)
	view.AltScreen = true
	return view
}

// renderFilterTabs renders the three views with their counts.
func (m Model) renderFilterTabs(colors palette) string {
	active := lipgloss.NewStyle().Bold(true).Foreground(colors.accent).Underline(true)
	inactive := lipgloss.NewStyle().Foreground(colors.muted)
	tabs := make([]string, 0, len(domain.Filters()))
	for _, filter := range domain.Filters() {
		label := fmt.Sprintf("%s (%d)", filter, len(domain.FilterTasks(m.state.Tasks, filter)))
		if filter == m.state.Filter {
			tabs = append(tabs, active.Render(label))
			continue
		}
		tabs = append(tabs, inactive.Render(label))
	}
	return strings.Join(tabs, "  ")
}

// renderList renders the visible tasks, keeping the selection inside the window.
func (m Model) renderList(colors palette) string {
	visible := m.state.Visible()
	emptyStyle := lipgloss.NewStyle().Foreground(colors.muted).Italic(true)
	if len(visible) == 0 {
		if len(m.state.Tasks) == 0 {
			return emptyStyle.Render("no tasks yet, press n to add one")
		}
		return emptyStyle.Render(fmt.Sprintf("no %s tasks", m.state.Filter))
	}

	normal := lipgloss.NewStyle().Foreground(colors.text)
	done := lipgloss.NewStyle().Foreground(colors.done).Strikethrough(true)
	selected := lipgloss.NewStyle().Foreground(colors.selected).Bold(true)
	pending := lipgloss.NewStyle().Foreground(colors.muted)

	titleWidth := max(8, m.width-12)
	lines := make([]string, 0, len(visible))
	for idx, task := range visible {
		check := "[ ]"
		if task.Completed {
			check = "[x]"
		}
		prefix := "  "
		if idx == m.selected {
			prefix = "│ "
		}
		line := fmt.Sprintf("%s%s %s", prefix, check, truncate(task.Title, titleWidth))
		switch {
		case idx == m.selected:
			line = selected.Render(line)
		case task.Completed:
			line = done.Render(line)
		default:
			line = normal.Render(line)
		}
		if m.state.TaskInFlight(task.ID) {
			line += pending.Render("  ...")
		}
		lines = append(lines, line)
	}

	window := m.listHeight()
	if window <= 0 || len(lines) <= window {
		return strings.Join(lines, "\n")
	}
	top := clamp(m.selected-window+1, 0, len(lines)-window)
	return strings.Join(lines[top:top+window], "\n")
}

// listHeight returns the rows available to the task list, or 0 when unbounded.
func (m Model) listHeight() int {
	if m.height <= 0 {
		return 0
	}
	return max(1, m.height-10)
}

// renderPrompt renders the add/edit input or the delete confirmation.
func (m Model) renderPrompt(colors palette) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colors.accent).
		Padding(0, 1)
	label := lipgloss.NewStyle().Bold(true).Foreground(colors.accent)
	hint := lipgloss.NewStyle().Foreground(colors.muted)
	switch m.mode {
	case modeAddTask:
		return box.Render(label.Render("New task") + "\n" + m.input.View() + "\n" + hint.Render("enter save • esc close"))
	case modeEditTask:
		return box.Render(label.Render("Edit title") + "\n" + m.input.View() + "\n" + hint.Render("enter save • esc cancel"))
	case modeConfirmDelete:
		title := ""
		if task, ok := m.state.TaskByID(m.pendingDeleteID); ok {
			title = truncate(task.Title, 40)
		}
		warn := lipgloss.NewStyle().Bold(true).Foreground(colors.danger)
		return box.BorderForeground(colors.danger).Render(warn.Render(fmt.Sprintf("Delete %q?", title)) + "\n" + hint.Render("y/enter confirm • n/esc cancel"))
	default:
		return ""
	}
}

// renderStatusLine shows the latest notice, failure or reconciler status.
func (m Model) renderStatusLine(colors palette) string {
	statusStyle := lipgloss.NewStyle().Foreground(colors.muted)
	errStyle := lipgloss.NewStyle().Foreground(colors.danger)
	switch {
	case m.notice != "":
		return statusStyle.Render(m.notice)
	case m.state.LastErr != nil:
		return errStyle.Render(m.state.Status) + statusStyle.Render("  (r to reload)")
	case strings.TrimSpace(m.state.Status) != "":
		return statusStyle.Render(m.state.Status)
	default:
		return ""
	}
}

// renderHelpOverlay renders the full key reference with a short markdown guide.
func (m Model) renderHelpOverlay(colors palette) string {
	width := clamp(m.width-4, 40, 100)
	hb := m.help
	hb.ShowAll = true
	hb.SetWidth(width - 4)

	guide := strings.Join([]string{
		"## Workflow",
		"",
		"- `n` types a new title, `enter` sends it to the server.",
		"- `e` edits the selected title; a failed save keeps the edit open.",
		"- Changes appear only after the server confirms them.",
		"- `r` reloads the whole list from the server.",
	}, "\n")

	title := lipgloss.NewStyle().Bold(true).Foreground(colors.accent).Render("todomirror help")
	lines := []string{
		title,
		"",
		hb.View(m.keys),
		"",
		m.markdown.render(guide, width-4, m.state.DarkMode),
		lipgloss.NewStyle().Foreground(colors.muted).Render("press ? or esc to close"),
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colors.dim).
		Padding(0, 1).
		Width(width).
		Render(strings.Join(lines, "\n"))
}

// clamp bounds v to [minV, maxV], preferring minV when the range is empty.
func clamp(v, minV, maxV int) int {
	if maxV < minV {
		return minV
	}
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

// fitLines pads or truncates content to exactly maxLines lines.
func fitLines(content string, maxLines int) string {
	if maxLines <= 0 {
		return ""
	}
	lines := strings.Split(content, "\n")
	switch {
	case len(lines) > maxLines:
		if maxLines == 1 {
			lines = []string{"…"}
		} else {
			lines = append(lines[:maxLines-1], "…")
		}
	case len(lines) < maxLines:
		padding := make([]string, maxLines-len(lines))
		lines = append(lines, padding...)
	}
	return strings.Join(lines, "\n")
}

// truncate shortens s to max runes with an ellipsis.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	rs := []rune(s)
	if len(rs) <= max {
		return s
	}
	if max <= 1 {
		return string(rs[:max])
	}
	return string(rs[:max-1]) + "…"
}
