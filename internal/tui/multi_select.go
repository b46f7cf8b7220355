package tui

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrCanceled is returned when the user quits a prompt without confirming.
var ErrCanceled = errors.New("selection canceled")

var msKeys = struct {
	Up    key.Binding
	Down  key.Binding
	Space key.Binding
	Enter key.Binding
	Quit  key.Binding
	All   key.Binding
	None  key.Binding
}{
	Up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Space: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
	Enter: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
	Quit:  key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q/esc", "cancel")),
	All:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "all")),
	None:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "none")),
}

// MultiSelectModel is the Bubbletea model for picking any number of options.
type MultiSelectModel struct {
	title         string
	options       []string
	cursor        int
	selected      map[int]bool
	viewportStart int
	maxVisible    int
	done          bool
	canceled      bool
}

func NewMultiSelectModel(title string, options []string) MultiSelectModel {
	return MultiSelectModel{
		title:      title,
		options:    options,
		selected:   make(map[int]bool),
		maxVisible: 15,
	}
}

func (m MultiSelectModel) Init() tea.Cmd {
	return nil
}

func (m *MultiSelectModel) ensureCursorVisible() {
	if m.cursor < m.viewportStart {
		m.viewportStart = m.cursor
	}
	if m.cursor >= m.viewportStart+m.maxVisible {
		m.viewportStart = m.cursor - m.maxVisible + 1
	}
}

func (m *MultiSelectModel) setAll(selected bool) {
	for i := range m.options {
		m.selected[i] = selected
	}
}

func (m MultiSelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.maxVisible = max(3, min(15, msg.Height-8))
		m.ensureCursorVisible()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, msKeys.Quit):
			m.canceled = true
			m.done = true
			return m, tea.Quit

		case key.Matches(msg, msKeys.Enter):
			m.done = true
			return m, tea.Quit

		case key.Matches(msg, msKeys.Up):
			if m.cursor > 0 {
				m.cursor--
				m.ensureCursorVisible()
			}

		case key.Matches(msg, msKeys.Down):
			if m.cursor < len(m.options)-1 {
				m.cursor++
				m.ensureCursorVisible()
			}

		case key.Matches(msg, msKeys.Space):
			if len(m.options) > 0 {
				m.selected[m.cursor] = !m.selected[m.cursor]
			}

		case key.Matches(msg, msKeys.All):
			m.setAll(true)

		case key.Matches(msg, msKeys.None):
			m.setAll(false)
		}
	}

	return m, nil
}

func (m MultiSelectModel) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("  %d of %d selected", len(m.Selected()), len(m.options))))
	b.WriteString("\n\n")

	if len(m.options) == 0 {
		b.WriteString(dimStyle.Render("  Nothing to select"))
		b.WriteString("\n")
	}

	end := min(m.viewportStart+m.maxVisible, len(m.options))
	for i := m.viewportStart; i < end; i++ {
		cursor := "  "
		style := normalStyle
		if i == m.cursor {
			cursor = "▸ "
			style = selectedStyle
		}
		box := uncheckedStyle.Render("[ ]")
		if m.selected[i] {
			box = checkedStyle.Render("[x]")
		}
		b.WriteString(fmt.Sprintf("%s%s %s\n", cursor, box, style.Render(m.options[i])))
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(strings.Join([]string{
		msKeys.Space.Help().Key + " toggle",
		msKeys.All.Help().Key + " all",
		msKeys.None.Help().Key + " none",
		msKeys.Enter.Help().Key + " confirm",
		msKeys.Quit.Help().Key + " cancel",
	}, "  ")))
	b.WriteString("\n")
	return b.String()
}

// Selected returns the chosen option indices in ascending order.
func (m MultiSelectModel) Selected() []int {
	indices := make([]int, 0, len(m.selected))
	for i, ok := range m.selected {
		if ok {
			indices = append(indices, i)
		}
	}
	sort.Ints(indices)
	return indices
}

func (m MultiSelectModel) Canceled() bool {
	return m.canceled
}

// RunMultiSelect shows the options in an interactive checklist and returns
// the selected indices.
func RunMultiSelect(title string, options []string) ([]int, error) {
	p := tea.NewProgram(NewMultiSelectModel(title, options))
	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}
	result := finalModel.(MultiSelectModel)
	if result.Canceled() {
		return nil, ErrCanceled
	}
	return result.Selected(), nil
}

// MultiSelect is the interactive terminal selector.
type MultiSelect struct{}

func (MultiSelect) Select(title string, options []string) ([]int, error) {
	return RunMultiSelect(title, options)
}
