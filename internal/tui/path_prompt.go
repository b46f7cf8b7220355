package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type pathPromptModel struct {
	title     string
	help      string
	input     textinput.Model
	validate  func(string) error
	value     string
	done      bool
	canceled  bool
	errorText string
}

func newPathPromptModel(title, help, prefix string, validate func(string) error) pathPromptModel {
	ti := textinput.New()
	ti.Placeholder = "src"
	ti.Prompt = prefix
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = 60

	return pathPromptModel{
		title:    title,
		help:     help,
		input:    ti,
		validate: validate,
	}
}

func (m pathPromptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m pathPromptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c", "esc":
			m.canceled = true
			m.done = true
			return m, tea.Quit
		case "enter":
			value := strings.TrimSpace(m.input.Value())
			if m.validate != nil {
				if err := m.validate(value); err != nil {
					m.errorText = err.Error()
					return m, nil
				}
			}
			m.value = value
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.errorText = ""
	return m, cmd
}

func (m pathPromptModel) View() string {
	if m.done {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")
	b.WriteString(inputStyle.Render(m.input.View()))
	b.WriteString("\n\n")
	if m.errorText != "" {
		b.WriteString(errorStyle.Render("  " + m.errorText))
		b.WriteString("\n\n")
	}
	b.WriteString(dimStyle.Render(m.help))
	b.WriteString("\n")
	return b.String()
}

// RunPathPrompt shows an interactive text input and returns the entered
// path. prefix is shown in front of the input, e.g. "~/". An empty answer is
// allowed unless validate rejects it.
func RunPathPrompt(title, help, prefix string, validate func(string) error) (string, error) {
	p := tea.NewProgram(newPathPromptModel(title, help, prefix, validate))
	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}
	result := finalModel.(pathPromptModel)
	if result.canceled {
		return "", ErrCanceled
	}
	return result.value, nil
}
