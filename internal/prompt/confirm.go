package prompt

import (
	tea "github.com/charmbracelet/bubbletea"
)

// confirmModel is a yes/no question. Enter accepts the default, yes.
type confirmModel struct {
	message  string
	answer   bool
	answered bool
	aborted  bool
}

func newConfirmModel(message string) confirmModel {
	return confirmModel{message: message}
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "ctrl+c", "esc":
		m.aborted = true
		return m, tea.Quit
	case "y", "Y", "enter":
		m.answer, m.answered = true, true
		return m, tea.Quit
	case "n", "N":
		m.answer, m.answered = false, true
		return m, tea.Quit
	}
	return m, nil
}

func (m confirmModel) View() string {
	q := questionStyle.Render("? " + m.message)
	switch {
	case m.answered && m.answer:
		return q + " " + answerStyle.Render("Yes") + "\n"
	case m.answered:
		return q + " " + answerStyle.Render("No") + "\n"
	default:
		return q + " (Y/n) "
	}
}

func (m confirmModel) result() (bool, error) {
	if m.aborted || !m.answered {
		return false, ErrAborted
	}
	return m.answer, nil
}
