package prompt

import (
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/cockroachdb/errors"
	"golang.org/x/term"

	"github.com/grokify/releaseconductor/pkg/model"
)

var (
	questionStyle = lipgloss.NewStyle().Bold(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6BCB77"))
	answerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#4D96FF"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
)

// TeaPrompter asks questions with bubbletea programs on a terminal.
type TeaPrompter struct {
	In  *os.File
	Out io.Writer
}

// NewTeaPrompter returns a prompter reading stdin and drawing on stderr.
func NewTeaPrompter() *TeaPrompter {
	return &TeaPrompter{In: os.Stdin, Out: os.Stderr}
}

// Interactive reports whether the input is a terminal.
func (p *TeaPrompter) Interactive() bool {
	return p.In != nil && term.IsTerminal(int(p.In.Fd()))
}

func (p *TeaPrompter) run(m tea.Model) (tea.Model, error) {
	if !p.Interactive() {
		return nil, ErrNoTerminal
	}
	out := p.Out
	if out == nil {
		out = os.Stderr
	}
	final, err := tea.NewProgram(m, tea.WithInput(p.In), tea.WithOutput(out)).Run()
	if err != nil {
		return nil, errors.Wrap(err, "run prompt")
	}
	return final, nil
}

// SelectVersion asks for the version to publish.
func (p *TeaPrompter) SelectVersion(triple model.VersionTriple) (string, error) {
	final, err := p.run(newVersionModel(triple))
	if err != nil {
		return "", err
	}
	return final.(versionModel).result()
}

// Confirm asks a yes/no question.
func (p *TeaPrompter) Confirm(message string) (bool, error) {
	final, err := p.run(newConfirmModel(message))
	if err != nil {
		return false, err
	}
	return final.(confirmModel).result()
}
