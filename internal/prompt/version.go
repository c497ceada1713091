package prompt

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/grokify/releaseconductor/internal/releaser"
	"github.com/grokify/releaseconductor/pkg/model"
)

// VersionQuestion heads the version selection.
const VersionQuestion = "please choose the version to publish"

// InvalidVersionMessage is shown while the custom version is not semver.
const InvalidVersionMessage = "not in semver format"

const otherChoice = "other"

type versionState int

const (
	stateChoose versionState = iota
	stateCustom
	stateDone
)

type choice struct {
	label   string
	version string
}

// versionModel picks one of the precomputed increments or, through "other",
// a custom version typed by the operator. Increments that could not be
// computed are not offered.
type versionModel struct {
	choices []choice
	cursor  int
	state   versionState
	input   textinput.Model
	errMsg  string
	value   string
	aborted bool
}

func newVersionModel(triple model.VersionTriple) versionModel {
	ti := textinput.New()
	ti.Prompt = "version: "
	ti.Placeholder = triple.Patch

	var choices []choice
	for _, c := range []choice{
		{label: fmt.Sprintf("patch(%s) -- bug fix", triple.Patch), version: triple.Patch},
		{label: fmt.Sprintf("minor(%s) -- compatible modification", triple.Minor), version: triple.Minor},
		{label: fmt.Sprintf("major(%s) -- incompatible modification", triple.Major), version: triple.Major},
	} {
		if c.version != "" {
			choices = append(choices, c)
		}
	}

	return versionModel{
		choices: append(choices, choice{label: otherChoice}),
		state:   stateChoose,
		input:   ti,
	}
}

func (m versionModel) Init() tea.Cmd {
	return nil
}

func (m versionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.state == stateCustom {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "esc":
		m.aborted = true
		m.state = stateDone
		return m, tea.Quit
	}

	switch m.state {
	case stateChoose:
		switch key.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.choices)-1 {
				m.cursor++
			}
		case "enter":
			selected := m.choices[m.cursor]
			if selected.label == otherChoice {
				m.state = stateCustom
				cmd := m.input.Focus()
				return m, cmd
			}
			m.value = selected.version
			m.state = stateDone
			return m, tea.Quit
		}
		return m, nil

	case stateCustom:
		if key.Type == tea.KeyEnter {
			v := strings.TrimSpace(m.input.Value())
			if !releaser.Valid(v) {
				m.errMsg = InvalidVersionMessage
				return m, nil
			}
			m.errMsg = ""
			m.value = v
			m.state = stateDone
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m versionModel) View() string {
	var b strings.Builder
	b.WriteString(questionStyle.Render("? "+VersionQuestion) + "\n")

	switch m.state {
	case stateChoose:
		for i, c := range m.choices {
			if i == m.cursor {
				b.WriteString(cursorStyle.Render("> "+c.label) + "\n")
			} else {
				b.WriteString("  " + c.label + "\n")
			}
		}
	case stateCustom:
		b.WriteString(m.input.View() + "\n")
		if m.errMsg != "" {
			b.WriteString(errorStyle.Render(">> "+m.errMsg) + "\n")
		}
	case stateDone:
		if !m.aborted {
			b.WriteString(answerStyle.Render(m.value) + "\n")
		}
	}
	return b.String()
}

// result returns the chosen version or ErrAborted.
func (m versionModel) result() (string, error) {
	if m.aborted || m.value == "" {
		return "", ErrAborted
	}
	return m.value, nil
}
