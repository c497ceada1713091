// Package prompt asks the operator which version to publish and whether the
// pre-release checks may be waived.
package prompt

import (
	"github.com/cockroachdb/errors"

	"github.com/grokify/releaseconductor/pkg/model"
)

var (
	// ErrAborted is returned when the operator cancels a prompt.
	ErrAborted = errors.New("prompt aborted")

	// ErrNoTerminal is returned when input is not an interactive terminal.
	ErrNoTerminal = errors.New("prompt requires an interactive terminal")
)

// Prompter asks the operator questions.
type Prompter interface {
	// SelectVersion offers the three increments of triple plus a custom
	// version and returns the chosen version.
	SelectVersion(triple model.VersionTriple) (string, error)

	// Confirm asks a yes/no question.
	Confirm(message string) (bool, error)
}

// Static answers every question without asking. Version is returned from
// SelectVersion; when empty, SelectVersion fails with ErrNoTerminal.
type Static struct {
	Version string
	Answer  bool
}

// SelectVersion returns the configured version.
func (s Static) SelectVersion(model.VersionTriple) (string, error) {
	if s.Version == "" {
		return "", ErrNoTerminal
	}
	return s.Version, nil
}

// Confirm returns the configured answer.
func (s Static) Confirm(string) (bool, error) {
	return s.Answer, nil
}
