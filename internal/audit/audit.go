// Package audit runs the pre-release checks: tools that verify the package
// lists all its files and dependencies, and the operator confirmations that
// stand in for them when they fail.
package audit

import (
	"context"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/grokify/releaseconductor/internal/prompt"
	"github.com/grokify/releaseconductor/internal/runner"
	"github.com/grokify/releaseconductor/pkg/model"
)

// Operator questions asked when an auditor fails.
const (
	FilesQuestion        = "whether all new files are added into package.files"
	DependenciesQuestion = "whether all dependencies are added into package.dependencies"
)

// Auditor is an external command that exits non-zero when the check fails.
type Auditor struct {
	Name    string
	Command string
	Args    []string
}

// Enabled reports whether a command is configured.
func (a Auditor) Enabled() bool {
	return a.Command != ""
}

// Confirmer asks yes/no questions. prompt.Prompter satisfies it.
type Confirmer interface {
	Confirm(message string) (bool, error)
}

// Checker runs the pre-release checks in the project root.
type Checker struct {
	Runner       runner.Runner
	Prompter     Confirmer
	Dir          string
	Files        Auditor
	Dependencies Auditor

	// Changelog is the changelog file name shown in the final question.
	Changelog string

	Logger *zap.Logger
}

// Check runs the files auditor, then the dependencies auditor, then asks
// whether to update the changelog. A declined audit ends the checks early.
// Cancelling any question marks the whole check rejected.
func (c *Checker) Check(ctx context.Context, registry string) (model.PreCheck, error) {
	logger := c.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var result model.PreCheck

	files, err := c.audit(ctx, logger, c.Files, nil, FilesQuestion)
	if err != nil {
		return rejected(result, err)
	}
	result.Files = files
	if !files.Accepted() {
		logger.Error("please add new files into package.files first")
		return result, nil
	}

	var extra []string
	if registry != "" {
		extra = []string{"--registry", registry}
	}
	deps, err := c.audit(ctx, logger, c.Dependencies, extra, DependenciesQuestion)
	if err != nil {
		return rejected(result, err)
	}
	result.Dependencies = deps
	if !deps.Accepted() {
		logger.Error("please add all new dependencies into package.dependencies")
		return result, nil
	}

	name := c.Changelog
	if name == "" {
		name = "CHANGELOG.md"
	}
	ok, err := c.Prompter.Confirm("whether to update " + name)
	if err != nil {
		return rejected(result, err)
	}
	result.Changelog = ok
	return result, nil
}

func (c *Checker) audit(ctx context.Context, logger *zap.Logger, a Auditor, extra []string, question string) (model.AuditOutcome, error) {
	if !a.Enabled() {
		logger.Debug("audit skipped", zap.String("audit", a.Name))
		return model.AuditSkipped, nil
	}

	logger.Info(fmt.Sprintf("checking by %s if %s", a.Name, strings.TrimPrefix(question, "whether ")))
	args := append(append([]string{}, a.Args...), extra...)
	_, err := c.Runner.Run(ctx, runner.Options{Command: a.Command, Args: args, Dir: c.Dir})
	if err == nil {
		logger.Info("audit passed", zap.String("audit", a.Name))
		return model.AuditPassed, nil
	}
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	logger.Warn("audit failed", zap.String("audit", a.Name), zap.Error(err))
	ok, err := c.Prompter.Confirm(question)
	if err != nil {
		return "", err
	}
	if ok {
		return model.AuditConfirmed, nil
	}
	return model.AuditDeclined, nil
}

func rejected(result model.PreCheck, err error) (model.PreCheck, error) {
	if errors.Is(err, prompt.ErrAborted) {
		result.Rejected = true
		return result, nil
	}
	return result, err
}
