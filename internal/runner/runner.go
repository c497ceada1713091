// Package runner executes external commands (git, npm and the audit tools)
// in the project root.
package runner

import (
	"context"
	"strings"
)

// Options describes a single command invocation.
type Options struct {
	Command string
	Args    []string
	Dir     string

	// Capture returns combined stdout and stderr to the caller.
	Capture bool

	// Quiet suppresses streaming of the command output.
	Quiet bool
}

// String renders the command line for logs.
func (o Options) String() string {
	if len(o.Args) == 0 {
		return o.Command
	}
	return o.Command + " " + strings.Join(o.Args, " ")
}

// Runner runs commands.
type Runner interface {
	Run(ctx context.Context, opts Options) (string, error)
}

// Func adapts a function to the Runner interface.
type Func func(ctx context.Context, opts Options) (string, error)

// Run calls f.
func (f Func) Run(ctx context.Context, opts Options) (string, error) {
	return f(ctx, opts)
}
