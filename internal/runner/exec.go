package runner

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// ExecRunner runs commands as child processes.
type ExecRunner struct {
	Logger *zap.Logger

	// Output receives the streamed command output. Defaults to os.Stdout.
	Output io.Writer
}

// NewExecRunner creates an ExecRunner that logs through logger.
func NewExecRunner(logger *zap.Logger, out io.Writer) *ExecRunner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if out == nil {
		out = os.Stdout
	}
	return &ExecRunner{Logger: logger, Output: out}
}

// Run executes the command once. A non-zero exit status is returned as an
// error carrying the tail of the command output.
func (r *ExecRunner) Run(ctx context.Context, opts Options) (string, error) {
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Command == "" {
		return "", errors.New("run: empty command")
	}

	cmdStr := opts.String()
	logger.Debug("Starting execution", zap.String("command", cmdStr), zap.String("dir", opts.Dir))

	cmd := exec.CommandContext(ctx, opts.Command, opts.Args...) // #nosec G204
	cmd.Dir = opts.Dir

	var buf bytes.Buffer
	var writer io.Writer = &buf
	if !opts.Quiet {
		out := r.Output
		if out == nil {
			out = os.Stdout
		}
		writer = io.MultiWriter(out, &buf)
	}
	cmd.Stdout = writer
	cmd.Stderr = writer

	err := cmd.Run()
	output := buf.String()
	if err != nil {
		logger.Debug("Execution failed",
			zap.String("command", cmdStr),
			zap.String("summary", summary(output, 2)),
			zap.Error(err))
		return output, errors.Wrapf(err, "run %s", cmdStr)
	}

	logger.Debug("Execution succeeded", zap.String("command", cmdStr))
	if opts.Capture {
		return output, nil
	}
	return "", nil
}

// summary returns the last n non-empty lines of output.
func summary(output string, n int) string {
	var lines []string
	for _, line := range strings.Split(output, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, strings.TrimSpace(line))
		}
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, " | ")
}
