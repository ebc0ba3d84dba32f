// Package terminal runs probe commands on the local machine.
package terminal

//go:generate mockgen -source=terminal.go -destination=mock_terminal.go -package=terminal

import (
	"bufio"
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/hamed0406/netprobe/internal/domain"
)

// Runner executes a command line and reports what happened. A command that
// ran and exited non-zero is not an error; a command that could not run, or
// was killed, is.
type Runner interface {
	Execute(ctx context.Context, command string) (domain.Execution, error)
}

type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string { return "execute " + e.Command + ": " + e.Err.Error() }
func (e *CommandError) Unwrap() error { return e.Err }
func (e *CommandError) Cause() error { return e.Err }

// Shell splits the command on whitespace and runs it without a shell.
// Only stdout is kept. Timeout of zero lets commands run until they exit.
type Shell struct {
	Timeout time.Duration
}

func (s Shell) Execute(ctx context.Context, command string) (domain.Execution, error) {
	res := domain.Execution{Command: command, StartedAt: time.Now()}
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return res, &CommandError{Command: command, Err: errors.New("empty command")}
	}
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	out, err := exec.CommandContext(ctx, fields[0], fields[1:]...).Output()
	res.Output = joinLines(out)
	if err == nil {
		return res, nil
	}
	if ctx.Err() != nil {
		return res, &CommandError{Command: command, Err: errors.Wrap(ctx.Err(), "command did not finish")}
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}
	return res, &CommandError{Command: command, Err: err}
}

// joinLines normalizes line endings and drops the trailing newline.
func joinLines(b []byte) string {
	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(b))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return strings.Join(lines, "\n")
}
