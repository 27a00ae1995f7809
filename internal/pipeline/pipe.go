package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// ErrNoStages indicates an empty pipe.
var ErrNoStages = errors.New("pipe has no stages")

// Stage is one command of a render pipe.
type Stage struct {
	Argv []string
	Dir  string // working directory; empty means inherit
}

// Pipe executes a chain of commands with each stage's standard output
// connected to the next stage's standard input.
type Pipe struct {
	Env     []string  // extra environment entries added to every stage
	Stderr  io.Writer // stage stderr sink; defaults to os.Stderr
	Verbose bool      // log each executed command to Stderr
}

// Run executes the stages. The first stage reads from stdin, the last
// writes to stdout. All stages are started before any is waited on;
// the first failure wins.
func (p *Pipe) Run(ctx context.Context, stages []Stage, stdin io.Reader, stdout io.Writer) error {
	if len(stages) == 0 {
		return ErrNoStages
	}
	stderr := p.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	var env []string
	if len(p.Env) > 0 {
		env = append(os.Environ(), p.Env...)
	}

	cmds := make([]*exec.Cmd, len(stages))
	nextStdin := stdin
	for i, stage := range stages {
		if len(stage.Argv) == 0 {
			return ErrEmptyCommand
		}
		cmd := exec.CommandContext(ctx, stage.Argv[0], stage.Argv[1:]...) // #nosec G204 -- argv comes from the user's config
		cmd.Dir = stage.Dir
		cmd.Env = env
		cmd.Stdin = nextStdin
		cmd.Stderr = stderr
		if i == len(stages)-1 {
			cmd.Stdout = stdout
		} else {
			pipe, err := cmd.StdoutPipe()
			if err != nil {
				return fmt.Errorf("creating pipe after %q: %w", stage.Argv[0], err)
			}
			nextStdin = pipe
		}
		cmds[i] = cmd
	}

	started := 0
	for i, cmd := range cmds {
		if p.Verbose {
			fmt.Fprintf(stderr, "EXEC %s\n", strings.Join(stages[i].Argv, " "))
		}
		if err := cmd.Start(); err != nil {
			// Reap the stages already running before bailing out.
			for _, running := range cmds[:started] {
				_ = running.Process.Kill()
				_ = running.Wait()
			}
			return fmt.Errorf("starting %q: %w", stages[i].Argv[0], err)
		}
		started++
	}

	var firstErr error
	for i, cmd := range cmds {
		if err := cmd.Wait(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("%q: %w", stages[i].Argv[0], err)
		}
	}
	return firstErr
}
