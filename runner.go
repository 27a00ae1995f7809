package slider

import (
	"bytes"
	"os/exec"
	"strings"
)

// CommandRunner abstracts external process execution to enable testing
// without real subprocesses.
type CommandRunner interface {
	Run(stdin string, name string, args ...string) (stdout, stderr string, err error)
}

// ExecRunner implements CommandRunner using os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(stdin, name string, args ...string) (string, string, error) {
	cmd := exec.Command(name, args...)
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}
	var out, errOut bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errOut
	err := cmd.Run()
	return out.String(), errOut.String(), err
}
