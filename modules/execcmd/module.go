// Package execcmd provides the 'exec' runner: it runs one shell command and
// exposes its output to dependent tasks.
package execcmd

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/vk/taskgridgo/internal/ctxlog"
	"github.com/vk/taskgridgo/internal/registry"
	"github.com/vk/taskgridgo/internal/task"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments for the exec runner.
type Input struct {
	Command string `cty:"command"`
	Shell   string `cty:"shell,optional"`
	Dir     string `cty:"dir,optional"`
}

// run executes the command through the configured shell. A non-zero exit is
// a task failure carrying the captured stderr.
func run(ctx context.Context, input any, deps task.ResultMap) (any, error) {
	in := input.(*Input)
	logger := ctxlog.FromContext(ctx)

	shell := in.Shell
	if shell == "" {
		shell = "/bin/sh"
	}
	logger.Info("Running command.", "shell", shell, "command", in.Command)

	cmd := exec.CommandContext(ctx, shell, "-c", in.Command)
	cmd.Dir = in.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("command failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	logger.Info("Command finished.", "exit_code", cmd.ProcessState.ExitCode())
	return map[string]any{
		"stdout":    stdout.String(),
		"stderr":    stderr.String(),
		"exit_code": cmd.ProcessState.ExitCode(),
	}, nil
}

// Register registers the 'exec' runner.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterRunner("exec", &registry.RegisteredRunner{
		NewInput: func() any { return new(Input) },
		Fn:       run,
	})
}
