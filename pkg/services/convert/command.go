package convert

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Runner runs external programs.
type Runner interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs programs with os/exec and returns their combined output.
type ExecRunner struct{}

func (ExecRunner) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Command converts through an office suite command-line tool.
type Command struct {
	tool    string
	path    string
	enabled bool
	runner  Runner
}

func NewCommand(tool, path string, enabled bool, runner Runner) (*Command, error) {
	switch tool {
	case "unoconv", "soffice", "libreoffice":
	default:
		return nil, fmt.Errorf("unsupported conversion tool %q (want unoconv, soffice or libreoffice)", tool)
	}
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Command{tool: tool, path: path, enabled: enabled, runner: runner}, nil
}

func (c *Command) Name() string { return c.tool }

// Executable returns the resolved tool path, or ErrUnavailable.
func (c *Command) Executable() (string, error) {
	if !c.enabled {
		return "", fmt.Errorf("%w: %s disabled", ErrUnavailable, c.tool)
	}
	exe := c.path
	if exe == "" {
		exe = c.tool
	}
	resolved, err := c.runner.LookPath(exe)
	if err != nil {
		return "", fmt.Errorf("%w: %s not found", ErrUnavailable, exe)
	}
	return resolved, nil
}

func (c *Command) Convert(ctx context.Context, in, out string) error {
	exe, err := c.Executable()
	if err != nil {
		return err
	}

	output, err := c.runner.Run(ctx, exe, c.args(in, out)...)
	if err != nil {
		return &ConversionFailedError{Converter: c.tool, Diagnostic: strings.TrimSpace(string(output)), Err: err}
	}
	if _, err := os.Stat(out); errors.Is(err, os.ErrNotExist) {
		return &ConversionFailedError{
			Converter:  c.tool,
			Diagnostic: strings.TrimSpace(string(output)),
			Err:        fmt.Errorf("no output written to %s", out),
		}
	}
	return nil
}

func (c *Command) args(in, out string) []string {
	if c.tool == "unoconv" {
		return []string{"-f", "pdf", "-o", out, in}
	}
	// soffice names the result after the input inside --outdir
	return []string{"--headless", "--convert-to", "pdf", "--outdir", filepath.Dir(out), in}
}
