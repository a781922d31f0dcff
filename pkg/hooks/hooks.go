// Package hooks provides pre and post fill hook functionality.
package hooks

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/go-andiamo/splitter"
)

// OutputDirPlaceholder is replaced by the fill target in the post fill command.
const OutputDirPlaceholder = "%OUTPUTDIR%"

// Hooks holds the configuration for pre and post fill hooks.
type Hooks struct {
	PreFill  string `env:"PREFILL"  env-default:"" yaml:"prefill"`
	PostFill string `env:"POSTFILL" env-default:"" yaml:"postfill"`
}

// GeneratePreFillCmd generates the pre fill command.
func (h *Hooks) GeneratePreFillCmd() string {
	return h.PreFill
}

// GeneratePostFillCmd generates the post fill command.
func (h *Hooks) GeneratePostFillCmd(target string) string {
	cmd := strings.ReplaceAll(h.PostFill, OutputDirPlaceholder, target)
	return cmd
}

// HasPreFill returns true if a pre fill command is defined.
func (h *Hooks) HasPreFill() bool {
	return h.PreFill != ""
}

// HasPostFill returns true if a post fill command is defined.
func (h *Hooks) HasPostFill() bool {
	return h.PostFill != ""
}

// ExecutePreFill executes the pre fill command.
func (h *Hooks) ExecutePreFill() error {
	return execute(h.GeneratePreFillCmd())
}

// ExecutePostFill executes the post fill command.
func (h *Hooks) ExecutePostFill(target string) error {
	return execute(h.GeneratePostFillCmd(target))
}

// execute executes the given command.
func execute(command string) error {
	if command == "" {
		return nil
	}
	commandSplitter, err := splitter.NewSplitter(' ', splitter.SingleQuotes, splitter.DoubleQuotes)
	if err != nil {
		return fmt.Errorf("failed to create command splitter: %w", err)
	}
	trimmer := splitter.Trim("'\"")
	splitCmd, err := commandSplitter.Split(command, trimmer)
	if err != nil {
		return fmt.Errorf("failed to parse command '%s': %w", command, err)
	}
	if len(splitCmd) == 0 {
		return nil
	}
	//nolint:gosec,noctx // G204: Command execution with user input is intentional for hook functionality
	_, err = exec.Command(splitCmd[0], splitCmd[1:]...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("failed to execute %s: %w", command, err)
	}
	return nil
}
