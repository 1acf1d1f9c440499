package services

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// CommandRunner executes an external command and returns its combined output.
// Stage implementations accept a CommandRunner so tests can substitute one
// without shelling out.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// RunCommand is the default CommandRunner backed by os/exec.
func RunCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return output, fmt.Errorf("%w: %s: %w", ErrTimeout, name, ctxErr)
		}
		return output, fmt.Errorf("%s: %w: %s", name, err, OutputTail(output, 500))
	}
	return output, nil
}

// OutputTail returns the trailing portion of command output for error
// messages, trimmed to at most max bytes.
func OutputTail(output []byte, max int) string {
	text := strings.TrimSpace(string(output))
	if max > 0 && len(text) > max {
		text = text[len(text)-max:]
	}
	return text
}

// LookBinary resolves a binary on PATH, mapping the failure to ErrUnavailable
// so callers can distinguish "tool missing" from "tool failed".
func LookBinary(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: empty binary name", ErrValidation)
	}
	path, err := exec.LookPath(name)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", fmt.Errorf("%w: binary %q not found on PATH", ErrUnavailable, name)
		}
		return "", fmt.Errorf("resolve binary %q: %w", name, err)
	}
	return path, nil
}
