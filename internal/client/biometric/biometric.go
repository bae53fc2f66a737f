// Package biometric is the client's view of the OS biometric subsystem:
// a hardware query, an enrollment query and a challenge prompt.
//
// A terminal has no biometric API of its own, so the real implementation,
// CommandAuthenticator, delegates to an external helper executable
// (for example a wrapper around fprintd-verify). Without a helper the
// client uses Unavailable.
package biometric

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// Prompt is what the challenge shows to the user.
type Prompt struct {
	Message       string
	FallbackLabel string
}

// Authenticator is the biometric collaborator.
type Authenticator interface {
	HasHardware(ctx context.Context) (bool, error)
	IsEnrolled(ctx context.Context) (bool, error)
	// Authenticate runs one challenge. A declined or failed challenge is
	// (false, nil); an error means the prompt could not run at all.
	Authenticate(ctx context.Context, p Prompt) (bool, error)
}

// Unavailable reports no hardware and never succeeds a challenge.
type Unavailable struct{}

func (Unavailable) HasHardware(context.Context) (bool, error) { return false, nil }
func (Unavailable) IsEnrolled(context.Context) (bool, error)  { return false, nil }
func (Unavailable) Authenticate(context.Context, Prompt) (bool, error) {
	return false, nil
}

// runCommand is a test seam over exec.CommandContext(...).Run.
var runCommand = func(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

var lookPath = exec.LookPath

// CommandAuthenticator drives a helper executable with three subcommands:
//
//	<helper> probe                                    exit 0: hardware present
//	<helper> enrolled                                 exit 0: a biometric is enrolled
//	<helper> authenticate --prompt P --fallback F     exit 0: challenge passed
//
// Any non-zero exit is a "no"; failing to start the helper is an error.
type CommandAuthenticator struct {
	Path string
}

func NewCommandAuthenticator(path string) (*CommandAuthenticator, error) {
	resolved, err := lookPath(path)
	if err != nil {
		return nil, fmt.Errorf("biometric helper: %w", err)
	}
	return &CommandAuthenticator{Path: resolved}, nil
}

func (c *CommandAuthenticator) HasHardware(ctx context.Context) (bool, error) {
	return c.run(ctx, "probe")
}

func (c *CommandAuthenticator) IsEnrolled(ctx context.Context) (bool, error) {
	return c.run(ctx, "enrolled")
}

func (c *CommandAuthenticator) Authenticate(ctx context.Context, p Prompt) (bool, error) {
	return c.run(ctx, "authenticate", "--prompt", p.Message, "--fallback", p.FallbackLabel)
}

func (c *CommandAuthenticator) run(ctx context.Context, args ...string) (bool, error) {
	err := runCommand(ctx, c.Path, args...)
	if err == nil {
		return true, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return false, nil
	}
	return false, fmt.Errorf("biometric helper %s: %w", args[0], err)
}

// New picks the implementation for a configured helper path: Unavailable
// when path is empty, CommandAuthenticator otherwise.
func New(path string) (Authenticator, error) {
	if path == "" {
		return Unavailable{}, nil
	}
	return NewCommandAuthenticator(path)
}
