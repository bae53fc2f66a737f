package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Settings(ctx context.Context) error
	TogglePin(ctx context.Context, on bool) error
	ToggleBiometrics(ctx context.Context, on bool) error
	SetPin(ctx context.Context) error
	ClearPin(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. The loop exits on EOF or when the user
// types "exit" or "quit".
//
//	Not logged in:
//	  - help                 show available commands
//	  - register             create an account
//	  - login                authenticate
//	  - exit | quit          leave the program
//
//	Logged in:
//	  - whoami               show the session owner
//	  - settings             show the security preferences
//	  - pin on|off           toggle the PIN lock preference
//	  - biometrics on|off    toggle the biometric preference
//	  - setpin / clearpin    change or remove the local PIN
//	  - logout               log out
//	  - exit | quit          leave the program
//
// Errors returned by command handlers are ignored here; handlers report
// their own errors.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("patrimoine %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if requiresSession(cmd) && !a.isLoggedIn() {
			printlnFn("Please log in first.")
			continue
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, settings, pin on|off, biometrics on|off, setpin, clearpin, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "settings":
			_ = a.Settings(ctx)

		case "pin", "biometrics":
			on, ok := parseToggle(args)
			if !ok {
				printlnFn("Usage:", cmd, "on|off")
				continue
			}
			if cmd == "pin" {
				_ = a.TogglePin(ctx, on)
			} else {
				_ = a.ToggleBiometrics(ctx, on)
			}

		case "setpin":
			_ = a.SetPin(ctx)

		case "clearpin":
			_ = a.ClearPin(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func requiresSession(cmd string) bool {
	switch cmd {
	case "whoami", "settings", "pin", "biometrics", "setpin", "clearpin", "logout":
		return true
	}
	return false
}

func parseToggle(args []string) (on bool, ok bool) {
	if len(args) != 1 {
		return false, false
	}
	switch strings.ToLower(args[0]) {
	case "on":
		return true, true
	case "off":
		return false, true
	}
	return false, false
}
