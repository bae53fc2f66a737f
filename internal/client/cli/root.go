package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/dmitrijs2005/patrimoine/internal/client/services"
	"github.com/dmitrijs2005/patrimoine/internal/client/session"
	"github.com/dmitrijs2005/patrimoine/internal/common"
)

const exitWord = "exit"

func (a *App) getStatus() string {
	s := ""
	if name := a.machine.Snapshot().Session.DisplayName(); name != "" {
		s = name + " "
	}
	if mode := a.Mode(); mode != "" {
		s = s + string(mode)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Root resolves the lock state, asks for the PIN when locked, then runs the
// REPL until the user exits.
func (a *App) Root(ctx context.Context) {
	log.Println("Welcome to patrimoine CLI (type 'help' for commands)")

	snap := a.bootstrap.Run(ctx)
	if snap.State == session.LockedAwaitingPin && !a.unlockLoop(ctx) {
		printlnFn("Bye!")
		return
	}

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.StartOnlineStatusWatcher(watchCtx, a.config.OnlineCheckInterval)

	if !a.isLoggedIn() {
		printlnFn("Not logged in. Use 'login' or 'register'.")
	}
	runREPL(ctx, a, a.getStatus, a.reader)
}

// unlockLoop asks for the PIN until it matches. It reports false when the
// user gives up or input ends.
func (a *App) unlockLoop(ctx context.Context) bool {
	printlnFn("The application is locked.")
	for {
		code, err := getPin(os.Stdout)
		if err != nil {
			log.Printf("error: %v", err)
			return false
		}
		entered := string(code)
		common.WipeByteArray(code)
		if entered == exitWord {
			return false
		}

		err = a.pinService.Unlock(ctx, entered)
		switch {
		case err == nil:
			printlnFn("Unlocked.")
			return true
		case errors.Is(err, services.ErrPinMismatch):
			printlnFn("Incorrect PIN")
		default:
			log.Printf("Unlock failed: %s", err.Error())
			return false
		}
	}
}
