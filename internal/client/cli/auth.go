package cli

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/dmitrijs2005/patrimoine/internal/client/client"
	"github.com/dmitrijs2005/patrimoine/internal/common"
)

// getSimpleText, getPassword and getPin are indirections used to facilitate
// testing. They point to interactive input helpers and can be swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getPin        = GetPin
)

var errEmptyField = errors.New("value required")

// Register prompts for an email, a full name and a password, creates the
// account and signs the new session in.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	fullName, err := getSimpleText(a.reader, "Enter full name", os.Stdout)
	if err != nil {
		return err
	}
	if email == "" || fullName == "" {
		printlnFn("Email and full name are required.")
		return errEmptyField
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	s, err := a.authService.Register(ctx, email, password, fullName)
	if err != nil {
		log.Printf("Registration unsuccessful: %s", client.ServerMessage(err))
		return err
	}

	log.Printf("Welcome, %s!", s.DisplayName())
	return nil
}

// Login prompts for credentials and signs the session in. The password is
// wiped before returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	s, err := a.authService.Login(ctx, email, password)
	if err != nil {
		if errors.Is(err, client.ErrUnavailable) {
			a.setMode(ModeOffline)
		}
		log.Printf("Login unsuccessful: %s", client.ServerMessage(err))
		return err
	}

	log.Printf("Login successful, hello %s", s.DisplayName())
	a.setMode(ModeOnline)
	return nil
}

// Logout forgets the stored token and drops the session.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		log.Printf("Logout failed: %s", err.Error())
		return err
	}
	printlnFn("Logged out.")
	return nil
}
