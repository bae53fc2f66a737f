package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/dmitrijs2005/patrimoine/internal/client/client"
	"github.com/dmitrijs2005/patrimoine/internal/client/models"
	"github.com/dmitrijs2005/patrimoine/internal/common"
)

var errPinConfirmation = errors.New("PIN confirmation does not match")

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func (a *App) WhoAmI(ctx context.Context) error {
	s := a.machine.Snapshot().Session
	if s == nil || s.User == nil {
		printlnFn("Not logged in.")
		return nil
	}
	printlnFn(fmt.Sprintf("%s <%s> (id %d)", s.User.FullName, s.User.Email, s.User.ID))
	return nil
}

// Settings shows the security preferences and whether a local PIN exists.
func (a *App) Settings(ctx context.Context) error {
	prefs, err := a.prefService.Load(ctx, a.machine.Snapshot().Session)
	if err != nil {
		log.Printf("Cannot load settings: %s", err.Error())
		return err
	}
	hasPin, err := a.pinService.IsConfigured(ctx)
	if err != nil {
		log.Printf("Cannot read PIN state: %s", err.Error())
		return err
	}

	printlnFn("PIN lock:  ", onOff(prefs.UsePin))
	printlnFn("Biometrics:", onOff(prefs.UseBiometrics))
	printlnFn("PIN set:   ", common.FormatBool(hasPin))
	return nil
}

func (a *App) TogglePin(ctx context.Context, on bool) error {
	return a.updatePreferences(ctx, func(p *models.Preferences) { p.UsePin = on })
}

func (a *App) ToggleBiometrics(ctx context.Context, on bool) error {
	return a.updatePreferences(ctx, func(p *models.Preferences) { p.UseBiometrics = on })
}

func (a *App) updatePreferences(ctx context.Context, change func(*models.Preferences)) error {
	s := a.machine.Snapshot().Session
	prefs, err := a.prefService.Load(ctx, s)
	if err != nil {
		log.Printf("Cannot load settings: %s", err.Error())
		return err
	}
	change(&prefs)

	if err := a.prefService.Update(ctx, s, prefs); err != nil {
		log.Printf("Saved on this device, server update failed: %s", client.ServerMessage(err))
		return err
	}
	printlnFn("Settings saved.")
	return nil
}

// SetPin asks for a new PIN twice and stores it. The lock applies from the
// next start.
func (a *App) SetPin(ctx context.Context) error {
	first, err := getPin(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(first)

	printlnFn("Repeat the code.")
	second, err := getPin(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(second)

	if string(first) != string(second) {
		printlnFn("Codes do not match.")
		return errPinConfirmation
	}
	if err := a.pinService.Set(ctx, string(first)); err != nil {
		printlnFn(err.Error())
		return err
	}
	printlnFn("PIN saved.")
	return nil
}

func (a *App) ClearPin(ctx context.Context) error {
	if err := a.pinService.Clear(ctx); err != nil {
		log.Printf("Cannot remove PIN: %s", err.Error())
		return err
	}
	printlnFn("PIN removed.")
	return nil
}
