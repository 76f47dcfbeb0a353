package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/propman/internal/client/session"
	"github.com/dmitrijs2005/propman/internal/common"
)

// getSimpleText, getPassword and getChoice are indirections used to
// facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword
var getChoice = GetChoice

// Login prompts for credentials and signs in. Any failure is reported with
// the same message; the cause only goes to the debug log.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.session.Login(ctx, email, string(password)); err != nil {
		a.logger.Debug(ctx, "login failed", "error", err)
		printlnFn(session.MsgLoginFailed)
		return err
	}

	a.signedIn(ctx)
	return nil
}

// Register prompts for name, email and password, creates the account and
// signs in with it.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.session.Register(ctx, name, email, string(password)); err != nil {
		a.logger.Debug(ctx, "register failed", "error", err)
		printlnFn(session.MsgRegisterFailed)
		return err
	}

	a.signedIn(ctx)
	return nil
}

func (a *App) signedIn(ctx context.Context) {
	printlnFn(fmt.Sprintf("Signed in as %s", a.getStatus()))
	a.mountView(ctx)
}

// Logout forgets the token and tears the properties view down.
func (a *App) Logout(ctx context.Context) error {
	a.view.Unmount()
	if err := a.session.Logout(ctx); err != nil {
		a.logger.Error(ctx, "logout", "error", err)
		if errors.Is(err, session.ErrTokenNotCleared) {
			printlnFn(session.MsgTokenNotCleared)
		}
		return err
	}
	printlnFn("Logged out.")
	return nil
}

func (a *App) Whoami(ctx context.Context) error {
	if !a.protected() {
		return nil
	}
	u := a.session.User()
	printlnFn(fmt.Sprintf("%s (id=%v)", u.DisplayName(), u["id"]))
	return nil
}
