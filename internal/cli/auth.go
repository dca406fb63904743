package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/rerange/internal/common"
	"github.com/dmitrijs2005/rerange/internal/models"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

const welcomeText = `Welcome to RERANGE! Your starter list "My First List" is ready.
Type 'help' to see what you can do.`

// Signup prompts for profile, password and activation code, creates the
// account and signs it in.
func (a *App) Signup(ctx context.Context, _ []string) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	name, err := getSimpleText(a.reader, "Enter your name", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	code, err := getSimpleText(a.reader, "Enter activation code", a.out)
	if err != nil {
		return err
	}

	profile := models.Profile{Email: email, Name: name}
	if err := a.store.Signup(ctx, profile, string(password), code); err != nil {
		return a.checkAuth(ctx, "signup", email, err)
	}

	if a.store.ConsumeWelcome() {
		printlnFn(welcomeText)
	}
	a.syncPomodoro()
	return nil
}

// Login prompts for credentials. An expired subscription leads straight
// into the reactivation prompt.
func (a *App) Login(ctx context.Context, args []string) error {
	email, err := a.emailArg(args)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	err = a.store.Login(ctx, email, string(password))
	if errors.Is(err, common.ErrSubscriptionExpired) {
		printlnFn("Your subscription has expired.")
		return a.reactivate(ctx, email, password)
	}
	if err != nil {
		return a.checkAuth(ctx, "login", email, err)
	}

	printlnFn("Login successful")
	a.syncPomodoro()
	return nil
}

// Reactivate extends an expired account with a new activation code.
func (a *App) Reactivate(ctx context.Context, args []string) error {
	email, err := a.emailArg(args)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	return a.reactivate(ctx, email, password)
}

func (a *App) reactivate(ctx context.Context, email string, password []byte) error {
	code, err := getSimpleText(a.reader, "Enter a new activation code (empty to cancel)", a.out)
	if err != nil {
		return err
	}
	if code == "" {
		return common.ErrSubscriptionExpired
	}

	if err := a.store.Reactivate(ctx, email, string(password), code); err != nil {
		return a.checkAuth(ctx, "reactivate", email, err)
	}

	printlnFn("Subscription renewed. Login successful")
	a.syncPomodoro()
	return nil
}

func (a *App) emailArg(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return getSimpleText(a.reader, "Enter email", a.out)
}

// Logout saves the session and signs out. Pending reminders keep running.
func (a *App) Logout(ctx context.Context, _ []string) error {
	if !a.store.IsActive() {
		printlnFn("Not logged in")
		return nil
	}
	if err := a.store.Logout(ctx); err != nil {
		return err
	}
	a.timer.Reset()
	a.syncPomodoro()
	printlnFn("Logged out")
	return nil
}

// Profile shows the account or changes its name or picture.
func (a *App) Profile(ctx context.Context, args []string) error {
	if len(args) == 0 {
		acc, ok := a.store.CurrentAccount()
		if !ok {
			return common.ErrNotAuthenticated
		}
		printlnFn(fmt.Sprintf("Email:   %s\nName:    %s\nPicture: %s", acc.Email, acc.Name, acc.ProfilePicture))
		return nil
	}

	if len(args) < 2 {
		return usage("profile name|picture <value>")
	}
	value := strings.Join(args[1:], " ")

	var patch models.ProfilePatch
	switch args[0] {
	case "name":
		patch.Name = &value
	case "picture":
		patch.ProfilePicture = &value
	default:
		return usage("profile name|picture <value>")
	}

	acc, err := a.store.UpdateProfile(ctx, patch)
	if err != nil {
		return err
	}
	printlnFn("Profile updated for", acc.Email)
	return nil
}
