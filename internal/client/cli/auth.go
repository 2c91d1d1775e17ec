package cli

import (
	"context"
	"errors"
	"fmt"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

var errInvalidInput = errors.New("invalid input")

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// Register prompts for name, email and password and creates an account.
// It does not log the user in.
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
	defer wipe(password)

	if email == "" || len(password) == 0 {
		printlnFn("Email and password are required.")
		return errInvalidInput
	}

	if _, err := a.session.Register(ctx, name, email, string(password)); err != nil {
		return a.fail(ctx, err, "Registration failed")
	}

	printlnFn("Registration successful. You can now log in.")
	return nil
}

// Login prompts for credentials and starts a session.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer wipe(password)

	if _, err := a.session.Login(ctx, email, string(password)); err != nil {
		return a.fail(ctx, err, "Login failed")
	}

	snap := a.session.Snapshot()
	if snap.User == nil {
		printlnFn("Logged in, but your profile could not be loaded. Please log in again.")
		return nil
	}
	printlnFn(fmt.Sprintf("Welcome, %s!", displayName(snap.User.Name, snap.User.Email)))
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.session.Logout(ctx)
	printlnFn("Logged out.")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	u := a.session.Snapshot().User
	if u == nil {
		printlnFn("Not logged in.")
		return nil
	}
	printlnFn(fmt.Sprintf("%s <%s> (id %s)", displayName(u.Name, u.Email), u.Email, u.ID))
	if u.WorkspaceID != "" {
		printlnFn("Workspace:", u.WorkspaceID)
	}
	if at, ok := a.session.SavedAt(ctx); ok {
		printlnFn("Session saved at", at.Local().Format(dateLayout))
	}
	return nil
}

func displayName(name, email string) string {
	if name != "" {
		return name
	}
	return email
}
