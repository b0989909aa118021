package cli

import (
	"context"

	"github.com/dmitrijs2005/tasklist/internal/client/api"
	"github.com/dmitrijs2005/tasklist/internal/client/forms"
	"github.com/dmitrijs2005/tasklist/internal/client/guard"
	"github.com/dmitrijs2005/tasklist/internal/common"
)

// home sends guests to the login page; signed-in callers never get here
// because the guard redirects them to the task list first.
func (a *App) home(_ context.Context, _ *guard.Mount, _ []string) error {
	a.router.Navigate(common.PathLogin)
	return nil
}

// login prompts for credentials, validates them locally and exchanges them
// for a token. The token is stored before navigating to the task list.
func (a *App) login(ctx context.Context, _ *guard.Mount, _ []string) error {
	vals, err := forms.LoginForm().Ask(a.input(), a.out, func(v forms.Values) error {
		return forms.ValidateLogin(v.Login())
	})
	if err != nil {
		return err
	}

	token, err := a.auth.Login(ctx, vals.Login())
	if err != nil {
		a.log.Info(ctx, "login failed", "error", err)
		a.shell.Error(api.Message(err, "Login failed"))
		return err
	}
	if err := a.store.Set(ctx, token); err != nil {
		a.log.Error(ctx, "error storing credential", "error", err)
		a.shell.Error("Login failed")
		return err
	}

	a.shell.Success("Login successful")
	a.router.Navigate(common.PathTasks)
	return nil
}

// register creates an account. The token the server may return is not
// stored; the user signs in afterwards.
func (a *App) register(ctx context.Context, _ *guard.Mount, _ []string) error {
	vals, err := forms.RegisterForm().Ask(a.input(), a.out, func(v forms.Values) error {
		return forms.ValidateRegister(v.Register())
	})
	if err != nil {
		return err
	}

	if _, err := a.auth.Register(ctx, vals.Register()); err != nil {
		a.log.Info(ctx, "registration failed", "error", err)
		a.shell.Error(api.Message(err, "Registration failed"))
		return err
	}

	a.shell.Success("Registration successful. Please log in.")
	a.router.Navigate(common.PathLogin)
	return nil
}

// logout tells the server first (best effort) and always clears the local
// credential.
func (a *App) logout(ctx context.Context, _ *guard.Mount, _ []string) error {
	if err := a.auth.Logout(ctx); err != nil {
		a.log.Warn(ctx, "server logout failed", "error", err)
	}
	if err := a.store.Clear(ctx); err != nil {
		a.log.Error(ctx, "error clearing credential", "error", err)
		a.shell.Error("Logout failed")
		return err
	}

	a.userName = ""
	a.shell.Success("Logged out")
	a.router.Navigate(common.PathLogin)
	return nil
}
