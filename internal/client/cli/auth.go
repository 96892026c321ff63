package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hbk8784/ai-note-client/internal/client/guard"
)

// argOrPrompt returns args[0] or asks for the value.
func (a *App) argOrPrompt(args []string, prompt string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return GetSimpleText(a.in, prompt)
}

func (a *App) register(ctx context.Context, _ []string) error {
	name, err := GetSimpleText(a.in, "Name")
	if err != nil {
		return err
	}
	email, err := GetSimpleText(a.in, "Email")
	if err != nil {
		return err
	}
	password, err := GetPassword(a.in, a.out, "Password")
	if err != nil {
		return err
	}
	defer wipe(password)

	resp, err := a.session.SignUp(ctx, name, email, string(password))
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, resp.Message)
	fmt.Fprintln(a.out, "Follow the link in the email, or run: verify <token>")
	return nil
}

func (a *App) login(ctx context.Context, args []string) error {
	email, err := a.argOrPrompt(args, "Email")
	if err != nil {
		return err
	}
	password, err := GetPassword(a.in, a.out, "Password")
	if err != nil {
		return err
	}
	defer wipe(password)

	s, err := a.session.SignIn(ctx, email, string(password))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Welcome, %s!\n", s.User.Name)
	a.navigate(ctx, guard.Notes)
	return nil
}

func (a *App) verify(ctx context.Context, args []string) error {
	token, err := a.argOrPrompt(args, "Verification token")
	if err != nil {
		return err
	}
	msg, err := a.session.VerifyEmail(ctx, token)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, msg)
	return nil
}

func (a *App) forgot(ctx context.Context, args []string) error {
	email, err := a.argOrPrompt(args, "Email")
	if err != nil {
		return err
	}
	msg, err := a.session.ForgotPassword(ctx, email)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, msg)
	return nil
}

func (a *App) reset(ctx context.Context, args []string) error {
	token, err := a.argOrPrompt(args, "Reset token")
	if err != nil {
		return err
	}
	password, err := GetPassword(a.in, a.out, "New password")
	if err != nil {
		return err
	}
	defer wipe(password)
	confirm, err := GetPassword(a.in, a.out, "Confirm password")
	if err != nil {
		return err
	}
	defer wipe(confirm)

	msg, err := a.session.ResetPassword(ctx, token, string(password), string(confirm))
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, msg)
	fmt.Fprintln(a.out, "You can now sign in with: login")
	a.navigate(ctx, guard.Login)
	return nil
}

func (a *App) logout(ctx context.Context, _ []string) error {
	a.session.SignOut(ctx)
	a.navigate(ctx, guard.Home)
	fmt.Fprintln(a.out, "Signed out.")
	return nil
}

func (a *App) whoami(ctx context.Context, args []string) error {
	u := a.session.CurrentUser()
	if len(args) > 0 && args[0] == "--remote" {
		var err error
		if u, err = a.session.Profile(ctx); err != nil {
			return err
		}
	}
	if u == nil {
		fmt.Fprintln(a.out, "Not signed in.")
		return nil
	}

	verified := "no"
	if u.EmailVerified {
		verified = "yes"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Name:     %s\n", u.Name)
	fmt.Fprintf(&b, "Email:    %s\n", u.Email)
	fmt.Fprintf(&b, "Verified: %s\n", verified)
	if exp, ok := a.session.TokenExpiry(); ok {
		fmt.Fprintf(&b, "Session:  expires %s\n", exp.Local().Format(time.DateTime))
	}
	fmt.Fprint(a.out, b.String())
	return nil
}
