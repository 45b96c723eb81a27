package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/comparehub/internal/client/client"
	"github.com/dmitrijs2005/comparehub/internal/client/forms"
	"github.com/dmitrijs2005/comparehub/internal/client/services"
)

// getSimpleText, getPassword and getOTP are indirections used to facilitate
// testing. They point to interactive input helpers and can be swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getOTP        = GetOTP
)

func responseMessage(resp *client.AuthResponse, fallback string) string {
	if resp != nil && resp.Message != "" {
		return resp.Message
	}
	return fallback
}

func printStrength(w io.Writer, password string) {
	for _, r := range forms.PasswordStrength(password) {
		mark := "✗"
		if r.Met {
			mark = "✓"
		}
		fmt.Fprintf(w, "  %s %s\n", mark, r.Text)
	}
}

// Register prompts for the account details and creates the account. The
// email is remembered for the verify step.
func (a *App) Register(ctx context.Context, _ []string) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	first, err := getSimpleText(a.reader, "Enter first name", a.out)
	if err != nil {
		return err
	}
	last, err := getSimpleText(a.reader, "Enter last name", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, "Enter password", a.out)
	if err != nil {
		return err
	}
	printStrength(a.out, password)

	resp, err := a.authService.Register(ctx, forms.Registration{
		Email:     email,
		Password:  password,
		FirstName: first,
		LastName:  last,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, responseMessage(resp, "Registration successful! Please check your email for the verification code."))
	fmt.Fprintln(a.out, "Type 'verify' to enter the code.")
	return nil
}

// Login prompts for credentials and signs in.
func (a *App) Login(ctx context.Context, _ []string) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, "Enter password", a.out)
	if err != nil {
		return err
	}

	if _, err := a.authService.Login(ctx, forms.Login{Email: email, Password: password}); err != nil {
		return err
	}

	name := email
	if s, err := a.authService.Session(ctx); err == nil && s.Email != "" {
		name = s.Email
	}
	a.setUser(name)
	a.setMode(ModeOnline)
	fmt.Fprintln(a.out, "Login successful!")
	return nil
}

// pendingOrAsk returns the email given on the command line, the pending
// one for flow, or asks for it.
func (a *App) pendingOrAsk(ctx context.Context, args []string, flow services.PendingFlow) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	email, err := a.authService.PendingEmail(ctx, flow)
	if err == nil {
		return email, nil
	}
	if !errors.Is(err, services.ErrNoPendingEmail) {
		return "", err
	}
	return getSimpleText(a.reader, "Enter email", a.out)
}

// Verify asks for the emailed code and confirms the address.
func (a *App) Verify(ctx context.Context, args []string) error {
	email, err := a.pendingOrAsk(ctx, args, services.PendingVerification)
	if err != nil {
		return err
	}
	code, err := getOTP(a.reader, fmt.Sprintf("Enter the 6-digit code sent to %s", email), a.out)
	if err != nil {
		return err
	}

	resp, err := a.authService.VerifyEmail(ctx, email, code)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, responseMessage(resp, "Email verified successfully! You can now log in."))
	return nil
}

func (a *App) Resend(ctx context.Context, args []string) error {
	email, err := a.pendingOrAsk(ctx, args, services.PendingVerification)
	if err != nil {
		return err
	}
	resp, err := a.authService.ResendVerification(ctx, email)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, responseMessage(resp, "Verification code sent! Please check your email."))
	return nil
}

func (a *App) Forgot(ctx context.Context, _ []string) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	resp, err := a.authService.ForgotPassword(ctx, email)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, responseMessage(resp, "Password reset code sent! Please check your email."))
	fmt.Fprintln(a.out, "Type 'reset' to choose a new password.")
	return nil
}

func (a *App) ResendReset(ctx context.Context, args []string) error {
	email, err := a.pendingOrAsk(ctx, args, services.PendingReset)
	if err != nil {
		return err
	}
	resp, err := a.authService.ResendForgotCode(ctx, email)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, responseMessage(resp, "Password reset code sent! Please check your email."))
	return nil
}

// Reset asks for the reset code and the new password twice.
func (a *App) Reset(ctx context.Context, args []string) error {
	email, err := a.pendingOrAsk(ctx, args, services.PendingReset)
	if err != nil {
		return err
	}
	code, err := getOTP(a.reader, fmt.Sprintf("Enter the 6-digit code sent to %s", email), a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, "Enter new password", a.out)
	if err != nil {
		return err
	}
	printStrength(a.out, password)
	confirm, err := getPassword(a.reader, "Confirm new password", a.out)
	if err != nil {
		return err
	}

	resp, err := a.authService.ResetPassword(ctx, forms.Reset{
		Email:           email,
		OTPCode:         code,
		NewPassword:     password,
		ConfirmPassword: confirm,
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, responseMessage(resp, "Password reset successfully! You can now log in with your new password."))
	return nil
}

func (a *App) WhoAmI(ctx context.Context, _ []string) error {
	s, err := a.authService.Session(ctx)
	if err != nil {
		return err
	}
	if !s.LoggedIn {
		fmt.Fprintln(a.out, "Not logged in")
		return nil
	}

	fmt.Fprintf(a.out, "Email: %s\n", s.Email)
	if s.GivenName != "" {
		fmt.Fprintf(a.out, "Name: %s\n", s.GivenName)
	}
	if s.ExpiresAt > 0 {
		fmt.Fprintf(a.out, "Session expires: %s\n", time.Unix(s.ExpiresAt, 0).Format(time.RFC1123))
	}
	return nil
}

// Logout removes the stored tokens. Price alerts stay.
func (a *App) Logout(ctx context.Context, _ []string) error {
	if err := a.authService.Logout(ctx); err != nil {
		return err
	}
	a.setUser("")
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
