// Package services contains application services for the CompareHub client.
// This file defines the authentication service: the seven auth flows with
// their challenge retry, per-flow latches, resend cooldowns and the local
// storage side effects of each flow.
package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/time/rate"

	"github.com/dmitrijs2005/comparehub/internal/client/challenge"
	"github.com/dmitrijs2005/comparehub/internal/client/client"
	"github.com/dmitrijs2005/comparehub/internal/client/forms"
	"github.com/dmitrijs2005/comparehub/internal/client/models"
	"github.com/dmitrijs2005/comparehub/internal/client/repositories/storage"
	"github.com/dmitrijs2005/comparehub/internal/dbx"
	"github.com/dmitrijs2005/comparehub/internal/logging"
)

// ResendCooldown is the minimum gap between two successful code resends.
const ResendCooldown = 60 * time.Second

// PendingFlow selects which pending email PendingEmail reads.
type PendingFlow int

const (
	PendingVerification PendingFlow = iota
	PendingReset
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - every flow validates its input first and sends nothing when that fails;
//   - challenge-capable flows retry at most once with a fresh challenge token;
//   - a flow already in flight returns ErrInProgress;
//   - a 2xx answer with success=false is a *client.RequestFailedError.
//
// An empty email argument on VerifyEmail, the resends and ResetPassword means
// "use the pending email" stored by Register or ForgotPassword.
type AuthService interface {
	Register(ctx context.Context, r forms.Registration) (*client.AuthResponse, error)
	Login(ctx context.Context, l forms.Login) (*client.AuthResponse, error)
	VerifyEmail(ctx context.Context, email, otpCode string) (*client.AuthResponse, error)
	ResendVerification(ctx context.Context, email string) (*client.AuthResponse, error)
	ForgotPassword(ctx context.Context, email string) (*client.AuthResponse, error)
	ResendForgotCode(ctx context.Context, email string) (*client.AuthResponse, error)
	ResetPassword(ctx context.Context, r forms.Reset) (*client.AuthResponse, error)

	Logout(ctx context.Context) error
	Session(ctx context.Context) (*models.Session, error)
	PendingEmail(ctx context.Context, flow PendingFlow) (string, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type flow struct {
	name    string
	action  string
	failure string
	latch   atomic.Bool
}

type authService struct {
	client    client.Client
	db        *sql.DB
	challenge challenge.Provider
	log       logging.Logger
	now       func() time.Time

	register, login, verify, resendVerify, forgot, resendForgot, reset *flow

	resendVerifyLimiter *rate.Limiter
	resendForgotLimiter *rate.Limiter
}

type AuthOption func(*authService)

func WithAuthLogger(l logging.Logger) AuthOption {
	return func(a *authService) { a.log = l }
}

func withClock(now func() time.Time) AuthOption {
	return func(a *authService) { a.now = now }
}

// NewAuthService constructs an AuthService bound to the given API client,
// local DB and challenge provider.
func NewAuthService(c client.Client, db *sql.DB, p challenge.Provider, opts ...AuthOption) AuthService {
	if p == nil {
		p = challenge.NoneProvider{}
	}
	a := &authService{
		client:    c,
		db:        db,
		challenge: p,
		log:       logging.Nop(),
		now:       time.Now,

		register:     &flow{name: "register", action: challenge.ActionRegister, failure: "Registration failed. Please try again."},
		login:        &flow{name: "login", action: challenge.ActionLogin, failure: "Login failed. Please check your credentials and try again."},
		verify:       &flow{name: "verify_email", failure: "Verification failed. Please try again."},
		resendVerify: &flow{name: "resend_verification", action: challenge.ActionResendVerification, failure: "Failed to resend verification code. Please try again."},
		forgot:       &flow{name: "forgot_password", action: challenge.ActionForgotPassword, failure: "Failed to send password reset email. Please try again."},
		resendForgot: &flow{name: "resend_forgot_code", action: challenge.ActionResendForgotCode, failure: "Failed to resend password reset code. Please try again."},
		reset:        &flow{name: "reset_password", action: challenge.ActionResetPassword, failure: "Password reset failed. Please try again."},

		resendVerifyLimiter: rate.NewLimiter(rate.Every(ResendCooldown), 1),
		resendForgotLimiter: rate.NewLimiter(rate.Every(ResendCooldown), 1),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

func (a *authService) repo() storage.Repository {
	return storage.NewSQLiteRepository(a.db)
}

type call func(ctx context.Context, token string) (*client.AuthResponse, error)

// run executes one flow: latch, first attempt with a passive token if any,
// then at most one retry with a freshly executed challenge.
func (a *authService) run(ctx context.Context, f *flow, do call) (*client.AuthResponse, error) {
	if !f.latch.CompareAndSwap(false, true) {
		return nil, ErrInProgress
	}
	defer f.latch.Store(false)

	log := a.log.With("flow", f.name)

	token := ""
	if f.action != "" {
		if p, ok := a.challenge.(challenge.Passive); ok {
			if t, ok := p.PassiveToken(ctx); ok {
				token = t
			}
		}
	}

	log.Debug(ctx, "sending request", "attempt", 1, "with_token", token != "")
	resp, err := do(ctx, token)
	if err != nil {
		return nil, err
	}

	if resp.ChallengeRequired() {
		if f.action == "" {
			return nil, ErrChallengeRequired
		}

		log.Info(ctx, "challenge required, obtaining token", "action", f.action)
		token, err = a.challenge.Execute(ctx, f.action)
		if err != nil {
			log.Warn(ctx, "challenge failed", "error", err)
			return nil, err
		}

		log.Debug(ctx, "sending request", "attempt", 2, "with_token", true)
		resp, err = do(ctx, token)
		if err != nil {
			return nil, err
		}
		if resp.ChallengeRequired() {
			log.Warn(ctx, "challenge still required after retry")
			return nil, ErrChallengeRequired
		}
	}

	if !resp.Success {
		msg := resp.Message
		if msg == "" {
			msg = f.failure
		}
		return nil, &client.RequestFailedError{Status: resp.Status, Message: msg}
	}
	return resp, nil
}

// cooldown reports how long until lim allows another send, without using
// up a token.
func (a *authService) cooldown(lim *rate.Limiter) time.Duration {
	now := a.now()
	r := lim.ReserveN(now, 1)
	d := r.DelayFrom(now)
	r.CancelAt(now)
	return d
}

func (a *authService) Register(ctx context.Context, r forms.Registration) (*client.AuthResponse, error) {
	r = r.Normalize()
	if err := forms.Validate(r); err != nil {
		return nil, err
	}

	resp, err := a.run(ctx, a.register, func(ctx context.Context, token string) (*client.AuthResponse, error) {
		return a.client.Register(ctx, client.Registration{
			Email:     r.Email,
			Password:  r.Password,
			FirstName: r.FirstName,
			LastName:  r.LastName,
		}, token)
	})
	if err != nil {
		return nil, err
	}

	if err := a.repo().Set(ctx, storage.ScopeSession, models.KeyPendingVerifyEmail, r.Email); err != nil {
		return nil, fmt.Errorf("save pending email: %w", err)
	}
	return resp, nil
}

func (a *authService) Login(ctx context.Context, l forms.Login) (*client.AuthResponse, error) {
	l = l.Normalize()
	if err := forms.Validate(l); err != nil {
		return nil, err
	}

	resp, err := a.run(ctx, a.login, func(ctx context.Context, token string) (*client.AuthResponse, error) {
		return a.client.Login(ctx, client.Credentials{Email: l.Email, Password: l.Password}, token)
	})
	if err != nil {
		return nil, err
	}

	if err := a.saveSession(ctx, l.Email, resp.Data); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return resp, nil
}

// saveSession persists the login artifacts in a single transaction.
func (a *authService) saveSession(ctx context.Context, email string, data json.RawMessage) error {
	var ld models.LoginData
	if len(data) > 0 {
		if err := json.Unmarshal(data, &ld); err != nil {
			a.log.Warn(ctx, "login data not understood", "error", err)
		}
	}

	user := "{}"
	if len(ld.User) > 0 && string(ld.User) != "null" {
		user = string(ld.User)
	}

	values := []struct{ key, value string }{
		{models.KeyAccessToken, ld.Tokens.AccessToken},
		{models.KeyRefreshToken, ld.Tokens.RefreshToken},
		{models.KeyIDToken, ld.Tokens.IDToken},
		{models.KeyUser, user},
		{models.KeyUserLoggedIn, "true"},
		{models.KeyUserEmail, email},
	}

	return dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := storage.NewSQLiteRepository(tx)
		for _, v := range values {
			if err := repo.Set(ctx, storage.ScopeLocal, v.key, v.value); err != nil {
				return err
			}
		}
		return nil
	})
}

func (a *authService) pendingOr(ctx context.Context, email string, flow PendingFlow) (string, error) {
	if email = strings.TrimSpace(email); email != "" {
		return email, nil
	}
	return a.PendingEmail(ctx, flow)
}

func (a *authService) VerifyEmail(ctx context.Context, email, otpCode string) (*client.AuthResponse, error) {
	email, err := a.pendingOr(ctx, email, PendingVerification)
	if err != nil {
		return nil, err
	}
	v := forms.Verify{Email: email, OTPCode: strings.TrimSpace(otpCode)}
	if err := forms.Validate(v); err != nil {
		return nil, err
	}

	resp, err := a.run(ctx, a.verify, func(ctx context.Context, _ string) (*client.AuthResponse, error) {
		return a.client.VerifyEmail(ctx, v.Email, v.OTPCode)
	})
	if err != nil {
		return nil, err
	}

	if err := a.repo().Delete(ctx, storage.ScopeSession, models.KeyPendingVerifyEmail); err != nil {
		return nil, fmt.Errorf("clear pending email: %w", err)
	}
	return resp, nil
}

func (a *authService) resend(ctx context.Context, f *flow, lim *rate.Limiter, email string, pending PendingFlow,
	send func(ctx context.Context, email, token string) (*client.AuthResponse, error)) (*client.AuthResponse, error) {

	email, err := a.pendingOr(ctx, email, pending)
	if err != nil {
		return nil, err
	}
	if err := forms.Validate(forms.Email{Email: email}); err != nil {
		return nil, err
	}
	// cooldown before the latch; the limiter is spent only on success, so a
	// concurrent duplicate gets ErrInProgress rather than CooldownError.
	if wait := a.cooldown(lim); wait > 0 {
		return nil, &CooldownError{Wait: wait}
	}

	resp, err := a.run(ctx, f, func(ctx context.Context, token string) (*client.AuthResponse, error) {
		return send(ctx, email, token)
	})
	if err != nil {
		return nil, err
	}

	lim.AllowN(a.now(), 1)
	return resp, nil
}

func (a *authService) ResendVerification(ctx context.Context, email string) (*client.AuthResponse, error) {
	return a.resend(ctx, a.resendVerify, a.resendVerifyLimiter, email, PendingVerification, a.client.ResendVerification)
}

func (a *authService) ResendForgotCode(ctx context.Context, email string) (*client.AuthResponse, error) {
	return a.resend(ctx, a.resendForgot, a.resendForgotLimiter, email, PendingReset, a.client.ResendForgotCode)
}

func (a *authService) ForgotPassword(ctx context.Context, email string) (*client.AuthResponse, error) {
	email = strings.TrimSpace(email)
	if err := forms.Validate(forms.Email{Email: email}); err != nil {
		return nil, err
	}

	resp, err := a.run(ctx, a.forgot, func(ctx context.Context, token string) (*client.AuthResponse, error) {
		return a.client.ForgotPassword(ctx, email, token)
	})
	if err != nil {
		return nil, err
	}

	if err := a.repo().Set(ctx, storage.ScopeSession, models.KeyPendingResetEmail, email); err != nil {
		return nil, fmt.Errorf("save pending email: %w", err)
	}
	return resp, nil
}

func (a *authService) ResetPassword(ctx context.Context, r forms.Reset) (*client.AuthResponse, error) {
	email, err := a.pendingOr(ctx, r.Email, PendingReset)
	if err != nil {
		return nil, err
	}
	r.Email = email
	r.OTPCode = strings.TrimSpace(r.OTPCode)
	if err := forms.Validate(r); err != nil {
		return nil, err
	}

	resp, err := a.run(ctx, a.reset, func(ctx context.Context, token string) (*client.AuthResponse, error) {
		return a.client.ResetPassword(ctx, client.PasswordReset{
			Email:       r.Email,
			OTPCode:     r.OTPCode,
			NewPassword: r.NewPassword,
		}, token)
	})
	if err != nil {
		return nil, err
	}

	if err := a.repo().Delete(ctx, storage.ScopeSession, models.KeyPendingResetEmail); err != nil {
		return nil, fmt.Errorf("clear pending email: %w", err)
	}
	return resp, nil
}

// PendingEmail returns the email stored for the verification or reset step.
func (a *authService) PendingEmail(ctx context.Context, flow PendingFlow) (string, error) {
	key := models.KeyPendingVerifyEmail
	if flow == PendingReset {
		key = models.KeyPendingResetEmail
	}
	v, ok, err := a.repo().Get(ctx, storage.ScopeSession, key)
	if err != nil {
		return "", err
	}
	if !ok || v == "" {
		return "", ErrNoPendingEmail
	}
	return v, nil
}

var sessionKeys = []string{
	models.KeyAccessToken,
	models.KeyRefreshToken,
	models.KeyIDToken,
	models.KeyUser,
	models.KeyUserLoggedIn,
	models.KeyUserEmail,
}

// Logout removes the login artifacts. Price alerts are kept.
func (a *authService) Logout(ctx context.Context) error {
	return dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := storage.NewSQLiteRepository(tx)
		for _, k := range sessionKeys {
			if err := repo.Delete(ctx, storage.ScopeLocal, k); err != nil {
				return err
			}
		}
		return nil
	})
}

// Session reads the stored login state. Claims are decoded from the id token
// without verification, for display only.
func (a *authService) Session(ctx context.Context) (*models.Session, error) {
	values, err := a.repo().List(ctx, storage.ScopeLocal)
	if err != nil {
		return nil, err
	}

	s := &models.Session{
		LoggedIn: values[models.KeyUserLoggedIn] == "true",
		Email:    values[models.KeyUserEmail],
	}
	if u := values[models.KeyUser]; u != "" {
		s.User = json.RawMessage(u)
	}
	if !s.LoggedIn {
		return s, nil
	}

	if idToken := values[models.KeyIDToken]; idToken != "" {
		claims := jwt.MapClaims{}
		if _, _, err := jwt.NewParser().ParseUnverified(idToken, claims); err != nil {
			a.log.Debug(ctx, "id token not decodable", "error", err)
			return s, nil
		}
		if v, ok := claims["email"].(string); ok && s.Email == "" {
			s.Email = v
		}
		if v, ok := claims["given_name"].(string); ok {
			s.GivenName = v
		}
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			s.ExpiresAt = exp.Unix()
		}
	}
	return s, nil
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}

// IsChallengeFailure reports whether err means no challenge token could be
// obtained, or the server kept demanding one.
func IsChallengeFailure(err error) bool {
	return errors.Is(err, ErrChallengeRequired) || challenge.IsFailure(err)
}
