package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/comparehub/internal/client/challenge"
	"github.com/dmitrijs2005/comparehub/internal/client/client"
	"github.com/dmitrijs2005/comparehub/internal/client/forms"
	"github.com/dmitrijs2005/comparehub/internal/client/models"
	"github.com/dmitrijs2005/comparehub/internal/client/repositories/storage"
)

const (
	testEmail    = "jane@example.com"
	testPassword = "Secret123!"
)

func validRegistration() forms.Registration {
	return forms.Registration{Email: testEmail, Password: testPassword, FirstName: "Jane", LastName: "Doe"}
}

func validReset() forms.Reset {
	return forms.Reset{Email: testEmail, OTPCode: "123456", NewPassword: testPassword, ConfirmPassword: testPassword}
}

type flowCase struct {
	name   string
	action string
	call   func(ctx context.Context, s AuthService) error
}

// challengeFlows lists every flow that may be asked for a challenge token.
func challengeFlows() []flowCase {
	return []flowCase{
		{"register", challenge.ActionRegister, func(ctx context.Context, s AuthService) error {
			_, err := s.Register(ctx, validRegistration())
			return err
		}},
		{"login", challenge.ActionLogin, func(ctx context.Context, s AuthService) error {
			_, err := s.Login(ctx, forms.Login{Email: testEmail, Password: testPassword})
			return err
		}},
		{"resend_verification", challenge.ActionResendVerification, func(ctx context.Context, s AuthService) error {
			_, err := s.ResendVerification(ctx, testEmail)
			return err
		}},
		{"forgot_password", challenge.ActionForgotPassword, func(ctx context.Context, s AuthService) error {
			_, err := s.ForgotPassword(ctx, testEmail)
			return err
		}},
		{"resend_forgot_code", challenge.ActionResendForgotCode, func(ctx context.Context, s AuthService) error {
			_, err := s.ResendForgotCode(ctx, testEmail)
			return err
		}},
		{"reset_password", challenge.ActionResetPassword, func(ctx context.Context, s AuthService) error {
			_, err := s.ResetPassword(ctx, validReset())
			return err
		}},
	}
}

func TestChallengeRetry_ExactlyOneTokenAndOneRetry(t *testing.T) {
	for _, tc := range challengeFlows() {
		t.Run(tc.name, func(t *testing.T) {
			fc := &fakeClient{Responses: []*client.AuthResponse{challenged(), okResp()}}
			p := &fakeProvider{Token: "tok-1"}
			svc := NewAuthService(fc, setupDB(t), p)

			require.NoError(t, tc.call(context.Background(), svc))

			calls := fc.calls()
			require.Len(t, calls, 2)
			assert.Equal(t, tc.name, calls[0].Method)
			assert.Empty(t, calls[0].Token)
			assert.Equal(t, "tok-1", calls[1].Token)
			assert.Equal(t, []string{tc.action}, p.Actions)
		})
	}
}

func TestChallengeRetry_NeverAThirdAttempt(t *testing.T) {
	for _, tc := range challengeFlows() {
		t.Run(tc.name, func(t *testing.T) {
			fc := &fakeClient{Responses: []*client.AuthResponse{challenged()}}
			p := &fakeProvider{Token: "tok-1"}
			svc := NewAuthService(fc, setupDB(t), p)

			err := tc.call(context.Background(), svc)
			require.ErrorIs(t, err, ErrChallengeRequired)
			assert.True(t, IsChallengeFailure(err))
			assert.Len(t, fc.calls(), 2)
			assert.Len(t, p.Actions, 1)
		})
	}
}

func TestChallengeRetry_ProviderFailureSurfaced(t *testing.T) {
	for _, tc := range challengeFlows() {
		t.Run(tc.name, func(t *testing.T) {
			fc := &fakeClient{Responses: []*client.AuthResponse{challenged()}}
			p := &fakeProvider{Err: challenge.ErrChallengeTimeout}
			svc := NewAuthService(fc, setupDB(t), p)

			err := tc.call(context.Background(), svc)
			require.ErrorIs(t, err, challenge.ErrChallengeTimeout)
			assert.True(t, IsChallengeFailure(err))
			assert.Len(t, fc.calls(), 1)
		})
	}
}

func TestChallengeRetry_PassiveTokenOnFirstAttempt(t *testing.T) {
	fc := &fakeClient{}
	p := &fakeProvider{Passive: "pre-filled"}
	svc := NewAuthService(fc, setupDB(t), p)

	_, err := svc.Login(context.Background(), forms.Login{Email: testEmail, Password: testPassword})
	require.NoError(t, err)

	calls := fc.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "pre-filled", calls[0].Token)
	assert.Empty(t, p.Actions)
}

func TestVerifyEmail_NeverAsksForChallenge(t *testing.T) {
	fc := &fakeClient{Responses: []*client.AuthResponse{challenged()}}
	p := &fakeProvider{Token: "tok", Passive: "passive"}
	svc := NewAuthService(fc, setupDB(t), p)

	_, err := svc.VerifyEmail(context.Background(), testEmail, "123456")
	require.ErrorIs(t, err, ErrChallengeRequired)
	assert.Empty(t, p.Actions)
	calls := fc.calls()
	require.Len(t, calls, 1)
	assert.Empty(t, calls[0].Token)
}

func TestRegister_InvalidInput_SendsNothing(t *testing.T) {
	fc := &fakeClient{}
	svc := NewAuthService(fc, setupDB(t), &fakeProvider{})

	_, err := svc.Register(context.Background(), forms.Registration{Email: "nope", Password: "short", FirstName: " J ", LastName: ""})

	var ve *forms.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.True(t, ve.Has("email"))
	assert.True(t, ve.Has("password"))
	assert.True(t, ve.Has("firstName"))
	assert.True(t, ve.Has("lastName"))
	assert.Empty(t, fc.calls())
}

func TestLogin_InvalidInput_SendsNothing(t *testing.T) {
	fc := &fakeClient{}
	svc := NewAuthService(fc, setupDB(t), nil)

	_, err := svc.Login(context.Background(), forms.Login{Email: testEmail, Password: "12345"})

	var ve *forms.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.True(t, ve.Has("password"))
	assert.Empty(t, fc.calls())
}

func TestFlow_SuccessFalseIsRequestFailed(t *testing.T) {
	fc := &fakeClient{Responses: []*client.AuthResponse{{Success: false, Status: 200}}}
	svc := NewAuthService(fc, setupDB(t), nil)

	_, err := svc.ForgotPassword(context.Background(), testEmail)

	var rf *client.RequestFailedError
	require.ErrorAs(t, err, &rf)
	assert.Equal(t, "Failed to send password reset email. Please try again.", rf.Message)

	fc.Responses = []*client.AuthResponse{{Success: false, Message: "User not found", Status: 200}}
	_, err = svc.ForgotPassword(context.Background(), testEmail)
	require.ErrorAs(t, err, &rf)
	assert.Equal(t, "User not found", rf.Message)
}

func TestFlow_TransportErrorPropagates(t *testing.T) {
	fc := &fakeClient{Err: client.ErrUnavailable}
	svc := NewAuthService(fc, setupDB(t), nil)

	_, err := svc.Login(context.Background(), forms.Login{Email: testEmail, Password: testPassword})
	require.ErrorIs(t, err, client.ErrUnavailable)
}

func TestFlow_LatchRejectsConcurrentCall(t *testing.T) {
	fc := &fakeClient{Block: make(chan struct{}), Entered: make(chan struct{})}
	svc := NewAuthService(fc, setupDB(t), nil)
	ctx := context.Background()
	login := forms.Login{Email: testEmail, Password: testPassword}

	done := make(chan error, 1)
	go func() {
		_, err := svc.Login(ctx, login)
		done <- err
	}()
	<-fc.Entered

	_, err := svc.Login(ctx, login)
	require.ErrorIs(t, err, ErrInProgress)

	close(fc.Block)
	require.NoError(t, <-done)
	assert.Len(t, fc.calls(), 1)

	// the latch is released once the first call returns
	fc.Block = nil
	_, err = svc.Login(ctx, login)
	require.NoError(t, err)
}

func TestResend_Cooldown(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	fc := &fakeClient{}
	svc := NewAuthService(fc, setupDB(t), nil, withClock(func() time.Time { return now }))
	ctx := context.Background()

	_, err := svc.ResendVerification(ctx, testEmail)
	require.NoError(t, err)

	now = now.Add(10 * time.Second)
	_, err = svc.ResendVerification(ctx, testEmail)
	var ce *CooldownError
	require.ErrorAs(t, err, &ce)
	assert.InDelta(t, float64(50*time.Second), float64(ce.Wait), float64(time.Second))
	assert.Equal(t, "please wait 50s before requesting another code", ce.Error())
	assert.Len(t, fc.calls(), 1)

	// the forgot-code limiter is independent
	_, err = svc.ResendForgotCode(ctx, testEmail)
	require.NoError(t, err)

	now = now.Add(51 * time.Second)
	_, err = svc.ResendVerification(ctx, testEmail)
	require.NoError(t, err)
	assert.Len(t, fc.calls(), 3)
}

func TestResend_InFlightDuplicateIsInProgress(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	fc := &fakeClient{Block: make(chan struct{}), Entered: make(chan struct{})}
	svc := NewAuthService(fc, setupDB(t), nil, withClock(func() time.Time { return now }))
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := svc.ResendVerification(ctx, testEmail)
		done <- err
	}()
	<-fc.Entered

	_, err := svc.ResendVerification(ctx, testEmail)
	require.ErrorIs(t, err, ErrInProgress)

	close(fc.Block)
	require.NoError(t, <-done)

	fc.Block = nil
	_, err = svc.ResendVerification(ctx, testEmail)
	var ce *CooldownError
	require.ErrorAs(t, err, &ce)
	assert.Len(t, fc.calls(), 1)
}

func TestResend_FailureDoesNotStartCooldown(t *testing.T) {
	fc := &fakeClient{Responses: []*client.AuthResponse{{Success: false, Status: 500}, okResp()}}
	svc := NewAuthService(fc, setupDB(t), nil)
	ctx := context.Background()

	_, err := svc.ResendForgotCode(ctx, testEmail)
	require.Error(t, err)

	_, err = svc.ResendForgotCode(ctx, testEmail)
	require.NoError(t, err)
}

func TestLogin_Success_SavesSessionInOneGo(t *testing.T) {
	data, err := json.Marshal(map[string]any{
		"tokens": map[string]string{"accessToken": "acc", "refreshToken": "ref", "idToken": "id"},
		"user":   map[string]string{"email": testEmail},
	})
	require.NoError(t, err)

	fc := &fakeClient{Responses: []*client.AuthResponse{{Success: true, Data: data, Status: 200}}}
	db := setupDB(t)
	svc := NewAuthService(fc, db, nil)

	_, err = svc.Login(context.Background(), forms.Login{Email: "  " + testEmail + " ", Password: testPassword})
	require.NoError(t, err)
	assert.Equal(t, client.Credentials{Email: testEmail, Password: testPassword}, fc.LastCredentials)

	want := map[string]string{
		models.KeyAccessToken:  "acc",
		models.KeyRefreshToken: "ref",
		models.KeyIDToken:      "id",
		models.KeyUser:         `{"email":"jane@example.com"}`,
		models.KeyUserLoggedIn: "true",
		models.KeyUserEmail:    testEmail,
	}
	got, err := storage.NewSQLiteRepository(db).List(context.Background(), storage.ScopeLocal)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLogin_Failure_SavesNothing(t *testing.T) {
	fc := &fakeClient{Responses: []*client.AuthResponse{{Success: false, Message: "Invalid credentials", Status: 200}}}
	db := setupDB(t)
	svc := NewAuthService(fc, db, nil)

	_, err := svc.Login(context.Background(), forms.Login{Email: testEmail, Password: testPassword})
	require.Error(t, err)

	_, found := getValue(t, db, storage.ScopeLocal, models.KeyUserLoggedIn)
	assert.False(t, found)
}

func TestRegisterThenVerify_PendingEmailLifecycle(t *testing.T) {
	fc := &fakeClient{}
	db := setupDB(t)
	svc := NewAuthService(fc, db, nil)
	ctx := context.Background()

	_, err := svc.PendingEmail(ctx, PendingVerification)
	require.ErrorIs(t, err, ErrNoPendingEmail)

	_, err = svc.Register(ctx, validRegistration())
	require.NoError(t, err)
	assert.Equal(t, client.Registration{Email: testEmail, Password: testPassword, FirstName: "Jane", LastName: "Doe"}, fc.LastRegistration)

	email, err := svc.PendingEmail(ctx, PendingVerification)
	require.NoError(t, err)
	assert.Equal(t, testEmail, email)

	// empty email means the pending one
	_, err = svc.VerifyEmail(ctx, "", "654321")
	require.NoError(t, err)
	assert.Equal(t, testEmail, fc.LastEmail)
	assert.Equal(t, "654321", fc.LastOTP)

	_, found := getValue(t, db, storage.ScopeSession, models.KeyPendingVerifyEmail)
	assert.False(t, found)
}

func TestVerifyEmail_NoPendingEmail(t *testing.T) {
	fc := &fakeClient{}
	svc := NewAuthService(fc, setupDB(t), nil)

	_, err := svc.VerifyEmail(context.Background(), "", "123456")
	require.ErrorIs(t, err, ErrNoPendingEmail)
	assert.Empty(t, fc.calls())
}

func TestVerifyEmail_BadCode(t *testing.T) {
	fc := &fakeClient{}
	svc := NewAuthService(fc, setupDB(t), nil)

	_, err := svc.VerifyEmail(context.Background(), testEmail, "12a456")
	var ve *forms.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.True(t, ve.Has("otpCode"))
	assert.Empty(t, fc.calls())
}

func TestVerifyEmail_FailureKeepsPendingEmail(t *testing.T) {
	fc := &fakeClient{Responses: []*client.AuthResponse{{Success: false, Message: "Invalid code", Status: 400}}}
	db := setupDB(t)
	setValue(t, db, storage.ScopeSession, models.KeyPendingVerifyEmail, testEmail)
	svc := NewAuthService(fc, db, nil)

	_, err := svc.VerifyEmail(context.Background(), "", "123456")
	require.Error(t, err)

	v, found := getValue(t, db, storage.ScopeSession, models.KeyPendingVerifyEmail)
	assert.True(t, found)
	assert.Equal(t, testEmail, v)
}

func TestForgotThenReset_PendingEmailLifecycle(t *testing.T) {
	fc := &fakeClient{}
	db := setupDB(t)
	svc := NewAuthService(fc, db, nil)
	ctx := context.Background()

	_, err := svc.ForgotPassword(ctx, testEmail)
	require.NoError(t, err)

	v, found := getValue(t, db, storage.ScopeSession, models.KeyPendingResetEmail)
	require.True(t, found)
	assert.Equal(t, testEmail, v)

	r := validReset()
	r.Email = ""
	_, err = svc.ResetPassword(ctx, r)
	require.NoError(t, err)
	assert.Equal(t, client.PasswordReset{Email: testEmail, OTPCode: "123456", NewPassword: testPassword}, fc.LastReset)

	_, found = getValue(t, db, storage.ScopeSession, models.KeyPendingResetEmail)
	assert.False(t, found)
}

func TestResetPassword_MismatchedConfirmation(t *testing.T) {
	fc := &fakeClient{}
	svc := NewAuthService(fc, setupDB(t), nil)

	r := validReset()
	r.ConfirmPassword = "Different1!"
	_, err := svc.ResetPassword(context.Background(), r)

	var ve *forms.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.True(t, ve.Has("confirmPassword"))
	assert.Empty(t, fc.calls())
}

func TestSession_DecodesIDTokenClaims(t *testing.T) {
	exp := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	idToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email":      "claims@example.com",
		"given_name": "Jane",
		"exp":        exp.Unix(),
	}).SignedString([]byte("not-checked"))
	require.NoError(t, err)

	db := setupDB(t)
	setValue(t, db, storage.ScopeLocal, models.KeyUserLoggedIn, "true")
	setValue(t, db, storage.ScopeLocal, models.KeyIDToken, idToken)
	svc := NewAuthService(&fakeClient{}, db, nil)

	s, err := svc.Session(context.Background())
	require.NoError(t, err)
	assert.True(t, s.LoggedIn)
	assert.Equal(t, "claims@example.com", s.Email)
	assert.Equal(t, "Jane", s.GivenName)
	assert.Equal(t, exp.Unix(), s.ExpiresAt)
}

func TestSession_LoggedOut(t *testing.T) {
	svc := NewAuthService(&fakeClient{}, setupDB(t), nil)

	s, err := svc.Session(context.Background())
	require.NoError(t, err)
	assert.False(t, s.LoggedIn)
	assert.Empty(t, s.Email)
}

func TestSession_GarbageTokenIgnored(t *testing.T) {
	db := setupDB(t)
	setValue(t, db, storage.ScopeLocal, models.KeyUserLoggedIn, "true")
	setValue(t, db, storage.ScopeLocal, models.KeyUserEmail, testEmail)
	setValue(t, db, storage.ScopeLocal, models.KeyIDToken, "garbage")
	svc := NewAuthService(&fakeClient{}, db, nil)

	s, err := svc.Session(context.Background())
	require.NoError(t, err)
	assert.True(t, s.LoggedIn)
	assert.Equal(t, testEmail, s.Email)
}

func TestLogout_KeepsPriceAlerts(t *testing.T) {
	db := setupDB(t)
	setValue(t, db, storage.ScopeLocal, models.KeyUserLoggedIn, "true")
	setValue(t, db, storage.ScopeLocal, models.KeyAccessToken, "acc")
	setValue(t, db, storage.ScopeLocal, models.KeyPriceAlerts, "[]")
	svc := NewAuthService(&fakeClient{}, db, nil)

	require.NoError(t, svc.Logout(context.Background()))

	got, err := storage.NewSQLiteRepository(db).List(context.Background(), storage.ScopeLocal)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{models.KeyPriceAlerts: "[]"}, got)
}

func TestPing_Close_Delegation(t *testing.T) {
	fc := &fakeClient{PingErr: client.ErrUnavailable, CloseErr: errors.New("close boom")}
	svc := NewAuthService(fc, setupDB(t), nil)

	require.ErrorIs(t, svc.Ping(context.Background()), client.ErrUnavailable)
	assert.True(t, fc.PingCalled)
	require.EqualError(t, svc.Close(context.Background()), "close boom")
}
