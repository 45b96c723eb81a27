package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/comparehub/internal/client/client"
	"github.com/dmitrijs2005/comparehub/internal/client/models"
	"github.com/dmitrijs2005/comparehub/internal/client/repositories/storage"
)

// ---- helpers ----

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := storage.InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func getValue(t *testing.T, db *sql.DB, scope storage.Scope, key string) (string, bool) {
	t.Helper()
	v, ok, err := storage.NewSQLiteRepository(db).Get(context.Background(), scope, key)
	require.NoError(t, err)
	return v, ok
}

func setValue(t *testing.T, db *sql.DB, scope storage.Scope, key, value string) {
	t.Helper()
	require.NoError(t, storage.NewSQLiteRepository(db).Set(context.Background(), scope, key, value))
}

func okResp() *client.AuthResponse { return &client.AuthResponse{Success: true, Status: 200} }

func challenged() *client.AuthResponse {
	return &client.AuthResponse{TurnstileRequired: true, Code: client.ChallengeCode, Status: 403}
}

// ---- fake client ----

type fakeCall struct {
	Method string
	Token  string
}

// fakeClient implements client.Client. Auth calls pop Responses in order;
// the last one repeats once the script runs out.
type fakeClient struct {
	mu sync.Mutex

	Responses []*client.AuthResponse
	Err       error

	// When Block is set, auth calls signal Entered and wait on Block.
	Block   chan struct{}
	Entered chan struct{}

	Calls []fakeCall

	LastRegistration client.Registration
	LastCredentials  client.Credentials
	LastReset        client.PasswordReset
	LastEmail        string
	LastOTP          string

	ProductsRet  []models.Product
	ProductsErr  error
	LastCategory string

	PingErr    error
	CloseErr   error
	PingCalled bool
}

func (f *fakeClient) next(method, token string) (*client.AuthResponse, error) {
	if f.Block != nil {
		f.Entered <- struct{}{}
		<-f.Block
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.Calls = append(f.Calls, fakeCall{Method: method, Token: token})
	if f.Err != nil {
		return nil, f.Err
	}
	if len(f.Responses) == 0 {
		return okResp(), nil
	}
	r := f.Responses[0]
	if len(f.Responses) > 1 {
		f.Responses = f.Responses[1:]
	}
	return r, nil
}

func (f *fakeClient) calls() []fakeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]fakeCall(nil), f.Calls...)
}

func (f *fakeClient) Close() error { return f.CloseErr }

func (f *fakeClient) Ping(context.Context) error {
	f.PingCalled = true
	return f.PingErr
}

func (f *fakeClient) Register(_ context.Context, r client.Registration, token string) (*client.AuthResponse, error) {
	f.LastRegistration = r
	return f.next("register", token)
}

func (f *fakeClient) Login(_ context.Context, c client.Credentials, token string) (*client.AuthResponse, error) {
	f.LastCredentials = c
	return f.next("login", token)
}

func (f *fakeClient) VerifyEmail(_ context.Context, email, otpCode string) (*client.AuthResponse, error) {
	f.LastEmail, f.LastOTP = email, otpCode
	return f.next("verify_email", "")
}

func (f *fakeClient) ResendVerification(_ context.Context, email, token string) (*client.AuthResponse, error) {
	f.LastEmail = email
	return f.next("resend_verification", token)
}

func (f *fakeClient) ForgotPassword(_ context.Context, email, token string) (*client.AuthResponse, error) {
	f.LastEmail = email
	return f.next("forgot_password", token)
}

func (f *fakeClient) ResendForgotCode(_ context.Context, email, token string) (*client.AuthResponse, error) {
	f.LastEmail = email
	return f.next("resend_forgot_code", token)
}

func (f *fakeClient) ResetPassword(_ context.Context, r client.PasswordReset, token string) (*client.AuthResponse, error) {
	f.LastReset = r
	return f.next("reset_password", token)
}

func (f *fakeClient) Products(_ context.Context, category string) ([]models.Product, error) {
	f.LastCategory = category
	return f.ProductsRet, f.ProductsErr
}

// ---- fake challenge provider ----

type fakeProvider struct {
	Token   string
	Err     error
	Passive string

	Actions []string
}

func (p *fakeProvider) Ready(context.Context) error { return p.Err }

func (p *fakeProvider) Execute(_ context.Context, action string) (string, error) {
	p.Actions = append(p.Actions, action)
	if p.Err != nil {
		return "", p.Err
	}
	return p.Token, nil
}

func (p *fakeProvider) PassiveToken(context.Context) (string, bool) {
	return p.Passive, p.Passive != ""
}
