package cli

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/comparehub/internal/client/catalog"
	"github.com/dmitrijs2005/comparehub/internal/client/client"
	"github.com/dmitrijs2005/comparehub/internal/client/config"
	"github.com/dmitrijs2005/comparehub/internal/client/forms"
	"github.com/dmitrijs2005/comparehub/internal/client/models"
	"github.com/dmitrijs2005/comparehub/internal/client/repositories/storage"
	"github.com/dmitrijs2005/comparehub/internal/client/services"
	"github.com/dmitrijs2005/comparehub/internal/logging"
)

// ---- fake auth service ----

type fakeAuth struct {
	Calls []string

	Resp *client.AuthResponse
	Err  error

	LastRegistration forms.Registration
	LastLogin        forms.Login
	LastReset        forms.Reset
	LastEmail        string
	LastOTP          string

	Pending    map[services.PendingFlow]string
	SessionRet *models.Session
	SessionErr error
	PingErr    error
	LogoutErr  error
}

func (f *fakeAuth) answer(name string) (*client.AuthResponse, error) {
	f.Calls = append(f.Calls, name)
	if f.Err != nil {
		return nil, f.Err
	}
	if f.Resp != nil {
		return f.Resp, nil
	}
	return &client.AuthResponse{Success: true, Status: 200}, nil
}

func (f *fakeAuth) Register(_ context.Context, r forms.Registration) (*client.AuthResponse, error) {
	f.LastRegistration = r
	return f.answer("register")
}

func (f *fakeAuth) Login(_ context.Context, l forms.Login) (*client.AuthResponse, error) {
	f.LastLogin = l
	return f.answer("login")
}

func (f *fakeAuth) VerifyEmail(_ context.Context, email, otpCode string) (*client.AuthResponse, error) {
	f.LastEmail, f.LastOTP = email, otpCode
	return f.answer("verify")
}

func (f *fakeAuth) ResendVerification(_ context.Context, email string) (*client.AuthResponse, error) {
	f.LastEmail = email
	return f.answer("resend")
}

func (f *fakeAuth) ForgotPassword(_ context.Context, email string) (*client.AuthResponse, error) {
	f.LastEmail = email
	return f.answer("forgot")
}

func (f *fakeAuth) ResendForgotCode(_ context.Context, email string) (*client.AuthResponse, error) {
	f.LastEmail = email
	return f.answer("resend-reset")
}

func (f *fakeAuth) ResetPassword(_ context.Context, r forms.Reset) (*client.AuthResponse, error) {
	f.LastReset = r
	return f.answer("reset")
}

func (f *fakeAuth) Logout(context.Context) error {
	f.Calls = append(f.Calls, "logout")
	return f.LogoutErr
}

func (f *fakeAuth) Session(context.Context) (*models.Session, error) {
	if f.SessionErr != nil {
		return nil, f.SessionErr
	}
	if f.SessionRet != nil {
		return f.SessionRet, nil
	}
	return &models.Session{}, nil
}

func (f *fakeAuth) PendingEmail(_ context.Context, flow services.PendingFlow) (string, error) {
	if e, ok := f.Pending[flow]; ok {
		return e, nil
	}
	return "", services.ErrNoPendingEmail
}

func (f *fakeAuth) Ping(context.Context) error  { return f.PingErr }
func (f *fakeAuth) Close(context.Context) error { return nil }

// ---- fake catalog service ----

type fakeCatalog struct {
	Items []models.Product
	Err   error

	LastCategory  string
	ProductsCalls int
}

func (f *fakeCatalog) Listing(_ context.Context, category string) (*catalog.Listing, error) {
	f.LastCategory = category
	if f.Err != nil {
		return nil, f.Err
	}
	return catalog.NewListing(f.Items, catalog.DefaultPageSize), nil
}

func (f *fakeCatalog) Products(context.Context) ([]models.Product, error) {
	f.ProductsCalls++
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Items, nil
}

// ---- fake share store ----

type fakeStore struct {
	Name string
	Data []byte
	Err  error
}

func (f *fakeStore) Put(_ context.Context, name string, data []byte) (string, error) {
	if f.Err != nil {
		return "", f.Err
	}
	f.Name, f.Data = name, data
	return "/exports/" + name, nil
}

// ---- helpers ----

func product(id, brand, model string, prices ...float64) models.Product {
	p := models.Product{ID: id, Brand: brand, Model: model}
	for i, price := range prices {
		p.Offers = append(p.Offers, models.Offer{Retailer: fmt.Sprintf("Shop %d", i+1), Price: models.Money(price)})
	}
	return p
}

func sampleProducts() []models.Product {
	return []models.Product{
		product("p1", "Samsung", "Galaxy S24", 15999, 14999),
		product("p2", "Apple", "iPhone 15", 18999),
		product("p3", "Nokia", "G22", 2499),
	}
}

type testApp struct {
	*App
	fauth  *fakeAuth
	fcat   *fakeCatalog
	fstore *fakeStore
	buf    *bytes.Buffer
}

// newTestApp builds an App over fakes and an in-memory database. input is
// what the user "types".
func newTestApp(t *testing.T, input ...string) *testApp {
	t.Helper()

	db, err := storage.InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	cfg := &config.Config{}
	cfg.LoadDefaults()

	ta := &testApp{
		fauth:  &fakeAuth{},
		fcat:   &fakeCatalog{Items: sampleProducts()},
		fstore: &fakeStore{},
		buf:    &bytes.Buffer{},
	}

	text := strings.Join(input, "\n")
	if len(input) > 0 {
		text += "\n"
	}

	ta.App = &App{
		config:         cfg,
		log:            logging.Nop(),
		db:             db,
		authService:    ta.fauth,
		catalogService: ta.fcat,
		alertService:   services.NewAlertService(storage.NewSQLiteRepository(db)),
		store:          ta.fstore,
		compare:        catalog.NewComparison(),
		reader:         bufio.NewReader(strings.NewReader(text)),
		out:            ta.buf,
		now:            func() time.Time { return time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC) },
	}
	return ta
}

// stubPasswords makes getPassword read from the app reader like piped input.
func stubPasswords(t *testing.T) {
	t.Helper()
	old := isTerminal
	isTerminal = func(int) bool { return false }
	t.Cleanup(func() { isTerminal = old })
}
