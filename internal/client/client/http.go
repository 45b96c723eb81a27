package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/comparehub/internal/client/models"
	"github.com/dmitrijs2005/comparehub/internal/logging"
	"github.com/dmitrijs2005/comparehub/internal/netx"
)

const (
	DefaultAuthURL    = "https://da84s1s15g.execute-api.af-south-1.amazonaws.com"
	DefaultCatalogURL = "https://xf9zlapr5e.execute-api.af-south-1.amazonaws.com/smartphones"
)

type endpoint struct {
	path    string
	failure string
}

var (
	epRegister           = endpoint{"/auth/register", "Registration failed"}
	epLogin              = endpoint{"/auth/login", "Login failed"}
	epVerifyEmail        = endpoint{"/auth/verify-email", "Email verification failed"}
	epResendVerification = endpoint{"/auth/resend-verification", "Resend verification failed"}
	epForgotPassword     = endpoint{"/auth/forgot-password", "Failed to send password reset email"}
	epResendForgotCode   = endpoint{"/auth/resend-forgot-code", "Failed to resend password reset code"}
	epResetPassword      = endpoint{"/auth/reset-password", "Password reset failed"}
)

type HTTPClient struct {
	authURL    string
	catalogURL string
	http       *http.Client
	log        logging.Logger
}

type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTPClient) { h.http = c }
}

func WithTimeout(d time.Duration) Option {
	return func(h *HTTPClient) { h.http.Timeout = d }
}

func WithLogger(l logging.Logger) Option {
	return func(h *HTTPClient) { h.log = l }
}

// WithTransport wraps the current transport, e.g. with a SigV4 signer.
func WithTransport(wrap func(http.RoundTripper) http.RoundTripper) Option {
	return func(h *HTTPClient) {
		base := h.http.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		h.http.Transport = wrap(base)
	}
}

func NewHTTPClient(authURL, catalogURL string, opts ...Option) *HTTPClient {
	if authURL == "" {
		authURL = DefaultAuthURL
	}
	if catalogURL == "" {
		catalogURL = DefaultCatalogURL
	}
	c := &HTTPClient{
		authURL:    strings.TrimRight(authURL, "/"),
		catalogURL: catalogURL,
		http:       &http.Client{Timeout: 30 * time.Second},
		log:        logging.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// Ping treats any HTTP answer from the auth host as "online".
func (c *HTTPClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.authURL, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return c.mapError(ctx, err)
	}
	_ = resp.Body.Close()
	return nil
}

func (c *HTTPClient) Register(ctx context.Context, r Registration, token string) (*AuthResponse, error) {
	return c.post(ctx, epRegister, registerBody{
		Email:          r.Email,
		Password:       r.Password,
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		TurnstileToken: token,
		CaptchaToken:   token,
	})
}

func (c *HTTPClient) Login(ctx context.Context, cr Credentials, token string) (*AuthResponse, error) {
	return c.post(ctx, epLogin, loginBody{Email: cr.Email, Password: cr.Password, TurnstileToken: token})
}

func (c *HTTPClient) VerifyEmail(ctx context.Context, email, otpCode string) (*AuthResponse, error) {
	return c.post(ctx, epVerifyEmail, verifyBody{Email: email, OTPCode: otpCode})
}

func (c *HTTPClient) ResendVerification(ctx context.Context, email, token string) (*AuthResponse, error) {
	return c.post(ctx, epResendVerification, emailBody{Email: email, TurnstileToken: token})
}

func (c *HTTPClient) ForgotPassword(ctx context.Context, email, token string) (*AuthResponse, error) {
	return c.post(ctx, epForgotPassword, emailBody{Email: email, TurnstileToken: token})
}

func (c *HTTPClient) ResendForgotCode(ctx context.Context, email, token string) (*AuthResponse, error) {
	return c.post(ctx, epResendForgotCode, emailBody{Email: email, TurnstileToken: token})
}

func (c *HTTPClient) ResetPassword(ctx context.Context, r PasswordReset, token string) (*AuthResponse, error) {
	return c.post(ctx, epResetPassword, resetBody{
		Email:          r.Email,
		OTPCode:        r.OTPCode,
		NewPassword:    r.NewPassword,
		TurnstileToken: token,
	})
}

// Products lists a catalog category. An empty category fetches everything.
func (c *HTTPClient) Products(ctx context.Context, category string) ([]models.Product, error) {
	u, err := url.Parse(c.catalogURL)
	if err != nil {
		return nil, fmt.Errorf("catalog url: %w", err)
	}
	if category != "" {
		q := u.Query()
		q.Set("category", category)
		u.RawQuery = q.Encode()
	}

	resp, err := netx.DoJSON(ctx, c.http, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, c.mapError(ctx, err)
	}
	c.log.Debug(ctx, "catalog response", "category", category, "status", resp.Status, "request_id", resp.RequestID)

	if !resp.OK() {
		return nil, &RequestFailedError{Status: resp.Status, Message: fmt.Sprintf("HTTP error! status: %d", resp.Status)}
	}

	products, err := models.DecodeProducts(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return products, nil
}

func (c *HTTPClient) post(ctx context.Context, ep endpoint, body any) (*AuthResponse, error) {
	resp, err := netx.DoJSON(ctx, c.http, http.MethodPost, c.authURL+ep.path, body)
	if err != nil {
		return nil, c.mapError(ctx, err)
	}
	c.log.Debug(ctx, "auth response", "path", ep.path, "status", resp.Status, "request_id", resp.RequestID)

	var out AuthResponse
	decodeErr := json.Unmarshal(resp.Body, &out)
	out.Status = resp.Status

	if decodeErr == nil && out.ChallengeRequired() {
		return &out, nil
	}

	if !resp.OK() {
		msg := out.Message
		if decodeErr != nil || msg == "" {
			msg = ep.failure
		}
		return nil, &RequestFailedError{Status: resp.Status, Message: msg}
	}

	if decodeErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, decodeErr)
	}
	return &out, nil
}

func (c *HTTPClient) mapError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	c.log.Warn(ctx, "request failed", "error", err)
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
