package client

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/dmitrijs2005/comparehub/internal/client/models"
)

// ChallengeCode is the sentinel error code the API uses to demand a
// challenge token.
const ChallengeCode = "TURNSTILE_REQUIRED"

type Client interface {
	Close() error
	Ping(ctx context.Context) error

	Register(ctx context.Context, r Registration, token string) (*AuthResponse, error)
	Login(ctx context.Context, c Credentials, token string) (*AuthResponse, error)
	VerifyEmail(ctx context.Context, email, otpCode string) (*AuthResponse, error)
	ResendVerification(ctx context.Context, email, token string) (*AuthResponse, error)
	ForgotPassword(ctx context.Context, email, token string) (*AuthResponse, error)
	ResendForgotCode(ctx context.Context, email, token string) (*AuthResponse, error)
	ResetPassword(ctx context.Context, r PasswordReset, token string) (*AuthResponse, error)

	Products(ctx context.Context, category string) ([]models.Product, error)
}

type Registration struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

type Credentials struct {
	Email    string
	Password string
}

type PasswordReset struct {
	Email       string
	OTPCode     string
	NewPassword string
}

// AuthResponse is the envelope every auth endpoint answers with. Data is
// left raw; only login gives it a known shape (models.LoginData).
type AuthResponse struct {
	Success           bool            `json:"success"`
	Message           string          `json:"message,omitempty"`
	TurnstileRequired bool            `json:"turnstileRequired,omitempty"`
	Code              string          `json:"code,omitempty"`
	Data              json.RawMessage `json:"data,omitempty"`

	Status int `json:"-"`
}

// ChallengeRequired reports whether the server refused the request until a
// challenge token is attached.
func (r *AuthResponse) ChallengeRequired() bool {
	if r == nil {
		return false
	}
	return r.TurnstileRequired || r.Code == ChallengeCode || strings.Contains(r.Message, ChallengeCode)
}

type registerBody struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	TurnstileToken string `json:"turnstileToken,omitempty"`
	CaptchaToken   string `json:"captchaToken,omitempty"`
}

type loginBody struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	TurnstileToken string `json:"turnstileToken,omitempty"`
}

type verifyBody struct {
	Email   string `json:"email"`
	OTPCode string `json:"otpCode"`
}

type emailBody struct {
	Email          string `json:"email"`
	TurnstileToken string `json:"turnstileToken,omitempty"`
}

type resetBody struct {
	Email          string `json:"email"`
	OTPCode        string `json:"otpCode"`
	NewPassword    string `json:"newPassword"`
	TurnstileToken string `json:"turnstileToken,omitempty"`
}
