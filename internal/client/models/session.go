package models

import "encoding/json"

// Storage keys shared between the auth flows and the rest of the client.
const (
	KeyAccessToken  = "accessToken"
	KeyRefreshToken = "refreshToken"
	KeyIDToken      = "idToken"
	KeyUser         = "user"
	KeyUserLoggedIn = "userLoggedIn"
	KeyUserEmail    = "userEmail"
	KeyPriceAlerts  = "priceAlerts"

	KeyPendingVerifyEmail = "aws_auth_email"
	KeyPendingResetEmail  = "resetPasswordEmail"
)

// Tokens is the token bundle returned by a successful login.
type Tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	IDToken      string `json:"idToken"`
}

// LoginData is the data member of a successful login response. User is kept
// raw since its shape is owned by the server.
type LoginData struct {
	Tokens Tokens          `json:"tokens"`
	User   json.RawMessage `json:"user"`
}

// Session describes the signed-in user as far as the client can tell from
// local storage.
type Session struct {
	LoggedIn  bool
	Email     string
	GivenName string
	ExpiresAt int64
	User      json.RawMessage
}
