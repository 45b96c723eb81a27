package forms

import "strings"

type Registration struct {
	Email     string `json:"email" validate:"required,emailfmt"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"firstName" validate:"required,personname"`
	LastName  string `json:"lastName" validate:"required,personname"`
}

// Normalize trims what the user typed around the fields; passwords are
// taken verbatim.
func (r Registration) Normalize() Registration {
	r.Email = strings.TrimSpace(r.Email)
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	return r
}

type Login struct {
	Email    string `json:"email" validate:"required,emailfmt"`
	Password string `json:"password" validate:"required,min=6"`
}

func (l Login) Normalize() Login {
	l.Email = strings.TrimSpace(l.Email)
	return l
}

type Email struct {
	Email string `json:"email" validate:"required,emailfmt"`
}

type Verify struct {
	Email   string `json:"email" validate:"required,emailfmt"`
	OTPCode string `json:"otpCode" validate:"required,otp"`
}

type Reset struct {
	Email           string `json:"email" validate:"required,emailfmt"`
	OTPCode         string `json:"otpCode" validate:"required,otp"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=NewPassword"`
}
