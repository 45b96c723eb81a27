package forms

import (
	"regexp"
	"unicode/utf8"
)

var (
	upperRe   = regexp.MustCompile(`[A-Z]`)
	lowerRe   = regexp.MustCompile(`[a-z]`)
	digitRe   = regexp.MustCompile(`\d`)
	specialRe = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
)

// Requirement is one line of the password checklist shown while typing.
type Requirement struct {
	ID   string
	Text string
	Met  bool
}

// PasswordStrength is advisory; only the length rule is enforced on submit.
func PasswordStrength(p string) []Requirement {
	return []Requirement{
		{ID: "length", Text: "At least 8 characters", Met: utf8.RuneCountInString(p) >= 8},
		{ID: "uppercase", Text: "One uppercase letter", Met: upperRe.MatchString(p)},
		{ID: "lowercase", Text: "One lowercase letter", Met: lowerRe.MatchString(p)},
		{ID: "number", Text: "One number", Met: digitRe.MatchString(p)},
		{ID: "special", Text: "One special character", Met: specialRe.MatchString(p)},
	}
}

// StrongPassword reports whether every checklist item is met.
func StrongPassword(p string) bool {
	for _, r := range PasswordStrength(p) {
		if !r.Met {
			return false
		}
	}
	return true
}
