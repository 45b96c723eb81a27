// Package otp models the six-cell verification code entry.
package otp

import "strings"

const Length = 6

// Entry holds one digit per cell; an empty string is an empty cell.
type Entry struct {
	cells [Length]string
}

// Input sets cell i. Anything but a single ASCII digit clears the cell.
// It returns the index focus should move to.
func (e *Entry) Input(i int, v string) int {
	if i < 0 || i >= Length {
		return i
	}
	if len(v) == 1 && v[0] >= '0' && v[0] <= '9' {
		e.cells[i] = v
		if i < Length-1 {
			return i + 1
		}
		return i
	}
	e.cells[i] = ""
	return i
}

// Backspace clears cell i, or the previous cell when i is already empty,
// and returns the new focus index.
func (e *Entry) Backspace(i int) int {
	if i < 0 || i >= Length {
		return i
	}
	if e.cells[i] == "" && i > 0 {
		i--
	}
	e.cells[i] = ""
	return i
}

// Paste keeps only the digits of s, truncated to Length, and fills cells from
// the first one. Cells past the pasted digits are cleared.
func (e *Entry) Paste(s string) {
	digits := Digits(s)
	for i := range e.cells {
		if i < len(digits) {
			e.cells[i] = string(digits[i])
		} else {
			e.cells[i] = ""
		}
	}
}

func (e *Entry) Clear() {
	e.cells = [Length]string{}
}

// Complete is true iff every cell holds a digit.
func (e *Entry) Complete() bool {
	for _, c := range e.cells {
		if c == "" {
			return false
		}
	}
	return true
}

func (e *Entry) Code() string {
	return strings.Join(e.cells[:], "")
}

func (e *Entry) Cells() [Length]string {
	return e.cells
}

// Digits strips everything but ASCII digits and truncates to Length.
func Digits(s string) string {
	var b strings.Builder
	for i := 0; i < len(s) && b.Len() < Length; i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
