package onboarding

import "strings"

// OTPLength is the number of verification code boxes
const OTPLength = 6

// OTPInput models the six single-digit code boxes and which one has focus.
// Every slot holds "" or exactly one digit, and Focus is always in [0, OTPLength-1].
type OTPInput struct {
	Slots [OTPLength]string `json:"slots"`
	Focus int               `json:"focus"`
}

// NewOTPInput returns empty boxes with focus on the first one
func NewOTPInput() OTPInput {
	return OTPInput{}
}

// Type stores a keystroke in slot index. Non-digit input is ignored, an
// empty value clears the slot, and a stored digit moves focus right.
func (o OTPInput) Type(index int, value string) OTPInput {
	if index < 0 || index >= OTPLength {
		return o
	}
	if value == "" {
		o.Slots[index] = ""
		o.Focus = index
		return o
	}
	digits := onlyDigits(value)
	if digits == "" {
		return o
	}
	o.Slots[index] = digits[len(digits)-1:]
	o.Focus = index
	if index < OTPLength-1 {
		o.Focus = index + 1
	}
	return o
}

// Backspace clears a filled slot, or steps focus left from an empty one
func (o OTPInput) Backspace(index int) OTPInput {
	if index < 0 || index >= OTPLength {
		return o
	}
	if o.Slots[index] != "" {
		o.Slots[index] = ""
		o.Focus = index
		return o
	}
	if index > 0 {
		o.Focus = index - 1
	}
	return o
}

// Paste spreads the digits of text over the slots from the left. Only the
// first OTPLength digits are kept and focus lands on the last slot written.
func (o OTPInput) Paste(index int, text string) OTPInput {
	if index < 0 || index >= OTPLength {
		return o
	}
	digits := onlyDigits(text)
	if digits == "" {
		return o
	}
	if len(digits) > OTPLength {
		digits = digits[:OTPLength]
	}
	for i, d := range digits {
		o.Slots[i] = string(d)
	}
	o.Focus = len(digits) - 1
	return o
}

// Clear empties every slot and focuses the first one
func (o OTPInput) Clear() OTPInput {
	return NewOTPInput()
}

// Code joins the slots into the candidate code
func (o OTPInput) Code() string {
	return strings.Join(o.Slots[:], "")
}

// Complete reports whether all six digits are present
func (o OTPInput) Complete() bool {
	return len(o.Code()) == OTPLength
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
