package onboarding

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOTPInput_Type(t *testing.T) {
	tests := []struct {
		name      string
		start     OTPInput
		index     int
		value     string
		wantSlots [OTPLength]string
		wantFocus int
	}{
		{
			name:      "digit moves focus right",
			index:     0,
			value:     "4",
			wantSlots: [OTPLength]string{"4"},
			wantFocus: 1,
		},
		{
			name:      "last slot keeps focus",
			index:     5,
			value:     "9",
			wantSlots: [OTPLength]string{"", "", "", "", "", "9"},
			wantFocus: 5,
		},
		{
			name:      "letters are ignored",
			index:     2,
			value:     "a",
			wantSlots: [OTPLength]string{},
			wantFocus: 0,
		},
		{
			name:      "only one digit is kept",
			index:     1,
			value:     "78",
			wantSlots: [OTPLength]string{"", "8"},
			wantFocus: 2,
		},
		{
			name:      "empty value clears slot",
			start:     OTPInput{Slots: [OTPLength]string{"1", "2"}, Focus: 2},
			index:     1,
			value:     "",
			wantSlots: [OTPLength]string{"1"},
			wantFocus: 1,
		},
		{
			name:      "out of range index is a no-op",
			index:     6,
			value:     "1",
			wantSlots: [OTPLength]string{},
			wantFocus: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.start.Type(tt.index, tt.value)
			assert.Equal(t, tt.wantSlots, got.Slots)
			assert.Equal(t, tt.wantFocus, got.Focus)
		})
	}
}

func TestOTPInput_Backspace(t *testing.T) {
	filled := OTPInput{Slots: [OTPLength]string{"1", "2", "3"}, Focus: 3}

	got := filled.Backspace(3)
	assert.Equal(t, 2, got.Focus, "backspace on an empty slot steps left")
	assert.Equal(t, "123", got.Code())

	got = filled.Backspace(2)
	assert.Equal(t, "12", got.Code())
	assert.Equal(t, 2, got.Focus)

	got = OTPInput{}.Backspace(0)
	assert.Equal(t, 0, got.Focus)
}

func TestOTPInput_Paste(t *testing.T) {
	got := NewOTPInput().Paste(3, "12345678")
	assert.Equal(t, [OTPLength]string{"1", "2", "3", "4", "5", "6"}, got.Slots)
	assert.Equal(t, 5, got.Focus)
	assert.True(t, got.Complete())

	got = OTPInput{Slots: [OTPLength]string{"9", "9", "9", "9", "9", "9"}}.Paste(0, "code: 4-2")
	assert.Equal(t, "429999", got.Code())
	assert.Equal(t, 1, got.Focus)

	got = NewOTPInput().Paste(0, "no digits")
	assert.Equal(t, NewOTPInput(), got)
}

func TestOTPInput_Clear(t *testing.T) {
	got := NewOTPInput().Paste(0, "123456").Clear()
	assert.Equal(t, "", got.Code())
	assert.Equal(t, 0, got.Focus)
}

func TestOTPInput_SlotInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	inputs := []string{"0", "7", "x", "", "12", "+243 99", "555555555"}

	o := NewOTPInput()
	for i := 0; i < 5000; i++ {
		idx := rng.Intn(OTPLength+2) - 1
		switch rng.Intn(3) {
		case 0:
			o = o.Type(idx, inputs[rng.Intn(len(inputs))])
		case 1:
			o = o.Backspace(idx)
		case 2:
			o = o.Paste(idx, inputs[rng.Intn(len(inputs))])
		}

		for s, v := range o.Slots {
			if len(v) > 1 || (v != "" && (v[0] < '0' || v[0] > '9')) {
				t.Fatalf("step %d: slot %d holds %q", i, s, v)
			}
		}
		if o.Focus < 0 || o.Focus >= OTPLength {
			t.Fatalf("step %d: focus %d out of range", i, o.Focus)
		}
	}
}
