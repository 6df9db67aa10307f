package onboarding

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/benbaruka/sms-portal-sub004/domain"
)

func TestFormatPhoneNumber(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		dialCode string
		want     string
	}{
		{"already international", "+243700000000", "+243", "+243700000000"},
		{"leading zero stripped", "0700000000", "+243", "+243700000000"},
		{"several leading zeros", "00700000000", "+243", "+243700000000"},
		{"dial code without plus", "700000000", "243", "+243700000000"},
		{"international ignores dial code", "+15551234567", "+243", "+15551234567"},
		{"surrounding spaces", "  0700000000 ", "+243", "+243700000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPhoneNumber(tt.raw, tt.dialCode))
		})
	}
}

func TestFormatPhoneNumber_Idempotent(t *testing.T) {
	once := FormatPhoneNumber("0700000000", DialCode("Democratic Republic of the Congo"))
	assert.Equal(t, "+243700000000", once)
	assert.Equal(t, once, FormatPhoneNumber(once, "+243"))
}

func TestCountryCode(t *testing.T) {
	assert.Equal(t, "us", CountryCode("United States"))
	assert.Equal(t, "cd", CountryCode("democratic republic of the congo"))
	assert.Equal(t, "at", CountryCode("Atlantis"), "unknown names use their first two letters")
	assert.Equal(t, "x", CountryCode("X"))
	assert.Equal(t, "", CountryCode(""))
}

func TestIdentifierFor(t *testing.T) {
	withEmail := domain.OrgData{Email: "ops@acme.test", Phone: "0812345678", DialCode: "+243"}
	assert.Equal(t, domain.Identifier{Email: "ops@acme.test"}, IdentifierFor(withEmail))

	phoneOnly := domain.OrgData{Phone: "0812345678", DialCode: "+243"}
	assert.Equal(t, domain.Identifier{MSISDN: "+243812345678"}, IdentifierFor(phoneOnly))
}

func TestBuildSignupRequest(t *testing.T) {
	form := domain.OrgData{
		OrganizationName: " Acme Ltd ",
		ContactName:      "Jo Doe",
		Email:            "jo@acme.test",
		Phone:            "5550100",
		DialCode:         "+1",
		Address:          "1 Main St",
		Country:          "United States",
		Password:         "password123",
	}

	got := BuildSignupRequest(form)
	assert.Equal(t, domain.SignupRequest{
		CompanyName: "Acme Ltd",
		FullName:    "Jo Doe",
		MSISDN:      "+15550100",
		Email:       "jo@acme.test",
		CountryCode: "us",
		Address:     "1 Main St",
		Password:    "password123",
	}, got)
}
