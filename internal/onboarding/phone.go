package onboarding

import (
	"strings"

	"github.com/benbaruka/sms-portal-sub004/domain"
)

// Country is an entry of the signup country picker
type Country struct {
	Name     string `json:"name"`
	ISO      string `json:"iso"`
	DialCode string `json:"dial_code"`
}

// Countries is the fixed country table used for signup
var Countries = []Country{
	{Name: "Angola", ISO: "ao", DialCode: "+244"},
	{Name: "Belgium", ISO: "be", DialCode: "+32"},
	{Name: "Benin", ISO: "bj", DialCode: "+229"},
	{Name: "Burundi", ISO: "bi", DialCode: "+257"},
	{Name: "Cameroon", ISO: "cm", DialCode: "+237"},
	{Name: "Canada", ISO: "ca", DialCode: "+1"},
	{Name: "China", ISO: "cn", DialCode: "+86"},
	{Name: "Congo", ISO: "cg", DialCode: "+242"},
	{Name: "Cote d'Ivoire", ISO: "ci", DialCode: "+225"},
	{Name: "Democratic Republic of the Congo", ISO: "cd", DialCode: "+243"},
	{Name: "Egypt", ISO: "eg", DialCode: "+20"},
	{Name: "Ethiopia", ISO: "et", DialCode: "+251"},
	{Name: "France", ISO: "fr", DialCode: "+33"},
	{Name: "Gabon", ISO: "ga", DialCode: "+241"},
	{Name: "Germany", ISO: "de", DialCode: "+49"},
	{Name: "Ghana", ISO: "gh", DialCode: "+233"},
	{Name: "India", ISO: "in", DialCode: "+91"},
	{Name: "Kenya", ISO: "ke", DialCode: "+254"},
	{Name: "Mali", ISO: "ml", DialCode: "+223"},
	{Name: "Morocco", ISO: "ma", DialCode: "+212"},
	{Name: "Nigeria", ISO: "ng", DialCode: "+234"},
	{Name: "Rwanda", ISO: "rw", DialCode: "+250"},
	{Name: "Senegal", ISO: "sn", DialCode: "+221"},
	{Name: "South Africa", ISO: "za", DialCode: "+27"},
	{Name: "Tanzania", ISO: "tz", DialCode: "+255"},
	{Name: "Togo", ISO: "tg", DialCode: "+228"},
	{Name: "Uganda", ISO: "ug", DialCode: "+256"},
	{Name: "United Arab Emirates", ISO: "ae", DialCode: "+971"},
	{Name: "United Kingdom", ISO: "gb", DialCode: "+44"},
	{Name: "United States", ISO: "us", DialCode: "+1"},
	{Name: "Zambia", ISO: "zm", DialCode: "+260"},
	{Name: "Zimbabwe", ISO: "zw", DialCode: "+263"},
}

func lookupCountry(name string) (Country, bool) {
	name = strings.TrimSpace(name)
	for _, c := range Countries {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return Country{}, false
}

// CountryCode maps a country name to its ISO-2 code. Names missing from
// the table fall back to the lowercase first two characters of the name.
func CountryCode(name string) string {
	if c, ok := lookupCountry(name); ok {
		return c.ISO
	}
	runes := []rune(strings.ToLower(strings.TrimSpace(name)))
	if len(runes) > 2 {
		runes = runes[:2]
	}
	return string(runes)
}

// DialCode returns the dial code of a known country, or ""
func DialCode(name string) string {
	if c, ok := lookupCountry(name); ok {
		return c.DialCode
	}
	return ""
}

// FormatPhoneNumber returns raw unchanged when it already starts with "+".
// Otherwise leading zeros are dropped and dialCode is prepended.
func FormatPhoneNumber(raw, dialCode string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "+") {
		return raw
	}
	dialCode = strings.TrimSpace(dialCode)
	if dialCode != "" && !strings.HasPrefix(dialCode, "+") {
		dialCode = "+" + dialCode
	}
	return dialCode + strings.TrimLeft(raw, "0")
}

// IdentifierFor picks the handle OTP and login calls use. Email wins
// when present.
func IdentifierFor(f domain.OrgData) domain.Identifier {
	if email := strings.TrimSpace(f.Email); email != "" {
		return domain.Identifier{Email: email}
	}
	return domain.Identifier{MSISDN: FormatPhoneNumber(f.Phone, f.DialCode)}
}

// BuildSignupRequest maps the form onto the platform's signup fields
func BuildSignupRequest(f domain.OrgData) domain.SignupRequest {
	return domain.SignupRequest{
		CompanyName: strings.TrimSpace(f.OrganizationName),
		FullName:    strings.TrimSpace(f.ContactName),
		MSISDN:      FormatPhoneNumber(f.Phone, f.DialCode),
		Email:       strings.TrimSpace(f.Email),
		CountryCode: CountryCode(f.Country),
		Address:     strings.TrimSpace(f.Address),
		Password:    f.Password,
	}
}
