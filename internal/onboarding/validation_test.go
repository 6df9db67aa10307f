package onboarding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benbaruka/sms-portal-sub004/domain"
)

func validForm() domain.OrgData {
	return domain.OrgData{
		OrganizationName: "Acme Ltd",
		ContactName:      "Jo Doe",
		Email:            "jo@acme.test",
		Phone:            "5550100",
		DialCode:         "+1",
		Address:          "1 Main St",
		Country:          "United States",
	}
}

func TestMissingBasicInfo(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.OrgData)
		want   []string
	}{
		{"complete form", func(*domain.OrgData) {}, nil},
		{"no organization", func(f *domain.OrgData) { f.OrganizationName = "  " }, []string{"Organization name"}},
		{"no contact", func(f *domain.OrgData) { f.ContactName = "" }, []string{"Contact name"}},
		{"email without at", func(f *domain.OrgData) { f.Email = "jo.acme.test" }, []string{"Email"}},
		{"no phone", func(f *domain.OrgData) { f.Phone = "" }, []string{"Phone"}},
		{"no address", func(f *domain.OrgData) { f.Address = "" }, []string{"Address"}},
		{"no country", func(f *domain.OrgData) { f.Country = "" }, []string{"Country"}},
		{"empty form", func(f *domain.OrgData) { *f = domain.OrgData{} },
			[]string{"Organization name", "Contact name", "Email", "Phone", "Address", "Country"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm()
			tt.mutate(&f)
			assert.Equal(t, tt.want, MissingBasicInfo(f))
			assert.Equal(t, len(tt.want) == 0, CanAdvance(f))
		})
	}
}

func TestValidatePassword(t *testing.T) {
	assert.Nil(t, ValidatePassword("password123", "password123"))

	short := ValidatePassword("abc", "abc")
	require.NotNil(t, short)
	assert.Equal(t, TitleInvalidPassword, short.Title)

	mismatch := ValidatePassword("password123", "password124")
	require.NotNil(t, mismatch)
	assert.Equal(t, TitlePasswordMismatch, mismatch.Title)
}

func TestValidateFile(t *testing.T) {
	tests := []struct {
		name      string
		file      domain.UploadFile
		wantTitle string
	}{
		{"pdf", domain.UploadFile{Name: "a.pdf", ContentType: "application/pdf", Size: 1024}, ""},
		{"jpg alias", domain.UploadFile{Name: "a.jpg", ContentType: "image/jpg", Size: 1024}, ""},
		{"docx", domain.UploadFile{Name: "a.docx", ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document", Size: 1024}, ""},
		{"exactly 10 MiB", domain.UploadFile{Name: "a.png", ContentType: "image/png", Size: MaxFileSize}, ""},
		{"one byte over", domain.UploadFile{Name: "a.png", ContentType: "image/png", Size: MaxFileSize + 1}, TitleFileTooLarge},
		{"gif rejected", domain.UploadFile{Name: "a.gif", ContentType: "image/gif", Size: 10}, TitleInvalidFileType},
		{"no content type", domain.UploadFile{Name: "a.pdf", Size: 10}, TitleInvalidFileType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alert := ValidateFile(tt.file, MaxFileSize)
			if tt.wantTitle == "" {
				assert.Nil(t, alert)
				return
			}
			require.NotNil(t, alert)
			assert.Equal(t, tt.wantTitle, alert.Title)
			assert.Equal(t, AlertError, alert.Kind)
		})
	}
}

func TestFileExtension(t *testing.T) {
	assert.Equal(t, "pdf", FileExtension(domain.UploadFile{Name: "Passport.PDF"}))
	assert.Equal(t, "png", FileExtension(domain.UploadFile{Name: "scan", ContentType: "image/png"}))
	assert.Equal(t, "", FileExtension(domain.UploadFile{Name: "scan"}))
}
