package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidator(t *testing.T) {
	t.Run("collects the first error per field", func(t *testing.T) {
		v := New()
		v.Required("name", "")
		v.Check(false, "name", "second error is ignored")
		v.Positive("amount", -1)

		assert.False(t, v.Valid())
		assert.Equal(t, "must not be empty", v.Errors["name"])
		assert.Contains(t, v.Errors, "amount")
	})

	t.Run("clean input is valid", func(t *testing.T) {
		v := New()
		v.Required("name", "Test Shop")
		v.Email("email", "shop@example.com")
		v.Positive("amount", 100)
		v.OneOf("method", "upi", "card", "upi", "wallet", "netbanking")
		v.URL("url", "https://example.com/hooks")
		assert.True(t, v.Valid())
	})
}

func TestIsEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"buyer@example.com", true},
		{"buyer+tag@sub.example.co", true},
		{"not-an-email", false},
		{"@example.com", false},
		{"buyer@", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsEmail(tt.email), tt.email)
	}
}

func TestURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://example.com/hooks", true},
		{"http://localhost:3000/hooks", true},
		{"ftp://example.com", false},
		{"example.com/hooks", false},
		{"", false},
	}
	for _, tt := range tests {
		v := New()
		v.URL("url", tt.url)
		assert.Equal(t, tt.want, v.Valid(), tt.url)
	}
}
