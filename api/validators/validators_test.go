package validators

import (
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	pkgerrors "github.com/angelmondragon/kasir-pos/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

type loginBody struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role,omitempty" validate:"omitempty,oneof=CASHIER OWNER"`
	Delta    int    `json:"delta" validate:"gte=-100"`
}

func TestDecodeJSONBody(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"kasir@demo.com","password":"kasir123"}`))
	var body loginBody
	require.NoError(t, DecodeJSONBody(r, &body))
	assert.Equal(t, "kasir@demo.com", body.Email)
}

func TestDecodeJSONBodyValidationDetails(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"nope","role":"ADMIN","delta":-500}`))
	var body loginBody
	err := DecodeJSONBody(r, &body)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Equal(t, map[string]string{
		"email":    "must be a valid email",
		"password": "is required",
		"role":     "must be one of CASHIER OWNER",
		"delta":    "must be greater than or equal to -100",
	}, typed.Details())
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"kasir@demo.com","password":"x","admin":true}`))
	var body loginBody
	assert.True(t, pkgerrors.IsCode(DecodeJSONBody(r, &body), pkgerrors.CodeValidation))
}

func TestParseQueryInt(t *testing.T) {
	r := httptest.NewRequest("GET", "/?limit=5&bad=x&big=500", nil)

	v, err := ParseQueryInt(r, "limit", 20, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 5, v)

	v, err = ParseQueryInt(r, "missing", 20, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 20, v)

	_, err = ParseQueryInt(r, "bad", 20, 1, 100)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	_, err = ParseQueryInt(r, "big", 20, 1, 100)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "abc", SanitizeString("  abcdef ", 3))
	assert.Equal(t, "abcdef", SanitizeString("abcdef", 0))
}

func TestSanitizeStringKeepsRunesWhole(t *testing.T) {
	assert.Equal(t, "kopi", SanitizeString("  kopi  ", 10))
	assert.Equal(t, "Es", SanitizeString(" Es Teh ", 2))
	assert.Equal(t, "ka", SanitizeString("kaé", 3), "a two byte rune never straddles the cap")
	assert.Equal(t, "kaé", SanitizeString("kaé", 0))
}

func TestTruncateStaysValidUTF8(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		input := rapid.String().Draw(t, "input")
		maxLen := rapid.IntRange(1, 40).Draw(t, "max")

		got := Truncate(input, maxLen)
		if len(got) > maxLen {
			t.Fatalf("len %d above cap %d", len(got), maxLen)
		}
		if !strings.HasPrefix(input, got) {
			t.Fatalf("%q is not a prefix of %q", got, input)
		}
		if utf8.ValidString(input) && !utf8.ValidString(got) {
			t.Fatalf("cut %q into invalid utf-8 %q", input, got)
		}
		if len(input)-len(got) > 0 && maxLen-len(got) >= utf8.UTFMax {
			t.Fatalf("cut too much: %q from %q", got, input)
		}
	})
}
