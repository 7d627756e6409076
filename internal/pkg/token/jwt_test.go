package token_test

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"techproducts/internal/pkg/token"
)

// makeToken monta um JWT estrutural (header.claims.assinatura) sem assinatura real.
func makeToken(t *testing.T, claims map[string]interface{}) string {
	t.Helper()

	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"RS256","typ":"JWT"}`))

	payload, err := json.Marshal(claims)
	assert.NoError(t, err)
	body := base64.RawURLEncoding.EncodeToString(payload)

	return header + "." + body + ".signature"
}

func TestDecodeUnverified_ValidToken(t *testing.T) {
	tokenString := makeToken(t, map[string]interface{}{
		"sub":   "user-123",
		"email": "user@example.com",
	})

	claims, err := token.DecodeUnverified(tokenString)

	assert.NoError(t, err)
	sub, ok := token.StringClaim(claims, "sub")
	assert.True(t, ok)
	assert.Equal(t, "user-123", sub)
}

func TestDecodeUnverified_WrongSegmentCount(t *testing.T) {
	_, err := token.DecodeUnverified("invalid-token")

	assert.ErrorIs(t, err, token.ErrInvalidFormat)
}

func TestDecodeUnverified_UndecodablePayload(t *testing.T) {
	header := "eyJhbGciOiJSUzI1NiIsInR5cCI6IkpXVCJ9"
	_, err := token.DecodeUnverified(header + ".%%%não-é-base64%%%.signature")

	assert.ErrorIs(t, err, token.ErrInvalidFormat)
}

func TestStringClaim_MissingOrWrongType(t *testing.T) {
	claims := token.Claims{"count": float64(3), "empty": ""}

	_, ok := token.StringClaim(claims, "missing")
	assert.False(t, ok)

	_, ok = token.StringClaim(claims, "count")
	assert.False(t, ok)

	_, ok = token.StringClaim(claims, "empty")
	assert.False(t, ok)
}

func TestStringListClaim(t *testing.T) {
	claims := token.Claims{
		"cognito:groups": []interface{}{"admin", "users", float64(1)},
		"not-a-list":     "admin",
	}

	groups, ok := token.StringListClaim(claims, "cognito:groups")
	assert.True(t, ok)
	// Elementos não-string são descartados sem invalidar a claim.
	assert.Equal(t, []string{"admin", "users"}, groups)

	_, ok = token.StringListClaim(claims, "not-a-list")
	assert.False(t, ok)

	_, ok = token.StringListClaim(claims, "missing")
	assert.False(t, ok)
}
