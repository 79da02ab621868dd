package jwttoken

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dietiestates/estates-web/internal/adapters/authroles"
	domainauth "github.com/dietiestates/estates-web/internal/domain/auth"
)

func sign(t *testing.T, method jwt.SigningMethod, key any, c Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, c).SignedString(key)
	require.NoError(t, err)
	return s
}

func claims(role string, exp time.Time) Claims {
	return Claims{
		Username: "mrossi",
		Email:    "mario@rossi.it",
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "42",
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
}

func TestDecode_Unverified(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	tok := sign(t, jwt.SigningMethodHS256, []byte("whatever"), claims("ROLE_AGENT", exp))

	id, err := NewDecoder(Config{}).Decode(tok)
	require.NoError(t, err)
	assert.Equal(t, "42", id.SubjectID)
	assert.Equal(t, "mrossi", id.Username)
	assert.Equal(t, "mario@rossi.it", id.Email)
	assert.Equal(t, domainauth.RoleAgent, id.Role)
	assert.True(t, exp.Equal(id.TokenExpiry))
}

func TestDecode_ExpiredTokenStillDecodes(t *testing.T) {
	exp := time.Now().Add(-time.Hour)
	tok := sign(t, jwt.SigningMethodHS256, []byte("k"), claims("USER", exp))

	id, err := NewDecoder(Config{Secret: "k"}).Decode(tok)
	require.NoError(t, err)
	assert.True(t, id.Expired(time.Now()))
}

func TestDecode_Verified(t *testing.T) {
	exp := time.Now().Add(time.Hour)
	good := sign(t, jwt.SigningMethodHS256, []byte("secret"), claims("MANAGER", exp))
	bad := sign(t, jwt.SigningMethodHS256, []byte("other"), claims("MANAGER", exp))
	none := sign(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, claims("ADMIN", exp))

	d := NewDecoder(Config{Secret: "secret"})
	assert.True(t, d.Verifies())

	id, err := d.Decode("Bearer " + good)
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleManager, id.Role)

	_, err = d.Decode(bad)
	assert.Error(t, err)

	_, err = d.Decode(none)
	assert.Error(t, err)
}

func TestDecode_ClaimFallbacks(t *testing.T) {
	exp := time.Now().Add(time.Hour)
	c := claims("user", exp)
	c.Username = ""
	c.Email = ""
	c.Subject = "anna@example.com"

	id, err := NewDecoder(Config{}).Decode(sign(t, jwt.SigningMethodHS256, []byte("k"), c))
	require.NoError(t, err)
	assert.Equal(t, "anna@example.com", id.Email)
	assert.Equal(t, "anna", id.Username)
	assert.Equal(t, domainauth.RoleUser, id.Role)
}

func TestDecode_RoleAliases(t *testing.T) {
	d := NewDecoder(Config{Roles: authroles.ClaimRoleMapper{
		Aliases: map[string]domainauth.Role{"broker": domainauth.RoleAgent},
	}})
	id, err := d.Decode(sign(t, jwt.SigningMethodHS256, []byte("k"), claims("BROKER", time.Now().Add(time.Hour))))
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleAgent, id.Role)
}

func TestDecode_Rejects(t *testing.T) {
	d := NewDecoder(Config{})
	key := []byte("k")

	noExp := claims("USER", time.Now())
	noExp.ExpiresAt = nil

	noRole := claims("", time.Now().Add(time.Hour))

	noSubject := claims("USER", time.Now().Add(time.Hour))
	noSubject.Subject = ""
	noSubject.Email = ""

	tests := map[string]string{
		"empty":      "",
		"garbage":    "not-a-jwt",
		"no expiry":  sign(t, jwt.SigningMethodHS256, key, noExp),
		"no role":    sign(t, jwt.SigningMethodHS256, key, noRole),
		"no subject": sign(t, jwt.SigningMethodHS256, key, noSubject),
	}
	for name, tok := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := d.Decode(tok)
			assert.Error(t, err)
		})
	}
}
