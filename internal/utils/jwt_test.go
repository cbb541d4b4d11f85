package utils

import (
	"testing"
	"time"

	"user_api/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() *model.User {
	return &model.User{ID: 1, Email: "a@x.com", Role: model.RoleUser}
}

func TestJWTUtil_GenerateToken(t *testing.T) {
	jwtUtil := NewJWTUtil("secret", time.Hour)
	user := testUser()

	tokenString, err := jwtUtil.GenerateToken(user)

	assert.NoError(t, err)
	assert.NotEmpty(t, tokenString)

	// Validate the token to ensure it's well-formed and contains correct claims
	claims, err := jwtUtil.ValidateToken(tokenString)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, user.Role, claims.Role)
	assert.Equal(t, "1", claims.Subject)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
	assert.WithinDuration(t, time.Now(), claims.IssuedAt.Time, 5*time.Second)
}

func TestJWTUtil_ValidateToken_InvalidToken(t *testing.T) {
	jwtUtil := NewJWTUtil("secret", time.Hour)

	_, err := jwtUtil.ValidateToken("invalid.token.string")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestJWTUtil_ValidateToken_Missing(t *testing.T) {
	jwtUtil := NewJWTUtil("secret", time.Hour)

	_, err := jwtUtil.ValidateToken("")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestJWTUtil_ValidateToken_ExpiredToken(t *testing.T) {
	jwtUtil := NewJWTUtil("secret", -time.Hour) // Token expires in the past

	tokenString, err := jwtUtil.GenerateToken(testUser())
	require.NoError(t, err)

	_, err = jwtUtil.ValidateToken(tokenString)
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestJWTUtil_ValidateToken_AfterLifetimeElapsed(t *testing.T) {
	jwtUtil := NewJWTUtil("secret", time.Minute)
	issuedAt := time.Now()
	jwtUtil.now = func() time.Time { return issuedAt }

	tokenString, err := jwtUtil.GenerateToken(testUser())
	require.NoError(t, err)

	_, err = jwtUtil.ValidateToken(tokenString)
	require.NoError(t, err)

	jwtUtil.now = func() time.Time { return issuedAt.Add(2 * time.Minute) }
	_, err = jwtUtil.ValidateToken(tokenString)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestJWTUtil_ValidateToken_WrongSecret(t *testing.T) {
	jwtUtil1 := NewJWTUtil("secret1", time.Hour)
	jwtUtil2 := NewJWTUtil("secret2", time.Hour)

	tokenString, _ := jwtUtil1.GenerateToken(testUser())

	_, err := jwtUtil2.ValidateToken(tokenString)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestJWTUtil_ValidateToken_InvalidSigningMethod(t *testing.T) {
	jwtUtil := NewJWTUtil("secret", time.Hour)
	claims := &JWTClaims{
		UserID: 1,
		Role:   "user",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	// "none" is never accepted, even when the rest of the token is well-formed
	token := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	tokenString, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = jwtUtil.ValidateToken(tokenString)
	assert.ErrorIs(t, err, ErrTokenInvalid)
	assert.Contains(t, err.Error(), "unexpected signing method")
}

func TestParseLifetime(t *testing.T) {
	cases := []struct {
		expr string
		want time.Duration
	}{
		{"3600", time.Hour},
		{"90m", 90 * time.Minute},
		{"1h30m", 90 * time.Minute},
		{"7d", 7 * 24 * time.Hour},
		{" 2h ", 2 * time.Hour},
		{"1w", 7 * 24 * time.Hour},
		{"1y", 8766 * time.Hour},
		{"2 days", 48 * time.Hour},
		{"10 hours", 10 * time.Hour},
		{"1.5d", 36 * time.Hour},
		{"2.5 hrs", 150 * time.Minute},
		{"1 week", 7 * 24 * time.Hour},
		{"30 Minutes", 30 * time.Minute},
		{"90s", 90 * time.Second},
		{"1500ms", 1500 * time.Millisecond},
		{"1.5h", 90 * time.Minute},
	}
	for _, tc := range cases {
		got, err := ParseLifetime(tc.expr)
		require.NoError(t, err, tc.expr)
		assert.Equal(t, tc.want, got, tc.expr)
	}
}

func TestParseLifetime_Invalid(t *testing.T) {
	for _, expr := range []string{"", "soon", "xd", "0", "-5m", "0d", "2 fortnights", "1.5.5d", "d"} {
		_, err := ParseLifetime(expr)
		assert.Error(t, err, expr)
	}
}
