package utils

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"user_api/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// JWTClaims custom claims for JWT
type JWTClaims struct {
	UserID int    `json:"id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// JWTUtil provides JWT generation and validation.
// It holds no mutable state and is safe for concurrent use.
type JWTUtil struct {
	secretKey []byte
	lifetime  time.Duration
	now       func() time.Time
}

// NewJWTUtil creates a new JWTUtil
func NewJWTUtil(secretKey string, lifetime time.Duration) *JWTUtil {
	return &JWTUtil{secretKey: []byte(secretKey), lifetime: lifetime, now: time.Now}
}

// Lifetime returns the configured token lifetime
func (ju *JWTUtil) Lifetime() time.Duration {
	return ju.lifetime
}

// GenerateToken generates a new JWT token for the user
func (ju *JWTUtil) GenerateToken(user *model.User) (string, error) {
	now := ju.now()
	claims := &JWTClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ju.lifetime)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   strconv.Itoa(user.ID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(ju.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken checks signature and expiry and returns the decoded claims.
// Errors match ErrTokenExpired or ErrTokenInvalid.
func (ju *JWTUtil) ValidateToken(tokenString string) (*JWTClaims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("%w: token missing", ErrTokenInvalid)
	}

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return ju.secretKey, nil
	}, jwt.WithTimeFunc(ju.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrTokenInvalid
}

// lifetimePattern matches "<number>[ ]<unit>" with short or long unit names.
// The unit is optional; a bare number counts seconds.
var lifetimePattern = regexp.MustCompile(`^(\d+(?:\.\d+)?|\.\d+) *([a-z]*)$`)

var lifetimeUnits = map[string]time.Duration{
	"":             time.Second,
	"ms":           time.Millisecond,
	"msec":         time.Millisecond,
	"msecs":        time.Millisecond,
	"millisecond":  time.Millisecond,
	"milliseconds": time.Millisecond,
	"s":            time.Second,
	"sec":          time.Second,
	"secs":         time.Second,
	"second":       time.Second,
	"seconds":      time.Second,
	"m":            time.Minute,
	"min":          time.Minute,
	"mins":         time.Minute,
	"minute":       time.Minute,
	"minutes":      time.Minute,
	"h":            time.Hour,
	"hr":           time.Hour,
	"hrs":          time.Hour,
	"hour":         time.Hour,
	"hours":        time.Hour,
	"d":            24 * time.Hour,
	"day":          24 * time.Hour,
	"days":         24 * time.Hour,
	"w":            7 * 24 * time.Hour,
	"week":         7 * 24 * time.Hour,
	"weeks":        7 * 24 * time.Hour,
	"y":            8766 * time.Hour, // 365.25 days
	"yr":           8766 * time.Hour,
	"yrs":          8766 * time.Hour,
	"year":         8766 * time.Hour,
	"years":        8766 * time.Hour,
}

// ParseLifetime converts a lifetime expression into a duration.
// Accepted forms: plain seconds ("3600"), a number with a unit ("7d", "1.5h",
// "2 days", "1w", "1y") and Go durations ("1h30m").
func ParseLifetime(expr string) (time.Duration, error) {
	expr = strings.ToLower(strings.TrimSpace(expr))
	if expr == "" {
		return 0, errors.New("empty lifetime")
	}

	var d time.Duration
	if m := lifetimePattern.FindStringSubmatch(expr); m != nil {
		unit, ok := lifetimeUnits[m[2]]
		if !ok {
			return 0, fmt.Errorf("unknown lifetime unit %q", m[2])
		}
		n, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, fmt.Errorf("invalid lifetime %q: %w", expr, err)
		}
		f := n * float64(unit)
		if f >= math.MaxInt64 {
			return 0, fmt.Errorf("lifetime %q overflows", expr)
		}
		d = time.Duration(math.Round(f))
	} else {
		var err error
		d, err = time.ParseDuration(expr)
		if err != nil {
			return 0, err
		}
	}

	if d <= 0 {
		return 0, fmt.Errorf("lifetime must be positive, got %s", d)
	}
	return d, nil
}
