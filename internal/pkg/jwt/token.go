package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/jadwalin/realtime-gateway/internal/pkg/constants"
	"github.com/jadwalin/realtime-gateway/internal/pkg/models"
)

// Verification errors. Each maps onto exactly one wire error code.
var (
	ErrTokenRequired = errors.New("token is required")
	ErrTokenExpired  = errors.New("token has expired")
	ErrTokenInvalid  = errors.New("token is invalid")
)

// Claims represents standard JWT claims plus custom fields
type Claims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Verifier validates bearer tokens presented at connection time. An
// empty secret puts it into insecure development mode: Verify accepts
// every token, including the empty one, and returns an anonymous
// AuthContext.
type Verifier struct {
	secret string
	issuer string
}

// NewVerifier creates a token verifier from JWT configuration.
func NewVerifier(cfg models.JWTConfig) *Verifier {
	return &Verifier{secret: cfg.Secret, issuer: cfg.Issuer}
}

// InsecureMode reports whether verification is disabled.
func (v *Verifier) InsecureMode() bool {
	return v.secret == ""
}

// Verify validates a token and returns the identity it carries.
func (v *Verifier) Verify(tokenString string, now time.Time) (*models.AuthContext, error) {
	if v.InsecureMode() {
		return &models.AuthContext{Anonymous: true, AuthenticatedAt: now}, nil
	}

	if tokenString == "" {
		return nil, ErrTokenRequired
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(v.secret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	if !token.Valid || !validRole(claims.Role) {
		return nil, ErrTokenInvalid
	}

	return &models.AuthContext{
		UserID:          claims.UserID,
		Email:           claims.Email,
		Role:            claims.Role,
		AuthenticatedAt: now,
	}, nil
}

func validRole(role string) bool {
	switch role {
	case constants.RoleAdmin, constants.RoleProvider, constants.RoleSecretary, constants.RoleCustomer:
		return true
	}
	return false
}

// GenerateToken creates a signed token for the given user details. The
// gateway itself never issues tokens; this mirrors what the booking
// backend signs and exists for tests and local tooling.
func GenerateToken(userID int64, email, role string, ttl time.Duration, cfg models.JWTConfig) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}
