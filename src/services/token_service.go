package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rutdashboard/rut-dashboard-api/src/models"
)

const tokenIssuer = "rut-dashboard-api"

// Claims is the identity snapshot carried by a session token.
// It is taken at login time and is not refreshed when the account changes.
type Claims struct {
	ID    string      `json:"_id"`
	Email string      `json:"email"`
	Name  string      `json:"name"`
	Role  models.Role `json:"role"`
}

// ClaimsFor builds the token claims of an administrator
func ClaimsFor(admin *models.Admin) Claims {
	return Claims{
		ID:    admin.ID.String(),
		Email: admin.Email,
		Name:  admin.Name,
		Role:  admin.Role,
	}
}

type sessionClaims struct {
	Claims
	jwt.RegisteredClaims
}

// TokenService signs and verifies stateless session tokens
type TokenService struct {
	secret    []byte
	expiresIn time.Duration
	now       func() time.Time
}

// NewTokenService creates a token service. A zero expiresIn issues tokens
// without an exp claim.
func NewTokenService(secret string, expiresIn time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("jwt secret cannot be empty")
	}
	return &TokenService{
		secret:    []byte(secret),
		expiresIn: expiresIn,
		now:       time.Now,
	}, nil
}

// Issue signs claims into an HS256 token
func (s *TokenService) Issue(claims Claims) (string, error) {
	now := s.now()
	registered := jwt.RegisteredClaims{
		Subject:  claims.ID,
		Issuer:   tokenIssuer,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if s.expiresIn > 0 {
		registered.ExpiresAt = jwt.NewNumericDate(now.Add(s.expiresIn))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		Claims:           claims,
		RegisteredClaims: registered,
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify returns the claims of a valid token, or nil for any token that is
// malformed, expired, signed with another key or another algorithm.
func (s *TokenService) Verify(tokenString string) *Claims {
	if tokenString == "" {
		return nil
	}

	parsed := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, parsed, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil
	}

	if parsed.Claims.ID == "" || !parsed.Claims.Role.Valid() {
		return nil
	}

	claims := parsed.Claims
	return &claims
}

// ExpiresIn returns the configured token lifetime (0 = no expiry)
func (s *TokenService) ExpiresIn() time.Duration {
	return s.expiresIn
}
