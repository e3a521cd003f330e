package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rutdashboard/rut-dashboard-api/src/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClaims() Claims {
	return Claims{
		ID:    uuid.NewString(),
		Email: "admin@example.com",
		Name:  "Test Admin",
		Role:  models.RoleSuperAdmin,
	}
}

func TestNewTokenService_EmptySecret(t *testing.T) {
	_, err := NewTokenService("", time.Hour)
	require.Error(t, err)
}

func TestTokenService_RoundTrip(t *testing.T) {
	svc, err := NewTokenService("test-secret", time.Hour)
	require.NoError(t, err)

	for _, role := range []models.Role{models.RoleSuperAdmin, models.RoleAdmin} {
		claims := testClaims()
		claims.Role = role

		token, err := svc.Issue(claims)
		require.NoError(t, err)

		got := svc.Verify(token)
		require.NotNil(t, got)
		assert.Equal(t, claims, *got)
	}
}

func TestTokenService_WrongSecret(t *testing.T) {
	issuer, err := NewTokenService("secret-a", time.Hour)
	require.NoError(t, err)
	verifier, err := NewTokenService("secret-b", time.Hour)
	require.NoError(t, err)

	token, err := issuer.Issue(testClaims())
	require.NoError(t, err)

	assert.Nil(t, verifier.Verify(token))
}

func TestTokenService_Expired(t *testing.T) {
	svc, err := NewTokenService("test-secret", time.Hour)
	require.NoError(t, err)

	issuedAt := time.Now().Add(-2 * time.Hour)
	svc.now = func() time.Time { return issuedAt }
	token, err := svc.Issue(testClaims())
	require.NoError(t, err)

	svc.now = time.Now
	assert.Nil(t, svc.Verify(token))
}

func TestTokenService_NoExpiry(t *testing.T) {
	svc, err := NewTokenService("test-secret", 0)
	require.NoError(t, err)

	token, err := svc.Issue(testClaims())
	require.NoError(t, err)

	parsed, _, err := jwt.NewParser().ParseUnverified(token, &sessionClaims{})
	require.NoError(t, err)
	exp, err := parsed.Claims.GetExpirationTime()
	require.NoError(t, err)
	assert.Nil(t, exp)

	svc.now = func() time.Time { return time.Now().Add(10 * 365 * 24 * time.Hour) }
	assert.NotNil(t, svc.Verify(token))
}

func TestTokenService_RejectsMalformed(t *testing.T) {
	svc, err := NewTokenService("test-secret", time.Hour)
	require.NoError(t, err)

	for _, token := range []string{"", "garbage", "a.b.c", "Bearer x.y.z"} {
		assert.Nil(t, svc.Verify(token), "token %q", token)
	}
}

func TestTokenService_RejectsOtherAlgorithms(t *testing.T) {
	svc, err := NewTokenService("test-secret", time.Hour)
	require.NoError(t, err)

	claims := sessionClaims{Claims: testClaims()}

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	assert.Nil(t, svc.Verify(unsigned))

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	assert.Nil(t, svc.Verify(hs512))
}

func TestTokenService_RejectsUnknownRole(t *testing.T) {
	svc, err := NewTokenService("test-secret", time.Hour)
	require.NoError(t, err)

	claims := testClaims()
	claims.Role = models.Role("root")
	token, err := svc.Issue(claims)
	require.NoError(t, err)

	assert.Nil(t, svc.Verify(token))
}
