package credentials

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/dezx-api/internal/models"
)

func TestService_IssueAndVerify(t *testing.T) {
	svc := NewService("secret", time.Hour)

	token, err := svc.Issue("user-1", "a@example.com", models.RoleDesigner)
	require.NoError(t, err)

	identity, err := svc.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", identity.SubjectID)
	require.Equal(t, "a@example.com", identity.Email)
	require.Equal(t, models.RoleDesigner, identity.Role)
}

func TestService_VerifyRejectsExpired(t *testing.T) {
	svc := NewService("secret", time.Hour)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := svc.Issue("user-1", "a@example.com", models.RoleClient)
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_VerifyRejectsWrongSecret(t *testing.T) {
	token, err := NewService("one", time.Hour).Issue("user-1", "a@example.com", models.RoleClient)
	require.NoError(t, err)

	_, err = NewService("two", time.Hour).Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_VerifyRejectsOtherAlgorithms(t *testing.T) {
	claims := Claims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewService("secret", time.Hour).Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_VerifyRejectsGarbage(t *testing.T) {
	_, err := NewService("secret", time.Hour).Verify("not-a-token")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestPassword_HashAndCheck(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	require.NotEqual(t, "correct horse", hash)

	require.True(t, CheckPassword(hash, "correct horse"))
	require.False(t, CheckPassword(hash, "wrong horse"))
	require.False(t, CheckPassword("not-a-hash", "correct horse"))
}
