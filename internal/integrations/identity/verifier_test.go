package identity

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

func TestIssueAndVerify(t *testing.T) {
	v := NewVerifier("secret", "parking")

	token, err := v.Issue(domain.Actor{UserID: 42, Role: domain.RoleAdmin}, time.Hour)
	require.NoError(t, err)

	actor, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, &domain.Actor{UserID: 42, Role: domain.RoleAdmin}, actor)
}

func TestVerifyRejects(t *testing.T) {
	v := NewVerifier("secret", "parking")
	good, err := v.Issue(domain.Actor{UserID: 1, Role: domain.RoleUser}, time.Hour)
	require.NoError(t, err)

	expired, err := v.Issue(domain.Actor{UserID: 1, Role: domain.RoleUser}, -time.Minute)
	require.NoError(t, err)

	otherSecret, err := NewVerifier("other", "parking").Issue(domain.Actor{UserID: 1, Role: domain.RoleUser}, time.Hour)
	require.NoError(t, err)

	otherIssuer, err := NewVerifier("secret", "someone-else").Issue(domain.Actor{UserID: 1, Role: domain.RoleUser}, time.Hour)
	require.NoError(t, err)

	badRole, err := v.Issue(domain.Actor{UserID: 1, Role: "root"}, time.Hour)
	require.NoError(t, err)

	badSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "alice",
			Issuer:    "parking",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"expired", expired},
		{"wrong secret", otherSecret},
		{"wrong issuer", otherIssuer},
		{"unknown role", badRole},
		{"non numeric subject", badSubject},
		{"tampered", good + "x"},
		{"garbage", "not-a-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}

	_, err = v.Verify("")
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestVerifyDefaultsRoleToUser(t *testing.T) {
	v := NewVerifier("secret", "")
	token, err := v.Issue(domain.Actor{UserID: 5}, time.Hour)
	require.NoError(t, err)

	actor, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, actor.Role)
}
