package service

import (
	"testing"
	"time"

	"autoshop-system/pkg/constants"
	apperrors "autoshop-system/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("secret", time.Hour, 24*time.Hour, zap.NewNop())
	employeeID := uint64(9)

	access, refresh, err := svc.GenerateTokens(TokenSubject{UserID: 3, Role: constants.RoleMechanic, EmployeeID: &employeeID})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(access)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), claims.UserID)
	assert.Equal(t, constants.RoleMechanic, claims.Role)
	require.NotNil(t, claims.EmployeeID)
	assert.Equal(t, employeeID, *claims.EmployeeID)
	assert.False(t, claims.IsRefreshToken)

	refreshClaims, err := svc.ValidateToken(refresh)
	require.NoError(t, err)
	assert.True(t, refreshClaims.IsRefreshToken)
}

func TestJWTService_RejectsForeignSignature(t *testing.T) {
	issuer := NewJWTService("one", time.Hour, time.Hour, zap.NewNop())
	verifier := NewJWTService("two", time.Hour, time.Hour, zap.NewNop())

	access, _, err := issuer.GenerateTokens(TokenSubject{UserID: 1, Role: constants.RoleBoss})
	require.NoError(t, err)

	_, err = verifier.ValidateToken(access)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestJWTService_ExpiredToken(t *testing.T) {
	svc := NewJWTService("secret", -time.Minute, time.Hour, zap.NewNop())

	access, _, err := svc.GenerateTokens(TokenSubject{UserID: 1, Role: constants.RoleBoss})
	require.NoError(t, err)

	_, err = svc.ValidateToken(access)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}
