package jwt

import (
	"testing"
	"time"

	"github.com/secugard/secugard/internal/apiserver/database"
	"github.com/stretchr/testify/assert"
)

const testSecret = "this-is-a-very-long-secret-key-for-testing"

func TestNewServiceValidation(t *testing.T) {
	_, err := NewService("short", time.Hour)
	assert.ErrorIs(t, err, ErrWeakSecret)

	_, err = NewService(testSecret, 0)
	assert.ErrorIs(t, err, ErrInvalidLifetime)
}

func TestIssueAndValidate(t *testing.T) {
	s, err := NewService(testSecret, time.Hour)
	assert.NoError(t, err)

	user := &database.User{ID: 42, Username: "alice", Role: database.RoleAdmin}
	tok, err := s.Issue(user)
	assert.NoError(t, err)

	claims, err := s.Validate(tok)
	assert.NoError(t, err)
	if assert.NotNil(t, claims) {
		assert.Equal(t, uint(42), claims.UserID)
		assert.Equal(t, "alice", claims.Username)
		assert.Equal(t, database.RoleAdmin, claims.Role)
	}
}

func TestValidateInvalidToken(t *testing.T) {
	s, err := NewService(testSecret, time.Hour)
	assert.NoError(t, err)

	claims, err := s.Validate("not-a-token")
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsForeignSecret(t *testing.T) {
	issuer, err := NewService(testSecret, time.Hour)
	assert.NoError(t, err)
	other, err := NewService("another-very-long-secret-key-for-testing", time.Hour)
	assert.NoError(t, err)

	tok, err := issuer.Issue(&database.User{ID: 1, Username: "alice", Role: database.RoleNormal})
	assert.NoError(t, err)

	claims, err := other.Validate(tok)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
