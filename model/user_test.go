package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", (&User{FirstName: "Ada", LastName: "Lovelace"}).DisplayName())
	assert.Equal(t, "Ada", (&User{FirstName: "Ada"}).DisplayName())
	assert.Equal(t, "ada92", (&User{Username: "ada92", Email: "ada@example.com"}).DisplayName())
	assert.Equal(t, "ada", (&User{Email: "ada@example.com"}).DisplayName())
}

func TestStaff(t *testing.T) {
	assert.True(t, (&User{Role: RoleAdmin}).Staff())
	assert.True(t, (&User{Role: RoleStudent, IsStaff: true}).Staff())
	assert.False(t, (&User{Role: RoleInstructor}).Staff())
	assert.False(t, (&User{Role: RoleVisitor}).Staff())
}

func TestVerificationExpiry(t *testing.T) {
	fresh := EmailVerification{CreatedAt: time.Now().Add(-time.Hour)}
	assert.False(t, fresh.IsExpired())

	stale := EmailVerification{CreatedAt: time.Now().Add(-VerificationTTL - time.Minute)}
	assert.True(t, stale.IsExpired())
}
