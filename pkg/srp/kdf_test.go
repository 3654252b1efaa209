package srp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fzdarsky/srpkit/pkg/srp"
)

func TestPBKDF2X(t *testing.T) {
	salt := []byte("0123456789abcdef")

	x1 := srp.PBKDF2X("password123", salt, 4096)
	x2 := srp.PBKDF2X("password123", salt, 4096)
	assert.Zero(t, x1.Cmp(x2))
	assert.Positive(t, x1.Sign())

	assert.NotZero(t, x1.Cmp(srp.PBKDF2X("password124", salt, 4096)))
	assert.NotZero(t, x1.Cmp(srp.PBKDF2X("password123", []byte("other-salt-value"), 4096)))
	assert.NotZero(t, x1.Cmp(srp.PBKDF2X("password123", salt, 8192)))
}

func TestArgon2X(t *testing.T) {
	salt := []byte("0123456789abcdef")

	x1 := srp.Argon2X("password123", salt, 1, 64*1024, 4)
	x2 := srp.Argon2X("password123", salt, 1, 64*1024, 4)
	assert.Zero(t, x1.Cmp(x2))
	assert.Positive(t, x1.Sign())

	assert.NotZero(t, x1.Cmp(srp.Argon2X("password124", salt, 1, 64*1024, 4)))
	assert.NotZero(t, x1.Cmp(srp.Argon2X("password123", []byte("other-salt-value"), 1, 64*1024, 4)))
}
