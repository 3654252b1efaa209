package srp

import (
	"crypto/sha256"
	"math/big"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/pbkdf2"
)

// The variant x formulas exist for wire compatibility, not for password
// hardening. Callers that control both ends can instead derive x with a
// slow KDF and feed it through Config.PrecomputedX and CreateVerifierFromX,
// keeping the rest of the protocol unchanged.

// PBKDF2X derives a private key x from the password using
// PBKDF2-HMAC-SHA256 with the given iteration count.
func PBKDF2X(password string, salt []byte, iterations int) *big.Int {
	key := pbkdf2.Key([]byte(password), salt, iterations, sha256.Size, sha256.New)
	return new(big.Int).SetBytes(key)
}

// Argon2X derives a private key x from the password using Argon2id.
// time, memory (KiB) and threads follow the argon2 package conventions.
func Argon2X(password string, salt []byte, time, memory uint32, threads uint8) *big.Int {
	key := argon2.IDKey([]byte(password), salt, time, memory, threads, sha256.Size)
	return new(big.Int).SetBytes(key)
}
