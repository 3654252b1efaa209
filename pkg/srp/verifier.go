package srp

import (
	"fmt"
	"io"
	"math/big"
)

// saltLength is the number of random bytes generated when the caller does
// not supply a salt.
const saltLength = 16

// VerifierRecord is the (salt, verifier) pair a server stores for a user.
// The verifier is the minimal big-endian serialization of v = g^x mod N.
type VerifierRecord struct {
	Salt     []byte
	Verifier []byte
}

// CreateVerifier derives the record a server needs to authenticate the
// given credentials. If salt is nil, a fresh random salt is generated from
// the configured source. The x derivation follows the configured variant,
// so the record only works against a server using the same variant, group
// and hash.
func CreateVerifier(username, password string, salt []byte, cfg Config) (*VerifierRecord, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}

	salt, err = ensureSalt(salt, cfg.Random)
	if err != nil {
		return nil, err
	}

	x := cfg.Variant.ComputeX(cfg.Hash, cfg.Group, username, password, salt)
	return recordFromX(x, salt, cfg), nil
}

// CreateVerifierFromX builds a verifier record from a precomputed x,
// bypassing password-based derivation. Intended for callers that derive x
// with a hardened KDF such as PBKDF2X or Argon2X.
func CreateVerifierFromX(x *big.Int, salt []byte, cfg Config) (*VerifierRecord, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}

	salt, err = ensureSalt(salt, cfg.Random)
	if err != nil {
		return nil, err
	}

	return recordFromX(x, salt, cfg), nil
}

func recordFromX(x *big.Int, salt []byte, cfg Config) *VerifierRecord {
	v := ComputeVerifier(cfg.Group, x)
	return &VerifierRecord{
		Salt:     salt,
		Verifier: v.Bytes(),
	}
}

func ensureSalt(salt []byte, random io.Reader) ([]byte, error) {
	if salt != nil {
		return salt, nil
	}
	salt = make([]byte, saltLength)
	if _, err := io.ReadFull(random, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}
