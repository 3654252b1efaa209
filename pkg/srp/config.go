package srp

import (
	"crypto"
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	// Register the supported hash implementations.
	_ "crypto/sha1"
	_ "crypto/sha256"
	_ "crypto/sha512"
)

// Config selects the shared parameters of an SRP exchange. Both peers must
// agree on Group, Hash and Variant; none of the three is negotiated on the
// wire, and a mismatch surfaces only as a key proof mismatch.
type Config struct {
	// Group is the RFC 5054 group. Defaults to the 2048-bit group.
	Group *Group

	// Hash selects the digest used throughout the protocol.
	// SHA-1, SHA-256 and SHA-512 are supported. Defaults to SHA-256.
	Hash crypto.Hash

	// Variant selects the formula family for u, x and M.
	// Defaults to VariantNimbus.
	Variant Variant

	// Random is the source for ephemeral private exponents and generated
	// salts. Defaults to crypto/rand.Reader. Injected so tests can supply
	// deterministic sources.
	Random io.Reader

	// PrivateExponent overrides the random ephemeral private value a.
	// Test vectors only; production callers must leave it nil so every
	// session gets a fresh exponent.
	PrivateExponent *big.Int

	// PrecomputedX bypasses password-based derivation of x, for callers
	// that derive x with a hardened KDF (see PBKDF2X and Argon2X).
	PrecomputedX *big.Int
}

// withDefaults validates cfg and fills in the defaults.
func (cfg Config) withDefaults() (Config, error) {
	if cfg.Group == nil {
		group, err := GetGroup(2048)
		if err != nil {
			return cfg, err
		}
		cfg.Group = group
	}
	if cfg.Hash == 0 {
		cfg.Hash = crypto.SHA256
	}
	switch cfg.Hash {
	case crypto.SHA1, crypto.SHA256, crypto.SHA512:
	default:
		return cfg, fmt.Errorf("hash %v: %w", cfg.Hash, ErrUnsupportedHash)
	}
	if cfg.Variant != VariantNimbus && cfg.Variant != VariantThinbus {
		return cfg, fmt.Errorf("unknown variant %d", cfg.Variant)
	}
	if cfg.Random == nil {
		cfg.Random = rand.Reader
	}
	return cfg, nil
}
