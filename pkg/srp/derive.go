package srp

import (
	"crypto"
	"fmt"
	"math/big"
)

// The functions in this file are the deterministic building blocks of the
// protocol: both peers must reach bit-identical values independently, so
// every byte layout here is part of the wire contract.

// hashBytes hashes the concatenation of the given byte strings.
func hashBytes(h crypto.Hash, parts ...[]byte) []byte {
	hash := h.New()
	for _, p := range parts {
		hash.Write(p)
	}
	return hash.Sum(nil)
}

// pad left-pads b with zero bytes to the given length. An over-length input
// is a programmer error, not a protocol condition.
func pad(b []byte, length int) ([]byte, error) {
	if len(b) > length {
		return nil, fmt.Errorf("pad: input is %d bytes, limit %d", len(b), length)
	}
	padded := make([]byte, length)
	copy(padded[length-len(b):], b)
	return padded, nil
}

// ComputeK computes the SRP-6a multiplier k = H(N | pad(g)), with g padded
// to the byte length of N. k is variant-independent.
func ComputeK(h crypto.Hash, group *Group) (*big.Int, error) {
	paddedG, err := pad(group.G.Bytes(), group.ByteLength())
	if err != nil {
		return nil, err
	}
	digest := hashBytes(h, group.N.Bytes(), paddedG)
	return new(big.Int).SetBytes(digest), nil
}

// ComputeVerifier computes the password verifier v = g^x mod N. The server
// stores v in place of the password; x cannot feasibly be recovered from it.
func ComputeVerifier(group *Group, x *big.Int) *big.Int {
	return new(big.Int).Exp(group.G, x, group.N)
}

// ComputeHAMK computes the server's proof H(A | M | K), where M is the
// client's proof and K the session key.
func ComputeHAMK(h crypto.Hash, A *big.Int, M, K []byte) []byte {
	return hashBytes(h, A.Bytes(), M, K)
}

// clientSecret computes the client-side shared secret
//
//	S = (B + N - (k*v mod N)) ^ (a + u*x) mod N
//
// The N term keeps the subtraction non-negative on an unsigned big integer:
// k*v mod N never exceeds N, and B + N - (k*v mod N) is congruent to
// B - k*v mod N.
func clientSecret(group *Group, k, x, u, a, B *big.Int) *big.Int {
	v := ComputeVerifier(group, x)

	kv := new(big.Int).Mul(k, v)
	kv.Mod(kv, group.N)

	base := new(big.Int).Add(B, group.N)
	base.Sub(base, kv)

	exponent := new(big.Int).Mul(u, x)
	exponent.Add(exponent, a)

	return new(big.Int).Exp(base, exponent, group.N)
}

// sessionKeyFromSecret derives the session key K = H(S) from the minimal
// big-endian serialization of the shared secret.
func sessionKeyFromSecret(h crypto.Hash, S *big.Int) []byte {
	return hashBytes(h, S.Bytes())
}
