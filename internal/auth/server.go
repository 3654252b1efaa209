// Package auth implements the server side of the SRP-6a handshake.
//
// The public library in pkg/srp deliberately covers only the client; this
// package is the in-process counterpart used by the demo CLI and by the
// interoperability tests. It shares the derivation functions with the
// client, so the two sides agree byte for byte on every formula.
package auth

import (
	"crypto"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"io"
	"math/big"

	"github.com/fzdarsky/srpkit/pkg/srp"
)

// Server holds the server-side state for one SRP-6a authentication attempt
// against a stored (salt, verifier) record. Like the client, it is
// single-use and not safe for concurrent mutation.
type Server struct {
	group   *srp.Group
	hash    crypto.Hash
	variant srp.Variant
	random  io.Reader

	username string
	salt     []byte
	verifier *big.Int

	b *big.Int // ephemeral private value
	B *big.Int // ephemeral public value (k*v + g^b) mod N
	A *big.Int // client public value, received with the challenge

	sessionKey []byte
	serverHAMK []byte
}

// NewServer creates a server session for the given user record. The
// Group, Hash, Variant and Random fields of cfg select the protocol
// parameters; PrivateExponent, if set, overrides the random ephemeral b
// for deterministic tests.
func NewServer(username string, record *srp.VerifierRecord, cfg srp.Config) (*Server, error) {
	group := cfg.Group
	if group == nil {
		var err error
		if group, err = srp.GetGroup(2048); err != nil {
			return nil, err
		}
	}
	hash := cfg.Hash
	if hash == 0 {
		hash = crypto.SHA256
	}
	random := cfg.Random
	if random == nil {
		random = rand.Reader
	}

	s := &Server{
		group:    group,
		hash:     hash,
		variant:  cfg.Variant,
		random:   random,
		username: username,
		salt:     record.Salt,
		verifier: new(big.Int).SetBytes(record.Verifier),
		b:        cfg.PrivateExponent,
	}
	return s, nil
}

// Challenge consumes the client's public value A and returns the challenge
// (salt, B). A client value congruent to 0 mod N is rejected outright.
func (s *Server) Challenge(A *big.Int) (salt []byte, B *big.Int, err error) {
	if new(big.Int).Mod(A, s.group.N).Sign() == 0 {
		return nil, nil, fmt.Errorf("client public value: %w", srp.ErrInvalidPublicKey)
	}
	s.A = new(big.Int).Set(A)

	if s.b == nil {
		buf := make([]byte, 32)
		if _, err := io.ReadFull(s.random, buf); err != nil {
			return nil, nil, fmt.Errorf("failed to generate private exponent: %w", err)
		}
		s.b = new(big.Int).SetBytes(buf)
	}

	k, err := srp.ComputeK(s.hash, s.group)
	if err != nil {
		return nil, nil, err
	}

	// B = (k*v + g^b) mod N
	kv := new(big.Int).Mul(k, s.verifier)
	kv.Mod(kv, s.group.N)
	gb := new(big.Int).Exp(s.group.G, s.b, s.group.N)
	s.B = new(big.Int).Add(kv, gb)
	s.B.Mod(s.B, s.group.N)

	return s.salt, new(big.Int).Set(s.B), nil
}

// VerifyProof validates the client's proof M and, on success, returns the
// server's counter-proof H(A | M | K). Per the protocol, the server reveals
// nothing when the client's proof is wrong.
func (s *Server) VerifyProof(M []byte) ([]byte, error) {
	if s.A == nil || s.B == nil {
		return nil, fmt.Errorf("challenge must be issued before verification")
	}

	u, err := s.variant.ComputeU(s.hash, s.group, s.A, s.B)
	if err != nil {
		return nil, err
	}

	// S = (A * v^u)^b mod N
	vu := new(big.Int).Exp(s.verifier, u, s.group.N)
	avu := new(big.Int).Mul(s.A, vu)
	avu.Mod(avu, s.group.N)
	S := new(big.Int).Exp(avu, s.b, s.group.N)

	key := s.hash.New()
	key.Write(S.Bytes())
	sessionKey := key.Sum(nil)

	expectedM := s.variant.ComputeM(s.hash, s.group, s.username, s.salt, s.A, s.B, S, sessionKey)
	if subtle.ConstantTimeCompare(M, expectedM) != 1 {
		return nil, srp.ErrKeyProofMismatch
	}

	s.sessionKey = sessionKey
	s.serverHAMK = srp.ComputeHAMK(s.hash, s.A, M, sessionKey)
	return s.serverHAMK, nil
}

// SessionKey returns the session key once the client's proof has been
// verified.
func (s *Server) SessionKey() ([]byte, error) {
	if s.sessionKey == nil {
		return nil, srp.ErrSessionKeyUnavailable
	}
	key := make([]byte, len(s.sessionKey))
	copy(key, s.sessionKey)
	return key, nil
}
