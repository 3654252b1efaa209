package srp

import (
	"crypto/subtle"
	"fmt"
	"io"
	"math/big"
)

// sessionState tracks the client's progress through the handshake.
type sessionState int

const (
	stateCreated sessionState = iota
	stateChallenged
	stateVerified
	stateFailed
)

// Client holds the client-side state for one SRP-6a authentication attempt.
//
// A Client is single-use: it owns one ephemeral key pair, accepts exactly
// one server challenge, and is discarded after the handshake succeeds or
// fails. Reusing the ephemeral exponent across attempts would break the
// zero-knowledge property, so a new Client is mandatory per attempt.
// Methods must be called in sequence by a single owner; the struct is not
// safe for concurrent use, though independent clients may run in parallel.
type Client struct {
	username string
	password string
	cfg      Config

	a *big.Int // ephemeral private exponent, single-use
	A *big.Int // ephemeral public value g^a mod N

	state        sessionState
	sessionKey   []byte
	expectedHAMK []byte
}

// NewClient creates a client session for one authentication attempt and
// generates its ephemeral key pair. The username and password are held for
// the duration of the handshake; callers supplying Config.PrecomputedX may
// pass an empty password.
func NewClient(username, password string, cfg Config) (*Client, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}

	a := cfg.PrivateExponent
	if a == nil {
		buf := make([]byte, 32)
		if _, err := io.ReadFull(cfg.Random, buf); err != nil {
			return nil, fmt.Errorf("failed to generate private exponent: %w", err)
		}
		a = new(big.Int).SetBytes(buf)
	}

	A := new(big.Int).Exp(cfg.Group.G, a, cfg.Group.N)
	if A.Sign() == 0 {
		return nil, fmt.Errorf("client public value: %w", ErrInvalidPublicKey)
	}

	return &Client{
		username: username,
		password: password,
		cfg:      cfg,
		a:        a,
		A:        A,
	}, nil
}

// StartAuthentication returns the first protocol message, (username, A).
// It is a pure accessor and may be called at any time.
func (c *Client) StartAuthentication() (string, *big.Int) {
	return c.username, new(big.Int).Set(c.A)
}

// ProcessChallenge consumes the server's challenge (salt, B), computes the
// shared secret and session key, and returns the client proof M to send to
// the server. It also precomputes the proof expected back from the server.
//
// A session accepts exactly one challenge; a second call returns
// ErrChallengeReplayed. A degenerate B with B mod N == 0 is rejected with
// ErrInvalidPublicKey, since it would force the shared secret to zero.
func (c *Client) ProcessChallenge(salt []byte, B *big.Int) ([]byte, error) {
	if c.state != stateCreated {
		return nil, ErrChallengeReplayed
	}

	group, h, variant := c.cfg.Group, c.cfg.Hash, c.cfg.Variant

	if new(big.Int).Mod(B, group.N).Sign() == 0 {
		c.fail()
		return nil, fmt.Errorf("server public value: %w", ErrInvalidPublicKey)
	}

	u, err := variant.ComputeU(h, group, c.A, B)
	if err != nil {
		c.fail()
		return nil, err
	}

	x := c.cfg.PrecomputedX
	if x == nil {
		x = variant.ComputeX(h, group, c.username, c.password, salt)
	}

	k, err := ComputeK(h, group)
	if err != nil {
		c.fail()
		return nil, err
	}

	S := clientSecret(group, k, x, u, c.a, B)
	c.sessionKey = sessionKeyFromSecret(h, S)

	M := variant.ComputeM(h, group, c.username, salt, c.A, B, S, c.sessionKey)
	c.expectedHAMK = ComputeHAMK(h, c.A, M, c.sessionKey)

	c.state = stateChallenged
	return M, nil
}

// VerifySession checks the server's proof against the locally computed
// expectation. On success the session becomes authenticated and the session
// key observable. The comparison is constant-time; timing differences here
// would leak information useful for forging proofs.
func (c *Client) VerifySession(serverProof []byte) error {
	switch c.state {
	case stateChallenged:
	case stateVerified:
		return nil
	default:
		return ErrMissingChallenge
	}

	if subtle.ConstantTimeCompare(serverProof, c.expectedHAMK) != 1 {
		c.fail()
		return ErrKeyProofMismatch
	}

	c.state = stateVerified
	return nil
}

// IsAuthenticated reports whether the server's proof has been verified.
func (c *Client) IsAuthenticated() bool {
	return c.state == stateVerified
}

// SessionKey returns the shared session key. The key is withheld until the
// server's proof has been verified, so callers can never use an unverified,
// potentially attacker-influenced key.
func (c *Client) SessionKey() ([]byte, error) {
	if c.state != stateVerified {
		return nil, ErrSessionKeyUnavailable
	}
	key := make([]byte, len(c.sessionKey))
	copy(key, c.sessionKey)
	return key, nil
}

// fail transitions the session to its terminal failed state and drops the
// secret material computed so far.
func (c *Client) fail() {
	c.state = stateFailed
	c.wipe()
}

// ClearSecrets clears sensitive values once the caller is done with the
// session. The session is unusable afterwards.
func (c *Client) ClearSecrets() {
	c.password = ""
	if c.a != nil {
		c.a.SetInt64(0)
		c.a = nil
	}
	c.state = stateFailed
	c.wipe()
}

func (c *Client) wipe() {
	for i := range c.sessionKey {
		c.sessionKey[i] = 0
	}
	c.sessionKey = nil
	for i := range c.expectedHAMK {
		c.expectedHAMK[i] = 0
	}
	c.expectedHAMK = nil
}
