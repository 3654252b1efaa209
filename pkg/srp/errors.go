package srp

import "errors"

// Protocol and usage errors. Any failure leaves the session unauthenticated
// with the session key unavailable; none of these are retryable on the same
// session.
var (
	// ErrInvalidPublicKey is returned when the peer's public value is
	// congruent to 0 mod N, which would force the shared secret to zero.
	ErrInvalidPublicKey = errors.New("public value is zero mod N")

	// ErrMissingChallenge is returned when VerifySession is called before
	// ProcessChallenge has produced a client proof.
	ErrMissingChallenge = errors.New("no challenge has been processed")

	// ErrChallengeReplayed is returned when a session receives a second
	// challenge. A session accepts exactly one (salt, B) pair.
	ErrChallengeReplayed = errors.New("challenge already processed")

	// ErrKeyProofMismatch is returned when the server's proof does not match
	// the locally computed expectation: wrong password, mismatched group,
	// hash or variant, or an active attacker.
	ErrKeyProofMismatch = errors.New("server key proof mismatch")

	// ErrSessionKeyUnavailable is returned by SessionKey before the server's
	// proof has been verified.
	ErrSessionKeyUnavailable = errors.New("session key not yet verified")

	// ErrUnknownGroup is returned for group bit sizes outside the RFC 5054
	// catalog.
	ErrUnknownGroup = errors.New("unregistered SRP group")

	// ErrUnsupportedHash is returned for hash algorithms other than SHA-1,
	// SHA-256 and SHA-512.
	ErrUnsupportedHash = errors.New("unsupported hash algorithm")
)
