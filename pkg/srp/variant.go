package srp

import (
	"crypto"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
)

// Variant selects which formula family computes u, x and M. The two
// families exist in deployed server ecosystems and are wire-incompatible;
// the choice is configuration, not negotiation, and a mismatch between
// peers surfaces only as ErrKeyProofMismatch at the end of the handshake.
type Variant int

const (
	// VariantNimbus pads A and B when deriving u, derives x from
	// H(salt | H(password)), and proves with M = H(A | B | S).
	VariantNimbus Variant = iota

	// VariantThinbus derives u from the unpadded public values, derives x
	// through an uppercase-hex textual encoding of salt and identity hash,
	// and proves with M = H((H(N) XOR H(g)) | H(username) | salt | A | B | K),
	// binding the group and username into the proof.
	VariantThinbus
)

// String returns the variant name.
func (v Variant) String() string {
	switch v {
	case VariantNimbus:
		return "nimbus"
	case VariantThinbus:
		return "thinbus"
	default:
		return fmt.Sprintf("variant(%d)", int(v))
	}
}

// ParseVariant parses a variant name as used in configuration files.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(s) {
	case "nimbus":
		return VariantNimbus, nil
	case "thinbus":
		return VariantThinbus, nil
	default:
		return 0, fmt.Errorf("unknown variant %q", s)
	}
}

// ComputeU computes the scrambling parameter u from the public values A
// and B using this variant's byte layout.
func (v Variant) ComputeU(h crypto.Hash, group *Group, A, B *big.Int) (*big.Int, error) {
	return v.scheme().computeU(h, group, A, B)
}

// ComputeX derives the private key x from the credentials and salt using
// this variant's formula.
func (v Variant) ComputeX(h crypto.Hash, group *Group, username, password string, salt []byte) *big.Int {
	return v.scheme().computeX(h, group, username, password, salt)
}

// ComputeM computes the client proof for this variant. S is the shared
// secret and K the derived session key; each variant consumes the one its
// formula calls for.
func (v Variant) ComputeM(h crypto.Hash, group *Group, username string, salt []byte, A, B, S *big.Int, K []byte) []byte {
	return v.scheme().computeM(h, group, username, salt, A, B, S, K)
}

// variantScheme isolates the per-variant formulas so the session logic
// never branches on the variant itself.
type variantScheme interface {
	computeU(h crypto.Hash, group *Group, A, B *big.Int) (*big.Int, error)
	computeX(h crypto.Hash, group *Group, username, password string, salt []byte) *big.Int
	computeM(h crypto.Hash, group *Group, username string, salt []byte, A, B, S *big.Int, K []byte) []byte
}

func (v Variant) scheme() variantScheme {
	if v == VariantThinbus {
		return thinbusScheme{}
	}
	return nimbusScheme{}
}

type nimbusScheme struct{}

// computeU computes u = H(pad(A) | pad(B)) with both values padded to the
// byte length of N.
func (nimbusScheme) computeU(h crypto.Hash, group *Group, A, B *big.Int) (*big.Int, error) {
	length := group.ByteLength()
	paddedA, err := pad(A.Bytes(), length)
	if err != nil {
		return nil, err
	}
	paddedB, err := pad(B.Bytes(), length)
	if err != nil {
		return nil, err
	}
	digest := hashBytes(h, paddedA, paddedB)
	return new(big.Int).SetBytes(digest), nil
}

// computeX derives x = H(salt | H(password)). The digest is reinterpreted
// through its hex representation; peer implementations parse the digest as
// a hex string, so this layout is part of the compatibility contract.
func (nimbusScheme) computeX(h crypto.Hash, _ *Group, _, password string, salt []byte) *big.Int {
	digest := hashBytes(h, salt, hashBytes(h, []byte(password)))
	x, _ := new(big.Int).SetString(hex.EncodeToString(digest), 16)
	return x
}

// computeM computes M = H(A | B | S) over the unpadded serializations.
func (nimbusScheme) computeM(h crypto.Hash, _ *Group, _ string, _ []byte, A, B, S *big.Int, _ []byte) []byte {
	return hashBytes(h, A.Bytes(), B.Bytes(), S.Bytes())
}

type thinbusScheme struct{}

// computeU computes u = H(A | B) without padding.
func (thinbusScheme) computeU(h crypto.Hash, _ *Group, A, B *big.Int) (*big.Int, error) {
	digest := hashBytes(h, A.Bytes(), B.Bytes())
	return new(big.Int).SetBytes(digest), nil
}

// computeX hashes uppercase hex encodings of the salt and of
// H(username ":" password), then reduces modulo N. The textual intermediate
// encoding matches the peer ecosystem byte for byte and must not be
// simplified to a raw-byte hash.
func (thinbusScheme) computeX(h crypto.Hash, group *Group, username, password string, salt []byte) *big.Int {
	identity := hashBytes(h, []byte(username+":"+password))
	input := strings.ToUpper(hex.EncodeToString(salt) + hex.EncodeToString(identity))
	digest := hashBytes(h, []byte(input))
	x := new(big.Int).SetBytes(digest)
	return x.Mod(x, group.N)
}

// computeM computes M = H((H(N) XOR H(g)) | H(username) | salt | A | B | K).
func (thinbusScheme) computeM(h crypto.Hash, group *Group, username string, salt []byte, A, B, _ *big.Int, K []byte) []byte {
	hashN := hashBytes(h, group.N.Bytes())
	hashG := hashBytes(h, group.G.Bytes())

	groupHash := make([]byte, len(hashN))
	for i := range hashN {
		groupHash[i] = hashN[i] ^ hashG[i]
	}

	return hashBytes(h, groupHash, hashBytes(h, []byte(username)), salt, A.Bytes(), B.Bytes(), K)
}
