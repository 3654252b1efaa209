package srp_test

import (
	"bytes"
	"crypto"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fzdarsky/srpkit/internal/auth"
	"github.com/fzdarsky/srpkit/pkg/srp"
)

// testConfig returns a config for the 1024-bit group, small enough to keep
// the exponentiations fast in unit tests.
func testConfig(t *testing.T) srp.Config {
	t.Helper()
	group, err := srp.GetGroup(1024)
	require.NoError(t, err)
	return srp.Config{Group: group, Hash: crypto.SHA256}
}

func TestNewClientDefaults(t *testing.T) {
	client, err := srp.NewClient("testuser", "testpass", srp.Config{})
	require.NoError(t, err)

	username, A := client.StartAuthentication()
	assert.Equal(t, "testuser", username)
	assert.Positive(t, A.Sign())
	assert.False(t, client.IsAuthenticated())
}

func TestNewClientUnsupportedHash(t *testing.T) {
	_, err := srp.NewClient("testuser", "testpass", srp.Config{Hash: crypto.MD5})
	require.Error(t, err)
	assert.ErrorIs(t, err, srp.ErrUnsupportedHash)
}

func TestNewClientUnknownVariant(t *testing.T) {
	_, err := srp.NewClient("testuser", "testpass", srp.Config{Variant: srp.Variant(7)})
	assert.Error(t, err)
}

func TestNewClientInjectedExponent(t *testing.T) {
	cfg := testConfig(t)
	cfg.PrivateExponent = big.NewInt(12345)

	client, err := srp.NewClient("testuser", "testpass", cfg)
	require.NoError(t, err)

	_, A := client.StartAuthentication()
	want := new(big.Int).Exp(cfg.Group.G, big.NewInt(12345), cfg.Group.N)
	assert.Zero(t, want.Cmp(A))
}

func TestNewClientDeterministicRandom(t *testing.T) {
	seed := bytes.Repeat([]byte{0xA5}, 32)

	cfg1 := testConfig(t)
	cfg1.Random = bytes.NewReader(seed)
	client1, err := srp.NewClient("testuser", "testpass", cfg1)
	require.NoError(t, err)

	cfg2 := testConfig(t)
	cfg2.Random = bytes.NewReader(seed)
	client2, err := srp.NewClient("testuser", "testpass", cfg2)
	require.NoError(t, err)

	_, A1 := client1.StartAuthentication()
	_, A2 := client2.StartAuthentication()
	assert.Zero(t, A1.Cmp(A2), "same random source must produce the same key pair")
}

func TestNewClientUniqueEphemerals(t *testing.T) {
	cfg := testConfig(t)

	client1, err := srp.NewClient("testuser", "testpass", cfg)
	require.NoError(t, err)
	client2, err := srp.NewClient("testuser", "testpass", cfg)
	require.NoError(t, err)

	_, A1 := client1.StartAuthentication()
	_, A2 := client2.StartAuthentication()
	assert.NotZero(t, A1.Cmp(A2), "independent sessions must not share ephemerals")
}

func TestProcessChallengeInvalidPublicKey(t *testing.T) {
	for _, bits := range srp.GroupSizes() {
		group, err := srp.GetGroup(bits)
		require.NoError(t, err)

		// Values congruent to 0 mod N are degenerate: they force the
		// shared secret to zero regardless of the password.
		degenerate := []*big.Int{
			big.NewInt(0),
			new(big.Int).Set(group.N),
			new(big.Int).Lsh(group.N, 1),
		}

		for _, B := range degenerate {
			client, err := srp.NewClient("testuser", "testpass", srp.Config{
				Group:           group,
				PrivateExponent: big.NewInt(2),
			})
			require.NoError(t, err)

			_, err = client.ProcessChallenge([]byte("salt"), B)
			require.Error(t, err, "group %d, B=%s", bits, B)
			assert.ErrorIs(t, err, srp.ErrInvalidPublicKey)
			assert.False(t, client.IsAuthenticated())
		}
	}
}

func TestProcessChallengeReplay(t *testing.T) {
	client, err := srp.NewClient("testuser", "testpass", testConfig(t))
	require.NoError(t, err)

	group, _ := srp.GetGroup(1024)
	B := new(big.Int).Exp(group.G, big.NewInt(67890), group.N)

	_, err = client.ProcessChallenge([]byte("salt"), B)
	require.NoError(t, err)

	_, err = client.ProcessChallenge([]byte("salt"), B)
	require.Error(t, err)
	assert.ErrorIs(t, err, srp.ErrChallengeReplayed)
}

func TestVerifySessionMissingChallenge(t *testing.T) {
	client, err := srp.NewClient("testuser", "testpass", testConfig(t))
	require.NoError(t, err)

	err = client.VerifySession([]byte("proof"))
	require.Error(t, err)
	assert.ErrorIs(t, err, srp.ErrMissingChallenge)
}

func TestVerifySessionMismatch(t *testing.T) {
	client, err := srp.NewClient("testuser", "testpass", testConfig(t))
	require.NoError(t, err)

	group, _ := srp.GetGroup(1024)
	B := new(big.Int).Exp(group.G, big.NewInt(67890), group.N)

	_, err = client.ProcessChallenge([]byte("salt"), B)
	require.NoError(t, err)

	err = client.VerifySession(make([]byte, 32))
	require.Error(t, err)
	assert.ErrorIs(t, err, srp.ErrKeyProofMismatch)
	assert.False(t, client.IsAuthenticated())

	_, err = client.SessionKey()
	assert.ErrorIs(t, err, srp.ErrSessionKeyUnavailable)

	// The session is terminal after a mismatch.
	err = client.VerifySession(make([]byte, 32))
	assert.ErrorIs(t, err, srp.ErrMissingChallenge)
}

func TestSessionKeyWithheldBeforeVerification(t *testing.T) {
	client, err := srp.NewClient("testuser", "testpass", testConfig(t))
	require.NoError(t, err)

	_, err = client.SessionKey()
	assert.ErrorIs(t, err, srp.ErrSessionKeyUnavailable)

	group, _ := srp.GetGroup(1024)
	B := new(big.Int).Exp(group.G, big.NewInt(67890), group.N)
	_, err = client.ProcessChallenge([]byte("salt"), B)
	require.NoError(t, err)

	// Still withheld: the challenge is processed but the server has not
	// proven key agreement.
	_, err = client.SessionKey()
	assert.ErrorIs(t, err, srp.ErrSessionKeyUnavailable)
}

func TestFullHandshake(t *testing.T) {
	for _, variant := range []srp.Variant{srp.VariantNimbus, srp.VariantThinbus} {
		t.Run(variant.String(), func(t *testing.T) {
			cfg := testConfig(t)
			cfg.Variant = variant

			record, err := srp.CreateVerifier("testuser", "testpass", nil, cfg)
			require.NoError(t, err)

			client, err := srp.NewClient("testuser", "testpass", cfg)
			require.NoError(t, err)
			server, err := auth.NewServer("testuser", record, cfg)
			require.NoError(t, err)

			username, A := client.StartAuthentication()
			assert.Equal(t, "testuser", username)

			salt, B, err := server.Challenge(A)
			require.NoError(t, err)

			proof, err := client.ProcessChallenge(salt, B)
			require.NoError(t, err)

			counterProof, err := server.VerifyProof(proof)
			require.NoError(t, err)

			require.NoError(t, client.VerifySession(counterProof))
			assert.True(t, client.IsAuthenticated())

			clientKey, err := client.SessionKey()
			require.NoError(t, err)
			serverKey, err := server.SessionKey()
			require.NoError(t, err)
			assert.Equal(t, serverKey, clientKey)
			assert.NotEmpty(t, clientKey)
		})
	}
}

func TestVerifySessionCorruptedProof(t *testing.T) {
	cfg := testConfig(t)

	record, err := srp.CreateVerifier("testuser", "testpass", nil, cfg)
	require.NoError(t, err)

	client, err := srp.NewClient("testuser", "testpass", cfg)
	require.NoError(t, err)
	server, err := auth.NewServer("testuser", record, cfg)
	require.NoError(t, err)

	_, A := client.StartAuthentication()
	salt, B, err := server.Challenge(A)
	require.NoError(t, err)
	proof, err := client.ProcessChallenge(salt, B)
	require.NoError(t, err)
	counterProof, err := server.VerifyProof(proof)
	require.NoError(t, err)

	// A single flipped bit must be rejected.
	corrupted := make([]byte, len(counterProof))
	copy(corrupted, counterProof)
	corrupted[len(corrupted)-1] ^= 0x01

	err = client.VerifySession(corrupted)
	assert.ErrorIs(t, err, srp.ErrKeyProofMismatch)
	assert.False(t, client.IsAuthenticated())
}

func TestClearSecrets(t *testing.T) {
	cfg := testConfig(t)

	record, err := srp.CreateVerifier("testuser", "testpass", nil, cfg)
	require.NoError(t, err)

	client, err := srp.NewClient("testuser", "testpass", cfg)
	require.NoError(t, err)
	server, err := auth.NewServer("testuser", record, cfg)
	require.NoError(t, err)

	_, A := client.StartAuthentication()
	salt, B, err := server.Challenge(A)
	require.NoError(t, err)
	proof, err := client.ProcessChallenge(salt, B)
	require.NoError(t, err)
	counterProof, err := server.VerifyProof(proof)
	require.NoError(t, err)
	require.NoError(t, client.VerifySession(counterProof))

	client.ClearSecrets()

	assert.False(t, client.IsAuthenticated())
	_, err = client.SessionKey()
	assert.ErrorIs(t, err, srp.ErrSessionKeyUnavailable)
}
