// Package main provides the srpkit CLI, a self-contained SRP-6a exchange
// runner: it derives a verifier for the configured credentials, then plays
// both sides of the handshake in process and reports whether mutual
// authentication succeeded. Useful for validating parameter choices
// (group, hash, variant) against a server deployment before wiring the
// library into an application.
package main

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"flag"
	"fmt"
	"os"

	"github.com/fzdarsky/srpkit/internal/auth"
	"github.com/fzdarsky/srpkit/internal/config"
	"github.com/fzdarsky/srpkit/internal/logging"
	"github.com/fzdarsky/srpkit/pkg/srp"
)

const version = "1.0.0"

func main() {
	groupBits := flag.Int("group", 0, "RFC 5054 group size in bits (1024..8192)")
	hashName := flag.String("hash", "", "hash algorithm: sha1, sha256, sha512")
	variantName := flag.String("variant", "", "protocol variant: nimbus, thinbus")
	username := flag.String("username", "", "username for the exchange")
	password := flag.String("password", "", "password for the exchange (prompted use only)")
	hardened := flag.Bool("hardened", false, "derive x with PBKDF2 instead of the variant formula")
	logFormat := flag.String("log-format", "human", "log format: human, json")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("srpkit version %s\n", version)
		os.Exit(0)
	}

	logger := logging.New(logging.LevelInfo, logging.LogFormat(*logFormat))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	cfg.ApplyFlags(*groupBits, *hashName, *variantName, *username)
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	pass := *password
	if pass == "" {
		pass = "srpkit-demo-password"
	}

	if err := runExchange(logger, cfg, pass, *hardened); err != nil {
		logger.Error("exchange failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}

// runExchange plays one full handshake between an in-process server and a
// client, both built from the same configuration.
func runExchange(logger *logging.Logger, cfg *config.Config, password string, hardened bool) error {
	protocol, err := cfg.Protocol()
	if err != nil {
		return err
	}

	log := logger.WithFields(map[string]any{
		"group":   cfg.GroupBits,
		"hash":    cfg.Hash,
		"variant": cfg.Variant,
	})

	// Registration: derive the record the server would store.
	var record *srp.VerifierRecord
	clientCfg := protocol
	if hardened {
		salt := make([]byte, 16)
		if _, err := rand.Read(salt); err != nil {
			return err
		}
		x := srp.PBKDF2X(password, salt, 600_000)
		record, err = srp.CreateVerifierFromX(x, salt, protocol)
		if err != nil {
			return err
		}
		clientCfg.PrecomputedX = x
	} else {
		record, err = srp.CreateVerifier(cfg.Username, password, nil, protocol)
		if err != nil {
			return err
		}
	}
	log.Info("verifier created", map[string]any{
		"salt_bytes":     len(record.Salt),
		"verifier_bytes": len(record.Verifier),
	})

	// Handshake.
	client, err := srp.NewClient(cfg.Username, password, clientCfg)
	if err != nil {
		return err
	}
	defer client.ClearSecrets()

	server, err := auth.NewServer(cfg.Username, record, protocol)
	if err != nil {
		return err
	}

	username, A := client.StartAuthentication()
	log.Info("client hello sent", map[string]any{
		"username": username,
		"a_bits":   A.BitLen(),
	})

	salt, B, err := server.Challenge(A)
	if err != nil {
		return err
	}
	log.Info("challenge received", map[string]any{"b_bits": B.BitLen()})

	proof, err := client.ProcessChallenge(salt, B)
	if err != nil {
		return err
	}

	counterProof, err := server.VerifyProof(proof)
	if err != nil {
		return err
	}
	log.Info("client proof accepted")

	if err := client.VerifySession(counterProof); err != nil {
		return err
	}

	key, err := client.SessionKey()
	if err != nil {
		return err
	}
	fingerprint := sha256.Sum256(key)
	log.Info("mutual authentication complete", map[string]any{
		"key_fingerprint": hex.EncodeToString(fingerprint[:8]),
	})
	return nil
}
