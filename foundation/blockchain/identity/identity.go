// Package identity provides the address a node uses to receive its
// mining rewards.
package identity

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
)

// New returns the node's address. When a private key file is provided the
// address is derived from its public key, otherwise a random identifier is
// generated for the lifetime of the process.
func New(keyPath string) (string, error) {
	if keyPath == "" {
		return strings.ReplaceAll(uuid.NewString(), "-", ""), nil
	}

	privateKey, err := crypto.LoadECDSA(keyPath)
	if err != nil {
		return "", fmt.Errorf("unable to load private key for node: %w", err)
	}

	return crypto.PubkeyToAddress(privateKey.PublicKey).String(), nil
}

// Generate creates a new private key and stores it in the specified file.
// The address for the key is returned.
func Generate(keyPath string) (string, error) {
	privateKey, err := crypto.GenerateKey()
	if err != nil {
		return "", fmt.Errorf("generating key: %w", err)
	}

	if err := crypto.SaveECDSA(keyPath, privateKey); err != nil {
		return "", fmt.Errorf("saving key: %w", err)
	}

	return crypto.PubkeyToAddress(privateKey.PublicKey).String(), nil
}
