package sealedbox

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/nacl/box"
)

// PublicKeySize is the length of a NaCl box public key in bytes.
const PublicKeySize = 32

// Static errors for err113 compliance.
var (
	ErrInvalidPublicKeySize = errors.New("public key must be 32 bytes")
)

// Encrypt seals plaintext to the base64-encoded recipient public key using
// an anonymous NaCl sealed box and returns the base64-encoded ciphertext.
// The repository public key endpoint serves keys in exactly this encoding,
// and the secrets endpoints expect the ciphertext in the same encoding.
func Encrypt(plaintext []byte, base64PublicKey string) (string, error) {
	publicKey, err := DecodePublicKey(base64PublicKey)
	if err != nil {
		return "", err
	}

	sealed, err := box.SealAnonymous(nil, plaintext, publicKey, rand.Reader)
	if err != nil {
		return "", fmt.Errorf("failed to seal secret value: %w", err)
	}

	return base64.StdEncoding.EncodeToString(sealed), nil
}

// DecodePublicKey parses a base64-encoded 32-byte NaCl public key.
func DecodePublicKey(encoded string) (*[PublicKeySize]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode public key: %w", err)
	}

	if len(raw) != PublicKeySize {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPublicKeySize, len(raw))
	}

	var publicKey [PublicKeySize]byte
	copy(publicKey[:], raw)

	return &publicKey, nil
}
