package signing

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
)

// Ed25519Signer signs payloads in process. It keeps no state between calls.
type Ed25519Signer struct{}

func NewEd25519Signer() *Ed25519Signer {
	return &Ed25519Signer{}
}

// Sign derives the keypair from the 32-byte seed and returns the lowercase hex signature of payload
func (s *Ed25519Signer) Sign(payload []byte, secretKey []byte) (string, error) {
	if len(secretKey) != ed25519.SeedSize {
		return "", fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidKey, ed25519.SeedSize, len(secretKey))
	}

	privateKey := ed25519.NewKeyFromSeed(secretKey)
	return hex.EncodeToString(ed25519.Sign(privateKey, payload)), nil
}

// Verify checks a hex signature against payload and a raw 32-byte public key
func (s *Ed25519Signer) Verify(payload []byte, signatureHex string, publicKey []byte) error {
	if len(publicKey) != ed25519.PublicKeySize {
		return fmt.Errorf("%w: expected %d byte public key, got %d", ErrInvalidSignature, ed25519.PublicKeySize, len(publicKey))
	}

	signature, err := hex.DecodeString(signatureHex)
	if err != nil {
		return fmt.Errorf("%w: signature is not hex: %v", ErrInvalidSignature, err)
	}
	if len(signature) != ed25519.SignatureSize {
		return fmt.Errorf("%w: expected %d byte signature, got %d", ErrInvalidSignature, ed25519.SignatureSize, len(signature))
	}

	if !ed25519.Verify(ed25519.PublicKey(publicKey), payload, signature) {
		return ErrInvalidSignature
	}
	return nil
}

// DerivePublicKey returns the public key for a 32-byte seed
func (s *Ed25519Signer) DerivePublicKey(secretKey []byte) ([]byte, error) {
	if len(secretKey) != ed25519.SeedSize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidKey, ed25519.SeedSize, len(secretKey))
	}
	return ed25519.NewKeyFromSeed(secretKey).Public().(ed25519.PublicKey), nil
}
