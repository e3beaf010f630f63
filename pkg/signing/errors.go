package signing

import "errors"

var (
	// ErrInvalidKey is returned when a secret key does not have the length ed25519 expects
	ErrInvalidKey = errors.New("invalid secret key")

	// ErrCannotSignMessageWithBLSKey hides every failure of the external BLS signer
	ErrCannotSignMessageWithBLSKey = errors.New("cannot sign message with BLS key")

	// ErrInvalidSignature is returned when a signature does not verify against the signer's public key
	ErrInvalidSignature = errors.New("invalid signature")
)
