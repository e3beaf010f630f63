package account

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/address"
)

// SecretKeyLength is the size of an account seed
const SecretKeyLength = ed25519.SeedSize

// ErrInvalidSecretKey is returned when key material does not have the shape of an ed25519 seed
var ErrInvalidSecretKey = errors.New("invalid secret key")

// IAccount is what signers need from an account
type IAccount interface {
	// SecretKey returns the raw 32 byte seed of the account
	SecretKey() []byte

	// Address returns the bech32 address of the account
	Address() string
}

// Account holds the key material of a single wallet for the lifetime of one invocation.
// The secret key is never logged nor serialized.
type Account struct {
	address   address.Address
	secretKey []byte
}

var _ IAccount = (*Account)(nil)

// NewAccountFromSeed derives the account address from its 32 byte seed
func NewAccountFromSeed(seed []byte) (*Account, error) {
	if len(seed) != SecretKeyLength {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidSecretKey, SecretKeyLength, len(seed))
	}

	privateKey := ed25519.NewKeyFromSeed(seed)
	pubkey := privateKey.Public().(ed25519.PublicKey)

	addr, err := address.FromPublicKey(pubkey)
	if err != nil {
		return nil, err
	}

	return &Account{
		address:   addr,
		secretKey: append([]byte{}, seed...),
	}, nil
}

// GenerateAccount creates an account from a fresh random seed
func GenerateAccount() (*Account, error) {
	seed := make([]byte, SecretKeyLength)
	if _, err := rand.Read(seed); err != nil {
		return nil, fmt.Errorf("failed to generate seed: %w", err)
	}
	return NewAccountFromSeed(seed)
}

// SecretKey returns a copy of the seed
func (a *Account) SecretKey() []byte {
	return append([]byte{}, a.secretKey...)
}

func (a *Account) Address() string {
	return a.address.Bech32()
}

func (a *Account) PublicKey() address.Address {
	return a.address
}

// String only ever shows the address
func (a *Account) String() string {
	return a.Address()
}

func (a *Account) GoString() string {
	return fmt.Sprintf("account.Account{address: %q}", a.Address())
}

// MarshalJSON exposes the address only
func (a *Account) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf(`{"address":%q}`, a.Address())), nil
}
