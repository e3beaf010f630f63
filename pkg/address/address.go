package address

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/bech32"
)

const (
	// HRP is the human readable part of every account address on the chain
	HRP = "erd"

	// PubkeyLength is the size of an account public key
	PubkeyLength = 32

	// smart contract addresses start with this many zero bytes
	numInitialZeroBytesForSC = 8
)

// Address is an account public key
type Address [PubkeyLength]byte

// Zero is the all-zero address. Contract deployments are sent to it.
var Zero = Address{}

// FromPublicKey copies a public key into an Address
func FromPublicKey(pubkey []byte) (Address, error) {
	var a Address
	if len(pubkey) != PubkeyLength {
		return a, fmt.Errorf("invalid public key length: expected %d bytes, got %d", PubkeyLength, len(pubkey))
	}
	copy(a[:], pubkey)
	return a, nil
}

// FromBech32 decodes an "erd1..." address
func FromBech32(s string) (Address, error) {
	hrp, data, err := bech32.Decode(s)
	if err != nil {
		return Address{}, fmt.Errorf("invalid bech32 address %q: %w", s, err)
	}
	if hrp != HRP {
		return Address{}, fmt.Errorf("invalid bech32 address %q: unexpected prefix %q", s, hrp)
	}

	pubkey, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return Address{}, fmt.Errorf("invalid bech32 address %q: %w", s, err)
	}
	return FromPublicKey(pubkey)
}

// FromHex decodes a hex encoded public key, with or without 0x prefix
func FromHex(s string) (Address, error) {
	pubkey, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return Address{}, fmt.Errorf("invalid hex address %q: %w", s, err)
	}
	return FromPublicKey(pubkey)
}

// Parse accepts either the bech32 or the hex form
func Parse(s string) (Address, error) {
	if strings.HasPrefix(s, HRP+"1") {
		return FromBech32(s)
	}
	return FromHex(s)
}

// Bech32 returns the "erd1..." form of the address
func (a Address) Bech32() string {
	conv, err := bech32.ConvertBits(a[:], 8, 5, true)
	if err != nil {
		return ""
	}
	encoded, err := bech32.Encode(HRP, conv)
	if err != nil {
		return ""
	}
	return encoded
}

func (a Address) Hex() string {
	return hex.EncodeToString(a[:])
}

func (a Address) PublicKey() []byte {
	return append([]byte{}, a[:]...)
}

// IsSmartContract reports whether the address belongs to a deployed contract
func (a Address) IsSmartContract() bool {
	return bytes.Equal(a[:numInitialZeroBytesForSC], make([]byte, numInitialZeroBytesForSC))
}

func (a Address) String() string {
	return a.Bech32()
}
