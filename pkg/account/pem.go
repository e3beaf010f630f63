package account

import (
	"bytes"
	"encoding/hex"
	"encoding/pem"
	"fmt"
	"os"
	"strings"
)

const pemTypePrefix = "PRIVATE KEY for "

// ParsePem extracts the index-th key of a wallet PEM file.
//
// Each block is labelled "PRIVATE KEY for <bech32 address>" and its body is the hex text of
// seed || public key. The derived public key has to match the one stored next to the seed.
func ParsePem(data []byte, index int) (*Account, error) {
	if index < 0 {
		return nil, fmt.Errorf("invalid pem index %d", index)
	}

	rest := data
	found := 0
	for {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			break
		}
		if !strings.HasPrefix(block.Type, pemTypePrefix) {
			continue
		}
		if found == index {
			return accountFromBlock(block)
		}
		found++
	}

	if found == 0 {
		return nil, fmt.Errorf("no private key found in pem data")
	}
	return nil, fmt.Errorf("pem index %d out of range, file holds %d keys", index, found)
}

func accountFromBlock(block *pem.Block) (*Account, error) {
	keyHex := strings.TrimSpace(string(block.Bytes))
	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("%w: pem body is not hex: %v", ErrInvalidSecretKey, err)
	}

	var seed, pubkey []byte
	switch len(key) {
	case SecretKeyLength:
		seed = key
	case 2 * SecretKeyLength:
		seed, pubkey = key[:SecretKeyLength], key[SecretKeyLength:]
	default:
		return nil, fmt.Errorf("%w: unexpected key length %d", ErrInvalidSecretKey, len(key))
	}

	acc, err := NewAccountFromSeed(seed)
	if err != nil {
		return nil, err
	}

	if pubkey != nil && !bytes.Equal(pubkey, acc.address[:]) {
		return nil, fmt.Errorf("%w: public key in pem does not match the secret key", ErrInvalidSecretKey)
	}

	label := strings.TrimPrefix(block.Type, pemTypePrefix)
	if label != acc.Address() && label != acc.address.Hex() {
		return nil, fmt.Errorf("%w: pem label %s does not match derived address %s", ErrInvalidSecretKey, label, acc.Address())
	}

	return acc, nil
}

// LoadFromPemFile reads the index-th key of a wallet PEM file
func LoadFromPemFile(path string, index int) (*Account, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pem file %s: %w", path, err)
	}

	acc, err := ParsePem(data, index)
	if err != nil {
		return nil, fmt.Errorf("failed to load key from %s: %w", path, err)
	}
	return acc, nil
}

// EncodePem renders the account in the wallet PEM format
func EncodePem(acc *Account) []byte {
	body := hex.EncodeToString(append(acc.SecretKey(), acc.address[:]...))
	return pem.EncodeToMemory(&pem.Block{
		Type:  pemTypePrefix + acc.Address(),
		Bytes: []byte(body),
	})
}

// SaveToPemFile writes the account to a new PEM file readable by the owner only
func SaveToPemFile(path string, acc *Account) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to create pem file %s: %w", path, err)
	}

	if _, err := f.Write(EncodePem(acc)); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write pem file %s: %w", path, err)
	}
	return f.Close()
}
