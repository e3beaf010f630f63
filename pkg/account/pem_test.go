package account

import (
	"encoding/hex"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromPemFile_Alice(t *testing.T) {
	acc, err := LoadFromPemFile(filepath.Join("testdata", "alice.pem"), 0)
	require.NoError(t, err)

	assert.Equal(t, aliceAddress, acc.Address())
	assert.Equal(t, aliceSeedHex, hex.EncodeToString(acc.SecretKey()))
}

func TestLoadFromPemFile_Missing(t *testing.T) {
	_, err := LoadFromPemFile(filepath.Join(t.TempDir(), "missing.pem"), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read pem file")
}

func TestParsePem_MultipleKeys(t *testing.T) {
	first, err := GenerateAccount()
	require.NoError(t, err)
	second, err := GenerateAccount()
	require.NoError(t, err)

	data := append(EncodePem(first), EncodePem(second)...)

	acc, err := ParsePem(data, 1)
	require.NoError(t, err)
	assert.Equal(t, second.Address(), acc.Address())

	_, err = ParsePem(data, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")

	_, err = ParsePem(data, -1)
	require.Error(t, err)
}

func TestParsePem_Errors(t *testing.T) {
	alice, err := NewAccountFromSeed(mustDecodeHex(t, aliceSeedHex))
	require.NoError(t, err)
	other, err := GenerateAccount()
	require.NoError(t, err)

	tests := []struct {
		name        string
		data        []byte
		expectedErr string
	}{
		{
			name:        "no pem blocks",
			data:        []byte("not a pem file"),
			expectedErr: "no private key found",
		},
		{
			name: "body is not hex",
			data: pem.EncodeToMemory(&pem.Block{
				Type:  pemTypePrefix + aliceAddress,
				Bytes: []byte("definitely not hex"),
			}),
			expectedErr: "not hex",
		},
		{
			name: "wrong key length",
			data: pem.EncodeToMemory(&pem.Block{
				Type:  pemTypePrefix + aliceAddress,
				Bytes: []byte("abcd"),
			}),
			expectedErr: "unexpected key length",
		},
		{
			name: "public key mismatch",
			data: pem.EncodeToMemory(&pem.Block{
				Type:  pemTypePrefix + aliceAddress,
				Bytes: []byte(hex.EncodeToString(append(alice.SecretKey(), other.PublicKey().PublicKey()...))),
			}),
			expectedErr: "does not match the secret key",
		},
		{
			name: "label mismatch",
			data: pem.EncodeToMemory(&pem.Block{
				Type:  pemTypePrefix + other.Address(),
				Bytes: []byte(hex.EncodeToString(append(alice.SecretKey(), alice.PublicKey().PublicKey()...))),
			}),
			expectedErr: "does not match derived address",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePem(tt.data, 0)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedErr)
		})
	}
}

func TestSaveToPemFile_RoundTrip(t *testing.T) {
	acc, err := GenerateAccount()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "wallet.pem")
	require.NoError(t, SaveToPemFile(path, acc))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := LoadFromPemFile(path, 0)
	require.NoError(t, err)
	assert.Equal(t, acc.Address(), loaded.Address())
	assert.Equal(t, acc.SecretKey(), loaded.SecretKey())

	err = SaveToPemFile(path, acc)
	require.Error(t, err, "existing wallets are never overwritten")
}
