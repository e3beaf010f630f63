package account

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	aliceSeedHex = "413f42575f7f26fad3317a778771212fdb80245850981e48b58a4f25e344e8f9"
	aliceAddress = "erd1qyu5wthldzr8wx5c9ucg8kjagg0jfs53s8nr3zpz3hypefsdd8ssycr6th"
)

func TestNewAccountFromSeed(t *testing.T) {
	tests := []struct {
		name    string
		seed    []byte
		address string
	}{
		{
			name:    "alice",
			seed:    mustDecodeHex(t, aliceSeedHex),
			address: aliceAddress,
		},
		{
			name:    "zero seed",
			seed:    make([]byte, 32),
			address: "erd18d4z00xwk6jz6c4r4rgz5mcdwdjny9thrh3y8f36cpy2rz6emg5srly7l5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc, err := NewAccountFromSeed(tt.seed)
			require.NoError(t, err)
			assert.Equal(t, tt.address, acc.Address())
			assert.Equal(t, tt.seed, acc.SecretKey())
		})
	}
}

func TestNewAccountFromSeed_InvalidLength(t *testing.T) {
	for _, size := range []int{0, 16, 31, 33, 64} {
		t.Run(fmt.Sprintf("%d bytes", size), func(t *testing.T) {
			acc, err := NewAccountFromSeed(make([]byte, size))
			assert.Nil(t, acc)
			require.ErrorIs(t, err, ErrInvalidSecretKey)
		})
	}
}

func TestAccount_SecretKeyIsACopy(t *testing.T) {
	seed := mustDecodeHex(t, aliceSeedHex)
	acc, err := NewAccountFromSeed(seed)
	require.NoError(t, err)

	seed[0] ^= 0xff
	key := acc.SecretKey()
	key[1] ^= 0xff

	assert.Equal(t, aliceSeedHex, hex.EncodeToString(acc.SecretKey()))
}

func TestAccount_NeverExposesSecretKey(t *testing.T) {
	acc, err := NewAccountFromSeed(mustDecodeHex(t, aliceSeedHex))
	require.NoError(t, err)

	rendered := []string{
		acc.String(),
		fmt.Sprintf("%v", acc),
		fmt.Sprintf("%+v", acc),
		fmt.Sprintf("%#v", acc),
	}
	data, err := json.Marshal(acc)
	require.NoError(t, err)
	rendered = append(rendered, string(data))

	for _, r := range rendered {
		assert.NotContains(t, r, aliceSeedHex)
		assert.Contains(t, r, aliceAddress)
	}
}

func TestGenerateAccount(t *testing.T) {
	first, err := GenerateAccount()
	require.NoError(t, err)
	second, err := GenerateAccount()
	require.NoError(t, err)

	assert.Len(t, first.SecretKey(), SecretKeyLength)
	assert.NotEqual(t, first.Address(), second.Address())
}

func mustDecodeHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}
