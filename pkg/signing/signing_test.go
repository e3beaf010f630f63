package signing

import (
	"encoding/hex"
	"errors"
	"math/big"
	"testing"

	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/account"
	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/transaction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	aliceSeed    = "413f42575f7f26fad3317a778771212fdb80245850981e48b58a4f25e344e8f9"
	aliceAddress = "erd1qyu5wthldzr8wx5c9ucg8kjagg0jfs53s8nr3zpz3hypefsdd8ssycr6th"
	bobAddress   = "erd1spyavw0956vq68xj8y4tenjpq2wd5a9p2c6j8gsz7ztyrnpxrruqzu66jx"

	scenarioSignature = "211b076cbe564513ee659eb2223295a06a4bea8d4dd7217203694f26339c0b74b36d2ccc1560f3aac3704984e47551148bee14cea4c129b55172caa5034bab0d"
)

func mustDecodeHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func aliceAccount(t *testing.T) *account.Account {
	t.Helper()
	acc, err := account.NewAccountFromSeed(mustDecodeHex(t, aliceSeed))
	require.NoError(t, err)
	require.Equal(t, aliceAddress, acc.Address())
	return acc
}

func zeroKeyAccount(t *testing.T) *account.Account {
	t.Helper()
	acc, err := account.NewAccountFromSeed(make([]byte, 32))
	require.NoError(t, err)
	return acc
}

func scenarioTransaction() *transaction.Transaction {
	return &transaction.Transaction{
		Nonce:    0,
		Value:    big.NewInt(0),
		Receiver: "bob",
		Sender:   "alice",
		GasPrice: 1000,
		GasLimit: 50000,
		ChainID:  "T",
	}
}

func TestEd25519Signer_Scenario(t *testing.T) {
	signer := NewEd25519Signer()

	payload, err := scenarioTransaction().Serialize()
	require.NoError(t, err)

	signature, err := signer.Sign(payload, make([]byte, 32))
	require.NoError(t, err)
	assert.Equal(t, scenarioSignature, signature)
}

func TestEd25519Signer_InvalidKey(t *testing.T) {
	signer := NewEd25519Signer()

	for _, size := range []int{0, 16, 31, 33, 64} {
		_, err := signer.Sign([]byte("payload"), make([]byte, size))
		assert.True(t, errors.Is(err, ErrInvalidKey), "size %d", size)
	}

	_, err := signer.DerivePublicKey(make([]byte, 10))
	assert.True(t, errors.Is(err, ErrInvalidKey))
}

func TestEd25519Signer_Determinism(t *testing.T) {
	signer := NewEd25519Signer()
	key := mustDecodeHex(t, aliceSeed)

	first, err := signer.Sign([]byte("payload"), key)
	require.NoError(t, err)
	second, err := signer.Sign([]byte("payload"), key)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEd25519Signer_RoundTrip(t *testing.T) {
	signer := NewEd25519Signer()

	payloads := [][]byte{nil, []byte("a"), []byte("hello"), make([]byte, 1024)}
	for i := 0; i < 5; i++ {
		acc, err := account.GenerateAccount()
		require.NoError(t, err)

		for _, payload := range payloads {
			signature, err := signer.Sign(payload, acc.SecretKey())
			require.NoError(t, err)
			assert.Len(t, signature, 128)
			assert.NoError(t, signer.Verify(payload, signature, acc.PublicKey().PublicKey()))
		}
	}
}

func TestEd25519Signer_Distinctness(t *testing.T) {
	signer := NewEd25519Signer()
	key := mustDecodeHex(t, aliceSeed)

	a, err := signer.Sign([]byte("payload one"), key)
	require.NoError(t, err)
	b, err := signer.Sign([]byte("payload two"), key)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestEd25519Signer_VerifyRejects(t *testing.T) {
	signer := NewEd25519Signer()
	acc := aliceAccount(t)
	pub := acc.PublicKey().PublicKey()

	signature, err := signer.Sign([]byte("hello"), acc.SecretKey())
	require.NoError(t, err)

	tests := []struct {
		name      string
		payload   []byte
		signature string
		publicKey []byte
	}{
		{"other payload", []byte("hellO"), signature, pub},
		{"not hex", []byte("hello"), "zz", pub},
		{"short signature", []byte("hello"), signature[:64], pub},
		{"short public key", []byte("hello"), signature, pub[:31]},
		{"other key", []byte("hello"), signature, zeroKeyAccount(t).PublicKey().PublicKey()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := signer.Verify(tt.payload, tt.signature, tt.publicKey)
			assert.True(t, errors.Is(err, ErrInvalidSignature))
		})
	}
}

func TestDerivePublicKey(t *testing.T) {
	pub, err := NewEd25519Signer().DerivePublicKey(make([]byte, 32))
	require.NoError(t, err)
	assert.Equal(t, "3b6a27bcceb6a42d62a3a8d02a6f0d73653215771de243a63ac048a18b59da29", hex.EncodeToString(pub))
}

func TestComputeMessageHash(t *testing.T) {
	assert.Equal(t,
		"999194090cc45ebbb30c1d41c27ba10e4d7335d052b17fbc334a2a21736c535a",
		hex.EncodeToString(ComputeMessageHash([]byte("hello"))))
	assert.NotEqual(t, ComputeMessageHash([]byte("hello")), ComputeMessageHash([]byte("hello ")))
}
