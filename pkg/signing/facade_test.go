package signing

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"

	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/transaction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingExternalSigner struct {
	message []byte
	seed    []byte
}

func (r *recordingExternalSigner) SignWithExternalKey(_ context.Context, message []byte, seed []byte) (string, error) {
	r.message = message
	r.seed = seed
	return "bls-signature", nil
}

func TestFacade_SignTransaction_Scenario(t *testing.T) {
	facade := NewFacade(nil)
	tx := scenarioTransaction()

	signed, err := facade.SignTransaction(tx, zeroKeyAccount(t))
	require.NoError(t, err)

	assert.Equal(t, scenarioSignature, signed.Signature)
	assert.False(t, tx.Signed())
}

func TestFacade_SignTransaction_Vectors(t *testing.T) {
	facade := NewFacade(nil)
	alice := aliceAccount(t)

	tests := []struct {
		name      string
		nonce     uint64
		value     string
		gasLimit  uint64
		data      string
		signature string
	}{
		{
			name:      "transfer",
			nonce:     89,
			value:     "0",
			gasLimit:  50000,
			signature: "b56769014f2bdc5cf9fc4a05356807d71fcf8775c819b0f1b0964625b679c918ffa64862313bfef86f99b38cb84fcdb16fa33ad6eb565276616723405cd8f109",
		},
		{
			name:      "transfer with data",
			nonce:     90,
			value:     "0",
			gasLimit:  80000,
			data:      "hello",
			signature: "e47fd437fc17ac9a69f7bf5f85bafa9e7628d851c4f69bd9fedc7e36029708b2e6d168d5cd652ea78beedd06d4440974ca46c403b14071a1a148d4188f6f2c0d",
		},
		{
			name:      "transfer with value and data",
			nonce:     91,
			value:     "10000000000000000000",
			gasLimit:  100000,
			data:      "for the book",
			signature: "9074789e0b4f9b2ac24b1fd351a4dd840afcfeb427b0f93e2a2d429c28c65ee9f4c288ca4dbde79de0e5bcf8c1a5d26e1b1c86203faea923e0edefb0b5099b0c",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, err := transaction.NewBuilder().
				WithNonce(tt.nonce).
				WithValueString(tt.value).
				WithReceiver(bobAddress).
				WithSender(alice.Address()).
				WithGasPrice(1000000000).
				WithGasLimit(tt.gasLimit).
				WithData([]byte(tt.data)).
				WithChainID("local-testnet").
				WithVersion(1).
				Build()
			require.NoError(t, err)

			signed, err := facade.SignTransaction(tx, alice)
			require.NoError(t, err)
			assert.Equal(t, tt.signature, signed.Signature)
			assert.NoError(t, facade.VerifyTransaction(signed))
		})
	}
}

func TestFacade_SignTransaction_Determinism(t *testing.T) {
	facade := NewFacade(nil)
	alice := aliceAccount(t)
	tx := &transaction.Transaction{Nonce: 3, Value: big.NewInt(1), Sender: alice.Address(), Receiver: bobAddress, GasPrice: 1000000000, GasLimit: 50000, ChainID: "D"}

	first, err := facade.SignTransaction(tx, alice)
	require.NoError(t, err)
	second, err := facade.SignTransaction(tx, alice)
	require.NoError(t, err)
	assert.Equal(t, first.Signature, second.Signature)
}

func TestFacade_SignTransaction_MissingSender(t *testing.T) {
	facade := NewFacade(nil)
	tx := scenarioTransaction()
	tx.Sender = ""

	_, err := facade.SignTransaction(tx, zeroKeyAccount(t))
	require.Error(t, err)
	assert.True(t, errors.Is(err, transaction.ErrValidation))
}

func TestFacade_VerifyTransaction_Tampered(t *testing.T) {
	facade := NewFacade(nil)
	alice := aliceAccount(t)
	tx := &transaction.Transaction{Nonce: 1, Sender: alice.Address(), Receiver: bobAddress, GasPrice: 1000000000, GasLimit: 50000, ChainID: "D"}

	signed, err := facade.SignTransaction(tx, alice)
	require.NoError(t, err)

	tampered := signed.Copy()
	tampered.Nonce = 2
	assert.True(t, errors.Is(facade.VerifyTransaction(tampered), ErrInvalidSignature))
	assert.True(t, errors.Is(facade.VerifyTransaction(tx), ErrInvalidSignature))
}

func TestFacade_SignMessage(t *testing.T) {
	facade := NewFacade(nil)

	signature, err := facade.SignMessage([]byte("hello"), aliceAccount(t))
	require.NoError(t, err)
	assert.Equal(t, "66dd503199222d3104cb5381da953b14c895ca564579f98934c4e54a45d75f097da2a0c30060c0e7d014928b8e54509335cadc69b2bb1940cd59bd0c1bb80b0b", signature)
}

func TestFacade_PrefixedMessage(t *testing.T) {
	facade := NewFacade(nil)
	message := []byte("custom message of Alice")

	signature, err := facade.SignPrefixedMessage(message, aliceAccount(t))
	require.NoError(t, err)
	assert.Equal(t, "b83647b88cdc7904895f510250cc735502bf4fd86331dd1b76e078d6409433753fd6f619fc7f8152cf8589a4669eb8318b2e735e41309ed3b60e64221d814f08", signature)

	require.NoError(t, facade.VerifyPrefixedMessage(message, signature, aliceAddress))
	assert.True(t, errors.Is(facade.VerifyPrefixedMessage([]byte("other"), signature, aliceAddress), ErrInvalidSignature))
	assert.True(t, errors.Is(facade.VerifyPrefixedMessage(message, signature, bobAddress), ErrInvalidSignature))
	assert.Error(t, facade.VerifyPrefixedMessage(message, signature, "not-an-address"))
}

func TestFacade_SignMessageWithExternalKey_IgnoresAccount(t *testing.T) {
	external := &recordingExternalSigner{}
	facade := NewFacade(external)

	signature, err := facade.SignMessageWithExternalKey(context.Background(), []byte("msg"), []byte("seed"))
	require.NoError(t, err)
	assert.Equal(t, "bls-signature", signature)
	assert.Equal(t, []byte("msg"), external.message)
	assert.Equal(t, []byte("seed"), external.seed)
}

func TestFacade_SignMessageWithExternalKey_NoSigner(t *testing.T) {
	_, err := NewFacade(nil).SignMessageWithExternalKey(context.Background(), []byte("msg"), []byte("seed"))
	assert.Equal(t, ErrCannotSignMessageWithBLSKey, err)
}

func TestFacade_ConcurrentSigning(t *testing.T) {
	facade := NewFacade(nil)
	acc := zeroKeyAccount(t)

	var wg sync.WaitGroup
	results := make([]string, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			signed, err := facade.SignTransaction(scenarioTransaction(), acc)
			if err == nil {
				results[i] = signed.Signature
			}
		}(i)
	}
	wg.Wait()

	for _, sig := range results {
		assert.Equal(t, scenarioSignature, sig)
	}
}
