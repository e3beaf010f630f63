package testutil

import (
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/account"
	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/persistence"
	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/signing"
	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/transaction"
	"github.com/stretchr/testify/require"
)

const (
	AliceSeed    = "413f42575f7f26fad3317a778771212fdb80245850981e48b58a4f25e344e8f9"
	AliceAddress = "erd1qyu5wthldzr8wx5c9ucg8kjagg0jfs53s8nr3zpz3hypefsdd8ssycr6th"
	BobAddress   = "erd1spyavw0956vq68xj8y4tenjpq2wd5a9p2c6j8gsz7ztyrnpxrruqzu66jx"
)

// AliceAccount returns the well known test account alice
func AliceAccount(t *testing.T) *account.Account {
	t.Helper()
	seed, err := hex.DecodeString(AliceSeed)
	require.NoError(t, err)
	acc, err := account.NewAccountFromSeed(seed)
	require.NoError(t, err)
	return acc
}

// CreateTestTransaction builds an unsigned transfer from alice to bob
func CreateTestTransaction(t *testing.T, nonce uint64) *transaction.Transaction {
	t.Helper()
	tx, err := transaction.NewBuilder().
		WithNonce(nonce).
		WithValue(big.NewInt(int64(nonce) * 1000)).
		WithSender(AliceAddress).
		WithReceiver(BobAddress).
		WithGasPrice(1000000000).
		WithGasLimit(50000).
		WithChainID("local-testnet").
		Build()
	require.NoError(t, err)
	return tx
}

// CreateSignedTransaction signs CreateTestTransaction with alice's key
func CreateSignedTransaction(t *testing.T, nonce uint64) *transaction.Transaction {
	t.Helper()
	signed, err := signing.NewFacade(nil).SignTransaction(CreateTestTransaction(t, nonce), AliceAccount(t))
	require.NoError(t, err)
	return signed
}

// CreateTestRecord returns a journal record for a signed transfer with the given nonce
func CreateTestRecord(t *testing.T, nonce uint64) *persistence.TransactionRecord {
	t.Helper()
	record, err := persistence.NewTransactionRecord(CreateSignedTransaction(t, nonce), "http://localhost:7950")
	require.NoError(t, err)
	return record
}
