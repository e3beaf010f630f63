package signing

import (
	"context"
	"fmt"

	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/account"
	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/address"
	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/transaction"
)

// IExternalSigner signs with a key the process never holds
type IExternalSigner interface {
	SignWithExternalKey(ctx context.Context, message []byte, seed []byte) (string, error)
}

// Facade is the single entry point for signing. Account-bound operations use the
// account's ed25519 key; external signing ignores accounts entirely.
type Facade struct {
	primary  *Ed25519Signer
	external IExternalSigner
}

func NewFacade(external IExternalSigner) *Facade {
	return &Facade{
		primary:  NewEd25519Signer(),
		external: external,
	}
}

// SignTransaction returns a copy of tx carrying the account's signature over its canonical form
func (f *Facade) SignTransaction(tx *transaction.Transaction, acc account.IAccount) (*transaction.Transaction, error) {
	payload, err := tx.Serialize()
	if err != nil {
		return nil, err
	}

	signature, err := f.primary.Sign(payload, acc.SecretKey())
	if err != nil {
		return nil, err
	}
	return tx.WithSignature(signature), nil
}

// SignMessage signs the raw message bytes
func (f *Facade) SignMessage(message []byte, acc account.IAccount) (string, error) {
	return f.primary.Sign(message, acc.SecretKey())
}

func (f *Facade) SignMessageWithExternalKey(ctx context.Context, message []byte, seed []byte) (string, error) {
	if f.external == nil {
		return "", ErrCannotSignMessageWithBLSKey
	}
	return f.external.SignWithExternalKey(ctx, message, seed)
}

// SignPrefixedMessage signs ComputeMessageHash(message)
func (f *Facade) SignPrefixedMessage(message []byte, acc account.IAccount) (string, error) {
	return f.primary.Sign(ComputeMessageHash(message), acc.SecretKey())
}

// VerifyPrefixedMessage checks a signature made with SignPrefixedMessage by signer
func (f *Facade) VerifyPrefixedMessage(message []byte, signatureHex string, signer string) error {
	addr, err := address.Parse(signer)
	if err != nil {
		return fmt.Errorf("invalid signer address: %w", err)
	}
	return f.primary.Verify(ComputeMessageHash(message), signatureHex, addr.PublicKey())
}

// VerifyTransaction checks the attached signature against the transaction's sender
func (f *Facade) VerifyTransaction(tx *transaction.Transaction) error {
	if !tx.Signed() {
		return fmt.Errorf("%w: transaction is not signed", ErrInvalidSignature)
	}
	sender, err := address.FromBech32(tx.Sender)
	if err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}

	payload, err := tx.Serialize()
	if err != nil {
		return err
	}
	return f.primary.Verify(payload, tx.Signature, sender.PublicKey())
}
