package transaction

import (
	"encoding/json"
	"fmt"
	"math/big"
	"unicode/utf8"

	"k8s.io/apimachinery/pkg/util/validation/field"
)

// DefaultVersion is used whenever a transaction does not carry an explicit version
const DefaultVersion uint32 = 1

// Transaction is a value transfer or contract interaction, signed or not.
//
// A signed transaction is never patched: re-signing after a change produces a new Transaction.
type Transaction struct {
	Nonce     uint64
	Value     *big.Int
	Receiver  string
	Sender    string
	GasPrice  uint64
	GasLimit  uint64
	Data      []byte
	ChainID   string
	Version   uint32
	Options   uint32
	Signature string
}

// wireTransaction fixes the field order and encoding shared by the signing payload and the
// submission form. The signature is left out of the signing payload through omitempty.
type wireTransaction struct {
	Nonce     uint64 `json:"nonce"`
	Value     string `json:"value"`
	Receiver  string `json:"receiver"`
	Sender    string `json:"sender"`
	GasPrice  uint64 `json:"gasPrice"`
	GasLimit  uint64 `json:"gasLimit"`
	Data      []byte `json:"data,omitempty"`
	Signature string `json:"signature,omitempty"`
	ChainID   string `json:"chainID"`
	Version   uint32 `json:"version"`
	Options   uint32 `json:"options,omitempty"`
}

// Validate checks the fields the chain refuses to process without
func (tx *Transaction) Validate() error {
	var allErrors field.ErrorList

	if tx.Sender == "" {
		allErrors = append(allErrors, field.Required(field.NewPath("sender"), "sender is required"))
	}
	if tx.Receiver == "" {
		allErrors = append(allErrors, field.Required(field.NewPath("receiver"), "receiver is required"))
	}
	if tx.ChainID == "" {
		allErrors = append(allErrors, field.Required(field.NewPath("chainID"), "chain ID is required"))
	}
	for _, text := range []struct {
		name  string
		value string
	}{{"sender", tx.Sender}, {"receiver", tx.Receiver}, {"chainID", tx.ChainID}} {
		if !utf8.ValidString(text.value) {
			allErrors = append(allErrors, field.Invalid(field.NewPath(text.name), text.value, "must be valid UTF-8"))
		}
	}
	if tx.Value != nil && tx.Value.Sign() < 0 {
		allErrors = append(allErrors, field.Invalid(field.NewPath("value"), tx.Value.String(), "value cannot be negative"))
	}

	return newValidationError(allErrors)
}

func (tx *Transaction) toWire(withSignature bool) wireTransaction {
	value := "0"
	if tx.Value != nil {
		value = tx.Value.String()
	}
	version := tx.Version
	if version == 0 {
		version = DefaultVersion
	}

	w := wireTransaction{
		Nonce:    tx.Nonce,
		Value:    value,
		Receiver: tx.Receiver,
		Sender:   tx.Sender,
		GasPrice: tx.GasPrice,
		GasLimit: tx.GasLimit,
		Data:     tx.Data,
		ChainID:  tx.ChainID,
		Version:  version,
		Options:  tx.Options,
	}
	if withSignature {
		w.Signature = tx.Signature
	}
	return w
}

// Serialize returns the canonical bytes that get signed: compact JSON with a fixed key order,
// data as standard base64 omitted when empty, value as a decimal string ("0" when unset),
// version 1 when unset, options omitted when zero. The signature is never part of it.
func (tx *Transaction) Serialize() ([]byte, error) {
	if err := tx.Validate(); err != nil {
		return nil, err
	}

	data, err := json.Marshal(tx.toWire(false))
	if err != nil {
		return nil, fmt.Errorf("failed to serialize transaction: %w", err)
	}
	return data, nil
}

// MarshalJSON renders the submission form expected by the proxy, signature included
func (tx *Transaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(tx.toWire(true))
}

func (tx *Transaction) UnmarshalJSON(data []byte) error {
	var w wireTransaction
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	value := new(big.Int)
	if w.Value != "" {
		if _, ok := value.SetString(w.Value, 10); !ok {
			return fmt.Errorf("invalid transaction value %q", w.Value)
		}
	}

	*tx = Transaction{
		Nonce:     w.Nonce,
		Value:     value,
		Receiver:  w.Receiver,
		Sender:    w.Sender,
		GasPrice:  w.GasPrice,
		GasLimit:  w.GasLimit,
		Data:      w.Data,
		ChainID:   w.ChainID,
		Version:   w.Version,
		Options:   w.Options,
		Signature: w.Signature,
	}
	return nil
}

// Signed reports whether a signature has been attached
func (tx *Transaction) Signed() bool {
	return tx.Signature != ""
}

// Copy returns a deep copy
func (tx *Transaction) Copy() *Transaction {
	c := *tx
	if tx.Value != nil {
		c.Value = new(big.Int).Set(tx.Value)
	}
	if tx.Data != nil {
		c.Data = append([]byte{}, tx.Data...)
	}
	return &c
}

// WithSignature returns a copy of the transaction carrying signature
func (tx *Transaction) WithSignature(signature string) *Transaction {
	c := tx.Copy()
	c.Signature = signature
	return c
}

// WithoutSignature returns a copy ready to be re-signed
func (tx *Transaction) WithoutSignature() *Transaction {
	return tx.WithSignature("")
}
