package transaction

import (
	"fmt"
	"math/big"

	"k8s.io/apimachinery/pkg/util/validation/field"
)

// Builder assembles a transaction field by field, in any order
type Builder struct {
	tx       Transaction
	nonceSet bool
	errs     field.ErrorList
}

func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) WithNonce(nonce uint64) *Builder {
	b.tx.Nonce = nonce
	b.nonceSet = true
	return b
}

func (b *Builder) WithValue(value *big.Int) *Builder {
	if value != nil {
		b.tx.Value = new(big.Int).Set(value)
	}
	return b
}

// WithValueString accepts a base 10 integer amount
func (b *Builder) WithValueString(value string) *Builder {
	v, ok := new(big.Int).SetString(value, 10)
	if !ok {
		b.errs = append(b.errs, field.Invalid(field.NewPath("value"), value, "value must be a base 10 integer"))
		return b
	}
	b.tx.Value = v
	return b
}

func (b *Builder) WithSender(sender string) *Builder {
	b.tx.Sender = sender
	return b
}

func (b *Builder) WithReceiver(receiver string) *Builder {
	b.tx.Receiver = receiver
	return b
}

func (b *Builder) WithGasPrice(gasPrice uint64) *Builder {
	b.tx.GasPrice = gasPrice
	return b
}

func (b *Builder) WithGasLimit(gasLimit uint64) *Builder {
	b.tx.GasLimit = gasLimit
	return b
}

func (b *Builder) WithData(data []byte) *Builder {
	b.tx.Data = append([]byte{}, data...)
	if len(b.tx.Data) == 0 {
		b.tx.Data = nil
	}
	return b
}

func (b *Builder) WithChainID(chainID string) *Builder {
	b.tx.ChainID = chainID
	return b
}

func (b *Builder) WithVersion(version uint32) *Builder {
	b.tx.Version = version
	return b
}

func (b *Builder) WithOptions(options uint32) *Builder {
	b.tx.Options = options
	return b
}

// Build returns the unsigned transaction, or a ValidationError listing every problem
func (b *Builder) Build() (*Transaction, error) {
	allErrors := append(field.ErrorList{}, b.errs...)
	if !b.nonceSet {
		allErrors = append(allErrors, field.Required(field.NewPath("nonce"), "nonce is required"))
	}

	tx := b.tx.Copy()
	if tx.Version == 0 {
		tx.Version = DefaultVersion
	}
	if tx.Value == nil {
		tx.Value = big.NewInt(0)
	}

	if err := tx.Validate(); err != nil {
		if ve, ok := err.(*ValidationError); ok {
			allErrors = append(allErrors, ve.Errors...)
		} else {
			return nil, fmt.Errorf("failed to validate transaction: %w", err)
		}
	}

	if err := newValidationError(allErrors); err != nil {
		return nil, err
	}
	return tx, nil
}
