package flows

import (
	"context"
	"fmt"

	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/address"
	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/contracts"
	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/transaction"
)

type TxType string

const (
	TxTypeMoveBalance TxType = "move-balance"
	TxTypeSCCall      TxType = "sc-call"
	TxTypeSCDeploy    TxType = "sc-deploy"
)

var TxTypes = []TxType{TxTypeSCCall, TxTypeMoveBalance, TxTypeSCDeploy}

type TxCostRequest struct {
	Type TxType

	// Data is the payload of a move-balance transaction
	Data string

	// Receiver of a move-balance transaction; the zero address when empty
	Receiver string

	// ScAddress and Function describe an sc-call
	ScAddress string
	Function  string

	// Project or bytecode path of an sc-deploy
	Path string

	Arguments []string
}

// costEstimationSender stands in as sender, the proxy ignores its balance when estimating
var costEstimationSender = address.Zero

// EstimateTransactionCost asks the proxy how much gas a transaction of the given type needs
func (f *Flows) EstimateTransactionCost(ctx context.Context, req *TxCostRequest) (uint64, error) {
	var receiver, data string

	switch req.Type {
	case TxTypeMoveBalance:
		receiver = costEstimationSender.Bech32()
		if req.Receiver != "" {
			addr, err := address.Parse(req.Receiver)
			if err != nil {
				return 0, fmt.Errorf("invalid receiver %q: %w", req.Receiver, err)
			}
			receiver = addr.Bech32()
		}
		data = req.Data
	case TxTypeSCCall:
		addr, err := address.Parse(req.ScAddress)
		if err != nil {
			return 0, fmt.Errorf("invalid contract address %q: %w", req.ScAddress, err)
		}
		receiver = addr.Bech32()
		if data, err = contracts.PrepareCallData(req.Function, req.Arguments); err != nil {
			return 0, err
		}
	case TxTypeSCDeploy:
		code, err := contracts.LoadBytecode(req.Path)
		if err != nil {
			return 0, err
		}
		receiver = contracts.DeployAddress.Bech32()
		if data, err = contracts.PrepareDeployData(code, contracts.DefaultCodeMetadata, req.Arguments); err != nil {
			return 0, err
		}
	default:
		return 0, fmt.Errorf("unknown transaction type %q, expected one of %v", req.Type, TxTypes)
	}

	chainID, err := f.resolveChainID(ctx)
	if err != nil {
		return 0, err
	}

	tx, err := transaction.NewBuilder().
		WithNonce(0).
		WithSender(costEstimationSender.Bech32()).
		WithReceiver(receiver).
		WithData([]byte(data)).
		WithChainID(chainID).
		WithVersion(f.txVersion).
		Build()
	if err != nil {
		return 0, err
	}

	return f.proxy.EstimateTransactionCost(ctx, tx)
}
