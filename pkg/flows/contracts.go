package flows

import (
	"context"
	"fmt"
	"math/big"

	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/account"
	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/address"
	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/contracts"
	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/proxy"
)

type DeployRequest struct {
	// Bytecode wins over Project when both are set
	Bytecode []byte
	Project  string

	// Owner must match Account when set
	Owner     string
	Account   account.IAccount
	Arguments []string
	Metadata  contracts.CodeMetadata
	Value     *big.Int
	Gas       GasSettings
}

// DeployContract sends a deploy transaction and returns the address the contract will live at
func (f *Flows) DeployContract(ctx context.Context, req *DeployRequest) (*SendResult, error) {
	if err := checkSigner(req.Owner, req.Account); err != nil {
		return nil, err
	}

	code := req.Bytecode
	if len(code) == 0 {
		var err error
		if code, err = contracts.LoadBytecode(req.Project); err != nil {
			return nil, err
		}
	}

	data, err := contracts.PrepareDeployData(code, req.Metadata, req.Arguments)
	if err != nil {
		return nil, err
	}

	tx, err := f.buildTransaction(ctx, &unsignedRequest{
		account:  req.Account,
		receiver: contracts.DeployAddress.Bech32(),
		value:    req.Value,
		data:     data,
		gas:      req.Gas,
	})
	if err != nil {
		return nil, err
	}

	owner, err := address.FromBech32(req.Account.Address())
	if err != nil {
		return nil, err
	}
	contractAddress := contracts.ComputeContractAddress(owner, tx.Nonce)

	signed, err := f.facade.SignTransaction(tx, req.Account)
	if err != nil {
		return nil, err
	}

	f.logger.Sugar().Infow("Deploying contract", "owner", owner.Bech32(), "nonce", tx.Nonce, "contract", contractAddress.Bech32())
	return f.send(ctx, signed, contractAddress.Bech32())
}

type CallRequest struct {
	Contract string
	// Caller must match Account when set
	Caller    string
	Account   account.IAccount
	Function  string
	Arguments []string
	Value     *big.Int
	Gas       GasSettings
}

func (f *Flows) CallContract(ctx context.Context, req *CallRequest) (*SendResult, error) {
	if err := checkSigner(req.Caller, req.Account); err != nil {
		return nil, err
	}
	contract, err := address.Parse(req.Contract)
	if err != nil {
		return nil, fmt.Errorf("invalid contract address %q: %w", req.Contract, err)
	}

	data, err := contracts.PrepareCallData(req.Function, req.Arguments)
	if err != nil {
		return nil, err
	}

	tx, err := f.buildTransaction(ctx, &unsignedRequest{
		account:  req.Account,
		receiver: contract.Bech32(),
		value:    req.Value,
		data:     data,
		gas:      req.Gas,
	})
	if err != nil {
		return nil, err
	}

	signed, err := f.facade.SignTransaction(tx, req.Account)
	if err != nil {
		return nil, err
	}
	return f.send(ctx, signed, "")
}

// QueryContract runs a read-only function
func (f *Flows) QueryContract(ctx context.Context, contract, function string, arguments []string) (*proxy.QueryResponse, error) {
	addr, err := address.Parse(contract)
	if err != nil {
		return nil, fmt.Errorf("invalid contract address %q: %w", contract, err)
	}
	if function == "" {
		return nil, fmt.Errorf("function name is required")
	}

	args, err := contracts.EncodeArguments(arguments)
	if err != nil {
		return nil, err
	}

	return f.proxy.QueryContract(ctx, &proxy.QueryRequest{
		ScAddress: addr.Bech32(),
		FuncName:  function,
		Args:      args,
	})
}
