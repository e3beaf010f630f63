package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/account"
	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/address"
	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/transaction"
)

func readTransaction(path string) (*transaction.Transaction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read transaction file: %w", err)
	}
	var tx transaction.Transaction
	if err := json.Unmarshal(data, &tx); err != nil {
		return nil, fmt.Errorf("failed to parse transaction file %s: %w", path, err)
	}
	return &tx, nil
}

func signTxCommand() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{Name: "infile", Usage: "Sign the transaction in this JSON file instead of building one from flags"},
		&cli.Uint64Flag{Name: "nonce", Usage: "Nonce of the transaction"},
		&cli.BoolFlag{Name: "recall-nonce", Usage: "Ask the proxy for the sender's nonce"},
		&cli.StringFlag{Name: "receiver", Usage: "Receiver address"},
		&cli.StringFlag{Name: "data", Usage: "Data of the transaction"},
		&cli.UintFlag{Name: "version", Usage: "Transaction version", Value: uint(transaction.DefaultVersion)},
		&cli.UintFlag{Name: "options", Usage: "Transaction options"},
		&cli.BoolFlag{Name: "send", Usage: "Send the transaction once signed"},
		valueFlag(),
		chainFlag(),
		proxyFlag(),
		outfileFlag(),
	}
	flags = append(flags, pemFlags()...)
	flags = append(flags, gasFlags()...)

	return &cli.Command{
		Name:   "sign-tx",
		Usage:  "Build and sign a transaction, optionally sending it",
		Flags:  flags,
		Action: withEnvironment(signTxAction),
	}
}

func signTxAction(c *cli.Context, env *environment) error {
	acc, err := env.loadAccount(c)
	if err != nil {
		return err
	}

	var tx *transaction.Transaction
	if path := c.String("infile"); path != "" {
		if tx, err = readTransaction(path); err != nil {
			return err
		}
		if tx.Sender == "" {
			tx.Sender = acc.Address()
		}
	} else if tx, err = buildTransactionFromFlags(c, env, acc); err != nil {
		return err
	}

	if tx.Sender != acc.Address() {
		return fmt.Errorf("sender %s does not match the key file, which belongs to %s", tx.Sender, acc.Address())
	}

	signed, err := env.facade().SignTransaction(tx.WithoutSignature(), acc)
	if err != nil {
		return fmt.Errorf("failed to sign transaction: %w", err)
	}

	if !c.Bool("send") {
		return env.writeResult(c.String("outfile"), signed)
	}

	f, err := env.flows()
	if err != nil {
		return err
	}
	result, err := f.SendTransaction(c.Context, signed)
	if err != nil {
		return err
	}
	return env.writeResult(c.String("outfile"), result)
}

func buildTransactionFromFlags(c *cli.Context, env *environment, acc *account.Account) (*transaction.Transaction, error) {
	receiver, err := address.Parse(c.String("receiver"))
	if err != nil {
		return nil, fmt.Errorf("invalid receiver %q: %w", c.String("receiver"), err)
	}
	value, err := parseValue(c.String("value"))
	if err != nil {
		return nil, err
	}

	var nonce uint64
	switch {
	case c.Bool("recall-nonce"):
		f, err := env.flows()
		if err != nil {
			return nil, err
		}
		if nonce, err = f.GetAccountNonce(c.Context, acc.Address()); err != nil {
			return nil, err
		}
	case c.IsSet("nonce"):
		nonce = c.Uint64("nonce")
	default:
		return nil, fmt.Errorf("either --nonce or --recall-nonce is required")
	}

	chainID := env.config.ChainID
	if chainID == "" {
		if env.config.Proxy == "" {
			return nil, fmt.Errorf("either --chain or --proxy is required")
		}
		p, err := env.proxyClient()
		if err != nil {
			return nil, err
		}
		if chainID, err = p.GetChainID(c.Context); err != nil {
			return nil, err
		}
	}

	gas := env.gasSettings(c)
	return transaction.NewBuilder().
		WithNonce(nonce).
		WithValue(value).
		WithSender(acc.Address()).
		WithReceiver(receiver.Bech32()).
		WithGasPrice(gas.GasPrice).
		WithGasLimit(gas.GasLimit).
		WithData([]byte(c.String("data"))).
		WithChainID(chainID).
		WithVersion(uint32(c.Uint("version"))).
		WithOptions(uint32(c.Uint("options"))).
		Build()
}

func sendTxCommand() *cli.Command {
	return &cli.Command{
		Name:  "send-tx",
		Usage: "Send a signed transaction read from a JSON file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "infile", Usage: "Signed transaction, as written by sign-tx", Required: true},
			proxyFlag(),
			outfileFlag(),
		},
		Action: withEnvironment(func(c *cli.Context, env *environment) error {
			tx, err := readTransaction(c.String("infile"))
			if err != nil {
				return err
			}
			f, err := env.flows()
			if err != nil {
				return err
			}
			result, err := f.SendTransaction(c.Context, tx)
			if err != nil {
				return err
			}
			return env.writeResult(c.String("outfile"), result)
		}),
	}
}
