package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/display"
	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/flows"
)

func getAccountCommand() *cli.Command {
	return &cli.Command{
		Name:  "get_account",
		Usage: "Show an account, or only its balance or nonce",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "address", Usage: "Account address (bech32 or hex)", Required: true},
			&cli.BoolFlag{Name: "balance", Usage: "Print only the balance"},
			&cli.BoolFlag{Name: "nonce", Usage: "Print only the nonce"},
			proxyFlag(),
		},
		Action: withEnvironment(func(c *cli.Context, env *environment) error {
			f, err := env.flows()
			if err != nil {
				return err
			}
			addr := c.String("address")

			switch {
			case c.Bool("balance"):
				balance, err := f.GetAccountBalance(c.Context, addr)
				if err != nil {
					return err
				}
				fmt.Fprintln(env.out, balance.String())
			case c.Bool("nonce"):
				nonce, err := f.GetAccountNonce(c.Context, addr)
				if err != nil {
					return err
				}
				fmt.Fprintln(env.out, nonce)
			default:
				acc, err := f.GetAccount(c.Context, addr)
				if err != nil {
					return err
				}
				return display.PrintAccount(env.out, acc)
			}
			return nil
		}),
	}
}

func getNumShardsCommand() *cli.Command {
	return &cli.Command{
		Name:  "get_num_shards",
		Usage: "Print the number of shards, without the metachain",
		Flags: []cli.Flag{proxyFlag()},
		Action: withEnvironment(func(c *cli.Context, env *environment) error {
			p, err := env.proxyClient()
			if err != nil {
				return err
			}
			n, err := p.GetNumShards(c.Context)
			if err != nil {
				return err
			}
			fmt.Fprintln(env.out, n)
			return nil
		}),
	}
}

func getLastBlockNonceCommand() *cli.Command {
	return &cli.Command{
		Name:  "get_last_block_nonce",
		Usage: "Print the nonce of the last block of a shard",
		Flags: []cli.Flag{
			&cli.UintFlag{Name: "shard-id", Usage: "Shard to ask about; 4294967295 is the metachain", Required: true},
			proxyFlag(),
		},
		Action: withEnvironment(func(c *cli.Context, env *environment) error {
			p, err := env.proxyClient()
			if err != nil {
				return err
			}
			nonce, err := p.GetLastBlockNonce(c.Context, uint32(c.Uint("shard-id")))
			if err != nil {
				return err
			}
			fmt.Fprintln(env.out, nonce)
			return nil
		}),
	}
}

func getGasPriceCommand() *cli.Command {
	return &cli.Command{
		Name:  "get_gas_price",
		Usage: "Print the minimum gas price",
		Flags: []cli.Flag{proxyFlag()},
		Action: withEnvironment(func(c *cli.Context, env *environment) error {
			p, err := env.proxyClient()
			if err != nil {
				return err
			}
			price, err := p.GetGasPrice(c.Context)
			if err != nil {
				return err
			}
			fmt.Fprintln(env.out, price)
			return nil
		}),
	}
}

func getChainIDCommand() *cli.Command {
	return &cli.Command{
		Name:  "get_chain_id",
		Usage: "Print the chain ID",
		Flags: []cli.Flag{proxyFlag()},
		Action: withEnvironment(func(c *cli.Context, env *environment) error {
			p, err := env.proxyClient()
			if err != nil {
				return err
			}
			chainID, err := p.GetChainID(c.Context)
			if err != nil {
				return err
			}
			fmt.Fprintln(env.out, chainID)
			return nil
		}),
	}
}

func getTransactionCostCommand() *cli.Command {
	return &cli.Command{
		Name:      "get_transaction_cost",
		Usage:     "Estimate the gas a transaction needs",
		ArgsUsage: fmt.Sprintf("<%s|%s|%s>", flows.TxTypeMoveBalance, flows.TxTypeSCCall, flows.TxTypeSCDeploy),
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "data", Usage: "Data of a move-balance transaction"},
			&cli.StringFlag{Name: "receiver", Usage: "Receiver of a move-balance transaction"},
			&cli.StringFlag{Name: "sc-address", Usage: "Contract of an sc-call"},
			&cli.StringFlag{Name: "function", Usage: "Function of an sc-call"},
			&cli.StringFlag{Name: "project", Usage: "Project directory or bytecode file of an sc-deploy", Value: "."},
			argumentsFlag(),
			proxyFlag(),
		},
		Action: withEnvironment(func(c *cli.Context, env *environment) error {
			if c.NArg() != 1 {
				return fmt.Errorf("expected the transaction type as the only argument, one of %v", flows.TxTypes)
			}
			f, err := env.flows()
			if err != nil {
				return err
			}
			cost, err := f.EstimateTransactionCost(c.Context, &flows.TxCostRequest{
				Type:      flows.TxType(c.Args().First()),
				Data:      c.String("data"),
				Receiver:  c.String("receiver"),
				ScAddress: c.String("sc-address"),
				Function:  c.String("function"),
				Path:      c.String("project"),
				Arguments: c.StringSlice("arguments"),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(env.out, "Transaction cost: %d gas units\n", cost)
			return nil
		}),
	}
}

func networkCommand() *cli.Command {
	return &cli.Command{
		Name:  "network",
		Usage: "Show the network configuration and the last nonce of every shard",
		Flags: []cli.Flag{
			proxyFlag(),
			&cli.BoolFlag{Name: "json", Usage: "Print JSON instead of tables"},
		},
		Action: withEnvironment(func(c *cli.Context, env *environment) error {
			f, err := env.flows()
			if err != nil {
				return err
			}
			summary, err := f.GetNetworkSummary(c.Context)
			if err != nil {
				return err
			}
			if c.Bool("json") {
				return display.PrintJSON(env.out, summary)
			}
			display.PrintNetworkSummary(env.out, summary)
			return nil
		}),
	}
}
