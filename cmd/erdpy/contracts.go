package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/address"
	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/contracts"
	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/display"
	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/flows"
)

func deployCommand() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:  "project",
			Usage: "Contract project directory; the bytecode is read from <project>/output/*.wasm",
			Value: ".",
		},
		&cli.StringFlag{
			Name:  "bytecode",
			Usage: "Path to a .wasm file or a hex bytecode file, used instead of --project",
		},
		&cli.StringFlag{
			Name:  "owner",
			Usage: "Expected owner address; must match the PEM key",
		},
		&cli.BoolFlag{Name: "metadata-not-upgradeable", Usage: "Deploy a contract that cannot be upgraded"},
		&cli.BoolFlag{Name: "metadata-readable", Usage: "Allow other contracts to read the contract's storage"},
		&cli.BoolFlag{Name: "metadata-payable", Usage: "Allow the contract to receive funds"},
		&cli.BoolFlag{Name: "metadata-payable-by-sc", Usage: "Allow the contract to receive funds from other contracts"},
		argumentsFlag(),
		valueFlag(),
		proxyFlag(),
		chainFlag(),
		outfileFlag(),
	}
	flags = append(flags, pemFlags()...)
	flags = append(flags, gasFlags()...)

	return &cli.Command{
		Name:   "deploy",
		Usage:  "Deploy a smart contract",
		Flags:  flags,
		Action: withEnvironment(deployAction),
	}
}

func deployAction(c *cli.Context, env *environment) error {
	acc, err := env.loadAccount(c)
	if err != nil {
		return err
	}
	value, err := parseValue(c.String("value"))
	if err != nil {
		return err
	}
	f, err := env.flows()
	if err != nil {
		return err
	}

	req := &flows.DeployRequest{
		Project:   c.String("project"),
		Owner:     c.String("owner"),
		Account:   acc,
		Arguments: c.StringSlice("arguments"),
		Metadata: contracts.CodeMetadata{
			Upgradeable: !c.Bool("metadata-not-upgradeable"),
			Readable:    c.Bool("metadata-readable"),
			Payable:     c.Bool("metadata-payable"),
			PayableBySC: c.Bool("metadata-payable-by-sc"),
		},
		Value: value,
		Gas:   env.gasSettings(c),
	}
	if path := c.String("bytecode"); path != "" {
		if req.Bytecode, err = contracts.LoadBytecode(path); err != nil {
			return err
		}
	}

	result, err := f.DeployContract(c.Context, req)
	if err != nil {
		return fmt.Errorf("failed to deploy contract: %w", err)
	}
	if err := env.writeResult(c.String("outfile"), result); err != nil {
		return err
	}
	env.success("Contract address: %s", result.ContractAddress)
	return nil
}

func callCommand() *cli.Command {
	flags := []cli.Flag{
		functionFlag(),
		argumentsFlag(),
		valueFlag(),
		proxyFlag(),
		chainFlag(),
		outfileFlag(),
	}
	flags = append(flags, pemFlags()...)
	flags = append(flags, gasFlags()...)

	return &cli.Command{
		Name:      "call",
		Usage:     "Call a function of a deployed smart contract",
		ArgsUsage: "<contract>",
		Flags:     flags,
		Action:    withEnvironment(callAction),
	}
}

func callAction(c *cli.Context, env *environment) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected the contract address as the only argument")
	}
	acc, err := env.loadAccount(c)
	if err != nil {
		return err
	}
	value, err := parseValue(c.String("value"))
	if err != nil {
		return err
	}
	f, err := env.flows()
	if err != nil {
		return err
	}

	result, err := f.CallContract(c.Context, &flows.CallRequest{
		Contract:  c.Args().First(),
		Account:   acc,
		Function:  c.String("function"),
		Arguments: c.StringSlice("arguments"),
		Value:     value,
		Gas:       env.gasSettings(c),
	})
	if err != nil {
		return fmt.Errorf("failed to call contract: %w", err)
	}
	return env.writeResult(c.String("outfile"), result)
}

func queryCommand() *cli.Command {
	return &cli.Command{
		Name:      "query",
		Usage:     "Run a read-only contract function",
		ArgsUsage: "<contract>",
		Flags: []cli.Flag{
			functionFlag(),
			argumentsFlag(),
			proxyFlag(),
			&cli.BoolFlag{Name: "json", Usage: "Print the raw response as JSON"},
		},
		Action: withEnvironment(func(c *cli.Context, env *environment) error {
			if c.NArg() != 1 {
				return fmt.Errorf("expected the contract address as the only argument")
			}
			f, err := env.flows()
			if err != nil {
				return err
			}
			res, err := f.QueryContract(c.Context, c.Args().First(), c.String("function"), c.StringSlice("arguments"))
			if err != nil {
				return fmt.Errorf("failed to query contract: %w", err)
			}
			if c.Bool("json") {
				return display.PrintJSON(env.out, res)
			}
			display.PrintQueryResponse(env.out, res)
			return nil
		}),
	}
}

func contractAddressCommand() *cli.Command {
	return &cli.Command{
		Name:  "contract-address",
		Usage: "Compute the address a contract deployed by owner with the given nonce will get",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "owner", Usage: "Deployer address (bech32 or hex)", Required: true},
			&cli.Uint64Flag{Name: "nonce", Usage: "Nonce of the deploy transaction", Required: true},
		},
		Action: withEnvironment(func(c *cli.Context, env *environment) error {
			owner, err := address.Parse(c.String("owner"))
			if err != nil {
				return fmt.Errorf("invalid owner %q: %w", c.String("owner"), err)
			}
			fmt.Fprintln(env.out, contracts.ComputeContractAddress(owner, c.Uint64("nonce")).Bech32())
			return nil
		}),
	}
}
