package main

import (
	"fmt"
	"math/big"

	"github.com/urfave/cli/v2"

	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/config"
)

// Flags are built per command; urfave flags keep parse state and must not be shared.

func proxyFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "proxy",
		Usage:   "URL of the proxy, e.g. https://testnet-api.elrond.com",
		EnvVars: []string{config.EnvProxy},
	}
}

func chainFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "chain",
		Usage:   "Chain ID; asked from the proxy when omitted",
		EnvVars: []string{config.EnvChainID},
	}
}

func pemFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "pem",
			Usage:    "PEM file holding the signing key",
			Required: true,
		},
		&cli.IntFlag{
			Name:  "pem-index",
			Usage: "Index of the key within the PEM file",
			Value: 0,
		},
	}
}

func gasFlags() []cli.Flag {
	return []cli.Flag{
		&cli.Uint64Flag{
			Name:  "gas-price",
			Usage: fmt.Sprintf("Gas price (default: %d)", config.DefaultGasPrice),
		},
		&cli.Uint64Flag{
			Name:  "gas-limit",
			Usage: fmt.Sprintf("Gas limit (default: %d)", config.DefaultGasLimit),
		},
	}
}

func valueFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "value",
		Usage: "Value to transfer, in the smallest unit",
		Value: "0",
	}
}

func argumentsFlag() cli.Flag {
	return &cli.StringSliceFlag{
		Name:  "arguments",
		Usage: "Arguments: 0x-prefixed hex, decimal numbers, str:text, true/false or erd1 addresses",
	}
}

func functionFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "function",
		Usage:    "Name of the contract function",
		Required: true,
	}
}

func outfileFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "outfile",
		Usage: "Write the JSON result to this file instead of stdout",
	}
}

func parseValue(s string) (*big.Int, error) {
	if s == "" {
		return big.NewInt(0), nil
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 {
		return nil, fmt.Errorf("invalid value %q, expected a non-negative integer", s)
	}
	return v, nil
}
