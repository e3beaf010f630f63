package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/config"
)

// Version is overridden at build time with -ldflags "-X main.Version=..."
var Version = "1.0.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("ERROR: %v", err))
		stop()
		os.Exit(1)
	}
}

func newApp() *cli.App {
	cli.VersionPrinter = func(c *cli.Context) {
		fmt.Fprintf(c.App.Writer, "erdpy %s\n", c.App.Version)
	}

	return &cli.App{
		Name:  "erdpy",
		Usage: "Elrond command line tools: smart contracts, transactions and signing",
		Description: `erdpy deploys and calls smart contracts, queries the network through a proxy,
and signs transactions and messages with PEM wallets.

BLS signing is delegated to the mcl_signer module, which "erdpy install mcl_signer"
downloads into the SDK directory.`,
		Version:              Version,
		EnableBashCompletion: true,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Usage:   "Enable debug logging",
				EnvVars: []string{config.EnvVerbose},
			},
			&cli.StringFlag{
				Name:    "config",
				Usage:   "Path to the erdpy.toml configuration file (default: <sdk-path>/erdpy.toml)",
				EnvVars: []string{config.EnvConfigFile},
			},
			&cli.StringFlag{
				Name:    "sdk-path",
				Usage:   "Directory where modules are installed (default: ~/elrondsdk)",
				EnvVars: []string{config.EnvSDKPath},
			},
			&cli.StringFlag{
				Name:    "modules-url",
				Usage:   "Base URL modules are downloaded from",
				EnvVars: []string{config.EnvModulesURL},
			},
			&cli.StringFlag{
				Name:    "bls-signer-command",
				Usage:   "Command used instead of the installed mcl_signer, e.g. \"docker run --rm signer\"",
				EnvVars: []string{config.EnvBLSSignerCommand},
			},
			&cli.StringFlag{
				Name:    "journal",
				Usage:   "Where sent transactions are recorded: none, memory, badger or redis",
				EnvVars: []string{config.EnvJournalType},
			},
			&cli.StringFlag{
				Name:    "journal-path",
				Usage:   "Directory of the badger journal",
				EnvVars: []string{config.EnvJournalPath},
			},
			&cli.StringFlag{
				Name:    "redis-address",
				Usage:   "Address of the redis journal",
				EnvVars: []string{config.EnvRedisAddress},
			},
			&cli.StringFlag{
				Name:    "redis-password",
				Usage:   "Password of the redis journal",
				EnvVars: []string{config.EnvRedisPassword},
			},
		},
		Commands: []*cli.Command{
			installCommand(),
			deployCommand(),
			callCommand(),
			queryCommand(),
			contractAddressCommand(),
			getAccountCommand(),
			getNumShardsCommand(),
			getLastBlockNonceCommand(),
			getGasPriceCommand(),
			getChainIDCommand(),
			getTransactionCostCommand(),
			networkCommand(),
			signTxCommand(),
			sendTxCommand(),
			signMessageCommand(),
			verifyMessageCommand(),
			signBLSCommand(),
			journalCommand(),
		},
	}
}
