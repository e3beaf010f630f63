package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/display"
)

func journalCommand() *cli.Command {
	return &cli.Command{
		Name:  "journal",
		Usage: "Inspect the transactions recorded by deploy, call and send-tx",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recorded transactions",
				Action: withEnvironment(func(c *cli.Context, env *environment) error {
					j, err := env.openJournal()
					if err != nil {
						return err
					}
					records, err := j.ListTransactions()
					if err != nil {
						return err
					}
					display.PrintJournal(env.out, records)
					return nil
				}),
			},
			{
				Name:      "show",
				Usage:     "Print a recorded transaction as JSON",
				ArgsUsage: "<id>",
				Action: withEnvironment(func(c *cli.Context, env *environment) error {
					if c.NArg() != 1 {
						return fmt.Errorf("expected the record ID as the only argument")
					}
					j, err := env.openJournal()
					if err != nil {
						return err
					}
					record, err := j.LoadTransaction(c.Args().First())
					if err != nil {
						return err
					}
					if record == nil {
						return fmt.Errorf("no journal record with ID %s", c.Args().First())
					}
					return display.PrintJSON(env.out, record)
				}),
			},
			{
				Name:      "delete",
				Usage:     "Remove a recorded transaction",
				ArgsUsage: "<id>",
				Action: withEnvironment(func(c *cli.Context, env *environment) error {
					if c.NArg() != 1 {
						return fmt.Errorf("expected the record ID as the only argument")
					}
					j, err := env.openJournal()
					if err != nil {
						return err
					}
					if err := j.DeleteTransaction(c.Args().First()); err != nil {
						return err
					}
					env.success("Deleted %s", c.Args().First())
					return nil
				}),
			},
		},
	}
}
