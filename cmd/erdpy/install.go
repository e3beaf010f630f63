package main

import (
	"github.com/urfave/cli/v2"

	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/dependencies"
)

func installCommand() *cli.Command {
	return &cli.Command{
		Name:      "install",
		Usage:     "Download and install a module into the SDK directory",
		ArgsUsage: "[module]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "overwrite", Usage: "Reinstall even when the module is already present"},
		},
		Action: withEnvironment(func(c *cli.Context, env *environment) error {
			name := dependencies.MclSignerModule
			if c.NArg() > 0 {
				name = c.Args().First()
			}

			manager := env.moduleManager()
			if err := manager.Install(c.Context, name, c.Bool("overwrite")); err != nil {
				return err
			}
			dir, err := manager.GetModuleDirectory(name)
			if err != nil {
				return err
			}
			env.success("Installed %s into %s", name, dir)
			return nil
		}),
	}
}
