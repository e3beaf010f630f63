package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

func signMessageCommand() *cli.Command {
	flags := append([]cli.Flag{
		&cli.StringFlag{Name: "message", Usage: "Message to sign", Required: true},
		&cli.BoolFlag{Name: "raw", Usage: "Sign the message bytes as they are, without the signed-message prefix"},
	}, pemFlags()...)

	return &cli.Command{
		Name:  "sign-message",
		Usage: "Sign a message with a PEM key",
		Flags: flags,
		Action: withEnvironment(func(c *cli.Context, env *environment) error {
			acc, err := env.loadAccount(c)
			if err != nil {
				return err
			}
			message := []byte(c.String("message"))

			facade := env.facade()
			var signature string
			if c.Bool("raw") {
				signature, err = facade.SignMessage(message, acc)
			} else {
				signature, err = facade.SignPrefixedMessage(message, acc)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(env.out, signature)
			return nil
		}),
	}
}

func verifyMessageCommand() *cli.Command {
	return &cli.Command{
		Name:  "verify-message",
		Usage: "Verify a signature made by sign-message",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "message", Usage: "Signed message", Required: true},
			&cli.StringFlag{Name: "signature", Usage: "Hex signature", Required: true},
			&cli.StringFlag{Name: "address", Usage: "Address of the signer", Required: true},
		},
		Action: withEnvironment(func(c *cli.Context, env *environment) error {
			err := env.facade().VerifyPrefixedMessage([]byte(c.String("message")), c.String("signature"), c.String("address"))
			if err != nil {
				return err
			}
			env.success("Signature is valid")
			return nil
		}),
	}
}

func signBLSCommand() *cli.Command {
	return &cli.Command{
		Name:  "sign-bls",
		Usage: "Sign a message with a BLS key through the mcl_signer module",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "message", Usage: "Message to sign", Required: true},
			&cli.StringFlag{Name: "secret-key", Usage: "BLS secret key, handed to the signer as is", Required: true},
		},
		Action: withEnvironment(func(c *cli.Context, env *environment) error {
			signature, err := env.facade().SignMessageWithExternalKey(c.Context, []byte(c.String("message")), []byte(c.String("secret-key")))
			if err != nil {
				return err
			}
			fmt.Fprintln(env.out, signature)
			return nil
		}),
	}
}
