package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"io"
	"os"

	"github.com/ruteri/push-notification-server/api/clients"
	"github.com/ruteri/push-notification-server/cmd/flags"
	"github.com/ruteri/push-notification-server/interfaces"
	"github.com/ruteri/push-notification-server/kms"
	"github.com/urfave/cli/v2"
)

var flagSubscriptionFile *cli.StringFlag = &cli.StringFlag{
	Name:  "subscription-file",
	Value: "",
	Usage: "Path to a PushSubscription JSON document, '-' for stdin",
}
var flagSubscription *cli.StringFlag = &cli.StringFlag{
	Name:  "subscription",
	Value: "",
	Usage: "PushSubscription JSON document given inline",
}
var flagEnvFormat *cli.BoolFlag = &cli.BoolFlag{
	Name:  "env",
	Value: false,
	Usage: "Print generated keys as environment variable assignments",
}

func main() {
	app := &cli.App{
		Name:           "pushctl",
		Usage:          "Operate a push notification server",
		DefaultCommand: "count",
		Flags: []cli.Flag{
			flags.ServerAddrFlag,
		},
		Commands: []*cli.Command{
			&cli.Command{
				Name:  "public-key",
				Usage: "Print the server's VAPID public key",
				Action: func(cCtx *cli.Context) error {
					key, err := client(cCtx).VAPIDPublicKey()
					if err != nil {
						return err
					}

					fmt.Println(key)
					return nil
				},
			},
			&cli.Command{
				Name:  "count",
				Usage: "Print the number of stored subscriptions",
				Action: func(cCtx *cli.Context) error {
					count, err := client(cCtx).NumSubscriptions()
					if err != nil {
						return err
					}

					fmt.Println(count)
					return nil
				},
			},
			&cli.Command{
				Name:  "trigger",
				Usage: "Send a notification to every stored subscription",
				Action: func(cCtx *cli.Context) error {
					result, err := client(cCtx).TriggerNotification()
					if err != nil {
						return err
					}

					fmt.Println(result)
					return nil
				},
			},
			&cli.Command{
				Name:  "register",
				Usage: "Store a subscription on the server",
				Flags: []cli.Flag{
					flagSubscriptionFile,
					flagSubscription,
				},
				Action: func(cCtx *cli.Context) error {
					sub, err := readSubscription(cCtx)
					if err != nil {
						return err
					}

					if err := client(cCtx).Register(sub.Raw); err != nil {
						return err
					}

					fmt.Println("Registered", sub.Endpoint)
					return nil
				},
			},
			&cli.Command{
				Name:  "unregister",
				Usage: "Remove a subscription from the server",
				Flags: []cli.Flag{
					flagSubscriptionFile,
					flagSubscription,
				},
				Action: func(cCtx *cli.Context) error {
					sub, err := readSubscription(cCtx)
					if err != nil {
						return err
					}

					if err := client(cCtx).Unregister(sub.Raw); err != nil {
						return err
					}

					fmt.Println("Unregistered", sub.Endpoint)
					return nil
				},
			},
			&cli.Command{
				Name:  "generate-vapid-keys",
				Usage: "Generate a VAPID key pair for the server",
				Flags: []cli.Flag{
					flagEnvFormat,
				},
				Action: func(cCtx *cli.Context) error {
					keys, err := kms.GenerateVAPIDKeys()
					if err != nil {
						return err
					}

					if cCtx.Bool(flagEnvFormat.Name) {
						fmt.Printf("%s=%s\n", kms.DefaultPublicKeyEnv, keys.PublicKey)
						fmt.Printf("%s=%s\n", kms.DefaultPrivateKeyEnv, keys.PrivateKey)
						return nil
					}

					out, err := json.MarshalIndent(map[string]string{
						"public_key":  keys.PublicKey,
						"private_key": keys.PrivateKey,
					}, "", "  ")
					if err != nil {
						return err
					}

					fmt.Println(string(out))
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func client(cCtx *cli.Context) *clients.PushClient {
	return clients.NewPushClient(cCtx.String(flags.ServerAddrFlag.Name))
}

func readSubscription(cCtx *cli.Context) (interfaces.Subscription, error) {
	var raw []byte
	switch path := cCtx.String(flagSubscriptionFile.Name); {
	case cCtx.String(flagSubscription.Name) != "":
		raw = []byte(cCtx.String(flagSubscription.Name))
	case path == "-":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return interfaces.Subscription{}, fmt.Errorf("failed to read subscription from stdin: %w", err)
		}
		raw = data
	case path != "":
		data, err := os.ReadFile(path)
		if err != nil {
			return interfaces.Subscription{}, fmt.Errorf("failed to read subscription file: %w", err)
		}
		raw = data
	default:
		return interfaces.Subscription{}, errors.New("one of --subscription or --subscription-file is required")
	}

	return interfaces.NewSubscription(raw)
}
