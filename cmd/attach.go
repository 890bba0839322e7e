package cmd

import (
	"fmt"

	"github.com/plantd/plantd/common"
	"github.com/plantd/plantd/pkg/plantcli"
	"github.com/urfave/cli"
)

func attach(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	client, err := plantcli.NewClient()
	if err != nil {
		printRuntimeErr(ctx, "attach", "new_client", err)
		return nil
	}
	defer client.Close()
	l, err := client.Attach()
	if err != nil {
		printRuntimeErr(ctx, "attach", "client_attach", err)
		return nil
	}
	fmt.Printf(">> Attached to plantd, watching %d plant(s) <<\n", len(l.Items))
	registerAttachHandlers(client)
	return client.Listen()
}

func registerAttachHandlers(client *plantcli.Client) {
	client.AddHandler(common.UPDATE_NEEDS_WATER, &plantcli.NeedsWaterHandler{
		Callback: func(u *common.NeedsWaterUpdate) error {
			fmt.Printf("%s needs water!\n", u.Plant.Name)
			return nil
		},
	})
	client.AddHandler(common.UPDATE_PLANT, &plantcli.PlantHandler{
		Callback: func(u *common.PlantUpdate) error {
			fmt.Printf("%s updated (%s)\n", u.Plant.Name, statusText(u.Plant))
			return nil
		},
	})
	client.AddHandler(common.UPDATE_REMOVED, &plantcli.RemovedHandler{
		Callback: func(u *common.RemovedUpdate) error {
			fmt.Printf("plant %s removed\n", u.PlantId)
			return nil
		},
	})
	client.AddHandler(common.UPDATE_SESSION, &plantcli.SessionHandler{
		Callback: func(u *common.SessionUpdate) error {
			if u.Active {
				fmt.Printf("session started (%s)\n", u.UserId)
			} else {
				fmt.Println("session ended")
			}
			return nil
		},
	})
}
