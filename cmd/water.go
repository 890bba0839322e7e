package cmd

import (
	"errors"
	"fmt"

	"github.com/plantd/plantd/pkg/plantcli"
	"github.com/urfave/cli"
)

func water(ctx *cli.Context) error {
	id := ctx.Args().First()
	if id == "" {
		if ctx.Command.Name == "" {
			return help(ctx)
		}
		return printErrWithCmdHelp(
			ctx,
			errors.New("no plant id provided"),
		)
	} else if id == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	client, err := plantcli.NewClient()
	if err != nil {
		printRuntimeErr(ctx, "water", "new_client", err)
		return nil
	}
	defer client.Close()
	resp, err := client.Water(id)
	if err != nil {
		printRuntimeErr(ctx, "water", "water_plant", err)
		return nil
	}
	fmt.Printf("Watered %s.\n", resp.Plant.Name)
	return nil
}
