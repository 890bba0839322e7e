package cmd

import (
	"errors"
	"fmt"

	"github.com/plantd/plantd/pkg/plantcli"
	"github.com/urfave/cli"
)

func remove(ctx *cli.Context) error {
	id := ctx.Args().First()
	if id == "" {
		return printErrWithCmdHelp(
			ctx,
			errors.New("no plant id provided"),
		)
	} else if id == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	client, err := plantcli.NewClient()
	if err != nil {
		printRuntimeErr(ctx, "remove", "new_client", err)
		return nil
	}
	defer client.Close()
	if _, err = client.Remove(id); err != nil {
		printRuntimeErr(ctx, "remove", "remove_plant", err)
		return nil
	}
	fmt.Println("Plant removed.")
	return nil
}

func focus(ctx *cli.Context) error {
	id := ctx.Args().First()
	if id == "" {
		return printErrWithCmdHelp(
			ctx,
			errors.New("no plant id provided"),
		)
	} else if id == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	client, err := plantcli.NewClient()
	if err != nil {
		printRuntimeErr(ctx, "focus", "new_client", err)
		return nil
	}
	defer client.Close()
	if _, err = client.Focus(id); err != nil {
		printRuntimeErr(ctx, "focus", "focus_plant", err)
		return nil
	}
	fmt.Println("Plant focused.")
	return nil
}
