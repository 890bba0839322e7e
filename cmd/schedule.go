package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/plantd/plantd/pkg/plantcli"
	"github.com/urfave/cli"
)

func schedule(ctx *cli.Context) error {
	id := ctx.Args().First()
	if id == "" {
		return printErrWithCmdHelp(
			ctx,
			errors.New("no plant id provided"),
		)
	} else if id == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	entries := ctx.Args().Tail()
	if len(entries) == 1 && strings.Contains(entries[0], ",") {
		entries = splitSchedule(entries[0])
	}
	client, err := plantcli.NewClient()
	if err != nil {
		printRuntimeErr(ctx, "schedule", "new_client", err)
		return nil
	}
	defer client.Close()
	resp, err := client.SetSchedule(id, entries)
	if err != nil {
		printRuntimeErr(ctx, "schedule", "set_schedule", err)
		return nil
	}
	if len(resp.Plant.WateringSchedule) == 0 {
		fmt.Printf("Cleared schedule for %s.\n", resp.Plant.Name)
		return nil
	}
	fmt.Printf("Will water %s at %s.\n",
		resp.Plant.Name,
		strings.Join(resp.Plant.WateringSchedule, ", "),
	)
	return nil
}
