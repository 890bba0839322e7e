package cmd

import (
	"errors"
	"fmt"

	"github.com/plantd/plantd/pkg/plantcli"
	"github.com/urfave/cli"
)

var (
	editName    string
	editSpecies string
	editNotes   string

	editFlags = []cli.Flag{
		cli.StringFlag{
			Name:        "name",
			Usage:       "new display name",
			Destination: &editName,
		},
		cli.StringFlag{
			Name:        "species, s",
			Usage:       "new species",
			Destination: &editSpecies,
		},
		cli.StringFlag{
			Name:        "notes, n",
			Usage:       "new care notes",
			Destination: &editNotes,
		},
	}
)

func edit(ctx *cli.Context) error {
	id := ctx.Args().First()
	if id == "" {
		return printErrWithCmdHelp(
			ctx,
			errors.New("no plant id provided"),
		)
	} else if id == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	fields := make(map[string]any)
	if editName != "" {
		fields["name"] = editName
	}
	if editSpecies != "" {
		fields["species"] = editSpecies
	}
	if editNotes != "" {
		fields["notes"] = editNotes
	}
	if len(fields) == 0 {
		return printErrWithCmdHelp(
			ctx,
			errors.New("nothing to change"),
		)
	}
	client, err := plantcli.NewClient()
	if err != nil {
		printRuntimeErr(ctx, "edit", "new_client", err)
		return nil
	}
	defer client.Close()
	resp, err := client.Update(id, fields)
	if err != nil {
		printRuntimeErr(ctx, "edit", "update_plant", err)
		return nil
	}
	fmt.Printf("Updated %s.\n", resp.Plant.Name)
	return nil
}
