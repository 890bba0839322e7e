package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/plantd/plantd/common"
	"github.com/plantd/plantd/pkg/plantcli"
	"github.com/urfave/cli"
)

var (
	addSpecies  string
	addNotes    string
	addSchedule string

	addFlags = []cli.Flag{
		cli.StringFlag{
			Name:        "species, s",
			Usage:       "species of the plant",
			Destination: &addSpecies,
		},
		cli.StringFlag{
			Name:        "notes, n",
			Usage:       "free-form care notes",
			Destination: &addNotes,
		},
		cli.StringFlag{
			Name:        "schedule",
			Usage:       "comma separated 24h watering times (e.g. 09:00,18:30)",
			Destination: &addSchedule,
		},
	}
)

func add(ctx *cli.Context) error {
	name := ctx.Args().First()
	if name == "" {
		return printErrWithCmdHelp(
			ctx,
			errors.New("no plant name provided"),
		)
	} else if name == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	client, err := plantcli.NewClient()
	if err != nil {
		printRuntimeErr(ctx, "add", "new_client", err)
		return nil
	}
	defer client.Close()
	resp, err := client.Add(&common.AddPlantParams{
		Name:             name,
		Species:          addSpecies,
		Notes:            addNotes,
		WateringSchedule: splitSchedule(addSchedule),
	})
	if err != nil {
		printRuntimeErr(ctx, "add", "add_plant", err)
		return nil
	}
	fmt.Printf("Added %s (%s).\n", resp.Plant.Name, resp.Plant.Id)
	return nil
}

func splitSchedule(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	entries := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			entries = append(entries, p)
		}
	}
	return entries
}
