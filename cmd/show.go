package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/plantd/plantd/pkg/plantcli"
	"github.com/urfave/cli"
)

func show(ctx *cli.Context) error {
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
		printRuntimeErr(ctx, "show", "new_client", err)
		return nil
	}
	defer client.Close()
	resp, err := client.Get(id)
	if err != nil {
		printRuntimeErr(ctx, "show", "get_plant", err)
		return nil
	}
	p := resp.Plant
	lastWatered := "never"
	if p.LastWateredAt != nil {
		lastWatered = p.LastWateredAt.Local().Format("2006-01-02 15:04")
	}
	schedule := "none"
	if len(p.WateringSchedule) > 0 {
		schedule = strings.Join(p.WateringSchedule, ", ")
	}
	fmt.Printf(`
Plant Info
Name`+"\t\t"+`: %s
Species`+"\t"+`: %s
Schedule`+"\t"+`: %s
Status`+"\t\t"+`: %s
Last Watered`+"\t"+`: %s
`,
		p.Name,
		orDash(p.Species),
		schedule,
		statusText(p),
		lastWatered,
	)
	if p.Notes != "" {
		fmt.Printf("Notes\t\t: %s\n", p.Notes)
	}
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
