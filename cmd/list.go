package cmd

import (
	"fmt"
	"strings"

	"github.com/plantd/plantd/pkg/plantcli"
	"github.com/plantd/plantd/pkg/plantlib"
	"github.com/urfave/cli"
)

var (
	thirstyOnly bool

	lsFlags = []cli.Flag{
		cli.BoolFlag{
			Name:        "thirsty, t",
			Usage:       "use this flag to only list plants that need water (default: false)",
			Destination: &thirstyOnly,
		},
	}
)

func list(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	client, err := plantcli.NewClient()
	if err != nil {
		printRuntimeErr(ctx, "list", "new_client", err)
		return nil
	}
	defer client.Close()
	l, err := client.List(thirstyOnly)
	if err != nil {
		printRuntimeErr(ctx, "list", "get_list", err)
		return nil
	}
	if len(l.Items) == 0 {
		fmt.Println("plantd: no plants found")
		return nil
	}
	txt := "Here are your plants:"
	txt += "\n\n--------------------------------------------------------------------"
	txt += "\n|Num|\t         Name         |      Schedule      |     Status      |"
	txt += "\n|---|-------------------------|--------------------|-----------------|"
	for i, p := range l.Items {
		name := p.Name
		n := len(name)
		switch {
		case n > 23:
			name = name[:20] + "..."
		case n < 23:
			name = beaut(name, 23)
		}
		txt += fmt.Sprintf("\n| %d | %s | %s | %s |",
			i+1, name,
			beaut(scheduleText(p), 18),
			beaut(statusText(p), 15),
		)
	}
	txt += "\n--------------------------------------------------------------------"
	fmt.Println(txt)
	return nil
}

func scheduleText(p *plantlib.Plant) string {
	if len(p.WateringSchedule) == 0 {
		return "none"
	}
	s := strings.Join(p.WateringSchedule, " ")
	if len(s) > 18 {
		s = s[:15] + "..."
	}
	return s
}

func statusText(p *plantlib.Plant) string {
	if p.NeedsWater {
		return "needs water"
	}
	return "ok"
}
