package cmd

import (
	"fmt"

	"github.com/plantd/plantd/pkg/plantcli"
	"github.com/urfave/cli"
)

func status(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	client, err := plantcli.NewClient()
	if err != nil {
		printRuntimeErr(ctx, "status", "new_client", err)
		return nil
	}
	defer client.Close()
	st, err := client.Status()
	if err != nil {
		printRuntimeErr(ctx, "status", "get_status", err)
		return nil
	}
	session := "inactive"
	if st.SessionActive {
		session = "active"
	}
	poller := "disarmed"
	if st.PollerArmed {
		poller = "armed"
	}
	fmt.Printf(`
Daemon Status
Session`+"\t\t"+`: %s
Poller`+"\t\t"+`: %s
Plants`+"\t\t"+`: %d
`, session, poller, st.Plants)
	if st.FocusedId != "" {
		fmt.Printf("Focused\t\t: %s\n", st.FocusedId)
	}
	if !st.LastCatchUp.IsZero() {
		fmt.Printf("Last Catch-up\t: %s\n", st.LastCatchUp.Local().Format("2006-01-02 15:04:05"))
	}
	if !st.LastTick.IsZero() {
		fmt.Printf("Last Check\t: %s\n", st.LastTick.Local().Format("2006-01-02 15:04:05"))
	}
	return nil
}
