package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/plantd/plantd/pkg/plantcli"
	"github.com/urfave/cli"
)

func login(ctx *cli.Context) error {
	email := ctx.Args().First()
	if email == "" {
		return printErrWithCmdHelp(
			ctx,
			errors.New("no email provided"),
		)
	} else if email == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	password := ctx.Args().Get(1)
	if password == "" {
		fmt.Print("Password: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			printRuntimeErr(ctx, "login", "read_password", err)
			return nil
		}
		password = strings.TrimSpace(line)
	}
	if password == "" {
		return printErrWithCmdHelp(
			ctx,
			errors.New("no password provided"),
		)
	}
	client, err := plantcli.NewClient()
	if err != nil {
		printRuntimeErr(ctx, "login", "new_client", err)
		return nil
	}
	defer client.Close()
	resp, err := client.Login(email, password)
	if err != nil {
		printRuntimeErr(ctx, "login", "sign_in", err)
		return nil
	}
	fmt.Printf("Signed in as %s, watching %d plant(s).\n", resp.Email, resp.Plants)
	return nil
}

func logout(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	client, err := plantcli.NewClient()
	if err != nil {
		printRuntimeErr(ctx, "logout", "new_client", err)
		return nil
	}
	defer client.Close()
	if _, err = client.Logout(); err != nil {
		printRuntimeErr(ctx, "logout", "sign_out", err)
		return nil
	}
	fmt.Println("Signed out.")
	return nil
}
