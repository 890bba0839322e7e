package cmd

import (
	"fmt"

	"github.com/urfave/cli"
)

type BuildArgs struct {
	Version   string
	BuildType string
	Date      string
	Commit    string
}

var currentBuildArgs BuildArgs

func Execute(args []string, bArgs BuildArgs) error {
	currentBuildArgs = bArgs
	app := cli.App{
		Name:                  "PlantD",
		HelpName:              "plantd",
		Usage:                 "A watering companion for your plants.",
		Version:               fmt.Sprintf("%s-%s", bArgs.Version, bArgs.BuildType),
		UsageText:             "plantd <command> [arguments...]",
		Description:           DESCRIPTION,
		CustomAppHelpTemplate: HELP_TEMPL,
		OnUsageError:          usageErrorCallback,
		Commands: []cli.Command{
			{
				Name:   "daemon",
				Action: daemonCmd,
				Flags:  daemonFlags,
			},
			{
				Name:               "login",
				Usage:              "signs in to the plant store",
				Action:             login,
				OnUsageError:       usageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        LoginDescription,
			},
			{
				Name:               "logout",
				Usage:              "signs out and drops the saved session",
				Action:             logout,
				OnUsageError:       usageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        LogoutDescription,
			},
			{
				Name:               "list",
				Aliases:            []string{"l", "ls"},
				Usage:              "displays your plants",
				Action:             list,
				OnUsageError:       usageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        ListDescription,
				Flags:              lsFlags,
			},
			{
				Name:               "show",
				Aliases:            []string{"info", "i"},
				Usage:              "shows info about a plant",
				Action:             show,
				OnUsageError:       usageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        ShowDescription,
			},
			{
				Name:               "add",
				Aliases:            []string{"a"},
				Usage:              "adds a new plant",
				Action:             add,
				OnUsageError:       usageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        AddDescription,
				Flags:              addFlags,
			},
			{
				Name:               "remove",
				Aliases:            []string{"rm"},
				Usage:              "removes a plant",
				Action:             remove,
				OnUsageError:       usageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        RemoveDescription,
			},
			{
				Name:               "water",
				Aliases:            []string{"w"},
				Usage:              "marks a plant as watered",
				Action:             water,
				OnUsageError:       usageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        WaterDescription,
			},
			{
				Name:               "edit",
				Aliases:            []string{"e"},
				Usage:              "edits a plant's details",
				Action:             edit,
				OnUsageError:       usageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        EditDescription,
				Flags:              editFlags,
			},
			{
				Name:               "schedule",
				Aliases:            []string{"s"},
				Usage:              "replaces a plant's watering schedule",
				Action:             schedule,
				OnUsageError:       usageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        ScheduleDescription,
			},
			{
				Name:               "focus",
				Usage:              "marks a plant as the one on display",
				Action:             focus,
				OnUsageError:       usageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        FocusDescription,
			},
			{
				Name:               "attach",
				Usage:              "streams live updates from the daemon",
				Action:             attach,
				OnUsageError:       usageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        AttachDescription,
			},
			{
				Name:   "status",
				Usage:  "prints the daemon session status",
				Action: status,
			},
			{
				Name:    "version",
				Aliases: []string{"v"},
				Action:  getVersion,
			},
			{
				Name:               "help",
				Aliases:            []string{"h"},
				Usage:              "prints the help message",
				Action:             help,
				CustomHelpTemplate: CMD_HELP_TEMPL,
			},
		},
		Action:                 help,
		UseShortOptionHandling: true,
		HideHelp:               true,
		HideVersion:            true,
		CommandNotFound: func(ctx *cli.Context, s string) {
			_ = printErrWithHelp(ctx, fmt.Errorf("command not found: %s", s))
		},
	}
	return app.Run(args)
}
