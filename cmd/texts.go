package cmd

const DESCRIPTION = `
PlantD keeps an eye on your plants so you don't have to.
It syncs your collection from the plant store, watches each
watering schedule, raises a desktop alert when a plant is
due and catches up on anything missed while it was offline.
`

const (
	LoginDescription = `The login command signs in to the plant store and starts
a watering session. The daemon keeps the session alive and
restores it automatically after a restart.

Example:
        plantd login flora@example.com

`
	LogoutDescription = `The logout command ends the watering session, forgets the
saved credentials and stops the watering schedule checks.

Example:
        plantd logout

`
	ListDescription = `The list command displays your plants along with their
watering schedules. Use the thirsty flag to only show
plants that are currently due for water.

Example:
        plantd list
        plantd list --thirsty

`
	ShowDescription = `The show command displays the details of a single plant:
its species, notes, watering schedule and when it was
last watered.

Example:
        plantd show <plant id>

`
	AddDescription = `The add command registers a new plant with the store. A
watering schedule can be set right away with the schedule
flag, using 24h clock times separated by commas.

Example:
        plantd add "Monstera" --species "M. deliciosa" --schedule 09:00,18:30

`
	EditDescription = `The edit command changes a plant's name, species or care
notes. Only the given flags are changed; everything else
is left alone.

Example:
        plantd edit <plant id> --name "Monty" --notes "by the window"

`
	RemoveDescription = `The remove command deletes a plant from the store. Every
attached client is told about the removal.

Example:
        plantd remove <plant id>

`
	WaterDescription = `The water command marks a plant as watered right now. The
thirsty flag is cleared and the watering time recorded.

Example:
        plantd water <plant id>

`
	ScheduleDescription = `The schedule command replaces a plant's watering schedule
with the given 24h clock times.

Example:
        plantd schedule <plant id> 08:00 20:00

`
	FocusDescription = `The focus command marks one plant as the plant on display.
The focus is cleared automatically when the plant is
removed.

Example:
        plantd focus <plant id>

`
	AttachDescription = `The attach command connects to the daemon and prints live
updates as they happen: plants getting thirsty, plants
being watered, added or removed, sessions coming and
going. Press ctrl-c to detach.

Example:
        plantd attach

`
)

const HELP_TEMPL = `Usage: {{if .UsageText}}{{.UsageText}}{{else}}{{.HelpName}} {{if .VisibleFlags}}[global options]{{end}}{{if .Commands}} command [command options]{{end}} {{if .ArgsUsage}}{{.ArgsUsage}}{{else}}[arguments...]{{end}}{{end}}
{{.Description}}{{if .VisibleCommands}}
Commands:{{range .VisibleCategories}}{{if .Name}}

{{.Name}}:{{range .VisibleCommands}}
  {{join .Names ", "}}{{"\t"}}{{.Usage}}{{end}}{{else}}{{range .VisibleCommands}}
{{"\t"}}{{index .Names 0}}{{"\t:\t"}}{{.Usage}}{{end}}{{end}}{{end}}{{end}}{{if .VisibleFlags}}{{end}}

Use "{{.HelpName}} help <command>" for more information about any command.

`

const CMD_HELP_TEMPL = `{{if .Description}}{{.Description}}{{else}}{{.HelpName}} - {{.Usage}}

{{end}}Usage:
        {{.HelpName}} {{if .UsageText}}{{.UsageText}}{{else}}[arguments...]{{end}}{{if .VisibleFlags}}

Supported Flags:{{range .VisibleFlags}}
  {{.}}{{end}}{{end}}

`
