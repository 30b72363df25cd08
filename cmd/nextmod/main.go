package main

import (
	"github.com/alecthomas/kong"

	"gitlab.com/nextmod/nextmod/cmd/nextmod/commands"
	"gitlab.com/nextmod/nextmod/internal/foundation/errors"
	"gitlab.com/nextmod/nextmod/internal/version"
)

func main() {
	var cli commands.CLI
	ctx := kong.Parse(&cli,
		kong.Name("nextmod"),
		kong.Description("Static site generator for mod catalogs."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	global := &commands.Global{}
	err := ctx.Run(global, &cli)
	global.Close()

	errors.NewCLIErrorAdapter(cli.Verbose, global.Logger).HandleError(err)
}
