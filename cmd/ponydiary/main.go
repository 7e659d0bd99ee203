package main

import (
	"fmt"
	"os"
	"ponydiary/internal/cli"
	"ponydiary/internal/di"
	"ponydiary/internal/structures"
	"time"

	"github.com/alecthomas/kong"
)

var CLI struct {
	Config string `help:"Path to the YAML config file." type:"path" default:"config/ponydiary.yaml"`
	Debug  bool   `help:"Mirror application logs to stderr."`

	Serve  cli.ServeCmd  `cmd:"" help:"Run the HTTP server and offline asset cache." default:"1"`
	Put    cli.PutCmd    `cmd:"" help:"Write the entry for a day."`
	Get    cli.GetCmd    `cmd:"" help:"Show the entry for a day."`
	Delete cli.DeleteCmd `cmd:"" help:"Delete the entry for a day."`
	List   cli.ListCmd   `cmd:"" help:"List the entries of a year."`
	Stats  cli.StatsCmd  `cmd:"" help:"Show completion, streak and character count."`
	Export cli.ExportCmd `cmd:"" help:"Write a year to a backup file."`
	Import cli.ImportCmd `cmd:"" help:"Restore a backup file."`
	Clear  cli.ClearCmd  `cmd:"" help:"Delete every entry of a year."`
	Random cli.RandomCmd `cmd:"" help:"Show a random memory."`
	Theme  cli.ThemeCmd  `cmd:"" help:"Show or set the UI theme."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("ponydiary"),
		kong.Description("One-entry-per-day journal with an offline-capable web shell"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	appCtx := &cli.Context{
		Flags: &structures.CliFlags{
			ConfigPath: CLI.Config,
			DebugMode:  CLI.Debug,
		},
		Out:     os.Stdout,
		Runtime: di.InitRuntime,
		App:     di.InitApp,
		Now:     time.Now,
	}

	if err := ctx.Run(appCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
