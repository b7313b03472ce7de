package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

// Globals are flags shared by every command
type Globals struct {
	Config      string `short:"c" default:"sambridge.hcl" help:"HCL configuration file (missing file uses defaults)"`
	LogLevel    string `help:"Override the configured log level"`
	LogFormat   string `help:"Override the configured log format (text, json, logfmt)"`
	ModelPath   string `help:"Override the model artifact path"`
	StorePath   string `help:"Override the decision database path"`
	JournalPath string `help:"Override the Báo Sâm journal path"`
}

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Serve    ServeCmd         `cmd:"" help:"Serve decisions over HTTP and WebSocket"`
	Declare  DeclareCmd       `cmd:"" help:"Ask whether a hand should declare Báo Sâm"`
	Move     MoveCmd          `cmd:"" help:"Choose a move for a game state read from JSON"`
	Simulate SimulateCmd      `cmd:"" help:"Deal random hands through the decision chains"`
	Status   StatusCmd        `cmd:"" help:"Show the state of every decision tier"`
	Model    ModelCmd         `cmd:"" help:"Manage model artifacts"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("sambridge"),
		kong.Description("Tiered Báo Sâm declaration and move decisions"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
		kong.Bind(&cli.Globals),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
