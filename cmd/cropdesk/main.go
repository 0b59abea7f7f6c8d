package main

import (
	"fmt"
	"os"

	"cropdesk/internal/config"
	"cropdesk/internal/logger"

	"github.com/alecthomas/kong"
)

var CLI struct {
	Version  kong.VersionFlag
	EnvFile  string `help:"Dotenv file loaded before the environment." default:".env" type:"path"`
	LogLevel string `help:"Overrides LOG_LEVEL (debug, info, warn, error)."`

	Serve   ServeCmd   `cmd:"" help:"Run the HTTP API and the background worker." default:"1"`
	Migrate MigrateCmd `cmd:"" help:"Create or update database tables and exit."`
}

// app is what every command receives from main.
type app struct {
	cfg config.Config
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("cropdesk"),
		kong.Description("Crop tracking and advisory backend"),
		kong.UsageOnError(),
		kong.Vars{"version": "v0.1.0"},
	)

	cfg, err := config.Load(CLI.EnvFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if CLI.LogLevel != "" {
		cfg.LogLevel = CLI.LogLevel
	}
	if err := logger.Init(logger.Config{Level: cfg.LogLevel, File: cfg.LogFile}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: init logger: %v\n", err)
		os.Exit(1)
	}

	if err := ctx.Run(&app{cfg: cfg}); err != nil {
		logger.Error("command failed", "command", ctx.Command(), "error", err)
		os.Exit(1)
	}
}
