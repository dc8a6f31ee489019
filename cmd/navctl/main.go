// Command navctl edits a navdesk start page from the terminal.
package main

import (
	"context"
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/MrSnakeDoc/navdesk/internal/clientconfig"
	"github.com/MrSnakeDoc/navdesk/internal/version"
)

func main() {
	cmd := &cli.Command{
		Name:    "navctl",
		Usage:   "View and edit a navdesk start page",
		Version: version.Get().String(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to client config file",
				Value:   clientconfig.DefaultPath(),
				Sources: cli.EnvVars("NAVCTL_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "server",
				Usage:   "Server URL, overrides the config file",
				Sources: cli.EnvVars("NAVDESK_SERVER"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "debug, info, warn or error",
				Sources: cli.EnvVars("NAVCTL_LOG_LEVEL"),
			},
		},
		Commands: commands(),
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "navctl:", describe(err))
		os.Exit(1)
	}
}
