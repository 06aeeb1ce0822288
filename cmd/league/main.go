package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cliApp := &cli.App{
		Name:  "league",
		Usage: "reconcile laser game results into a league and score it",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.yaml",
				Usage:   "path to the configuration file",
			},
			&cli.StringFlag{
				Name:    "league",
				Aliases: []string{"l"},
				Usage:   "league document, overriding league.file",
				EnvVars: []string{"LEAGUE_FILE"},
			},
		},
		Commands: []*cli.Command{
			newCommand(),
			serverCommand(),
			commitCommand(),
			gamesCommand(),
			standingsCommand(),
			exportCommand(),
			syncCommand(),
			watchCommand(),
		},
	}

	if err := cliApp.RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
