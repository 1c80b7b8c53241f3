package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	cliApp := &cli.App{
		Name:  "lensboard",
		Usage: "AR lens score relay, submission endpoint and leaderboard",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Value:   "config.yaml",
				Usage:   "path to the configuration file",
				EnvVars: []string{"LENSBOARD_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			newServeCommand(),
			newMigrateCommand(),
			newSeedCommand(),
			newRelayCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
