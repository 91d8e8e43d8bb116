// submodule cmd contains command definitions
package main

import (
	"github.com/urfave/cli/v3"
)

const defaultConfigName = "config.toml"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// grabCommand downloads a playlist
func grabCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "grab",
		Usage: "Match every track of a Spotify playlist on YouTube Music and download it",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:     "playlist",
				Aliases:  []string{"p"},
				Usage:    "Spotify playlist URL, URI or ID",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory (default: ~/Downloads/<playlist name>)",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Audio format: mp3, flac, wav or m4a",
			},
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Usage:   "Number of tracks processed in parallel",
			},
			&cli.StringFlag{
				Name:    "client-id",
				Usage:   "Spotify client ID",
				Sources: cli.EnvVars("SPOTIFY_CLIENT_ID"),
			},
			&cli.StringFlag{
				Name:    "client-secret",
				Usage:   "Spotify client secret",
				Sources: cli.EnvVars("SPOTIFY_CLIENT_SECRET"),
			},
			&cli.BoolFlag{
				Name:  "log",
				Usage: "Write failures to error.log in the output directory",
			},
			&cli.BoolFlag{
				Name:  "no-report",
				Usage: "Skip writing report.txt",
			},
			&cli.BoolFlag{
				Name:  "replace",
				Usage: "Remove an existing output directory before downloading",
			},
			&cli.BoolFlag{
				Name:  "csv",
				Usage: "Also write results.csv",
			},
			&cli.BoolFlag{
				Name:  "plain",
				Usage: "Print progress lines instead of the interactive view",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging",
			},
		},
		Action: r.Grab,
	}
}

// historyCommand inspects past runs
func historyCommand(r *Runner) *cli.Command {
	dbFlag := func() cli.Flag {
		return &cli.StringFlag{
			Name:  "db",
			Usage: "Path to the history database (default: [database] path)",
		}
	}

	return &cli.Command{
		Name:  "history",
		Usage: "Show previous grab runs",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recent runs",
				Flags: []cli.Flag{
					configFlag(),
					dbFlag(),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of runs to show",
						Value: 20,
					},
				},
				Action: r.HistoryList,
			},
			{
				Name:  "show",
				Usage: "Show the results of a run",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "run-id"},
				},
				Flags: []cli.Flag{
					configFlag(),
					dbFlag(),
					&cli.BoolFlag{
						Name:  "legend",
						Usage: "Print the status code legend",
					},
				},
				Action: r.HistoryShow,
			},
			{
				Name:  "delete",
				Usage: "Remove a run and its results from history",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "run-id"},
				},
				Flags:  []cli.Flag{configFlag(), dbFlag()},
				Action: r.HistoryDelete,
			},
		},
	}
}

// configCommand manages the configuration file
func configCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Write a default " + defaultConfigName,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "path",
						Usage: "Destination file",
						Value: defaultConfigName,
					},
				},
				Action: r.ConfigInit,
			},
		},
	}
}
