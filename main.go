package main

import (
	"os"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/urfave/cli/v2"
)

func main() {
	var verbose bool

	app := &cli.App{
		Name:  "gohole",
		Usage: "extract C struct layouts from a binary's DWARF debug info",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "verbose",
				Aliases:     []string{"v"},
				Usage:       "enable debug logging",
				Destination: &verbose,
			},
		},
		Commands: []*cli.Command{
			{
				Name:    "dwarf",
				Aliases: []string{"d"},
				Usage:   "print struct declarations recovered from debug info",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "input",
						Aliases:  []string{"i"},
						Usage:    "input binary path",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "write a C header to this path instead of stdout",
					},
					&cli.StringFlag{
						Name:    "struct",
						Aliases: []string{"s"},
						Usage:   "only print the struct with this name",
					},
				},
				Action: func(c *cli.Context) error {
					return DwarfHelper(c.String("input"), c.String("output"), c.String("struct"), newLogger(verbose))
				},
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		level.Error(newLogger(verbose)).Log("err", err)
		os.Exit(1)
	}
}

func newLogger(verbose bool) log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	if verbose {
		return level.NewFilter(logger, level.AllowDebug())
	}
	return level.NewFilter(logger, level.AllowInfo())
}
