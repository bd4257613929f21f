package cmd

import (
	"fmt"

	"rssreader/models"
	"rssreader/render"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func scanCmd() *cli.Command {
	return &cli.Command{
		Name:  "scan",
		Usage: "Fetch every stored feed and summarize it",
		Description: `Fetches all stored feeds, several at a time, and prints the
		number of articles and the newest title of each. A feed that fails is
		reported in its row and does not stop the others.`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Usage:   "Feeds fetched at the same time (default from config)",
				EnvVars: []string{"RSSREADER_WORKERS"},
			},
		},
		Action: func(ctx *cli.Context) error {
			eng, _ := newEngine(ctx)

			workers := appConfig(ctx).Workers
			if ctx.IsSet("workers") {
				workers = ctx.Int("workers")
			}

			results, err := eng.Scan(ctx.Context, workers)
			if err != nil {
				return fmt.Errorf("could not scan feeds: %w", err)
			}
			if len(results) == 0 {
				fmt.Fprintln(ctx.App.Writer, errNoFeeds.Error())
				return nil
			}

			failed := lo.CountBy(results, func(r models.ScanResult) bool {
				return r.Err != nil
			})
			log.WithFields(log.Fields{
				"feeds":   len(results),
				"failed":  failed,
				"workers": workers,
			}).Info("Scan finished")

			fmt.Fprintln(ctx.App.Writer, render.ScanTable(results))
			return nil
		},
	}
}
