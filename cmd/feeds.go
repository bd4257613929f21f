package cmd

import (
	"errors"
	"fmt"
	"strings"

	"rssreader/engine"
	"rssreader/render"
	"rssreader/store"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var errNoFeeds = errors.New("no feeds stored yet, add one with add-feed")

func listFeedsCmd() *cli.Command {
	return &cli.Command{
		Name:    "list-feeds",
		Aliases: []string{"lf"},
		Usage:   "List the stored feeds",
		Action: func(ctx *cli.Context) error {
			eng, _ := newEngine(ctx)

			list, err := eng.ListFeeds()
			if err != nil {
				return fmt.Errorf("could not list feeds: %w", err)
			}

			fmt.Fprintln(ctx.App.Writer, render.FeedsTable(list))
			if len(list) == 0 {
				fmt.Fprintln(ctx.App.Writer, errNoFeeds.Error())
			}
			return nil
		},
	}
}

func addFeedCmd(p Prompter) *cli.Command {
	return &cli.Command{
		Name:      "add-feed",
		Aliases:   []string{"af"},
		Usage:     "Add a feed URL to the store",
		ArgsUsage: "[url]",
		Description: `Adds a feed URL to the store. Adding a URL that is already
		stored changes nothing.

		With --check the URL is fetched and parsed first and only stored
		when it serves an RSS or Atom feed.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "check",
				Usage: "Fetch and parse the feed before storing it",
			},
		},
		Action: func(ctx *cli.Context) error {
			url := strings.TrimSpace(ctx.Args().First())
			if url == "" {
				answer, err := p.Input("Feed URL:", "https://example.com/feed.xml")
				if err != nil {
					return quit(err)
				}
				url = strings.TrimSpace(answer)
			}

			eng, decoder := newEngine(ctx)

			if ctx.Bool("check") {
				result, err := decoder.Probe(ctx.Context, url)
				if err != nil {
					return fmt.Errorf("not adding %s: %w", url, err)
				}
				fmt.Fprintf(ctx.App.Writer, "Found %s feed %q with %d items\n", result.FeedType, result.Title, result.Items)
			}

			result, err := eng.AddFeed(url)
			if err != nil {
				return fmt.Errorf("could not add feed %s: %w", url, err)
			}

			switch result {
			case store.Added:
				fmt.Fprintln(ctx.App.Writer, "Added feed", url)
			case store.AlreadyExists:
				fmt.Fprintln(ctx.App.Writer, "Feed already stored", url)
			}
			return nil
		},
	}
}

func removeFeedCmd(p Prompter) *cli.Command {
	return &cli.Command{
		Name:      "remove-feed",
		Aliases:   []string{"rf"},
		Usage:     "Remove a feed URL from the store",
		ArgsUsage: "[url]",
		Action: func(ctx *cli.Context) error {
			eng, _ := newEngine(ctx)

			url, err := feedArgOrChoice(ctx, eng, p, "Feed to remove:")
			if err != nil {
				return quit(err)
			}

			if err := eng.RemoveFeed(url); err != nil {
				return fmt.Errorf("could not remove feed %q: %w", url, err)
			}

			log.WithFields(log.Fields{
				"feed": url,
			}).Info("Removed feed")
			fmt.Fprintln(ctx.App.Writer, "Removed feed", url)
			return nil
		},
	}
}

// feedArgOrChoice takes the feed from the first argument or lets the user
// pick one of the stored feeds.
func feedArgOrChoice(ctx *cli.Context, eng *engine.Engine, p Prompter, question string) (string, error) {
	if url := strings.TrimSpace(ctx.Args().First()); url != "" {
		return url, nil
	}

	list, err := eng.ListFeeds()
	if err != nil {
		return "", fmt.Errorf("could not list feeds: %w", err)
	}
	if len(list) == 0 {
		return "", errNoFeeds
	}

	return p.Choose(question, list)
}
