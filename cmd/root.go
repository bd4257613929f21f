package cmd

import (
	"fmt"
	"strings"

	"rssreader/config"
	"rssreader/feeds"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

const configKey = "config"

// RootApp is the reader as run from the terminal
func RootApp() *cli.App {
	return NewApp(terminalPrompter{})
}

// NewApp builds the command tree. Questions for missing arguments go to p.
func NewApp(p Prompter) *cli.App {
	return &cli.App{
		Name:  "rssreader",
		Usage: "Follow RSS and Atom feeds from the terminal",
		Description: `Keeps a list of feed URLs and lists, describes and reads the
		articles they publish. Articles are fetched fresh on every command and
		printed while the feed downloads.

		Commands that need a feed or an article prompt for it when it is not
		given on the command line.

		Flags can generally be set via environment variables, e.g.:

		--store-dir => RSSREADER_STORE_DIR=/home/me/.feeds
		--timeout => RSSREADER_TIMEOUT=10s
		`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   config.DefaultPath(),
				Usage:   "Path to TOML configuration file",
				EnvVars: []string{"RSSREADER_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "store-dir",
				Aliases: []string{"s"},
				Usage:   "Directory holding feeds.txt (default: feeds next to the executable)",
				EnvVars: []string{"RSSREADER_STORE_DIR"},
			},
			&cli.DurationFlag{
				Name:    "timeout",
				Value:   feeds.DefaultTimeout,
				Usage:   "Timeout for a single feed fetch",
				EnvVars: []string{"RSSREADER_TIMEOUT"},
			},
			&cli.StringFlag{
				Name:    "user-agent",
				Value:   feeds.DefaultUserAgent,
				Usage:   "User-Agent header sent with feed requests",
				EnvVars: []string{"RSSREADER_USER_AGENT"},
			},
			&cli.IntFlag{
				Name:    "retries",
				Value:   config.DefaultRetries,
				Usage:   "Retries after a failed connection",
				EnvVars: []string{"RSSREADER_RETRIES"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Value:   config.DefaultLogLevel,
				Usage:   "Log level: trace, debug, info, warn, error",
				EnvVars: []string{"RSSREADER_LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "metrics-textfile",
				Usage:   "Write fetch metrics to this file on exit",
				EnvVars: []string{"RSSREADER_METRICS_TEXTFILE"},
			},
		},
		Before: func(ctx *cli.Context) error {
			cfg, err := loadConfig(ctx)
			if err != nil {
				return err
			}

			level, err := log.ParseLevel(cfg.LogLevel)
			if err != nil {
				return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
			}
			log.SetOutput(ctx.App.ErrWriter)
			log.SetLevel(level)

			log.WithFields(log.Fields{
				"store":   cfg.StoreDir,
				"timeout": cfg.Timeout.Duration,
				"retries": cfg.Retries,
			}).Debug("Loaded configuration")

			ctx.App.Metadata = map[string]interface{}{configKey: cfg}
			return nil
		},
		After: func(ctx *cli.Context) error {
			path := ctx.String("metrics-textfile")
			if path == "" {
				return nil
			}
			if err := feeds.WriteTextfile(path); err != nil {
				return fmt.Errorf("could not write metrics to %s: %w", path, err)
			}
			return nil
		},
		Commands: []*cli.Command{
			listFeedsCmd(),
			addFeedCmd(p),
			removeFeedCmd(p),
			listArticlesCmd(p),
			seeDescriptionCmd(p),
			readArticleCmd(p),
			scanCmd(),
		},
		Action: func(ctx *cli.Context) error {
			// Show help if no command is specified
			return cli.ShowAppHelp(ctx)
		},
	}
}

// loadConfig layers flags and environment over the TOML file over defaults.
// A missing file is only an error when its path was given explicitly.
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	path := ctx.String("config")

	var cfg *config.Config
	var err error
	if ctx.IsSet("config") {
		cfg, err = config.LoadConfig(path)
	} else {
		cfg, err = config.LoadOptional(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if ctx.IsSet("store-dir") {
		cfg.StoreDir = ctx.String("store-dir")
	}
	if ctx.IsSet("timeout") {
		cfg.Timeout = config.Duration{Duration: ctx.Duration("timeout")}
	}
	if ctx.IsSet("user-agent") {
		cfg.UserAgent = ctx.String("user-agent")
	}
	if ctx.IsSet("retries") {
		cfg.Retries = ctx.Int("retries")
	}
	if ctx.IsSet("log-level") {
		cfg.LogLevel = ctx.String("log-level")
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	return cfg, nil
}
