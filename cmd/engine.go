package cmd

import (
	"errors"

	"rssreader/config"
	"rssreader/engine"
	"rssreader/feeds"
	"rssreader/store"

	"github.com/cqroot/prompt"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func appConfig(ctx *cli.Context) *config.Config {
	if cfg, ok := ctx.App.Metadata[configKey].(*config.Config); ok {
		return cfg
	}
	return config.Default()
}

func newDecoder(cfg *config.Config) *feeds.Decoder {
	return feeds.NewDecoder(feeds.DecoderConfig{
		Timeout:   cfg.Timeout.Duration,
		UserAgent: cfg.UserAgent,
		Retries:   cfg.Retries,
	})
}

// newEngine opens the feed store for a command. A store that cannot be
// created is logged and left to fail on first write.
func newEngine(ctx *cli.Context) (*engine.Engine, *feeds.Decoder) {
	cfg := appConfig(ctx)

	fileStore := store.NewFileStore(cfg.StoreDir)
	if err := fileStore.Initialize(); err != nil {
		log.WithFields(log.Fields{
			"store": fileStore.Path(),
			"error": err,
		}).Warn("Feed store is not available")
	}

	decoder := newDecoder(cfg)
	return engine.New(store.NewFeedList(fileStore), decoder), decoder
}

// quit ends a command quietly when the user left a prompt
func quit(err error) error {
	if errors.Is(err, prompt.ErrUserQuit) {
		log.Debug("Prompt cancelled")
		return nil
	}
	return err
}
