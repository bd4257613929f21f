package cmd

import (
	"fmt"

	"rssreader/engine"
	"rssreader/models"
	"rssreader/render"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func titleFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "title",
		Aliases: []string{"t"},
		Usage:   "Title of the article, prompts when not given",
	}
}

func listArticlesCmd(p Prompter) *cli.Command {
	return &cli.Command{
		Name:      "list-articles",
		Aliases:   []string{"la"},
		Usage:     "List the articles of a feed",
		ArgsUsage: "[url]",
		Description: `Fetches the feed and prints one row per article as soon as it
		has been decoded.`,
		Action: func(ctx *cli.Context) error {
			eng, _ := newEngine(ctx)

			url, err := feedArgOrChoice(ctx, eng, p, "Feed:")
			if err != nil {
				return quit(err)
			}

			w := render.NewArticleWriter(ctx.App.Writer)
			count, err := eng.ListArticles(ctx.Context, url, w.Write)
			if closeErr := w.Close(); err == nil {
				err = closeErr
			}
			if err != nil {
				return fmt.Errorf("listing %s stopped after %d articles: %w", url, count, err)
			}
			return nil
		},
	}
}

func seeDescriptionCmd(p Prompter) *cli.Command {
	return &cli.Command{
		Name:      "see-description",
		Aliases:   []string{"sd"},
		Usage:     "Show the summary of an article",
		ArgsUsage: "[url]",
		Flags:     []cli.Flag{titleFlag()},
		Action: func(ctx *cli.Context) error {
			eng, _ := newEngine(ctx)

			article, err := chooseArticle(ctx, eng, p)
			if err != nil {
				return quit(err)
			}

			fmt.Fprintln(ctx.App.Writer, render.DescriptionTable(article))
			return nil
		},
	}
}

func readArticleCmd(p Prompter) *cli.Command {
	return &cli.Command{
		Name:      "read-article",
		Aliases:   []string{"ra"},
		Usage:     "Read an article",
		ArgsUsage: "[url]",
		Description: `Prints the article's content as plain text.

		With --full the page the article links to is fetched and its main
		text extracted. The feed's own content is shown when that fails.`,
		Flags: []cli.Flag{
			titleFlag(),
			&cli.BoolFlag{
				Name:    "full",
				Aliases: []string{"f"},
				Usage:   "Fetch the linked page and extract its text",
			},
		},
		Action: func(ctx *cli.Context) error {
			eng, decoder := newEngine(ctx)

			article, err := chooseArticle(ctx, eng, p)
			if err != nil {
				return quit(err)
			}

			body := render.StripTags(article.Description)
			if ctx.Bool("full") {
				if article.Link == "" {
					log.WithFields(log.Fields{
						"title": article.Title,
					}).Warn("Article has no link, showing feed content")
				} else if text, err := decoder.Readable(ctx.Context, article.Link); err != nil {
					log.WithFields(log.Fields{
						"link":  article.Link,
						"error": err,
					}).Warn("Could not extract article, showing feed content")
				} else {
					body = text
				}
			}

			return render.Article(ctx.App.Writer, article, body)
		},
	}
}

// chooseArticle fetches the feed and picks the article named by --title or
// by the user. A feed that broke off mid-document still offers the articles
// decoded before the error.
func chooseArticle(ctx *cli.Context, eng *engine.Engine, p Prompter) (models.Article, error) {
	url, err := feedArgOrChoice(ctx, eng, p, "Feed:")
	if err != nil {
		return models.Article{}, err
	}

	articles, err := eng.GetArticles(ctx.Context, url)
	if err != nil {
		if len(articles) == 0 {
			return models.Article{}, fmt.Errorf("could not get articles of %s: %w", url, err)
		}
		log.WithFields(log.Fields{
			"feed":     url,
			"articles": len(articles),
			"error":    err,
		}).Warn("Feed was only partly read")
	}
	if len(articles) == 0 {
		return models.Article{}, fmt.Errorf("feed %s has no articles", url)
	}

	title := ctx.String("title")
	if title == "" {
		title, err = p.Choose("Article:", engine.Titles(articles))
		if err != nil {
			return models.Article{}, err
		}
	}

	article, ok := engine.FindArticle(articles, title)
	if !ok {
		return models.Article{}, fmt.Errorf("no article titled %q in %s", title, url)
	}
	return article, nil
}
