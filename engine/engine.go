package engine

import (
	"context"

	"rssreader/feeds"
	"rssreader/models"
	"rssreader/store"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

// FeedStore is the persisted list of feed URLs
type FeedStore interface {
	List() ([]string, error)
	Add(id string) (store.AddResult, error)
	Remove(id string) error
}

// ArticleSource opens article streams for a feed URL
type ArticleSource interface {
	Decode(ctx context.Context, url string) (*feeds.Stream, error)
}

// Engine composes the feed list and the decoder into the reader's
// operations. It keeps no state of its own.
type Engine struct {
	feeds  FeedStore
	source ArticleSource
}

func New(feedStore FeedStore, source ArticleSource) *Engine {
	return &Engine{
		feeds:  feedStore,
		source: source,
	}
}

func (e *Engine) ListFeeds() ([]string, error) {
	return e.feeds.List()
}

func (e *Engine) AddFeed(url string) (store.AddResult, error) {
	return e.feeds.Add(url)
}

// RemoveFeed removes url from the store. Removing a feed that is not stored
// succeeds.
func (e *Engine) RemoveFeed(url string) error {
	return e.feeds.Remove(url)
}

// ListArticles decodes url and hands each article to fn as soon as it is
// decoded. It returns the number of articles handed over. A decode error
// stops the listing after the articles that were already delivered.
func (e *Engine) ListArticles(ctx context.Context, url string, fn func(models.Article) error) (int, error) {
	stream, err := e.source.Decode(ctx, store.Normalize(url))
	if err != nil {
		return 0, err
	}
	defer stream.Close()

	count := 0
	for article, err := range stream.All() {
		if err != nil {
			return count, err
		}
		if err := fn(article); err != nil {
			return count, err
		}
		count++
	}

	log.WithFields(log.Fields{
		"feed":     stream.URL(),
		"articles": count,
	}).Debug("Listed articles")

	return count, nil
}

// GetArticles decodes the whole feed. On a decode error the articles read
// before it are returned together with the error.
func (e *Engine) GetArticles(ctx context.Context, url string) ([]models.Article, error) {
	articles := []models.Article{}
	_, err := e.ListArticles(ctx, url, func(a models.Article) error {
		articles = append(articles, a)
		return nil
	})
	return articles, err
}

// FindArticle returns the first article with the given title
func FindArticle(articles []models.Article, title string) (models.Article, bool) {
	return lo.Find(articles, func(a models.Article) bool {
		return a.Title == title
	})
}

// Titles returns article titles in document order
func Titles(articles []models.Article) []string {
	return lo.Map(articles, func(a models.Article, _ int) string {
		return a.Title
	})
}
