package store

import (
	"strings"
	"sync"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

// Backend is the raw line storage behind a FeedList
type Backend interface {
	ReadAll() ([]byte, error)
	AppendLine(line string) error
	RewriteAll(lines []string) error
}

type AddResult int

const (
	Added AddResult = iota
	AlreadyExists
)

func (r AddResult) String() string {
	switch r {
	case Added:
		return "added"
	case AlreadyExists:
		return "already exists"
	default:
		return "unknown"
	}
}

// FeedList turns the raw store into an ordered, deduplicated list of feed
// identifiers. Every call reads a fresh snapshot of the store. Add and Remove
// run their read-modify-write under a single lock.
type FeedList struct {
	mu      sync.Mutex
	backend Backend
}

func NewFeedList(backend Backend) *FeedList {
	return &FeedList{backend: backend}
}

// Normalize trims surrounding whitespace from an identifier
func Normalize(id string) string {
	return strings.TrimSpace(id)
}

// ParseFeedList splits raw store contents into identifiers in file order.
// Blank lines are dropped and repeated entries keep their first position.
func ParseFeedList(data []byte) []string {
	lines := strings.Split(string(data), "\n")
	ids := lo.FilterMap(lines, func(line string, _ int) (string, bool) {
		id := Normalize(line)
		return id, id != ""
	})
	return lo.Uniq(ids)
}

// List returns the stored identifiers. An empty or missing store yields an
// empty list.
func (l *FeedList) List() ([]string, error) {
	data, err := l.backend.ReadAll()
	if err != nil {
		return nil, err
	}
	return ParseFeedList(data), nil
}

// Add appends id unless an equal identifier is already stored
func (l *FeedList) Add(id string) (AddResult, error) {
	id = Normalize(id)
	if id == "" {
		return 0, ErrInvalidIdentifier
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	feeds, err := l.List()
	if err != nil {
		return 0, err
	}

	if lo.Contains(feeds, id) {
		log.WithFields(log.Fields{
			"feed": id,
		}).Debug("Feed already stored")
		return AlreadyExists, nil
	}

	if err := l.backend.AppendLine(id); err != nil {
		return 0, err
	}

	log.WithFields(log.Fields{
		"feed":  id,
		"count": len(feeds) + 1,
	}).Info("Feed stored")

	return Added, nil
}

// Remove rewrites the store without id. Removing an identifier that is not
// stored is not an error.
func (l *FeedList) Remove(id string) error {
	id = Normalize(id)
	if id == "" {
		return ErrInvalidIdentifier
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	feeds, err := l.List()
	if err != nil {
		return err
	}

	remaining := lo.Without(feeds, id)
	if err := l.backend.RewriteAll(remaining); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"feed":    id,
		"removed": len(feeds) - len(remaining),
	}).Info("Feed list rewritten")

	return nil
}
