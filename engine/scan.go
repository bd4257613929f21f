package engine

import (
	"context"
	"sync"

	"rssreader/models"

	log "github.com/sirupsen/logrus"
)

const DefaultWorkers = 4

type scanJob struct {
	index int
	feed  string
}

// scanner decodes queued feeds with a fixed number of workers. Every worker
// writes only the result slots of the jobs it took.
type scanner struct {
	engine      *Engine
	maxWorkers  int
	workerQueue chan scanJob
	results     []models.ScanResult
	wg          sync.WaitGroup
	ctx         context.Context
}

// Scan decodes every stored feed, at most workers at a time. Results are in
// file order and each feed's articles are in document order. A failing feed
// is reported in its result and does not stop the others.
func (e *Engine) Scan(ctx context.Context, workers int) ([]models.ScanResult, error) {
	ids, err := e.feeds.List()
	if err != nil {
		return nil, err
	}

	if workers < 1 {
		workers = DefaultWorkers
	}
	workers = min(workers, len(ids))

	s := &scanner{
		engine:      e,
		maxWorkers:  workers,
		workerQueue: make(chan scanJob),
		results:     make([]models.ScanResult, len(ids)),
		ctx:         ctx,
	}

	s.start()
	for i, id := range ids {
		s.workerQueue <- scanJob{index: i, feed: id}
	}
	close(s.workerQueue)
	s.wg.Wait()

	return s.results, nil
}

func (s *scanner) start() {
	for i := 0; i < s.maxWorkers; i++ {
		s.wg.Add(1)
		go s.startWorker(i)
	}
}

func (s *scanner) startWorker(id int) {
	defer s.wg.Done()

	for job := range s.workerQueue {
		result := models.ScanResult{Feed: job.feed}

		if err := s.ctx.Err(); err != nil {
			result.Err = err
			s.results[job.index] = result
			continue
		}

		result.Articles, result.Err = s.engine.GetArticles(s.ctx, job.feed)
		if result.Err != nil {
			log.WithFields(log.Fields{
				"worker": id,
				"feed":   job.feed,
				"error":  result.Err,
			}).Warn("Scan of feed failed")
		}
		s.results[job.index] = result
	}
}
