package usecase

import (
	"context"
	"hash/fnv"
	"strings"
	"sync"

	"medbot-backend/pkg/logger"
	"medbot-backend/pkg/metrics"

	"github.com/rs/zerolog"
)

// SummaryJob is a transcript queued for background summarization
type SummaryJob struct {
	Email   string
	History string
}

// SummaryRunner is the part of Summarizer the worker drives
type SummaryRunner interface {
	Run(ctx context.Context, history, email string) *Outcome
}

// SummaryWorkerService runs summaries in the background.
// Jobs are sharded by email so one user's jobs run in order on a single worker.
type SummaryWorkerService struct {
	runner   SummaryRunner
	notifier Notifier
	queues   []chan SummaryJob
	workerWg sync.WaitGroup
	started  bool
	stopped  bool
	mu       sync.RWMutex
	log      zerolog.Logger
}

// NewSummaryWorkerService creates a worker pool. queueSize is the total capacity split across workers.
func NewSummaryWorkerService(runner SummaryRunner, workerCount, queueSize int) *SummaryWorkerService {
	if workerCount <= 0 {
		workerCount = 3 // Default to 3 workers
	}
	if queueSize <= 0 {
		queueSize = 500
	}

	perWorker := queueSize / workerCount
	if perWorker == 0 {
		perWorker = 1
	}
	queues := make([]chan SummaryJob, workerCount)
	for i := range queues {
		queues[i] = make(chan SummaryJob, perWorker)
	}

	return &SummaryWorkerService{
		runner: runner,
		queues: queues,
		log:    logger.Component("summary_worker"),
	}
}

// SetNotifier sets who is told when a background summary is stored
func (s *SummaryWorkerService) SetNotifier(n Notifier) {
	s.notifier = n
}

// Start starts the summary workers
func (s *SummaryWorkerService) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started || s.stopped {
		return
	}

	for i, q := range s.queues {
		s.workerWg.Add(1)
		go s.worker(i, q)
	}
	s.started = true
	s.log.Info().Int("workers", len(s.queues)).Msg("started")
}

// Stop rejects new jobs, lets workers drain what is queued and waits for them
func (s *SummaryWorkerService) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	for _, q := range s.queues {
		close(q)
	}
	s.mu.Unlock()

	s.workerWg.Wait()
	s.log.Info().Msg("all workers stopped")
}

func (s *SummaryWorkerService) worker(id int, jobs <-chan SummaryJob) {
	defer s.workerWg.Done()

	for job := range jobs {
		metrics.SummaryQueueDepth.Dec()
		s.processJob(job)
	}

	s.log.Debug().Int("worker", id).Msg("worker stopped")
}

func (s *SummaryWorkerService) processJob(job SummaryJob) {
	ctx := context.Background()

	out := s.runner.Run(ctx, job.History, job.Email)
	if !out.Persisted() {
		return
	}

	if s.notifier == nil || out.Owner == nil {
		return
	}
	if err := s.notifier.SummaryReady(ctx, out.Owner, out.Record); err != nil {
		s.log.Warn().Err(err).Str("email", job.Email).Msg("summary-ready notification failed")
	}
}

func (s *SummaryWorkerService) shard(email string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(strings.TrimSpace(email))))
	return int(h.Sum32() % uint32(len(s.queues)))
}

// QueueJob adds a single job to the queue (non-blocking). It returns false when the shard is full or the service stopped.
func (s *SummaryWorkerService) QueueJob(job SummaryJob) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.stopped {
		return false
	}

	metrics.SummaryQueueDepth.Inc()
	select {
	case s.queues[s.shard(job.Email)] <- job:
		return true
	default:
		metrics.SummaryQueueDepth.Dec()
		return false // Queue full
	}
}
