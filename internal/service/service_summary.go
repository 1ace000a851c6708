// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/vaultscribe/internal/adapter"
	"github.com/MKhiriev/vaultscribe/internal/config"
	"github.com/MKhiriev/vaultscribe/internal/logger"
	"github.com/MKhiriev/vaultscribe/internal/utils"
	"github.com/MKhiriev/vaultscribe/internal/workers"
	"github.com/MKhiriev/vaultscribe/models"
)

// summaryRetention is how long finished jobs stay queryable.
const summaryRetention = time.Hour

type summaryEntry struct {
	job  models.SummaryJob
	done chan struct{}
}

// summaryService keeps jobs in memory and feeds their ids to a worker pool.
type summaryService struct {
	transcriber adapter.Transcriber
	summarizer  adapter.Summarizer
	ids         *utils.UUIDGenerator

	queue chan string
	pool  *workers.Workers

	mu   sync.RWMutex
	jobs map[string]*summaryEntry

	runMu  sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup

	now    func() time.Time
	logger *logger.Logger
}

// NewSummaryService builds a SummaryService with cfg.SummaryWorkers workers
// over a queue of cfg.QueueSize jobs. The pool is idle until Start.
func NewSummaryService(transcriber adapter.Transcriber, summarizer adapter.Summarizer, cfg config.Workers, logger *logger.Logger) SummaryService {
	s := &summaryService{
		transcriber: transcriber,
		summarizer:  summarizer,
		ids:         utils.NewUUIDGenerator(),
		queue:       make(chan string, cfg.QueueSize),
		jobs:        make(map[string]*summaryEntry),
		now:         time.Now,
		logger:      logger,
	}
	s.pool = workers.NewSummaryWorkers(cfg.SummaryWorkers, s.queue, s, logger)

	return s
}

func (s *summaryService) Submit(ctx context.Context, account models.Account, req models.SummaryRequest) (models.SummaryJob, error) {
	hasAudio := strings.TrimSpace(req.AudioPath) != ""
	hasText := strings.TrimSpace(req.Text) != ""
	if hasAudio == hasText {
		return models.SummaryJob{}, ErrInvalidSummaryRequest
	}

	entry := &summaryEntry{
		job: models.SummaryJob{
			ID:        s.ids.Generate(),
			AccountID: account.ID,
			Request:   req,
			Status:    models.SummaryQueued,
			CreatedAt: s.now(),
		},
		done: make(chan struct{}),
	}

	s.mu.Lock()
	s.pruneLocked()
	s.jobs[entry.job.ID] = entry
	s.mu.Unlock()

	select {
	case s.queue <- entry.job.ID:
	default:
		s.mu.Lock()
		delete(s.jobs, entry.job.ID)
		s.mu.Unlock()
		return models.SummaryJob{}, ErrSummaryQueueFull
	}

	logger.FromContext(ctx).Info().
		Str("job", entry.job.ID).
		Int64("account_id", account.ID).
		Bool("audio", hasAudio).
		Msg("summary job queued")

	return entry.job, nil
}

func (s *summaryService) Get(_ context.Context, account models.Account, id string) (models.SummaryJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, err := s.lookupLocked(account, id)
	if err != nil {
		return models.SummaryJob{}, err
	}
	return entry.job, nil
}

func (s *summaryService) Wait(ctx context.Context, account models.Account, id string) (models.SummaryJob, error) {
	s.mu.RLock()
	entry, err := s.lookupLocked(account, id)
	s.mu.RUnlock()
	if err != nil {
		return models.SummaryJob{}, err
	}

	select {
	case <-entry.done:
	case <-ctx.Done():
		return models.SummaryJob{}, ctx.Err()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return entry.job, nil
}

// Process runs one job. It is called by the worker pool.
func (s *summaryService) Process(ctx context.Context, id string) {
	s.mu.Lock()
	entry, ok := s.jobs[id]
	if !ok {
		s.mu.Unlock()
		return
	}
	entry.job.Status = models.SummaryRunning
	req := entry.job.Request
	s.mu.Unlock()

	log := s.logger.With().Str("job", id).Logger()

	transcript, summary, err := s.run(ctx, req)

	s.mu.Lock()
	entry.job.Transcript = transcript
	entry.job.Summary = summary
	entry.job.FinishedAt = s.now()
	if err != nil {
		entry.job.Status = models.SummaryFailed
		entry.job.Error = err.Error()
	} else {
		entry.job.Status = models.SummaryDone
	}
	close(entry.done)
	s.mu.Unlock()

	if err != nil {
		log.Err(err).Msg("summary job failed")
		return
	}
	log.Info().Int("summary_len", len(summary)).Msg("summary job done")
}

func (s *summaryService) run(ctx context.Context, req models.SummaryRequest) (string, string, error) {
	text := req.Text
	var transcript string

	if strings.TrimSpace(req.AudioPath) != "" {
		if s.transcriber == nil {
			return "", "", adapter.ErrTranscriberDisabled
		}

		var err error
		transcript, err = s.transcriber.Transcribe(ctx, req.AudioPath)
		if err != nil {
			return "", "", fmt.Errorf("transcription failed: %w", err)
		}
		text = transcript
	}

	summary, err := s.summarizer.Summarize(ctx, text)
	if err != nil {
		return transcript, "", fmt.Errorf("summarization failed: %w", err)
	}

	return transcript, summary, nil
}

func (s *summaryService) Start(ctx context.Context) {
	s.Stop()

	s.runMu.Lock()
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.wg.Add(1)
	s.runMu.Unlock()

	go func() {
		defer s.wg.Done()
		s.pool.Run(runCtx)
	}()

	s.logger.Info().Int("workers", s.pool.Len()).Msg("summary workers started")
}

func (s *summaryService) Stop() {
	s.runMu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.runMu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
}

func (s *summaryService) lookupLocked(account models.Account, id string) (*summaryEntry, error) {
	entry, ok := s.jobs[id]
	if !ok || entry.job.AccountID != account.ID {
		return nil, ErrSummaryNotFound
	}
	return entry, nil
}

func (s *summaryService) pruneLocked() {
	cutoff := s.now().Add(-summaryRetention)
	for id, entry := range s.jobs {
		if entry.job.Finished() && entry.job.FinishedAt.Before(cutoff) {
			delete(s.jobs, id)
		}
	}
}

