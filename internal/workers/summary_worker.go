// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"

	"github.com/MKhiriev/vaultscribe/internal/logger"
)

// SummaryWorker drains job ids from a queue and hands each to a processor.
type SummaryWorker struct {
	id        int
	queue     <-chan string
	processor JobProcessor
	logger    *logger.Logger
}

func NewSummaryWorker(id int, queue <-chan string, processor JobProcessor, logger *logger.Logger) *SummaryWorker {
	return &SummaryWorker{id: id, queue: queue, processor: processor, logger: logger}
}

// NewSummaryWorkers builds a pool of n workers sharing queue.
func NewSummaryWorkers(n int, queue <-chan string, processor JobProcessor, logger *logger.Logger) *Workers {
	ws := make([]Worker, 0, n)
	for i := range n {
		ws = append(ws, NewSummaryWorker(i+1, queue, processor, logger))
	}
	return NewWorkers(ws...)
}

// Run returns when ctx is cancelled or the queue is closed.
func (w *SummaryWorker) Run(ctx context.Context) {
	w.logger.Debug().Int("worker", w.id).Msg("summary worker started")
	defer w.logger.Debug().Int("worker", w.id).Msg("summary worker stopped")

	for {
		select {
		case <-ctx.Done():
			return
		case id, ok := <-w.queue:
			if !ok {
				return
			}
			w.process(ctx, id)
		}
	}
}

func (w *SummaryWorker) process(ctx context.Context, id string) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error().Int("worker", w.id).Str("job", id).Any("panic", r).Msg("summary job panicked")
		}
	}()

	w.processor.Process(ctx, id)
}
