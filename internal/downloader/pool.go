package downloader

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"isicfetch/pkg/isic"
	"isicfetch/pkg/logger"
)

// DownloadJob represents a single download task
type DownloadJob struct {
	Record    isic.ImageRecord
	OutputDir string
	Name      string
	ImageNum  int
}

// ImageFetcher downloads one record to disk
type ImageFetcher interface {
	Fetch(ctx context.Context, record isic.ImageRecord, outputDir, name string) error
}

// WorkerPool runs download jobs with bounded parallelism. The first failing
// job cancels the pool context; jobs that have not started are skipped.
type WorkerPool struct {
	group   *errgroup.Group
	ctx     context.Context
	fetcher ImageFetcher
	logger  logger.Logger
	onDone  func(DownloadJob)

	submitted int64
	completed int64
}

// NewWorkerPool creates a pool running at most numWorkers jobs at once
func NewWorkerPool(ctx context.Context, numWorkers int, fetcher ImageFetcher, log logger.Logger) *WorkerPool {
	if log == nil {
		log = logger.GetLogger()
	}
	if numWorkers < 1 {
		numWorkers = 1
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(numWorkers)

	log.DebugWithFields("Starting worker pool", map[string]interface{}{
		"num_workers": numWorkers,
	})

	return &WorkerPool{
		group:   group,
		ctx:     groupCtx,
		fetcher: fetcher,
		logger:  log,
	}
}

// OnComplete registers a callback invoked after each successful job. It may
// be called from several goroutines at once.
func (wp *WorkerPool) OnComplete(fn func(DownloadJob)) {
	wp.onDone = fn
}

// Submit queues job, blocking while all workers are busy. It returns the
// pool's error once a job has failed or the parent context is done.
func (wp *WorkerPool) Submit(job DownloadJob) error {
	if err := wp.ctx.Err(); err != nil {
		return fmt.Errorf("worker pool is shutting down: %w", err)
	}

	atomic.AddInt64(&wp.submitted, 1)
	wp.group.Go(func() error {
		return wp.processJob(job)
	})

	wp.logger.DebugWithFields("Job submitted to pool", map[string]interface{}{
		"isic_id":   job.Record.ISICID,
		"image_num": job.ImageNum,
	})
	return nil
}

// Wait blocks until every submitted job has finished and returns the
// first error any of them produced
func (wp *WorkerPool) Wait() error {
	err := wp.group.Wait()
	wp.logger.DebugWithFields("Worker pool stopped", map[string]interface{}{
		"submitted": atomic.LoadInt64(&wp.submitted),
		"completed": atomic.LoadInt64(&wp.completed),
	})
	return err
}

func (wp *WorkerPool) processJob(job DownloadJob) error {
	if err := wp.ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	if err := wp.fetcher.Fetch(wp.ctx, job.Record, job.OutputDir, job.Name); err != nil {
		wp.logger.ErrorWithFields("Worker failed to fetch image", map[string]interface{}{
			"isic_id":  job.Record.ISICID,
			"error":    err.Error(),
			"duration": time.Since(start),
		})
		return err
	}

	atomic.AddInt64(&wp.completed, 1)
	if wp.onDone != nil {
		wp.onDone(job)
	}
	return nil
}

// GetCompleted returns the number of jobs that finished successfully
func (wp *WorkerPool) GetCompleted() int {
	return int(atomic.LoadInt64(&wp.completed))
}
