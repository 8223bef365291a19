package paginator

import (
	"context"
	"fmt"

	"isicfetch/internal/downloader"
	"isicfetch/pkg/config"
	errs "isicfetch/pkg/errors"
	"isicfetch/pkg/fetcher"
	"isicfetch/pkg/isic"
	"isicfetch/pkg/logger"
)

// Request describes one paginated download run
type Request struct {
	OutputDir string
	Offset    int
	// Limit caps the number of records processed; nil means no cap
	Limit     *int
	Diagnosis string
	PageSize  int
}

// Limit returns a pointer to n for use as Request.Limit
func Limit(n int) *int {
	return &n
}

// Paginator drives the search cursor and the image fetcher
type Paginator struct {
	client      SearchClient
	fetcher     ImageFetcher
	observer    Observer
	concurrency int
	logger      logger.Logger
}

// Option configures a Paginator
type Option func(*Paginator)

// WithObserver sets the progress observer
func WithObserver(o Observer) Option {
	return func(p *Paginator) {
		if o != nil {
			p.observer = o
		}
	}
}

// WithConcurrency sets how many images may download at once. Values
// below 2 keep downloads strictly sequential and in server order.
func WithConcurrency(n int) Option {
	return func(p *Paginator) {
		p.concurrency = n
	}
}

// WithLogger sets the logger
func WithLogger(log logger.Logger) Option {
	return func(p *Paginator) {
		if log != nil {
			p.logger = log
		}
	}
}

// New creates a paginator over client that downloads through f
func New(client SearchClient, f ImageFetcher, opts ...Option) *Paginator {
	p := &Paginator{
		client:      client,
		fetcher:     f,
		observer:    nopObserver{},
		concurrency: 1,
		logger:      logger.GetLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.WithField("component", "paginator")
	return p
}

// NewFromConfig wires an ISIC client and an image fetcher from cfg
func NewFromConfig(cfg *config.Config, log logger.Logger, opts ...Option) *Paginator {
	if log == nil {
		log = logger.GetLogger()
	}

	client := isic.NewClient(cfg.ISIC.BaseURL, cfg.Download.Timeout, log)
	if cfg.ISIC.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.ISIC.UserAgent)
	}

	opts = append([]Option{
		WithLogger(log),
		WithConcurrency(cfg.Download.ConcurrentDownloads),
	}, opts...)
	return New(client, fetcher.New(client, log), opts...)
}

// RequestFromConfig builds a Request from the query and output sections of cfg
func RequestFromConfig(cfg *config.Config) Request {
	return Request{
		OutputDir: cfg.Output.Directory,
		Offset:    cfg.Query.Offset,
		Limit:     cfg.Query.Limit,
		Diagnosis: cfg.Query.Diagnosis,
		PageSize:  cfg.Query.PageSize,
	}
}

// Fetch walks the search results for req and downloads every record until
// the limit is reached, a page is empty, or the server returns no next
// cursor. It returns req.Offset plus the number of records processed. On
// error it returns 0 and the error; files written before the failure
// are kept.
func (p *Paginator) Fetch(ctx context.Context, req Request) (int, error) {
	if req.Offset < 0 {
		return 0, fmt.Errorf("offset must be non-negative, got %d", req.Offset)
	}
	if req.Limit != nil && *req.Limit < 0 {
		return 0, fmt.Errorf("limit must be non-negative, got %d", *req.Limit)
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = isic.DefaultPageSize
	}
	if req.Diagnosis == "" {
		p.logger.Warn("No diagnosis filter given, searching for an empty diagnosis")
	}

	fields := map[string]interface{}{
		"diagnosis":  req.Diagnosis,
		"offset":     req.Offset,
		"page_size":  pageSize,
		"output_dir": req.OutputDir,
	}
	if req.Limit != nil {
		fields["limit"] = *req.Limit
	}
	logger.LogComponentStart(p.logger, "paginator", fields)

	r := &run{
		Paginator: p,
		req:       req,
		imageNum:  req.Offset,
	}
	if p.concurrency > 1 {
		r.pool = downloader.NewWorkerPool(ctx, p.concurrency, p.fetcher, p.logger)
		r.pool.OnComplete(func(job downloader.DownloadJob) {
			p.observer.ImageFetched(job.ImageNum, job.Record)
		})
	}

	err := r.walk(ctx, pageSize)
	if r.pool != nil {
		// a failed job is the root cause of any later submit error
		if waitErr := r.pool.Wait(); waitErr != nil {
			err = fmt.Errorf("fetching image: %w", waitErr)
		}
	}
	if err != nil {
		p.logger.WithError(err).WithField("image_num", r.imageNum).Error("Fetch aborted")
		return 0, err
	}

	summary := map[string]interface{}{
		"pages":     r.pageNum,
		"processed": r.count,
		"image_num": r.imageNum,
	}
	if r.pool != nil {
		summary["downloaded"] = r.pool.GetCompleted()
	}
	p.logger.InfoWithFields("Fetch completed", summary)
	return r.imageNum, nil
}

// run holds the bookkeeping of a single Fetch call
type run struct {
	*Paginator
	req      Request
	pool     *downloader.WorkerPool
	count    int
	imageNum int
	pageNum  int
}

func (r *run) limitReached() bool {
	return r.req.Limit != nil && r.count >= *r.req.Limit
}

func (r *run) walk(ctx context.Context, pageSize int) error {
	offset := r.req.Offset
	pageURL := r.client.SearchURL(isic.Query{
		Diagnosis: r.req.Diagnosis,
		Offset:    offset,
		PageSize:  pageSize,
	})

	for {
		page, err := r.client.Search(ctx, pageURL)
		if err != nil {
			return fmt.Errorf("fetching search page %d: %w", r.pageNum+1, err)
		}
		r.pageNum++

		next, hasNext := page.NextURL()
		logger.LogPage(r.logger, r.pageNum, len(page.Results), hasNext)
		r.observer.PageFetched(r.pageNum, page)

		for _, record := range page.Results {
			if r.limitReached() {
				break
			}
			if err := r.process(ctx, record); err != nil {
				return err
			}
		}

		if r.limitReached() || len(page.Results) == 0 || !hasNext {
			return nil
		}

		offset += pageSize
		r.logger.DebugWithFields("Following next cursor", map[string]interface{}{
			"offset": offset,
			"next":   next,
		})
		pageURL = next
	}
}

func (r *run) process(ctx context.Context, record isic.ImageRecord) error {
	r.count++
	r.imageNum++

	if r.pool != nil {
		if err := r.pool.Submit(downloader.DownloadJob{
			Record:    record,
			OutputDir: r.req.OutputDir,
			Name:      record.ISICID,
			ImageNum:  r.imageNum,
		}); err != nil {
			return errs.Wrap(errs.ErrorTypeNetwork, err, "queueing image %d", r.imageNum)
		}
		return nil
	}

	if err := r.fetcher.Fetch(ctx, record, r.req.OutputDir, record.ISICID); err != nil {
		return fmt.Errorf("fetching image %d: %w", r.imageNum, err)
	}
	r.observer.ImageFetched(r.imageNum, record)
	return nil
}
