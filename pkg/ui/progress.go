package ui

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"

	"isicfetch/pkg/isic"
)

// StatusTracker counts pages and images of a run
type StatusTracker struct {
	mu              sync.Mutex
	pages           int
	totalDownloaded int
	startTime       time.Time
}

// NewStatusTracker creates a new status tracker
func NewStatusTracker() *StatusTracker {
	return &StatusTracker{
		startTime: time.Now(),
	}
}

// AddPage records one decoded search page
func (st *StatusTracker) AddPage() {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.pages++
}

// IncrementDownloaded records one written image
func (st *StatusTracker) IncrementDownloaded() {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.totalDownloaded++
}

// GetDownloadedCount returns the number of written images
func (st *StatusTracker) GetDownloadedCount() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.totalDownloaded
}

// GetPageCount returns the number of decoded pages
func (st *StatusTracker) GetPageCount() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.pages
}

// GetElapsedTime returns the elapsed time since tracking started
func (st *StatusTracker) GetElapsedTime() time.Duration {
	return time.Since(st.startTime)
}

// GetDownloadRate returns the average download rate (images per minute)
func (st *StatusTracker) GetDownloadRate() float64 {
	elapsed := st.GetElapsedTime().Minutes()
	if elapsed == 0 {
		return 0
	}
	return float64(st.GetDownloadedCount()) / elapsed
}

// Summary formats the run totals for the final report
func (st *StatusTracker) Summary() string {
	st.mu.Lock()
	pages, images := st.pages, st.totalDownloaded
	st.mu.Unlock()

	return fmt.Sprintf("%d images from %d pages in %s",
		images, pages, st.GetElapsedTime().Round(time.Millisecond))
}

// ProgressReporter renders a progress bar for a paginated run. It receives
// page and image notifications from the paginator and is safe for
// concurrent use.
type ProgressReporter struct {
	mu          sync.Mutex
	bar         *progressbar.ProgressBar
	out         io.Writer
	description string
	offset      int
	limit       *int
	tracker     *StatusTracker
}

// NewProgressReporter creates a reporter writing to out. offset and limit
// are those of the request so the bar length matches the records that will
// actually be processed.
func NewProgressReporter(out io.Writer, description string, offset int, limit *int) *ProgressReporter {
	return &ProgressReporter{
		out:         out,
		description: description,
		offset:      offset,
		limit:       limit,
		tracker:     NewStatusTracker(),
	}
}

// expected returns the bar length for a search reporting count matches,
// or -1 when unknown
func (p *ProgressReporter) expected(count int) int {
	if count <= 0 {
		if p.limit != nil {
			return *p.limit
		}
		return -1
	}

	n := count - p.offset
	if n < 0 {
		n = 0
	}
	if p.limit != nil && *p.limit < n {
		n = *p.limit
	}
	return n
}

// PageFetched creates the bar on the first page
func (p *ProgressReporter) PageFetched(pageNum int, page *isic.SearchPage) {
	p.tracker.AddPage()

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar != nil {
		return
	}

	p.bar = progressbar.NewOptions(p.expected(page.Count),
		progressbar.OptionSetWriter(p.out),
		progressbar.OptionSetDescription(p.description),
		progressbar.OptionShowCount(),
		progressbar.OptionSetItsString("img"),
		progressbar.OptionShowIts(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(p.out)
		}),
	)
}

// ImageFetched advances the bar by one
func (p *ProgressReporter) ImageFetched(imageNum int, record isic.ImageRecord) {
	p.tracker.IncrementDownloaded()

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar != nil {
		p.bar.Add(1)
	}
}

// Finish completes the bar
func (p *ProgressReporter) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar != nil {
		p.bar.Finish()
	}
}

// Tracker returns the counters behind the bar
func (p *ProgressReporter) Tracker() *StatusTracker {
	return p.tracker
}
