package ui

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"isicfetch/pkg/isic"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int {
	return &n
}

func TestProgressReporterExpected(t *testing.T) {
	tests := []struct {
		name   string
		offset int
		limit  *int
		count  int
		want   int
	}{
		{"all matches", 0, nil, 120, 120},
		{"offset subtracts", 20, nil, 120, 100},
		{"limit caps", 0, intPtr(10), 120, 10},
		{"limit above remaining", 100, intPtr(50), 120, 20},
		{"offset past end", 200, nil, 120, 0},
		{"unknown count", 0, nil, 0, -1},
		{"unknown count with limit", 0, intPtr(7), 0, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProgressReporter(&bytes.Buffer{}, "test", tt.offset, tt.limit)
			assert.Equal(t, tt.want, p.expected(tt.count))
		})
	}
}

func TestProgressReporter(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressReporter(&buf, "melanoma", 0, nil)

	p.PageFetched(1, &isic.SearchPage{Count: 3, Results: make([]isic.ImageRecord, 2)})
	p.ImageFetched(1, isic.ImageRecord{ISICID: "ISIC_0000001"})
	p.ImageFetched(2, isic.ImageRecord{ISICID: "ISIC_0000002"})
	p.PageFetched(2, &isic.SearchPage{Count: 3, Results: make([]isic.ImageRecord, 1)})
	p.ImageFetched(3, isic.ImageRecord{ISICID: "ISIC_0000003"})
	p.Finish()

	assert.Equal(t, 3, p.Tracker().GetDownloadedCount())
	assert.Equal(t, 2, p.Tracker().GetPageCount())
	assert.Contains(t, buf.String(), "melanoma")
	assert.Contains(t, p.Tracker().Summary(), "3 images from 2 pages")
}

func TestStatusTrackerDownloadRate(t *testing.T) {
	st := NewStatusTracker()
	st.startTime = time.Now().Add(-2 * time.Minute)
	for i := 0; i < 10; i++ {
		st.IncrementDownloaded()
	}

	assert.InDelta(t, 5.0, st.GetDownloadRate(), 0.1)
}

func TestProgressReporterConcurrent(t *testing.T) {
	p := NewProgressReporter(&bytes.Buffer{}, "concurrent", 0, intPtr(40))
	p.PageFetched(1, &isic.SearchPage{Count: 100})

	var wg sync.WaitGroup
	for i := 1; i <= 40; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			p.ImageFetched(n, isic.ImageRecord{})
		}(i)
	}
	wg.Wait()
	p.Finish()

	require.Equal(t, 40, p.Tracker().GetDownloadedCount())
}

func TestProgressReporterFinishWithoutPages(t *testing.T) {
	p := NewProgressReporter(&bytes.Buffer{}, "empty", 0, nil)
	assert.NotPanics(t, p.Finish)
	assert.Equal(t, 0, p.Tracker().GetDownloadedCount())
}
