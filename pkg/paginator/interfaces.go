package paginator

import (
	"context"

	"isicfetch/pkg/isic"
)

// SearchClient defines the search operations the paginator needs
type SearchClient interface {
	SearchURL(q isic.Query) string
	Search(ctx context.Context, pageURL string) (*isic.SearchPage, error)
}

// ImageFetcher downloads one record to <outputDir>/<name>.jpg
type ImageFetcher interface {
	Fetch(ctx context.Context, record isic.ImageRecord, outputDir, name string) error
}

// Observer is notified as pages are decoded and images are written. With
// concurrent downloads ImageFetched is called from several goroutines.
type Observer interface {
	PageFetched(pageNum int, page *isic.SearchPage)
	ImageFetched(imageNum int, record isic.ImageRecord)
}

type nopObserver struct{}

func (nopObserver) PageFetched(int, *isic.SearchPage)  {}
func (nopObserver) ImageFetched(int, isic.ImageRecord) {}
