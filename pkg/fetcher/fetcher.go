// Package fetcher downloads a single image record to disk.
package fetcher

import (
	"context"
	"fmt"

	errs "isicfetch/pkg/errors"
	"isicfetch/pkg/isic"
	"isicfetch/pkg/logger"
	"isicfetch/pkg/storage"
)

// ImageDownloader retrieves the raw bytes behind an image URL
type ImageDownloader interface {
	DownloadImage(ctx context.Context, url string) ([]byte, error)
}

// Fetcher resolves a record's full-resolution URL, downloads it and
// writes it to the output directory
type Fetcher struct {
	client ImageDownloader
	logger logger.Logger
}

// New creates a fetcher
func New(client ImageDownloader, log logger.Logger) *Fetcher {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Fetcher{
		client: client,
		logger: log.WithField("component", "fetcher"),
	}
}

// Fetch downloads record's urls.full and writes it to <outputDir>/<name>.jpg.
// The body is read completely before the file is opened.
func (f *Fetcher) Fetch(ctx context.Context, record isic.ImageRecord, outputDir, name string) error {
	imageURL, ok := record.FullURL()
	if !ok {
		err := errs.New(errs.ErrorTypeParsing, 0, "record %s has no full image URL", record.ISICID)
		f.logger.WithError(err).Error("Cannot fetch image")
		return err
	}

	data, err := f.client.DownloadImage(ctx, imageURL)
	if err != nil {
		logger.LogDownload(f.logger, record.ISICID, imageURL, 0, err)
		return fmt.Errorf("downloading %s: %w", record.ISICID, err)
	}

	store := storage.NewManager(outputDir)
	path, err := store.SaveImage(data, name)
	if err != nil {
		logger.LogDownload(f.logger, record.ISICID, store.Path(name), len(data), err)
		return fmt.Errorf("saving %s: %w", record.ISICID, err)
	}

	logger.LogDownload(f.logger, record.ISICID, path, len(data), nil)
	return nil
}
