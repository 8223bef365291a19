package logger

import (
	"context"

	"github.com/rs/zerolog"
)

// LogPage logs a fetched search page
func LogPage(log Logger, pageNum, results int, hasNext bool) {
	log.InfoWithFields("Search page fetched", map[string]interface{}{
		"page":     pageNum,
		"results":  results,
		"has_next": hasNext,
	})
}

// LogDownload logs the outcome of one image download
func LogDownload(log Logger, isicID, path string, size int, err error) {
	fields := map[string]interface{}{
		"isic_id": isicID,
		"path":    path,
		"size":    size,
	}

	if err != nil {
		log.WithFields(fields).WithError(err).Error("Download failed")
		return
	}
	log.DebugWithFields("Download completed", fields)
}

// LogComponentStart logs when a component starts
func LogComponentStart(log Logger, component string, config map[string]interface{}) {
	l := log.WithField("component", component)
	if len(config) > 0 {
		l = l.WithFields(config)
	}
	l.Info("Component started")
}

// NewNopLogger creates a no-operation logger
func NewNopLogger() Logger {
	return &nopLogger{}
}

type nopLogger struct{}

func (n *nopLogger) Debug(msg string)                                          {}
func (n *nopLogger) Info(msg string)                                           {}
func (n *nopLogger) Warn(msg string)                                           {}
func (n *nopLogger) Error(msg string)                                          {}
func (n *nopLogger) WithField(key string, value interface{}) Logger            { return n }
func (n *nopLogger) WithFields(fields map[string]interface{}) Logger           { return n }
func (n *nopLogger) WithError(err error) Logger                                { return n }
func (n *nopLogger) WithContext(ctx context.Context) Logger                    { return n }
func (n *nopLogger) DebugWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) InfoWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) WarnWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) ErrorWithFields(msg string, fields map[string]interface{}) {}

func (n *nopLogger) GetZerolog() *zerolog.Logger {
	nop := zerolog.Nop()
	return &nop
}
