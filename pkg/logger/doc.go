// Package logger provides the structured logging interface used across isicfetch.
//
// It wraps zerolog. Output goes to stderr: a colored console format when
// stderr is a terminal (or format is "text"), JSON lines otherwise. An optional
// log file receives the same events.
//
// Basic Usage:
//
//	err := logger.Initialize(&cfg.Logging)
//
//	log := logger.GetLogger()
//	log.Info("starting")
//	log.WithField("isic_id", "ISIC_0000000").Debug("saved")
//
// Components take a Logger in their constructors; tests pass
// logger.NewTestLogger() to assert on what was logged, or logger.NewNopLogger().
package logger
