// Package storage writes downloaded images to the output directory.
//
// Images are stored flat as <dir>/<name>.jpg. Writes truncate any existing
// file of the same name, so saving the same record twice leaves one file
// holding the latest bytes. The manager never creates the output directory
// on its own; callers that want that call EnsureDir first.
package storage
