// Package storage gives safe access to the inbox directory that Markdown
// documents are dropped into for import.
package storage

import "time"

// FailedDir is the subdirectory documents that could not be imported are moved to.
// List never descends into it.
const FailedDir = "failed"

// Entry describes one Markdown document waiting in the inbox.
type Entry struct {
	Path    string    // relative to the inbox root
	Size    int64
	ModTime time.Time
}

// Provider is the interface for inbox file operations.
type Provider interface {
	// List returns every .md file under the root, oldest first.
	List() ([]Entry, error)
	// Read returns the raw bytes of the file at path (relative to root).
	Read(path string) ([]byte, error)
	// Write atomically writes content to path (relative to root).
	Write(path string, content []byte) error
	// Delete removes the file at path (relative to root).
	Delete(path string) error
	// Move renames oldPath to newPath (both relative to root).
	Move(oldPath, newPath string) error
}
