// Package storage provides the statement inbox: a place where exported
// statement files wait to be imported and are moved once they have been.
package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a named file is not pending in the inbox.
var ErrNotFound = errors.New("file not found in inbox")

// FileInfo contains metadata about a pending file
type FileInfo struct {
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

// Receipt is stored next to a processed file and records what the import
// made of it.
type Receipt struct {
	File        string    `json:"file"`
	Format      string    `json:"format"`
	Records     int       `json:"records"`
	Diagnostics int       `json:"diagnostics"`
	Dropped     int       `json:"dropped"`
	Inserted    int       `json:"inserted"`
	Updated     int       `json:"updated"`
	ProcessedAt time.Time `json:"processed_at"`
}
