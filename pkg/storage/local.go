package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// statementExtensions are the file types the importer understands.
var statementExtensions = map[string]struct{}{
	".csv":  {},
	".xlsx": {},
	".pdf":  {},
}

// LocalInbox implements the inbox on the local filesystem. Pending files sit
// directly in dir; processed ones are moved to processedDir together with a
// JSON receipt under processedDir/.meta.
type LocalInbox struct {
	dir          string
	processedDir string
	now          func() time.Time
}

// NewLocalInbox creates both directories when missing.
func NewLocalInbox(dir, processedDir string) (*LocalInbox, error) {
	for _, d := range []string{dir, processedDir} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return nil, fmt.Errorf("failed to create inbox directory: %w", err)
		}
	}
	return &LocalInbox{dir: dir, processedDir: processedDir, now: time.Now}, nil
}

// List returns pending statement files sorted by name. Hidden files and files
// with other extensions are ignored.
func (s *LocalInbox) List(ctx context.Context) ([]FileInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list inbox: %w", err)
	}

	files := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if _, ok := statementExtensions[strings.ToLower(filepath.Ext(entry.Name()))]; !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// Read returns the content of a pending file.
func (s *LocalInbox) Read(ctx context.Context, name string) ([]byte, error) {
	path, err := s.pendingPath(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

// MarkProcessed moves a pending file out of the inbox and writes its receipt.
// The stored name is prefixed with the processing time so a re-exported file
// with the same name never overwrites an earlier one.
func (s *LocalInbox) MarkProcessed(ctx context.Context, name string, receipt Receipt) error {
	src, err := s.pendingPath(name)
	if err != nil {
		return err
	}

	now := s.now().UTC()
	stored := fmt.Sprintf("%s_%s", now.Format("20060102T150405"), sanitizeFilename(name))
	if err := os.Rename(src, filepath.Join(s.processedDir, stored)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return fmt.Errorf("failed to move processed file: %w", err)
	}

	receipt.File = name
	if receipt.ProcessedAt.IsZero() {
		receipt.ProcessedAt = now
	}
	return s.saveReceipt(stored, receipt)
}

func (s *LocalInbox) pendingPath(name string) (string, error) {
	if name == "" || name != filepath.Base(name) {
		return "", fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return filepath.Join(s.dir, name), nil
}

// saveReceipt saves the receipt to a JSON file
func (s *LocalInbox) saveReceipt(stored string, receipt Receipt) error {
	metaDir := filepath.Join(s.processedDir, ".meta")
	if err := os.MkdirAll(metaDir, 0755); err != nil {
		return fmt.Errorf("failed to create metadata directory: %w", err)
	}

	data, err := json.MarshalIndent(receipt, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal receipt: %w", err)
	}

	if err := os.WriteFile(filepath.Join(metaDir, stored+".json"), data, 0644); err != nil {
		return fmt.Errorf("failed to write receipt: %w", err)
	}

	return nil
}

// sanitizeFilename removes unsafe characters from filenames
func sanitizeFilename(name string) string {
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		"..", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
	)
	return replacer.Replace(name)
}
