package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInbox(t *testing.T) (*LocalInbox, string, string) {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "inbox")
	processed := filepath.Join(root, "processed")

	inbox, err := NewLocalInbox(dir, processed)
	require.NoError(t, err)
	inbox.now = func() time.Time { return time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC) }
	return inbox, dir, processed
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestLocalInbox_List(t *testing.T) {
	inbox, dir, _ := newTestInbox(t)
	writeFile(t, dir, "b.pdf", "%PDF")
	writeFile(t, dir, "a.CSV", "x,y")
	writeFile(t, dir, "notes.txt", "ignored")
	writeFile(t, dir, ".hidden.csv", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.csv"), 0755))

	files, err := inbox.List(context.Background())
	require.NoError(t, err)

	require.Len(t, files, 2)
	assert.Equal(t, "a.CSV", files[0].Name)
	assert.Equal(t, int64(3), files[0].Size)
	assert.Equal(t, "b.pdf", files[1].Name)
}

func TestLocalInbox_Read(t *testing.T) {
	inbox, dir, _ := newTestInbox(t)
	writeFile(t, dir, "monzo.csv", "content")

	data, err := inbox.Read(context.Background(), "monzo.csv")
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))

	_, err = inbox.Read(context.Background(), "missing.csv")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = inbox.Read(context.Background(), "../monzo.csv")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalInbox_MarkProcessed(t *testing.T) {
	inbox, dir, processed := newTestInbox(t)
	writeFile(t, dir, "monzo.csv", "content")

	err := inbox.MarkProcessed(context.Background(), "monzo.csv", Receipt{Format: "monzo-csv", Records: 3, Inserted: 3})
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "monzo.csv"))
	assert.True(t, os.IsNotExist(err))

	stored := "20240301T093000_monzo.csv"
	_, err = os.Stat(filepath.Join(processed, stored))
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(processed, ".meta", stored+".json"))
	require.NoError(t, err)
	var receipt Receipt
	require.NoError(t, json.Unmarshal(raw, &receipt))
	assert.Equal(t, "monzo.csv", receipt.File)
	assert.Equal(t, "monzo-csv", receipt.Format)
	assert.Equal(t, 3, receipt.Inserted)
	assert.False(t, receipt.ProcessedAt.IsZero())

	files, err := inbox.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, files)

	err = inbox.MarkProcessed(context.Background(), "monzo.csv", Receipt{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "a_b_c.csv", sanitizeFilename("a/b:c.csv"))
	assert.Equal(t, "_pdf", sanitizeFilename("..pdf"))
}
