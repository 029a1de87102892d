// Package source provides the input side of the statement import engine: the
// file contract consumed by the detector and extractors, text decoding, PDF
// page text extraction and table tokenization for CSV and XLSX exports.
package source

import (
	"bytes"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// File is a statement handed to the engine. Name drives extension sniffing;
// Pages returns the per-page plain text of a PDF.
type File interface {
	Name() string
	Bytes() []byte
	Text() (string, error)
	Pages() ([]string, error)
}

// Extension returns the lower-cased file extension without the dot.
func Extension(f File) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(f.Name())), ".")
}

type memFile struct {
	name string
	data []byte

	textOnce sync.Once
	text     string

	pagesOnce sync.Once
	pages     []string
	pagesErr  error
}

// NewFile wraps raw file content. PDF page text is extracted lazily on the
// first call to Pages and cached for the lifetime of the file.
func NewFile(name string, data []byte) File {
	return &memFile{name: name, data: data}
}

func (f *memFile) Name() string  { return f.name }
func (f *memFile) Bytes() []byte { return f.data }

func (f *memFile) Text() (string, error) {
	f.textOnce.Do(func() {
		f.text = string(normalizeText(f.data))
	})
	return f.text, nil
}

func (f *memFile) Pages() ([]string, error) {
	f.pagesOnce.Do(func() {
		f.pages, f.pagesErr = extractPages(f.data)
	})
	return f.pages, f.pagesErr
}

type pagesFile struct {
	name  string
	pages []string
}

// NewPagesFile wraps page text that was already extracted upstream.
func NewPagesFile(name string, pages []string) File {
	return &pagesFile{name: name, pages: pages}
}

func (f *pagesFile) Name() string { return f.name }

func (f *pagesFile) Bytes() []byte {
	return []byte(strings.Join(f.pages, "\f"))
}

func (f *pagesFile) Text() (string, error) {
	return strings.Join(f.pages, "\n"), nil
}

func (f *pagesFile) Pages() ([]string, error) {
	return f.pages, nil
}

// normalizeText strips a UTF-8 BOM and decodes legacy Windows-1252 exports.
func normalizeText(data []byte) []byte {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if utf8.Valid(data) {
		return data
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return data
	}
	return decoded
}
