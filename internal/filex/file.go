// Package filex exposes files on local disk as upload candidates.
package filex

import (
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// LocalFile is a regular file on disk. Only the header is read on Open*;
// the full content is streamed from Open.
type LocalFile struct {
	path     string
	name     string
	size     int64
	mimeType string
}

// OpenLocal stats path and detects its media type from the leading bytes,
// falling back to the extension when sniffing is inconclusive.
func OpenLocal(path string) (*LocalFile, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if fi.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	mt, err := DetectType(path)
	if err != nil {
		return nil, err
	}

	return &LocalFile{
		path:     path,
		name:     filepath.Base(path),
		size:     fi.Size(),
		mimeType: mt,
	}, nil
}

func (f *LocalFile) Name() string { return f.name }
func (f *LocalFile) Type() string { return f.mimeType }
func (f *LocalFile) Size() int64  { return f.size }
func (f *LocalFile) Path() string { return f.path }

func (f *LocalFile) Open() (io.ReadCloser, error) {
	return os.Open(f.path)
}

// DetectType returns the media type of the file at path without parameters.
func DetectType(path string) (string, error) {
	m, err := mimetype.DetectFile(path)
	if err != nil {
		return "", fmt.Errorf("detect type %s: %w", path, err)
	}

	sniffed := baseType(m.String())
	if !generic(sniffed) {
		return sniffed, nil
	}

	// DOCX sniffs as zip on some detector versions; the extension is more specific.
	if byExt := baseType(mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))); byExt != "" {
		return byExt, nil
	}
	return sniffed, nil
}

func generic(t string) bool {
	switch t {
	case "application/octet-stream", "application/zip", "text/plain":
		return true
	}
	return false
}

func baseType(t string) string {
	if t == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(t)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(t))
	}
	return mt
}
