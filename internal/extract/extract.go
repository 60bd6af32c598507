// Package extract turns uploaded reference documents into normalized text.
package extract

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/MikeSquared-Agency/lector/internal/chunker"
)

// Extractor produces normalized text from a raw document. A failed or empty
// extraction surfaces as empty text or an error; either way the session load
// yields zero chunks and the document is reported as unprocessable.
type Extractor interface {
	Extract(filename string, data []byte) (string, error)
}

// Registry picks an extractor by file extension.
type Registry struct {
	byExt map[string]Extractor
}

func NewRegistry() *Registry {
	return &Registry{
		byExt: map[string]Extractor{
			".txt": Plaintext{},
			".pdf": PDF{},
		},
	}
}

// Supported reports whether the filename's extension has an extractor.
func (r *Registry) Supported(filename string) bool {
	_, ok := r.byExt[strings.ToLower(filepath.Ext(filename))]
	return ok
}

// Extract dispatches to the extractor for the file's extension.
func (r *Registry) Extract(filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	e, ok := r.byExt[ext]
	if !ok {
		return "", fmt.Errorf("unsupported document type %q", ext)
	}
	return e.Extract(filename, data)
}

// Plaintext handles .txt documents.
type Plaintext struct{}

func (Plaintext) Extract(_ string, data []byte) (string, error) {
	return chunker.Normalize(string(data)), nil
}
