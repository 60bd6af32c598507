// Package session owns the single active reference document shared by every
// request. A load builds the replacement document fully off to the side and
// publishes it in one step, so readers see either the whole old document or
// the whole new one — never a mix.
package session

import (
	"errors"
	"path/filepath"
	"strings"
	"sync"

	"github.com/MikeSquared-Agency/lector/internal/chunker"
)

// ErrNoContent means extraction produced no usable text, so the load yielded
// zero chunks. The session is cleared when this happens.
var ErrNoContent = errors.New("document could not be processed: no text content")

const previewLen = 1000

// Snapshot is a read-only view of the active document.
type Snapshot struct {
	Identity string
	Title    string
	Preview  string
	Chunks   []string
}

// Session holds the active document. The zero value has no document loaded.
type Session struct {
	mu  sync.RWMutex
	doc Snapshot
}

func New() *Session {
	return &Session{}
}

// Load chunks rawText and swaps the new document in wholesale. When the text
// normalizes to nothing, the session is cleared and ErrNoContent is returned
// so the caller can report the document as unprocessable.
func (s *Session) Load(identity, rawText string) error {
	normalized := chunker.Normalize(rawText)
	chunks := chunker.Chunk(normalized, chunker.DefaultMaxSize, chunker.DefaultOverlap)

	if len(chunks) == 0 {
		s.mu.Lock()
		s.doc = Snapshot{}
		s.mu.Unlock()
		return ErrNoContent
	}

	doc := Snapshot{
		Identity: identity,
		Title:    titleFrom(identity),
		Preview:  preview(normalized),
		Chunks:   chunks,
	}

	s.mu.Lock()
	s.doc = doc
	s.mu.Unlock()
	return nil
}

// Current returns the active document snapshot. The returned chunk slice is
// shared and must be treated as immutable.
func (s *Session) Current() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc
}

// HasDocument reports whether a document is loaded and chunked.
func (s *Session) HasDocument() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.doc.Chunks) > 0
}

func titleFrom(identity string) string {
	return strings.TrimSuffix(identity, filepath.Ext(identity))
}

func preview(text string) string {
	if len(text) <= previewLen {
		return text
	}
	return text[:previewLen] + "…"
}
