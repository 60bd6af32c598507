// Package library stores uploaded reference documents so a previously
// uploaded document can be re-activated without uploading it again.
package library

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Library is a flat directory of stored documents.
type Library struct {
	dir string
}

func New(dir string) (*Library, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create library dir: %w", err)
	}
	return &Library{dir: dir}, nil
}

// SafeName reduces an uploaded filename to a storable one: base name only,
// unsafe characters replaced, no hidden files.
func SafeName(filename string) (string, error) {
	name := filepath.Base(strings.TrimSpace(filename))
	name = unsafeChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		return "", fmt.Errorf("unusable filename %q", filename)
	}
	return name, nil
}

// Save stores document bytes under a sanitized version of filename and
// returns the stored name.
func (l *Library) Save(filename string, data []byte) (string, error) {
	name, err := SafeName(filename)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(l.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("save document: %w", err)
	}
	return name, nil
}

// Read returns the stored bytes for name.
func (l *Library) Read(name string) ([]byte, error) {
	safe, err := SafeName(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(l.dir, safe))
	if err != nil {
		return nil, fmt.Errorf("read document %s: %w", safe, err)
	}
	return data, nil
}

// List returns stored document names, sorted.
func (l *Library) List() ([]string, error) {
	files, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	var names []string
	for _, f := range files {
		if f.IsDir() || strings.HasPrefix(f.Name(), ".") {
			continue
		}
		names = append(names, f.Name())
	}
	sort.Strings(names)
	return names, nil
}
