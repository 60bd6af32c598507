// Package artifacts persists the outputs of each question transaction as
// flat files: the question audio, a question/answer transcript, and the
// synthesized answer audio. All three share the transaction id, so they can
// be correlated by name alone.
package artifacts

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	questionAudioExt = ".wav"
	transcriptExt    = ".txt"
	responseSuffix   = "-response.mp3"
)

// Store writes and lists transaction artifacts under a single directory.
type Store struct {
	dir string
}

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifacts dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// WriteQuestionAudio saves the raw uploaded question audio.
func (s *Store) WriteQuestionAudio(txnID string, audio []byte) (string, error) {
	name := txnID + questionAudioExt
	if err := os.WriteFile(filepath.Join(s.dir, name), audio, 0o644); err != nil {
		return "", fmt.Errorf("write question audio: %w", err)
	}
	return name, nil
}

// WriteTranscript saves the question and answer as a text artifact.
func (s *Store) WriteTranscript(txnID, question, answer string) (string, error) {
	name := txnID + transcriptExt
	content := fmt.Sprintf("Question:\n%s\n\nAnswer:\n%s\n", question, answer)
	if err := os.WriteFile(filepath.Join(s.dir, name), []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write transcript: %w", err)
	}
	return name, nil
}

// WriteResponseAudio saves the synthesized answer audio.
func (s *Store) WriteResponseAudio(txnID string, audio []byte) (string, error) {
	name := txnID + responseSuffix
	if err := os.WriteFile(filepath.Join(s.dir, name), audio, 0o644); err != nil {
		return "", fmt.Errorf("write response audio: %w", err)
	}
	return name, nil
}

// Entry describes one answered transaction on disk.
type Entry struct {
	TxnID      string `json:"txn_id"`
	Transcript string `json:"transcript"`
	HasAudio   bool   `json:"has_audio"`
	AudioFile  string `json:"audio_file,omitempty"`
}

// List returns answered transactions, newest first. Transaction ids are
// timestamp-derived, so reverse-lexicographic order is reverse-chronological.
func (s *Store) List() ([]Entry, error) {
	files, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list artifacts: %w", err)
	}

	var entries []Entry
	for _, f := range files {
		name := f.Name()
		if f.IsDir() || !strings.HasSuffix(name, transcriptExt) {
			continue
		}
		txnID := strings.TrimSuffix(name, transcriptExt)

		content, err := os.ReadFile(filepath.Join(s.dir, name))
		if err != nil {
			return nil, fmt.Errorf("read transcript %s: %w", name, err)
		}

		e := Entry{TxnID: txnID, Transcript: string(content)}
		audioName := txnID + responseSuffix
		if _, err := os.Stat(filepath.Join(s.dir, audioName)); err == nil {
			e.HasAudio = true
			e.AudioFile = audioName
		}
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].TxnID > entries[j].TxnID
	})
	return entries, nil
}

// Path resolves an artifact filename for serving, rejecting anything that
// would escape the artifacts directory.
func (s *Store) Path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("invalid artifact name %q", name)
	}
	p := filepath.Join(s.dir, name)
	if _, err := os.Stat(p); err != nil {
		return "", fmt.Errorf("artifact %s: %w", name, err)
	}
	return p, nil
}
