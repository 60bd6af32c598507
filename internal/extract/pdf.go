package extract

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"

	"github.com/MikeSquared-Agency/lector/internal/chunker"
)

// PDF extracts the plain text layer of a PDF document.
type PDF struct{}

func (PDF) Extract(filename string, data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf %s: %w", filename, err)
	}

	body, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read pdf text %s: %w", filename, err)
	}

	raw, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("read pdf text %s: %w", filename, err)
	}

	return chunker.Normalize(string(raw)), nil
}
