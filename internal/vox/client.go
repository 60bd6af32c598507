// Package vox talks to the swarm's speech gateway, which fronts the
// speech-to-text and text-to-speech providers.
package vox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

type Client struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

func NewClient(baseURL string, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 60 * time.Second},
		logger:  logger,
	}
}

type transcribeResponse struct {
	Transcript string `json:"transcript"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Transcribe converts spoken audio to text. An empty transcript is a valid
// result: the gateway understood the request but not the audio. Callers
// decide what an empty question means.
func (c *Client) Transcribe(ctx context.Context, audio []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/transcribe", bytes.NewReader(audio))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "audio/wav")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcribe call: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
			return "", fmt.Errorf("transcribe error %d: %s", resp.StatusCode, errResp.Error)
		}
		return "", fmt.Errorf("transcribe error %d: %s", resp.StatusCode, string(body))
	}

	var tr transcribeResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return "", fmt.Errorf("parse transcript: %w", err)
	}

	c.logger.Info("audio transcribed", "audio_bytes", len(audio), "transcript_len", len(tr.Transcript))
	return tr.Transcript, nil
}

type synthesizeRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice,omitempty"`
}

// Synthesize renders text as speech audio. A 204 from the gateway means the
// synthesis backend is unavailable; that returns (nil, nil) and the caller
// ships a text-only answer.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	body, err := json.Marshal(synthesizeRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/synthesize", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("synthesize call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		c.logger.Warn("speech synthesis unavailable, continuing without audio")
		return nil, nil
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		if json.Unmarshal(audio, &errResp) == nil && errResp.Error != "" {
			return nil, fmt.Errorf("synthesize error %d: %s", resp.StatusCode, errResp.Error)
		}
		return nil, fmt.Errorf("synthesize error %d", resp.StatusCode)
	}

	c.logger.Info("answer synthesized", "text_len", len(text), "audio_bytes", len(audio))
	return audio, nil
}
