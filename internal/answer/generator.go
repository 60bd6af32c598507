// Package answer generates spoken-style answers from retrieved document
// excerpts using the Anthropic messages API.
package answer

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

const defaultAPIURL = "https://api.anthropic.com/v1/messages"

const maxAnswerTokens = 1024

type Generator struct {
	apiKey string
	model  string
	client *http.Client
	apiURL string
	logger *slog.Logger
}

func NewGenerator(apiKey, model string, logger *slog.Logger) *Generator {
	return &Generator{
		apiKey: apiKey,
		model:  model,
		client: &http.Client{Timeout: 60 * time.Second},
		apiURL: defaultAPIURL,
		logger: logger,
	}
}

// SetAPIURL overrides the endpoint, for tests.
func (g *Generator) SetAPIURL(url string) {
	g.apiURL = url
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type request struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []message `json:"messages"`
}

type response struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

type errorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// GenerateAnswer answers the question from the given document excerpts.
// Callers treat any error as degradation, not failure — the pipeline
// substitutes an apology answer and carries on.
func (g *Generator) GenerateAnswer(ctx context.Context, question, excerpts string) (string, error) {
	prompt := fmt.Sprintf(answerUserPrompt, excerpts, question)

	reqBody := request{
		Model:     g.model,
		MaxTokens: maxAnswerTokens,
		System:    answerSystemPrompt,
		Messages:  []message{{Role: "user", Content: prompt}},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", g.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("api call: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error.Type != "" {
			return "", fmt.Errorf("api error %d: %s — %s", resp.StatusCode, errResp.Error.Type, errResp.Error.Message)
		}
		return "", fmt.Errorf("api error %d: %s", resp.StatusCode, string(respBody))
	}

	var apiResp response
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	if len(apiResp.Content) == 0 {
		return "", fmt.Errorf("empty response content")
	}

	text := strings.TrimSpace(apiResp.Content[0].Text)
	if text == "" {
		return "", fmt.Errorf("blank answer text")
	}

	g.logger.Info("answer generated",
		"question_len", len(question),
		"answer_len", len(text),
		"output_tokens", apiResp.Usage.OutputTokens,
	)
	return text, nil
}
