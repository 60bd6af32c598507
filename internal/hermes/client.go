// Package hermes publishes lector's lifecycle events on the swarm bus.
package hermes

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// Subjects lector publishes on.
const (
	SubjectRegistered       = "swarm.agent.lector.registered"
	SubjectDocumentLoaded   = "swarm.lector.document.loaded"
	SubjectQuestionAnswered = "swarm.lector.question.answered"
)

// DocumentLoadedEvent announces a new active document.
type DocumentLoadedEvent struct {
	Identity  string `json:"identity"`
	Title     string `json:"title"`
	Chunks    int    `json:"chunks"`
	Timestamp string `json:"timestamp"`
}

// QuestionAnsweredEvent announces a persisted question transaction.
type QuestionAnsweredEvent struct {
	TxnRef    string `json:"txn_ref"`
	Document  string `json:"document"`
	Question  string `json:"question"`
	HasAudio  bool   `json:"has_audio"`
	Timestamp string `json:"timestamp"`
}

type Client struct {
	conn   *nats.Conn
	logger *slog.Logger
}

func NewClient(url, token string, logger *slog.Logger) (*Client, error) {
	opts := []nats.Option{
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("nats reconnected")
		}),
	}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	return &Client{conn: nc, logger: logger}, nil
}

func (c *Client) Publish(subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	return c.conn.Publish(subject, payload)
}

// PublishDocumentLoaded is best-effort: a dropped event never fails a load.
func (c *Client) PublishDocumentLoaded(evt DocumentLoadedEvent) {
	evt.Timestamp = time.Now().UTC().Format(time.RFC3339)
	if err := c.Publish(SubjectDocumentLoaded, evt); err != nil {
		c.logger.Warn("failed to publish document loaded event", "identity", evt.Identity, "error", err)
	}
}

// PublishQuestionAnswered is best-effort, same as PublishDocumentLoaded.
func (c *Client) PublishQuestionAnswered(evt QuestionAnsweredEvent) {
	evt.Timestamp = time.Now().UTC().Format(time.RFC3339)
	if err := c.Publish(SubjectQuestionAnswered, evt); err != nil {
		c.logger.Warn("failed to publish question answered event", "txn_ref", evt.TxnRef, "error", err)
	}
}

func (c *Client) Close() {
	c.conn.Close()
}
