// Package pipeline runs one spoken-question transaction from raw audio to
// persisted artifacts.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/MikeSquared-Agency/lector/internal/ranker"
	"github.com/MikeSquared-Agency/lector/internal/session"
)

// State of a question transaction. Transactions move strictly forward;
// any state can jump to StateFailed.
type State string

const (
	StateReceived     State = "received"
	StateTranscribing State = "transcribing"
	StateTranscribed  State = "transcribed"
	StateRetrieving   State = "retrieving"
	StateAnswered     State = "answered"
	StateSynthesizing State = "synthesizing"
	StatePersisted    State = "persisted"
	StateFailed       State = "failed"
)

// Transcriber converts question audio to text. An empty transcript with a
// nil error means the audio was not understood.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// Generator produces an answer from the question and retrieved excerpts.
type Generator interface {
	GenerateAnswer(ctx context.Context, question, excerpts string) (string, error)
}

// Synthesizer renders the answer as audio. (nil, nil) means synthesis is
// unavailable, which is a valid result.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// ArtifactWriter persists transaction artifacts under a shared txn id.
type ArtifactWriter interface {
	WriteQuestionAudio(txnID string, audio []byte) (string, error)
	WriteTranscript(txnID, question, answer string) (string, error)
	WriteResponseAudio(txnID string, audio []byte) (string, error)
}

// Result is the terminal record of one transaction.
type Result struct {
	TxnID      string
	State      State
	FailReason string
	Document   string
	Question   string
	Answer     string
	Transcript string // artifact filename
	AudioFile  string // artifact filename, empty when synthesis was unavailable
}

// Pipeline orchestrates the collaborators for every question transaction.
type Pipeline struct {
	session     *session.Session
	transcriber Transcriber
	generator   Generator
	synthesizer Synthesizer
	artifacts   ArtifactWriter
	logger      *slog.Logger
	now         func() time.Time
}

func New(s *session.Session, t Transcriber, g Generator, sy Synthesizer, a ArtifactWriter, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		session:     s,
		transcriber: t,
		generator:   g,
		synthesizer: sy,
		artifacts:   a,
		logger:      logger,
		now:         time.Now,
	}
}

// Answer runs one transaction to a terminal state. Once started it is never
// cancelled mid-flight: a document load that races an in-flight question
// simply lets the question finish against the session snapshot taken at
// retrieval time. That staleness window is a known, accepted trade-off.
//
// On failure the returned Result still carries the terminal state and
// reason; err is a *Error wrapping the cause.
func (p *Pipeline) Answer(ctx context.Context, audio []byte) (*Result, error) {
	res := &Result{
		TxnID: p.now().UTC().Format("20060102-150405"),
		State: StateReceived,
	}

	// Precondition first: no point paying for transcription without a document.
	if !p.session.HasDocument() {
		return p.fail(res, ReasonNoActiveDocument, ErrNoActiveDocument)
	}

	res.State = StateTranscribing
	question, err := p.transcriber.Transcribe(ctx, audio)
	if err != nil {
		return p.fail(res, ReasonTranscriptionService, fmt.Errorf("transcribe question: %w", err))
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return p.fail(res, ReasonEmptyTranscription, ErrEmptyTranscription)
	}
	res.State = StateTranscribed
	res.Question = question

	// Question audio is best-effort: losing it does not lose the transaction.
	if _, err := p.artifacts.WriteQuestionAudio(res.TxnID, audio); err != nil {
		p.logger.Warn("failed to persist question audio", "txn", res.TxnID, "error", err)
	}

	res.State = StateRetrieving
	snap := p.session.Current()
	res.Document = snap.Identity
	excerpts := strings.Join(ranker.TopK(question, snap.Chunks, ranker.TopLimit), "\n\n")

	answer, err := p.generator.GenerateAnswer(ctx, question, excerpts)
	if err != nil || strings.TrimSpace(answer) == "" {
		// Degraded, not fatal: the transaction always produces some answer.
		p.logger.Warn("answer generation degraded", "txn", res.TxnID, "error", err)
		answer = apologyAnswer(question)
	}
	res.State = StateAnswered
	res.Answer = answer

	res.State = StateSynthesizing
	audioOut, err := p.synthesizer.Synthesize(ctx, answer)
	if err != nil {
		// Non-fatal: ship a text-only answer.
		p.logger.Warn("speech synthesis failed", "txn", res.TxnID, "error", err)
		audioOut = nil
	}

	transcript, err := p.artifacts.WriteTranscript(res.TxnID, question, answer)
	if err != nil {
		return p.fail(res, ReasonStorage, fmt.Errorf("persist transcript: %w", err))
	}
	res.Transcript = transcript

	if len(audioOut) > 0 {
		audioFile, err := p.artifacts.WriteResponseAudio(res.TxnID, audioOut)
		if err != nil {
			return p.fail(res, ReasonStorage, fmt.Errorf("persist answer audio: %w", err))
		}
		res.AudioFile = audioFile
	}

	res.State = StatePersisted
	p.logger.Info("question answered",
		"txn", res.TxnID,
		"document", res.Document,
		"question_len", len(question),
		"answer_len", len(answer),
		"has_audio", res.AudioFile != "",
	)
	return res, nil
}

func (p *Pipeline) fail(res *Result, reason string, err error) (*Result, error) {
	res.State = StateFailed
	res.FailReason = reason
	p.logger.Warn("question transaction failed", "txn", res.TxnID, "reason", reason, "error", err)
	return res, failure(reason, err)
}

func apologyAnswer(question string) string {
	return fmt.Sprintf("I'm sorry, I couldn't find an answer to %q in the document right now. Please try asking again.", question)
}
