package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MikeSquared-Agency/lector/internal/artifacts"
	"github.com/MikeSquared-Agency/lector/internal/hermes"
	"github.com/MikeSquared-Agency/lector/internal/pipeline"
	"github.com/MikeSquared-Agency/lector/internal/store"
)

// QuestionResponse is the JSON result of an answered question.
type QuestionResponse struct {
	Success  bool   `json:"success"`
	TxnID    string `json:"txn_id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	AudioURL string `json:"audio_url,omitempty"`
}

// askQuestion handles POST /api/v1/questions: audio in, answer out.
func (s *Server) askQuestion(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, fmt.Sprintf(`{"error":"invalid upload: %v"}`, err), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("audio")
	if err != nil {
		http.Error(w, `{"error":"missing audio file"}`, http.StatusBadRequest)
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, fmt.Sprintf(`{"error":"read audio: %v"}`, err), http.StatusBadRequest)
		return
	}

	result, err := s.deps.Pipeline.Answer(r.Context(), audio)
	if err != nil {
		s.writeQuestionError(w, err)
		return
	}

	s.recordAnswer(r.Context(), result)

	resp := QuestionResponse{
		Success:  true,
		TxnID:    result.TxnID,
		Question: result.Question,
		Answer:   result.Answer,
	}
	if result.AudioFile != "" {
		resp.AudioURL = "/artifacts/" + result.AudioFile
	}
	writeJSON(w, http.StatusOK, resp)
}

// writeQuestionError maps pipeline failures to HTTP responses with
// user-facing messages.
func (s *Server) writeQuestionError(w http.ResponseWriter, err error) {
	var pe *pipeline.Error
	if !errors.As(err, &pe) {
		http.Error(w, fmt.Sprintf(`{"error":"question failed: %v"}`, err), http.StatusInternalServerError)
		return
	}

	status := http.StatusInternalServerError
	switch pe.Reason {
	case pipeline.ReasonNoActiveDocument, pipeline.ReasonEmptyTranscription:
		status = http.StatusBadRequest
	case pipeline.ReasonTranscriptionService:
		status = http.StatusBadGateway
	case pipeline.ReasonStorage:
		status = http.StatusInternalServerError
	}
	http.Error(w, fmt.Sprintf(`{"error":%q,"reason":%q}`, pe.Err.Error(), pe.Reason), status)
}

// recordAnswer runs the best-effort side channels for a persisted
// transaction: Postgres log, hermes event, Slack digest. None can fail the
// request.
func (s *Server) recordAnswer(ctx context.Context, result *pipeline.Result) {
	if s.deps.Store != nil {
		_, err := s.deps.Store.WriteTransaction(ctx, store.Transaction{
			TxnRef:   result.TxnID,
			Document: result.Document,
			Question: result.Question,
			Answer:   result.Answer,
			HasAudio: result.AudioFile != "",
			State:    string(result.State),
		})
		if err != nil {
			s.deps.Logger.Warn("failed to log transaction", "txn", result.TxnID, "error", err)
		}
	}

	if s.deps.Hermes != nil {
		s.deps.Hermes.PublishQuestionAnswered(hermes.QuestionAnsweredEvent{
			TxnRef:   result.TxnID,
			Document: result.Document,
			Question: result.Question,
			HasAudio: result.AudioFile != "",
		})
	}

	if s.deps.Slack != nil {
		if err := s.deps.Slack.PostAnswerDigest(ctx, result.Document, result.Question, result.Answer, result.AudioFile != ""); err != nil {
			s.deps.Logger.Warn("slack digest failed", "txn", result.TxnID, "error", err)
		}
	}
}

// listAnswers handles GET /api/v1/answers.
func (s *Server) listAnswers(w http.ResponseWriter, r *http.Request) {
	entries, err := s.deps.Artifacts.List()
	if err != nil {
		http.Error(w, fmt.Sprintf(`{"error":"list answers: %v"}`, err), http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []artifacts.Entry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"answers": entries, "count": len(entries)})
}

// serveArtifact handles GET /artifacts/{name}.
func (s *Server) serveArtifact(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	path, err := s.deps.Artifacts.Path(name)
	if err != nil {
		http.Error(w, `{"error":"artifact not found"}`, http.StatusNotFound)
		return
	}
	http.ServeFile(w, r, path)
}
