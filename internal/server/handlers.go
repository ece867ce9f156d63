package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/kdjkdj1234567890-bit/content-engine/internal/db"
	"github.com/kdjkdj1234567890-bit/content-engine/internal/quota"
	"github.com/kdjkdj1234567890-bit/content-engine/internal/scoring"
	"github.com/kdjkdj1234567890-bit/content-engine/internal/types"
)

// maxBodyBytes bounds request bodies; analyze requests carry whole drafts
const maxBodyBytes = 1 << 20

// StreamComplete is the final event of a streamed generation
type StreamComplete struct {
	PoweredBy string `json:"powered_by"`
	Remaining int    `json:"remaining"`
	Count     int    `json:"count"`
}

// handleGenerate drafts and scores copy for every requested type
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	req, err := decodeGenerateRequest(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	key := quotaKey(r)
	decision, err := s.admit(r.Context(), key)
	if err != nil {
		s.writeError(w, err)
		return
	}

	results, err := s.generator.GenerateEach(r.Context(), req, nil)
	if err != nil {
		s.release(key)
		log.Printf("[generate] keyword=%q failed: %v", req.Keyword, err)
		s.writeError(w, err)
		return
	}
	s.saveHistory(r.Context(), key, req.Keyword, results)

	s.jsonResponse(w, http.StatusOK, types.GenerateResponse{
		Results:   results,
		PoweredBy: s.poweredBy,
		Remaining: decision.Remaining,
	})
}

// handleGenerateStream is handleGenerate that emits one "result" event per
// content type as it finishes, then a "complete" event
func (s *Server) handleGenerateStream(w http.ResponseWriter, r *http.Request) {
	req, err := decodeGenerateRequest(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	key := quotaKey(r)
	decision, err := s.admit(r.Context(), key)
	if err != nil {
		s.writeError(w, err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.release(key)
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	results, err := s.generator.GenerateEach(r.Context(), req, func(gc *types.GeneratedContent) {
		if err := sse.WriteEvent("result", gc); err != nil {
			log.Printf("[generate] failed to stream %s: %v", gc.Type, err)
		}
	})
	if err != nil {
		s.release(key)
		log.Printf("[generate] keyword=%q failed: %v", req.Keyword, err)
		sse.WriteError(HTTPStatus(err), err.Error())
		return
	}
	s.saveHistory(r.Context(), key, req.Keyword, results)

	sse.WriteEvent("complete", StreamComplete{ //nolint:errcheck
		PoweredBy: s.poweredBy,
		Remaining: decision.Remaining,
		Count:     len(results),
	})
}

// handleAnalyze scores supplied copy without calling the model
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req types.AnalyzeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, validationError(err))
		return
	}
	if req.Type == "" {
		req.Type = types.ContentBlog
	}

	report, err := s.scorer.Evaluate(r.Context(), scoring.Input{
		Content:     req.Content,
		Title:       req.Title,
		Keyword:     req.Keyword,
		ContentType: req.Type,
		Tone:        req.Tone,
		SkipSEO:     !req.Type.HasSEO(),
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, report)
}

// handleUsage reports the caller's remaining free generations
func (s *Server) handleUsage(w http.ResponseWriter, r *http.Request) {
	decision, err := s.quota.Remaining(r.Context(), quotaKey(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, decision)
}

// handleListGenerations returns the authenticated user's recent generations
func (s *Server) handleListGenerations(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.writeError(w, &ErrUnavailable{Feature: "generation history"})
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			s.writeError(w, &ErrValidation{Field: "limit", Message: "must be between 1 and 100"})
			return
		}
		limit = n
	}

	generations, err := s.history.ListGenerations(r.Context(), quotaKey(r), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if generations == nil {
		generations = []db.Generation{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"generations": generations})
}

func decodeGenerateRequest(w http.ResponseWriter, r *http.Request) (*types.GenerateRequest, error) {
	var req types.GenerateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		return nil, &ErrValidation{Field: "body", Message: err.Error()}
	}
	if err := req.Validate(); err != nil {
		return nil, validationError(err)
	}
	return &req, nil
}

// admit consumes one free generation for key
func (s *Server) admit(ctx context.Context, key string) (quota.Decision, error) {
	decision, err := s.quota.CheckAndConsume(ctx, key)
	if err != nil {
		return quota.Decision{}, err
	}
	if !decision.Allowed {
		return decision, &ErrQuotaExceeded{Limit: decision.Limit, ResetAt: decision.ResetAt}
	}
	return decision, nil
}

// release refunds a generation that produced nothing, on a context detached
// from the request
func (s *Server) release(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.quota.Release(ctx, key); err != nil {
		log.Printf("[quota] failed to release usage for %s: %v", key, err)
	}
}

// saveHistory records results; failures are logged and do not fail the request
func (s *Server) saveHistory(ctx context.Context, key, keyword string, results map[types.ContentType]*types.GeneratedContent) {
	if s.history == nil {
		return
	}
	for _, gc := range results {
		in := &db.GenerationInput{
			UserKey:     key,
			Keyword:     keyword,
			ContentType: string(gc.Type),
			Title:       gc.Title,
			Content:     gc.Content,
			Report:      gc.Report,
		}
		if gc.Report != nil {
			in.QualityScore = gc.Report.Quality.Score
			in.QualityGrade = gc.Report.Quality.Grade
		}
		if _, err := s.history.SaveGeneration(ctx, in); err != nil {
			log.Printf("[history] failed to save %s for %s: %v", gc.Type, key, err)
		}
	}
}

// writeError writes err with the status from HTTPStatus
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)

	var quotaErr *ErrQuotaExceeded
	if errors.As(err, &quotaErr) {
		s.jsonResponse(w, status, map[string]any{
			"error":     "quota_exceeded",
			"message":   err.Error(),
			"limit":     quotaErr.Limit,
			"remaining": 0,
			"reset_at":  quotaErr.ResetAt.Format(time.RFC3339),
		})
		return
	}

	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("Internal error: %v", err)
		message = "Internal server error"
	}
	s.errorResponse(w, status, message)
}
