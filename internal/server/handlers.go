package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/newnotes/embedsvc/internal/models"
	"github.com/newnotes/embedsvc/pkg/utils"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	embedder, err := s.loader.Get()
	if err != nil {
		s.logger.Error("health check failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, fmt.Sprintf("service unhealthy: %v", err))
		return
	}
	s.respondJSON(w, http.StatusOK, &models.HealthResponse{
		Status:    "healthy",
		Model:     embedder.ModelName(),
		Device:    embedder.DeviceName(),
		Dimension: embedder.Dimensions(),
	})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req models.EmbedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}
	resp, err := s.generate(r.Context(), &req)
	if err != nil {
		s.logger.Error("generate embedding failed", zap.Error(err))
		s.respondError(w, statusForError(err), err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGenerateBatch(w http.ResponseWriter, r *http.Request) {
	var req models.BatchEmbedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}
	resp, err := s.generateBatch(r.Context(), &req)
	if err != nil {
		s.logger.Error("generate embeddings failed", zap.Error(err))
		s.respondError(w, statusForError(err), err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) generate(ctx context.Context, req *models.EmbedRequest) (*models.EmbedResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	embedder, err := s.loader.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}
	if err := models.CheckModel(req.Model, embedder.ModelName()); err != nil {
		return nil, err
	}
	s.logger.Debug("generating embedding",
		zap.String("text", utils.Truncate(req.Text, 50)),
		zap.Int("text_length", len(req.Text)))
	embedding, err := embedder.Embed(ctx, req.Text)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}
	return &models.EmbedResponse{
		Embedding: embedding,
		Model:     embedder.ModelName(),
		Dimension: embedder.Dimensions(),
	}, nil
}

func (s *Server) generateBatch(ctx context.Context, req *models.BatchEmbedRequest) (*models.BatchEmbedResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	embedder, err := s.loader.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to generate embeddings: %w", err)
	}
	if err := models.CheckModel(req.Model, embedder.ModelName()); err != nil {
		return nil, err
	}
	s.logger.Debug("generating embeddings", zap.Int("count", len(req.Texts)))
	embeddings, err := embedder.EmbedBatch(ctx, req.Texts)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embeddings: %w", err)
	}
	return &models.BatchEmbedResponse{
		Embeddings: embeddings,
		Model:      embedder.ModelName(),
		Dimension:  embedder.Dimensions(),
		Count:      len(embeddings),
	}, nil
}

// statusForError maps errors to HTTP status codes: schema violations to 422,
// model mismatches to 400, anything else to 500.
func statusForError(err error) int {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		return http.StatusUnprocessableEntity
	}
	var merr *models.UnsupportedModelError
	if errors.As(err, &merr) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
