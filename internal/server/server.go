// Package server exposes the split service over a thin JSON HTTP API.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/snapsplit/snapsplit/internal/auth"
	"github.com/snapsplit/snapsplit/internal/calculator"
	"github.com/snapsplit/snapsplit/internal/extractor"
	"github.com/snapsplit/snapsplit/internal/metrics"
	"github.com/snapsplit/snapsplit/internal/middleware"
	"github.com/snapsplit/snapsplit/internal/models"
	"github.com/snapsplit/snapsplit/internal/service"
	"github.com/snapsplit/snapsplit/internal/storage"
)

// MaxImageBytes caps uploaded receipt images at 2 MB.
const MaxImageBytes = 2 << 20

// Server wires the services into HTTP handlers.
type Server struct {
	receipts *service.ReceiptService
	splits   *service.SplitService
	metrics  *metrics.Metrics
	apiKey   string
	tokens   *auth.ShareTokens
}

// New creates a Server.
func New(receipts *service.ReceiptService, splits *service.SplitService, m *metrics.Metrics, apiKey string, tokens *auth.ShareTokens) *Server {
	return &Server{receipts: receipts, splits: splits, metrics: m, apiKey: apiKey, tokens: tokens}
}

// Handler builds the full route table with auth, logging, and CORS applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleHealth)
	mux.Handle("GET /metrics", s.metrics.Handler())
	mux.Handle("POST /upload-receipt",
		middleware.RequireAPIKey(s.apiKey, s.observe("upload-receipt", s.handleUploadReceipt)))
	mux.Handle("POST /calculate-split",
		middleware.RequireAPIKey(s.apiKey, s.observe("calculate-split", s.handleCalculateSplit)))
	mux.Handle("GET /view-split/{id}",
		middleware.RequireAPIKeyOrShareToken(s.apiKey, s.tokens, s.observe("view-split", s.handleViewSplit)))

	return middleware.Logging(middleware.CORS(mux))
}

// observe wraps a handler with a per-route latency observation.
func (s *Server) observe(route string, h http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		h(w, r)
		s.metrics.RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "snapsplit is running"})
}

// handleUploadReceipt accepts a multipart image upload and returns the
// extracted receipt with derived subtotal and discount totals.
func (s *Server) handleUploadReceipt(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxImageBytes+4096)
	if err := r.ParseMultipartForm(MaxImageBytes); err != nil {
		writeError(w, http.StatusBadRequest, "image too large or malformed upload")
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing 'file' field")
		return
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	extracted, err := s.receipts.ProcessImage(r.Context(), image)
	if err != nil {
		status := http.StatusBadGateway
		switch {
		case errors.Is(err, extractor.ErrNotAReceipt):
			status = http.StatusBadRequest
		case errors.Is(err, service.ErrEmptyExtraction):
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, extracted)
}

// calculateSplitResponse is what callers get back from POST /calculate-split.
type calculateSplitResponse struct {
	SplitResults models.SplitResult `json:"split_results"`
	ShareLink    string             `json:"share_link"`
	SplitID      string             `json:"split_id"`
	Existing     bool               `json:"existing"`
}

func (s *Server) handleCalculateSplit(w http.ResponseWriter, r *http.Request) {
	var req models.SplitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	record, existing, err := s.splits.CalculateSplit(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, calculator.ErrNoPeople), errors.Is(err, service.ErrEmptyRequest):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			slog.Error("calculate split failed", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to calculate split")
		}
		return
	}

	writeJSON(w, http.StatusOK, calculateSplitResponse{
		SplitResults: record.Result,
		ShareLink:    record.ShareLink,
		SplitID:      record.ID,
		Existing:     existing,
	})
}

func (s *Server) handleViewSplit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	record, err := s.splits.ViewSplit(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "split not found: "+id)
			return
		}
		slog.Error("view split failed", "split_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load split")
		return
	}

	writeJSON(w, http.StatusOK, record)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
