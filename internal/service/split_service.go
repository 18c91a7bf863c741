package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/snapsplit/snapsplit/internal/auth"
	"github.com/snapsplit/snapsplit/internal/calculator"
	"github.com/snapsplit/snapsplit/internal/fingerprint"
	"github.com/snapsplit/snapsplit/internal/metrics"
	"github.com/snapsplit/snapsplit/internal/models"
	"github.com/snapsplit/snapsplit/internal/numeric"
	"github.com/snapsplit/snapsplit/internal/storage"
)

// ErrEmptyRequest is returned when there is nothing to split: no even-split
// flag, no assignments, and no tax or tip.
var ErrEmptyRequest = errors.New("assign items or enter tax/tip before splitting")

// SplitService orchestrates the split flow: fingerprint the request, reuse an
// existing record when one exists, otherwise compute, persist, and hand back
// a shareable record.
type SplitService struct {
	store   storage.Store
	tokens  *auth.ShareTokens
	metrics *metrics.Metrics
	baseURL string
}

// NewSplitService creates a SplitService.
func NewSplitService(store storage.Store, tokens *auth.ShareTokens, m *metrics.Metrics, baseURL string) *SplitService {
	return &SplitService{store: store, tokens: tokens, metrics: m, baseURL: baseURL}
}

// CalculateSplit computes (or retrieves) the split for a request. The bool
// reports whether an existing record satisfied the request.
//
// Persistence is best-effort: a failed write is logged and counted, and the
// computed record is still returned. Because records are pure functions of
// the fingerprinted inputs, concurrent duplicate computations write identical
// content and need no locking.
func (s *SplitService) CalculateSplit(ctx context.Context, req *models.SplitRequest) (*models.SplitRecord, bool, error) {
	tax, ok := numeric.Normalize(req.Tax.String(), numeric.Price)
	if !ok {
		tax = 0
	}
	tip, ok := numeric.Normalize(req.Tip.String(), numeric.Price)
	if !ok {
		tip = 0
	}

	if !req.SplitEvenly && len(req.Assignments) == 0 && tax == 0 && tip == 0 {
		return nil, false, ErrEmptyRequest
	}

	id := fingerprint.Compute(req)

	existing, err := s.store.GetSplit(ctx, id)
	if err == nil && existing.ShareLink != "" {
		slog.Info("reusing existing split record", "split_id", id)
		s.metrics.SplitsDeduplicated.Inc()
		return existing, true, nil
	}
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		// A broken read only costs us the short-circuit.
		slog.Warn("split lookup failed, recomputing", "split_id", id, "error", err)
	}

	evenSubtotal := 0.0
	if req.SplitEvenly {
		evenSubtotal = req.ExtractedSubtotal
	}

	result, err := calculator.ComputeSplit(calculator.Input{
		Assignments:       req.Assignments,
		Tax:               req.Tax,
		Tip:               req.Tip,
		People:            req.People,
		SplitEvenly:       req.SplitEvenly,
		EvenSplitSubtotal: evenSubtotal,
		Discount:          req.Discount,
	})
	if err != nil {
		return nil, false, err
	}

	imageRef := ""
	if len(req.Image) > 0 {
		imageRef = id + ".jpg"
	}

	record := &models.SplitRecord{
		ID:             id,
		Receipt:        req.Receipt,
		People:         req.People,
		Assignments:    req.Assignments,
		SplitEvenly:    req.SplitEvenly,
		Discount:       req.Discount,
		Tax:            tax,
		Tip:            tip,
		Result:         result,
		ImageRef:       imageRef,
		ShareLink:      s.shareLink(id),
		Notes:          req.Notes,
		PaymentDetails: req.PaymentDetails,
		CreatedAt:      time.Now().Unix(),
	}

	if err := s.store.CreateSplit(ctx, record); err != nil {
		slog.Error("failed to persist split record, returning result anyway",
			"split_id", id, "error", err)
		s.metrics.PersistFailures.Inc()
	}

	s.metrics.SplitsComputed.Inc()
	slog.Info("split computed", "split_id", id, "people", len(req.People),
		"split_evenly", req.SplitEvenly)
	return record, false, nil
}

// ViewSplit retrieves a persisted record by fingerprint.
func (s *SplitService) ViewSplit(ctx context.Context, id string) (*models.SplitRecord, error) {
	return s.store.GetSplit(ctx, id)
}

// shareLink builds the stable view URL for a split, carrying its share token
// so the link works without the API key.
func (s *SplitService) shareLink(id string) string {
	link := fmt.Sprintf("%s/view-split/%s", s.baseURL, id)
	token, err := s.tokens.Generate(id)
	if err != nil {
		slog.Error("failed to sign share token, link requires API key", "split_id", id, "error", err)
		return link
	}
	return link + "?t=" + token
}
