package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/snapsplit/snapsplit/internal/extractor"
	"github.com/snapsplit/snapsplit/internal/metrics"
	"github.com/snapsplit/snapsplit/internal/models"
)

// ErrEmptyExtraction is returned when extraction succeeded but found neither
// line items nor a total, which usually means a blurry or partial image.
var ErrEmptyExtraction = errors.New("could not extract details from receipt")

// ExtractedReceipt is the upload result: the structured receipt plus the
// derived amounts the client feeds back into a split request.
type ExtractedReceipt struct {
	Receipt       *models.Receipt `json:"parsed_data"`
	Subtotal      float64         `json:"extracted_subtotal"`
	TotalDiscount float64         `json:"extracted_total_discount"`
}

// ReceiptService wraps the extractor collaborator and derives the subtotal
// and discount totals from its output.
type ReceiptService struct {
	extractor extractor.Extractor
	metrics   *metrics.Metrics
}

// NewReceiptService creates a ReceiptService.
func NewReceiptService(ex extractor.Extractor, m *metrics.Metrics) *ReceiptService {
	return &ReceiptService{extractor: ex, metrics: m}
}

// ProcessImage extracts structured data from a receipt image. Extraction
// failures are surfaced as-is; no split is ever computed from partial data.
func (s *ReceiptService) ProcessImage(ctx context.Context, image []byte) (*ExtractedReceipt, error) {
	receipt, err := s.extractor.Extract(ctx, image)
	if err != nil {
		if errors.Is(err, extractor.ErrNotAReceipt) {
			s.metrics.Extractions.WithLabelValues("not_a_receipt").Inc()
			return nil, err
		}
		s.metrics.Extractions.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("receipt extraction failed: %w", err)
	}

	if extractor.Empty(receipt) {
		s.metrics.Extractions.WithLabelValues("empty").Inc()
		return nil, ErrEmptyExtraction
	}

	out := &ExtractedReceipt{
		Receipt:       receipt,
		Subtotal:      extractor.DeriveSubtotal(receipt),
		TotalDiscount: extractor.DeriveTotalDiscount(receipt),
	}
	s.metrics.Extractions.WithLabelValues("ok").Inc()
	slog.Info("receipt extracted",
		"store", receipt.StoreName,
		"line_items", len(receipt.LineItems),
		"subtotal", out.Subtotal,
		"discount", out.TotalDiscount,
	)
	return out, nil
}
