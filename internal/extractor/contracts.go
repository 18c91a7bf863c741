// Package extractor defines the receipt-extraction boundary. The core only
// depends on the Extractor interface and the Receipt shape it returns; the
// gemini subpackage provides the real implementation.
package extractor

import (
	"context"
	"errors"

	"github.com/snapsplit/snapsplit/internal/models"
)

// ErrNotAReceipt is returned when the uploaded image is readable but does not
// look like a retail receipt or bill.
var ErrNotAReceipt = errors.New("image does not appear to be a receipt")

// Extractor turns a receipt image into structured receipt data.
// Implementations are expected to be time-bounded via ctx.
type Extractor interface {
	Extract(ctx context.Context, image []byte) (*models.Receipt, error)
}
