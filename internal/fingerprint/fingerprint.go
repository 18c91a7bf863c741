// Package fingerprint derives a stable content-addressed identifier from a
// split request. Two requests describing the same split, regardless of the
// order of people or assignments, produce the same identifier, which makes
// stored results idempotent and share links deterministic.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	"github.com/snapsplit/snapsplit/internal/models"
)

// IDLength is the number of hex characters kept from the digest.
const IDLength = 12

// evenSplitMarker replaces the assignment list in the canonical payload when
// the bill is split evenly, so toggling the mode always changes the ID.
const evenSplitMarker = "SPLIT_EVENLY"

// assignmentKey is one assignment in canonical form: raw quantity and price
// text as submitted, assignees sorted.
type assignmentKey struct {
	ItemDesc   string   `json:"item_desc"`
	ItemQty    string   `json:"item_qty"`
	ItemPrice  string   `json:"item_price"`
	AssignedTo []string `json:"assigned_to"`
}

// payload is the canonical material hashed into the identifier. Field order
// is fixed by the struct; map keys are sorted by encoding/json.
type payload struct {
	ImageHash         string            `json:"image_bytes_hash"`
	People            []string          `json:"people"`
	Assignments       any               `json:"assignments"`
	Tax               string            `json:"tax"`
	Tip               string            `json:"tip"`
	SplitEvenly       bool              `json:"split_evenly"`
	ExtractedSubtotal float64           `json:"extracted_subtotal"`
	ExtractedDiscount float64           `json:"extracted_discount"`
	Notes             string            `json:"notes"`
	PaymentDetails    map[string]string `json:"payment_details"`
}

// Compute returns the 12-character hex identifier for a split request.
func Compute(req *models.SplitRequest) string {
	people := append([]string(nil), req.People...)
	sort.Strings(people)

	var assignments any = evenSplitMarker
	if !req.SplitEvenly {
		keys := make([]assignmentKey, 0, len(req.Assignments))
		for _, a := range req.Assignments {
			assigned := append([]string(nil), a.AssignedTo...)
			sort.Strings(assigned)
			keys = append(keys, assignmentKey{
				ItemDesc:   a.Item.Description,
				ItemQty:    a.Item.Quantity.String(),
				ItemPrice:  a.Item.Price.String(),
				AssignedTo: assigned,
			})
		}
		sort.Slice(keys, func(i, j int) bool { return keys[i].ItemDesc < keys[j].ItemDesc })
		assignments = keys
	}

	imageHash := ""
	if len(req.Image) > 0 {
		sum := sha256.Sum256(req.Image)
		imageHash = hex.EncodeToString(sum[:])
	}

	p := payload{
		ImageHash:         imageHash,
		People:            people,
		Assignments:       assignments,
		Tax:               req.Tax.String(),
		Tip:               req.Tip.String(),
		SplitEvenly:       req.SplitEvenly,
		ExtractedSubtotal: req.ExtractedSubtotal,
		ExtractedDiscount: req.Discount,
		Notes:             req.Notes,
		PaymentDetails:    req.PaymentDetails,
	}

	// Marshaling a fixed-field struct is deterministic, so equal payloads
	// always digest to equal identifiers.
	b, err := json.Marshal(p)
	if err != nil {
		// Only unmarshalable types can fail here, and payload has none.
		panic(err)
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])[:IDLength]
}
