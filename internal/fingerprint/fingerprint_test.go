package fingerprint

import (
	"testing"

	"github.com/snapsplit/snapsplit/internal/models"
)

func sampleRequest() *models.SplitRequest {
	return &models.SplitRequest{
		People: []string{"Bob", "Alice", "Charlie"},
		Assignments: []models.Assignment{
			{
				Item:       models.ItemDetails{Description: "Fries", Quantity: "1", Price: "5.00"},
				AssignedTo: []string{"Charlie", "Alice", "Bob"},
			},
			{
				Item:       models.ItemDetails{Description: "Burger A", Quantity: "1", Price: "10.00"},
				AssignedTo: []string{"Alice"},
			},
		},
		Tax:            "2.70",
		Tip:            "4.00",
		Discount:       0,
		Image:          []byte("fake image bytes"),
		Notes:          "friday dinner",
		PaymentDetails: map[string]string{"method": "venmo", "handle": "@alice"},
	}
}

func TestComputeIsStable(t *testing.T) {
	a := Compute(sampleRequest())
	b := Compute(sampleRequest())
	if a != b {
		t.Errorf("repeated fingerprints differ: %s vs %s", a, b)
	}
	if len(a) != IDLength {
		t.Errorf("fingerprint length = %d, want %d", len(a), IDLength)
	}
}

func TestComputeIgnoresOrdering(t *testing.T) {
	base := Compute(sampleRequest())

	reordered := sampleRequest()
	reordered.People = []string{"Charlie", "Bob", "Alice"}
	reordered.Assignments[0], reordered.Assignments[1] = reordered.Assignments[1], reordered.Assignments[0]
	reordered.Assignments[1].AssignedTo = []string{"Bob", "Charlie", "Alice"}

	if got := Compute(reordered); got != base {
		t.Errorf("reordered request fingerprint = %s, want %s", got, base)
	}
}

func TestComputeSensitivity(t *testing.T) {
	base := Compute(sampleRequest())

	tests := []struct {
		name   string
		mutate func(r *models.SplitRequest)
	}{
		{"tax change", func(r *models.SplitRequest) { r.Tax = "2.71" }},
		{"tip change", func(r *models.SplitRequest) { r.Tip = "5.00" }},
		{"price change", func(r *models.SplitRequest) { r.Assignments[0].Item.Price = "5.01" }},
		{"assignee change", func(r *models.SplitRequest) { r.Assignments[1].AssignedTo = []string{"Bob"} }},
		{"extra person", func(r *models.SplitRequest) { r.People = append(r.People, "Dave") }},
		{"image change", func(r *models.SplitRequest) { r.Image = []byte("other bytes") }},
		{"notes change", func(r *models.SplitRequest) { r.Notes = "saturday dinner" }},
		{"payment change", func(r *models.SplitRequest) { r.PaymentDetails["method"] = "cash" }},
		{"even split toggle", func(r *models.SplitRequest) { r.SplitEvenly = true }},
		{"discount change", func(r *models.SplitRequest) { r.Discount = 3.00 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := sampleRequest()
			tt.mutate(r)
			if got := Compute(r); got == base {
				t.Errorf("%s did not change the fingerprint", tt.name)
			}
		})
	}
}

func TestComputeEvenSplitIgnoresAssignments(t *testing.T) {
	a := sampleRequest()
	a.SplitEvenly = true
	b := sampleRequest()
	b.SplitEvenly = true
	b.Assignments = nil

	if Compute(a) != Compute(b) {
		t.Error("assignments should not affect the fingerprint when splitting evenly")
	}
}

func TestComputeNoImage(t *testing.T) {
	r := sampleRequest()
	r.Image = nil
	if got := Compute(r); got == Compute(sampleRequest()) {
		t.Error("dropping the image should change the fingerprint")
	}
}
