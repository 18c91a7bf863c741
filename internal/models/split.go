package models

// ItemDetails describes the line item inside an assignment. Quantity and
// Price keep whatever text the extractor (or the user editing it) produced.
type ItemDetails struct {
	Description string    `json:"item"`
	Quantity    RawNumber `json:"qty"`
	Price       RawNumber `json:"price"`
}

// Assignment maps one line item to the set of people sharing it. An empty
// AssignedTo set means the item is excluded from the split entirely.
type Assignment struct {
	Item       ItemDetails `json:"item_details"`
	AssignedTo []string    `json:"assigned_to"`
}

// SplitRequest carries everything needed to compute and fingerprint a split.
type SplitRequest struct {
	// People are the names splitting the bill. Must be non-empty.
	People []string `json:"person_names"`

	// Assignments map items to people. Ignored when SplitEvenly is set.
	Assignments []Assignment `json:"item_assignments"`

	// Tax and Tip are the user-adjusted amounts for the whole bill.
	Tax RawNumber `json:"tax_amount"`
	Tip RawNumber `json:"tip_amount"`

	// SplitEvenly divides the extracted subtotal equally instead of using
	// per-item assignments.
	SplitEvenly bool `json:"split_evenly"`

	// ExtractedSubtotal is the receipt subtotal, used only when SplitEvenly.
	ExtractedSubtotal float64 `json:"extracted_subtotal"`

	// Discount is the total reduction to apply, always non-negative.
	Discount float64 `json:"extracted_total_discount"`

	// Image is the processed receipt image; its content hash feeds the
	// fingerprint. JSON encoding is standard base64.
	Image []byte `json:"image,omitempty"`

	// Receipt is the original extractor output, persisted verbatim.
	Receipt *Receipt `json:"original_parsed_data,omitempty"`

	// Notes is free text attached by the user.
	Notes string `json:"notes,omitempty"`

	// PaymentDetails holds payment metadata such as method or handle.
	PaymentDetails map[string]string `json:"payment_details,omitempty"`
}

// ItemShare is one person's fractional claim on a single line item.
type ItemShare struct {
	// Item is the line item description.
	Item string `json:"item"`

	// QuantityShare is the item quantity divided among its assignees.
	QuantityShare float64 `json:"qty_share"`

	// UnitPrice is the price of a single unit of the item.
	UnitPrice float64 `json:"price_per_unit"`

	// ShareCost is this person's portion of the item's total price.
	ShareCost float64 `json:"share_cost"`
}

// PersonSplit is one person's computed share of the bill. All amounts are
// rounded to cents and Total = Subtotal + Tax + Tip holds after rounding.
type PersonSplit struct {
	Items    []ItemShare `json:"items"`
	Subtotal float64     `json:"subtotal"`
	Tax      float64     `json:"tax"`
	Tip      float64     `json:"tip"`
	Total    float64     `json:"total"`
}

// SplitResult maps each person to their computed share.
type SplitResult map[string]*PersonSplit

// SplitRecord is the persisted snapshot of a computed split, keyed by its
// content fingerprint. Written once, never updated or deleted here; lifecycle
// belongs to the store.
type SplitRecord struct {
	// ID is the 12-character content fingerprint of the request.
	ID string `json:"split_id"`

	// Receipt is the original extractor output at computation time.
	Receipt *Receipt `json:"original_parsed_data,omitempty"`

	// People, Assignments, SplitEvenly, Discount, Tax and Tip snapshot the
	// request so the split can be faithfully reconstructed.
	People      []string     `json:"person_names"`
	Assignments []Assignment `json:"item_assignments"`
	SplitEvenly bool         `json:"split_evenly_choice"`
	Discount    float64      `json:"total_discount_applied"`
	Tax         float64      `json:"user_adjusted_tax"`
	Tip         float64      `json:"user_adjusted_tip"`

	// Result is the computed per-person breakdown.
	Result SplitResult `json:"calculated_split_results"`

	// ImageRef names the stored receipt image, empty when none was kept.
	ImageRef string `json:"image_ref,omitempty"`

	// ShareLink is the stable URL for viewing this split.
	ShareLink string `json:"share_link"`

	// Notes and PaymentDetails carry over from the request.
	Notes          string            `json:"notes,omitempty"`
	PaymentDetails map[string]string `json:"payment_details,omitempty"`

	// CreatedAt is the Unix timestamp when the record was first written.
	CreatedAt int64 `json:"creation_timestamp"`
}
