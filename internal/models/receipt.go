package models

// Receipt is the structured output of the receipt extractor. All fields are
// optional; a receipt with neither line items nor a total is treated as an
// extraction failure by the caller. Immutable once extracted.
type Receipt struct {
	// StoreName is the merchant name printed on the receipt.
	StoreName string `json:"store_name,omitempty"`

	// TransactionDate is the purchase date (YYYY-MM-DD) if legible.
	TransactionDate string `json:"transaction_date,omitempty"`

	// TransactionTime is the purchase time (HH:MM) if legible.
	TransactionTime string `json:"transaction_time,omitempty"`

	// LineItems are the purchased items in printed order.
	LineItems []LineItem `json:"line_items"`

	// Discounts are reductions applied to the bill, amounts positive.
	Discounts []Discount `json:"discounts,omitempty"`

	// TaxDetails are the individual taxes and charges.
	TaxDetails []TaxDetail `json:"tax_details,omitempty"`

	// Subtotal is the printed pre-tax, pre-discount amount.
	Subtotal RawNumber `json:"subtotal,omitempty"`

	// TotalAmount is the printed grand total.
	TotalAmount RawNumber `json:"total_amount,omitempty"`

	// TipAmount is the printed tip or gratuity, if any.
	TipAmount RawNumber `json:"tip_amount,omitempty"`
}

// LineItem is one purchased item. TotalPrice covers the full quantity, not a
// single unit.
type LineItem struct {
	Description string    `json:"item_description"`
	Quantity    RawNumber `json:"quantity"`
	TotalPrice  RawNumber `json:"item_total_price"`
}

// Discount is one reduction line on the receipt. Amount is positive even
// though it reduces the bill.
type Discount struct {
	Description string    `json:"description"`
	Amount      RawNumber `json:"amount"`
}

// TaxDetail is one tax or charge line on the receipt.
type TaxDetail struct {
	Label  string    `json:"tax_label"`
	Amount RawNumber `json:"tax_amount"`
}
