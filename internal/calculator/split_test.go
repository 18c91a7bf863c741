package calculator

import (
	"math"
	"testing"

	"github.com/snapsplit/snapsplit/internal/models"
)

func assign(item, qty, price string, people ...string) models.Assignment {
	return models.Assignment{
		Item:       models.ItemDetails{Description: item, Quantity: models.RawNumber(qty), Price: models.RawNumber(price)},
		AssignedTo: people,
	}
}

func TestComputeSplit(t *testing.T) {
	tests := []struct {
		name         string
		in           Input
		wantErr      bool
		validateFunc func(t *testing.T, result models.SplitResult)
	}{
		{
			name: "assignment scenario with shared item",
			in: Input{
				Assignments: []models.Assignment{
					assign("Burger A", "1", "10.00", "Alice"),
					assign("Burger B", "1", "12.00", "Bob"),
					assign("Fries", "1", "5.00", "Alice", "Bob", "Charlie"),
				},
				Tax:    "2.70",
				Tip:    "4.00",
				People: []string{"Alice", "Bob", "Charlie"},
			},
			validateFunc: func(t *testing.T, result models.SplitResult) {
				// Basis 27.00: Alice 10+5/3=11.67, Bob 12+5/3=13.67, Charlie 5/3=1.67
				checkAmount(t, "Alice subtotal", result["Alice"].Subtotal, 11.67)
				checkAmount(t, "Bob subtotal", result["Bob"].Subtotal, 13.67)
				checkAmount(t, "Charlie subtotal", result["Charlie"].Subtotal, 1.67)
				// Tax/tip proportional to subtotals.
				checkAmount(t, "Alice tax", result["Alice"].Tax, 2.70*(11.0+5.0/3)/27.0)
				checkAmount(t, "Charlie tip", result["Charlie"].Tip, 4.00*(5.0/3)/27.0)
				// Shared item share bookkeeping.
				fries := result["Charlie"].Items[0]
				checkAmount(t, "fries share cost", fries.ShareCost, 1.67)
				if math.Abs(fries.QuantityShare-0.333) > 1e-9 {
					t.Errorf("fries quantity share = %v, want 0.333", fries.QuantityShare)
				}
			},
		},
		{
			name: "even split with discount",
			in: Input{
				Tax:               "2.00",
				Tip:               "4.00",
				People:            []string{"A", "B", "C"},
				SplitEvenly:       true,
				EvenSplitSubtotal: 27.00,
				Discount:          7.00,
			},
			validateFunc: func(t *testing.T, result models.SplitResult) {
				// Post-discount basis 20.00 split three ways.
				for _, name := range []string{"A", "B", "C"} {
					checkAmount(t, name+" subtotal", result[name].Subtotal, 6.67)
					checkAmount(t, name+" tax", result[name].Tax, 0.67)
					checkAmount(t, name+" tip", result[name].Tip, 1.33)
					if len(result[name].Items) != 1 || result[name].Items[0].Item != evenShareItem {
						t.Errorf("%s items = %+v, want single even share", name, result[name].Items)
					}
				}
			},
		},
		{
			name: "assignment with proportional discount",
			in: Input{
				Assignments: []models.Assignment{
					assign("Burger A", "1", "10.00", "Alice"),
					assign("Burger B", "1", "12.00", "Bob"),
					assign("Fries", "1", "5.00", "Alice", "Bob", "Charlie"),
				},
				Tax:      "2.00",
				Tip:      "4.00",
				People:   []string{"Alice", "Bob", "Charlie"},
				Discount: 7.00,
			},
			validateFunc: func(t *testing.T, result models.SplitResult) {
				// Alice share of discount: 7 * (11.667/27) = 3.025 -> 8.64
				checkAmount(t, "Alice subtotal", result["Alice"].Subtotal, 8.64)
				// Post-discount basis is 20.00, proportions use discounted subtotals.
				checkAmount(t, "Alice tax", result["Alice"].Tax, 2.00*(11.0+5.0/3)*(1-7.0/27.0)/20.0)
			},
		},
		{
			name: "unassigned item excluded from everything",
			in: Input{
				Assignments: []models.Assignment{
					assign("Pizza", "1", "20.00", "Alice", "Bob"),
					assign("Salad", "1", "10.00"),
				},
				Tax:    "2.00",
				Tip:    "0",
				People: []string{"Alice", "Bob"},
			},
			validateFunc: func(t *testing.T, result models.SplitResult) {
				// Salad contributes to nothing: basis is 20.00, not 30.00.
				checkAmount(t, "Alice subtotal", result["Alice"].Subtotal, 10.00)
				checkAmount(t, "Bob subtotal", result["Bob"].Subtotal, 10.00)
				checkAmount(t, "Alice tax", result["Alice"].Tax, 1.00)
				checkAmount(t, "Bob tax", result["Bob"].Tax, 1.00)
			},
		},
		{
			name: "no assigned costs distributes tax and tip evenly",
			in: Input{
				Assignments: []models.Assignment{
					assign("Pizza", "1", "20.00"),
				},
				Tax:    "3.00",
				Tip:    "6.00",
				People: []string{"Alice", "Bob", "Charlie"},
			},
			validateFunc: func(t *testing.T, result models.SplitResult) {
				for _, name := range []string{"Alice", "Bob", "Charlie"} {
					checkAmount(t, name+" subtotal", result[name].Subtotal, 0)
					checkAmount(t, name+" tax", result[name].Tax, 1.00)
					checkAmount(t, name+" tip", result[name].Tip, 2.00)
					checkAmount(t, name+" total", result[name].Total, 3.00)
				}
			},
		},
		{
			name: "discount with zero assigned subtotal is skipped",
			in: Input{
				Assignments: []models.Assignment{
					assign("Pizza", "1", "20.00"),
				},
				Tax:      "3.00",
				Tip:      "0",
				People:   []string{"Alice", "Bob", "Charlie"},
				Discount: 5.00,
			},
			validateFunc: func(t *testing.T, result models.SplitResult) {
				// Discount cannot be allocated; basis stays zero and tax splits evenly.
				for _, name := range []string{"Alice", "Bob", "Charlie"} {
					checkAmount(t, name+" subtotal", result[name].Subtotal, 0)
					checkAmount(t, name+" tax", result[name].Tax, 1.00)
				}
			},
		},
		{
			name: "unparseable quantity and price fall back to defaults",
			in: Input{
				Assignments: []models.Assignment{
					assign("Mystery", "??", "what", "Alice"),
					assign("Coke", "x2", "5,00", "Alice"),
				},
				Tax:    "",
				Tip:    "",
				People: []string{"Alice"},
			},
			validateFunc: func(t *testing.T, result models.SplitResult) {
				// Mystery: qty 1, price 0. Coke: qty 2, price 5.00.
				checkAmount(t, "Alice subtotal", result["Alice"].Subtotal, 5.00)
				checkAmount(t, "Alice total", result["Alice"].Total, 5.00)
				coke := result["Alice"].Items[1]
				checkAmount(t, "coke unit price", coke.UnitPrice, 2.50)
				if math.Abs(coke.QuantityShare-2.0) > 1e-9 {
					t.Errorf("coke quantity share = %v, want 2.0", coke.QuantityShare)
				}
			},
		},
		{
			name:    "no people",
			in:      Input{Tax: "1.00", People: nil},
			wantErr: true,
		},
		{
			name: "discount larger than even subtotal floors at zero",
			in: Input{
				Tax:               "2.00",
				Tip:               "0",
				People:            []string{"Alice", "Bob"},
				SplitEvenly:       true,
				EvenSplitSubtotal: 10.00,
				Discount:          25.00,
			},
			validateFunc: func(t *testing.T, result models.SplitResult) {
				// Basis floors at 0, so tax falls back to an even split.
				for _, name := range []string{"Alice", "Bob"} {
					checkAmount(t, name+" subtotal", result[name].Subtotal, 0)
					checkAmount(t, name+" tax", result[name].Tax, 1.00)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ComputeSplit(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ComputeSplit() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if tt.validateFunc != nil {
				tt.validateFunc(t, result)
			}
			for name, ps := range result {
				if math.Abs(ps.Total-(ps.Subtotal+ps.Tax+ps.Tip)) > 0.005 {
					t.Errorf("%s total %v != subtotal+tax+tip", name, ps.Total)
				}
			}
		})
	}
}

// TestComputeSplitBalances checks the money-conservation property: the sum of
// per-person totals stays within rounding tolerance of basis + tax + tip.
func TestComputeSplitBalances(t *testing.T) {
	in := Input{
		Assignments: []models.Assignment{
			assign("Ramen", "2", "23.50", "Alice", "Bob"),
			assign("Gyoza", "1", "7.25", "Alice", "Bob", "Charlie"),
			assign("Beer", "3", "16.80", "Bob", "Charlie"),
			assign("Mochi", "1", "4.10", "Charlie"),
		},
		Tax:      "4.31",
		Tip:      "9.00",
		People:   []string{"Alice", "Bob", "Charlie"},
		Discount: 5.50,
	}
	result, err := ComputeSplit(in)
	if err != nil {
		t.Fatalf("ComputeSplit() error = %v", err)
	}

	basis := 23.50 + 7.25 + 16.80 + 4.10 - 5.50
	want := basis + 4.31 + 9.00
	var got float64
	for _, ps := range result {
		got += ps.Total
	}
	tolerance := 0.01 * float64(len(in.People))
	if math.Abs(got-want) > tolerance {
		t.Errorf("sum of totals = %v, want %v within %v", got, want, tolerance)
	}
}

func checkAmount(t *testing.T, label string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 0.01 {
		t.Errorf("%s = %v, want %v", label, got, want)
	}
}
