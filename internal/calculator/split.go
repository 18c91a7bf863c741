// Package calculator computes per-person bill splits with proportional
// tax, tip, and discount allocation.
package calculator

import (
	"errors"
	"log/slog"
	"math"

	"github.com/snapsplit/snapsplit/internal/models"
	"github.com/snapsplit/snapsplit/internal/numeric"
)

// ErrNoPeople is returned when a split is requested with an empty people
// list. It is the only structural failure; bad numbers degrade to defaults.
var ErrNoPeople = errors.New("at least one person is required to split the bill")

// evenShareItem labels the synthetic item recorded on each person when the
// bill is split evenly instead of by assignment.
const evenShareItem = "Even Share of Bill"

// Input carries everything ComputeSplit needs. Tax and Tip stay in raw text
// form and are price-normalized here; Discount is taken as an absolute value.
type Input struct {
	Assignments []models.Assignment
	Tax         models.RawNumber
	Tip         models.RawNumber
	People      []string
	SplitEvenly bool

	// EvenSplitSubtotal is the whole-bill subtotal used when SplitEvenly.
	EvenSplitSubtotal float64

	// Discount is the total reduction across the bill, non-negative.
	Discount float64
}

// ComputeSplit calculates how much each person owes.
//
// With SplitEvenly the post-discount subtotal is divided equally. Otherwise
// each assigned item's price is divided across its assignees, the discount is
// applied proportionally to each person's item subtotal, and tax and tip are
// distributed in proportion to the post-discount subtotals. Items assigned to
// nobody contribute nothing and are excluded from the proportional basis.
//
// All proportional math runs in full precision; rounding to cents (and to
// thousandths for quantity shares) is the final step, so per-person totals
// may drift from the inputs by a cent or two in aggregate.
func ComputeSplit(in Input) (models.SplitResult, error) {
	if len(in.People) == 0 {
		return nil, ErrNoPeople
	}

	tax, ok := numeric.Normalize(in.Tax.String(), numeric.Price)
	if !ok {
		tax = 0
	}
	tip, ok := numeric.Normalize(in.Tip.String(), numeric.Price)
	if !ok {
		tip = 0
	}
	discount := math.Abs(in.Discount)

	result := make(models.SplitResult, len(in.People))
	for _, name := range in.People {
		result[name] = &models.PersonSplit{Items: []models.ItemShare{}}
	}

	// basis is the post-discount subtotal that tax and tip proportion over.
	var basis float64

	if in.SplitEvenly {
		basis = in.EvenSplitSubtotal - discount
		if basis < 0 {
			basis = 0
		}
		perPerson := basis / float64(len(in.People))
		for _, name := range in.People {
			result[name].Subtotal = perPerson
			result[name].Items = append(result[name].Items, models.ItemShare{
				Item:          evenShareItem,
				QuantityShare: 1.0,
				UnitPrice:     perPerson,
				ShareCost:     perPerson,
			})
		}
	} else {
		var assignedSubtotal float64
		for _, a := range in.Assignments {
			if len(a.AssignedTo) == 0 {
				slog.Info("item not assigned to anyone, excluded from split",
					"item", a.Item.Description)
				continue
			}

			qty, ok := numeric.Normalize(a.Item.Quantity.String(), numeric.Quantity)
			if !ok {
				qty = 1.0
			}
			price, ok := numeric.Normalize(a.Item.Price.String(), numeric.Price)
			if !ok {
				price = 0.0
			}

			assignedSubtotal += price

			unitPrice := price
			if qty > 0 {
				unitPrice = price / qty
			}
			shares := float64(len(a.AssignedTo))
			costPerPerson := price / shares
			qtyPerPerson := qty / shares

			for _, name := range a.AssignedTo {
				ps, known := result[name]
				if !known {
					slog.Warn("assignee is not in the people list, skipping",
						"person", name, "item", a.Item.Description)
					continue
				}
				ps.Items = append(ps.Items, models.ItemShare{
					Item:          a.Item.Description,
					QuantityShare: qtyPerPerson,
					UnitPrice:     unitPrice,
					ShareCost:     costPerPerson,
				})
				ps.Subtotal += costPerPerson
			}
		}

		basis = assignedSubtotal
		if discount > 0 && assignedSubtotal > 0 {
			for _, name := range in.People {
				ps := result[name]
				share := discount * (ps.Subtotal / assignedSubtotal)
				ps.Subtotal -= share
				if ps.Subtotal < 0 {
					ps.Subtotal = 0
				}
			}
			basis -= discount
			if basis < 0 {
				basis = 0
			}
		} else if discount > 0 {
			// Discount with no assigned item costs to apply it against:
			// nothing to allocate, the tax/tip basis stays untouched.
			slog.Info("discount present but no assigned item costs, skipping allocation",
				"discount", discount)
		}
	}

	if basis == 0 {
		if tax > 0 || tip > 0 {
			n := float64(len(in.People))
			for _, name := range in.People {
				result[name].Tax = tax / n
				result[name].Tip = tip / n
			}
		}
	} else {
		for _, name := range in.People {
			ps := result[name]
			proportion := ps.Subtotal / basis
			ps.Tax = tax * proportion
			ps.Tip = tip * proportion
		}
	}

	for _, name := range in.People {
		ps := result[name]
		ps.Subtotal = round2(ps.Subtotal)
		ps.Tax = round2(ps.Tax)
		ps.Tip = round2(ps.Tip)
		ps.Total = round2(ps.Subtotal + ps.Tax + ps.Tip)
		for i := range ps.Items {
			ps.Items[i].QuantityShare = round3(ps.Items[i].QuantityShare)
			ps.Items[i].UnitPrice = round2(ps.Items[i].UnitPrice)
			ps.Items[i].ShareCost = round2(ps.Items[i].ShareCost)
		}
	}

	return result, nil
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
