// internal/rules/stock.go
package rules

import "github.com/vaxcare/vaxhub/internal/types"

// WrongStockRule flags a candidate drawn from inventory the appointment's
// funding source does not hold. A lot with no positive on-hand anywhere is
// "new" stock and always allowed: the clinic is scanning a fresh shipment
// the snapshot has not caught up with.
type WrongStockRule struct {
	OnHand     []types.LotOnHand
	ApptSource types.InventorySource
}

func (r WrongStockRule) Validate(c *types.DoseCandidate) bool {
	anyPositive := false
	sourcePositive := false
	for _, row := range r.OnHand {
		if row.LotNumber != c.LotNumber || row.OnHand <= 0 {
			continue
		}
		anyPositive = true
		if row.Source == r.ApptSource {
			sourcePositive = true
		}
	}
	return anyPositive && !sourcePositive
}

func (r WrongStockRule) AssociatedIssue() types.ProductIssue {
	return types.NewIssue(types.IssueWrongStock)
}
