// internal/rules/misc.go
package rules

import (
	"strings"
	"time"

	"github.com/vaxcare/vaxhub/internal/types"
)

// DoseExpiredRule flags a candidate whose lot expiration date is strictly
// before today. Date-only comparison: a dose expiring today is still usable.
type DoseExpiredRule struct {
	Today time.Time
}

func (r DoseExpiredRule) Validate(c *types.DoseCandidate) bool {
	if c.Expiration == nil {
		return false
	}
	exp := dateOnly(*c.Expiration)
	return exp.Before(dateOnly(r.Today))
}

func (r DoseExpiredRule) AssociatedIssue() types.ProductIssue {
	return types.NewIssue(types.IssueExpired)
}

// MissingLotNumberRule flags a candidate with a blank lot number.
type MissingLotNumberRule struct{}

func (MissingLotNumberRule) Validate(c *types.DoseCandidate) bool {
	return strings.TrimSpace(c.LotNumber) == ""
}

func (MissingLotNumberRule) AssociatedIssue() types.ProductIssue {
	return types.NewIssue(types.IssueMissingLotNumber)
}

// LarcAddedRule flags LARC products, which route through their own workflow.
type LarcAddedRule struct{}

func (LarcAddedRule) Validate(c *types.DoseCandidate) bool {
	return c.Product.Category == types.CategoryLarc
}

func (LarcAddedRule) AssociatedIssue() types.ProductIssue {
	return types.NewIssue(types.IssueLarcAdded)
}

// RouteSelectionRule flags products whose antigen requires an explicit
// administration route choice.
type RouteSelectionRule struct{}

func (RouteSelectionRule) Validate(c *types.DoseCandidate) bool {
	return RequiresRouteSelection(c.Product.Antigen)
}

func (RouteSelectionRule) AssociatedIssue() types.ProductIssue {
	return types.NewIssue(types.IssueRouteSelectionRequired)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
