// internal/rules/duplicates.go
package rules

import (
	"time"

	"github.com/vaxcare/vaxhub/internal/types"
)

// DuplicateLotRule flags a candidate whose lot number is already staged on
// an active (non-removed) dose. Blank lots are the missing-lot rule's job.
type DuplicateLotRule struct {
	Staged *types.StagedCheckout
}

func (r DuplicateLotRule) Validate(c *types.DoseCandidate) bool {
	if r.Staged == nil || c.LotNumber == "" {
		return false
	}
	return r.Staged.ActiveByLot(c.LotNumber) != nil
}

func (r DuplicateLotRule) AssociatedIssue() types.ProductIssue {
	return types.NewIssue(types.IssueDuplicateLot)
}

// DuplicateProductRule flags a candidate whose product is already staged on
// an active dose, regardless of lot.
type DuplicateProductRule struct {
	Staged *types.StagedCheckout
}

func (r DuplicateProductRule) Validate(c *types.DoseCandidate) bool {
	if r.Staged == nil {
		return false
	}
	return r.Staged.CountActiveProduct(c.Product.ID) > 0
}

func (r DuplicateProductRule) AssociatedIssue() types.ProductIssue {
	return types.NewIssue(types.IssueDuplicateProduct)
}

// DuplicateRsvRule detects the one allowed duplicate-dose scenario: a second
// dose of the designated RSV product for an infant inside the age window.
// The cap stays at two: with two active doses already staged the rule no
// longer applies and the plain duplicate issues stand. Defaults false with
// no DOB - the exception gates an allowance, so unknown age stays strict.
type DuplicateRsvRule struct {
	Staged *types.StagedCheckout
	DOB    *time.Time
	Now    time.Time
	Flags  types.FeatureFlags
}

func (r DuplicateRsvRule) Validate(c *types.DoseCandidate) bool {
	if r.Flags.DisableDuplicateRsv {
		return false
	}
	if c.Product.ID != RsvProductID {
		return false
	}
	if r.Staged == nil || r.DOB == nil {
		return false
	}
	ageDays := types.AgeInDays(*r.DOB, r.Now)
	if ageDays < rsvDuplicateMinAgeDays || ageDays > rsvDuplicateMaxAgeDays {
		return false
	}
	return r.Staged.CountActiveProduct(RsvProductID) == rsvDuplicateCap-1
}

func (r DuplicateRsvRule) AssociatedIssue() types.ProductIssue {
	return types.NewIssue(types.IssueDuplicateRsv)
}
