// internal/types/evaluation.go
package types

// DoseEvaluation is the unit of work for one scanned or selected dose: the
// candidate, its detected issues, and the payment/clinical mutations applied
// while those issues are resolved. Created once per scan by the verifier,
// mutated in place by the resolution coordinator, committed to the staged
// checkout once its issue queue drains, discarded on cancel.
//
// Ownership: while an issue queue is active for this evaluation, only the
// resolution coordinator may mutate it.
type DoseEvaluation struct {
	ID                  DoseID
	Candidate           *DoseCandidate
	DoseSeries          int
	State               DoseState
	PaymentMode         PaymentMode
	OriginalPaymentMode PaymentMode
	PaymentModeReason   PaymentModeReason
	MarkCondition       MarkCondition
	Issues              []ProductIssue
	OrderNumber         string
	SourcesOnHand       []InventorySource
	Copay               *CopayInfo
}

// Active reports whether the dose still counts against duplicate checks.
func (e *DoseEvaluation) Active() bool {
	return e.State != DoseStateRemoved
}

// HasIssue reports whether any open issue carries the tag.
func (e *DoseEvaluation) HasIssue(tag IssueTag) bool {
	for _, i := range e.Issues {
		if i.Tag == tag {
			return true
		}
	}
	return false
}

// AddIssue appends the issue unless an equal one (tag plus payload) is
// already open.
func (e *DoseEvaluation) AddIssue(issue ProductIssue) {
	for _, i := range e.Issues {
		if i == issue {
			return
		}
	}
	e.Issues = append(e.Issues, issue)
}

// RemoveIssues drops open issues equal to any of the given ones.
func (e *DoseEvaluation) RemoveIssues(issues ...ProductIssue) {
	kept := e.Issues[:0]
	for _, open := range e.Issues {
		match := false
		for _, rm := range issues {
			if open == rm {
				match = true
				break
			}
		}
		if !match {
			kept = append(kept, open)
		}
	}
	e.Issues = kept
}

// RemoveIssuesByTag drops all open issues carrying any of the given tags,
// regardless of payload.
func (e *DoseEvaluation) RemoveIssuesByTag(tags ...IssueTag) {
	kept := e.Issues[:0]
	for _, open := range e.Issues {
		match := false
		for _, tag := range tags {
			if open.Tag == tag {
				match = true
				break
			}
		}
		if !match {
			kept = append(kept, open)
		}
	}
	e.Issues = kept
}

// SavePaymentRevert snapshots the current payment mode so a later revert can
// undo an override. Only the first snapshot per evaluation is kept.
func (e *DoseEvaluation) SavePaymentRevert() {
	if e.OriginalPaymentMode == PaymentModeUnspecified {
		e.OriginalPaymentMode = e.PaymentMode
	}
}

// OverridePayment flips the dose's payment mode and records why.
func (e *DoseEvaluation) OverridePayment(mode PaymentMode, reason PaymentModeReason) {
	e.PaymentMode = mode
	e.PaymentModeReason = reason
}

// StagedCheckout is the ordered list of dose evaluations for the in-progress
// visit. At most one evaluation per (product, lot) is active; the duplicate
// rules enforce it, with the duplicate-RSV exception capping one product at
// two doses.
type StagedCheckout struct {
	Doses []*DoseEvaluation
}

// Commit appends a fully resolved evaluation to the visit.
func (s *StagedCheckout) Commit(e *DoseEvaluation) {
	s.Doses = append(s.Doses, e)
}

// ActiveByLot returns the active staged dose with the lot number, or nil.
func (s *StagedCheckout) ActiveByLot(lotNumber string) *DoseEvaluation {
	for _, d := range s.Doses {
		if d.Active() && d.Candidate != nil && d.Candidate.LotNumber == lotNumber {
			return d
		}
	}
	return nil
}

// ActiveByProduct returns all active staged doses of the product.
func (s *StagedCheckout) ActiveByProduct(productID int) []*DoseEvaluation {
	var out []*DoseEvaluation
	for _, d := range s.Doses {
		if d.Active() && d.Candidate != nil && d.Candidate.Product.ID == productID {
			out = append(out, d)
		}
	}
	return out
}

// CountActiveProduct counts active staged doses of the product.
func (s *StagedCheckout) CountActiveProduct(productID int) int {
	return len(s.ActiveByProduct(productID))
}
