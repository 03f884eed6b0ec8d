// internal/rules/coverage.go
package rules

import (
	"time"

	"github.com/vaxcare/vaxhub/internal/types"
)

/*
 * Financial coverage rules.
 *
 * The general not-covered predicate is a dense boolean carried over intact
 * from the billing policy, including the edit-checkout-of-a-past-partner-bill
 * carve-out sitting outside the reject-code branch. Do not simplify it:
 * the clause grouping is load-bearing and reviewed as policy, not code.
 */

// NotOrderedRule flags a candidate no unlinked physician order can satisfy,
// under the right-patient-right-dose program. Off-program visits never flag.
type NotOrderedRule struct {
	Flags  types.FeatureFlags
	Orders []types.Order
}

func (r NotOrderedRule) Validate(c *types.DoseCandidate) bool {
	if !r.Flags.RprdAndNotLocallyCreated {
		return false
	}
	for _, o := range r.Orders {
		if o.Linked {
			continue
		}
		if o.Satisfies(c.Product.SalesProductID) {
			return false
		}
	}
	return true
}

func (r NotOrderedRule) AssociatedIssue() types.ProductIssue {
	return types.NewIssue(types.IssueProductNotOrdered)
}

// CopayReviewRule flags a Med-D vaccine on a Med-D visit whose copay check
// has not run yet. Only same-day service qualifies: back-dated checkouts
// cannot run an eligibility check.
type CopayReviewRule struct {
	Appt  *types.Appointment
	Today time.Time
	MedD  *types.MedDInfo
}

func (r CopayReviewRule) Validate(c *types.DoseCandidate) bool {
	if r.Appt == nil || !r.Appt.MedDVisit {
		return false
	}
	if !sameDate(r.Appt.DateOfService, r.Today) {
		return false
	}
	if r.MedD != nil {
		return false
	}
	return IsMedDAntigen(c.Product.Antigen)
}

func (r CopayReviewRule) AssociatedIssue() types.ProductIssue {
	return types.NewIssue(types.IssueCopayReview)
}

// NotCoveredNetworkRule surfaces the plan's not-in-network message on
// insurance-pay visits.
type NotCoveredNetworkRule struct {
	Appt *types.Appointment
}

func (r NotCoveredNetworkRule) Validate(c *types.DoseCandidate) bool {
	if r.Appt == nil || r.Appt.PaymentMethod != types.PaymentMethodInsurancePay {
		return false
	}
	return r.Appt.Risk.NotInNetwork && r.Appt.Risk.PrimaryMessage != ""
}

func (r NotCoveredNetworkRule) AssociatedIssue() types.ProductIssue {
	var msg string
	if r.Appt != nil {
		msg = r.Appt.Risk.PrimaryMessage
	}
	return types.NewNotCoveredNetworkIssue(msg)
}

// NotCoveredRule is the general not-covered predicate.
type NotCoveredRule struct {
	Appt *types.Appointment
	MedD *types.MedDInfo
}

func (r NotCoveredRule) Validate(c *types.DoseCandidate) bool {
	if r.Appt == nil {
		return false
	}
	if r.Appt.PaymentMethod == types.PaymentMethodSelfPay {
		return false
	}
	if !r.eligibleToChoosePaymentMode() {
		return false
	}
	hasCopay := r.MedD.CopayForAntigen(c.Product.Antigen) != nil
	if hasCopay && !r.MedD.RanAndIneligible() {
		return false
	}
	if IsMedBCoveredGroup(c.Product.InventoryGroup) {
		return false
	}
	if IsSeasonalAntigen(c.Product.Antigen) {
		return false
	}
	if r.Appt.EditCheckoutPastPartnerBill {
		return false
	}
	return true
}

// eligibleToChoosePaymentMode gates the payment-mode choice flow: private
// stock, plus one of the three Med-D qualifying paths.
func (r NotCoveredRule) eligibleToChoosePaymentMode() bool {
	if !r.Appt.PrivateStock() {
		return false
	}
	if r.Appt.MedDCanRun && r.Appt.MedDTagShown {
		return true
	}
	if r.Appt.PaymentMethod == types.PaymentMethodInsurancePay && IsMedDRejectCode(r.Appt.Risk.TopRejectCode) {
		return true
	}
	if r.Appt.PaymentMethod == types.PaymentMethodPartnerBill && r.MedD.RanAndIneligible() {
		return true
	}
	return false
}

func (r NotCoveredRule) AssociatedIssue() types.ProductIssue {
	return types.NewIssue(types.IssueProductNotCovered)
}

// NotCoveredRejectRule surfaces the qualifying risk reject code itself on
// insurance-pay visits outside the partner-bill edit carve-out.
type NotCoveredRejectRule struct {
	Appt *types.Appointment
}

func (r NotCoveredRejectRule) Validate(c *types.DoseCandidate) bool {
	if r.Appt == nil || r.Appt.PaymentMethod != types.PaymentMethodInsurancePay {
		return false
	}
	if r.Appt.EditCheckoutPastPartnerBill {
		return false
	}
	return IsMedDRejectCode(r.Appt.Risk.TopRejectCode)
}

func (r NotCoveredRejectRule) AssociatedIssue() types.ProductIssue {
	var code string
	if r.Appt != nil {
		code = r.Appt.Risk.TopRejectCode
	}
	return types.NewNotCoveredRejectIssue(code)
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
