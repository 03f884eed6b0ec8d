// Package verifier orchestrates the full validation rule set against one
// candidate dose, producing the DoseEvaluation the checkout flow works on.
package verifier

import (
	"time"

	"github.com/vaxcare/vaxhub/internal/rules"
	"github.com/vaxcare/vaxhub/internal/types"
)

/*
 * ProductVerifier.
 *
 * Pure given its inputs: no I/O, no clock reads beyond the injected Now.
 * Rule evaluation order never changes the outcome, only issue-set
 * membership; the list below is fixed for readability, not semantics.
 *
 * Builder steps:
 *   1. Resolve the patient DOB (manual override beats the appointment's).
 *   2. Collect inventory sources holding this lot (builder metadata).
 *   3. Compute the optional payment-mode override.
 *   4. Fold every rule, adding each associated issue on a true predicate.
 */

// VerifyRequest carries everything one verification pass reads.
type VerifyRequest struct {
	Candidate    *types.DoseCandidate
	Appointment  *types.Appointment
	Staged       *types.StagedCheckout
	DoseSeries   int
	ManualDOB    *time.Time
	InitialState types.DoseState
	OnHand       []types.LotOnHand
	VaxCare3     bool
	MedD         *types.MedDInfo
}

// ProductVerifier runs the validation rule set for one clinic session.
type ProductVerifier struct {
	Flags types.FeatureFlags
	Now   func() time.Time
}

// New returns a verifier with the wall clock.
func New(flags types.FeatureFlags) *ProductVerifier {
	return &ProductVerifier{Flags: flags, Now: time.Now}
}

// Verify classifies the candidate against the full rule set and builds its
// evaluation. Returns nil only when the required inputs are absent; every
// data-quality problem beyond that surfaces as an issue, never as an error.
func (v *ProductVerifier) Verify(req VerifyRequest) *types.DoseEvaluation {
	if req.Candidate == nil || req.Appointment == nil {
		return nil
	}
	now := v.now()

	dob := req.ManualDOB
	if dob == nil {
		if parsed, err := req.Appointment.Patient.ParseDOB(); err == nil {
			dob = &parsed
		}
	}

	state := req.InitialState
	if state == types.DoseStateUnspecified {
		state = types.DoseStateAdded
	}

	eval := &types.DoseEvaluation{
		ID:            types.NewDoseID(),
		Candidate:     req.Candidate,
		DoseSeries:    req.DoseSeries,
		State:         state,
		PaymentMode:   defaultMode(req.Appointment.PaymentMethod),
		SourcesOnHand: sourcesOnHand(req.Candidate.LotNumber, req.OnHand),
		Copay:         req.Candidate.Copay,
	}

	// InsurancePay override: VaxCare3 mode, a copay exists for the antigen,
	// Med-D came back eligible, and the dose is not already insurance-pay.
	if req.VaxCare3 && req.MedD != nil && req.MedD.Eligible &&
		req.MedD.CopayForAntigen(req.Candidate.Product.Antigen) != nil &&
		eval.PaymentMode != types.PaymentModeInsurancePay {
		eval.PaymentMode = types.PaymentModeInsurancePay
	}

	for _, r := range v.ruleSet(req, dob, now) {
		if r.Validate(req.Candidate) {
			eval.AddIssue(r.AssociatedIssue())
		}
	}

	return eval
}

// ruleSet constructs the full rule list for one pass.
func (v *ProductVerifier) ruleSet(req VerifyRequest, dob *time.Time, now time.Time) []rules.Rule {
	appt := req.Appointment
	return []rules.Rule{
		rules.MissingLotNumberRule{},
		rules.DoseExpiredRule{Today: now},
		rules.AgeIndicatedRule{DOB: dob, Gender: appt.Patient.Gender, Now: now},
		rules.NewOutOfAgeWarningRule(req.Candidate, dob, appt.Patient.Gender, now),
		rules.NotOrderedRule{Flags: v.Flags, Orders: appt.Orders},
		rules.DuplicateLotRule{Staged: req.Staged},
		rules.DuplicateProductRule{Staged: req.Staged},
		rules.DuplicateRsvRule{Staged: req.Staged, DOB: dob, Now: now, Flags: v.Flags},
		rules.LarcAddedRule{},
		rules.RouteSelectionRule{},
		rules.WrongStockRule{OnHand: req.OnHand, ApptSource: appt.InventorySource},
		rules.CopayReviewRule{Appt: appt, Today: now, MedD: req.MedD},
		rules.NotCoveredNetworkRule{Appt: appt},
		rules.NotCoveredRule{Appt: appt, MedD: req.MedD},
		rules.NotCoveredRejectRule{Appt: appt},
	}
}

func (v *ProductVerifier) now() time.Time {
	if v.Now != nil {
		return v.Now()
	}
	return time.Now()
}

// defaultMode maps the visit-level payment method to the dose-level mode.
func defaultMode(method types.PaymentMethod) types.PaymentMode {
	switch method {
	case types.PaymentMethodSelfPay:
		return types.PaymentModeSelfPay
	case types.PaymentMethodPartnerBill, types.PaymentMethodEmployerPay:
		return types.PaymentModePartnerBill
	case types.PaymentMethodNoPay:
		return types.PaymentModeNoPay
	default:
		return types.PaymentModeInsurancePay
	}
}

// sourcesOnHand lists the distinct funding sources holding the lot.
func sourcesOnHand(lotNumber string, onHand []types.LotOnHand) []types.InventorySource {
	var out []types.InventorySource
	seen := make(map[types.InventorySource]bool)
	for _, row := range onHand {
		if row.LotNumber != lotNumber || row.OnHand <= 0 || seen[row.Source] {
			continue
		}
		seen[row.Source] = true
		out = append(out, row.Source)
	}
	return out
}
