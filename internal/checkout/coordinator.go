// internal/checkout/coordinator.go
package checkout

import (
	"log"
	"strconv"

	"github.com/vaxcare/vaxhub/internal/rules"
	"github.com/vaxcare/vaxhub/internal/types"
)

/*
 * Resolution coordinator.
 *
 * Interprets one user response to one surfaced issue: decides the next
 * queue mutation (force-add/force-remove/cancel) and applies the payment
 * and clinical mutations to the dose under resolution. The coordinator
 * owns the DoseEvaluation for the duration of the flow; nothing else may
 * mutate it while the queue is active.
 *
 * Unknown actions and mistyped results are logged and ignored - the
 * coordinator tolerates being wired to a dialog it does not recognize
 * without crashing the flow.
 */

// Coordinator applies resolution decisions to the dose under resolution.
type Coordinator struct {
	Eval        *types.DoseEvaluation
	Staged      *types.StagedCheckout
	Appointment *types.Appointment
	Metrics     MetricReporter
}

// NewCoordinator wires a coordinator for one dose's resolution flow.
// A nil reporter falls back to the no-op sink.
func NewCoordinator(eval *types.DoseEvaluation, staged *types.StagedCheckout, appt *types.Appointment, metrics MetricReporter) *Coordinator {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &Coordinator{Eval: eval, Staged: staged, Appointment: appt, Metrics: metrics}
}

// ProcessDialogResponse dispatches one dialog answer to its handler and
// reports what the caller still has to present.
func (c *Coordinator) ProcessDialogResponse(action DialogAction, result DialogResult, q *IssueQueue) PendingAction {
	switch action {
	case DialogDuplicateRsv:
		if res, ok := result.(RsvResult); ok {
			return c.handleDuplicateRsv(res, q)
		}
	case DialogMedDCopayCheck:
		if res, ok := result.(CopayCheckResult); ok {
			return c.handleCopayCheck(res, q)
		}
	case DialogAgeWarningPrompt:
		if res, ok := result.(BoolPromptResult); ok {
			return c.handleAgeWarning(res.Affirmed, q)
		}
	case DialogWeeksPregnant:
		if res, ok := result.(WeeksPregnantResult); ok {
			qualifies := res.Weeks >= rules.WeeksPregnantMin && res.Weeks <= rules.WeeksPregnantMax
			return c.handleAgeWarning(qualifies, q)
		}
	case DialogOutOfAgeExclusion, DialogNotCoveredExclusion, DialogMedDExclusion:
		if res, ok := result.(PaymentFlipResult); ok {
			return c.handlePaymentFlip(action, res, q)
		}
	case DialogScannedDoseIssue:
		if res, ok := result.(AckResult); ok {
			return c.handleScannedDoseIssue(res, q)
		}
	case DialogRouteRequired:
		if res, ok := result.(RouteResult); ok {
			return c.handleRoute(res)
		}
	case DialogWrongStock:
		if res, ok := result.(WrongStockResult); ok {
			return c.handleWrongStock(res, q)
		}
	case DialogAddIssue:
		if res, ok := result.(AddIssueResult); ok {
			q.ForceAddIssue(res.Issue)
			c.Metrics.Report(MetricIssueInjected, map[string]string{"tag": strconv.Itoa(int(res.Issue.Tag))})
			return PendingNone
		}
	}

	log.Printf("checkout: ignoring unrecognized dialog response (action=%d)", action)
	c.Metrics.Report(MetricUnknownDialogAction, map[string]string{"action": strconv.Itoa(int(action))})
	return PendingNone
}

// handleDuplicateRsv resolves the second-RSV-dose dialog. Accepting the
// dose under partner-bill or self-pay also schedules the same override for
// the sibling staged dose - applied only if this dose survives the queue.
func (c *Coordinator) handleDuplicateRsv(res RsvResult, q *IssueQueue) PendingAction {
	switch res.Choice {
	case RsvRemoveDose:
		q.CancelPendingIssues()
		c.Metrics.Report(MetricRsvResolved, map[string]string{"choice": "remove_dose"})
		return PendingNone

	case RsvKeepDose:
		q.ForceRemoveIssues(types.NewIssue(types.IssueDuplicateLot), types.NewIssue(types.IssueDuplicateProduct))
		c.linkSiblingOrder()
		c.Metrics.Report(MetricRsvResolved, map[string]string{"choice": "keep_dose"})
		return PendingNone

	case RsvPartnerBill, RsvSelfPay:
		mode := types.PaymentModePartnerBill
		choice := "partner_bill"
		if res.Choice == RsvSelfPay {
			mode = types.PaymentModeSelfPay
			choice = "self_pay"
		}

		q.ForceRemoveIssues(types.NewIssue(types.IssueDuplicateLot), types.NewIssue(types.IssueDuplicateProduct))
		c.Eval.SavePaymentRevert()
		c.linkSiblingOrder()
		c.Eval.OverridePayment(mode, types.ReasonImmunizationsNotCovered)
		c.Eval.MarkCondition = types.MarkNotCovered

		sibling := c.siblingDose()
		q.AddActionAfterIssuesResolved(func() {
			// The dose was kept; the already-staged duplicate now carries
			// the same override.
			if sibling != nil {
				sibling.SavePaymentRevert()
				sibling.OverridePayment(mode, types.ReasonImmunizationsNotCovered)
				sibling.MarkCondition = types.MarkNotCovered
			}
		})
		c.Metrics.Report(MetricRsvResolved, map[string]string{"choice": choice})
		return PendingNone
	}
	return PendingNone
}

// handleCopayCheck resolves the Med-D copay-check dialog.
func (c *Coordinator) handleCopayCheck(res CopayCheckResult, q *IssueQueue) PendingAction {
	if !res.Matched {
		q.ForceAddIssue(types.NewIssue(types.IssueProductNotCovered))
		c.Metrics.Report(MetricCopayChecked, map[string]string{"matched": "false"})
		return PendingNone
	}

	q.ForceRemoveIssues(types.NewIssue(types.IssueProductNotCovered))
	c.Eval.RemoveIssuesByTag(types.IssueProductNotCovered)
	c.Eval.Copay = res.Copay
	c.Metrics.Report(MetricCopayChecked, map[string]string{"matched": "true"})
	return PendingNone
}

// handleAgeWarning resolves the boolean age-warning prompts. A qualifying
// answer clears the out-of-age issue from queue and dose; a non-qualifying
// answer forces it back.
func (c *Coordinator) handleAgeWarning(qualifies bool, q *IssueQueue) PendingAction {
	if qualifies {
		q.ForceRemoveIssues(types.NewIssue(types.IssueOutOfAgeIndication))
		c.Eval.RemoveIssuesByTag(types.IssueOutOfAgeIndication)
	} else {
		q.ForceAddIssue(types.NewIssue(types.IssueOutOfAgeIndication))
	}
	c.Metrics.Report(MetricAgeWarningAnswered, map[string]string{"qualifies": strconv.FormatBool(qualifies)})
	return PendingNone
}

// handlePaymentFlip resolves the three-way payment exclusion dialogs:
// positive flips to partner-bill, neutral to self-pay, cancel abandons the
// dose as missing-info/no-pay.
func (c *Coordinator) handlePaymentFlip(action DialogAction, res PaymentFlipResult, q *IssueQueue) PendingAction {
	if res.Button == ButtonCancel {
		q.CancelPendingIssues()
		c.Eval.MarkCondition = types.MarkMissingInfo
		c.Eval.PaymentMode = types.PaymentModeNoPay
		// No flavor on cancel: the flavor qualifies an override that was
		// never applied.
		c.Metrics.Report(MetricPaymentFlip, map[string]string{"outcome": "cancel"})
		return PendingNone
	}

	mode := types.PaymentModePartnerBill
	if res.Button == ButtonNeutral {
		mode = types.PaymentModeSelfPay
	}

	reason := types.ReasonImmunizationsNotCovered
	mark := types.MarkNotCovered
	if action == DialogOutOfAgeExclusion {
		reason = types.ReasonOutOfAgeIndication
		mark = types.MarkOutOfAge
	}

	c.Eval.SavePaymentRevert()
	c.Eval.OverridePayment(mode, reason)
	c.Eval.MarkCondition = mark
	c.Metrics.Report(MetricPaymentFlip, map[string]string{"outcome": flipOutcome(res.Button), "flavor": c.flipFlavor()})
	return PendingNone
}

// handleScannedDoseIssue resolves the miscellaneous scanned-dose dialog:
// cancel abandons the flow, anything else acknowledges the popped issue.
func (c *Coordinator) handleScannedDoseIssue(res AckResult, q *IssueQueue) PendingAction {
	if res.Button == ButtonCancel {
		q.CancelPendingIssues()
		c.Metrics.Report(MetricIssueAcknowledged, map[string]string{"outcome": "cancel"})
		return PendingNone
	}
	c.Metrics.Report(MetricIssueAcknowledged, map[string]string{"outcome": "acknowledged"})
	return PendingNone
}

// handleRoute records the chosen administration route on the dose's product.
func (c *Coordinator) handleRoute(res RouteResult) PendingAction {
	if c.Eval.Candidate != nil {
		c.Eval.Candidate.Product.Route = res.Route
	}
	c.Metrics.Report(MetricRouteSelected, map[string]string{"route": string(res.Route)})
	return PendingNone
}

// handleWrongStock resolves the wrong-stock dialog. Stock selection itself
// belongs to the external caller; SET_STOCK only signals it.
func (c *Coordinator) handleWrongStock(res WrongStockResult, q *IssueQueue) PendingAction {
	switch res.Choice {
	case StockRemoveDose:
		q.CancelPendingIssues()
		c.Metrics.Report(MetricWrongStockResolved, map[string]string{"choice": "remove_dose"})
		return PendingNone
	case StockSetStock:
		c.Metrics.Report(MetricWrongStockResolved, map[string]string{"choice": "set_stock"})
		return PendingSetStock
	default:
		c.Metrics.Report(MetricWrongStockResolved, map[string]string{"choice": "keep_dose"})
		return PendingNone
	}
}

// siblingDose returns the already-staged active dose of the same product,
// excluding the dose under resolution.
func (c *Coordinator) siblingDose() *types.DoseEvaluation {
	if c.Staged == nil || c.Eval == nil || c.Eval.Candidate == nil {
		return nil
	}
	for _, d := range c.Staged.ActiveByProduct(c.Eval.Candidate.Product.ID) {
		if d != c.Eval {
			return d
		}
	}
	return nil
}

// linkSiblingOrder carries the order number from the already-staged
// duplicate dose onto the dose under resolution.
func (c *Coordinator) linkSiblingOrder() {
	if sibling := c.siblingDose(); sibling != nil {
		c.Eval.OrderNumber = sibling.OrderNumber
	}
}

// flipFlavor picks the payment-flip metric flavor from the appointment's
// Med-D call-to-action.
func (c *Coordinator) flipFlavor() string {
	if c.Appointment != nil && c.Appointment.Risk.MedDCta == types.CtaNone {
		return flipFlavorCopayUnavailable
	}
	return flipFlavorDoseNotCovered
}

func flipOutcome(b DialogButton) string {
	switch b {
	case ButtonPositive:
		return "partner_bill"
	case ButtonNeutral:
		return "self_pay"
	default:
		return "cancel"
	}
}
