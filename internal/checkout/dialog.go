// internal/checkout/dialog.go
package checkout

import "github.com/vaxcare/vaxhub/internal/types"

/*
 * Dialog contract between the checkout flow and the UI layer.
 *
 * The queue hands issues out one at a time; the UI maps each issue tag to a
 * dialog (that routing table lives outside this package), presents it, and
 * feeds the answer back as (DialogAction, DialogResult). DialogAction says
 * which prompt produced the answer; DialogResult is a closed sum the
 * coordinator pattern-matches. No stringly-typed bundles.
 */

// DialogAction identifies which prompt produced a result.
type DialogAction int

const (
	DialogUnknown DialogAction = iota
	DialogDuplicateRsv
	DialogMedDCopayCheck
	DialogAgeWarningPrompt
	DialogWeeksPregnant
	DialogOutOfAgeExclusion
	DialogNotCoveredExclusion
	DialogMedDExclusion
	DialogScannedDoseIssue
	DialogRouteRequired
	DialogWrongStock
	DialogAddIssue
)

// DialogButton is the three-way answer of confirmation dialogs.
type DialogButton int

const (
	ButtonPositive DialogButton = iota
	ButtonNeutral
	ButtonCancel
)

// DialogResult is the closed set of answers a dialog can produce.
type DialogResult interface {
	isDialogResult()
}

// RsvChoice is the duplicate-RSV dialog's four-way answer.
type RsvChoice int

const (
	RsvPartnerBill RsvChoice = iota
	RsvSelfPay
	RsvKeepDose
	RsvRemoveDose
)

// RsvResult answers the duplicate-RSV dialog.
type RsvResult struct {
	Choice RsvChoice
}

// CopayCheckResult answers the Med-D copay-check dialog.
type CopayCheckResult struct {
	Matched bool
	Copay   *types.CopayInfo
}

// BoolPromptResult answers a yes/no attestation prompt (e.g. COVID high-risk).
type BoolPromptResult struct {
	Affirmed bool
}

// WeeksPregnantResult answers the weeks-pregnant prompt.
type WeeksPregnantResult struct {
	Weeks int
}

// PaymentFlipResult answers the three-way payment exclusion dialogs.
type PaymentFlipResult struct {
	Button DialogButton
}

// AckResult answers the miscellaneous scanned-dose-issue dialog.
type AckResult struct {
	Button DialogButton
}

// RouteResult answers the route-required dialog.
type RouteResult struct {
	Route types.RouteCode
}

// StockChoice is the wrong-stock dialog's three-way answer.
type StockChoice int

const (
	StockKeepDose StockChoice = iota
	StockRemoveDose
	StockSetStock
)

// WrongStockResult answers the wrong-stock dialog.
type WrongStockResult struct {
	Choice StockChoice
}

// AddIssueResult carries an externally injected issue verbatim.
type AddIssueResult struct {
	Issue types.ProductIssue
}

func (RsvResult) isDialogResult()           {}
func (CopayCheckResult) isDialogResult()    {}
func (BoolPromptResult) isDialogResult()    {}
func (WeeksPregnantResult) isDialogResult() {}
func (PaymentFlipResult) isDialogResult()   {}
func (AckResult) isDialogResult()           {}
func (RouteResult) isDialogResult()         {}
func (WrongStockResult) isDialogResult()    {}
func (AddIssueResult) isDialogResult()      {}

// PendingAction tells the external caller what, if anything, it still has
// to present after one resolution step.
type PendingAction int

const (
	PendingNone PendingAction = iota
	PendingSetStock
)
