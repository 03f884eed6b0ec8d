package checkout

import (
	"testing"
	"time"

	"github.com/vaxcare/vaxhub/internal/types"
	"github.com/vaxcare/vaxhub/internal/verifier"
)

/*
 * End-to-end resolution flows: verify a candidate, register its issues,
 * and drive the queue with scripted dialog answers the way the UI layer
 * does. The scriptedListener answers each popped issue synchronously
 * through NotifyResultReceived, mirroring the dialog round-trip.
 */

type scriptedAnswer struct {
	action DialogAction
	result DialogResult
}

// scriptedListener maps each popped issue tag to a canned dialog answer and
// routes responses into the coordinator.
type scriptedListener struct {
	t       *testing.T
	coord   *Coordinator
	queue   *IssueQueue
	answers map[types.IssueTag]scriptedAnswer
	handled []types.IssueTag
	drained bool
	stalled bool
}

func (l *scriptedListener) HandleIssue(issue types.ProductIssue) {
	l.handled = append(l.handled, issue.Tag)
	ans, ok := l.answers[issue.Tag]
	if !ok {
		l.stalled = true
		return
	}
	l.queue.NotifyResultReceived(ans.action, ans.result)
}

func (l *scriptedListener) OnIssuesEmpty()  { l.drained = true }
func (l *scriptedListener) OnCancelIssues() {}
func (l *scriptedListener) OnDialogResponse(action DialogAction, result DialogResult) {
	l.coord.ProcessDialogResponse(action, result, l.queue)
}
func (l *scriptedListener) OnAppointmentChanged(appt *types.Appointment) {}

func runFlow(t *testing.T, eval *types.DoseEvaluation, staged *types.StagedCheckout, appt *types.Appointment, answers map[types.IssueTag]scriptedAnswer) *scriptedListener {
	t.Helper()
	q := NewIssueQueue()
	l := &scriptedListener{t: t, queue: q, answers: answers}
	l.coord = NewCoordinator(eval, staged, appt, nil)
	q.RegisterIssues(eval.Issues, l)
	for q.State() == QueueActive && !l.stalled {
		q.NextIssue()
	}
	return l
}

var flowNow = time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

func verifyFlow(t *testing.T, req verifier.VerifyRequest, flags types.FeatureFlags) *types.DoseEvaluation {
	t.Helper()
	v := verifier.New(flags)
	v.Now = func() time.Time { return flowNow }
	eval := v.Verify(req)
	if eval == nil {
		t.Fatal("Verify() = nil, want evaluation")
	}
	return eval
}

func TestFlow_SecondRsvDoseSelfPay(t *testing.T) {
	dob := "10/15/2025" // ~321 days old at the fixed clock
	exp := flowNow.AddDate(0, 6, 0)
	sibling := &types.DoseEvaluation{
		State:       types.DoseStateAdded,
		PaymentMode: types.PaymentModeInsurancePay,
		OrderNumber: "O-42",
		Candidate: &types.DoseCandidate{
			LotNumber: "RSV-A",
			Product:   types.Product{ID: 364, Antigen: "RSV"},
		},
	}
	staged := &types.StagedCheckout{Doses: []*types.DoseEvaluation{sibling}}
	appt := &types.Appointment{
		PaymentMethod:   types.PaymentMethodInsurancePay,
		Patient:         types.Patient{DOB: dob, Gender: types.GenderFemale},
		InventorySource: types.SourcePrivate,
		DateOfService:   flowNow,
	}

	eval := verifyFlow(t, verifier.VerifyRequest{
		Candidate: &types.DoseCandidate{
			LotNumber:  "RSV-B",
			Expiration: &exp,
			Product: types.Product{
				ID: 364, Antigen: "RSV",
				AgeIndications: []types.AgeIndication{{}},
			},
		},
		Appointment: appt,
		Staged:      staged,
	}, types.FeatureFlags{})

	if !eval.HasIssue(types.IssueDuplicateRsv) || !eval.HasIssue(types.IssueDuplicateProduct) {
		t.Fatalf("Verify() issues = %v, want duplicate RSV and product", eval.Issues)
	}

	l := runFlow(t, eval, staged, appt, map[types.IssueTag]scriptedAnswer{
		types.IssueDuplicateRsv: {DialogDuplicateRsv, RsvResult{Choice: RsvSelfPay}},
	})

	if !l.drained {
		t.Fatalf("flow did not drain; handled %v", l.handled)
	}
	// The RSV dialog is presented first and its answer clears the plain
	// duplicate issues without presenting them.
	if len(l.handled) != 1 || l.handled[0] != types.IssueDuplicateRsv {
		t.Errorf("handled = %v, want only the RSV dialog", l.handled)
	}
	if eval.PaymentMode != types.PaymentModeSelfPay {
		t.Errorf("PaymentMode = %v, want SelfPay", eval.PaymentMode)
	}
	if eval.OrderNumber != "O-42" {
		t.Errorf("OrderNumber = %q, want linked sibling order", eval.OrderNumber)
	}
	if sibling.PaymentMode != types.PaymentModeSelfPay {
		t.Errorf("sibling PaymentMode = %v after drain, want SelfPay", sibling.PaymentMode)
	}
}

func TestFlow_MedDCopayMatched(t *testing.T) {
	exp := flowNow.AddDate(0, 6, 0)
	appt := &types.Appointment{
		PaymentMethod:   types.PaymentMethodInsurancePay,
		Patient:         types.Patient{DOB: "3/15/1952", Gender: types.GenderFemale},
		InventorySource: types.SourcePrivate,
		MedDVisit:       true,
		DateOfService:   flowNow,
	}
	staged := &types.StagedCheckout{}

	eval := verifyFlow(t, verifier.VerifyRequest{
		Candidate: &types.DoseCandidate{
			LotNumber:  "ZOS-1",
			Expiration: &exp,
			Product: types.Product{
				ID: 5, Antigen: "Zoster",
				AgeIndications: []types.AgeIndication{{}},
			},
		},
		Appointment: appt,
		Staged:      staged,
	}, types.FeatureFlags{})

	if !eval.HasIssue(types.IssueCopayReview) {
		t.Fatalf("Verify() issues = %v, want copay review", eval.Issues)
	}

	copay := &types.CopayInfo{Antigen: "Zoster", Cents: 4000}
	l := runFlow(t, eval, staged, appt, map[types.IssueTag]scriptedAnswer{
		types.IssueCopayReview: {DialogMedDCopayCheck, CopayCheckResult{Matched: true, Copay: copay}},
	})

	if !l.drained {
		t.Fatalf("flow did not drain; handled %v", l.handled)
	}
	if eval.Copay != copay {
		t.Errorf("Copay = %v, want the matched copay", eval.Copay)
	}
}

func TestFlow_MedDCopayMissForcesNotCovered(t *testing.T) {
	exp := flowNow.AddDate(0, 6, 0)
	appt := &types.Appointment{
		PaymentMethod:   types.PaymentMethodInsurancePay,
		Patient:         types.Patient{DOB: "3/15/1952", Gender: types.GenderFemale},
		InventorySource: types.SourcePrivate,
		MedDVisit:       true,
		DateOfService:   flowNow,
	}
	staged := &types.StagedCheckout{}

	eval := verifyFlow(t, verifier.VerifyRequest{
		Candidate: &types.DoseCandidate{
			LotNumber:  "ZOS-1",
			Expiration: &exp,
			Product: types.Product{
				ID: 5, Antigen: "Zoster",
				AgeIndications: []types.AgeIndication{{}},
			},
		},
		Appointment: appt,
		Staged:      staged,
	}, types.FeatureFlags{})

	l := runFlow(t, eval, staged, appt, map[types.IssueTag]scriptedAnswer{
		types.IssueCopayReview:       {DialogMedDCopayCheck, CopayCheckResult{Matched: false}},
		types.IssueProductNotCovered: {DialogNotCoveredExclusion, PaymentFlipResult{Button: ButtonNeutral}},
	})

	if !l.drained {
		t.Fatalf("flow did not drain; handled %v", l.handled)
	}
	want := []types.IssueTag{types.IssueCopayReview, types.IssueProductNotCovered}
	if len(l.handled) != 2 || l.handled[0] != want[0] || l.handled[1] != want[1] {
		t.Errorf("handled = %v, want %v", l.handled, want)
	}
	if eval.PaymentMode != types.PaymentModeSelfPay {
		t.Errorf("PaymentMode = %v, want SelfPay after neutral flip", eval.PaymentMode)
	}
	if eval.MarkCondition != types.MarkNotCovered {
		t.Errorf("MarkCondition = %v, want MarkNotCovered", eval.MarkCondition)
	}
}

func TestFlow_ExpiredAndMissingLotAcknowledged(t *testing.T) {
	appt := &types.Appointment{
		PaymentMethod:   types.PaymentMethodSelfPay,
		Patient:         types.Patient{DOB: "3/15/1990", Gender: types.GenderMale},
		InventorySource: types.SourcePrivate,
		DateOfService:   flowNow,
	}
	staged := &types.StagedCheckout{}
	exp := flowNow.AddDate(0, 0, -10)

	eval := verifyFlow(t, verifier.VerifyRequest{
		Candidate: &types.DoseCandidate{
			LotNumber:  "",
			Expiration: &exp,
			Product: types.Product{
				ID: 9, Antigen: "Tdap",
				AgeIndications: []types.AgeIndication{{}},
			},
		},
		Appointment: appt,
		Staged:      staged,
	}, types.FeatureFlags{})

	l := runFlow(t, eval, staged, appt, map[types.IssueTag]scriptedAnswer{
		types.IssueMissingLotNumber: {DialogScannedDoseIssue, AckResult{Button: ButtonPositive}},
		types.IssueExpired:          {DialogScannedDoseIssue, AckResult{Button: ButtonPositive}},
	})

	if !l.drained {
		t.Fatalf("flow did not drain; handled %v", l.handled)
	}
	want := []types.IssueTag{types.IssueMissingLotNumber, types.IssueExpired}
	if len(l.handled) != 2 || l.handled[0] != want[0] || l.handled[1] != want[1] {
		t.Errorf("handled = %v, want data-quality blockers first, in order", l.handled)
	}
}

func TestFlow_AffirmedAgeWarningClearsIndication(t *testing.T) {
	// A matching warning-type indication means no hard indication matched, so
	// both age issues are detected together. The attestation is presented
	// first; affirming it must clear the indication before its
	// payment-exclusion dialog can ever surface.
	exp := flowNow.AddDate(0, 6, 0)
	appt := &types.Appointment{
		PaymentMethod:   types.PaymentMethodSelfPay,
		Patient:         types.Patient{DOB: "6/23/2024", Gender: types.GenderFemale}, // 800 days old
		InventorySource: types.SourcePrivate,
		DateOfService:   flowNow,
	}
	staged := &types.StagedCheckout{}

	eval := verifyFlow(t, verifier.VerifyRequest{
		Candidate: &types.DoseCandidate{
			LotNumber:  "VAR-1",
			Expiration: &exp,
			Product: types.Product{
				ID: 12, Antigen: "Varicella",
				AgeIndications: []types.AgeIndication{
					{MinAgeDays: 100, MaxAgeDays: 700},
					{
						MinAgeDays: 701, MaxAgeDays: 900, Warning: true,
						WarningTitle: "Older than indicated", Prompt: types.PromptConfirm,
					},
				},
			},
		},
		Appointment: appt,
		Staged:      staged,
	}, types.FeatureFlags{})

	if !eval.HasIssue(types.IssueOutOfAgeWarning) || !eval.HasIssue(types.IssueOutOfAgeIndication) {
		t.Fatalf("Verify() issues = %v, want both age issues", eval.Issues)
	}

	l := runFlow(t, eval, staged, appt, map[types.IssueTag]scriptedAnswer{
		types.IssueOutOfAgeWarning: {DialogAgeWarningPrompt, BoolPromptResult{Affirmed: true}},
	})

	if !l.drained {
		t.Fatalf("flow did not drain; handled %v", l.handled)
	}
	if len(l.handled) != 1 || l.handled[0] != types.IssueOutOfAgeWarning {
		t.Errorf("handled = %v, want only the warning prompt", l.handled)
	}
	if eval.HasIssue(types.IssueOutOfAgeIndication) {
		t.Error("evaluation still carries OutOfAgeIndication after affirmation")
	}
}

func TestFlow_WrongStockRemoveAbandons(t *testing.T) {
	exp := flowNow.AddDate(0, 6, 0)
	appt := &types.Appointment{
		PaymentMethod:   types.PaymentMethodSelfPay,
		Patient:         types.Patient{DOB: "3/15/1990", Gender: types.GenderFemale},
		InventorySource: types.SourcePrivate,
		DateOfService:   flowNow,
	}
	staged := &types.StagedCheckout{}

	eval := verifyFlow(t, verifier.VerifyRequest{
		Candidate: &types.DoseCandidate{
			LotNumber:  "VFC-LOT",
			Expiration: &exp,
			Product: types.Product{
				ID: 9, Antigen: "Tdap",
				AgeIndications: []types.AgeIndication{{}},
			},
		},
		Appointment: appt,
		Staged:      staged,
		OnHand: []types.LotOnHand{
			{LotNumber: "VFC-LOT", Source: types.SourceVFC, OnHand: 6},
		},
	}, types.FeatureFlags{})

	if !eval.HasIssue(types.IssueWrongStock) {
		t.Fatalf("Verify() issues = %v, want wrong stock", eval.Issues)
	}

	l := runFlow(t, eval, staged, appt, map[types.IssueTag]scriptedAnswer{
		types.IssueWrongStock: {DialogWrongStock, WrongStockResult{Choice: StockRemoveDose}},
	})

	// Cancel, not drain: the after-empty callback path must not fire.
	if l.drained {
		t.Error("flow drained after remove-dose, want cancelled")
	}
}
