// cmd/vaxhub/cmd/verify.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vaxcare/vaxhub/internal/checkout"
	"github.com/vaxcare/vaxhub/internal/core/config"
	"github.com/vaxcare/vaxhub/internal/core/db"
	"github.com/vaxcare/vaxhub/internal/types"
	"github.com/vaxcare/vaxhub/internal/verifier"
)

var scenarioPath string

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Validate a scenario's dose and drive its issue-resolution flow",
	RunE:  runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().StringVar(&scenarioPath, "scenario", "", "scenario JSON file (required)")
	verifyCmd.MarkFlagRequired("scenario")
}

func runVerify(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if dbURL != "" {
		cfg.DatabaseURL = dbURL
	}

	scn, err := loadScenario(scenarioPath)
	if err != nil {
		return err
	}

	appt, err := scn.appointment()
	if err != nil {
		return err
	}
	candidate, err := scn.Candidate.candidate()
	if err != nil {
		return err
	}
	staged, err := scn.stagedCheckout()
	if err != nil {
		return err
	}
	onHand, err := scn.onHand()
	if err != nil {
		return err
	}

	// A configured database beats the scenario's inline snapshot.
	if cfg.DatabaseURL != "" {
		conn, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer conn.Close()

		store, err := db.NewInventoryStore(conn)
		if err != nil {
			return err
		}
		onHand, err = store.OnHandAll()
		if err != nil {
			return err
		}
	}

	v := verifier.New(cfg.Flags)
	eval := v.Verify(verifier.VerifyRequest{
		Candidate:   candidate,
		Appointment: appt,
		Staged:      staged,
		DoseSeries:  scn.DoseSeries,
		OnHand:      onHand,
		VaxCare3:    cfg.VaxCare3 || scn.VaxCare3,
		MedD:        scn.medDInfo(),
	})
	if eval == nil {
		return fmt.Errorf("verification produced no evaluation (missing candidate or appointment)")
	}

	sorted := append([]types.ProductIssue(nil), eval.Issues...)
	types.SortIssues(sorted)
	fmt.Printf("dose %s (%s lot %q): %d issue(s)\n", eval.ID, candidate.Product.Name, candidate.LotNumber, len(sorted))
	for _, issue := range sorted {
		fmt.Printf("  - %s\n", describeIssue(issue))
	}

	if len(scn.Responses) == 0 {
		return nil
	}

	return driveResolution(scn, eval, staged, appt)
}

// driveResolution replays the scripted dialog answers against the queue
// until it drains, cancels, or the script runs out.
func driveResolution(scn *scenario, eval *types.DoseEvaluation, staged *types.StagedCheckout, appt *types.Appointment) error {
	queue := checkout.NewIssueQueue()
	coord := checkout.NewCoordinator(eval, staged, appt, nil)
	driver := &flowDriver{queue: queue, coord: coord, responses: scn.Responses}

	queue.RegisterIssues(eval.Issues, driver)
	for queue.State() == checkout.QueueActive && !driver.stalled {
		queue.NextIssue()
	}

	switch {
	case driver.committed:
		staged.Commit(eval)
		fmt.Printf("dose committed (payment mode %d, order %q)\n", eval.PaymentMode, eval.OrderNumber)
	case driver.cancelled:
		fmt.Println("dose discarded")
	default:
		fmt.Println("resolution incomplete: scripted responses exhausted")
	}
	if driver.pending == checkout.PendingSetStock {
		fmt.Println("pending action: stock selection required")
	}
	return nil
}

// flowDriver adapts scripted responses to the IssueListener contract.
type flowDriver struct {
	queue     *checkout.IssueQueue
	coord     *checkout.Coordinator
	responses []responseJSON
	idx       int
	stalled   bool
	committed bool
	cancelled bool
	pending   checkout.PendingAction
}

func (d *flowDriver) HandleIssue(issue types.ProductIssue) {
	fmt.Printf("prompt: %s\n", describeIssue(issue))
	if d.idx >= len(d.responses) {
		d.stalled = true
		return
	}
	action, result, err := d.responses[d.idx].dialogResponse()
	d.idx++
	if err != nil {
		fmt.Printf("  skipping response: %v\n", err)
		return
	}
	d.queue.NotifyResultReceived(action, result)
}

func (d *flowDriver) OnIssuesEmpty() {
	d.committed = true
}

func (d *flowDriver) OnCancelIssues() {
	d.cancelled = true
}

func (d *flowDriver) OnDialogResponse(action checkout.DialogAction, result checkout.DialogResult) {
	if p := d.coord.ProcessDialogResponse(action, result, d.queue); p != checkout.PendingNone {
		d.pending = p
	}
}

func (d *flowDriver) OnAppointmentChanged(*types.Appointment) {}

func describeIssue(issue types.ProductIssue) string {
	switch issue.Tag {
	case types.IssueMissingLotNumber:
		return "missing lot number"
	case types.IssueExpired:
		return "dose expired"
	case types.IssueDuplicateRsv:
		return "second RSV dose"
	case types.IssueDuplicateLot:
		return "duplicate lot"
	case types.IssueDuplicateProduct:
		return "duplicate product"
	case types.IssueProductNotOrdered:
		return "no matching order"
	case types.IssueOutOfAgeIndication:
		return "out of age indication"
	case types.IssueOutOfAgeWarning:
		return fmt.Sprintf("age warning: %s", issue.Title)
	case types.IssueRouteSelectionRequired:
		return "route selection required"
	case types.IssueLarcAdded:
		return "LARC product"
	case types.IssueWrongStock:
		return "wrong stock"
	case types.IssueCopayReview:
		return "Med-D copay review"
	case types.IssueProductNotCoveredNetwork:
		return fmt.Sprintf("not covered (network): %s", issue.Message)
	case types.IssueProductNotCovered:
		return "product not covered"
	case types.IssueProductNotCoveredReject:
		return fmt.Sprintf("not covered (reject code %s)", issue.Code)
	}
	return fmt.Sprintf("issue %d", issue.Tag)
}
