// cmd/vaxhub/cmd/scenario.go
package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/vaxcare/vaxhub/internal/checkout"
	"github.com/vaxcare/vaxhub/internal/types"
)

/*
 * Scenario file schema.
 *
 * Scenario JSON uses human-readable string enums; conversion to the typed
 * domain model happens here, at the CLI boundary, keeping internal/types
 * free of wire concerns.
 */

type scenario struct {
	Appointment appointmentJSON  `json:"appointment"`
	Candidate   candidateJSON    `json:"candidate"`
	Staged      []stagedDoseJSON `json:"staged"`
	DoseSeries  int              `json:"dose_series"`
	VaxCare3    bool             `json:"vaxcare3"`
	MedD        *medDJSON        `json:"medd"`
	OnHand      []onHandJSON     `json:"on_hand"`
	Responses   []responseJSON   `json:"responses"`
}

type appointmentJSON struct {
	ID                          string      `json:"id"`
	PaymentMethod               string      `json:"payment_method"`
	Patient                     patientJSON `json:"patient"`
	Risk                        riskJSON    `json:"risk"`
	Orders                      []orderJSON `json:"orders"`
	CheckedOut                  bool        `json:"checked_out"`
	InventorySource             string      `json:"inventory_source"`
	MedDCanRun                  bool        `json:"medd_can_run"`
	MedDTagShown                bool        `json:"medd_tag_shown"`
	MedDVisit                   bool        `json:"medd_visit"`
	DateOfService               string      `json:"date_of_service"`
	EditCheckoutPastPartnerBill bool        `json:"edit_checkout_past_partner_bill"`
}

type patientJSON struct {
	Gender string `json:"gender"`
	DOB    string `json:"dob"`
}

type riskJSON struct {
	PrimaryMessage string `json:"primary_message"`
	NotInNetwork   bool   `json:"not_in_network"`
	TopRejectCode  string `json:"top_reject_code"`
	MedDCta        string `json:"medd_cta"`
}

type orderJSON struct {
	OrderNumber          string `json:"order_number"`
	SatisfyingProductIDs []int  `json:"satisfying_product_ids"`
	Linked               bool   `json:"linked"`
}

type candidateJSON struct {
	LotNumber     string      `json:"lot_number"`
	Expiration    string      `json:"expiration"`
	Product       productJSON `json:"product"`
	DosesInSeries int         `json:"doses_in_series"`
}

type productJSON struct {
	ID             int                 `json:"id"`
	SalesProductID int                 `json:"sales_product_id"`
	Name           string              `json:"name"`
	Antigen        string              `json:"antigen"`
	Category       string              `json:"category"`
	Route          string              `json:"route"`
	Presentation   string              `json:"presentation"`
	Status         string              `json:"status"`
	InventoryGroup string              `json:"inventory_group"`
	CPTCode        string              `json:"cpt"`
	CVXCode        string              `json:"cvx"`
	AgeIndications []ageIndicationJSON `json:"age_indications"`
}

type ageIndicationJSON struct {
	Gender         string `json:"gender"`
	MinAgeDays     int    `json:"min_age_days"`
	MaxAgeDays     int    `json:"max_age_days"`
	Warning        bool   `json:"warning"`
	WarningTitle   string `json:"warning_title"`
	WarningMessage string `json:"warning_message"`
	Prompt         string `json:"prompt"`
}

type stagedDoseJSON struct {
	candidateJSON
	OrderNumber string `json:"order_number"`
	Removed     bool   `json:"removed"`
}

type medDJSON struct {
	Eligible bool        `json:"eligible"`
	Copays   []copayJSON `json:"copays"`
}

type copayJSON struct {
	Antigen string `json:"antigen"`
	Cents   int    `json:"cents"`
}

type onHandJSON struct {
	LotNumber string `json:"lot_number"`
	Source    string `json:"source"`
	OnHand    int    `json:"on_hand"`
}

// responseJSON is one scripted dialog answer. Fields beyond "action" are
// read per dialog family; extras are ignored.
type responseJSON struct {
	Action   string `json:"action"`
	Button   string `json:"button"`
	Choice   string `json:"choice"`
	Matched  bool   `json:"matched"`
	Affirmed bool   `json:"affirmed"`
	Weeks    int    `json:"weeks"`
	Route    string `json:"route"`
	Antigen  string `json:"antigen"`
	Cents    int    `json:"cents"`
	Issue    string `json:"issue"`
}

func loadScenario(path string) (*scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	var s scenario
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	return &s, nil
}

func (s *scenario) appointment() (*types.Appointment, error) {
	method, err := parsePaymentMethod(s.Appointment.PaymentMethod)
	if err != nil {
		return nil, err
	}
	gender, err := parseGender(s.Appointment.Patient.Gender)
	if err != nil {
		return nil, err
	}
	source, err := parseSource(s.Appointment.InventorySource)
	if err != nil {
		return nil, err
	}
	cta, err := parseCta(s.Appointment.Risk.MedDCta)
	if err != nil {
		return nil, err
	}

	var dos time.Time
	if s.Appointment.DateOfService != "" {
		dos, err = time.Parse("2006-01-02", s.Appointment.DateOfService)
		if err != nil {
			return nil, fmt.Errorf("invalid date_of_service: %w", err)
		}
	}

	var orders []types.Order
	for _, o := range s.Appointment.Orders {
		orders = append(orders, types.Order{
			OrderNumber:          o.OrderNumber,
			SatisfyingProductIDs: o.SatisfyingProductIDs,
			Linked:               o.Linked,
		})
	}

	return &types.Appointment{
		ID:            s.Appointment.ID,
		PaymentMethod: method,
		Patient:       types.Patient{Gender: gender, DOB: s.Appointment.Patient.DOB},
		Risk: types.RiskAssessment{
			PrimaryMessage: s.Appointment.Risk.PrimaryMessage,
			NotInNetwork:   s.Appointment.Risk.NotInNetwork,
			TopRejectCode:  s.Appointment.Risk.TopRejectCode,
			MedDCta:        cta,
		},
		Orders:                      orders,
		CheckedOut:                  s.Appointment.CheckedOut,
		InventorySource:             source,
		MedDCanRun:                  s.Appointment.MedDCanRun,
		MedDTagShown:                s.Appointment.MedDTagShown,
		MedDVisit:                   s.Appointment.MedDVisit,
		DateOfService:               dos,
		EditCheckoutPastPartnerBill: s.Appointment.EditCheckoutPastPartnerBill,
	}, nil
}

func (c candidateJSON) candidate() (*types.DoseCandidate, error) {
	product, err := c.Product.product()
	if err != nil {
		return nil, err
	}
	out := &types.DoseCandidate{
		LotNumber:     c.LotNumber,
		Product:       product,
		DosesInSeries: c.DosesInSeries,
	}
	if c.Expiration != "" {
		exp, err := time.Parse("2006-01-02", c.Expiration)
		if err != nil {
			return nil, fmt.Errorf("invalid expiration: %w", err)
		}
		out.Expiration = &exp
	}
	return out, nil
}

func (p productJSON) product() (types.Product, error) {
	category, err := parseCategory(p.Category)
	if err != nil {
		return types.Product{}, err
	}
	status, err := parseStatus(p.Status)
	if err != nil {
		return types.Product{}, err
	}
	var indications []types.AgeIndication
	for _, ind := range p.AgeIndications {
		gender, err := parseGender(ind.Gender)
		if err != nil {
			return types.Product{}, err
		}
		prompt, err := parsePrompt(ind.Prompt)
		if err != nil {
			return types.Product{}, err
		}
		indications = append(indications, types.AgeIndication{
			Gender:         gender,
			MinAgeDays:     ind.MinAgeDays,
			MaxAgeDays:     ind.MaxAgeDays,
			Warning:        ind.Warning,
			WarningTitle:   ind.WarningTitle,
			WarningMessage: ind.WarningMessage,
			Prompt:         prompt,
		})
	}
	return types.Product{
		ID:             p.ID,
		SalesProductID: p.SalesProductID,
		Name:           p.Name,
		Antigen:        p.Antigen,
		Category:       category,
		Route:          types.RouteCode(p.Route),
		Presentation:   p.Presentation,
		Status:         status,
		InventoryGroup: p.InventoryGroup,
		CPTCode:        p.CPTCode,
		CVXCode:        p.CVXCode,
		AgeIndications: indications,
	}, nil
}

func (s *scenario) stagedCheckout() (*types.StagedCheckout, error) {
	staged := &types.StagedCheckout{}
	for _, d := range s.Staged {
		c, err := d.candidate()
		if err != nil {
			return nil, err
		}
		state := types.DoseStateAdded
		if d.Removed {
			state = types.DoseStateRemoved
		}
		staged.Commit(&types.DoseEvaluation{
			ID:          types.NewDoseID(),
			Candidate:   c,
			State:       state,
			OrderNumber: d.OrderNumber,
		})
	}
	return staged, nil
}

func (s *scenario) medDInfo() *types.MedDInfo {
	if s.MedD == nil {
		return nil
	}
	info := &types.MedDInfo{Eligible: s.MedD.Eligible}
	for _, c := range s.MedD.Copays {
		info.Copays = append(info.Copays, types.CopayInfo{Antigen: c.Antigen, Cents: c.Cents})
	}
	return info
}

func (s *scenario) onHand() ([]types.LotOnHand, error) {
	var out []types.LotOnHand
	for _, row := range s.OnHand {
		source, err := parseSource(row.Source)
		if err != nil {
			return nil, err
		}
		out = append(out, types.LotOnHand{LotNumber: row.LotNumber, Source: source, OnHand: row.OnHand})
	}
	return out, nil
}

// dialogResponse converts one scripted answer to the typed dialog contract.
func (r responseJSON) dialogResponse() (checkout.DialogAction, checkout.DialogResult, error) {
	switch r.Action {
	case "DuplicateRsv":
		choice, err := parseRsvChoice(r.Choice)
		if err != nil {
			return checkout.DialogUnknown, nil, err
		}
		return checkout.DialogDuplicateRsv, checkout.RsvResult{Choice: choice}, nil
	case "MedDCopayCheck":
		var copay *types.CopayInfo
		if r.Matched {
			copay = &types.CopayInfo{Antigen: r.Antigen, Cents: r.Cents}
		}
		return checkout.DialogMedDCopayCheck, checkout.CopayCheckResult{Matched: r.Matched, Copay: copay}, nil
	case "AgeWarningPrompt":
		return checkout.DialogAgeWarningPrompt, checkout.BoolPromptResult{Affirmed: r.Affirmed}, nil
	case "WeeksPregnant":
		return checkout.DialogWeeksPregnant, checkout.WeeksPregnantResult{Weeks: r.Weeks}, nil
	case "OutOfAgeExclusion", "NotCoveredExclusion", "MedDExclusion":
		button, err := parseButton(r.Button)
		if err != nil {
			return checkout.DialogUnknown, nil, err
		}
		action := checkout.DialogNotCoveredExclusion
		switch r.Action {
		case "OutOfAgeExclusion":
			action = checkout.DialogOutOfAgeExclusion
		case "MedDExclusion":
			action = checkout.DialogMedDExclusion
		}
		return action, checkout.PaymentFlipResult{Button: button}, nil
	case "ScannedDoseIssue":
		button, err := parseButton(r.Button)
		if err != nil {
			return checkout.DialogUnknown, nil, err
		}
		return checkout.DialogScannedDoseIssue, checkout.AckResult{Button: button}, nil
	case "RouteRequired":
		return checkout.DialogRouteRequired, checkout.RouteResult{Route: types.RouteCode(r.Route)}, nil
	case "WrongStock":
		choice, err := parseStockChoice(r.Choice)
		if err != nil {
			return checkout.DialogUnknown, nil, err
		}
		return checkout.DialogWrongStock, checkout.WrongStockResult{Choice: choice}, nil
	default:
		return checkout.DialogUnknown, nil, fmt.Errorf("unknown dialog action %q", r.Action)
	}
}

func parsePaymentMethod(s string) (types.PaymentMethod, error) {
	switch s {
	case "InsurancePay", "":
		return types.PaymentMethodInsurancePay, nil
	case "SelfPay":
		return types.PaymentMethodSelfPay, nil
	case "PartnerBill":
		return types.PaymentMethodPartnerBill, nil
	case "EmployerPay":
		return types.PaymentMethodEmployerPay, nil
	case "NoPay":
		return types.PaymentMethodNoPay, nil
	}
	return types.PaymentMethodUnspecified, fmt.Errorf("unknown payment method %q", s)
}

func parseGender(s string) (types.Gender, error) {
	switch s {
	case "Any", "":
		return types.GenderAny, nil
	case "M", "Male":
		return types.GenderMale, nil
	case "F", "Female":
		return types.GenderFemale, nil
	}
	return types.GenderAny, fmt.Errorf("unknown gender %q", s)
}

func parseSource(s string) (types.InventorySource, error) {
	switch s {
	case "Private", "":
		return types.SourcePrivate, nil
	case "VFC":
		return types.SourceVFC, nil
	case "317":
		return types.SourceThreeSeventeen, nil
	case "State":
		return types.SourceState, nil
	}
	return types.SourceUnspecified, fmt.Errorf("unknown inventory source %q", s)
}

func parseCategory(s string) (types.ProductCategory, error) {
	switch s {
	case "Vaccine", "":
		return types.CategoryVaccine, nil
	case "LARC":
		return types.CategoryLarc, nil
	}
	return types.CategoryUnspecified, fmt.Errorf("unknown product category %q", s)
}

func parseStatus(s string) (types.ProductStatus, error) {
	switch s {
	case "Active", "":
		return types.StatusActive, nil
	case "Inactive":
		return types.StatusInactive, nil
	}
	return types.StatusUnspecified, fmt.Errorf("unknown product status %q", s)
}

func parseCta(s string) (types.CallToAction, error) {
	switch s {
	case "":
		return types.CtaUnspecified, nil
	case "None":
		return types.CtaNone, nil
	case "RunMedDCheck":
		return types.CtaRunMedDCheck, nil
	}
	return types.CtaUnspecified, fmt.Errorf("unknown call-to-action %q", s)
}

func parsePrompt(s string) (types.PromptType, error) {
	switch s {
	case "Confirm", "":
		return types.PromptConfirm, nil
	case "CovidHighRisk":
		return types.PromptCovidHighRisk, nil
	case "WeeksPregnant":
		return types.PromptWeeksPregnant, nil
	}
	return types.PromptConfirm, fmt.Errorf("unknown prompt type %q", s)
}

func parseButton(s string) (checkout.DialogButton, error) {
	switch s {
	case "Positive", "":
		return checkout.ButtonPositive, nil
	case "Neutral":
		return checkout.ButtonNeutral, nil
	case "Cancel":
		return checkout.ButtonCancel, nil
	}
	return checkout.ButtonPositive, fmt.Errorf("unknown button %q", s)
}

func parseRsvChoice(s string) (checkout.RsvChoice, error) {
	switch s {
	case "PartnerBill":
		return checkout.RsvPartnerBill, nil
	case "SelfPay":
		return checkout.RsvSelfPay, nil
	case "KeepDose":
		return checkout.RsvKeepDose, nil
	case "RemoveDose":
		return checkout.RsvRemoveDose, nil
	}
	return checkout.RsvKeepDose, fmt.Errorf("unknown RSV choice %q", s)
}

func parseStockChoice(s string) (checkout.StockChoice, error) {
	switch s {
	case "KeepDose", "":
		return checkout.StockKeepDose, nil
	case "RemoveDose":
		return checkout.StockRemoveDose, nil
	case "SetStock":
		return checkout.StockSetStock, nil
	}
	return checkout.StockKeepDose, fmt.Errorf("unknown stock choice %q", s)
}
