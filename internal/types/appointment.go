package types

import "time"

// dobLayout is the wire format patient DOB arrives in (e.g. "3/04/2019").
const dobLayout = "1/02/2006"

// Patient is the read-only demographic snapshot attached to an appointment.
type Patient struct {
	Gender Gender
	DOB    string // M/dd/yyyy; may be blank or unparseable
}

// ParseDOB parses the patient's date of birth. Returns ErrInvalidDOB for
// blank or malformed input so callers can fail open on age checks.
func (p Patient) ParseDOB() (time.Time, error) {
	if p.DOB == "" {
		return time.Time{}, ErrInvalidDOB
	}
	t, err := time.Parse(dobLayout, p.DOB)
	if err != nil {
		return time.Time{}, ErrInvalidDOB
	}
	return t, nil
}

// AgeInDays converts a date of birth to whole days of age at the given time.
func AgeInDays(dob, at time.Time) int {
	return int(at.Sub(dob).Hours() / 24)
}

// Order is an externally sourced physician order a dose may satisfy.
type Order struct {
	OrderNumber          string
	SatisfyingProductIDs []int
	Linked               bool
}

// Satisfies reports whether the order can be filled by the given sales product.
func (o Order) Satisfies(salesProductID int) bool {
	for _, id := range o.SatisfyingProductIDs {
		if id == salesProductID {
			return true
		}
	}
	return false
}

// RiskAssessment carries the encounter risk messages consumed by the
// not-covered rule family.
type RiskAssessment struct {
	PrimaryMessage string
	NotInNetwork   bool
	TopRejectCode  string
	MedDCta        CallToAction
}

// MedDInfo is the outcome of a Med-D eligibility/copay check. Nil MedDInfo
// means the check has not run for this visit.
type MedDInfo struct {
	Eligible bool
	Copays   []CopayInfo
}

// CopayForAntigen returns the copay matching the antigen, or nil.
func (m *MedDInfo) CopayForAntigen(antigen string) *CopayInfo {
	if m == nil {
		return nil
	}
	for i := range m.Copays {
		if m.Copays[i].Antigen == antigen {
			return &m.Copays[i]
		}
	}
	return nil
}

// RanAndIneligible reports a completed check that came back ineligible.
func (m *MedDInfo) RanAndIneligible() bool {
	return m != nil && !m.Eligible
}

// Appointment is the read-only visit snapshot rules evaluate against.
// Never mutated by the validation or resolution layers.
type Appointment struct {
	ID              string
	PaymentMethod   PaymentMethod
	Patient         Patient
	Risk            RiskAssessment
	Orders          []Order
	CheckedOut      bool
	InventorySource InventorySource
	MedDCanRun      bool
	MedDTagShown    bool
	MedDVisit       bool
	DateOfService   time.Time
	// EditCheckoutPastPartnerBill marks re-opening a past partner-bill
	// checkout, which carves the visit out of the not-covered rule.
	EditCheckoutPastPartnerBill bool
}

// UnlinkedOrders returns orders not yet linked to a staged dose.
func (a *Appointment) UnlinkedOrders() []Order {
	var out []Order
	for _, o := range a.Orders {
		if !o.Linked {
			out = append(out, o)
		}
	}
	return out
}

// PrivateStock reports whether the visit draws from private inventory.
func (a *Appointment) PrivateStock() bool {
	return a.InventorySource == SourcePrivate
}
