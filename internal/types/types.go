// Package types provides domain models shared across VaxHub components.
//
// Zero-dependency design: everything except ids.go uses the standard library
// only, so the validation rules and the checkout flow can be embedded without
// pulling in database or CLI dependencies. Enum-to-string conversion for
// scenario files happens at the CLI boundary, not here.
package types

import "time"

// PaymentMethod is the appointment-level billing arrangement.
type PaymentMethod int

const (
	PaymentMethodUnspecified PaymentMethod = iota
	PaymentMethodInsurancePay
	PaymentMethodSelfPay
	PaymentMethodPartnerBill
	PaymentMethodEmployerPay
	PaymentMethodNoPay
)

// PaymentMode is the dose-level billing override. Distinct from PaymentMethod:
// a single dose can be flipped to self-pay while the visit stays insurance-pay.
type PaymentMode int

const (
	PaymentModeUnspecified PaymentMode = iota
	PaymentModeInsurancePay
	PaymentModeSelfPay
	PaymentModePartnerBill
	PaymentModeNoPay
)

// PaymentModeReason records why a dose's payment mode was overridden.
type PaymentModeReason int

const (
	ReasonUnspecified PaymentModeReason = iota
	ReasonImmunizationsNotCovered
	ReasonOutOfAgeIndication
)

// MarkCondition classifies a dose whose payment mode was overridden.
type MarkCondition int

const (
	MarkConditionNone MarkCondition = iota
	MarkNotCovered
	MarkOutOfAge
	MarkMissingInfo
)

// DoseState is the lifecycle state of a staged dose.
type DoseState int

const (
	DoseStateUnspecified DoseState = iota
	DoseStateAdded
	DoseStateRemoved
)

// InventorySource is the funding/ownership bucket a physical dose is drawn from.
type InventorySource int

const (
	SourceUnspecified InventorySource = iota
	SourcePrivate
	SourceVFC
	SourceThreeSeventeen
	SourceState
)

// ProductCategory distinguishes vaccines from flagged product lines.
type ProductCategory int

const (
	CategoryUnspecified ProductCategory = iota
	CategoryVaccine
	CategoryLarc
)

// ProductStatus mirrors the upstream product catalog status.
type ProductStatus int

const (
	StatusUnspecified ProductStatus = iota
	StatusActive
	StatusInactive
)

// RouteCode is the administration route ("IM", "SC", "IN", "PO", "ID").
// Empty string means no route selected yet.
type RouteCode string

// Gender as used by age-indication matching. GenderAny matches every patient.
type Gender int

const (
	GenderAny Gender = iota
	GenderMale
	GenderFemale
)

// PromptType selects which confirmation prompt an out-of-age warning uses.
type PromptType int

const (
	PromptConfirm PromptType = iota
	PromptCovidHighRisk
	PromptWeeksPregnant
)

// CallToAction is the Med-D message call-to-action attached to an encounter.
type CallToAction int

const (
	CtaUnspecified CallToAction = iota
	CtaNone
	CtaRunMedDCheck
)

// AgeIndication is one entry of a product's age-indication table.
// Warning entries do not block: a matching warning surfaces a prompt instead
// of an out-of-age issue.
type AgeIndication struct {
	Gender         Gender
	MinAgeDays     int
	MaxAgeDays     int // 0 = unbounded
	Warning        bool
	WarningTitle   string
	WarningMessage string
	Prompt         PromptType
}

// Matches reports whether the indication covers a patient of the given age
// (in days) and gender.
func (a AgeIndication) Matches(ageDays int, gender Gender) bool {
	if a.Gender != GenderAny && gender != GenderAny && a.Gender != gender {
		return false
	}
	if ageDays < a.MinAgeDays {
		return false
	}
	if a.MaxAgeDays > 0 && ageDays > a.MaxAgeDays {
		return false
	}
	return true
}

// Product is the catalog definition a lot is joined against.
type Product struct {
	ID             int
	SalesProductID int
	Name           string
	Antigen        string
	Category       ProductCategory
	Route          RouteCode
	Presentation   string
	Status         ProductStatus
	InventoryGroup string
	CPTCode        string
	CVXCode        string
	AgeIndications []AgeIndication
}

// CopayInfo is a Med-D copay returned by an eligibility check.
type CopayInfo struct {
	Antigen string
	Cents   int
}

// OneTouchInfo is partner one-touch billing side data attached after scan.
type OneTouchInfo struct {
	PartnerID   int
	OrderNumber string
}

// DoseCandidate is an inventory lot joined to its product definition.
// Immutable once constructed for a given evaluation pass; copay and one-touch
// data are populated as side data, never re-derived mid-flow.
type DoseCandidate struct {
	LotNumber     string
	Expiration    *time.Time
	Product       Product
	DosesInSeries int
	Copay         *CopayInfo
	OneTouch      *OneTouchInfo
}

// LotOnHand is one (lot, source, quantity) row from the inventory snapshot.
type LotOnHand struct {
	LotNumber string
	Source    InventorySource
	OnHand    int
}

// FeatureFlags bundles the remotely-toggled behavior switches the rule set
// consumes.
type FeatureFlags struct {
	RprdAndNotLocallyCreated bool
	DisableDuplicateRsv      bool
}
