// internal/rules/policy.go
package rules

/*
 * Clinical and financial policy tables.
 *
 * Fixed lookup tables the rule predicates consult. Kept in one file so a
 * policy change is a one-screen diff; append-only where order matters.
 */

// RsvProductID is the product whose duplicate-dose exception allows a second
// dose within the infant age window.
const RsvProductID = 364

// Duplicate-RSV exception window and cap.
const (
	rsvDuplicateMinAgeDays = 210
	rsvDuplicateMaxAgeDays = 600
	rsvDuplicateCap        = 2
)

// Weeks-pregnant qualifying window for the maternal RSV prompt.
const (
	WeeksPregnantMin = 32
	WeeksPregnantMax = 36
)

// routeSelectionAntigens lists antigens whose products require an explicit
// route selection at checkout.
var routeSelectionAntigens = map[string]bool{
	"Influenza":     true,
	"Hepatitis A":   true,
	"Hepatitis B":   true,
	"MMR":           true,
	"Meningococcal": true,
	"Pneumococcal":  true,
	"Polio":         true,
}

// routeSelectionExempt removes antigens from the route-required set: their
// presentations carry a single fixed route.
var routeSelectionExempt = map[string]bool{
	"MMR":   true,
	"Polio": true,
}

// medBInventoryGroups lists inventory groups covered by Medicare Part B;
// Part-B-covered products never trigger the not-covered dialog.
var medBInventoryGroups = map[string]bool{
	"Flu":          true,
	"Pneumococcal": true,
	"Hepatitis B":  true,
	"COVID-19":     true,
}

// seasonalAntigens lists flu/seasonal/covid antigens excluded from the
// general not-covered rule.
var seasonalAntigens = map[string]bool{
	"Influenza": true,
	"COVID-19":  true,
}

// medDAntigens lists antigens subject to Medicare Part D copay review.
var medDAntigens = map[string]bool{
	"Zoster": true,
	"Tdap":   true,
	"RSV":    true,
}

// medDRejectCodes lists risk reject codes that qualify an insurance-pay
// visit for the payment-mode choice flow.
var medDRejectCodes = map[string]bool{
	"33": true,
	"65": true,
}

// RequiresRouteSelection reports whether the antigen needs a route choice.
func RequiresRouteSelection(antigen string) bool {
	return routeSelectionAntigens[antigen] && !routeSelectionExempt[antigen]
}

// IsMedDAntigen reports whether the antigen is a Med-D vaccine.
func IsMedDAntigen(antigen string) bool {
	return medDAntigens[antigen]
}

// IsSeasonalAntigen reports whether the antigen is flu/seasonal/covid.
func IsSeasonalAntigen(antigen string) bool {
	return seasonalAntigens[antigen]
}

// IsMedDRejectCode reports whether the reject code qualifies for Med-D flow.
func IsMedDRejectCode(code string) bool {
	return medDRejectCodes[code]
}

// IsMedBCoveredGroup reports whether the inventory group is Part-B covered.
func IsMedBCoveredGroup(group string) bool {
	return medBInventoryGroups[group]
}
