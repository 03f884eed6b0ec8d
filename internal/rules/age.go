// internal/rules/age.go
package rules

import (
	"time"

	"github.com/vaxcare/vaxhub/internal/types"
)

// AgeIndicatedRule flags a candidate whose product has no non-warning
// age-indication entry matching the patient's age and gender.
// Fails open with no DOB: an unknown age never blocks a dose.
type AgeIndicatedRule struct {
	DOB    *time.Time
	Gender types.Gender
	Now    time.Time
}

func (r AgeIndicatedRule) Validate(c *types.DoseCandidate) bool {
	if r.DOB == nil {
		return false
	}
	ageDays := types.AgeInDays(*r.DOB, r.Now)
	for _, ind := range c.Product.AgeIndications {
		if ind.Warning {
			continue
		}
		if ind.Matches(ageDays, r.Gender) {
			return false
		}
	}
	return true
}

func (r AgeIndicatedRule) AssociatedIssue() types.ProductIssue {
	return types.NewIssue(types.IssueOutOfAgeIndication)
}

// OutOfAgeWarningRule surfaces the warning-type indication matching the
// patient when no non-warning indication matches. The matched warning is
// resolved at construction so Validate and AssociatedIssue stay pure
// accessors over construction-time data.
type OutOfAgeWarningRule struct {
	matched *types.AgeIndication
}

// NewOutOfAgeWarningRule resolves the matched warning for the candidate.
// A nil DOB yields a rule that never applies.
func NewOutOfAgeWarningRule(c *types.DoseCandidate, dob *time.Time, gender types.Gender, now time.Time) OutOfAgeWarningRule {
	if c == nil || dob == nil {
		return OutOfAgeWarningRule{}
	}
	ageDays := types.AgeInDays(*dob, now)
	for _, ind := range c.Product.AgeIndications {
		if !ind.Warning && ind.Matches(ageDays, gender) {
			// A hard indication covers the patient; no warning is needed.
			return OutOfAgeWarningRule{}
		}
	}
	for i, ind := range c.Product.AgeIndications {
		if ind.Warning && ind.Matches(ageDays, gender) {
			return OutOfAgeWarningRule{matched: &c.Product.AgeIndications[i]}
		}
	}
	return OutOfAgeWarningRule{}
}

func (r OutOfAgeWarningRule) Validate(c *types.DoseCandidate) bool {
	return r.matched != nil
}

func (r OutOfAgeWarningRule) AssociatedIssue() types.ProductIssue {
	if r.matched == nil {
		return types.NewOutOfAgeWarningIssue("", "", types.PromptConfirm)
	}
	return types.NewOutOfAgeWarningIssue(r.matched.WarningTitle, r.matched.WarningMessage, r.matched.Prompt)
}
