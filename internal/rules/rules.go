// internal/rules/rules.go
package rules

import "github.com/vaxcare/vaxhub/internal/types"

/*
 * Product validation rules.
 *
 * Each rule is a small struct holding the comparator data it was constructed
 * with (appointment snapshot, staged checkout, resolved DOB, clock) and a
 * pure Validate predicate over one dose candidate. Rules never perform I/O,
 * never mutate their inputs, and never depend on each other's evaluation
 * order: the verifier folds the whole set and only issue-set membership
 * matters.
 *
 * Missing-data policy: a rule that cannot determine applicability (no DOB,
 * no risk data) returns false - the issue does not apply. The one coded
 * exception is documented on the rule that carries it (DuplicateRsv also
 * defaults false without a DOB, which is the conservative direction there:
 * it gates an *allowance*, not a blocker).
 */

// Rule evaluates one validation predicate against a candidate dose.
type Rule interface {
	// Validate reports whether the rule's issue applies to the candidate.
	Validate(c *types.DoseCandidate) bool

	// AssociatedIssue returns the issue queued when Validate is true.
	AssociatedIssue() types.ProductIssue
}
