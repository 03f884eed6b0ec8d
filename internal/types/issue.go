// internal/types/issue.go
package types

import "sort"

/*
 * ProductIssue and its presentation order.
 *
 * An issue is a tagged value: the tag picks the dialog the UI presents, the
 * payload carries anything that dialog renders (warning title/message, reject
 * code). Two issues are equal only on tag plus payload, so two out-of-age
 * warnings with different messages queue independently.
 *
 * Presentation order is user-facing policy and must stay stable across
 * releases. The order lives in one table below rather than scattered
 * Less() logic, mirroring how condition evaluation order is pinned by a
 * single cost table. Constraints encoded by the table:
 *   - DuplicateRsv precedes DuplicateLot/DuplicateProduct: resolving the RSV
 *     dialog force-removes both duplicates.
 *   - OutOfAgeWarning precedes OutOfAgeIndication: an affirmed warning
 *     attestation force-removes the indication before its dialog shows.
 *   - CopayReview precedes the not-covered family: the copay-check result
 *     force-adds or removes ProductNotCovered.
 *   - Data-quality blockers (missing lot, expired) come before clinical
 *     prompts, financial dialogs come last.
 */

// IssueTag identifies which dialog an issue maps to.
type IssueTag int

const (
	IssueUnspecified IssueTag = iota
	IssueMissingLotNumber
	IssueExpired
	IssueDuplicateRsv
	IssueDuplicateLot
	IssueDuplicateProduct
	IssueProductNotOrdered
	IssueOutOfAgeIndication
	IssueOutOfAgeWarning
	IssueRouteSelectionRequired
	IssueLarcAdded
	IssueWrongStock
	IssueCopayReview
	IssueProductNotCoveredNetwork
	IssueProductNotCovered
	IssueProductNotCoveredReject
)

// issuePriority pins presentation order. Lower values surface first.
// Append-only: renumbering changes user-facing dialog order.
var issuePriority = map[IssueTag]int{
	IssueMissingLotNumber:         10,
	IssueExpired:                  20,
	IssueDuplicateRsv:             30,
	IssueDuplicateLot:             40,
	IssueDuplicateProduct:         50,
	IssueProductNotOrdered:        60,
	IssueOutOfAgeWarning:          70,
	IssueOutOfAgeIndication:       80,
	IssueRouteSelectionRequired:   90,
	IssueLarcAdded:                100,
	IssueWrongStock:               110,
	IssueCopayReview:              120,
	IssueProductNotCoveredNetwork: 130,
	IssueProductNotCovered:        140,
	IssueProductNotCoveredReject:  150,
}

// ProductIssue is a detected reason a candidate dose cannot be added to
// checkout without user input. Comparable: whole-value equality (tag plus
// payload) is the dedup key.
type ProductIssue struct {
	Tag     IssueTag
	Title   string
	Message string
	Prompt  PromptType
	Code    string
}

// NewIssue builds a payload-free issue for the given tag.
func NewIssue(tag IssueTag) ProductIssue {
	return ProductIssue{Tag: tag}
}

// NewOutOfAgeWarningIssue carries the matched warning indication's rendering
// data into the dialog layer.
func NewOutOfAgeWarningIssue(title, message string, prompt PromptType) ProductIssue {
	return ProductIssue{Tag: IssueOutOfAgeWarning, Title: title, Message: message, Prompt: prompt}
}

// NewNotCoveredNetworkIssue carries the plan's not-in-network message.
func NewNotCoveredNetworkIssue(message string) ProductIssue {
	return ProductIssue{Tag: IssueProductNotCoveredNetwork, Message: message}
}

// NewNotCoveredRejectIssue carries the risk reject code that triggered it.
func NewNotCoveredRejectIssue(code string) ProductIssue {
	return ProductIssue{Tag: IssueProductNotCoveredReject, Code: code}
}

// Priority returns the issue's slot in the presentation order.
// Unknown tags sort last so a forgotten table entry cannot jump the queue.
func (i ProductIssue) Priority() int {
	p, ok := issuePriority[i.Tag]
	if !ok {
		return 1 << 20
	}
	return p
}

// Before reports whether i is presented ahead of other.
func (i ProductIssue) Before(other ProductIssue) bool {
	return i.Priority() < other.Priority()
}

// SortIssues orders issues by presentation priority, preserving insertion
// order within equal priority (stable: repeated registration of the same set
// yields the same dialog sequence).
func SortIssues(issues []ProductIssue) {
	sort.SliceStable(issues, func(a, b int) bool {
		return issues[a].Before(issues[b])
	})
}
