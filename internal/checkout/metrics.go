// internal/checkout/metrics.go
package checkout

// MetricReporter receives fire-and-forget resolution events. The analytics
// pipeline behind it is out of scope; implementations must not block.
type MetricReporter interface {
	Report(event string, fields map[string]string)
}

// Metric event names emitted by the resolution coordinator.
const (
	MetricRsvResolved         = "checkout.duplicate_rsv_resolved"
	MetricCopayChecked        = "checkout.medd_copay_checked"
	MetricAgeWarningAnswered  = "checkout.age_warning_answered"
	MetricPaymentFlip         = "checkout.payment_flip"
	MetricIssueAcknowledged   = "checkout.dose_issue_acknowledged"
	MetricRouteSelected       = "checkout.route_selected"
	MetricWrongStockResolved  = "checkout.wrong_stock_resolved"
	MetricIssueInjected       = "checkout.issue_injected"
	MetricUnknownDialogAction = "checkout.unknown_dialog_action"
)

// Payment-flip metric flavors, chosen by the appointment's Med-D
// call-to-action.
const (
	flipFlavorCopayUnavailable = "copay_check_unavailable"
	flipFlavorDoseNotCovered   = "dose_not_covered"
)

// NopMetrics discards every event.
type NopMetrics struct{}

func (NopMetrics) Report(string, map[string]string) {}
