package models

// Outcome labels the terminal state of a processed event. Outcomes are
// logged for observability only; they are never persisted.
type Outcome string

const (
	OutcomeDownloadIssued Outcome = "download_issued"
	OutcomeDownloadFailed Outcome = "download_failed"
	OutcomeRefundIssued   Outcome = "refund_issued"
	OutcomeRefundFailed   Outcome = "refund_failed"
	OutcomeUnprocessable  Outcome = "unprocessable"
)
