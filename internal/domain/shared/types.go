package shared

// OutboxStatus defines message publishing states
type OutboxStatus string

const (
	OutboxStatusPending         OutboxStatus = "PENDING"
	OutboxStatusProcessed       OutboxStatus = "PROCESSED"
	OutboxStatusFailedToPublish OutboxStatus = "FAILED_TO_PUBLISH"
)

// FailureReason labels sale events routed to the dead letter queue
type FailureReason string

const (
	FailureReasonMalformedPayload FailureReason = "MALFORMED_PAYLOAD"
	FailureReasonInvalidSale      FailureReason = "INVALID_SALE"
	FailureReasonUnbalancedEntry  FailureReason = "UNBALANCED_ENTRY"
	FailureReasonUnknownAccount   FailureReason = "UNKNOWN_ACCOUNT"
	FailureReasonPostingFailed    FailureReason = "POSTING_FAILED"
)
