package models

// CheckoutFacts carries the fields extracted from a completed checkout
// session that drive the fulfillment decision. An empty string means the
// field was absent from the provider payload.
type CheckoutFacts struct {
	CustomerEmail   string
	PaymentIntentID string
}

type Action string

const (
	ActionFulfill       Action = "fulfill"
	ActionRefund        Action = "refund"
	ActionUnprocessable Action = "unprocessable"
)

// Decision is the result of the pure fulfillment decision. Exactly one of
// Email or PaymentIntentID is meaningful, depending on Action.
type Decision struct {
	Action          Action
	Email           string
	PaymentIntentID string
}
