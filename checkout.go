package checkout

import (
	"context"
	"errors"

	"github.com/stripe/stripe-go/v79"

	"gooviral.app/checkout/models"
)

// ErrInvalidSignature marks a webhook payload that failed signature
// verification or arrived outside the replay tolerance window. It is the
// only webhook error that must not be acknowledged with a 200.
var ErrInvalidSignature = errors.New("invalid webhook signature")

type Checkout interface {
	// CreatePaymentLink creates a hosted checkout link for the configured
	// product price. Interacts with Stripe.
	CreatePaymentLink(ctx context.Context) (*models.PaymentLink, error)

	// HandleWebhook verifies the raw payload against the signature header,
	// drops duplicates and unsupported event types, and hands supported
	// events to the async pipeline. It returns before any fulfillment side
	// effect runs.
	HandleWebhook(ctx context.Context, payload []byte, signature string) error

	// ProcessEvent runs a verified event through parse, decide and execute.
	// Called from the worker pool, never from the request path.
	ProcessEvent(ctx context.Context, event *stripe.Event) error

	Close()
}
