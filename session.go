package checkout

import (
	"encoding/json"
	"fmt"

	"gooviral.app/checkout/models"
)

// checkoutSessionBody enumerates the two payload shapes Stripe produces
// for a completed checkout session. Depending on the checkout mode the
// customer email arrives either nested under customer_details or as a
// top-level customer_email; payment_intent is an id string when present.
type checkoutSessionBody struct {
	CustomerDetails *struct {
		Email string `json:"email"`
	} `json:"customer_details"`
	CustomerEmail string `json:"customer_email"`
	PaymentIntent string `json:"payment_intent"`
}

// parseCheckoutSession decodes a checkout.session.completed data object
// into the facts the fulfillment decision needs. customer_details.email
// wins over customer_email when both are populated.
func parseCheckoutSession(raw json.RawMessage) (models.CheckoutFacts, error) {

	var body checkoutSessionBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return models.CheckoutFacts{}, fmt.Errorf("failed to decode checkout session: %w", err)
	}

	facts := models.CheckoutFacts{
		PaymentIntentID: body.PaymentIntent,
	}

	if body.CustomerDetails != nil && body.CustomerDetails.Email != "" {
		facts.CustomerEmail = body.CustomerDetails.Email
	} else if body.CustomerEmail != "" {
		facts.CustomerEmail = body.CustomerEmail
	}

	return facts, nil
}

// decide maps checkout facts to a fulfillment decision. Fulfillment wins
// whenever an email exists, even if a payment intent is also present.
func decide(facts models.CheckoutFacts) models.Decision {

	if facts.CustomerEmail != "" {
		return models.Decision{
			Action: models.ActionFulfill,
			Email:  facts.CustomerEmail,
		}
	}

	if facts.PaymentIntentID != "" {
		return models.Decision{
			Action:          models.ActionRefund,
			PaymentIntentID: facts.PaymentIntentID,
		}
	}

	return models.Decision{Action: models.ActionUnprocessable}
}
