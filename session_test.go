package checkout

import (
	"encoding/json"
	"testing"

	"gooviral.app/checkout/models"
)

func TestParseCheckoutSession(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantEmail string
		wantPI    string
	}{
		{
			name:      "customer_details wins over customer_email",
			raw:       `{"customer_details":{"email":"a@x.com"},"customer_email":"b@x.com","payment_intent":"pi_123"}`,
			wantEmail: "a@x.com",
			wantPI:    "pi_123",
		},
		{
			name:      "falls back to customer_email",
			raw:       `{"customer_email":"b@x.com"}`,
			wantEmail: "b@x.com",
		},
		{
			name:      "empty customer_details email falls back",
			raw:       `{"customer_details":{"email":""},"customer_email":"b@x.com"}`,
			wantEmail: "b@x.com",
		},
		{
			name:   "payment intent only",
			raw:    `{"payment_intent":"pi_123"}`,
			wantPI: "pi_123",
		},
		{
			name: "nothing usable",
			raw:  `{"amount_total":500}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			facts, err := parseCheckoutSession(json.RawMessage(tt.raw))
			if err != nil {
				t.Fatalf("parseCheckoutSession: %v", err)
			}
			if facts.CustomerEmail != tt.wantEmail {
				t.Errorf("email = %q, want %q", facts.CustomerEmail, tt.wantEmail)
			}
			if facts.PaymentIntentID != tt.wantPI {
				t.Errorf("payment intent = %q, want %q", facts.PaymentIntentID, tt.wantPI)
			}
		})
	}
}

func TestParseCheckoutSessionMalformed(t *testing.T) {
	if _, err := parseCheckoutSession(json.RawMessage(`{"customer_email":`)); err == nil {
		t.Fatal("expected error for malformed document")
	}
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name  string
		facts models.CheckoutFacts
		want  models.Decision
	}{
		{
			name:  "email present fulfills",
			facts: models.CheckoutFacts{CustomerEmail: "a@x.com"},
			want:  models.Decision{Action: models.ActionFulfill, Email: "a@x.com"},
		},
		{
			name:  "email wins even with payment intent",
			facts: models.CheckoutFacts{CustomerEmail: "a@x.com", PaymentIntentID: "pi_123"},
			want:  models.Decision{Action: models.ActionFulfill, Email: "a@x.com"},
		},
		{
			name:  "payment intent only refunds",
			facts: models.CheckoutFacts{PaymentIntentID: "pi_123"},
			want:  models.Decision{Action: models.ActionRefund, PaymentIntentID: "pi_123"},
		},
		{
			name:  "nothing is unprocessable",
			facts: models.CheckoutFacts{},
			want:  models.Decision{Action: models.ActionUnprocessable},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := decide(tt.facts); got != tt.want {
				t.Errorf("decide(%+v) = %+v, want %+v", tt.facts, got, tt.want)
			}
		})
	}
}
