package models

// PaymentLink is the hosted checkout link returned to the caller. The
// HTTP layer appends a locale query parameter before exposing the URL.
type PaymentLink struct {
	URL string `json:"url"`
}
