package handlers

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"gooviral.app/checkout"
)

// checkoutLocale is appended to every payment URL before it reaches an
// end user; the hosted checkout page localizes from it.
const checkoutLocale = "en"

type PaymentHandler interface {
	CreatePayment(c echo.Context) error
}

type paymentHandler struct {
	Checkout checkout.Checkout
	logger   *zap.Logger
}

func NewPaymentHandler(
	Checkout checkout.Checkout,
	logger *zap.Logger,
) PaymentHandler {
	return &paymentHandler{
		Checkout: Checkout,
		logger:   logger,
	}
}

// CreatePayment handles POST /v1/payments/stripe. Provider failures are
// logged with their cause; the client only ever sees status=false.
func (ph *paymentHandler) CreatePayment(c echo.Context) error {

	link, err := ph.Checkout.CreatePaymentLink(c.Request().Context())
	if err != nil {
		ph.logger.Error("Failed to create payment link", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]any{"status": false})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"status":      true,
		"payment_url": withLocale(link.URL, checkoutLocale),
	})
}

// withLocale appends exactly one locale parameter, whether or not the
// provider URL already carries a query string.
func withLocale(rawURL, locale string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	query := u.Query()
	query.Set("locale", locale)
	u.RawQuery = query.Encode()

	return u.String()
}
