package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"
	"go.uber.org/zap"

	"gooviral.app/checkout/config"
	"gooviral.app/checkout/event"
	"gooviral.app/checkout/mailer"
	"gooviral.app/checkout/models"
	"gooviral.app/checkout/storage"
)

// PaymentLinkCreator and RefundCreator are the two Stripe capabilities
// this system uses; client.API satisfies both through its PaymentLinks
// and Refunds services.
type PaymentLinkCreator interface {
	New(params *stripe.PaymentLinkParams) (*stripe.PaymentLink, error)
}

type RefundCreator interface {
	New(params *stripe.RefundParams) (*stripe.Refund, error)
}

type eventBus interface {
	Publish(event *stripe.Event) error
}

type StripeCheckout struct {
	links        PaymentLinkCreator
	refunds      RefundCreator
	natsConn     *nats.Conn
	eventManager *EventManager
	bus          eventBus
	dispatcher   *Dispatcher
	logger       *zap.Logger

	eventStore event.Service
	storage    storage.Service
	mailer     mailer.Service

	priceID         string
	currency        string
	redirectURL     string
	webhookSecret   string
	replayTolerance time.Duration
	callTimeout     time.Duration
}

func NewStripeCheckout(appConfig *config.Config,
	es event.Service,
	ss storage.Service,
	ms mailer.Service,
	nc *nats.Conn,
	logger *zap.Logger) (Checkout, error) {

	api := client.New(appConfig.Stripe.SecretKey, nil)

	sc := &StripeCheckout{
		links:           api.PaymentLinks,
		refunds:         api.Refunds,
		natsConn:        nc,
		logger:          logger,
		eventStore:      es,
		storage:         ss,
		mailer:          ms,
		priceID:         appConfig.Stripe.PriceID,
		currency:        appConfig.Stripe.Currency,
		redirectURL:     appConfig.Stripe.RedirectURL,
		webhookSecret:   appConfig.Stripe.WebhookSecret,
		replayTolerance: appConfig.Stripe.ReplayTolerance,
		callTimeout:     appConfig.Server.CallTimeout,
	}

	sc.eventManager = NewEventManager(nc, logger)
	sc.bus = sc.eventManager
	sc.registerEventHandlers()

	sc.dispatcher = NewDispatcher(8, 256, sc, logger)
	sc.dispatcher.Run()

	if err := sc.eventManager.SubscribeToEvents(sc.dispatcher); err != nil {
		return nil, fmt.Errorf("failed to subscribe to events: %w", err)
	}

	return sc, nil
}

// CreatePaymentLink creates a single-quantity payment link for the
// configured price with a post-purchase redirect. The provider error is
// wrapped for logging; callers surface only a generic failure.
func (sc *StripeCheckout) CreatePaymentLink(ctx context.Context) (*models.PaymentLink, error) {

	ctx, cancel := context.WithTimeout(ctx, sc.callTimeout)
	defer cancel()

	params := &stripe.PaymentLinkParams{
		Params: stripe.Params{Context: ctx},
		LineItems: []*stripe.PaymentLinkLineItemParams{
			{
				Price:    stripe.String(sc.priceID),
				Quantity: stripe.Int64(1),
			},
		},
		Currency: stripe.String(sc.currency),
		AfterCompletion: &stripe.PaymentLinkAfterCompletionParams{
			Type: stripe.String("redirect"),
			Redirect: &stripe.PaymentLinkAfterCompletionRedirectParams{
				URL: stripe.String(sc.redirectURL),
			},
		},
	}

	link, err := sc.links.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment link: %w", err)
	}

	return &models.PaymentLink{URL: link.URL}, nil
}

// HandleWebhook verifies the signature over the raw payload before any
// parsing, then routes the event to the async pipeline. Everything after
// a valid signature is acknowledged to the provider, including payloads
// this system cannot use.
func (sc *StripeCheckout) HandleWebhook(ctx context.Context, payload []byte, signature string) error {

	if err := webhook.ValidatePayloadWithTolerance(payload, signature, sc.webhookSecret, sc.replayTolerance); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	var stripeEvent stripe.Event
	if err := json.Unmarshal(payload, &stripeEvent); err != nil {
		// Signature was valid, so acknowledge and drop: returning an error
		// here would make the provider retry a permanently malformed body.
		sc.logger.Error("Dropping webhook with malformed body", zap.Error(err))
		return nil
	}

	if _, exists := sc.eventManager.GetHandler(stripeEvent.Type); !exists {
		// Expected traffic: the provider sends many unrelated event types
		// to the same endpoint.
		return nil
	}

	processed, err := sc.eventStore.IsEventProcessed(ctx, stripeEvent.ID)
	if err != nil {
		sc.logger.Error("Failed to check whether event was processed",
			zap.String("event_id", stripeEvent.ID), zap.Error(err))
	}
	if processed {
		sc.logger.Info("Event is already processed", zap.String("event_id", stripeEvent.ID))
		return nil
	}

	if err = sc.bus.Publish(&stripeEvent); err != nil {
		// The provider has been satisfied at this point; losing the event
		// is the documented at-most-once behavior of this pipeline.
		sc.logger.Error("Failed to publish event",
			zap.String("event_id", stripeEvent.ID), zap.Error(err))
		return nil
	}

	now := time.Now()
	eventModel := &models.Event{
		ID:        stripeEvent.ID,
		Type:      stripeEvent.Type,
		Processed: false,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err = sc.eventStore.Create(ctx, eventModel); err != nil {
		sc.logger.Error("Failed to record event",
			zap.String("event_id", stripeEvent.ID), zap.Error(err))
	}

	return nil
}

func (sc *StripeCheckout) ProcessEvent(ctx context.Context, stripeEvent *stripe.Event) error {

	handler, exists := sc.eventManager.GetHandler(stripeEvent.Type)
	if !exists {
		return nil
	}

	if err := handler(ctx, stripeEvent); err != nil {
		sc.logger.Error("Failed to process event",
			zap.String("event_id", stripeEvent.ID),
			zap.String("event_type", string(stripeEvent.Type)),
			zap.Error(err))
		return err
	}

	if err := sc.eventStore.MarkEventAsProcessed(ctx, stripeEvent.ID); err != nil {
		sc.logger.Error("Failed to mark event as processed",
			zap.String("event_id", stripeEvent.ID), zap.Error(err))
		return err
	}

	sc.logger.Info("Stripe event processed", zap.String("event_id", stripeEvent.ID))

	return nil
}

func (sc *StripeCheckout) handleCheckoutSessionEvent(ctx context.Context, stripeEvent *stripe.Event) error {

	sc.logger.Info("Stripe checkout session event", zap.String("event_id", stripeEvent.ID))

	if stripeEvent.Data == nil {
		sc.logger.Error("Checkout session event has no data object",
			zap.String("event_id", stripeEvent.ID))
		return nil
	}

	facts, err := parseCheckoutSession(stripeEvent.Data.Raw)
	if err != nil {
		sc.logger.Error("Failed to decode checkout session",
			zap.String("event_id", stripeEvent.ID), zap.Error(err))
		return nil
	}

	switch decision := decide(facts); decision.Action {
	case models.ActionFulfill:
		sc.fulfill(ctx, stripeEvent.ID, decision.Email)
	case models.ActionRefund:
		sc.logger.Warn("Customer email not found in Stripe event, issuing refund",
			zap.String("event_id", stripeEvent.ID))
		sc.refundPayment(ctx, stripeEvent.ID, decision.PaymentIntentID)
	default:
		sc.logger.Error("Payment intent not found, cannot issue refund",
			zap.String("event_id", stripeEvent.ID),
			zap.String("outcome", string(models.OutcomeUnprocessable)))
	}

	return nil
}

func (sc *StripeCheckout) fulfill(ctx context.Context, eventID, email string) {

	urlCtx, cancel := context.WithTimeout(ctx, sc.callTimeout)
	defer cancel()

	downloadURL, err := sc.storage.GetDownloadURL(urlCtx)
	if err != nil {
		sc.logger.Error("Failed to generate download URL",
			zap.String("event_id", eventID),
			zap.String("outcome", string(models.OutcomeDownloadFailed)),
			zap.Error(err))
		return
	}

	mailCtx, cancelMail := context.WithTimeout(ctx, sc.callTimeout)
	defer cancelMail()

	if err = sc.mailer.SendDownloadLink(mailCtx, email, downloadURL); err != nil {
		sc.logger.Error("Failed to send download email",
			zap.String("event_id", eventID),
			zap.String("outcome", string(models.OutcomeDownloadFailed)),
			zap.Error(err))
		return
	}

	sc.logger.Info("Download link sent",
		zap.String("event_id", eventID),
		zap.String("email", email),
		zap.String("outcome", string(models.OutcomeDownloadIssued)))
}

func (sc *StripeCheckout) refundPayment(ctx context.Context, eventID, paymentIntentID string) {

	refundCtx, cancel := context.WithTimeout(ctx, sc.callTimeout)
	defer cancel()

	params := &stripe.RefundParams{
		Params:        stripe.Params{Context: refundCtx},
		PaymentIntent: stripe.String(paymentIntentID),
	}

	if _, err := sc.refunds.New(params); err != nil {
		sc.logger.Error("Failed to issue refund for payment intent",
			zap.String("event_id", eventID),
			zap.String("payment_intent", paymentIntentID),
			zap.String("outcome", string(models.OutcomeRefundFailed)),
			zap.Error(err))
		return
	}

	sc.logger.Info("Refund issued for payment intent",
		zap.String("event_id", eventID),
		zap.String("payment_intent", paymentIntentID),
		zap.String("outcome", string(models.OutcomeRefundIssued)))
}

func (sc *StripeCheckout) Close() {
	sc.logger.Info("Initiating graceful shutdown of workers and dispatcher")
	if sc.natsConn != nil {
		sc.natsConn.Close()
	}
	sc.dispatcher.Stop()
	sc.logger.Info("StripeCheckout successfully shutdown")
}
