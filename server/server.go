package server

import (
	"context"
	"crypto/subtle"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"gooviral.app/checkout/config"
	"gooviral.app/checkout/handlers"
)

type Server struct {
	echo     *echo.Echo
	config   *config.Config
	Payment  handlers.PaymentHandler
	Webhook  handlers.WebhookHandler
	Feedback handlers.FeedbackHandler
}

func NewServer(
	appConfig *config.Config,
	Payment handlers.PaymentHandler,
	Webhook handlers.WebhookHandler,
	Feedback handlers.FeedbackHandler,
) *Server {
	return &Server{
		echo:     echo.New(),
		config:   appConfig,
		Payment:  Payment,
		Webhook:  Webhook,
		Feedback: Feedback,
	}
}

// Start initializes the server by registering middlewares and routes, and starts listening for connections on the provided address.
// It returns an error if there is an issue starting the server.
func (s *Server) Start(address string) error {
	s.registerMiddlewares()
	s.registerRoutes()
	return s.echo.Start(address)
}

// Run starts the server on the configured address in a goroutine, then
// waits for an OS interrupt or SIGTERM signal before shutting it down
// gracefully with a bounded timeout.
func (s *Server) Run() error {

	go func() {
		if err := s.Start(s.config.Server.Address); err != nil {
			s.echo.Logger.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.echo.Shutdown(ctx)
}

func (s *Server) registerMiddlewares() {
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     s.config.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"*"},
		AllowCredentials: true,
	}))
	s.echo.Use(s.apiKeyMiddleware)
}

// apiKeyMiddleware requires X-API-KEY on everything except the payments
// surface, which Stripe and the public storefront call directly.
func (s *Server) apiKeyMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if strings.HasPrefix(c.Request().URL.Path, "/v1/payments") {
			return next(c)
		}

		key := c.Request().Header.Get("X-API-KEY")
		if key == "" || subtle.ConstantTimeCompare([]byte(key), []byte(s.config.Server.APIKey)) != 1 {
			return c.NoContent(http.StatusUnauthorized)
		}

		return next(c)
	}
}

func (s *Server) registerRoutes() {

	s.echo.POST("/v1/payments/stripe", s.Payment.CreatePayment)
	s.echo.POST("/v1/payments/stripe/webhook", s.Webhook.HandleStripeWebhook)

	s.echo.POST("/v1/feedback", s.Feedback.CreateFeedback)
}
