package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"gooviral.app/checkout/mailer"
	"gooviral.app/checkout/models"
)

const feedbackSendTimeout = 10 * time.Second

type FeedbackHandler interface {
	CreateFeedback(c echo.Context) error
}

type feedbackHandler struct {
	Mailer mailer.Service
	logger *zap.Logger
}

func NewFeedbackHandler(
	Mailer mailer.Service,
	logger *zap.Logger,
) FeedbackHandler {
	return &feedbackHandler{
		Mailer: Mailer,
		logger: logger,
	}
}

// CreateFeedback handles POST /v1/feedback. The mail to the admin is
// sent off the request path; delivery failures are only logged.
func (fh *feedbackHandler) CreateFeedback(c echo.Context) error {

	feedback := new(models.Feedback)
	if err := c.Bind(feedback); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}
	if err := feedback.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), feedbackSendTimeout)
		defer cancel()

		if err := fh.Mailer.SendFeedback(ctx, feedback); err != nil {
			fh.logger.Error("Failed to send feedback email", zap.Error(err))
		}
	}()

	return c.JSON(http.StatusOK, map[string]any{"status": true})
}
