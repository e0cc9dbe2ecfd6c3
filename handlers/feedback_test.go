package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"gooviral.app/checkout/models"
)

type recordingMailer struct {
	mu       sync.Mutex
	feedback []*models.Feedback
}

func (m *recordingMailer) SendDownloadLink(context.Context, string, string) error { return nil }

func (m *recordingMailer) SendFeedback(_ context.Context, feedback *models.Feedback) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.feedback = append(m.feedback, feedback)
	return nil
}

func (m *recordingMailer) sent() []*models.Feedback {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*models.Feedback(nil), m.feedback...)
}

func postFeedback(t *testing.T, handler FeedbackHandler, body string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/feedback", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := handler.CreateFeedback(e.NewContext(req, rec)); err != nil {
		t.Fatalf("CreateFeedback: %v", err)
	}
	return rec
}

func TestCreateFeedback(t *testing.T) {
	mailer := &recordingMailer{}
	handler := NewFeedbackHandler(mailer, zap.NewNop())

	rec := postFeedback(t, handler,
		`{"name":"Ada","email":"ada@example.com","message":"Loved it"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	deadline := time.Now().Add(2 * time.Second)
	for len(mailer.sent()) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("feedback mail was never sent")
		}
		time.Sleep(10 * time.Millisecond)
	}

	got := mailer.sent()[0]
	if got.Name != "Ada" || got.Email != "ada@example.com" || got.Message != "Loved it" {
		t.Errorf("feedback = %+v", got)
	}
}

func TestCreateFeedbackRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"name":`},
		{"bad email", `{"email":"not-an-email","message":"hi"}`},
		{"empty message", `{"email":"ada@example.com","message":""}`},
		{"oversized message", `{"message":"` + strings.Repeat("a", 4001) + `"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mailer := &recordingMailer{}
			handler := NewFeedbackHandler(mailer, zap.NewNop())

			rec := postFeedback(t, handler, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}

			time.Sleep(20 * time.Millisecond)
			if len(mailer.sent()) != 0 {
				t.Error("invalid feedback must not be mailed")
			}
		})
	}
}
