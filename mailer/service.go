package mailer

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"gooviral.app/checkout/config"
	"gooviral.app/checkout/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// Service sends the transactional mail this system produces: the
// download-ready notification to a customer and feedback relayed to the
// admin contact.
type Service interface {
	SendDownloadLink(ctx context.Context, to, downloadURL string) error
	SendFeedback(ctx context.Context, feedback *models.Feedback) error
}

type service struct {
	client        *mail.Client
	templates     *template.Template
	adminEmail    string
	adminName     string
	subject       string
	linkDaysValid int
	logger        *zap.Logger
}

func NewService(appConfig *config.Config, logger *zap.Logger) (Service, error) {

	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	client, err := mail.NewClient(appConfig.Mail.Host,
		mail.WithPort(appConfig.Mail.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(appConfig.Mail.Username),
		mail.WithPassword(appConfig.Mail.Password),
		mail.WithTLSPortPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail client: %w", err)
	}

	return &service{
		client:        client,
		templates:     templates,
		adminEmail:    appConfig.Mail.AdminEmail,
		adminName:     appConfig.Mail.AdminName,
		subject:       appConfig.Mail.Subject,
		linkDaysValid: appConfig.R2.LinkDaysValid,
		logger:        logger,
	}, nil
}

func parseTemplates() (*template.Template, error) {
	templates, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse mail templates: %w", err)
	}
	return templates, nil
}

func (s *service) SendDownloadLink(ctx context.Context, to, downloadURL string) error {

	body, err := s.downloadLinkBody(downloadURL)
	if err != nil {
		return err
	}

	return s.send(ctx, to, s.subject, body)
}

func (s *service) SendFeedback(ctx context.Context, feedback *models.Feedback) error {

	body, err := s.feedbackBody(feedback)
	if err != nil {
		return err
	}

	return s.send(ctx, s.adminEmail, "New feedback", body)
}

func (s *service) downloadLinkBody(downloadURL string) (string, error) {
	return s.render("send-link.html", map[string]any{
		"DownloadLink":  downloadURL,
		"LinkDaysValid": s.linkDaysValid,
		"CurrentYear":   time.Now().Year(),
	})
}

func (s *service) feedbackBody(feedback *models.Feedback) (string, error) {

	// The message is plain text from the form; escape it first, then keep
	// the line breaks the sender typed.
	message := template.HTMLEscapeString(feedback.Message)
	message = strings.ReplaceAll(message, "\r", "")
	message = strings.ReplaceAll(message, "\n", "<br>")

	return s.render("feedback.html", map[string]any{
		"Name":    feedback.Name,
		"Email":   feedback.Email,
		"Message": template.HTML(message),
	})
}

func (s *service) render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render template %s: %w", name, err)
	}
	return buf.String(), nil
}

func (s *service) send(ctx context.Context, to, subject, htmlBody string) error {

	msg := mail.NewMsg()
	if err := msg.FromFormat(s.adminName, s.adminEmail); err != nil {
		return fmt.Errorf("failed to set mail sender: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("failed to set mail recipient: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
