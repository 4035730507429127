package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"time"

	"github.com/dag-industries/attendance-backend-go/internal/config"
	"gopkg.in/gomail.v2"
)

//go:embed templates/*.html
var templateFS embed.FS

const maxRetries = 3

// EmailService defines the interface for sending emails
type EmailService interface {
	SendCorrectionReviewed(to string, data CorrectionReviewedData) error
}

type emailServiceImpl struct {
	cfg       config.SMTPConfig
	templates *template.Template
	dialer    *gomail.Dialer
	backoff   time.Duration
}

// NewEmailService creates a new email service instance
func NewEmailService(cfg config.SMTPConfig) (EmailService, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &emailServiceImpl{
		cfg:       cfg,
		templates: tmpl,
		dialer:    gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		backoff:   time.Second,
	}, nil
}

// CorrectionReviewedData fills correction_reviewed.html.
type CorrectionReviewedData struct {
	OrganizationName  string
	EmployeeName      string
	Decision          string // approved or rejected
	WorkDate          string
	CorrectedCheckIn  string
	CorrectedCheckOut string
	ReviewerName      string
	ReviewNotes       string
}

// SendCorrectionReviewed tells the requester how their correction was decided
func (s *emailServiceImpl) SendCorrectionReviewed(to string, data CorrectionReviewedData) error {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "correction_reviewed.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	subject := fmt.Sprintf("Attendance correction %s", data.Decision)
	return s.sendHTML(to, subject, body.String())
}

func (s *emailServiceImpl) sendHTML(to, subject, htmlBody string) error {
	// Skip sending if SMTP is not configured
	if s.cfg.Host == "" {
		slog.Warn("SMTP not configured, skipping email send", "to", to, "subject", subject)
		return nil
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.cfg.From, s.cfg.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err := s.dialer.DialAndSend(m)
		if err == nil {
			slog.Info("Email sent successfully", "to", to, "subject", subject, "attempt", attempt)
			return nil
		}

		lastErr = err
		slog.Error("Failed to send email",
			"to", to,
			"subject", subject,
			"attempt", attempt,
			"max_retries", maxRetries,
			"error", err,
		)

		// Exponential backoff: 1s, 2s
		if attempt < maxRetries {
			time.Sleep(s.backoff << (attempt - 1))
		}
	}

	return fmt.Errorf("failed to send email after %d attempts: %w", maxRetries, lastErr)
}
