package email

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/wneessen/go-mail"
)

// Service sends HR notification emails (leave decisions, pay-run completion,
// advance recording) and logs every delivery attempt.
type Service struct {
	repo   Repository
	config SMTPConfig
}

// NewService creates a new notification service backed by repo, with its
// SMTP identity loaded once at startup via ConfigFromEnv.
func NewService(repo Repository, config SMTPConfig) *Service {
	return &Service{repo: repo, config: config}
}

// ConfigFromEnv builds an SMTPConfig from SMTP_* environment variables. A
// single mail identity serves the whole deployment; there is no per-tenant
// settings table to source it from.
func ConfigFromEnv() SMTPConfig {
	port := 587
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			port = p
		}
	}
	useTLS := true
	if v := os.Getenv("SMTP_USE_TLS"); v != "" {
		useTLS = v != "false"
	}
	return SMTPConfig{
		Host:      os.Getenv("SMTP_HOST"),
		Port:      port,
		Username:  os.Getenv("SMTP_USERNAME"),
		Password:  os.Getenv("SMTP_PASSWORD"),
		FromEmail: os.Getenv("SMTP_FROM_EMAIL"),
		FromName:  os.Getenv("SMTP_FROM_NAME"),
		UseTLS:    useTLS,
	}
}

// TestSMTP sends a one-off test message to confirm the configuration works.
func (s *Service) TestSMTP(_ context.Context, recipientEmail string) (*TestSMTPResponse, error) {
	if !s.config.IsConfigured() {
		return &TestSMTPResponse{Success: false, Message: "SMTP is not configured"}, nil
	}

	m := mail.NewMsg()
	if err := m.From(s.config.FromEmail); err != nil {
		return &TestSMTPResponse{Success: false, Message: fmt.Sprintf("invalid from address: %v", err)}, nil
	}
	if err := m.To(recipientEmail); err != nil {
		return &TestSMTPResponse{Success: false, Message: fmt.Sprintf("invalid recipient address: %v", err)}, nil
	}
	m.Subject("Test email from the HR back office")
	m.SetBodyString(mail.TypeTextPlain, "This is a test email to verify your SMTP configuration is working correctly.")

	if err := s.sendMail(m); err != nil {
		return &TestSMTPResponse{Success: false, Message: fmt.Sprintf("failed to send: %v", err)}, nil
	}
	return &TestSMTPResponse{Success: true, Message: "Test email sent successfully"}, nil
}

// GetTemplate retrieves a template, falling back to the built-in default
// when nothing has been stored yet.
func (s *Service) GetTemplate(ctx context.Context, templateType TemplateType) (*EmailTemplate, error) {
	tmpl, err := s.repo.GetTemplate(ctx, templateType)
	if err == nil {
		return tmpl, nil
	}
	if defaultTmpl, ok := DefaultTemplates()[templateType]; ok {
		return &defaultTmpl, nil
	}
	return nil, fmt.Errorf("template not found: %w", err)
}

// ListTemplates lists every template, filling in defaults for any type with
// no stored row.
func (s *Service) ListTemplates(ctx context.Context) ([]EmailTemplate, error) {
	stored, err := s.repo.ListTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	existing := make(map[TemplateType]bool, len(stored))
	for _, tmpl := range stored {
		existing[tmpl.TemplateType] = true
	}

	templates := append([]EmailTemplate{}, stored...)
	for templateType, defaultTmpl := range DefaultTemplates() {
		if !existing[templateType] {
			templates = append(templates, defaultTmpl)
		}
	}
	return templates, nil
}

// UpdateTemplate overwrites the stored subject/body for a template type.
func (s *Service) UpdateTemplate(ctx context.Context, templateType TemplateType, req *UpdateTemplateRequest) (*EmailTemplate, error) {
	tmpl := &EmailTemplate{
		ID:           uuid.NewString(),
		TemplateType: templateType,
		Subject:      req.Subject,
		BodyHTML:     req.BodyHTML,
		BodyText:     req.BodyText,
		IsActive:     req.IsActive,
	}
	if err := s.repo.UpsertTemplate(ctx, tmpl); err != nil {
		return nil, fmt.Errorf("failed to update template: %w", err)
	}
	return tmpl, nil
}

// NotifyLeaveSubmitted renders and sends the leave-submitted notification to
// recipientEmail (the employee's manager), logging the attempt against
// leaveRequestID.
func (s *Service) NotifyLeaveSubmitted(ctx context.Context, leaveRequestID, recipientEmail, recipientName string, data *TemplateData) (*EmailSentResponse, error) {
	return s.sendTemplated(ctx, TemplateLeaveSubmitted, leaveRequestID, recipientEmail, recipientName, data)
}

// NotifyLeaveApproved renders and sends the leave-approved notification to
// the requesting employee.
func (s *Service) NotifyLeaveApproved(ctx context.Context, leaveRequestID, recipientEmail, recipientName string, data *TemplateData) (*EmailSentResponse, error) {
	return s.sendTemplated(ctx, TemplateLeaveApproved, leaveRequestID, recipientEmail, recipientName, data)
}

// NotifyLeaveRejected renders and sends the leave-rejected notification to
// the requesting employee.
func (s *Service) NotifyLeaveRejected(ctx context.Context, leaveRequestID, recipientEmail, recipientName string, data *TemplateData) (*EmailSentResponse, error) {
	return s.sendTemplated(ctx, TemplateLeaveRejected, leaveRequestID, recipientEmail, recipientName, data)
}

// NotifyPayRunGenerated renders and sends the pay-run-completion notification
// (typically to a payroll administrator distribution address).
func (s *Service) NotifyPayRunGenerated(ctx context.Context, payRunID, recipientEmail, recipientName string, data *TemplateData) (*EmailSentResponse, error) {
	return s.sendTemplated(ctx, TemplatePayRunGenerated, payRunID, recipientEmail, recipientName, data)
}

// NotifyAdvanceRecorded renders and sends the advance-recorded notification
// to the employee the advance was issued to.
func (s *Service) NotifyAdvanceRecorded(ctx context.Context, advanceID, recipientEmail, recipientName string, data *TemplateData) (*EmailSentResponse, error) {
	return s.sendTemplated(ctx, TemplateAdvanceRecorded, advanceID, recipientEmail, recipientName, data)
}

func (s *Service) sendTemplated(ctx context.Context, templateType TemplateType, relatedID, recipientEmail, recipientName string, data *TemplateData) (*EmailSentResponse, error) {
	tmpl, err := s.GetTemplate(ctx, templateType)
	if err != nil {
		return nil, err
	}
	if !tmpl.IsActive {
		return &EmailSentResponse{Success: false, Message: "template is inactive"}, nil
	}

	subject, bodyHTML, bodyText, err := s.RenderTemplate(tmpl, data)
	if err != nil {
		return nil, err
	}

	return s.SendEmail(ctx, string(templateType), recipientEmail, recipientName, subject, bodyHTML, bodyText, relatedID)
}

// SendEmail sends a pre-rendered email and logs the attempt.
func (s *Service) SendEmail(ctx context.Context, emailType, recipient, recipientName, subject, bodyHTML, bodyText, relatedID string) (*EmailSentResponse, error) {
	if !s.config.IsConfigured() {
		return nil, fmt.Errorf("SMTP is not configured")
	}

	logID := uuid.NewString()
	if err := s.repo.CreateEmailLog(ctx, &EmailLog{
		ID:             logID,
		EmailType:      emailType,
		RecipientEmail: recipient,
		RecipientName:  recipientName,
		Subject:        subject,
		Status:         StatusPending,
		RelatedID:      relatedID,
	}); err != nil {
		return nil, fmt.Errorf("failed to create email log: %w", err)
	}

	m := mail.NewMsg()
	if s.config.FromName != "" {
		if err := m.FromFormat(s.config.FromName, s.config.FromEmail); err != nil {
			return s.logEmailError(ctx, logID, err)
		}
	} else if err := m.From(s.config.FromEmail); err != nil {
		return s.logEmailError(ctx, logID, err)
	}

	if recipientName != "" {
		if err := m.AddToFormat(recipientName, recipient); err != nil {
			return s.logEmailError(ctx, logID, err)
		}
	} else if err := m.To(recipient); err != nil {
		return s.logEmailError(ctx, logID, err)
	}

	m.Subject(subject)
	m.SetBodyString(mail.TypeTextHTML, bodyHTML)
	if bodyText != "" {
		m.AddAlternativeString(mail.TypeTextPlain, bodyText)
	}

	if err := s.sendMail(m); err != nil {
		return s.logEmailError(ctx, logID, err)
	}

	sentAt := time.Now()
	if err := s.repo.UpdateEmailLogStatus(ctx, logID, StatusSent, &sentAt, ""); err != nil {
		fmt.Printf("failed to update email log: %v\n", err)
	}

	return &EmailSentResponse{Success: true, LogID: logID, Message: "email sent successfully"}, nil
}

func (s *Service) logEmailError(ctx context.Context, logID string, sendErr error) (*EmailSentResponse, error) {
	if err := s.repo.UpdateEmailLogStatus(ctx, logID, StatusFailed, nil, sendErr.Error()); err != nil {
		fmt.Printf("failed to update email log: %v\n", err)
	}
	return nil, fmt.Errorf("failed to send email: %w", sendErr)
}

// sendMail dials out using go-mail with the service's SMTP identity.
func (s *Service) sendMail(m *mail.Msg) error {
	var opts []mail.Option
	opts = append(opts, mail.WithPort(s.config.Port))

	if s.config.Username != "" {
		opts = append(opts, mail.WithSMTPAuth(mail.SMTPAuthPlain))
		opts = append(opts, mail.WithUsername(s.config.Username))
		opts = append(opts, mail.WithPassword(s.config.Password))
	}

	if s.config.UseTLS {
		opts = append(opts, mail.WithTLSPortPolicy(mail.TLSMandatory))
		opts = append(opts, mail.WithTLSConfig(&tls.Config{
			ServerName: s.config.Host,
			MinVersion: tls.VersionTLS12,
		}))
	}

	client, err := mail.NewClient(s.config.Host, opts...)
	if err != nil {
		return fmt.Errorf("failed to create mail client: %w", err)
	}

	if err := client.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// RenderTemplate executes a template's subject/HTML/text bodies against data.
func (s *Service) RenderTemplate(tmpl *EmailTemplate, data *TemplateData) (subject string, bodyHTML string, bodyText string, err error) {
	subjectTmpl, err := template.New("subject").Parse(tmpl.Subject)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to parse subject template: %w", err)
	}
	var subjectBuf bytes.Buffer
	if err := subjectTmpl.Execute(&subjectBuf, data); err != nil {
		return "", "", "", fmt.Errorf("failed to render subject: %w", err)
	}
	subject = subjectBuf.String()

	htmlTmpl, err := template.New("body_html").Parse(tmpl.BodyHTML)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to parse HTML template: %w", err)
	}
	var htmlBuf bytes.Buffer
	if err := htmlTmpl.Execute(&htmlBuf, data); err != nil {
		return "", "", "", fmt.Errorf("failed to render HTML: %w", err)
	}
	bodyHTML = htmlBuf.String()

	if tmpl.BodyText != "" {
		textTmpl, err := template.New("body_text").Parse(tmpl.BodyText)
		if err != nil {
			return "", "", "", fmt.Errorf("failed to parse text template: %w", err)
		}
		var textBuf bytes.Buffer
		if err := textTmpl.Execute(&textBuf, data); err != nil {
			return "", "", "", fmt.Errorf("failed to render text: %w", err)
		}
		bodyText = textBuf.String()
	}

	return subject, bodyHTML, bodyText, nil
}

// GetEmailLog retrieves the most recent delivery log entries.
func (s *Service) GetEmailLog(ctx context.Context, limit int) ([]EmailLog, error) {
	logs, err := s.repo.GetEmailLog(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get email log: %w", err)
	}
	return logs, nil
}
