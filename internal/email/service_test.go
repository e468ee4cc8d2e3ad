package email

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepository is an in-memory Repository used to test Service without a
// database.
type fakeRepository struct {
	templates map[TemplateType]*EmailTemplate
	logs      []EmailLog
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{templates: map[TemplateType]*EmailTemplate{}}
}

func (f *fakeRepository) EnsureSchema(_ context.Context) error { return nil }

func (f *fakeRepository) GetTemplate(_ context.Context, templateType TemplateType) (*EmailTemplate, error) {
	tmpl, ok := f.templates[templateType]
	if !ok {
		return nil, ErrTemplateNotFound
	}
	cp := *tmpl
	return &cp, nil
}

func (f *fakeRepository) ListTemplates(_ context.Context) ([]EmailTemplate, error) {
	var out []EmailTemplate
	for _, tmpl := range f.templates {
		out = append(out, *tmpl)
	}
	return out, nil
}

func (f *fakeRepository) UpsertTemplate(_ context.Context, template *EmailTemplate) error {
	cp := *template
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	f.templates[template.TemplateType] = &cp
	return nil
}

func (f *fakeRepository) CreateEmailLog(_ context.Context, log *EmailLog) error {
	f.logs = append(f.logs, *log)
	return nil
}

func (f *fakeRepository) UpdateEmailLogStatus(_ context.Context, logID string, status EmailStatus, sentAt *time.Time, errorMessage string) error {
	for i := range f.logs {
		if f.logs[i].ID == logID {
			f.logs[i].Status = status
			f.logs[i].SentAt = sentAt
			f.logs[i].ErrorMessage = errorMessage
			return nil
		}
	}
	return ErrTemplateNotFound
}

func (f *fakeRepository) GetEmailLog(_ context.Context, limit int) ([]EmailLog, error) {
	if limit <= 0 || limit > len(f.logs) {
		limit = len(f.logs)
	}
	return f.logs[:limit], nil
}

func unconfiguredService() (*Service, *fakeRepository) {
	repo := newFakeRepository()
	return NewService(repo, SMTPConfig{}), repo
}

func TestNewService(t *testing.T) {
	svc, _ := unconfiguredService()
	require.NotNil(t, svc)
}

func TestConfigFromEnv_Defaults(t *testing.T) {
	t.Setenv("SMTP_HOST", "")
	t.Setenv("SMTP_PORT", "")
	t.Setenv("SMTP_USE_TLS", "")

	cfg := ConfigFromEnv()

	assert.Equal(t, 587, cfg.Port)
	assert.True(t, cfg.UseTLS)
}

func TestConfigFromEnv_Overrides(t *testing.T) {
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("SMTP_USERNAME", "hr-notify")
	t.Setenv("SMTP_PASSWORD", "secret")
	t.Setenv("SMTP_FROM_EMAIL", "hr@example.com")
	t.Setenv("SMTP_FROM_NAME", "HR Notifications")
	t.Setenv("SMTP_USE_TLS", "false")

	cfg := ConfigFromEnv()

	assert.Equal(t, "smtp.example.com", cfg.Host)
	assert.Equal(t, 2525, cfg.Port)
	assert.Equal(t, "hr-notify", cfg.Username)
	assert.Equal(t, "secret", cfg.Password)
	assert.Equal(t, "hr@example.com", cfg.FromEmail)
	assert.Equal(t, "HR Notifications", cfg.FromName)
	assert.False(t, cfg.UseTLS)
}

func TestTestSMTP_NotConfigured(t *testing.T) {
	svc, _ := unconfiguredService()

	resp, err := svc.TestSMTP(context.Background(), "someone@example.com")

	require.NoError(t, err)
	assert.False(t, resp.Success)
}

func TestGetTemplate_FallsBackToDefault(t *testing.T) {
	svc, _ := unconfiguredService()

	tmpl, err := svc.GetTemplate(context.Background(), TemplateLeaveSubmitted)

	require.NoError(t, err)
	assert.Equal(t, TemplateLeaveSubmitted, tmpl.TemplateType)
	assert.True(t, tmpl.IsActive)
}

func TestGetTemplate_UsesStoredOverride(t *testing.T) {
	svc, repo := unconfiguredService()
	require.NoError(t, repo.UpsertTemplate(context.Background(), &EmailTemplate{
		ID:           "tmpl-1",
		TemplateType: TemplateLeaveSubmitted,
		Subject:      "custom subject",
		BodyHTML:     "<p>custom</p>",
		IsActive:     true,
	}))

	tmpl, err := svc.GetTemplate(context.Background(), TemplateLeaveSubmitted)

	require.NoError(t, err)
	assert.Equal(t, "custom subject", tmpl.Subject)
}

func TestListTemplates_FillsInMissingDefaults(t *testing.T) {
	svc, repo := unconfiguredService()
	require.NoError(t, repo.UpsertTemplate(context.Background(), &EmailTemplate{
		TemplateType: TemplateLeaveApproved,
		Subject:      "stored",
		BodyHTML:     "<p>stored</p>",
		IsActive:     true,
	}))

	templates, err := svc.ListTemplates(context.Background())

	require.NoError(t, err)
	assert.Len(t, templates, len(DefaultTemplates()))
}

func TestUpdateTemplate(t *testing.T) {
	svc, _ := unconfiguredService()

	tmpl, err := svc.UpdateTemplate(context.Background(), TemplateLeaveRejected, &UpdateTemplateRequest{
		Subject:  "new subject",
		BodyHTML: "<p>new body</p>",
		IsActive: false,
	})

	require.NoError(t, err)
	assert.Equal(t, "new subject", tmpl.Subject)
	assert.False(t, tmpl.IsActive)
}

func TestSendEmail_NotConfigured(t *testing.T) {
	svc, _ := unconfiguredService()

	_, err := svc.SendEmail(context.Background(), "LEAVE_SUBMITTED", "someone@example.com", "Someone", "subject", "<p>body</p>", "", "leave-1")

	require.Error(t, err)
}

func TestNotifyLeaveApproved_InactiveTemplateSkipsSend(t *testing.T) {
	svc, repo := unconfiguredService()
	require.NoError(t, repo.UpsertTemplate(context.Background(), &EmailTemplate{
		TemplateType: TemplateLeaveApproved,
		Subject:      "Leave approved",
		BodyHTML:     "<p>approved</p>",
		IsActive:     false,
	}))

	resp, err := svc.NotifyLeaveApproved(context.Background(), "leave-1", "employee@example.com", "Employee", &TemplateData{EmployeeName: "Employee"})

	require.NoError(t, err)
	assert.False(t, resp.Success)
}

func TestRenderTemplate(t *testing.T) {
	svc, _ := unconfiguredService()
	tmpl := &EmailTemplate{
		Subject:  "Leave request submitted: {{.EmployeeName}}",
		BodyHTML: "<p>{{.EmployeeName}} requested {{.LeaveType}} leave.</p>",
		BodyText: "{{.EmployeeName}} requested {{.LeaveType}} leave.",
	}

	subject, bodyHTML, bodyText, err := svc.RenderTemplate(tmpl, &TemplateData{EmployeeName: "Asha Rao", LeaveType: "sick"})

	require.NoError(t, err)
	assert.Equal(t, "Leave request submitted: Asha Rao", subject)
	assert.Contains(t, bodyHTML, "Asha Rao requested sick leave.")
	assert.Contains(t, bodyText, "Asha Rao requested sick leave.")
}

func TestRenderTemplate_InvalidSyntax(t *testing.T) {
	svc, _ := unconfiguredService()
	tmpl := &EmailTemplate{Subject: "{{.Broken", BodyHTML: "<p>broken</p>"}

	_, _, _, err := svc.RenderTemplate(tmpl, &TemplateData{})

	require.Error(t, err)
}

func TestGetEmailLog(t *testing.T) {
	svc, repo := unconfiguredService()
	require.NoError(t, repo.CreateEmailLog(context.Background(), &EmailLog{ID: "log-1", EmailType: "LEAVE_SUBMITTED", Status: StatusPending}))

	logs, err := svc.GetEmailLog(context.Background(), 10)

	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "log-1", logs[0].ID)
}
