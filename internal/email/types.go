package email

import (
	"errors"
	"time"
)

// TemplateType identifies which notification template to render.
type TemplateType string

const (
	TemplateLeaveSubmitted    TemplateType = "LEAVE_SUBMITTED"
	TemplateLeaveApproved     TemplateType = "LEAVE_APPROVED"
	TemplateLeaveRejected     TemplateType = "LEAVE_REJECTED"
	TemplatePayRunGenerated   TemplateType = "PAYRUN_GENERATED"
	TemplateAdvanceRecorded   TemplateType = "ADVANCE_RECORDED"
)

// EmailStatus is the delivery status of a logged email.
type EmailStatus string

const (
	StatusPending EmailStatus = "PENDING"
	StatusSent    EmailStatus = "SENT"
	StatusFailed  EmailStatus = "FAILED"
)

// SMTPConfig holds the service's single outbound mail configuration. Unlike
// the multi-tenant accounting system this package was adapted from, there is
// one mail identity for the whole deployment, loaded from the environment at
// startup rather than stored per-tenant in the database.
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
	UseTLS    bool
}

// Validate checks the configuration is complete enough to dial a server.
func (c *SMTPConfig) Validate() error {
	if c.Host == "" {
		return errors.New("SMTP host is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return errors.New("invalid SMTP port")
	}
	if c.FromEmail == "" {
		return errors.New("from email is required")
	}
	return nil
}

// IsConfigured reports whether enough of the config is set to attempt delivery.
func (c *SMTPConfig) IsConfigured() bool {
	return c.Host != "" && c.Port > 0 && c.FromEmail != ""
}

// EmailTemplate is a stored, editable notification template.
type EmailTemplate struct {
	ID           string       `json:"id"`
	TemplateType TemplateType `json:"template_type"`
	Subject      string       `json:"subject"`
	BodyHTML     string       `json:"body_html"`
	BodyText     string       `json:"body_text,omitempty"`
	IsActive     bool         `json:"is_active"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// EmailLog is a record of one notification delivery attempt.
type EmailLog struct {
	ID             string      `json:"id"`
	EmailType      string      `json:"email_type"`
	RecipientEmail string      `json:"recipient_email"`
	RecipientName  string      `json:"recipient_name,omitempty"`
	Subject        string      `json:"subject"`
	Status         EmailStatus `json:"status"`
	SentAt         *time.Time  `json:"sent_at,omitempty"`
	ErrorMessage   string      `json:"error_message,omitempty"`
	RelatedID      string      `json:"related_id,omitempty"` // leave request ID or pay-run ID
	CreatedAt      time.Time   `json:"created_at"`
}

// UpdateTemplateRequest edits one stored template.
type UpdateTemplateRequest struct {
	Subject  string `json:"subject"`
	BodyHTML string `json:"body_html"`
	BodyText string `json:"body_text,omitempty"`
	IsActive bool   `json:"is_active"`
}

// TestSMTPRequest triggers a one-off delivery test.
type TestSMTPRequest struct {
	RecipientEmail string `json:"recipient_email"`
}

// TestSMTPResponse reports the outcome of a delivery test.
type TestSMTPResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// EmailSentResponse reports the outcome of a notification send.
type EmailSentResponse struct {
	Success bool   `json:"success"`
	LogID   string `json:"log_id"`
	Message string `json:"message"`
}

// DefaultTemplates returns the built-in notification templates used when no
// row has been stored for a given type yet.
func DefaultTemplates() map[TemplateType]EmailTemplate {
	return map[TemplateType]EmailTemplate{
		TemplateLeaveSubmitted: {
			TemplateType: TemplateLeaveSubmitted,
			Subject:      "Leave request submitted: {{.EmployeeName}}",
			BodyHTML: `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
<h2>Leave Request Submitted</h2>
<p>{{.EmployeeName}} has requested leave from {{.StartDate}} to {{.EndDate}} ({{.LeaveType}}).</p>
{{if .Reason}}<p><strong>Reason:</strong> {{.Reason}}</p>{{end}}
<p>This request is awaiting manager approval.</p>
</div>
</body>
</html>`,
			IsActive: true,
		},
		TemplateLeaveApproved: {
			TemplateType: TemplateLeaveApproved,
			Subject:      "Leave request approved",
			BodyHTML: `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
<h2>Leave Approved</h2>
<p>Dear {{.EmployeeName}},</p>
<p>Your leave request from {{.StartDate}} to {{.EndDate}} ({{.LeaveType}}) has been {{.ApprovalStage}} approved.</p>
<p>Best regards,<br>HR</p>
</div>
</body>
</html>`,
			IsActive: true,
		},
		TemplateLeaveRejected: {
			TemplateType: TemplateLeaveRejected,
			Subject:      "Leave request rejected",
			BodyHTML: `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
<h2>Leave Rejected</h2>
<p>Dear {{.EmployeeName}},</p>
<p>Your leave request from {{.StartDate}} to {{.EndDate}} ({{.LeaveType}}) was rejected.</p>
{{if .Reason}}<p><strong>Reason:</strong> {{.Reason}}</p>{{end}}
<p>Best regards,<br>HR</p>
</div>
</body>
</html>`,
			IsActive: true,
		},
		TemplatePayRunGenerated: {
			TemplateType: TemplatePayRunGenerated,
			Subject:      "Pay run generated for {{.Period}}",
			BodyHTML: `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
<h2>Pay Run Generated</h2>
<p>The pay run for {{.Period}} has been generated, covering {{.LineCount}} employees.</p>
<p>Total net pay: {{.TotalNetPay}}</p>
</div>
</body>
</html>`,
			IsActive: true,
		},
		TemplateAdvanceRecorded: {
			TemplateType: TemplateAdvanceRecorded,
			Subject:      "Salary advance recorded",
			BodyHTML: `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
<h2>Salary Advance Recorded</h2>
<p>Dear {{.EmployeeName}},</p>
<p>A salary advance of {{.Amount}} has been recorded against your account, to be recovered over {{.Installments}} installment(s) starting {{.StartDate}}.</p>
</div>
</body>
</html>`,
			IsActive: true,
		},
	}
}

// TemplateData holds the fields a template may reference. Every field is
// optional from a given caller's point of view; unused ones render empty.
type TemplateData struct {
	EmployeeName  string
	LeaveType     string
	StartDate     string
	EndDate       string
	Reason        string
	ApprovalStage string

	Period      string
	LineCount   int
	TotalNetPay string

	Amount       string
	Installments int
}
