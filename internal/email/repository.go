package email

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines the contract for template and delivery-log storage.
type Repository interface {
	EnsureSchema(ctx context.Context) error

	GetTemplate(ctx context.Context, templateType TemplateType) (*EmailTemplate, error)
	ListTemplates(ctx context.Context) ([]EmailTemplate, error)
	UpsertTemplate(ctx context.Context, template *EmailTemplate) error

	CreateEmailLog(ctx context.Context, log *EmailLog) error
	UpdateEmailLogStatus(ctx context.Context, logID string, status EmailStatus, sentAt *time.Time, errorMessage string) error
	GetEmailLog(ctx context.Context, limit int) ([]EmailLog, error)
}

// Common errors
var ErrTemplateNotFound = fmt.Errorf("template not found")

// PostgresRepository implements Repository using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// EnsureSchema creates the notification tables if they don't exist.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS email_templates (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			template_type VARCHAR(50) NOT NULL UNIQUE,
			subject TEXT NOT NULL,
			body_html TEXT NOT NULL,
			body_text TEXT,
			is_active BOOLEAN DEFAULT true,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS email_log (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			email_type VARCHAR(50) NOT NULL,
			recipient_email VARCHAR(255) NOT NULL,
			recipient_name VARCHAR(255),
			subject TEXT NOT NULL,
			status VARCHAR(20) DEFAULT 'PENDING',
			sent_at TIMESTAMPTZ,
			error_message TEXT,
			related_id UUID,
			created_at TIMESTAMPTZ DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_email_log_status ON email_log(status);
		CREATE INDEX IF NOT EXISTS idx_email_log_related ON email_log(related_id);
	`)
	return err
}

// GetTemplate retrieves a stored template.
func (r *PostgresRepository) GetTemplate(ctx context.Context, templateType TemplateType) (*EmailTemplate, error) {
	var tmpl EmailTemplate
	err := r.db.QueryRow(ctx, `
		SELECT id, template_type, subject, body_html, COALESCE(body_text, ''), is_active, created_at, updated_at
		FROM email_templates
		WHERE template_type = $1
	`, templateType).Scan(
		&tmpl.ID, &tmpl.TemplateType, &tmpl.Subject, &tmpl.BodyHTML, &tmpl.BodyText, &tmpl.IsActive, &tmpl.CreatedAt, &tmpl.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, ErrTemplateNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// ListTemplates lists every stored template.
func (r *PostgresRepository) ListTemplates(ctx context.Context) ([]EmailTemplate, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, template_type, subject, body_html, COALESCE(body_text, ''), is_active, created_at, updated_at
		FROM email_templates
		ORDER BY template_type
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []EmailTemplate
	for rows.Next() {
		var tmpl EmailTemplate
		if err := rows.Scan(&tmpl.ID, &tmpl.TemplateType, &tmpl.Subject, &tmpl.BodyHTML, &tmpl.BodyText, &tmpl.IsActive, &tmpl.CreatedAt, &tmpl.UpdatedAt); err != nil {
			return nil, err
		}
		templates = append(templates, tmpl)
	}
	return templates, nil
}

// UpsertTemplate inserts or updates a template.
func (r *PostgresRepository) UpsertTemplate(ctx context.Context, template *EmailTemplate) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO email_templates (id, template_type, subject, body_html, body_text, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (template_type) DO UPDATE SET
			subject = EXCLUDED.subject,
			body_html = EXCLUDED.body_html,
			body_text = EXCLUDED.body_text,
			is_active = EXCLUDED.is_active,
			updated_at = NOW()
		RETURNING id, template_type, subject, body_html, COALESCE(body_text, ''), is_active, created_at, updated_at
	`, template.ID, template.TemplateType, template.Subject, template.BodyHTML, template.BodyText, template.IsActive).Scan(
		&template.ID, &template.TemplateType, &template.Subject, &template.BodyHTML, &template.BodyText, &template.IsActive, &template.CreatedAt, &template.UpdatedAt,
	)
}

// CreateEmailLog creates a new delivery log entry.
func (r *PostgresRepository) CreateEmailLog(ctx context.Context, log *EmailLog) error {
	var relatedID *string
	if log.RelatedID != "" {
		relatedID = &log.RelatedID
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO email_log (id, email_type, recipient_email, recipient_name, subject, status, related_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, log.ID, log.EmailType, log.RecipientEmail, log.RecipientName, log.Subject, log.Status, relatedID)
	return err
}

// UpdateEmailLogStatus updates a delivery log's outcome.
func (r *PostgresRepository) UpdateEmailLogStatus(ctx context.Context, logID string, status EmailStatus, sentAt *time.Time, errorMessage string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE email_log SET status = $2, sent_at = $3, error_message = $4 WHERE id = $1
	`, logID, status, sentAt, errorMessage)
	return err
}

// GetEmailLog retrieves the most recent delivery log entries.
func (r *PostgresRepository) GetEmailLog(ctx context.Context, limit int) ([]EmailLog, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, email_type, recipient_email, COALESCE(recipient_name, ''), subject, status, sent_at, COALESCE(error_message, ''), related_id, created_at
		FROM email_log
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []EmailLog
	for rows.Next() {
		var entry EmailLog
		var relatedID *string
		if err := rows.Scan(&entry.ID, &entry.EmailType, &entry.RecipientEmail, &entry.RecipientName, &entry.Subject, &entry.Status, &entry.SentAt, &entry.ErrorMessage, &relatedID, &entry.CreatedAt); err != nil {
			return nil, err
		}
		if relatedID != nil {
			entry.RelatedID = *relatedID
		}
		logs = append(logs, entry)
	}
	return logs, nil
}
