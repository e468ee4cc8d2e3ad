//go:build gorm

package email

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// GORMRepository implements Repository using GORM, for deployments that
// prefer GORM's migration/model tooling over raw pgx (the default pick,
// see repository.go and DESIGN.md).
type GORMRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM repository.
func NewGORMRepository(db *gorm.DB) *GORMRepository {
	return &GORMRepository{db: db}
}

// EnsureSchema migrates the notification tables.
func (r *GORMRepository) EnsureSchema(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&EmailTemplate{}, &EmailLog{})
}

// GetTemplate retrieves a stored template.
func (r *GORMRepository) GetTemplate(ctx context.Context, templateType TemplateType) (*EmailTemplate, error) {
	var tmpl EmailTemplate
	err := r.db.WithContext(ctx).Where("template_type = ?", templateType).First(&tmpl).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTemplateNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// ListTemplates lists every stored template.
func (r *GORMRepository) ListTemplates(ctx context.Context) ([]EmailTemplate, error) {
	var templates []EmailTemplate
	err := r.db.WithContext(ctx).Order("template_type").Find(&templates).Error
	if err != nil {
		return nil, err
	}
	return templates, nil
}

// UpsertTemplate inserts or updates a template.
func (r *GORMRepository) UpsertTemplate(ctx context.Context, template *EmailTemplate) error {
	db := r.db.WithContext(ctx)
	err := db.Exec(`
		INSERT INTO email_templates (id, template_type, subject, body_html, body_text, is_active)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (template_type) DO UPDATE SET
			subject = EXCLUDED.subject,
			body_html = EXCLUDED.body_html,
			body_text = EXCLUDED.body_text,
			is_active = EXCLUDED.is_active,
			updated_at = NOW()
	`, template.ID, template.TemplateType, template.Subject, template.BodyHTML, template.BodyText, template.IsActive).Error
	if err != nil {
		return err
	}
	return db.Where("template_type = ?", template.TemplateType).First(template).Error
}

// CreateEmailLog creates a new delivery log entry.
func (r *GORMRepository) CreateEmailLog(ctx context.Context, log *EmailLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// UpdateEmailLogStatus updates a delivery log's outcome.
func (r *GORMRepository) UpdateEmailLogStatus(ctx context.Context, logID string, status EmailStatus, sentAt *time.Time, errorMessage string) error {
	return r.db.WithContext(ctx).Model(&EmailLog{}).
		Where("id = ?", logID).
		Updates(map[string]interface{}{
			"status":        status,
			"sent_at":       sentAt,
			"error_message": errorMessage,
		}).Error
}

// GetEmailLog retrieves the most recent delivery log entries.
func (r *GORMRepository) GetEmailLog(ctx context.Context, limit int) ([]EmailLog, error) {
	if limit <= 0 {
		limit = 50
	}
	var logs []EmailLog
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
