//go:build integration

package email

import (
	"context"
	"testing"

	"github.com/HMB-research/open-accounting/internal/testutil"
)

func setupEmailTest(t *testing.T) (*PostgresRepository, context.Context) {
	t.Helper()
	pool := testutil.SetupTestDB(t)
	repo := NewPostgresRepository(pool)
	ctx := context.Background()

	if err := repo.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}

	return repo, ctx
}

func TestPostgresRepository_EnsureSchema(t *testing.T) {
	repo, ctx := setupEmailTest(t)

	// EnsureSchema should be idempotent.
	if err := repo.EnsureSchema(ctx); err != nil {
		t.Fatalf("second EnsureSchema call failed: %v", err)
	}
}

func TestPostgresRepository_UpsertAndGetTemplate(t *testing.T) {
	repo, ctx := setupEmailTest(t)

	tmpl := &EmailTemplate{
		ID:           "11111111-1111-1111-1111-111111111111",
		TemplateType: TemplateLeaveSubmitted,
		Subject:      "Leave request submitted: {{.EmployeeName}}",
		BodyHTML:     "<p>{{.EmployeeName}} requested leave</p>",
		IsActive:     true,
	}
	if err := repo.UpsertTemplate(ctx, tmpl); err != nil {
		t.Fatalf("UpsertTemplate failed: %v", err)
	}

	got, err := repo.GetTemplate(ctx, TemplateLeaveSubmitted)
	if err != nil {
		t.Fatalf("GetTemplate failed: %v", err)
	}
	if got.Subject != tmpl.Subject {
		t.Errorf("subject = %q, want %q", got.Subject, tmpl.Subject)
	}

	// Upsert again with a different subject, same type - should update in place.
	tmpl.Subject = "Updated subject"
	if err := repo.UpsertTemplate(ctx, tmpl); err != nil {
		t.Fatalf("second UpsertTemplate failed: %v", err)
	}
	got, err = repo.GetTemplate(ctx, TemplateLeaveSubmitted)
	if err != nil {
		t.Fatalf("GetTemplate after update failed: %v", err)
	}
	if got.Subject != "Updated subject" {
		t.Errorf("subject = %q, want %q", got.Subject, "Updated subject")
	}
}

func TestPostgresRepository_GetTemplate_NotFound(t *testing.T) {
	repo, ctx := setupEmailTest(t)

	_, err := repo.GetTemplate(ctx, TemplateType("no such template"))
	if err != ErrTemplateNotFound {
		t.Errorf("err = %v, want ErrTemplateNotFound", err)
	}
}

func TestPostgresRepository_ListTemplates(t *testing.T) {
	repo, ctx := setupEmailTest(t)

	if err := repo.UpsertTemplate(ctx, &EmailTemplate{
		ID:           "22222222-2222-2222-2222-222222222222",
		TemplateType: TemplatePayRunGenerated,
		Subject:      "Pay run generated",
		BodyHTML:     "<p>generated</p>",
		IsActive:     true,
	}); err != nil {
		t.Fatalf("UpsertTemplate failed: %v", err)
	}

	templates, err := repo.ListTemplates(ctx)
	if err != nil {
		t.Fatalf("ListTemplates failed: %v", err)
	}
	if len(templates) == 0 {
		t.Error("expected at least one stored template")
	}
}

func TestPostgresRepository_EmailLogLifecycle(t *testing.T) {
	repo, ctx := setupEmailTest(t)

	logEntry := &EmailLog{
		ID:             "33333333-3333-3333-3333-333333333333",
		EmailType:      string(TemplateLeaveSubmitted),
		RecipientEmail: "manager@example.com",
		RecipientName:  "Manager",
		Subject:        "Leave request submitted",
		Status:         StatusPending,
		RelatedID:      "44444444-4444-4444-4444-444444444444",
	}
	if err := repo.CreateEmailLog(ctx, logEntry); err != nil {
		t.Fatalf("CreateEmailLog failed: %v", err)
	}

	if err := repo.UpdateEmailLogStatus(ctx, logEntry.ID, StatusSent, nil, ""); err != nil {
		t.Fatalf("UpdateEmailLogStatus failed: %v", err)
	}

	logs, err := repo.GetEmailLog(ctx, 10)
	if err != nil {
		t.Fatalf("GetEmailLog failed: %v", err)
	}

	found := false
	for _, l := range logs {
		if l.ID == logEntry.ID {
			found = true
			if l.Status != StatusSent {
				t.Errorf("status = %q, want %q", l.Status, StatusSent)
			}
		}
	}
	if !found {
		t.Error("expected to find the created log entry")
	}
}
