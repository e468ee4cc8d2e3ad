package models

import (
	"time"

	"github.com/HMB-research/open-accounting/internal/database"
)

// JSONPayload is the raw JSON-serialized input/output captured for a
// mutating call.
type JSONPayload = database.JSONBRaw

// AuditAction classifies an audit entry. CREATE/UPDATE/DELETE come from
// mutating handlers; LOGIN and ACCESS_DENIED are recorded by the login
// handler. No handler records LOGOUT.
type AuditAction string

const (
	AuditCreate       AuditAction = "CREATE"
	AuditUpdate       AuditAction = "UPDATE"
	AuditDelete       AuditAction = "DELETE"
	AuditLogin        AuditAction = "LOGIN"
	AuditLogout       AuditAction = "LOGOUT"
	AuditAccessDenied AuditAction = "ACCESS_DENIED"
)

// AuditEntry is an append-only record of a successful mutation or auth
// event. Never mutated or deleted through the public surface.
type AuditEntry struct {
	ID            string      `json:"id"`
	ActorUsername string      `json:"actor_username"`
	Action        AuditAction `json:"action"`
	EntityKind    string      `json:"entity_kind"`
	EntityID      string      `json:"entity_id,omitempty"`
	Payload       JSONPayload `json:"payload,omitempty"`
	Timestamp     time.Time   `json:"timestamp"`
	RemoteIP      string      `json:"remote_ip,omitempty"`
	UserAgent     string      `json:"user_agent,omitempty"`
}

// AuditLogFilter is the set of optional, AND-combined filters accepted by
// GET /admin/audit-logs.
type AuditLogFilter struct {
	ActorUsername string
	Action        AuditAction
	EntityKind    string
	From          *time.Time
	To            *time.Time
	Limit         int
	Offset        int
}
