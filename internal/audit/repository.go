package audit

import (
	"context"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/HMB-research/open-accounting/internal/models"
)

// Repository is the data-access contract for audit entries: append-only
// writes, filtered reads.
type Repository interface {
	Insert(ctx context.Context, e *models.AuditEntry) error
	List(ctx context.Context, filter models.AuditLogFilter) ([]models.AuditEntry, error)
}

// PostgresRepository is the pgx-backed Repository implementation.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository builds a Repository backed by pool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Insert(ctx context.Context, e *models.AuditEntry) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO audit_entries (
			id, actor_username, action, entity_kind, entity_id, payload, timestamp, remote_ip, user_agent
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, e.ID, e.ActorUsername, e.Action, e.EntityKind, e.EntityID, []byte(e.Payload), e.Timestamp, e.RemoteIP, e.UserAgent)
	return err
}

func (r *PostgresRepository) List(ctx context.Context, filter models.AuditLogFilter) ([]models.AuditEntry, error) {
	var conditions []string
	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.ActorUsername != "" {
		conditions = append(conditions, "actor_username = "+arg(filter.ActorUsername))
	}
	if filter.Action != "" {
		conditions = append(conditions, "action = "+arg(filter.Action))
	}
	if filter.EntityKind != "" {
		conditions = append(conditions, "entity_kind = "+arg(filter.EntityKind))
	}
	if filter.From != nil {
		conditions = append(conditions, "timestamp >= "+arg(*filter.From))
	}
	if filter.To != nil {
		conditions = append(conditions, "timestamp <= "+arg(*filter.To))
	}

	query := `SELECT id, actor_username, action, entity_kind, entity_id, payload, timestamp, remote_ip, user_agent FROM audit_entries`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY timestamp DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += " LIMIT " + arg(limit)
	if filter.Offset > 0 {
		query += " OFFSET " + arg(filter.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.AuditEntry
	for rows.Next() {
		var e models.AuditEntry
		var payload []byte
		if err := rows.Scan(&e.ID, &e.ActorUsername, &e.Action, &e.EntityKind, &e.EntityID, &payload,
			&e.Timestamp, &e.RemoteIP, &e.UserAgent); err != nil {
			return nil, err
		}
		e.Payload = payload
		out = append(out, e)
	}
	return out, nil
}
