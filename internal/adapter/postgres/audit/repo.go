// Package audit persists change events as an append-only audit log.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/contracthub-backend/internal/adapter/postgres"
	"github.com/heartmarshall/contracthub-backend/internal/domain"
)

const (
	entity = "audit_entry"

	defaultLimit = 50
	maxLimit     = 500
)

var columns = []string{"id", "entity_type", "record_code", "action", "actor_id", "document", "created_at"}

// Repo provides audit log persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// New creates a new audit repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool, now: time.Now}
}

const insertSQL = `
INSERT INTO audit_log (entity_type, record_code, action, actor_id, document, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

// Notify appends ev to the log, which makes the repo a change sink.
func (r *Repo) Notify(ctx context.Context, ev domain.ChangeEvent) error {
	var doc []byte
	if ev.Document != nil {
		var err error
		if doc, err = json.Marshal(ev.Document); err != nil {
			return fmt.Errorf("audit marshal document: %w", err)
		}
	}

	var actor *int64
	if ev.ActorID > 0 {
		actor = &ev.ActorID
	}

	at := ev.At
	if at.IsZero() {
		at = r.now()
	}

	_, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, insertSQL,
		string(ev.Type), ev.Code, string(ev.Kind), actor, doc, at.UTC(),
	)
	if err != nil {
		return postgres.MapError(err, entity, 0)
	}
	return nil
}

// List returns matching entries, newest first.
func (r *Repo) List(ctx context.Context, f domain.AuditFilter) ([]domain.AuditEntry, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	q := postgres.Builder.Select(columns...).From("audit_log")
	if f.Type != "" {
		q = q.Where(sq.Eq{"entity_type": string(f.Type)})
	}
	if f.Code != "" {
		q = q.Where(sq.Eq{"record_code": f.Code})
	}
	if f.ActorID > 0 {
		q = q.Where(sq.Eq{"actor_id": f.ActorID})
	}
	q = q.OrderBy("created_at DESC", "id DESC").Limit(uint64(limit))

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build audit query: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.AuditEntry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	return entries, nil
}

const deleteBeforeSQL = `DELETE FROM audit_log WHERE created_at < $1`

// DeleteBefore removes entries older than before and reports how many went.
func (r *Repo) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, deleteBeforeSQL, before)
	if err != nil {
		return 0, fmt.Errorf("prune audit log: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanEntry(row pgx.Row) (domain.AuditEntry, error) {
	var (
		e         domain.AuditEntry
		typ, kind string
		actor     *int64
		doc       []byte
	)
	if err := row.Scan(&e.ID, &typ, &e.Code, &kind, &actor, &doc, &e.At); err != nil {
		return domain.AuditEntry{}, fmt.Errorf("scan audit entry: %w", err)
	}
	e.Type = domain.EntityType(typ)
	e.Kind = domain.ChangeKind(kind)
	if actor != nil {
		e.ActorID = *actor
	}
	if len(doc) > 0 {
		if err := json.Unmarshal(doc, &e.Document); err != nil {
			return domain.AuditEntry{}, fmt.Errorf("audit entry %d document: %w", e.ID, err)
		}
	}
	e.At = e.At.UTC()
	return e, nil
}
