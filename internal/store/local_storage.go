package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/leaflock/leaflock/models"
)

var payloadColumns = []string{
	"uuid",
	"content_type",
	"content",
	"ciphertext",
	"format",
	"created_at",
	"updated_at",
	"deleted",
	"dirty",
	"dirty_count",
	"dirtied_at",
	"last_sync_began",
	"last_sync_ended",
}

type localStorage struct {
	*DB
}

// NewLocalStorage builds the SQLite-backed LocalStorage on an open,
// migrated connection.
func NewLocalStorage(db *DB) LocalStorage {
	return &localStorage{DB: db}
}

func (s *localStorage) GetAllRawPayloads(ctx context.Context) ([]models.Payload, error) {
	query, args, err := sq.Select(payloadColumns...).From("payloads").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build payloads query: %w", err)
	}

	rows, err := s.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query payloads: %w", err)
	}
	defer rows.Close()

	var payloads []models.Payload
	for rows.Next() {
		payload, err := scanPayload(rows)
		if err != nil {
			return nil, err
		}
		payloads = append(payloads, payload)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payloads: %w", err)
	}
	return payloads, nil
}

func (s *localStorage) SavePayloads(ctx context.Context, payloads []models.Payload) error {
	if len(payloads) == 0 {
		return nil
	}

	tx, err := s.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save payloads: %w", err)
	}
	defer tx.Rollback()

	for _, payload := range payloads {
		content, err := json.Marshal(payload.Content)
		if err != nil {
			return fmt.Errorf("encode payload content %s: %w", payload.UUID, err)
		}

		query, args, err := sq.Insert("payloads").
			Columns(payloadColumns...).
			Values(
				payload.UUID,
				string(payload.ContentType),
				string(content),
				payload.Ciphertext,
				string(payload.Format),
				nullableTime(payload.CreatedAt),
				nullableTime(payload.UpdatedAt),
				payload.Deleted,
				payload.Dirty,
				payload.DirtyCount,
				nullableTime(payload.DirtiedAt),
				nullableTime(payload.LastSyncBegan),
				nullableTime(payload.LastSyncEnded),
			).
			Suffix(`ON CONFLICT(uuid) DO UPDATE SET
				content_type = excluded.content_type,
				content = excluded.content,
				ciphertext = excluded.ciphertext,
				format = excluded.format,
				created_at = excluded.created_at,
				updated_at = excluded.updated_at,
				deleted = excluded.deleted,
				dirty = excluded.dirty,
				dirty_count = excluded.dirty_count,
				dirtied_at = excluded.dirtied_at,
				last_sync_began = excluded.last_sync_began,
				last_sync_ended = excluded.last_sync_ended`).
			ToSql()
		if err != nil {
			return fmt.Errorf("build payload upsert: %w", err)
		}

		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert payload %s: %w", payload.UUID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit save payloads: %w", err)
	}
	return nil
}

func (s *localStorage) RemoveAllPayloads(ctx context.Context) error {
	query, args, err := sq.Delete("payloads").ToSql()
	if err != nil {
		return fmt.Errorf("build payloads wipe: %w", err)
	}
	if _, err = s.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("wipe payloads: %w", err)
	}
	return nil
}

func (s *localStorage) GetValue(ctx context.Context, key string) (string, error) {
	query, args, err := sq.Select("value").From("kv").Where(sq.Eq{"key": key}).ToSql()
	if err != nil {
		return "", fmt.Errorf("build value query: %w", err)
	}

	var value string
	err = s.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query value %s: %w", key, err)
	}
	return value, nil
}

func (s *localStorage) SetValue(ctx context.Context, key, value string) error {
	query, args, err := sq.Insert("kv").
		Columns("key", "value").
		Values(key, value).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value").
		ToSql()
	if err != nil {
		return fmt.Errorf("build value upsert: %w", err)
	}
	if _, err = s.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("set value %s: %w", key, err)
	}
	return nil
}

func (s *localStorage) RemoveValue(ctx context.Context, key string) error {
	query, args, err := sq.Delete("kv").Where(sq.Eq{"key": key}).ToSql()
	if err != nil {
		return fmt.Errorf("build value delete: %w", err)
	}
	if _, err = s.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("remove value %s: %w", key, err)
	}
	return nil
}

func (s *localStorage) SaveSession(ctx context.Context, session models.Session) error {
	query, args, err := sq.Insert("session").
		Columns("id", "token", "account_uuid", "email").
		Values(1, session.Token, session.AccountUUID, session.Email).
		Suffix(`ON CONFLICT(id) DO UPDATE SET
			token = excluded.token,
			account_uuid = excluded.account_uuid,
			email = excluded.email`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build session upsert: %w", err)
	}
	if _, err = s.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *localStorage) GetSession(ctx context.Context) (models.Session, error) {
	query, args, err := sq.Select("token", "account_uuid", "email").
		From("session").
		Where(sq.Eq{"id": 1}).
		ToSql()
	if err != nil {
		return models.Session{}, fmt.Errorf("build session query: %w", err)
	}

	var session models.Session
	err = s.QueryRowContext(ctx, query, args...).
		Scan(&session.Token, &session.AccountUUID, &session.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Session{}, ErrSessionNotFound
	}
	if err != nil {
		return models.Session{}, fmt.Errorf("query session: %w", err)
	}
	return session, nil
}

func (s *localStorage) DeleteSession(ctx context.Context) error {
	query, args, err := sq.Delete("session").Where(sq.Eq{"id": 1}).ToSql()
	if err != nil {
		return fmt.Errorf("build session delete: %w", err)
	}
	if _, err = s.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *localStorage) Close() error {
	return s.DB.DB.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPayload(row rowScanner) (models.Payload, error) {
	var (
		payload     models.Payload
		contentType string
		content     sql.NullString
		ciphertext  sql.NullString
		format      string
		createdAt   sql.NullTime
		updatedAt   sql.NullTime
		dirtiedAt   sql.NullTime
		syncBegan   sql.NullTime
		syncEnded   sql.NullTime
	)

	err := row.Scan(
		&payload.UUID,
		&contentType,
		&content,
		&ciphertext,
		&format,
		&createdAt,
		&updatedAt,
		&payload.Deleted,
		&payload.Dirty,
		&payload.DirtyCount,
		&dirtiedAt,
		&syncBegan,
		&syncEnded,
	)
	if err != nil {
		return models.Payload{}, fmt.Errorf("scan payload: %w", err)
	}

	payload.ContentType = models.ContentType(contentType)
	payload.Format = models.Format(format)
	payload.Ciphertext = ciphertext.String
	if content.Valid && content.String != "" {
		if err = json.Unmarshal([]byte(content.String), &payload.Content); err != nil {
			return models.Payload{}, fmt.Errorf("decode payload content %s: %w", payload.UUID, err)
		}
	}
	payload.CreatedAt = timeOrZero(createdAt)
	payload.UpdatedAt = timeOrZero(updatedAt)
	payload.DirtiedAt = timeOrZero(dirtiedAt)
	payload.LastSyncBegan = timeOrZero(syncBegan)
	payload.LastSyncEnded = timeOrZero(syncEnded)
	return payload, nil
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

func timeOrZero(t sql.NullTime) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return t.Time
}
