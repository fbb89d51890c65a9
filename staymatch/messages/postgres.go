package messages

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the querier shared by *pgxpool.Pool and pgx.Tx
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type repository struct {
	db DB
}

func NewRepository(db DB) Repository {
	return &repository{db: db}
}

// appends a message; the database assigns id and created_at so ordering key
// assignment is serialized per collaboration by the enclosing row lock
func (r *repository) Append(ctx context.Context, m *Message) (*Message, error) {
	var metadataJSON []byte

	if m.Metadata != nil {
		encoded, err := json.Marshal(m.Metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to encode metadata: %w", err)
		}
		metadataJSON = encoded
	}

	appended, err := scanMessage(r.db.QueryRow(
		ctx,
		queryAppendMessage,
		m.CollaborationID,
		m.SenderID,
		m.Content,
		m.ContentType,
		metadataJSON,
	))
	if err != nil {
		return nil, err
	}

	return appended, nil
}

func (r *repository) Page(ctx context.Context, collaborationID string, before *time.Time, limit int) ([]*Message, error) {
	var (
		rows pgx.Rows
		err  error
	)

	if before != nil {
		rows, err = r.db.Query(ctx, queryPageBefore, collaborationID, *before, limit)
	} else {
		rows, err = r.db.Query(ctx, queryPage, collaborationID, limit)
	}

	if err != nil {
		return nil, err
	}

	defer rows.Close()
	var page []*Message

	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		page = append(page, m)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return page, nil
}

func (r *repository) Latest(ctx context.Context, collaborationID string) (*Message, error) {
	m, err := scanMessage(r.db.QueryRow(ctx, queryLatestMessage, collaborationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return m, nil
}

func (r *repository) UnreadCount(ctx context.Context, collaborationID, viewerID string, lastReadAt time.Time) (int, error) {
	var count int

	err := r.db.QueryRow(ctx, queryUnreadCount, collaborationID, lastReadAt, viewerID).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *repository) MarkRead(ctx context.Context, collaborationID, userID string, at time.Time) error {
	_, err := r.db.Exec(ctx, queryMarkRead, collaborationID, userID, at)
	return err
}

func (r *repository) LastReadAt(ctx context.Context, collaborationID, userID string) (time.Time, error) {
	var lastReadAt time.Time

	err := r.db.QueryRow(ctx, queryLastReadAt, collaborationID, userID).Scan(&lastReadAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return time.Time{}, nil
		}
		return time.Time{}, err
	}

	return lastReadAt, nil
}

func scanMessage(row pgx.Row) (*Message, error) {
	var (
		m            Message
		metadataJSON []byte
	)

	err := row.Scan(
		&m.ID,
		&m.CollaborationID,
		&m.SenderID,
		&m.Content,
		&m.ContentType,
		&metadataJSON,
		&m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &m.Metadata); err != nil {
			return nil, fmt.Errorf("failed to decode metadata: %w", err)
		}
	}

	return &m, nil
}
