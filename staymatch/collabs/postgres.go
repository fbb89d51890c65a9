package collabs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"codeberg.org/staymatch/server/staymatch/terms"
)

// DB is the querier shared by *pgxpool.Pool and pgx.Tx, so the same
// repository serves pooled reads and transactional writes
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

// creates a new collaboration in pending with terms version 1
func (r *repository) Create(ctx context.Context, c *Collaboration) (*Collaboration, error) {
	termsJSON, err := json.Marshal(c.Terms)
	if err != nil {
		return nil, fmt.Errorf("failed to encode terms: %w", err)
	}

	row := r.db.QueryRow(
		ctx,
		queryCreateCollaboration,
		c.HotelID,
		c.CreatorID,
		c.ListingID,
		c.InitiatorParty,
		c.Status,
		termsJSON,
		c.TermsVersion,
	)

	created, err := scanCollaboration(row)
	if err != nil {
		return nil, err
	}

	return created, nil
}

func (r *repository) Get(ctx context.Context, id string) (*Collaboration, error) {
	return r.get(ctx, id, queryGetCollaboration)
}

// loads the aggregate under a row lock, serializing all mutating
// operations on the same collaboration within the enclosing transaction
func (r *repository) GetForUpdate(ctx context.Context, id string) (*Collaboration, error) {
	return r.get(ctx, id, queryGetCollaborationForUpdate)
}

func (r *repository) get(ctx context.Context, id, query string) (*Collaboration, error) {
	c, err := scanCollaboration(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	deliverables, err := r.listDeliverables(ctx, c.ID)
	if err != nil {
		return nil, err
	}

	c.Deliverables = deliverables
	return c, nil
}

// writes the mutable fields of the aggregate; deliverable rows are managed
// through InsertDeliverables and SetDeliverableCompleted
func (r *repository) Update(ctx context.Context, c *Collaboration) error {
	termsJSON, err := json.Marshal(c.Terms)
	if err != nil {
		return fmt.Errorf("failed to encode terms: %w", err)
	}

	var hotelVersion, creatorVersion *int
	var hotelAt, creatorAt *time.Time

	if c.HotelApproval != nil {
		hotelVersion = &c.HotelApproval.TermsVersion
		hotelAt = &c.HotelApproval.ApprovedAt
	}

	if c.CreatorApproval != nil {
		creatorVersion = &c.CreatorApproval.TermsVersion
		creatorAt = &c.CreatorApproval.ApprovedAt
	}

	tag, err := r.db.Exec(
		ctx,
		queryUpdateCollaboration,
		c.ID,
		c.Status,
		termsJSON,
		c.TermsVersion,
		hotelVersion,
		hotelAt,
		creatorVersion,
		creatorAt,
		c.RespondedAt,
		c.CancelledAt,
		c.CompletedAt,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *repository) InsertDeliverables(ctx context.Context, collaborationID string, ds []Deliverable) error {
	for i, d := range ds {
		_, err := r.db.Exec(ctx, queryInsertDeliverable,
			d.ID, collaborationID, d.Platform, d.Type, d.Quantity, d.Completed, i)
		if err != nil {
			return fmt.Errorf("failed to insert deliverable %s: %w", d.ID, err)
		}
	}

	return nil
}

func (r *repository) SetDeliverableCompleted(ctx context.Context, collaborationID, deliverableID string, completed bool) error {
	tag, err := r.db.Exec(ctx, querySetDeliverableCompleted, collaborationID, deliverableID, completed)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrDeliverableNotFound
	}

	return nil
}

// retrieves all collaborations the user is party to, newest first
func (r *repository) ListForUser(ctx context.Context, userID string) ([]*Collaboration, error) {
	rows, err := r.db.Query(ctx, queryListCollaborationsForUser, userID)
	if err != nil {
		return nil, err
	}

	defer rows.Close()
	var collaborations []*Collaboration

	for rows.Next() {
		c, err := scanCollaboration(rows)
		if err != nil {
			return nil, err
		}
		collaborations = append(collaborations, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, c := range collaborations {
		deliverables, err := r.listDeliverables(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		c.Deliverables = deliverables
	}

	return collaborations, nil
}

func (r *repository) listDeliverables(ctx context.Context, collaborationID string) ([]Deliverable, error) {
	rows, err := r.db.Query(ctx, queryListDeliverables, collaborationID)
	if err != nil {
		return nil, err
	}

	defer rows.Close()
	var deliverables []Deliverable

	for rows.Next() {
		var d Deliverable
		if err := rows.Scan(&d.ID, &d.Platform, &d.Type, &d.Quantity, &d.Completed); err != nil {
			return nil, err
		}
		deliverables = append(deliverables, d)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return deliverables, nil
}

func scanCollaboration(row pgx.Row) (*Collaboration, error) {
	var (
		c              Collaboration
		termsJSON      []byte
		hotelVersion   *int
		hotelAt        *time.Time
		creatorVersion *int
		creatorAt      *time.Time
	)

	err := row.Scan(
		&c.ID,
		&c.HotelID,
		&c.CreatorID,
		&c.ListingID,
		&c.InitiatorParty,
		&c.Status,
		&termsJSON,
		&c.TermsVersion,
		&hotelVersion,
		&hotelAt,
		&creatorVersion,
		&creatorAt,
		&c.CreatedAt,
		&c.RespondedAt,
		&c.CancelledAt,
		&c.CompletedAt,
	)
	if err != nil {
		return nil, err
	}

	var t terms.Terms
	if err := json.Unmarshal(termsJSON, &t); err != nil {
		return nil, fmt.Errorf("failed to decode terms: %w", err)
	}
	c.Terms = t

	if hotelVersion != nil && hotelAt != nil {
		c.HotelApproval = &Approval{TermsVersion: *hotelVersion, ApprovedAt: *hotelAt}
	}

	if creatorVersion != nil && creatorAt != nil {
		c.CreatorApproval = &Approval{TermsVersion: *creatorVersion, ApprovedAt: *creatorAt}
	}

	return &c, nil
}
