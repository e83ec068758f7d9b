package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"ubersystem/internal/tracking/models"
	id "ubersystem/pkg/domain"
	txcontext "ubersystem/pkg/platform/tx"
)

// Postgres stores tracking rows in the tracking table. Append joins the
// transaction on the context so the row commits with the mutation it
// describes.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const trackingColumns = `id, "when", who, which, model, fk_id, action, data`

func (s *Postgres) Append(ctx context.Context, row *models.Tracking) error {
	query := `
		INSERT INTO tracking ("when", who, which, model, fk_id, action, data)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := txcontext.Exec(ctx, s.db).QueryRowContext(ctx, query,
		row.When,
		row.Who,
		row.Which,
		row.Model,
		row.FKID,
		int(row.Action),
		row.Data,
	).Scan(&row.ID)
	if err != nil {
		return fmt.Errorf("insert tracking row: %w", err)
	}
	return nil
}

func (s *Postgres) List(ctx context.Context, filter models.Filter) ([]*models.Tracking, error) {
	var (
		where []string
		args  []any
	)
	if filter.Model != "" {
		args = append(args, filter.Model)
		where = append(where, fmt.Sprintf("model = $%d", len(args)))
	}
	if filter.FKID != 0 {
		args = append(args, filter.FKID)
		where = append(where, fmt.Sprintf("fk_id = $%d", len(args)))
	}
	if filter.AfterID != 0 {
		args = append(args, int64(filter.AfterID))
		where = append(where, fmt.Sprintf("id > $%d", len(args)))
	}

	query := `SELECT ` + trackingColumns + ` FROM tracking`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY id DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := txcontext.Exec(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tracking rows: %w", err)
	}
	defer rows.Close()
	return scanRows(rows)
}

// ClaimUnpublished locks up to limit unpublished rows, oldest first. Run it
// in a transaction: the locks hold until commit, and SKIP LOCKED lets a
// second relay take the next rows instead of waiting. Rows of transactions
// that have not committed are invisible here and are claimed once they
// commit, whatever their id.
func (s *Postgres) ClaimUnpublished(ctx context.Context, limit int) ([]*models.Tracking, error) {
	query := `SELECT ` + trackingColumns + ` FROM tracking
		WHERE published_at IS NULL
		ORDER BY id ASC
		LIMIT $1
		FOR UPDATE SKIP LOCKED`
	rows, err := txcontext.Exec(ctx, s.db).QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("claim unpublished tracking rows: %w", err)
	}
	defer rows.Close()
	return scanRows(rows)
}

func (s *Postgres) MarkPublished(ctx context.Context, ids []id.TrackingID) error {
	raw := make([]int64, len(ids))
	for i, rowID := range ids {
		raw[i] = int64(rowID)
	}
	query := `UPDATE tracking SET published_at = now() WHERE id = ANY($1)`
	if _, err := txcontext.Exec(ctx, s.db).ExecContext(ctx, query, pq.Array(raw)); err != nil {
		return fmt.Errorf("mark tracking rows published: %w", err)
	}
	return nil
}

func scanRows(rows *sql.Rows) ([]*models.Tracking, error) {
	var out []*models.Tracking
	for rows.Next() {
		var (
			row    models.Tracking
			action int
		)
		if err := rows.Scan(&row.ID, &row.When, &row.Who, &row.Which, &row.Model, &row.FKID, &action, &row.Data); err != nil {
			return nil, fmt.Errorf("scan tracking row: %w", err)
		}
		row.Action = models.Action(action)
		out = append(out, &row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tracking rows: %w", err)
	}
	return out, nil
}
