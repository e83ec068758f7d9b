package store

import (
	"context"
	"database/sql"
	"fmt"

	"ubersystem/internal/accounts/models"
	"ubersystem/internal/platform/postgres"
	id "ubersystem/pkg/domain"
	"ubersystem/pkg/platform/sentinel"
	txcontext "ubersystem/pkg/platform/tx"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const accountColumns = `id, name, email, hashed_password, access`

func (s *PostgresStore) Insert(ctx context.Context, a *models.Account) error {
	var newID int64
	err := txcontext.Exec(ctx, s.db).QueryRowContext(ctx,
		`INSERT INTO accounts (name, email, hashed_password, access) VALUES ($1, $2, $3, $4) RETURNING id`,
		a.Name, a.Email, a.HashedPassword, a.Access,
	).Scan(&newID)
	if err != nil {
		return fmt.Errorf("insert account: %w", postgres.MapError(err))
	}
	a.ID = id.AccountID(newID)
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, a *models.Account) error {
	res, err := txcontext.Exec(ctx, s.db).ExecContext(ctx,
		`UPDATE accounts SET name = $1, email = $2, hashed_password = $3, access = $4 WHERE id = $5`,
		a.Name, a.Email, a.HashedPassword, a.Access, int64(a.ID),
	)
	return affected(res, err, "update", a.ID)
}

func (s *PostgresStore) Delete(ctx context.Context, a *models.Account) error {
	res, err := txcontext.Exec(ctx, s.db).ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, int64(a.ID))
	return affected(res, err, "delete", a.ID)
}

func affected(res sql.Result, err error, op string, accountID id.AccountID) error {
	if err != nil {
		return fmt.Errorf("%s account: %w", op, postgres.MapError(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s account: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("account %d: %w", accountID, sentinel.ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, accountID id.AccountID) (*models.Account, error) {
	a, err := s.scanOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, int64(accountID))
	if err != nil {
		return nil, fmt.Errorf("account %d: %w", accountID, err)
	}
	return a, nil
}

// FindByEmail matches case-insensitively.
func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	a, err := s.scanOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE lower(email) = lower($1)`, email)
	if err != nil {
		return nil, fmt.Errorf("account %s: %w", email, err)
	}
	return a, nil
}

func (s *PostgresStore) scanOne(ctx context.Context, query string, arg any) (*models.Account, error) {
	var (
		a     models.Account
		rawID int64
	)
	err := txcontext.Exec(ctx, s.db).QueryRowContext(ctx, query, arg).
		Scan(&rawID, &a.Name, &a.Email, &a.HashedPassword, &a.Access)
	if err != nil {
		return nil, postgres.MapError(err)
	}
	a.ID = id.AccountID(rawID)
	return &a, nil
}
