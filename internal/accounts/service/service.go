// Package service manages administrator accounts: creation, passwords,
// access checks, and the account name lookup the tracking trail uses.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"ubersystem/internal/accounts/models"
	"ubersystem/internal/accounts/secrets"
	trackingservice "ubersystem/internal/tracking/service"
	id "ubersystem/pkg/domain"
	dErrors "ubersystem/pkg/domain-errors"
	"ubersystem/pkg/platform/sentinel"
)

// TxRunner opens a unit of work; nested calls join the outer one.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type Store interface {
	Insert(ctx context.Context, a *models.Account) error
	Update(ctx context.Context, a *models.Account) error
	Delete(ctx context.Context, a *models.Account) error
	FindByID(ctx context.Context, accountID id.AccountID) (*models.Account, error)
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
}

type Service struct {
	tx       TxRunner
	store    Store
	accounts *trackingservice.Repository[*models.Account]
	logger   *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func New(tx TxRunner, store Store, tracker trackingservice.Tracker, opts ...Option) (*Service, error) {
	if tx == nil {
		return nil, errors.New("transaction runner is required")
	}
	if store == nil {
		return nil, errors.New("account store is required")
	}
	if tracker == nil {
		return nil, errors.New("tracker is required")
	}
	s := &Service{tx: tx, store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	s.accounts = trackingservice.NewRepository[*models.Account](tracker, models.AccountModel, store,
		func(ctx context.Context, rawID int64) (*models.Account, error) {
			return store.FindByID(ctx, id.AccountID(rawID))
		})
	return s, nil
}

// Create adds an account with a bcrypt-hashed password.
func (s *Service) Create(ctx context.Context, name, email, password string, access models.AccessSet) (*models.Account, error) {
	a := &models.Account{
		Name:   strings.TrimSpace(name),
		Email:  strings.TrimSpace(email),
		Access: access,
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	hash, err := secrets.Hash(password)
	if err != nil {
		return nil, passwordError(err)
	}
	a.HashedPassword = hash

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.accounts.Create(ctx, a); err != nil {
			return writeError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "account created", "account_id", a.ID.String(), "access", a.Access.String())
	return a, nil
}

// SetPassword replaces the account's password hash.
func (s *Service) SetPassword(ctx context.Context, accountID id.AccountID, password string) error {
	hash, err := secrets.Hash(password)
	if err != nil {
		return passwordError(err)
	}
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		a, err := s.store.FindByID(ctx, accountID)
		if err != nil {
			return loadError(err)
		}
		a.HashedPassword = hash
		if err := s.accounts.Update(ctx, a); err != nil {
			return writeError(err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "account password changed", "account_id", accountID.String())
	return nil
}

// CheckPassword returns the account when email and password match. Unknown
// emails and wrong passwords fail the same way.
func (s *Service) CheckPassword(ctx context.Context, email, password string) (*models.Account, error) {
	a, err := s.store.FindByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid email or password")
	}
	if err != nil {
		return nil, loadError(err)
	}
	if err := secrets.Verify(password, a.HashedPassword); err != nil {
		if dErrors.HasCode(err, dErrors.CodeUnauthorized) {
			s.logger.WarnContext(ctx, "password check failed", "account_id", a.ID.String())
			return nil, err
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check password")
	}
	return a, nil
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	a, err := s.store.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, loadError(err)
	}
	return a, nil
}

// HasAccess reports whether the account may use level.
func (s *Service) HasAccess(ctx context.Context, accountID id.AccountID, level models.AccessLevel) (bool, error) {
	a, err := s.store.FindByID(ctx, accountID)
	if err != nil {
		return false, loadError(err)
	}
	return a.HasAccess(level), nil
}

// AccountExists implements the auth middleware's AccountChecker.
func (s *Service) AccountExists(ctx context.Context, accountID id.AccountID) (bool, error) {
	_, err := s.store.FindByID(ctx, accountID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, loadError(err)
	}
	return true, nil
}

func passwordError(err error) error {
	if _, ok := dErrors.As(err); ok {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
}

func loadError(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Wrap(err, dErrors.CodeNotFound, "account not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load account")
}

func writeError(err error) error {
	if _, ok := dErrors.As(err); ok {
		return err
	}
	if errors.Is(err, sentinel.ErrConflict) {
		return dErrors.Wrap(err, dErrors.CodeConflict, "an account with that email already exists")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save account")
}

// Names resolves account ids to display names for the tracking trail. It
// reads the store directly because the tracker is built before the service.
type Names struct {
	store Store
}

func NewNames(store Store) *Names {
	return &Names{store: store}
}

func (n *Names) AccountName(ctx context.Context, accountID id.AccountID) (string, error) {
	a, err := n.store.FindByID(ctx, accountID)
	if err != nil {
		return "", loadError(err)
	}
	return a.Name, nil
}
