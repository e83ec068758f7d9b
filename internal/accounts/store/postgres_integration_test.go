//go:build integration

package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"ubersystem/internal/accounts/models"
	"ubersystem/internal/accounts/store"
	"ubersystem/pkg/enumset"
	"ubersystem/pkg/platform/sentinel"
	"ubersystem/pkg/testutil/containers"
)

type AccountPostgresSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
}

func TestAccountPostgresSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(AccountPostgresSuite))
}

func (s *AccountPostgresSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *AccountPostgresSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "accounts"))
}

func (s *AccountPostgresSuite) TestRoundTrip() {
	ctx := context.Background()
	a := &models.Account{
		Name:           "Root",
		Email:          "Root@Example.com",
		HashedPassword: "$2a$10$abcdefghijklmnopqrstuv",
		Access:         enumset.Of(models.AccessMoney, models.AccessAccounts),
	}
	s.Require().NoError(s.store.Insert(ctx, a))
	s.NotZero(a.ID)

	found, err := s.store.FindByEmail(ctx, "root@example.com")
	s.Require().NoError(err)
	s.Equal(a.ID, found.ID)
	s.True(found.HasAccess(models.AccessMoney))
	s.False(found.HasAccess(models.AccessPeople))

	found.Access = found.Access.With(models.AccessPeople)
	s.Require().NoError(s.store.Update(ctx, found))
	again, err := s.store.FindByID(ctx, a.ID)
	s.Require().NoError(err)
	s.True(again.HasAccess(models.AccessPeople))

	dup := &models.Account{Name: "Dup", Email: "Root@Example.com", HashedPassword: "x"}
	s.ErrorIs(s.store.Insert(ctx, dup), sentinel.ErrConflict)

	s.Require().NoError(s.store.Delete(ctx, again))
	_, err = s.store.FindByID(ctx, a.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
}
