//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"ubersystem/internal/platform/postgres"
	"ubersystem/internal/registration/badges"
	"ubersystem/internal/registration/models"
	"ubersystem/internal/registration/store"
	"ubersystem/pkg/enumset"
	"ubersystem/pkg/platform/sentinel"
	"ubersystem/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres  *containers.PostgresContainer
	attendees *store.AttendeePostgres
	groups    *store.GroupPostgres
	tx        *postgres.TxManager
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.attendees = store.NewAttendeePostgres(s.postgres.DB)
	s.groups = store.NewGroupPostgres(s.postgres.DB)
	s.tx = postgres.NewTxManager(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "shifts", "attendees", "groups", "tracking"))
}

func (s *PostgresStoreSuite) newAttendee(badgeType models.BadgeType, num int) *models.Attendee {
	return &models.Attendee{
		FirstName:     "Ada",
		LastName:      "Lovelace",
		AgeGroup:      models.Over21,
		BadgeType:     badgeType,
		BadgeNum:      num,
		Paid:          models.HasPaid,
		Registered:    time.Now().UTC().Truncate(time.Microsecond),
		Interests:     enumset.Of(models.ArcadeInterest, models.LANInterest),
		AssignedDepts: enumset.Of(models.Arcade),
	}
}

func (s *PostgresStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	g := &models.Group{Name: "Guild", Tables: 1, AutoRecalc: true, Registered: time.Now().UTC().Truncate(time.Microsecond)}
	s.Require().NoError(s.groups.Insert(ctx, g))

	a := s.newAttendee(models.AttendeeBadge, 0)
	a.GroupID = g.ID
	checkedIn := a.Registered.Add(time.Hour)
	a.CheckedIn = &checkedIn
	s.Require().NoError(s.attendees.Insert(ctx, a))

	got, err := s.attendees.FindByID(ctx, a.ID)
	s.Require().NoError(err)
	s.Equal(0, got.BadgeNum)
	s.Equal(g.ID, got.GroupID)
	s.True(got.Interests.Equal(a.Interests))
	s.True(got.AssignedDepts.Has(models.Arcade))
	s.Require().NotNil(got.CheckedIn)
	s.True(checkedIn.Equal(*got.CheckedIn))

	members, err := s.attendees.ListByGroup(ctx, g.ID)
	s.Require().NoError(err)
	s.Len(members, 1)

	s.Require().NoError(s.attendees.Delete(ctx, a))
	_, err = s.attendees.FindByID(ctx, a.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)

	g.Tables = 3
	s.Require().NoError(s.groups.Update(ctx, g))
	gotGroup, err := s.groups.FindByID(ctx, g.ID)
	s.Require().NoError(err)
	s.Equal(3, gotGroup.Tables)
}

func (s *PostgresStoreSuite) TestShiftInsideTransaction() {
	ctx := context.Background()
	var ids []*models.Attendee
	for n := 3000; n < 3004; n++ {
		a := s.newAttendee(models.AttendeeBadge, n)
		s.Require().NoError(s.attendees.Insert(ctx, a))
		ids = append(ids, a)
	}

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.attendees.Delete(ctx, ids[1]); err != nil {
			return err
		}
		return s.attendees.ShiftBadgeNums(ctx, models.AttendeeBadge, 3001, true)
	})
	s.Require().NoError(err)

	highest, err := s.attendees.MaxBadgeNum(ctx, models.AttendeeBadge, badges.DefaultRanges()[models.AttendeeBadge])
	s.Require().NoError(err)
	s.Equal(3002, highest)

	last, err := s.attendees.FindByID(ctx, ids[3].ID)
	s.Require().NoError(err)
	s.Equal(3002, last.BadgeNum)
}

func (s *PostgresStoreSuite) TestUniqueBadgeConflict() {
	ctx := context.Background()
	s.Require().NoError(s.attendees.Insert(ctx, s.newAttendee(models.StaffBadge, 7)))

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		return s.attendees.Insert(ctx, s.newAttendee(models.StaffBadge, 7))
	})
	s.ErrorIs(err, sentinel.ErrConflict)
}
