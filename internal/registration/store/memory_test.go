package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"ubersystem/internal/registration/badges"
	"ubersystem/internal/registration/models"
	id "ubersystem/pkg/domain"
	"ubersystem/pkg/platform/sentinel"
)

type AttendeeMemorySuite struct {
	suite.Suite
	store *AttendeeMemory
	ctx   context.Context
}

func TestAttendeeMemorySuite(t *testing.T) {
	suite.Run(t, new(AttendeeMemorySuite))
}

func (s *AttendeeMemorySuite) SetupTest() {
	s.store = NewAttendeeMemory()
	s.ctx = context.Background()
}

func (s *AttendeeMemorySuite) insert(badgeType models.BadgeType, num int, last string) *models.Attendee {
	a := &models.Attendee{
		FirstName:  "A",
		LastName:   last,
		BadgeType:  badgeType,
		BadgeNum:   num,
		Registered: time.Now(),
	}
	s.Require().NoError(s.store.Insert(s.ctx, a))
	return a
}

func (s *AttendeeMemorySuite) TestStoresCopies() {
	a := s.insert(models.AttendeeBadge, 0, "Smith")
	a.FirstName = "changed"

	got, err := s.store.FindByID(s.ctx, a.ID)
	s.Require().NoError(err)
	s.Equal("A", got.FirstName)

	got.LastName = "also changed"
	again, _ := s.store.FindByID(s.ctx, a.ID)
	s.Equal("Smith", again.LastName)
}

func (s *AttendeeMemorySuite) TestNotFound() {
	_, err := s.store.FindByID(s.ctx, id.AttendeeID(9))
	s.ErrorIs(err, sentinel.ErrNotFound)
	s.ErrorIs(s.store.Update(s.ctx, &models.Attendee{ID: 9}), sentinel.ErrNotFound)
	s.ErrorIs(s.store.Delete(s.ctx, &models.Attendee{ID: 9}), sentinel.ErrNotFound)
}

func (s *AttendeeMemorySuite) TestBadgeNumbersAreUniquePerType() {
	s.insert(models.StaffBadge, 5, "A")
	s.insert(models.SupporterBadge, 5, "B")

	err := s.store.Insert(s.ctx, &models.Attendee{BadgeType: models.StaffBadge, BadgeNum: 5})
	s.ErrorIs(err, sentinel.ErrConflict)

	s.insert(models.StaffBadge, 0, "C")
	s.insert(models.StaffBadge, 0, "D")
}

func (s *AttendeeMemorySuite) TestMaxAndShift() {
	r := badges.DefaultRanges()[models.AttendeeBadge]
	highest, err := s.store.MaxBadgeNum(s.ctx, models.AttendeeBadge, r)
	s.Require().NoError(err)
	s.Zero(highest)

	first := s.insert(models.AttendeeBadge, 3000, "A")
	second := s.insert(models.AttendeeBadge, 3001, "B")
	third := s.insert(models.AttendeeBadge, 3002, "C")
	staff := s.insert(models.StaffBadge, 3001, "D")

	highest, _ = s.store.MaxBadgeNum(s.ctx, models.AttendeeBadge, r)
	s.Equal(3002, highest)

	s.Require().NoError(s.store.ShiftBadgeNums(s.ctx, models.AttendeeBadge, 3000, true))
	nums := func() []int {
		var out []int
		for _, a := range []*models.Attendee{first, second, third, staff} {
			got, _ := s.store.FindByID(s.ctx, a.ID)
			out = append(out, got.BadgeNum)
		}
		return out
	}
	s.Equal([]int{3000, 3000, 3001, 3001}, nums(), "down only moves numbers above from, per type")

	s.Require().NoError(s.store.ShiftBadgeNums(s.ctx, models.AttendeeBadge, 3001, false))
	s.Equal([]int{3000, 3000, 3002, 3001}, nums())
}

func (s *AttendeeMemorySuite) TestListings() {
	a := s.insert(models.AttendeeBadge, 0, "Zed")
	b := s.insert(models.AttendeeBadge, 0, "Adams")
	a.Staffing, b.Staffing = true, true
	a.GroupID, b.GroupID = 1, 1
	s.Require().NoError(s.store.Update(s.ctx, a))
	s.Require().NoError(s.store.Update(s.ctx, b))
	s.insert(models.AttendeeBadge, 0, "Other")

	staffers, _ := s.store.ListStaffers(s.ctx)
	s.Require().Len(staffers, 2)
	s.Equal("Adams", staffers[0].LastName)

	members, _ := s.store.ListByGroup(s.ctx, 1)
	s.Require().Len(members, 2)
	s.Equal(a.ID, members[0].ID)
}

func (s *AttendeeMemorySuite) TestSnapshotRestores() {
	a := s.insert(models.AttendeeBadge, 3000, "A")
	restore := s.store.Snapshot()

	s.Require().NoError(s.store.ShiftBadgeNums(s.ctx, models.AttendeeBadge, 2999, false))
	s.Require().NoError(s.store.Delete(s.ctx, a))
	restore()

	got, err := s.store.FindByID(s.ctx, a.ID)
	s.Require().NoError(err)
	s.Equal(3000, got.BadgeNum)
}

func TestGroupMemory(t *testing.T) {
	ctx := context.Background()
	s := NewGroupMemory()
	g := &models.Group{Name: "Guild"}
	if err := s.Insert(ctx, g); err != nil {
		t.Fatal(err)
	}
	restore := s.Snapshot()
	g.Tables = 2
	if err := s.Update(ctx, g); err != nil {
		t.Fatal(err)
	}
	restore()

	got, err := s.FindByID(ctx, g.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Tables != 0 {
		t.Fatalf("expected restored tables 0, got %d", got.Tables)
	}
}
