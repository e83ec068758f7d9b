package handler_test

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"ubersystem/internal/admin"
	adminmocks "ubersystem/internal/admin/mocks"
	"ubersystem/internal/admintoken"
	"ubersystem/internal/platform/logger"
	regmodels "ubersystem/internal/registration/models"
	"ubersystem/internal/staffing/handler"
	"ubersystem/internal/staffing/handler/mocks"
	"ubersystem/internal/staffing/models"
	"ubersystem/internal/staffing/service"
	id "ubersystem/pkg/domain"
	dErrors "ubersystem/pkg/domain-errors"
	"ubersystem/pkg/enumset"
	"ubersystem/pkg/testutil"
)

type StaffingHandlerSuite struct {
	suite.Suite
	staffing *mocks.MockService
	router   http.Handler
	token    string
}

func TestStaffingHandlerSuite(t *testing.T) {
	suite.Run(t, new(StaffingHandlerSuite))
}

func (s *StaffingHandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.staffing = mocks.NewMockService(ctrl)
	accounts := adminmocks.NewMockAccessChecker(ctrl)
	accounts.EXPECT().AccountExists(gomock.Any(), gomock.Any()).Return(true, nil).AnyTimes()
	accounts.EXPECT().HasAccess(gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil).AnyTimes()

	tokens, err := admintoken.NewService("test-key", admintoken.DefaultIssuer, admintoken.DefaultAudience)
	s.Require().NoError(err)
	s.token, err = tokens.Issue(id.AccountID(1), time.Hour)
	s.Require().NoError(err)

	r := chi.NewRouter()
	handler.New(s.staffing, admin.Deps{Logger: logger.Discard(), Tokens: tokens, Accounts: accounts}).Register(r)
	s.router = r
}

func (s *StaffingHandlerSuite) do(method, path string, body any) *http.Request {
	return testutil.WithBearer(testutil.NewJSONRequest(s.T(), method, path, body), s.token)
}

func (s *StaffingHandlerSuite) TestPossibleJobs() {
	start := testutil.Date(2015, time.January, 3, 10)
	s.staffing.EXPECT().PossibleJobs(gomock.Any(), id.AttendeeID(5)).Return([]*models.Job{
		{ID: 1, Name: "Arcade Sweep", Location: regmodels.Arcade, StartTime: start, Duration: 2, Weight: 1, Slots: 3},
	}, nil)

	rr := testutil.DoRequest(s.router, s.do(http.MethodGet, "/admin/attendees/5/possible-jobs", nil))
	s.Require().Equal(http.StatusOK, rr.Code)
	body := testutil.UnmarshalResponse[admin.ListResponse[map[string]any]](s.T(), rr)
	s.Equal(1, body.Total)
	s.Equal("Arcade Sweep", body.Items[0]["name"])
	s.Equal("arcade", body.Items[0]["location"])
}

func (s *StaffingHandlerSuite) TestCreateJob() {
	s.Run("created", func() {
		s.staffing.EXPECT().SaveJob(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ any, j *models.Job) error {
				s.Equal(id.JobID(0), j.ID)
				s.Equal(regmodels.Tabletop, j.Location)
				j.ID = 12
				return nil
			})
		rr := testutil.DoRequest(s.router, s.do(http.MethodPost, "/admin/jobs", map[string]any{
			"name": "Library", "location": "tabletop", "start_time": "2015-01-03T10:00:00Z",
			"duration": 2, "weight": 1.5, "slots": 2,
		}))
		s.Require().Equal(http.StatusCreated, rr.Code)
		s.Equal(id.JobID(12), testutil.UnmarshalResponse[models.Job](s.T(), rr).ID)
	})

	s.Run("unknown department", func() {
		rr := testutil.DoRequest(s.router, s.do(http.MethodPost, "/admin/jobs", map[string]any{
			"name": "Library", "location": "ballroom",
		}))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
	})

	s.Run("validation", func() {
		s.staffing.EXPECT().SaveJob(gomock.Any(), gomock.Any()).
			Return(dErrors.New(dErrors.CodeValidation, "slots: must be at least 1"))
		rr := testutil.DoRequest(s.router, s.do(http.MethodPost, "/admin/jobs", map[string]any{"name": "x", "location": "lan"}))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusUnprocessableEntity, "validation_error")
	})
}

func (s *StaffingHandlerSuite) TestUpdateJobUsesThePathID() {
	s.staffing.EXPECT().SaveJob(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ any, j *models.Job) error {
			s.Equal(id.JobID(9), j.ID)
			return dErrors.New(dErrors.CodeConflict, "cannot reduce slots to 1: 2 staffers are already signed up")
		})
	rr := testutil.DoRequest(s.router, s.do(http.MethodPut, "/admin/jobs/9", map[string]any{
		"id": 4, "name": "Library", "location": "tabletop", "slots": 1,
	}))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, "conflict")
}

func (s *StaffingHandlerSuite) TestAssignShift() {
	s.Run("assigned", func() {
		s.staffing.EXPECT().AssignShift(gomock.Any(), id.JobID(3), id.AttendeeID(8)).
			Return(&models.Shift{ID: 40, JobID: 3, AttendeeID: 8}, nil)
		rr := testutil.DoRequest(s.router, s.do(http.MethodPost, "/admin/jobs/3/shifts", map[string]any{"attendee_id": 8}))
		s.Require().Equal(http.StatusCreated, rr.Code)
		shift := testutil.UnmarshalResponse[models.Shift](s.T(), rr)
		s.Equal(id.ShiftID(40), shift.ID)
		s.Equal(models.ShiftUnmarked, shift.Worked)
	})

	s.Run("job full", func() {
		s.staffing.EXPECT().AssignShift(gomock.Any(), id.JobID(3), id.AttendeeID(9)).
			Return(nil, dErrors.Wrap(models.JobFull, dErrors.CodeConflict, string(models.JobFull)))
		rr := testutil.DoRequest(s.router, s.do(http.MethodPost, "/admin/jobs/3/shifts", map[string]any{"attendee_id": 9}))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, "conflict")
	})

	s.Run("missing attendee", func() {
		rr := testutil.DoRequest(s.router, s.do(http.MethodPost, "/admin/jobs/3/shifts", map[string]any{}))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusUnprocessableEntity, "validation_error")
	})
}

func (s *StaffingHandlerSuite) TestMarkWorkedAndUnassign() {
	s.staffing.EXPECT().MarkWorked(gomock.Any(), id.ShiftID(40), models.ShiftWorked).Return(nil)
	rr := testutil.DoRequest(s.router, s.do(http.MethodPost, "/admin/shifts/40/worked", map[string]any{"status": "worked"}))
	s.Equal(http.StatusNoContent, rr.Code)

	s.staffing.EXPECT().Unassign(gomock.Any(), id.ShiftID(41)).
		Return(dErrors.New(dErrors.CodeNotFound, "shift not found"))
	rr = testutil.DoRequest(s.router, s.do(http.MethodDelete, "/admin/shifts/41", nil))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
}

func (s *StaffingHandlerSuite) TestAvailableStaffersAndHours() {
	s.staffing.EXPECT().AvailableStaffers(gomock.Any(), id.JobID(3)).Return([]*regmodels.Attendee{
		{ID: 2, FirstName: "Grace", LastName: "Hopper", Trusted: true, AssignedDepts: enumset.Of(regmodels.Arcade)},
	}, nil)
	rr := testutil.DoRequest(s.router, s.do(http.MethodGet, "/admin/jobs/3/available-staffers", nil))
	s.Require().Equal(http.StatusOK, rr.Code)
	body := testutil.UnmarshalResponse[admin.ListResponse[map[string]any]](s.T(), rr)
	s.Equal("Hopper, Grace", body.Items[0]["name"])

	s.staffing.EXPECT().Hours(gomock.Any(), id.AttendeeID(2)).Return(service.AttendeeHours{Weighted: 6.5, Worked: 4}, nil)
	rr = testutil.DoRequest(s.router, s.do(http.MethodGet, "/admin/attendees/2/hours", nil))
	s.Require().Equal(http.StatusOK, rr.Code)
	hours := testutil.UnmarshalResponse[service.AttendeeHours](s.T(), rr)
	s.Equal(6.5, hours.Weighted)
}

func (s *StaffingHandlerSuite) TestInternalErrorsAreOpaque() {
	s.staffing.EXPECT().ListJobs(gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeInternal, "failed to load jobs"))
	rr := testutil.DoRequest(s.router, s.do(http.MethodGet, "/admin/jobs", nil))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusInternalServerError, "internal_error")
	s.NotContains(rr.Body.String(), "failed to load jobs")
}
