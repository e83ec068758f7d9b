package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"ubersystem/internal/platform/postgres"
	regmodels "ubersystem/internal/registration/models"
	"ubersystem/internal/staffing/models"
	id "ubersystem/pkg/domain"
	"ubersystem/pkg/platform/sentinel"
	txcontext "ubersystem/pkg/platform/tx"
)

type JobPostgres struct {
	db *sql.DB
}

func NewJobPostgres(db *sql.DB) *JobPostgres {
	return &JobPostgres{db: db}
}

const jobColumns = `id, name, description, location, start_time, duration, weight, slots, restricted, extra15`

func (s *JobPostgres) Insert(ctx context.Context, j *models.Job) error {
	query := `
		INSERT INTO jobs (name, description, location, start_time, duration, weight, slots, restricted, extra15)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	var newID int64
	err := txcontext.Exec(ctx, s.db).QueryRowContext(ctx, query,
		j.Name, j.Description, int(j.Location), j.StartTime, j.Duration, j.Weight, j.Slots, j.Restricted, j.Extra15,
	).Scan(&newID)
	if err != nil {
		return fmt.Errorf("insert job: %w", postgres.MapError(err))
	}
	j.ID = id.JobID(newID)
	return nil
}

func (s *JobPostgres) Update(ctx context.Context, j *models.Job) error {
	query := `
		UPDATE jobs SET name = $1, description = $2, location = $3, start_time = $4, duration = $5,
			weight = $6, slots = $7, restricted = $8, extra15 = $9
		WHERE id = $10
	`
	res, err := txcontext.Exec(ctx, s.db).ExecContext(ctx, query,
		j.Name, j.Description, int(j.Location), j.StartTime, j.Duration, j.Weight, j.Slots, j.Restricted, j.Extra15,
		int64(j.ID),
	)
	return affected(res, err, "update", "job", int64(j.ID))
}

func (s *JobPostgres) Delete(ctx context.Context, j *models.Job) error {
	res, err := txcontext.Exec(ctx, s.db).ExecContext(ctx, `DELETE FROM jobs WHERE id = $1`, int64(j.ID))
	return affected(res, err, "delete", "job", int64(j.ID))
}

func (s *JobPostgres) FindByID(ctx context.Context, jobID id.JobID) (*models.Job, error) {
	return s.findOne(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, jobID)
}

// LockByID reads the job and holds its row lock until the transaction on ctx
// ends, serializing concurrent signups for the same job.
func (s *JobPostgres) LockByID(ctx context.Context, jobID id.JobID) (*models.Job, error) {
	return s.findOne(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1 FOR UPDATE`, jobID)
}

func (s *JobPostgres) findOne(ctx context.Context, query string, jobID id.JobID) (*models.Job, error) {
	j, err := scanJob(txcontext.Exec(ctx, s.db).QueryRowContext(ctx, query, int64(jobID)))
	if err != nil {
		return nil, fmt.Errorf("job %d: %w", jobID, postgres.MapError(err))
	}
	return j, nil
}

func (s *JobPostgres) List(ctx context.Context) ([]*models.Job, error) {
	return s.query(ctx, `SELECT `+jobColumns+` FROM jobs ORDER BY start_time, id`)
}

func (s *JobPostgres) ListByLocations(ctx context.Context, locs []regmodels.Dept) ([]*models.Job, error) {
	ints := make([]int64, len(locs))
	for i, l := range locs {
		ints[i] = int64(l)
	}
	return s.query(ctx, `SELECT `+jobColumns+` FROM jobs WHERE location = ANY($1) ORDER BY start_time, id`,
		pq.Array(ints))
}

func (s *JobPostgres) ListByIDs(ctx context.Context, ids []id.JobID) ([]*models.Job, error) {
	ints := make([]int64, len(ids))
	for i, v := range ids {
		ints[i] = int64(v)
	}
	return s.query(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = ANY($1) ORDER BY start_time, id`,
		pq.Array(ints))
}

func (s *JobPostgres) query(ctx context.Context, query string, args ...any) ([]*models.Job, error) {
	rows, err := txcontext.Exec(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	var out []*models.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate jobs: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanJob(row scanner) (*models.Job, error) {
	var (
		j        models.Job
		rawID    int64
		location int
	)
	err := row.Scan(&rawID, &j.Name, &j.Description, &location, &j.StartTime, &j.Duration,
		&j.Weight, &j.Slots, &j.Restricted, &j.Extra15)
	if err != nil {
		return nil, err
	}
	j.ID = id.JobID(rawID)
	j.Location = regmodels.Dept(location)
	j.StartTime = j.StartTime.UTC()
	return &j, nil
}

type ShiftPostgres struct {
	db *sql.DB
}

func NewShiftPostgres(db *sql.DB) *ShiftPostgres {
	return &ShiftPostgres{db: db}
}

const shiftColumns = `id, job_id, attendee_id, worked`

func (s *ShiftPostgres) Insert(ctx context.Context, sh *models.Shift) error {
	var newID int64
	err := txcontext.Exec(ctx, s.db).QueryRowContext(ctx,
		`INSERT INTO shifts (job_id, attendee_id, worked) VALUES ($1, $2, $3) RETURNING id`,
		int64(sh.JobID), int64(sh.AttendeeID), int(sh.Worked),
	).Scan(&newID)
	if err != nil {
		return fmt.Errorf("insert shift: %w", postgres.MapError(err))
	}
	sh.ID = id.ShiftID(newID)
	return nil
}

func (s *ShiftPostgres) Update(ctx context.Context, sh *models.Shift) error {
	res, err := txcontext.Exec(ctx, s.db).ExecContext(ctx,
		`UPDATE shifts SET job_id = $1, attendee_id = $2, worked = $3 WHERE id = $4`,
		int64(sh.JobID), int64(sh.AttendeeID), int(sh.Worked), int64(sh.ID),
	)
	return affected(res, err, "update", "shift", int64(sh.ID))
}

func (s *ShiftPostgres) Delete(ctx context.Context, sh *models.Shift) error {
	res, err := txcontext.Exec(ctx, s.db).ExecContext(ctx, `DELETE FROM shifts WHERE id = $1`, int64(sh.ID))
	return affected(res, err, "delete", "shift", int64(sh.ID))
}

func (s *ShiftPostgres) FindByID(ctx context.Context, shiftID id.ShiftID) (*models.Shift, error) {
	row := txcontext.Exec(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+shiftColumns+` FROM shifts WHERE id = $1`, int64(shiftID))
	sh, err := scanShift(row)
	if err != nil {
		return nil, fmt.Errorf("shift %d: %w", shiftID, postgres.MapError(err))
	}
	return sh, nil
}

func (s *ShiftPostgres) ListByAttendee(ctx context.Context, attendeeID id.AttendeeID) ([]*models.Shift, error) {
	return s.query(ctx, `SELECT `+shiftColumns+` FROM shifts WHERE attendee_id = $1 ORDER BY id`, int64(attendeeID))
}

func (s *ShiftPostgres) ListByJob(ctx context.Context, jobID id.JobID) ([]*models.Shift, error) {
	return s.query(ctx, `SELECT `+shiftColumns+` FROM shifts WHERE job_id = $1 ORDER BY id`, int64(jobID))
}

func (s *ShiftPostgres) List(ctx context.Context) ([]*models.Shift, error) {
	return s.query(ctx, `SELECT `+shiftColumns+` FROM shifts ORDER BY id`)
}

func (s *ShiftPostgres) CountByJob(ctx context.Context) (map[id.JobID]int, error) {
	rows, err := txcontext.Exec(ctx, s.db).QueryContext(ctx,
		`SELECT job_id, COUNT(*) FROM shifts GROUP BY job_id`)
	if err != nil {
		return nil, fmt.Errorf("count shifts: %w", err)
	}
	defer rows.Close()

	counts := make(map[id.JobID]int)
	for rows.Next() {
		var (
			jobID int64
			n     int
		)
		if err := rows.Scan(&jobID, &n); err != nil {
			return nil, fmt.Errorf("scan shift count: %w", err)
		}
		counts[id.JobID(jobID)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate shift counts: %w", err)
	}
	return counts, nil
}

func (s *ShiftPostgres) query(ctx context.Context, query string, args ...any) ([]*models.Shift, error) {
	rows, err := txcontext.Exec(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query shifts: %w", err)
	}
	defer rows.Close()

	var out []*models.Shift
	for rows.Next() {
		sh, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("scan shift: %w", err)
		}
		out = append(out, sh)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate shifts: %w", err)
	}
	return out, nil
}

func scanShift(row scanner) (*models.Shift, error) {
	var (
		rawID, jobID, attendeeID int64
		worked                   int
	)
	if err := row.Scan(&rawID, &jobID, &attendeeID, &worked); err != nil {
		return nil, err
	}
	return &models.Shift{
		ID:         id.ShiftID(rawID),
		JobID:      id.JobID(jobID),
		AttendeeID: id.AttendeeID(attendeeID),
		Worked:     models.WorkedStatus(worked),
	}, nil
}

func affected(res sql.Result, err error, op, what string, rawID int64) error {
	if err != nil {
		return fmt.Errorf("%s %s: %w", op, what, postgres.MapError(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s %s: %w", op, what, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", what, rawID, sentinel.ErrNotFound)
	}
	return nil
}
