package store

import (
	"context"
	"database/sql"
	"fmt"

	"ubersystem/internal/platform/postgres"
	"ubersystem/internal/registration/badges"
	"ubersystem/internal/registration/models"
	id "ubersystem/pkg/domain"
	"ubersystem/pkg/platform/sentinel"
	txcontext "ubersystem/pkg/platform/tx"
)

// AttendeePostgres stores attendees. badge_num and group_id are NULL in the
// table where the model holds 0.
type AttendeePostgres struct {
	db *sql.DB
}

func NewAttendeePostgres(db *sql.DB) *AttendeePostgres {
	return &AttendeePostgres{db: db}
}

const attendeeColumns = `id, COALESCE(group_id, 0), placeholder, first_name, last_name, international,
	zip_code, ec_phone, phone, email, age_group, interests, found_how, comments, admin_notes,
	COALESCE(badge_num, 0), badge_type, ribbon, affiliate, can_spam, regdesk_info, extra_merch,
	got_merch, badge_printed_name, registered, checked_in, paid, amount_paid, amount_refunded,
	staffing, requested_depts, assigned_depts, trusted, nonshift_hours`

func attendeeArgs(a *models.Attendee) []any {
	return []any{
		int64(a.GroupID), a.Placeholder, a.FirstName, a.LastName, a.International,
		a.ZipCode, a.EcPhone, a.Phone, a.Email, int(a.AgeGroup), a.Interests, a.FoundHow, a.Comments, a.AdminNotes,
		a.BadgeNum, int(a.BadgeType), int(a.Ribbon), a.Affiliate, a.CanSpam, a.RegdeskInfo, a.ExtraMerch,
		a.GotMerch, a.BadgePrintedName, a.Registered, a.CheckedIn, int(a.Paid), a.AmountPaid, a.AmountRefunded,
		a.Staffing, a.RequestedDepts, a.AssignedDepts, a.Trusted, a.NonshiftHours,
	}
}

func (s *AttendeePostgres) Insert(ctx context.Context, a *models.Attendee) error {
	query := `
		INSERT INTO attendees (group_id, placeholder, first_name, last_name, international,
			zip_code, ec_phone, phone, email, age_group, interests, found_how, comments, admin_notes,
			badge_num, badge_type, ribbon, affiliate, can_spam, regdesk_info, extra_merch,
			got_merch, badge_printed_name, registered, checked_in, paid, amount_paid, amount_refunded,
			staffing, requested_depts, assigned_depts, trusted, nonshift_hours)
		VALUES (NULLIF($1, 0), $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			NULLIF($15, 0), $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28,
			$29, $30, $31, $32, $33)
		RETURNING id
	`
	var newID int64
	if err := txcontext.Exec(ctx, s.db).QueryRowContext(ctx, query, attendeeArgs(a)...).Scan(&newID); err != nil {
		return fmt.Errorf("insert attendee: %w", postgres.MapError(err))
	}
	a.ID = id.AttendeeID(newID)
	return nil
}

func (s *AttendeePostgres) Update(ctx context.Context, a *models.Attendee) error {
	query := `
		UPDATE attendees SET group_id = NULLIF($1, 0), placeholder = $2, first_name = $3, last_name = $4,
			international = $5, zip_code = $6, ec_phone = $7, phone = $8, email = $9, age_group = $10,
			interests = $11, found_how = $12, comments = $13, admin_notes = $14, badge_num = NULLIF($15, 0),
			badge_type = $16, ribbon = $17, affiliate = $18, can_spam = $19, regdesk_info = $20,
			extra_merch = $21, got_merch = $22, badge_printed_name = $23, registered = $24,
			checked_in = $25, paid = $26, amount_paid = $27, amount_refunded = $28, staffing = $29,
			requested_depts = $30, assigned_depts = $31, trusted = $32, nonshift_hours = $33
		WHERE id = $34
	`
	args := append(attendeeArgs(a), int64(a.ID))
	return s.expectOne(ctx, "update", a.ID, query, args...)
}

func (s *AttendeePostgres) Delete(ctx context.Context, a *models.Attendee) error {
	return s.expectOne(ctx, "delete", a.ID, `DELETE FROM attendees WHERE id = $1`, int64(a.ID))
}

func (s *AttendeePostgres) expectOne(ctx context.Context, op string, attendeeID id.AttendeeID, query string, args ...any) error {
	res, err := txcontext.Exec(ctx, s.db).ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s attendee: %w", op, postgres.MapError(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s attendee: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("attendee %d: %w", attendeeID, sentinel.ErrNotFound)
	}
	return nil
}

func (s *AttendeePostgres) FindByID(ctx context.Context, attendeeID id.AttendeeID) (*models.Attendee, error) {
	row := txcontext.Exec(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+attendeeColumns+` FROM attendees WHERE id = $1`, int64(attendeeID))
	a, err := scanAttendee(row)
	if err != nil {
		return nil, fmt.Errorf("attendee %d: %w", attendeeID, postgres.MapError(err))
	}
	return a, nil
}

func (s *AttendeePostgres) ListByGroup(ctx context.Context, groupID id.GroupID) ([]*models.Attendee, error) {
	return s.query(ctx, `SELECT `+attendeeColumns+` FROM attendees WHERE group_id = $1 ORDER BY id`, int64(groupID))
}

func (s *AttendeePostgres) ListStaffers(ctx context.Context) ([]*models.Attendee, error) {
	return s.query(ctx, `SELECT `+attendeeColumns+` FROM attendees WHERE staffing ORDER BY last_name, first_name, id`)
}

func (s *AttendeePostgres) query(ctx context.Context, query string, args ...any) ([]*models.Attendee, error) {
	rows, err := txcontext.Exec(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query attendees: %w", err)
	}
	defer rows.Close()

	var out []*models.Attendee
	for rows.Next() {
		a, err := scanAttendee(rows)
		if err != nil {
			return nil, fmt.Errorf("scan attendee: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attendees: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAttendee(row scanner) (*models.Attendee, error) {
	var (
		a                                 models.Attendee
		attendeeID, groupID               int64
		ageGroup, badgeType, ribbon, paid int
		checkedIn                         sql.NullTime
	)
	err := row.Scan(
		&attendeeID, &groupID, &a.Placeholder, &a.FirstName, &a.LastName, &a.International,
		&a.ZipCode, &a.EcPhone, &a.Phone, &a.Email, &ageGroup, &a.Interests, &a.FoundHow, &a.Comments, &a.AdminNotes,
		&a.BadgeNum, &badgeType, &ribbon, &a.Affiliate, &a.CanSpam, &a.RegdeskInfo, &a.ExtraMerch,
		&a.GotMerch, &a.BadgePrintedName, &a.Registered, &checkedIn, &paid, &a.AmountPaid, &a.AmountRefunded,
		&a.Staffing, &a.RequestedDepts, &a.AssignedDepts, &a.Trusted, &a.NonshiftHours,
	)
	if err != nil {
		return nil, err
	}
	a.ID = id.AttendeeID(attendeeID)
	a.GroupID = id.GroupID(groupID)
	a.AgeGroup = models.AgeGroup(ageGroup)
	a.BadgeType = models.BadgeType(badgeType)
	a.Ribbon = models.Ribbon(ribbon)
	a.Paid = models.PaidStatus(paid)
	if checkedIn.Valid {
		t := checkedIn.Time
		a.CheckedIn = &t
	}
	return &a, nil
}

func (s *AttendeePostgres) MaxBadgeNum(ctx context.Context, badgeType models.BadgeType, r badges.Range) (int, error) {
	var highest int
	err := txcontext.Exec(ctx, s.db).QueryRowContext(ctx, `
		SELECT COALESCE(MAX(badge_num), 0) FROM attendees
		WHERE badge_type = $1 AND badge_num BETWEEN $2 AND $3
	`, int(badgeType), r.Start, r.End).Scan(&highest)
	if err != nil {
		return 0, fmt.Errorf("query max badge number: %w", err)
	}
	return highest, nil
}

// ShiftBadgeNums renumbers in one statement; the deferred unique constraint
// tolerates the transient overlap.
func (s *AttendeePostgres) ShiftBadgeNums(ctx context.Context, badgeType models.BadgeType, from int, down bool) error {
	query := `UPDATE attendees SET badge_num = badge_num + 1 WHERE badge_type = $1 AND badge_num >= $2`
	if down {
		query = `UPDATE attendees SET badge_num = badge_num - 1 WHERE badge_type = $1 AND badge_num > $2`
	}
	if _, err := txcontext.Exec(ctx, s.db).ExecContext(ctx, query, int(badgeType), from); err != nil {
		return fmt.Errorf("shift badge numbers: %w", err)
	}
	return nil
}

type GroupPostgres struct {
	db *sql.DB
}

func NewGroupPostgres(db *sql.DB) *GroupPostgres {
	return &GroupPostgres{db: db}
}

const groupColumns = `id, name, tables, address, website, wares, description, admin_notes,
	amount_paid, amount_owed, approved, auto_recalc, registered`

func groupArgs(g *models.Group) []any {
	return []any{
		g.Name, g.Tables, g.Address, g.Website, g.Wares, g.Description, g.AdminNotes,
		g.AmountPaid, g.AmountOwed, g.Approved, g.AutoRecalc, g.Registered,
	}
}

func (s *GroupPostgres) Insert(ctx context.Context, g *models.Group) error {
	query := `
		INSERT INTO groups (name, tables, address, website, wares, description, admin_notes,
			amount_paid, amount_owed, approved, auto_recalc, registered)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`
	var newID int64
	if err := txcontext.Exec(ctx, s.db).QueryRowContext(ctx, query, groupArgs(g)...).Scan(&newID); err != nil {
		return fmt.Errorf("insert group: %w", postgres.MapError(err))
	}
	g.ID = id.GroupID(newID)
	return nil
}

func (s *GroupPostgres) Update(ctx context.Context, g *models.Group) error {
	query := `
		UPDATE groups SET name = $1, tables = $2, address = $3, website = $4, wares = $5,
			description = $6, admin_notes = $7, amount_paid = $8, amount_owed = $9, approved = $10,
			auto_recalc = $11, registered = $12
		WHERE id = $13
	`
	res, err := txcontext.Exec(ctx, s.db).ExecContext(ctx, query, append(groupArgs(g), int64(g.ID))...)
	return groupAffected(res, err, "update", g.ID)
}

func (s *GroupPostgres) Delete(ctx context.Context, g *models.Group) error {
	res, err := txcontext.Exec(ctx, s.db).ExecContext(ctx, `DELETE FROM groups WHERE id = $1`, int64(g.ID))
	return groupAffected(res, err, "delete", g.ID)
}

func groupAffected(res sql.Result, err error, op string, groupID id.GroupID) error {
	if err != nil {
		return fmt.Errorf("%s group: %w", op, postgres.MapError(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s group: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("group %d: %w", groupID, sentinel.ErrNotFound)
	}
	return nil
}

func (s *GroupPostgres) FindByID(ctx context.Context, groupID id.GroupID) (*models.Group, error) {
	var (
		g     models.Group
		rawID int64
	)
	err := txcontext.Exec(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+groupColumns+` FROM groups WHERE id = $1`, int64(groupID),
	).Scan(&rawID, &g.Name, &g.Tables, &g.Address, &g.Website, &g.Wares, &g.Description, &g.AdminNotes,
		&g.AmountPaid, &g.AmountOwed, &g.Approved, &g.AutoRecalc, &g.Registered)
	if err != nil {
		return nil, fmt.Errorf("group %d: %w", groupID, postgres.MapError(err))
	}
	g.ID = id.GroupID(rawID)
	return &g, nil
}
