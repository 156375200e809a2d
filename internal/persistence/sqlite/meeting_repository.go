package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/example/meetbot/internal/persistence"
)

// MeetingRepository implements persistence.MeetingRepository using SQLite.
type MeetingRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
	retry  *RetryHelper
}

// NewMeetingRepository creates a new SQLite meeting repository.
func NewMeetingRepository(pool *ConnectionPool) *MeetingRepository {
	return &MeetingRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
		retry:  NewRetryHelper(DefaultRetryConfig()),
	}
}

const meetingSelect = `
	SELECT m.id, m.user_id, m.user_name, m.organization_id, o.name, o.complex_id, c.name,
		m.meeting_date, m.status, m.duration_minutes, m.summary, m.created_at
	FROM meetings m
	JOIN organizations o ON o.id = m.organization_id
	JOIN complexes c ON c.id = o.complex_id
`

// CreateMeeting inserts a meeting and returns its id.
func (r *MeetingRepository) CreateMeeting(ctx context.Context, meeting persistence.Meeting) (int64, error) {
	var id int64
	err := r.retry.WithRetry(ctx, func() error {
		result, err := r.helper.Exec(ctx, `
			INSERT INTO meetings (user_id, user_name, organization_id, meeting_date, status, duration_minutes, summary, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`,
			meeting.UserID,
			meeting.UserName,
			meeting.OrganizationID,
			formatDate(meeting.MeetingDate),
			meeting.Status,
			nullableInt(meeting.DurationMinutes),
			meeting.Summary,
			formatTimestamp(meeting.CreatedAt),
		)
		if err != nil {
			return err
		}
		id, err = result.LastInsertId()
		return err
	})
	if err != nil {
		return 0, r.mapper.MapError(err)
	}
	return id, nil
}

// GetMeeting returns one meeting with its organization and complex names.
func (r *MeetingRepository) GetMeeting(ctx context.Context, id int64) (persistence.Meeting, error) {
	row := r.helper.QueryRow(ctx, meetingSelect+` WHERE m.id = ?`, id)
	meeting, err := scanMeeting(row)
	if err != nil {
		return persistence.Meeting{}, r.mapper.MapError(err)
	}
	return meeting, nil
}

// UpdateMeeting changes only the columns set in update.
func (r *MeetingRepository) UpdateMeeting(ctx context.Context, id int64, update persistence.MeetingUpdate) error {
	var (
		sets []string
		args []any
	)
	if update.MeetingDate != nil {
		sets = append(sets, "meeting_date = ?")
		args = append(args, formatDate(*update.MeetingDate))
	}
	if update.OrganizationID != nil {
		sets = append(sets, "organization_id = ?")
		args = append(args, *update.OrganizationID)
	}
	if update.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *update.Status)
	}
	switch {
	case update.ClearDuration:
		sets = append(sets, "duration_minutes = NULL")
	case update.DurationMinutes != nil:
		sets = append(sets, "duration_minutes = ?")
		args = append(args, *update.DurationMinutes)
	}
	if update.Summary != nil {
		sets = append(sets, "summary = ?")
		args = append(args, *update.Summary)
	}
	if len(sets) == 0 {
		return persistence.ErrConstraintViolation
	}
	args = append(args, id)

	var affected int64
	err := r.retry.WithRetry(ctx, func() error {
		result, err := r.helper.Exec(ctx, `UPDATE meetings SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
		if err != nil {
			return err
		}
		affected, err = result.RowsAffected()
		return err
	})
	if err != nil {
		return r.mapper.MapError(err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// DeleteMeeting removes one meeting.
func (r *MeetingRepository) DeleteMeeting(ctx context.Context, id int64) error {
	var affected int64
	err := r.retry.WithRetry(ctx, func() error {
		result, err := r.helper.Exec(ctx, `DELETE FROM meetings WHERE id = ?`, id)
		if err != nil {
			return err
		}
		affected, err = result.RowsAffected()
		return err
	})
	if err != nil {
		return r.mapper.MapError(err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// ListMeetings returns meetings matching filter, newest first.
func (r *MeetingRepository) ListMeetings(ctx context.Context, filter persistence.MeetingFilter) ([]persistence.Meeting, error) {
	var (
		where []string
		args  []any
	)
	if filter.Year != 0 {
		where = append(where, "strftime('%Y', m.meeting_date) = ?")
		args = append(args, fmt.Sprintf("%04d", filter.Year))
	}
	if filter.Month != 0 {
		where = append(where, "strftime('%m', m.meeting_date) = ?")
		args = append(args, fmt.Sprintf("%02d", filter.Month))
	}
	if filter.ComplexID != 0 {
		where = append(where, "o.complex_id = ?")
		args = append(args, filter.ComplexID)
	}
	if filter.OrganizationID != 0 {
		where = append(where, "m.organization_id = ?")
		args = append(args, filter.OrganizationID)
	}
	if filter.Status != "" {
		where = append(where, "m.status = ?")
		args = append(args, filter.Status)
	}

	query := meetingSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY m.meeting_date DESC, m.created_at DESC, m.id DESC"

	rows, err := r.helper.Query(ctx, query, args...)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var meetings []persistence.Meeting
	for rows.Next() {
		meeting, err := scanMeeting(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan meeting: %w", err)
		}
		meetings = append(meetings, meeting)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate meetings: %w", err)
	}
	return meetings, nil
}

// ListYears returns the distinct years that have meetings, newest first.
func (r *MeetingRepository) ListYears(ctx context.Context) ([]int, error) {
	return r.listInts(ctx, `
		SELECT DISTINCT CAST(strftime('%Y', meeting_date) AS INTEGER) AS y
		FROM meetings
		ORDER BY y DESC
	`)
}

// ListMonths returns the distinct months of year that have meetings, newest first.
func (r *MeetingRepository) ListMonths(ctx context.Context, year int) ([]int, error) {
	return r.listInts(ctx, `
		SELECT DISTINCT CAST(strftime('%m', meeting_date) AS INTEGER) AS mo
		FROM meetings
		WHERE strftime('%Y', meeting_date) = ?
		ORDER BY mo DESC
	`, fmt.Sprintf("%04d", year))
}

func (r *MeetingRepository) listInts(ctx context.Context, query string, args ...any) ([]int, error) {
	rows, err := r.helper.Query(ctx, query, args...)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var values []int
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan value: %w", err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate values: %w", err)
	}
	return values, nil
}

// AggregateStatistics counts meetings per complex, organization and status.
// Nil bounds leave that side of the range open; both bounds are inclusive.
func (r *MeetingRepository) AggregateStatistics(ctx context.Context, from, to *time.Time) ([]persistence.StatRow, error) {
	var (
		where []string
		args  []any
	)
	if from != nil {
		where = append(where, "m.meeting_date >= ?")
		args = append(args, formatDate(*from))
	}
	if to != nil {
		where = append(where, "m.meeting_date <= ?")
		args = append(args, formatDate(*to))
	}

	query := `
		SELECT c.name, o.name, m.status, COUNT(*)
		FROM meetings m
		JOIN organizations o ON o.id = m.organization_id
		JOIN complexes c ON c.id = o.complex_id
	`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " GROUP BY c.id, o.id, m.status ORDER BY c.id, o.name, m.status"

	rows, err := r.helper.Query(ctx, query, args...)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var stats []persistence.StatRow
	for rows.Next() {
		var row persistence.StatRow
		if err := rows.Scan(&row.ComplexName, &row.OrganizationName, &row.Status, &row.Count); err != nil {
			return nil, fmt.Errorf("failed to scan statistics: %w", err)
		}
		stats = append(stats, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate statistics: %w", err)
	}
	return stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMeeting(s rowScanner) (persistence.Meeting, error) {
	var (
		m        persistence.Meeting
		date     string
		created  string
		duration sql.NullInt64
	)
	err := s.Scan(
		&m.ID, &m.UserID, &m.UserName, &m.OrganizationID, &m.OrganizationName,
		&m.ComplexID, &m.ComplexName, &date, &m.Status, &duration, &m.Summary, &created,
	)
	if err != nil {
		return persistence.Meeting{}, err
	}

	if m.MeetingDate, err = parseDate(date); err != nil {
		return persistence.Meeting{}, err
	}
	if m.CreatedAt, err = parseTimestamp(created); err != nil {
		return persistence.Meeting{}, err
	}
	if duration.Valid {
		d := int(duration.Int64)
		m.DurationMinutes = &d
	}
	return m, nil
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

var _ persistence.MeetingRepository = (*MeetingRepository)(nil)
