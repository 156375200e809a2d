package application

import "time"

// Role is the permission level of a registered user.
type Role string

const (
	// RoleOperator may log and browse meetings.
	RoleOperator Role = "user"
	// RoleAdministrator may additionally edit, delete, manage users and view statistics.
	RoleAdministrator Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleOperator || r == RoleAdministrator
}

// Label returns the role name shown to users.
func (r Role) Label() string {
	if r == RoleAdministrator {
		return "Администратор"
	}
	return "Пользователь"
}

// Status is the outcome of a meeting.
type Status string

const (
	StatusHeld        Status = "held"
	StatusPlanned     Status = "planned"
	StatusCancelled   Status = "cancelled"
	StatusRescheduled Status = "rescheduled"
)

// Statuses lists every status in menu order.
var Statuses = []Status{StatusHeld, StatusPlanned, StatusCancelled, StatusRescheduled}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusHeld, StatusPlanned, StatusCancelled, StatusRescheduled:
		return true
	}
	return false
}

// RequiresDuration reports whether meetings with this status carry a duration.
func (s Status) RequiresDuration() bool {
	return s == StatusHeld
}

// Label returns the status name shown to users.
func (s Status) Label() string {
	switch s {
	case StatusHeld:
		return "Состоялась"
	case StatusPlanned:
		return "Запланирована"
	case StatusCancelled:
		return "Отменена"
	case StatusRescheduled:
		return "Перенесена"
	}
	return string(s)
}

// Icon returns the emoji shown next to the status label.
func (s Status) Icon() string {
	switch s {
	case StatusHeld:
		return "✅"
	case StatusPlanned:
		return "⏰"
	case StatusCancelled:
		return "❌"
	case StatusRescheduled:
		return "↗️"
	}
	return "•"
}

// User is a registered bot user identified by their Telegram id.
type User struct {
	Identity     int64
	DisplayName  string
	Role         Role
	RegisteredAt time.Time
}

// IsAdmin reports whether the user holds the administrator role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdministrator
}

// UserInput captures caller provided user fields.
type UserInput struct {
	Identity    int64
	DisplayName string
	Role        Role
}

// Complex is the top level of the organization hierarchy.
type Complex struct {
	ID   int64
	Name string
}

// Organization belongs to exactly one complex.
type Organization struct {
	ID        int64
	ComplexID int64
	Name      string
}

// Meeting is a logged meeting record.
type Meeting struct {
	ID               int64
	CreatorID        int64
	CreatorName      string
	OrganizationID   int64
	OrganizationName string
	ComplexID        int64
	ComplexName      string
	Date             time.Time
	Status           Status
	DurationMinutes  *int
	Summary          string
	CreatedAt        time.Time
}

// MeetingInput captures the fields required to create a meeting.
type MeetingInput struct {
	CreatorID       int64
	CreatorName     string
	OrganizationID  int64
	Date            time.Time
	Status          Status
	DurationMinutes *int
	Summary         string
}

// MeetingPatch changes a subset of a meeting's fields. Nil fields are left alone.
type MeetingPatch struct {
	Date            *time.Time
	OrganizationID  *int64
	Status          *Status
	DurationMinutes *int
	ClearDuration   bool
	Summary         *string
}

// Empty reports whether the patch changes nothing.
func (p MeetingPatch) Empty() bool {
	return p.Date == nil && p.OrganizationID == nil && p.Status == nil &&
		p.DurationMinutes == nil && !p.ClearDuration && p.Summary == nil
}

// MeetingFilter narrows meeting listings. Zero fields do not filter.
type MeetingFilter struct {
	Year           int
	Month          time.Month
	ComplexID      int64
	OrganizationID int64
	Status         Status
}

// DateRange bounds statistics. Zero bounds are open.
type DateRange struct {
	From time.Time
	To   time.Time
}

// StatRow is one aggregate bucket.
type StatRow struct {
	ComplexName      string
	OrganizationName string
	Status           Status
	Count            int
}
