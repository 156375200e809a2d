package persistence

import "time"

// User is a row of the users table.
type User struct {
	TelegramID   int64
	FullName     string
	Role         string
	RegisteredAt time.Time
}

// Complex is a row of the complexes table.
type Complex struct {
	ID   int64
	Name string
}

// Organization is a row of the organizations table.
type Organization struct {
	ID        int64
	ComplexID int64
	Name      string
}

// Meeting is a row of the meetings table joined with its organization and complex.
type Meeting struct {
	ID               int64
	UserID           int64
	UserName         string
	OrganizationID   int64
	OrganizationName string
	ComplexID        int64
	ComplexName      string
	MeetingDate      time.Time
	Status           string
	DurationMinutes  *int
	Summary          string
	CreatedAt        time.Time
}

// MeetingUpdate lists the columns to change. Nil fields are left alone.
type MeetingUpdate struct {
	MeetingDate     *time.Time
	OrganizationID  *int64
	Status          *string
	DurationMinutes *int
	ClearDuration   bool
	Summary         *string
}

// StatRow is one GROUP BY bucket of the statistics query.
type StatRow struct {
	ComplexName      string
	OrganizationName string
	Status           string
	Count            int
}
