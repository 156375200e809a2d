package persistence

import (
	"context"
	"time"
)

// MeetingFilter narrows meeting queries. Zero fields do not filter.
type MeetingFilter struct {
	Year           int
	Month          int
	ComplexID      int64
	OrganizationID int64
	Status         string
}

// MeetingRepository stores meeting records.
type MeetingRepository interface {
	CreateMeeting(ctx context.Context, meeting Meeting) (int64, error)
	GetMeeting(ctx context.Context, id int64) (Meeting, error)
	UpdateMeeting(ctx context.Context, id int64, update MeetingUpdate) error
	DeleteMeeting(ctx context.Context, id int64) error
	ListMeetings(ctx context.Context, filter MeetingFilter) ([]Meeting, error)
	ListYears(ctx context.Context) ([]int, error)
	ListMonths(ctx context.Context, year int) ([]int, error)
	AggregateStatistics(ctx context.Context, from, to *time.Time) ([]StatRow, error)
}

// CatalogRepository stores the complex and organization hierarchy.
type CatalogRepository interface {
	EnsureComplex(ctx context.Context, name string) (int64, error)
	EnsureOrganization(ctx context.Context, complexID int64, name string) (int64, error)
	ListComplexes(ctx context.Context) ([]Complex, error)
	ListOrganizations(ctx context.Context, complexID int64) ([]Organization, error)
	GetOrganization(ctx context.Context, id int64) (Organization, error)
}

// UserRepository stores the allow-list of bot users.
type UserRepository interface {
	CreateUser(ctx context.Context, user User) error
	UpsertUser(ctx context.Context, user User) error
	GetUser(ctx context.Context, telegramID int64) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
	DeleteUser(ctx context.Context, telegramID int64) error
}
