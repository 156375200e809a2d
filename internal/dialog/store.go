package dialog

import (
	"context"
	"time"

	"github.com/example/meetbot/internal/application"
)

// Store is the record store the engine reads and writes through.
// application.Facade implements it.
type Store interface {
	CreateMeeting(ctx context.Context, input application.MeetingInput) (int64, error)
	GetMeeting(ctx context.Context, id int64) (application.Meeting, error)
	UpdateMeeting(ctx context.Context, id int64, patch application.MeetingPatch) error
	DeleteMeeting(ctx context.Context, id int64) error
	ListMeetings(ctx context.Context, filter application.MeetingFilter) ([]application.Meeting, error)
	ListYears(ctx context.Context) ([]int, error)
	ListMonths(ctx context.Context, year int) ([]time.Month, error)
	Statistics(ctx context.Context, period application.DateRange) ([]application.StatRow, error)

	ListComplexes(ctx context.Context) ([]application.Complex, error)
	ListOrganizations(ctx context.Context, complexID int64) ([]application.Organization, error)
	GetOrganization(ctx context.Context, id int64) (application.Organization, error)

	GetUser(ctx context.Context, identity int64) (application.User, error)
	ListUsers(ctx context.Context) ([]application.User, error)
	CreateUser(ctx context.Context, input application.UserInput) (application.User, error)
	DeleteUser(ctx context.Context, identity int64) error
}

var _ Store = (*application.Facade)(nil)
