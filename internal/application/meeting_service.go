package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// MeetingRepository captures the persistence operations needed by the meeting service.
type MeetingRepository interface {
	CreateMeeting(ctx context.Context, meeting Meeting) (int64, error)
	GetMeeting(ctx context.Context, id int64) (Meeting, error)
	UpdateMeeting(ctx context.Context, id int64, patch MeetingPatch) error
	DeleteMeeting(ctx context.Context, id int64) error
	ListMeetings(ctx context.Context, filter MeetingFilter) ([]Meeting, error)
	ListYears(ctx context.Context) ([]int, error)
	ListMonths(ctx context.Context, year int) ([]time.Month, error)
	Statistics(ctx context.Context, period DateRange) ([]StatRow, error)
}

// OrganizationLookup resolves organizations referenced by meetings.
type OrganizationLookup interface {
	GetOrganization(ctx context.Context, id int64) (Organization, error)
}

// MeetingService validates and persists meeting records.
type MeetingService struct {
	meetings      MeetingRepository
	organizations OrganizationLookup
	now           func() time.Time
	logger        *slog.Logger
}

// NewMeetingService constructs a meeting service with the provided dependencies.
func NewMeetingService(meetings MeetingRepository, organizations OrganizationLookup, now func() time.Time) *MeetingService {
	return NewMeetingServiceWithLogger(meetings, organizations, now, nil)
}

// NewMeetingServiceWithLogger constructs a meeting service with a specified logger.
func NewMeetingServiceWithLogger(meetings MeetingRepository, organizations OrganizationLookup, now func() time.Time, logger *slog.Logger) *MeetingService {
	if now == nil {
		now = time.Now
	}
	return &MeetingService{meetings: meetings, organizations: organizations, now: now, logger: defaultLogger(logger)}
}

func (s *MeetingService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "MeetingService", operation, attrs...)
}

// CreateMeeting validates input and stores a new meeting, returning its id.
func (s *MeetingService) CreateMeeting(ctx context.Context, input MeetingInput) (id int64, err error) {
	if s == nil || s.meetings == nil {
		return 0, fmt.Errorf("meeting repository not configured")
	}

	logger := s.loggerWith(ctx, "CreateMeeting",
		"creator_id", input.CreatorID,
		"organization_id", input.OrganizationID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create meeting", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("meeting_id", id).InfoContext(ctx, "meeting created")
	}()

	input.Summary = NormalizeText(input.Summary)
	if vErr := ValidateMeetingInput(input); vErr.HasErrors() {
		err = vErr
		return
	}

	var org Organization
	org, err = s.lookupOrganization(ctx, input.OrganizationID)
	if err != nil {
		return
	}

	meeting := Meeting{
		CreatorID:        input.CreatorID,
		CreatorName:      NormalizeText(input.CreatorName),
		OrganizationID:   org.ID,
		OrganizationName: org.Name,
		ComplexID:        org.ComplexID,
		Date:             DateOnly(input.Date),
		Status:           input.Status,
		DurationMinutes:  input.DurationMinutes,
		Summary:          input.Summary,
		CreatedAt:        s.now().UTC(),
	}

	id, err = s.meetings.CreateMeeting(ctx, meeting)
	err = mapRepoError(err)
	return
}

// GetMeeting loads one meeting.
func (s *MeetingService) GetMeeting(ctx context.Context, id int64) (Meeting, error) {
	if s == nil || s.meetings == nil {
		return Meeting{}, fmt.Errorf("meeting repository not configured")
	}
	meeting, err := s.meetings.GetMeeting(ctx, id)
	if err != nil {
		return Meeting{}, mapRepoError(err)
	}
	return meeting, nil
}

// UpdateMeeting applies a partial change. Switching to a status other than
// held drops the duration in the same write; a duration can only be set on a
// held meeting.
func (s *MeetingService) UpdateMeeting(ctx context.Context, id int64, patch MeetingPatch) (err error) {
	if s == nil || s.meetings == nil {
		return fmt.Errorf("meeting repository not configured")
	}

	logger := s.loggerWith(ctx, "UpdateMeeting", "meeting_id", id)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update meeting", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "meeting updated")
	}()

	if patch.Empty() {
		return nil
	}

	vErr := &ValidationError{}
	if patch.Summary != nil {
		summary, sErr := ValidateSummary(*patch.Summary)
		if sErr != nil {
			vErr.merge(sErr.(*ValidationError))
		} else {
			patch.Summary = &summary
		}
	}
	if patch.Status != nil && !patch.Status.Valid() {
		vErr.add(FieldStatus, msgStatus)
	}
	if patch.DurationMinutes != nil && *patch.DurationMinutes < 0 {
		vErr.add(FieldDuration, msgDuration)
	}
	if patch.Date != nil {
		if patch.Date.IsZero() {
			vErr.add(FieldDate, msgDate)
		} else {
			d := DateOnly(*patch.Date)
			patch.Date = &d
		}
	}
	if vErr.HasErrors() {
		err = vErr
		return
	}

	if patch.OrganizationID != nil {
		if _, err = s.lookupOrganization(ctx, *patch.OrganizationID); err != nil {
			return
		}
	}

	if patch.Status != nil && !patch.Status.RequiresDuration() {
		if patch.DurationMinutes != nil {
			err = fieldError(FieldDuration, msgDurationStatus)
			return
		}
		patch.ClearDuration = true
	}

	if patch.DurationMinutes != nil && patch.Status == nil {
		var current Meeting
		current, err = s.GetMeeting(ctx, id)
		if err != nil {
			return
		}
		if !current.Status.RequiresDuration() {
			err = fieldError(FieldDuration, msgDurationStatus)
			return
		}
	}

	err = mapRepoError(s.meetings.UpdateMeeting(ctx, id, patch))
	return
}

// DeleteMeeting removes a meeting.
func (s *MeetingService) DeleteMeeting(ctx context.Context, id int64) (err error) {
	if s == nil || s.meetings == nil {
		return fmt.Errorf("meeting repository not configured")
	}

	logger := s.loggerWith(ctx, "DeleteMeeting", "meeting_id", id)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to delete meeting", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "meeting deleted")
	}()

	err = mapRepoError(s.meetings.DeleteMeeting(ctx, id))
	return
}

// ListMeetings returns meetings matching filter, most recent first.
func (s *MeetingService) ListMeetings(ctx context.Context, filter MeetingFilter) ([]Meeting, error) {
	if s == nil || s.meetings == nil {
		return nil, fmt.Errorf("meeting repository not configured")
	}
	if filter.Month != 0 && (filter.Month < time.January || filter.Month > time.December) {
		return nil, fieldError(FieldDate, msgDate)
	}
	meetings, err := s.meetings.ListMeetings(ctx, filter)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return meetings, nil
}

// ListYears returns the years that have meetings, newest first.
func (s *MeetingService) ListYears(ctx context.Context) ([]int, error) {
	if s == nil || s.meetings == nil {
		return nil, fmt.Errorf("meeting repository not configured")
	}
	years, err := s.meetings.ListYears(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return years, nil
}

// ListMonths returns the months of year that have meetings, newest first.
func (s *MeetingService) ListMonths(ctx context.Context, year int) ([]time.Month, error) {
	if s == nil || s.meetings == nil {
		return nil, fmt.Errorf("meeting repository not configured")
	}
	months, err := s.meetings.ListMonths(ctx, year)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return months, nil
}

// Statistics aggregates meeting counts by complex, organization and status.
func (s *MeetingService) Statistics(ctx context.Context, period DateRange) ([]StatRow, error) {
	if s == nil || s.meetings == nil {
		return nil, fmt.Errorf("meeting repository not configured")
	}
	if !period.From.IsZero() && !period.To.IsZero() && period.To.Before(period.From) {
		return nil, fieldError(FieldDate, msgDate)
	}
	rows, err := s.meetings.Statistics(ctx, period)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return rows, nil
}

func (s *MeetingService) lookupOrganization(ctx context.Context, id int64) (Organization, error) {
	if s.organizations == nil {
		return Organization{ID: id}, nil
	}
	org, err := s.organizations.GetOrganization(ctx, id)
	if err != nil {
		err = mapRepoError(err)
		if err == ErrNotFound {
			return Organization{}, fieldError(FieldOrganization, msgOrganization)
		}
		return Organization{}, err
	}
	return org, nil
}
