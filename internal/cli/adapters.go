package cli

import (
	"context"
	"time"

	"github.com/example/meetbot/internal/application"
	"github.com/example/meetbot/internal/persistence"
)

// repositories adapts the persistence layer to the application ports.
func repositories(meetings persistence.MeetingRepository, catalog persistence.CatalogRepository, users persistence.UserRepository) application.Repositories {
	return application.Repositories{
		Meetings: &meetingRepositoryAdapter{repo: meetings},
		Catalog:  &catalogRepositoryAdapter{repo: catalog},
		Users:    &userRepositoryAdapter{repo: users},
	}
}

type meetingRepositoryAdapter struct {
	repo persistence.MeetingRepository
}

func (a *meetingRepositoryAdapter) CreateMeeting(ctx context.Context, meeting application.Meeting) (int64, error) {
	return a.repo.CreateMeeting(ctx, toPersistenceMeeting(meeting))
}

func (a *meetingRepositoryAdapter) GetMeeting(ctx context.Context, id int64) (application.Meeting, error) {
	stored, err := a.repo.GetMeeting(ctx, id)
	if err != nil {
		return application.Meeting{}, err
	}
	return toApplicationMeeting(stored), nil
}

func (a *meetingRepositoryAdapter) UpdateMeeting(ctx context.Context, id int64, patch application.MeetingPatch) error {
	update := persistence.MeetingUpdate{
		MeetingDate:     patch.Date,
		OrganizationID:  patch.OrganizationID,
		DurationMinutes: patch.DurationMinutes,
		ClearDuration:   patch.ClearDuration,
		Summary:         patch.Summary,
	}
	if patch.Status != nil {
		status := string(*patch.Status)
		update.Status = &status
	}
	return a.repo.UpdateMeeting(ctx, id, update)
}

func (a *meetingRepositoryAdapter) DeleteMeeting(ctx context.Context, id int64) error {
	return a.repo.DeleteMeeting(ctx, id)
}

func (a *meetingRepositoryAdapter) ListMeetings(ctx context.Context, filter application.MeetingFilter) ([]application.Meeting, error) {
	models, err := a.repo.ListMeetings(ctx, persistence.MeetingFilter{
		Year:           filter.Year,
		Month:          int(filter.Month),
		ComplexID:      filter.ComplexID,
		OrganizationID: filter.OrganizationID,
		Status:         string(filter.Status),
	})
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	meetings := make([]application.Meeting, 0, len(models))
	for _, model := range models {
		meetings = append(meetings, toApplicationMeeting(model))
	}
	return meetings, nil
}

func (a *meetingRepositoryAdapter) ListYears(ctx context.Context) ([]int, error) {
	return a.repo.ListYears(ctx)
}

func (a *meetingRepositoryAdapter) ListMonths(ctx context.Context, year int) ([]time.Month, error) {
	values, err := a.repo.ListMonths(ctx, year)
	if err != nil {
		return nil, err
	}
	months := make([]time.Month, 0, len(values))
	for _, v := range values {
		months = append(months, time.Month(v))
	}
	return months, nil
}

func (a *meetingRepositoryAdapter) Statistics(ctx context.Context, period application.DateRange) ([]application.StatRow, error) {
	var from, to *time.Time
	if !period.From.IsZero() {
		from = &period.From
	}
	if !period.To.IsZero() {
		to = &period.To
	}
	models, err := a.repo.AggregateStatistics(ctx, from, to)
	if err != nil {
		return nil, err
	}
	rows := make([]application.StatRow, 0, len(models))
	for _, m := range models {
		rows = append(rows, application.StatRow{
			ComplexName:      m.ComplexName,
			OrganizationName: m.OrganizationName,
			Status:           application.Status(m.Status),
			Count:            m.Count,
		})
	}
	return rows, nil
}

type catalogRepositoryAdapter struct {
	repo persistence.CatalogRepository
}

func (a *catalogRepositoryAdapter) ListComplexes(ctx context.Context) ([]application.Complex, error) {
	models, err := a.repo.ListComplexes(ctx)
	if err != nil {
		return nil, err
	}
	complexes := make([]application.Complex, 0, len(models))
	for _, m := range models {
		complexes = append(complexes, application.Complex{ID: m.ID, Name: m.Name})
	}
	return complexes, nil
}

func (a *catalogRepositoryAdapter) ListOrganizations(ctx context.Context, complexID int64) ([]application.Organization, error) {
	models, err := a.repo.ListOrganizations(ctx, complexID)
	if err != nil {
		return nil, err
	}
	orgs := make([]application.Organization, 0, len(models))
	for _, m := range models {
		orgs = append(orgs, toApplicationOrganization(m))
	}
	return orgs, nil
}

func (a *catalogRepositoryAdapter) GetOrganization(ctx context.Context, id int64) (application.Organization, error) {
	stored, err := a.repo.GetOrganization(ctx, id)
	if err != nil {
		return application.Organization{}, err
	}
	return toApplicationOrganization(stored), nil
}

func (a *catalogRepositoryAdapter) EnsureComplex(ctx context.Context, name string) (int64, error) {
	return a.repo.EnsureComplex(ctx, name)
}

func (a *catalogRepositoryAdapter) EnsureOrganization(ctx context.Context, complexID int64, name string) (int64, error) {
	return a.repo.EnsureOrganization(ctx, complexID, name)
}

type userRepositoryAdapter struct {
	repo persistence.UserRepository
}

func (a *userRepositoryAdapter) CreateUser(ctx context.Context, user application.User) error {
	return a.repo.CreateUser(ctx, toPersistenceUser(user))
}

func (a *userRepositoryAdapter) SaveUser(ctx context.Context, user application.User) error {
	return a.repo.UpsertUser(ctx, toPersistenceUser(user))
}

func (a *userRepositoryAdapter) GetUser(ctx context.Context, identity int64) (application.User, error) {
	stored, err := a.repo.GetUser(ctx, identity)
	if err != nil {
		return application.User{}, err
	}
	return toApplicationUser(stored), nil
}

func (a *userRepositoryAdapter) DeleteUser(ctx context.Context, identity int64) error {
	return a.repo.DeleteUser(ctx, identity)
}

func (a *userRepositoryAdapter) ListUsers(ctx context.Context) ([]application.User, error) {
	models, err := a.repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	users := make([]application.User, 0, len(models))
	for _, model := range models {
		users = append(users, toApplicationUser(model))
	}
	return users, nil
}

func toPersistenceMeeting(m application.Meeting) persistence.Meeting {
	return persistence.Meeting{
		ID:              m.ID,
		UserID:          m.CreatorID,
		UserName:        m.CreatorName,
		OrganizationID:  m.OrganizationID,
		MeetingDate:     m.Date,
		Status:          string(m.Status),
		DurationMinutes: m.DurationMinutes,
		Summary:         m.Summary,
		CreatedAt:       m.CreatedAt,
	}
}

func toApplicationMeeting(m persistence.Meeting) application.Meeting {
	return application.Meeting{
		ID:               m.ID,
		CreatorID:        m.UserID,
		CreatorName:      m.UserName,
		OrganizationID:   m.OrganizationID,
		OrganizationName: m.OrganizationName,
		ComplexID:        m.ComplexID,
		ComplexName:      m.ComplexName,
		Date:             m.MeetingDate,
		Status:           application.Status(m.Status),
		DurationMinutes:  m.DurationMinutes,
		Summary:          m.Summary,
		CreatedAt:        m.CreatedAt,
	}
}

func toApplicationOrganization(o persistence.Organization) application.Organization {
	return application.Organization{ID: o.ID, ComplexID: o.ComplexID, Name: o.Name}
}

func toPersistenceUser(u application.User) persistence.User {
	return persistence.User{
		TelegramID:   u.Identity,
		FullName:     u.DisplayName,
		Role:         string(u.Role),
		RegisteredAt: u.RegisteredAt,
	}
}

func toApplicationUser(u persistence.User) application.User {
	return application.User{
		Identity:     u.TelegramID,
		DisplayName:  u.FullName,
		Role:         application.Role(u.Role),
		RegisteredAt: u.RegisteredAt,
	}
}
