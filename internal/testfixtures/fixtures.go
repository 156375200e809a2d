package testfixtures

import (
	"time"

	"github.com/example/meetbot/internal/application"
)

var referenceTime = time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)

// ReferenceTime is the canonical "now" of fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// Identities used across dialog tests.
const (
	AdminID    int64 = 1001
	OperatorID int64 = 2002
	StrangerID int64 = 9009
)

// DefaultCatalog is a small two-complex hierarchy.
func DefaultCatalog() []application.CatalogEntry {
	return []application.CatalogEntry{
		{Complex: "Комплекс экономической политики", Organizations: []string{"Департамент финансов", "Департамент экономики"}},
		{Complex: "Социальный комплекс", Organizations: []string{"Департамент здравоохранения"}},
	}
}

// DefaultUsers returns one administrator and one operator.
func DefaultUsers() []application.User {
	return []application.User{
		{Identity: AdminID, DisplayName: "Анна Админ", Role: application.RoleAdministrator, RegisteredAt: referenceTime.Add(-48 * time.Hour)},
		{Identity: OperatorID, DisplayName: "Олег Оператор", Role: application.RoleOperator, RegisteredAt: referenceTime.Add(-24 * time.Hour)},
	}
}

// MeetingOption adjusts a meeting fixture.
type MeetingOption func(*application.Meeting)

// WithStatus sets the status and the matching duration.
func WithStatus(status application.Status, minutes int) MeetingOption {
	return func(m *application.Meeting) {
		m.Status = status
		m.DurationMinutes = nil
		if status.RequiresDuration() {
			m.DurationMinutes = &minutes
		}
	}
}

// OnDate sets the meeting date.
func OnDate(year int, month time.Month, day int) MeetingOption {
	return func(m *application.Meeting) {
		m.Date = time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	}
}

// WithSummary sets the summary.
func WithSummary(summary string) MeetingOption {
	return func(m *application.Meeting) {
		m.Summary = summary
	}
}

// NewMeeting returns a planned meeting for organizationID on the reference date.
func NewMeeting(organizationID int64, opts ...MeetingOption) application.Meeting {
	m := application.Meeting{
		CreatorID:      OperatorID,
		CreatorName:    "Олег Оператор",
		OrganizationID: organizationID,
		Date:           application.DateOnly(referenceTime),
		Status:         application.StatusPlanned,
		Summary:        "Обсудили план работ на квартал",
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}
