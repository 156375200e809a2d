package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/example/meetbot/internal/application"
	"github.com/example/meetbot/internal/testfixtures"
)

func newSQLiteFacade(t *testing.T) (*application.Facade, map[string]int64) {
	t.Helper()
	h := testfixtures.NewSQLiteHarness(t)
	clock := testfixtures.NewClock(testfixtures.ReferenceTime())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	facade := application.NewFacade(repositories(h.Meetings, h.Catalog, h.Users), clock.Now, logger)

	ctx := context.Background()
	if _, err := facade.Seed(ctx, testfixtures.DefaultCatalog()); err != nil {
		t.Fatalf("seed catalog: %v", err)
	}
	orgs := make(map[string]int64)
	complexes, err := facade.ListComplexes(ctx)
	if err != nil {
		t.Fatalf("list complexes: %v", err)
	}
	for _, c := range complexes {
		list, err := facade.ListOrganizations(ctx, c.ID)
		if err != nil {
			t.Fatalf("list organizations: %v", err)
		}
		for _, o := range list {
			orgs[o.Name] = o.ID
		}
	}
	return facade, orgs
}

func TestAdaptersMeetingLifecycle(t *testing.T) {
	facade, orgs := newSQLiteFacade(t)
	ctx := context.Background()

	minutes := 45
	id, err := facade.CreateMeeting(ctx, application.MeetingInput{
		CreatorID:       testfixtures.OperatorID,
		CreatorName:     "Олег Оператор",
		OrganizationID:  orgs["Департамент финансов"],
		Date:            time.Date(2024, time.March, 12, 0, 0, 0, 0, time.UTC),
		Status:          application.StatusHeld,
		DurationMinutes: &minutes,
		Summary:         "Обсудили бюджет на год",
	})
	if err != nil {
		t.Fatalf("create meeting: %v", err)
	}

	got, err := facade.GetMeeting(ctx, id)
	if err != nil {
		t.Fatalf("get meeting: %v", err)
	}
	if got.ComplexName != "Комплекс экономической политики" || got.OrganizationName != "Департамент финансов" {
		t.Fatalf("expected hydrated names, got %+v", got)
	}
	if got.DurationMinutes == nil || *got.DurationMinutes != 45 || got.Status != application.StatusHeld {
		t.Fatalf("expected held for 45 minutes, got %+v", got)
	}
	if got.CreatorID != testfixtures.OperatorID || got.CreatorName != "Олег Оператор" {
		t.Fatalf("expected creator kept, got %+v", got)
	}

	cancelled := application.StatusCancelled
	if err := facade.UpdateMeeting(ctx, id, application.MeetingPatch{Status: &cancelled}); err != nil {
		t.Fatalf("update meeting: %v", err)
	}
	got, err = facade.GetMeeting(ctx, id)
	if err != nil {
		t.Fatalf("get meeting: %v", err)
	}
	if got.Status != application.StatusCancelled || got.DurationMinutes != nil {
		t.Fatalf("expected cancelled without duration, got %+v", got)
	}

	months, err := facade.ListMonths(ctx, 2024)
	if err != nil {
		t.Fatalf("list months: %v", err)
	}
	if len(months) != 1 || months[0] != time.March {
		t.Fatalf("expected [March], got %v", months)
	}

	listed, err := facade.ListMeetings(ctx, application.MeetingFilter{Year: 2024, Month: time.March})
	if err != nil {
		t.Fatalf("list meetings: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != id {
		t.Fatalf("expected meeting %d listed, got %+v", id, listed)
	}

	if err := facade.DeleteMeeting(ctx, id); err != nil {
		t.Fatalf("delete meeting: %v", err)
	}
	if _, err := facade.GetMeeting(ctx, id); !errors.Is(err, application.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestAdaptersStatisticsBounds(t *testing.T) {
	facade, orgs := newSQLiteFacade(t)
	ctx := context.Background()

	for _, day := range []int{1, 10, 20} {
		_, err := facade.CreateMeeting(ctx, application.MeetingInput{
			CreatorID:      testfixtures.OperatorID,
			CreatorName:    "Олег Оператор",
			OrganizationID: orgs["Департамент здравоохранения"],
			Date:           time.Date(2024, time.March, day, 0, 0, 0, 0, time.UTC),
			Status:         application.StatusPlanned,
			Summary:        "Плановая встреча по проекту",
		})
		if err != nil {
			t.Fatalf("create meeting: %v", err)
		}
	}

	tests := []struct {
		name   string
		period application.DateRange
		want   int
	}{
		{name: "open", want: 3},
		{name: "from only", period: application.DateRange{From: time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)}, want: 2},
		{name: "to only", period: application.DateRange{To: time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)}, want: 2},
		{name: "single day", period: application.DateRange{
			From: time.Date(2024, time.March, 20, 0, 0, 0, 0, time.UTC),
			To:   time.Date(2024, time.March, 20, 0, 0, 0, 0, time.UTC),
		}, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := facade.Statistics(ctx, tt.period)
			if err != nil {
				t.Fatalf("statistics: %v", err)
			}
			report := application.BuildReport(rows)
			if report.Total != tt.want {
				t.Fatalf("expected %d meetings, got %d", tt.want, report.Total)
			}
		})
	}
}

func TestAdaptersUsers(t *testing.T) {
	facade, _ := newSQLiteFacade(t)
	ctx := context.Background()

	if _, err := facade.EnsureAdmin(ctx, testfixtures.AdminID, "Анна Админ"); err != nil {
		t.Fatalf("ensure admin: %v", err)
	}
	if _, err := facade.CreateUser(ctx, application.UserInput{
		Identity:    testfixtures.OperatorID,
		DisplayName: "Олег Оператор",
		Role:        application.RoleOperator,
	}); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := facade.CreateUser(ctx, application.UserInput{
		Identity:    testfixtures.OperatorID,
		DisplayName: "Кто-то Другой",
		Role:        application.RoleOperator,
	}); !errors.Is(err, application.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	users, err := facade.ListUsers(ctx)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(users) != 2 || !users[0].IsAdmin() || users[1].Role != application.RoleOperator {
		t.Fatalf("unexpected users %+v", users)
	}

	if err := facade.DeleteUser(ctx, testfixtures.OperatorID); err != nil {
		t.Fatalf("delete user: %v", err)
	}
	if _, err := facade.GetUser(ctx, testfixtures.OperatorID); !errors.Is(err, application.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
