package dialog

import (
	"testing"
	"time"

	"github.com/example/meetbot/internal/application"
	"github.com/example/meetbot/internal/control"
	"github.com/example/meetbot/internal/testfixtures"
)

func seedOne(h *harness, opts ...testfixtures.MeetingOption) int64 {
	return h.mem.SeedMeetings(testfixtures.NewMeeting(h.orgs[financeOrg], opts...))[0]
}

func TestEditRequiresAdministrator(t *testing.T) {
	h := newHarness(t)
	id := seedOne(h)

	replies := h.press(operator, control.StartEdit{MeetingID: id})
	if len(replies) != 1 || replies[0].Text != textNoRightsEdit {
		t.Fatalf("expected permission error, got %s", describe(replies))
	}
	if h.mem.Calls("GetMeeting") != 0 {
		t.Fatal("expected record not loaded for non-admin")
	}
	if _, ok := h.state(operator); ok {
		t.Fatal("expected no dialog")
	}
}

func TestEditMissingMeeting(t *testing.T) {
	h := newHarness(t)

	replies := h.press(admin, control.StartEdit{MeetingID: 77})
	expectText(t, replies, textNotFound)
	if _, ok := h.state(admin); ok {
		t.Fatal("expected no dialog")
	}
}

func TestEditStatusThenDuration(t *testing.T) {
	h := newHarness(t)
	id := seedOne(h)

	replies := h.press(admin, control.StartEdit{MeetingID: id})
	expectText(t, replies, "Выберите поле для редактирования")

	replies = h.pressLabel(admin, replies, btnEditStatus)
	expectText(t, replies, "Текущий статус: Запланирована")

	replies = h.pressLabel(admin, replies, heldButton)
	expectText(t, replies, "Статус обновлен: Состоялась")
	if st, _ := h.state(admin); st.Step != StepEditDuration {
		t.Fatalf("expected duration prompt after held without duration, got %v", st.Step)
	}

	replies = h.text(admin, "45")
	expectText(t, replies, "Длительность обновлена: 45 мин")

	if got := h.mem.Calls("UpdateMeeting"); got != 2 {
		t.Fatalf("expected 2 independent updates, got %d", got)
	}
	m := h.mem.Meetings()[0]
	if m.Status != application.StatusHeld || m.DurationMinutes == nil || *m.DurationMinutes != 45 {
		t.Fatalf("expected held for 45 minutes, got %+v", m)
	}
	if st, _ := h.state(admin); st.Kind != KindEditRecord || st.Step != StepSelectField {
		t.Fatalf("expected back at field menu, got %v/%v", st.Kind, st.Step)
	}
}

func TestEditStatusAwayFromHeldClearsDuration(t *testing.T) {
	h := newHarness(t)
	id := seedOne(h, testfixtures.WithStatus(application.StatusHeld, 30))

	h.press(admin, control.StartEdit{MeetingID: id})
	h.press(admin, control.EditField{MeetingID: id, Field: control.FieldStatus})
	h.press(admin, control.PickStatus{Code: string(application.StatusCancelled)})

	m := h.mem.Meetings()[0]
	if m.Status != application.StatusCancelled || m.DurationMinutes != nil {
		t.Fatalf("expected cancelled without duration, got %+v", m)
	}

	replies := h.press(admin, control.EditField{MeetingID: id, Field: control.FieldDuration})
	expectText(t, replies, "только для состоявшихся")
	if st, _ := h.state(admin); st.Step != StepSelectField {
		t.Fatalf("expected field menu, got %v", st.Step)
	}
}

func TestEditHeldKeepsExistingDuration(t *testing.T) {
	h := newHarness(t)
	id := seedOne(h, testfixtures.WithStatus(application.StatusHeld, 30))

	h.press(admin, control.StartEdit{MeetingID: id})
	h.press(admin, control.EditField{MeetingID: id, Field: control.FieldStatus})
	replies := h.press(admin, control.PickStatus{Code: string(application.StatusHeld)})
	expectText(t, replies, textEditDone)

	if st, _ := h.state(admin); st.Step != StepSelectField {
		t.Fatalf("expected field menu, got %v", st.Step)
	}
}

func TestEditDuration(t *testing.T) {
	h := newHarness(t)
	id := seedOne(h, testfixtures.WithStatus(application.StatusHeld, 30))

	h.press(admin, control.StartEdit{MeetingID: id})
	replies := h.press(admin, control.EditField{MeetingID: id, Field: control.FieldDuration})
	expectText(t, replies, "Текущая длительность: 30 мин")

	replies = h.text(admin, "12a")
	expectText(t, replies, "Длительность должна быть")
	if h.mem.Calls("UpdateMeeting") != 0 {
		t.Fatal("expected no update for invalid duration")
	}

	h.text(admin, "120")
	if m := h.mem.Meetings()[0]; *m.DurationMinutes != 120 {
		t.Fatalf("expected 120 minutes, got %d", *m.DurationMinutes)
	}
}

func TestEditSummary(t *testing.T) {
	h := newHarness(t)
	id := seedOne(h, testfixtures.WithSummary("<b>старое</b> содержание"))

	h.press(admin, control.StartEdit{MeetingID: id})
	replies := h.press(admin, control.EditField{MeetingID: id, Field: control.FieldSummary})
	expectText(t, replies, "&lt;b&gt;старое&lt;/b&gt;")

	replies = h.text(admin, "ok")
	expectText(t, replies, "Минимум 5 символов")

	replies = h.text(admin, "  Новое содержание  ")
	expectText(t, replies, "Содержание обновлено")
	if m := h.mem.Meetings()[0]; m.Summary != "Новое содержание" {
		t.Fatalf("expected normalized summary, got %q", m.Summary)
	}
}

func TestEditDate(t *testing.T) {
	h := newHarness(t)
	id := seedOne(h, testfixtures.OnDate(2024, time.January, 20))

	h.press(admin, control.StartEdit{MeetingID: id})
	replies := h.press(admin, control.EditField{MeetingID: id, Field: control.FieldDate})
	expectText(t, replies, "Текущая дата: 20.01.2024")
	if _, ok := findOption(replies, "Январь 2024"); !ok {
		t.Fatalf("expected calendar on the meeting month, got %s", describe(replies))
	}

	replies = h.pressLabel(admin, replies, "5")
	expectText(t, replies, "Дата обновлена: 05.01.2024")
	if m := h.mem.Meetings()[0]; m.Date.Day() != 5 {
		t.Fatalf("expected day 5, got %v", m.Date)
	}
}

func TestEditDateCancelReturnsToFieldMenu(t *testing.T) {
	h := newHarness(t)
	id := seedOne(h)

	h.press(admin, control.StartEdit{MeetingID: id})
	h.press(admin, control.EditField{MeetingID: id, Field: control.FieldDate})
	replies := h.press(admin, control.CancelCalendar{})
	expectText(t, replies, textEditDateCancelled)

	if st, _ := h.state(admin); st.Step != StepSelectField {
		t.Fatalf("expected field menu, got %v", st.Step)
	}
	if h.mem.Calls("UpdateMeeting") != 0 {
		t.Fatal("expected no update")
	}
}

func TestEditOrganization(t *testing.T) {
	h := newHarness(t)
	id := seedOne(h)

	h.press(admin, control.StartEdit{MeetingID: id})
	replies := h.press(admin, control.EditField{MeetingID: id, Field: control.FieldOrganization})
	expectText(t, replies, "Текущая организация: "+financeOrg)

	replies = h.pressLabel(admin, replies, socialComplex)
	if st, _ := h.state(admin); st.Step != StepEditOrganization {
		t.Fatalf("expected organization step, got %v", st.Step)
	}

	replies = h.press(admin, control.PickOrganization{ID: h.orgs[financeOrg]})
	expectText(t, replies, textWrongComplex)

	replies = h.pressLabel(admin, replies, healthOrg)
	expectText(t, replies, "Организация обновлена: "+healthOrg)
	if m := h.mem.Meetings()[0]; m.OrganizationID != h.orgs[healthOrg] || m.ComplexName != socialComplex {
		t.Fatalf("expected meeting moved to %s, got %+v", healthOrg, m)
	}
}

func TestEditCancelShowsDetails(t *testing.T) {
	h := newHarness(t)
	id := seedOne(h)

	replies := h.press(admin, control.StartEdit{MeetingID: id})
	replies = h.pressLabel(admin, replies, btnCancelEdit)
	expectText(t, replies, "Встреча #")
	if _, ok := findOption(replies, btnEdit); !ok {
		t.Fatalf("expected admin controls on details, got %s", describe(replies))
	}
	if _, ok := h.state(admin); ok {
		t.Fatal("expected dialog finished")
	}
}

func TestEditIgnoresButtonsOfAnotherMeeting(t *testing.T) {
	h := newHarness(t)
	ids := h.mem.SeedMeetings(
		testfixtures.NewMeeting(h.orgs[financeOrg]),
		testfixtures.NewMeeting(h.orgs[healthOrg]),
	)

	h.press(admin, control.StartEdit{MeetingID: ids[0]})
	replies := h.press(admin, control.EditField{MeetingID: ids[1], Field: control.FieldSummary})
	if len(replies) != 0 {
		t.Fatalf("expected stale field button ignored, got %s", describe(replies))
	}
	if st, _ := h.state(admin); st.MeetingID != ids[0] || st.Step != StepSelectField {
		t.Fatalf("expected dialog on first meeting, got %+v", st)
	}
}

func TestEditMeetingDeletedMeanwhile(t *testing.T) {
	h := newHarness(t)
	id := seedOne(h)

	h.press(admin, control.StartEdit{MeetingID: id})
	if err := h.mem.Repositories().Meetings.DeleteMeeting(t.Context(), id); err != nil {
		t.Fatalf("DeleteMeeting: %v", err)
	}

	replies := h.press(admin, control.EditField{MeetingID: id, Field: control.FieldSummary})
	expectText(t, replies, textNotFound)
	if _, ok := h.state(admin); ok {
		t.Fatal("expected dialog finished")
	}
}
