package dialog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/meetbot/internal/application"
	"github.com/example/meetbot/internal/calendar"
	"github.com/example/meetbot/internal/control"
)

// enterEdit checks the role before touching the record.
func (e *Engine) enterEdit(ctx context.Context, actor application.User, st State, meetingID int64) transition {
	if !actor.IsAdmin() {
		return stay(st, plainReply(textNoRightsEdit))
	}
	next, ok := e.begin(st, KindEditRecord)
	if !ok {
		return busy(st)
	}

	meeting, err := e.store.GetMeeting(ctx, meetingID)
	switch {
	case errors.Is(err, application.ErrNotFound):
		return finish(st, plainReply(textNotFound))
	case err != nil:
		return storeFailure(st, err)
	}

	next.Step = StepSelectField
	next.MeetingID = meeting.ID
	return stay(next, e.fieldMenu(meeting.ID, ""))
}

func (e *Engine) fieldMenu(meetingID int64, prefix string) Reply {
	text := fmt.Sprintf("%s✏️ <b>Редактирование встречи #%d</b>\n\nВыберите поле для редактирования:", prefix, meetingID)
	return htmlReply(text, e.editControls(meetingID))
}

// editStep is the Edit-Record transition function.
func (e *Engine) editStep(ctx context.Context, st State, in input) transition {
	switch st.Step {
	case StepSelectField:
		switch a := in.action.(type) {
		case control.EditField:
			if a.MeetingID != st.MeetingID || !a.Field.Valid() {
				return stay(st)
			}
			return e.editOpenField(ctx, st, a.Field)
		case control.CancelEdit:
			if a.MeetingID != st.MeetingID {
				return stay(st)
			}
			return e.editCancel(ctx, st)
		}
		return e.ignored(st, in)

	case StepEditDate:
		switch a := in.action.(type) {
		case control.ShowMonth:
			st.Calendar = calendar.YearMonth{Year: a.Year, Month: a.Month}
			text := fmt.Sprintf("✏️ <b>Редактирование даты встречи #%d</b>\n\nВыберите новую дату:", st.MeetingID)
			return stay(st, htmlReply(text, e.calendarControls(st.Calendar)))
		case control.CancelCalendar:
			st.Step = StepSelectField
			return stay(st, htmlReply(textEditDateCancelled+"\n\n"+textEditDone, e.editControls(st.MeetingID)))
		case control.PickToday:
			return e.editCommitDate(ctx, st, e.today())
		case control.PickDay:
			return e.editCommitDate(ctx, st, application.DateOnly(a.Date))
		}
		return e.ignored(st, in)

	case StepEditComplex:
		switch a := in.action.(type) {
		case control.PickComplex:
			return e.pickComplex(ctx, st, a.ID, StepEditOrganization)
		case control.BackToComplexes:
			return e.showComplexes(ctx, st, StepEditComplex, "")
		}
		return e.ignored(st, in)

	case StepEditOrganization:
		switch a := in.action.(type) {
		case control.BackToComplexes:
			return e.showComplexes(ctx, st, StepEditComplex, "")
		case control.PickOrganization:
			org, reprompt := e.resolveOrganization(ctx, st, a.ID)
			if reprompt != nil {
				return *reprompt
			}
			return e.editCommit(ctx, st, application.MeetingPatch{OrganizationID: &org.ID},
				"✅ Организация обновлена: "+esc(org.Name))
		}
		return e.ignored(st, in)

	case StepEditStatus:
		a, ok := in.action.(control.PickStatus)
		if !ok || !application.Status(a.Code).Valid() {
			return e.ignored(st, in)
		}
		return e.editCommitStatus(ctx, st, application.Status(a.Code))

	case StepEditDuration:
		if !in.isText() {
			return e.ignored(st, in)
		}
		minutes, err := application.ParseDuration(in.text)
		if err != nil {
			msg, _ := validationMessage(err)
			return stay(st, plainReply("❌ "+msg+"\nВведите длительность в минутах:"))
		}
		return e.editCommit(ctx, st, application.MeetingPatch{DurationMinutes: &minutes},
			fmt.Sprintf("✅ Длительность обновлена: %d мин", minutes))

	case StepEditSummary:
		if !in.isText() {
			return e.ignored(st, in)
		}
		summary, err := application.ValidateSummary(in.text)
		if err != nil {
			msg, _ := validationMessage(err)
			return stay(st, plainReply("❌ "+msg+"\nВведите новое содержание:"))
		}
		return e.editCommit(ctx, st, application.MeetingPatch{Summary: &summary}, "✅ Содержание обновлено.")
	}
	return stay(st)
}

// editOpenField shows the current value of field and the matching input.
func (e *Engine) editOpenField(ctx context.Context, st State, field control.Field) transition {
	meeting, err := e.store.GetMeeting(ctx, st.MeetingID)
	switch {
	case errors.Is(err, application.ErrNotFound):
		return finish(st, plainReply(textNotFound))
	case err != nil:
		return storeFailure(st, err)
	}

	head := func(what string) string {
		return fmt.Sprintf("✏️ <b>Редактирование %s встречи #%d</b>\n\n", what, meeting.ID)
	}

	switch field {
	case control.FieldDate:
		st.Step = StepEditDate
		st.Calendar = calendar.YearMonth{Year: meeting.Date.Year(), Month: meeting.Date.Month()}
		text := head("даты") + "Текущая дата: " + meeting.Date.Format(displayDate) + "\n\nВыберите новую дату:"
		return stay(st, htmlReply(text, e.calendarControls(st.Calendar)))

	case control.FieldOrganization:
		st.Draft = Draft{}
		return e.showComplexes(ctx, st, StepEditComplex,
			head("организации")+"Текущая организация: "+esc(meeting.OrganizationName)+"\n\n")

	case control.FieldStatus:
		st.Step = StepEditStatus
		text := head("статуса") + "Текущий статус: " + meeting.Status.Label() + "\n\n" + textPickStatus
		return stay(st, htmlReply(text, e.statusControls()))

	case control.FieldDuration:
		if !meeting.Status.RequiresDuration() {
			return stay(st, e.fieldMenu(st.MeetingID, "❌ Длительность указывается только для состоявшихся встреч.\n\n"))
		}
		st.Step = StepEditDuration
		current := "не указана"
		if meeting.DurationMinutes != nil {
			current = fmt.Sprintf("%d мин", *meeting.DurationMinutes)
		}
		text := head("длительности") + "Текущая длительность: " + current +
			"\n\nВведите новую длительность в минутах (только цифры):"
		return stay(st, htmlReply(text, nil))

	case control.FieldSummary:
		st.Step = StepEditSummary
		text := head("содержания") + "Текущее содержание:\n" + esc(meeting.Summary) + "\n\nВведите новое содержание:"
		return stay(st, htmlReply(text, nil))
	}
	return stay(st)
}

func (e *Engine) editCancel(ctx context.Context, st State) transition {
	meeting, err := e.store.GetMeeting(ctx, st.MeetingID)
	switch {
	case errors.Is(err, application.ErrNotFound):
		return finish(st, plainReply(textNotFound))
	case err != nil:
		return storeFailure(st, err)
	}
	// Only administrators reach the edit dialog.
	admin := application.User{Role: application.RoleAdministrator}
	return finish(st, htmlReply(meetingDetails(meeting), e.detailsControls(meeting.ID, admin)))
}

func (e *Engine) editCommitDate(ctx context.Context, st State, date time.Time) transition {
	return e.editCommit(ctx, st, application.MeetingPatch{Date: &date}, "✅ Дата обновлена: "+date.Format(displayDate))
}

// editCommitStatus updates the status. Choosing held on a meeting without a
// duration goes straight to the duration input.
func (e *Engine) editCommitStatus(ctx context.Context, st State, status application.Status) transition {
	if err := e.store.UpdateMeeting(ctx, st.MeetingID, application.MeetingPatch{Status: &status}); err != nil {
		return e.editFailed(st, err)
	}
	done := "✅ Статус обновлен: " + status.Label()

	if status.RequiresDuration() {
		meeting, err := e.store.GetMeeting(ctx, st.MeetingID)
		if err == nil && meeting.DurationMinutes == nil {
			st.Step = StepEditDuration
			return stay(st, plainReply(done+"\n\n"+textEditHeldNoDuration+"\nВведите длительность в минутах (только цифры):"))
		}
	}
	return e.editDone(st, done)
}

// editCommit applies one independent single-field update and returns to the
// field menu.
func (e *Engine) editCommit(ctx context.Context, st State, patch application.MeetingPatch, done string) transition {
	if err := e.store.UpdateMeeting(ctx, st.MeetingID, patch); err != nil {
		return e.editFailed(st, err)
	}
	return e.editDone(st, done)
}

func (e *Engine) editDone(st State, done string) transition {
	st.Step = StepSelectField
	st.Draft = Draft{}
	return stay(st, htmlReply(done+"\n\n"+textEditDone, e.editControls(st.MeetingID)))
}

// editFailed keeps the dialog open on validation failures and ends it when
// the meeting is gone or the store failed.
func (e *Engine) editFailed(st State, err error) transition {
	if msg, ok := validationMessage(err); ok {
		st.Step = StepSelectField
		st.Draft = Draft{}
		return stay(st, e.fieldMenu(st.MeetingID, "❌ "+msg+"\n\n"))
	}
	if errors.Is(err, application.ErrNotFound) {
		return finish(st, plainReply(textNotFound))
	}
	return storeFailure(st, err)
}
