package dialog

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/meetbot/internal/application"
	"github.com/example/meetbot/internal/calendar"
	"github.com/example/meetbot/internal/control"
)

func (e *Engine) enterAdd(ctx context.Context, st State) transition {
	next, ok := e.begin(st, KindAddRecord)
	if !ok {
		return busy(st)
	}
	complexes, err := e.store.ListComplexes(ctx)
	if err != nil {
		return storeFailure(st, err)
	}
	next.Step = StepSelectComplex
	return stay(next, htmlReply(textPickComplex, e.complexControls(complexes)))
}

// addStep is the Add-Record transition function.
func (e *Engine) addStep(ctx context.Context, actor application.User, st State, in input) transition {
	switch st.Step {
	case StepSelectComplex:
		a, ok := in.action.(control.PickComplex)
		if !ok {
			return e.ignored(st, in)
		}
		return e.addPickComplex(ctx, st, a.ID)

	case StepSelectOrganization:
		switch a := in.action.(type) {
		case control.BackToComplexes:
			return e.showComplexes(ctx, st, StepSelectComplex, "")
		case control.PickOrganization:
			return e.addPickOrganization(ctx, st, a.ID)
		}
		return e.ignored(st, in)

	case StepSelectDate:
		switch a := in.action.(type) {
		case control.ShowMonth:
			st.Calendar = calendar.YearMonth{Year: a.Year, Month: a.Month}
			return stay(st, htmlReply(textPickDate, e.calendarControls(st.Calendar)))
		case control.CancelCalendar:
			return e.showComplexes(ctx, st, StepSelectComplex, textDateCancelled+"\n\n")
		case control.PickToday:
			st.Draft.Date = e.today()
		case control.PickDay:
			st.Draft.Date = application.DateOnly(a.Date)
		default:
			return e.ignored(st, in)
		}
		st.Step = StepSelectStatus
		text := fmt.Sprintf("📅 <b>Дата встречи:</b> %s\n\n%s", st.Draft.Date.Format(displayDate), textPickStatus)
		return stay(st, htmlReply(text, e.statusControls()))

	case StepSelectStatus:
		a, ok := in.action.(control.PickStatus)
		if !ok || !application.Status(a.Code).Valid() {
			return e.ignored(st, in)
		}
		status := application.Status(a.Code)
		st.Draft.Status = status
		head := fmt.Sprintf("📊 <b>Статус:</b> %s %s\n\n", status.Icon(), status.Label())
		if status.RequiresDuration() {
			st.Step = StepInputDuration
			return stay(st, htmlReply(head+textAskDuration, nil))
		}
		st.Draft.DurationMinutes = nil
		st.Step = StepInputSummary
		return stay(st, htmlReply(head+textAskSummary, nil))

	case StepInputDuration:
		if !in.isText() {
			return e.ignored(st, in)
		}
		minutes, err := application.ParseDuration(in.text)
		if err != nil {
			msg, _ := validationMessage(err)
			return stay(st, htmlReply("❌ "+msg+"\n\n"+textAskDuration, nil))
		}
		st.Draft.DurationMinutes = &minutes
		st.Step = StepInputSummary
		text := fmt.Sprintf("⏱️ <b>Длительность:</b> %d мин\n\n%s", minutes, textAskSummary)
		return stay(st, htmlReply(text, nil))

	case StepInputSummary:
		if !in.isText() {
			return e.ignored(st, in)
		}
		summary, err := application.ValidateSummary(in.text)
		if err != nil {
			msg, _ := validationMessage(err)
			return stay(st, htmlReply("❌ "+msg+"\n\n"+textAskSummary, nil))
		}
		st.Draft.Summary = summary
		st.Step = StepConfirm
		return stay(st, htmlReply(draftSummary(st.Draft), e.confirmControls()))

	case StepConfirm:
		a, ok := in.action.(control.Confirm)
		if !ok {
			return e.ignored(st, in)
		}
		if !a.Accept {
			return finish(st, plainReply(textAddRejected))
		}
		return e.addCreate(ctx, actor, st)
	}
	return stay(st)
}

// ignored answers input the current step does not expect. Text gets a hint;
// unexpected buttons are dropped silently.
func (e *Engine) ignored(st State, in input) transition {
	if in.isText() {
		return stay(st, plainReply(textUseButtons))
	}
	return stay(st)
}

// showComplexes moves to step and renders the complex picker.
func (e *Engine) showComplexes(ctx context.Context, st State, step Step, prefix string) transition {
	complexes, err := e.store.ListComplexes(ctx)
	if err != nil {
		return storeFailure(st, err)
	}
	st.Step = step
	return stay(st, htmlReply(prefix+textPickComplex, e.complexControls(complexes)))
}

// pickComplex resolves a complex id and lists its organizations. A complex
// that no longer exists re-renders the complex picker.
func (e *Engine) pickComplex(ctx context.Context, st State, id int64, next Step) transition {
	complexes, err := e.store.ListComplexes(ctx)
	if err != nil {
		return storeFailure(st, err)
	}
	var chosen *application.Complex
	for i := range complexes {
		if complexes[i].ID == id {
			chosen = &complexes[i]
			break
		}
	}
	if chosen == nil {
		return stay(st, htmlReply(textUnknownComplex+"\n\n"+textPickComplex, e.complexControls(complexes)))
	}

	orgs, err := e.store.ListOrganizations(ctx, chosen.ID)
	if err != nil {
		return storeFailure(st, err)
	}
	st.Draft.ComplexID = chosen.ID
	st.Draft.ComplexName = chosen.Name
	st.Step = next
	text := fmt.Sprintf("🏛️ <b>Комплекс:</b> %s\n\n%s", esc(chosen.Name), textPickOrganization)
	return stay(st, htmlReply(text, e.organizationControls(orgs)))
}

func (e *Engine) addPickComplex(ctx context.Context, st State, id int64) transition {
	return e.pickComplex(ctx, st, id, StepSelectOrganization)
}

// resolveOrganization checks that id names an organization of the draft's
// complex. On failure the returned transition re-prompts.
func (e *Engine) resolveOrganization(ctx context.Context, st State, id int64) (application.Organization, *transition) {
	org, err := e.store.GetOrganization(ctx, id)
	if err == nil && org.ComplexID == st.Draft.ComplexID {
		return org, nil
	}

	msg := textWrongComplex
	switch {
	case errors.Is(err, application.ErrNotFound):
		msg = textUnknownOrg
	case err != nil:
		t := storeFailure(st, err)
		return application.Organization{}, &t
	}
	orgs, listErr := e.store.ListOrganizations(ctx, st.Draft.ComplexID)
	if listErr != nil {
		t := storeFailure(st, listErr)
		return application.Organization{}, &t
	}
	t := stay(st, htmlReply(msg+"\n\n"+textPickOrganization, e.organizationControls(orgs)))
	return application.Organization{}, &t
}

func (e *Engine) addPickOrganization(ctx context.Context, st State, id int64) transition {
	org, reprompt := e.resolveOrganization(ctx, st, id)
	if reprompt != nil {
		return *reprompt
	}
	st.Draft.OrganizationID = org.ID
	st.Draft.OrganizationName = org.Name
	st.Step = StepSelectDate
	today := e.today()
	st.Calendar = calendar.YearMonth{Year: today.Year(), Month: today.Month()}
	text := fmt.Sprintf("🏢 <b>Организация:</b> %s\n\n%s", esc(org.Name), textPickDate)
	return stay(st, htmlReply(text, e.calendarControls(st.Calendar)))
}

func (e *Engine) addCreate(ctx context.Context, actor application.User, st State) transition {
	d := st.Draft
	id, err := e.store.CreateMeeting(ctx, application.MeetingInput{
		CreatorID:       actor.Identity,
		CreatorName:     actor.DisplayName,
		OrganizationID:  d.OrganizationID,
		Date:            d.Date,
		Status:          d.Status,
		DurationMinutes: d.DurationMinutes,
		Summary:         d.Summary,
	})
	if err != nil {
		return abort(st, err, plainReply(textSaveFailure))
	}

	text := fmt.Sprintf("✅ Встреча успешно сохранена!\n\n"+
		"📅 <b>Дата:</b> %s\n📊 <b>Статус:</b> %s\n🆔 <b>ID записи:</b> %d\n\n"+
		"Вы можете добавить новую встречу или просмотреть существующие.",
		d.Date.Format(displayDate), d.Status.Label(), id)
	return finish(st, htmlReply(text, nil))
}
