package dialog

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/meetbot/internal/application"
	"github.com/example/meetbot/internal/control"
	"github.com/example/meetbot/internal/pager"
)

// deleteMeeting handles the confirm-then-delete screens. The meeting id
// travels in the tokens, so no dialog state is kept.
func (e *Engine) deleteMeeting(ctx context.Context, actor application.User, st State, action control.Action) transition {
	if !actor.IsAdmin() {
		return stay(st, plainReply(textNoRightsDelete))
	}

	switch a := action.(type) {
	case control.StartDelete:
		meeting, err := e.store.GetMeeting(ctx, a.MeetingID)
		switch {
		case errors.Is(err, application.ErrNotFound):
			return stay(st, plainReply(textNotFound))
		case err != nil:
			return failed(st, err)
		}
		text := fmt.Sprintf("🗑️ <b>Удаление встречи #%d</b>\n\n"+
			"🏢 <b>Организация:</b> %s\n📅 <b>Дата:</b> %s\n📝 <b>Содержание:</b> %s\n\n%s",
			meeting.ID, esc(meeting.OrganizationName), meeting.Date.Format(displayDate),
			esc(truncate(meeting.Summary, deletePreviewSize)), textConfirmDelete)
		return stay(st, htmlReply(text, e.deleteControls(meeting.ID)))

	case control.CancelDelete:
		meeting, err := e.store.GetMeeting(ctx, a.MeetingID)
		switch {
		case errors.Is(err, application.ErrNotFound):
			return stay(st, plainReply(textNotFound))
		case err != nil:
			return failed(st, err)
		}
		return stay(st, htmlReply(meetingDetails(meeting), e.detailsControls(meeting.ID, actor)))

	case control.ConfirmDelete:
		err := e.store.DeleteMeeting(ctx, a.MeetingID)
		switch {
		case errors.Is(err, application.ErrNotFound):
			return stay(st, plainReply(fmt.Sprintf("❌ Не удалось удалить встречу #%d: она не найдена.", a.MeetingID)))
		case err != nil:
			return failed(st, err)
		}
		st = e.forget(st, a.MeetingID)
		return stay(st, plainReply(fmt.Sprintf("✅ Встреча #%d успешно удалена.\n\nВы можете продолжить просмотр других встреч.", a.MeetingID)))
	}
	return stay(st)
}

// forget drops a deleted meeting from the cached browse list.
func (e *Engine) forget(st State, meetingID int64) State {
	if st.Browse == nil {
		return st
	}
	next := *st.Browse
	next.Meetings = make([]application.Meeting, 0, len(st.Browse.Meetings))
	for _, m := range st.Browse.Meetings {
		if m.ID != meetingID {
			next.Meetings = append(next.Meetings, m)
		}
	}
	if pages := pager.Pages(len(next.Meetings), e.pageSize); next.Page >= pages {
		next.Page = pages - 1
	}
	st.Browse = &next
	return st
}
