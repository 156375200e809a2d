package dialog

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/meetbot/internal/application"
	"github.com/example/meetbot/internal/control"
	"github.com/example/meetbot/internal/pager"
)

// failed keeps st and reports a store failure on a stateless screen.
func failed(st State, err error) transition {
	return transition{state: st, replies: []Reply{plainReply(textFailure)}, err: err}
}

func (e *Engine) showYears(ctx context.Context, st State) transition {
	years, err := e.store.ListYears(ctx)
	if err != nil {
		return failed(st, err)
	}
	if len(years) == 0 {
		return stay(st, plainReply(textNoMeetings))
	}
	return stay(st, htmlReply(textPickYear, e.yearControls(years)))
}

func (e *Engine) showMonths(ctx context.Context, st State, year int) transition {
	months, err := e.store.ListMonths(ctx, year)
	if err != nil {
		return failed(st, err)
	}
	st.Browse = &Browse{Year: year}
	text := fmt.Sprintf("📅 <b>Год:</b> %d\n\n<b>Выберите месяц:</b>", year)
	return stay(st, htmlReply(text, e.monthControls(year, months)))
}

// showPage renders page index of the cached list. The pager rejects pages
// outside the list.
func (e *Engine) showPage(st State, index int) transition {
	b := st.Browse
	if b == nil || b.Month == 0 {
		return stay(st, plainReply(textNoData))
	}
	page, err := pager.Slice(b.Meetings, index, e.pageSize)
	if errors.Is(err, pager.ErrOutOfRange) {
		return stay(st, plainReply(textPageOutOfRange))
	}
	next := *b
	next.Page = page.Index
	st.Browse = &next
	return stay(st, htmlReply(listHeader(&next), e.pageControls(page)))
}

// browse handles the year, month, list and details screens.
func (e *Engine) browse(ctx context.Context, actor application.User, st State, action control.Action) transition {
	switch a := action.(type) {
	case control.PickYear:
		return e.showMonths(ctx, st, a.Year)

	case control.PickMonth:
		meetings, err := e.store.ListMeetings(ctx, application.MeetingFilter{Year: a.Year, Month: a.Month})
		if err != nil {
			return failed(st, err)
		}
		if len(meetings) == 0 {
			months, err := e.store.ListMonths(ctx, a.Year)
			if err != nil {
				return failed(st, err)
			}
			text := fmt.Sprintf("📭 За %02d/%d встреч нет.\n\nВыберите другой месяц:", int(a.Month), a.Year)
			return stay(st, htmlReply(text, e.monthControls(a.Year, months)))
		}
		st.Browse = &Browse{Year: a.Year, Month: a.Month, Meetings: meetings}
		return e.showPage(st, 0)

	case control.ShowPage:
		return e.showPage(st, a.Index)

	case control.OpenMeeting:
		meeting, err := e.store.GetMeeting(ctx, a.ID)
		switch {
		case errors.Is(err, application.ErrNotFound):
			return stay(st, plainReply(textNotFound))
		case err != nil:
			return failed(st, err)
		}
		return stay(st, htmlReply(meetingDetails(meeting), e.detailsControls(meeting.ID, actor)))

	case control.BackToYears:
		return e.showYears(ctx, st)

	case control.BackToMonths:
		if st.Browse == nil || st.Browse.Year == 0 {
			return e.showYears(ctx, st)
		}
		return e.showMonths(ctx, st, st.Browse.Year)

	case control.BackToList:
		if st.Browse == nil {
			return stay(st, plainReply(textNoData))
		}
		return e.showPage(st, st.Browse.Page)
	}
	return stay(st)
}
