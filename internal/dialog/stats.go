package dialog

import (
	"context"

	"github.com/example/meetbot/internal/application"
)

func (e *Engine) statistics(ctx context.Context, actor application.User, st State) transition {
	if !actor.IsAdmin() {
		return stay(st, plainReply(textNoRightsStats))
	}

	rows, err := e.store.Statistics(ctx, application.DateRange{})
	if err != nil {
		return failed(st, err)
	}
	if len(rows) == 0 {
		return stay(st, plainReply(textNoStatistics))
	}

	var latest *application.Meeting
	meetings, err := e.store.ListMeetings(ctx, application.MeetingFilter{})
	if err != nil {
		return failed(st, err)
	}
	if len(meetings) > 0 {
		latest = &meetings[0]
	}
	return stay(st, htmlReply(statisticsText(application.BuildReport(rows), latest), nil))
}
