// Package dialog turns a stream of user events into validated meeting and
// user mutations. Three state machines live here (adding a meeting, editing a
// meeting, managing users) next to the stateless browse, delete and
// statistics screens that share their rendering.
package dialog

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/example/meetbot/internal/application"
	"github.com/example/meetbot/internal/control"
	"github.com/example/meetbot/internal/logging"
	"github.com/example/meetbot/internal/pager"
	"github.com/example/meetbot/internal/session"
)

// Engine routes events to dialogs and keeps per-identity state in a session store.
type Engine struct {
	store    Store
	sessions *session.Store[State]
	codec    *control.Codec
	now      func() time.Time
	pageSize int
	logger   *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithClock sets the time source used for "today".
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithPageSize sets how many meetings one list page shows.
func WithPageSize(size int) EngineOption {
	return func(e *Engine) {
		if size > 0 {
			e.pageSize = size
		}
	}
}

// WithCodec sets the control token codec.
func WithCodec(codec *control.Codec) EngineOption {
	return func(e *Engine) {
		if codec != nil {
			e.codec = codec
		}
	}
}

// WithLogger sets the fallback logger used when the context carries none.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates an engine over store. A nil sessions store gets an
// in-memory one without idle expiry.
func NewEngine(store Store, sessions *session.Store[State], opts ...EngineOption) *Engine {
	if sessions == nil {
		sessions = session.New[State](0)
	}
	e := &Engine{
		store:    store,
		sessions: sessions,
		codec:    control.NewCodec(""),
		now:      time.Now,
		pageSize: pager.DefaultSize,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Codec returns the codec used for control tokens.
func (e *Engine) Codec() *control.Codec {
	return e.codec
}

// ExpiryLogger returns a session expiry hook that records dropped dialogs.
func ExpiryLogger(logger *slog.Logger) func(id int64, st State) {
	if logger == nil {
		logger = slog.Default()
	}
	return func(id int64, st State) {
		if !st.Active() {
			return
		}
		logger.Info("dialog expired",
			"user_id", id,
			"dialog_id", st.ID.String(),
			"kind", st.Kind.String(),
			"step", st.Step.String(),
		)
	}
}

// transition is the result of feeding one event to a state: the next state
// (Kind == KindNone once a dialog ended) and what to show the user. err is a
// store failure that was already reported to the user.
type transition struct {
	state   State
	replies []Reply
	err     error
}

func stay(st State, replies ...Reply) transition {
	return transition{state: st, replies: replies}
}

func finish(st State, replies ...Reply) transition {
	return transition{state: st.idle(), replies: replies}
}

func abort(st State, err error, replies ...Reply) transition {
	return transition{state: st.idle(), replies: replies, err: err}
}

// input is the payload of a dialog continuation: free text or a decoded action.
type input struct {
	text   string
	action control.Action
}

func (in input) isText() bool {
	return in.action == nil
}

// Handle processes one event for ev.UserID. Events of one identity are
// serialized; the returned error is diagnostic only, the replies already
// tell the user what happened.
func (e *Engine) Handle(ctx context.Context, ev Event) ([]Reply, error) {
	h := e.sessions.Acquire(ev.UserID)
	defer h.Release()

	logger := logging.FromContextOr(ctx, e.logger).With("user_id", ev.UserID)

	actor, err := e.store.GetUser(ctx, ev.UserID)
	switch {
	case errors.Is(err, application.ErrNotFound):
		h.Clear()
		return []Reply{plainReply(textAccessDenied)}, nil
	case err != nil:
		return []Reply{plainReply(textFailure)}, err
	}

	st, _ := h.Load()
	out := e.route(ctx, actor, st, ev)

	if out.state.empty() {
		h.Clear()
	} else {
		h.Save(out.state)
	}

	if st.Kind != out.state.Kind || st.Step != out.state.Step {
		id := out.state.ID
		if !out.state.Active() {
			id = st.ID
		}
		logger.DebugContext(ctx, "dialog transition",
			"dialog_id", id.String(),
			"from_kind", st.Kind.String(),
			"from_step", st.Step.String(),
			"to_kind", out.state.Kind.String(),
			"to_step", out.state.Step.String(),
		)
	}

	if ev.Kind == EventCallback {
		for i := range out.replies {
			if out.replies[i].Menu == nil {
				out.replies[i].Edit = true
				break
			}
		}
	}
	return out.replies, out.err
}

// route decides between commands, menu entries, dialog continuation and
// stateless screens.
func (e *Engine) route(ctx context.Context, actor application.User, st State, ev Event) transition {
	switch ev.Kind {
	case EventCommand:
		return e.command(actor, st, ev)

	case EventText:
		switch ev.Text {
		case LabelAddMeeting:
			return e.enterAdd(ctx, st)
		case LabelBrowse:
			return e.showYears(ctx, st)
		case LabelManageUsers:
			if !actor.IsAdmin() {
				return stay(st, plainReply(textNoRightsUsers))
			}
			return stay(st, htmlReply(textAdminMenu, e.adminControls()))
		case LabelStatistics:
			return e.statistics(ctx, actor, st)
		}
		if st.Active() {
			return e.continueDialog(ctx, actor, st, input{text: ev.Text})
		}
		return stay(st, menuReply(textMenuHint, actor))

	case EventCallback:
		action, err := e.codec.Decode(ev.Token)
		if err != nil {
			// Stale or foreign buttons are ignored.
			return stay(st)
		}
		return e.callback(ctx, actor, st, action)
	}
	return stay(st)
}

func (e *Engine) command(actor application.User, st State, ev Event) transition {
	switch ev.Command {
	case CommandCancel:
		return transition{state: State{}, replies: []Reply{menuReply(textCancelled, actor)}}
	case CommandHelp:
		return stay(st, htmlReply(textHelp, nil))
	}
	return stay(st, menuReply(greeting(actor, ev.DisplayName), actor))
}

func (e *Engine) callback(ctx context.Context, actor application.User, st State, action control.Action) transition {
	switch a := action.(type) {
	case control.Noop:
		return stay(st)
	case control.StartEdit:
		return e.enterEdit(ctx, actor, st, a.MeetingID)
	case control.AdminMenu:
		return e.adminMenu(ctx, actor, st, a.Item)
	case control.PickYear, control.PickMonth, control.OpenMeeting, control.ShowPage,
		control.BackToYears, control.BackToMonths, control.BackToList:
		return e.browse(ctx, actor, st, a)
	case control.StartDelete, control.ConfirmDelete, control.CancelDelete:
		return e.deleteMeeting(ctx, actor, st, a)
	}
	if st.Active() {
		return e.continueDialog(ctx, actor, st, input{action: action})
	}
	return stay(st)
}

func (e *Engine) continueDialog(ctx context.Context, actor application.User, st State, in input) transition {
	if st.Kind.adminOnly() && !actor.IsAdmin() {
		return finish(st, plainReply(textNoRightsGeneric))
	}
	switch st.Kind {
	case KindAddRecord:
		return e.addStep(ctx, actor, st, in)
	case KindEditRecord:
		return e.editStep(ctx, st, in)
	case KindAdminAddUser:
		return e.adminAddStep(ctx, st, in)
	case KindAdminDeleteUser:
		return e.adminDeleteStep(ctx, actor, st, in)
	}
	return stay(st)
}

// begin starts a dialog of kind. A pending dialog of another kind blocks the
// start; a pending dialog of the same kind is replaced.
func (e *Engine) begin(st State, kind Kind) (State, bool) {
	if st.Active() && st.Kind != kind {
		return st, false
	}
	return State{ID: uuid.New(), Kind: kind, Browse: st.Browse}, true
}

func busy(st State) transition {
	return stay(st, plainReply(textBusy))
}

// storeFailure ends the dialog after an unexpected store error.
func storeFailure(st State, err error) transition {
	return abort(st, err, plainReply(textFailure))
}

func validationMessage(err error) (string, bool) {
	var vErr *application.ValidationError
	if errors.As(err, &vErr) && vErr.HasErrors() {
		return vErr.Message(""), true
	}
	return "", false
}

func (e *Engine) today() time.Time {
	return application.DateOnly(e.now())
}
