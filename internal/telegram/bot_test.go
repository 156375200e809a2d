package telegram

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/meetbot/internal/dialog"
)

type fakeClient struct {
	mu       sync.Mutex
	updates  chan tgbotapi.Update
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	config   tgbotapi.UpdateConfig
	stopped  bool
	editErr  error
}

func newFakeClient() *fakeClient {
	return &fakeClient{updates: make(chan tgbotapi.Update, 16)}
}

func (c *fakeClient) Send(ch tgbotapi.Chattable) (tgbotapi.Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, ch)
	return tgbotapi.Message{}, nil
}

func (c *fakeClient) Request(ch tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests = append(c.requests, ch)
	if _, ok := ch.(tgbotapi.EditMessageTextConfig); ok && c.editErr != nil {
		return nil, c.editErr
	}
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (c *fakeClient) GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	c.config = config
	return c.updates
}

func (c *fakeClient) StopReceivingUpdates() {
	c.mu.Lock()
	c.stopped = true
	c.mu.Unlock()
}

type recordingHandler struct {
	mu      sync.Mutex
	events  []dialog.Event
	replies []dialog.Reply
	err     error
	delay   time.Duration
}

func (h *recordingHandler) Handle(ctx context.Context, ev dialog.Event) ([]dialog.Reply, error) {
	if h.delay > 0 {
		time.Sleep(h.delay)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, ev)
	return h.replies, h.err
}

func (h *recordingHandler) seen() []dialog.Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]dialog.Event(nil), h.events...)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func textUpdate(updateID int, userID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{
		UpdateID: updateID,
		Message: &tgbotapi.Message{
			MessageID: updateID,
			From:      &tgbotapi.User{ID: userID, FirstName: "Тест"},
			Chat:      &tgbotapi.Chat{ID: userID},
			Text:      text,
		},
	}
}

// runBot feeds updates, closes the channel and waits for Run to return.
func runBot(t *testing.T, b *Bot, client *fakeClient, updates ...tgbotapi.Update) {
	t.Helper()
	for _, u := range updates {
		client.updates <- u
	}
	close(client.updates)
	if err := b.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestBotPreservesOrderPerIdentity(t *testing.T) {
	client := newFakeClient()
	handler := &recordingHandler{delay: time.Millisecond}
	b := New(client, handler, WithLogger(quietLogger()), WithPollTimeout(5*time.Second))

	var updates []tgbotapi.Update
	for i := 0; i < 6; i++ {
		user := int64(1 + i%2)
		updates = append(updates, textUpdate(i+1, user, string(rune('a'+i))))
	}
	runBot(t, b, client, updates...)

	if client.config.Timeout != 5 {
		t.Fatalf("expected poll timeout 5, got %d", client.config.Timeout)
	}

	perUser := map[int64][]string{}
	for _, ev := range handler.seen() {
		perUser[ev.UserID] = append(perUser[ev.UserID], ev.Text)
	}
	if got := perUser[1]; len(got) != 3 || got[0] != "a" || got[1] != "c" || got[2] != "e" {
		t.Fatalf("expected a,c,e for user 1, got %v", got)
	}
	if got := perUser[2]; len(got) != 3 || got[0] != "b" || got[1] != "d" || got[2] != "f" {
		t.Fatalf("expected b,d,f for user 2, got %v", got)
	}
}

func TestBotAnswersCallbacksAndEdits(t *testing.T) {
	client := newFakeClient()
	handler := &recordingHandler{replies: []dialog.Reply{
		{Text: "<b>hi</b>", Format: dialog.FormatHTML, Edit: true, Controls: [][]dialog.Option{{{Label: "A", Token: "t"}}}},
		{Text: "menu", Menu: [][]string{{"x"}}},
	}}
	b := New(client, handler, WithLogger(quietLogger()))

	runBot(t, b, client, tgbotapi.Update{
		UpdateID: 7,
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:   "cb-1",
			From: &tgbotapi.User{ID: 42, UserName: "tester"},
			Data: "token",
			Message: &tgbotapi.Message{
				MessageID: 99,
				Chat:      &tgbotapi.Chat{ID: 42},
			},
		},
	})

	events := handler.seen()
	if len(events) != 1 || events[0].Kind != dialog.EventCallback || events[0].Token != "token" || events[0].DisplayName != "tester" {
		t.Fatalf("unexpected events %+v", events)
	}

	if len(client.requests) != 2 {
		t.Fatalf("expected callback answer and edit, got %d requests", len(client.requests))
	}
	if answer, ok := client.requests[0].(tgbotapi.CallbackConfig); !ok || answer.CallbackQueryID != "cb-1" {
		t.Fatalf("expected callback answer first, got %#v", client.requests[0])
	}
	edit, ok := client.requests[1].(tgbotapi.EditMessageTextConfig)
	if !ok || edit.MessageID != 99 || edit.ParseMode != tgbotapi.ModeHTML || edit.ReplyMarkup == nil {
		t.Fatalf("expected html edit of message 99, got %#v", client.requests[1])
	}

	if len(client.sent) != 1 {
		t.Fatalf("expected one new message, got %d", len(client.sent))
	}
	msg, ok := client.sent[0].(tgbotapi.MessageConfig)
	if !ok {
		t.Fatalf("expected message, got %#v", client.sent[0])
	}
	if _, ok := msg.ReplyMarkup.(tgbotapi.ReplyKeyboardMarkup); !ok {
		t.Fatalf("expected reply keyboard, got %#v", msg.ReplyMarkup)
	}
}

func TestBotIgnoresUnchangedEdits(t *testing.T) {
	client := newFakeClient()
	client.editErr = errors.New("Bad Request: message is not modified")
	b := New(client, &recordingHandler{}, WithLogger(quietLogger()))

	err := b.send(inbound{chatID: 1, messageID: 2}, dialog.Reply{Text: "same", Edit: true})
	if err != nil {
		t.Fatalf("expected unchanged edit ignored, got %v", err)
	}

	client.editErr = errors.New("Bad Request: chat not found")
	if err := b.send(inbound{chatID: 1, messageID: 2}, dialog.Reply{Text: "x", Edit: true}); err == nil {
		t.Fatal("expected other edit errors reported")
	}
}

func TestBotKeepsRunningAfterHandlerError(t *testing.T) {
	client := newFakeClient()
	handler := &recordingHandler{
		err:     errors.New("store failure"),
		replies: []dialog.Reply{{Text: "Произошла ошибка"}},
	}
	b := New(client, handler, WithLogger(quietLogger()))

	runBot(t, b, client, textUpdate(1, 5, "one"), textUpdate(2, 5, "two"))

	if len(handler.seen()) != 2 {
		t.Fatalf("expected both updates handled, got %d", len(handler.seen()))
	}
	if len(client.sent) != 2 {
		t.Fatalf("expected the error replies delivered, got %d", len(client.sent))
	}
}

func TestBotStopsOnCancel(t *testing.T) {
	client := newFakeClient()
	b := New(client, &recordingHandler{}, WithLogger(quietLogger()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean stop, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	client.mu.Lock()
	defer client.mu.Unlock()
	if !client.stopped {
		t.Fatal("expected polling stopped")
	}
}
