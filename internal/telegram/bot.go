package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/meetbot/internal/dialog"
	"github.com/example/meetbot/internal/logging"
)

// Client is the part of *tgbotapi.BotAPI the bot uses.
type Client interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Handler processes one dialog event. *dialog.Engine implements it.
type Handler interface {
	Handle(ctx context.Context, ev dialog.Event) ([]dialog.Reply, error)
}

var _ Handler = (*dialog.Engine)(nil)

// Bot polls for updates and feeds them to a Handler, one identity at a time
// and in arrival order per identity.
type Bot struct {
	client      Client
	handler     Handler
	pollTimeout time.Duration
	logger      *slog.Logger

	mu     sync.Mutex
	queues map[int64][]inbound
	wg     sync.WaitGroup
}

// Option configures a Bot.
type Option func(*Bot)

// WithPollTimeout sets the long polling timeout.
func WithPollTimeout(d time.Duration) Option {
	return func(b *Bot) {
		if d >= 0 {
			b.pollTimeout = d
		}
	}
}

// WithLogger sets the transport logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bot) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// Connect authorizes token against the Bot API and returns a bot over it.
func Connect(token string, handler Handler, opts ...Option) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("connect to telegram: %w", err)
	}
	b := New(api, handler, opts...)
	_ = tgbotapi.SetLogger(botLogger{b.logger})
	b.logger.Info("authorized on telegram", "bot", api.Self.UserName)
	return b, nil
}

// New returns a bot over an existing client.
func New(client Client, handler Handler, opts ...Option) *Bot {
	b := &Bot{
		client:      client,
		handler:     handler,
		pollTimeout: 30 * time.Second,
		logger:      slog.Default(),
		queues:      make(map[int64][]inbound),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Run polls until ctx is cancelled, then waits for queued updates to finish.
func (b *Bot) Run(ctx context.Context) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = int(b.pollTimeout / time.Second)
	cfg.AllowedUpdates = []string{"message", "callback_query"}
	updates := b.client.GetUpdatesChan(cfg)

	defer b.wg.Wait()
	for {
		select {
		case <-ctx.Done():
			b.client.StopReceivingUpdates()
			return nil
		case u, ok := <-updates:
			if !ok {
				return nil
			}
			b.dispatch(ctx, u)
		}
	}
}

// dispatch queues an update behind earlier updates of the same identity.
func (b *Bot) dispatch(ctx context.Context, u tgbotapi.Update) {
	in, ok := decodeUpdate(u)
	if !ok {
		b.logger.Debug("update skipped", "update_id", u.UpdateID)
		return
	}

	id := in.event.UserID
	b.mu.Lock()
	pending, running := b.queues[id]
	b.queues[id] = append(pending, in)
	b.mu.Unlock()
	if running {
		return
	}

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.drain(context.WithoutCancel(ctx), id)
	}()
}

// drain handles queued updates of id until the queue is empty.
func (b *Bot) drain(ctx context.Context, id int64) {
	for {
		b.mu.Lock()
		queue := b.queues[id]
		if len(queue) == 0 {
			delete(b.queues, id)
			b.mu.Unlock()
			return
		}
		in := queue[0]
		b.queues[id] = queue[1:]
		b.mu.Unlock()

		b.process(ctx, in)
	}
}

func (b *Bot) process(ctx context.Context, in inbound) {
	logger := b.logger.With("update_id", in.updateID, "user_id", in.event.UserID)
	ctx = logging.ContextWithLogger(ctx, logger)
	start := time.Now()

	replies, err := b.handler.Handle(ctx, in.event)
	if err != nil {
		logger.ErrorContext(ctx, "update failed", "error", err)
	}

	if in.callbackID != "" {
		if _, err := b.client.Request(tgbotapi.NewCallback(in.callbackID, "")); err != nil {
			logger.WarnContext(ctx, "failed to answer callback", "error", err)
		}
	}

	for _, r := range replies {
		if err := b.send(in, r); err != nil {
			logger.ErrorContext(ctx, "failed to send reply", "error", err)
		}
	}
	logger.DebugContext(ctx, "update handled", "replies", len(replies), "duration", time.Since(start))
}

func (b *Bot) send(in inbound, r dialog.Reply) error {
	c := render(in.chatID, in.messageID, r)
	if _, ok := c.(tgbotapi.EditMessageTextConfig); ok {
		_, err := b.client.Request(c)
		if err != nil && strings.Contains(err.Error(), "message is not modified") {
			return nil
		}
		return err
	}
	_, err := b.client.Send(c)
	return err
}

// botLogger routes the library's log output to slog at debug level.
type botLogger struct {
	logger *slog.Logger
}

func (l botLogger) Println(v ...interface{}) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintln(v...)), "component", "tgbotapi")
}

func (l botLogger) Printf(format string, v ...interface{}) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "tgbotapi")
}
