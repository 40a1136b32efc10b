package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"numbot/core/logger"
	"numbot/core/telegram/keyboard"
	"numbot/core/telegram/sender"
	"numbot/order"

	tele "gopkg.in/telebot.v4"
)

// Notifier delivers order lifecycle messages through the Telegram API.
// Deliveries go through the asynchronous dispatcher when one is wired,
// falling back to direct calls when the queue is saturated or closed.
//
// The bot instance only exists once the Telegram runtime is up, so the
// Notifier is constructed empty and bound from the OnStart hook.
type Notifier struct {
	mu   sync.RWMutex
	bot  *tele.Bot
	disp *sender.Dispatcher
}

// NewNotifier builds an unbound Notifier.
func NewNotifier() *Notifier {
	return &Notifier{}
}

// Bind attaches the live bot and dispatcher. disp may be nil.
func (n *Notifier) Bind(bot *tele.Bot, disp *sender.Dispatcher) {
	n.mu.Lock()
	n.bot = bot
	n.disp = disp
	n.mu.Unlock()
}

// Send implements order.Notifier.
func (n *Notifier) Send(ref order.SessionRef, msg order.Message) error {
	s, ok := ref.(Session)
	if !ok {
		return fmt.Errorf("bot: unsupported session type %T", ref)
	}

	n.mu.RLock()
	bot, disp := n.bot, n.disp
	n.mu.RUnlock()
	if bot == nil {
		return fmt.Errorf("bot: notifier is not bound")
	}

	action, endpoint := "notify.send", "sendMessage"
	if msg.Replace {
		action, endpoint = "notify.edit", "editMessageText"
	}

	run := func() error {
		opts := &tele.SendOptions{
			ParseMode:             tele.ModeMarkdown,
			DisableWebPagePreview: true,
		}
		if m := markupFor(msg.Buttons); m != nil {
			opts.ReplyMarkup = m
		}

		var err error
		if msg.Replace {
			_, err = bot.Edit(s, msg.Text, opts)
		} else {
			_, err = bot.Send(tele.ChatID(s.ChatID), msg.Text, opts)
		}
		if isStaleSession(err) {
			logger.Debug(logger.Background(), "tg", "notify.stale_session",
				slog.String("status", "skip"),
				slog.Int64("chat_id", s.ChatID),
			)
			return nil
		}
		return err
	}

	if disp != nil {
		err := disp.Enqueue(context.Background(), action, endpoint, run)
		if err == nil {
			return nil
		}
		if !errors.Is(err, sender.ErrQueueFull) && !errors.Is(err, sender.ErrQueueClosed) {
			return err
		}
	}
	return run()
}

func markupFor(buttons []order.Button) *tele.ReplyMarkup {
	if len(buttons) == 0 {
		return nil
	}
	btns := make([]keyboard.InlineBtn, 0, len(buttons))
	for _, b := range buttons {
		switch b.Kind {
		case order.ButtonOpenURL:
			btns = append(btns, keyboard.InlineBtn{Text: b.Label, URL: b.URL})
		case order.ButtonSelectVariant:
			btns = append(btns, keyboard.InlineBtn{Text: b.Label, Unique: cbVariant, Data: b.VariantKey})
		case order.ButtonReturnToMenu:
			btns = append(btns, keyboard.InlineBtn{Text: b.Label, Unique: cbBackToMenu})
		}
	}
	if len(btns) == 0 {
		return nil
	}
	return keyboard.InlineButtons(btns)
}
