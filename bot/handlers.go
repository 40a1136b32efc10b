package bot

import (
	"log/slog"

	"numbot/core/logger"
	"numbot/core/telegram/callbacks"
	tghelpers "numbot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// Start shows the country menu. It doubles as the text fallback so stray
// messages always land somewhere useful.
func (b *Bot) Start(c tele.Context) error {
	return tghelpers.SendMD(c, menuText, b.menuMarkup())
}

// Help describes the available commands.
func (b *Bot) Help(c tele.Context) error {
	return tghelpers.SendMD(c, helpText)
}

// Number reports the user's active lease, if any.
func (b *Bot) Number(c tele.Context) error {
	lease, ok := b.orders.ActiveLease(c.Sender().ID)
	if !ok {
		return tghelpers.SendMD(c, noNumberText)
	}
	return tghelpers.SendMD(c, activeNumberText(lease))
}

// Stats reports in-flight counters. Admin-only, hidden from the command menu.
func (b *Bot) Stats(c tele.Context) error {
	orders, leases := b.orders.Counts()
	return tghelpers.SendMD(c, statsText(orders, leases))
}

// SelectVariant handles a country pick: it edits the menu message into a
// short searching notice, creates the order anchored to that message, and
// edits in the generated number with the payment keyboard.
func (b *Bot) SelectVariant(c tele.Context) error {
	key := callbacks.CallbackPayload(c)
	v, err := b.catalog.Get(key)
	if err != nil {
		logger.Warn(tghelpers.BuildContext(c), "tg", "variant.unknown",
			slog.String("status", "skip"),
			slog.String("variant", key),
		)
		return tghelpers.EditOrSendMD(c, unknownVariantText)
	}

	if err := tghelpers.EditMD(c, searchingText(v)); err != nil {
		if !isStaleSession(err) {
			return err
		}
	}

	msg := c.Message()
	if msg == nil {
		return nil
	}
	session := Session{ChatID: msg.Chat.ID, MessageID: msg.ID}

	ctx := tghelpers.WithHandler(c, "callback."+cbVariant)
	o, err := b.orders.CreateOrder(ctx, c.Sender().ID, v.Key, session)
	if err != nil {
		return err
	}

	err = c.Edit(numberText(v, o.InstanceID, b.payURL), &tele.SendOptions{
		ParseMode:             tele.ModeMarkdown,
		ReplyMarkup:           payMarkup(b.payURL),
		DisableWebPagePreview: true,
	})
	if isStaleSession(err) {
		return nil
	}
	return err
}

// BackToMenu restores the country menu in place. Repeated presses and
// callbacks that outlived their message are silently ignored.
func (b *Bot) BackToMenu(c tele.Context) error {
	err := tghelpers.EditMD(c, menuText, b.menuMarkup())
	if isStaleSession(err) {
		logger.Debug(tghelpers.BuildContext(c), "tg", "menu.stale_session",
			slog.String("status", "skip"),
		)
		return nil
	}
	return err
}
