package bot

import (
	"errors"
	"strings"

	"numbot/catalog"
	tg "numbot/core/telegram"
	"numbot/core/telegram/commands"
	"numbot/core/telegram/keyboard"
	"numbot/order"

	tele "gopkg.in/telebot.v4"
)

// Callback keys routed through the registry.
const (
	cbVariant    = "variant"
	cbBackToMenu = "back_to_menu"
)

// Bot holds the conversational surface of the number shop.
type Bot struct {
	catalog *catalog.Catalog
	orders  *order.Service
	payURL  string
}

// New builds the bot handler set.
func New(cat *catalog.Catalog, svc *order.Service, payURL string) *Bot {
	return &Bot{
		catalog: cat,
		orders:  svc,
		payURL:  payURL,
	}
}

// Register wires the bot's commands and callbacks into the registry.
func (b *Bot) Register(reg *tg.Registry) {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     b.Start,
		Description: "Choose a country and get a number",
		Aliases:     []string{"menu"},
	})
	reg.RegisterCommand("/help", commands.Command{
		Handler:     b.Help,
		Description: "How the shop works",
	})
	reg.RegisterCommand("/number", commands.Command{
		Handler:     b.Number,
		Description: "Show your active number",
	})
	reg.RegisterCommand("/stats", commands.Command{
		Handler:     b.Stats,
		Description: "Service counters",
		AdminOnly:   true,
		Hidden:      true,
	})
	_ = reg.RegisterCallback(cbVariant, b.SelectVariant)
	_ = reg.RegisterCallback(cbBackToMenu, b.BackToMenu)
	reg.SetTextFallback(b.Start)
}

func (b *Bot) menuMarkup() *tele.ReplyMarkup {
	btns := make([]keyboard.InlineBtn, 0, b.catalog.Len())
	for v := range b.catalog.All() {
		btns = append(btns, keyboard.InlineBtn{
			Text:   variantLabel(v),
			Unique: cbVariant,
			Data:   v.Key,
		})
	}
	return keyboard.InlineButtons(btns)
}

func payMarkup(payURL string) *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{{Text: "💳 Pay", URL: payURL}},
		[]keyboard.InlineBtn{{Text: "◀️ Menu", Unique: cbBackToMenu}},
	)
}

// isStaleSession reports whether a Telegram edit failed only because the
// target message is gone, unchanged, or the callback expired. Those are
// expected when users race the lifecycle timers and are safe to swallow.
func isStaleSession(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *tele.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	msg := apiErr.Error()
	switch {
	case strings.Contains(msg, "message is not modified"),
		strings.Contains(msg, "message to edit not found"),
		strings.Contains(msg, "message can't be edited"),
		strings.Contains(msg, "query is too old"):
		return true
	}
	return false
}
