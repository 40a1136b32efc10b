package bot

import (
	"errors"
	"strings"
	"testing"

	"numbot/catalog"
	"numbot/order"

	tele "gopkg.in/telebot.v4"
)

func TestSessionMessageSig(t *testing.T) {
	t.Parallel()

	s := Session{ChatID: 77, MessageID: 1234}
	msgID, chatID := s.MessageSig()
	if msgID != "1234" || chatID != 77 {
		t.Fatalf("unexpected signature: %s %d", msgID, chatID)
	}
}

func TestMenuMarkupCoversCatalog(t *testing.T) {
	t.Parallel()

	cat := catalog.Default()
	b := New(cat, nil, "https://platega.io")

	markup := b.menuMarkup()
	if len(markup.InlineKeyboard) != cat.Len() {
		t.Fatalf("expected %d rows, got %d", cat.Len(), len(markup.InlineKeyboard))
	}
	first := markup.InlineKeyboard[0][0]
	if !strings.Contains(first.Text, "₽") {
		t.Fatalf("expected price in button label, got %q", first.Text)
	}
	if first.Unique != cbVariant || first.Data != "usa" {
		t.Fatalf("expected variant callback with key payload, got %+v", first)
	}
}

func TestPayMarkup(t *testing.T) {
	t.Parallel()

	markup := payMarkup("https://platega.io")
	if len(markup.InlineKeyboard) != 2 {
		t.Fatalf("expected pay and menu rows, got %d", len(markup.InlineKeyboard))
	}
	if markup.InlineKeyboard[0][0].URL != "https://platega.io" {
		t.Fatalf("expected payment url button, got %+v", markup.InlineKeyboard[0][0])
	}
	if markup.InlineKeyboard[1][0].Unique != cbBackToMenu {
		t.Fatalf("expected back_to_menu callback, got %+v", markup.InlineKeyboard[1][0])
	}
}

func TestMarkupForMapsButtonKinds(t *testing.T) {
	t.Parallel()

	markup := markupFor([]order.Button{
		{Label: "💳 Pay", Kind: order.ButtonOpenURL, URL: "https://platega.io"},
		{Label: "◀️ Menu", Kind: order.ButtonReturnToMenu},
	})
	if markup == nil || len(markup.InlineKeyboard) != 2 {
		t.Fatalf("unexpected markup: %+v", markup)
	}
	if markup.InlineKeyboard[0][0].URL == "" {
		t.Fatal("expected first button to carry the url")
	}

	if markupFor(nil) != nil {
		t.Fatal("expected nil markup for no buttons")
	}
}

func TestIsStaleSession(t *testing.T) {
	t.Parallel()

	stale := []error{
		tele.NewError(400, "Bad Request: message is not modified"),
		tele.NewError(400, "Bad Request: message to edit not found"),
		tele.NewError(400, "Bad Request: query is too old and response timeout expired"),
	}
	for _, err := range stale {
		if !isStaleSession(err) {
			t.Fatalf("expected %v to be treated as stale", err)
		}
	}

	if isStaleSession(nil) {
		t.Fatal("nil error is not stale")
	}
	if isStaleSession(errors.New("dial tcp: timeout")) {
		t.Fatal("transport errors are not stale sessions")
	}
	if isStaleSession(tele.NewError(403, "Forbidden: bot was blocked by the user")) {
		t.Fatal("forbidden is not stale")
	}
}
