package order

import (
	"fmt"
	"strings"
	"time"

	"numbot/catalog"
)

// confirmedText is the post-payment message edited into the order message.
func confirmedText(v catalog.Variant, instanceID string, ttl time.Duration) string {
	var b strings.Builder
	b.WriteString("✅ *Payment received!*\n\n")
	fmt.Fprintf(&b, "☛ *Your number:* `%s`\n", instanceID)
	fmt.Fprintf(&b, "⌁ %s *%s*\n\n", v.Flag, v.Country)
	fmt.Fprintf(&b, "*The number stays active for %s.*\n", formatTTL(ttl))
	b.WriteString("_After that it can no longer receive messages._")
	return b.String()
}

// codeText is the synthetic verification-code follow-up message.
func codeText(code string) string {
	return fmt.Sprintf(
		"_New message from:_ `Telegram`\n\n*Telegram login code: %s.* Never share this code, even with someone claiming to be Telegram!",
		code,
	)
}

func formatTTL(d time.Duration) string {
	d = d.Round(time.Minute)
	if d < time.Hour {
		m := int(d / time.Minute)
		if m == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", m)
	}
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	switch {
	case h == 1 && m == 0:
		return "1 hour"
	case m == 0:
		return fmt.Sprintf("%d hours", h)
	default:
		return fmt.Sprintf("%dh %dm", h, m)
	}
}
