package bot

import (
	"fmt"
	"time"

	"numbot/catalog"
	"numbot/order"
)

const (
	menuText = "📞 *Choose a country to get a number:*"

	helpText = "🤖 *Virtual phone number shop*\n\n" +
		"/start - choose a country and get a number\n" +
		"/number - show your active number\n" +
		"/help - this message"

	noNumberText = "You have no active number. Use /start to get one."

	unknownVariantText = "This country is no longer available. Use /start to see the current list."
)

func variantLabel(v catalog.Variant) string {
	return fmt.Sprintf("%s - %d₽", v.DisplayName, v.Price)
}

func searchingText(v catalog.Variant) string {
	return fmt.Sprintf("🔍 *Searching for an available %s number...*\n", v.Country)
}

func numberText(v catalog.Variant, instanceID, payURL string) string {
	return fmt.Sprintf(
		"⌁ *Number:* `%s`\n⌁ %s *%s*\n\n☛ [Pay %.2f₽](%s)",
		instanceID, v.Flag, v.Country, float64(v.Price), payURL,
	)
}

func activeNumberText(lease order.Lease) string {
	return fmt.Sprintf(
		"☛ *Your number:* `%s`\n_Active until %s._",
		lease.InstanceID, lease.ExpiresAt.UTC().Format(time.RFC3339),
	)
}

func statsText(orders, leases int) string {
	return fmt.Sprintf("*Orders in flight:* %d\n*Lease records:* %d", orders, leases)
}
