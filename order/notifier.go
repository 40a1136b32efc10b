package order

// ButtonKind selects what pressing an inline button does.
type ButtonKind string

const (
	// ButtonSelectVariant starts an order for the variant in VariantKey.
	ButtonSelectVariant ButtonKind = "select_variant"
	// ButtonReturnToMenu re-renders the selection menu.
	ButtonReturnToMenu ButtonKind = "return_to_menu"
	// ButtonOpenURL opens an external link, e.g. the payment page.
	ButtonOpenURL ButtonKind = "open_url"
)

// Button is one inline action offered under a message.
type Button struct {
	Label      string
	Kind       ButtonKind
	VariantKey string // set for ButtonSelectVariant
	URL        string // set for ButtonOpenURL
}

// Message is a rich-text notification addressed to a session. Buttons are
// rendered one row each. Replace asks the transport to edit the message the
// session points at instead of sending a new one.
type Message struct {
	Text    string
	Buttons []Button
	Replace bool
}

// Notifier delivers messages back to the conversation a session references.
// Delivery is best-effort: errors are logged by the caller and never roll
// back the state transition that produced the message.
type Notifier interface {
	Send(ref SessionRef, msg Message) error
}
