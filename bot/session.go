package bot

import "strconv"

// Session anchors an order conversation to the chat message it lives in.
// It satisfies tele.Editable so lifecycle notifications can replace the
// original order message in place.
type Session struct {
	ChatID    int64
	MessageID int
}

// MessageSig implements tele.Editable.
func (s Session) MessageSig() (string, int64) {
	return strconv.Itoa(s.MessageID), s.ChatID
}
