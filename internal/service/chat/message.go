package chat

import (
	"strconv"
	"time"

	"bsu_chat_server/internal/model"
)

// Message is one group or private chat message. Sender is a snapshot taken
// at send time and is never refreshed from the directory.
type Message struct {
	ID          string       `json:"id"`
	SenderID    uint         `json:"sender_id"`
	ReceiverID  uint         `json:"receiver_id,omitempty"`
	Sender      model.Sender `json:"sender"`
	MessageText string       `json:"message_text"`
	Timestamp   time.Time    `json:"timestamp"`
}

// PairKey is the canonical key of the conversation between a and b; it is
// the same whichever side comes first.
func PairKey(a, b uint) string {
	if a > b {
		a, b = b, a
	}
	return strconv.FormatUint(uint64(a), 10) + "-" + strconv.FormatUint(uint64(b), 10)
}
