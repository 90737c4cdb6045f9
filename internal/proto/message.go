package proto

import "encoding/json"

// Inbound is the envelope for frames coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	InboundTypeSend = "send_message"

	OutboundTypeStatus  = "connection_status"
	OutboundTypeMessage = "receive_message"
	OutboundTypeError   = "error"
)

// SendMessageData is a chat message from the client. Receiver is only
// meaningful for admin senders; user messages are always routed to the
// shared admin room.
type SendMessageData struct {
	Body     string `json:"body"`
	Receiver string `json:"receiver,omitempty"`
}

// Outbound is the envelope for frames sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// ConnectionStatus confirms a successful connect-subscribe.
type ConnectionStatus struct {
	Status   string `json:"status"`
	Username string `json:"username"`
}

// ReceiveMessage carries one routed chat message.
type ReceiveMessage struct {
	ID        int64  `json:"id,omitempty"`
	Sender    string `json:"sender"`
	Receiver  string `json:"receiver"`
	Body      string `json:"body"`
	Timestamp string `json:"timestamp"`
}

// Error describes a rejected send or a malformed frame.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
