package http

import (
	"time"

	"github.com/ochirbat/supportchat-server/internal/core"
	"github.com/ochirbat/supportchat-server/internal/proto"
	"github.com/ochirbat/supportchat-server/internal/store"
)

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func receiveMessage(msg core.Message) proto.ReceiveMessage {
	return proto.ReceiveMessage{
		ID:        msg.ID,
		Sender:    msg.Sender,
		Receiver:  msg.Receiver,
		Body:      msg.Body,
		Timestamp: formatTimestamp(msg.Timestamp),
	}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventConnectionStatus:
		return proto.Outbound{
			Type: proto.OutboundTypeStatus,
			Data: proto.ConnectionStatus{
				Status:   event.Status,
				Username: event.User,
			},
		}
	case core.EventReceiveMessage:
		return proto.Outbound{
			Type: proto.OutboundTypeMessage,
			Data: receiveMessage(event.Message),
		}
	case core.EventError:
		if event.Error == nil {
			return proto.Outbound{Type: proto.OutboundTypeError, Error: &proto.Error{Code: "unknown", Msg: "unknown error"}}
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeError,
			Error: &proto.Error{Code: event.Error.Code, Msg: event.Error.Message},
		}
	default:
		return proto.Outbound{Type: proto.OutboundTypeError, Error: &proto.Error{Code: "unknown", Msg: "unknown event"}}
	}
}

func messagesResponse(msgs []*store.Message) []proto.ReceiveMessage {
	out := make([]proto.ReceiveMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, proto.ReceiveMessage{
			ID:        m.ID,
			Sender:    m.Sender,
			Receiver:  m.Receiver,
			Body:      m.Body,
			Timestamp: formatTimestamp(m.Timestamp),
		})
	}
	return out
}
