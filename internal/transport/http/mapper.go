package http

import (
	"encoding/json"
	"time"

	"github.com/roomrelay/roomrelay-server/internal/core"
	"github.com/roomrelay/roomrelay-server/internal/proto"
)

// inboundToCommand maps a parsed envelope to a core command. A non-nil
// error payload means the frame was understood but rejected; the caller
// replies with it and keeps the connection open.
func inboundToCommand(inbound proto.Inbound) (*core.Command, *proto.ErrorPayload) {
	switch inbound.Type {
	case proto.InboundTypeCreate, proto.InboundTypeJoin:
		var req proto.CreatePayload
		if err := json.Unmarshal(inbound.Payload, &req); err != nil {
			return nil, &proto.ErrorPayload{Message: "invalid payload"}
		}
		if req.RoomID == "" {
			return nil, &proto.ErrorPayload{Message: "roomId is required"}
		}
		if req.Username == "" {
			return nil, &proto.ErrorPayload{Message: "username is required"}
		}
		kind := core.CommandCreateRoom
		if inbound.Type == proto.InboundTypeJoin {
			kind = core.CommandJoinRoom
		}
		return &core.Command{Kind: kind, Room: req.RoomID, User: req.Username}, nil
	case proto.InboundTypeChat:
		var req proto.ChatPayload
		if err := json.Unmarshal(inbound.Payload, &req); err != nil {
			return nil, &proto.ErrorPayload{Message: "invalid payload"}
		}
		if req.Message == "" {
			return nil, &proto.ErrorPayload{Message: "message is required"}
		}
		return &core.Command{Kind: core.CommandChat, Text: req.Message}, nil
	default:
		return nil, &proto.ErrorPayload{Message: "unknown message type"}
	}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventRoomCreated:
		return proto.Outbound{
			Type: proto.OutboundTypeRoomCreated,
			Payload: proto.RoomStatusPayload{
				RoomID:   event.Room,
				Username: event.User,
				Message:  event.Text,
				IsOwner:  true,
			},
		}
	case core.EventRoomJoined:
		return proto.Outbound{
			Type: proto.OutboundTypeRoomJoined,
			Payload: proto.RoomStatusPayload{
				RoomID:   event.Room,
				Username: event.User,
				Message:  event.Text,
				IsOwner:  false,
			},
		}
	case core.EventUserJoined:
		return proto.Outbound{
			Type: proto.OutboundTypeUserJoined,
			Payload: proto.PresencePayload{
				Username: event.User,
				Message:  event.Text,
			},
		}
	case core.EventUserLeft:
		return proto.Outbound{
			Type: proto.OutboundTypeUserLeft,
			Payload: proto.PresencePayload{
				Username: event.User,
				Message:  event.Text,
			},
		}
	case core.EventChatMessage:
		return proto.Outbound{
			Type: proto.OutboundTypeChatMessage,
			Payload: proto.ChatMessagePayload{
				Username:  event.User,
				Message:   event.Text,
				RoomID:    event.Room,
				Timestamp: event.Timestamp.Format(time.RFC3339),
			},
		}
	case core.EventError:
		msg := "internal error"
		if event.Error != nil {
			msg = event.Error.Message
		}
		return proto.Outbound{
			Type:    proto.OutboundTypeError,
			Payload: proto.ErrorPayload{Message: msg},
		}
	default:
		return proto.Outbound{
			Type:    proto.OutboundTypeError,
			Payload: proto.ErrorPayload{Message: "unknown event"},
		}
	}
}
