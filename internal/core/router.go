package core

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// submission pairs a command with the client that issued it. A nil
// command marks the end of the client's stream (connection closed).
type submission struct {
	client *Client
	cmd    *Command
}

// Router consumes client commands, mutates the registry, and fans
// resulting events out to room members. All registry mutations funnel
// through one Run loop, so commands from concurrent connections are
// processed in a single serial order.
type Router struct {
	registry *Registry
	log      zerolog.Logger
	register chan *Client
	inbox    chan submission
}

// NewRouter builds a router around an injected registry. A nil logger
// disables logging.
func NewRouter(registry *Registry, logger *zerolog.Logger) *Router {
	lg := zerolog.Nop()
	if logger != nil {
		lg = *logger
	}
	return &Router{
		registry: registry,
		log:      lg,
		register: make(chan *Client),
		inbox:    make(chan submission, 64),
	}
}

// Registry exposes the underlying registry for read-only query surfaces.
func (rt *Router) Registry() *Registry {
	return rt.registry
}

// RegisterClient hands a new connection to the router. The router reads
// the client's Commands channel until it is closed, then removes the
// client's room binding and closes its Events channel.
func (rt *Router) RegisterClient(c *Client) {
	rt.register <- c
}

// Run processes registrations and commands until the context is
// cancelled. It must be running before clients are registered.
func (rt *Router) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case c := <-rt.register:
			go rt.pump(ctx, c)
		case sub := <-rt.inbox:
			rt.dispatch(sub)
		}
	}
}

// pump forwards one client's commands into the shared inbox so the Run
// loop sees a single serialized stream.
func (rt *Router) pump(ctx context.Context, c *Client) {
	for {
		select {
		case <-ctx.Done():
			return
		case cmd, ok := <-c.Commands:
			if !ok {
				select {
				case rt.inbox <- submission{client: c}:
				case <-ctx.Done():
				}
				return
			}
			select {
			case rt.inbox <- submission{client: c, cmd: cmd}:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (rt *Router) dispatch(sub submission) {
	if sub.cmd == nil {
		rt.handleDisconnect(sub.client)
		return
	}
	switch sub.cmd.Kind {
	case CommandCreateRoom:
		rt.handleCreate(sub.client, sub.cmd)
	case CommandJoinRoom:
		rt.handleJoin(sub.client, sub.cmd)
	case CommandChat:
		rt.handleChat(sub.client, sub.cmd)
	}
}

func (rt *Router) handleCreate(c *Client, cmd *Command) {
	if err := rt.registry.CreateRoom(cmd.Room, c, cmd.User); err != nil {
		rt.deliver(c, &Event{
			Kind:  EventError,
			Error: coreError(ErrCodeRoomExists, fmt.Sprintf("room %q already exists", cmd.Room)),
		})
		return
	}
	rt.log.Info().Str("room", cmd.Room).Str("user", cmd.User).Msg("room created")
	rt.deliver(c, &Event{
		Kind:    EventRoomCreated,
		Room:    cmd.Room,
		User:    cmd.User,
		Text:    fmt.Sprintf("Room %q created", cmd.Room),
		IsOwner: true,
	})
}

func (rt *Router) handleJoin(c *Client, cmd *Command) {
	if err := rt.registry.JoinRoom(cmd.Room, c, cmd.User); err != nil {
		rt.deliver(c, &Event{
			Kind:  EventError,
			Error: coreError(ErrCodeRoomNotFound, fmt.Sprintf("room %q does not exist", cmd.Room)),
		})
		return
	}
	rt.log.Info().Str("room", cmd.Room).Str("user", cmd.User).Msg("user joined room")
	rt.deliver(c, &Event{
		Kind: EventRoomJoined,
		Room: cmd.Room,
		User: cmd.User,
		Text: fmt.Sprintf("Joined room %q", cmd.Room),
	})
	rt.broadcast(rt.registry.RoomMembers(cmd.Room, c), &Event{
		Kind: EventUserJoined,
		Room: cmd.Room,
		User: cmd.User,
		Text: fmt.Sprintf("%s joined the room", cmd.User),
	})
}

func (rt *Router) handleChat(c *Client, cmd *Command) {
	m, ok := rt.registry.MemberOf(c)
	if !ok {
		// Chat before create/join is dropped rather than surfaced as an
		// error; the sender is not in any room to echo into.
		rt.log.Debug().Str("client_id", c.ID).Msg("chat from unbound client dropped")
		return
	}
	rt.broadcast(rt.registry.RoomMembers(m.Room, nil), &Event{
		Kind:      EventChatMessage,
		Room:      m.Room,
		User:      m.Username,
		Text:      cmd.Text,
		Timestamp: time.Now(),
	})
}

func (rt *Router) handleDisconnect(c *Client) {
	m, ok := rt.registry.Disconnect(c)
	close(c.Events)
	if !ok {
		return
	}
	rt.log.Info().Str("room", m.Room).Str("user", m.Username).Msg("user disconnected")
	rt.broadcast(rt.registry.RoomMembers(m.Room, nil), &Event{
		Kind: EventUserLeft,
		Room: m.Room,
		User: m.Username,
		Text: fmt.Sprintf("%s left the room", m.Username),
	})
}

// deliver sends one event to one client, dropping it if the client's
// buffer is full.
func (rt *Router) deliver(c *Client, ev *Event) {
	if !c.trySend(ev) {
		rt.log.Debug().Str("client_id", c.ID).Msg("event dropped, slow consumer")
	}
}

// broadcast fans an event out to every client in the set. A full buffer
// on one recipient never blocks delivery to the rest.
func (rt *Router) broadcast(clients []*Client, ev *Event) {
	for _, c := range clients {
		rt.deliver(c, ev)
	}
}
