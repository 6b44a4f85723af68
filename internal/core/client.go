package core

import "sync"

// Client is a connected peer as seen by the core layer. The registry and
// router use it only as an identity key and a send target; the transport
// layer owns the underlying socket.
type Client struct {
	ID       string
	Commands chan *Command
	Events   chan *Event

	closeOnce sync.Once
}

// NewClient constructs a client with initialized channels. The events
// buffer bounds how far a slow reader may fall behind before deliveries
// to it are dropped.
func NewClient(id string, eventBuffer int) *Client {
	if eventBuffer <= 0 {
		eventBuffer = 8
	}
	return &Client{
		ID:       id,
		Commands: make(chan *Command, 8),
		Events:   make(chan *Event, eventBuffer),
	}
}

// Close signals that no further commands will arrive from this client.
// Safe to call more than once; the router observes the closed channel and
// removes the client's room binding.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.Commands)
	})
}

// trySend enqueues an event without blocking. Returns false if the
// client's buffer is full and the event was dropped.
func (c *Client) trySend(ev *Event) bool {
	select {
	case c.Events <- ev:
		return true
	default:
		return false
	}
}
