package core

import (
	"context"
	"testing"
	"time"
)

func startRouter(t *testing.T) (*Router, *Registry) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	reg := NewRegistry()
	router := NewRouter(reg, nil)
	go router.Run(ctx)
	return router, reg
}

func TestRouterCreateJoinChatAndLeave(t *testing.T) {
	router, reg := startRouter(t)

	alice := NewClient("a", 0)
	bob := NewClient("b", 0)
	router.RegisterClient(alice)
	router.RegisterClient(bob)

	// Alice creates the room and is confirmed as owner.
	alice.Commands <- &Command{Kind: CommandCreateRoom, Room: "general", User: "alice"}
	created := mustEvent(t, alice.Events, EventRoomCreated)
	if created.Room != "general" || created.User != "alice" || !created.IsOwner {
		t.Fatalf("unexpected room_created event: %+v", created)
	}

	// Bob joins; he is confirmed without ownership and alice is notified.
	bob.Commands <- &Command{Kind: CommandJoinRoom, Room: "general", User: "bob"}
	joined := mustEvent(t, bob.Events, EventRoomJoined)
	if joined.Room != "general" || joined.IsOwner {
		t.Fatalf("unexpected room_joined event: %+v", joined)
	}
	userJoined := mustEvent(t, alice.Events, EventUserJoined)
	if userJoined.User != "bob" {
		t.Fatalf("unexpected user_joined event: %+v", userJoined)
	}

	// Chat from bob reaches everyone in the room, including bob himself.
	before := time.Now()
	bob.Commands <- &Command{Kind: CommandChat, Text: "hi"}

	for _, c := range []*Client{alice, bob} {
		msg := mustEvent(t, c.Events, EventChatMessage)
		if msg.User != "bob" || msg.Text != "hi" || msg.Room != "general" {
			t.Fatalf("unexpected chat event for %s: %+v", c.ID, msg)
		}
		if msg.Timestamp.Before(before) {
			t.Fatalf("timestamp %v precedes send time %v", msg.Timestamp, before)
		}
	}

	// Bob disconnects; alice is notified and the room survives.
	bob.Close()
	left := mustEvent(t, alice.Events, EventUserLeft)
	if left.User != "bob" || left.Room != "general" {
		t.Fatalf("unexpected user_left event: %+v", left)
	}
	if !reg.RoomExists("general") {
		t.Fatal("room should still exist with alice in it")
	}
	if got := reg.RoomMemberCount("general"); got != 1 {
		t.Fatalf("expected 1 member, got %d", got)
	}

	// Alice disconnects; the room is gone.
	alice.Close()
	waitFor(t, func() bool { return !reg.RoomExists("general") },
		"room should be deleted after its last member disconnects")
}

func TestRouterDuplicateCreateProducesError(t *testing.T) {
	router, _ := startRouter(t)

	alice := NewClient("a", 0)
	bob := NewClient("b", 0)
	router.RegisterClient(alice)
	router.RegisterClient(bob)

	alice.Commands <- &Command{Kind: CommandCreateRoom, Room: "general", User: "alice"}
	mustEvent(t, alice.Events, EventRoomCreated)

	bob.Commands <- &Command{Kind: CommandCreateRoom, Room: "general", User: "bob"}
	ev := mustEvent(t, bob.Events, EventError)
	if ev.Error == nil || ev.Error.Code != ErrCodeRoomExists {
		t.Fatalf("expected room_exists error, got %+v", ev)
	}

	// Alice must not hear about bob's failed attempt.
	select {
	case extra := <-alice.Events:
		t.Fatalf("alice received unexpected event: %+v", extra)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestRouterJoinMissingRoomProducesError(t *testing.T) {
	router, _ := startRouter(t)

	alice := NewClient("a", 0)
	router.RegisterClient(alice)

	alice.Commands <- &Command{Kind: CommandJoinRoom, Room: "ghost", User: "alice"}
	ev := mustEvent(t, alice.Events, EventError)
	if ev.Error == nil || ev.Error.Code != ErrCodeRoomNotFound {
		t.Fatalf("expected room_not_found error, got %+v", ev)
	}
}

func TestRouterChatWithoutRoomIsDropped(t *testing.T) {
	router, _ := startRouter(t)

	alice := NewClient("a", 0)
	router.RegisterClient(alice)

	alice.Commands <- &Command{Kind: CommandChat, Text: "into the void"}
	// Follow with a create; the first event observed must be the create
	// confirmation, proving the unbound chat produced nothing.
	alice.Commands <- &Command{Kind: CommandCreateRoom, Room: "general", User: "alice"}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-alice.Events:
			if ev.Kind != EventRoomCreated {
				t.Fatalf("expected room_created first, got %+v", ev)
			}
			return
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatal("no event received")
}

func TestRouterSameUsernameAllowed(t *testing.T) {
	router, reg := startRouter(t)

	alice1 := NewClient("a1", 0)
	alice2 := NewClient("a2", 0)
	router.RegisterClient(alice1)
	router.RegisterClient(alice2)

	alice1.Commands <- &Command{Kind: CommandCreateRoom, Room: "general", User: "alice"}
	mustEvent(t, alice1.Events, EventRoomCreated)

	// Display names are not unique; only room identifiers are.
	alice2.Commands <- &Command{Kind: CommandJoinRoom, Room: "general", User: "alice"}
	mustEvent(t, alice2.Events, EventRoomJoined)

	if got := reg.RoomMemberCount("general"); got != 2 {
		t.Fatalf("expected 2 members, got %d", got)
	}
}

func TestRouterSlowConsumerDoesNotBlockOthers(t *testing.T) {
	router, _ := startRouter(t)

	sender := NewClient("s", 0)
	slow := NewClient("slow", 1)
	healthy := NewClient("h", 64)
	router.RegisterClient(sender)
	router.RegisterClient(slow)
	router.RegisterClient(healthy)

	sender.Commands <- &Command{Kind: CommandCreateRoom, Room: "general", User: "sender"}
	mustEvent(t, sender.Events, EventRoomCreated)
	slow.Commands <- &Command{Kind: CommandJoinRoom, Room: "general", User: "slow"}
	mustEvent(t, slow.Events, EventRoomJoined)
	healthy.Commands <- &Command{Kind: CommandJoinRoom, Room: "general", User: "healthy"}
	mustEvent(t, healthy.Events, EventRoomJoined)

	// Nobody drains slow's events; its one-slot buffer already holds the
	// join notification, so every chat delivery to it is dropped.
	for range 10 {
		sender.Commands <- &Command{Kind: CommandChat, Text: "flood"}
	}
	for range 10 {
		mustEvent(t, healthy.Events, EventChatMessage)
	}
}
