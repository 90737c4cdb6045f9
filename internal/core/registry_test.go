package core

import "testing"

func TestRegistrySubscribeIdempotent(t *testing.T) {
	reg := NewRegistry(testLogger())
	c := NewClient("c1", Identity{Username: "alice", Role: RoleUser})

	reg.Subscribe("alice", c)
	reg.Subscribe("alice", c)

	if got := reg.Members("alice"); got != 1 {
		t.Fatalf("expected 1 member after double subscribe, got %d", got)
	}

	if n := reg.Publish("alice", &Event{Kind: EventReceiveMessage}); n != 1 {
		t.Fatalf("expected 1 delivery, got %d", n)
	}
	mustEvent(t, c.Events, EventReceiveMessage)
	mustNoEvent(t, c.Events)
}

func TestRegistryUnsubscribeAllStopsDelivery(t *testing.T) {
	reg := NewRegistry(testLogger())
	c := NewClient("c1", Identity{Username: "alice", Role: RoleUser})

	reg.Subscribe("alice", c)
	reg.Subscribe(AdminRoom, c)
	reg.UnsubscribeAll(c)

	if n := reg.Publish("alice", &Event{Kind: EventReceiveMessage}); n != 0 {
		t.Fatalf("expected 0 deliveries, got %d", n)
	}
	if n := reg.Publish(AdminRoom, &Event{Kind: EventReceiveMessage}); n != 0 {
		t.Fatalf("expected 0 deliveries, got %d", n)
	}
	mustNoEvent(t, c.Events)
}

func TestRegistryUnsubscribeAllUnknownClient(t *testing.T) {
	reg := NewRegistry(testLogger())
	// Must not panic or error for a client that never subscribed.
	reg.UnsubscribeAll(NewClient("ghost", Identity{}))
}

func TestRegistryPublishEmptyRoomIsNoop(t *testing.T) {
	reg := NewRegistry(testLogger())
	if n := reg.Publish("nobody", &Event{Kind: EventReceiveMessage}); n != 0 {
		t.Fatalf("expected 0 deliveries to empty room, got %d", n)
	}
}

func TestRegistryPublishOrderPreserved(t *testing.T) {
	reg := NewRegistry(testLogger())
	a := NewClient("a", Identity{Username: "alice", Role: RoleUser})
	b := NewClient("b", Identity{Username: "alice", Role: RoleUser})

	reg.Subscribe("alice", a)
	reg.Subscribe("alice", b)

	first := &Event{Kind: EventReceiveMessage, Message: Message{Body: "first"}}
	second := &Event{Kind: EventReceiveMessage, Message: Message{Body: "second"}}
	reg.Publish("alice", first)
	reg.Publish("alice", second)

	for _, c := range []*Client{a, b} {
		if ev := mustEvent(t, c.Events, EventReceiveMessage); ev.Message.Body != "first" {
			t.Fatalf("client %s: expected first message, got %q", c.ID, ev.Message.Body)
		}
		if ev := mustEvent(t, c.Events, EventReceiveMessage); ev.Message.Body != "second" {
			t.Fatalf("client %s: expected second message, got %q", c.ID, ev.Message.Body)
		}
	}
}

// A connection that dies without a disconnect signal stays in the registry
// until its first failed delivery, at which point it is pruned from every
// room. Staleness is bounded, not eliminated.
func TestRegistryPrunesDeadClientOnFailedPublish(t *testing.T) {
	reg := NewRegistry(testLogger())
	dead := NewClient("dead", Identity{Username: "alice", Role: RoleAdmin})
	live := NewClient("live", Identity{Username: "admin1", Role: RoleAdmin})

	reg.Subscribe("alice", dead)
	reg.Subscribe(AdminRoom, dead)
	reg.Subscribe(AdminRoom, live)

	// Connection dies without telling the registry; membership lingers.
	dead.Close()
	if got := reg.Members(AdminRoom); got != 2 {
		t.Fatalf("expected dead client to linger, members=%d", got)
	}

	// First failed delivery prunes it from all rooms, and never affects
	// delivery to the live member.
	if n := reg.Publish(AdminRoom, &Event{Kind: EventReceiveMessage}); n != 1 {
		t.Fatalf("expected 1 successful delivery, got %d", n)
	}
	mustEvent(t, live.Events, EventReceiveMessage)

	if got := reg.Members(AdminRoom); got != 1 {
		t.Fatalf("expected dead client pruned from admin room, members=%d", got)
	}
	if got := reg.Members("alice"); got != 0 {
		t.Fatalf("expected dead client pruned from personal room, members=%d", got)
	}
}

func TestClientSendAfterCloseFails(t *testing.T) {
	c := NewClient("c1", Identity{Username: "alice", Role: RoleUser})
	c.Close()
	c.Close() // idempotent

	if err := c.Send(&Event{Kind: EventReceiveMessage}); err != ErrClientClosed {
		t.Fatalf("expected ErrClientClosed, got %v", err)
	}
}

func TestClientSendFullBufferFails(t *testing.T) {
	c := NewClient("c1", Identity{Username: "alice", Role: RoleUser})
	for i := 0; i < eventBuffer; i++ {
		if err := c.Send(&Event{Kind: EventReceiveMessage}); err != nil {
			t.Fatalf("send %d: %v", i, err)
		}
	}
	if err := c.Send(&Event{Kind: EventReceiveMessage}); err != ErrSlowClient {
		t.Fatalf("expected ErrSlowClient, got %v", err)
	}
}
