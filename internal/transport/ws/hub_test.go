package ws

import (
	"encoding/json"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestBroadcastReachesEveryClient(t *testing.T) {
	hub := NewHub(zap.NewNop())

	a := &Client{hub: hub, send: make(chan []byte, 1)}
	b := &Client{hub: hub, send: make(chan []byte, 1)}
	hub.register <- a
	hub.register <- b

	hub.Broadcast("session_updated", map[string]string{"status": "active"})

	for _, c := range []*Client{a, b} {
		select {
		case data := <-c.send:
			var msg Message
			if err := json.Unmarshal(data, &msg); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if msg.Type != "session_updated" {
				t.Fatalf("type = %q", msg.Type)
			}
		case <-time.After(time.Second):
			t.Fatal("client never received the broadcast")
		}
	}
}

func TestSlowClientIsDropped(t *testing.T) {
	hub := NewHub(zap.NewNop())

	slow := &Client{hub: hub, send: make(chan []byte)} // unbuffered, never read
	hub.register <- slow

	hub.Broadcast("timer_tick", map[string]int{"remainingTime": 10})

	// The dispatch loop closes the send channel when it drops a client.
	select {
	case _, ok := <-slow.send:
		if ok {
			t.Fatal("expected the send channel to be closed")
		}
	case <-time.After(time.Second):
		t.Fatal("slow client was not dropped")
	}
}

func TestUnregisterClosesSendChannel(t *testing.T) {
	hub := NewHub(zap.NewNop())

	c := &Client{hub: hub, send: make(chan []byte, 1)}
	hub.register <- c
	hub.unregister <- c

	select {
	case _, ok := <-c.send:
		if ok {
			t.Fatal("expected the send channel to be closed")
		}
	case <-time.After(time.Second):
		t.Fatal("send channel was not closed")
	}
}
