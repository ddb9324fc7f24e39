package core

import (
	"testing"
	"time"
)

func newTestRegistry(rooms ...string) *Registry {
	if len(rooms) == 0 {
		rooms = []string{"0", "1", "2"}
	}
	return NewRegistry(rooms, 8)
}

func mustLine(t *testing.T, out *Outbox) string {
	t.Helper()

	select {
	case line, ok := <-out.Lines():
		if !ok {
			t.Fatal("outbox closed while waiting for a line")
		}
		return line
	case <-time.After(2 * time.Second):
		t.Fatal("expected line not received")
	}
	return ""
}

func mustNoLine(t *testing.T, out *Outbox) {
	t.Helper()

	select {
	case line := <-out.Lines():
		t.Fatalf("expected empty outbox, got %q", line)
	default:
	}
}

func memberCount(t *testing.T, reg *Registry, room string) int {
	t.Helper()

	rooms, _ := reg.Stats()
	for _, st := range rooms {
		if st.ID == room {
			return st.Members
		}
	}
	t.Fatalf("room %q not provisioned", room)
	return 0
}
