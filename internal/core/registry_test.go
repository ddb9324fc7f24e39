package core

import (
	"errors"
	"testing"
)

func TestAllocateClientIDsAreUnique(t *testing.T) {
	reg := newTestRegistry()

	seen := make(map[int64]struct{})
	for range 100 {
		id, _ := reg.AllocateClient()
		if _, dup := seen[id]; dup {
			t.Fatalf("client id %d allocated twice", id)
		}
		seen[id] = struct{}{}
	}
}

func TestJoinLeaveRoundTrip(t *testing.T) {
	reg := newTestRegistry()
	id, _ := reg.AllocateClient()

	if err := reg.JoinRoom(id, "1"); err != nil {
		t.Fatalf("join: %v", err)
	}

	view, ok := reg.Lookup(id)
	if !ok || !view.InRoom || view.Room != "1" {
		t.Fatalf("unexpected view after join: %+v", view)
	}
	if got := memberCount(t, reg, "1"); got != 1 {
		t.Fatalf("membership after join = %d, want 1", got)
	}

	if err := reg.LeaveRoom(id, "1"); err != nil {
		t.Fatalf("leave: %v", err)
	}

	view, ok = reg.Lookup(id)
	if !ok || view.InRoom {
		t.Fatalf("expected no current room after leave, got %+v", view)
	}
	if got := memberCount(t, reg, "1"); got != 0 {
		t.Fatalf("membership after leave = %d, want 0", got)
	}

	if err := reg.LeaveRoom(id, "1"); !errors.Is(err, ErrNotInRoom) {
		t.Fatalf("second leave = %v, want ErrNotInRoom", err)
	}
}

func TestDoubleJoinRejected(t *testing.T) {
	reg := newTestRegistry()
	id, _ := reg.AllocateClient()

	if err := reg.JoinRoom(id, "1"); err != nil {
		t.Fatalf("first join: %v", err)
	}
	if err := reg.JoinRoom(id, "1"); !errors.Is(err, ErrAlreadyInRoom) {
		t.Fatalf("second join = %v, want ErrAlreadyInRoom", err)
	}
	if got := memberCount(t, reg, "1"); got != 1 {
		t.Fatalf("membership = %d, want exactly 1", got)
	}
}

func TestJoinWhileInAnotherRoomRejected(t *testing.T) {
	reg := newTestRegistry()
	id, _ := reg.AllocateClient()

	if err := reg.JoinRoom(id, "1"); err != nil {
		t.Fatalf("join: %v", err)
	}

	// Switching rooms requires an explicit leave first; a direct join while a
	// member elsewhere would let the mirrored state diverge.
	if err := reg.JoinRoom(id, "2"); !errors.Is(err, ErrAlreadyInRoom) {
		t.Fatalf("join second room = %v, want ErrAlreadyInRoom", err)
	}
	if got := memberCount(t, reg, "2"); got != 0 {
		t.Fatalf("room 2 membership = %d, want 0", got)
	}
}

func TestJoinUnknownRoom(t *testing.T) {
	reg := newTestRegistry()
	id, _ := reg.AllocateClient()

	if err := reg.JoinRoom(id, "ghost"); !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("join unknown room = %v, want ErrRoomNotFound", err)
	}
}

func TestJoinByDepartedClientIsNoop(t *testing.T) {
	reg := newTestRegistry()
	id, _ := reg.AllocateClient()
	reg.RemoveClient(id)

	if err := reg.JoinRoom(id, "1"); err != nil {
		t.Fatalf("join by departed client = %v, want nil (silent drop)", err)
	}
	if got := memberCount(t, reg, "1"); got != 0 {
		t.Fatalf("membership = %d, want 0", got)
	}
}

func TestBroadcastExclusivityByRoom(t *testing.T) {
	reg := newTestRegistry()

	sender, senderOut := reg.AllocateClient()
	peer, peerOut := reg.AllocateClient()
	outsider, outsiderOut := reg.AllocateClient()

	for id, room := range map[int64]string{sender: "1", peer: "1", outsider: "2"} {
		if err := reg.JoinRoom(id, room); err != nil {
			t.Fatalf("join: %v", err)
		}
	}

	dropped, err := reg.Broadcast(sender, "1", "hello")
	if err != nil {
		t.Fatalf("broadcast: %v", err)
	}
	if dropped != 0 {
		t.Fatalf("dropped = %d, want 0", dropped)
	}

	if got := mustLine(t, peerOut); got != "[0] hello" {
		t.Fatalf("peer received %q, want %q", got, "[0] hello")
	}
	mustNoLine(t, senderOut)
	mustNoLine(t, outsiderOut)
}

func TestBroadcastRequiresMembership(t *testing.T) {
	reg := newTestRegistry()
	id, _ := reg.AllocateClient()

	if _, err := reg.Broadcast(id, "1", "hi"); !errors.Is(err, ErrNotInRoom) {
		t.Fatalf("broadcast without membership = %v, want ErrNotInRoom", err)
	}

	if err := reg.JoinRoom(id, "1"); err != nil {
		t.Fatalf("join: %v", err)
	}
	if err := reg.LeaveRoom(id, "1"); err != nil {
		t.Fatalf("leave: %v", err)
	}
	if _, err := reg.Broadcast(id, "1", "hi"); !errors.Is(err, ErrNotInRoom) {
		t.Fatalf("broadcast after leave = %v, want ErrNotInRoom", err)
	}
}

func TestBroadcastToUnknownRoom(t *testing.T) {
	reg := newTestRegistry()
	id, _ := reg.AllocateClient()

	if _, err := reg.Broadcast(id, "ghost", "hi"); !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("broadcast to unknown room = %v, want ErrRoomNotFound", err)
	}
}

func TestBroadcastSkipsStalledRecipient(t *testing.T) {
	reg := NewRegistry([]string{"1"}, 1)

	sender, _ := reg.AllocateClient()
	stalled, stalledOut := reg.AllocateClient()
	healthy, healthyOut := reg.AllocateClient()

	for _, id := range []int64{sender, stalled, healthy} {
		if err := reg.JoinRoom(id, "1"); err != nil {
			t.Fatalf("join: %v", err)
		}
	}

	// Fill the stalled recipient's queue to capacity.
	if !stalledOut.TrySend("backlog") {
		t.Fatal("priming send failed")
	}

	dropped, err := reg.Broadcast(sender, "1", "hello")
	if err != nil {
		t.Fatalf("broadcast: %v", err)
	}
	if dropped != 1 {
		t.Fatalf("dropped = %d, want 1", dropped)
	}
	if got := mustLine(t, healthyOut); got != "[0] hello" {
		t.Fatalf("healthy recipient got %q", got)
	}
}

func TestRemoveClientCleansEveryRoom(t *testing.T) {
	reg := newTestRegistry()
	id, out := reg.AllocateClient()

	if err := reg.JoinRoom(id, "1"); err != nil {
		t.Fatalf("join: %v", err)
	}

	reg.RemoveClient(id)

	if _, ok := reg.Lookup(id); ok {
		t.Fatal("lookup succeeded after RemoveClient")
	}
	rooms, clients := reg.Stats()
	for _, st := range rooms {
		if st.Members != 0 {
			t.Fatalf("room %s still has %d members", st.ID, st.Members)
		}
	}
	if clients != 0 {
		t.Fatalf("clients = %d, want 0", clients)
	}

	// The outbox is closed so the drain goroutine can exit.
	if _, ok := <-out.Lines(); ok {
		t.Fatal("outbox still open after RemoveClient")
	}

	// Idempotent.
	reg.RemoveClient(id)
}

func TestSendToClosedOutboxIsDrop(t *testing.T) {
	reg := newTestRegistry()

	sender, _ := reg.AllocateClient()
	stale, staleOut := reg.AllocateClient()

	if err := reg.JoinRoom(sender, "1"); err != nil {
		t.Fatalf("join: %v", err)
	}
	if err := reg.JoinRoom(stale, "1"); err != nil {
		t.Fatalf("join: %v", err)
	}

	// Close the recipient's queue directly, as if its drain just died; the
	// membership entry is still there until RemoveClient runs.
	staleOut.Close()

	dropped, err := reg.Broadcast(sender, "1", "hello")
	if err != nil {
		t.Fatalf("broadcast: %v", err)
	}
	if dropped != 1 {
		t.Fatalf("dropped = %d, want 1", dropped)
	}
}

func TestRoomCapacity(t *testing.T) {
	reg := NewRegistry([]string{"1"}, 8, WithRoomCapacity(1))

	first, _ := reg.AllocateClient()
	second, _ := reg.AllocateClient()

	if err := reg.JoinRoom(first, "1"); err != nil {
		t.Fatalf("first join: %v", err)
	}
	if err := reg.JoinRoom(second, "1"); !errors.Is(err, ErrRoomFull) {
		t.Fatalf("second join = %v, want ErrRoomFull", err)
	}
}

func TestListRooms(t *testing.T) {
	reg := NewRegistry([]string{"2", "0", "1"}, 8)

	got := reg.ListRooms()
	want := []string{"0", "1", "2"}
	if len(got) != len(want) {
		t.Fatalf("ListRooms = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ListRooms = %v, want %v", got, want)
		}
	}
}
