package core

import (
	"fmt"
	"sort"
	"sync"
)

// Registry owns every room and session. It is the single shared piece of
// state between connection handlers; all access goes through one mutex at the
// aggregate boundary so join, leave and broadcast are atomic with respect to
// each other.
//
// Rooms are provisioned once at construction and never created or destroyed
// afterwards.
type Registry struct {
	mu       sync.Mutex
	rooms    map[string]*Room
	sessions map[int64]*Session
	nextID   int64

	outboxCap int
	roomCap   int // 0 means unlimited
}

// Option tweaks registry construction.
type Option func(*Registry)

// WithRoomCapacity bounds how many members a room accepts; 0 is unlimited.
func WithRoomCapacity(n int) Option {
	return func(r *Registry) { r.roomCap = n }
}

// NewRegistry provisions the given rooms. outboxCap bounds each client's
// outbound queue.
func NewRegistry(roomIDs []string, outboxCap int, opts ...Option) *Registry {
	r := &Registry{
		rooms:     make(map[string]*Room, len(roomIDs)),
		sessions:  make(map[int64]*Session),
		outboxCap: outboxCap,
	}
	for _, opt := range opts {
		opt(r)
	}
	for _, id := range roomIDs {
		if _, exists := r.rooms[id]; !exists {
			r.rooms[id] = NewRoom(id)
		}
	}
	return r
}

// AllocateClient assigns the next unused id and registers a session with no
// current room. The returned outbox is what the connection's drain goroutine
// consumes.
func (r *Registry) AllocateClient() (int64, *Outbox) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextID
	r.nextID++

	out := NewOutbox(r.outboxCap)
	r.sessions[id] = &Session{ID: id, Outbox: out}
	return id, out
}

// JoinRoom makes the client a member of roomID and sets it as the current
// room, both under one lock hold so the mirrored state cannot diverge.
// It fails with ErrRoomNotFound for unknown rooms and with ErrAlreadyInRoom
// when the client already has a current room; switching rooms requires an
// explicit leave first. Joining by an already-departed client is a no-op.
func (r *Registry) JoinRoom(clientID int64, roomID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, exists := r.rooms[roomID]
	if !exists {
		return fmt.Errorf("join %q: %w", roomID, ErrRoomNotFound)
	}
	sess, exists := r.sessions[clientID]
	if !exists {
		return nil
	}
	if sess.room != "" {
		return fmt.Errorf("join %q: %w", roomID, ErrAlreadyInRoom)
	}
	if r.roomCap > 0 && room.Len() >= r.roomCap {
		return fmt.Errorf("join %q: %w", roomID, ErrRoomFull)
	}

	room.add(sess)
	sess.room = roomID
	return nil
}

// LeaveRoom removes membership and clears the current room, but only when the
// current room actually equals roomID. Leaving by an already-departed client
// is a no-op.
func (r *Registry) LeaveRoom(clientID int64, roomID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, exists := r.rooms[roomID]
	if !exists {
		return fmt.Errorf("leave %q: %w", roomID, ErrRoomNotFound)
	}
	sess, exists := r.sessions[clientID]
	if !exists {
		return nil
	}
	if sess.room != roomID || !room.contains(clientID) {
		return fmt.Errorf("leave %q: %w", roomID, ErrNotInRoom)
	}

	room.remove(clientID)
	sess.room = ""
	return nil
}

// Lookup returns a snapshot of the client's session. Absence means the client
// already disconnected; callers treat that as "silently drop", not an error.
func (r *Registry) Lookup(clientID int64) (SessionView, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, exists := r.sessions[clientID]
	if !exists {
		return SessionView{}, false
	}
	return sess.view(), true
}

// RemoveClient destroys the session and scrubs the id from every room's
// member set. The full-room scan is deliberate: it runs once per disconnect
// and guarantees no stale membership survives even if the mirrored state was
// somehow broken. Idempotent.
func (r *Registry) RemoveClient(clientID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, exists := r.sessions[clientID]
	if exists {
		sess.Outbox.Close()
		delete(r.sessions, clientID)
	}
	for _, room := range r.rooms {
		room.remove(clientID)
	}
}

// Broadcast delivers "[<from>] <text>" to every other member of roomID. The
// sender must currently be a member; that check stops spoofed broadcasts to
// rooms the sender has left. A full or closed recipient outbox is skipped
// without failing the rest of the fan-out; the drop count is returned so the
// transport can log it.
func (r *Registry) Broadcast(from int64, roomID, text string) (dropped int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, exists := r.rooms[roomID]
	if !exists {
		return 0, fmt.Errorf("broadcast to %q: %w", roomID, ErrRoomNotFound)
	}
	sess, exists := r.sessions[from]
	if !exists || sess.room != roomID || !room.contains(from) {
		return 0, fmt.Errorf("broadcast to %q: %w", roomID, ErrNotInRoom)
	}

	line := fmt.Sprintf("[%d] %s", from, text)
	return room.broadcast(from, line), nil
}

// ListRooms returns the provisioned room ids, sorted for stable output; the
// order carries no meaning.
func (r *Registry) ListRooms() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.rooms))
	for id := range r.rooms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// RoomStat describes one room's occupancy.
type RoomStat struct {
	ID      string `json:"id"`
	Members int    `json:"members"`
}

// Stats snapshots room occupancy and the connected-client total.
func (r *Registry) Stats() (rooms []RoomStat, clients int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rooms = make([]RoomStat, 0, len(r.rooms))
	for id, room := range r.rooms {
		rooms = append(rooms, RoomStat{ID: id, Members: room.Len()})
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID < rooms[j].ID })
	return rooms, len(r.sessions)
}
