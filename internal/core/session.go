package core

// Session is one live client connection as the registry sees it.
type Session struct {
	ID     int64
	Outbox *Outbox

	// room is the current room id, empty when the client is in no room.
	// It mirrors room membership: non-empty iff the id is in exactly that
	// room's member set. Only the registry mutates it, under its lock.
	room string
}

// SessionView is a read-only snapshot of a session for decision-making.
type SessionView struct {
	ID     int64
	Room   string
	InRoom bool
}

func (s *Session) view() SessionView {
	return SessionView{
		ID:     s.ID,
		Room:   s.room,
		InRoom: s.room != "",
	}
}
