package core

// Room groups sessions subscribed to the same channel. Membership is a set,
// so repeated joins cannot create duplicate delivery targets.
type Room struct {
	ID      string
	members map[int64]*Session
}

// NewRoom constructs a room with no members.
func NewRoom(id string) *Room {
	return &Room{
		ID:      id,
		members: make(map[int64]*Session),
	}
}

func (r *Room) add(s *Session) bool {
	if _, exists := r.members[s.ID]; exists {
		return false
	}
	r.members[s.ID] = s
	return true
}

func (r *Room) remove(id int64) bool {
	if _, exists := r.members[id]; !exists {
		return false
	}
	delete(r.members, id)
	return true
}

func (r *Room) contains(id int64) bool {
	_, exists := r.members[id]
	return exists
}

// Len returns the number of members.
func (r *Room) Len() int {
	return len(r.members)
}

// broadcast enqueues line to every member except the sender. Recipients whose
// outbox is full or closed are skipped; the number of drops is returned.
func (r *Room) broadcast(from int64, line string) (dropped int) {
	for id, member := range r.members {
		if id == from {
			continue
		}
		if !member.Outbox.TrySend(line) {
			dropped++
		}
	}
	return dropped
}
