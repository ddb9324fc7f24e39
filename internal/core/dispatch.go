package core

import (
	"fmt"
	"strings"
)

const helpLine = "Commands: /join <room>, /leave, /list, /help, /quit"

// DispatchResult is what one inbound line produced: reply lines for the
// sender, whether the session should keep running, and how many broadcast
// recipients were skipped because their queue was full or closed.
type DispatchResult struct {
	Replies   []string
	Terminate bool
	Dropped   int
}

// Dispatcher turns inbound lines into registry mutations and replies. It
// holds no state of its own beyond the registry handle and the lobby id, so
// one instance is shared by every connection handler.
type Dispatcher struct {
	reg   *Registry
	lobby string
}

// NewDispatcher builds a dispatcher over reg with the given lobby room.
func NewDispatcher(reg *Registry, lobby string) *Dispatcher {
	return &Dispatcher{reg: reg, lobby: lobby}
}

// Lobby returns the lobby room id.
func (d *Dispatcher) Lobby() string {
	return d.lobby
}

// Dispatch applies one non-empty line from clientID. Registry errors become
// reply lines, never faults: a bad command degrades the session, it does not
// end it. Only /quit terminates.
func (d *Dispatcher) Dispatch(clientID int64, line string) DispatchResult {
	cmd := ParseCommand(line)

	switch cmd.Kind {
	case CommandQuit:
		return DispatchResult{Replies: []string{"Goodbye!"}, Terminate: true}
	case CommandJoin:
		return d.join(clientID, cmd.Room)
	case CommandLeave:
		return d.leave(clientID)
	case CommandHelp:
		return DispatchResult{Replies: []string{helpLine}}
	case CommandList:
		return DispatchResult{Replies: []string{"Rooms: " + strings.Join(d.reg.ListRooms(), ", ")}}
	default:
		return d.chat(clientID, cmd.Text)
	}
}

// join switches rooms: the current room, if any, is left first. Joining the
// room the client is already in therefore succeeds as a leave-and-rejoin.
func (d *Dispatcher) join(clientID int64, room string) DispatchResult {
	if room == "" {
		return DispatchResult{Replies: []string{"Failed to join room: missing room name"}}
	}

	view, ok := d.reg.Lookup(clientID)
	if !ok {
		return DispatchResult{}
	}
	if view.InRoom {
		if err := d.reg.LeaveRoom(clientID, view.Room); err != nil {
			return DispatchResult{Replies: []string{"Failed to join room: " + AsCoreError(err).Message}}
		}
	}

	if err := d.reg.JoinRoom(clientID, room); err != nil {
		return DispatchResult{Replies: []string{"Failed to join room: " + AsCoreError(err).Message}}
	}
	return DispatchResult{Replies: []string{fmt.Sprintf("You joined room '%s'", room)}}
}

func (d *Dispatcher) leave(clientID int64) DispatchResult {
	view, ok := d.reg.Lookup(clientID)
	if !ok {
		return DispatchResult{}
	}
	if !view.InRoom {
		return DispatchResult{Replies: []string{"You're not in any room"}}
	}

	if err := d.reg.LeaveRoom(clientID, view.Room); err != nil {
		return DispatchResult{Replies: []string{"Failed to leave room: " + AsCoreError(err).Message}}
	}

	replies := []string{fmt.Sprintf("You left room %s", view.Room)}
	if err := d.reg.JoinRoom(clientID, d.lobby); err != nil {
		replies = append(replies, "Failed to join room: "+AsCoreError(err).Message)
	} else {
		replies = append(replies, "You joined the lobby")
	}
	return DispatchResult{Replies: replies}
}

// chat broadcasts free text to the current room. The lobby is a staging area,
// not a chat room: plain text typed there gets guidance instead of a
// broadcast to an arbitrary set of strangers.
func (d *Dispatcher) chat(clientID int64, text string) DispatchResult {
	view, ok := d.reg.Lookup(clientID)
	if !ok {
		return DispatchResult{}
	}
	if !view.InRoom {
		return DispatchResult{Replies: []string{"You're not in any room. Use '/join 1-10' to join a room"}}
	}
	if view.Room == d.lobby {
		return DispatchResult{Replies: []string{"You're in the lobby. Use '/join <room>' to enter a room before chatting"}}
	}

	dropped, err := d.reg.Broadcast(clientID, view.Room, text)
	if err != nil {
		return DispatchResult{Replies: []string{"Failed to send message: " + AsCoreError(err).Message}}
	}
	return DispatchResult{Dropped: dropped}
}
