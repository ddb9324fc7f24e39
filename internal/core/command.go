package core

import "strings"

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandQuit ends the session.
	CommandQuit CommandKind = iota
	// CommandJoin subscribes the client to a room.
	CommandJoin
	// CommandLeave unsubscribes the client from its current room.
	CommandLeave
	// CommandHelp requests the command summary.
	CommandHelp
	// CommandList requests the provisioned room list.
	CommandList
	// CommandChat sends free text to the client's current room.
	CommandChat
)

// Command is one parsed inbound line.
type Command struct {
	Kind CommandKind
	Room string
	Text string
}

// ParseCommand maps a trimmed, non-empty line to its command. Recognized
// forms are tested in priority order; anything unrecognized is chat text.
func ParseCommand(line string) Command {
	switch {
	case line == "/quit":
		return Command{Kind: CommandQuit}
	case line == "/join" || strings.HasPrefix(line, "/join "):
		room := strings.TrimSpace(strings.TrimPrefix(line, "/join"))
		return Command{Kind: CommandJoin, Room: room}
	case line == "/leave":
		return Command{Kind: CommandLeave}
	case line == "/help":
		return Command{Kind: CommandHelp}
	case line == "/list":
		return Command{Kind: CommandList}
	default:
		return Command{Kind: CommandChat, Text: line}
	}
}
