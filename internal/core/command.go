package core

import "context"

// CmdRouter executes a normalized slash command for a room. The boolean
// reports whether the input was handled as a command at all.
type CmdRouter interface {
	Execute(ctx context.Context, roomID, input string) (string, bool)
	ListCommands() []Command
}

type Command interface {
	Name() string
	Description() string
	Execute(ctx context.Context, roomID string, args []string) (string, error)
}
