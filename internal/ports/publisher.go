package ports

import (
	"context"

	"somweb-bridge/internal/domain/model"
)

// DoorState is the externally visible state of one door entity.
type DoorState struct {
	DoorID   int
	UniqueID string
	// State is a Home Assistant cover state payload:
	// "open", "closed", "opening" or "closing".
	// Empty when the status is unknown; availability carries the signal then.
	State     string
	Position  int
	Available bool
}

// CommandHandler receives OPEN/CLOSE payloads addressed to a door.
type CommandHandler func(doorID int, command string)

// StatePublisher is the boundary to the host smart-home platform.
type StatePublisher interface {
	// Announce registers the doors with the platform (discovery).
	Announce(ctx context.Context, udi string, doors []model.Door) error
	PublishState(ctx context.Context, state DoorState) error
	SubscribeCommands(ctx context.Context, handler CommandHandler) error
}
