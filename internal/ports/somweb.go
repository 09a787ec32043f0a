package ports

import (
	"context"

	"somweb-bridge/internal/domain/model"
)

// AuthResult carries the outcome of a successful portal login.
type AuthResult struct {
	// Token is the webtoken required by subsequent door commands.
	Token string
	// Page is the authenticated portal page; the door list is parsed from it.
	Page string
}

// DeviceClient is the boundary to one SOMweb controller.
type DeviceClient interface {
	Authenticate(ctx context.Context) (AuthResult, error)
	IsAlive(ctx context.Context) bool
	Doors(page string) ([]model.Door, error)
	DoorStatus(ctx context.Context, doorID int) (model.DoorStatus, error)
	OpenDoor(ctx context.Context, token string, doorID int) error
	CloseDoor(ctx context.Context, token string, doorID int) error

	// WaitForStatus blocks until the door reports target, the travel
	// timeout elapses, or ctx is done. It reports whether target was seen.
	WaitForStatus(ctx context.Context, doorID int, target model.DoorStatus) bool
}
