package service

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"somweb-bridge/internal/domain/model"
	"somweb-bridge/internal/ports"
)

// DoorEntity is one garage door exposed to the platform as a cover.
// It delegates every remote call to the shared session's client.
type DoorEntity struct {
	door      model.Door
	uniqueID  string
	session   *Session
	client    ports.DeviceClient
	publisher ports.StatePublisher
	log       *zap.Logger

	mu        sync.RWMutex
	status    model.DoorStatus
	opening   bool
	closing   bool
	available bool
}

func NewDoorEntity(door model.Door, udi string, session *Session, client ports.DeviceClient, publisher ports.StatePublisher, log *zap.Logger) *DoorEntity {
	uniqueID := fmt.Sprintf("%s_%d", udi, door.ID)
	return &DoorEntity{
		door:      door,
		uniqueID:  uniqueID,
		session:   session,
		client:    client,
		publisher: publisher,
		log:       log.Named("door").With(zap.String("id", uniqueID)),
	}
}

func (e *DoorEntity) ID() int          { return e.door.ID }
func (e *DoorEntity) Name() string     { return e.door.Name }
func (e *DoorEntity) UniqueID() string { return e.uniqueID }

func (e *DoorEntity) Available() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.available
}

func (e *DoorEntity) Status() model.DoorStatus {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.status
}

// Position reports 0 for closed, 100 for open and 50 for unknown.
func (e *DoorEntity) Position() int {
	return e.Status().Position()
}

func (e *DoorEntity) IsClosed() bool {
	return e.Status() == model.StatusClosed
}

func (e *DoorEntity) IsOpening() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.opening
}

func (e *DoorEntity) IsClosing() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.closing
}

// RefreshStatus queries the door and reports whether a definite status came
// back. Failures never propagate: they degrade to unknown and unavailable.
func (e *DoorEntity) RefreshStatus(ctx context.Context) bool {
	status, err := e.client.DoorStatus(ctx, e.door.ID)
	if err != nil {
		e.log.Warn("status query failed", zap.Error(err))
		status = model.StatusUnknown
	}

	e.mu.Lock()
	e.status = status
	e.available = status != model.StatusUnknown
	ok := e.available
	e.mu.Unlock()
	return ok
}

// Update is the periodic poll entry point. A failed refresh gets exactly one
// reconnect-and-retry before the door is left unavailable until the next poll.
func (e *DoorEntity) Update(ctx context.Context) {
	defer e.publishState(ctx)

	if e.RefreshStatus(ctx) {
		return
	}
	if !e.session.Reconnect(ctx) {
		return
	}
	e.RefreshStatus(ctx)
}

func (e *DoorEntity) Open(ctx context.Context) {
	e.command(ctx, model.StatusOpen)
}

func (e *DoorEntity) Close(ctx context.Context) {
	e.command(ctx, model.StatusClosed)
}

// command issues the door action and waits for the door to reach target.
// Whatever happens, the deferred block clears the transient flag, forces a
// refresh and publishes, so the operator always sees the real resulting state.
func (e *DoorEntity) command(ctx context.Context, target model.DoorStatus) {
	e.setTransient(target, true)
	e.publishState(ctx)

	defer func() {
		e.setTransient(target, false)
		e.RefreshStatus(ctx)
		e.publishState(ctx)
	}()

	var err error
	switch target {
	case model.StatusOpen:
		err = e.client.OpenDoor(ctx, e.session.Token(), e.door.ID)
	case model.StatusClosed:
		err = e.client.CloseDoor(ctx, e.session.Token(), e.door.ID)
	}
	if err != nil {
		e.log.Error("door command failed",
			zap.String("target", target.String()),
			zap.Error(err))
		return
	}

	e.client.WaitForStatus(ctx, e.door.ID, target)
}

// setTransient keeps opening and closing mutually exclusive.
func (e *DoorEntity) setTransient(target model.DoorStatus, active bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opening = active && target == model.StatusOpen
	e.closing = active && target == model.StatusClosed
}

func (e *DoorEntity) publishState(ctx context.Context) {
	e.mu.RLock()
	st := ports.DoorState{
		DoorID:    e.door.ID,
		UniqueID:  e.uniqueID,
		Position:  e.status.Position(),
		Available: e.available,
	}
	switch {
	case e.opening:
		st.State = "opening"
		st.Available = true
	case e.closing:
		st.State = "closing"
		st.Available = true
	case e.status != model.StatusUnknown:
		st.State = e.status.String()
	}
	e.mu.RUnlock()

	if err := e.publisher.PublishState(ctx, st); err != nil {
		e.log.Warn("state publish failed", zap.Error(err))
	}
}
