package service

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"somweb-bridge/internal/domain/model"
	"somweb-bridge/internal/ports"
)

type MockDeviceClient struct {
	mock.Mock
}

func (m *MockDeviceClient) Authenticate(ctx context.Context) (ports.AuthResult, error) {
	args := m.Called(ctx)
	return args.Get(0).(ports.AuthResult), args.Error(1)
}

func (m *MockDeviceClient) IsAlive(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

func (m *MockDeviceClient) Doors(page string) ([]model.Door, error) {
	args := m.Called(page)
	return args.Get(0).([]model.Door), args.Error(1)
}

func (m *MockDeviceClient) DoorStatus(ctx context.Context, doorID int) (model.DoorStatus, error) {
	args := m.Called(ctx, doorID)
	return args.Get(0).(model.DoorStatus), args.Error(1)
}

func (m *MockDeviceClient) OpenDoor(ctx context.Context, token string, doorID int) error {
	args := m.Called(ctx, token, doorID)
	return args.Error(0)
}

func (m *MockDeviceClient) CloseDoor(ctx context.Context, token string, doorID int) error {
	args := m.Called(ctx, token, doorID)
	return args.Error(0)
}

func (m *MockDeviceClient) WaitForStatus(ctx context.Context, doorID int, target model.DoorStatus) bool {
	args := m.Called(ctx, doorID, target)
	return args.Bool(0)
}

// recorderPublisher captures everything published so tests can assert on
// the exact state sequence a door emitted.
type recorderPublisher struct {
	mu           sync.Mutex
	states       []ports.DoorState
	announcedUDI string
	announced    []model.Door
	handler      ports.CommandHandler
}

func (r *recorderPublisher) Announce(ctx context.Context, udi string, doors []model.Door) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.announcedUDI = udi
	r.announced = append(r.announced, doors...)
	return nil
}

func (r *recorderPublisher) PublishState(ctx context.Context, state ports.DoorState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, state)
	return nil
}

func (r *recorderPublisher) SubscribeCommands(ctx context.Context, handler ports.CommandHandler) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handler = handler
	return nil
}

func (r *recorderPublisher) States() []ports.DoorState {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ports.DoorState, len(r.states))
	copy(out, r.states)
	return out
}
