package service

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"somweb-bridge/internal/ports"
)

// CommandOpen and CommandClose are the Home Assistant cover command payloads.
const (
	CommandOpen  = "OPEN"
	CommandClose = "CLOSE"
)

// BridgeService ties one SOMweb session to the platform: it discovers doors,
// announces them, fans out the periodic poll and routes incoming commands.
type BridgeService struct {
	client    ports.DeviceClient
	publisher ports.StatePublisher
	session   *Session
	udi       string
	log       *zap.Logger

	mu    sync.RWMutex
	doors []*DoorEntity
}

func NewBridgeService(client ports.DeviceClient, publisher ports.StatePublisher, udi string, log *zap.Logger) *BridgeService {
	return &BridgeService{
		client:    client,
		publisher: publisher,
		session:   NewSession(client, log),
		udi:       udi,
		log:       log.Named("bridge"),
	}
}

// Setup authenticates, discovers doors and registers them with the platform.
// An authentication failure aborts startup; no entities are created.
func (s *BridgeService) Setup(ctx context.Context) error {
	if err := s.session.Authenticate(ctx); err != nil {
		return fmt.Errorf("setup authentication failed: %w", err)
	}

	doors, err := s.client.Doors(s.session.Page())
	if err != nil {
		return fmt.Errorf("door discovery failed: %w", err)
	}

	entities := make([]*DoorEntity, 0, len(doors))
	for _, d := range doors {
		entities = append(entities, NewDoorEntity(d, s.udi, s.session, s.client, s.publisher, s.log))
	}
	s.mu.Lock()
	s.doors = entities
	s.mu.Unlock()

	if err := s.publisher.Announce(ctx, s.udi, doors); err != nil {
		return fmt.Errorf("discovery announce failed: %w", err)
	}
	if err := s.publisher.SubscribeCommands(ctx, s.HandleCommand); err != nil {
		return fmt.Errorf("command subscription failed: %w", err)
	}

	s.log.Info("doors registered", zap.Int("count", len(entities)))
	return nil
}

// UpdateAll polls every door once. Doors are updated sequentially; a single
// door in trouble triggers at most one shared reconnect per pass.
func (s *BridgeService) UpdateAll(ctx context.Context) {
	for _, e := range s.Doors() {
		e.Update(ctx)
	}
}

// HandleCommand routes an OPEN/CLOSE payload to the addressed door.
// Unknown doors and payloads are logged and ignored.
func (s *BridgeService) HandleCommand(doorID int, command string) {
	e := s.door(doorID)
	if e == nil {
		s.log.Warn("command for unknown door", zap.Int("door", doorID))
		return
	}

	ctx := context.Background()
	switch command {
	case CommandOpen:
		e.Open(ctx)
	case CommandClose:
		e.Close(ctx)
	default:
		s.log.Warn("unsupported command payload",
			zap.Int("door", doorID),
			zap.String("payload", command))
	}
}

func (s *BridgeService) Doors() []*DoorEntity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doors := make([]*DoorEntity, len(s.doors))
	copy(doors, s.doors)
	return doors
}

func (s *BridgeService) door(id int) *DoorEntity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.doors {
		if e.ID() == id {
			return e
		}
	}
	return nil
}
