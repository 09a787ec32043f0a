package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"somweb-bridge/internal/domain/model"
	"somweb-bridge/internal/ports"
)

const (
	connectTimeout = 10 * time.Second
	publishTimeout = 5 * time.Second
	defaultQoS     = 1

	payloadOnline  = "online"
	payloadOffline = "offline"
)

// Publisher exposes doors to Home Assistant over MQTT: discovery configs,
// retained state/position/availability topics and a command subscription.
type Publisher struct {
	client pahomqtt.Client
	topics Topics
	log    *zap.Logger
}

var _ ports.StatePublisher = (*Publisher)(nil)

// Connect dials the broker and marks the bridge online. The broker keeps an
// "offline" will on the bridge availability topic for crash detection.
func Connect(cfg model.MQTTConfig, log *zap.Logger) (*Publisher, error) {
	clientID := cfg.ClientID
	if clientID == "" {
		clientID = "somweb-bridge-" + uuid.NewString()[:8]
	}
	topics := Topics{Prefix: cfg.TopicPrefix, DiscoveryPrefix: cfg.DiscoveryPrefix}

	opts := pahomqtt.NewClientOptions().
		AddBroker(cfg.BrokerURL).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetOrderMatters(false).
		SetWill(topics.BridgeAvailability(), payloadOffline, defaultQoS, true)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	p := &Publisher{
		client: pahomqtt.NewClient(opts),
		topics: topics,
		log:    log.Named("mqtt"),
	}

	token := p.client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("mqtt connect timed out after %v", connectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect failed: %w", err)
	}

	if err := p.publish(topics.BridgeAvailability(), payloadOnline, true); err != nil {
		return nil, err
	}
	return p, nil
}

// Announce publishes a retained discovery config per door.
func (p *Publisher) Announce(ctx context.Context, udi string, doors []model.Door) error {
	for _, d := range doors {
		msg := newDiscoveryMessage(udi, d, p.topics)
		payload, err := json.Marshal(msg)
		if err != nil {
			return err
		}
		if err := p.publish(p.topics.Discovery(msg.UniqueID), string(payload), true); err != nil {
			return err
		}
		p.log.Info("announced door", zap.String("unique_id", msg.UniqueID), zap.String("name", d.Name))
	}
	return nil
}

func (p *Publisher) PublishState(ctx context.Context, st ports.DoorState) error {
	availability := payloadOffline
	if st.Available {
		availability = payloadOnline
	}
	if err := p.publish(p.topics.Availability(st.DoorID), availability, true); err != nil {
		return err
	}

	// Unknown status publishes availability only; the last definite
	// state stays retained on the broker.
	if st.State == "" {
		return nil
	}
	if err := p.publish(p.topics.State(st.DoorID), st.State, true); err != nil {
		return err
	}
	return p.publish(p.topics.Position(st.DoorID), strconv.Itoa(st.Position), true)
}

func (p *Publisher) SubscribeCommands(ctx context.Context, handler ports.CommandHandler) error {
	token := p.client.Subscribe(p.topics.CommandFilter(), defaultQoS, func(_ pahomqtt.Client, msg pahomqtt.Message) {
		doorID, err := p.topics.ParseCommandDoorID(msg.Topic())
		if err != nil {
			p.log.Warn("ignoring message on unexpected topic", zap.String("topic", msg.Topic()))
			return
		}
		handler(doorID, strings.ToUpper(strings.TrimSpace(string(msg.Payload()))))
	})
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("command subscription timed out after %v", publishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("command subscription failed: %w", err)
	}
	return nil
}

// Close marks the bridge offline and disconnects.
func (p *Publisher) Close() {
	if err := p.publish(p.topics.BridgeAvailability(), payloadOffline, true); err != nil {
		p.log.Warn("offline publish failed", zap.Error(err))
	}
	p.client.Disconnect(250)
}

func (p *Publisher) publish(topic, payload string, retained bool) error {
	token := p.client.Publish(topic, defaultQoS, retained, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish to %s timed out after %v", topic, publishTimeout)
	}
	return token.Error()
}
