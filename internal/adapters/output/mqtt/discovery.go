package mqtt

import (
	"fmt"

	"somweb-bridge/internal/domain/model"
)

// discoveryMessage is the Home Assistant MQTT discovery config for a cover.
type discoveryMessage struct {
	Name              string          `json:"name"`
	UniqueID          string          `json:"unique_id"`
	CommandTopic      string          `json:"command_topic"`
	StateTopic        string          `json:"state_topic"`
	PositionTopic     string          `json:"position_topic"`
	AvailabilityTopic string          `json:"availability_topic"`
	DeviceClass       string          `json:"device_class"`
	PayloadOpen       string          `json:"payload_open"`
	PayloadClose      string          `json:"payload_close"`
	PayloadStop       *string         `json:"payload_stop"`
	Device            discoveryDevice `json:"device"`
}

type discoveryDevice struct {
	Identifiers  []string `json:"identifiers"`
	Name         string   `json:"name"`
	Manufacturer string   `json:"manufacturer"`
	Model        string   `json:"model"`
}

func newDiscoveryMessage(udi string, door model.Door, topics Topics) discoveryMessage {
	return discoveryMessage{
		Name:              door.Name,
		UniqueID:          fmt.Sprintf("%s_%d", udi, door.ID),
		CommandTopic:      topics.Command(door.ID),
		StateTopic:        topics.State(door.ID),
		PositionTopic:     topics.Position(door.ID),
		AvailabilityTopic: topics.Availability(door.ID),
		DeviceClass:       "garage",
		PayloadOpen:       "OPEN",
		PayloadClose:      "CLOSE",
		// null: the door cannot stop mid-travel, so no STOP button.
		PayloadStop: nil,
		Device: discoveryDevice{
			Identifiers:  []string{udi},
			Name:         fmt.Sprintf("SOMweb %s", udi),
			Manufacturer: "SOMMER",
			Model:        "SOMweb",
		},
	}
}
