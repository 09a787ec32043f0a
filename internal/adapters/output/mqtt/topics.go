package mqtt

import (
	"fmt"
	"strconv"
	"strings"
)

// Topics builds and parses the bridge's topic space, e.g.
// somweb/door/2/state and homeassistant/cover/<udi>_2/config.
type Topics struct {
	Prefix          string
	DiscoveryPrefix string
}

func (t Topics) State(doorID int) string {
	return fmt.Sprintf("%s/door/%d/state", t.Prefix, doorID)
}

func (t Topics) Position(doorID int) string {
	return fmt.Sprintf("%s/door/%d/position", t.Prefix, doorID)
}

func (t Topics) Availability(doorID int) string {
	return fmt.Sprintf("%s/door/%d/availability", t.Prefix, doorID)
}

func (t Topics) Command(doorID int) string {
	return fmt.Sprintf("%s/door/%d/command", t.Prefix, doorID)
}

// CommandFilter is the subscription filter matching every door's command topic.
func (t Topics) CommandFilter() string {
	return fmt.Sprintf("%s/door/+/command", t.Prefix)
}

func (t Topics) BridgeAvailability() string {
	return fmt.Sprintf("%s/bridge/availability", t.Prefix)
}

// Discovery is the Home Assistant MQTT discovery config topic for one cover.
func (t Topics) Discovery(uniqueID string) string {
	return fmt.Sprintf("%s/cover/%s/config", t.DiscoveryPrefix, uniqueID)
}

// ParseCommandDoorID extracts the door id from a command topic.
func (t Topics) ParseCommandDoorID(topic string) (int, error) {
	rest, ok := strings.CutPrefix(topic, t.Prefix+"/door/")
	if !ok {
		return 0, fmt.Errorf("not a command topic: %s", topic)
	}
	idPart, ok := strings.CutSuffix(rest, "/command")
	if !ok {
		return 0, fmt.Errorf("not a command topic: %s", topic)
	}
	id, err := strconv.Atoi(idPart)
	if err != nil {
		return 0, fmt.Errorf("bad door id in topic %s: %w", topic, err)
	}
	return id, nil
}
