package mqtt

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"somweb-bridge/internal/domain/model"
)

func TestDiscoveryMessage(t *testing.T) {
	topics := Topics{Prefix: "somweb", DiscoveryPrefix: "homeassistant"}
	msg := newDiscoveryMessage("ABC123", model.Door{ID: 1, Name: "Garage"}, topics)

	assert.Equal(t, "Garage", msg.Name)
	assert.Equal(t, "ABC123_1", msg.UniqueID)
	assert.Equal(t, "somweb/door/1/command", msg.CommandTopic)
	assert.Equal(t, "somweb/door/1/state", msg.StateTopic)
	assert.Equal(t, "somweb/door/1/availability", msg.AvailabilityTopic)
	assert.Equal(t, "garage", msg.DeviceClass)
	assert.Equal(t, []string{"ABC123"}, msg.Device.Identifiers)

	payload, err := json.Marshal(msg)
	assert.NoError(t, err)
	// No STOP support: the payload must carry an explicit null.
	assert.Contains(t, string(payload), `"payload_stop":null`)
	assert.Contains(t, string(payload), `"payload_open":"OPEN"`)
}
