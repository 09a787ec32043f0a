package model

import (
	"fmt"
	"time"
)

type SomwebConfig struct {
	// UDI is the unique device identifier of the SOMweb unit.
	// It is resolved to https://<udi>.somweb.world unless URL is set.
	UDI      string `yaml:"udi"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`

	// URL overrides the cloud endpoint, e.g. for a local controller.
	URL string `yaml:"url,omitempty"`

	// DoorTravelSeconds bounds the wait after an open/close command.
	DoorTravelSeconds int `yaml:"door_travel_seconds,omitempty"`
}

type MQTTConfig struct {
	BrokerURL       string `yaml:"broker_url"`
	ClientID        string `yaml:"client_id,omitempty"`
	Username        string `yaml:"username,omitempty"`
	Password        string `yaml:"password,omitempty"`
	TopicPrefix     string `yaml:"topic_prefix,omitempty"`
	DiscoveryPrefix string `yaml:"discovery_prefix,omitempty"`
}

type LoggingConfig struct {
	Level string `yaml:"level,omitempty"`
}

type Config struct {
	Somweb              SomwebConfig  `yaml:"somweb"`
	MQTT                MQTTConfig    `yaml:"mqtt"`
	Logging             LoggingConfig `yaml:"logging,omitempty"`
	PollIntervalSeconds int           `yaml:"poll_interval_seconds,omitempty"`
}

func (c *Config) ApplyDefaults() {
	if c.PollIntervalSeconds <= 0 {
		c.PollIntervalSeconds = 30
	}
	if c.Somweb.DoorTravelSeconds <= 0 {
		c.Somweb.DoorTravelSeconds = 60
	}
	if c.MQTT.TopicPrefix == "" {
		c.MQTT.TopicPrefix = "somweb"
	}
	if c.MQTT.DiscoveryPrefix == "" {
		c.MQTT.DiscoveryPrefix = "homeassistant"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

func (c *Config) Validate() error {
	if c.Somweb.UDI == "" {
		return fmt.Errorf("somweb.udi is required")
	}
	if c.Somweb.Username == "" {
		return fmt.Errorf("somweb.username is required")
	}
	if c.Somweb.Password == "" {
		return fmt.Errorf("somweb.password is required")
	}
	if c.MQTT.BrokerURL == "" {
		return fmt.Errorf("mqtt.broker_url is required")
	}
	return nil
}

func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

func (c *Config) DoorTravelTimeout() time.Duration {
	return time.Duration(c.Somweb.DoorTravelSeconds) * time.Second
}
