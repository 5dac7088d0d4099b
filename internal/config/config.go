package config

import (
	"time"
)

// Version defines the ChirpStack Region version.
var Version string

// Config defines the configuration structure.
type Config struct {
	General struct {
		LogLevel    int  `mapstructure:"log_level"`
		LogToSyslog bool `mapstructure:"log_to_syslog"`
	} `mapstructure:"general"`

	Region struct {
		Name               string         `mapstructure:"name"`
		ProfileFile        string         `mapstructure:"profile_file"`
		DutyCycle          bool           `mapstructure:"duty_cycle"`
		RepeaterCompatible bool           `mapstructure:"repeater_compatible"`
		ExtraChannels      []ExtraChannel `mapstructure:"extra_channels"`
	} `mapstructure:"region"`

	Radio struct {
		MinFrequency    uint32   `mapstructure:"min_frequency"`
		MaxFrequency    uint32   `mapstructure:"max_frequency"`
		BusyFrequencies []uint32 `mapstructure:"busy_frequencies"`
	} `mapstructure:"radio"`

	Simulator struct {
		DeviceID             string        `mapstructure:"device_id"`
		Uplinks              int           `mapstructure:"uplinks"`
		PayloadSize          int           `mapstructure:"payload_size"`
		Joined               bool          `mapstructure:"joined"`
		ADR                  bool          `mapstructure:"adr"`
		ADRUpdateChannelMask bool          `mapstructure:"adr_update_channel_mask"`
		AckEvery             int           `mapstructure:"ack_every"`
		Seed                 int64         `mapstructure:"seed"`
		Interval             time.Duration `mapstructure:"interval"`
		CFList               string        `mapstructure:"cflist"`
		MACCommands          []MACCommand  `mapstructure:"mac_commands"`
	} `mapstructure:"simulator"`

	Redis struct {
		URL       string        `mapstructure:"url"`
		KeyPrefix string        `mapstructure:"key_prefix"`
		StateTTL  time.Duration `mapstructure:"state_ttl"`
	} `mapstructure:"redis"`

	Monitoring struct {
		Bind                string `mapstructure:"bind"`
		PrometheusEndpoint  bool   `mapstructure:"prometheus_endpoint"`
		HealthcheckEndpoint bool   `mapstructure:"healthcheck_endpoint"`
	} `mapstructure:"monitoring"`
}

// ExtraChannel defines an extra uplink channel.
type ExtraChannel struct {
	Frequency uint32 `mapstructure:"frequency"`
	MinDR     int    `mapstructure:"min_dr"`
	MaxDR     int    `mapstructure:"max_dr"`
}

// MACCommand defines a downlink mac-command block (HEX encoded) received
// after the given uplink.
type MACCommand struct {
	AtUplink int    `mapstructure:"at_uplink"`
	Payload  string `mapstructure:"payload"`
}

// C holds the global configuration.
var C Config
