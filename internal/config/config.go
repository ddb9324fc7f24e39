package config

import (
	"strconv"
	"time"
)

// Config holds server configuration values.
type Config struct {
	TCPAddr           string        `mapstructure:"tcp_addr" yaml:"tcp_addr"`
	HTTPAddr          string        `mapstructure:"http_addr" yaml:"http_addr"`
	RoomCount         int           `mapstructure:"room_count" yaml:"room_count"`
	LobbyRoom         string        `mapstructure:"lobby_room" yaml:"lobby_room"`
	OutboxCapacity    int           `mapstructure:"outbox_capacity" yaml:"outbox_capacity"`
	RoomCapacity      int           `mapstructure:"room_capacity" yaml:"room_capacity"`
	DrainGrace        time.Duration `mapstructure:"drain_grace" yaml:"drain_grace"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		TCPAddr:           ":8080",
		HTTPAddr:          ":8081",
		RoomCount:         10,
		LobbyRoom:         "0",
		OutboxCapacity:    100,
		RoomCapacity:      0, // unlimited
		DrainGrace:        2 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
	}
}

// RoomIDs returns the provisioned room set: the lobby plus numbered rooms
// "1" through RoomCount.
func (c *Config) RoomIDs() []string {
	ids := make([]string, 0, c.RoomCount+1)
	ids = append(ids, c.LobbyRoom)
	for i := 1; i <= c.RoomCount; i++ {
		ids = append(ids, strconv.Itoa(i))
	}
	return ids
}
