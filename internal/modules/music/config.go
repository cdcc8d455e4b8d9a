package music

import (
	"net"
	"strconv"
)

// Config holds the Lavalink node settings.
type Config struct {
	NodeHost     string `env:"MUSIC_NODE_HOST"`
	NodePort     int    `env:"MUSIC_NODE_PORT" envDefault:"2333"`
	NodePassword string `env:"MUSIC_NODE_PASS"`
	NodeSecure   bool   `env:"MUSIC_NODE_SECURE" envDefault:"false"`
}

// Enabled reports whether a node is configured.
func (c *Config) Enabled() bool {
	return c.NodeHost != ""
}

// Address returns the node address as host:port.
func (c *Config) Address() string {
	return net.JoinHostPort(c.NodeHost, strconv.Itoa(c.NodePort))
}
