// Package config loads the node's environment-variable driven configuration
// (spec §6 "Environment variables").
package config

import (
	"net"
	"strings"

	"github.com/kelseyhightower/envconfig"

	"github.com/btcnode/node/nodeerr"
)

// Config holds every recognised environment variable (spec §6).
type Config struct {
	DNS          string `envconfig:"DNS" required:"true"`
	Port         uint16 `envconfig:"PORT" required:"true"`
	LocalIP      string `envconfig:"LOCAL_IP" required:"true"`
	Version      int32  `envconfig:"VERSION" default:"70015"`
	StartingDate uint32 `envconfig:"STARTING_DATE" required:"true"`
	PathBlocks   string `envconfig:"PATH_BLOCKS" required:"true"`
	PathLog      string `envconfig:"PATH_LOG" required:"true"`
	PeerIPs      string `envconfig:"PEER_IPS"`
}

// Load reads and validates the process configuration from the environment
// (spec §6 "A missing required variable is fatal").
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, nodeerr.Wrap(nodeerr.KindMissingEnvVar, "load configuration", err)
	}
	if net.ParseIP(cfg.LocalIP) == nil {
		return cfg, nodeerr.New(nodeerr.KindMalformedEnv, "LOCAL_IP is not a valid IP address")
	}
	return cfg, nil
}

// AccountsPath returns the saved-accounts file path, the sibling of the
// blocks directory (SPEC_FULL §6 "<PATH_BLOCKS>/../accounts.dat").
func (c Config) AccountsPath() string {
	return c.PathBlocks + "/../accounts.dat"
}

// PeerCandidates splits PeerIPs into a "host:port" list, appended to the DNS
// seed results (spec §6 "ip:port,ip:port,... appended to DNS results").
func (c Config) PeerCandidates(seeds []string) []string {
	all := append([]string{}, seeds...)
	if c.PeerIPs == "" {
		return all
	}
	return append(all, strings.Split(c.PeerIPs, ",")...)
}
