/*
Package config loads server configuration from TOML.

PURPOSE:

	One place for everything an operator can tune: HTTP settings, the
	reward schedule, archive location, and the admin allow-list. Defaults
	match the platform constants, so the server runs with no config file.

EXAMPLE (kintaraa.toml):

	[server]
	host = "0.0.0.0"
	port = 8080
	cors_origins = ["https://app.kintaraa.example"]

	[rewards]
	initial_grant = 500
	daily_engagement = 10
	report_submission = 50
	community_post = 5

	[archive]
	path = "./data/kintaraa.db"

	[admin]
	principals = ["principal-ops-1"]
*/
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Server  Server  `toml:"server"`
	Rewards Rewards `toml:"rewards"`
	Archive Archive `toml:"archive"`
	Admin   Admin   `toml:"admin"`
}

type Server struct {
	Host        string   `toml:"host"`
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
}

type Rewards struct {
	InitialGrant     uint64 `toml:"initial_grant"`
	DailyEngagement  uint64 `toml:"daily_engagement"`
	ReportSubmission uint64 `toml:"report_submission"`
	CommunityPost    uint64 `toml:"community_post"`
}

type Archive struct {
	// Path is the SQLite archive location. ":memory:" keeps the archive
	// in-process; empty disables archiving entirely.
	Path string `toml:"path"`
}

type Admin struct {
	Principals []string `toml:"principals"`
}

// Default returns the configuration used when no file is provided.
func Default() Config {
	return Config{
		Server: Server{
			Host:        "127.0.0.1",
			Port:        8080,
			CORSOrigins: []string{"http://localhost:5173", "http://localhost:8080"},
		},
		Rewards: Rewards{
			InitialGrant:     500,
			DailyEngagement:  10,
			ReportSubmission: 50,
			CommunityPost:    5,
		},
		Archive: Archive{
			Path: "kintaraa.db",
		},
	}
}

// Load reads path over the defaults. A missing file is not an error;
// the defaults are returned unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the server cannot run with.
func (c Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	return nil
}
