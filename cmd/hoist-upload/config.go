package main

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// config carries everything the uploader needs to reach the Hoist API.
// Values resolve in increasing precedence: YAML file, environment, flags.
type config struct {
	Endpoint    string `yaml:"endpoint"`
	Token       string `yaml:"token"`
	OwnerType   string `yaml:"owner_type"`
	OwnerID     string `yaml:"owner_id"`
	Concurrency int    `yaml:"concurrency"`
}

// defaultConfigPath is tried when no -config flag is given; a missing file at
// this path is not an error.
const defaultConfigPath = "hoist.yaml"

// loadConfig reads the YAML file (when present) and applies environment
// overrides. Flag overrides are applied by the caller after parsing.
func loadConfig(path string) (*config, error) {
	var c config

	explicit := path != ""
	if !explicit {
		path = defaultConfigPath
	}
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case explicit:
		return nil, err
	}

	// ENV override
	if v := os.Getenv("HOIST_ENDPOINT"); v != "" {
		c.Endpoint = v
	}
	if v := os.Getenv("HOIST_TOKEN"); v != "" {
		c.Token = v
	}
	if v := os.Getenv("HOIST_OWNER_TYPE"); v != "" {
		c.OwnerType = v
	}
	if v := os.Getenv("HOIST_OWNER_ID"); v != "" {
		c.OwnerID = v
	}
	if v := os.Getenv("HOIST_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("HOIST_CONCURRENCY: %w", err)
		}
		c.Concurrency = n
	}

	return &c, nil
}

// validate checks the resolved configuration before any network call.
func (c *config) validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("no endpoint configured (flag -endpoint, env HOIST_ENDPOINT, or config file)")
	}
	if c.Token == "" {
		return fmt.Errorf("no token configured (flag -token, env HOIST_TOKEN, or config file)")
	}
	if c.OwnerType == "" || c.OwnerID == "" {
		return fmt.Errorf("no owner configured (flags -owner-type/-owner-id, env HOIST_OWNER_TYPE/HOIST_OWNER_ID, or config file)")
	}
	return nil
}
