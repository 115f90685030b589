package main

import (
	"flag"
	"log"
	"os"
	"strconv"
)

// ServerConfig holds the server runtime configuration.
type ServerConfig struct {
	Addr           string
	DefaultWorldID string
	ScenarioFile   string
	TickIntervalMS int
	LogLevel       string
	LogFormat      string
}

// configResolver defines how to resolve a single configuration value.
type configResolver struct {
	flagName    string
	envVarName  string
	defaultVal  string
	description string
	setter      func(*ServerConfig, string)
}

// loadServerConfig resolves the server configuration from CLI flags and
// environment variables, flags winning. Adding an option means adding one
// resolver entry.
func loadServerConfig() ServerConfig {
	cfg := ServerConfig{}

	resolvers := []configResolver{
		{
			flagName:    "addr",
			envVarName:  "ECOSIM_ADDR",
			defaultVal:  ":8080",
			description: "HTTP listen address (e.g. :8080, 0.0.0.0:8080)",
			setter:      func(c *ServerConfig, v string) { c.Addr = v },
		},
		{
			flagName:    "world-id",
			envVarName:  "ECOSIM_WORLD_ID",
			defaultVal:  "default",
			description: "world ID for the startup scenario",
			setter:      func(c *ServerConfig, v string) { c.DefaultWorldID = v },
		},
		{
			flagName:    "scenario-file",
			envVarName:  "ECOSIM_SCENARIO_FILE",
			defaultVal:  "",
			description: "optional path to a TOML scenario loaded at startup",
			setter:      func(c *ServerConfig, v string) { c.ScenarioFile = v },
		},
		{
			flagName:    "tick-interval-ms",
			envVarName:  "ECOSIM_TICK_INTERVAL_MS",
			defaultVal:  "1000",
			description: "default interval between ticks for auto-running worlds (milliseconds)",
			setter: func(c *ServerConfig, v string) {
				if val, err := strconv.Atoi(v); err == nil && val > 0 {
					c.TickIntervalMS = val
				} else {
					log.Printf("Invalid value for tick-interval-ms: %s, using default 1000", v)
					c.TickIntervalMS = 1000
				}
			},
		},
		{
			flagName:    "log-level",
			envVarName:  "ECOSIM_LOG_LEVEL",
			defaultVal:  "info",
			description: "Log level: debug, info, warn, error",
			setter:      func(c *ServerConfig, v string) { c.LogLevel = v },
		},
		{
			flagName:    "log-format",
			envVarName:  "ECOSIM_LOG_FORMAT",
			defaultVal:  "console",
			description: "Log format: console or json",
			setter:      func(c *ServerConfig, v string) { c.LogFormat = v },
		},
	}

	flagVars := make(map[string]*string)
	for _, resolver := range resolvers {
		flagVars[resolver.flagName] = flag.String(resolver.flagName, "", resolver.description)
	}

	flag.Parse()

	for _, resolver := range resolvers {
		var value string
		if *flagVars[resolver.flagName] != "" {
			value = *flagVars[resolver.flagName]
		} else if envValue := os.Getenv(resolver.envVarName); envValue != "" {
			value = envValue
		} else {
			value = resolver.defaultVal
		}
		resolver.setter(&cfg, value)
	}

	return cfg
}
