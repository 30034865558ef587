package service

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/hudsonventura/SnowflakeGuid/snowflake"
)

var ErrNoMachineID = errors.New("service: no machine id configured and no CIDR/host ip to derive one from")

// Config holds everything the HTTP surface needs. Values come from the
// environment via FromEnv, or are filled directly by the CLI.
type Config struct {
	Addr string

	// MachineID below zero means derive the id from MachineCIDR and HostIP.
	MachineID   int
	MachineCIDR string
	HostIP      string

	// Epoch is the reference epoch identifiers are minted against. The zero
	// time means the unix epoch.
	Epoch time.Time

	LogLevel string
}

// FromEnv loads the configuration from SNOWFLAKE_* environment variables.
func FromEnv() (Config, error) {
	cfg := Config{
		Addr:        getEnv("SNOWFLAKE_ADDR", ":8080"),
		MachineID:   getEnvInt("SNOWFLAKE_MACHINE_ID", -1),
		MachineCIDR: getEnv("SNOWFLAKE_MACHINE_CIDR", ""),
		HostIP:      getEnv("SNOWFLAKE_HOST_IP", ""),
		LogLevel:    getEnv("SNOWFLAKE_LOG_LEVEL", "INFO"),
	}

	if raw := getEnv("SNOWFLAKE_EPOCH", ""); raw != "" {
		epoch, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return Config{}, fmt.Errorf("SNOWFLAKE_EPOCH %q: %w", raw, err)
		}
		cfg.Epoch = epoch
	}
	return cfg, nil
}

// machineID resolves the machine number, deriving it from the host address
// when no explicit id is configured.
func (c Config) machineID() (uint64, error) {
	if c.MachineID >= 0 {
		return uint64(c.MachineID), nil
	}
	if c.MachineCIDR == "" || c.HostIP == "" {
		return 0, ErrNoMachineID
	}
	return snowflake.MachineIDFromIP(c.MachineCIDR, c.HostIP)
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
