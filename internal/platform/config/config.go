package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string
	HTTPPort    string
	PostgresDSN string
	NATSServers []string

	OutboxRelayInterval  time.Duration
	OutboxRelayBatchSize int
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "rookery"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	var servers []string
	for _, value := range strings.Split(os.Getenv("NATS_SERVERS"), ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			servers = append(servers, value)
		}
	}
	if len(servers) == 0 {
		servers = []string{"nats://localhost:4222"}
	}

	return Config{
		ServiceName: service,
		HTTPPort:    port,
		PostgresDSN: os.Getenv("POSTGRES_DSN"),
		NATSServers: servers,

		OutboxRelayInterval:  envDuration("OUTBOX_RELAY_INTERVAL", 2*time.Second),
		OutboxRelayBatchSize: envInt("OUTBOX_RELAY_BATCH_SIZE", 100),
	}, nil
}

func envDuration(name string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func envInt(name string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}
