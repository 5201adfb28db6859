package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseList(t *testing.T) {
	assert.Nil(t, parseList(""))
	assert.Equal(t, []string{"wss://a", "wss://b"}, parseList(" wss://a , ,wss://b "))
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, defaultRelays, cfg.Nostr.Relays)
	assert.Equal(t, cfg.Nostr.Relays, cfg.Nostr.RelayHints)
	assert.Equal(t, uint(8), cfg.Nostr.GeohashPrecision)
	assert.Equal(t, 10*time.Minute, cfg.Cache.PlaceCacheTTL)
	assert.Equal(t, "place-index-workers", cfg.Worker.ConsumerGroup)
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &Config{
		Nostr: NostrConfig{
			Relays:     []string{"wss://relay.example"},
			RelayHints: []string{"wss://hint.example"},
		},
		Worker: WorkerConfig{MaxRetries: 7},
	}
	cfg.applyDefaults()

	assert.Equal(t, []string{"wss://relay.example"}, cfg.Nostr.Relays)
	assert.Equal(t, []string{"wss://hint.example"}, cfg.Nostr.RelayHints)
	assert.Equal(t, 7, cfg.Worker.MaxRetries)
}

func TestConfig_Addrs(t *testing.T) {
	cfg := &Config{
		Server: ServerConfig{Host: "0.0.0.0", Port: 9000},
		Redis:  RedisConfig{Host: "redis", Port: 6379},
	}
	assert.Equal(t, "0.0.0.0:9000", cfg.GetServerAddr())
	assert.Equal(t, "redis:6379", cfg.GetRedisAddr())
}
