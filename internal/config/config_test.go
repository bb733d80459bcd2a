package config

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/SAP-F-2025/quiz-session-service/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("QUESTION_CACHE_TTL", "")
	t.Setenv("CASDOOR_ENDPOINT", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, StorageDriverPostgres, cfg.StorageDriver)
	assert.Equal(t, 5*time.Minute, cfg.QuestionCacheTTL)
	assert.False(t, cfg.Casdoor.Enabled())
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("SEQUENCE_STORE", "redis")
	t.Setenv("QUESTION_CACHE_TTL", "90s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("EVENTS_ENABLED", "true")
	t.Setenv("EVENTS_PUBLISHER", "gochannel")
	t.Setenv("CASDOOR_ENDPOINT", "http://casdoor.test")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, StorageDriverMemory, cfg.StorageDriver)
	assert.Equal(t, SequenceStoreRedis, cfg.SequenceStore)
	assert.Equal(t, 90*time.Second, cfg.QuestionCacheTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.Events.Enabled)
	assert.True(t, cfg.Casdoor.Enabled())
}

func TestCreateEventPublisher(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	disabled := EventConfig{Enabled: false, Publisher: "kafka"}
	publisher, err := disabled.CreateEventPublisher(logger)
	require.NoError(t, err)
	assert.IsType(t, &events.MockEventPublisher{}, publisher)

	inProcess := EventConfig{Enabled: true, Publisher: "gochannel", SessionTopic: "quiz-sessions"}
	publisher, err = inProcess.CreateEventPublisher(logger)
	require.NoError(t, err)
	assert.IsType(t, &events.WatermillEventPublisher{}, publisher)
	assert.NoError(t, publisher.Close())

	unknown := EventConfig{Enabled: true, Publisher: "carrier-pigeon"}
	publisher, err = unknown.CreateEventPublisher(logger)
	require.NoError(t, err)
	assert.IsType(t, &events.MockEventPublisher{}, publisher)
}
