package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"ADDR", "DATABASE_URL", "KAFKA_BROKERS", "AT_THE_CON", "PRICE_BUMP", "EPOCH", "EARLY_BADGE_PRICE"} {
		t.Setenv(key, "")
	}

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Empty(t, cfg.Database.URL)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.False(t, cfg.Event.AtTheCon)
	assert.Equal(t, 40, cfg.Event.Prices.EarlyBadge)
}

func TestFromEnvEventOverrides(t *testing.T) {
	t.Setenv("PRICE_BUMP", "2015-11-15")
	t.Setenv("EPOCH", "2016-01-07T08:00:00Z")
	t.Setenv("AT_THE_CON", "true")
	t.Setenv("EARLY_GROUP_PRICE", "25")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, time.Date(2015, time.November, 15, 0, 0, 0, 0, time.UTC), cfg.Event.PriceBump)
	assert.Equal(t, time.Date(2016, time.January, 7, 8, 0, 0, 0, time.UTC), cfg.Event.Epoch)
	assert.True(t, cfg.Event.AtTheCon)
	assert.Equal(t, 25, cfg.Event.Prices.EarlyGroup)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
}

func TestFromEnvRejectsInvertedCutovers(t *testing.T) {
	t.Setenv("PRICE_BUMP", "2016-02-01")
	t.Setenv("EPOCH", "2016-01-01")

	_, err := FromEnv()
	assert.Error(t, err)
}

func TestFromEnvRejectsBadDate(t *testing.T) {
	t.Setenv("EPOCH", "next tuesday")

	_, err := FromEnv()
	assert.ErrorContains(t, err, "EPOCH")
}

func TestEventStateHolder(t *testing.T) {
	initial := DefaultEventState()
	h := NewEventStateHolder(initial)
	assert.False(t, h.Current().AtTheCon)

	onsite := initial
	onsite.AtTheCon = true
	h.Set(onsite)
	assert.True(t, h.Current().AtTheCon)

	var src EventStateSource = initial
	assert.Equal(t, initial, src.Current())
}
