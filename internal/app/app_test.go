package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thebettingsean/team-rankings/internal/clickhouse"
	"github.com/thebettingsean/team-rankings/internal/config"
)

func clickHouseConfig(host string) *config.Config {
	return &config.Config{
		StoreBackend:        config.BackendClickHouse,
		ClickHouseHost:      host,
		ClickHouseKeyID:     "key",
		ClickHouseKeySecret: "secret",
		ClickHouseTimeout:   time.Second,
		Workers:             2,
		RunTimeout:          time.Minute,
		SampleSeason:        2025,
		SampleWeek:          13,
	}
}

func TestNew_ClickHouse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	a, err := New(context.Background(), clickHouseConfig(srv.URL))
	require.NoError(t, err)
	defer a.Close()

	assert.IsType(t, &clickhouse.Store{}, a.Store)
	assert.False(t, a.Cache.Enabled(), "Redis stays off unless enabled")
	assert.NotNil(t, a.Job)
	assert.NoError(t, a.Health(context.Background()))
	assert.Nil(t, a.PublishStats(), "ClickHouse has no connection pool")
}

func TestPublishStats(t *testing.T) {
	calls := 0
	a := &App{stats: func() map[string]interface{} {
		calls++
		return map[string]interface{}{"idle_conns": int32(2)}
	}}

	stats := a.PublishStats()

	assert.Equal(t, 1, calls)
	assert.Equal(t, int32(2), stats["idle_conns"])
}

func TestNew_ClickHouseUnhealthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	a, err := New(context.Background(), clickHouseConfig(srv.URL))
	require.NoError(t, err)
	defer a.Close()

	err = a.Health(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, clickhouse.ErrUnauthorized)
}

func TestNew_UnknownBackend(t *testing.T) {
	_, err := New(context.Background(), &config.Config{StoreBackend: "sqlite", Workers: 1})
	assert.Error(t, err)
}
