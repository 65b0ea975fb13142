package clickhouse

import (
	"context"
	"testing"
	"time"

	ch "github.com/ClickHouse/clickhouse-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions(t *testing.T) {
	cfg := defaultClientConfig()
	for _, o := range []ClientOption{
		WithHost("ch.local"),
		WithPort(8123),
		WithDatabase("signalforge"),
		WithCredentials("bot", "secret"),
		WithTimeouts(2*time.Second, 0),
		WithMaxExecutionTime(90 * time.Second),
		WithHTTP(true),
		WithAsyncInsert(true),
	} {
		o(&cfg)
	}

	opts := cfg.options()
	assert.Equal(t, []string{"ch.local:8123"}, opts.Addr)
	assert.Equal(t, "signalforge", opts.Auth.Database)
	assert.Equal(t, "bot", opts.Auth.Username)
	assert.Equal(t, ch.HTTP, opts.Protocol)
	assert.Equal(t, 2*time.Second, opts.DialTimeout)
	assert.Equal(t, 10*time.Second, opts.ReadTimeout)
	assert.Equal(t, 90, opts.Settings["max_execution_time"])
	assert.Equal(t, 1, opts.Settings["wait_for_async_insert"])
}

func TestNewClientRequiresHost(t *testing.T) {
	_, err := NewClient(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "host is required")
}
