package logger_test

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/searchkit/pkg/logger"
)

func TestGroup(t *testing.T) {
	attr := logger.Group("req", slog.String("id", "1"), slog.Int("n", 2))
	require.Equal(t, "req", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, "id", g[0].Key)
	assert.Equal(t, "n", g[1].Key)
}

func TestErrors(t *testing.T) {
	err1 := errors.New("first")
	err2 := errors.New("second")

	attr := logger.Errors(err1, nil, err2)
	require.Equal(t, "errors", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, err1, g[0].Value.Any())
	assert.Equal(t, err2, g[1].Value.Any())

	empty := logger.Errors(nil)
	assert.True(t, empty.Equal(slog.Attr{}))
}

func TestError(t *testing.T) {
	err := errors.New("boom")
	attr := logger.Error(err)
	require.Equal(t, "error", attr.Key)
	assert.Equal(t, err, attr.Value.Any())

	empty := logger.Error(nil)
	assert.True(t, empty.Equal(slog.Attr{}))
}

func TestIndex(t *testing.T) {
	attr := logger.Index("orders")
	require.Equal(t, "index", attr.Key)
	assert.Equal(t, "orders", attr.Value.Any())
}

func TestShardNumber(t *testing.T) {
	attr := logger.ShardNumber(4)
	require.Equal(t, "shard", attr.Key)
	assert.Equal(t, int64(4), attr.Value.Any())
}

func TestNodeID(t *testing.T) {
	attr := logger.NodeID("aQ3f")
	require.Equal(t, "node_id", attr.Key)
	assert.Equal(t, "aQ3f", attr.Value.Any())

	empty := logger.NodeID("")
	assert.True(t, empty.Equal(slog.Attr{}))
}

func TestScrollID(t *testing.T) {
	attr := logger.ScrollID("cursor-1")
	require.Equal(t, "scroll_id", attr.Key)
	assert.Equal(t, "cursor-1", attr.Value.Any())

	empty := logger.ScrollID("")
	assert.True(t, empty.Equal(slog.Attr{}))
}

func TestComponent(t *testing.T) {
	attr := logger.Component("elasticsearch")
	require.Equal(t, "component", attr.Key)
	assert.Equal(t, "elasticsearch", attr.Value.Any())
}
