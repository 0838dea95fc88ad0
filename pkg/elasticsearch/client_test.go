package elasticsearch_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/searchkit/pkg/elasticsearch"
)

func TestNew_DiscoversCluster(t *testing.T) {
	t.Parallel()

	cluster := newFakeCluster(t, 1)
	cluster.Nodes(t, map[string]nodeStub{
		"n1": dataNode(cluster.Addrs[0]),
	})

	client, err := elasticsearch.New(context.Background(), cluster.Config(t))
	require.NoError(t, err)
	defer client.Close()

	nodes, err := client.Nodes(context.Background())
	require.NoError(t, err)
	assert.Len(t, nodes, 1)
	assert.Equal(t, cluster.Addrs[0], nodes["n1"].Address)
}

func TestNew_FailsWithoutDataNodes(t *testing.T) {
	t.Parallel()

	cluster := newFakeCluster(t, 1)
	cluster.Nodes(t, map[string]nodeStub{
		"coordinator": {Roles: []string{"master", "ingest"}, Address: cluster.Addrs[0]},
	})

	_, err := elasticsearch.New(context.Background(), cluster.Config(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, elasticsearch.ErrNoDataNodes)
}

func TestNew_UnreachableHost(t *testing.T) {
	t.Parallel()

	cluster := newFakeCluster(t, 1)
	cluster.Nodes(t, map[string]nodeStub{
		"n1": dataNode(cluster.Addrs[0]),
	})
	cfg := cluster.Config(t)
	cluster.Close()

	_, err := elasticsearch.New(context.Background(), cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, elasticsearch.ErrConnectionFailed)
}

func TestHealthcheck(t *testing.T) {
	t.Parallel()

	cluster := newFakeCluster(t, 1)
	cluster.Nodes(t, map[string]nodeStub{
		"n1": dataNode(cluster.Addrs[0]),
	})

	client, err := elasticsearch.New(context.Background(), cluster.Config(t))
	require.NoError(t, err)
	defer client.Close()

	check := elasticsearch.Healthcheck(client)
	assert.NoError(t, check(context.Background()))

	cluster.Close()
	assert.ErrorIs(t, check(context.Background()), elasticsearch.ErrHealthcheckFailed)
}
