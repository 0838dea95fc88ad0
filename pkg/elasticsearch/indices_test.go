package elasticsearch_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/searchkit/pkg/elasticsearch"
)

func newMetadataCluster(t *testing.T) *fakeCluster {
	t.Helper()
	cluster := newFakeCluster(t, 1)
	cluster.Nodes(t, map[string]nodeStub{
		"n1": dataNode(cluster.Addrs[0]),
	})
	return cluster
}

func TestClient_Indexes(t *testing.T) {
	t.Parallel()

	cluster := newMetadataCluster(t)
	cluster.Mux.HandleFunc("/_cat/indices", func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		assert.Equal(t, "json", query.Get("format"))
		assert.Equal(t, "index", query.Get("h"))
		assert.Equal(t, "index:asc", query.Get("s"))
		writeJSON(t, w, []map[string]any{{"index": "bar"}, {"index": "foo"}})
	})

	client, err := elasticsearch.New(context.Background(), cluster.Config(t))
	require.NoError(t, err)
	defer client.Close()

	names, err := client.Indexes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"bar", "foo"}, names)
}

func TestClient_IndexMetadata(t *testing.T) {
	t.Parallel()

	cluster := newMetadataCluster(t)
	cluster.Mux.HandleFunc("/orders/_mapping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{
			"orders": map[string]any{
				"mappings": map[string]any{
					"properties": map[string]any{
						"status": map[string]any{"type": "keyword"},
						"placed_at": map[string]any{
							"type":   "date",
							"format": "yyyy-MM-dd||epoch_millis",
						},
						"updated_at": map[string]any{"type": "date"},
						"customer": map[string]any{
							"properties": map[string]any{
								"name": map[string]any{"type": "text"},
								"age":  map[string]any{"type": "long"},
							},
						},
					},
				},
			},
		})
	})

	client, err := elasticsearch.New(context.Background(), cluster.Config(t))
	require.NoError(t, err)
	defer client.Close()

	metadata, err := client.IndexMetadata(context.Background(), "orders")
	require.NoError(t, err)

	want := elasticsearch.ObjectType{Fields: []elasticsearch.Field{
		{Name: "customer", Type: elasticsearch.ObjectType{Fields: []elasticsearch.Field{
			{Name: "age", Type: elasticsearch.PrimitiveType{Name: "long"}},
			{Name: "name", Type: elasticsearch.PrimitiveType{Name: "text"}},
		}}},
		{Name: "placed_at", Type: elasticsearch.DateTimeType{Formats: []string{"yyyy-MM-dd", "epoch_millis"}}},
		{Name: "status", Type: elasticsearch.PrimitiveType{Name: "keyword"}},
		{Name: "updated_at", Type: elasticsearch.DateTimeType{}},
	}}
	assert.Equal(t, want, metadata.Schema)
}

func TestClient_IndexMetadata_LegacyTypeWrapper(t *testing.T) {
	t.Parallel()

	properties := map[string]any{
		"title": map[string]any{"type": "text"},
		"views": map[string]any{"type": "integer"},
	}

	// The same underlying properties, once nested under a deprecated type
	// mapping and once not, must decode to the same schema tree.
	cluster := newMetadataCluster(t)
	cluster.Mux.HandleFunc("/plain/_mapping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{
			"plain": map[string]any{
				"mappings": map[string]any{"properties": properties},
			},
		})
	})
	cluster.Mux.HandleFunc("/wrapped/_mapping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{
			"wrapped": map[string]any{
				"mappings": map[string]any{
					"doc": map[string]any{"properties": properties},
				},
			},
		})
	})

	client, err := elasticsearch.New(context.Background(), cluster.Config(t))
	require.NoError(t, err)
	defer client.Close()

	plain, err := client.IndexMetadata(context.Background(), "plain")
	require.NoError(t, err)
	wrapped, err := client.IndexMetadata(context.Background(), "wrapped")
	require.NoError(t, err)

	assert.Equal(t, plain.Schema, wrapped.Schema)
}

func TestClient_IndexMetadata_MissingIndex(t *testing.T) {
	t.Parallel()

	cluster := newMetadataCluster(t)
	cluster.Mux.HandleFunc("/ghost/_mapping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"other": map[string]any{"mappings": map[string]any{}}})
	})

	client, err := elasticsearch.New(context.Background(), cluster.Config(t))
	require.NoError(t, err)
	defer client.Close()

	_, err = client.IndexMetadata(context.Background(), "ghost")
	require.Error(t, err)
	assert.ErrorIs(t, err, elasticsearch.ErrInvalidResponse)
}
