package elasticsearch_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/searchkit/pkg/elasticsearch"
)

// fakeCluster is an httptest-backed stand-in for a search cluster. Handlers
// are registered on Mux; the root path answers the info call issued by the
// construction-time healthcheck and every unregistered path returns 404.
type fakeCluster struct {
	Mux *http.ServeMux

	// Addrs lists the host:port of every backing test server, in the order
	// they were started.
	Addrs []string

	servers []*httptest.Server
}

func newFakeCluster(t *testing.T, servers int) *fakeCluster {
	t.Helper()

	c := &fakeCluster{Mux: http.NewServeMux()}
	c.Mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		writeJSON(t, w, map[string]any{"version": map[string]any{"number": "7.10.2"}})
	})

	for range servers {
		srv := httptest.NewServer(c.Mux)
		t.Cleanup(srv.Close)
		c.servers = append(c.servers, srv)
		c.Addrs = append(c.Addrs, strings.TrimPrefix(srv.URL, "http://"))
	}
	return c
}

// Nodes registers a `_nodes/http` handler serving the given payload.
func (c *fakeCluster) Nodes(t *testing.T, nodes map[string]nodeStub) {
	t.Helper()
	c.Mux.HandleFunc("/_nodes/http", func(w http.ResponseWriter, r *http.Request) {
		body := map[string]any{"nodes": map[string]any{}}
		for id, stub := range nodes {
			body["nodes"].(map[string]any)[id] = map[string]any{
				"roles": stub.Roles,
				"http":  map[string]any{"publish_address": stub.Address},
			}
		}
		writeJSON(t, w, body)
	})
}

type nodeStub struct {
	Roles   []string
	Address string
}

// Config returns a client configuration pointing at the first test server.
func (c *fakeCluster) Config(t *testing.T) elasticsearch.Config {
	t.Helper()
	host, portStr, ok := strings.Cut(c.Addrs[0], ":")
	require.True(t, ok, "test server address %q has no port", c.Addrs[0])
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	return elasticsearch.Config{
		Host:           host,
		Port:           port,
		ConnectTimeout: 2 * time.Second,
		RequestTimeout: 5 * time.Second,
		DisableRetry:   true,
		ScrollSize:     5,
		ScrollTimeout:  time.Minute,
	}
}

// Close shuts down every backing server, simulating a dropped connection.
func (c *fakeCluster) Close() {
	for _, srv := range c.servers {
		srv.Close()
	}
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("encode response: %v", err)
	}
}

// dataNode is shorthand for a data-holding node stub at addr.
func dataNode(addr string) nodeStub {
	return nodeStub{Roles: []string{"data", "ingest"}, Address: addr}
}

// shardCopy mirrors one entry of a `_search_shards` group.
func shardCopy(shard int, primary bool, node string) map[string]any {
	copy := map[string]any{"shard": shard, "primary": primary, "state": "STARTED"}
	if node != "" {
		copy["node"] = node
	}
	return copy
}

// searchShardsBody assembles a `_search_shards` response payload.
func searchShardsBody(groups ...[]map[string]any) map[string]any {
	return map[string]any{"shards": groups}
}
