// Package elasticsearch provides a topology-aware client for executing
// search queries against a distributed Elasticsearch/OpenSearch cluster
// without knowing its internal layout.
//
// The package builds on github.com/opensearch-project/opensearch-go/v2,
// which is thread-safe by design, and adds four concerns on top of the raw
// transport:
//
//   - Topology discovery – the constructor queries the cluster's node list,
//     filters it to data-holding nodes, and points the connection pool at
//     every discovered address.
//
//   - Shard routing – SearchShards resolves, per index, which node each
//     logical shard's query should be sent to, preferring replica copies
//     over primaries to spread read load.
//
//   - Scroll pagination – BeginSearch/NextPage/ClearScroll drive a
//     cursor-based scroll session pinned to a single shard.
//
//   - TLS material handling – NewTLSConfig accepts key
//     and trust stores as either PEM files or PKCS#12 containers and
//     validates the identity certificates' freshness.
//
// # Usage
//
// Basic connection and a full scroll session over one shard:
//
//	import (
//	    "context"
//	    "github.com/dmitrymomot/searchkit/pkg/elasticsearch"
//	)
//
//	client, err := elasticsearch.New(context.Background(), elasticsearch.Config{
//	    Host: "localhost",
//	    Port: 9200,
//	})
//	if err != nil {
//	    // use errors.Is(err, elasticsearch.ErrConnectionFailed)
//	}
//	defer client.Close()
//
//	shards, _ := client.SearchShards(context.Background(), "logs")
//	for _, shard := range shards {
//	    page, _ := client.BeginSearch(context.Background(), elasticsearch.SearchRequest{
//	        Index: "logs",
//	        Shard: shard.Number,
//	    })
//	    for len(page.Hits) > 0 {
//	        // consume page.Hits
//	        page, _ = client.NextPage(context.Background(), page.ScrollID)
//	    }
//	    _ = client.ClearScroll(context.Background(), page.ScrollID)
//	}
//
// Environment-based configuration:
//
//	var cfg elasticsearch.Config
//	if err := config.Load(&cfg); err != nil {
//	    // handle error
//	}
//	client, _ := elasticsearch.New(context.Background(), cfg)
//
// # Error Handling
//
// All failures are typed through package sentinels and checked with the
// standard errors.Is helpers:
//
//	if _, err := client.BeginSearch(ctx, req); err != nil {
//	    switch {
//	    case errors.Is(err, elasticsearch.ErrQueryFailed):
//	        // user-actionable query problem, the message carries the
//	        // cluster-reported reason
//	    case errors.Is(err, elasticsearch.ErrConnectionFailed):
//	        // transport/availability failure
//	    }
//	}
//
// Nothing here is fatal to the process: every failure is scoped to the one
// operation that triggered it and the caller decides whether to retry.
//
// # Concurrency
//
// A Client is constructed once per process and shared. The host list is
// written during construction and never mutated afterwards. Scroll cursors
// are single-owner handles: concurrent NextPage calls on the same cursor
// produce server-side-undefined behavior and must be avoided by the caller.
package elasticsearch
