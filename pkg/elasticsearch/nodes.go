package elasticsearch

import (
	"context"
	"encoding/json"
	"errors"
	"maps"
	"slices"
)

// Node identifies a data-holding cluster node.
type Node struct {
	ID      string
	Address string
}

type nodesResponse struct {
	Nodes map[string]struct {
		Roles []string `json:"roles"`
		HTTP  struct {
			PublishAddress string `json:"publish_address"`
		} `json:"http"`
	} `json:"nodes"`
}

// Nodes returns the cluster's data-holding nodes keyed by node id.
// Coordinator-only nodes are excluded. Every call performs a fresh topology
// query; results are never cached.
func (c *Client) Nodes(ctx context.Context) (map[string]Node, error) {
	res, err := c.os.Nodes.Info(
		c.os.Nodes.Info.WithContext(ctx),
		c.os.Nodes.Info.WithMetric("http"),
	)
	body, err := c.readResponse(res, err)
	if err != nil {
		return nil, err
	}

	var decoded nodesResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, errors.Join(ErrInvalidResponse, err)
	}

	nodes := make(map[string]Node, len(decoded.Nodes))
	for id, info := range decoded.Nodes {
		if slices.Contains(info.Roles, "data") {
			nodes[id] = Node{ID: id, Address: info.HTTP.PublishAddress}
		}
	}
	return nodes, nil
}

// sortedNodes orders a topology snapshot by node id ascending. A defined
// order keeps the shard-routing fallback deterministic across runs.
func sortedNodes(nodes map[string]Node) []Node {
	out := make([]Node, 0, len(nodes))
	for _, id := range slices.Sorted(maps.Keys(nodes)) {
		out = append(out, nodes[id])
	}
	return out
}
