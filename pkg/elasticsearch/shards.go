package elasticsearch

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
)

// Shard is the routing decision for one logical shard of an index: the shard
// number and the address of the node the query for it should be sent to.
// Assignments are ephemeral and recomputed on every call.
type Shard struct {
	Number  int
	Address string
}

type searchShardsResponse struct {
	// Shards groups all copies (primary + replicas) of each logical shard.
	Shards [][]shardCopy `json:"shards"`
}

type shardCopy struct {
	Shard   int    `json:"shard"`
	Primary bool   `json:"primary"`
	Node    string `json:"node"`
}

// SearchShards returns one routing assignment per logical shard of index.
// Replica copies are preferred over primaries to spread read load away from
// the primary. When no copy of a shard lives on a currently known data node,
// the most preferred copy is assigned to an arbitrary node chosen
// deterministically by shard number, so every shard always gets an
// assignment even under stale shard metadata.
func (c *Client) SearchShards(ctx context.Context, index string) ([]Shard, error) {
	nodes, err := c.Nodes(ctx)
	if err != nil {
		return nil, err
	}

	res, err := c.os.SearchShards(
		c.os.SearchShards.WithContext(ctx),
		c.os.SearchShards.WithIndex(index),
	)
	body, err := c.readResponse(res, err)
	if err != nil {
		return nil, err
	}

	var decoded searchShardsResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, errors.Join(ErrInvalidResponse, err)
	}

	known := sortedNodes(nodes)
	shards := make([]Shard, 0, len(decoded.Shards))
	for _, group := range decoded.Shards {
		if len(group) == 0 {
			return nil, errors.Join(ErrInvalidResponse, errors.New("empty shard group"))
		}

		ordered := slices.Clone(group)
		slices.SortStableFunc(ordered, shardPreference)

		assigned, ok := pickAssigned(ordered, nodes)
		if !ok {
			if len(known) == 0 {
				return nil, ErrNoDataNodes
			}
			// No copy lives on a known node: send the most preferred copy to
			// an arbitrary node and let the cluster's own routing sort it out.
			chosen := ordered[0]
			node := known[chosen.Shard%len(known)]
			assigned = Shard{Number: chosen.Shard, Address: node.Address}
		}
		shards = append(shards, assigned)
	}
	return shards, nil
}

// shardPreference orders replica copies before primaries; copies with the
// same primary status keep their relative order.
func shardPreference(left, right shardCopy) int {
	if left.Primary == right.Primary {
		return 0
	}
	if left.Primary {
		return 1
	}
	return -1
}

// pickAssigned walks the preference-ordered copies and takes the first one
// located on a node present in the topology snapshot.
func pickAssigned(ordered []shardCopy, nodes map[string]Node) (Shard, bool) {
	for _, candidate := range ordered {
		if candidate.Node == "" {
			continue
		}
		if node, ok := nodes[candidate.Node]; ok {
			return Shard{Number: candidate.Shard, Address: node.Address}, true
		}
	}
	return Shard{}, false
}
