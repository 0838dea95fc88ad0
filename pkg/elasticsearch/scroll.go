package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/dmitrymomot/searchkit/pkg/logger"
)

// SearchRequest describes a scroll search constrained to a single shard of
// one index. The page size and cursor lease duration are fixed at client
// construction time.
type SearchRequest struct {
	Index string
	Shard int

	// Query is a query DSL object. A nil query matches all documents.
	Query json.RawMessage

	// SourceFields selects the source fields to project: nil projects all
	// fields, an empty non-nil slice projects none, anything else projects
	// exactly the named fields.
	SourceFields []string

	// DocValueFields are computed fields requested verbatim regardless of
	// the source projection.
	DocValueFields []string
}

// SearchResult is one page of a scroll search. An empty Hits slice signals
// exhaustion; detecting it is the caller's responsibility.
type SearchResult struct {
	// ScrollID is the cursor for the next page. It must be released with
	// ClearScroll once the caller is done.
	ScrollID string
	Hits     []Hit
}

// Hit is a single matched document with its raw payloads.
type Hit struct {
	Index  string
	ID     string
	Score  float64
	Source json.RawMessage
	Fields map[string]json.RawMessage
}

type searchResponse struct {
	ScrollID string `json:"_scroll_id"`
	Hits     struct {
		Hits []struct {
			Index  string                     `json:"_index"`
			ID     string                     `json:"_id"`
			Score  float64                    `json:"_score"`
			Source json.RawMessage            `json:"_source"`
			Fields map[string]json.RawMessage `json:"fields"`
		} `json:"hits"`
	} `json:"hits"`
}

// BeginSearch opens a scroll session for one shard and returns the first
// page. The request is pinned to the shard via a "_shards:<n>" routing
// preference, so it only ever touches data for that shard regardless of
// which node serves it.
func (c *Client) BeginSearch(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	body, err := json.Marshal(searchSource(req, c.scrollSize))
	if err != nil {
		return nil, fmt.Errorf("encode search body: %w", err)
	}

	res, err := c.os.Search(
		c.os.Search.WithContext(ctx),
		c.os.Search.WithIndex(req.Index),
		c.os.Search.WithSearchType("query_then_fetch"),
		c.os.Search.WithPreference(fmt.Sprintf("_shards:%d", req.Shard)),
		c.os.Search.WithScroll(c.scrollTimeout),
		c.os.Search.WithBody(bytes.NewReader(body)),
	)
	return c.decodeSearch(res, err)
}

// NextPage fetches the next batch for cursor and renews its lease. The
// returned result carries the cursor for the page after it.
func (c *Client) NextPage(ctx context.Context, scrollID string) (*SearchResult, error) {
	res, err := c.os.Scroll(
		c.os.Scroll.WithContext(ctx),
		c.os.Scroll.WithScrollID(scrollID),
		c.os.Scroll.WithScroll(c.scrollTimeout),
	)
	return c.decodeSearch(res, err)
}

// ClearScroll releases the server-side state behind cursor. Failure to clear
// leaks cluster resources until the lease expires but never invalidates
// already fetched pages.
func (c *Client) ClearScroll(ctx context.Context, scrollID string) error {
	res, err := c.os.ClearScroll(
		c.os.ClearScroll.WithContext(ctx),
		c.os.ClearScroll.WithScrollID(scrollID),
	)
	if err != nil {
		c.log.WarnContext(ctx, "failed to clear scroll cursor",
			logger.Component("elasticsearch"),
			logger.ScrollID(scrollID),
			logger.Error(err))
		return errors.Join(ErrConnectionFailed, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return errors.Join(ErrConnectionFailed, fmt.Errorf("unexpected status %s", res.Status()))
	}
	return nil
}

// searchSource assembles the request body: query, page size, source
// projection and doc-value fields.
func searchSource(req SearchRequest, size int) map[string]any {
	source := map[string]any{"size": size}
	if req.Query != nil {
		source["query"] = req.Query
	}
	if req.SourceFields != nil {
		if len(req.SourceFields) == 0 {
			source["_source"] = false
		} else {
			source["_source"] = req.SourceFields
		}
	}
	if len(req.DocValueFields) > 0 {
		source["docvalue_fields"] = req.DocValueFields
	}
	return source
}

// decodeSearch classifies a search result. Cluster-reported failures with a
// structured reason become ErrQueryFailed; everything else at the transport
// level becomes ErrConnectionFailed.
func (c *Client) decodeSearch(res *opensearchapi.Response, err error) (*SearchResult, error) {
	if err != nil {
		return nil, errors.Join(ErrConnectionFailed, err)
	}
	defer res.Body.Close()
	body, readErr := io.ReadAll(res.Body)
	if readErr != nil {
		return nil, errors.Join(ErrInvalidResponse, readErr)
	}
	if res.IsError() {
		if reason, ok := errorReason(body); ok {
			return nil, fmt.Errorf("%w: %s", ErrQueryFailed, reason)
		}
		return nil, errors.Join(ErrConnectionFailed, fmt.Errorf("unexpected status %s", res.Status()))
	}

	var decoded searchResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, errors.Join(ErrInvalidResponse, err)
	}

	result := &SearchResult{
		ScrollID: decoded.ScrollID,
		Hits:     make([]Hit, 0, len(decoded.Hits.Hits)),
	}
	for _, hit := range decoded.Hits.Hits {
		result.Hits = append(result.Hits, Hit{
			Index:  hit.Index,
			ID:     hit.ID,
			Score:  hit.Score,
			Source: hit.Source,
			Fields: hit.Fields,
		})
	}
	return result, nil
}

// errorReason extracts error.root_cause[0].reason from a failed response
// body. A missing or unparseable reason reports ok=false and the caller
// falls back to the generic connection error.
func errorReason(body []byte) (string, bool) {
	var payload struct {
		Error struct {
			RootCause []struct {
				Reason string `json:"reason"`
			} `json:"root_cause"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", false
	}
	if len(payload.Error.RootCause) == 0 || payload.Error.RootCause[0].Reason == "" {
		return "", false
	}
	return payload.Error.RootCause[0].Reason, true
}
