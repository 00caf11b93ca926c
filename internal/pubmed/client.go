// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pubmed queries the NCBI E-utilities API for article identifiers,
// metadata, and citation-graph links, and normalizes replies into Paper
// records.
// Implements: prd001-metadata (R1-R5);
//
//	docs/ARCHITECTURE § Metadata Client.
package pubmed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/litscout/internal/httputil"
	"github.com/pdiddy/litscout/pkg/types"
)

// eutilsBase is the E-utilities endpoint prefix. Declared as a var so tests
// can substitute an httptest server.
var eutilsBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

// articleURLBase is the canonical article page prefix.
const articleURLBase = "https://pubmed.ncbi.nlm.nih.gov/"

// ELink linknames for the two graph directions.
const (
	linkCitedIn    = "pubmed_pubmed_citedin"
	linkReferences = "pubmed_pubmed_refs"
)

const (
	defaultBatchSize = 5
	maxBatchSize     = 10
)

// Client talks to the E-utilities API. All operations share a fixed
// inter-request throttle and a retry-once policy for transient failures.
type Client struct {
	HTTP *http.Client
	Cfg  types.PubMedConfig
	Log  *zap.Logger

	mu   sync.Mutex
	last time.Time
}

// NewClient builds a Client with defaults filled in. A nil logger disables
// request logging.
func NewClient(cfg types.PubMedConfig, log *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "litscout/0.1"
	}
	if cfg.Tool == "" {
		cfg.Tool = "litscout"
	}
	if cfg.RequestDelay <= 0 {
		cfg.RequestDelay = 350 * time.Millisecond
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 2 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	if cfg.BatchSize > maxBatchSize {
		cfg.BatchSize = maxBatchSize
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		HTTP: &http.Client{Timeout: cfg.Timeout},
		Cfg:  cfg,
		Log:  log,
	}
}

// throttle enforces the fixed delay between consecutive requests. Each
// caller claims the next free slot under the lock, then sleeps until it.
func (c *Client) throttle(ctx context.Context) error {
	c.mu.Lock()
	now := time.Now()
	wait := c.Cfg.RequestDelay - now.Sub(c.last)
	if wait > 0 {
		c.last = now.Add(wait)
	} else {
		c.last = now
	}
	c.mu.Unlock()

	if wait <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
		return nil
	}
}

// get issues one throttled, retried GET against an E-utilities endpoint and
// returns the response body. Non-2xx replies after the retry surface the
// upstream payload unchanged.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if err := c.throttle(ctx); err != nil {
		return nil, err
	}

	params.Set("db", "pubmed")
	params.Set("tool", c.Cfg.Tool)
	if c.Cfg.Email != "" {
		params.Set("email", c.Cfg.Email)
	}
	if c.Cfg.APIKey != "" {
		params.Set("api_key", c.Cfg.APIKey)
	}

	reqURL := eutilsBase + "/" + endpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.Cfg.UserAgent)

	policy := httputil.Policy{MaxRetries: 1, Delay: c.Cfg.RetryDelay}
	resp, err := httputil.Do(ctx, c.HTTP, req, policy)
	if err != nil {
		return nil, fmt.Errorf("E-utilities %s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s response: %w", endpoint, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("E-utilities %s returned HTTP %d: %s", endpoint, resp.StatusCode, string(body))
	}

	c.Log.Debug("eutils request",
		zap.String("endpoint", endpoint),
		zap.Int("bytes", len(body)),
	)
	return body, nil
}

// esearchResponse is the ESearch JSON envelope.
type esearchResponse struct {
	Result struct {
		Count  string   `json:"count"`
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

// Search runs an ESearch query and returns an ordered PMID list, best match
// first, capped at maxResults.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]string, error) {
	if maxResults <= 0 {
		maxResults = 20
	}

	params := url.Values{
		"term":    {query},
		"retmax":  {fmt.Sprintf("%d", maxResults)},
		"retmode": {"json"},
		"sort":    {"relevance"},
	}

	body, err := c.get(ctx, "esearch.fcgi", params)
	if err != nil {
		return nil, err
	}

	var er esearchResponse
	if err := json.Unmarshal(body, &er); err != nil {
		return nil, fmt.Errorf("parsing ESearch response: %w", err)
	}
	return er.Result.IDList, nil
}

// elinkResponse is the ELink JSON envelope.
type elinkResponse struct {
	LinkSets []struct {
		LinkSetDBs []struct {
			LinkName string   `json:"linkname"`
			Links    []string `json:"links"`
		} `json:"linksetdbs"`
	} `json:"linksets"`
}

// Citations returns PMIDs of papers citing pmid.
func (c *Client) Citations(ctx context.Context, pmid string) ([]string, error) {
	return c.elink(ctx, pmid, linkCitedIn)
}

// References returns PMIDs the paper cites.
func (c *Client) References(ctx context.Context, pmid string) ([]string, error) {
	return c.elink(ctx, pmid, linkReferences)
}

// elink traverses one hop of the citation graph.
func (c *Client) elink(ctx context.Context, pmid, linkname string) ([]string, error) {
	params := url.Values{
		"dbfrom":   {"pubmed"},
		"id":       {pmid},
		"linkname": {linkname},
		"retmode":  {"json"},
	}

	body, err := c.get(ctx, "elink.fcgi", params)
	if err != nil {
		return nil, err
	}

	var er elinkResponse
	if err := json.Unmarshal(body, &er); err != nil {
		return nil, fmt.Errorf("parsing ELink response: %w", err)
	}

	var ids []string
	for _, set := range er.LinkSets {
		for _, db := range set.LinkSetDBs {
			if db.LinkName != linkname {
				continue
			}
			ids = append(ids, db.Links...)
		}
	}
	return ids, nil
}
