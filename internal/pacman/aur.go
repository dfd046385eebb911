package pacman

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const aurRPCInfoURL = "https://aur.archlinux.org/rpc/v5/info"

// AurRPCFetcher fetches package metadata from the AUR RPC v5 info
// endpoint. It is an interface so tests can stub network access.
type AurRPCFetcher interface {
	Info(ctx context.Context, name string) (*AurInfo, error)
}

// AurInfo is the subset of an AUR RPC v5 "results[0]" object that the
// resolver and detail enricher care about.
type AurInfo struct {
	Name         string   `json:"Name"`
	Version      string   `json:"Version"`
	Description  string   `json:"Description"`
	Popularity   float64  `json:"Popularity"`
	NumVotes     int      `json:"NumVotes"`
	OutOfDate    *int64   `json:"OutOfDate"`
	Maintainer   *string  `json:"Maintainer"`
	URL          *string  `json:"URL"`
	Depends      []string `json:"Depends"`
	MakeDepends  []string `json:"MakeDepends"`
	CheckDepends []string `json:"CheckDepends"`
	OptDepends   []string `json:"OptDepends"`
}

type aurRPCResponse struct {
	Results []AurInfo `json:"results"`
}

// AurRPCClient is the production AurRPCFetcher backed by net/http. The
// teacher's dependency set carries no third-party HTTP client, so this
// is one of the few deliberate stdlib choices (see DESIGN.md).
type AurRPCClient struct {
	HTTP *http.Client
}

// NewAurRPCClient builds an AurRPCClient with a bounded-timeout
// http.Client.
func NewAurRPCClient() *AurRPCClient {
	return &AurRPCClient{HTTP: &http.Client{Timeout: 15 * time.Second}}
}

func (c *AurRPCClient) Info(ctx context.Context, name string) (*AurInfo, error) {
	u := aurRPCInfoURL + "?arg=" + url.QueryEscape(name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("pacman: build AUR RPC request for %q: %w", name, err)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pacman: AUR RPC request for %q: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pacman: AUR RPC for %q returned status %d", name, resp.StatusCode)
	}

	var parsed aurRPCResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("pacman: decode AUR RPC response for %q: %w", name, err)
	}
	if len(parsed.Results) == 0 {
		return nil, fmt.Errorf("pacman: no AUR package found for %q", name)
	}
	return &parsed.Results[0], nil
}
