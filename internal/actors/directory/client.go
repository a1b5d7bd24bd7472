// Package directory implements the HTTP client for the external actor
// directory service.
package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"vigil/internal/actors"
)

// Client talks to the actor directory over HTTP. One POST per provider
// resolves a batch of profile IDs; single lookups reuse the same endpoint.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a directory client against the given base URL.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type lookupRequest struct {
	ProfileIDs []string `json:"profileIds"`
}

type lookupResponse struct {
	Profiles []actors.Profile `json:"profiles"`
}

// BatchLookup resolves profile IDs against one provider in a single call.
// Profile IDs unknown to the directory are simply absent from the result.
func (c *Client) BatchLookup(ctx context.Context, provider string, profileIDs []string) ([]actors.Profile, error) {
	if len(profileIDs) == 0 {
		return nil, nil
	}

	body, err := json.Marshal(lookupRequest{ProfileIDs: profileIDs})
	if err != nil {
		return nil, fmt.Errorf("marshal lookup request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/providers/%s/profiles:lookup", c.baseURL, url.PathEscape(provider))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build lookup request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("directory lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("directory lookup: unexpected status %d", resp.StatusCode)
	}

	var decoded lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode lookup response: %w", err)
	}
	return decoded.Profiles, nil
}

// Lookup resolves a single profile ID. Used for the viewing operator, which
// is never batched with page actors.
func (c *Client) Lookup(ctx context.Context, provider, profileID string) (actors.Profile, error) {
	profiles, err := c.BatchLookup(ctx, provider, []string{profileID})
	if err != nil {
		return actors.Profile{}, err
	}
	for _, p := range profiles {
		if p.ProfileID == profileID {
			return p, nil
		}
	}
	return actors.Profile{}, fmt.Errorf("profile %q not found in provider %q", profileID, provider)
}

var _ actors.Directory = (*Client)(nil)
