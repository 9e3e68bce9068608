// Package identity resolves user ids to display data through the platform's
// profile service. It is boundary-only decoration: core workflow and scoring
// logic never depends on it.
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// PlaceholderName is shown when the profile service cannot resolve a user.
const PlaceholderName = "Unknown user"

// DisplayInfo is what the profile service knows about a user.
type DisplayInfo struct {
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}

// Lookup resolves a user id to display data.
type Lookup interface {
	Lookup(ctx context.Context, userID string) (DisplayInfo, error)
}

// Client talks to the profile service over HTTP.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 5 * time.Second},
	}
}

func (c *Client) Lookup(ctx context.Context, userID string) (DisplayInfo, error) {
	url := fmt.Sprintf("%s/users/%s", c.BaseURL, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return DisplayInfo{}, err
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return DisplayInfo{}, fmt.Errorf("identity lookup for %s: %w", userID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return DisplayInfo{}, fmt.Errorf("identity lookup for %s: status %d", userID, resp.StatusCode)
	}

	var info DisplayInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return DisplayInfo{}, fmt.Errorf("identity lookup for %s: %w", userID, err)
	}
	return info, nil
}

// OrPlaceholder degrades a failed lookup to a placeholder so an unavailable
// profile service never fails the enclosing request.
func OrPlaceholder(info DisplayInfo, err error) DisplayInfo {
	if err != nil || info.DisplayName == "" {
		return DisplayInfo{DisplayName: PlaceholderName}
	}
	return info
}
