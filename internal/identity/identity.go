// Package identity talks to the external identity provider's admin API. The
// provider owns sessions and credentials; the only operation this system
// needs is deleting an identity when the platform account is removed.
package identity

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Admin deletes identities at the provider.
type Admin interface {
	DeleteUser(ctx context.Context, userID string) error
}

// Client is an Admin backed by the provider's HTTP admin endpoint.
type Client struct {
	baseURL    string
	serviceKey string
	http       *http.Client
}

func NewClient(baseURL, serviceKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		http:       &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) DeleteUser(ctx context.Context, userID string) error {
	if c.baseURL == "" {
		return fmt.Errorf("identity admin URL is not configured")
	}

	url := fmt.Sprintf("%s/admin/users/%s", c.baseURL, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("identity provider returned %d deleting user %s", resp.StatusCode, userID)
	}
	return nil
}
