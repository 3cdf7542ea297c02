package store

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/doyensec/safeurl"

	"civicsync/models"
)

// DefaultPlaceholderURL is the public placeholder REST API.
const DefaultPlaceholderURL = "https://jsonplaceholder.typicode.com"

// NewSafeHTTPClient returns a client that refuses private, loopback and
// metadata addresses, also after DNS resolution.
func NewSafeHTTPClient(timeout time.Duration) *http.Client {
	config := safeurl.GetConfigBuilder().
		SetTimeout(timeout).
		SetAllowedSchemes("http", "https").
		SetAllowedPorts(80, 443).
		Build()

	return safeurl.Client(config).Client
}

// PlaceholderIdentitySource looks identities up at GET {base}/users/{id}.
type PlaceholderIdentitySource struct {
	baseURL string
	client  *http.Client
}

func NewPlaceholderIdentitySource(baseURL string, client *http.Client) *PlaceholderIdentitySource {
	if baseURL == "" {
		baseURL = DefaultPlaceholderURL
	}
	if client == nil {
		client = NewSafeHTTPClient(10 * time.Second)
	}
	return &PlaceholderIdentitySource{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

type placeholderUser struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (p *PlaceholderIdentitySource) GetIdentity(ctx context.Context, id int64) (models.Identity, error) {
	url := fmt.Sprintf("%s/users/%d", p.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return models.Identity{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return models.Identity{}, fmt.Errorf("get identity %d: %w: %w", id, models.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return models.Identity{}, fmt.Errorf("identity %d: %w", id, models.ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return models.Identity{}, fmt.Errorf("get identity %d: %w: status %d", id, models.ErrSourceUnavailable, resp.StatusCode)
	}

	var u placeholderUser
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return models.Identity{}, fmt.Errorf("decode identity %d: %w: %w", id, models.ErrSourceUnavailable, err)
	}
	// the placeholder API answers {} for some unknown ids
	if u.ID == 0 {
		return models.Identity{}, fmt.Errorf("identity %d: %w", id, models.ErrNotFound)
	}

	name := u.Name
	if name == "" {
		name = u.Username
	}
	return models.Identity{ID: u.ID, Name: name, Email: u.Email}, nil
}
