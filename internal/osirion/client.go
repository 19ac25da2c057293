package osirion

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultBaseURL is the public Osirion Fortnite API.
const DefaultBaseURL = "https://api.osirion.gg/fortnite/v1"

// APIClient is the Osirion API client that implements the TournamentClient interface.
type APIClient struct {
	httpClient *http.Client
	apiKey     string
	BaseURL    string
}

// NewClient creates a new Osirion client. A zero timeout leaves the transport without a deadline.
func NewClient(baseURL, apiKey string, timeout time.Duration) TournamentClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &APIClient{
		httpClient: &http.Client{Timeout: timeout},
		apiKey:     apiKey,
		BaseURL:    baseURL,
	}
}

// Ensure APIClient implements the TournamentClient interface.
var _ TournamentClient = (*APIClient)(nil)

// ListTournaments fetches every tournament the API knows about, progress metadata included.
func (c *APIClient) ListTournaments(ctx context.Context) ([]Tournament, error) {
	query := url.Values{}
	query.Set("includeProgress", "true")

	var resp tournamentsResponse
	if err := c.get(ctx, "/tournaments", query, &resp); err != nil {
		return nil, err
	}
	log.Debug("Fetched tournaments", "count", len(resp.Tournaments))
	return resp.Tournaments, nil
}

// CountTournamentPlayers returns how many entries playerID has in a single tournament window.
// Entries are not decoded, so their contents never fail the query.
func (c *APIClient) CountTournamentPlayers(ctx context.Context, eventID, eventWindowID, playerID string) (int, error) {
	var resp tournamentEntriesResponse
	if err := c.get(ctx, c.windowPath(eventID), windowQuery(eventWindowID, playerID), &resp); err != nil {
		return 0, err
	}
	return len(resp.Players), nil
}

// GetTournamentPlayers fetches the entries of playerID in a single tournament window.
// An empty slice means the player has no record in that window.
func (c *APIClient) GetTournamentPlayers(ctx context.Context, eventID, eventWindowID, playerID string) ([]PlayerStats, error) {
	var resp tournamentPlayersResponse
	if err := c.get(ctx, c.windowPath(eventID), windowQuery(eventWindowID, playerID), &resp); err != nil {
		return nil, err
	}
	return resp.Players, nil
}

func (c *APIClient) windowPath(eventID string) string {
	return "/tournaments/" + url.PathEscape(eventID)
}

func windowQuery(eventWindowID, playerID string) url.Values {
	query := url.Values{}
	query.Set("eventWindowId", eventWindowID)
	query.Set("epicIds", playerID)
	return query
}

func (c *APIClient) get(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("User-Agent", "TournamentStatsGoClient/1.0")

	log.Debug("Requesting Osirion API", "url", endpoint)
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		log.Error("Received non-OK HTTP status from Osirion API", "status", resp.StatusCode, "url", endpoint, "body", string(body))
		return fmt.Errorf("received non-OK HTTP status: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	log.Debug("Osirion API request finished", "url", endpoint, "duration_ms", time.Since(start).Milliseconds())
	return nil
}
