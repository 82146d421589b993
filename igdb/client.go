package igdb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.igdb.com/v4"

// gamesQuery is the field projection requested for every games call.
// It pulls the nested company, website, logo and release date data the
// normalizer needs in a single round trip.
const gamesQuery = "fields id, name, summary, cover.url, " +
	"platforms.id, platforms.name, platforms.abbreviation, " +
	"genres.name, release_dates.date, release_dates.platform.name, " +
	"involved_companies.company.name, involved_companies.company.description, " +
	"involved_companies.company.websites.url, involved_companies.company.websites.category, " +
	"involved_companies.company.start_date, involved_companies.company.logo.url, " +
	"involved_companies.developer, involved_companies.publisher"

// Client issues apicalypse queries against the game database API.
type Client struct {
	BaseURL    string
	Tokens     *TokenProvider
	HTTPClient *http.Client
}

// NewClient wires a client to the given token provider.
func NewClient(tokens *TokenProvider) *Client {
	return &Client{
		BaseURL:    defaultBaseURL,
		Tokens:     tokens,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// SearchGames fetches up to limit games matching the search term, with
// the full projection needed for catalog ingestion. An empty search term
// returns the API's default listing.
func (c *Client) SearchGames(ctx context.Context, search string, limit int) ([]Game, error) {
	if limit <= 0 {
		limit = 10
	}

	query := gamesQuery + "; "
	if search != "" {
		// apicalypse quotes search terms; strip embedded quotes to keep
		// the query well formed
		query += fmt.Sprintf("search %q; ", strings.ReplaceAll(search, `"`, ""))
	}
	query += fmt.Sprintf("limit %d;", limit)

	var games []Game
	if err := c.do(ctx, "games", query, &games); err != nil {
		return nil, err
	}
	return games, nil
}

// TopRatedGames fetches well-rated games, used by the company populate
// command to harvest developers and publishers in bulk.
func (c *Client) TopRatedGames(ctx context.Context, limit int) ([]Game, error) {
	if limit <= 0 {
		limit = 100
	}

	query := gamesQuery +
		"; where rating > 70 & rating_count > 10; sort rating desc; " +
		fmt.Sprintf("limit %d;", limit)

	var games []Game
	if err := c.do(ctx, "games", query, &games); err != nil {
		return nil, err
	}
	return games, nil
}

func (c *Client) do(ctx context.Context, endpoint, query string, out interface{}) error {
	token, err := c.Tokens.Token(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.BaseURL+"/"+endpoint, bytes.NewBufferString(query))
	if err != nil {
		return fmt.Errorf("igdb: build request: %w", err)
	}
	req.Header.Set("Client-ID", c.Tokens.ClientID)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("igdb: %s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		// stale token; drop the cache so the next call refreshes
		c.Tokens.Invalidate()
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("igdb: %s returned status %d: %s", endpoint, resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("igdb: decode %s response: %w", endpoint, err)
	}
	return nil
}
