package notion

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"docbridge/internal/domain"
)

const (
	// DefaultBaseURL is the workspace REST API endpoint
	DefaultBaseURL = "https://api.notion.com/v1"
	// apiVersion is sent on every request; payload shapes are pinned to it
	apiVersion = "2022-06-28"
	// DefaultTimeout is the default HTTP timeout for API requests
	DefaultTimeout = 60 * time.Second
)

// Client is a minimal Notion REST client covering page retrieval,
// child-block listing, and workspace user listing.
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new Notion API client.
func NewClient(token string, logger *slog.Logger) *Client {
	return &Client{
		token:   token,
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger: logger,
	}
}

// NewClientWithBaseURL creates a client against a custom endpoint (tests).
func NewClientWithBaseURL(token, baseURL string, logger *slog.Logger) *Client {
	c := NewClient(token, logger)
	c.baseURL = baseURL
	return c
}

func (c *Client) get(ctx context.Context, path string, query url.Values, dest interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", apiVersion)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s (status 404): %s", domain.ErrNotFound, path, string(body))
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s (status %d): %s", domain.ErrUpstream, path, resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// RetrievePage fetches a page object by id.
func (c *Client) RetrievePage(ctx context.Context, pageID string) (*Page, error) {
	var page Page
	if err := c.get(ctx, "/pages/"+pageID, nil, &page); err != nil {
		return nil, fmt.Errorf("retrieve page %s: %w", pageID, err)
	}
	return &page, nil
}

type blockList struct {
	Results    []Block `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor string  `json:"next_cursor"`
}

// FetchBlockTree retrieves the fully materialized block tree for a parent
// id: pagination-aware at each level, depth-first into every block flagged
// as having children before the next sibling. A request failure aborts the
// subtree and propagates; there is no retry or partial reuse.
func (c *Client) FetchBlockTree(ctx context.Context, parentID string) ([]Block, error) {
	var blocks []Block
	cursor := ""
	for {
		query := url.Values{}
		if cursor != "" {
			query.Set("start_cursor", cursor)
		}

		var page blockList
		if err := c.get(ctx, "/blocks/"+parentID+"/children", query, &page); err != nil {
			return nil, fmt.Errorf("list children of %s: %w", parentID, err)
		}
		blocks = append(blocks, page.Results...)

		if !page.HasMore {
			break
		}
		cursor = page.NextCursor
	}

	for i := range blocks {
		if !blocks[i].HasChildren {
			continue
		}
		children, err := c.FetchBlockTree(ctx, blocks[i].ID)
		if err != nil {
			return nil, err
		}
		blocks[i].Children = children
	}

	return blocks, nil
}

type userList struct {
	Results    []User `json:"results"`
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor"`
}

// ListUsers fetches all workspace users, following pagination.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	cursor := ""
	for {
		query := url.Values{}
		if cursor != "" {
			query.Set("start_cursor", cursor)
		}

		var page userList
		if err := c.get(ctx, "/users", query, &page); err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		users = append(users, page.Results...)

		if !page.HasMore {
			break
		}
		cursor = page.NextCursor
	}
	return users, nil
}
