package instagram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"captionstudio/internal/platform/apierr"
)

const (
	defaultBaseURL = "https://instagram-scraper-api2.p.rapidapi.com"
	defaultTimeout = 30 * time.Second

	// MaxRecentCaptions bounds how many recent post captions are kept as
	// style reference.
	MaxRecentCaptions = 5
)

// Client reads public account data from the RapidAPI instagram scraper.
type Client struct {
	apiKey     string
	baseURL    string
	host       string
	httpClient *http.Client
}

type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// Profile holds the account metadata used to steer caption generation.
type Profile struct {
	FullName      string `json:"full_name"`
	Gender        string `json:"gender"`
	Biography     string `json:"biography"`
	Category      string `json:"category"`
	FollowerCount int64  `json:"follower_count"`
	IsVerified    bool   `json:"is_verified"`
}

type infoResponse struct {
	Data Profile `json:"data"`
}

type postsResponse struct {
	Data struct {
		Items []post `json:"items"`
	} `json:"data"`
}

type post struct {
	Caption *struct {
		Text string `json:"text"`
	} `json:"caption"`
}

func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	host := ""
	if u, err := url.Parse(baseURL); err == nil {
		host = u.Host
	}

	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		host:    host,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// GetProfile fetches the account metadata for a handle.
func (c *Client) GetProfile(ctx context.Context, handle string) (*Profile, error) {
	var resp infoResponse
	if err := c.get(ctx, "/v1/info", handle, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// GetRecentCaptions returns up to MaxRecentCaptions caption texts from the
// account's most recent posts, provider order preserved. Posts without
// caption text are dropped before the slice is taken.
func (c *Client) GetRecentCaptions(ctx context.Context, handle string) ([]string, error) {
	var resp postsResponse
	if err := c.get(ctx, "/v1/posts", handle, &resp); err != nil {
		return nil, err
	}

	captions := make([]string, 0, MaxRecentCaptions)
	for _, p := range resp.Data.Items {
		if p.Caption == nil || p.Caption.Text == "" {
			continue
		}
		captions = append(captions, p.Caption.Text)
		if len(captions) == MaxRecentCaptions {
			break
		}
	}
	return captions, nil
}

func (c *Client) get(ctx context.Context, path, handle string, out any) error {
	params := url.Values{}
	params.Set("username_or_id_or_url", handle)
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", c.host)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apierr.Unreachable(err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apierr.New(resp.StatusCode, string(raw))
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
