// Package vistopia implements the HTTP client for the remote content API.
//
// Every endpoint shares the same envelope: {"status": "...", "data": {...}}.
// A status other than "success" is surfaced as an error so callers can decide
// whether it aborts the run (catalog pagination) or only the item (articles).
package vistopia

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// StatusError reports a response whose envelope status was not "success".
type StatusError struct {
	Endpoint string
	Status   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: api returned status %q", e.Endpoint, e.Status)
}

// Client talks to the content API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// New builds a Client. baseURL is the server root; the api/v1 prefix is
// appended per request.
func New(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		token:      token,
	}
}

// ContentPage fetches one page of the full catalog listing.
func (c *Client) ContentPage(ctx context.Context, page, count int) (ContentPage, error) {
	q := url.Values{
		"class_id": {"-1"},
		"sort":     {"1"},
		"page":     {strconv.Itoa(page)},
		"count":    {strconv.Itoa(count)},
	}
	var pageData ContentPage
	if err := c.get(ctx, "class/content", q, &pageData); err != nil {
		return ContentPage{}, err
	}
	return pageData, nil
}

// ArticleList fetches the article list for one content item.
func (c *Client) ArticleList(ctx context.Context, contentID string, count int) ([]ArticleSummary, error) {
	q := url.Values{
		"content_id": {contentID},
		"count":      {strconv.Itoa(count)},
	}
	var data struct {
		ArticleList []ArticleSummary `json:"article_list"`
	}
	if err := c.get(ctx, "content/article_list", q, &data); err != nil {
		return nil, err
	}
	return data.ArticleList, nil
}

// SectionDetail fetches the part documents for one article.
func (c *Client) SectionDetail(ctx context.Context, articleID string) ([]Part, error) {
	q := url.Values{
		"article_id": {articleID},
		"share_uid":  {""},
	}
	var data struct {
		Part []Part `json:"part"`
	}
	if err := c.get(ctx, "reader/section-detail", q, &data); err != nil {
		return nil, err
	}
	return data.Part, nil
}

// ContentShow fetches the show-detail document for one content item.
func (c *Client) ContentShow(ctx context.Context, contentID string) (json.RawMessage, error) {
	// The upstream expects the literal string "undefined" here.
	q := url.Values{"content_channel": {"undefined"}}
	var data json.RawMessage
	if err := c.get(ctx, "content/content-show/"+url.PathEscape(contentID), q, &data); err != nil {
		return nil, err
	}
	return data, nil
}

func (c *Client) get(ctx context.Context, endpoint string, q url.Values, out any) error {
	q.Set("api_token", c.token)
	reqURL := fmt.Sprintf("%s/api/v1/%s?%s", c.baseURL, endpoint, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", endpoint, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: unexpected status %s", endpoint, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read body: %w", endpoint, err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("%s: decode envelope: %w", endpoint, err)
	}
	if env.Status != "success" {
		return &StatusError{Endpoint: endpoint, Status: env.Status}
	}
	if len(env.Data) == 0 {
		return fmt.Errorf("%s: response has no data", endpoint)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%s: decode data: %w", endpoint, err)
	}
	return nil
}
