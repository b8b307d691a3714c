package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

var ErrNotFound = errors.New("article not found")

// NotFoundMessage is the body the server answers a read of an unknown
// title with. The status is 200, so the body is the only signal.
const NotFoundMessage = "No articles matching that title were found."

// StatusError is returned for any non-2xx reply. Body holds the raw
// reply.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

type Client struct {
	http.Client
	Addr string
}

type Article struct {
	ID      string `json:"_id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (c *Client) Ping(ctx context.Context) (string, error) {
	return c.text(ctx, http.MethodGet, "/ping", nil)
}

func (c *Client) ListArticles(ctx context.Context) ([]Article, error) {
	body, err := c.do(ctx, http.MethodGet, "/articles", nil)
	if err != nil {
		return nil, err
	}

	var articles []Article
	if err := json.Unmarshal(body, &articles); err != nil {
		return nil, err
	}

	return articles, nil
}

func (c *Client) CreateArticle(ctx context.Context, title, content string) (string, error) {
	return c.text(ctx, http.MethodPost, "/articles", url.Values{
		"title":   {title},
		"content": {content},
	})
}

func (c *Client) DeleteArticles(ctx context.Context) (string, error) {
	return c.text(ctx, http.MethodDelete, "/articles", nil)
}

// GetArticle returns ErrNotFound when no article has the title.
func (c *Client) GetArticle(ctx context.Context, title string) (*Article, error) {
	body, err := c.do(ctx, http.MethodGet, articlePath(title), nil)
	if err != nil {
		return nil, err
	}

	if string(body) == NotFoundMessage {
		return nil, ErrNotFound
	}

	article := &Article{}
	if err := json.Unmarshal(body, article); err != nil {
		return nil, err
	}

	return article, nil
}

// ReplaceArticle overwrites the article with fields; keys left out of
// fields are stored empty by the server.
func (c *Client) ReplaceArticle(ctx context.Context, title string, fields url.Values) (string, error) {
	return c.text(ctx, http.MethodPut, articlePath(title), fields)
}

// PatchArticle sets only the keys present in fields.
func (c *Client) PatchArticle(ctx context.Context, title string, fields url.Values) (string, error) {
	return c.text(ctx, http.MethodPatch, articlePath(title), fields)
}

func (c *Client) DeleteArticle(ctx context.Context, title string) (string, error) {
	return c.text(ctx, http.MethodDelete, articlePath(title), nil)
}

func articlePath(title string) string {
	return "/articles/" + url.PathEscape(title)
}

func (c *Client) text(ctx context.Context, method, path string, form url.Values) (string, error) {
	body, err := c.do(ctx, method, path, form)

	return string(body), err
}

func (c *Client) do(ctx context.Context, method, path string, form url.Values) ([]byte, error) {
	var reqBody io.Reader
	if form != nil {
		reqBody = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, c.Addr+path, reqBody)
	if err != nil {
		return nil, err
	}

	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return body, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}
