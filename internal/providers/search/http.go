package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/inbucket/html2text"
	"github.com/sandevgo/pepebot/internal/core"
	"github.com/sandevgo/pepebot/pkg/retry"
)

// Client queries the embedding search sidecar over HTTP. Transient
// failures are retried with backoff; the caller decides what a dead
// source means for the request.
type Client struct {
	httpClient *http.Client
	baseURL    string
	retrier    *retry.Retrier
}

func NewClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		retrier:    retry.NewDefaultRetrier(),
	}
}

type searchRequest struct {
	Query     string  `json:"query"`
	Source    string  `json:"source"`
	TopK      int     `json:"top_k"`
	Threshold float64 `json:"threshold"`
}

type searchResult struct {
	ID         string            `json:"id"`
	Text       string            `json:"text"`
	Similarity float64           `json:"similarity"`
	Metadata   map[string]string `json:"metadata"`
}

func (c *Client) Search(ctx context.Context, query string, source core.SourceType, topK int, threshold float64) ([]core.SearchHit, error) {
	payload, err := json.Marshal(searchRequest{
		Query:     query,
		Source:    string(source),
		TopK:      topK,
		Threshold: threshold,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	var results []searchResult
	err = c.retrier.Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("search request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return fmt.Errorf("search service http %d: %s", resp.StatusCode, string(body))
		}

		var decoded struct {
			Results []searchResult `json:"results"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
			return fmt.Errorf("decode search response: %w", err)
		}
		results = decoded.Results
		return nil
	})
	if err != nil {
		return nil, err
	}

	hits := make([]core.SearchHit, 0, len(results))
	for _, r := range results {
		text := r.Text
		if source == core.SourceWiki {
			text = cleanWikiText(text)
		}
		hits = append(hits, core.SearchHit{
			ID:         r.ID,
			Text:       text,
			Similarity: r.Similarity,
			Metadata:   r.Metadata,
		})
	}
	return hits, nil
}

// cleanWikiText flattens HTML fragments that survive wiki scraping into
// plain text. Already-plain passages pass through untouched.
func cleanWikiText(text string) string {
	if !strings.ContainsAny(text, "<>") {
		return text
	}
	plain, err := html2text.FromString(text, html2text.Options{OmitLinks: true})
	if err != nil {
		return text
	}
	return strings.Join(strings.Fields(plain), " ")
}
