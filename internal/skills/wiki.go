package skills

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Wikipedia looks up topic summaries via the REST summary endpoint.
type Wikipedia struct {
	client *http.Client
	base   string
}

func NewWikipedia(client *http.Client) *Wikipedia {
	return &Wikipedia{client: client, base: "https://en.wikipedia.org"}
}

func (w *Wikipedia) Summary(ctx context.Context, topic string) (string, error) {
	title := strings.ReplaceAll(strings.TrimSpace(topic), " ", "_")
	u := fmt.Sprintf("%s/api/rest_v1/page/summary/%s", w.base, url.PathEscape(title))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}
	resp, err := w.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("wikipedia request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "Sorry, I couldn't find anything on Wikipedia.", nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("wikipedia status %d", resp.StatusCode)
	}

	var body struct {
		Extract string `json:"extract"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("wikipedia decode: %w", err)
	}
	if body.Extract == "" {
		return "Sorry, I couldn't find anything on Wikipedia.", nil
	}
	return body.Extract, nil
}
