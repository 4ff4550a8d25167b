package skills

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

const headlineCount = 3

// HackerNews fetches top story titles from the Hacker News firebase API.
type HackerNews struct {
	client *http.Client
	base   string
}

func NewHackerNews(client *http.Client) *HackerNews {
	return &HackerNews{client: client, base: "https://hacker-news.firebaseio.com"}
}

func (h *HackerNews) Top(ctx context.Context) (string, error) {
	var ids []int
	if err := h.get(ctx, h.base+"/v0/topstories.json", &ids); err != nil {
		return "", fmt.Errorf("top stories: %w", err)
	}
	if len(ids) == 0 {
		return "No headlines right now.", nil
	}
	if len(ids) > headlineCount {
		ids = ids[:headlineCount]
	}

	var lines []string
	for i, id := range ids {
		var item struct {
			Title string `json:"title"`
		}
		if err := h.get(ctx, fmt.Sprintf("%s/v0/item/%d.json", h.base, id), &item); err != nil {
			return "", fmt.Errorf("story %d: %w", id, err)
		}
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, item.Title))
	}
	return "Top headlines: " + strings.Join(lines, " "), nil
}

func (h *HackerNews) get(ctx context.Context, u string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
