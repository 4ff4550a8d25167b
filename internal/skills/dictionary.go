package skills

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// DictionaryAPI defines words via dictionaryapi.dev.
type DictionaryAPI struct {
	client *http.Client
	base   string
}

func NewDictionaryAPI(client *http.Client) *DictionaryAPI {
	return &DictionaryAPI{client: client, base: "https://api.dictionaryapi.dev"}
}

func (d *DictionaryAPI) Define(ctx context.Context, word string) (string, error) {
	u := fmt.Sprintf("%s/api/v2/entries/en/%s", d.base, url.PathEscape(word))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("dictionary request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Sprintf("Sorry, I couldn't find a definition for %q.", word), nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("dictionary status %d", resp.StatusCode)
	}

	var entries []struct {
		Meanings []struct {
			PartOfSpeech string `json:"partOfSpeech"`
			Definitions  []struct {
				Definition string `json:"definition"`
			} `json:"definitions"`
		} `json:"meanings"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return "", fmt.Errorf("dictionary decode: %w", err)
	}

	for _, e := range entries {
		for _, m := range e.Meanings {
			if len(m.Definitions) == 0 {
				continue
			}
			return fmt.Sprintf("%s (%s): %s", word, m.PartOfSpeech, m.Definitions[0].Definition), nil
		}
	}
	return fmt.Sprintf("Sorry, I couldn't find a definition for %q.", word), nil
}
