package skills

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// MyMemory translates phrases via the MyMemory public API.
type MyMemory struct {
	client *http.Client
	base   string
}

func NewMyMemory(client *http.Client) *MyMemory {
	return &MyMemory{client: client, base: "https://api.mymemory.translated.net"}
}

var languageCodes = map[string]string{
	"arabic": "ar", "chinese": "zh", "dutch": "nl", "english": "en",
	"french": "fr", "german": "de", "hindi": "hi", "italian": "it",
	"japanese": "ja", "korean": "ko", "polish": "pl", "portuguese": "pt",
	"russian": "ru", "spanish": "es", "turkish": "tr", "ukrainian": "uk",
}

func (m *MyMemory) Translate(ctx context.Context, phrase, language string) (string, error) {
	code, ok := languageCodes[language]
	if !ok {
		return fmt.Sprintf("Sorry, I can't translate into %s.", language), nil
	}

	u := fmt.Sprintf("%s/get?q=%s&langpair=en|%s", m.base, url.QueryEscape(phrase), code)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("translation request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translation status %d", resp.StatusCode)
	}

	var body struct {
		ResponseData struct {
			TranslatedText string `json:"translatedText"`
		} `json:"responseData"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("translation decode: %w", err)
	}
	if body.ResponseData.TranslatedText == "" {
		return "", fmt.Errorf("empty translation for %q", phrase)
	}
	return fmt.Sprintf("%q in %s is %q.", phrase, language, body.ResponseData.TranslatedText), nil
}
