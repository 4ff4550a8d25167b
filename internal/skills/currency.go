package skills

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Frankfurter converts currency amounts using the frankfurter.dev
// exchange rate API.
type Frankfurter struct {
	client *http.Client
	base   string
}

func NewFrankfurter(client *http.Client) *Frankfurter {
	return &Frankfurter{client: client, base: "https://api.frankfurter.dev"}
}

func (f *Frankfurter) Convert(ctx context.Context, amount float64, from, to string) (string, error) {
	u := fmt.Sprintf("%s/v1/latest?amount=%g&from=%s&to=%s", f.base, amount, from, to)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("exchange rate request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Sprintf("Sorry, I don't know the exchange rate from %s to %s.", from, to), nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("exchange rate status %d", resp.StatusCode)
	}

	var body struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("exchange rate decode: %w", err)
	}
	converted, ok := body.Rates[to]
	if !ok {
		return fmt.Sprintf("Sorry, I don't know the exchange rate from %s to %s.", from, to), nil
	}
	return fmt.Sprintf("%.2f %s is %.2f %s.", amount, from, converted, to), nil
}
