package skills

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// OpenMeteo reports current conditions using the open-meteo geocoding
// and forecast APIs. No API key required.
type OpenMeteo struct {
	client  *http.Client
	geoBase string
	base    string
}

func NewOpenMeteo(client *http.Client) *OpenMeteo {
	return &OpenMeteo{
		client:  client,
		geoBase: "https://geocoding-api.open-meteo.com",
		base:    "https://api.open-meteo.com",
	}
}

var weatherCodes = map[int]string{
	0: "clear skies", 1: "mostly clear", 2: "partly cloudy", 3: "overcast",
	45: "fog", 48: "icy fog",
	51: "light drizzle", 53: "drizzle", 55: "heavy drizzle",
	61: "light rain", 63: "rain", 65: "heavy rain",
	71: "light snow", 73: "snow", 75: "heavy snow",
	80: "rain showers", 81: "rain showers", 82: "violent rain showers",
	95: "a thunderstorm", 96: "a thunderstorm with hail", 99: "a thunderstorm with hail",
}

func (o *OpenMeteo) Current(ctx context.Context, place string) (string, error) {
	name, lat, lon, err := o.geocode(ctx, place)
	if err != nil {
		return "", err
	}
	if name == "" {
		return fmt.Sprintf("Sorry, I don't know where %q is.", place), nil
	}

	u := fmt.Sprintf("%s/v1/forecast?latitude=%.4f&longitude=%.4f&current=temperature_2m,wind_speed_10m,weather_code",
		o.base, lat, lon)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}
	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("forecast request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("forecast status %d", resp.StatusCode)
	}

	var body struct {
		Current struct {
			Temperature float64 `json:"temperature_2m"`
			WindSpeed   float64 `json:"wind_speed_10m"`
			WeatherCode int     `json:"weather_code"`
		} `json:"current"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("forecast decode: %w", err)
	}

	sky, ok := weatherCodes[body.Current.WeatherCode]
	if !ok {
		sky = "mixed conditions"
	}
	return fmt.Sprintf("It's %.0f degrees with %s in %s, wind %.0f km/h.",
		body.Current.Temperature, sky, name, body.Current.WindSpeed), nil
}

func (o *OpenMeteo) geocode(ctx context.Context, place string) (string, float64, float64, error) {
	u := fmt.Sprintf("%s/v1/search?name=%s&count=1", o.geoBase, url.QueryEscape(place))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", 0, 0, err
	}
	resp, err := o.client.Do(req)
	if err != nil {
		return "", 0, 0, fmt.Errorf("geocoding request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", 0, 0, fmt.Errorf("geocoding status %d", resp.StatusCode)
	}

	var body struct {
		Results []struct {
			Name      string  `json:"name"`
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", 0, 0, fmt.Errorf("geocoding decode: %w", err)
	}
	if len(body.Results) == 0 {
		return "", 0, 0, nil
	}
	r := body.Results[0]
	return r.Name, r.Latitude, r.Longitude, nil
}
