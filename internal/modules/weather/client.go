package weather

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sglre6355/tavernbot/internal/httpclient"
)

// DefaultBaseURL is the OpenWeatherMap current weather endpoint.
const DefaultBaseURL = "https://api.openweathermap.org/data/2.5/weather"

var (
	// ErrCityNotFound is returned when OpenWeatherMap does not know the city.
	ErrCityNotFound = errors.New("city not found")

	// ErrEmptyCity is returned for a blank city name.
	ErrEmptyCity = errors.New("city must not be empty")
)

// Report is the current weather in a city.
type Report struct {
	City        string
	Description string
	Temperature float64 // Celsius
	Humidity    int     // Percent
}

type currentWeather struct {
	Name    string `json:"name"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
}

// Client reads current weather from OpenWeatherMap.
type Client struct {
	http    *httpclient.Client
	baseURL string
	apiKey  string
}

// NewClient creates a new Client.
func NewClient(client *httpclient.Client, baseURL, apiKey string) *Client {
	return &Client{
		http:    client,
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// Current returns the current weather in city, in metric units.
func (c *Client) Current(ctx context.Context, city string) (*Report, error) {
	if city == "" {
		return nil, ErrEmptyCity
	}

	query := url.Values{}
	query.Set("q", city)
	query.Set("appid", c.apiKey)
	query.Set("units", "metric")

	var w currentWeather
	err := c.http.GetJSON(ctx, c.baseURL+"?"+query.Encode(), &w)

	var statusErr *httpclient.StatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrCityNotFound, city)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch weather: %w", err)
	}

	report := &Report{
		City:        city,
		Temperature: w.Main.Temp,
		Humidity:    w.Main.Humidity,
	}
	if len(w.Weather) > 0 {
		report.Description = w.Weather[0].Description
	}
	return report, nil
}
