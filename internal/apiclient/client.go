// Package apiclient talks to the read-only HTTP API.
package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"wbdata/pkg/models"
)

const DefaultBaseURL = "http://127.0.0.1:8000"

// ErrNotFound is returned for 404 answers; the API message is kept in the
// wrapping error.
var ErrNotFound = errors.New("not found")

// APIError is any non-2xx answer other than 404.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) Countries(ctx context.Context) ([]models.CountrySummary, error) {
	var out models.CountriesResponse
	if err := c.get(ctx, "/countries", nil, &out); err != nil {
		return nil, err
	}
	return out.Countries, nil
}

func (c *Client) Indicators(ctx context.Context) ([]models.IndicatorSummary, error) {
	var out models.IndicatorsResponse
	if err := c.get(ctx, "/indicators", nil, &out); err != nil {
		return nil, err
	}
	return out.Indicators, nil
}

// CountryData fetches one country's series. Empty indicator and nil year mean
// no filter.
func (c *Client) CountryData(ctx context.Context, code, indicator string, year *int) (*models.CountryDataResponse, error) {
	q := url.Values{}
	if indicator != "" {
		q.Set("indicator", indicator)
	}
	if year != nil {
		q.Set("year", strconv.Itoa(*year))
	}
	var out models.CountryDataResponse
	if err := c.get(ctx, "/data/"+url.PathEscape(code), q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) IndicatorData(ctx context.Context, indicator string, year *int) (*models.IndicatorDataResponse, error) {
	q := url.Values{}
	if year != nil {
		q.Set("year", strconv.Itoa(*year))
	}
	var out models.IndicatorDataResponse
	if err := c.get(ctx, "/data/indicator/"+url.PathEscape(indicator), q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	endpoint := c.BaseURL + path
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 300 {
		msg := strings.TrimSpace(string(data))
		var body struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &body) == nil && body.Error != "" {
			msg = body.Error
		}
		if resp.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%w: %s", ErrNotFound, msg)
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
