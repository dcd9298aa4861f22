package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"wbdata/pkg/models"
)

// DefaultAPIBaseURL is the public World Bank v2 API host.
const DefaultAPIBaseURL = "https://api.worldbank.org"

// WorldBankAPI reads the World Bank v2 JSON API. Every list endpoint answers
// with a two element array: pagination metadata, then the page of items.
type WorldBankAPI struct {
	BaseURL  string
	Client   *http.Client
	PerPage  int // items per request
	MaxPages int // pages fetched per series at most
}

func NewWorldBankAPI(baseURL string, timeout time.Duration) *WorldBankAPI {
	if baseURL == "" {
		baseURL = DefaultAPIBaseURL
	}
	return &WorldBankAPI{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		Client:   &http.Client{Timeout: timeout},
		PerPage:  100,
		MaxPages: 20,
	}
}

func (s *WorldBankAPI) Name() string { return "worldbank" }

// Observation is one item of an indicator series as the API returns it.
type Observation struct {
	Indicator       apiRef   `json:"indicator"`
	Country         apiRef   `json:"country"`
	CountryISO3Code string   `json:"countryiso3code"`
	Date            string   `json:"date"`
	Value           *float64 `json:"value"`
}

type apiRef struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

type pageMeta struct {
	Page    flexInt `json:"page"`
	Pages   flexInt `json:"pages"`
	PerPage flexInt `json:"per_page"`
	Total   flexInt `json:"total"`
}

// flexInt accepts both 3 and "3"; the API has used both over time.
type flexInt int

func (n *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("not an integer: %s", b)
	}
	*n = flexInt(v)
	return nil
}

// FetchSeries returns every observation of one indicator for one country.
// A response without a data element (unknown code, no data) yields no
// observations and no error. A failure on any page, including one after the
// first, discards the pages already read and returns only the error, so a
// series is either stored whole or not at all.
func (s *WorldBankAPI) FetchSeries(ctx context.Context, country, indicator string) ([]Observation, error) {
	path := "/v2/country/" + url.PathEscape(country) + "/indicator/" + url.PathEscape(indicator)

	var all []Observation
	err := s.eachPage(ctx, path, func(data json.RawMessage) error {
		var page []Observation
		if err := json.Unmarshal(data, &page); err != nil {
			return fmt.Errorf("decode observations: %w", err)
		}
		all = append(all, page...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("worldbank: %s/%s: %w", country, indicator, err)
	}
	return all, nil
}

type apiCountry struct {
	ID       string `json:"id"`
	ISO2Code string `json:"iso2Code"`
	Name     string `json:"name"`
}

// FetchCountries lists the API's country table. Codes are the ISO3 ids the
// series endpoint also reports as countryiso3code.
func (s *WorldBankAPI) FetchCountries(ctx context.Context) ([]models.Country, error) {
	var out []models.Country
	err := s.eachPage(ctx, "/v2/country", func(data json.RawMessage) error {
		var page []apiCountry
		if err := json.Unmarshal(data, &page); err != nil {
			return fmt.Errorf("decode countries: %w", err)
		}
		for _, c := range page {
			name := strings.TrimSpace(c.Name)
			if name == "" {
				continue
			}
			code := strings.ToUpper(strings.TrimSpace(c.ID))
			if !countryCodeRe.MatchString(code) {
				code = models.UnknownCountryCode
			}
			out = append(out, models.Country{
				Code:      code,
				Name:      name,
				SourceURL: "https://data.worldbank.org/country/" + strings.ToUpper(c.ISO2Code),
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("worldbank: countries: %w", err)
	}
	return DedupeCountries(out), nil
}

// eachPage walks the pages of a list endpoint, handing the item array of each
// page to fn. It stops after the last page, after MaxPages, or at the first
// response that carries no item array.
func (s *WorldBankAPI) eachPage(ctx context.Context, path string, fn func(json.RawMessage) error) error {
	maxPages := s.MaxPages
	if maxPages <= 0 {
		maxPages = 1
	}

	for page := 1; page <= maxPages; page++ {
		u, err := url.Parse(s.BaseURL + path)
		if err != nil {
			return fmt.Errorf("build url: %w", err)
		}
		q := u.Query()
		q.Set("format", "json")
		q.Set("per_page", strconv.Itoa(s.PerPage))
		q.Set("page", strconv.Itoa(page))
		u.RawQuery = q.Encode()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return fmt.Errorf("build request: %w", err)
		}

		resp, err := s.Client.Do(req)
		if err != nil {
			return fmt.Errorf("request: %w", err)
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("read body: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("status %d: %s", resp.StatusCode, truncate(body, 200))
		}

		var parts []json.RawMessage
		if err := json.Unmarshal(body, &parts); err != nil {
			return fmt.Errorf("decode: %w", err)
		}
		if len(parts) < 2 {
			return nil
		}
		data := bytes.TrimSpace(parts[1])
		if len(data) == 0 || bytes.Equal(data, []byte("null")) {
			return nil
		}

		var meta pageMeta
		if err := json.Unmarshal(parts[0], &meta); err != nil {
			return fmt.Errorf("decode page metadata: %w", err)
		}

		if err := fn(data); err != nil {
			return err
		}

		if page >= int(meta.Pages) {
			return nil
		}
	}
	return nil
}

func truncate(b []byte, n int) string {
	s := strings.TrimSpace(string(b))
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
