package mirror

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"wbdata/pkg/models"
)

const defaultPerPage = 50

type ref struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

type observation struct {
	Indicator       ref     `json:"indicator"`
	Country         ref     `json:"country"`
	CountryISO3Code string  `json:"countryiso3code"`
	Date            string  `json:"date"`
	Value           float64 `json:"value"`
}

type country struct {
	ID       string `json:"id"`
	ISO2Code string `json:"iso2Code"`
	Name     string `json:"name"`
}

type pageMeta struct {
	Page    int `json:"page"`
	Pages   int `json:"pages"`
	PerPage int `json:"per_page"`
	Total   int `json:"total"`
}

// Server answers the subset of the World Bank v2 API that ingestion uses,
// from a snapshot held in memory.
type Server struct {
	countries []country
	series    map[string][]observation
}

func NewServer(s *Snapshot) *Server {
	names := make(map[string]string, len(s.Countries))
	srv := &Server{series: make(map[string][]observation)}

	for _, c := range s.Countries {
		if c.Code == models.UnknownCountryCode {
			continue
		}
		names[c.Code] = c.Name
		srv.countries = append(srv.countries, country{
			ID:       c.Code,
			ISO2Code: iso2From(c),
			Name:     c.Name,
		})
	}

	for _, r := range s.Records {
		key := seriesKey(r.CountryCode, r.IndicatorCode)
		srv.series[key] = append(srv.series[key], observation{
			Indicator:       ref{ID: r.IndicatorCode, Value: r.Description},
			Country:         ref{ID: r.CountryCode, Value: names[r.CountryCode]},
			CountryISO3Code: r.CountryCode,
			Date:            strconv.Itoa(r.Year),
			Value:           r.Value,
		})
	}
	// newest first, like the live API
	for _, obs := range srv.series {
		sort.Slice(obs, func(i, j int) bool { return obs[i].Date > obs[j].Date })
	}
	return srv
}

func (s *Server) RegisterRoutes(rg gin.IRouter) {
	rg.GET("/v2/country", s.listCountries)
	rg.GET("/v2/country/:country/indicator/:indicator", s.getSeries)
}

func (s *Server) listCountries(c *gin.Context) {
	writePage(c, s.countries)
}

func (s *Server) getSeries(c *gin.Context) {
	obs := s.series[seriesKey(c.Param("country"), c.Param("indicator"))]
	writePage(c, obs)
}

func writePage[T any](c *gin.Context, items []T) {
	perPage := queryInt(c, "per_page", defaultPerPage)
	page := queryInt(c, "page", 1)

	total := len(items)
	meta := pageMeta{Page: page, PerPage: perPage, Total: total, Pages: (total + perPage - 1) / perPage}
	if total == 0 {
		c.JSON(http.StatusOK, []any{meta, nil})
		return
	}

	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}
	c.JSON(http.StatusOK, []any{meta, items[start:end]})
}

func queryInt(c *gin.Context, key string, def int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil || n < 1 {
		return def
	}
	return n
}

func seriesKey(country, indicator string) string {
	return strings.ToUpper(country) + "|" + indicator
}

// iso2From takes the 2 letter code off the end of a directory source URL,
// falling back to the stored code.
func iso2From(c models.Country) string {
	i := strings.LastIndex(strings.TrimRight(c.SourceURL, "/"), "/")
	if i >= 0 {
		tail := strings.TrimRight(c.SourceURL, "/")[i+1:]
		if len(tail) == 2 {
			return strings.ToUpper(tail)
		}
	}
	return c.Code
}
