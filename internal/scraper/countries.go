package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"wbdata/pkg/models"
)

// DefaultDirectoryURL is the public World Bank country listing page.
const DefaultDirectoryURL = "https://data.worldbank.org/country"

// CountrySource is implemented by every country directory upstream.
type CountrySource interface {
	Name() string
	FetchCountries(ctx context.Context) ([]models.Country, error)
}

var (
	countryPathRe = regexp.MustCompile(`/country/([A-Za-z]{2,3})`)
	countryCodeRe = regexp.MustCompile(`^[A-Z]{2,3}$`)
)

// ExtractCountryCode upper-cases the first 2-3 letters after /country/, so
// both /country/us and the slug /country/afghanistan yield a code (US, AFG).
// Paths with fewer than two letters there yield models.UnknownCountryCode.
func ExtractCountryCode(path string) string {
	m := countryPathRe.FindStringSubmatch(path)
	if m == nil {
		return models.UnknownCountryCode
	}
	return strings.ToUpper(m[1])
}

// HTMLDirectory scrapes the country links of the World Bank data site.
type HTMLDirectory struct {
	URL    string
	Client *http.Client
	Logger *zap.Logger
}

func NewHTMLDirectory(pageURL string, timeout time.Duration, logger *zap.Logger) *HTMLDirectory {
	if pageURL == "" {
		pageURL = DefaultDirectoryURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTMLDirectory{
		URL:    pageURL,
		Client: &http.Client{Timeout: timeout},
		Logger: logger,
	}
}

func (d *HTMLDirectory) Name() string { return "worldbank-html" }

// FetchCountries downloads the directory page and returns its deduplicated
// country entries. Any transport failure or non-200 answer is returned as an
// error; the caller treats it as fatal.
func (d *HTMLDirectory) FetchCountries(ctx context.Context) ([]models.Country, error) {
	base, err := url.Parse(d.URL)
	if err != nil {
		return nil, fmt.Errorf("directory: parse url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("directory: build request: %w", err)
	}
	resp, err := d.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("directory: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("directory: status %d: %s", resp.StatusCode, truncate(body, 200))
	}

	countries, err := ParseCountryLinks(resp.Body, base, d.Logger)
	if err != nil {
		return nil, err
	}
	return DedupeCountries(countries), nil
}

// ParseCountryLinks reads every anchor pointing below /country/ in an HTML
// document. Relative hrefs are resolved against base. Links with no text or an
// unparseable href are skipped; links without a recognisable code are kept
// with the unknown code.
func ParseCountryLinks(r io.Reader, base *url.URL, logger *zap.Logger) ([]models.Country, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("directory: parse html: %w", err)
	}

	var out []models.Country
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if !strings.Contains(href, "/country/") {
			return
		}

		name := strings.Join(strings.Fields(a.Text()), " ")
		if name == "" {
			logger.Debug("skipping country link without text", zap.String("href", href))
			return
		}

		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			logger.Warn("skipping malformed country link", zap.String("href", href), zap.Error(err))
			return
		}
		if base != nil {
			ref = base.ResolveReference(ref)
		}

		out = append(out, models.Country{
			Code:      ExtractCountryCode(ref.Path),
			Name:      name,
			SourceURL: ref.String(),
		})
	})
	return out, nil
}

// DedupeCountries keeps one entry per code. The last entry seen for a code
// wins, placed where that code first appeared.
func DedupeCountries(in []models.Country) []models.Country {
	idx := make(map[string]int, len(in))
	out := make([]models.Country, 0, len(in))
	for _, c := range in {
		if i, ok := idx[c.Code]; ok {
			out[i] = c
			continue
		}
		idx[c.Code] = len(out)
		out = append(out, c)
	}
	return out
}
