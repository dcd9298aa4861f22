package models

// UnknownCountryCode is stored when no code can be parsed from a directory link.
const UnknownCountryCode = "N/A"

// Country is one entry of the country directory scraped from the World Bank site.
type Country struct {
	Code      string `json:"code" csv:"country_code"` // 2-3 letter code, unique
	Name      string `json:"name" csv:"name"`         // display name
	SourceURL string `json:"source_url" csv:"url"`    // page the entry was scraped from
}

// CountrySummary is the public listing shape.
type CountrySummary struct {
	Code string `json:"code"`
	Name string `json:"name"`
}
