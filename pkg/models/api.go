package models

// Response bodies of the read-only HTTP API. The CLI decodes the same types.

type CountriesResponse struct {
	Countries []CountrySummary `json:"countries"`
}

type IndicatorsResponse struct {
	Indicators []IndicatorSummary `json:"indicators"`
}

type CountryDataPoint struct {
	Indicator            string  `json:"indicator"`
	IndicatorDescription string  `json:"indicator_description"`
	Year                 int     `json:"year"`
	Value                float64 `json:"value"`
}

type CountryDataResponse struct {
	CountryCode string             `json:"country_code"`
	Data        []CountryDataPoint `json:"data"`
}

type IndicatorDataPoint struct {
	Country string  `json:"country"`
	Year    int     `json:"year"`
	Value   float64 `json:"value"`
}

type IndicatorDataResponse struct {
	Indicator            string               `json:"indicator"`
	IndicatorDescription string               `json:"indicator_description"`
	Data                 []IndicatorDataPoint `json:"data"`
}
