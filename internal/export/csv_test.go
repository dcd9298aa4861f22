package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wbdata/pkg/models"
)

func TestWriteCountries(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCountries(&buf, []models.Country{
		{Code: "USA", Name: "United States", SourceURL: "https://data.worldbank.org/country/US"},
		{Code: "CIV", Name: "Côte d'Ivoire, Rep.", SourceURL: "u"},
	}))

	assert.Equal(t,
		"country_code,name,url\n"+
			"USA,United States,https://data.worldbank.org/country/US\n"+
			"CIV,\"Côte d'Ivoire, Rep.\",u\n",
		buf.String())
}

func TestWriteEmptyHasHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRecords(&buf, nil))
	assert.Equal(t, "id,country,indicator,indicator_description,year,value,retrieved_at\n", buf.String())
}

func TestReadRecords(t *testing.T) {
	in := "id,country,indicator,indicator_description,year,value,retrieved_at\n" +
		"stale-id,USA,SP.POP.TOTL,\"Population, total\",2020,331002651,2024-01-02T03:04:05Z\n" +
		",,SP.POP.TOTL,x,2020,1,2024-01-02T03:04:05Z\n"

	got, err := ReadRecords(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, models.RecordID("USA", "SP.POP.TOTL", 2020), got[0].ID)
	assert.Equal(t, "Population, total", got[0].Description)
	assert.Equal(t, 331002651.0, got[0].Value)
	assert.True(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC).Equal(got[0].FetchedAt))
}

func TestReadCountries(t *testing.T) {
	in := "country_code,name,url\nusa, United States ,u\n,Nameless,u\n"
	got, err := ReadCountries(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []models.Country{{Code: "USA", Name: "United States", SourceURL: "u"}}, got)

	got, err = ReadCountries(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReadRejectsBadValues(t *testing.T) {
	in := "id,country,indicator,indicator_description,year,value,retrieved_at\n" +
		"x,USA,SP.POP.TOTL,d,twenty,1,2024-01-02T03:04:05Z\n"
	_, err := ReadRecords(strings.NewReader(in))
	assert.Error(t, err)
}
