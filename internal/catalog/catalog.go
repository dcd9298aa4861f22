// Package catalog holds the fixed set of World Bank indicators this project
// ingests, with the human-readable description stored next to each record.
package catalog

// Placeholder is the description used for indicator codes the catalog does not know.
const Placeholder = "Description not available"

type Entry struct {
	Code        string
	Description string
}

// Catalog is an immutable code -> description lookup. The zero value and a
// nil *Catalog are empty catalogs; build one with New or Default and share it
// freely.
type Catalog struct {
	order []string
	desc  map[string]string
}

// New copies entries into a Catalog. A repeated code keeps its first
// position and its last description.
func New(entries []Entry) *Catalog {
	c := &Catalog{
		order: make([]string, 0, len(entries)),
		desc:  make(map[string]string, len(entries)),
	}
	for _, e := range entries {
		if _, seen := c.desc[e.Code]; !seen {
			c.order = append(c.order, e.Code)
		}
		c.desc[e.Code] = e.Description
	}
	return c
}

// Default returns the catalog of the indicators ingested by default.
func Default() *Catalog {
	return New(defaultEntries)
}

// Describe returns the description for code, or Placeholder.
func (c *Catalog) Describe(code string) string {
	if c == nil {
		return Placeholder
	}
	if d, ok := c.desc[code]; ok && d != "" {
		return d
	}
	return Placeholder
}

func (c *Catalog) Has(code string) bool {
	if c == nil {
		return false
	}
	_, ok := c.desc[code]
	return ok
}

// Codes returns the indicator codes in catalog order. The slice is a copy.
func (c *Catalog) Codes() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.order)
}

var defaultEntries = []Entry{
	{"SI.POV.DDAY", "Poverty headcount ratio at $2.15 a day (2017 PPP) (% of population)"},
	{"SP.DYN.LE00.IN", "Life expectancy at birth, total (years)"},
	{"SP.POP.TOTL", "Population, total"},
	{"SP.POP.GROW", "Population growth (annual %)"},
	{"SM.POP.NETM", "Net migration"},
	{"NY.GDP.MKTP.CD", "GDP (current US$)"},
	{"NY.GDP.PCAP.CD", "GDP per capita (current US$)"},
	{"NY.GDP.MKTP.KD.ZG", "GDP growth (annual %)"},
	{"SL.UEM.TOTL.ZS", "Unemployment, total (% of total labor force)"},
	{"FP.CPI.TOTL.ZG", "Inflation, consumer prices (annual %)"},
	{"BX.TRF.PWKR.DT.GD.ZS", "Personal remittances, received (% of GDP)"},
	{"HD.HCI.OVRL", "Human Capital Index (HCI) (scale 0-1)"},
	{"AG.LND.FRST.ZS", "Forest area (% of land area)"},
	{"EG.ELC.ACCS.ZS", "Access to electricity (% of population)"},
	{"ER.H2O.FWTL.ZS", "Annual freshwater withdrawals (% of internal resources)"},
	{"EG.ELC.RNWX.ZS", "Electricity production from renewables, excluding hydroelectric (% of total)"},
	{"SH.STA.SMSS.ZS", "People using safely managed sanitation services (% of population)"},
	{"VC.IHR.PSRC.P5", "Intentional homicides (per 100,000 people)"},
	{"GC.DOD.TOTL.GD.ZS", "Central government debt, total (% of GDP)"},
	{"IQ.SPI.OVRL", "Statistical performance indicators (SPI): Overall score (scale 0-100)"},
	{"IT.NET.USER.ZS", "Individuals using the Internet (% of population)"},
	{"SG.GEN.PARL.ZS", "Proportion of seats held by women in national parliaments (%)"},
	{"BX.KLT.DINV.WD.GD.ZS", "Foreign direct investment, net inflows (% of GDP)"},
	{"EN.ATM.CO2E.PC", "CO2 emissions (metric tons per capita)"},
}
