// Package catalog is the static reference data source for instrument
// metadata. The list is fixed for the process lifetime and never mutated by
// the feed.
package catalog

import "github.com/smeshko/tickers/pkg/models"

// Catalog answers symbol lookups against a fixed instrument universe.
type Catalog struct {
	entries []models.StockInfo
	bySym   map[string]models.StockInfo
}

// New returns a catalog over the built-in instrument list.
func New() *Catalog {
	return newWith(stocks)
}

func newWith(entries []models.StockInfo) *Catalog {
	bySym := make(map[string]models.StockInfo, len(entries))
	for _, e := range entries {
		bySym[e.Symbol] = e
	}
	return &Catalog{entries: entries, bySym: bySym}
}

// Lookup returns the metadata for a symbol. The second return is false for
// unknown symbols; that is not an error.
func (c *Catalog) Lookup(symbol string) (models.StockInfo, bool) {
	info, ok := c.bySym[symbol]
	return info, ok
}

// All returns the full universe in catalog order. Callers must not mutate
// the returned slice.
func (c *Catalog) All() []models.StockInfo {
	return c.entries
}

var stocks = []models.StockInfo{
	{
		Symbol:      "AAPL",
		Name:        "Apple Inc.",
		Description: "Apple designs, manufactures, and markets smartphones, personal computers, tablets, wearables, and accessories. The company also offers digital content and services.",
		BasePrice:   175.0,
	},
	{
		Symbol:      "MSFT",
		Name:        "Microsoft Corporation",
		Description: "Microsoft develops and supports software, services, devices, and solutions. The company's products include operating systems, cloud services, and productivity applications.",
		BasePrice:   375.0,
	},
	{
		Symbol:      "GOOGL",
		Name:        "Alphabet Inc.",
		Description: "Alphabet is a holding company that owns Google and other businesses. Google's core products include Search, YouTube, Android, Chrome, and Google Cloud.",
		BasePrice:   140.0,
	},
	{
		Symbol:      "AMZN",
		Name:        "Amazon.com Inc.",
		Description: "Amazon is an e-commerce and cloud computing company. The company operates through online stores, physical stores, third-party seller services, and AWS.",
		BasePrice:   180.0,
	},
	{
		Symbol:      "NVDA",
		Name:        "NVIDIA Corporation",
		Description: "NVIDIA designs and manufactures graphics processors and related software. The company is a leader in AI computing, gaming graphics, and data center solutions.",
		BasePrice:   450.0,
	},
	{
		Symbol:      "META",
		Name:        "Meta Platforms Inc.",
		Description: "Meta builds technologies that help people connect. The company's products include Facebook, Instagram, WhatsApp, and virtual reality hardware and software.",
		BasePrice:   350.0,
	},
	{
		Symbol:      "TSLA",
		Name:        "Tesla Inc.",
		Description: "Tesla designs, manufactures, and sells electric vehicles and energy storage systems. The company also offers solar energy generation and storage products.",
		BasePrice:   250.0,
	},
	{
		Symbol:      "BRK.B",
		Name:        "Berkshire Hathaway",
		Description: "Berkshire Hathaway is a holding company owning subsidiaries in insurance, utilities, rail transportation, manufacturing, and retail businesses.",
		BasePrice:   360.0,
	},
	{
		Symbol:      "JPM",
		Name:        "JPMorgan Chase",
		Description: "JPMorgan Chase is a global financial services firm offering investment banking, financial services, asset management, and commercial banking.",
		BasePrice:   195.0,
	},
	{
		Symbol:      "V",
		Name:        "Visa Inc.",
		Description: "Visa operates a global payments technology network enabling electronic funds transfers through credit, debit, and prepaid cards.",
		BasePrice:   275.0,
	},
	{
		Symbol:      "UNH",
		Name:        "UnitedHealth Group",
		Description: "UnitedHealth Group provides health care products and insurance services. The company operates through UnitedHealthcare and Optum segments.",
		BasePrice:   525.0,
	},
	{
		Symbol:      "JNJ",
		Name:        "Johnson & Johnson",
		Description: "Johnson & Johnson researches, develops, manufactures, and sells health care products in pharmaceuticals, medical devices, and consumer health.",
		BasePrice:   155.0,
	},
	{
		Symbol:      "WMT",
		Name:        "Walmart Inc.",
		Description: "Walmart operates retail stores and e-commerce businesses worldwide. The company offers a wide variety of merchandise and services at everyday low prices.",
		BasePrice:   165.0,
	},
	{
		Symbol:      "PG",
		Name:        "Procter & Gamble",
		Description: "Procter & Gamble manufactures and markets consumer goods including beauty, grooming, health care, fabric care, and home care products.",
		BasePrice:   160.0,
	},
	{
		Symbol:      "MA",
		Name:        "Mastercard Inc.",
		Description: "Mastercard is a technology company in the global payments industry connecting consumers, financial institutions, merchants, and governments.",
		BasePrice:   450.0,
	},
	{
		Symbol:      "HD",
		Name:        "Home Depot",
		Description: "Home Depot is a home improvement retailer selling building materials, home improvement products, lawn and garden products, and décor items.",
		BasePrice:   345.0,
	},
	{
		Symbol:      "CVX",
		Name:        "Chevron Corporation",
		Description: "Chevron is an integrated energy company engaged in the exploration, production, and transportation of crude oil and natural gas.",
		BasePrice:   155.0,
	},
	{
		Symbol:      "MRK",
		Name:        "Merck & Co.",
		Description: "Merck is a global healthcare company delivering innovative health solutions through prescription medicines, vaccines, and animal health products.",
		BasePrice:   125.0,
	},
	{
		Symbol:      "KO",
		Name:        "Coca-Cola Company",
		Description: "Coca-Cola manufactures, markets, and sells nonalcoholic beverages including sparkling soft drinks, water, juice, and ready-to-drink coffee and tea.",
		BasePrice:   60.0,
	},
	{
		Symbol:      "PEP",
		Name:        "PepsiCo Inc.",
		Description: "PepsiCo manufactures, markets, and sells beverages and convenient foods including chips, branded dips, and other snacks globally.",
		BasePrice:   175.0,
	},
	{
		Symbol:      "ABBV",
		Name:        "AbbVie Inc.",
		Description: "AbbVie is a research-based biopharmaceutical company developing and commercializing therapies for immunology, oncology, and neuroscience.",
		BasePrice:   170.0,
	},
	{
		Symbol:      "COST",
		Name:        "Costco Wholesale",
		Description: "Costco operates membership warehouses offering a selection of branded and private-label products at substantially lower prices than conventional retailers.",
		BasePrice:   575.0,
	},
	{
		Symbol:      "CRM",
		Name:        "Salesforce Inc.",
		Description: "Salesforce provides enterprise cloud computing solutions including customer relationship management, analytics, and application development.",
		BasePrice:   265.0,
	},
	{
		Symbol:      "NFLX",
		Name:        "Netflix Inc.",
		Description: "Netflix is a streaming entertainment service offering a wide variety of TV series, documentaries, feature films, and games across various genres.",
		BasePrice:   475.0,
	},
	{
		Symbol:      "DIS",
		Name:        "Walt Disney Company",
		Description: "Disney is a diversified entertainment company operating theme parks, media networks, studio entertainment, and direct-to-consumer streaming services.",
		BasePrice:   95.0,
	},
}
