// Package market fetches live prices for open trades from external
// providers and keeps a small per-trade cache of them fresh.
package market

import (
	"regexp"
	"strings"
)

// ProviderFamily selects which external market-data API serves a
// symbol.
type ProviderFamily string

const (
	FamilyTwelveData ProviderFamily = "twelvedata" // forex and commodities
	FamilyCoinGecko  ProviderFamily = "coingecko"  // crypto spot
	FamilyYahoo      ProviderFamily = "yahoo"      // equities and indices
)

// SymbolMapping ties a journal asset symbol to a provider-specific
// identifier.
type SymbolMapping struct {
	Family     ProviderFamily
	ProviderID string
}

// assetSymbolMap is the static mapping from journal symbols to
// provider identifiers. Assets not in this table simply get no live
// price.
var assetSymbolMap = map[string]SymbolMapping{
	// Indices
	"NAS100": {FamilyYahoo, "^NDX"},
	"US30":   {FamilyYahoo, "^DJI"},
	"US500":  {FamilyYahoo, "^GSPC"},
	"DE40":   {FamilyYahoo, "^GDAXI"},
	"UK100":  {FamilyYahoo, "^FTSE"},
	"JP225":  {FamilyYahoo, "^N225"},

	// Forex
	"EURUSD": {FamilyTwelveData, "EUR/USD"},
	"GBPUSD": {FamilyTwelveData, "GBP/USD"},
	"USDJPY": {FamilyTwelveData, "USD/JPY"},
	"AUDUSD": {FamilyTwelveData, "AUD/USD"},
	"USDCAD": {FamilyTwelveData, "USD/CAD"},
	"USDCHF": {FamilyTwelveData, "USD/CHF"},

	// Commodities
	"XAUUSD": {FamilyTwelveData, "XAU/USD"},
	"GOLD":   {FamilyTwelveData, "XAU/USD"},
	"XAGUSD": {FamilyTwelveData, "XAG/USD"},
	"SILVER": {FamilyTwelveData, "XAG/USD"},
	"OIL":    {FamilyTwelveData, "WTI/USD"},
	"BRENT":  {FamilyTwelveData, "BRENT/USD"},

	// Crypto
	"BTC":    {FamilyCoinGecko, "bitcoin"},
	"BTCUSD": {FamilyCoinGecko, "bitcoin"},
	"ETH":    {FamilyCoinGecko, "ethereum"},
	"ETHUSD": {FamilyCoinGecko, "ethereum"},
	"SOL":    {FamilyCoinGecko, "solana"},
	"SOLUSD": {FamilyCoinGecko, "solana"},
	"XRP":    {FamilyCoinGecko, "ripple"},
	"XRPUSD": {FamilyCoinGecko, "ripple"},

	// Stocks
	"AMAZON":   {FamilyYahoo, "AMZN"},
	"AMZN":     {FamilyYahoo, "AMZN"},
	"SAP":      {FamilyYahoo, "SAP"},
	"DAVITA":   {FamilyYahoo, "DVA"},
	"DVA":      {FamilyYahoo, "DVA"},
	"FORTINET": {FamilyYahoo, "FTNT"},
	"FTNT":     {FamilyYahoo, "FTNT"},
	"LVMH":     {FamilyYahoo, "MC.PA"},
}

// isinToTicker resolves common stock ISINs to their exchange tickers.
var isinToTicker = map[string]string{
	"US0378331005": "AAPL",
	"US5949181045": "MSFT",
	"US02079K3059": "GOOGL",
	"US0231351067": "AMZN",
	"US88160R1014": "TSLA",
	"US0846707026": "BRK.B",
	"US67066G1040": "NVDA",
	"US30303M1027": "META",
}

var isinPattern = regexp.MustCompile(`^[A-Z]{2}[A-Z0-9]{10}$`)

// Resolve maps a journal asset symbol to its provider identifier.
// Symbols are matched case-insensitively with whitespace stripped;
// stock ISINs resolve through the ticker table.
func Resolve(asset string) (SymbolMapping, bool) {
	normalized := strings.ToUpper(strings.Join(strings.Fields(asset), ""))

	if isinPattern.MatchString(normalized) {
		if ticker, ok := isinToTicker[normalized]; ok {
			return SymbolMapping{Family: FamilyYahoo, ProviderID: ticker}, true
		}
	}

	m, ok := assetSymbolMap[normalized]
	return m, ok
}
