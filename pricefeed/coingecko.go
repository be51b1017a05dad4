package pricefeed

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/atlasapp/atlas"
)

// coingeckoBase is a variable so tests can point it at a local server.
var coingeckoBase = "https://api.coingecko.com/api/v3"

// coinIDs maps common crypto tickers to CoinGecko coin ids. Unknown
// tickers fall through to their lowercase form, which is right more
// often than not.
var coinIDs = map[string]string{
	"BTC":   "bitcoin",
	"ETH":   "ethereum",
	"SOL":   "solana",
	"ADA":   "cardano",
	"DOT":   "polkadot",
	"DOGE":  "dogecoin",
	"XRP":   "ripple",
	"AVAX":  "avalanche-2",
	"MATIC": "matic-network",
	"POL":   "matic-network",
	"LINK":  "chainlink",
	"UNI":   "uniswap",
	"ATOM":  "cosmos",
	"LTC":   "litecoin",
	"BNB":   "binancecoin",
}

func coinID(ticker string) string {
	if id, ok := coinIDs[strings.ToUpper(ticker)]; ok {
		return id
	}
	return strings.ToLower(ticker)
}

// ohlcDays converts a since timestamp to the nearest valid CoinGecko
// "days" query value. A zero since means the full available history.
func ohlcDays(since, now int64) string {
	if since <= 0 {
		return "max"
	}
	days := (now-since)/86400 + 2
	switch {
	case days <= 7:
		return "7"
	case days <= 14:
		return "14"
	case days <= 30:
		return "30"
	case days <= 90:
		return "90"
	case days <= 180:
		return "180"
	case days <= 365:
		return "365"
	default:
		return "max"
	}
}

// fetchCoingeckoOHLC returns the daily candles for a coin. The endpoint
// answers [[ts_ms, open, high, low, close], ...]; timestamps are
// normalized to UTC midnight and deduplicated keeping the last candle of
// each day.
func fetchCoingeckoOHLC(assetID uuid.UUID, ticker string, since int64) ([]atlas.PricePoint, error) {
	addr := fmt.Sprintf("%s/coins/%s/ohlc?vs_currency=usd&days=%s",
		coingeckoBase, coinID(ticker), ohlcDays(since, time.Now().Unix()))

	content := make([][5]float64, 0)
	if err := jwget(newDailyCachingClient(), addr, &content); err != nil {
		return nil, err
	}

	byDay := make(map[int64]atlas.PricePoint, len(content))
	for _, c := range content {
		ts := int64(c[0]) / 1000
		ts -= ts % 86400
		o, h, l := c[1], c[2], c[3]
		byDay[ts] = atlas.PricePoint{
			AssetID: assetID,
			TS:      ts,
			Open:    &o,
			High:    &h,
			Low:     &l,
			Close:   c[4],
		}
	}

	points := make([]atlas.PricePoint, 0, len(byDay))
	for _, p := range byDay {
		points = append(points, p)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].TS < points[j].TS })
	return points, nil
}

// fetchCoingeckoPrice returns the current spot price of a coin in USD.
func fetchCoingeckoPrice(ticker string) (float64, error) {
	id := coinID(ticker)
	addr := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=usd", coingeckoBase, id)

	content := make(map[string]struct {
		USD *float64 `json:"usd"`
	})
	if err := jwget(newDailyCachingClient(), addr, &content); err != nil {
		return 0, err
	}
	p, ok := content[id]
	if !ok || p.USD == nil {
		return 0, fmt.Errorf("no price found for %s: %w", ticker, atlas.ErrNotFound)
	}
	return *p.USD, nil
}

// searchCoingecko looks tickers and names up, keeping the first few hits.
func searchCoingecko(query string) ([]SymbolMatch, error) {
	addr := fmt.Sprintf("%s/search?query=%s", coingeckoBase, url.QueryEscape(query))

	var content struct {
		Coins []struct {
			Symbol string `json:"symbol"`
			Name   string `json:"name"`
		} `json:"coins"`
	}
	if err := jwget(newDailyCachingClient(), addr, &content); err != nil {
		return nil, err
	}

	matches := make([]SymbolMatch, 0, 5)
	for _, c := range content.Coins {
		if len(matches) == 5 {
			break
		}
		matches = append(matches, SymbolMatch{
			Symbol:   strings.ToUpper(c.Symbol),
			Name:     c.Name,
			Type:     atlas.Crypto,
			Provider: "coingecko",
		})
	}
	return matches, nil
}
