package pricefeed

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/atlasapp/atlas"
)

var binanceBase = "https://api.binance.com/api/v3"

// binanceListingFloor is where Binance history can start at the
// earliest; a zero since clamps here instead of asking for the 1970s.
const binanceListingFloor = 1483228800 // 2017-01-01

// binanceSymbol maps a ticker to Binance's USDT pair notation. Tickers
// already carrying a stablecoin suffix are normalized first.
func binanceSymbol(ticker string) string {
	base := strings.ToUpper(ticker)
	base = strings.TrimSuffix(base, "USDT")
	base = strings.TrimSuffix(base, "BUSD")
	return base + "USDT"
}

// fetchBinanceKlines returns the daily candles for a USDT pair. The
// klines payload is positional: [[open_time_ms, open, high, low, close,
// volume, close_time_ms, ...], ...] with prices as JSON strings, so the
// rows are decoded generically and picked apart by index.
func fetchBinanceKlines(assetID uuid.UUID, ticker string, since int64) ([]atlas.PricePoint, error) {
	if since < binanceListingFloor {
		since = binanceListingFloor
	}
	addr := fmt.Sprintf("%s/klines?symbol=%s&interval=1d&startTime=%d&limit=1000",
		binanceBase, binanceSymbol(ticker), since*1000)

	content := make([][]json.RawMessage, 0)
	if err := jwget(newDailyCachingClient(), addr, &content); err != nil {
		return nil, err
	}

	points := make([]atlas.PricePoint, 0, len(content))
	for _, row := range content {
		if len(row) < 6 {
			return nil, fmt.Errorf("malformed kline row with %d fields", len(row))
		}
		var openMs int64
		if err := json.Unmarshal(row[0], &openMs); err != nil {
			return nil, fmt.Errorf("kline open time: %w", err)
		}
		o, err := klineFloat(row[1])
		if err != nil {
			return nil, err
		}
		h, err := klineFloat(row[2])
		if err != nil {
			return nil, err
		}
		l, err := klineFloat(row[3])
		if err != nil {
			return nil, err
		}
		c, err := klineFloat(row[4])
		if err != nil {
			return nil, err
		}
		v, err := klineFloat(row[5])
		if err != nil {
			return nil, err
		}
		ts := openMs / 1000
		ts -= ts % 86400
		points = append(points, atlas.PricePoint{
			AssetID: assetID,
			TS:      ts,
			Open:    &o,
			High:    &h,
			Low:     &l,
			Close:   c,
			Volume:  &v,
		})
	}
	return points, nil
}

// klineFloat parses one of Binance's string-encoded decimal fields.
func klineFloat(raw json.RawMessage) (float64, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("kline field %s: %w", raw, err)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("kline field %q: %w", s, err)
	}
	return f, nil
}

// fetchBinancePrice returns the current spot price of a USDT pair.
func fetchBinancePrice(ticker string) (float64, error) {
	addr := fmt.Sprintf("%s/ticker/price?symbol=%s", binanceBase, binanceSymbol(ticker))

	var content struct {
		Price string `json:"price"`
	}
	if err := jwget(newDailyCachingClient(), addr, &content); err != nil {
		return 0, err
	}
	return strconv.ParseFloat(content.Price, 64)
}
