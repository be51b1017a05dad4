package pricefeed

import (
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/google/uuid"

	"github.com/atlasapp/atlas"
)

var twelvedataBase = "https://api.twelvedata.com"

// jget fetches the decoded JSON body as a generic value; Twelve Data
// payloads are too irregular for struct unmarshaling.
func jget(client *http.Client, addr string) (interface{}, error) {
	var data interface{}
	if err := jwget(client, addr, &data); err != nil {
		return nil, err
	}
	return data, nil
}

// fetchTwelveDataSeries returns the daily candles for a stock or
// commodity symbol. With a zero since the start date is omitted and the
// service answers its maximum history.
func fetchTwelveDataSeries(apiKey string, assetID uuid.UUID, symbol string, since int64) ([]atlas.PricePoint, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("interval", "1day")
	q.Set("end_date", time.Now().UTC().Format("2006-01-02"))
	q.Set("apikey", apiKey)
	q.Set("format", "JSON")
	q.Set("outputsize", "5000")
	if since > 0 {
		q.Set("start_date", time.Unix(since, 0).UTC().Format("2006-01-02"))
	}
	addr := fmt.Sprintf("%s/time_series?%s", twelvedataBase, q.Encode())

	jobj, err := jget(newDailyCachingClient(), addr)
	if err != nil {
		return nil, err
	}
	if err := twelveDataError(jobj); err != nil {
		return nil, fmt.Errorf("time_series %s: %w", symbol, err)
	}

	jvalues, err := jsonpath.Get("$.values", jobj)
	if err != nil {
		// A symbol with no history answers without a values list at all.
		return nil, nil
	}
	jlist, ok := jvalues.([]any)
	if !ok {
		return nil, fmt.Errorf("time_series %s: values is not a list", symbol)
	}

	points := make([]atlas.PricePoint, 0, len(jlist))
	for _, jrow := range jlist {
		p, err := twelveDataPoint(assetID, jrow)
		if err != nil {
			return nil, fmt.Errorf("time_series %s: %w", symbol, err)
		}
		points = append(points, p)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].TS < points[j].TS })
	return points, nil
}

// twelveDataPoint decodes one entry of the values list. Every numeric
// field comes over the wire as a string.
func twelveDataPoint(assetID uuid.UUID, jrow any) (atlas.PricePoint, error) {
	day, err := jstring(jrow, "$.datetime")
	if err != nil {
		return atlas.PricePoint{}, err
	}
	t, err := time.Parse("2006-01-02", day)
	if err != nil {
		return atlas.PricePoint{}, fmt.Errorf("bad datetime %q: %w", day, err)
	}

	close, err := jfloat(jrow, "$.close")
	if err != nil {
		return atlas.PricePoint{}, err
	}
	p := atlas.PricePoint{AssetID: assetID, TS: t.Unix(), Close: close}

	// Open, high, low and volume are optional in practice.
	if v, err := jfloat(jrow, "$.open"); err == nil {
		p.Open = &v
	}
	if v, err := jfloat(jrow, "$.high"); err == nil {
		p.High = &v
	}
	if v, err := jfloat(jrow, "$.low"); err == nil {
		p.Low = &v
	}
	if v, err := jfloat(jrow, "$.volume"); err == nil {
		p.Volume = &v
	}
	return p, nil
}

// fetchTwelveDataPrice returns the current price of a symbol.
func fetchTwelveDataPrice(apiKey, symbol string) (float64, error) {
	addr := fmt.Sprintf("%s/price?symbol=%s&apikey=%s",
		twelvedataBase, url.QueryEscape(symbol), url.QueryEscape(apiKey))

	jobj, err := jget(newDailyCachingClient(), addr)
	if err != nil {
		return 0, err
	}
	if err := twelveDataError(jobj); err != nil {
		return 0, fmt.Errorf("price %s: %w", symbol, err)
	}
	return jfloat(jobj, "$.price")
}

// searchTwelveData looks stock and commodity symbols up.
func searchTwelveData(apiKey, query string) ([]SymbolMatch, error) {
	addr := fmt.Sprintf("%s/symbol_search?symbol=%s&apikey=%s",
		twelvedataBase, url.QueryEscape(query), url.QueryEscape(apiKey))

	jobj, err := jget(newDailyCachingClient(), addr)
	if err != nil {
		return nil, err
	}
	if err := twelveDataError(jobj); err != nil {
		return nil, fmt.Errorf("symbol_search %s: %w", query, err)
	}

	jdata, err := jsonpath.Get("$.data", jobj)
	if err != nil {
		return nil, nil
	}
	jlist, ok := jdata.([]any)
	if !ok {
		return nil, fmt.Errorf("symbol_search %s: data is not a list", query)
	}

	matches := make([]SymbolMatch, 0, 5)
	for _, jrow := range jlist {
		if len(matches) == 5 {
			break
		}
		symbol, err := jstring(jrow, "$.symbol")
		if err != nil {
			continue
		}
		name, _ := jstring(jrow, "$.instrument_name")
		exchange, _ := jstring(jrow, "$.exchange")
		matches = append(matches, SymbolMatch{
			Symbol:   symbol,
			Name:     name,
			Type:     atlas.Stock,
			Provider: "twelvedata",
			Exchange: exchange,
		})
	}
	return matches, nil
}

// twelveDataError spots the service's in-band error envelope:
// {"status": "error", "message": "..."}.
func twelveDataError(jobj any) error {
	status, err := jstring(jobj, "$.status")
	if err != nil || status != "error" {
		return nil
	}
	msg, _ := jstring(jobj, "$.message")
	return fmt.Errorf("service error: %s", msg)
}

// jstring extracts a string at a jsonpath.
func jstring(jobj any, path string) (string, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return "", err
	}
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	s, ok := jval.(string)
	if !ok {
		return "", fmt.Errorf("%s is not a string: %v", path, jval)
	}
	return s, nil
}

// jfloat extracts a number at a jsonpath, tolerating the string-encoded
// numbers this service is fond of.
func jfloat(jobj any, path string) (float64, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return 0, err
	}
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	switch v := jval.(type) {
	case float64:
		return v, nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("%s is not a number: %q", path, v)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%s is not a number: %v", path, jval)
	}
}
