package pricefeed

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/atlasapp/atlas"
)

// TwelveDataKeyEnv is the environment variable holding the Twelve Data
// API key, required for stock and commodity data.
const TwelveDataKeyEnv = "TWELVE_DATA_API_KEY"

// SymbolMatch is one result of a symbol search.
type SymbolMatch struct {
	Symbol   string
	Name     string
	Type     atlas.AssetType
	Provider string
	Exchange string
}

// Service routes market data requests to the right upstream per asset
// type: CoinGecko for crypto with Binance as fallback, Twelve Data for
// everything else. It implements both atlas.PriceProvider and
// atlas.AssetProvider.
type Service struct {
	// TwelveDataKey may be empty; crypto assets still work without it.
	TwelveDataKey string
}

var _ atlas.PriceProvider = (*Service)(nil)
var _ atlas.AssetProvider = (*Service)(nil)

// NewService builds a Service with the Twelve Data key from the
// environment.
func NewService() *Service {
	return &Service{TwelveDataKey: os.Getenv(TwelveDataKeyEnv)}
}

// Fetch returns the daily price points for an asset since the given unix
// timestamp, oldest first. A zero since asks for the full available
// history.
func (s *Service) Fetch(ctx context.Context, asset atlas.Asset, since int64) ([]atlas.PricePoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch asset.Type {
	case atlas.Crypto:
		points, err := fetchCoingeckoOHLC(asset.ID, asset.Symbol, since)
		if err == nil && len(points) > 0 {
			return points, nil
		}
		if err != nil {
			log.Printf("coingecko %s failed, trying binance: %v", asset.Symbol, err)
		}
		return fetchBinanceKlines(asset.ID, asset.Symbol, since)
	default:
		if s.TwelveDataKey == "" {
			return nil, fmt.Errorf("fetching %s requires %s to be set", asset.Symbol, TwelveDataKeyEnv)
		}
		return fetchTwelveDataSeries(s.TwelveDataKey, asset.ID, asset.Symbol, since)
	}
}

// Current returns the live spot price of an asset in USD.
func (s *Service) Current(ctx context.Context, asset atlas.Asset) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	switch asset.Type {
	case atlas.Crypto:
		price, err := fetchCoingeckoPrice(asset.Symbol)
		if err == nil {
			return price, nil
		}
		log.Printf("coingecko %s failed, trying binance: %v", asset.Symbol, err)
		return fetchBinancePrice(asset.Symbol)
	default:
		if s.TwelveDataKey == "" {
			return 0, fmt.Errorf("fetching %s requires %s to be set", asset.Symbol, TwelveDataKeyEnv)
		}
		return fetchTwelveDataPrice(s.TwelveDataKey, asset.Symbol)
	}
}

// Search looks a query up across every upstream the service can reach.
func (s *Service) Search(ctx context.Context, query string) ([]SymbolMatch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	matches, err := searchCoingecko(query)
	if err != nil {
		log.Printf("coingecko search failed (ignored): %v", err)
	}
	if s.TwelveDataKey != "" {
		stocks, err := searchTwelveData(s.TwelveDataKey, query)
		if err != nil {
			log.Printf("twelvedata search failed (ignored): %v", err)
		}
		matches = append(matches, stocks...)
	}
	return matches, nil
}

// Resolve looks a symbol up and returns asset metadata ready for the
// ledger. The first search hit whose symbol matches exactly wins.
func (s *Service) Resolve(ctx context.Context, symbol string, typ atlas.AssetType) (atlas.Asset, error) {
	matches, err := s.Search(ctx, symbol)
	if err != nil {
		return atlas.Asset{}, err
	}
	for _, m := range matches {
		if !strings.EqualFold(m.Symbol, symbol) || m.Type != typ {
			continue
		}
		return atlas.NewAsset(m.Symbol, m.Name, typ, "USD", time.Now().Unix())
	}
	return atlas.Asset{}, fmt.Errorf("symbol %q (%s): %w", symbol, typ, atlas.ErrNotFound)
}
