// Package pricefeed fetches daily price history from public market data
// services: CoinGecko and Binance for crypto, Twelve Data for stocks and
// commodities. All responses are cached on disk with a daily expiry so
// repeated runs in the same day never re-hit the services.
package pricefeed

import (
	"bufio"
	"bytes"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"
	"time"
)

// cachedTransport serves GET responses from a per-request disk cache.
// The current day is part of the cache key, so every entry expires at
// midnight UTC.
type cachedTransport struct {
	next http.RoundTripper
}

func cacheFile(req *http.Request) string {
	key := time.Now().UTC().Format("2006-01-02") + " " + req.Method + " " + req.URL.String()
	return filepath.Join(os.TempDir(), fmt.Sprintf("atlas-%x", sha1.Sum([]byte(key))))
}

func (t *cachedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	file := cacheFile(req)
	if content, err := os.ReadFile(file); err == nil {
		return http.ReadResponse(bufio.NewReader(bytes.NewReader(content)), req)
	}

	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	log.Printf("%v %v%v %v", req.Method, req.URL.Host, req.URL.Path, resp.Status)
	if resp.StatusCode >= 300 {
		return resp, nil
	}

	// DumpResponse leaves resp.Body readable for the caller.
	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return resp, nil
	}
	if err := os.WriteFile(file, content, 0600); err != nil {
		log.Printf("cache write err (ignored): %v", err)
	}
	return resp, nil
}

// newDailyCachingClient returns an http.Client whose cache entries expire daily.
func newDailyCachingClient() *http.Client {
	return &http.Client{Transport: &cachedTransport{next: http.DefaultTransport}}
}

// jwget performs an HTTP GET request to the given address and unmarshals
// the JSON response body into the provided data structure.
func jwget(client *http.Client, addr string, data interface{}) error {
	resp, err := client.Get(addr)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cannot http GET %v%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, data)
}
