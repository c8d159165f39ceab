// Package pricefeed polls an HTTP quote source for current item market
// prices. It is a collaborator outside the valuation core: it owns its own
// timeout, and any failure comes back as a structured error without
// touching core state.
package pricefeed

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/PaesslerAG/jsonpath"
)

// DefaultTimeout bounds one fetch; feeds are best-effort.
const DefaultTimeout = 10 * time.Second

// Feed describes one quote source: the URL serving a JSON document and
// the jsonpath expression locating the price inside it.
type Feed struct {
	URL  string
	Path string
}

// Client fetches quotes from a feed.
type Client struct {
	http *http.Client
	feed Feed
}

// New creates a client for the feed. A nil httpClient gets a default one
// with DefaultTimeout.
func New(httpClient *http.Client, feed Feed) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{http: httpClient, feed: feed}
}

// Latest fetches the current price from the feed.
func (c *Client) Latest() (float64, error) {
	var jobj any
	if err := jwget(c.http, c.feed.URL, &jobj); err != nil {
		return math.NaN(), fmt.Errorf("error fetching %q: %w", c.feed.URL, err)
	}
	jval, err := jsonpath.Get(c.feed.Path, jobj)
	if err != nil {
		return math.NaN(), fmt.Errorf("error extracting %q: %w", c.feed.Path, err)
	}
	// because jsonpath is never clear about whether it returns a list of 1
	// answer, or a single answer: keep the first one if any
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	val, ok := jval.(float64)
	if !ok {
		return math.NaN(), fmt.Errorf("price at %q is %v, not a number", c.feed.Path, jval)
	}
	return val, nil
}

// jwget performs an HTTP GET request and unmarshals the JSON response into
// the provided data structure.
func jwget(client *http.Client, addr string, data any) error {
	resp, err := client.Get(addr)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		return fmt.Errorf("cannot http GET %v/%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return err
	}
	return json.Unmarshal(buf.Bytes(), data)
}
