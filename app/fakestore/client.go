// Package fakestore fetches the external product catalog.
package fakestore

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrCatalogUnavailable matches every failure to obtain a catalog snapshot.
var ErrCatalogUnavailable = errors.New("catalog unavailable")

// NetworkError describes a failed catalog fetch.
type NetworkError struct {
	URL    string
	Status int // zero when no response was received
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) Is(target error) bool { return target == ErrCatalogUnavailable }

type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// Item is one listing of the external catalog.
type Item struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	Rating      *Rating         `json:"rating,omitempty"`
}

// RecordID is the id under which the item is stored in the inventory.
func (i Item) RecordID() string {
	return strconv.FormatInt(i.ID, 10)
}

// Client reads the catalog over HTTP. Every call is a fresh fetch.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// FetchAll returns the catalog in listing order.
func (c *Client) FetchAll(ctx context.Context) ([]Item, error) {
	url := c.baseURL + "/products"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &NetworkError{URL: url, Status: resp.StatusCode}
	}

	var items []Item
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, &NetworkError{URL: url, Err: errors.Wrap(err, "decode catalog")}
	}
	return items, nil
}
