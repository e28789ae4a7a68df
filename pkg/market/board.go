// Package market keeps the per-quintal crop prices used in advice.
package market

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Board is an in-memory price board, optionally refreshed from an HTML page.
type Board struct {
	source   string
	fallback float64
	httpc    *http.Client
	log      *zap.Logger

	mu      sync.RWMutex
	prices  map[string]float64 // lower-case crop -> price
	updated time.Time
}

func NewBoard(base map[string]float64, fallback float64, source string, httpc *http.Client, log *zap.Logger) *Board {
	if httpc == nil {
		httpc = &http.Client{Timeout: 15 * time.Second}
	}
	if log == nil {
		log = zap.NewNop()
	}
	b := &Board{source: source, fallback: fallback, httpc: httpc, log: log, prices: map[string]float64{}}
	for crop, p := range base {
		b.prices[key(crop)] = p
	}
	return b
}

func key(crop string) string { return strings.ToLower(strings.TrimSpace(crop)) }

// Price returns the current price for crop, or the fallback price.
func (b *Board) Price(crop string) float64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if p, ok := b.prices[key(crop)]; ok {
		return p
	}
	return b.fallback
}

// Updated is the time of the last successful refresh, zero if none.
func (b *Board) Updated() time.Time {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.updated
}

// Refresh scrapes the source page and merges its prices into the board.
// Crops missing from the page keep their previous price.
func (b *Board) Refresh(ctx context.Context) (int, error) {
	if b.source == "" {
		return 0, nil
	}
	scraped, err := Scrape(ctx, b.httpc, b.source)
	if err != nil {
		return 0, err
	}
	b.mu.Lock()
	for crop, p := range scraped {
		b.prices[key(crop)] = p
	}
	b.updated = time.Now()
	b.mu.Unlock()

	b.log.Info("price board refreshed", zap.String("source", b.source), zap.Int("crops", len(scraped)))
	return len(scraped), nil
}

// Schedule registers a periodic Refresh on c.
func (b *Board) Schedule(c *cron.Cron, spec string) (cron.EntryID, error) {
	return c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if _, err := b.Refresh(ctx); err != nil {
			b.log.Warn("scheduled price refresh failed", zap.Error(err))
		}
	})
}

var errNoPrices = errors.New("no price rows found")

// Scrape reads every table row whose first cell names a crop and whose
// last numeric cell holds its price.
func Scrape(ctx context.Context, httpc *http.Client, url string) (map[string]float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	res, err := httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch price board: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch price board: unexpected status %d", res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("parse price board: %w", err)
	}

	out := map[string]float64{}
	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}
		crop := strings.TrimSpace(cells.Eq(0).Text())
		if crop == "" {
			return
		}
		for i := cells.Length() - 1; i >= 1; i-- {
			if p, ok := parsePrice(cells.Eq(i).Text()); ok {
				out[crop] = p
				return
			}
		}
	})
	if len(out) == 0 {
		return nil, errNoPrices
	}
	return out, nil
}

func parsePrice(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	for _, junk := range []string{"₹", "Rs.", "Rs", "INR", ","} {
		s = strings.ReplaceAll(s, junk, "")
	}
	s = strings.TrimSpace(s)
	p, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(p) || math.IsInf(p, 0) || p <= 0 {
		return 0, false
	}
	return p, true
}
