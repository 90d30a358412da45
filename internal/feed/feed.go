// Package feed fetches Google News search results for tracked companies.
package feed

import (
	"context"
	"log/slog"
	"time"

	"github.com/mmcdole/gofeed"

	"pharmadigest/internal/metrics"
	"pharmadigest/internal/query"
)

// Entry is a raw feed entry tagged with the company it was searched for.
type Entry struct {
	Company string
	Item    *gofeed.Item
}

// Fetcher downloads and parses one search feed per company.
type Fetcher struct {
	parser   *gofeed.Parser
	timeout  time.Duration
	keywords []string
	urlFor   func(q string) string
}

func NewFetcher(keywords []string, timeout time.Duration) *Fetcher {
	return &Fetcher{
		parser:   gofeed.NewParser(),
		timeout:  timeout,
		keywords: keywords,
		urlFor:   query.FeedURL,
	}
}

// FetchAll runs one search per company and flattens the results in roster
// order. A feed that fails to download or parse is logged and skipped so a
// single broken query cannot take down the whole run.
func (f *Fetcher) FetchAll(ctx context.Context, companies []query.Company) []Entry {
	var entries []Entry

	for _, c := range companies {
		q := query.Build(c.Aliases, f.keywords)
		feedURL := f.urlFor(q)

		items, err := f.fetchOne(ctx, feedURL)
		if err != nil {
			slog.Warn("feed fetch failed", "company", c.Name, "err", err)
			metrics.Global.IncrementFeedErrors()
			continue
		}
		metrics.Global.IncrementFeedsFetched()
		slog.Debug("feed fetched", "company", c.Name, "entries", len(items))

		for _, item := range items {
			entries = append(entries, Entry{Company: c.Name, Item: item})
		}
	}

	return entries
}

func (f *Fetcher) fetchOne(ctx context.Context, feedURL string) ([]*gofeed.Item, error) {
	reqCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	parsed, err := f.parser.ParseURLWithContext(feedURL, reqCtx)
	if err != nil {
		return nil, err
	}
	return parsed.Items, nil
}
