package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmadigest/internal/query"
)

const rssBody = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel>
<title>search results</title>
<item>
  <title>Pfizer wins approval - Reuters</title>
  <link>https://example.com/pfizer</link>
  <description>Approval granted.</description>
  <pubDate>Mon, 31 Aug 2026 08:00:00 GMT</pubDate>
</item>
<item>
  <title>Second story - AP</title>
  <link>https://example.com/second</link>
</item>
</channel></rss>`

func TestFetchAllTagsEntriesWithCompany(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, rssBody)
	}))
	defer srv.Close()

	f := NewFetcher([]string{"FDA"}, 5*time.Second)
	f.urlFor = func(q string) string { return srv.URL }

	entries := f.FetchAll(context.Background(), []query.Company{
		{Name: "Pfizer 辉瑞", Aliases: []string{"Pfizer"}},
	})

	require.Len(t, entries, 2)
	assert.Equal(t, "Pfizer 辉瑞", entries[0].Company)
	assert.Equal(t, "Pfizer wins approval - Reuters", entries[0].Item.Title)
	require.NotNil(t, entries[0].Item.PublishedParsed)
	assert.Nil(t, entries[1].Item.PublishedParsed)
}

func TestFetchAllSkipsFailingCompany(t *testing.T) {
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssBody)
	}))
	defer good.Close()
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer bad.Close()

	urls := map[string]string{}
	f := NewFetcher(nil, 5*time.Second)
	f.urlFor = func(q string) string { return urls[q] }

	urls[query.Build([]string{"BadCo"}, nil)] = bad.URL
	urls[query.Build([]string{"GoodCo"}, nil)] = good.URL

	entries := f.FetchAll(context.Background(), []query.Company{
		{Name: "BadCo", Aliases: []string{"BadCo"}},
		{Name: "GoodCo", Aliases: []string{"GoodCo"}},
	})

	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, "GoodCo", e.Company)
	}
}

func TestFetchAllUnreachableFeed(t *testing.T) {
	f := NewFetcher(nil, time.Second)
	f.urlFor = func(q string) string { return "http://127.0.0.1:1/rss" }

	entries := f.FetchAll(context.Background(), []query.Company{
		{Name: "A", Aliases: []string{"A"}},
	})
	assert.Empty(t, entries)
}
