// Package news holds the digest item model and the dedup/recency filter.
package news

import (
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"pharmadigest/internal/feed"
	"pharmadigest/internal/metrics"
)

// Item is one surfaced news story. It is created by the filter and enriched
// in place by the later pipeline stages; nothing outlives a single run.
type Item struct {
	Company   string
	Title     string
	Link      string
	Source    string
	Published time.Time // zero value means the feed gave no usable timestamp

	Summary string // cleaned feed-provided summary
	Article string // extracted full text, may be empty

	Bullets           []string
	TitleTranslated   string
	BulletsTranslated []string
}

var stripPolicy = bluemonday.StrictPolicy()

// CleanText strips HTML tags and collapses whitespace runs to single spaces.
func CleanText(s string) string {
	return strings.Join(strings.Fields(stripPolicy.Sanitize(s)), " ")
}

// Filter applies the per-entry acceptance rules in feed order, then sorts the
// survivors newest-first and truncates to maxItems.
//
// Rules: entries without a title or link are dropped; the first entry wins for
// each link; a timestamp is taken from published, falling back to updated, and
// an unparsable or absent timestamp keeps the entry; a known timestamp must be
// strictly after cutoff.
func Filter(entries []feed.Entry, cutoff time.Time, maxItems int) []Item {
	seen := make(map[string]struct{})
	var items []Item

	for _, e := range entries {
		metrics.Global.IncrementEntriesSeen()

		title := strings.TrimSpace(e.Item.Title)
		link := strings.TrimSpace(e.Item.Link)
		if title == "" || link == "" {
			continue
		}

		if _, dup := seen[link]; dup {
			slog.Debug("duplicate link dropped", "title", title)
			metrics.Global.IncrementDuplicatesFiltered()
			continue
		}

		published := entryTime(e.Item.PublishedParsed, e.Item.UpdatedParsed)
		if !published.IsZero() && !published.After(cutoff) {
			metrics.Global.IncrementStaleFiltered()
			continue
		}

		seen[link] = struct{}{}
		items = append(items, Item{
			Company:   e.Company,
			Title:     title,
			Link:      link,
			Source:    sourceFromTitle(title),
			Published: published,
			Summary:   CleanText(e.Item.Description),
		})
	}

	// Newest first; items without a timestamp go last, keeping feed order
	// among themselves.
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].Published, items[j].Published
		if a.IsZero() {
			return false
		}
		if b.IsZero() {
			return true
		}
		return a.After(b)
	})

	if len(items) > maxItems {
		items = items[:maxItems]
	}
	return items
}

func entryTime(published, updated *time.Time) time.Time {
	if published != nil {
		return published.UTC()
	}
	if updated != nil {
		return updated.UTC()
	}
	return time.Time{}
}

// sourceFromTitle pulls the publisher name out of the "Headline - Publisher"
// convention Google News uses for search-result titles.
func sourceFromTitle(title string) string {
	idx := strings.LastIndex(title, " - ")
	if idx < 0 {
		return ""
	}
	source := strings.TrimSpace(title[idx+len(" - "):])
	// A trailing dash or an implausibly long suffix is not a publisher name.
	if source == "" || len(source) > 60 {
		return ""
	}
	return source
}
