// Package app wires the digest pipeline: fetch, filter, enrich, summarize,
// translate, format, deliver. One call to Run is one scheduled run.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"pharmadigest/internal/config"
	"pharmadigest/internal/feed"
	"pharmadigest/internal/format"
	"pharmadigest/internal/metrics"
	"pharmadigest/internal/news"
	"pharmadigest/internal/query"
	"pharmadigest/internal/scraper"
	"pharmadigest/internal/summarize"
	"pharmadigest/internal/telegram"
	"pharmadigest/internal/translate"
)

// pause between article fetches so we don't hammer publisher sites
const scrapePause = 500 * time.Millisecond

// photoLimit caps the number of best-effort image posts per run.
const photoLimit = 3

// deps bundles the network-facing collaborators so the pipeline can be
// driven with fakes in tests.
type deps struct {
	fetch     func(ctx context.Context, companies []query.Company) []feed.Entry
	translate func(text string) string
	article   func(link string) string
	leadImage func(link string) string
	send      func(ctx context.Context, text string) error
	sendPhoto func(ctx context.Context, photoURL, caption string) error
	pause     time.Duration
}

// Run executes one full digest run. The returned error is non-nil only for
// the fatal cases: bad configuration or an undeliverable digest.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	tg := telegram.NewClient(cfg.BotToken, cfg.ChatID, cfg.RetryAttempts, cfg.RetryDelay)
	fetcher := feed.NewFetcher(cfg.ExtraKeywords, cfg.RequestTimeout)
	translator := translate.New(cfg.TranslateURL, cfg.TargetLang)

	return run(cfg, deps{
		fetch:     fetcher.FetchAll,
		translate: translator.Translate,
		article:   scraper.ExtractArticle,
		leadImage: scraper.FindLeadImage,
		send:      tg.SendMessage,
		sendPhoto: tg.SendPhoto,
		pause:     scrapePause,
	})
}

func run(cfg *config.Config, d deps) error {
	start := time.Now()
	defer func() {
		metrics.Global.RecordRunDuration(time.Since(start))
	}()

	companies, err := query.LoadCompanies(cfg.CompaniesFile)
	if err != nil {
		slog.Warn("roster file unusable, using built-in list", "file", cfg.CompaniesFile, "err", err)
		companies = query.DefaultCompanies
	}

	ctx := context.Background()

	entries := d.fetch(ctx, companies)
	slog.Info("feeds collected", "companies", len(companies), "entries", len(entries))

	cutoff := time.Now().UTC().AddDate(0, 0, -cfg.DaysLookback)
	items := news.Filter(entries, cutoff, cfg.MaxItems)
	slog.Info("items after filtering", "count", len(items))

	if len(items) == 0 {
		slog.Info("no items survived filtering, sending placeholder")
		if err := d.send(ctx, format.Placeholder()); err != nil {
			metrics.Global.SetError(err.Error())
			return fmt.Errorf("sending placeholder: %w", err)
		}
		metrics.Global.IncrementMessagesSent()
		metrics.Global.SetLastRun()
		return nil
	}

	enrich(items, d, cfg.MaxBullets, cfg.BulletMaxChars)

	msg := format.DigestCapped(items, time.Now(), cfg.BulletMaxChars, format.MessageMaxChars)
	slog.Info("sending digest", "items", len(items), "chars", len(msg))
	if err := d.send(ctx, msg); err != nil {
		metrics.Global.SetError(err.Error())
		return fmt.Errorf("sending digest: %w", err)
	}
	metrics.Global.IncrementMessagesSent()
	metrics.Global.SetLastRun()

	sendPhotos(ctx, d, items)
	return nil
}

// enrich fills article text, bullets and translations for each item, all
// best-effort: an item always ends up with at least its title as material.
func enrich(items []news.Item, d deps, maxBullets, bulletMaxChars int) {
	for i := range items {
		it := &items[i]

		if i > 0 {
			time.Sleep(d.pause)
		}

		it.Article = d.article(it.Link)
		if it.Article != "" {
			metrics.Global.IncrementArticlesEnriched()
		}

		body := it.Article
		if body == "" {
			body = it.Summary
		}
		if body == "" {
			body = it.Title
		}

		it.Bullets = summarize.Bullets(body, maxBullets, bulletMaxChars)

		it.TitleTranslated = d.translate(it.Title)
		it.BulletsTranslated = make([]string, 0, len(it.Bullets))
		for _, bullet := range it.Bullets {
			it.BulletsTranslated = append(it.BulletsTranslated, d.translate(bullet))
		}
	}
}

// sendPhotos posts a lead image for the top items. Failures here never touch
// the already-delivered digest.
func sendPhotos(ctx context.Context, d deps, items []news.Item) {
	for i, it := range items {
		if i >= photoLimit {
			break
		}

		img := d.leadImage(it.Link)
		if img == "" {
			continue
		}

		if err := d.sendPhoto(ctx, img, format.PhotoCaption(it)); err != nil {
			slog.Debug("photo post failed", "url", img, "err", err)
			continue
		}
		metrics.Global.IncrementPhotosSent()
	}
}
