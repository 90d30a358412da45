// Package scraper fetches article pages for full-text extraction and for
// Open Graph lead-image discovery. Everything here is best-effort: failures
// come back as empty strings, never as errors the pipeline has to handle.
package scraper

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"codeberg.org/readeck/go-readability/v2"
	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

// MinArticleChars is the shortest extraction considered usable. Anything
// below it usually means a paywall teaser, a cookie wall or a bot block, and
// the caller should fall back to the feed summary.
const MinArticleChars = 200

const userAgent = "Mozilla/5.0 (compatible; pharmadigest/1.0)"

const maxPageBytes = 2 << 20

var httpClient = &http.Client{Timeout: 10 * time.Second}

// ExtractArticle fetches a page and returns its main text, or "" when the
// page cannot be fetched or yields less than MinArticleChars of content.
func ExtractArticle(pageURL string) string {
	body, err := fetchPage(pageURL)
	if err != nil {
		slog.Debug("article fetch failed", "url", pageURL, "err", err)
		return ""
	}

	text := extractMainText(body)
	if len(text) < MinArticleChars {
		slog.Debug("extraction too short", "url", pageURL, "chars", len(text))
		return ""
	}
	return text
}

// FindLeadImage scans a page's meta tags for a share image. Checked in order:
// og:image as property, og:image as name, twitter:image as property, then as
// name. Only absolute http(s) URLs are accepted.
func FindLeadImage(pageURL string) string {
	body, err := fetchPage(pageURL)
	if err != nil {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return ""
	}

	selectors := []string{
		`meta[property="og:image"]`,
		`meta[name="og:image"]`,
		`meta[property="twitter:image"]`,
		`meta[name="twitter:image"]`,
	}
	for _, sel := range selectors {
		content, ok := doc.Find(sel).First().Attr("content")
		if !ok {
			continue
		}
		img := strings.TrimSpace(content)
		if strings.HasPrefix(img, "http://") || strings.HasPrefix(img, "https://") {
			return img
		}
	}
	return ""
}

func fetchPage(pageURL string) (string, error) {
	req, err := http.NewRequest(http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			slog.Debug("closing response body", "err", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP status %d", resp.StatusCode)
	}

	// Cap the read so a misbehaving page cannot balloon memory.
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// extractMainText runs a recall-favoring extraction chain: strip obvious
// non-content nodes, let readability find the body, then fall back to plain
// paragraph collection and finally to bare tag stripping.
func extractMainText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if !strings.Contains(trimmed, "<") {
		return normalizeWhitespace(trimmed)
	}

	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(trimmed)); err == nil {
		doc.Find("script, style, noscript, nav, header, footer, aside, table, iframe, form").Remove()
		doc.Find("[class*='comment'], [id*='comment'], [class*='share'], [class*='social']").Remove()
		if cleaned, err := doc.Html(); err == nil && cleaned != "" {
			trimmed = cleaned
		}
	}

	if article, err := readability.FromReader(strings.NewReader(trimmed), nil); err == nil {
		var buf strings.Builder
		if err := article.RenderText(&buf); err == nil {
			text := normalizeWhitespace(buf.String())
			if len(text) >= MinArticleChars {
				return text
			}
		}
	}

	return extractParagraphs(trimmed)
}

// extractParagraphs collects paragraph-like blocks when readability comes up
// short, e.g. on pages without an <article> container.
func extractParagraphs(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return normalizeWhitespace(bluemonday.StrictPolicy().Sanitize(html))
	}

	var paragraphs []string
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if len(text) > 20 {
			paragraphs = append(paragraphs, text)
		}
	})

	if len(paragraphs) == 0 {
		return normalizeWhitespace(bluemonday.StrictPolicy().Sanitize(html))
	}
	return strings.Join(paragraphs, "\n\n")
}

func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
