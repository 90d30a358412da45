// Package format renders the digest and photo captions as Telegram HTML.
package format

import (
	"fmt"
	"html"
	"strings"
	"time"

	"pharmadigest/internal/news"
	"pharmadigest/internal/summarize"
)

// TitleMaxRunes caps rendered headlines. Truncation happens before escaping
// so entities are never cut in half.
const TitleMaxRunes = 180

// MessageMaxChars keeps rendered digests under Telegram's 4096-character
// sendMessage limit, with headroom. Measured in bytes, which is strictly
// more conservative than Telegram's character count.
const MessageMaxChars = 4000

const (
	digestHeader = "<b>🧬 医药大厂新闻速递（国内外）</b>"
	digestFooter = "<i>来源：Google News RSS 聚合；配图为网页 OG 图（可能因站点限制缺失）。</i>"
)

// Digest renders the full digest body for one run.
func Digest(items []news.Item, now time.Time, bulletMaxChars int) string {
	var b strings.Builder

	b.WriteString(digestHeader + "\n")
	b.WriteString("<i>" + html.EscapeString(now.Format("2006-01-02 15:04")) + "</i>\n")
	b.WriteString("\n")

	for i, it := range items {
		title := esc(displayTitle(it))
		b.WriteString(fmt.Sprintf("%d. 🔹 <a href=\"%s\">%s</a>\n", i+1, html.EscapeString(it.Link), title))

		meta := metaLine(it)
		if meta != "" {
			b.WriteString("<i>" + meta + "</i>\n")
		}

		for _, bullet := range displayBullets(it) {
			b.WriteString("▪️ " + html.EscapeString(summarize.Truncate(bullet, bulletMaxChars)) + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("—\n")
	b.WriteString(digestFooter)
	return strings.TrimSpace(b.String())
}

// DigestCapped renders the digest, dropping trailing items until the result
// fits in maxChars. At least one item is always rendered, even when that
// single item alone exceeds the cap.
func DigestCapped(items []news.Item, now time.Time, bulletMaxChars, maxChars int) string {
	for n := len(items); n > 1; n-- {
		msg := Digest(items[:n], now, bulletMaxChars)
		if len(msg) <= maxChars {
			return msg
		}
	}
	return Digest(items[:1], now, bulletMaxChars)
}

// PhotoCaption renders the short caption attached to a lead-image post.
func PhotoCaption(it news.Item) string {
	return fmt.Sprintf("🖼️ <a href=\"%s\">%s</a>", html.EscapeString(it.Link), esc(displayTitle(it)))
}

// Placeholder is sent when no items survive filtering.
func Placeholder() string {
	return "<b>🧬 医药新闻</b>\n\n今天未抓到要闻。"
}

func displayTitle(it news.Item) string {
	if it.TitleTranslated != "" {
		return it.TitleTranslated
	}
	return it.Title
}

func displayBullets(it news.Item) []string {
	if len(it.BulletsTranslated) > 0 {
		return it.BulletsTranslated
	}
	return it.Bullets
}

func metaLine(it news.Item) string {
	var parts []string
	for _, p := range []string{it.Company, it.Source} {
		if p != "" {
			parts = append(parts, html.EscapeString(p))
		}
	}
	return strings.Join(parts, " · ")
}

// esc truncates to the title cap and escapes exactly once.
func esc(s string) string {
	return html.EscapeString(summarize.Truncate(s, TitleMaxRunes))
}
