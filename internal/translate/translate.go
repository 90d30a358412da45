// Package translate provides best-effort machine translation over a chain of
// LibreTranslate-compatible endpoints. Translation never blocks the pipeline:
// when every endpoint fails the original text passes through unchanged.
package translate

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pharmadigest/internal/metrics"
)

// chunkTargetChars keeps each request comfortably under public instances'
// payload limits while preferring paragraph-aligned breaks.
const chunkTargetChars = 900

// DefaultEndpoints are tried in order for every chunk.
var DefaultEndpoints = []string{
	"https://libretranslate.com/translate",
	"https://translate.argosopentech.com/translate",
	"https://lt.vern.cc/translate",
}

type Translator struct {
	endpoints []string
	target    string
	client    *http.Client
}

// New builds a Translator targeting the given language code. A non-empty
// overrideURL is tried before the default endpoints.
func New(overrideURL, target string) *Translator {
	endpoints := DefaultEndpoints
	if overrideURL != "" {
		endpoints = append([]string{overrideURL}, DefaultEndpoints...)
	}
	return NewWithEndpoints(endpoints, target)
}

// NewWithEndpoints builds a Translator with an explicit ordered endpoint list.
func NewWithEndpoints(endpoints []string, target string) *Translator {
	return &Translator{
		endpoints: endpoints,
		target:    target,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Translate is total: for any input it returns a string and never fails.
// Worst case, with every endpoint down, it is the identity function.
func (t *Translator) Translate(text string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}

	var b strings.Builder
	for _, c := range splitChunks(text, chunkTargetChars) {
		b.WriteString(t.translateChunk(c.text))
		b.WriteString(c.sep)
	}
	return b.String()
}

func (t *Translator) translateChunk(chunk string) string {
	for _, endpoint := range t.endpoints {
		translated, err := t.translateOnce(endpoint, chunk)
		if err != nil {
			slog.Debug("translation endpoint failed", "endpoint", endpoint, "err", err)
			continue
		}
		return translated
	}

	slog.Warn("all translation endpoints failed, keeping original text")
	metrics.Global.IncrementTranslationsFailed()
	return chunk
}

func (t *Translator) translateOnce(endpoint, text string) (string, error) {
	form := url.Values{
		"q":      {text},
		"source": {"auto"},
		"target": {t.target},
		"format": {"text"},
	}

	resp, err := t.client.PostForm(endpoint, form)
	if err != nil {
		return "", err
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			slog.Debug("closing response body", "err", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var parsed struct {
		TranslatedText string `json:"translatedText"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if parsed.TranslatedText == "" {
		return "", fmt.Errorf("empty translation")
	}
	return parsed.TranslatedText, nil
}

// chunk is one translation request plus the separator that followed it in
// the source text. Concatenating text+sep over all chunks reproduces the
// input byte for byte, so the all-endpoints-down path stays the identity.
type chunk struct {
	text string
	sep  string
}

// splitChunks breaks text into pieces of roughly target runes, preferring
// blank-line boundaries so chunks stay paragraph-aligned. A single oversized
// paragraph is hard-split as a last resort.
func splitChunks(text string, target int) []chunk {
	if len([]rune(text)) <= target {
		return []chunk{{text: text}}
	}

	paras := strings.Split(text, "\n\n")
	var chunks []chunk
	var current strings.Builder
	currentLen := 0

	flush := func(sep string) {
		if currentLen == 0 {
			return
		}
		chunks = append(chunks, chunk{text: current.String(), sep: sep})
		current.Reset()
		currentLen = 0
	}

	for i, para := range paras {
		sep := ""
		if i < len(paras)-1 {
			sep = "\n\n"
		}
		paraLen := len([]rune(para))

		if paraLen > target {
			flush("\n\n")
			pieces := hardSplit(para, target)
			for j, p := range pieces {
				pieceSep := ""
				if j == len(pieces)-1 {
					pieceSep = sep
				}
				chunks = append(chunks, chunk{text: p, sep: pieceSep})
			}
			continue
		}

		if currentLen > 0 && currentLen+2+paraLen > target {
			flush("\n\n")
		}

		if currentLen > 0 {
			current.WriteString("\n\n")
			currentLen += 2
		}
		current.WriteString(para)
		currentLen += paraLen
	}

	flush("")
	return chunks
}

func hardSplit(s string, size int) []string {
	runes := []rune(s)
	var out []string
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, string(runes[start:end]))
	}
	return out
}
