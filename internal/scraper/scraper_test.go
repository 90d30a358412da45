package scraper

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func page(t *testing.T, html string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, html)
	}))
}

func TestFindLeadImagePrefersOGProperty(t *testing.T) {
	srv := page(t, `<html><head>
		<meta name="twitter:image" content="https://cdn.example.com/twitter.jpg">
		<meta property="og:image" content="https://cdn.example.com/og.jpg">
	</head><body></body></html>`)
	defer srv.Close()

	assert.Equal(t, "https://cdn.example.com/og.jpg", FindLeadImage(srv.URL))
}

func TestFindLeadImageFallsBackThroughVariants(t *testing.T) {
	srv := page(t, `<html><head>
		<meta name="twitter:image" content="https://cdn.example.com/tw-name.jpg">
	</head><body></body></html>`)
	defer srv.Close()

	assert.Equal(t, "https://cdn.example.com/tw-name.jpg", FindLeadImage(srv.URL))
}

func TestFindLeadImageRejectsRelativeURLs(t *testing.T) {
	srv := page(t, `<html><head>
		<meta property="og:image" content="/static/lead.jpg">
	</head><body></body></html>`)
	defer srv.Close()

	assert.Equal(t, "", FindLeadImage(srv.URL))
}

func TestFindLeadImageNoMetaTags(t *testing.T) {
	srv := page(t, `<html><head><title>t</title></head><body><img src="x.jpg"></body></html>`)
	defer srv.Close()

	assert.Equal(t, "", FindLeadImage(srv.URL))
}

func TestFindLeadImageHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	assert.Equal(t, "", FindLeadImage(srv.URL))
}

func TestExtractArticleCollectsParagraphs(t *testing.T) {
	paras := make([]string, 0, 4)
	for i := 0; i < 4; i++ {
		paras = append(paras, fmt.Sprintf("<p>Paragraph %d of the article body, long enough to count as real content for extraction.</p>", i))
	}
	srv := page(t, "<html><body><article>"+strings.Join(paras, "")+"</article></body></html>")
	defer srv.Close()

	text := ExtractArticle(srv.URL)
	assert.GreaterOrEqual(t, len(text), MinArticleChars)
	assert.Contains(t, text, "Paragraph 0")
	assert.Contains(t, text, "Paragraph 3")
}

func TestExtractArticleTooShortReturnsEmpty(t *testing.T) {
	srv := page(t, "<html><body><p>Just a teaser.</p></body></html>")
	defer srv.Close()

	assert.Equal(t, "", ExtractArticle(srv.URL))
}

func TestExtractArticleBlockedPageReturnsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	assert.Equal(t, "", ExtractArticle(srv.URL))
}

func TestExtractArticleUnreachableHost(t *testing.T) {
	assert.Equal(t, "", ExtractArticle("http://127.0.0.1:1/article"))
}

func TestExtractMainTextStripsChrome(t *testing.T) {
	html := `<html><body>
		<nav>Home News Sports</nav>
		<article>` + strings.Repeat("<p>A solid sentence of body text that belongs in the extraction output here.</p>", 5) + `</article>
		<footer>Copyright</footer>
	</body></html>`

	text := extractMainText(html)
	assert.NotContains(t, text, "Home News Sports")
	assert.NotContains(t, text, "Copyright")
	assert.Contains(t, text, "solid sentence of body text")
}

func TestExtractMainTextPlainTextPassthrough(t *testing.T) {
	in := "already plain    text with   spacing"
	assert.Equal(t, "already plain text with spacing", extractMainText(in))
}
