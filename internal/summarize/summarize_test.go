package summarize

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBulletsKeepsLeadingSentences(t *testing.T) {
	body := "The FDA approved the drug for adults on Monday morning. " +
		"Shares of the company rose four percent after the announcement. " +
		"Analysts expect a full launch before the end of the year. " +
		"A fourth sentence that should not appear in the output at all."

	bullets := Bullets(body, 3, 260)
	require.Len(t, bullets, 3)
	assert.Equal(t, "The FDA approved the drug for adults on Monday morning.", bullets[0])
	assert.Equal(t, "Shares of the company rose four percent after the announcement.", bullets[1])
}

func TestBulletsNeverExceedCharCap(t *testing.T) {
	body := strings.Repeat("word ", 200) + ". " + strings.Repeat("another ", 100) + "."
	for _, limit := range []int{40, 120, 260} {
		for _, b := range Bullets(body, 5, limit) {
			assert.LessOrEqual(t, utf8.RuneCountInString(b), limit)
		}
	}
}

func TestBulletsDiscardsShortFragments(t *testing.T) {
	body := "Read more. This sentence is comfortably longer than thirty characters. By staff."
	bullets := Bullets(body, 3, 260)
	require.Len(t, bullets, 1)
	assert.Equal(t, "This sentence is comfortably longer than thirty characters.", bullets[0])
}

func TestBulletsNonEmptyForAnyNonEmptyInput(t *testing.T) {
	inputs := []string{
		"short",
		"no sentence terminators here just a stream of words going on",
		"!!!",
	}
	for _, in := range inputs {
		bullets := Bullets(in, 3, 100)
		require.NotEmpty(t, bullets, "input %q", in)
	}
}

func TestBulletsEmptyInput(t *testing.T) {
	assert.Nil(t, Bullets("", 3, 260))
	assert.Nil(t, Bullets("   \n\t ", 3, 260))
}

func TestBulletsSplitsFullWidthPunctuation(t *testing.T) {
	body := "该公司在周一上午正式宣布其三期临床试验已经达到了预先设定的主要终点这一重要消息。 公司股价在消息公布之后的早盘交易中一度上涨了超过百分之四的幅度并创下年内新高。"
	bullets := Bullets(body, 3, 260)
	require.Len(t, bullets, 2)
	assert.True(t, strings.HasSuffix(bullets[0], "。"))
}

func TestBulletsCollapsesWhitespace(t *testing.T) {
	body := "A  sentence\twith   messy\n\nwhitespace that is long enough to keep."
	bullets := Bullets(body, 1, 260)
	require.Len(t, bullets, 1)
	assert.Equal(t, "A sentence with messy whitespace that is long enough to keep.", bullets[0])
}

func TestBulletsFallbackUsesCollapsedPrefix(t *testing.T) {
	// Every sentence is under the 30-char noise threshold.
	body := "Tiny one. Also small. Nope."
	bullets := Bullets(body, 3, 10)
	require.Len(t, bullets, 1)
	assert.Equal(t, "Tiny one. ", bullets[0])
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "héllo", Truncate("héllo", 10))
	assert.Equal(t, "hél", Truncate("héllo", 3))
	assert.Equal(t, "", Truncate("anything", 0))
}
