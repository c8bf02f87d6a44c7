package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKanjiVariants(t *testing.T) {
	assert.Equal(t, "この道路の長さは1kmである", KanjiVariants.Apply("この道路の长さは1kmである"))
	assert.Equal(t, "鉄筋の総重量", KanjiVariants.Apply("鐵筋の總重量"))
	assert.Equal(t, "abc 123", KanjiVariants.Apply("abc 123"))
}

func TestWidthFold(t *testing.T) {
	assert.Equal(t, "1000m", WidthFold.Apply("１０００ｍ"))
	assert.Equal(t, "カタカナ", WidthFold.Apply("ｶﾀｶﾅ"))
}

func TestNFKC(t *testing.T) {
	assert.Equal(t, "300cm3", NFKC.Apply("300cm³"))
}

func TestChainOrder(t *testing.T) {
	upper := Func(func(s string) string { return s + "-a" })
	lower := Func(func(s string) string { return s + "-b" })
	assert.Equal(t, "x-a-b", Chain{upper, lower}.Apply("x"))
	assert.Equal(t, "x", Chain{}.Apply("x"))
}

func TestParse(t *testing.T) {
	chain, unknown := Parse("kanji, width,bogus")
	assert.Len(t, chain, 2)
	assert.Equal(t, []string{"bogus"}, unknown)
	assert.Equal(t, "長さ1000", chain.Apply("长さ１０００"))

	chain, unknown = Parse("none")
	assert.Empty(t, chain)
	assert.Empty(t, unknown)
}
