package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "short", TruncateRunes("short", 10))
	assert.Equal(t, "政府采购...", TruncateRunes("政府采购是指各级国家机关", 4))
	assert.Equal(t, "whatever", TruncateRunes("whatever", 0))

	long := strings.Repeat("条", 900)
	out := TruncateRunes(long, 800)
	assert.Equal(t, 803, len([]rune(out)))
	assert.True(t, strings.HasSuffix(out, "..."))
}

func TestSourceBasename(t *testing.T) {
	assert.Equal(t, "chunk_01.txt", SourceBasename(`manual_chunks\第一章\chunk_01.txt`))
	assert.Equal(t, "chunk_01.txt", SourceBasename("manual_chunks/第一章/chunk_01.txt"))
	assert.Equal(t, "plain.txt", SourceBasename("plain.txt"))
	assert.Equal(t, "", SourceBasename(""))
}

func TestHTMLText(t *testing.T) {
	text, err := HTMLText(`<html><head><style>p{}</style></head><body><h1>采购法</h1><p>第一条</p><script>x()</script></body></html>`)
	assert.NoError(t, err)
	assert.Contains(t, text, "采购法")
	assert.Contains(t, text, "第一条")
	assert.NotContains(t, text, "x()")
	assert.NotContains(t, text, "p{}")
}
