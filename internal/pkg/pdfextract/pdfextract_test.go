package pdfextract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitPassages(t *testing.T) {
	text := "Chapter 1\n\n" +
		"The quick brown fox\njumps over   the lazy dog.\n" +
		"   \n" +
		"Pack my box with five\r\ndozen liquor jugs.\r\n\r\n" +
		"12\n"

	got := SplitPassages(text)
	assert.Equal(t, []string{
		"The quick brown fox jumps over the lazy dog.",
		"Pack my box with five dozen liquor jugs.",
	}, got)
}

func TestSplitPassages_Empty(t *testing.T) {
	assert.Empty(t, SplitPassages(""))
	assert.Empty(t, SplitPassages("\n\n  \n"))
}

func TestExtractText_EmptyInput(t *testing.T) {
	text, err := ExtractText(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestExtractPassages_NotAPDF(t *testing.T) {
	_, err := ExtractPassages(strings.NewReader("plain text, not a pdf document"))
	require.Error(t, err)
}
