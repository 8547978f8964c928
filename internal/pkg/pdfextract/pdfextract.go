package pdfextract

import (
	"bytes"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// MinPassageLength drops headings, page numbers and similar fragments.
const MinPassageLength = 20

// ExtractText reads the entire content of r and extracts plain text from the PDF.
// Returns empty string and nil error if the PDF has no extractable text.
func ExtractText(r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if len(b) == 0 {
		return "", nil
	}
	readerAt := bytes.NewReader(b)
	pdfReader, err := pdf.NewReader(readerAt, int64(len(b)))
	if err != nil {
		return "", err
	}
	plainReader, err := pdfReader.GetPlainText()
	if err != nil {
		return "", err
	}
	out, err := io.ReadAll(plainReader)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// ExtractPassages extracts the PDF text and splits it with SplitPassages.
func ExtractPassages(r io.Reader) ([]string, error) {
	text, err := ExtractText(r)
	if err != nil {
		return nil, err
	}
	return SplitPassages(text), nil
}

// SplitPassages breaks text into typing passages on blank lines. Whitespace
// inside a passage is collapsed to single spaces.
func SplitPassages(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var (
		passages []string
		current  []string
	)
	flush := func() {
		if len(current) == 0 {
			return
		}
		p := strings.Join(strings.Fields(strings.Join(current, " ")), " ")
		if len(p) >= MinPassageLength {
			passages = append(passages, p)
		}
		current = current[:0]
	}

	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()
	return passages
}
