package splitter

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// readPDF returns the plain text of every page, pages joined by a newline.
func readPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open pdf %s: %w", path, err)
	}
	defer f.Close()

	pages := make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("failed to read page %d of %s: %w", i, path, err)
		}
		pages = append(pages, text)
	}
	return strings.Join(pages, "\n"), nil
}
