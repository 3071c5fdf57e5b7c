// Package pdf locates DOIs inside article PDFs.
package pdf

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// doiPattern matches registered DOIs: 10.<registrant>/<suffix>.
var doiPattern = regexp.MustCompile(`10\.\d{4,9}/[^\s<>"{}|\\^~\[\]` + "`" + `]+`)

// maxScanPages bounds the search; the DOI is almost always on the
// first page.
const maxScanPages = 3

// FindDOI extracts a DOI from the leading pages of the PDF at path.
// It returns "" (not an error) when no DOI is present.
func FindDOI(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening PDF: %w", err)
	}
	defer f.Close()

	pages := r.NumPage()
	if pages > maxScanPages {
		pages = maxScanPages
	}

	for i := 1; i <= pages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if doi := matchDOI(text); doi != "" {
			return doi, nil
		}
	}

	return "", nil
}

// matchDOI returns the first DOI in text, stripped of trailing
// punctuation that PDF extraction tends to glue on.
func matchDOI(text string) string {
	doi := doiPattern.FindString(text)
	return strings.TrimRight(doi, ".,;:)")
}
