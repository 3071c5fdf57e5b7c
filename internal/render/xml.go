package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mlandis/reftrack/internal/record"
	"github.com/mlandis/reftrack/internal/registry"
)

// xmlEscaper escapes the XML special characters in free-text content
// and attribute values.
var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// XML writes every reference, cited or not, as a REFERENCE element
// carrying the citation key attribute and a fixed sequence of child
// elements. The caller wraps the output in a document root if one is
// needed.
func XML(w io.Writer, reg *registry.Registry) error {
	for handle := 1; handle <= reg.Count(); handle++ {
		ref, err := reg.Reference(handle)
		if err != nil {
			return err
		}
		if err := writeReferenceXML(w, ref); err != nil {
			return err
		}
	}
	return nil
}

func writeReferenceXML(w io.Writer, ref registry.Reference) error {
	rec := ref.Record()
	var b strings.Builder

	b.WriteString(`<REFERENCE key="` + xmlEscaper.Replace(ref.Key()) + "\">\n")
	for _, author := range Authors(rec) {
		writeElement(&b, "AUTHOR", author)
	}
	writeElement(&b, "DOI", ref.DOI())
	writeElement(&b, "SOURCE", record.Source(rec))
	writeElement(&b, "VOLUME", record.Volume(rec))
	writeElement(&b, "ISSUE", record.Issue(rec))
	writeElement(&b, "PAGES", record.Pages(rec))
	writeElement(&b, "YEAR", record.Year(rec))
	writeElement(&b, "MONTH", numberOrEmpty(record.Month(rec)))
	writeElement(&b, "DAY", numberOrEmpty(record.Day(rec)))
	writeElement(&b, "TITLE", Title(rec))
	b.WriteString("</REFERENCE>\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func writeElement(b *strings.Builder, name, content string) {
	fmt.Fprintf(b, "  <%s>%s</%s>\n", name, xmlEscaper.Replace(content), name)
}

// numberOrEmpty renders a month or day number without leading fill;
// zero means the component is absent.
func numberOrEmpty(n int) string {
	if n <= 0 {
		return ""
	}
	return strconv.Itoa(n)
}
