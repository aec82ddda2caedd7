package collector

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// maxLabelLen caps emitted labels; longer text is cut and marked with an
// ellipsis.
const maxLabelLen = 100

// associatedLabel resolves a form control's text via a <label for=...>
// pointing at the control's id. The match must be exact; a control
// without an id has no association.
func associatedLabel(doc *goquery.Document, s *goquery.Selection) string {
	id := s.AttrOr("id", "")
	if id == "" {
		return ""
	}
	lab := doc.Find(fmt.Sprintf(`label[for=%q]`, id)).First()
	return strings.TrimSpace(lab.Text())
}

// hasDirectText reports whether the node owns at least one non-blank
// text child of its own, as opposed to text reachable only through
// nested elements.
func hasDirectText(s *goquery.Selection) bool {
	if len(s.Nodes) == 0 {
		return false
	}
	for c := s.Nodes[0].FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode && strings.TrimSpace(c.Data) != "" {
			return true
		}
	}
	return false
}

// truncate cuts text to maxLabelLen characters and appends "..." when it
// was longer. Counted in runes, not bytes.
func truncate(text string) string {
	r := []rune(text)
	if len(r) <= maxLabelLen {
		return text
	}
	return string(r[:maxLabelLen]) + "..."
}

func runeLen(text string) int {
	return len([]rune(text))
}
