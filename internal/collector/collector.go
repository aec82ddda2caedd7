package collector

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/hfabian-G/ElementToCsvTool/internal/element"
)

// interactiveSelector matches the elements that get their own dedicated
// pass. Generic text containers holding any of these are skipped so a
// container and its child do not both become rows.
const interactiveSelector = "button, input, select, a, h1, h2, h3, h4, h5, h6"

// maxGenericTextLen is the cutoff above which a text container is
// considered page content rather than a labelled UI block.
const maxGenericTextLen = 200

// Collect runs the category passes over the document in a fixed order:
// buttons, inputs, selects, links, headings, generic text containers,
// table headers. Each pass appends a record per matched node whose
// derived label is non-empty; nodes without a label are skipped silently.
func Collect(doc *goquery.Document) []element.Record {
	var records []element.Record
	records = collectButtons(doc, records)
	records = collectInputs(doc, records)
	records = collectSelects(doc, records)
	records = collectLinks(doc, records)
	records = collectHeadings(doc, records)
	records = collectTextBlocks(doc, records)
	records = collectTableHeaders(doc, records)
	return records
}

// collectButtons handles <button> elements and button-like inputs
// (type=submit/button) in one pass. The subtype is matched in Go rather
// than in the selector so that the type attribute is compared
// case-insensitively, the way the DOM matches it.
func collectButtons(doc *goquery.Document, records []element.Record) []element.Record {
	doc.Find("button, input").Each(func(_ int, s *goquery.Selection) {
		if goquery.NodeName(s) == "button" {
			label := strings.TrimSpace(s.Text())
			if label == "" {
				label = "[button]"
			}
			records = appendRecord(records, s, "button", label)
			return
		}

		typ := inputType(s)
		if typ != "submit" && typ != "button" {
			return
		}
		label := strings.TrimSpace(s.AttrOr("value", ""))
		if label == "" {
			label = strings.TrimSpace(s.AttrOr("placeholder", ""))
		}
		if label == "" {
			label = "[" + typ + "]"
		}
		records = appendRecord(records, s, inputElementType(typ), label)
	})
	return records
}

// collectInputs handles every remaining <input>. Checkboxes and radios
// take their label from an associated <label for=...>; other inputs fall
// back to their placeholder.
func collectInputs(doc *goquery.Document, records []element.Record) []element.Record {
	doc.Find("input").Each(func(_ int, s *goquery.Selection) {
		typ := inputType(s)
		if typ == "submit" || typ == "button" {
			return // already covered by the button pass
		}

		var label string
		switch typ {
		case "checkbox", "radio":
			label = associatedLabel(doc, s)
		default:
			label = strings.TrimSpace(s.AttrOr("placeholder", ""))
		}
		if label == "" {
			label = "[" + typ + "]"
		}
		records = appendRecord(records, s, inputElementType(typ), label)
	})
	return records
}

// collectSelects labels a <select> via its associated label, else via the
// joined text of its options.
func collectSelects(doc *goquery.Document, records []element.Record) []element.Record {
	doc.Find("select").Each(func(_ int, s *goquery.Selection) {
		label := associatedLabel(doc, s)
		if label == "" {
			var options []string
			s.Find("option").Each(func(_ int, opt *goquery.Selection) {
				if text := strings.TrimSpace(opt.Text()); text != "" {
					options = append(options, text)
				}
			})
			label = truncate(strings.Join(options, ", "))
		}
		if label == "" {
			return
		}
		records = appendRecord(records, s, "select", label)
	})
	return records
}

// collectLinks records <a> elements that carry their own text. Links
// whose label would be the bare fallback are dropped.
func collectLinks(doc *goquery.Document, records []element.Record) []element.Record {
	doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		label := strings.TrimSpace(s.Text())
		if label == "" {
			label = "[link]"
		}
		if label == "[link]" {
			return
		}
		records = appendRecord(records, s, "a", label)
	})
	return records
}

func collectHeadings(doc *goquery.Document, records []element.Record) []element.Record {
	doc.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		label := truncate(strings.TrimSpace(s.Text()))
		if label == "" {
			return
		}
		records = appendRecord(records, s, goquery.NodeName(s), label)
	})
	return records
}

// collectTextBlocks records generic text containers (p, span, div,
// label). A container qualifies only when it has at least one direct
// text-bearing child, its combined text stays under the cutoff, and no
// descendant is matched by a dedicated pass. The pass can still emit
// overlapping rows for nested containers that each carry direct text;
// that overlap is accepted rather than deduplicated.
func collectTextBlocks(doc *goquery.Document, records []element.Record) []element.Record {
	doc.Find("p, span, div, label").Each(func(_ int, s *goquery.Selection) {
		if !hasDirectText(s) {
			return
		}
		text := strings.TrimSpace(s.Text())
		if text == "" || runeLen(text) >= maxGenericTextLen {
			return
		}
		if s.Find(interactiveSelector).Length() > 0 {
			return
		}
		records = appendRecord(records, s, goquery.NodeName(s), truncate(text))
	})
	return records
}

func collectTableHeaders(doc *goquery.Document, records []element.Record) []element.Record {
	doc.Find("th").Each(func(_ int, s *goquery.Selection) {
		label := truncate(strings.TrimSpace(s.Text()))
		if label == "" {
			return
		}
		records = appendRecord(records, s, "th", label)
	})
	return records
}

// appendRecord resolves the selector hint for the node and appends the
// finished record. Resolution always succeeds; nodes without id or class
// get the sentinel value and are filtered out later, at output time.
func appendRecord(records []element.Record, s *goquery.Selection, elemType, label string) []element.Record {
	kind, value := resolveSelector(s)
	return append(records, element.Record{
		ElementType:   elemType,
		TextContent:   label,
		SelectorKind:  kind,
		SelectorValue: value,
	})
}

// resolveSelector prefers a non-empty id, then a non-empty trimmed class
// string. The class string is kept verbatim, not split into class names.
func resolveSelector(s *goquery.Selection) (element.SelectorKind, string) {
	if id := s.AttrOr("id", ""); id != "" {
		return element.SelectorID, id
	}
	if class := strings.TrimSpace(s.AttrOr("class", "")); class != "" {
		return element.SelectorClass, class
	}
	return element.SelectorNone, element.NoSelectorValue
}

// inputType returns the lowercased input subtype, defaulting to "text"
// the way the DOM property does for inputs without a type attribute.
func inputType(s *goquery.Selection) string {
	typ := strings.ToLower(strings.TrimSpace(s.AttrOr("type", "")))
	if typ == "" {
		typ = "text"
	}
	return typ
}

func inputElementType(typ string) string {
	return fmt.Sprintf("input[type=%q]", typ)
}
