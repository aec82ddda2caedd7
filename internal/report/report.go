package report

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/hfabian-G/ElementToCsvTool/internal/element"
)

// csvHeader is the fixed CSV header row.
const csvHeader = "Element Type,Text Content,Selector Type,Selector Value"

// Report holds the collected records together with page metadata. Records
// without a usable selector stay in the report (they are counted) but are
// excluded from every rendered output.
type Report struct {
	records  []element.Record
	title    string
	url      string
	loadTime time.Duration
}

// New creates a Report over the collected records.
func New(records []element.Record, title, url string, loadTime time.Duration) *Report {
	return &Report{
		records:  records,
		title:    title,
		url:      url,
		loadTime: loadTime,
	}
}

// Included returns the records that survive the selector filter, in
// collection order.
func (r *Report) Included() []element.Record {
	included := make([]element.Record, 0, len(r.records))
	for _, rec := range r.records {
		if rec.Locatable() {
			included = append(included, rec)
		}
	}
	return included
}

// Counts returns how many records are included in the output and how
// many were collected but dropped for lacking an id or class.
func (r *Report) Counts() (included, excluded int) {
	included = len(r.Included())
	return included, len(r.records) - included
}

// ToCSV renders the filtered records as CSV: the fixed header row, then
// one row per record with every field double-quoted and inner quotes
// doubled, each row terminated by a newline.
func (r *Report) ToCSV() (string, error) {
	var b strings.Builder
	b.WriteString(csvHeader)
	b.WriteString("\n")
	for _, rec := range r.Included() {
		fields := []string{rec.ElementType, rec.TextContent, string(rec.SelectorKind), rec.SelectorValue}
		for i, f := range fields {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(csvQuote(f))
		}
		b.WriteString("\n")
	}
	return b.String(), nil
}

// csvQuote wraps a field in double quotes, doubling any quotes inside.
// encoding/csv is not used here because it only quotes fields that need
// it, while the output format quotes every field unconditionally.
func csvQuote(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

// ToJSON renders the report with page metadata and both counts.
func (r *Report) ToJSON() ([]byte, error) {
	type jsonRecord struct {
		ElementType   string `json:"element_type"`
		TextContent   string `json:"text_content"`
		SelectorType  string `json:"selector_type"`
		SelectorValue string `json:"selector_value"`
	}

	type jsonOutput struct {
		Title    string       `json:"title"`
		URL      string       `json:"url"`
		LoadTime int64        `json:"load_time"`
		Included int          `json:"included"`
		Excluded int          `json:"excluded"`
		Elements []jsonRecord `json:"elements"`
	}

	included, excluded := r.Counts()
	output := jsonOutput{
		Title:    r.title,
		URL:      r.url,
		LoadTime: r.loadTime.Milliseconds(),
		Included: included,
		Excluded: excluded,
		Elements: make([]jsonRecord, 0, included),
	}
	for _, rec := range r.Included() {
		output.Elements = append(output.Elements, jsonRecord{
			ElementType:   rec.ElementType,
			TextContent:   rec.TextContent,
			SelectorType:  string(rec.SelectorKind),
			SelectorValue: rec.SelectorValue,
		})
	}

	return json.MarshalIndent(output, "", "  ")
}

// ToMarkdown renders the filtered records as a Markdown table, preceded
// by the page title when one is known.
func (r *Report) ToMarkdown() (string, error) {
	var builder strings.Builder
	if r.title != "" {
		builder.WriteString("# ")
		builder.WriteString(r.title)
		builder.WriteString("\n\n")
	}

	headers := []string{"Element Type", "Text Content", "Selector Type", "Selector Value"}

	builder.WriteString("| ")
	for j, hdr := range headers {
		if j > 0 {
			builder.WriteString(" | ")
		}
		builder.WriteString(hdr)
	}
	builder.WriteString(" |\n")

	builder.WriteString("| ")
	for j := range headers {
		if j > 0 {
			builder.WriteString(" | ")
		}
		builder.WriteString("---")
	}
	builder.WriteString(" |\n")

	for _, rec := range r.Included() {
		cells := []string{rec.ElementType, mdEscape(rec.TextContent), string(rec.SelectorKind), mdEscape(rec.SelectorValue)}
		builder.WriteString("| ")
		for k, cell := range cells {
			if k > 0 {
				builder.WriteString(" | ")
			}
			builder.WriteString(cell)
		}
		builder.WriteString(" |\n")
	}

	return builder.String(), nil
}

// mdEscape keeps table cells on one line and protects the column
// delimiter.
func mdEscape(cell string) string {
	cell = strings.ReplaceAll(cell, "|", `\|`)
	cell = strings.ReplaceAll(cell, "\n", " ")
	return cell
}

// ToText renders one plain line per record.
func (r *Report) ToText() (string, error) {
	var b strings.Builder
	for _, rec := range r.Included() {
		fmt.Fprintf(&b, "%s\t%s=%s\t%s\n", rec.ElementType, rec.SelectorKind, rec.SelectorValue, rec.TextContent)
	}
	return b.String(), nil
}

// Rows returns the header and filtered records as string rows for
// terminal table rendering.
func (r *Report) Rows() [][]string {
	rows := [][]string{{"Element Type", "Text Content", "Selector Type", "Selector Value"}}
	for _, rec := range r.Included() {
		rows = append(rows, []string{rec.ElementType, rec.TextContent, string(rec.SelectorKind), rec.SelectorValue})
	}
	return rows
}

var nonAlnum = regexp.MustCompile(`[^a-zA-Z0-9]`)

// Filename derives the default CSV filename from the page title:
// non-alphanumeric characters become underscores, lowercased, with
// "webpage" standing in for an empty title, plus the current date.
func (r *Report) Filename() string {
	name := strings.ToLower(nonAlnum.ReplaceAllString(r.title, "_"))
	if name == "" {
		name = "webpage"
	}
	return fmt.Sprintf("%s_elements_%s.csv", name, time.Now().Format("2006-01-02"))
}
