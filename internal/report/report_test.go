package report

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/hfabian-G/ElementToCsvTool/internal/element"
)

func sampleRecords() []element.Record {
	return []element.Record{
		{ElementType: "button", TextContent: "Submit", SelectorKind: element.SelectorID, SelectorValue: "submit-btn"},
		{ElementType: "a", TextContent: "Home", SelectorKind: element.SelectorClass, SelectorValue: "nav-link"},
		{ElementType: "p", TextContent: "orphan", SelectorKind: element.SelectorNone, SelectorValue: element.NoSelectorValue},
	}
}

func TestFilterAndCounts(t *testing.T) {
	rep := New(sampleRecords(), "Test Page", "http://example.com", time.Second)

	included, excluded := rep.Counts()
	if included != 2 || excluded != 1 {
		t.Fatalf("Counts() = %d, %d, want 2, 1", included, excluded)
	}
	for _, rec := range rep.Included() {
		if !rec.Locatable() {
			t.Errorf("filtered output contains unlocatable record %+v", rec)
		}
	}
}

func TestToCSV(t *testing.T) {
	rep := New(sampleRecords(), "Test Page", "http://example.com", time.Second)

	csv, err := rep.ToCSV()
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(csv, "\n")
	if lines[0] != "Element Type,Text Content,Selector Type,Selector Value" {
		t.Errorf("unexpected header: %q", lines[0])
	}
	if lines[1] != `"button","Submit","id","submit-btn"` {
		t.Errorf("unexpected first row: %q", lines[1])
	}
	// Two rows, header, trailing newline.
	if len(lines) != 4 || lines[3] != "" {
		t.Errorf("expected 3 newline-terminated lines, got %d: %q", len(lines), csv)
	}
	if strings.Contains(csv, "orphan") {
		t.Error("record without selector must not appear in CSV")
	}
}

func TestToCSVQuoting(t *testing.T) {
	records := []element.Record{
		{ElementType: "button", TextContent: `He said "go", now`, SelectorKind: element.SelectorID, SelectorValue: "b1"},
	}
	rep := New(records, "", "", 0)

	csv, err := rep.ToCSV()
	if err != nil {
		t.Fatal(err)
	}
	want := `"button","He said ""go"", now","id","b1"` + "\n"
	if !strings.HasSuffix(csv, want) {
		t.Errorf("quoting mismatch, got %q", csv)
	}
}

func TestToCSVIdempotent(t *testing.T) {
	rep := New(sampleRecords(), "Test Page", "http://example.com", time.Second)

	first, err := rep.ToCSV()
	if err != nil {
		t.Fatal(err)
	}
	second, err := rep.ToCSV()
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("rendering the same report twice must produce identical CSV")
	}
}

func TestToJSON(t *testing.T) {
	rep := New(sampleRecords(), "Test Page", "http://example.com", 1500*time.Millisecond)

	data, err := rep.ToJSON()
	if err != nil {
		t.Fatal(err)
	}

	var out struct {
		Title    string `json:"title"`
		URL      string `json:"url"`
		LoadTime int64  `json:"load_time"`
		Included int    `json:"included"`
		Excluded int    `json:"excluded"`
		Elements []struct {
			ElementType   string `json:"element_type"`
			SelectorType  string `json:"selector_type"`
			SelectorValue string `json:"selector_value"`
		} `json:"elements"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if out.Title != "Test Page" || out.LoadTime != 1500 {
		t.Errorf("unexpected metadata: %+v", out)
	}
	if out.Included != 2 || out.Excluded != 1 || len(out.Elements) != 2 {
		t.Errorf("unexpected counts: %+v", out)
	}
	if out.Elements[0].SelectorType != "id" || out.Elements[0].SelectorValue != "submit-btn" {
		t.Errorf("unexpected first element: %+v", out.Elements[0])
	}
}

func TestToMarkdown(t *testing.T) {
	rep := New(sampleRecords(), "Test Page", "http://example.com", time.Second)

	markdown, err := rep.ToMarkdown()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(markdown, "# Test Page\n") {
		t.Errorf("expected title heading, got %q", markdown)
	}
	if !strings.Contains(markdown, "| --- | --- | --- | --- |") {
		t.Error("missing separator row")
	}
	if !strings.Contains(markdown, "| button | Submit | id | submit-btn |") {
		t.Errorf("missing data row in %q", markdown)
	}
	if strings.Contains(markdown, "orphan") {
		t.Error("record without selector must not appear in markdown")
	}
}

func TestMarkdownEscapesDelimiter(t *testing.T) {
	records := []element.Record{
		{ElementType: "p", TextContent: "a | b", SelectorKind: element.SelectorID, SelectorValue: "x"},
	}
	rep := New(records, "", "", 0)

	markdown, err := rep.ToMarkdown()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(markdown, `a \| b`) {
		t.Errorf("pipe not escaped in %q", markdown)
	}
}

func TestRows(t *testing.T) {
	rep := New(sampleRecords(), "Test Page", "http://example.com", time.Second)

	rows := rep.Rows()
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "Element Type" {
		t.Errorf("unexpected header row: %v", rows[0])
	}
}

func TestFilename(t *testing.T) {
	date := time.Now().Format("2006-01-02")

	tests := []struct {
		title string
		want  string
	}{
		{"My Page! 2024", fmt.Sprintf("my_page__2024_elements_%s.csv", date)},
		{"Example", fmt.Sprintf("example_elements_%s.csv", date)},
		{"", fmt.Sprintf("webpage_elements_%s.csv", date)},
	}

	for _, tt := range tests {
		rep := New(nil, tt.title, "", 0)
		if got := rep.Filename(); got != tt.want {
			t.Errorf("Filename(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}
