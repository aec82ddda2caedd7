package formatter

import "fmt"

// Content is anything that can render itself in the supported output
// formats.
type Content interface {
	ToCSV() (string, error)
	ToJSON() ([]byte, error)
	ToMarkdown() (string, error)
	ToText() (string, error)
}

func Format(content Content, format string) (string, error) {
	switch format {
	case "csv":
		return content.ToCSV()
	case "markdown":
		return content.ToMarkdown()
	case "text":
		return content.ToText()
	case "json":
		b, err := content.ToJSON()
		if err != nil {
			return "", err
		}
		return string(b), nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", format)
	}
}
