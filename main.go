package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/hfabian-G/ElementToCsvTool/internal/browser"
	"github.com/hfabian-G/ElementToCsvTool/internal/collector"
	"github.com/hfabian-G/ElementToCsvTool/internal/fetcher"
	"github.com/hfabian-G/ElementToCsvTool/internal/formatter"
	"github.com/hfabian-G/ElementToCsvTool/internal/report"
)

var version = "dev"

var (
	outputFormat string
	outputFile   string
	waitFor      string
	waitTarget   string
	timeout      time.Duration
	showUI       bool
	stealthMode  bool
	proxyURL     string
)

func main() {
	var rootCmd = &cobra.Command{
		Use:     "elemcsv [URL or HTML file]",
		Short:   "Extract page elements with selector hints into a CSV",
		Version: version,
		Long: `elemcsv loads a web page in a headless browser (or reads a saved HTML
file), collects its interactive and textual elements - buttons, inputs,
selects, links, headings, text blocks, table headers - and derives a
label and an id/class selector hint for each. The result is written as
CSV for building automated UI test selectors.`,
		Example: `  # Extract elements into <title>_elements_<date>.csv
  elemcsv https://example.com

  # Write to a specific file, format inferred from the extension
  elemcsv -o elements.json https://example.com

  # Wait for a selector before extracting
  elemcsv -w element -T "#app" https://example.com

  # Extract from a saved page, print a table to the terminal
  elemcsv -f table page.html`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				cmd.Help()
				os.Exit(0)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE:         run,
		SilenceUsage: true,
	}

	rootCmd.Flags().StringVarP(&outputFormat, "format", "f", "csv", "Output format (csv, json, markdown, text, table)")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file path (format inferred from extension if -f not specified)")
	rootCmd.Flags().StringVarP(&waitFor, "wait-for", "w", "load", "Wait strategy (load, element, time)")
	rootCmd.Flags().StringVarP(&waitTarget, "wait-target", "T", "", "Wait target (selector for 'element' strategy, milliseconds for 'time' strategy)")
	rootCmd.Flags().DurationVarP(&timeout, "timeout", "t", 30*time.Second, "Page load timeout duration")
	rootCmd.Flags().BoolVar(&showUI, "showui", false, "Show browser UI (disable headless mode)")
	rootCmd.Flags().BoolVar(&stealthMode, "stealth", false, "Create pages with anti-bot-detection patches")
	rootCmd.Flags().StringVarP(&proxyURL, "proxy", "p", os.Getenv("ELEMCSV_PROXY"), "Proxy URL (e.g. http://127.0.0.1:7890), defaults to ELEMCSV_PROXY env var")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	target := args[0]

	// If output file is specified but format is not, infer format from file extension
	if outputFile != "" && outputFormat == "csv" {
		inferredFormat := inferFormatFromExtension(outputFile)
		if inferredFormat != "" {
			outputFormat = inferredFormat
		}
	}

	if err := validateFlags(); err != nil {
		return err
	}

	result, err := loadTarget(target)
	if err != nil {
		return err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(result.HTML))
	if err != nil {
		return fmt.Errorf("failed to parse document: %w", err)
	}
	title := result.Title
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	records := collector.Collect(doc)
	rep := report.New(records, title, result.URL, result.LoadTime)

	if outputFormat == "table" {
		if err := pterm.DefaultTable.WithHasHeader(true).WithData(pterm.TableData(rep.Rows())).Render(); err != nil {
			return fmt.Errorf("failed to render table: %w", err)
		}
	} else {
		outputContent, err := formatter.Format(rep, outputFormat)
		if err != nil {
			return fmt.Errorf("failed to format output: %w", err)
		}

		dest := outputFile
		if dest == "" && outputFormat == "csv" {
			// No explicit output path: the CSV goes to the derived
			// <title>_elements_<date>.csv in the working directory.
			dest = rep.Filename()
		}
		if dest != "" {
			if err := os.WriteFile(dest, []byte(outputContent), 0644); err != nil {
				return fmt.Errorf("failed to write to file: %w", err)
			}
			pterm.Success.Printfln("Output written to: %s", dest)
		} else {
			fmt.Println(outputContent)
		}
	}

	included, excluded := rep.Counts()
	pterm.Info.Printfln("Exported %d elements with usable selectors", included)
	pterm.Info.Printfln("Skipped %d elements without id or class", excluded)

	return nil
}

// loadTarget produces a page snapshot either by reading a local HTML
// file or by rendering the URL in a headless browser.
func loadTarget(target string) (*fetcher.FetchResult, error) {
	if fi, err := os.Stat(target); err == nil && !fi.IsDir() {
		data, err := os.ReadFile(target)
		if err != nil {
			return nil, fmt.Errorf("failed to read file: %w", err)
		}
		return &fetcher.FetchResult{HTML: string(data), URL: target}, nil
	}

	target = normalizeURL(target)

	result, err := fetchURL(target, browser.Config{
		Headless: !showUI,
		Stealth:  stealthMode,
	})
	if err != nil {
		// If failed and proxy is available, retry with proxy
		if proxyURL != "" {
			fmt.Fprintf(os.Stderr, "Warning: First attempt failed: %v\n", err)
			fmt.Fprintf(os.Stderr, "Retrying with proxy: %s\n", proxyURL)
			result, err = fetchURL(target, browser.Config{
				Headless: !showUI,
				Stealth:  stealthMode,
				ProxyURL: proxyURL,
			})
			if err != nil {
				return nil, fmt.Errorf("failed to fetch page (even with proxy): %w", err)
			}
			fmt.Fprintf(os.Stderr, "Fetched successfully (with proxy: %s)\n", proxyURL)
		} else {
			return nil, fmt.Errorf("failed to fetch page: %w", err)
		}
	}

	return result, nil
}

func fetchURL(target string, cfg browser.Config) (*fetcher.FetchResult, error) {
	b, err := browser.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create browser: %w", err)
	}
	defer b.Close()

	f := fetcher.NewFetcher(b)
	return f.Fetch(target, fetcher.WaitStrategy(waitFor), waitTarget, timeout)
}

func validateFlags() error {
	validFormats := map[string]bool{
		"csv":      true,
		"json":     true,
		"markdown": true,
		"text":     true,
		"table":    true,
	}
	if !validFormats[outputFormat] {
		return fmt.Errorf("invalid output format: %s", outputFormat)
	}

	validStrategies := map[string]bool{
		"load":    true,
		"element": true,
		"time":    true,
	}
	if !validStrategies[waitFor] {
		return fmt.Errorf("invalid wait strategy: %s", waitFor)
	}

	if waitFor == "element" && waitTarget == "" {
		return fmt.Errorf("--wait-target is required when using 'element' wait strategy")
	}

	if waitFor == "time" && waitTarget == "" {
		return fmt.Errorf("--wait-target is required when using 'time' wait strategy")
	}

	return nil
}

// inferFormatFromExtension infers output format from file extension
func inferFormatFromExtension(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".csv":
		return "csv"
	case ".json":
		return "json"
	case ".md", ".markdown":
		return "markdown"
	case ".txt":
		return "text"
	default:
		return ""
	}
}

// normalizeURL normalizes URL, adds http:// if no protocol prefix
func normalizeURL(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return rawURL
	}
	if !strings.HasPrefix(strings.ToLower(rawURL), "http://") && !strings.HasPrefix(strings.ToLower(rawURL), "https://") {
		return "http://" + rawURL
	}
	return rawURL
}
