package tools

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/ledongthuc/pdf"
	"github.com/mmcdole/gofeed"
	"github.com/xuri/excelize/v2"
)

// PDFText extracts the plain text of the PDF at path, one page after another.
func PDFText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		content, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(content)
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String()), nil
}

// XLSXText reads the workbook at path and returns all cell values,
// tab-separated within a row, newline-separated between rows.
func XLSXText(path string) (string, error) {
	xf, err := excelize.OpenFile(path)
	if err != nil {
		return "", fmt.Errorf("open xlsx %s: %w", path, err)
	}
	defer xf.Close()

	var sb strings.Builder
	for _, sheet := range xf.GetSheetList() {
		rows, err := xf.GetRows(sheet)
		if err != nil {
			continue
		}
		for _, row := range rows {
			sb.WriteString(strings.Join(row, "\t"))
			sb.WriteString("\n")
		}
	}
	return strings.TrimSpace(sb.String()), nil
}

// HTMLText extracts the readable text of an HTML document, with script and
// style content removed and whitespace collapsed to single spaces.
func HTMLText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	doc.Find("script, style, noscript").Remove()
	return strings.Join(strings.Fields(doc.Text()), " "), nil
}

// FeedItem is one entry of a syndication feed.
type FeedItem struct {
	Title     string
	Link      string
	Published string
	Summary   string
}

// FetchFeed fetches and parses an RSS, Atom or JSON feed. maxItems caps the
// number of returned items; zero means all.
func FetchFeed(url string, maxItems int) ([]FeedItem, error) {
	fp := gofeed.NewParser()
	fp.Client = &http.Client{Timeout: requestTimeout}

	feed, err := fp.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", url, err)
	}

	var items []FeedItem
	for _, item := range feed.Items {
		if maxItems > 0 && len(items) >= maxItems {
			break
		}
		published := item.Published
		if item.PublishedParsed != nil {
			published = item.PublishedParsed.Format(time.RFC3339)
		}
		items = append(items, FeedItem{
			Title:     item.Title,
			Link:      item.Link,
			Published: published,
			Summary:   item.Description,
		})
	}
	return items, nil
}
