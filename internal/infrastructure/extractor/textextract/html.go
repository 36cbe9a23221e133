package textextract

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/kirillkom/petition-assistant/internal/core/domain"
	"golang.org/x/net/html/charset"
)

const noiseSelector = "nav, footer, header, aside, script, style, noscript, form, iframe, .ad, .ads, .advertisement, .sidebar, .cookie-banner, .popup"

var contentSelectors = []string{
	"main",
	"article",
	"[role='main']",
	".content",
	"#content",
	".main-content",
	"#main-content",
}

func extractHTML(body io.Reader, declaredType string) domain.ExtractedDocument {
	utf8Body, err := charset.NewReader(body, declaredType)
	if err != nil {
		return domain.FailedExtraction(domain.SourceHTML, fmt.Errorf("detect charset: %w", err))
	}
	doc, err := goquery.NewDocumentFromReader(utf8Body)
	if err != nil {
		return domain.FailedExtraction(domain.SourceHTML, fmt.Errorf("parse html: %w", err))
	}

	title := firstNonEmpty(
		doc.Find("head title").First().Text(),
		metaContent(doc, `meta[property="og:title"]`),
		doc.Find("h1").First().Text(),
	)
	author := firstNonEmpty(
		metaContent(doc, `meta[name="author"]`),
		metaContent(doc, `meta[property="article:author"]`),
	)
	date := firstNonEmpty(
		metaContent(doc, `meta[property="article:published_time"]`),
		metaContent(doc, `meta[name="date"]`),
		attr(doc.Find("time[datetime]").First(), "datetime"),
	)

	doc.Find(noiseSelector).Remove()

	var main *goquery.Selection
	for _, selector := range contentSelectors {
		if sel := doc.Find(selector); sel.Length() > 0 {
			main = sel.First()
			break
		}
	}
	if main == nil {
		main = doc.Find("body")
	}
	text := cleanWhitespace(main.Text())

	metadata := map[string]any{}
	if title != "" {
		metadata["title"] = title
		text = title + "\n\n" + text
	}
	if author != "" {
		metadata["author"] = author
	}
	if date != "" {
		metadata["date"] = date
	}
	return domain.NewExtracted(domain.SourceHTML, strings.TrimSpace(text), metadata)
}

func metaContent(doc *goquery.Document, selector string) string {
	return attr(doc.Find(selector).First(), "content")
}

func attr(sel *goquery.Selection, name string) string {
	v, _ := sel.Attr(name)
	return strings.TrimSpace(v)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func cleanWhitespace(text string) string {
	var cleaned []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
