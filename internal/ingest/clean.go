package ingest

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	boldPattern          = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicPattern        = regexp.MustCompile(`\*(.*?)\*`)
	strikethroughPattern = regexp.MustCompile(`~~(.*?)~~`)
	superscriptPattern   = regexp.MustCompile(`\^(\w+)`)
	urlPattern           = regexp.MustCompile(`https?://\S+`)
	whitespacePattern    = regexp.MustCompile(`\s+`)
)

// CleanText 去除 HTML 标签、Markdown 强调与链接，并合并空白
func CleanText(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	if strings.ContainsAny(text, "<&") {
		text = stripHTML(text)
	}

	text = boldPattern.ReplaceAllString(text, "$1")
	text = italicPattern.ReplaceAllString(text, "$1")
	text = strikethroughPattern.ReplaceAllString(text, "$1")
	text = superscriptPattern.ReplaceAllString(text, "$1")
	text = urlPattern.ReplaceAllString(text, "")
	text = whitespacePattern.ReplaceAllString(text, " ")

	return strings.TrimSpace(text)
}

func stripHTML(text string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return text
	}

	doc.Find("script, style").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})

	// 块级元素之间补空格，避免相邻段落粘连
	doc.Find("p, div, br, li, h1, h2, h3, h4, h5, h6").Each(func(i int, s *goquery.Selection) {
		s.AppendHtml(" ")
	})

	return doc.Find("body").Text()
}
