// ABOUTME: Content processing utilities for item bodies
// ABOUTME: Strips HTML for list snippets and converts HTML to Markdown for reading

package content

import (
	"regexp"
	"strings"
	"unicode/utf8"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"golang.org/x/net/html"
)

// htmlTagPattern matches common HTML tags
var htmlTagPattern = regexp.MustCompile(`<\s*(p|div|span|a|br|img|h[1-6]|ul|ol|li|table|tr|td|th|strong|em|b|i|code|pre|blockquote)[^>]*>`)

var spaceRun = regexp.MustCompile(`\s+`)

// blockTags break words apart when stripped; inline tags do not.
var blockTags = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "ul": true, "ol": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"tr": true, "td": true, "th": true, "blockquote": true, "pre": true,
	"img": true, "hr": true, "section": true, "article": true,
}

// IsHTML checks if content appears to be HTML
func IsHTML(content string) bool {
	if strings.Contains(content, "<!DOCTYPE") || strings.Contains(content, "<html") {
		return true
	}
	return htmlTagPattern.MatchString(content)
}

// ToMarkdown converts HTML content to Markdown.
// Content that doesn't look like HTML is returned unchanged.
func ToMarkdown(content string) string {
	if content == "" || !IsHTML(content) {
		return content
	}

	markdown, err := htmltomarkdown.ConvertString(content)
	if err != nil {
		return content
	}
	return strings.TrimSpace(markdown)
}

// StripHTML returns the text of an HTML fragment with tags removed and
// whitespace collapsed. Script and style bodies are dropped.
func StripHTML(content string) string {
	if content == "" {
		return ""
	}

	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(content))
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF or a malformed tail; either way keep what was read
			return strings.TrimSpace(spaceRun.ReplaceAllString(b.String(), " "))
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if isRawTextTag(name) {
				skip++
			}
			if blockTags[string(name)] {
				b.WriteByte(' ')
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if isRawTextTag(name) && skip > 0 {
				skip--
			}
			if blockTags[string(name)] {
				b.WriteByte(' ')
			}
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		}
	}
}

func isRawTextTag(name []byte) bool {
	s := string(name)
	return s == "script" || s == "style"
}

// Snippet returns at most n runes of the stripped body, with an ellipsis
// when it was cut.
func Snippet(content string, n int) string {
	text := StripHTML(content)
	if n <= 0 || utf8.RuneCountInString(text) <= n {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:n])) + "..."
}
