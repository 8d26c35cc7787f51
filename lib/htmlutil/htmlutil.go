package htmlutil

import (
	"bytes"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

var innerWhitespace = regexp.MustCompile(`\s+`)

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) || unicode.IsSpace(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// Normalize does the same as XPath's normalize-space() and drops non-printable runes.
// Like normalize-space(), it only folds ASCII whitespace, an inner U+00A0 is kept.
func Normalize(text string) string {
	text = removeNonPrintable(text)
	text = innerWhitespace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// ParseDocument parses a serialized page.
func ParseDocument(page string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(page))
}

// FirstValue returns the value of the first node matching the css selector, empty if
// nothing matches. Nodes without a value attribute give their normalized text.
func FirstValue(doc *goquery.Document, selector string) string {
	sel := doc.Find(selector).First()
	if len(sel.Nodes) == 0 {
		return ""
	}
	if value, ok := sel.Attr("value"); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return Normalize(GetText(sel.Nodes[0]))
}
