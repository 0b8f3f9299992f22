package scrape

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// LinkEntry is one discoverable team page: the anchor's display label and
// its raw href.
type LinkEntry struct {
	Label string
	Href  string
}

// ExtractLinks returns every anchor nested in the rows of the target table,
// in document order. Duplicates are kept; they simply produce duplicate
// downstream fetches.
func ExtractLinks(doc *goquery.Document, sel Selector) ([]LinkEntry, error) {
	node := doc.Find(sel.String()).First()
	if node.Length() == 0 {
		return nil, fmt.Errorf("%w: selector %q", ErrTableNotFound, sel.String())
	}
	var links []LinkEntry
	node.Find("tr a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		links = append(links, LinkEntry{
			Label: strings.TrimSpace(a.Text()),
			Href:  href,
		})
	})
	return links, nil
}

// CodeExtractor pulls the fixed-width uppercase team code out of a link
// href, e.g. "ABC" from ".../compensation/?team=ABC".
type CodeExtractor struct {
	re *regexp.Regexp
}

// NewCodeExtractor compiles pattern, which must contain exactly one capture
// group holding the code.
func NewCodeExtractor(pattern string) (*CodeExtractor, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile team code pattern: %w", err)
	}
	if re.NumSubexp() != 1 {
		return nil, fmt.Errorf("team code pattern %q must have exactly one capture group", pattern)
	}
	return &CodeExtractor{re: re}, nil
}

// Extract returns the code embedded in href, or false when the href does
// not carry one.
func (c *CodeExtractor) Extract(href string) (string, bool) {
	m := c.re.FindStringSubmatch(href)
	if m == nil {
		return "", false
	}
	return m[1], true
}
