package linkverify

import (
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	"gitlab.com/nextmod/nextmod/internal/foundation/errors"
)

// Link represents an extracted link from HTML content.
type Link struct {
	URL       string // The URL or path
	Tag       string // HTML tag (a, img, script, link, source, etc.)
	Attribute string // Attribute containing the link (href, src, srcset)
	Line      int    // Approximate line number in HTML
}

// linkAttrs lists the link-carrying attributes per element.
var linkAttrs = map[string][]string{
	"a":      {"href"},
	"link":   {"href"},
	"img":    {"src", "srcset"},
	"script": {"src"},
	"source": {"src", "srcset"},
	"video":  {"src", "poster"},
	"audio":  {"src"},
}

// ExtractLinks extracts all links from an HTML file.
func ExtractLinks(htmlPath string) ([]Link, error) {
	file, err := os.Open(filepath.Clean(htmlPath))
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to open HTML file").WithSeverity(errors.SeverityError).WithContext("html_path", htmlPath).Build()
	}
	defer func() {
		_ = file.Close() // Ignore close errors on read-only operation
	}()

	return ExtractLinksFromReader(file)
}

// ExtractLinksFromReader extracts all links from an HTML reader.
func ExtractLinksFromReader(r io.Reader) ([]Link, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "failed to parse HTML").WithSeverity(errors.SeverityError).Build()
	}

	var links []Link
	var lineNum int

	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.ElementNode {
			lineNum++
			links = append(links, elementLinks(n, lineNum)...)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}

	extract(doc)
	return links, nil
}

func elementLinks(n *html.Node, lineNum int) []Link {
	var links []Link
	for _, attr := range linkAttrs[n.Data] {
		val := getAttr(n, attr)
		if val == "" {
			continue
		}
		urls := []string{val}
		if attr == "srcset" {
			urls = srcsetURLs(val)
		}
		for _, u := range urls {
			links = append(links, Link{URL: u, Tag: n.Data, Attribute: attr, Line: lineNum})
		}
	}
	return links
}

// srcsetURLs returns the URL of every image candidate of a srcset value.
func srcsetURLs(srcset string) []string {
	var urls []string
	for _, candidate := range strings.Split(srcset, ",") {
		if fields := strings.Fields(candidate); len(fields) > 0 {
			urls = append(urls, fields[0])
		}
	}
	return urls
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// ShouldVerifyLink reports whether link points into the site. Anchors,
// special schemes and external URLs are not checked.
func ShouldVerifyLink(link Link) bool {
	if link.URL == "" || strings.HasPrefix(link.URL, "#") {
		return false
	}
	for _, scheme := range []string{"mailto:", "tel:", "javascript:", "data:"} {
		if strings.HasPrefix(link.URL, scheme) {
			return false
		}
	}

	u, err := url.Parse(link.URL)
	if err != nil {
		return true
	}
	return u.Scheme == "" && u.Host == ""
}
