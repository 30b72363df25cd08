package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

const (
	centerOpen  = "-->"
	centerClose = "<--"

	classCenter = "center"
	classFAQ    = "faq"
)

// flavourTransformer walks the top-level blocks only.
type flavourTransformer struct{}

func (flavourTransformer) Transform(doc *ast.Document, reader text.Reader, _ parser.Context) {
	source := reader.Source()
	inFAQ := false

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		heading, isHeading := n.(*ast.Heading)
		_, isParagraph := n.(*ast.Paragraph)

		if isHeading || isParagraph {
			if trimCenterMarkers(n, source) {
				addClass(n, classCenter)
			}
		}
		if isHeading {
			inFAQ = strings.Contains(plainText(heading, source), "FAQ")
		}
		if inFAQ {
			addClass(n, classFAQ)
		}
	}
}

// trimCenterMarkers strips "-->" from the first and "<--" from the last text
// of n when both are present.
func trimCenterMarkers(n ast.Node, source []byte) bool {
	first, ok := n.FirstChild().(*ast.Text)
	if !ok {
		return false
	}
	last, ok := n.LastChild().(*ast.Text)
	if !ok {
		return false
	}
	if !bytes.HasPrefix(first.Segment.Value(source), []byte(centerOpen)) ||
		!bytes.HasSuffix(last.Segment.Value(source), []byte(centerClose)) {
		return false
	}
	if first == last && first.Segment.Len() < len(centerOpen)+len(centerClose) {
		return false
	}

	first.Segment = first.Segment.WithStart(first.Segment.Start + len(centerOpen))
	last.Segment = last.Segment.WithStop(last.Segment.Stop - len(centerClose))
	return true
}

func addClass(n ast.Node, class string) {
	if old, ok := n.AttributeString("class"); ok {
		if b, ok := old.([]byte); ok && len(b) > 0 {
			n.SetAttributeString("class", []byte(string(b)+" "+class))
			return
		}
	}
	n.SetAttributeString("class", []byte(class))
}

func plainText(n ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(source))
		case *ast.String:
			sb.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return sb.String()
}
