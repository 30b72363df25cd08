package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"

	"gitlab.com/nextmod/nextmod/internal/foundation/errors"
)

// Options controls the conversion.
type Options struct {
	// Flavour enables hard wraps and the nextmod block classes.
	Flavour bool
}

// Converter renders markdown to HTML. It is safe for concurrent use.
type Converter struct {
	md goldmark.Markdown
}

// New creates a converter. Raw HTML in the source is passed through.
func New(opts Options) *Converter {
	rendererOpts := []goldmark.Option{
		goldmark.WithRendererOptions(html.WithUnsafe()),
	}
	if opts.Flavour {
		rendererOpts = append(rendererOpts,
			goldmark.WithRendererOptions(html.WithHardWraps()),
			goldmark.WithParserOptions(parser.WithASTTransformers(
				util.Prioritized(flavourTransformer{}, 500),
			)),
		)
	}
	return &Converter{md: goldmark.New(rendererOpts...)}
}

// Convert renders source to HTML. Nil source renders nothing.
func (c *Converter) Convert(source []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.md.Convert(source, &buf); err != nil {
		return nil, errors.RenderError("failed to convert markdown").WithCause(err).Build()
	}
	return buf.Bytes(), nil
}

var (
	plain   = New(Options{})
	flavour = New(Options{Flavour: true})
)

// Plain renders source without the flavour.
func Plain(source []byte) ([]byte, error) { return plain.Convert(source) }

// Page renders an item page body with the flavour.
func Page(source []byte) ([]byte, error) { return flavour.Convert(source) }
