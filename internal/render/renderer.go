package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gitlab.com/nextmod/nextmod/internal/foundation/errors"
	"gitlab.com/nextmod/nextmod/internal/logfields"
	"gitlab.com/nextmod/nextmod/internal/sitepath"
)

// Page template names.
const (
	TemplateIndex = "index.html"
	TemplateGroup = "group.html"
	TemplateMod   = "mod.html"
	TemplateAbout = "about.html"

	baseTemplate = "base.html"
)

var pageTemplates = []string{TemplateIndex, TemplateGroup, TemplateMod, TemplateAbout}

// Page identifies one rendered page: the template and its logical output path.
type Page struct {
	Template string
	Output   string
}

// Data is the named values passed to a template.
type Data map[string]any

// Renderer produces the bytes of a page.
type Renderer interface {
	Render(page Page, data Data) ([]byte, error)
}

//go:embed templates/*.html
var embeddedTemplates embed.FS

// HTMLRenderer renders pages with html/template.
type HTMLRenderer struct {
	templates map[string]*template.Template
}

// NewHTMLRenderer parses the page templates. A file in overrideDir with the
// name of a template replaces the embedded one; an empty overrideDir uses the
// embedded templates only.
func NewHTMLRenderer(overrideDir string) (*HTMLRenderer, error) {
	base, err := loadTemplate(overrideDir, baseTemplate)
	if err != nil {
		return nil, err
	}

	r := &HTMLRenderer{templates: make(map[string]*template.Template, len(pageTemplates))}
	for _, name := range pageTemplates {
		body, err := loadTemplate(overrideDir, name)
		if err != nil {
			return nil, err
		}
		t, err := template.New(name).Funcs(funcs(sitepath.Resolver{})).Parse(base)
		if err == nil {
			t, err = t.Parse(body)
		}
		if err != nil {
			return nil, errors.RenderError("failed to parse template").
				WithCause(err).
				WithContext("template", name).
				Fatal().
				Build()
		}
		r.templates[name] = t
	}
	return r, nil
}

func loadTemplate(overrideDir, name string) (string, error) {
	if overrideDir != "" {
		p := filepath.Join(overrideDir, name)
		// #nosec G304 - name is one of the fixed template names
		b, err := os.ReadFile(p)
		if err == nil {
			slog.Debug("Loaded template override", logfields.File(name), logfields.Path(p))
			return string(b), nil
		}
		if !os.IsNotExist(err) {
			return "", errors.RenderError("failed to read template override").
				WithCause(err).
				WithContext("path", p).
				Fatal().
				Build()
		}
	}
	b, err := embeddedTemplates.ReadFile("templates/" + name)
	if err != nil {
		return "", errors.InternalError("embedded template missing").
			WithCause(err).
			WithContext("template", name).
			Fatal().
			Build()
	}
	return string(b), nil
}

// Render executes page.Template with links resolved relative to page.Output.
func (r *HTMLRenderer) Render(page Page, data Data) ([]byte, error) {
	t, ok := r.templates[page.Template]
	if !ok {
		return nil, errors.RenderError("unknown template").
			WithContext("template", page.Template).
			Build()
	}

	t, err := t.Clone()
	if err != nil {
		return nil, errors.RenderError("failed to clone template").WithCause(err).Build()
	}
	t.Funcs(funcs(sitepath.For(page.Output)))

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", data); err != nil {
		return nil, errors.RenderError("failed to render page").
			WithCause(err).
			WithContext("template", page.Template).
			WithContext("output", page.Output).
			Build()
	}
	return buf.Bytes(), nil
}

// referer is implemented by everything a page links to.
type referer interface {
	Ref() sitepath.Ref
}

func funcs(res sitepath.Resolver) template.FuncMap {
	return template.FuncMap{
		"human_bytes": HumanBytes,
		"indent":      Indent,
		"ref": func(target any) (string, error) {
			switch t := target.(type) {
			case sitepath.Ref:
				return res.Ref(t), nil
			case referer:
				return res.Ref(t.Ref()), nil
			default:
				return "", errors.RenderError("value has no page").
					WithContext("type", fmt.Sprintf("%T", target)).
					Build()
			}
		},
		"path": res.Path,
		"root": res.Root,
	}
}

// Indent prefixes every line of s after the first with depth tabs. A final
// newline is dropped.
func Indent(depth int, s template.HTML) template.HTML {
	lines := strings.Split(strings.TrimSuffix(string(s), "\n"), "\n")
	return template.HTML(strings.Join(lines, "\n"+strings.Repeat("\t", depth))) // #nosec G203 - s is already HTML
}

var _ Renderer = (*HTMLRenderer)(nil)
