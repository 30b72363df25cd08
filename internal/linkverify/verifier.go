package linkverify

import (
	"context"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"gitlab.com/nextmod/nextmod/internal/foundation/errors"
	"gitlab.com/nextmod/nextmod/internal/logfields"
)

// Verifier checks the links of every HTML page below an output root.
type Verifier struct {
	root    string
	pageSem chan struct{}
}

// NewVerifier creates a verifier for root. Pages are checked with at most
// concurrency workers.
func NewVerifier(root string, concurrency int) *Verifier {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &Verifier{root: root, pageSem: make(chan struct{}, concurrency)}
}

type pageResult struct {
	links  int
	broken []BrokenLink
	err    error
}

// Verify walks the output tree and checks every page. A page that cannot be
// read fails the run; broken links are only reported.
func (v *Verifier) Verify(ctx context.Context) (Report, error) {
	pages, err := v.pages()
	if err != nil {
		return Report{}, err
	}
	slog.Info("Starting link verification", logfields.Path(v.root), logfields.Count(len(pages)))

	results := make([]pageResult, len(pages))
	var wg sync.WaitGroup
	for i, page := range pages {
		select {
		case <-ctx.Done():
			wg.Wait()
			return Report{}, ctx.Err()
		case v.pageSem <- struct{}{}:
		}
		wg.Add(1)
		go func(i int, page string) {
			defer wg.Done()
			defer func() { <-v.pageSem }()
			results[i] = v.verifyPage(page)
		}(i, page)
	}
	wg.Wait()

	report := Report{Pages: len(pages)}
	for _, r := range results {
		if r.err != nil {
			return Report{}, r.err
		}
		report.Links += r.links
		report.Broken = append(report.Broken, r.broken...)
	}

	for _, b := range report.Broken {
		slog.Warn("Broken link", logfields.Path(b.Page), logfields.URL(b.URL), slog.String("reason", b.Reason))
	}
	slog.Info("Link verification completed",
		slog.Int("pages", report.Pages), slog.Int("links", report.Links), slog.Int("broken", len(report.Broken)))
	return report, nil
}

// pages lists the logical paths of all HTML files, sorted.
func (v *Verifier) pages() ([]string, error) {
	var pages []string
	err := filepath.WalkDir(v.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(p), ".html") {
			return nil
		}
		rel, err := filepath.Rel(v.root, p)
		if err != nil {
			return err
		}
		pages = append(pages, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to walk output directory").
			WithSeverity(errors.SeverityFatal).
			WithContext("root", v.root).
			Build()
	}
	slices.Sort(pages)
	return pages, nil
}

func (v *Verifier) verifyPage(page string) pageResult {
	links, err := ExtractLinks(filepath.Join(v.root, filepath.FromSlash(page)))
	if err != nil {
		return pageResult{err: err}
	}

	var res pageResult
	for _, link := range links {
		if !ShouldVerifyLink(link) {
			continue
		}
		res.links++
		if reason := v.check(page, link.URL); reason != "" {
			res.broken = append(res.broken, BrokenLink{
				Page:      page,
				URL:       link.URL,
				Tag:       link.Tag,
				Attribute: link.Attribute,
				Line:      link.Line,
				Reason:    reason,
			})
		}
	}
	return res
}

// check resolves target relative to page and returns why it is broken, or "".
func (v *Verifier) check(page, target string) string {
	u, err := url.Parse(target)
	if err != nil {
		return ReasonMissing
	}
	if strings.HasPrefix(u.Path, "/") {
		return ReasonAbsolute
	}
	if u.Path == "" {
		return ""
	}

	logical := path.Join(path.Dir(page), u.Path)
	if logical == ".." || strings.HasPrefix(logical, "../") {
		return ReasonEscapes
	}

	p := filepath.Join(v.root, filepath.FromSlash(logical))
	info, err := os.Stat(p)
	if err != nil {
		return ReasonMissing
	}
	if info.IsDir() {
		if _, err := os.Stat(filepath.Join(p, "index.html")); err != nil {
			return ReasonMissing
		}
	}
	return ""
}
