// Package sitepath addresses pages of the generated site and computes the
// relative links between them, so the emitted tree can be served from any
// location.
//
// Logical paths are slash separated and relative to the output root, for
// example "mw/red-castle/index.html".
package sitepath

import (
	"path"
	"strings"
)

// Ref is a link target. The set of implementations is closed.
type Ref interface {
	LogicalPath() string
	isRef()
}

// ItemRef addresses a mod page.
type ItemRef struct{ ID string }

// CategoryRef addresses a category listing.
type CategoryRef struct{ ID string }

// TagRef addresses a tag listing.
type TagRef struct{ ID string }

// CreatorRef addresses a creator listing.
type CreatorRef struct{ ID string }

// GroupRef addresses the overview page of one grouping axis.
type GroupRef struct{ GroupID string }

// GroupEntryRef addresses the listing of one entry of a grouping axis.
type GroupEntryRef struct{ GroupID, EntryID string }

// RawPath addresses an arbitrary logical path such as an image or a sort variant.
type RawPath struct{ Path string }

func (r ItemRef) LogicalPath() string     { return path.Join(ItemDir(r.ID), IndexPage) }
func (r CategoryRef) LogicalPath() string { return GroupEntryRef{"category", r.ID}.LogicalPath() }
func (r TagRef) LogicalPath() string      { return GroupEntryRef{"tag", r.ID}.LogicalPath() }
func (r CreatorRef) LogicalPath() string  { return GroupEntryRef{"creator", r.ID}.LogicalPath() }
func (r GroupRef) LogicalPath() string    { return path.Join(r.GroupID, IndexPage) }
func (r GroupEntryRef) LogicalPath() string {
	return path.Join(r.GroupID, r.EntryID, IndexPage)
}
func (r RawPath) LogicalPath() string { return Clean(r.Path) }

func (ItemRef) isRef()       {}
func (CategoryRef) isRef()   {}
func (TagRef) isRef()        {}
func (CreatorRef) isRef()    {}
func (GroupRef) isRef()      {}
func (GroupEntryRef) isRef() {}
func (RawPath) isRef()       {}

// IndexPage is the file name of every directory's landing page.
const IndexPage = "index.html"

// ItemDir is the directory holding a mod's page, page files and images.
func ItemDir(id string) string { return path.Join("mw", id) }

// Clean normalizes a logical path: slash separated, no leading slash.
// Parent segments that climb above the root are kept so the output sandbox can reject them.
func Clean(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	return path.Clean(strings.TrimLeft(p, "/"))
}

// Relative computes the link from the page at current to target, both logical
// paths. The result climbs one ".." per directory of current that target does
// not share, or starts with "." when no climb is needed.
func Relative(current, target string) string {
	curDirs := dirs(current)
	tgtParts := split(target)
	tgtDirs := tgtParts[:max(len(tgtParts)-1, 0)]

	i := 0
	for i < len(curDirs) && i < len(tgtDirs) && curDirs[i] == tgtDirs[i] {
		i++
	}

	out := make([]string, 0, len(curDirs)-i+len(tgtParts)-i+1)
	if up := len(curDirs) - i; up > 0 {
		for range up {
			out = append(out, "..")
		}
	} else {
		out = append(out, ".")
	}
	out = append(out, tgtParts[i:]...)
	return strings.Join(out, "/")
}

func split(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" || p == "." {
		return nil
	}
	return strings.Split(p, "/")
}

func dirs(p string) []string {
	parts := split(p)
	if len(parts) == 0 {
		return nil
	}
	return parts[:len(parts)-1]
}

// Resolver computes links for the single page being rendered. It is a value
// passed into each render call, never shared between renders.
type Resolver struct {
	Current string
}

// For returns a resolver for the page at current.
func For(current string) Resolver { return Resolver{Current: current} }

// Ref returns the relative link to r.
func (r Resolver) Ref(target Ref) string {
	return Relative(r.Current, target.LogicalPath())
}

// Path returns the relative link to a raw logical path.
func (r Resolver) Path(logical string) string {
	return Relative(r.Current, Clean(logical))
}

// Root returns the relative link to the site root directory.
func (r Resolver) Root() string {
	d := len(dirs(r.Current))
	if d == 0 {
		return "."
	}
	return strings.TrimSuffix(strings.Repeat("../", d), "/")
}
