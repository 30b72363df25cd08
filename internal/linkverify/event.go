package linkverify

// BrokenLink is a link that does not resolve inside the output tree.
type BrokenLink struct {
	// Page is the logical path of the page containing the link.
	Page      string `json:"page"`
	URL       string `json:"url"`
	Tag       string `json:"tag"`
	Attribute string `json:"attribute"`
	Line      int    `json:"line"`
	Reason    string `json:"reason"`
}

// Reasons reported for broken links.
const (
	ReasonMissing  = "target does not exist"
	ReasonEscapes  = "target is outside the output root"
	ReasonAbsolute = "absolute path is not relocatable"
)

// Report summarizes a verification run.
type Report struct {
	Pages  int          `json:"pages"`
	Links  int          `json:"links"`
	Broken []BrokenLink `json:"broken"`
}

// OK reports whether no broken link was found.
func (r Report) OK() bool { return len(r.Broken) == 0 }
