package linkverify

// BrokenLink is one internal link that does not resolve.
type BrokenLink struct {
	Page      string `json:"page"`      // Output file containing the link
	URL       string `json:"url"`       // The link as written
	Tag       string `json:"tag"`       // HTML tag carrying the link
	Attribute string `json:"attribute"` // Attribute carrying the link
	Line      int    `json:"line"`      // Element ordinal in the page
	Reason    string `json:"reason"`    // Why the link is broken
}

// Result summarizes one verification run.
type Result struct {
	Pages   int          `json:"pages"`
	Links   int          `json:"links"`
	Skipped int          `json:"skipped"`
	Broken  []BrokenLink `json:"broken,omitempty"`
}

// OK reports whether every checked link resolved.
func (r *Result) OK() bool {
	return len(r.Broken) == 0
}
