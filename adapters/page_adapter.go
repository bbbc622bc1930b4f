package adapters

// PageAdapter exposes the host page's document state. The concrete browser
// (or webview) binding implements this; the collector only ever reads
// through it, so batching and capture logic stay host-agnostic.
type PageAdapter interface {
	// URL returns the current page URL.
	URL() string
	// Title returns the current document title.
	Title() string
	// Referrer returns the document referrer, empty when direct.
	Referrer() string
	// UserAgent returns the host user-agent string.
	UserAgent() string
	// QueryParam returns the named query parameter of the page URL,
	// empty when absent.
	QueryParam(name string) string
}

// StaticPageAdapter is a fixed-value PageAdapter for headless hosts and
// tests. Fields may be updated between occurrences to simulate navigation.
type StaticPageAdapter struct {
	PageURL      string
	PageTitle    string
	PageReferrer string
	Agent        string
	Params       map[string]string
}

var _ PageAdapter = (*StaticPageAdapter)(nil)

func (p *StaticPageAdapter) URL() string       { return p.PageURL }
func (p *StaticPageAdapter) Title() string     { return p.PageTitle }
func (p *StaticPageAdapter) Referrer() string  { return p.PageReferrer }
func (p *StaticPageAdapter) UserAgent() string { return p.Agent }

func (p *StaticPageAdapter) QueryParam(name string) string {
	return p.Params[name]
}
