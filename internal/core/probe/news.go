package probe

import (
	"context"
	"strings"

	"github.com/lendlens/lendlens/internal/core"
	"github.com/lendlens/lendlens/internal/core/fetch"
)

const newsLabel = "News Sources"

// NewsProbe looks up recent news coverage for a subject across several
// outlets. Content from whichever outlets respond is merged; the probe only
// fails when none do.
type NewsProbe struct {
	Deps
}

// Probe fetches news search results and analyzes them.
func (p *NewsProbe) Probe(ctx context.Context, subject core.Subject) core.ProbeOutcome {
	query := searchQuery(subject.Name)
	urls := []string{
		"https://news.google.com/search?q=" + query,
		"https://finance.yahoo.com/quote/" + strings.ReplaceAll(subject.Name, " ", ""),
		"https://www.reuters.com/site-search/?query=" + query,
	}

	return p.run(ctx, core.SourceKindNews, newsLabel, subject, urls, fetch.DefaultRules())
}

// Kind returns the source kind this probe covers.
func (p *NewsProbe) Kind() core.SourceKind {
	return core.SourceKindNews
}
