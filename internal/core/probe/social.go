package probe

import (
	"context"

	"github.com/lendlens/lendlens/internal/core"
	"github.com/lendlens/lendlens/internal/core/fetch"
)

const socialLabel = "Social Media"

// SocialProbe looks up social media mentions of a subject. Most platforms
// resist scraping, so failures here are common and expected.
type SocialProbe struct {
	Deps
}

// Probe fetches social search pages and analyzes the mentions.
func (p *SocialProbe) Probe(ctx context.Context, subject core.Subject) core.ProbeOutcome {
	query := searchQuery(subject.Name)
	urls := []string{
		"https://twitter.com/search?q=" + query,
		"https://www.linkedin.com/search/results/companies/?keywords=" + query,
	}

	return p.run(ctx, core.SourceKindSocial, socialLabel, subject, urls, fetch.DefaultRules())
}

// Kind returns the source kind this probe covers.
func (p *SocialProbe) Kind() core.SourceKind {
	return core.SourceKindSocial
}
