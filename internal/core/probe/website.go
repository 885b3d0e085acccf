package probe

import (
	"context"
	"strings"

	"github.com/lendlens/lendlens/internal/core"
	"github.com/lendlens/lendlens/internal/core/fetch"
)

const websiteLabel = "Company Website"

// WebsiteProbe looks at the subject's own website for financial signals.
type WebsiteProbe struct {
	Deps
}

// Probe fetches the company site and analyzes it. When the subject carries
// no website, a www.<name>.com guess is tried.
func (p *WebsiteProbe) Probe(ctx context.Context, subject core.Subject) core.ProbeOutcome {
	siteURL := strings.TrimSpace(subject.Website)
	if siteURL == "" {
		siteURL = guessWebsite(subject.Name)
	}

	return p.run(ctx, core.SourceKindWebsite, websiteLabel, subject, []string{siteURL}, fetch.DefaultRules())
}

// Kind returns the source kind this probe covers.
func (p *WebsiteProbe) Kind() core.SourceKind {
	return core.SourceKindWebsite
}

func guessWebsite(name string) string {
	slug := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", ""))
	return "https://www." + slug + ".com"
}
