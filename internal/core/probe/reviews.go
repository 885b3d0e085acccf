package probe

import (
	"context"

	"github.com/lendlens/lendlens/internal/core"
	"github.com/lendlens/lendlens/internal/core/fetch"
)

const reviewsLabel = "Google Reviews"

// ReviewsProbe looks up customer reviews for a subject.
type ReviewsProbe struct {
	Deps
}

// Probe fetches the review search results and analyzes them for lending
// signals.
func (p *ReviewsProbe) Probe(ctx context.Context, subject core.Subject) core.ProbeOutcome {
	terms := []string{subject.Name, "reviews"}
	if subject.Location != "" {
		terms = append(terms, subject.Location)
	}
	searchURL := "https://www.google.com/search?q=" + searchQuery(terms...)

	rules := fetch.ExtractionRules{
		Extract:     "text",
		IncludeTags: []string{"div", "span", "p"},
		ExcludeTags: []string{"script", "style", "nav", "footer"},
		Selectors:   []string{".review-dialog", ".review-snippet", ".review-text"},
	}

	return p.run(ctx, core.SourceKindReviews, reviewsLabel, subject, []string{searchURL}, rules)
}

// Kind returns the source kind this probe covers.
func (p *ReviewsProbe) Kind() core.SourceKind {
	return core.SourceKindReviews
}
