// Package probe implements the per-source lookups that feed a subject
// report. A probe never raises past its boundary: whatever the fetch or
// analysis collaborators do, the caller always gets a settled ProbeOutcome.
package probe

import (
	"context"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/lendlens/lendlens/internal/core"
	"github.com/lendlens/lendlens/internal/core/fetch"
)

const excerptLimit = 500

// Analyzer turns raw source content into an assessment.
type Analyzer interface {
	AnalyzeContent(ctx context.Context, kind core.SourceKind, subject core.Subject, content string) (string, error)
}

// Probe performs one source lookup for one subject.
type Probe interface {
	// Probe runs the lookup. Failures are folded into the outcome.
	Probe(ctx context.Context, subject core.Subject) core.ProbeOutcome

	// Kind returns the source kind this probe covers.
	Kind() core.SourceKind
}

// Deps carries the collaborators shared by all probes.
type Deps struct {
	Fetcher  fetch.Fetcher
	Analyzer Analyzer

	// Timeout bounds one full probe, fetch and analysis included.
	Timeout time.Duration
}

// ForKind builds the probe covering the given source kind, or nil for an
// unknown kind.
func ForKind(kind core.SourceKind, deps Deps) Probe {
	switch kind {
	case core.SourceKindReviews:
		return &ReviewsProbe{Deps: deps}
	case core.SourceKindNews:
		return &NewsProbe{Deps: deps}
	case core.SourceKindSocial:
		return &SocialProbe{Deps: deps}
	case core.SourceKindWebsite:
		return &WebsiteProbe{Deps: deps}
	default:
		return nil
	}
}

// ForKinds builds probes for every requested kind, skipping unknown ones.
func ForKinds(kinds []core.SourceKind, deps Deps) []Probe {
	probes := make([]Probe, 0, len(kinds))
	for _, kind := range kinds {
		if p := ForKind(kind, deps); p != nil {
			probes = append(probes, p)
		}
	}
	return probes
}

// run fetches every candidate URL, concatenates what succeeded, and runs
// the analysis step. Only when every URL fails does the outcome carry an
// error. The probe's timeout covers the whole settle.
func (d Deps) run(ctx context.Context, kind core.SourceKind, label string, subject core.Subject, urls []string, rules fetch.ExtractionRules) core.ProbeOutcome {
	if d.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.Timeout)
		defer cancel()
	}

	outcome := core.ProbeOutcome{Kind: kind, Label: label}
	if len(urls) > 0 {
		outcome.URL = urls[0]
	}

	if d.Fetcher == nil {
		outcome.Err = "fetcher is not configured"
		return outcome
	}

	var (
		parts    []string
		firstErr string
	)
	for _, u := range urls {
		content, err := d.Fetcher.Fetch(ctx, u, rules)
		if err != nil {
			if firstErr == "" {
				firstErr = err.Error()
			}
			continue
		}
		parts = append(parts, content)
	}

	if len(parts) == 0 {
		if firstErr == "" {
			firstErr = "no content returned"
		}
		outcome.Err = firstErr
		return outcome
	}

	content := strings.Join(parts, "\n\n")
	outcome.Excerpt = excerpt(content)

	if d.Analyzer == nil {
		return outcome
	}
	analysis, err := d.Analyzer.AnalyzeContent(ctx, kind, subject, content)
	if err != nil {
		// Raw content survived; only the analysis step failed.
		outcome.Err = "analysis failed: " + err.Error()
		return outcome
	}
	outcome.Analysis = analysis
	return outcome
}

func excerpt(content string) string {
	if len(content) <= excerptLimit {
		return content
	}
	return truncateRunes(content, excerptLimit) + "..."
}

// truncateRunes cuts at most limit bytes without splitting a rune.
func truncateRunes(content string, limit int) string {
	for limit > 0 && !utf8.RuneStart(content[limit]) {
		limit--
	}
	return content[:limit]
}

func searchQuery(terms ...string) string {
	joined := strings.Join(terms, " ")
	return url.QueryEscape(strings.TrimSpace(joined))
}
