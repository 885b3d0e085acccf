package fetch

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ExtractText reduces an HTML document to readable text honoring the
// include/exclude tag rules. Excluded subtrees are removed before the
// included tags are walked, so navigation and script noise never leaks
// into the excerpt.
func ExtractText(html string, rules ExtractionRules) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}

	for _, tag := range rules.ExcludeTags {
		doc.Find(tag).Remove()
	}

	include := rules.IncludeTags
	if len(include) == 0 {
		include = []string{"p"}
	}

	seen := make(map[string]struct{})
	parts := make([]string, 0)
	doc.Find(strings.Join(include, ",")).Each(func(_ int, sel *goquery.Selection) {
		// Skip container nodes whose text is just their children's text
		// repeated; only leaf-ish nodes contribute.
		if sel.Children().Length() > 0 {
			return
		}
		text := strings.TrimSpace(sel.Text())
		if text == "" {
			return
		}
		if _, dup := seen[text]; dup {
			return
		}
		seen[text] = struct{}{}
		parts = append(parts, text)
	})

	return strings.Join(parts, "\n"), nil
}
