package analyze

import (
	"fmt"
	"strings"

	"github.com/lendlens/lendlens/internal/core"
)

// Prompt text is business content, not orchestration. The engine only ever
// sees the rendered string.

var analysisPrompts = map[core.SourceKind]string{
	core.SourceKindReviews: `Analyze customer reviews for lending insights.

Reviews: %s

Provide:
1. Overall customer satisfaction score (1-10)
2. Key positive feedback themes
3. Key negative feedback themes
4. Business health indicators
5. Customer retention signals
6. Risk assessment for lenders`,

	core.SourceKindNews: `Analyze news content for company health and lending implications.

News: %s

Provide:
1. News sentiment (positive/negative/neutral)
2. Key developments affecting business
3. Financial implications
4. Market position changes
5. Risk factors for lenders
6. Recommended monitoring areas`,

	core.SourceKindSocial: `Analyze the sentiment of the following content about a company.
Focus on aspects relevant to lending decisions.

Content: %s

Provide:
1. Overall sentiment (positive/negative/neutral)
2. Key positive factors
3. Key negative factors
4. Risk indicators for lenders
5. Confidence level in assessment`,

	core.SourceKindWebsite: `Extract financial insights from the content.

Content: %s

Provide:
1. Financial performance indicators
2. Revenue/profit mentions
3. Debt/financing information
4. Growth signals
5. Risk factors
6. Creditworthiness indicators`,
}

// AnalysisPrompt renders the per-source analysis prompt. Unknown kinds fall
// back to the general sentiment prompt.
func AnalysisPrompt(kind core.SourceKind, content string) string {
	template, ok := analysisPrompts[kind]
	if !ok {
		template = analysisPrompts[core.SourceKindSocial]
	}
	return fmt.Sprintf(template, content)
}

// SummaryPrompt renders the per-subject assessment prompt over the full
// outcome set.
func SummaryPrompt(companyName, outcomesJSON string) string {
	return fmt.Sprintf(`Based on the following monitoring data for %s, provide a comprehensive lending assessment:

%s

Please provide:
1. Overall company health assessment
2. Key positive indicators
3. Key risk factors
4. Customer satisfaction insights
5. Market perception
6. Recommended lending terms
7. Monitoring recommendations`, companyName, outcomesJSON)
}

var researchPrompts = map[core.ResearchKind]string{
	core.ResearchKindFinancial: `Provide a financial snapshot of [Company Name] for a lending decision:
total revenue, net income, total assets and liabilities, cash position,
operating cash flow, EBITDA, debt-to-equity, current ratio, ROE and ROA.
Flag anything a lender should verify against filings.`,

	core.ResearchKindNews: `Summarize recent news sentiment around [Company Name]. Separate
positive and negative developments and note financial implications for a lender.`,

	core.ResearchKindIndustry: `Give an overview of the [Industry Name] industry: market conditions,
regulatory pressure, competitive dynamics, and how these affect lending risk
for companies operating in it.`,

	core.ResearchKindSEC: `Review recent SEC filings of [Company Name]. Highlight risk factor
changes, material events, related-party items and anything relevant to credit risk.`,

	core.ResearchKindCredit: `Assess the credit health of [Company Name]: payment history signals,
leverage, liquidity, and a Low/Medium/High risk rating with rationale.`,

	core.ResearchKindCompetitive: `Analyze the competitive position of [Company Name]: main
competitors, market share trends, pricing pressure and moat durability.`,

	core.ResearchKindManagement: `Assess the management team of [Company Name]: leadership
stability, governance quality and track record relevant to a lender.`,

	core.ResearchKindComprehensive: `Produce a comprehensive lending risk assessment of
[Company Name] covering financial health, industry risks, management risks
and operational risks, closing with a Low/Medium/High rating and suggested terms.`,
}

// ResearchPrompt renders the deep-research prompt for a subject, filling in
// the company or industry placeholder.
func ResearchPrompt(kind core.ResearchKind, subject core.Subject) (string, error) {
	template, ok := researchPrompts[kind]
	if !ok {
		return "", fmt.Errorf("unknown research kind: %s", kind)
	}

	if kind == core.ResearchKindIndustry {
		industry := strings.TrimSpace(subject.Industry)
		if industry == "" {
			industry = "general"
		}
		return strings.ReplaceAll(template, "[Industry Name]", industry), nil
	}
	return strings.ReplaceAll(template, "[Company Name]", subject.Name), nil
}
