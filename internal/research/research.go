// Package research finds recent public signals about a company via web search
// and condenses them with the LLM. It supplements the page-scrape brief with
// news the homepage does not show (hiring, press coverage, social posts).
package research

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"

	"github.com/jonathan/marketing-intel/internal/llm"
	"github.com/jonathan/marketing-intel/internal/prompts"
)

// resultsPerQuery bounds how many hits each query contributes.
const resultsPerQuery = 3

// Snippet is one search hit used as summarization input.
type Snippet struct {
	Title string
	Link  string
	Text  string
}

// Update is a summarized set of recent findings about a company.
type Update struct {
	Company     string    `json:"company"`
	SummaryText string    `json:"summary_text"`
	SourceURL   string    `json:"source_url"`
	FoundAt     time.Time `json:"found_at"`
}

// searchFunc runs one query and returns its top snippets.
type searchFunc func(ctx context.Context, query string) ([]Snippet, error)

// Researcher runs company-update searches and summarizes the results.
type Researcher struct {
	search searchFunc
	client llm.Client
}

// NewResearcher creates a researcher backed by Google Custom Search.
func NewResearcher(ctx context.Context, apiKey, cx string, client llm.Client) (*Researcher, error) {
	svc, err := customsearch.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create customsearch service: %w", err)
	}

	search := func(ctx context.Context, query string) ([]Snippet, error) {
		resp, err := svc.Cse.List().Cx(cx).Q(query).Num(resultsPerQuery).Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("search failed: %w", err)
		}
		snippets := make([]Snippet, 0, len(resp.Items))
		for _, item := range resp.Items {
			snippets = append(snippets, Snippet{
				Title: item.Title,
				Link:  item.Link,
				Text:  item.Snippet,
			})
		}
		return snippets, nil
	}

	return &Researcher{search: search, client: client}, nil
}

// updateQueries builds the query set for one company.
func updateQueries(company, domain string) []string {
	slug := strings.SplitN(domain, ".", 2)[0]
	return []string{
		fmt.Sprintf("site:linkedin.com/company/%s recent posts", slug),
		fmt.Sprintf("%s %s news press release %d", company, domain, time.Now().Year()),
		fmt.Sprintf("%s blog updates", company),
	}
}

// CompanyUpdates searches for recent public updates about a company and
// summarizes what it finds. Failed individual queries are skipped; the call
// errors only when no query produced snippets or the summarization fails.
func (r *Researcher) CompanyUpdates(ctx context.Context, company, domain string) (*Update, error) {
	queries := updateQueries(company, domain)
	perQuery := make([][]Snippet, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	for i, q := range queries {
		g.Go(func() error {
			snippets, err := r.search(gctx, q)
			if err != nil {
				// A single failed query does not sink the research pass
				return nil
			}
			perQuery[i] = snippets
			return nil
		})
	}
	_ = g.Wait()

	snippets := dedupe(perQuery)
	if len(snippets) == 0 {
		return nil, fmt.Errorf("no search results found for %s", company)
	}

	var sb strings.Builder
	for _, s := range snippets {
		fmt.Fprintf(&sb, "- %s (%s): %s\n", s.Title, s.Link, s.Text)
	}

	prompt := prompts.Format(prompts.MustGet("research.json", "company_updates"), map[string]string{
		"Company":  company,
		"Domain":   domain,
		"Snippets": sb.String(),
	})
	system := prompts.MustGet("research.json", "researcher_instruction")

	summary, err := r.client.GenerateContent(ctx, system, prompt, llm.TierLite)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize research snippets: %w", err)
	}

	return &Update{
		Company:     company,
		SummaryText: summary,
		SourceURL:   snippets[0].Link,
		FoundAt:     time.Now().UTC(),
	}, nil
}

// dedupe flattens per-query results, keeping first occurrence per link and
// preserving query order.
func dedupe(perQuery [][]Snippet) []Snippet {
	seen := make(map[string]bool)
	var out []Snippet
	for _, snippets := range perQuery {
		for _, s := range snippets {
			if s.Link == "" || seen[s.Link] {
				continue
			}
			seen[s.Link] = true
			out = append(out, s)
		}
	}
	return out
}
