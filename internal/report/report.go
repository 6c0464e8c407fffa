// Package report renders a daily brief into the formats the delivery
// channels consume: plain text for Slack, HTML for email bodies, and PDF
// for the email attachment.
package report

import (
	"fmt"
	"html"
	"strings"

	"github.com/jonathan/marketing-intel/internal/types"
)

const reportTitle = "Marketing Strategy Report"

// Subject builds the email subject line for a run.
func Subject(daily *types.DailyBrief) string {
	return fmt.Sprintf("%s — %s", reportTitle, daily.RunStarted.Format("Jan 2, 2006"))
}

// Text renders the daily brief as plain text, one section per target in
// watchlist order. Failed targets are listed at the end.
func Text(daily *types.DailyBrief) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\n\n", reportTitle, daily.RunStarted.Format("January 2, 2006"))

	for _, r := range daily.Succeeded() {
		fmt.Fprintf(&b, "== %s ==\n", r.Target)
		if r.Brief.Headline != "" {
			fmt.Fprintf(&b, "%s\n", r.Brief.Headline)
		}
		fmt.Fprintf(&b, "%s\n", strings.TrimSpace(r.Brief.Summary))
		if r.Brief.ValueProposition != "" {
			fmt.Fprintf(&b, "Positioning: %s\n", r.Brief.ValueProposition)
		}
		for _, f := range r.Brief.Findings {
			fmt.Fprintf(&b, "- %s\n", f)
		}
		if r.Changed {
			b.WriteString("(changed since last run)\n")
		}
		b.WriteString("\n")
	}

	writeFailures(&b, daily)
	return b.String()
}

func writeFailures(b *strings.Builder, daily *types.DailyBrief) {
	failed := failedResults(daily)
	if len(failed) == 0 {
		return
	}
	b.WriteString("Targets that could not be analyzed:\n")
	for _, r := range failed {
		fmt.Fprintf(b, "- %s: %s\n", r.Target, r.Err)
	}
}

// HTML renders the daily brief as a self-contained HTML document for the
// email body.
func HTML(daily *types.DailyBrief) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html><html><body style=\"font-family:Georgia,serif;max-width:640px;margin:0 auto\">")
	fmt.Fprintf(&b, "<h1>%s</h1>", reportTitle)
	fmt.Fprintf(&b, "<p><em>%s</em></p>", daily.RunStarted.Format("January 2, 2006"))

	for _, r := range daily.Succeeded() {
		fmt.Fprintf(&b, "<h2>%s</h2>", html.EscapeString(r.Target))
		if r.Brief.Headline != "" {
			fmt.Fprintf(&b, "<h3>%s</h3>", html.EscapeString(r.Brief.Headline))
		}
		for _, para := range paragraphs(r.Brief.Summary) {
			fmt.Fprintf(&b, "<p>%s</p>", html.EscapeString(para))
		}
		if r.Brief.ValueProposition != "" {
			fmt.Fprintf(&b, "<p><strong>Positioning:</strong> %s</p>", html.EscapeString(r.Brief.ValueProposition))
		}
		if len(r.Brief.Findings) > 0 {
			b.WriteString("<ul>")
			for _, f := range r.Brief.Findings {
				fmt.Fprintf(&b, "<li>%s</li>", html.EscapeString(f))
			}
			b.WriteString("</ul>")
		}
		if r.Brief.SourceURL != "" {
			fmt.Fprintf(&b, "<p><a href=\"%s\">Source</a></p>", html.EscapeString(r.Brief.SourceURL))
		}
	}

	if failed := failedResults(daily); len(failed) > 0 {
		b.WriteString("<h2>Targets that could not be analyzed</h2><ul>")
		for _, r := range failed {
			fmt.Fprintf(&b, "<li>%s: %s</li>", html.EscapeString(r.Target), html.EscapeString(r.Err))
		}
		b.WriteString("</ul>")
	}

	b.WriteString("</body></html>")
	return b.String()
}

func paragraphs(text string) []string {
	var out []string
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(strings.ReplaceAll(para, "\n", " "))
		if para != "" {
			out = append(out, para)
		}
	}
	return out
}
