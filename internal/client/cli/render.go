package cli

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/docsmith/internal/client/models"
	"github.com/dmitrijs2005/docsmith/internal/client/services"
)

const dateLayout = "2006-01-02 15:04"

func table(header string, rows []string) string {
	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, header)
	for _, r := range rows {
		fmt.Fprintln(tw, r)
	}
	_ = tw.Flush()
	return strings.TrimRight(buf.String(), "\n")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func formatProjects(ps []models.Project) string {
	if len(ps) == 0 {
		return "No projects found."
	}
	rows := make([]string, 0, len(ps))
	for _, p := range ps {
		rows = append(rows, fmt.Sprintf("%s\t%s\t%s\t%d\t%d\t%s",
			p.ID, p.ProjectName, orDash(p.PrimaryLanguage), p.FileCount, p.ReadmeDownloadCount,
			p.CreatedAt.Local().Format(dateLayout)))
	}
	return table("ID\tNAME\tLANGUAGE\tFILES\tDOWNLOADS\tCREATED", rows)
}

func formatDocs(ds []models.Documentation) string {
	if len(ds) == 0 {
		return "No documentation generated yet."
	}
	rows := make([]string, 0, len(ds))
	for _, d := range ds {
		rows = append(rows, fmt.Sprintf("%s\t%s\t%s\t%s",
			d.ID, d.ProjectName, orDash(d.DetectedLanguage), d.CreatedAt.Local().Format(dateLayout)))
	}
	return table("ID\tPROJECT\tLANGUAGE\tCREATED", rows)
}

func formatTechStack(ts map[string]string) string {
	if len(ts) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(ts))
	for k := range ts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+ts[k])
	}
	return strings.Join(parts, ", ")
}

func formatProject(p *models.Project) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (id %s)\n", p.ProjectName, p.ID)
	fmt.Fprintf(&b, "Language:   %s\n", orDash(p.PrimaryLanguage))
	fmt.Fprintf(&b, "Framework:  %s\n", orDash(p.Framework))
	fmt.Fprintf(&b, "Files:      %d\n", p.FileCount)
	fmt.Fprintf(&b, "Downloads:  %d\n", p.ReadmeDownloadCount)
	fmt.Fprintf(&b, "Created:    %s\n", p.CreatedAt.Local().Format(dateLayout))
	fmt.Fprintf(&b, "Tech stack: %s", formatTechStack(p.TechStack))
	if p.Summary != "" {
		fmt.Fprintf(&b, "\n\n%s", p.Summary)
	}
	return b.String()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatExtras(ex services.Extras) string {
	var b strings.Builder

	b.WriteString("Dependencies\n")
	if ex.DependenciesErr != nil {
		b.WriteString("  unavailable\n")
	} else {
		d := ex.Dependencies
		fmt.Fprintf(&b, "  Frontend:        %s\n", orDash(deref(d.FrontendFramework)))
		fmt.Fprintf(&b, "  Backend:         %s\n", orDash(deref(d.BackendFramework)))
		fmt.Fprintf(&b, "  Database:        %s\n", orDash(deref(d.Database)))
		fmt.Fprintf(&b, "  Package manager: %s\n", orDash(deref(d.PackageManager)))
		fmt.Fprintf(&b, "  Libraries:       %s\n", orDash(strings.Join(d.Libraries, ", ")))
	}

	b.WriteString("Health\n")
	if ex.HealthErr != nil {
		b.WriteString("  unavailable\n")
	} else {
		fmt.Fprintf(&b, "  Score: %d (grade %s)\n", ex.Health.Score, ex.Health.Grade)
		for _, issue := range ex.Health.Issues {
			fmt.Fprintf(&b, "  - %s\n", issue)
		}
	}

	b.WriteString("Insights\n")
	switch {
	case ex.InsightsErr != nil:
		b.WriteString("  unavailable")
	case len(ex.Insights) == 0:
		b.WriteString("  none")
	default:
		for i, in := range ex.Insights {
			if i > 0 {
				b.WriteString("\n")
			}
			fmt.Fprintf(&b, "  [%s] %s", orDash(in.Severity), in.Message)
		}
	}

	return b.String()
}

func bullets(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s\n", title)
	for _, it := range items {
		fmt.Fprintf(b, "  - %s\n", it)
	}
}

func formatSummary(r *models.SummaryResult) string {
	s := r.Summary
	var b strings.Builder

	fmt.Fprintf(&b, "%s (%s, %d words)\n\n", r.Filename, orDash(s.Metadata.ContentType), s.Metadata.WordCount)
	b.WriteString(s.ShortSummary)
	b.WriteString("\n")
	if s.DetailedSummary != "" && s.DetailedSummary != s.ShortSummary {
		fmt.Fprintf(&b, "\n%s\n", s.DetailedSummary)
	}

	bullets(&b, "Key points", s.KeyPoints)

	if len(s.ActionItems) > 0 {
		b.WriteString("\nAction items\n")
		for _, ai := range s.ActionItems {
			line := "  - " + ai.Action
			if ai.Priority != "" {
				line += " [" + ai.Priority + "]"
			}
			if d := deref(ai.Deadline); d != "" {
				line += " due " + d
			}
			b.WriteString(line + "\n")
		}
	}

	if len(s.ImportantNumbers) > 0 {
		keys := make([]string, 0, len(s.ImportantNumbers))
		for k := range s.ImportantNumbers {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString("\nImportant numbers\n")
		for _, k := range keys {
			if len(s.ImportantNumbers[k]) > 0 {
				fmt.Fprintf(&b, "  %s: %s\n", k, strings.Join(s.ImportantNumbers[k], ", "))
			}
		}
	}

	bullets(&b, "Risks and warnings", s.RisksWarnings)
	bullets(&b, "Technical highlights", s.TechnicalHighlights)

	if e := s.EmailIntelligence; e != nil {
		b.WriteString("\nEmail\n")
		fmt.Fprintf(&b, "  From: %s\n  Subject: %s\n  Intent: %s\n  Urgency: %s\n",
			orDash(e.Sender), orDash(e.Subject), orDash(e.Intent), orDash(e.Urgency))
		if reply := deref(e.SuggestedReply); reply != "" {
			fmt.Fprintf(&b, "  Suggested reply: %s\n", reply)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}
