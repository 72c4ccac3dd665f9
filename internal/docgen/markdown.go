package docgen

import (
	"fmt"
	"strings"
	"time"

	"orga/internal/domain"
)

// Generate renders the given document type to Markdown. Degenerate input
// still renders: empty sections collapse to empty-state lines rather than
// failing.
func Generate(docType string, project domain.Project, milestones []domain.Milestone, tasks []domain.Task, events []domain.ActivityEvent, now time.Time) (string, error) {
	s := Derive(project, milestones, tasks, events, now)
	switch docType {
	case TypeReadme:
		return renderReadme(s), nil
	case TypeSpec:
		return renderSpec(s), nil
	case TypeArchitecture:
		return renderArchitecture(s), nil
	case TypeRunbook:
		return renderRunbook(s), nil
	case TypeChangelog:
		return renderChangelog(s), nil
	case TypeADR:
		return renderADR(s), nil
	}
	return "", fmt.Errorf("unknown document type %q", docType)
}

func renderReadme(s Snapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", s.Project.Name)
	if s.Project.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", s.Project.Description)
	}

	b.WriteString("## Overview\n\n")
	fmt.Fprintf(&b, "- **Status**: %s\n", s.Project.Status)
	fmt.Fprintf(&b, "- **Priority**: %s\n", s.Project.Priority)
	fmt.Fprintf(&b, "- **Start date**: %s\n", s.StartDate)
	fmt.Fprintf(&b, "- **Target date**: %s\n", s.TargetDate)
	if s.Project.RepositoryURL != nil {
		fmt.Fprintf(&b, "- **Repository**: %s\n", *s.Project.RepositoryURL)
	}
	if len(s.Project.TechStack) > 0 {
		fmt.Fprintf(&b, "- **Tech stack**: %s\n", strings.Join(s.Project.TechStack, ", "))
	}
	b.WriteString("\n")

	b.WriteString("## Progress\n\n")
	fmt.Fprintf(&b, "- **Overall**: %d%%\n", s.Stats.ProgressPercent)
	fmt.Fprintf(&b, "- **Health**: %s\n", s.Stats.Health)
	fmt.Fprintf(&b, "- **Tasks**: %d/%d done (%g/%g points)\n\n", s.Stats.TasksDone, s.Stats.TasksTotal, s.Stats.PointsDone, s.Stats.PointsTotal)

	b.WriteString("## Milestones\n\n")
	if len(s.Milestones) == 0 {
		b.WriteString("No milestones defined yet.\n\n")
	}
	for _, m := range s.Milestones {
		fmt.Fprintf(&b, "- [%s] **%s** - %d%% (weight %d%%, %d tasks, due %s)\n",
			m.StatusSymbol, m.Title, m.Progress, m.WeightPercent, m.TasksCount, m.DueDate)
	}
	if len(s.Milestones) > 0 {
		b.WriteString("\n")
	}

	b.WriteString("## Tasks by Status\n\n")
	fmt.Fprintf(&b, "- Done: %d\n", len(s.Completed))
	fmt.Fprintf(&b, "- In progress: %d\n", len(s.InProgress))
	fmt.Fprintf(&b, "- To do: %d\n", len(s.Todo))
	fmt.Fprintf(&b, "- Blocked: %d\n\n", len(s.Blocked))

	fmt.Fprintf(&b, "---\n\n_Generated on %s_\n", s.GeneratedAt)
	return b.String()
}

func renderSpec(s Snapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Specification - %s\n\n", s.Project.Name)

	b.WriteString("## Description\n\n")
	if s.Project.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", s.Project.Description)
	} else {
		b.WriteString("No description provided.\n\n")
	}

	if len(s.Project.Objectives) > 0 {
		b.WriteString("## Objectives\n\n")
		for _, o := range s.Project.Objectives {
			fmt.Fprintf(&b, "- %s\n", o)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Scope\n\n")
	fmt.Fprintf(&b, "- **Milestones**: %d\n", s.MilestonesCount)
	fmt.Fprintf(&b, "- **Tasks**: %d\n", s.Stats.TasksTotal)
	fmt.Fprintf(&b, "- **Total points**: %g\n\n", s.Stats.PointsTotal)

	b.WriteString("## Work Breakdown\n\n")
	if len(s.Milestones) == 0 {
		b.WriteString("No milestones defined yet.\n\n")
	}
	for _, m := range s.Milestones {
		fmt.Fprintf(&b, "### %d. %s\n\n", m.Order, m.Title)
		fmt.Fprintf(&b, "Due %s, weight %d%%, %g points.\n\n", m.DueDate, m.WeightPercent, m.TaskPoints)
		for _, t := range m.Tasks {
			fmt.Fprintf(&b, "- [%s] %s (%g pts)\n", t.StatusSymbol, t.Title, t.Points)
		}
		if len(m.Tasks) > 0 {
			b.WriteString("\n")
		}
	}

	fmt.Fprintf(&b, "---\n\n_Generated on %s_\n", s.GeneratedAt)
	return b.String()
}

func renderArchitecture(s Snapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Architecture - %s\n\n", s.Project.Name)

	b.WriteString("## Components\n\n")
	if len(s.Milestones) == 0 {
		b.WriteString("No components defined yet.\n\n")
	}
	for _, m := range s.Milestones {
		fmt.Fprintf(&b, "### %s\n\n", m.Title)
		fmt.Fprintf(&b, "Weight %d%% of the system, %d tasks.\n\n", m.WeightPercent, m.TasksCount)
		if len(m.Tasks) > 0 {
			b.WriteString("Responsibilities:\n\n")
			shown := m.Tasks
			if len(shown) > 5 {
				shown = shown[:5]
			}
			for _, t := range shown {
				fmt.Fprintf(&b, "- %s\n", t.Title)
			}
			if len(m.Tasks) > 5 {
				fmt.Fprintf(&b, "- ...and %d more\n", len(m.Tasks)-5)
			}
			b.WriteString("\n")
		}
	}

	if len(s.Project.TechStack) > 0 {
		b.WriteString("## Technology Stack\n\n")
		for _, tech := range s.Project.TechStack {
			fmt.Fprintf(&b, "- %s\n", tech)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "---\n\n_Generated on %s_\n", s.GeneratedAt)
	return b.String()
}

func renderRunbook(s Snapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Runbook - %s\n\n", s.Project.Name)

	b.WriteString("## In Progress\n\n")
	if len(s.InProgress) == 0 {
		b.WriteString("No task currently in progress.\n\n")
	}
	for _, t := range s.InProgress {
		fmt.Fprintf(&b, "- %s (%s, %g pts)\n", t.Title, t.MilestoneName, t.Points)
	}
	if len(s.InProgress) > 0 {
		b.WriteString("\n")
	}

	b.WriteString("## Up Next\n\n")
	if len(s.Todo) == 0 {
		b.WriteString("No task currently due.\n\n")
	}
	upcoming := s.Todo
	if len(upcoming) > 10 {
		upcoming = upcoming[:10]
	}
	for _, t := range upcoming {
		fmt.Fprintf(&b, "- %s (%s, %g pts)\n", t.Title, t.MilestoneName, t.Points)
	}
	if len(upcoming) > 0 {
		b.WriteString("\n")
	}

	if len(s.Blocked) > 0 {
		b.WriteString("## Blockers\n\n")
		for _, t := range s.Blocked {
			reason := t.BlockedReason
			if reason == "" {
				reason = "not specified"
			}
			fmt.Fprintf(&b, "- %s: %s\n", t.Title, reason)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "---\n\n_Generated on %s_\n", s.GeneratedAt)
	return b.String()
}

func renderChangelog(s Snapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Changelog - %s\n\n", s.Project.Name)
	fmt.Fprintf(&b, "Last updated: %s\n\n", s.UpdatedAt)

	b.WriteString("## Completed Tasks\n\n")
	if len(s.Completed) == 0 {
		b.WriteString("Nothing completed yet.\n\n")
	}
	for _, t := range s.Completed {
		fmt.Fprintf(&b, "- %s (%s, %g pts, completed %s)\n", t.Title, t.MilestoneName, t.Points, t.UpdatedAt)
	}
	if len(s.Completed) > 0 {
		b.WriteString("\n")
	}

	b.WriteString("## Recent Activity\n\n")
	if len(s.RecentActivity) == 0 {
		b.WriteString("No recorded activity.\n\n")
	}
	shown := 0
	for _, day := range s.RecentActivity {
		if shown >= 20 {
			break
		}
		fmt.Fprintf(&b, "### %s\n\n", day.Date)
		for _, e := range day.Events {
			if shown >= 20 {
				break
			}
			fmt.Fprintf(&b, "- %s %s\n", e.Time, e.Description)
			shown++
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "---\n\n_Generated on %s_\n", s.GeneratedAt)
	return b.String()
}

func renderADR(s Snapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# ADR - Weighted Milestone Tracking for %s\n\n", s.Project.Name)
	fmt.Fprintf(&b, "Date: %s\n\nStatus: Accepted\n\n", s.CreatedAt)

	b.WriteString("## Context\n\n")
	fmt.Fprintf(&b, "The project tracks delivery through %d milestones carrying a total weight of %g, broken down into %d tasks worth %g points.\n\n",
		s.MilestonesCount, s.TotalWeight, s.Stats.TasksTotal, s.Stats.PointsTotal)
	b.WriteString("Progress needed a single number that reflects both how much work each phase represents and how far along each phase is, without requiring every task to be sized identically.\n\n")

	b.WriteString("## Decision\n\n")
	b.WriteString("Each milestone carries a weight expressing its share of the overall effort. A milestone's own progress is the point-weighted fraction of its completed tasks, and overall progress is the weight-normalized sum across milestones. A milestone marked done counts as fully complete regardless of remaining task bookkeeping.\n\n")

	b.WriteString("## Consequences\n\n")
	b.WriteString("- Re-weighting a milestone re-scales history; progress numbers are only comparable within one weighting scheme.\n")
	b.WriteString("- Milestones without tasks contribute nothing until tasks are added or the milestone is closed.\n")
	b.WriteString("- Point estimates drive milestone ratios, so unsized backlogs degrade precision but never break the computation.\n\n")

	fmt.Fprintf(&b, "---\n\n_Generated on %s_\n", s.GeneratedAt)
	return b.String()
}
