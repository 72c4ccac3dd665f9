// Package report builds weekly progress reports. A report is generated once
// and persisted verbatim; its markdown is never re-rendered from entities
// later, so the section order and wording here are part of the stored format.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"orga/internal/domain"
	"orga/internal/progress"
)

// Generate computes the weekly report for project over the inclusive period
// [periodStart, periodEnd] (YYYY-MM-DD strings, matched against entity
// timestamps by string comparison). previousProgress carries the progressEnd
// of the prior report; when nil the delta is zero by policy, so a project's
// first report never shows a drop or a jump.
func Generate(project domain.Project, milestones []domain.Milestone, tasks []domain.Task, events []domain.ActivityEvent, periodStart, periodEnd string, previousProgress *int, now time.Time) domain.WeeklyReport {
	var projectMilestones []domain.Milestone
	for _, m := range milestones {
		if m.ProjectID == project.ID {
			projectMilestones = append(projectMilestones, m)
		}
	}
	var projectTasks []domain.Task
	for _, t := range tasks {
		if t.ProjectID == project.ID {
			projectTasks = append(projectTasks, t)
		}
	}

	progressEnd := progress.ProjectProgress(project, projectMilestones, projectTasks)
	progressStart := progressEnd
	if previousProgress != nil {
		progressStart = *previousProgress
	}
	delta := progressEnd - progressStart

	var tasksCompleted, tasksCreated, blockedTasks []domain.Task
	for _, t := range projectTasks {
		if t.Status == "DONE" && t.UpdatedAt >= periodStart && t.UpdatedAt <= periodEnd {
			tasksCompleted = append(tasksCompleted, t)
		}
		if t.CreatedAt >= periodStart && t.CreatedAt <= periodEnd {
			tasksCreated = append(tasksCreated, t)
		}
		if t.Status == "BLOCKED" {
			blockedTasks = append(blockedTasks, t)
		}
	}

	var milestonesCompleted, nextMilestones []domain.Milestone
	for _, m := range projectMilestones {
		if m.Status == "DONE" && m.UpdatedAt >= periodStart && m.UpdatedAt <= periodEnd {
			milestonesCompleted = append(milestonesCompleted, m)
		}
		if m.Status != "DONE" && m.DueDate != nil {
			nextMilestones = append(nextMilestones, m)
		}
	}
	sort.SliceStable(nextMilestones, func(i, j int) bool {
		return *nextMilestones[i].DueDate < *nextMilestones[j].DueDate
	})
	if len(nextMilestones) > 3 {
		nextMilestones = nextMilestones[:3]
	}

	markdown := renderMarkdown(project, progressEnd, delta, tasksCompleted, tasksCreated, milestonesCompleted, blockedTasks, nextMilestones, periodStart, periodEnd, now)

	return domain.WeeklyReport{
		ID:            uuid.NewString(),
		ProjectID:     project.ID,
		PeriodStart:   periodStart,
		PeriodEnd:     periodEnd,
		GeneratedAt:   now.UTC().Format(time.RFC3339),
		ProgressStart: progressStart,
		ProgressEnd:   progressEnd,
		Delta:         delta,
		Markdown:      markdown,
	}
}

func renderMarkdown(project domain.Project, progressPercent, delta int, tasksCompleted, tasksCreated []domain.Task, milestonesCompleted []domain.Milestone, blockedTasks []domain.Task, nextMilestones []domain.Milestone, periodStart, periodEnd string, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Weekly Report - %s\n\n", project.Name)
	fmt.Fprintf(&b, "**Period**: %s to %s\n", periodStart, periodEnd)
	fmt.Fprintf(&b, "**Generated on**: %s\n\n", now.Format("2006-01-02"))
	b.WriteString("---\n\n")

	b.WriteString("## Progress\n\n")
	fmt.Fprintf(&b, "- **Current progress**: %d%%\n", progressPercent)
	indicator := "flat"
	switch {
	case delta > 0:
		indicator = "up"
	case delta < 0:
		indicator = "down"
	}
	sign := ""
	if delta >= 0 {
		sign = "+"
	}
	fmt.Fprintf(&b, "- **Delta this week**: %s %s%d%%\n\n", indicator, sign, delta)

	if len(milestonesCompleted) > 0 {
		b.WriteString("## Milestones Completed\n\n")
		for _, m := range milestonesCompleted {
			fmt.Fprintf(&b, "- %s\n", m.Title)
		}
		b.WriteString("\n")
	}

	if len(tasksCompleted) > 0 {
		b.WriteString("## Tasks Completed\n\n")
		for _, t := range tasksCompleted {
			fmt.Fprintf(&b, "- %s (%g pts)\n", t.Title, t.Points)
		}
		b.WriteString("\n")
	}

	if len(tasksCreated) > 0 {
		b.WriteString("## New Tasks\n\n")
		for _, t := range tasksCreated {
			fmt.Fprintf(&b, "- %s (%g pts)\n", t.Title, t.Points)
		}
		b.WriteString("\n")
	}

	if len(blockedTasks) > 0 {
		b.WriteString("## Blockers\n\n")
		for _, t := range blockedTasks {
			reason := ""
			if t.BlockedReason != nil {
				reason = " - " + *t.BlockedReason
			}
			fmt.Fprintf(&b, "- %s%s\n", t.Title, reason)
		}
		b.WriteString("\n")
	}

	if len(nextMilestones) > 0 {
		b.WriteString("## Next Milestones\n\n")
		for _, m := range nextMilestones {
			due := ""
			if m.DueDate != nil {
				due = fmt.Sprintf(" (%s)", *m.DueDate)
			}
			fmt.Fprintf(&b, "- %s%s\n", m.Title, due)
		}
		b.WriteString("\n")
	}

	b.WriteString("---\n\n")
	b.WriteString("_Generated automatically by Orga_")

	return b.String()
}

// WeekBoundaries returns the Monday and Sunday of the calendar week holding
// date, as YYYY-MM-DD strings. Weeks start on Monday; a Sunday belongs to
// the week that ends on it.
func WeekBoundaries(date time.Time) (start, end string) {
	offset := int(date.Weekday())
	if offset == 0 {
		offset = 7
	}
	monday := date.AddDate(0, 0, 1-offset)
	sunday := monday.AddDate(0, 0, 6)
	return monday.Format("2006-01-02"), sunday.Format("2006-01-02")
}
