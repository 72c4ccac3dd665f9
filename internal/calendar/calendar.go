// Package calendar projects projects, milestones and tasks onto a dated
// event timeline. Dates are YYYY-MM-DD strings; the fixed-width form makes
// lexicographic comparison equivalent to chronological order, and every
// sort and range filter here relies on that.
package calendar

import (
	"fmt"
	"sort"
	"time"

	"orga/internal/domain"
)

// ProjectEvents returns the dated events of a single project, sorted
// ascending by date. Entities without a date are omitted.
func ProjectEvents(project domain.Project, milestones []domain.Milestone, tasks []domain.Task) []domain.CalendarEvent {
	events := []domain.CalendarEvent{}

	if project.StartDate != nil {
		events = append(events, domain.CalendarEvent{
			ID:        "project-start-" + project.ID,
			Type:      "PROJECT",
			Title:     "Start: " + project.Name,
			Date:      *project.StartDate,
			ProjectID: project.ID,
			EntityID:  project.ID,
			Color:     "blue",
		})
	}
	if project.TargetDate != nil {
		events = append(events, domain.CalendarEvent{
			ID:        "project-end-" + project.ID,
			Type:      "PROJECT",
			Title:     "Target: " + project.Name,
			Date:      *project.TargetDate,
			ProjectID: project.ID,
			EntityID:  project.ID,
			Color:     "blue",
		})
	}

	for _, m := range milestones {
		if m.ProjectID != project.ID || m.DueDate == nil {
			continue
		}
		color := "orange"
		switch m.Status {
		case "DONE":
			color = "green"
		case "BLOCKED":
			color = "red"
		}
		events = append(events, domain.CalendarEvent{
			ID:        "milestone-" + m.ID,
			Type:      "MILESTONE",
			Title:     m.Title,
			Date:      *m.DueDate,
			Status:    m.Status,
			ProjectID: m.ProjectID,
			Weight:    m.Weight,
			EntityID:  m.ID,
			Color:     color,
		})
	}

	for _, t := range tasks {
		if t.ProjectID != project.ID || t.DueDate == nil {
			continue
		}
		color := "gray"
		switch t.Status {
		case "DONE":
			color = "green"
		case "BLOCKED":
			color = "red"
		case "DOING":
			color = "blue"
		}
		events = append(events, domain.CalendarEvent{
			ID:        "task-" + t.ID,
			Type:      "TASK",
			Title:     t.Title,
			Date:      *t.DueDate,
			Status:    t.Status,
			ProjectID: t.ProjectID,
			Points:    t.Points,
			EntityID:  t.ID,
			Color:     color,
		})
	}

	sortByDate(events)
	return events
}

// AllEvents concatenates per-project events across all given projects and
// re-sorts the combined list by date.
func AllEvents(projects []domain.Project, milestones []domain.Milestone, tasks []domain.Task) []domain.CalendarEvent {
	events := []domain.CalendarEvent{}
	for _, p := range projects {
		events = append(events, ProjectEvents(p, milestones, tasks)...)
	}
	sortByDate(events)
	return events
}

// FilterByDateRange keeps events with start <= date <= end, inclusive.
func FilterByDateRange(events []domain.CalendarEvent, start, end string) []domain.CalendarEvent {
	out := []domain.CalendarEvent{}
	for _, e := range events {
		if e.Date >= start && e.Date <= end {
			out = append(out, e)
		}
	}
	return out
}

// GroupByDate partitions events by exact date string. Events within a date
// keep their input order.
func GroupByDate(events []domain.CalendarEvent) map[string][]domain.CalendarEvent {
	grouped := map[string][]domain.CalendarEvent{}
	for _, e := range events {
		grouped[e.Date] = append(grouped[e.Date], e)
	}
	return grouped
}

// MonthEvents returns the events falling in the given month (1-12).
func MonthEvents(events []domain.CalendarEvent, year, month int) []domain.CalendarEvent {
	start := fmt.Sprintf("%04d-%02d-01", year, month)
	last := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC)
	return FilterByDateRange(events, start, last.Format("2006-01-02"))
}

// Equal dates keep their relative input order so mixed-source timelines
// render deterministically.
func sortByDate(events []domain.CalendarEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date < events[j].Date
	})
}
