// Package docgen renders project documentation from live tracking data.
// Six document types share one derivation step; only the rendering target
// differs (Markdown text or a structured rich-text document tree).
package docgen

import (
	"math"
	"sort"
	"time"

	"orga/internal/domain"
	"orga/internal/progress"
)

// Document types accepted by Generate, BuildDocument and Filename.
const (
	TypeReadme       = "README"
	TypeSpec         = "SPEC"
	TypeArchitecture = "ARCHITECTURE"
	TypeRunbook      = "RUNBOOK"
	TypeChangelog    = "CHANGELOG"
	TypeADR          = "ADR"
)

// Types lists all document types in rendering-menu order.
var Types = []string{TypeReadme, TypeSpec, TypeArchitecture, TypeRunbook, TypeChangelog, TypeADR}

const (
	dateNotSet   = "not set"
	longDate     = "02 January 2006"
	longDateTime = "02 January 2006 at 15:04"
)

// generalMilestone labels tasks that belong to no milestone.
const generalMilestone = "GENERAL"

// TaskView is a task enriched for rendering: resolved milestone title,
// formatted dates, checkbox symbol.
type TaskView struct {
	ID            string
	Title         string
	Status        string
	Points        float64
	MilestoneName string
	StatusSymbol  string
	DueDate       string
	BlockedReason string
	CreatedAt     string
	UpdatedAt     string
}

// MilestoneView is a milestone with its rendering rollups.
type MilestoneView struct {
	ID              string
	Title           string
	Status          string
	StatusSymbol    string
	Order           int
	Weight          float64
	WeightPercent   int
	Progress        int
	DueDate         string
	TasksCount      int
	TaskPoints      float64
	TasksDone       int
	TasksInProgress int
	TasksTodo       int
	TasksBlocked    int
	Tasks           []TaskView
	TasksNotDone    []TaskView
	BlockedReason   string
}

// ActivityItem is one event within a day group.
type ActivityItem struct {
	Type        string
	Description string
	Time        string
}

// ActivityDay groups a day's events, most recent day first.
type ActivityDay struct {
	Date   string
	Events []ActivityItem
}

// Snapshot is the derived data every template renders from.
type Snapshot struct {
	Project     domain.Project
	Stats       domain.ProjectProgress
	GeneratedAt string

	StartDate  string
	TargetDate string
	CreatedAt  string
	UpdatedAt  string

	CompletionRate       int
	PointsCompletionRate int
	PointsRemaining      float64
	TasksRemaining       int

	Milestones      []MilestoneView
	MilestonesCount int
	MilestonesDone  int
	TotalWeight     float64

	Completed  []TaskView
	InProgress []TaskView
	Todo       []TaskView
	Blocked    []TaskView

	BlockedMilestones []MilestoneView
	HasBlockers       bool

	Duration      int
	DaysElapsed   int
	DaysRemaining int
	Overdue       bool

	AvgTasksPerMilestone int
	AvgPointsPerTask     int

	RecentActivity   []ActivityDay
	HasPendingIssues bool
}

// Derive computes the shared rendering snapshot for a project. Missing
// optional fields become placeholder strings; degenerate inputs (no
// milestones, no tasks, zero points) yield zeroes, never errors.
func Derive(project domain.Project, milestones []domain.Milestone, tasks []domain.Task, events []domain.ActivityEvent, now time.Time) Snapshot {
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

	stats := progress.ProjectStats(project, projectMilestones, projectTasks, now)
	perMilestone := progress.MilestonesProgress(project.ID, projectMilestones, projectTasks)

	s := Snapshot{
		Project:     project,
		Stats:       stats,
		GeneratedAt: now.Format(longDateTime),
		StartDate:   formatDatePtr(project.StartDate),
		TargetDate:  formatDatePtr(project.TargetDate),
		CreatedAt:   formatStamp(project.CreatedAt),
		UpdatedAt:   formatStamp(project.UpdatedAt),
	}

	if stats.TasksTotal > 0 {
		s.CompletionRate = int(math.Round(float64(stats.TasksDone) / float64(stats.TasksTotal) * 100))
	}
	if stats.PointsTotal > 0 {
		s.PointsCompletionRate = int(math.Round(stats.PointsDone / stats.PointsTotal * 100))
	}
	s.PointsRemaining = stats.PointsTotal - stats.PointsDone
	s.TasksRemaining = stats.TasksTotal - stats.TasksDone

	// Timeline day counts. Absent dates collapse to "now", so the counts
	// degrade to zero instead of failing.
	start := now
	if project.StartDate != nil {
		if d, err := time.Parse("2006-01-02", *project.StartDate); err == nil {
			start = d
		}
	}
	target := now
	if project.TargetDate != nil {
		if d, err := time.Parse("2006-01-02", *project.TargetDate); err == nil {
			target = d
		}
	}
	s.DaysElapsed = floorDays(now.Sub(start))
	s.DaysRemaining = floorDays(target.Sub(now))
	s.Duration = floorDays(target.Sub(start))
	s.Overdue = s.DaysRemaining < 0 && stats.ProgressPercent < 100

	var totalWeight float64
	for _, m := range projectMilestones {
		totalWeight += m.Weight
	}
	s.TotalWeight = totalWeight
	s.MilestonesCount = len(projectMilestones)

	milestoneTitle := map[string]string{}
	for _, m := range projectMilestones {
		milestoneTitle[m.ID] = m.Title
	}
	viewTask := func(t domain.Task) TaskView {
		name := generalMilestone
		if t.MilestoneID != nil {
			if title, ok := milestoneTitle[*t.MilestoneID]; ok {
				name = title
			}
		}
		v := TaskView{
			ID:            t.ID,
			Title:         t.Title,
			Status:        t.Status,
			Points:        t.Points,
			MilestoneName: name,
			StatusSymbol:  " ",
			CreatedAt:     formatStamp(t.CreatedAt),
			UpdatedAt:     formatStamp(t.UpdatedAt),
		}
		if t.Status == "DONE" {
			v.StatusSymbol = "x"
		}
		if t.DueDate != nil {
			v.DueDate = formatDatePtr(t.DueDate)
		}
		if t.BlockedReason != nil {
			v.BlockedReason = *t.BlockedReason
		}
		return v
	}

	for i, m := range projectMilestones {
		mv := MilestoneView{
			ID:           m.ID,
			Title:        m.Title,
			Status:       m.Status,
			StatusSymbol: " ",
			Order:        i + 1,
			Weight:       m.Weight,
			DueDate:      formatDatePtr(m.DueDate),
		}
		if m.Status == "DONE" {
			mv.StatusSymbol = "x"
			s.MilestonesDone++
		}
		if m.BlockedReason != nil {
			mv.BlockedReason = *m.BlockedReason
		}
		if totalWeight != 0 {
			mv.WeightPercent = int(math.Round(m.Weight / totalWeight * 100))
		}
		for _, mp := range perMilestone {
			if mp.MilestoneID == m.ID {
				mv.Progress = mp.ProgressPercent
			}
		}
		for _, t := range projectTasks {
			if t.MilestoneID == nil || *t.MilestoneID != m.ID {
				continue
			}
			mv.TasksCount++
			mv.TaskPoints += t.Points
			switch t.Status {
			case "DONE":
				mv.TasksDone++
			case "DOING":
				mv.TasksInProgress++
			case "TODO":
				mv.TasksTodo++
			case "BLOCKED":
				mv.TasksBlocked++
			}
			tv := viewTask(t)
			mv.Tasks = append(mv.Tasks, tv)
			if t.Status != "DONE" {
				mv.TasksNotDone = append(mv.TasksNotDone, tv)
			}
		}
		s.Milestones = append(s.Milestones, mv)
		if m.Status == "BLOCKED" {
			s.BlockedMilestones = append(s.BlockedMilestones, mv)
		}
	}

	for _, t := range projectTasks {
		tv := viewTask(t)
		switch t.Status {
		case "DONE":
			s.Completed = append(s.Completed, tv)
		case "DOING":
			s.InProgress = append(s.InProgress, tv)
		case "TODO":
			s.Todo = append(s.Todo, tv)
		case "BLOCKED":
			s.Blocked = append(s.Blocked, tv)
		}
	}

	s.HasBlockers = len(s.Blocked) > 0 || len(s.BlockedMilestones) > 0
	s.HasPendingIssues = len(s.Todo) > 0 || len(s.InProgress) > 0

	if s.MilestonesCount > 0 {
		s.AvgTasksPerMilestone = int(math.Round(float64(len(projectTasks)) / float64(s.MilestonesCount)))
	}
	if len(projectTasks) > 0 {
		s.AvgPointsPerTask = int(math.Round(stats.PointsTotal / float64(len(projectTasks))))
	}

	s.RecentActivity = groupActivityByDay(events)

	return s
}

// groupActivityByDay buckets events by calendar day and keeps the 10 most
// recent days, each day's events in encounter order.
func groupActivityByDay(events []domain.ActivityEvent) []ActivityDay {
	grouped := map[string][]ActivityItem{}
	var days []string
	for _, e := range events {
		ts, err := time.Parse(time.RFC3339, e.CreatedAt)
		if err != nil {
			continue
		}
		day := ts.Format("2006-01-02")
		if _, ok := grouped[day]; !ok {
			days = append(days, day)
		}
		desc := e.Description
		if desc == "" {
			desc = e.Type
		}
		grouped[day] = append(grouped[day], ActivityItem{
			Type:        e.Type,
			Description: desc,
			Time:        ts.Format("15:04"),
		})
	}

	sort.Sort(sort.Reverse(sort.StringSlice(days)))
	if len(days) > 10 {
		days = days[:10]
	}

	out := []ActivityDay{}
	for _, day := range days {
		d, _ := time.Parse("2006-01-02", day)
		out = append(out, ActivityDay{Date: d.Format(longDate), Events: grouped[day]})
	}
	return out
}

func formatDatePtr(date *string) string {
	if date == nil {
		return dateNotSet
	}
	d, err := time.Parse("2006-01-02", *date)
	if err != nil {
		return *date
	}
	return d.Format(longDate)
}

func formatStamp(ts string) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return t.Format(longDate)
}

// floorDays converts a duration to whole days, flooring toward negative
// infinity so a partially elapsed overdue day still counts as overdue.
func floorDays(d time.Duration) int {
	return int(math.Floor(d.Hours() / 24))
}
