package progress_test

import (
	"testing"
	"time"

	"orga/internal/domain"
	"orga/internal/progress"
)

func strPtr(s string) *string { return &s }

func TestMilestoneProgressRatio(t *testing.T) {
	m := domain.Milestone{ID: "m1", Status: "IN_PROGRESS"}
	tasks := []domain.Task{
		{ID: "t1", MilestoneID: strPtr("m1"), Status: "DONE", Points: 2},
		{ID: "t2", MilestoneID: strPtr("m1"), Status: "TODO", Points: 2},
	}
	if got := progress.MilestoneProgress(m, tasks); got != 0.5 {
		t.Fatalf("expected 0.5, got %g", got)
	}
}

func TestMilestoneDoneOverridesTasks(t *testing.T) {
	m := domain.Milestone{ID: "m1", Status: "DONE"}
	tasks := []domain.Task{
		{ID: "t1", MilestoneID: strPtr("m1"), Status: "TODO", Points: 5},
	}
	if got := progress.MilestoneProgress(m, tasks); got != 1 {
		t.Fatalf("DONE milestone should be complete, got %g", got)
	}
}

func TestMilestoneZeroGuards(t *testing.T) {
	m := domain.Milestone{ID: "m1", Status: "TODO"}
	if got := progress.MilestoneProgress(m, nil); got != 0 {
		t.Fatalf("no tasks should be 0, got %g", got)
	}
	zeroPoints := []domain.Task{
		{ID: "t1", MilestoneID: strPtr("m1"), Status: "DONE", Points: 0},
	}
	if got := progress.MilestoneProgress(m, zeroPoints); got != 0 {
		t.Fatalf("zero total points should be 0, got %g", got)
	}
}

func TestProjectProgressRoundsHalfAwayFromZero(t *testing.T) {
	p := domain.Project{ID: "p1"}
	milestones := []domain.Milestone{
		{ID: "m1", ProjectID: "p1", Status: "DONE", Weight: 1},
		{ID: "m2", ProjectID: "p1", Status: "IN_PROGRESS", Weight: 3},
	}
	tasks := []domain.Task{
		{ID: "t1", MilestoneID: strPtr("m2"), Status: "DONE", Points: 1},
		{ID: "t2", MilestoneID: strPtr("m2"), Status: "TODO", Points: 1},
	}
	// (1*1 + 3*0.5) / 4 = 0.625 -> 62.5 rounds up to 63.
	if got := progress.ProjectProgress(p, milestones, tasks); got != 63 {
		t.Fatalf("expected 63, got %d", got)
	}
}

func TestProjectProgressZeroGuards(t *testing.T) {
	p := domain.Project{ID: "p1"}
	if got := progress.ProjectProgress(p, nil, nil); got != 0 {
		t.Fatalf("no milestones should be 0, got %d", got)
	}
	weightless := []domain.Milestone{
		{ID: "m1", ProjectID: "p1", Status: "DONE", Weight: 0},
	}
	if got := progress.ProjectProgress(p, weightless, nil); got != 0 {
		t.Fatalf("zero total weight should be 0, got %d", got)
	}
}

func TestHealthPrecedence(t *testing.T) {
	now := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)
	overdue := domain.Project{ID: "p1", TargetDate: strPtr("2025-01-01")}

	// Blockers dominate even when the target date has passed.
	if got := progress.ProjectHealth(overdue, 10, 1, now); got != domain.HealthAtRisk {
		t.Fatalf("blockers should win: got %s", got)
	}
	if got := progress.ProjectHealth(overdue, 10, 0, now); got != domain.HealthLate {
		t.Fatalf("overdue without blockers should be LATE: got %s", got)
	}
	if got := progress.ProjectHealth(overdue, 100, 0, now); got != domain.HealthOnTrack {
		t.Fatalf("finished project is never late: got %s", got)
	}
	// LATE starts the day after the target; clock time on the target day
	// itself never matters.
	dueToday := domain.Project{ID: "p4", TargetDate: strPtr("2025-03-12")}
	lateAfternoon := time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC)
	if got := progress.ProjectHealth(dueToday, 50, 0, lateAfternoon); got != domain.HealthOnTrack {
		t.Fatalf("target day itself should be ON_TRACK: got %s", got)
	}
	nextMidnight := time.Date(2025, 3, 13, 0, 0, 0, 0, time.UTC)
	if got := progress.ProjectHealth(dueToday, 50, 0, nextMidnight); got != domain.HealthLate {
		t.Fatalf("day after target should be LATE: got %s", got)
	}

	noTarget := domain.Project{ID: "p2"}
	if got := progress.ProjectHealth(noTarget, 0, 0, now); got != domain.HealthOnTrack {
		t.Fatalf("no target date should be ON_TRACK: got %s", got)
	}
	badDate := domain.Project{ID: "p3", TargetDate: strPtr("not-a-date")}
	if got := progress.ProjectHealth(badDate, 0, 0, now); got != domain.HealthOnTrack {
		t.Fatalf("unparseable target should be ON_TRACK: got %s", got)
	}
}

func TestProjectStats(t *testing.T) {
	now := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)
	p := domain.Project{ID: "p1"}
	milestones := []domain.Milestone{
		{ID: "m1", ProjectID: "p1", Status: "IN_PROGRESS", Weight: 1},
	}
	tasks := []domain.Task{
		{ID: "t1", ProjectID: "p1", MilestoneID: strPtr("m1"), Status: "DONE", Points: 3},
		{ID: "t2", ProjectID: "p1", MilestoneID: strPtr("m1"), Status: "TODO", Points: 5},
		{ID: "t3", ProjectID: "p1", MilestoneID: strPtr("m1"), Status: "BLOCKED", Points: 2},
	}

	stats := progress.ProjectStats(p, milestones, tasks, now)
	if stats.TasksDone != 1 || stats.TasksTotal != 3 {
		t.Fatalf("tasks: got %d/%d", stats.TasksDone, stats.TasksTotal)
	}
	if stats.PointsDone != 3 || stats.PointsTotal != 10 {
		t.Fatalf("points: got %g/%g", stats.PointsDone, stats.PointsTotal)
	}
	if stats.ProgressPercent != 30 {
		t.Fatalf("progress: got %d", stats.ProgressPercent)
	}
	if stats.BlockedCount != 1 || stats.Health != domain.HealthAtRisk {
		t.Fatalf("expected 1 blocker and AT_RISK, got %d %s", stats.BlockedCount, stats.Health)
	}
}

func TestBlockedMilestoneCountsAsBlocker(t *testing.T) {
	now := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)
	p := domain.Project{ID: "p1"}
	milestones := []domain.Milestone{
		{ID: "m1", ProjectID: "p1", Status: "BLOCKED", Weight: 1},
	}
	stats := progress.ProjectStats(p, milestones, nil, now)
	if stats.BlockedCount != 1 || stats.Health != domain.HealthAtRisk {
		t.Fatalf("blocked milestone should drive AT_RISK, got %+v", stats)
	}
}

func TestMilestonesProgressOrderAndFields(t *testing.T) {
	milestones := []domain.Milestone{
		{ID: "m1", ProjectID: "p1", Title: "First", Status: "DONE", Weight: 2},
		{ID: "mx", ProjectID: "other", Title: "Elsewhere", Status: "TODO", Weight: 1},
		{ID: "m2", ProjectID: "p1", Title: "Second", Status: "TODO", Weight: 1},
	}
	tasks := []domain.Task{
		{ID: "t1", MilestoneID: strPtr("m2"), Status: "DONE", Points: 1},
		{ID: "t2", MilestoneID: strPtr("m2"), Status: "TODO", Points: 3},
	}
	rows := progress.MilestonesProgress("p1", milestones, tasks)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].MilestoneID != "m1" || rows[0].ProgressPercent != 100 {
		t.Fatalf("first row wrong: %+v", rows[0])
	}
	if rows[1].Title != "Second" || rows[1].ProgressPercent != 25 || rows[1].TasksDone != 1 || rows[1].TasksTotal != 2 {
		t.Fatalf("second row wrong: %+v", rows[1])
	}
}
