package report_test

import (
	"strings"
	"testing"
	"time"

	"orga/internal/domain"
	"orga/internal/report"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

var testNow = time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)

func fixture() (domain.Project, []domain.Milestone, []domain.Task) {
	p := domain.Project{ID: "p1", Name: "Site"}
	milestones := []domain.Milestone{
		{ID: "m1", ProjectID: "p1", Title: "Design", Status: "DONE", Weight: 1,
			DueDate: strPtr("2025-03-08"), UpdatedAt: "2025-03-11T09:00:00Z"},
		{ID: "m2", ProjectID: "p1", Title: "Build", Status: "IN_PROGRESS", Weight: 1,
			DueDate: strPtr("2025-04-01")},
	}
	tasks := []domain.Task{
		{ID: "t1", ProjectID: "p1", MilestoneID: strPtr("m2"), Title: "Wireframes", Status: "DONE", Points: 2,
			CreatedAt: "2025-03-01T08:00:00Z", UpdatedAt: "2025-03-11T09:00:00Z"},
		{ID: "t2", ProjectID: "p1", MilestoneID: strPtr("m2"), Title: "Backend", Status: "BLOCKED", Points: 2,
			BlockedReason: strPtr("waiting on credentials"),
			CreatedAt:     "2025-03-11T08:00:00Z", UpdatedAt: "2025-03-11T08:00:00Z"},
	}
	return p, milestones, tasks
}

func TestFirstReportHasZeroDelta(t *testing.T) {
	p, milestones, tasks := fixture()
	r := report.Generate(p, milestones, tasks, nil, "2025-03-10", "2025-03-16", nil, testNow)
	if r.Delta != 0 {
		t.Fatalf("first report delta should be 0, got %d", r.Delta)
	}
	if r.ProgressStart != r.ProgressEnd {
		t.Fatalf("first report start should equal end, got %d vs %d", r.ProgressStart, r.ProgressEnd)
	}
	if !strings.Contains(r.Markdown, "flat +0%") {
		t.Fatalf("expected flat +0%% indicator, got:\n%s", r.Markdown)
	}
}

func TestDeltaAgainstPreviousReport(t *testing.T) {
	p, milestones, tasks := fixture()
	r := report.Generate(p, milestones, tasks, nil, "2025-03-10", "2025-03-16", intPtr(40), testNow)
	// m1 is DONE (ratio 1), m2 at 2/4 points; equal weights -> 75%.
	if r.ProgressEnd != 75 {
		t.Fatalf("expected 75%% progress, got %d", r.ProgressEnd)
	}
	if r.ProgressStart != 40 || r.Delta != 35 {
		t.Fatalf("expected 40 -> 75 with delta 35, got %+v", r)
	}
	if !strings.Contains(r.Markdown, "up +35%") {
		t.Fatalf("expected up indicator, got:\n%s", r.Markdown)
	}
}

func TestNegativeDeltaShowsDown(t *testing.T) {
	p, milestones, tasks := fixture()
	r := report.Generate(p, milestones, tasks, nil, "2025-03-10", "2025-03-16", intPtr(90), testNow)
	if r.Delta != -15 {
		t.Fatalf("expected delta -15, got %d", r.Delta)
	}
	if !strings.Contains(r.Markdown, "down -15%") {
		t.Fatalf("expected down indicator, got:\n%s", r.Markdown)
	}
}

func TestReportSections(t *testing.T) {
	p, milestones, tasks := fixture()
	r := report.Generate(p, milestones, tasks, nil, "2025-03-10", "2025-03-16", nil, testNow)

	for _, want := range []string{
		"# Weekly Report - Site",
		"**Period**: 2025-03-10 to 2025-03-16",
		"## Milestones Completed",
		"- Design",
		"## Tasks Completed",
		"- Wireframes (2 pts)",
		"## New Tasks",
		"- Backend (2 pts)",
		"## Blockers",
		"- Backend - waiting on credentials",
		"## Next Milestones",
		"- Build (2025-04-01)",
		"_Generated automatically by Orga_",
	} {
		if !strings.Contains(r.Markdown, want) {
			t.Fatalf("markdown missing %q:\n%s", want, r.Markdown)
		}
	}
	// Wireframes was created before the period: completed this week, not new.
	if strings.Contains(r.Markdown, "## New Tasks\n\n- Wireframes") {
		t.Fatalf("task created outside the period listed as new:\n%s", r.Markdown)
	}
}

func TestEmptySectionsOmitted(t *testing.T) {
	p := domain.Project{ID: "p1", Name: "Quiet"}
	r := report.Generate(p, nil, nil, nil, "2025-03-10", "2025-03-16", nil, testNow)
	for _, section := range []string{"## Milestones Completed", "## Tasks Completed", "## New Tasks", "## Blockers", "## Next Milestones"} {
		if strings.Contains(r.Markdown, section) {
			t.Fatalf("empty section %q should be omitted:\n%s", section, r.Markdown)
		}
	}
	if !strings.Contains(r.Markdown, "## Progress") {
		t.Fatalf("progress section always present:\n%s", r.Markdown)
	}
}

func TestNextMilestonesCappedAtThreeByDueDate(t *testing.T) {
	p := domain.Project{ID: "p1", Name: "Busy"}
	milestones := []domain.Milestone{
		{ID: "m1", ProjectID: "p1", Title: "Fourth", Status: "TODO", Weight: 1, DueDate: strPtr("2025-07-01")},
		{ID: "m2", ProjectID: "p1", Title: "First", Status: "TODO", Weight: 1, DueDate: strPtr("2025-04-01")},
		{ID: "m3", ProjectID: "p1", Title: "Second", Status: "TODO", Weight: 1, DueDate: strPtr("2025-05-01")},
		{ID: "m4", ProjectID: "p1", Title: "Third", Status: "TODO", Weight: 1, DueDate: strPtr("2025-06-01")},
	}
	r := report.Generate(p, milestones, nil, nil, "2025-03-10", "2025-03-16", nil, testNow)
	if strings.Contains(r.Markdown, "Fourth") {
		t.Fatalf("only the three nearest milestones should appear:\n%s", r.Markdown)
	}
	first := strings.Index(r.Markdown, "First")
	second := strings.Index(r.Markdown, "Second")
	third := strings.Index(r.Markdown, "Third")
	if !(first < second && second < third) {
		t.Fatalf("milestones not ordered by due date:\n%s", r.Markdown)
	}
}

func TestWeekBoundaries(t *testing.T) {
	cases := []struct {
		date  time.Time
		start string
		end   string
	}{
		// Wednesday
		{time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC), "2025-03-10", "2025-03-16"},
		// Monday maps to itself
		{time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), "2025-03-10", "2025-03-16"},
		// Sunday belongs to the week ending on it
		{time.Date(2025, 3, 16, 23, 0, 0, 0, time.UTC), "2025-03-10", "2025-03-16"},
		// Year boundary
		{time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), "2024-12-30", "2025-01-05"},
	}
	for _, c := range cases {
		start, end := report.WeekBoundaries(c.date)
		if start != c.start || end != c.end {
			t.Fatalf("%s: got %s..%s, want %s..%s", c.date, start, end, c.start, c.end)
		}
	}
}
