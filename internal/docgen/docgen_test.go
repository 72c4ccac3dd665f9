package docgen_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"orga/internal/docgen"
	"orga/internal/domain"
)

func strPtr(s string) *string { return &s }

var testNow = time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)

func fixture() (domain.Project, []domain.Milestone, []domain.Task) {
	p := domain.Project{
		ID:         "p1",
		Name:       "Orbit",
		Status:     "ACTIVE",
		Priority:   "MED",
		Type:       "CODE",
		StartDate:  strPtr("2025-03-01"),
		TargetDate: strPtr("2025-04-30"),
		TechStack:  []string{"Go", "SQLite"},
		CreatedAt:  "2025-03-01T08:00:00Z",
		UpdatedAt:  "2025-03-11T09:00:00Z",
	}
	milestones := []domain.Milestone{
		{ID: "m1", ProjectID: "p1", Title: "Design", Status: "DONE", Weight: 1, DueDate: strPtr("2025-03-10")},
		{ID: "m2", ProjectID: "p1", Title: "Build", Status: "IN_PROGRESS", Weight: 3},
	}
	tasks := []domain.Task{
		{ID: "t1", ProjectID: "p1", MilestoneID: strPtr("m1"), Title: "Wireframes", Status: "DONE", Points: 2,
			UpdatedAt: "2025-03-11T09:00:00Z"},
		{ID: "t2", ProjectID: "p1", MilestoneID: strPtr("m2"), Title: "Schema", Status: "TODO", Points: 3},
		{ID: "t3", ProjectID: "p1", Title: "Deploy", Status: "BLOCKED", Points: 1},
		{ID: "t4", ProjectID: "p1", MilestoneID: strPtr("m2"), Title: "Integrate API", Status: "DOING", Points: 2},
		{ID: "t9", ProjectID: "other", Title: "Foreign", Status: "TODO", Points: 8},
	}
	return p, milestones, tasks
}

func TestDeriveRollups(t *testing.T) {
	p, milestones, tasks := fixture()
	s := docgen.Derive(p, milestones, tasks, nil, testNow)

	if s.CompletionRate != 25 || s.PointsCompletionRate != 25 {
		t.Fatalf("completion rates = %d%% tasks, %d%% points", s.CompletionRate, s.PointsCompletionRate)
	}
	if s.PointsRemaining != 6 || s.TasksRemaining != 3 {
		t.Fatalf("remaining = %g pts, %d tasks", s.PointsRemaining, s.TasksRemaining)
	}
	if s.MilestonesCount != 2 || s.MilestonesDone != 1 || s.TotalWeight != 4 {
		t.Fatalf("milestones = %d (%d done, weight %g)", s.MilestonesCount, s.MilestonesDone, s.TotalWeight)
	}

	design, build := s.Milestones[0], s.Milestones[1]
	if design.WeightPercent != 25 || build.WeightPercent != 75 {
		t.Fatalf("weight percents = %d / %d", design.WeightPercent, build.WeightPercent)
	}
	if design.StatusSymbol != "x" || build.StatusSymbol != " " {
		t.Fatalf("status symbols = %q / %q", design.StatusSymbol, build.StatusSymbol)
	}
	if design.Progress != 100 {
		t.Fatalf("done milestone progress = %d", design.Progress)
	}
	if build.TasksCount != 2 || build.TaskPoints != 5 || build.TasksTodo != 1 || build.TasksInProgress != 1 {
		t.Fatalf("build rollup = %d tasks %g pts (todo %d, doing %d)",
			build.TasksCount, build.TaskPoints, build.TasksTodo, build.TasksInProgress)
	}
	if build.Order != 2 {
		t.Fatalf("build order = %d", build.Order)
	}

	if len(s.Blocked) != 1 || s.Blocked[0].MilestoneName != "GENERAL" {
		t.Fatalf("unassigned task should fall back to GENERAL, got %+v", s.Blocked)
	}
	if !s.HasBlockers || !s.HasPendingIssues {
		t.Fatalf("blockers=%v pending=%v", s.HasBlockers, s.HasPendingIssues)
	}
	if s.AvgTasksPerMilestone != 2 || s.AvgPointsPerTask != 2 {
		t.Fatalf("averages = %d tasks/milestone, %d pts/task", s.AvgTasksPerMilestone, s.AvgPointsPerTask)
	}

	if s.StartDate != "01 March 2025" || s.TargetDate != "30 April 2025" {
		t.Fatalf("formatted dates = %q / %q", s.StartDate, s.TargetDate)
	}
	if s.DaysElapsed != 11 || s.DaysRemaining != 48 || s.Duration != 60 {
		t.Fatalf("timeline = elapsed %d, remaining %d, duration %d", s.DaysElapsed, s.DaysRemaining, s.Duration)
	}
	if s.Overdue {
		t.Fatal("project with a future target date is not overdue")
	}
}

func TestDerivePlaceholdersAndOverdue(t *testing.T) {
	bare := domain.Project{ID: "p1", Name: "Bare"}
	s := docgen.Derive(bare, nil, nil, nil, testNow)
	if s.StartDate != "not set" || s.TargetDate != "not set" {
		t.Fatalf("missing dates = %q / %q", s.StartDate, s.TargetDate)
	}
	if s.DaysElapsed != 0 || s.DaysRemaining != 0 || s.Duration != 0 {
		t.Fatalf("dateless timeline = %d/%d/%d", s.DaysElapsed, s.DaysRemaining, s.Duration)
	}
	if s.Overdue || s.HasBlockers || s.HasPendingIssues {
		t.Fatalf("empty project flags = overdue %v, blockers %v, pending %v", s.Overdue, s.HasBlockers, s.HasPendingIssues)
	}

	late := domain.Project{ID: "p2", Name: "Late", TargetDate: strPtr("2025-03-10")}
	tasks := []domain.Task{{ID: "t1", ProjectID: "p2", Title: "Ship", Status: "TODO", Points: 1}}
	s = docgen.Derive(late, nil, tasks, nil, testNow)
	if !s.Overdue {
		t.Fatal("past target with open work should be overdue")
	}
	if s.DaysRemaining != -3 {
		t.Fatalf("partially elapsed overdue day should floor down, got %d", s.DaysRemaining)
	}
}

func TestDeriveActivityGrouping(t *testing.T) {
	p := domain.Project{ID: "p1", Name: "Orbit"}
	var events []domain.ActivityEvent
	// 12 distinct days, oldest first, two events on the newest day.
	for day := 1; day <= 12; day++ {
		events = append(events, domain.ActivityEvent{
			ID: fmt.Sprintf("e%d", day), ProjectID: "p1", Type: "TASK_DONE",
			Description: fmt.Sprintf("day %d", day),
			CreatedAt:   fmt.Sprintf("2025-03-%02dT09:00:00Z", day),
		})
	}
	events = append(events,
		domain.ActivityEvent{ID: "e13", ProjectID: "p1", Type: "NOTE_EDITED",
			CreatedAt: "2025-03-12T15:30:00Z"},
		domain.ActivityEvent{ID: "bad", ProjectID: "p1", Type: "TASK_DONE",
			CreatedAt: "yesterday"},
	)

	s := docgen.Derive(p, nil, nil, events, testNow)
	if len(s.RecentActivity) != 10 {
		t.Fatalf("kept %d days, want 10", len(s.RecentActivity))
	}
	if s.RecentActivity[0].Date != "12 March 2025" || s.RecentActivity[9].Date != "03 March 2025" {
		t.Fatalf("day order = %q .. %q", s.RecentActivity[0].Date, s.RecentActivity[9].Date)
	}
	newest := s.RecentActivity[0].Events
	if len(newest) != 2 {
		t.Fatalf("newest day has %d events", len(newest))
	}
	if newest[1].Description != "NOTE_EDITED" || newest[1].Time != "15:30" {
		t.Fatalf("blank description should fall back to the event type, got %+v", newest[1])
	}
}

func TestGenerateUnknownType(t *testing.T) {
	p, milestones, tasks := fixture()
	if _, err := docgen.Generate("POSTMORTEM", p, milestones, tasks, nil, testNow); err == nil {
		t.Fatal("expected error for unknown document type")
	} else if !strings.Contains(err.Error(), "unknown document type") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestReadmeRender(t *testing.T) {
	p, milestones, tasks := fixture()
	md, err := docgen.Generate(docgen.TypeReadme, p, milestones, tasks, nil, testNow)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"# Orbit\n",
		"- **Status**: ACTIVE",
		"- **Tech stack**: Go, SQLite",
		"- **Tasks**: 1/4 done (2/8 points)",
		"- [x] **Design** - 100% (weight 25%, 1 tasks, due 10 March 2025)",
		"- [ ] **Build** - 0% (weight 75%, 2 tasks, due not set)",
		"- Blocked: 1",
		"_Generated on 12 March 2025 at 10:00_",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("readme missing %q:\n%s", want, md)
		}
	}
}

func TestReadmeEmptyStates(t *testing.T) {
	p := domain.Project{ID: "p1", Name: "Bare", Status: "ACTIVE", Priority: "LOW"}
	md, err := docgen.Generate(docgen.TypeReadme, p, nil, nil, nil, testNow)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(md, "No milestones defined yet.") {
		t.Fatalf("missing empty milestones line:\n%s", md)
	}
	if !strings.Contains(md, "- **Start date**: not set") {
		t.Fatalf("missing date placeholder:\n%s", md)
	}
}

func TestSpecRender(t *testing.T) {
	p, milestones, tasks := fixture()
	md, err := docgen.Generate(docgen.TypeSpec, p, milestones, tasks, nil, testNow)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"# Specification - Orbit",
		"No description provided.",
		"- **Total points**: 8",
		"### 1. Design",
		"Due 10 March 2025, weight 25%, 2 points.",
		"- [x] Wireframes (2 pts)",
		"### 2. Build",
		"- [ ] Schema (3 pts)",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("spec missing %q:\n%s", want, md)
		}
	}
}

func TestArchitectureCapsResponsibilities(t *testing.T) {
	p := domain.Project{ID: "p1", Name: "Orbit", TechStack: []string{"Go"}}
	milestones := []domain.Milestone{{ID: "m1", ProjectID: "p1", Title: "Core", Weight: 1}}
	var tasks []domain.Task
	for i := 1; i <= 7; i++ {
		tasks = append(tasks, domain.Task{
			ID: fmt.Sprintf("t%d", i), ProjectID: "p1", MilestoneID: strPtr("m1"),
			Title: fmt.Sprintf("Task %d", i), Status: "TODO", Points: 1,
		})
	}

	md, err := docgen.Generate(docgen.TypeArchitecture, p, milestones, tasks, nil, testNow)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"### Core",
		"Weight 100% of the system, 7 tasks.",
		"- Task 5",
		"- ...and 2 more",
		"## Technology Stack",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("architecture missing %q:\n%s", want, md)
		}
	}
	if strings.Contains(md, "- Task 6\n") {
		t.Fatalf("responsibilities should cap at five tasks:\n%s", md)
	}
}

func TestRunbookRender(t *testing.T) {
	p, milestones, tasks := fixture()
	md, err := docgen.Generate(docgen.TypeRunbook, p, milestones, tasks, nil, testNow)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"## In Progress\n\n- Integrate API (Build, 2 pts)",
		"## Up Next\n\n- Schema (Build, 3 pts)",
		"## Blockers\n\n- Deploy: not specified",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("runbook missing %q:\n%s", want, md)
		}
	}

	// A quiet project renders empty-state lines and drops the blockers section.
	quiet := domain.Project{ID: "p2", Name: "Quiet"}
	md, err = docgen.Generate(docgen.TypeRunbook, quiet, nil, nil, nil, testNow)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(md, "No task currently in progress.") || !strings.Contains(md, "No task currently due.") {
		t.Fatalf("missing empty-state lines:\n%s", md)
	}
	if strings.Contains(md, "## Blockers") {
		t.Fatalf("blockers section should be omitted when empty:\n%s", md)
	}
}

func TestChangelogRender(t *testing.T) {
	p, milestones, tasks := fixture()
	md, err := docgen.Generate(docgen.TypeChangelog, p, milestones, tasks, nil, testNow)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"# Changelog - Orbit",
		"Last updated: 11 March 2025",
		"- Wireframes (Design, 2 pts, completed 11 March 2025)",
		"No recorded activity.",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("changelog missing %q:\n%s", want, md)
		}
	}
}

func TestChangelogCapsActivityAtTwenty(t *testing.T) {
	p := domain.Project{ID: "p1", Name: "Orbit", UpdatedAt: "2025-03-11T09:00:00Z"}
	var events []domain.ActivityEvent
	for i := 0; i < 25; i++ {
		events = append(events, domain.ActivityEvent{
			ID: fmt.Sprintf("e%d", i), ProjectID: "p1", Type: "TASK_DONE",
			Description: "finished something",
			CreatedAt:   fmt.Sprintf("2025-03-11T08:%02d:00Z", i),
		})
	}
	md, err := docgen.Generate(docgen.TypeChangelog, p, nil, nil, events, testNow)
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(md, "finished something"); n != 20 {
		t.Fatalf("rendered %d activity entries, want 20", n)
	}
}

func TestADRRender(t *testing.T) {
	p, milestones, tasks := fixture()
	md, err := docgen.Generate(docgen.TypeADR, p, milestones, tasks, nil, testNow)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"# ADR - Weighted Milestone Tracking for Orbit",
		"Date: 01 March 2025",
		"Status: Accepted",
		"2 milestones carrying a total weight of 4",
		"4 tasks worth 8 points",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("adr missing %q:\n%s", want, md)
		}
	}
}

func TestBuildDocumentNodes(t *testing.T) {
	p, milestones, tasks := fixture()
	doc, err := docgen.BuildDocument(docgen.TypeReadme, p, milestones, tasks, nil, testNow)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Title != "Orbit" {
		t.Fatalf("title = %q", doc.Title)
	}
	first := doc.Nodes[0]
	if first.Kind != "heading" || first.Level != 1 || first.Text != "Orbit" {
		t.Fatalf("first node = %+v", first)
	}
	last := doc.Nodes[len(doc.Nodes)-1]
	if last.Kind != "paragraph" || !strings.HasPrefix(last.Text, "Generated on ") {
		t.Fatalf("last node = %+v", last)
	}

	if _, err := docgen.BuildDocument("POSTMORTEM", p, milestones, tasks, nil, testNow); err == nil {
		t.Fatal("expected error for unknown document type")
	}
}

func TestFilename(t *testing.T) {
	cases := []struct {
		docType string
		name    string
		want    string
	}{
		{docgen.TypeReadme, "My Cool App", "my-cool-app-README.md"},
		{docgen.TypeRunbook, "My Cool App", "my-cool-app-RUNBOOK.md"},
		{docgen.TypeSpec, "My Cool App", "my-cool-app-SPEC-2025-03-12.md"},
		{docgen.TypeADR, "V2 Launch!!", "v2-launch--ADR-2025-03-12.md"},
	}
	for _, c := range cases {
		if got := docgen.Filename(c.docType, c.name, testNow); got != c.want {
			t.Fatalf("Filename(%s, %q) = %q, want %q", c.docType, c.name, got, c.want)
		}
	}
}
