package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"orga/internal/calendar"
	"orga/internal/docgen"
	"orga/internal/domain"
	"orga/internal/progress"
	"orga/internal/repo"
	"orga/internal/report"
)

// ProjectStats loads a project and computes its full progress view.
func (e Engine) ProjectStats(ctx context.Context, projectID string) (domain.ProjectProgress, error) {
	p, milestones, tasks, err := e.loadProject(ctx, projectID)
	if err != nil {
		return domain.ProjectProgress{}, err
	}
	return progress.ProjectStats(p, milestones, tasks, e.now()), nil
}

// MilestoneBreakdown computes per-milestone progress for a project.
func (e Engine) MilestoneBreakdown(ctx context.Context, projectID string) ([]domain.MilestoneProgress, error) {
	_, milestones, tasks, err := e.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return progress.MilestonesProgress(projectID, milestones, tasks), nil
}

// ProjectCalendar projects one project's entities onto the timeline.
func (e Engine) ProjectCalendar(ctx context.Context, projectID, from, to string) ([]domain.CalendarEvent, error) {
	p, milestones, tasks, err := e.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	events := calendar.ProjectEvents(p, milestones, tasks)
	if from != "" && to != "" {
		events = calendar.FilterByDateRange(events, from, to)
	}
	return events, nil
}

// GlobalCalendar merges all projects' timelines.
func (e Engine) GlobalCalendar(ctx context.Context, from, to string) ([]domain.CalendarEvent, error) {
	projects, err := e.Repo.ListProjects(ctx, "")
	if err != nil {
		return nil, err
	}
	milestones, err := e.Repo.ListMilestones(ctx, "")
	if err != nil {
		return nil, err
	}
	tasks, err := e.Repo.ListTasks(ctx, repo.TaskFilters{})
	if err != nil {
		return nil, err
	}
	events := calendar.AllEvents(projects, milestones, tasks)
	if from != "" && to != "" {
		events = calendar.FilterByDateRange(events, from, to)
	}
	return events, nil
}

// GenerateWeeklyReport builds and persists the report for the period. Empty
// period bounds default to the current calendar week. The previous report's
// closing progress seeds the delta; a first report gets delta 0.
func (e Engine) GenerateWeeklyReport(ctx context.Context, projectID, periodStart, periodEnd string) (domain.WeeklyReport, error) {
	p, milestones, tasks, err := e.loadProject(ctx, projectID)
	if err != nil {
		return domain.WeeklyReport{}, err
	}
	if periodStart == "" || periodEnd == "" {
		periodStart, periodEnd = report.WeekBoundaries(e.now())
	}

	activity, err := e.Repo.ListActivity(ctx, projectID, 0)
	if err != nil {
		return domain.WeeklyReport{}, err
	}

	var previous *int
	if last, err := e.Repo.LatestReport(ctx, projectID); err == nil {
		previous = &last.ProgressEnd
	} else if !errors.Is(err, repo.ErrNotFound) {
		return domain.WeeklyReport{}, err
	}

	w := report.Generate(p, milestones, tasks, activity, periodStart, periodEnd, previous, e.now())

	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.WeeklyReport{}, err
	}
	defer tx.Rollback()

	if err := e.Repo.InsertReportTx(ctx, tx, w); err != nil {
		return domain.WeeklyReport{}, fmt.Errorf("insert report: %w", err)
	}
	snap := domain.ProgressSnapshot{
		ID:              uuid.NewString(),
		ProjectID:       projectID,
		Date:            e.now().Format("2006-01-02"),
		ProgressPercent: float64(w.ProgressEnd),
	}
	if err := e.Repo.InsertSnapshotTx(ctx, tx, snap); err != nil {
		return domain.WeeklyReport{}, fmt.Errorf("insert snapshot: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return domain.WeeklyReport{}, err
	}
	return w, nil
}

func (e Engine) DeleteReport(ctx context.Context, id string) error {
	return e.Repo.DeleteReport(ctx, id)
}

// GeneratedDoc is a rendered document plus its suggested filename.
type GeneratedDoc struct {
	Type     string           `json:"type" enum:"README,SPEC,ARCHITECTURE,RUNBOOK,CHANGELOG,ADR"`
	Filename string           `json:"filename" example:"readme-billing-service.md"`
	Markdown string           `json:"markdown"`
	Document *docgen.Document `json:"document,omitempty"`
}

// GenerateDocument renders one of the six document types for a project.
// When structured is set the rich-text node tree is built alongside the
// Markdown.
func (e Engine) GenerateDocument(ctx context.Context, projectID, docType string, structured bool) (GeneratedDoc, error) {
	p, milestones, tasks, err := e.loadProject(ctx, projectID)
	if err != nil {
		return GeneratedDoc{}, err
	}
	activity, err := e.Repo.ListActivity(ctx, projectID, 0)
	if err != nil {
		return GeneratedDoc{}, err
	}
	now := e.now()
	md, err := docgen.Generate(docType, p, milestones, tasks, activity, now)
	if err != nil {
		return GeneratedDoc{}, err
	}
	g := GeneratedDoc{
		Type:     docType,
		Filename: docgen.Filename(docType, p.Name, now),
		Markdown: md,
	}
	if structured {
		doc, err := docgen.BuildDocument(docType, p, milestones, tasks, activity, now)
		if err != nil {
			return GeneratedDoc{}, err
		}
		g.Document = doc
	}
	return g, nil
}

// SaveGeneratedDocument persists a rendered document as an attachment so it
// shows up in the project's document list.
func (e Engine) SaveGeneratedDocument(ctx context.Context, projectID, docType string) (domain.DocumentMeta, error) {
	g, err := e.GenerateDocument(ctx, projectID, docType, false)
	if err != nil {
		return domain.DocumentMeta{}, err
	}
	return e.UploadAttachment(ctx, AttachmentOptions{
		ProjectID: &projectID,
		FileName:  g.Filename,
		MimeType:  "text/markdown",
		Data:      []byte(g.Markdown),
	})
}

func (e Engine) loadProject(ctx context.Context, projectID string) (domain.Project, []domain.Milestone, []domain.Task, error) {
	p, err := e.Repo.GetProject(ctx, projectID)
	if err != nil {
		return domain.Project{}, nil, nil, err
	}
	milestones, err := e.Repo.ListMilestones(ctx, projectID)
	if err != nil {
		return domain.Project{}, nil, nil, err
	}
	tasks, err := e.Repo.ListTasks(ctx, repo.TaskFilters{ProjectID: projectID})
	if err != nil {
		return domain.Project{}, nil, nil, err
	}
	return p, milestones, tasks, nil
}
