// Package engine holds the mutation layer: every write goes through here so
// timestamps are stamped and activity events land in the same transaction
// as the change they describe.
package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"orga/internal/config"
	"orga/internal/domain"
	"orga/internal/events"
	"orga/internal/filestore"
	"orga/internal/repo"
)

type Engine struct {
	DB        *sql.DB
	Repo      repo.Repo
	Config    *config.Config
	Workspace filestore.Workspace
	Now       func() time.Time
}

func New(db *sql.DB, cfg *config.Config) (Engine, error) {
	e := Engine{
		DB:     db,
		Repo:   repo.Repo{DB: db},
		Config: cfg,
		Now:    time.Now,
	}
	if cfg != nil && cfg.Storage.WorkspaceDir != "" {
		ws, err := filestore.Link(cfg.Storage.WorkspaceDir)
		if err != nil {
			return Engine{}, fmt.Errorf("link workspace: %w", err)
		}
		e.Workspace = ws
	}
	return e, nil
}

func (e Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e Engine) stamp() string {
	return e.now().UTC().Format(time.RFC3339)
}

// ProjectCreateOptions are parameters for creating a project.
type ProjectCreateOptions struct {
	Name           string
	Description    string
	Priority       string
	Type           string
	Tags           []string
	Objectives     []string
	StartDate      *string
	TargetDate     *string
	TenderDeadline *string
	TenderBudget   *float64
	TenderClient   *string
	TenderStatus   *string
	RepositoryURL  *string
	TechStack      []string
}

func (e Engine) CreateProject(ctx context.Context, opts ProjectCreateOptions) (domain.Project, error) {
	if opts.Name == "" {
		return domain.Project{}, errors.New("name is required")
	}
	if opts.Priority == "" {
		opts.Priority = "MED"
		if e.Config != nil {
			opts.Priority = e.Config.Project.DefaultPriority
		}
	}
	if opts.Type == "" {
		opts.Type = "CODE"
		if e.Config != nil {
			opts.Type = e.Config.Project.DefaultType
		}
	}
	now := e.stamp()
	p := domain.Project{
		ID:             uuid.NewString(),
		Name:           opts.Name,
		Description:    opts.Description,
		Status:         "ACTIVE",
		Priority:       opts.Priority,
		Type:           opts.Type,
		Tags:           opts.Tags,
		Objectives:     opts.Objectives,
		StartDate:      opts.StartDate,
		TargetDate:     opts.TargetDate,
		TenderDeadline: opts.TenderDeadline,
		TenderBudget:   opts.TenderBudget,
		TenderClient:   opts.TenderClient,
		TenderStatus:   opts.TenderStatus,
		RepositoryURL:  opts.RepositoryURL,
		TechStack:      opts.TechStack,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := e.Repo.InsertProject(ctx, p); err != nil {
		return domain.Project{}, fmt.Errorf("insert project: %w", err)
	}
	return p, nil
}

// ProjectUpdateOptions carry partial updates; nil fields stay untouched.
type ProjectUpdateOptions struct {
	Name           *string
	Description    *string
	Status         *string
	Priority       *string
	Tags           []string
	Objectives     []string
	StartDate      *string
	TargetDate     *string
	TenderDeadline *string
	TenderBudget   *float64
	TenderClient   *string
	TenderStatus   *string
	RepositoryURL  *string
	TechStack      []string
}

func (e Engine) UpdateProject(ctx context.Context, id string, opts ProjectUpdateOptions) (domain.Project, error) {
	p, err := e.Repo.GetProject(ctx, id)
	if err != nil {
		return domain.Project{}, err
	}
	if opts.Name != nil {
		p.Name = *opts.Name
	}
	if opts.Description != nil {
		p.Description = *opts.Description
	}
	if opts.Status != nil {
		p.Status = *opts.Status
	}
	if opts.Priority != nil {
		p.Priority = *opts.Priority
	}
	if opts.Tags != nil {
		p.Tags = opts.Tags
	}
	if opts.Objectives != nil {
		p.Objectives = opts.Objectives
	}
	if opts.StartDate != nil {
		p.StartDate = opts.StartDate
	}
	if opts.TargetDate != nil {
		p.TargetDate = opts.TargetDate
	}
	if opts.TenderDeadline != nil {
		p.TenderDeadline = opts.TenderDeadline
	}
	if opts.TenderBudget != nil {
		p.TenderBudget = opts.TenderBudget
	}
	if opts.TenderClient != nil {
		p.TenderClient = opts.TenderClient
	}
	if opts.TenderStatus != nil {
		p.TenderStatus = opts.TenderStatus
	}
	if opts.RepositoryURL != nil {
		p.RepositoryURL = opts.RepositoryURL
	}
	if opts.TechStack != nil {
		p.TechStack = opts.TechStack
	}
	p.UpdatedAt = e.stamp()
	if err := e.Repo.UpdateProject(ctx, p); err != nil {
		return domain.Project{}, err
	}
	return p, nil
}

func (e Engine) ArchiveProject(ctx context.Context, id string) (domain.Project, error) {
	status := "ARCHIVED"
	return e.UpdateProject(ctx, id, ProjectUpdateOptions{Status: &status})
}

func (e Engine) DeleteProject(ctx context.Context, id string) error {
	return e.Repo.DeleteProject(ctx, id)
}

// MilestoneCreateOptions are parameters for creating a milestone.
type MilestoneCreateOptions struct {
	ProjectID string
	Title     string
	DueDate   *string
	Weight    float64
}

func (e Engine) CreateMilestone(ctx context.Context, opts MilestoneCreateOptions) (domain.Milestone, error) {
	if opts.Title == "" {
		return domain.Milestone{}, errors.New("title is required")
	}
	if _, err := e.Repo.GetProject(ctx, opts.ProjectID); err != nil {
		return domain.Milestone{}, err
	}
	if opts.Weight == 0 {
		opts.Weight = 1
	}
	now := e.stamp()
	m := domain.Milestone{
		ID:        uuid.NewString(),
		ProjectID: opts.ProjectID,
		Title:     opts.Title,
		DueDate:   opts.DueDate,
		Status:    "TODO",
		Weight:    opts.Weight,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := e.Repo.InsertMilestone(ctx, m); err != nil {
		return domain.Milestone{}, fmt.Errorf("insert milestone: %w", err)
	}
	return m, nil
}

// MilestoneUpdateOptions carry partial updates; nil fields stay untouched.
type MilestoneUpdateOptions struct {
	Title         *string
	DueDate       *string
	Status        *string
	Weight        *float64
	BlockedReason *string
}

// UpdateMilestone applies the update and records MILESTONE_DONE when the
// status transitions into DONE.
func (e Engine) UpdateMilestone(ctx context.Context, id string, opts MilestoneUpdateOptions) (domain.Milestone, error) {
	m, err := e.Repo.GetMilestone(ctx, id)
	if err != nil {
		return domain.Milestone{}, err
	}
	prevStatus := m.Status
	if opts.Title != nil {
		m.Title = *opts.Title
	}
	if opts.DueDate != nil {
		m.DueDate = opts.DueDate
	}
	if opts.Status != nil {
		m.Status = *opts.Status
	}
	if opts.Weight != nil {
		m.Weight = *opts.Weight
	}
	if opts.BlockedReason != nil {
		m.BlockedReason = opts.BlockedReason
	}
	m.UpdatedAt = e.stamp()

	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Milestone{}, err
	}
	defer tx.Rollback()

	if err := e.Repo.UpdateMilestoneTx(ctx, tx, m); err != nil {
		return domain.Milestone{}, err
	}
	if m.Status == "DONE" && prevStatus != "DONE" {
		if err := events.Append(ctx, tx, events.Event{
			Type:        domain.EventMilestoneDone,
			ProjectID:   m.ProjectID,
			EntityID:    m.ID,
			Description: fmt.Sprintf("Milestone completed: %s", m.Title),
			Payload:     map[string]any{"title": m.Title},
			CreatedAt:   m.UpdatedAt,
		}); err != nil {
			return domain.Milestone{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return domain.Milestone{}, err
	}
	return m, nil
}

func (e Engine) DeleteMilestone(ctx context.Context, id string) error {
	return e.Repo.DeleteMilestone(ctx, id)
}

// TaskCreateOptions are parameters for creating a task.
type TaskCreateOptions struct {
	ProjectID   string
	MilestoneID *string
	Title       string
	DueDate     *string
	Points      float64
}

func (e Engine) CreateTask(ctx context.Context, opts TaskCreateOptions) (domain.Task, error) {
	if opts.Title == "" {
		return domain.Task{}, errors.New("title is required")
	}
	if _, err := e.Repo.GetProject(ctx, opts.ProjectID); err != nil {
		return domain.Task{}, err
	}
	if opts.MilestoneID != nil {
		m, err := e.Repo.GetMilestone(ctx, *opts.MilestoneID)
		if err != nil {
			return domain.Task{}, err
		}
		if m.ProjectID != opts.ProjectID {
			return domain.Task{}, fmt.Errorf("milestone %s not in project %s", m.ID, opts.ProjectID)
		}
	}
	if opts.Points == 0 {
		opts.Points = 1
		if e.Config != nil {
			opts.Points = e.Config.Tasks.DefaultPoints
		}
	}
	order, err := e.Repo.NextTaskOrder(ctx, opts.ProjectID)
	if err != nil {
		return domain.Task{}, err
	}
	now := e.stamp()
	t := domain.Task{
		ID:          uuid.NewString(),
		ProjectID:   opts.ProjectID,
		MilestoneID: opts.MilestoneID,
		Title:       opts.Title,
		Status:      "TODO",
		DueDate:     opts.DueDate,
		Points:      opts.Points,
		Order:       order,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := e.Repo.InsertTask(ctx, t); err != nil {
		return domain.Task{}, fmt.Errorf("insert task: %w", err)
	}
	return t, nil
}

// TaskUpdateOptions carry partial updates; nil fields stay untouched.
// ClearMilestone detaches the task from its milestone.
type TaskUpdateOptions struct {
	MilestoneID    *string
	ClearMilestone bool
	Title          *string
	Status         *string
	DueDate        *string
	Points         *float64
	Order          *int
	BlockedReason  *string
}

// UpdateTask applies the update and records TASK_DONE or TASK_BLOCKED when
// the status transitions into those states.
func (e Engine) UpdateTask(ctx context.Context, id string, opts TaskUpdateOptions) (domain.Task, error) {
	t, err := e.Repo.GetTask(ctx, id)
	if err != nil {
		return domain.Task{}, err
	}
	prevStatus := t.Status
	if opts.ClearMilestone {
		t.MilestoneID = nil
	} else if opts.MilestoneID != nil {
		m, err := e.Repo.GetMilestone(ctx, *opts.MilestoneID)
		if err != nil {
			return domain.Task{}, err
		}
		if m.ProjectID != t.ProjectID {
			return domain.Task{}, fmt.Errorf("milestone %s not in project %s", m.ID, t.ProjectID)
		}
		t.MilestoneID = opts.MilestoneID
	}
	if opts.Title != nil {
		t.Title = *opts.Title
	}
	if opts.Status != nil {
		t.Status = *opts.Status
	}
	if opts.DueDate != nil {
		t.DueDate = opts.DueDate
	}
	if opts.Points != nil {
		t.Points = *opts.Points
	}
	if opts.Order != nil {
		t.Order = *opts.Order
	}
	if opts.BlockedReason != nil {
		t.BlockedReason = opts.BlockedReason
	}
	t.UpdatedAt = e.stamp()

	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Task{}, err
	}
	defer tx.Rollback()

	if err := e.Repo.UpdateTaskTx(ctx, tx, t); err != nil {
		return domain.Task{}, err
	}
	if t.Status != prevStatus {
		switch t.Status {
		case "DONE":
			if err := events.Append(ctx, tx, events.Event{
				Type:        domain.EventTaskDone,
				ProjectID:   t.ProjectID,
				EntityID:    t.ID,
				Description: fmt.Sprintf("Task completed: %s", t.Title),
				Payload:     map[string]any{"title": t.Title, "points": t.Points},
				CreatedAt:   t.UpdatedAt,
			}); err != nil {
				return domain.Task{}, err
			}
		case "BLOCKED":
			payload := map[string]any{"title": t.Title}
			if t.BlockedReason != nil {
				payload["reason"] = *t.BlockedReason
			}
			if err := events.Append(ctx, tx, events.Event{
				Type:        domain.EventTaskBlocked,
				ProjectID:   t.ProjectID,
				EntityID:    t.ID,
				Description: fmt.Sprintf("Task blocked: %s", t.Title),
				Payload:     payload,
				CreatedAt:   t.UpdatedAt,
			}); err != nil {
				return domain.Task{}, err
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return domain.Task{}, err
	}
	return t, nil
}

func (e Engine) DeleteTask(ctx context.Context, id string) error {
	return e.Repo.DeleteTask(ctx, id)
}
