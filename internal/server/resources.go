package server

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"orga/internal/domain"
	"orga/internal/engine"
	"orga/internal/repo"
)

func registerProjects(api huma.API, eng engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "create-project",
		Method:      http.MethodPost,
		Path:        "/projects",
		Summary:     "Create a project",
	}, func(ctx context.Context, input *struct {
		Body createProjectRequest
	}) (*projectOutput, error) {
		p, err := eng.CreateProject(ctx, engine.ProjectCreateOptions{
			Name:           input.Body.Name,
			Description:    input.Body.Description,
			Priority:       input.Body.Priority,
			Type:           input.Body.Type,
			Tags:           input.Body.Tags,
			Objectives:     input.Body.Objectives,
			StartDate:      input.Body.StartDate,
			TargetDate:     input.Body.TargetDate,
			TenderDeadline: input.Body.TenderDeadline,
			TenderBudget:   input.Body.TenderBudget,
			TenderClient:   input.Body.TenderClient,
			TenderStatus:   input.Body.TenderStatus,
			RepositoryURL:  input.Body.RepositoryURL,
			TechStack:      input.Body.TechStack,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &projectOutput{Body: p}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-projects",
		Method:      http.MethodGet,
		Path:        "/projects",
		Summary:     "List projects",
	}, func(ctx context.Context, input *struct {
		Status string `query:"status" enum:"ACTIVE,ARCHIVED," required:"false"`
	}) (*struct {
		Body []domain.Project
	}, error) {
		projects, err := eng.Repo.ListProjects(ctx, input.Status)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []domain.Project
		}{Body: projects}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-project",
		Method:      http.MethodGet,
		Path:        "/projects/{id}",
		Summary:     "Get a project",
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*projectOutput, error) {
		p, err := eng.Repo.GetProject(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &projectOutput{Body: p}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-project",
		Method:      http.MethodPatch,
		Path:        "/projects/{id}",
		Summary:     "Update a project",
	}, func(ctx context.Context, input *struct {
		ID   string `path:"id"`
		Body updateProjectRequest
	}) (*projectOutput, error) {
		p, err := eng.UpdateProject(ctx, input.ID, engine.ProjectUpdateOptions{
			Name:           input.Body.Name,
			Description:    input.Body.Description,
			Status:         input.Body.Status,
			Priority:       input.Body.Priority,
			Tags:           input.Body.Tags,
			Objectives:     input.Body.Objectives,
			StartDate:      input.Body.StartDate,
			TargetDate:     input.Body.TargetDate,
			TenderDeadline: input.Body.TenderDeadline,
			TenderBudget:   input.Body.TenderBudget,
			TenderClient:   input.Body.TenderClient,
			TenderStatus:   input.Body.TenderStatus,
			RepositoryURL:  input.Body.RepositoryURL,
			TechStack:      input.Body.TechStack,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &projectOutput{Body: p}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "archive-project",
		Method:      http.MethodPost,
		Path:        "/projects/{id}/archive",
		Summary:     "Archive a project",
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*projectOutput, error) {
		p, err := eng.ArchiveProject(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &projectOutput{Body: p}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-project",
		Method:      http.MethodDelete,
		Path:        "/projects/{id}",
		Summary:     "Delete a project and everything under it",
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*struct{}, error) {
		if err := eng.DeleteProject(ctx, input.ID); err != nil {
			return nil, handleError(err)
		}
		return &struct{}{}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "project-stats",
		Method:      http.MethodGet,
		Path:        "/projects/{id}/stats",
		Summary:     "Progress, points and health for a project",
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*struct {
		Body domain.ProjectProgress
	}, error) {
		stats, err := eng.ProjectStats(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.ProjectProgress
		}{Body: stats}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "project-milestone-progress",
		Method:      http.MethodGet,
		Path:        "/projects/{id}/milestones/progress",
		Summary:     "Per-milestone completion ratios",
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*struct {
		Body []domain.MilestoneProgress
	}, error) {
		rows, err := eng.MilestoneBreakdown(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []domain.MilestoneProgress
		}{Body: rows}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "project-activity",
		Method:      http.MethodGet,
		Path:        "/projects/{id}/activity",
		Summary:     "Recent activity events for a project",
	}, func(ctx context.Context, input *struct {
		ID    string `path:"id"`
		Limit int    `query:"limit" default:"50" minimum:"1" maximum:"500"`
	}) (*struct {
		Body []domain.ActivityEvent
	}, error) {
		if _, err := eng.Repo.GetProject(ctx, input.ID); err != nil {
			return nil, handleError(err)
		}
		events, err := eng.Repo.ListActivity(ctx, input.ID, input.Limit)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []domain.ActivityEvent
		}{Body: events}, nil
	})
}

func registerMilestones(api huma.API, eng engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "create-milestone",
		Method:      http.MethodPost,
		Path:        "/milestones",
		Summary:     "Create a milestone",
	}, func(ctx context.Context, input *struct {
		Body createMilestoneRequest
	}) (*milestoneOutput, error) {
		weight := 1.0
		if input.Body.Weight != nil {
			weight = *input.Body.Weight
		}
		m, err := eng.CreateMilestone(ctx, engine.MilestoneCreateOptions{
			ProjectID: input.Body.ProjectID,
			Title:     input.Body.Title,
			DueDate:   input.Body.DueDate,
			Weight:    weight,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &milestoneOutput{Body: m}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-milestones",
		Method:      http.MethodGet,
		Path:        "/projects/{id}/milestones",
		Summary:     "List a project's milestones",
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*struct {
		Body []domain.Milestone
	}, error) {
		ms, err := eng.Repo.ListMilestones(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []domain.Milestone
		}{Body: ms}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-milestone",
		Method:      http.MethodGet,
		Path:        "/milestones/{id}",
		Summary:     "Get a milestone",
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*milestoneOutput, error) {
		m, err := eng.Repo.GetMilestone(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &milestoneOutput{Body: m}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-milestone",
		Method:      http.MethodPatch,
		Path:        "/milestones/{id}",
		Summary:     "Update a milestone",
	}, func(ctx context.Context, input *struct {
		ID   string `path:"id"`
		Body updateMilestoneRequest
	}) (*milestoneOutput, error) {
		m, err := eng.UpdateMilestone(ctx, input.ID, engine.MilestoneUpdateOptions{
			Title:         input.Body.Title,
			DueDate:       input.Body.DueDate,
			Status:        input.Body.Status,
			Weight:        input.Body.Weight,
			BlockedReason: input.Body.BlockedReason,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &milestoneOutput{Body: m}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-milestone",
		Method:      http.MethodDelete,
		Path:        "/milestones/{id}",
		Summary:     "Delete a milestone",
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*struct{}, error) {
		if err := eng.DeleteMilestone(ctx, input.ID); err != nil {
			return nil, handleError(err)
		}
		return &struct{}{}, nil
	})
}

func registerTasks(api huma.API, eng engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "create-task",
		Method:      http.MethodPost,
		Path:        "/tasks",
		Summary:     "Create a task",
	}, func(ctx context.Context, input *struct {
		Body createTaskRequest
	}) (*taskOutput, error) {
		var points float64
		if input.Body.Points != nil {
			points = *input.Body.Points
		}
		t, err := eng.CreateTask(ctx, engine.TaskCreateOptions{
			ProjectID:   input.Body.ProjectID,
			MilestoneID: input.Body.MilestoneID,
			Title:       input.Body.Title,
			DueDate:     input.Body.DueDate,
			Points:      points,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &taskOutput{Body: t}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-tasks",
		Method:      http.MethodGet,
		Path:        "/tasks",
		Summary:     "List tasks",
	}, func(ctx context.Context, input *struct {
		ProjectID   string `query:"project_id" required:"false"`
		MilestoneID string `query:"milestone_id" required:"false"`
		Status      string `query:"status" enum:"TODO,DOING,DONE,BLOCKED," required:"false"`
	}) (*struct {
		Body []domain.Task
	}, error) {
		tasks, err := eng.Repo.ListTasks(ctx, repo.TaskFilters{
			ProjectID:   input.ProjectID,
			MilestoneID: input.MilestoneID,
			Status:      input.Status,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []domain.Task
		}{Body: tasks}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-task",
		Method:      http.MethodGet,
		Path:        "/tasks/{id}",
		Summary:     "Get a task",
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*taskOutput, error) {
		t, err := eng.Repo.GetTask(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &taskOutput{Body: t}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-task",
		Method:      http.MethodPatch,
		Path:        "/tasks/{id}",
		Summary:     "Update a task",
	}, func(ctx context.Context, input *struct {
		ID   string `path:"id"`
		Body updateTaskRequest
	}) (*taskOutput, error) {
		t, err := eng.UpdateTask(ctx, input.ID, engine.TaskUpdateOptions{
			MilestoneID:    input.Body.MilestoneID,
			ClearMilestone: input.Body.ClearMilestone,
			Title:          input.Body.Title,
			Status:         input.Body.Status,
			DueDate:        input.Body.DueDate,
			Points:         input.Body.Points,
			Order:          input.Body.Order,
			BlockedReason:  input.Body.BlockedReason,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &taskOutput{Body: t}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-task",
		Method:      http.MethodDelete,
		Path:        "/tasks/{id}",
		Summary:     "Delete a task",
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*struct{}, error) {
		if err := eng.DeleteTask(ctx, input.ID); err != nil {
			return nil, handleError(err)
		}
		return &struct{}{}, nil
	})
}

func registerCalendar(api huma.API, eng engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "project-calendar",
		Method:      http.MethodGet,
		Path:        "/projects/{id}/calendar",
		Summary:     "Dated events for one project",
	}, func(ctx context.Context, input *struct {
		ID   string `path:"id"`
		From string `query:"from" required:"false" format:"date"`
		To   string `query:"to" required:"false" format:"date"`
	}) (*struct {
		Body []domain.CalendarEvent
	}, error) {
		events, err := eng.ProjectCalendar(ctx, input.ID, input.From, input.To)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []domain.CalendarEvent
		}{Body: events}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "global-calendar",
		Method:      http.MethodGet,
		Path:        "/calendar",
		Summary:     "Dated events across all active projects",
	}, func(ctx context.Context, input *struct {
		From string `query:"from" required:"false" format:"date"`
		To   string `query:"to" required:"false" format:"date"`
	}) (*struct {
		Body []domain.CalendarEvent
	}, error) {
		events, err := eng.GlobalCalendar(ctx, input.From, input.To)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []domain.CalendarEvent
		}{Body: events}, nil
	})
}

func registerReports(api huma.API, eng engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "generate-report",
		Method:      http.MethodPost,
		Path:        "/projects/{id}/reports",
		Summary:     "Generate a weekly report",
	}, func(ctx context.Context, input *struct {
		ID   string `path:"id"`
		Body struct {
			PeriodStart string `json:"period_start,omitempty" format:"date"`
			PeriodEnd   string `json:"period_end,omitempty" format:"date"`
		}
	}) (*reportOutput, error) {
		r, err := eng.GenerateWeeklyReport(ctx, input.ID, input.Body.PeriodStart, input.Body.PeriodEnd)
		if err != nil {
			return nil, handleError(err)
		}
		return &reportOutput{Body: r}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-reports",
		Method:      http.MethodGet,
		Path:        "/projects/{id}/reports",
		Summary:     "List a project's weekly reports",
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*struct {
		Body []domain.WeeklyReport
	}, error) {
		reports, err := eng.Repo.ListReports(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []domain.WeeklyReport
		}{Body: reports}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-report",
		Method:      http.MethodGet,
		Path:        "/reports/{id}",
		Summary:     "Get a weekly report",
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*reportOutput, error) {
		r, err := eng.Repo.GetReport(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &reportOutput{Body: r}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-report",
		Method:      http.MethodDelete,
		Path:        "/reports/{id}",
		Summary:     "Delete a weekly report",
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*struct{}, error) {
		if err := eng.DeleteReport(ctx, input.ID); err != nil {
			return nil, handleError(err)
		}
		return &struct{}{}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-snapshots",
		Method:      http.MethodGet,
		Path:        "/projects/{id}/snapshots",
		Summary:     "Progress snapshots recorded with each report",
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*struct {
		Body []domain.ProgressSnapshot
	}, error) {
		snaps, err := eng.Repo.ListSnapshots(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []domain.ProgressSnapshot
		}{Body: snaps}, nil
	})
}

func registerDocuments(api huma.API, eng engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "generate-document",
		Method:      http.MethodGet,
		Path:        "/projects/{id}/documents/{type}",
		Summary:     "Render a document from live project data",
		Description: "Rendering is read-only; POST the same path to persist the result as an attachment.",
	}, func(ctx context.Context, input *struct {
		ID         string `path:"id"`
		Type       string `path:"type" enum:"README,SPEC,ARCHITECTURE,RUNBOOK,CHANGELOG,ADR"`
		Structured bool   `query:"structured" required:"false" doc:"Include the typed node list alongside the markdown"`
	}) (*struct {
		Body engine.GeneratedDoc
	}, error) {
		doc, err := eng.GenerateDocument(ctx, input.ID, input.Type, input.Structured)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body engine.GeneratedDoc
		}{Body: doc}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "save-document",
		Method:      http.MethodPost,
		Path:        "/projects/{id}/documents/{type}",
		Summary:     "Render a document and store it as an attachment",
	}, func(ctx context.Context, input *struct {
		ID   string `path:"id"`
		Type string `path:"type" enum:"README,SPEC,ARCHITECTURE,RUNBOOK,CHANGELOG,ADR"`
	}) (*documentMetaOutput, error) {
		meta, err := eng.SaveGeneratedDocument(ctx, input.ID, input.Type)
		if err != nil {
			return nil, handleError(err)
		}
		return &documentMetaOutput{Body: meta}, nil
	})
}

func registerAttachments(api huma.API, eng engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "upload-attachment",
		Method:      http.MethodPost,
		Path:        "/attachments",
		Summary:     "Upload a file",
		Description: "Files under the embed limit are stored inside the database; larger files go to the linked workspace directory.",
	}, func(ctx context.Context, input *struct {
		Body uploadAttachmentRequest
	}) (*documentMetaOutput, error) {
		meta, err := eng.UploadAttachment(ctx, engine.AttachmentOptions{
			ProjectID: input.Body.ProjectID,
			Title:     input.Body.Title,
			FileName:  input.Body.FileName,
			MimeType:  input.Body.MimeType,
			Tags:      input.Body.Tags,
			Data:      input.Body.Data,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &documentMetaOutput{Body: meta}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-attachments",
		Method:      http.MethodGet,
		Path:        "/attachments",
		Summary:     "List attachment metadata",
	}, func(ctx context.Context, input *struct {
		ProjectID string `query:"project_id" required:"false"`
	}) (*struct {
		Body []domain.DocumentMeta
	}, error) {
		docs, err := eng.Repo.ListDocuments(ctx, input.ProjectID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []domain.DocumentMeta
		}{Body: docs}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-attachment",
		Method:      http.MethodGet,
		Path:        "/attachments/{id}",
		Summary:     "Get attachment metadata",
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*documentMetaOutput, error) {
		meta, err := eng.Repo.GetDocument(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &documentMetaOutput{Body: meta}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "download-attachment",
		Method:      http.MethodGet,
		Path:        "/attachments/{id}/content",
		Summary:     "Download attachment bytes",
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*struct {
		ContentType string `header:"Content-Type"`
		Body        []byte
	}, error) {
		data, meta, err := eng.DownloadAttachment(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		ct := meta.MimeType
		if ct == "" {
			ct = "application/octet-stream"
		}
		return &struct {
			ContentType string `header:"Content-Type"`
			Body        []byte
		}{ContentType: ct, Body: data}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-attachment",
		Method:      http.MethodDelete,
		Path:        "/attachments/{id}",
		Summary:     "Delete an attachment and its stored bytes",
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*struct{}, error) {
		if err := eng.DeleteAttachment(ctx, input.ID); err != nil {
			return nil, handleError(err)
		}
		return &struct{}{}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "storage-stats",
		Method:      http.MethodGet,
		Path:        "/storage/stats",
		Summary:     "Embedded and workspace storage totals",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body engine.StorageStats
	}, error) {
		stats, err := eng.AttachmentStats(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body engine.StorageStats
		}{Body: stats}, nil
	})
}

func registerNotes(api huma.API, eng engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "create-note",
		Method:      http.MethodPost,
		Path:        "/notes",
		Summary:     "Create a note",
	}, func(ctx context.Context, input *struct {
		Body noteRequest
	}) (*noteOutput, error) {
		n, err := eng.CreateNote(ctx, engine.NoteOptions{
			ProjectID: input.Body.ProjectID,
			Title:     input.Body.Title,
			ContentMD: input.Body.ContentMD,
			Tags:      input.Body.Tags,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &noteOutput{Body: n}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-notes",
		Method:      http.MethodGet,
		Path:        "/notes",
		Summary:     "List notes",
	}, func(ctx context.Context, input *struct {
		ProjectID string `query:"project_id" required:"false"`
	}) (*struct {
		Body []domain.Note
	}, error) {
		notes, err := eng.Repo.ListNotes(ctx, input.ProjectID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []domain.Note
		}{Body: notes}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-note",
		Method:      http.MethodGet,
		Path:        "/notes/{id}",
		Summary:     "Get a note",
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*noteOutput, error) {
		n, err := eng.Repo.GetNote(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &noteOutput{Body: n}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-note",
		Method:      http.MethodPut,
		Path:        "/notes/{id}",
		Summary:     "Replace a note's content",
	}, func(ctx context.Context, input *struct {
		ID   string `path:"id"`
		Body noteRequest
	}) (*noteOutput, error) {
		n, err := eng.UpdateNote(ctx, input.ID, engine.NoteOptions{
			ProjectID: input.Body.ProjectID,
			Title:     input.Body.Title,
			ContentMD: input.Body.ContentMD,
			Tags:      input.Body.Tags,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &noteOutput{Body: n}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-note",
		Method:      http.MethodDelete,
		Path:        "/notes/{id}",
		Summary:     "Delete a note",
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*struct{}, error) {
		if err := eng.DeleteNote(ctx, input.ID); err != nil {
			return nil, handleError(err)
		}
		return &struct{}{}, nil
	})
}

func registerSnippets(api huma.API, eng engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "create-snippet",
		Method:      http.MethodPost,
		Path:        "/snippets",
		Summary:     "Create a code snippet",
	}, func(ctx context.Context, input *struct {
		Body snippetRequest
	}) (*snippetOutput, error) {
		s, err := eng.CreateSnippet(ctx, engine.SnippetOptions{
			ProjectID: input.Body.ProjectID,
			Title:     input.Body.Title,
			Language:  input.Body.Language,
			Code:      input.Body.Code,
			Tags:      input.Body.Tags,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &snippetOutput{Body: s}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-snippets",
		Method:      http.MethodGet,
		Path:        "/snippets",
		Summary:     "List code snippets",
	}, func(ctx context.Context, input *struct {
		ProjectID string `query:"project_id" required:"false"`
	}) (*struct {
		Body []domain.Snippet
	}, error) {
		snippets, err := eng.Repo.ListSnippets(ctx, input.ProjectID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []domain.Snippet
		}{Body: snippets}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-snippet",
		Method:      http.MethodGet,
		Path:        "/snippets/{id}",
		Summary:     "Get a code snippet",
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*snippetOutput, error) {
		s, err := eng.Repo.GetSnippet(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &snippetOutput{Body: s}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-snippet",
		Method:      http.MethodPut,
		Path:        "/snippets/{id}",
		Summary:     "Replace a code snippet",
	}, func(ctx context.Context, input *struct {
		ID   string `path:"id"`
		Body snippetRequest
	}) (*snippetOutput, error) {
		s, err := eng.UpdateSnippet(ctx, input.ID, engine.SnippetOptions{
			ProjectID: input.Body.ProjectID,
			Title:     input.Body.Title,
			Language:  input.Body.Language,
			Code:      input.Body.Code,
			Tags:      input.Body.Tags,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &snippetOutput{Body: s}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-snippet",
		Method:      http.MethodDelete,
		Path:        "/snippets/{id}",
		Summary:     "Delete a code snippet",
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*struct{}, error) {
		if err := eng.DeleteSnippet(ctx, input.ID); err != nil {
			return nil, handleError(err)
		}
		return &struct{}{}, nil
	})
}

func registerSettings(api huma.API, eng engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "get-settings",
		Method:      http.MethodGet,
		Path:        "/settings",
		Summary:     "Get workspace settings",
	}, func(ctx context.Context, _ *struct{}) (*settingsOutput, error) {
		s, err := eng.Settings(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		return &settingsOutput{Body: s}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-settings",
		Method:      http.MethodPatch,
		Path:        "/settings",
		Summary:     "Update workspace settings",
	}, func(ctx context.Context, input *struct {
		Body struct {
			EmbedLimitMB float64 `json:"embed_limit_mb" minimum:"0" example:"20"`
		}
	}) (*settingsOutput, error) {
		s, err := eng.UpdateEmbedLimit(ctx, input.Body.EmbedLimitMB)
		if err != nil {
			return nil, handleError(err)
		}
		return &settingsOutput{Body: s}, nil
	})
}
