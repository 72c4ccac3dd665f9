package server

import (
	"orga/internal/domain"
)

// Request payloads

type createProjectRequest struct {
	Name           string   `json:"name" minLength:"1" example:"billing-service"`
	Description    string   `json:"description,omitempty"`
	Priority       string   `json:"priority,omitempty" enum:"LOW,MED,HIGH,"`
	Type           string   `json:"type,omitempty" enum:"CODE,TENDER,"`
	Tags           []string `json:"tags,omitempty"`
	Objectives     []string `json:"objectives,omitempty"`
	StartDate      *string  `json:"start_date,omitempty" format:"date"`
	TargetDate     *string  `json:"target_date,omitempty" format:"date"`
	TenderDeadline *string  `json:"tender_deadline,omitempty" format:"date"`
	TenderBudget   *float64 `json:"tender_budget,omitempty"`
	TenderClient   *string  `json:"tender_client,omitempty"`
	TenderStatus   *string  `json:"tender_status,omitempty"`
	RepositoryURL  *string  `json:"repository_url,omitempty"`
	TechStack      []string `json:"tech_stack,omitempty"`
}

type updateProjectRequest struct {
	Name           *string  `json:"name,omitempty" minLength:"1"`
	Description    *string  `json:"description,omitempty"`
	Status         *string  `json:"status,omitempty" enum:"ACTIVE,ARCHIVED"`
	Priority       *string  `json:"priority,omitempty" enum:"LOW,MED,HIGH"`
	Tags           []string `json:"tags,omitempty"`
	Objectives     []string `json:"objectives,omitempty"`
	StartDate      *string  `json:"start_date,omitempty" format:"date"`
	TargetDate     *string  `json:"target_date,omitempty" format:"date"`
	TenderDeadline *string  `json:"tender_deadline,omitempty" format:"date"`
	TenderBudget   *float64 `json:"tender_budget,omitempty"`
	TenderClient   *string  `json:"tender_client,omitempty"`
	TenderStatus   *string  `json:"tender_status,omitempty"`
	RepositoryURL  *string  `json:"repository_url,omitempty"`
	TechStack      []string `json:"tech_stack,omitempty"`
}

type createMilestoneRequest struct {
	ProjectID string   `json:"project_id" minLength:"1"`
	Title     string   `json:"title" minLength:"1"`
	DueDate   *string  `json:"due_date,omitempty" format:"date"`
	Weight    *float64 `json:"weight,omitempty" example:"2"`
}

type updateMilestoneRequest struct {
	Title         *string  `json:"title,omitempty" minLength:"1"`
	DueDate       *string  `json:"due_date,omitempty" format:"date"`
	Status        *string  `json:"status,omitempty" enum:"TODO,IN_PROGRESS,DONE,BLOCKED"`
	Weight        *float64 `json:"weight,omitempty"`
	BlockedReason *string  `json:"blocked_reason,omitempty"`
}

type createTaskRequest struct {
	ProjectID   string   `json:"project_id" minLength:"1"`
	MilestoneID *string  `json:"milestone_id,omitempty"`
	Title       string   `json:"title" minLength:"1"`
	DueDate     *string  `json:"due_date,omitempty" format:"date"`
	Points      *float64 `json:"points,omitempty" example:"3"`
}

type updateTaskRequest struct {
	MilestoneID    *string  `json:"milestone_id,omitempty"`
	ClearMilestone bool     `json:"clear_milestone,omitempty" doc:"Detach the task from its milestone"`
	Title          *string  `json:"title,omitempty" minLength:"1"`
	Status         *string  `json:"status,omitempty" enum:"TODO,DOING,DONE,BLOCKED"`
	DueDate        *string  `json:"due_date,omitempty" format:"date"`
	Points         *float64 `json:"points,omitempty"`
	Order          *int     `json:"order,omitempty"`
	BlockedReason  *string  `json:"blocked_reason,omitempty"`
}

type noteRequest struct {
	ProjectID *string  `json:"project_id,omitempty"`
	Title     string   `json:"title" minLength:"1"`
	ContentMD string   `json:"content_md"`
	Tags      []string `json:"tags,omitempty"`
}

type snippetRequest struct {
	ProjectID *string  `json:"project_id,omitempty"`
	Title     string   `json:"title" minLength:"1"`
	Language  string   `json:"language,omitempty" example:"go"`
	Code      string   `json:"code" minLength:"1"`
	Tags      []string `json:"tags,omitempty"`
}

type uploadAttachmentRequest struct {
	ProjectID *string  `json:"project_id,omitempty"`
	Title     string   `json:"title,omitempty"`
	FileName  string   `json:"file_name" minLength:"1" example:"diagram.png"`
	MimeType  string   `json:"mime_type,omitempty" example:"image/png"`
	Tags      []string `json:"tags,omitempty"`
	Data      []byte   `json:"data" doc:"File content, base64-encoded"`
}

// Response envelopes

type projectOutput struct {
	Body domain.Project
}

type milestoneOutput struct {
	Body domain.Milestone
}

type taskOutput struct {
	Body domain.Task
}

type noteOutput struct {
	Body domain.Note
}

type snippetOutput struct {
	Body domain.Snippet
}

type reportOutput struct {
	Body domain.WeeklyReport
}

type documentMetaOutput struct {
	Body domain.DocumentMeta
}

type settingsOutput struct {
	Body domain.Settings
}
