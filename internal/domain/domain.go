package domain

// Health values for a project, ordered by severity.
const (
	HealthOnTrack = "ON_TRACK"
	HealthAtRisk  = "AT_RISK"
	HealthLate    = "LATE"
)

// Activity event types recorded by the engine.
const (
	EventTaskDone      = "TASK_DONE"
	EventTaskBlocked   = "TASK_BLOCKED"
	EventMilestoneDone = "MILESTONE_DONE"
	EventDocAdded      = "DOC_ADDED"
	EventNoteEdited    = "NOTE_EDITED"
)

// Storage modes for document attachments.
const (
	StorageEmbedded  = "EMBEDDED"
	StorageWorkspace = "WORKSPACE"
)

// Project statuses.
const (
	ProjectActive   = "ACTIVE"
	ProjectArchived = "ARCHIVED"
)

// Milestone statuses.
const (
	MilestoneTodo       = "TODO"
	MilestoneInProgress = "IN_PROGRESS"
	MilestoneDone       = "DONE"
	MilestoneBlocked    = "BLOCKED"
)

// Task statuses.
const (
	TaskTodo    = "TODO"
	TaskDoing   = "DOING"
	TaskDone    = "DONE"
	TaskBlocked = "BLOCKED"
)

type Project struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Status      string   `json:"status" enum:"ACTIVE,ARCHIVED"`
	Priority    string   `json:"priority" enum:"LOW,MED,HIGH"`
	Type        string   `json:"type" enum:"CODE,TENDER"`
	Tags        []string `json:"tags,omitempty"`
	Objectives  []string `json:"objectives,omitempty"`
	StartDate   *string  `json:"start_date,omitempty" format:"date"`
	TargetDate  *string  `json:"target_date,omitempty" format:"date"`

	// Tender projects only.
	TenderDeadline *string  `json:"tender_deadline,omitempty" format:"date"`
	TenderBudget   *float64 `json:"tender_budget,omitempty"`
	TenderClient   *string  `json:"tender_client,omitempty"`
	TenderStatus   *string  `json:"tender_status,omitempty" enum:"DRAFT,SUBMITTED,WON,LOST"`

	// Code projects only.
	RepositoryURL *string  `json:"repository_url,omitempty"`
	TechStack     []string `json:"tech_stack,omitempty"`

	CreatedAt string `json:"created_at" format:"date-time"`
	UpdatedAt string `json:"updated_at" format:"date-time"`
}

type Milestone struct {
	ID            string  `json:"id"`
	ProjectID     string  `json:"project_id"`
	Title         string  `json:"title"`
	DueDate       *string `json:"due_date,omitempty" format:"date"`
	Status        string  `json:"status" enum:"TODO,IN_PROGRESS,DONE,BLOCKED"`
	Weight        float64 `json:"weight"`
	BlockedReason *string `json:"blocked_reason,omitempty"`
	CreatedAt     string  `json:"created_at" format:"date-time"`
	UpdatedAt     string  `json:"updated_at" format:"date-time"`
}

type Task struct {
	ID            string  `json:"id"`
	ProjectID     string  `json:"project_id"`
	MilestoneID   *string `json:"milestone_id,omitempty"`
	Title         string  `json:"title"`
	Status        string  `json:"status" enum:"TODO,DOING,DONE,BLOCKED"`
	DueDate       *string `json:"due_date,omitempty" format:"date"`
	Points        float64 `json:"points"`
	Order         int     `json:"order"`
	BlockedReason *string `json:"blocked_reason,omitempty"`
	CreatedAt     string  `json:"created_at" format:"date-time"`
	UpdatedAt     string  `json:"updated_at" format:"date-time"`
}

type Note struct {
	ID        string   `json:"id"`
	ProjectID *string  `json:"project_id,omitempty"`
	Title     string   `json:"title"`
	ContentMD string   `json:"content_md"`
	Tags      []string `json:"tags,omitempty"`
	CreatedAt string   `json:"created_at" format:"date-time"`
	UpdatedAt string   `json:"updated_at" format:"date-time"`
}

type Snippet struct {
	ID        string   `json:"id"`
	ProjectID *string  `json:"project_id,omitempty"`
	Title     string   `json:"title"`
	Language  string   `json:"language"`
	Code      string   `json:"code"`
	Tags      []string `json:"tags,omitempty"`
	CreatedAt string   `json:"created_at" format:"date-time"`
	UpdatedAt string   `json:"updated_at" format:"date-time"`
}

type DocumentMeta struct {
	ID                string   `json:"id"`
	ProjectID         *string  `json:"project_id,omitempty"`
	Title             string   `json:"title"`
	FileName          string   `json:"file_name"`
	MimeType          string   `json:"mime_type"`
	SizeBytes         int64    `json:"size_bytes"`
	Tags              []string `json:"tags,omitempty"`
	StorageMode       string   `json:"storage_mode" enum:"EMBEDDED,WORKSPACE"`
	EmbeddedKey       *string  `json:"embedded_key,omitempty"`
	WorkspaceFileName *string  `json:"workspace_file_name,omitempty"`
	CreatedAt         string   `json:"created_at" format:"date-time"`
	UpdatedAt         string   `json:"updated_at" format:"date-time"`
}

type ActivityEvent struct {
	ID          string  `json:"id"`
	ProjectID   string  `json:"project_id"`
	Type        string  `json:"type" enum:"TASK_DONE,TASK_BLOCKED,MILESTONE_DONE,DOC_ADDED,NOTE_EDITED"`
	EntityID    *string `json:"entity_id,omitempty"`
	Description string  `json:"description,omitempty"`
	Payload     string  `json:"payload_json,omitempty"`
	CreatedAt   string  `json:"created_at" format:"date-time"`
}

type WeeklyReport struct {
	ID            string `json:"id"`
	ProjectID     string `json:"project_id"`
	PeriodStart   string `json:"period_start" format:"date"`
	PeriodEnd     string `json:"period_end" format:"date"`
	GeneratedAt   string `json:"generated_at" format:"date-time"`
	ProgressStart int    `json:"progress_start"`
	ProgressEnd   int    `json:"progress_end"`
	Delta         int    `json:"delta"`
	Markdown      string `json:"markdown_content"`
}

type ProgressSnapshot struct {
	ID              string  `json:"id"`
	ProjectID       string  `json:"project_id"`
	Date            string  `json:"date" format:"date"`
	ProgressPercent float64 `json:"progress_percent"`
}

type Settings struct {
	ID              string  `json:"id"`
	EmbedLimitMB    float64 `json:"embed_limit_mb"`
	WorkspaceLinked bool    `json:"workspace_linked"`
	SchemaVersion   int     `json:"schema_version"`
	LastBackupAt    *string `json:"last_backup_at,omitempty" format:"date-time"`
}

// ProjectProgress is the full stats view computed from a project's tasks.
type ProjectProgress struct {
	ProgressPercent int     `json:"progress_percent"`
	TasksDone       int     `json:"tasks_done"`
	TasksTotal      int     `json:"tasks_total"`
	PointsDone      float64 `json:"points_done"`
	PointsTotal     float64 `json:"points_total"`
	BlockedCount    int     `json:"blocked_count"`
	Health          string  `json:"health" enum:"ON_TRACK,AT_RISK,LATE"`
}

type MilestoneProgress struct {
	MilestoneID     string  `json:"milestone_id"`
	Title           string  `json:"title"`
	Status          string  `json:"status" enum:"TODO,IN_PROGRESS,DONE,BLOCKED"`
	Weight          float64 `json:"weight"`
	ProgressPercent int     `json:"progress_percent"`
	TasksDone       int     `json:"tasks_done"`
	TasksTotal      int     `json:"tasks_total"`
}

type CalendarEvent struct {
	ID          string  `json:"id"`
	Type        string  `json:"type" enum:"PROJECT,MILESTONE,TASK"`
	Title       string  `json:"title"`
	Date        string  `json:"date" format:"date"`
	Status      string  `json:"status,omitempty"`
	ProjectID   string  `json:"project_id,omitempty"`
	MilestoneID string  `json:"milestone_id,omitempty"`
	Points      float64 `json:"points,omitempty"`
	Weight      float64 `json:"weight,omitempty"`
	Progress    int     `json:"progress,omitempty"`
	EntityID    string  `json:"entity_id,omitempty"`
	Color       string  `json:"color,omitempty"`
}
