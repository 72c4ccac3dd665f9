package orgasdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a minimal Orga HTTP API client.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// New creates a client with sane defaults.
func New(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		Timeout: 10 * time.Second,
	}
}

// Project represents the API project model (partial).
type Project struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Status     string  `json:"status"`
	Priority   string  `json:"priority"`
	Type       string  `json:"type"`
	StartDate  *string `json:"start_date,omitempty"`
	TargetDate *string `json:"target_date,omitempty"`
}

// Task represents the API task model (partial).
type Task struct {
	ID          string  `json:"id"`
	ProjectID   string  `json:"project_id"`
	MilestoneID *string `json:"milestone_id,omitempty"`
	Title       string  `json:"title"`
	Status      string  `json:"status"`
	Points      float64 `json:"points"`
	DueDate     *string `json:"due_date,omitempty"`
}

// Milestone represents the API milestone model (partial).
type Milestone struct {
	ID        string  `json:"id"`
	ProjectID string  `json:"project_id"`
	Title     string  `json:"title"`
	Status    string  `json:"status"`
	Weight    float64 `json:"weight"`
	DueDate   *string `json:"due_date,omitempty"`
}

// Stats mirrors the project stats payload.
type Stats struct {
	ProgressPercent int     `json:"progress_percent"`
	TasksDone       int     `json:"tasks_done"`
	TasksTotal      int     `json:"tasks_total"`
	PointsDone      float64 `json:"points_done"`
	PointsTotal     float64 `json:"points_total"`
	BlockedCount    int     `json:"blocked_count"`
	Health          string  `json:"health"`
}

// Report mirrors the weekly report payload.
type Report struct {
	ID            string `json:"id"`
	ProjectID     string `json:"project_id"`
	PeriodStart   string `json:"period_start"`
	PeriodEnd     string `json:"period_end"`
	ProgressStart int    `json:"progress_start"`
	ProgressEnd   int    `json:"progress_end"`
	Delta         int    `json:"delta"`
	Markdown      string `json:"markdown_content"`
}

// GeneratedDoc mirrors a rendered document payload.
type GeneratedDoc struct {
	Type     string `json:"type"`
	Filename string `json:"filename"`
	Markdown string `json:"markdown"`
}

// CalendarEvent is one dated entry from the calendar projection.
type CalendarEvent struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	ProjectID string `json:"project_id"`
	Title     string `json:"title"`
	Date      string `json:"date"`
	Status    string `json:"status"`
	Color     string `json:"color"`
}

// APIError wraps non-2xx responses.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%d body=%s", e.StatusCode, e.Body)
}

// CreateProject creates a project.
func (c *Client) CreateProject(ctx context.Context, name string) (Project, error) {
	var resp Project
	err := c.do(ctx, http.MethodPost, "v0/projects", map[string]any{"name": name}, &resp)
	return resp, err
}

// Projects lists projects, optionally filtered by status.
func (c *Client) Projects(ctx context.Context, status string) ([]Project, error) {
	endpoint := "v0/projects"
	if status != "" {
		endpoint += "?status=" + url.QueryEscape(status)
	}
	var resp []Project
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp, err
}

// CreateTask creates a task in a project.
func (c *Client) CreateTask(ctx context.Context, projectID, title string, points float64) (Task, error) {
	body := map[string]any{
		"project_id": projectID,
		"title":      title,
		"points":     points,
	}
	var resp Task
	err := c.do(ctx, http.MethodPost, "v0/tasks", body, &resp)
	return resp, err
}

// SetTaskStatus updates a task's status.
func (c *Client) SetTaskStatus(ctx context.Context, taskID, status string) (Task, error) {
	var resp Task
	endpoint := fmt.Sprintf("v0/tasks/%s", url.PathEscape(taskID))
	err := c.do(ctx, http.MethodPatch, endpoint, map[string]any{"status": status}, &resp)
	return resp, err
}

// Stats returns progress and health for a project.
func (c *Client) Stats(ctx context.Context, projectID string) (Stats, error) {
	var resp Stats
	endpoint := fmt.Sprintf("v0/projects/%s/stats", url.PathEscape(projectID))
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp, err
}

// GenerateReport generates a weekly report; empty dates default to the
// current week.
func (c *Client) GenerateReport(ctx context.Context, projectID, periodStart, periodEnd string) (Report, error) {
	body := map[string]any{}
	if periodStart != "" {
		body["period_start"] = periodStart
	}
	if periodEnd != "" {
		body["period_end"] = periodEnd
	}
	var resp Report
	endpoint := fmt.Sprintf("v0/projects/%s/reports", url.PathEscape(projectID))
	err := c.do(ctx, http.MethodPost, endpoint, body, &resp)
	return resp, err
}

// GenerateDocument renders a document (README, SPEC, ARCHITECTURE, RUNBOOK,
// CHANGELOG or ADR) without persisting it.
func (c *Client) GenerateDocument(ctx context.Context, projectID, docType string) (GeneratedDoc, error) {
	var resp GeneratedDoc
	endpoint := fmt.Sprintf("v0/projects/%s/documents/%s", url.PathEscape(projectID), url.PathEscape(docType))
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp, err
}

// Calendar returns dated events across all active projects.
func (c *Client) Calendar(ctx context.Context, from, to string) ([]CalendarEvent, error) {
	endpoint := "v0/calendar"
	params := url.Values{}
	if from != "" {
		params.Set("from", from)
	}
	if to != "" {
		params.Set("to", to)
	}
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	var resp []CalendarEvent
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp, err
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any) error {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	url := c.base() + "/" + strings.TrimLeft(endpoint, "/")
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: string(b)}
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *Client) base() string {
	return strings.TrimRight(c.BaseURL, "/")
}
