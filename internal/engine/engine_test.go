package engine_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"orga/internal/app"
	"orga/internal/domain"
	"orga/internal/engine"
	"orga/internal/filestore"
)

type testEnv struct {
	Engine engine.Engine
	Ctx    context.Context
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	dir := t.TempDir()
	conn, cfg, err := app.Open(context.Background(), dir)
	if err != nil {
		t.Fatalf("open workspace: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	eng, err := engine.New(conn, cfg)
	if err != nil {
		t.Fatalf("build engine: %v", err)
	}
	eng.Now = func() time.Time { return time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC) }
	return testEnv{Engine: eng, Ctx: context.Background()}
}

func createProject(t *testing.T, env testEnv, name string) domain.Project {
	t.Helper()
	p, err := env.Engine.CreateProject(env.Ctx, engine.ProjectCreateOptions{Name: name})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	return p
}

func TestCreateProjectDefaults(t *testing.T) {
	env := newTestEnv(t)
	p := createProject(t, env, "defaults")
	if p.Status != domain.ProjectActive {
		t.Fatalf("expected ACTIVE, got %s", p.Status)
	}
	if p.Priority != "MED" || p.Type != "CODE" {
		t.Fatalf("expected config defaults MED/CODE, got %s/%s", p.Priority, p.Type)
	}
	if p.ID == "" || p.CreatedAt == "" {
		t.Fatalf("missing id or timestamps: %+v", p)
	}
}

func TestTaskDoneTransitionRecordsEventOnce(t *testing.T) {
	env := newTestEnv(t)
	p := createProject(t, env, "events")
	task, err := env.Engine.CreateTask(env.Ctx, engine.TaskCreateOptions{
		ProjectID: p.ID,
		Title:     "Ship it",
		Points:    3,
	})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	done := domain.TaskDone
	if _, err := env.Engine.UpdateTask(env.Ctx, task.ID, engine.TaskUpdateOptions{Status: &done}); err != nil {
		t.Fatalf("mark done: %v", err)
	}
	// Same status again: no transition, so no second event.
	if _, err := env.Engine.UpdateTask(env.Ctx, task.ID, engine.TaskUpdateOptions{Status: &done}); err != nil {
		t.Fatalf("mark done again: %v", err)
	}

	events, err := env.Engine.Repo.ListActivity(env.Ctx, p.ID, 10)
	if err != nil {
		t.Fatalf("list activity: %v", err)
	}
	if len(events) != 1 || events[0].Type != domain.EventTaskDone {
		t.Fatalf("expected a single TASK_DONE event, got %+v", events)
	}
}

func TestTaskBlockedEventAndReason(t *testing.T) {
	env := newTestEnv(t)
	p := createProject(t, env, "blockers")
	task, err := env.Engine.CreateTask(env.Ctx, engine.TaskCreateOptions{ProjectID: p.ID, Title: "Stuck"})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	blocked := domain.TaskBlocked
	reason := "waiting on API keys"
	updated, err := env.Engine.UpdateTask(env.Ctx, task.ID, engine.TaskUpdateOptions{
		Status:        &blocked,
		BlockedReason: &reason,
	})
	if err != nil {
		t.Fatalf("block task: %v", err)
	}
	if updated.BlockedReason == nil || *updated.BlockedReason != reason {
		t.Fatalf("blocked reason not stored: %+v", updated)
	}
	events, _ := env.Engine.Repo.ListActivity(env.Ctx, p.ID, 10)
	if len(events) != 1 || events[0].Type != domain.EventTaskBlocked {
		t.Fatalf("expected TASK_BLOCKED event, got %+v", events)
	}
}

func TestMilestoneWeightDefaultAndDoneEvent(t *testing.T) {
	env := newTestEnv(t)
	p := createProject(t, env, "milestones")
	m, err := env.Engine.CreateMilestone(env.Ctx, engine.MilestoneCreateOptions{
		ProjectID: p.ID,
		Title:     "Phase 1",
	})
	if err != nil {
		t.Fatalf("create milestone: %v", err)
	}
	if m.Weight != 1 {
		t.Fatalf("expected default weight 1, got %g", m.Weight)
	}
	done := domain.MilestoneDone
	if _, err := env.Engine.UpdateMilestone(env.Ctx, m.ID, engine.MilestoneUpdateOptions{Status: &done}); err != nil {
		t.Fatalf("mark done: %v", err)
	}
	events, _ := env.Engine.Repo.ListActivity(env.Ctx, p.ID, 10)
	if len(events) != 1 || events[0].Type != domain.EventMilestoneDone {
		t.Fatalf("expected MILESTONE_DONE event, got %+v", events)
	}
}

func TestTaskMilestoneMustBelongToProject(t *testing.T) {
	env := newTestEnv(t)
	p1 := createProject(t, env, "one")
	p2 := createProject(t, env, "two")
	m, err := env.Engine.CreateMilestone(env.Ctx, engine.MilestoneCreateOptions{ProjectID: p1.ID, Title: "M"})
	if err != nil {
		t.Fatalf("create milestone: %v", err)
	}
	_, err = env.Engine.CreateTask(env.Ctx, engine.TaskCreateOptions{
		ProjectID:   p2.ID,
		MilestoneID: &m.ID,
		Title:       "cross-project",
	})
	if err == nil || !strings.Contains(err.Error(), "not in project") {
		t.Fatalf("expected cross-project rejection, got %v", err)
	}
}

func TestNoteEditEventOnlyForProjectNotes(t *testing.T) {
	env := newTestEnv(t)
	p := createProject(t, env, "notes")

	global, err := env.Engine.CreateNote(env.Ctx, engine.NoteOptions{Title: "scratch", ContentMD: "x"})
	if err != nil {
		t.Fatalf("create global note: %v", err)
	}
	if _, err := env.Engine.UpdateNote(env.Ctx, global.ID, engine.NoteOptions{Title: "scratch", ContentMD: "y"}); err != nil {
		t.Fatalf("update global note: %v", err)
	}

	scoped, err := env.Engine.CreateNote(env.Ctx, engine.NoteOptions{ProjectID: &p.ID, Title: "plan", ContentMD: "x"})
	if err != nil {
		t.Fatalf("create scoped note: %v", err)
	}
	if _, err := env.Engine.UpdateNote(env.Ctx, scoped.ID, engine.NoteOptions{ProjectID: &p.ID, Title: "plan", ContentMD: "y"}); err != nil {
		t.Fatalf("update scoped note: %v", err)
	}

	events, _ := env.Engine.Repo.ListActivity(env.Ctx, p.ID, 10)
	if len(events) != 1 || events[0].Type != domain.EventNoteEdited {
		t.Fatalf("expected one NOTE_EDITED from the scoped note only, got %+v", events)
	}
}

func TestCountTasksByStatus(t *testing.T) {
	env := newTestEnv(t)
	p := createProject(t, env, "tallies")
	other := createProject(t, env, "elsewhere")

	addTask := func(proj, title, status string) {
		t.Helper()
		task, err := env.Engine.CreateTask(env.Ctx, engine.TaskCreateOptions{ProjectID: proj, Title: title, Points: 1})
		if err != nil {
			t.Fatalf("create %s: %v", title, err)
		}
		if status != domain.TaskTodo {
			if _, err := env.Engine.UpdateTask(env.Ctx, task.ID, engine.TaskUpdateOptions{Status: &status}); err != nil {
				t.Fatalf("set %s to %s: %v", title, status, err)
			}
		}
	}
	addTask(p.ID, "one", domain.TaskTodo)
	addTask(p.ID, "two", domain.TaskTodo)
	addTask(p.ID, "three", domain.TaskDone)
	addTask(p.ID, "four", domain.TaskBlocked)
	addTask(other.ID, "noise", domain.TaskDone)

	counts, err := env.Engine.Repo.CountTasksByStatus(env.Ctx, p.ID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if counts[domain.TaskTodo] != 2 || counts[domain.TaskDone] != 1 || counts[domain.TaskBlocked] != 1 || counts[domain.TaskDoing] != 0 {
		t.Fatalf("unexpected tallies: %+v", counts)
	}
}

func TestWeeklyReportDeltaChain(t *testing.T) {
	env := newTestEnv(t)
	p := createProject(t, env, "reporting")
	m, err := env.Engine.CreateMilestone(env.Ctx, engine.MilestoneCreateOptions{ProjectID: p.ID, Title: "Delivery", Weight: 1})
	if err != nil {
		t.Fatalf("create milestone: %v", err)
	}
	task, err := env.Engine.CreateTask(env.Ctx, engine.TaskCreateOptions{ProjectID: p.ID, MilestoneID: &m.ID, Title: "work", Points: 1})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	first, err := env.Engine.GenerateWeeklyReport(env.Ctx, p.ID, "2025-03-03", "2025-03-09")
	if err != nil {
		t.Fatalf("first report: %v", err)
	}
	if first.Delta != 0 || first.ProgressStart != 0 {
		t.Fatalf("first report should start from zero, got %+v", first)
	}

	done := domain.TaskDone
	if _, err := env.Engine.UpdateTask(env.Ctx, task.ID, engine.TaskUpdateOptions{Status: &done}); err != nil {
		t.Fatalf("mark done: %v", err)
	}
	second, err := env.Engine.GenerateWeeklyReport(env.Ctx, p.ID, "2025-03-10", "2025-03-16")
	if err != nil {
		t.Fatalf("second report: %v", err)
	}
	if second.ProgressStart != first.ProgressEnd {
		t.Fatalf("second report should start at previous end %d, got %d", first.ProgressEnd, second.ProgressStart)
	}
	if second.ProgressEnd != 100 || second.Delta != 100 {
		t.Fatalf("all tasks done should read 100%% with delta 100, got %+v", second)
	}

	snaps, err := env.Engine.Repo.ListSnapshots(env.Ctx, p.ID)
	if err != nil {
		t.Fatalf("list snapshots: %v", err)
	}
	if len(snaps) != 2 {
		t.Fatalf("expected a snapshot per report, got %d", len(snaps))
	}
}

func TestAttachmentEmbedsSmallFiles(t *testing.T) {
	env := newTestEnv(t)
	p := createProject(t, env, "files")
	meta, err := env.Engine.UploadAttachment(env.Ctx, engine.AttachmentOptions{
		ProjectID: &p.ID,
		FileName:  "notes.txt",
		MimeType:  "text/plain",
		Data:      []byte("small payload"),
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if meta.StorageMode != domain.StorageEmbedded {
		t.Fatalf("small file should embed, got %s", meta.StorageMode)
	}
	data, _, err := env.Engine.DownloadAttachment(env.Ctx, meta.ID)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if string(data) != "small payload" {
		t.Fatalf("round trip mismatch: %q", data)
	}

	events, _ := env.Engine.Repo.ListActivity(env.Ctx, p.ID, 10)
	if len(events) != 1 || events[0].Type != domain.EventDocAdded {
		t.Fatalf("expected DOC_ADDED event, got %+v", events)
	}

	stats, err := env.Engine.AttachmentStats(env.Ctx)
	if err != nil {
		t.Fatalf("storage stats: %v", err)
	}
	if stats.EmbeddedCount != 1 || stats.WorkspaceCount != 0 || stats.TotalCount != 1 {
		t.Fatalf("unexpected stats counts: %+v", stats)
	}
	wantMB := float64(len("small payload")) / (1024 * 1024)
	if stats.EmbeddedSizeMB != wantMB || stats.TotalSizeMB != wantMB {
		t.Fatalf("embedded size should reflect the stored blob, got %+v", stats)
	}
}

func TestLargeUploadWithoutWorkspaceFails(t *testing.T) {
	env := newTestEnv(t)
	p := createProject(t, env, "bigfiles")
	if _, err := env.Engine.UpdateEmbedLimit(env.Ctx, 0); err != nil {
		t.Fatalf("set embed limit: %v", err)
	}
	_, err := env.Engine.UploadAttachment(env.Ctx, engine.AttachmentOptions{
		ProjectID: &p.ID,
		FileName:  "big.bin",
		Data:      []byte("over the zero limit"),
	})
	if !errors.Is(err, filestore.ErrNotLinked) {
		t.Fatalf("expected ErrNotLinked without a workspace dir, got %v", err)
	}
}

func TestLargeUploadGoesToWorkspace(t *testing.T) {
	env := newTestEnv(t)
	env.Engine.Workspace = filestore.Workspace{Dir: t.TempDir()}
	p := createProject(t, env, "workspace")
	if _, err := env.Engine.UpdateEmbedLimit(env.Ctx, 0); err != nil {
		t.Fatalf("set embed limit: %v", err)
	}
	meta, err := env.Engine.UploadAttachment(env.Ctx, engine.AttachmentOptions{
		ProjectID: &p.ID,
		FileName:  "big.bin",
		Data:      []byte("this one goes to disk"),
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if meta.StorageMode != domain.StorageWorkspace || meta.WorkspaceFileName == nil {
		t.Fatalf("expected workspace storage, got %+v", meta)
	}
	data, _, err := env.Engine.DownloadAttachment(env.Ctx, meta.ID)
	if err != nil || string(data) != "this one goes to disk" {
		t.Fatalf("workspace round trip failed: %v %q", err, data)
	}
	if err := env.Engine.DeleteAttachment(env.Ctx, meta.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestNewCreatesConfiguredWorkspaceDir(t *testing.T) {
	dir := t.TempDir()
	conn, cfg, err := app.Open(context.Background(), dir)
	if err != nil {
		t.Fatalf("open workspace: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	cfg.Storage.WorkspaceDir = filepath.Join(dir, "attachments")

	eng, err := engine.New(conn, cfg)
	if err != nil {
		t.Fatalf("build engine: %v", err)
	}
	if !eng.Workspace.Linked() {
		t.Fatal("configured workspace dir should be linked")
	}
	if _, err := os.Stat(cfg.Storage.WorkspaceDir); err != nil {
		t.Fatalf("workspace dir should exist before the first upload: %v", err)
	}

	ctx := context.Background()
	p, err := eng.CreateProject(ctx, engine.ProjectCreateOptions{Name: "disk"})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	if _, err := eng.UpdateEmbedLimit(ctx, 0); err != nil {
		t.Fatalf("set embed limit: %v", err)
	}
	meta, err := eng.UploadAttachment(ctx, engine.AttachmentOptions{
		ProjectID: &p.ID,
		FileName:  "big.bin",
		Data:      []byte("straight to the workspace"),
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if meta.StorageMode != domain.StorageWorkspace {
		t.Fatalf("expected workspace storage, got %s", meta.StorageMode)
	}
}

func TestArchiveHidesFromActiveList(t *testing.T) {
	env := newTestEnv(t)
	p := createProject(t, env, "soon-archived")
	if _, err := env.Engine.ArchiveProject(env.Ctx, p.ID); err != nil {
		t.Fatalf("archive: %v", err)
	}
	active, err := env.Engine.Repo.ListProjects(env.Ctx, domain.ProjectActive)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	for _, a := range active {
		if a.ID == p.ID {
			t.Fatalf("archived project still listed as active")
		}
	}
	all, err := env.Engine.Repo.ListProjects(env.Ctx, "")
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 1 || all[0].Status != domain.ProjectArchived {
		t.Fatalf("expected one archived project, got %+v", all)
	}
}
