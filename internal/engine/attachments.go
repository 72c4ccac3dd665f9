package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"orga/internal/domain"
	"orga/internal/events"
	"orga/internal/filestore"
	"orga/internal/repo"
)

// AttachmentOptions are parameters for uploading a file.
type AttachmentOptions struct {
	ProjectID *string
	Title     string
	FileName  string
	MimeType  string
	Tags      []string
	Data      []byte
}

// UploadAttachment stores a file, embedded or in the workspace depending on
// size, and records DOC_ADDED for project-scoped uploads.
func (e Engine) UploadAttachment(ctx context.Context, opts AttachmentOptions) (domain.DocumentMeta, error) {
	if opts.FileName == "" {
		return domain.DocumentMeta{}, errors.New("file name is required")
	}
	if opts.ProjectID != nil {
		if _, err := e.Repo.GetProject(ctx, *opts.ProjectID); err != nil {
			return domain.DocumentMeta{}, err
		}
	}
	if opts.Title == "" {
		opts.Title = opts.FileName
	}
	if opts.MimeType == "" {
		opts.MimeType = "application/octet-stream"
	}

	limit := float64(filestore.DefaultEmbedLimitMB)
	settings, err := e.Repo.GetSettings(ctx)
	if err == nil {
		limit = settings.EmbedLimitMB
	} else if !errors.Is(err, repo.ErrNotFound) {
		return domain.DocumentMeta{}, err
	}
	mode := filestore.Mode(int64(len(opts.Data)), limit)
	if mode == domain.StorageWorkspace && !e.Workspace.Linked() {
		return domain.DocumentMeta{}, filestore.ErrNotLinked
	}

	now := e.stamp()
	d := domain.DocumentMeta{
		ID:          uuid.NewString(),
		ProjectID:   opts.ProjectID,
		Title:       opts.Title,
		FileName:    opts.FileName,
		MimeType:    opts.MimeType,
		SizeBytes:   int64(len(opts.Data)),
		Tags:        opts.Tags,
		StorageMode: mode,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// Workspace writes happen before the transaction; a failed insert
	// leaves an orphan file, never a dangling row.
	if mode == domain.StorageWorkspace {
		name, err := e.Workspace.Save(d.ID, d.FileName, opts.Data)
		if err != nil {
			return domain.DocumentMeta{}, err
		}
		d.WorkspaceFileName = &name
	} else {
		key := "embedded-" + d.ID
		d.EmbeddedKey = &key
	}

	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.DocumentMeta{}, err
	}
	defer tx.Rollback()

	if d.EmbeddedKey != nil {
		if err := e.Repo.InsertEmbeddedFileTx(ctx, tx, *d.EmbeddedKey, opts.Data, filestore.Checksum(opts.Data)); err != nil {
			return domain.DocumentMeta{}, fmt.Errorf("store embedded file: %w", err)
		}
	}
	if err := e.Repo.InsertDocumentTx(ctx, tx, d); err != nil {
		return domain.DocumentMeta{}, fmt.Errorf("insert document: %w", err)
	}
	if opts.ProjectID != nil {
		if err := events.Append(ctx, tx, events.Event{
			Type:        domain.EventDocAdded,
			ProjectID:   *opts.ProjectID,
			EntityID:    d.ID,
			Description: fmt.Sprintf("Document added: %s", d.FileName),
			Payload:     map[string]any{"file_name": d.FileName, "storage_mode": mode},
			CreatedAt:   now,
		}); err != nil {
			return domain.DocumentMeta{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return domain.DocumentMeta{}, err
	}
	return d, nil
}

// DownloadAttachment returns the file content and its metadata.
func (e Engine) DownloadAttachment(ctx context.Context, id string) ([]byte, domain.DocumentMeta, error) {
	d, err := e.Repo.GetDocument(ctx, id)
	if err != nil {
		return nil, domain.DocumentMeta{}, err
	}
	switch {
	case d.StorageMode == domain.StorageEmbedded && d.EmbeddedKey != nil:
		data, err := e.Repo.GetEmbeddedFile(ctx, *d.EmbeddedKey)
		return data, d, err
	case d.StorageMode == domain.StorageWorkspace && d.WorkspaceFileName != nil:
		data, err := e.Workspace.Load(*d.WorkspaceFileName)
		return data, d, err
	}
	return nil, d, fmt.Errorf("document %s has no stored content", id)
}

// DeleteAttachment removes the file from its backend and drops the metadata.
func (e Engine) DeleteAttachment(ctx context.Context, id string) error {
	d, err := e.Repo.GetDocument(ctx, id)
	if err != nil {
		return err
	}
	if d.StorageMode == domain.StorageEmbedded && d.EmbeddedKey != nil {
		if err := e.Repo.DeleteEmbeddedFile(ctx, *d.EmbeddedKey); err != nil {
			return err
		}
	}
	if d.StorageMode == domain.StorageWorkspace && d.WorkspaceFileName != nil && e.Workspace.Linked() {
		if err := e.Workspace.Remove(*d.WorkspaceFileName); err != nil {
			return err
		}
	}
	return e.Repo.DeleteDocument(ctx, id)
}

// Settings returns the stored settings, falling back to defaults when the
// row was never seeded.
func (e Engine) Settings(ctx context.Context) (domain.Settings, error) {
	s, err := e.Repo.GetSettings(ctx)
	if errors.Is(err, repo.ErrNotFound) {
		return domain.Settings{
			ID:              "singleton",
			EmbedLimitMB:    filestore.DefaultEmbedLimitMB,
			WorkspaceLinked: e.Workspace.Linked(),
			SchemaVersion:   1,
		}, nil
	}
	return s, err
}

// UpdateEmbedLimit changes the embedded-storage threshold for future
// uploads; existing attachments keep their placement.
func (e Engine) UpdateEmbedLimit(ctx context.Context, mb float64) (domain.Settings, error) {
	// Zero is allowed and routes every future upload to the workspace.
	if mb < 0 {
		return domain.Settings{}, errors.New("embed limit must not be negative")
	}
	s, err := e.Settings(ctx)
	if err != nil {
		return domain.Settings{}, err
	}
	s.EmbedLimitMB = mb
	if err := e.Repo.UpsertSettings(ctx, s); err != nil {
		return domain.Settings{}, err
	}
	return s, nil
}

// StorageStats summarizes attachment usage across both backends.
type StorageStats struct {
	EmbeddedCount   int     `json:"embedded_count"`
	EmbeddedSizeMB  float64 `json:"embedded_size_mb"`
	WorkspaceCount  int     `json:"workspace_count"`
	WorkspaceSizeMB float64 `json:"workspace_size_mb"`
	TotalCount      int     `json:"total_count"`
	TotalSizeMB     float64 `json:"total_size_mb"`
}

func (e Engine) AttachmentStats(ctx context.Context) (StorageStats, error) {
	docs, err := e.Repo.ListDocuments(ctx, "")
	if err != nil {
		return StorageStats{}, err
	}
	// Embedded size comes from the blob table itself, not the metadata.
	embeddedBytes, err := e.Repo.EmbeddedBytesTotal(ctx)
	if err != nil {
		return StorageStats{}, err
	}
	var stats StorageStats
	var workspaceBytes int64
	for _, d := range docs {
		if d.StorageMode == domain.StorageEmbedded {
			stats.EmbeddedCount++
		} else {
			stats.WorkspaceCount++
			workspaceBytes += d.SizeBytes
		}
	}
	const mb = 1024 * 1024
	stats.EmbeddedSizeMB = float64(embeddedBytes) / mb
	stats.WorkspaceSizeMB = float64(workspaceBytes) / mb
	stats.TotalCount = len(docs)
	stats.TotalSizeMB = float64(embeddedBytes+workspaceBytes) / mb
	return stats, nil
}
