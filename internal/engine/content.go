package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"orga/internal/domain"
	"orga/internal/events"
)

// NoteOptions are parameters for creating or updating a note.
type NoteOptions struct {
	ProjectID *string
	Title     string
	ContentMD string
	Tags      []string
}

func (e Engine) CreateNote(ctx context.Context, opts NoteOptions) (domain.Note, error) {
	if opts.Title == "" {
		return domain.Note{}, errors.New("title is required")
	}
	if opts.ProjectID != nil {
		if _, err := e.Repo.GetProject(ctx, *opts.ProjectID); err != nil {
			return domain.Note{}, err
		}
	}
	now := e.stamp()
	n := domain.Note{
		ID:        uuid.NewString(),
		ProjectID: opts.ProjectID,
		Title:     opts.Title,
		ContentMD: opts.ContentMD,
		Tags:      opts.Tags,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := e.Repo.InsertNote(ctx, n); err != nil {
		return domain.Note{}, fmt.Errorf("insert note: %w", err)
	}
	return n, nil
}

// UpdateNote rewrites the note's content and records NOTE_EDITED when the
// note belongs to a project.
func (e Engine) UpdateNote(ctx context.Context, id string, opts NoteOptions) (domain.Note, error) {
	n, err := e.Repo.GetNote(ctx, id)
	if err != nil {
		return domain.Note{}, err
	}
	if opts.Title != "" {
		n.Title = opts.Title
	}
	n.ContentMD = opts.ContentMD
	if opts.Tags != nil {
		n.Tags = opts.Tags
	}
	n.UpdatedAt = e.stamp()

	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Note{}, err
	}
	defer tx.Rollback()

	if err := e.Repo.UpdateNoteTx(ctx, tx, n); err != nil {
		return domain.Note{}, err
	}
	if n.ProjectID != nil {
		if err := events.Append(ctx, tx, events.Event{
			Type:        domain.EventNoteEdited,
			ProjectID:   *n.ProjectID,
			EntityID:    n.ID,
			Description: fmt.Sprintf("Note edited: %s", n.Title),
			Payload:     map[string]any{"title": n.Title},
			CreatedAt:   n.UpdatedAt,
		}); err != nil {
			return domain.Note{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return domain.Note{}, err
	}
	return n, nil
}

func (e Engine) DeleteNote(ctx context.Context, id string) error {
	return e.Repo.DeleteNote(ctx, id)
}

// SnippetOptions are parameters for creating or updating a snippet.
type SnippetOptions struct {
	ProjectID *string
	Title     string
	Language  string
	Code      string
	Tags      []string
}

func (e Engine) CreateSnippet(ctx context.Context, opts SnippetOptions) (domain.Snippet, error) {
	if opts.Title == "" {
		return domain.Snippet{}, errors.New("title is required")
	}
	if opts.ProjectID != nil {
		if _, err := e.Repo.GetProject(ctx, *opts.ProjectID); err != nil {
			return domain.Snippet{}, err
		}
	}
	now := e.stamp()
	s := domain.Snippet{
		ID:        uuid.NewString(),
		ProjectID: opts.ProjectID,
		Title:     opts.Title,
		Language:  opts.Language,
		Code:      opts.Code,
		Tags:      opts.Tags,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := e.Repo.InsertSnippet(ctx, s); err != nil {
		return domain.Snippet{}, fmt.Errorf("insert snippet: %w", err)
	}
	return s, nil
}

func (e Engine) UpdateSnippet(ctx context.Context, id string, opts SnippetOptions) (domain.Snippet, error) {
	s, err := e.Repo.GetSnippet(ctx, id)
	if err != nil {
		return domain.Snippet{}, err
	}
	if opts.Title != "" {
		s.Title = opts.Title
	}
	if opts.Language != "" {
		s.Language = opts.Language
	}
	s.Code = opts.Code
	if opts.Tags != nil {
		s.Tags = opts.Tags
	}
	s.UpdatedAt = e.stamp()
	if err := e.Repo.UpdateSnippet(ctx, s); err != nil {
		return domain.Snippet{}, err
	}
	return s, nil
}

func (e Engine) DeleteSnippet(ctx context.Context, id string) error {
	return e.Repo.DeleteSnippet(ctx, id)
}
