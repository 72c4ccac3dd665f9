package repo

import (
	"context"
	"database/sql"

	"orga/internal/domain"
)

const noteCols = `id,project_id,title,content_md,tags_json,created_at,updated_at`

func scanNoteRow(scan func(dest ...any) error) (domain.Note, error) {
	var n domain.Note
	var tags string
	err := scan(&n.ID, &n.ProjectID, &n.Title, &n.ContentMD, &tags, &n.CreatedAt, &n.UpdatedAt)
	if err == sql.ErrNoRows {
		return n, ErrNotFound
	}
	n.Tags = decodeStrings(tags)
	return n, err
}

func (r Repo) InsertNote(ctx context.Context, n domain.Note) error {
	_, err := r.DB.ExecContext(ctx, `INSERT INTO notes(`+noteCols+`) VALUES (?,?,?,?,?,?,?)`,
		n.ID, n.ProjectID, n.Title, n.ContentMD, encodeStrings(n.Tags), n.CreatedAt, n.UpdatedAt)
	return err
}

func (r Repo) GetNote(ctx context.Context, id string) (domain.Note, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+noteCols+` FROM notes WHERE id=?`, id)
	return scanNoteRow(row.Scan)
}

func (r Repo) ListNotes(ctx context.Context, projectID string) ([]domain.Note, error) {
	query := `SELECT ` + noteCols + ` FROM notes`
	var args []any
	if projectID != "" {
		query += ` WHERE project_id=?`
		args = append(args, projectID)
	}
	query += ` ORDER BY updated_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Note
	for rows.Next() {
		n, err := scanNoteRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		res = append(res, n)
	}
	return res, rows.Err()
}

func (r Repo) UpdateNoteTx(ctx context.Context, tx *sql.Tx, n domain.Note) error {
	res, err := tx.ExecContext(ctx, `UPDATE notes SET title=?,content_md=?,tags_json=?,updated_at=? WHERE id=?`,
		n.Title, n.ContentMD, encodeStrings(n.Tags), n.UpdatedAt, n.ID)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r Repo) DeleteNote(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM notes WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

const snippetCols = `id,project_id,title,language,code,tags_json,created_at,updated_at`

func scanSnippetRow(scan func(dest ...any) error) (domain.Snippet, error) {
	var s domain.Snippet
	var tags string
	err := scan(&s.ID, &s.ProjectID, &s.Title, &s.Language, &s.Code, &tags, &s.CreatedAt, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return s, ErrNotFound
	}
	s.Tags = decodeStrings(tags)
	return s, err
}

func (r Repo) InsertSnippet(ctx context.Context, s domain.Snippet) error {
	_, err := r.DB.ExecContext(ctx, `INSERT INTO snippets(`+snippetCols+`) VALUES (?,?,?,?,?,?,?,?)`,
		s.ID, s.ProjectID, s.Title, s.Language, s.Code, encodeStrings(s.Tags), s.CreatedAt, s.UpdatedAt)
	return err
}

func (r Repo) GetSnippet(ctx context.Context, id string) (domain.Snippet, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+snippetCols+` FROM snippets WHERE id=?`, id)
	return scanSnippetRow(row.Scan)
}

func (r Repo) ListSnippets(ctx context.Context, projectID string) ([]domain.Snippet, error) {
	query := `SELECT ` + snippetCols + ` FROM snippets`
	var args []any
	if projectID != "" {
		query += ` WHERE project_id=?`
		args = append(args, projectID)
	}
	query += ` ORDER BY updated_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Snippet
	for rows.Next() {
		s, err := scanSnippetRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, rows.Err()
}

func (r Repo) UpdateSnippet(ctx context.Context, s domain.Snippet) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE snippets SET title=?,language=?,code=?,tags_json=?,updated_at=? WHERE id=?`,
		s.Title, s.Language, s.Code, encodeStrings(s.Tags), s.UpdatedAt, s.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r Repo) DeleteSnippet(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM snippets WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

const documentCols = `id,project_id,title,file_name,mime_type,size_bytes,tags_json,storage_mode,embedded_key,workspace_file_name,created_at,updated_at`

func scanDocumentRow(scan func(dest ...any) error) (domain.DocumentMeta, error) {
	var d domain.DocumentMeta
	var tags string
	err := scan(&d.ID, &d.ProjectID, &d.Title, &d.FileName, &d.MimeType, &d.SizeBytes, &tags, &d.StorageMode, &d.EmbeddedKey, &d.WorkspaceFileName, &d.CreatedAt, &d.UpdatedAt)
	if err == sql.ErrNoRows {
		return d, ErrNotFound
	}
	d.Tags = decodeStrings(tags)
	return d, err
}

func (r Repo) InsertDocumentTx(ctx context.Context, tx *sql.Tx, d domain.DocumentMeta) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO documents(`+documentCols+`) VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		d.ID, d.ProjectID, d.Title, d.FileName, d.MimeType, d.SizeBytes, encodeStrings(d.Tags), d.StorageMode, d.EmbeddedKey, d.WorkspaceFileName, d.CreatedAt, d.UpdatedAt)
	return err
}

func (r Repo) GetDocument(ctx context.Context, id string) (domain.DocumentMeta, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+documentCols+` FROM documents WHERE id=?`, id)
	return scanDocumentRow(row.Scan)
}

func (r Repo) ListDocuments(ctx context.Context, projectID string) ([]domain.DocumentMeta, error) {
	query := `SELECT ` + documentCols + ` FROM documents`
	var args []any
	if projectID != "" {
		query += ` WHERE project_id=?`
		args = append(args, projectID)
	}
	query += ` ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.DocumentMeta
	for rows.Next() {
		d, err := scanDocumentRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		res = append(res, d)
	}
	return res, rows.Err()
}

func (r Repo) DeleteDocument(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM documents WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r Repo) InsertEmbeddedFileTx(ctx context.Context, tx *sql.Tx, key string, blob []byte, checksum string) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO embedded_files(key,blob,checksum,size_bytes) VALUES (?,?,?,?)`,
		key, blob, nullable(checksum), len(blob))
	return err
}

func (r Repo) GetEmbeddedFile(ctx context.Context, key string) ([]byte, error) {
	var blob []byte
	err := r.DB.QueryRowContext(ctx, `SELECT blob FROM embedded_files WHERE key=?`, key).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return blob, err
}

func (r Repo) DeleteEmbeddedFile(ctx context.Context, key string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM embedded_files WHERE key=?`, key)
	return err
}

// EmbeddedBytesTotal sums the stored blob sizes, for storage stats.
func (r Repo) EmbeddedBytesTotal(ctx context.Context) (int64, error) {
	var total sql.NullInt64
	err := r.DB.QueryRowContext(ctx, `SELECT SUM(size_bytes) FROM embedded_files`).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total.Int64, nil
}

const settingsID = "singleton"

func (r Repo) GetSettings(ctx context.Context) (domain.Settings, error) {
	var s domain.Settings
	var linked int
	err := r.DB.QueryRowContext(ctx, `SELECT id,embed_limit_mb,workspace_linked,schema_version,last_backup_at FROM settings WHERE id=?`, settingsID).
		Scan(&s.ID, &s.EmbedLimitMB, &linked, &s.SchemaVersion, &s.LastBackupAt)
	if err == sql.ErrNoRows {
		return s, ErrNotFound
	}
	s.WorkspaceLinked = linked != 0
	return s, err
}

func (r Repo) UpsertSettings(ctx context.Context, s domain.Settings) error {
	linked := 0
	if s.WorkspaceLinked {
		linked = 1
	}
	_, err := r.DB.ExecContext(ctx, `INSERT INTO settings(id,embed_limit_mb,workspace_linked,schema_version,last_backup_at) VALUES (?,?,?,?,?)
		ON CONFLICT(id) DO UPDATE SET embed_limit_mb=excluded.embed_limit_mb,workspace_linked=excluded.workspace_linked,schema_version=excluded.schema_version,last_backup_at=excluded.last_backup_at`,
		settingsID, s.EmbedLimitMB, linked, s.SchemaVersion, s.LastBackupAt)
	return err
}
