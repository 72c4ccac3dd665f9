package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"orga/internal/domain"
)

type Repo struct {
	DB *sql.DB
}

var ErrNotFound = errors.New("not found")

const projectCols = `id,name,description,status,priority,type,tags_json,objectives_json,start_date,target_date,tender_deadline,tender_budget,tender_client,tender_status,repository_url,tech_stack_json,created_at,updated_at`

func scanProjectRow(scan func(dest ...any) error) (domain.Project, error) {
	var p domain.Project
	var tags, objectives, techStack string
	err := scan(&p.ID, &p.Name, &p.Description, &p.Status, &p.Priority, &p.Type,
		&tags, &objectives, &p.StartDate, &p.TargetDate,
		&p.TenderDeadline, &p.TenderBudget, &p.TenderClient, &p.TenderStatus,
		&p.RepositoryURL, &techStack, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return p, ErrNotFound
	}
	if err != nil {
		return p, err
	}
	p.Tags = decodeStrings(tags)
	p.Objectives = decodeStrings(objectives)
	p.TechStack = decodeStrings(techStack)
	return p, nil
}

func (r Repo) InsertProject(ctx context.Context, p domain.Project) error {
	_, err := r.DB.ExecContext(ctx, `INSERT INTO projects(`+projectCols+`) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		p.ID, p.Name, p.Description, p.Status, p.Priority, p.Type,
		encodeStrings(p.Tags), encodeStrings(p.Objectives), p.StartDate, p.TargetDate,
		p.TenderDeadline, p.TenderBudget, p.TenderClient, p.TenderStatus,
		p.RepositoryURL, encodeStrings(p.TechStack), p.CreatedAt, p.UpdatedAt)
	return err
}

func (r Repo) GetProject(ctx context.Context, id string) (domain.Project, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+projectCols+` FROM projects WHERE id=?`, id)
	return scanProjectRow(row.Scan)
}

func (r Repo) ListProjects(ctx context.Context, status string) ([]domain.Project, error) {
	query := `SELECT ` + projectCols + ` FROM projects`
	var args []any
	if status != "" {
		query += ` WHERE status=?`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Project
	for rows.Next() {
		p, err := scanProjectRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

func (r Repo) UpdateProject(ctx context.Context, p domain.Project) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE projects SET name=?,description=?,status=?,priority=?,type=?,tags_json=?,objectives_json=?,start_date=?,target_date=?,tender_deadline=?,tender_budget=?,tender_client=?,tender_status=?,repository_url=?,tech_stack_json=?,updated_at=? WHERE id=?`,
		p.Name, p.Description, p.Status, p.Priority, p.Type,
		encodeStrings(p.Tags), encodeStrings(p.Objectives), p.StartDate, p.TargetDate,
		p.TenderDeadline, p.TenderBudget, p.TenderClient, p.TenderStatus,
		p.RepositoryURL, encodeStrings(p.TechStack), p.UpdatedAt, p.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r Repo) DeleteProject(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM projects WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// FindProjectByName matches an exact name, for CLI lookups by name instead
// of id.
func (r Repo) FindProjectByName(ctx context.Context, name string) (domain.Project, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+projectCols+` FROM projects WHERE name=?`, name)
	return scanProjectRow(row.Scan)
}

func encodeStrings(v []string) string {
	if v == nil {
		v = []string{}
	}
	data, _ := json.Marshal(v)
	return string(data)
}

func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func decodeStrings(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
