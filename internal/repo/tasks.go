package repo

import (
	"context"
	"database/sql"
	"strings"

	"orga/internal/domain"
)

const taskCols = `id,project_id,milestone_id,title,status,due_date,points,sort_order,blocked_reason,created_at,updated_at`

// TaskFilters narrows ListTasks; zero values mean no constraint.
type TaskFilters struct {
	ProjectID   string
	MilestoneID string
	Status      string
}

func scanTaskRow(scan func(dest ...any) error) (domain.Task, error) {
	var t domain.Task
	err := scan(&t.ID, &t.ProjectID, &t.MilestoneID, &t.Title, &t.Status, &t.DueDate, &t.Points, &t.Order, &t.BlockedReason, &t.CreatedAt, &t.UpdatedAt)
	if err == sql.ErrNoRows {
		return t, ErrNotFound
	}
	return t, err
}

func (r Repo) InsertTask(ctx context.Context, t domain.Task) error {
	_, err := r.DB.ExecContext(ctx, `INSERT INTO tasks(`+taskCols+`) VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		t.ID, t.ProjectID, t.MilestoneID, t.Title, t.Status, t.DueDate, t.Points, t.Order, t.BlockedReason, t.CreatedAt, t.UpdatedAt)
	return err
}

func (r Repo) GetTask(ctx context.Context, id string) (domain.Task, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+taskCols+` FROM tasks WHERE id=?`, id)
	return scanTaskRow(row.Scan)
}

func (r Repo) ListTasks(ctx context.Context, f TaskFilters) ([]domain.Task, error) {
	var (
		where []string
		args  []any
	)
	if f.ProjectID != "" {
		where = append(where, "project_id=?")
		args = append(args, f.ProjectID)
	}
	if f.MilestoneID != "" {
		where = append(where, "milestone_id=?")
		args = append(args, f.MilestoneID)
	}
	if f.Status != "" {
		where = append(where, "status=?")
		args = append(args, f.Status)
	}
	query := `SELECT ` + taskCols + ` FROM tasks`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY sort_order ASC, created_at ASC`
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Task
	for rows.Next() {
		t, err := scanTaskRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, rows.Err()
}

func (r Repo) UpdateTaskTx(ctx context.Context, tx *sql.Tx, t domain.Task) error {
	res, err := tx.ExecContext(ctx, `UPDATE tasks SET milestone_id=?,title=?,status=?,due_date=?,points=?,sort_order=?,blocked_reason=?,updated_at=? WHERE id=?`,
		t.MilestoneID, t.Title, t.Status, t.DueDate, t.Points, t.Order, t.BlockedReason, t.UpdatedAt, t.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r Repo) DeleteTask(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM tasks WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// NextTaskOrder returns one past the highest sort order in the project.
func (r Repo) NextTaskOrder(ctx context.Context, projectID string) (int, error) {
	var max sql.NullInt64
	err := r.DB.QueryRowContext(ctx, `SELECT MAX(sort_order) FROM tasks WHERE project_id=?`, projectID).Scan(&max)
	if err != nil {
		return 0, err
	}
	if !max.Valid {
		return 0, nil
	}
	return int(max.Int64) + 1, nil
}

// CountTasksByStatus tallies a project's tasks per status.
func (r Repo) CountTasksByStatus(ctx context.Context, projectID string) (map[string]int, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT status, COUNT(*) FROM tasks WHERE project_id=? GROUP BY status`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := map[string]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}
