package repo

import (
	"context"
	"database/sql"

	"orga/internal/domain"
)

const milestoneCols = `id,project_id,title,due_date,status,weight,blocked_reason,created_at,updated_at`

func scanMilestoneRow(scan func(dest ...any) error) (domain.Milestone, error) {
	var m domain.Milestone
	err := scan(&m.ID, &m.ProjectID, &m.Title, &m.DueDate, &m.Status, &m.Weight, &m.BlockedReason, &m.CreatedAt, &m.UpdatedAt)
	if err == sql.ErrNoRows {
		return m, ErrNotFound
	}
	return m, err
}

func (r Repo) InsertMilestone(ctx context.Context, m domain.Milestone) error {
	_, err := r.DB.ExecContext(ctx, `INSERT INTO milestones(`+milestoneCols+`) VALUES (?,?,?,?,?,?,?,?,?)`,
		m.ID, m.ProjectID, m.Title, m.DueDate, m.Status, m.Weight, m.BlockedReason, m.CreatedAt, m.UpdatedAt)
	return err
}

func (r Repo) GetMilestone(ctx context.Context, id string) (domain.Milestone, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+milestoneCols+` FROM milestones WHERE id=?`, id)
	return scanMilestoneRow(row.Scan)
}

func (r Repo) ListMilestones(ctx context.Context, projectID string) ([]domain.Milestone, error) {
	query := `SELECT ` + milestoneCols + ` FROM milestones`
	var args []any
	if projectID != "" {
		query += ` WHERE project_id=?`
		args = append(args, projectID)
	}
	query += ` ORDER BY created_at ASC`
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Milestone
	for rows.Next() {
		m, err := scanMilestoneRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		res = append(res, m)
	}
	return res, rows.Err()
}

func (r Repo) UpdateMilestoneTx(ctx context.Context, tx *sql.Tx, m domain.Milestone) error {
	res, err := tx.ExecContext(ctx, `UPDATE milestones SET title=?,due_date=?,status=?,weight=?,blocked_reason=?,updated_at=? WHERE id=?`,
		m.Title, m.DueDate, m.Status, m.Weight, m.BlockedReason, m.UpdatedAt, m.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r Repo) DeleteMilestone(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM milestones WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
