package repo

import (
	"context"
	"database/sql"

	"orga/internal/domain"
)

const reportCols = `id,project_id,period_start,period_end,generated_at,progress_start,progress_end,delta,markdown_content`

func scanReportRow(scan func(dest ...any) error) (domain.WeeklyReport, error) {
	var w domain.WeeklyReport
	err := scan(&w.ID, &w.ProjectID, &w.PeriodStart, &w.PeriodEnd, &w.GeneratedAt, &w.ProgressStart, &w.ProgressEnd, &w.Delta, &w.Markdown)
	if err == sql.ErrNoRows {
		return w, ErrNotFound
	}
	return w, err
}

func (r Repo) InsertReportTx(ctx context.Context, tx *sql.Tx, w domain.WeeklyReport) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO weekly_reports(`+reportCols+`) VALUES (?,?,?,?,?,?,?,?,?)`,
		w.ID, w.ProjectID, w.PeriodStart, w.PeriodEnd, w.GeneratedAt, w.ProgressStart, w.ProgressEnd, w.Delta, w.Markdown)
	return err
}

func (r Repo) GetReport(ctx context.Context, id string) (domain.WeeklyReport, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+reportCols+` FROM weekly_reports WHERE id=?`, id)
	return scanReportRow(row.Scan)
}

func (r Repo) ListReports(ctx context.Context, projectID string) ([]domain.WeeklyReport, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+reportCols+` FROM weekly_reports WHERE project_id=? ORDER BY generated_at DESC`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.WeeklyReport
	for rows.Next() {
		w, err := scanReportRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		res = append(res, w)
	}
	return res, rows.Err()
}

// LatestReport returns the most recently generated report of a project, or
// ErrNotFound when the project has none yet.
func (r Repo) LatestReport(ctx context.Context, projectID string) (domain.WeeklyReport, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+reportCols+` FROM weekly_reports WHERE project_id=? ORDER BY generated_at DESC LIMIT 1`, projectID)
	return scanReportRow(row.Scan)
}

func (r Repo) DeleteReport(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM weekly_reports WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r Repo) InsertSnapshotTx(ctx context.Context, tx *sql.Tx, s domain.ProgressSnapshot) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO progress_snapshots(id,project_id,date,progress_percent) VALUES (?,?,?,?)`,
		s.ID, s.ProjectID, s.Date, s.ProgressPercent)
	return err
}

func (r Repo) ListSnapshots(ctx context.Context, projectID string) ([]domain.ProgressSnapshot, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id,project_id,date,progress_percent FROM progress_snapshots WHERE project_id=? ORDER BY date ASC`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.ProgressSnapshot
	for rows.Next() {
		var s domain.ProgressSnapshot
		if err := rows.Scan(&s.ID, &s.ProjectID, &s.Date, &s.ProgressPercent); err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, rows.Err()
}

// ListActivity returns a project's activity events, most recent first.
// limit <= 0 means no limit.
func (r Repo) ListActivity(ctx context.Context, projectID string, limit int) ([]domain.ActivityEvent, error) {
	query := `SELECT id,project_id,type,entity_id,COALESCE(description,''),payload_json,created_at FROM activity_events WHERE project_id=? ORDER BY created_at DESC`
	args := []any{projectID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.ActivityEvent
	for rows.Next() {
		var e domain.ActivityEvent
		if err := rows.Scan(&e.ID, &e.ProjectID, &e.Type, &e.EntityID, &e.Description, &e.Payload, &e.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, rows.Err()
}
