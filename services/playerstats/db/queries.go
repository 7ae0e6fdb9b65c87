package db

import (
	"context"
	"database/sql"
)

type Queries struct {
	db *sql.DB
}

func New(db *sql.DB) *Queries {
	return &Queries{db: db}
}

type InsertTableParams struct {
	PlayerID int64
	Key      string
	Url      string
	Title    string
	RowCount int64
}

func (q *Queries) InsertTable(ctx context.Context, params InsertTableParams) (int64, error) {
	res, err := q.db.ExecContext(
		ctx,
		`INSERT INTO exported_table (player_id, key, url, title, row_count)
		 VALUES (?, ?, ?, ?, ?)`,
		params.PlayerID, params.Key, params.Url, params.Title, params.RowCount,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

type InsertCellParams struct {
	TableID    int64
	RowIdx     int64
	ColIdx     int64
	ColumnName string
	Value      string
}

func (q *Queries) InsertCell(ctx context.Context, params InsertCellParams) error {
	_, err := q.db.ExecContext(
		ctx,
		`INSERT INTO table_cell (table_id, row_idx, col_idx, column_name, value)
		 VALUES (?, ?, ?, ?, ?)`,
		params.TableID, params.RowIdx, params.ColIdx, params.ColumnName, params.Value,
	)
	return err
}

type TableSummaryRow struct {
	ID       int64
	Key      string
	RowCount int64
}

func (q *Queries) ListTables(ctx context.Context, playerID int64) ([]TableSummaryRow, error) {
	rows, err := q.db.QueryContext(
		ctx,
		`SELECT id, key, row_count FROM exported_table WHERE player_id = ? ORDER BY id`,
		playerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TableSummaryRow
	for rows.Next() {
		var row TableSummaryRow
		if err := rows.Scan(&row.ID, &row.Key, &row.RowCount); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
