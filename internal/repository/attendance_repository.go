package repository

import (
	"context"
	"database/sql"

	"github.com/hostelhub/seat-management/internal/model"
)

// AttendanceRepo persists per-date roster snapshots. A (library, date,
// member) triple is unique; saving the same triple again overwrites the
// previous mark instead of accumulating duplicates.
type AttendanceRepo struct {
	db *sql.DB
}

// NewAttendanceRepo constructs an AttendanceRepo with the given DB handle.
func NewAttendanceRepo(db *sql.DB) *AttendanceRepo { return &AttendanceRepo{db: db} }

// Save upserts one attendance mark. The date is a YYYY-MM-DD string;
// callers validate the format before reaching the repository.
func (r *AttendanceRepo) Save(ctx context.Context, e *model.AttendanceEntry) error {
	const q = `INSERT INTO attendance (owner_id, library_id, member_id, date, present)
	           VALUES (?, ?, ?, ?, ?)
	           ON DUPLICATE KEY UPDATE present = VALUES(present)`
	_, err := r.db.ExecContext(ctx, q, e.OwnerID, e.LibraryID, e.MemberID, e.Date, e.Present)
	return err
}

// SaveBulk upserts a whole roster for one date in a single statement.
// Passing an empty slice has no effect and returns nil.
func (r *AttendanceRepo) SaveBulk(ctx context.Context, entries []model.AttendanceEntry) error {
	if len(entries) == 0 {
		return nil
	}
	query := `INSERT INTO attendance (owner_id, library_id, member_id, date, present) VALUES `
	args := make([]interface{}, 0, len(entries)*5)
	for i, e := range entries {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?)"
		args = append(args, e.OwnerID, e.LibraryID, e.MemberID, e.Date, e.Present)
	}
	query += ` ON DUPLICATE KEY UPDATE present = VALUES(present)`
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// ListByDate returns the roster of one library for one date, joined with
// member names, ordered by member ID.
func (r *AttendanceRepo) ListByDate(ctx context.Context, ownerID, libraryID uint64, date string) ([]AttendanceRow, error) {
	const q = `SELECT a.id, a.member_id, m.full_name, a.date, a.present
	           FROM attendance a
	           JOIN members m ON m.id = a.member_id
	           WHERE a.owner_id = ? AND a.library_id = ? AND a.date = ?
	           ORDER BY a.member_id`
	rows, err := r.db.QueryContext(ctx, q, ownerID, libraryID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]AttendanceRow, 0)
	for rows.Next() {
		var row AttendanceRow
		if err := rows.Scan(&row.ID, &row.MemberID, &row.MemberName, &row.Date, &row.Present); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// AttendanceRow is one roster line returned by ListByDate.
type AttendanceRow struct {
	ID         uint64 `json:"id"`
	MemberID   uint64 `json:"member_id"`
	MemberName string `json:"member_name"`
	Date       string `json:"date"`
	Present    bool   `json:"present"`
}
