package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/hostelhub/seat-management/internal/model"
)

// LibraryRepo provides CRUD access to libraries, the tenant boundary.
// Libraries are always scoped by owner; an owner can never see or touch
// another owner's tenants.
type LibraryRepo struct {
	db *sql.DB
}

// NewLibraryRepo constructs a LibraryRepo with the given DB handle.
func NewLibraryRepo(db *sql.DB) *LibraryRepo { return &LibraryRepo{db: db} }

// Create inserts a library and populates its generated ID.
func (r *LibraryRepo) Create(ctx context.Context, lib *model.Library) error {
	lib.Name = strings.TrimSpace(lib.Name)
	const q = `INSERT INTO libraries (owner_id, name, address) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, lib.OwnerID, lib.Name, lib.Address)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	lib.ID = uint64(id)
	return nil
}

// GetByIDAndOwner retrieves a library while enforcing ownership.
func (r *LibraryRepo) GetByIDAndOwner(ctx context.Context, libraryID, ownerID uint64) (*model.Library, error) {
	const q = `SELECT id, owner_id, name, address, created_at, updated_at
	           FROM libraries
	           WHERE id = ? AND owner_id = ?`
	var lib model.Library
	var address sql.NullString
	err := r.db.QueryRowContext(ctx, q, libraryID, ownerID).Scan(
		&lib.ID, &lib.OwnerID, &lib.Name, &address, &lib.CreatedAt, &lib.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLibraryNotFound
		}
		return nil, err
	}
	if address.Valid {
		a := address.String
		lib.Address = &a
	}
	return &lib, nil
}

// ListByOwner returns all libraries of an owner ordered by name.
func (r *LibraryRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Library, error) {
	const q = `SELECT id, owner_id, name, address, created_at, updated_at
	           FROM libraries
	           WHERE owner_id = ?
	           ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	libs := make([]model.Library, 0)
	for rows.Next() {
		var lib model.Library
		var address sql.NullString
		if err := rows.Scan(&lib.ID, &lib.OwnerID, &lib.Name, &address, &lib.CreatedAt, &lib.UpdatedAt); err != nil {
			return nil, err
		}
		if address.Valid {
			a := address.String
			lib.Address = &a
		}
		libs = append(libs, lib)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return libs, nil
}

// Update rewrites a library's name and address.
func (r *LibraryRepo) Update(ctx context.Context, lib *model.Library) error {
	lib.Name = strings.TrimSpace(lib.Name)
	const q = `UPDATE libraries SET name = ?, address = ? WHERE id = ? AND owner_id = ?`
	res, err := r.db.ExecContext(ctx, q, lib.Name, lib.Address, lib.ID, lib.OwnerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrLibraryNotFound
	}
	return nil
}
