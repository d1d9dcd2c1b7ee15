package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/hostelhub/seat-management/internal/model"
)

// PlanRepo provides CRUD access to subscription plans. Plans are pure
// data consumed when registering or renewing members.
type PlanRepo struct {
	db *sql.DB
}

// NewPlanRepo constructs a PlanRepo with the given DB handle.
func NewPlanRepo(db *sql.DB) *PlanRepo { return &PlanRepo{db: db} }

// Create inserts a plan and populates its generated ID.
func (r *PlanRepo) Create(ctx context.Context, p *model.Plan) error {
	p.Name = strings.TrimSpace(p.Name)
	const q = `INSERT INTO plans (owner_id, library_id, name, duration_months, amount)
	           VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, p.OwnerID, p.LibraryID, p.Name, p.DurationMonths, p.Amount)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// GetByID retrieves a plan scoped to the calling owner and library.
func (r *PlanRepo) GetByID(ctx context.Context, ownerID, libraryID, planID uint64) (*model.Plan, error) {
	const q = `SELECT id, owner_id, library_id, name, duration_months, amount, created_at, updated_at
	           FROM plans
	           WHERE id = ? AND owner_id = ? AND library_id = ?`
	var p model.Plan
	err := r.db.QueryRowContext(ctx, q, planID, ownerID, libraryID).Scan(
		&p.ID, &p.OwnerID, &p.LibraryID, &p.Name, &p.DurationMonths, &p.Amount,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return &p, nil
}

// List returns all plans of a library ordered by name.
func (r *PlanRepo) List(ctx context.Context, ownerID, libraryID uint64) ([]model.Plan, error) {
	const q = `SELECT id, owner_id, library_id, name, duration_months, amount, created_at, updated_at
	           FROM plans
	           WHERE owner_id = ? AND library_id = ?
	           ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q, ownerID, libraryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plans := make([]model.Plan, 0)
	for rows.Next() {
		var p model.Plan
		if err := rows.Scan(
			&p.ID, &p.OwnerID, &p.LibraryID, &p.Name, &p.DurationMonths, &p.Amount,
			&p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return plans, nil
}

// Update rewrites a plan's name, duration and amount.
func (r *PlanRepo) Update(ctx context.Context, p *model.Plan) error {
	p.Name = strings.TrimSpace(p.Name)
	const q = `UPDATE plans SET name = ?, duration_months = ?, amount = ?
	           WHERE id = ? AND owner_id = ? AND library_id = ?`
	res, err := r.db.ExecContext(ctx, q, p.Name, p.DurationMonths, p.Amount, p.ID, p.OwnerID, p.LibraryID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrPlanNotFound
	}
	return nil
}

// Delete removes a plan. Members keep their denormalized plan name.
func (r *PlanRepo) Delete(ctx context.Context, ownerID, libraryID, planID uint64) error {
	const q = `DELETE FROM plans WHERE id = ? AND owner_id = ? AND library_id = ?`
	res, err := r.db.ExecContext(ctx, q, planID, ownerID, libraryID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrPlanNotFound
	}
	return nil
}
