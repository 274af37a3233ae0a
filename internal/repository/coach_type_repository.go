package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/railway-seat-reservation/internal/model"
)

// CoachTypeRepo reads travel classes and their pricing.
type CoachTypeRepo struct {
	db *sqlx.DB
}

// NewCoachTypeRepo returns a new CoachTypeRepo bound to the given database.
func NewCoachTypeRepo(db *sqlx.DB) *CoachTypeRepo { return &CoachTypeRepo{db: db} }

const coachTypeColumns = `id, code, name, base_fare, fare_multiplier, description`

// List returns all coach types, cheapest base fare first.
func (r *CoachTypeRepo) List(ctx context.Context) ([]model.CoachType, error) {
	q := `SELECT ` + coachTypeColumns + ` FROM coachtype ORDER BY base_fare`
	out := []model.CoachType{}
	if err := r.db.SelectContext(ctx, &out, q); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID returns a coach type or ErrNotFound.
func (r *CoachTypeRepo) GetByID(ctx context.Context, id uint64) (*model.CoachType, error) {
	q := `SELECT ` + coachTypeColumns + ` FROM coachtype WHERE id = ?`
	var ct model.CoachType
	if err := r.db.GetContext(ctx, &ct, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ct, nil
}
