package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/railway-seat-reservation/internal/model"
)

// StationRepo reads the station reference table.
type StationRepo struct {
	db *sqlx.DB
}

// NewStationRepo returns a new StationRepo bound to the given database.
func NewStationRepo(db *sqlx.DB) *StationRepo { return &StationRepo{db: db} }

// List returns every station ordered by name.
func (r *StationRepo) List(ctx context.Context) ([]model.Station, error) {
	const q = `SELECT id, code, name FROM station ORDER BY name`
	stations := []model.Station{}
	if err := r.db.SelectContext(ctx, &stations, q); err != nil {
		return nil, err
	}
	return stations, nil
}
