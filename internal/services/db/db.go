package db

import (
	"context"

	"github.com/uptrace/bun"

	"ms-attendance/internal/models"
)

type DB struct {
	Bun *bun.DB
}

func (d *DB) CreateService(ctx context.Context, service models.Service) error {
	_, err := d.Bun.NewInsert().Model(&service).Exec(ctx)
	return err
}

func (d *DB) GetServiceByID(ctx context.Context, id string) (*models.Service, error) {
	var service models.Service
	err := d.Bun.NewSelect().
		Model(&service).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &service, nil
}

// ListServices returns all services ordered by date descending, newest
// creation first within the same date.
func (d *DB) ListServices(ctx context.Context) ([]models.Service, error) {
	var services []models.Service
	err := d.Bun.NewSelect().
		Model(&services).
		Order("date DESC").
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return services, nil
}

func (d *DB) ServiceExists(ctx context.Context, id string) (bool, error) {
	return d.Bun.NewSelect().
		Model((*models.Service)(nil)).
		Where("id = ?", id).
		Exists(ctx)
}
