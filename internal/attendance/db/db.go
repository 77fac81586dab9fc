package db

import (
	"context"

	"github.com/uptrace/bun"

	"ms-attendance/internal/models"
)

type DB struct {
	Bun *bun.DB
}

func (d *DB) CreateAttendance(ctx context.Context, record models.Attendance) error {
	_, err := d.Bun.NewInsert().Model(&record).Exec(ctx)
	return err
}

// GetAttendanceByService returns every attendance row referencing the
// service. The listing contract imposes no ordering.
func (d *DB) GetAttendanceByService(ctx context.Context, serviceID string) ([]models.Attendance, error) {
	var records []models.Attendance
	err := d.Bun.NewSelect().
		Model(&records).
		Where("service_id = ?", serviceID).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}
