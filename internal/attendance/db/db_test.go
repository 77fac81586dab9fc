package db_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "github.com/uptrace/bun/driver/sqliteshim"

	"ms-attendance/internal/attendance/db"
	"ms-attendance/internal/models"
)

func setupTestDB(t *testing.T) (*db.DB, *bun.DB) {
	sqldb, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to connect to in-memory database: %v", err)
	}

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())

	_, err = bunDB.NewCreateTable().Model((*models.Attendance)(nil)).Exec(context.Background())
	if err != nil {
		t.Fatalf("Failed to create attendance table: %v", err)
	}

	return &db.DB{Bun: bunDB}, bunDB
}

func TestCreateAttendanceIsVisibleToQuery(t *testing.T) {
	attendanceDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	serviceID := uuid.New().String()
	record := models.Attendance{
		ID:         uuid.New().String(),
		ServiceID:  serviceID,
		Name:       "Alice Mensah",
		Category:   models.CategoryFemale,
		Email:      "alice@example.com",
		FirstTimer: models.FirstTimerYes,
		CreatedAt:  time.Now().UnixMilli(),
	}

	err := attendanceDB.CreateAttendance(context.Background(), record)
	assert.NoError(t, err)

	// Every insert must be visible to a subsequent query; no writes are lost.
	records, err := attendanceDB.GetAttendanceByService(context.Background(), serviceID)
	assert.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, record.ID, records[0].ID)
	assert.Equal(t, "Alice Mensah", records[0].Name)
	assert.Equal(t, models.CategoryFemale, records[0].Category)
	assert.Equal(t, models.FirstTimerYes, records[0].FirstTimer)
}

func TestGetAttendanceByServiceFiltersByService(t *testing.T) {
	attendanceDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	serviceA := uuid.New().String()
	serviceB := uuid.New().String()

	for i, serviceID := range []string{serviceA, serviceA, serviceB} {
		record := models.Attendance{
			ID:        uuid.New().String(),
			ServiceID: serviceID,
			Name:      "Attendee",
			Category:  models.CategoryMale,
			CreatedAt: time.Now().UnixMilli() + int64(i),
		}
		assert.NoError(t, attendanceDB.CreateAttendance(context.Background(), record))
	}

	records, err := attendanceDB.GetAttendanceByService(context.Background(), serviceA)
	assert.NoError(t, err)
	assert.Len(t, records, 2)

	records, err = attendanceDB.GetAttendanceByService(context.Background(), serviceB)
	assert.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestGetAttendanceByServiceEmpty(t *testing.T) {
	attendanceDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	records, err := attendanceDB.GetAttendanceByService(context.Background(), "no-such-service")
	assert.NoError(t, err)
	assert.Empty(t, records)
}
