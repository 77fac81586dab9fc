package analytics_test

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

	"ms-attendance/internal/analytics"
	"ms-attendance/internal/models"
)

const windowMillis = int64(12 * 60 * 60 * 1000) // 43,200,000

func setupTestDB(t *testing.T) *bun.DB {
	sqldb, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to connect to in-memory database: %v", err)
	}

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())

	for _, model := range []interface{}{(*models.Service)(nil), (*models.Attendance)(nil)} {
		if _, err := bunDB.NewCreateTable().Model(model).Exec(context.Background()); err != nil {
			t.Fatalf("Failed to create table for %T: %v", model, err)
		}
	}
	return bunDB
}

func insertService(t *testing.T, db *bun.DB, title, date string, createdAt int64) models.Service {
	service := models.Service{
		ID:        uuid.New().String(),
		Title:     title,
		Date:      date,
		CreatedAt: createdAt,
	}
	if _, err := db.NewInsert().Model(&service).Exec(context.Background()); err != nil {
		t.Fatalf("Failed to insert service: %v", err)
	}
	return service
}

func insertAttendance(t *testing.T, db *bun.DB, serviceID, category string) {
	record := models.Attendance{
		ID:        uuid.New().String(),
		ServiceID: serviceID,
		Name:      "Attendee",
		Category:  category,
		CreatedAt: time.Now().UnixMilli(),
	}
	if _, err := db.NewInsert().Model(&record).Exec(context.Background()); err != nil {
		t.Fatalf("Failed to insert attendance: %v", err)
	}
}

func TestGetServiceSummary(t *testing.T) {
	bunDB := setupTestDB(t)
	defer bunDB.Close()

	createdAt := time.Now().UnixMilli()
	service := insertService(t, bunDB, "Sunday Service", "2024-12-25", createdAt)

	insertAttendance(t, bunDB, service.ID, models.CategoryMale)
	insertAttendance(t, bunDB, service.ID, models.CategoryFemale)
	insertAttendance(t, bunDB, service.ID, models.CategoryKids)

	svc := analytics.NewService(bunDB, 12*time.Hour)
	summary, err := svc.GetServiceSummary(context.Background(), service.ID)
	assert.NoError(t, err)
	assert.Equal(t, 3, summary.AttendanceCount)
	assert.Equal(t, 1, summary.MaleCount)
	assert.Equal(t, 1, summary.FemaleCount)
	assert.Equal(t, 1, summary.KidsCount)
	assert.Equal(t, createdAt+windowMillis, summary.ExpiresAt)
	assert.Equal(t, "Sunday Service", summary.Title)
}

func TestGetServiceSummaryCountsAreAdditive(t *testing.T) {
	bunDB := setupTestDB(t)
	defer bunDB.Close()

	service := insertService(t, bunDB, "Sunday Service", "2024-12-25", time.Now().UnixMilli())

	insertAttendance(t, bunDB, service.ID, models.CategoryMale)
	insertAttendance(t, bunDB, service.ID, models.CategoryMale)
	insertAttendance(t, bunDB, service.ID, models.CategoryFemale)

	svc := analytics.NewService(bunDB, 12*time.Hour)
	summary, err := svc.GetServiceSummary(context.Background(), service.ID)
	assert.NoError(t, err)
	assert.Equal(t, summary.AttendanceCount, summary.MaleCount+summary.FemaleCount+summary.KidsCount)
}

func TestGetServiceSummaryLegacyCategory(t *testing.T) {
	bunDB := setupTestDB(t)
	defer bunDB.Close()

	service := insertService(t, bunDB, "Sunday Service", "2024-12-25", time.Now().UnixMilli())

	insertAttendance(t, bunDB, service.ID, models.CategoryMale)
	// A legacy row whose category predates the enumeration counts toward the
	// total but not toward any per-category count.
	insertAttendance(t, bunDB, service.ID, "")

	svc := analytics.NewService(bunDB, 12*time.Hour)
	summary, err := svc.GetServiceSummary(context.Background(), service.ID)
	assert.NoError(t, err)
	assert.Equal(t, 2, summary.AttendanceCount)
	assert.Equal(t, 1, summary.MaleCount)
	assert.Equal(t, 0, summary.FemaleCount)
	assert.Equal(t, 0, summary.KidsCount)
}

func TestGetServiceSummaryNoAttendance(t *testing.T) {
	bunDB := setupTestDB(t)
	defer bunDB.Close()

	service := insertService(t, bunDB, "Sunday Service", "2024-12-25", time.Now().UnixMilli())

	svc := analytics.NewService(bunDB, 12*time.Hour)
	summary, err := svc.GetServiceSummary(context.Background(), service.ID)
	assert.NoError(t, err)
	assert.Equal(t, 0, summary.AttendanceCount)
}

func TestGetServiceSummaryNotFound(t *testing.T) {
	bunDB := setupTestDB(t)
	defer bunDB.Close()

	svc := analytics.NewService(bunDB, 12*time.Hour)
	_, err := svc.GetServiceSummary(context.Background(), "no-such-service")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestListServiceSummariesOrderedByDateDesc(t *testing.T) {
	bunDB := setupTestDB(t)
	defer bunDB.Close()

	older := insertService(t, bunDB, "Midweek Service", "2024-12-18", time.Now().UnixMilli())
	newer := insertService(t, bunDB, "Christmas Service", "2024-12-25", time.Now().UnixMilli())

	insertAttendance(t, bunDB, older.ID, models.CategoryFemale)
	insertAttendance(t, bunDB, newer.ID, models.CategoryMale)
	insertAttendance(t, bunDB, newer.ID, models.CategoryKids)

	svc := analytics.NewService(bunDB, 12*time.Hour)
	summaries, err := svc.ListServiceSummaries(context.Background())
	assert.NoError(t, err)
	assert.Len(t, summaries, 2)

	assert.Equal(t, "2024-12-25", summaries[0].Date)
	assert.Equal(t, 2, summaries[0].AttendanceCount)
	assert.Equal(t, "2024-12-18", summaries[1].Date)
	assert.Equal(t, 1, summaries[1].AttendanceCount)
}

func TestIsCheckInOpenBoundary(t *testing.T) {
	summary := &models.ServiceSummary{ExpiresAt: time.Now().UnixMilli()}

	before := time.UnixMilli(summary.ExpiresAt - 1)
	atExpiry := time.UnixMilli(summary.ExpiresAt)
	after := time.UnixMilli(summary.ExpiresAt + 1)

	assert.True(t, analytics.IsCheckInOpen(summary, before))
	// The boundary is closed: the form is already expired at ExpiresAt.
	assert.False(t, analytics.IsCheckInOpen(summary, atExpiry))
	assert.False(t, analytics.IsCheckInOpen(summary, after))
}
