package export_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"

	"ms-attendance/internal/export"
	"ms-attendance/internal/models"
	"ms-attendance/internal/utils"
)

func TestAttendanceWorkbook(t *testing.T) {
	checkinAt := time.Date(2024, 12, 25, 9, 30, 0, 0, time.UTC).UnixMilli()
	records := []models.Attendance{
		{
			Name:          "Alice Mensah",
			Category:      models.CategoryFemale,
			Email:         "alice@example.com",
			Phone:         "0244000000",
			FirstTimer:    models.FirstTimerYes,
			PrayerRequest: "Travelling mercies",
			CreatedAt:     checkinAt,
		},
		{
			Name:      "Bob Owusu",
			Category:  models.CategoryMale,
			CreatedAt: checkinAt,
		},
	}

	buf, err := export.AttendanceWorkbook(records)
	assert.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	assert.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Attendance")
	assert.NoError(t, err)
	assert.Len(t, rows, 3)

	assert.Equal(t, []string{"Name", "Category", "Email", "Phone", "FirstTimer", "PrayerRequest", "Time"}, rows[0])
	assert.Equal(t, "Alice Mensah", rows[1][0])
	assert.Equal(t, "female", rows[1][1])
	assert.Equal(t, "alice@example.com", rows[1][2])
	assert.Equal(t, "Yes", rows[1][4])
	assert.Equal(t, "Travelling mercies", rows[1][5])
	assert.Equal(t, utils.FormatMillis(checkinAt), rows[1][6])
	assert.Equal(t, "Bob Owusu", rows[2][0])
}

func TestAttendanceWorkbookEmpty(t *testing.T) {
	buf, err := export.AttendanceWorkbook(nil)
	assert.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	assert.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Attendance")
	assert.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "Sunday Service-attendance.xlsx", export.Filename("Sunday Service"))
	assert.Equal(t, "attendance-attendance.xlsx", export.Filename("   "))
	assert.Equal(t, "Watch-Night 31-12-attendance.xlsx", export.Filename(`Watch/Night 31:12`))
}
