package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"ms-attendance/internal/models"
	"ms-attendance/internal/utils"
)

const sheetName = "Attendance"

var headers = []string{"Name", "Category", "Email", "Phone", "FirstTimer", "PrayerRequest", "Time"}

// AttendanceWorkbook maps attendance rows into a single-sheet xlsx workbook,
// one row per record. A stateless flat transformation, no aggregation.
func AttendanceWorkbook(records []models.Attendance) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return nil, err
		}
	}

	for i, record := range records {
		values := []string{
			record.Name,
			record.Category,
			record.Email,
			record.Phone,
			record.FirstTimer,
			record.PrayerRequest,
			utils.FormatMillis(record.CreatedAt),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf, nil
}

// Filename builds the download name for a service's export, mirroring the
// admin dashboard convention: "<title>-attendance.xlsx".
func Filename(serviceTitle string) string {
	title := strings.TrimSpace(serviceTitle)
	if title == "" {
		title = "attendance"
	}
	title = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '-'
		}
		return r
	}, title)
	return fmt.Sprintf("%s-attendance.xlsx", title)
}
