package attendance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ms-attendance/internal/models"
)

type AttendanceDBLayer interface {
	CreateAttendance(ctx context.Context, record models.Attendance) error
	GetAttendanceByService(ctx context.Context, serviceID string) ([]models.Attendance, error)
}

type ServiceLookup interface {
	GetServiceByID(ctx context.Context, id string) (*models.Service, error)
	ServiceExists(ctx context.Context, id string) (bool, error)
}

type CheckinPublisher interface {
	PublishCheckinRecorded(record models.Attendance) error
}

type CheckinEmitter interface {
	EmitCheckin(record models.Attendance)
}

// AttendanceService handles check-in submissions. Each insert is an
// independent single-row append; concurrent submissions for the same service
// never interfere and counts are derived later by scanning, so no cross-record
// transaction is needed.
type AttendanceService struct {
	DB       AttendanceDBLayer
	Services ServiceLookup
	// Publisher and Emitter are optional; a nil value disables that fan-out.
	Publisher CheckinPublisher
	Emitter   CheckinEmitter
	// Window is the check-in expiry window measured from service creation.
	Window time.Duration
}

func NewAttendanceService(db AttendanceDBLayer, services ServiceLookup, window time.Duration) *AttendanceService {
	return &AttendanceService{DB: db, Services: services, Window: window}
}

// CheckIn validates and persists one attendee's submission. The expiry
// predicate is enforced here as well as in the form UI, so bypassing the
// countdown does not allow late submissions.
func (s *AttendanceService) CheckIn(ctx context.Context, record models.Attendance) (*models.Attendance, error) {
	if record.Name == "" {
		return nil, fmt.Errorf("%w: name is required", models.ErrValidation)
	}
	if !models.ValidCategory(record.Category) {
		return nil, fmt.Errorf("%w: category must be one of male, female, kids", models.ErrValidation)
	}
	if !models.ValidFirstTimer(record.FirstTimer) {
		return nil, fmt.Errorf("%w: first_timer must be Yes or No", models.ErrValidation)
	}
	if record.ServiceID == "" {
		return nil, fmt.Errorf("%w: service_id is required", models.ErrValidation)
	}

	service, err := s.Services.GetServiceByID(ctx, record.ServiceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("service %s: %w", record.ServiceID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to verify service %s: %w", record.ServiceID, err)
	}

	now := time.Now().UnixMilli()
	expiresAt := service.CreatedAt + s.Window.Milliseconds()
	if now >= expiresAt {
		return nil, fmt.Errorf("service %s: %w", service.ID, models.ErrExpired)
	}

	record.ID = uuid.New().String()
	record.CreatedAt = now

	if err := s.DB.CreateAttendance(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to record attendance: %w", err)
	}

	if s.Publisher != nil {
		if err := s.Publisher.PublishCheckinRecorded(record); err != nil {
			fmt.Printf("Kafka publish error (checkin recorded): %v\n", err)
		}
	}
	if s.Emitter != nil {
		s.Emitter.EmitCheckin(record)
	}

	return &record, nil
}

// ListByService returns every attendance row for the service, in no
// particular order. Callers that need chronological order sort explicitly.
func (s *AttendanceService) ListByService(ctx context.Context, serviceID string) ([]models.Attendance, error) {
	// Only existence matters here, so the listing skips the full row fetch
	// check-in needs for its expiry anchor.
	exists, err := s.Services.ServiceExists(ctx, serviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to verify service %s: %w", serviceID, err)
	}
	if !exists {
		return nil, fmt.Errorf("service %s: %w", serviceID, models.ErrNotFound)
	}

	records, err := s.DB.GetAttendanceByService(ctx, serviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch attendance for service %s: %w", serviceID, err)
	}
	return records, nil
}
