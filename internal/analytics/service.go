package analytics

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"ms-attendance/internal/models"
)

// Service computes the derived per-service attendance view consumed by the
// admin dashboard and the public landing page. It is a pure function of
// current store state: no internal mutable state, no caching. Every call
// re-reads and recomputes so counts always reflect the latest submissions.
// There is no snapshot isolation across the service fetch and the count scan;
// a submission racing with a summary read may or may not be reflected, which
// is acceptable at this write volume.
type Service struct {
	db     *bun.DB
	window time.Duration
}

func NewService(db *bun.DB, window time.Duration) *Service {
	return &Service{db: db, window: window}
}

// categoryCount is a scan target for the grouped count query. Legacy rows
// with no category are coalesced to the empty string.
type categoryCount struct {
	ServiceID string `bun:"service_id"`
	Category  string `bun:"category"`
	Count     int    `bun:"count"`
}

// GetServiceSummary returns the service merged with its derived fields:
// total and per-category attendance counts plus the expiry timestamp.
func (s *Service) GetServiceSummary(ctx context.Context, serviceID string) (*models.ServiceSummary, error) {
	var service models.Service
	err := s.db.NewSelect().
		Model(&service).
		Where("id = ?", serviceID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("service %s: %w", serviceID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch service %s: %w", serviceID, err)
	}

	var counts []categoryCount
	err = s.db.NewRaw(`
		SELECT
			service_id,
			COALESCE(category, '') AS category,
			COUNT(*) AS count
		FROM attendance
		WHERE service_id = ?
		GROUP BY service_id, COALESCE(category, '')
	`, serviceID).Scan(ctx, &counts)
	if err != nil {
		return nil, fmt.Errorf("failed to count attendance for service %s: %w", serviceID, err)
	}

	summary := s.buildSummary(service, counts)
	return &summary, nil
}

// ListServiceSummaries returns the summary for every service, ordered by date
// descending. The per-service counts come from a single grouped query so the
// whole set is computed in one pass. No pagination; the service count stays
// in the low hundreds.
func (s *Service) ListServiceSummaries(ctx context.Context) ([]models.ServiceSummary, error) {
	var services []models.Service
	err := s.db.NewSelect().
		Model(&services).
		Order("date DESC").
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}

	var counts []categoryCount
	err = s.db.NewRaw(`
		SELECT
			service_id,
			COALESCE(category, '') AS category,
			COUNT(*) AS count
		FROM attendance
		GROUP BY service_id, COALESCE(category, '')
	`).Scan(ctx, &counts)
	if err != nil {
		return nil, fmt.Errorf("failed to count attendance: %w", err)
	}

	countsByService := make(map[string][]categoryCount)
	for _, c := range counts {
		countsByService[c.ServiceID] = append(countsByService[c.ServiceID], c)
	}

	summaries := make([]models.ServiceSummary, 0, len(services))
	for _, service := range services {
		summaries = append(summaries, s.buildSummary(service, countsByService[service.ID]))
	}
	return summaries, nil
}

// buildSummary folds the grouped counts into the derived view. Rows with a
// legacy or absent category contribute to the total but not to any of the
// per-category counts, which filter on exact equality to the three literals.
func (s *Service) buildSummary(service models.Service, counts []categoryCount) models.ServiceSummary {
	summary := models.ServiceSummary{
		Service:   service,
		ExpiresAt: service.CreatedAt + s.window.Milliseconds(),
	}
	for _, c := range counts {
		summary.AttendanceCount += c.Count
		switch c.Category {
		case models.CategoryMale:
			summary.MaleCount += c.Count
		case models.CategoryFemale:
			summary.FemaleCount += c.Count
		case models.CategoryKids:
			summary.KidsCount += c.Count
		}
	}
	return summary
}

// IsCheckInOpen reports whether the public check-in form is still open at the
// given instant. The boundary is closed: a submission at exactly ExpiresAt is
// rejected.
func IsCheckInOpen(summary *models.ServiceSummary, now time.Time) bool {
	return now.UnixMilli() < summary.ExpiresAt
}
