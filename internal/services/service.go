package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ms-attendance/internal/models"
)

type ServiceDBLayer interface {
	CreateService(ctx context.Context, service models.Service) error
	GetServiceByID(ctx context.Context, id string) (*models.Service, error)
	ListServices(ctx context.Context) ([]models.Service, error)
	ServiceExists(ctx context.Context, id string) (bool, error)
}

type ServicePublisher interface {
	PublishServiceCreated(service models.Service) error
}

// ServiceService manages the Service records attendees check into. Services
// are created by admins and never updated or deleted afterwards.
type ServiceService struct {
	DB        ServiceDBLayer
	Publisher ServicePublisher
}

func NewServiceService(db ServiceDBLayer) *ServiceService {
	return &ServiceService{DB: db}
}

// CreateService persists a new service. The creation timestamp is stamped
// here, server-side, so the expiry window cannot be tampered with by clients.
func (s *ServiceService) CreateService(ctx context.Context, title, date string) (*models.Service, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", models.ErrValidation)
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, fmt.Errorf("%w: date must be an ISO date like 2024-12-25", models.ErrValidation)
	}

	service := models.Service{
		ID:        uuid.New().String(),
		Title:     title,
		Date:      date,
		CreatedAt: time.Now().UnixMilli(),
	}

	if err := s.DB.CreateService(ctx, service); err != nil {
		return nil, fmt.Errorf("failed to create service: %w", err)
	}

	if s.Publisher != nil {
		if err := s.Publisher.PublishServiceCreated(service); err != nil {
			fmt.Printf("Kafka publish error (service created): %v\n", err)
		}
	}

	return &service, nil
}

func (s *ServiceService) GetService(ctx context.Context, id string) (*models.Service, error) {
	service, err := s.DB.GetServiceByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("service %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch service %s: %w", id, err)
	}
	return service, nil
}

// ListServices returns every service ordered by date descending.
func (s *ServiceService) ListServices(ctx context.Context) ([]models.Service, error) {
	services, err := s.DB.ListServices(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	return services, nil
}

// LatestService returns the most recent service, the one the landing page
// renders a QR code for. Returns ErrNotFound when no services exist yet.
func (s *ServiceService) LatestService(ctx context.Context) (*models.Service, error) {
	services, err := s.DB.ListServices(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	if len(services) == 0 {
		return nil, fmt.Errorf("no services: %w", models.ErrNotFound)
	}
	return &services[0], nil
}
