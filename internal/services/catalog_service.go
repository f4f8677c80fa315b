package services

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"katalog/internal/models"
	"katalog/internal/repositories"
	"katalog/pkg/rabbitmq"
)

// ValidationError carries the list of human-readable rule violations for a
// request, one message per violated rule. Handlers render it as HTTP 422.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Errors, "; ")
}

// NewValidationError builds a ValidationError from messages.
func NewValidationError(messages ...string) *ValidationError {
	return &ValidationError{Errors: messages}
}

// EventPublisher publishes catalog change events. The RabbitMQ client
// satisfies it; tests substitute a mock.
type EventPublisher interface {
	PublishProductEvent(event rabbitmq.ProductEvent) error
}

// CatalogService handles business logic for the product catalog.
type CatalogService struct {
	repo   repositories.ProductRepository
	events EventPublisher
}

// NewCatalogService creates a new CatalogService. The publisher may be nil,
// in which case change events are skipped.
func NewCatalogService(repo repositories.ProductRepository, events EventPublisher) *CatalogService {
	return &CatalogService{
		repo:   repo,
		events: events,
	}
}

// ListProducts retrieves the products matching the filter.
func (s *CatalogService) ListProducts(ctx context.Context, filter repositories.ProductFilter) ([]models.Product, error) {
	return s.repo.List(ctx, filter)
}

// GetProduct retrieves a single product. A non-existent ID fails the
// existence pre-check with a ValidationError; a record that vanishes
// between the check and the fetch surfaces as repositories.ErrNotFound.
func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	if err := s.ensureExists(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// CreateProduct persists a new product and publishes a created event. The
// store assigns the ID.
func (s *CatalogService) CreateProduct(ctx context.Context, product *models.Product) error {
	if err := s.repo.Create(ctx, product); err != nil {
		return err
	}
	s.publish("product.created", *product)
	return nil
}

// UpdateProduct merges the patch onto the stored record, supplied fields
// only, and returns the full updated record. A non-existent ID fails with
// a ValidationError; a record deleted between the existence check and the
// fetch surfaces as repositories.ErrNotFound.
func (s *CatalogService) UpdateProduct(ctx context.Context, id uint, patch models.ProductPatch) (*models.Product, error) {
	if err := s.ensureExists(ctx, id); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	merged := existing.ApplyPatch(patch)
	if err := s.repo.Update(ctx, &merged); err != nil {
		return nil, err
	}

	// Re-read so the response reflects what the store actually holds.
	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.publish("product.updated", *updated)
	return updated, nil
}

// DeleteProduct removes a product. A missing record fails with
// repositories.ErrNotFound, including a repeated delete of the same ID.
func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return repositories.ErrNotFound
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.publish("product.deleted", models.Product{ID: id})
	return nil
}

// ensureExists runs the existence pre-check shared by show and update.
func (s *CatalogService) ensureExists(ctx context.Context, id uint) error {
	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return NewValidationError("The selected id is invalid.")
	}
	return nil
}

// publish sends a catalog change event. Failures are logged, never
// surfaced to the caller: the write already succeeded.
func (s *CatalogService) publish(action string, product models.Product) {
	if s.events == nil {
		return
	}

	event := rabbitmq.ProductEvent{
		EventID:    uuid.New().String(),
		Action:     action,
		ProductID:  product.ID,
		Name:       product.Name,
		Price:      product.Price,
		Category:   product.Category,
		OccurredAt: time.Now(),
	}
	if err := s.events.PublishProductEvent(event); err != nil {
		log.Printf("Warning: failed to publish %s event for product %d: %v", action, product.ID, err)
	}
}
