package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oms/backend/internal/domain/order"
	"github.com/oms/backend/internal/domain/shared"
	"github.com/oms/backend/internal/infrastructure/persistence/models"
)

// GormOrderRepository implements order.Repository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Create persists a new order with its line items. A unique-constraint
// violation on the origin tag is reported as shared.ErrAlreadyExists so
// concurrent imports of the same remote order stay idempotent.
func (r *GormOrderRepository) Create(ctx context.Context, o *order.LocalOrder) error {
	model := models.OrderModelFromDomain(o)
	if err := dbFromContext(ctx, r.db).Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// FindByID loads an order with its line items
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.LocalOrder, error) {
	var model models.OrderModel
	if err := dbFromContext(ctx, r.db).Preload("Items").First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByOrigin loads an order by its origin tag
func (r *GormOrderRepository) FindByOrigin(ctx context.Context, source order.Source, externalID string) (*order.LocalOrder, error) {
	var model models.OrderModel
	if err := dbFromContext(ctx, r.db).Preload("Items").
		Where("origin_source = ? AND origin_external_id = ?", source.String(), externalID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ExistsByOrigin reports whether an order carrying the given origin tag
// has already been materialized
func (r *GormOrderRepository) ExistsByOrigin(ctx context.Context, source order.Source, externalID string) (bool, error) {
	var count int64
	if err := dbFromContext(ctx, r.db).Model(&models.OrderModel{}).
		Where("origin_source = ? AND origin_external_id = ?", source.String(), externalID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Update persists mutable order state. Line items are immutable after
// import and left untouched.
func (r *GormOrderRepository) Update(ctx context.Context, o *order.LocalOrder) error {
	model := models.OrderModelFromDomain(o)
	result := dbFromContext(ctx, r.db).Model(&models.OrderModel{}).
		Where("id = ?", o.ID).
		Updates(map[string]any{
			"status":           model.Status,
			"tracking_number":  model.TrackingNumber,
			"tracking_carrier": model.TrackingCarrier,
			"assignee_id":      model.AssigneeID,
			"updated_at":       time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// AddNote appends an audit note to an order
func (r *GormOrderRepository) AddNote(ctx context.Context, orderID uuid.UUID, text string) error {
	note := models.OrderNoteModel{
		ID:        uuid.New(),
		OrderID:   orderID,
		Text:      text,
		CreatedAt: time.Now(),
	}
	return dbFromContext(ctx, r.db).Create(&note).Error
}

// FindNotes returns an order's audit notes, oldest first
func (r *GormOrderRepository) FindNotes(ctx context.Context, orderID uuid.UUID) ([]order.Note, error) {
	var noteModels []models.OrderNoteModel
	if err := dbFromContext(ctx, r.db).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&noteModels).Error; err != nil {
		return nil, err
	}

	notes := make([]order.Note, 0, len(noteModels))
	for i := range noteModels {
		notes = append(notes, noteModels[i].ToDomain())
	}
	return notes, nil
}

// isUniqueViolation detects unique-constraint violations across the
// postgres driver and the sqlite driver used in tests
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

// Ensure GormOrderRepository implements order.Repository
var _ order.Repository = (*GormOrderRepository)(nil)
