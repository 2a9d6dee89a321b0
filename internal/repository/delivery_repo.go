package repository

import (
	"context"
	"time"

	"stockroom/internal/dto"
	"stockroom/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DeliveryRepository interface {
	CreateTx(tx *gorm.DB, d *model.SupplierDelivery) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.SupplierDelivery, error)
	List(ctx context.Context, filter dto.DeliveryFilter) ([]model.SupplierDelivery, int64, error)
	Count(ctx context.Context, from, to time.Time) (int64, error)
	DB() *gorm.DB
}

type deliveryRepo struct{ db *gorm.DB }

func NewDeliveryRepository(db *gorm.DB) DeliveryRepository { return &deliveryRepo{db: db} }

func (r *deliveryRepo) CreateTx(tx *gorm.DB, d *model.SupplierDelivery) error {
	return tx.Create(d).Error
}

func (r *deliveryRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.SupplierDelivery, error) {
	var d model.SupplierDelivery
	err := r.db.WithContext(ctx).Preload("Lines").Preload("Supplier").First(&d, id).Error
	return &d, err
}

func (r *deliveryRepo) List(ctx context.Context, filter dto.DeliveryFilter) ([]model.SupplierDelivery, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.SupplierDelivery{}).Preload("Lines").Preload("Supplier")
	if filter.SupplierID != "" {
		q = q.Where("supplier_id = ?", filter.SupplierID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	offset := (page - 1) * limit

	var deliveries []model.SupplierDelivery
	err := q.Order("delivery_date DESC").Offset(offset).Limit(limit).Find(&deliveries).Error
	return deliveries, total, err
}

func (r *deliveryRepo) Count(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.SupplierDelivery{}).
		Where("delivery_date >= ? AND delivery_date < ?", from, to).
		Count(&count).Error
	return count, err
}

func (r *deliveryRepo) DB() *gorm.DB { return r.db }
