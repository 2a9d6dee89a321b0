package repository

import (
	"context"
	"time"

	"stockroom/internal/dto"
	"stockroom/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ShipmentRequestRepository interface {
	Create(ctx context.Context, req *model.ShipmentRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ShipmentRequest, error)
	List(ctx context.Context, filter dto.ShipmentRequestFilter) ([]model.ShipmentRequest, int64, error)
	Update(ctx context.Context, req *model.ShipmentRequest) error
	UpdateTx(tx *gorm.DB, req *model.ShipmentRequest) error
	TotalsByDestination(ctx context.Context, from, to time.Time) ([]dto.DestinationTotal, error)
	HasOpenForItemID(ctx context.Context, itemID uuid.UUID) (bool, error)
	DB() *gorm.DB
}

type shipmentRequestRepo struct{ db *gorm.DB }

func NewShipmentRequestRepository(db *gorm.DB) ShipmentRequestRepository {
	return &shipmentRequestRepo{db: db}
}

func (r *shipmentRequestRepo) Create(ctx context.Context, req *model.ShipmentRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *shipmentRequestRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ShipmentRequest, error) {
	var req model.ShipmentRequest
	err := r.db.WithContext(ctx).Preload("Item").First(&req, id).Error
	return &req, err
}

func (r *shipmentRequestRepo) List(ctx context.Context, filter dto.ShipmentRequestFilter) ([]model.ShipmentRequest, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.ShipmentRequest{}).Preload("Item")
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
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

	var reqs []model.ShipmentRequest
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&reqs).Error
	return reqs, total, err
}

func (r *shipmentRequestRepo) Update(ctx context.Context, req *model.ShipmentRequest) error {
	return r.db.WithContext(ctx).Save(req).Error
}

func (r *shipmentRequestRepo) UpdateTx(tx *gorm.DB, req *model.ShipmentRequest) error {
	return tx.Save(req).Error
}

func (r *shipmentRequestRepo) TotalsByDestination(ctx context.Context, from, to time.Time) ([]dto.DestinationTotal, error) {
	var rows []dto.DestinationTotal
	err := r.db.WithContext(ctx).Model(&model.ShipmentRequest{}).
		Select("destination, SUM(quantity) AS quantity").
		Where("status = ? AND created_at >= ? AND created_at < ?", model.StatusApproved, from, to).
		Group("destination").
		Scan(&rows).Error
	return rows, err
}

func (r *shipmentRequestRepo) HasOpenForItemID(ctx context.Context, itemID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ShipmentRequest{}).
		Where("item_id = ? AND status = ?", itemID, model.StatusPending).
		Count(&count).Error
	return count > 0, err
}

func (r *shipmentRequestRepo) DB() *gorm.DB { return r.db }
