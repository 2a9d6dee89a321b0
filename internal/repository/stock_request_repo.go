package repository

import (
	"context"
	"time"

	"stockroom/internal/dto"
	"stockroom/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StockRequestRepository interface {
	Create(ctx context.Context, req *model.StockRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.StockRequest, error)
	List(ctx context.Context, filter dto.StockRequestFilter) ([]model.StockRequest, int64, error)
	Update(ctx context.Context, req *model.StockRequest) error
	UpdateTx(tx *gorm.DB, req *model.StockRequest) error
	CountByStatus(ctx context.Context, from, to time.Time) ([]dto.StatusCount, error)

	// HasOpenForItemCode reports whether any non-terminal request references the code.
	HasOpenForItemCode(ctx context.Context, code string) (bool, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type stockRequestRepo struct{ db *gorm.DB }

func NewStockRequestRepository(db *gorm.DB) StockRequestRepository {
	return &stockRequestRepo{db: db}
}

func (r *stockRequestRepo) Create(ctx context.Context, req *model.StockRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *stockRequestRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.StockRequest, error) {
	var req model.StockRequest
	err := r.db.WithContext(ctx).Preload("Lines").Preload("Shop").First(&req, id).Error
	return &req, err
}

func (r *stockRequestRepo) List(ctx context.Context, filter dto.StockRequestFilter) ([]model.StockRequest, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.StockRequest{}).Preload("Lines").Preload("Shop")
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.ShopID != "" {
		q = q.Where("shop_id = ?", filter.ShopID)
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

	var reqs []model.StockRequest
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&reqs).Error
	return reqs, total, err
}

func (r *stockRequestRepo) Update(ctx context.Context, req *model.StockRequest) error {
	return r.db.WithContext(ctx).Save(req).Error
}

func (r *stockRequestRepo) UpdateTx(tx *gorm.DB, req *model.StockRequest) error {
	return tx.Save(req).Error
}

func (r *stockRequestRepo) CountByStatus(ctx context.Context, from, to time.Time) ([]dto.StatusCount, error) {
	var rows []dto.StatusCount
	err := r.db.WithContext(ctx).Model(&model.StockRequest{}).
		Select("status, COUNT(*) AS count").
		Where("created_at >= ? AND created_at < ?", from, to).
		Group("status").
		Scan(&rows).Error
	return rows, err
}

func (r *stockRequestRepo) HasOpenForItemCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.StockRequestLine{}).
		Joins("JOIN stock_requests ON stock_requests.id = stock_request_lines.stock_request_id").
		Where("stock_request_lines.item_code = ? AND stock_requests.status IN ?",
			code, []string{model.StatusPending, model.StatusProcessing}).
		Count(&count).Error
	return count > 0, err
}

func (r *stockRequestRepo) DB() *gorm.DB { return r.db }
