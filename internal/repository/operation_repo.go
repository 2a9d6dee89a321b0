package repository

import (
	"context"
	"time"

	"stockroom/internal/dto"
	"stockroom/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OperationFilter defines filters for listing ledger entries.
type OperationFilter struct {
	ItemID    *uuid.UUID
	Direction string
	From      *time.Time
	To        *time.Time
	Page      int
	Limit     int
}

// OperationRepository is the ledger store. Entries are append-only: the
// interface deliberately has no update or delete.
type OperationRepository interface {
	Create(ctx context.Context, op *model.Operation) error
	CreateTx(tx *gorm.DB, op *model.Operation) error
	List(ctx context.Context, filter OperationFilter) ([]model.Operation, int64, error)
	TotalsByDirection(ctx context.Context, from, to time.Time) ([]dto.DirectionTotal, error)
	TotalsByItemType(ctx context.Context, from, to time.Time) ([]dto.TypeTotal, error)
}

type operationRepo struct{ db *gorm.DB }

func NewOperationRepository(db *gorm.DB) OperationRepository { return &operationRepo{db: db} }

func (r *operationRepo) Create(ctx context.Context, op *model.Operation) error {
	return r.db.WithContext(ctx).Create(op).Error
}

func (r *operationRepo) CreateTx(tx *gorm.DB, op *model.Operation) error {
	return tx.Create(op).Error
}

func (r *operationRepo) List(ctx context.Context, filter OperationFilter) ([]model.Operation, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Operation{}).Preload("Item")
	if filter.ItemID != nil {
		q = q.Where("item_id = ?", *filter.ItemID)
	}
	if filter.Direction != "" {
		q = q.Where("direction = ?", filter.Direction)
	}
	if filter.From != nil {
		q = q.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("created_at < ?", *filter.To)
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
	if limit < 1 || limit > 500 {
		limit = 100
	}
	offset := (page - 1) * limit

	var ops []model.Operation
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&ops).Error
	return ops, total, err
}

func (r *operationRepo) TotalsByDirection(ctx context.Context, from, to time.Time) ([]dto.DirectionTotal, error) {
	var rows []dto.DirectionTotal
	err := r.db.WithContext(ctx).Model(&model.Operation{}).
		Select("direction, SUM(quantity) AS quantity, COUNT(*) AS count").
		Where("created_at >= ? AND created_at < ?", from, to).
		Group("direction").
		Scan(&rows).Error
	return rows, err
}

func (r *operationRepo) TotalsByItemType(ctx context.Context, from, to time.Time) ([]dto.TypeTotal, error) {
	var rows []dto.TypeTotal
	err := r.db.WithContext(ctx).Model(&model.Operation{}).
		Select("items.type AS item_type, SUM(operations.quantity) AS quantity").
		Joins("JOIN items ON items.id = operations.item_id").
		Where("operations.created_at >= ? AND operations.created_at < ?", from, to).
		Group("items.type").
		Scan(&rows).Error
	return rows, err
}
