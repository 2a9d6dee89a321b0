package repository

import (
	"context"

	"stockroom/internal/dto"
	"stockroom/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ItemRepository defines the data access contract for catalog items.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via in-memory stubs.
type ItemRepository interface {
	Create(ctx context.Context, i *model.Item) error
	CreateTx(tx *gorm.DB, i *model.Item) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Item, error)
	FindByCode(ctx context.Context, code string) (*model.Item, error)
	List(ctx context.Context, filter dto.ItemFilter) ([]model.Item, int64, error)
	ListActive(ctx context.Context) ([]model.Item, error)
	ListBelowMin(ctx context.Context) ([]model.Item, error)
	Update(ctx context.Context, i *model.Item) error
	UpdateTx(tx *gorm.DB, i *model.Item) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Reactivate(ctx context.Context, id uuid.UUID) error

	// MaxCode returns the highest assigned code for a prefix ("" when none).
	MaxCode(ctx context.Context, prefix string) (string, error)

	// AdjustQuantityTx applies a guarded delta inside a transaction.
	// The WHERE clause refuses any update that would drive quantity below zero;
	// callers must treat zero affected rows as insufficient stock.
	AdjustQuantityTx(tx *gorm.DB, id uuid.UUID, delta int) (int64, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type itemRepo struct{ db *gorm.DB }

func NewItemRepository(db *gorm.DB) ItemRepository { return &itemRepo{db: db} }

func (r *itemRepo) Create(ctx context.Context, i *model.Item) error {
	return r.db.WithContext(ctx).Create(i).Error
}

func (r *itemRepo) CreateTx(tx *gorm.DB, i *model.Item) error {
	return tx.Create(i).Error
}

func (r *itemRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	var i model.Item
	err := r.db.WithContext(ctx).First(&i, id).Error
	return &i, err
}

func (r *itemRepo) FindByCode(ctx context.Context, code string) (*model.Item, error) {
	var i model.Item
	err := r.db.WithContext(ctx).Where("code = ? AND active = true", code).First(&i).Error
	return &i, err
}

func (r *itemRepo) List(ctx context.Context, filter dto.ItemFilter) ([]model.Item, int64, error) {
	var items []model.Item
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Item{})

	// Active filter: "false" = inactive, "all" = everything, default = active only
	switch filter.Active {
	case "false":
		q = q.Where("active = false")
	case "all":
		// no filter
	default:
		q = q.Where("active = true")
	}

	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.Name != "" {
		q = q.Where("name ILIKE ?", "%"+filter.Name+"%")
	}

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
	err := q.Order("code ASC").Limit(limit).Offset(offset).Find(&items).Error
	return items, total, err
}

func (r *itemRepo) ListActive(ctx context.Context) ([]model.Item, error) {
	var items []model.Item
	err := r.db.WithContext(ctx).Where("active = true").Order("code ASC").Find(&items).Error
	return items, err
}

func (r *itemRepo) ListBelowMin(ctx context.Context) ([]model.Item, error) {
	var items []model.Item
	err := r.db.WithContext(ctx).
		Where("active = true AND quantity <= min_quantity").
		Order("code ASC").Find(&items).Error
	return items, err
}

func (r *itemRepo) Update(ctx context.Context, i *model.Item) error {
	return r.db.WithContext(ctx).Save(i).Error
}

func (r *itemRepo) UpdateTx(tx *gorm.DB, i *model.Item) error {
	return tx.Save(i).Error
}

func (r *itemRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Item{}).Where("id = ?", id).Update("active", false).Error
}

func (r *itemRepo) Reactivate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Item{}).Where("id = ?", id).Update("active", true).Error
}

func (r *itemRepo) MaxCode(ctx context.Context, prefix string) (string, error) {
	var max *string
	err := r.db.WithContext(ctx).Model(&model.Item{}).
		Where("code LIKE ?", prefix+"%").
		Select("MAX(code)").Scan(&max).Error
	if err != nil || max == nil {
		return "", err
	}
	return *max, nil
}

func (r *itemRepo) AdjustQuantityTx(tx *gorm.DB, id uuid.UUID, delta int) (int64, error) {
	res := tx.Model(&model.Item{}).
		Where("id = ? AND active = true AND quantity + ? >= 0", id, delta).
		Update("quantity", gorm.Expr("quantity + ?", delta))
	return res.RowsAffected, res.Error
}

func (r *itemRepo) DB() *gorm.DB { return r.db }
