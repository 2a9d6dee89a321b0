package repository

import (
	"context"

	"stockroom/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ShopRepository interface {
	Create(ctx context.Context, s *model.Shop) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Shop, error)
	List(ctx context.Context) ([]model.Shop, error)
	Update(ctx context.Context, s *model.Shop) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type shopRepo struct{ db *gorm.DB }

func NewShopRepository(db *gorm.DB) ShopRepository { return &shopRepo{db: db} }

func (r *shopRepo) Create(ctx context.Context, s *model.Shop) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *shopRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Shop, error) {
	var s model.Shop
	err := r.db.WithContext(ctx).First(&s, id).Error
	return &s, err
}

func (r *shopRepo) List(ctx context.Context) ([]model.Shop, error) {
	var shops []model.Shop
	err := r.db.WithContext(ctx).Where("active = true").Order("name ASC").Find(&shops).Error
	return shops, err
}

func (r *shopRepo) Update(ctx context.Context, s *model.Shop) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *shopRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Shop{}).Where("id = ?", id).Update("active", false).Error
}
