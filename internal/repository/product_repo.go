package repository

import (
	"context"

	"stockroom/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByCode(ctx context.Context, code string) (*model.Product, error)
	List(ctx context.Context) ([]model.Product, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	MaxCode(ctx context.Context, prefix string) (string, error)
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) FindByCode(ctx context.Context, code string) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Where("code = ? AND active = true", code).First(&p).Error
	return &p, err
}

func (r *productRepo) List(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Where("active = true").Order("code ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", id).Update("active", false).Error
}

func (r *productRepo) MaxCode(ctx context.Context, prefix string) (string, error) {
	var max *string
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("code LIKE ?", prefix+"%").
		Select("MAX(code)").Scan(&max).Error
	if err != nil || max == nil {
		return "", err
	}
	return *max, nil
}
