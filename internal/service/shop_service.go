package service

import (
	"context"
	"fmt"

	"stockroom/internal/dto"
	"stockroom/internal/model"
	"stockroom/internal/repository"

	"github.com/google/uuid"
)

type ShopService interface {
	Create(ctx context.Context, req dto.CreateShopRequest) (*dto.ShopResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.ShopResponse, error)
	List(ctx context.Context) ([]dto.ShopResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.CreateShopRequest) (*dto.ShopResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type shopService struct {
	repo repository.ShopRepository
}

func NewShopService(repo repository.ShopRepository) ShopService {
	return &shopService{repo: repo}
}

func (s *shopService) Create(ctx context.Context, req dto.CreateShopRequest) (*dto.ShopResponse, error) {
	shop := &model.Shop{
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
		Active:  true,
	}
	if err := s.repo.Create(ctx, shop); err != nil {
		return nil, err
	}
	return shopToResponse(shop), nil
}

func (s *shopService) GetByID(ctx context.Context, id uuid.UUID) (*dto.ShopResponse, error) {
	shop, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("shop %s: %w", id, ErrNotFound)
	}
	return shopToResponse(shop), nil
}

func (s *shopService) List(ctx context.Context) ([]dto.ShopResponse, error) {
	shops, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ShopResponse, len(shops))
	for i := range shops {
		resp[i] = *shopToResponse(&shops[i])
	}
	return resp, nil
}

func (s *shopService) Update(ctx context.Context, id uuid.UUID, req dto.CreateShopRequest) (*dto.ShopResponse, error) {
	shop, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("shop %s: %w", id, ErrNotFound)
	}
	shop.Name = req.Name
	shop.Address = req.Address
	shop.Phone = req.Phone
	if err := s.repo.Update(ctx, shop); err != nil {
		return nil, err
	}
	return shopToResponse(shop), nil
}

func (s *shopService) Deactivate(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
}

func shopToResponse(s *model.Shop) *dto.ShopResponse {
	return &dto.ShopResponse{
		ID:      s.ID.String(),
		Name:    s.Name,
		Address: s.Address,
		Phone:   s.Phone,
		Active:  s.Active,
	}
}
