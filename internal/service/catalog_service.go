package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"stockroom/internal/dto"
	"stockroom/internal/model"
	"stockroom/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CatalogService manages catalog items and product definitions.
// Quantity is deliberately absent from its mutation surface — all quantity
// changes go through the LedgerService.
type CatalogService interface {
	Create(ctx context.Context, req dto.CreateItemRequest, actor Actor) (*dto.ItemResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.ItemResponse, error)
	GetByCode(ctx context.Context, code string) (*dto.ItemResponse, error)
	List(ctx context.Context, filter dto.ItemFilter) (*dto.ItemListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateItemRequest) (*dto.ItemResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	Reactivate(ctx context.Context, id uuid.UUID) error
	ListAlerts(ctx context.Context) ([]dto.LowStockAlert, error)

	CreateProduct(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	ListProducts(ctx context.Context) ([]dto.ProductResponse, error)
}

type catalogService struct {
	items     repository.ItemRepository
	products  repository.ProductRepository
	ops       repository.OperationRepository
	stockReqs repository.StockRequestRepository
	shipments repository.ShipmentRequestRepository
}

func NewCatalogService(
	items repository.ItemRepository,
	products repository.ProductRepository,
	ops repository.OperationRepository,
	stockReqs repository.StockRequestRepository,
	shipments repository.ShipmentRequestRepository,
) CatalogService {
	return &catalogService{
		items:     items,
		products:  products,
		ops:       ops,
		stockReqs: stockReqs,
		shipments: shipments,
	}
}

func (s *catalogService) Create(ctx context.Context, req dto.CreateItemRequest, actor Actor) (*dto.ItemResponse, error) {
	code, err := s.nextCode(ctx, req.Type)
	if err != nil {
		return nil, err
	}

	item := &model.Item{
		Code:        code,
		Type:        req.Type,
		Name:        req.Name,
		Quantity:    req.Quantity,
		MinQuantity: req.MinQuantity,
		UnitCost:    req.UnitCost,
		Active:      true,
	}
	if req.ExpiryDate != nil {
		d, err := time.Parse("2006-01-02", *req.ExpiryDate)
		if err == nil {
			item.ExpiryDate = &d
		}
	}
	// Item row and opening-stock operation land in one transaction; the
	// opening stock is ledger-visible like any other intake.
	err = runTx(ctx, s.items.DB(), func(tx *gorm.DB) error {
		if err := s.items.CreateTx(tx, item); err != nil {
			return err
		}
		if req.Quantity == 0 {
			return nil
		}
		op := &model.Operation{
			ItemID:    item.ID,
			Direction: model.DirectionIn,
			Quantity:  req.Quantity,
			ActorID:   actor.ID,
			ActorName: actor.Name,
			Notes:     "initial stock",
		}
		return s.ops.CreateTx(tx, op)
	})
	if err != nil {
		return nil, err
	}
	return itemToResponse(item), nil
}

// nextCode assigns "<prefix><4-digit sequence>". The sequence is the highest
// across both items and product definitions so a future delivery of a defined
// product can never collide with a generated code.
func (s *catalogService) nextCode(ctx context.Context, itemType string) (string, error) {
	prefix, ok := model.CodePrefixes[itemType]
	if !ok {
		return "", fmt.Errorf("type %q: %w", itemType, ErrInvalidCode)
	}
	maxItem, err := s.items.MaxCode(ctx, prefix)
	if err != nil {
		return "", err
	}
	maxProd, err := s.products.MaxCode(ctx, prefix)
	if err != nil {
		return "", err
	}
	seq := maxSequence(maxItem, prefix)
	if p := maxSequence(maxProd, prefix); p > seq {
		seq = p
	}
	return fmt.Sprintf("%s%04d", prefix, seq+1), nil
}

func maxSequence(code, prefix string) int {
	digits := strings.TrimPrefix(code, prefix)
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}

func (s *catalogService) GetByID(ctx context.Context, id uuid.UUID) (*dto.ItemResponse, error) {
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("item %s: %w", id, ErrNotFound)
	}
	return itemToResponse(item), nil
}

func (s *catalogService) GetByCode(ctx context.Context, code string) (*dto.ItemResponse, error) {
	item, err := s.items.FindByCode(ctx, strings.ToUpper(code))
	if err != nil {
		return nil, fmt.Errorf("item %s: %w", code, ErrNotFound)
	}
	return itemToResponse(item), nil
}

func (s *catalogService) List(ctx context.Context, filter dto.ItemFilter) (*dto.ItemListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 100
	}
	items, total, err := s.items.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ItemResponse, 0, len(items))
	for i := range items {
		data = append(data, *itemToResponse(&items[i]))
	}
	return &dto.ItemListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *catalogService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("item %s: %w", id, ErrNotFound)
	}
	if req.Name != "" {
		item.Name = req.Name
	}
	if req.MinQuantity != nil {
		item.MinQuantity = *req.MinQuantity
	}
	if req.UnitCost != nil {
		item.UnitCost = *req.UnitCost
	}
	if req.ExpiryDate != nil {
		d, err := time.Parse("2006-01-02", *req.ExpiryDate)
		if err == nil {
			item.ExpiryDate = &d
		}
	}
	if err := s.items.Update(ctx, item); err != nil {
		return nil, err
	}
	return itemToResponse(item), nil
}

// Deactivate refuses while any open request still references the code —
// approving such a request afterwards would mutate a retired item.
func (s *catalogService) Deactivate(ctx context.Context, id uuid.UUID) error {
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("item %s: %w", id, ErrNotFound)
	}
	open, err := s.stockReqs.HasOpenForItemCode(ctx, item.Code)
	if err != nil {
		return err
	}
	if !open {
		open, err = s.shipments.HasOpenForItemID(ctx, item.ID)
		if err != nil {
			return err
		}
	}
	if open {
		return fmt.Errorf("item %s: %w", item.Code, ErrItemReferenced)
	}
	return s.items.SoftDelete(ctx, id)
}

func (s *catalogService) Reactivate(ctx context.Context, id uuid.UUID) error {
	return s.items.Reactivate(ctx, id)
}

func (s *catalogService) ListAlerts(ctx context.Context) ([]dto.LowStockAlert, error) {
	items, err := s.items.ListBelowMin(ctx)
	if err != nil {
		return nil, err
	}
	alerts := make([]dto.LowStockAlert, 0, len(items))
	for _, i := range items {
		alerts = append(alerts, dto.LowStockAlert{
			Code:        i.Code,
			Name:        i.Name,
			Quantity:    i.Quantity,
			MinQuantity: i.MinQuantity,
		})
	}
	return alerts, nil
}

func (s *catalogService) CreateProduct(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	code := strings.ToUpper(req.Code)
	if _, err := s.items.FindByCode(ctx, code); err == nil {
		return nil, errors.New("code already assigned to a catalog item")
	}
	if _, err := s.products.FindByCode(ctx, code); err == nil {
		return nil, errors.New("code already assigned to a product definition")
	}
	p := &model.Product{Code: code, Name: req.Name, Type: req.Type, Active: true}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, err
	}
	return productToResponse(p), nil
}

func (s *catalogService) ListProducts(ctx context.Context) ([]dto.ProductResponse, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		resp = append(resp, *productToResponse(&products[i]))
	}
	return resp, nil
}

func itemToResponse(i *model.Item) *dto.ItemResponse {
	var expiry *string
	if i.ExpiryDate != nil {
		s := i.ExpiryDate.Format("2006-01-02")
		expiry = &s
	}
	return &dto.ItemResponse{
		ID:          i.ID.String(),
		Code:        i.Code,
		Type:        i.Type,
		Name:        i.Name,
		Quantity:    i.Quantity,
		MinQuantity: i.MinQuantity,
		UnitCost:    i.UnitCost,
		ExpiryDate:  expiry,
		Active:      i.Active,
		CreatedAt:   i.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

func productToResponse(p *model.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:     p.ID.String(),
		Code:   p.Code,
		Name:   p.Name,
		Type:   p.Type,
		Active: p.Active,
	}
}
