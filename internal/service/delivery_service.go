package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"stockroom/internal/dto"
	"stockroom/internal/model"
	"stockroom/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const codeCheckTTL = 30 * time.Second

// DeliveryService handles supplier delivery intake: advisory code
// classification while the clerk scans, then an all-or-nothing commit that
// re-validates every line against the database.
type DeliveryService interface {
	// ValidateCode classifies a scanned code. The answer is advisory — the
	// catalog can change between the check and the commit.
	ValidateCode(ctx context.Context, code string) (*dto.CodeCheckResponse, error)
	Submit(ctx context.Context, req dto.SubmitDeliveryRequest, actor Actor) (*dto.DeliveryResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.DeliveryResponse, error)
	List(ctx context.Context, filter dto.DeliveryFilter) (*dto.DeliveryListResponse, error)
}

type deliveryService struct {
	deliveries repository.DeliveryRepository
	items      repository.ItemRepository
	products   repository.ProductRepository
	suppliers  repository.SupplierRepository
	ledger     LedgerService
	rdb        *redis.Client
}

func NewDeliveryService(
	deliveries repository.DeliveryRepository,
	items repository.ItemRepository,
	products repository.ProductRepository,
	suppliers repository.SupplierRepository,
	ledger LedgerService,
	rdb *redis.Client,
) DeliveryService {
	return &deliveryService{
		deliveries: deliveries,
		items:      items,
		products:   products,
		suppliers:  suppliers,
		ledger:     ledger,
		rdb:        rdb,
	}
}

func (s *deliveryService) ValidateCode(ctx context.Context, code string) (*dto.CodeCheckResponse, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return &dto.CodeCheckResponse{Code: code, Classification: dto.CodeInvalid}, nil
	}

	if cached := s.cachedCheck(ctx, code); cached != nil {
		return cached, nil
	}

	resp := s.classify(ctx, code)
	s.cacheCheck(ctx, resp)
	return resp, nil
}

func (s *deliveryService) classify(ctx context.Context, code string) *dto.CodeCheckResponse {
	if item, err := s.items.FindByCode(ctx, code); err == nil {
		qty := item.Quantity
		return &dto.CodeCheckResponse{
			Code:            code,
			Classification:  dto.CodeInCatalog,
			Name:            item.Name,
			Type:            item.Type,
			CurrentQuantity: &qty,
		}
	}
	if p, err := s.products.FindByCode(ctx, code); err == nil {
		return &dto.CodeCheckResponse{
			Code:           code,
			Classification: dto.CodeKnownProduct,
			Name:           p.Name,
			Type:           p.Type,
		}
	}
	return &dto.CodeCheckResponse{Code: code, Classification: dto.CodeInvalid}
}

// Short-TTL Redis cache: scanning a full pallet hits the same code check
// dozens of times in a burst. A cold or absent Redis degrades to DB lookups.
func (s *deliveryService) cachedCheck(ctx context.Context, code string) *dto.CodeCheckResponse {
	if s.rdb == nil {
		return nil
	}
	raw, err := s.rdb.Get(ctx, "codecheck:"+code).Result()
	if err != nil {
		return nil
	}
	var resp dto.CodeCheckResponse
	if json.Unmarshal([]byte(raw), &resp) != nil {
		return nil
	}
	return &resp
}

func (s *deliveryService) cacheCheck(ctx context.Context, resp *dto.CodeCheckResponse) {
	if s.rdb == nil {
		return
	}
	raw, err := json.Marshal(resp)
	if err != nil {
		return
	}
	s.rdb.Set(ctx, "codecheck:"+resp.Code, raw, codeCheckTTL)
}

// Submit commits the whole delivery or none of it. Every line is re-validated
// against the live catalog; one unknown code rejects the batch with no writes.
// Known-product lines create the catalog item first, inheriting name and type
// from the product definition.
func (s *deliveryService) Submit(ctx context.Context, req dto.SubmitDeliveryRequest, actor Actor) (*dto.DeliveryResponse, error) {
	supplierID, err := uuid.Parse(req.SupplierID)
	if err != nil {
		return nil, fmt.Errorf("supplier %s: %w", req.SupplierID, ErrNotFound)
	}
	supplier, err := s.suppliers.FindByID(ctx, supplierID)
	if err != nil {
		return nil, fmt.Errorf("supplier %s: %w", req.SupplierID, ErrNotFound)
	}

	codes := make([]string, 0, len(req.Lines))
	for _, l := range req.Lines {
		codes = append(codes, strings.ToUpper(strings.TrimSpace(l.Code)))
	}
	release := s.ledger.LockCodes(codes...)
	defer release()

	// Re-validate all lines under the locks before any write
	type plannedLine struct {
		code    string
		item    *model.Item // nil for known-product lines
		product *model.Product
		req     dto.DeliveryLineRequest
	}
	planned := make([]plannedLine, 0, len(req.Lines))
	for i, l := range req.Lines {
		code := codes[i]
		if item, err := s.items.FindByCode(ctx, code); err == nil {
			planned = append(planned, plannedLine{code: code, item: item, req: l})
			continue
		}
		if p, err := s.products.FindByCode(ctx, code); err == nil {
			planned = append(planned, plannedLine{code: code, product: p, req: l})
			continue
		}
		return nil, fmt.Errorf("code %s: %w", code, ErrInvalidCode)
	}

	deliveryDate := time.Now().UTC()
	if req.DeliveryDate != nil {
		if d, err := time.Parse("2006-01-02", *req.DeliveryDate); err == nil {
			deliveryDate = d
		}
	}

	delivery := &model.SupplierDelivery{
		SupplierID:   supplier.ID,
		DeliveryDate: deliveryDate,
		ReceivedBy:   actor.ID,
		Status:       model.StatusProcessed,
		Notes:        req.Notes,
		Supplier:     supplier,
	}
	for _, p := range planned {
		line := model.DeliveryLine{
			Code:     p.code,
			Quantity: p.req.Quantity,
			UnitCost: p.req.UnitCost,
		}
		if p.req.ExpiryDate != nil {
			if d, err := time.Parse("2006-01-02", *p.req.ExpiryDate); err == nil {
				line.ExpiryDate = &d
			}
		}
		delivery.Lines = append(delivery.Lines, line)
	}

	txErr := runTx(ctx, s.deliveries.DB(), func(tx *gorm.DB) error {
		if err := s.deliveries.CreateTx(tx, delivery); err != nil {
			return err
		}
		for i, p := range planned {
			item := p.item
			if item == nil {
				item = s.itemFromProduct(p.product, &delivery.Lines[i])
				if err := s.items.CreateTx(tx, item); err != nil {
					return err
				}
			} else {
				s.absorbLineMetadata(item, &delivery.Lines[i])
				if err := s.items.UpdateTx(tx, item); err != nil {
					return err
				}
			}
			reason := fmt.Sprintf("delivery from %s", supplier.Name)
			if err := s.ledger.ApplyTx(tx, item, p.req.Quantity, actor, reason, &delivery.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return deliveryToResponse(delivery), nil
}

// itemFromProduct builds a fresh zero-quantity catalog item from a product
// definition. When the definition carries no recognized type, the code prefix
// decides; unknown prefixes land in kitchen.
func (s *deliveryService) itemFromProduct(p *model.Product, line *model.DeliveryLine) *model.Item {
	itemType := p.Type
	if _, ok := model.CodePrefixes[itemType]; !ok {
		prefix := ""
		if len(p.Code) >= 2 {
			prefix = p.Code[:2]
		}
		itemType = model.TypeForPrefix(prefix)
	}
	item := &model.Item{
		Code:       p.Code,
		Type:       itemType,
		Name:       p.Name,
		Quantity:   0,
		UnitCost:   decimalOrZero(line),
		ExpiryDate: line.ExpiryDate,
		Active:     true,
	}
	return item
}

func decimalOrZero(line *model.DeliveryLine) decimal.Decimal {
	if line.UnitCost != nil {
		return *line.UnitCost
	}
	return decimal.Zero
}

// absorbLineMetadata updates cost and expiry from a delivery line when given.
func (s *deliveryService) absorbLineMetadata(item *model.Item, line *model.DeliveryLine) {
	if line.UnitCost != nil {
		item.UnitCost = *line.UnitCost
	}
	if line.ExpiryDate != nil {
		item.ExpiryDate = line.ExpiryDate
	}
}

func (s *deliveryService) GetByID(ctx context.Context, id uuid.UUID) (*dto.DeliveryResponse, error) {
	delivery, err := s.deliveries.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("delivery %s: %w", id, ErrNotFound)
	}
	return deliveryToResponse(delivery), nil
}

func (s *deliveryService) List(ctx context.Context, filter dto.DeliveryFilter) (*dto.DeliveryListResponse, error) {
	deliveries, total, err := s.deliveries.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	data := make([]dto.DeliveryResponse, 0, len(deliveries))
	for i := range deliveries {
		data = append(data, *deliveryToResponse(&deliveries[i]))
	}
	return &dto.DeliveryListResponse{Data: data, Total: total, Page: page, Limit: limit}, nil
}

func deliveryToResponse(d *model.SupplierDelivery) *dto.DeliveryResponse {
	resp := &dto.DeliveryResponse{
		ID:           d.ID.String(),
		SupplierID:   d.SupplierID.String(),
		DeliveryDate: d.DeliveryDate.Format("2006-01-02"),
		ReceivedBy:   d.ReceivedBy.String(),
		Status:       d.Status,
		Notes:        d.Notes,
		CreatedAt:    d.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if d.Supplier != nil {
		resp.SupplierName = d.Supplier.Name
	}
	resp.Lines = make([]dto.DeliveryLineResponse, 0, len(d.Lines))
	for _, l := range d.Lines {
		lr := dto.DeliveryLineResponse{
			Code:     l.Code,
			Quantity: l.Quantity,
			UnitCost: l.UnitCost,
		}
		if l.ExpiryDate != nil {
			v := l.ExpiryDate.Format("2006-01-02")
			lr.ExpiryDate = &v
		}
		resp.Lines = append(resp.Lines, lr)
	}
	return resp
}
