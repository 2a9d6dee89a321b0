package service_test

// stubs_test.go
// In-memory repository stubs shared by the service unit tests. They satisfy
// the repository interfaces with map-backed storage; DB() returns nil so the
// services run their transaction bodies directly.

import (
	"context"
	"errors"
	"strings"
	"time"

	"stockroom/internal/dto"
	"stockroom/internal/model"
	"stockroom/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var errNotFound = errors.New("record not found")

// ── ItemRepository stub ──────────────────────────────────────────────────────

type stubItemRepo struct {
	items map[uuid.UUID]*model.Item
}

var _ repository.ItemRepository = (*stubItemRepo)(nil)

func newStubItemRepo() *stubItemRepo {
	return &stubItemRepo{items: make(map[uuid.UUID]*model.Item)}
}

func (r *stubItemRepo) add(i *model.Item) *model.Item {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	if i.CreatedAt.IsZero() {
		i.CreatedAt = time.Now().UTC()
	}
	r.items[i.ID] = i
	return i
}

func (r *stubItemRepo) Create(_ context.Context, i *model.Item) error {
	r.add(i)
	return nil
}

func (r *stubItemRepo) CreateTx(_ *gorm.DB, i *model.Item) error {
	r.add(i)
	return nil
}

func (r *stubItemRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Item, error) {
	i, ok := r.items[id]
	if !ok {
		return nil, errNotFound
	}
	return i, nil
}

func (r *stubItemRepo) FindByCode(_ context.Context, code string) (*model.Item, error) {
	for _, i := range r.items {
		if i.Code == code && i.Active {
			return i, nil
		}
	}
	return nil, errNotFound
}

func (r *stubItemRepo) List(_ context.Context, _ dto.ItemFilter) ([]model.Item, int64, error) {
	var result []model.Item
	for _, i := range r.items {
		if i.Active {
			result = append(result, *i)
		}
	}
	return result, int64(len(result)), nil
}

func (r *stubItemRepo) ListActive(ctx context.Context) ([]model.Item, error) {
	items, _, err := r.List(ctx, dto.ItemFilter{})
	return items, err
}

func (r *stubItemRepo) ListBelowMin(_ context.Context) ([]model.Item, error) {
	var result []model.Item
	for _, i := range r.items {
		if i.Active && i.Quantity <= i.MinQuantity {
			result = append(result, *i)
		}
	}
	return result, nil
}

func (r *stubItemRepo) Update(_ context.Context, i *model.Item) error {
	r.items[i.ID] = i
	return nil
}

func (r *stubItemRepo) UpdateTx(_ *gorm.DB, i *model.Item) error {
	r.items[i.ID] = i
	return nil
}

func (r *stubItemRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	i, ok := r.items[id]
	if !ok {
		return errNotFound
	}
	i.Active = false
	return nil
}

func (r *stubItemRepo) Reactivate(_ context.Context, id uuid.UUID) error {
	i, ok := r.items[id]
	if !ok {
		return errNotFound
	}
	i.Active = true
	return nil
}

func (r *stubItemRepo) MaxCode(_ context.Context, prefix string) (string, error) {
	max := ""
	for _, i := range r.items {
		if strings.HasPrefix(i.Code, prefix) && i.Code > max {
			max = i.Code
		}
	}
	return max, nil
}

func (r *stubItemRepo) AdjustQuantityTx(_ *gorm.DB, id uuid.UUID, delta int) (int64, error) {
	i, ok := r.items[id]
	if !ok || !i.Active || i.Quantity+delta < 0 {
		return 0, nil
	}
	i.Quantity += delta
	return 1, nil
}

func (r *stubItemRepo) DB() *gorm.DB { return nil }

// ── ProductRepository stub ───────────────────────────────────────────────────

type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
}

var _ repository.ProductRepository = (*stubProductRepo)(nil)

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) FindByCode(_ context.Context, code string) (*model.Product, error) {
	for _, p := range r.products {
		if p.Code == code && p.Active {
			return p, nil
		}
	}
	return nil, errNotFound
}

func (r *stubProductRepo) List(_ context.Context) ([]model.Product, error) {
	var result []model.Product
	for _, p := range r.products {
		if p.Active {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (r *stubProductRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	p, ok := r.products[id]
	if !ok {
		return errNotFound
	}
	p.Active = false
	return nil
}

func (r *stubProductRepo) MaxCode(_ context.Context, prefix string) (string, error) {
	max := ""
	for _, p := range r.products {
		if strings.HasPrefix(p.Code, prefix) && p.Code > max {
			max = p.Code
		}
	}
	return max, nil
}

// ── OperationRepository stub ─────────────────────────────────────────────────

type stubOperationRepo struct {
	ops []*model.Operation
}

var _ repository.OperationRepository = (*stubOperationRepo)(nil)

func newStubOperationRepo() *stubOperationRepo { return &stubOperationRepo{} }

func (r *stubOperationRepo) Create(_ context.Context, op *model.Operation) error {
	op.ID = uuid.New()
	op.CreatedAt = time.Now().UTC()
	r.ops = append(r.ops, op)
	return nil
}

func (r *stubOperationRepo) CreateTx(_ *gorm.DB, op *model.Operation) error {
	return r.Create(context.Background(), op)
}

func (r *stubOperationRepo) List(_ context.Context, filter repository.OperationFilter) ([]model.Operation, int64, error) {
	var result []model.Operation
	for _, op := range r.ops {
		if filter.ItemID != nil && op.ItemID != *filter.ItemID {
			continue
		}
		if filter.Direction != "" && op.Direction != filter.Direction {
			continue
		}
		result = append(result, *op)
	}
	return result, int64(len(result)), nil
}

func (r *stubOperationRepo) TotalsByDirection(_ context.Context, _, _ time.Time) ([]dto.DirectionTotal, error) {
	totals := map[string]*dto.DirectionTotal{}
	for _, op := range r.ops {
		t, ok := totals[op.Direction]
		if !ok {
			t = &dto.DirectionTotal{Direction: op.Direction}
			totals[op.Direction] = t
		}
		t.Quantity += op.Quantity
		t.Count++
	}
	var result []dto.DirectionTotal
	for _, t := range totals {
		result = append(result, *t)
	}
	return result, nil
}

func (r *stubOperationRepo) TotalsByItemType(_ context.Context, _, _ time.Time) ([]dto.TypeTotal, error) {
	return nil, nil
}

// byItem returns the ledger entries for one item, oldest first.
func (r *stubOperationRepo) byItem(id uuid.UUID) []*model.Operation {
	var result []*model.Operation
	for _, op := range r.ops {
		if op.ItemID == id {
			result = append(result, op)
		}
	}
	return result
}

// ── StockRequestRepository stub ──────────────────────────────────────────────

type stubStockRequestRepo struct {
	requests map[uuid.UUID]*model.StockRequest
}

var _ repository.StockRequestRepository = (*stubStockRequestRepo)(nil)

func newStubStockRequestRepo() *stubStockRequestRepo {
	return &stubStockRequestRepo{requests: make(map[uuid.UUID]*model.StockRequest)}
}

func (r *stubStockRequestRepo) Create(_ context.Context, req *model.StockRequest) error {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	req.CreatedAt = time.Now().UTC()
	r.requests[req.ID] = req
	return nil
}

func (r *stubStockRequestRepo) FindByID(_ context.Context, id uuid.UUID) (*model.StockRequest, error) {
	req, ok := r.requests[id]
	if !ok {
		return nil, errNotFound
	}
	return req, nil
}

func (r *stubStockRequestRepo) List(_ context.Context, filter dto.StockRequestFilter) ([]model.StockRequest, int64, error) {
	var result []model.StockRequest
	for _, req := range r.requests {
		if filter.Status != "" && req.Status != filter.Status {
			continue
		}
		if filter.ShopID != "" && req.ShopID.String() != filter.ShopID {
			continue
		}
		result = append(result, *req)
	}
	return result, int64(len(result)), nil
}

func (r *stubStockRequestRepo) Update(_ context.Context, req *model.StockRequest) error {
	r.requests[req.ID] = req
	return nil
}

func (r *stubStockRequestRepo) UpdateTx(_ *gorm.DB, req *model.StockRequest) error {
	r.requests[req.ID] = req
	return nil
}

func (r *stubStockRequestRepo) CountByStatus(_ context.Context, _, _ time.Time) ([]dto.StatusCount, error) {
	counts := map[string]int{}
	for _, req := range r.requests {
		counts[req.Status]++
	}
	var result []dto.StatusCount
	for status, count := range counts {
		result = append(result, dto.StatusCount{Status: status, Count: count})
	}
	return result, nil
}

func (r *stubStockRequestRepo) HasOpenForItemCode(_ context.Context, code string) (bool, error) {
	for _, req := range r.requests {
		if req.Status != model.StatusPending && req.Status != model.StatusProcessing {
			continue
		}
		for _, l := range req.Lines {
			if l.ItemCode == code {
				return true, nil
			}
		}
	}
	return false, nil
}

func (r *stubStockRequestRepo) DB() *gorm.DB { return nil }

// ── ShipmentRequestRepository stub ───────────────────────────────────────────

type stubShipmentRepo struct {
	shipments map[uuid.UUID]*model.ShipmentRequest
}

var _ repository.ShipmentRequestRepository = (*stubShipmentRepo)(nil)

func newStubShipmentRepo() *stubShipmentRepo {
	return &stubShipmentRepo{shipments: make(map[uuid.UUID]*model.ShipmentRequest)}
}

func (r *stubShipmentRepo) Create(_ context.Context, req *model.ShipmentRequest) error {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	req.CreatedAt = time.Now().UTC()
	r.shipments[req.ID] = req
	return nil
}

func (r *stubShipmentRepo) FindByID(_ context.Context, id uuid.UUID) (*model.ShipmentRequest, error) {
	req, ok := r.shipments[id]
	if !ok {
		return nil, errNotFound
	}
	return req, nil
}

func (r *stubShipmentRepo) List(_ context.Context, filter dto.ShipmentRequestFilter) ([]model.ShipmentRequest, int64, error) {
	var result []model.ShipmentRequest
	for _, req := range r.shipments {
		if filter.Status != "" && req.Status != filter.Status {
			continue
		}
		result = append(result, *req)
	}
	return result, int64(len(result)), nil
}

func (r *stubShipmentRepo) Update(_ context.Context, req *model.ShipmentRequest) error {
	r.shipments[req.ID] = req
	return nil
}

func (r *stubShipmentRepo) UpdateTx(_ *gorm.DB, req *model.ShipmentRequest) error {
	r.shipments[req.ID] = req
	return nil
}

func (r *stubShipmentRepo) TotalsByDestination(_ context.Context, _, _ time.Time) ([]dto.DestinationTotal, error) {
	return nil, nil
}

func (r *stubShipmentRepo) HasOpenForItemID(_ context.Context, itemID uuid.UUID) (bool, error) {
	for _, req := range r.shipments {
		if req.ItemID == itemID && req.Status == model.StatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubShipmentRepo) DB() *gorm.DB { return nil }

// ── DeliveryRepository stub ──────────────────────────────────────────────────

type stubDeliveryRepo struct {
	deliveries map[uuid.UUID]*model.SupplierDelivery
}

var _ repository.DeliveryRepository = (*stubDeliveryRepo)(nil)

func newStubDeliveryRepo() *stubDeliveryRepo {
	return &stubDeliveryRepo{deliveries: make(map[uuid.UUID]*model.SupplierDelivery)}
}

func (r *stubDeliveryRepo) CreateTx(_ *gorm.DB, d *model.SupplierDelivery) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	d.CreatedAt = time.Now().UTC()
	r.deliveries[d.ID] = d
	return nil
}

func (r *stubDeliveryRepo) FindByID(_ context.Context, id uuid.UUID) (*model.SupplierDelivery, error) {
	d, ok := r.deliveries[id]
	if !ok {
		return nil, errNotFound
	}
	return d, nil
}

func (r *stubDeliveryRepo) List(_ context.Context, _ dto.DeliveryFilter) ([]model.SupplierDelivery, int64, error) {
	var result []model.SupplierDelivery
	for _, d := range r.deliveries {
		result = append(result, *d)
	}
	return result, int64(len(result)), nil
}

func (r *stubDeliveryRepo) Count(_ context.Context, _, _ time.Time) (int64, error) {
	return int64(len(r.deliveries)), nil
}

func (r *stubDeliveryRepo) DB() *gorm.DB { return nil }

// ── SupplierRepository stub ──────────────────────────────────────────────────

type stubSupplierRepo struct {
	suppliers map[uuid.UUID]*model.Supplier
}

var _ repository.SupplierRepository = (*stubSupplierRepo)(nil)

func newStubSupplierRepo() *stubSupplierRepo {
	return &stubSupplierRepo{suppliers: make(map[uuid.UUID]*model.Supplier)}
}

func (r *stubSupplierRepo) Create(_ context.Context, s *model.Supplier) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.suppliers[s.ID] = s
	return nil
}

func (r *stubSupplierRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Supplier, error) {
	s, ok := r.suppliers[id]
	if !ok {
		return nil, errNotFound
	}
	return s, nil
}

func (r *stubSupplierRepo) List(_ context.Context) ([]model.Supplier, error) {
	var result []model.Supplier
	for _, s := range r.suppliers {
		if s.Active {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (r *stubSupplierRepo) Update(_ context.Context, s *model.Supplier) error {
	r.suppliers[s.ID] = s
	return nil
}

func (r *stubSupplierRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	s, ok := r.suppliers[id]
	if !ok {
		return errNotFound
	}
	s.Active = false
	return nil
}

// ── ShopRepository stub ──────────────────────────────────────────────────────

type stubShopRepo struct {
	shops map[uuid.UUID]*model.Shop
}

var _ repository.ShopRepository = (*stubShopRepo)(nil)

func newStubShopRepo() *stubShopRepo {
	return &stubShopRepo{shops: make(map[uuid.UUID]*model.Shop)}
}

func (r *stubShopRepo) Create(_ context.Context, s *model.Shop) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.shops[s.ID] = s
	return nil
}

func (r *stubShopRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Shop, error) {
	s, ok := r.shops[id]
	if !ok {
		return nil, errNotFound
	}
	return s, nil
}

func (r *stubShopRepo) List(_ context.Context) ([]model.Shop, error) {
	var result []model.Shop
	for _, s := range r.shops {
		if s.Active {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (r *stubShopRepo) Update(_ context.Context, s *model.Shop) error {
	r.shops[s.ID] = s
	return nil
}

func (r *stubShopRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	s, ok := r.shops[id]
	if !ok {
		return errNotFound
	}
	s.Active = false
	return nil
}

// ── UserRepository stub ──────────────────────────────────────────────────────

type stubUserRepo struct {
	users map[string]*model.User
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*model.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.Username] = u
	return nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	u, ok := r.users[username]
	if !ok || !u.Active {
		return nil, errNotFound
	}
	return u, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, errNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]model.User, error) {
	var result []model.User
	for _, u := range r.users {
		if u.Active {
			result = append(result, *u)
		}
	}
	return result, nil
}

func (r *stubUserRepo) ListAll(_ context.Context) ([]model.User, error) {
	var result []model.User
	for _, u := range r.users {
		result = append(result, *u)
	}
	return result, nil
}

func (r *stubUserRepo) ListByRole(_ context.Context, role string) ([]model.User, error) {
	var result []model.User
	for _, u := range r.users {
		if u.Active && u.Role == role {
			result = append(result, *u)
		}
	}
	return result, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *model.User) error {
	r.users[u.Username] = u
	return nil
}

func (r *stubUserRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	for _, u := range r.users {
		if u.ID == id {
			u.Active = false
			return nil
		}
	}
	return errNotFound
}

func (r *stubUserRepo) Reactivate(_ context.Context, id uuid.UUID) error {
	for _, u := range r.users {
		if u.ID == id {
			u.Active = true
			return nil
		}
	}
	return errNotFound
}
