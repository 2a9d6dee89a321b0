package service

import (
	"context"
	"fmt"

	"stockroom/internal/dto"
	"stockroom/internal/model"
	"stockroom/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Actor identifies the authenticated user behind a mutating call.
// Every ledger entry records who triggered it.
type Actor struct {
	ID   uuid.UUID
	Name string
}

// LedgerService owns every quantity mutation in the system. All writes to
// Item.Quantity flow through it so that each change appends exactly one
// immutable Operation and is serialized per item code.
type LedgerService interface {
	AdjustQuantity(ctx context.Context, itemCode string, delta int, actor Actor, reason string) (*dto.ItemResponse, error)
	SetQuantity(ctx context.Context, itemID uuid.UUID, quantity int, actor Actor, reason string) (*dto.ItemResponse, error)
	ListOperations(ctx context.Context, filter repository.OperationFilter) (*dto.OperationListResponse, error)

	// ApplyTx mutates one item inside an open transaction and appends the
	// Operation row. Callers must hold the relevant code locks.
	ApplyTx(tx *gorm.DB, item *model.Item, delta int, actor Actor, reason string, ref *uuid.UUID) error

	// LockCodes serializes quantity writes for the given codes.
	// The returned func releases the locks.
	LockCodes(codes ...string) func()
}

type ledgerService struct {
	items repository.ItemRepository
	ops   repository.OperationRepository
	locks *codeLocks
}

func NewLedgerService(items repository.ItemRepository, ops repository.OperationRepository) LedgerService {
	return &ledgerService{items: items, ops: ops, locks: newCodeLocks()}
}

func (s *ledgerService) LockCodes(codes ...string) func() {
	return s.locks.lockAll(codes)
}

func (s *ledgerService) AdjustQuantity(ctx context.Context, itemCode string, delta int, actor Actor, reason string) (*dto.ItemResponse, error) {
	release := s.locks.lockAll([]string{itemCode})
	defer release()

	item, err := s.items.FindByCode(ctx, itemCode)
	if err != nil {
		return nil, fmt.Errorf("item %s: %w", itemCode, ErrNotFound)
	}

	txErr := runTx(ctx, s.items.DB(), func(tx *gorm.DB) error {
		return s.ApplyTx(tx, item, delta, actor, reason, nil)
	})
	if txErr != nil {
		return nil, txErr
	}

	// Re-read for the response — the guarded UPDATE is the source of truth
	item, err = s.items.FindByID(ctx, item.ID)
	if err != nil {
		return nil, err
	}
	return itemToResponse(item), nil
}

func (s *ledgerService) SetQuantity(ctx context.Context, itemID uuid.UUID, quantity int, actor Actor, reason string) (*dto.ItemResponse, error) {
	item, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("item %s: %w", itemID, ErrNotFound)
	}

	release := s.locks.lockAll([]string{item.Code})
	defer release()

	// Re-read under the lock — the quantity may have moved
	item, err = s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("item %s: %w", itemID, ErrNotFound)
	}

	delta := quantity - item.Quantity
	if delta == 0 {
		return itemToResponse(item), nil
	}

	txErr := runTx(ctx, s.items.DB(), func(tx *gorm.DB) error {
		return s.ApplyTx(tx, item, delta, actor, reason, nil)
	})
	if txErr != nil {
		return nil, txErr
	}

	item, err = s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return itemToResponse(item), nil
}

// ApplyTx is the single write path for quantities. The guarded UPDATE refuses
// to drive quantity below zero even if a caller skipped the pre-check, then
// one Operation row is appended with direction derived from the delta's sign.
func (s *ledgerService) ApplyTx(tx *gorm.DB, item *model.Item, delta int, actor Actor, reason string, ref *uuid.UUID) error {
	affected, err := s.items.AdjustQuantityTx(tx, item.ID, delta)
	if err != nil {
		return err
	}
	if affected == 0 {
		if delta < 0 {
			return fmt.Errorf("item %s: %w", item.Code, ErrInsufficientStock)
		}
		return fmt.Errorf("item %s: %w", item.Code, ErrNotFound)
	}

	direction := model.DirectionIn
	qty := delta
	if delta < 0 {
		direction = model.DirectionOut
		qty = -delta
	}
	op := &model.Operation{
		ItemID:      item.ID,
		Direction:   direction,
		Quantity:    qty,
		ActorID:     actor.ID,
		ActorName:   actor.Name,
		Notes:       reason,
		ReferenceID: ref,
	}
	return s.ops.CreateTx(tx, op)
}

func (s *ledgerService) ListOperations(ctx context.Context, filter repository.OperationFilter) (*dto.OperationListResponse, error) {
	ops, total, err := s.ops.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 100
	}
	data := make([]dto.OperationResponse, 0, len(ops))
	for _, op := range ops {
		data = append(data, *operationToResponse(&op))
	}
	return &dto.OperationListResponse{Data: data, Total: total, Page: page, Limit: limit}, nil
}

func operationToResponse(op *model.Operation) *dto.OperationResponse {
	resp := &dto.OperationResponse{
		ID:        op.ID.String(),
		ItemID:    op.ItemID.String(),
		Direction: op.Direction,
		Quantity:  op.Quantity,
		ActorID:   op.ActorID.String(),
		ActorName: op.ActorName,
		Notes:     op.Notes,
		CreatedAt: op.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if op.Item != nil {
		resp.ItemCode = op.Item.Code
		resp.ItemName = op.Item.Name
	}
	return resp
}
