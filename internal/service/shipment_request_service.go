package service

import (
	"context"
	"fmt"
	"time"

	"stockroom/internal/apierror"
	"stockroom/internal/dto"
	"stockroom/internal/model"
	"stockroom/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ShipmentRequestService drives the single-item outbound shipment workflow.
// pending → approved | cancelled; both outcomes are terminal.
type ShipmentRequestService interface {
	Submit(ctx context.Context, req dto.SubmitShipmentRequest, actor Actor) (*dto.ShipmentRequestResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.ShipmentRequestResponse, error)
	List(ctx context.Context, filter dto.ShipmentRequestFilter) (*dto.ShipmentRequestListResponse, error)
	Approve(ctx context.Context, id uuid.UUID, actor Actor) (*dto.ShipmentRequestResponse, error)
	Cancel(ctx context.Context, id uuid.UUID, actor Actor) (*dto.ShipmentRequestResponse, error)
}

type shipmentRequestService struct {
	shipments repository.ShipmentRequestRepository
	items     repository.ItemRepository
	ledger    LedgerService
	notifier  Notifier
}

func NewShipmentRequestService(
	shipments repository.ShipmentRequestRepository,
	items repository.ItemRepository,
	ledger LedgerService,
	notifier Notifier,
) ShipmentRequestService {
	return &shipmentRequestService{shipments: shipments, items: items, ledger: ledger, notifier: notifier}
}

func (s *shipmentRequestService) Submit(ctx context.Context, req dto.SubmitShipmentRequest, actor Actor) (*dto.ShipmentRequestResponse, error) {
	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		return nil, fmt.Errorf("item %s: %w", req.ItemID, ErrNotFound)
	}
	item, err := s.items.FindByID(ctx, itemID)
	if err != nil || !item.Active {
		return nil, fmt.Errorf("item %s: %w", req.ItemID, ErrNotFound)
	}

	shipment := &model.ShipmentRequest{
		ItemID:      item.ID,
		Quantity:    req.Quantity,
		Destination: req.Destination,
		Status:      model.StatusPending,
		RequestedBy: actor.ID,
		Item:        item,
	}
	if err := s.shipments.Create(ctx, shipment); err != nil {
		return nil, err
	}
	return shipmentToResponse(shipment), nil
}

func (s *shipmentRequestService) GetByID(ctx context.Context, id uuid.UUID) (*dto.ShipmentRequestResponse, error) {
	shipment, err := s.shipments.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("shipment request %s: %w", id, ErrNotFound)
	}
	return shipmentToResponse(shipment), nil
}

func (s *shipmentRequestService) List(ctx context.Context, filter dto.ShipmentRequestFilter) (*dto.ShipmentRequestListResponse, error) {
	shipments, total, err := s.shipments.List(ctx, filter)
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
	data := make([]dto.ShipmentRequestResponse, 0, len(shipments))
	for i := range shipments {
		data = append(data, *shipmentToResponse(&shipments[i]))
	}
	return &dto.ShipmentRequestListResponse{Data: data, Total: total, Page: page, Limit: limit}, nil
}

// Approve decrements under the item's code lock with the same guarded write
// as stock request fulfilment, so the two workflows cannot oversell an item
// between them.
func (s *shipmentRequestService) Approve(ctx context.Context, id uuid.UUID, actor Actor) (*dto.ShipmentRequestResponse, error) {
	shipment, err := s.shipments.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("shipment request %s: %w", id, ErrNotFound)
	}
	if shipment.Status != model.StatusPending {
		return nil, fmt.Errorf("cannot approve from %q: %w", shipment.Status, ErrInvalidTransition)
	}

	item, err := s.items.FindByID(ctx, shipment.ItemID)
	if err != nil || !item.Active {
		return nil, fmt.Errorf("item %s: %w", shipment.ItemID, ErrNotFound)
	}

	release := s.ledger.LockCodes(item.Code)
	defer release()

	item, err = s.items.FindByID(ctx, shipment.ItemID)
	if err != nil {
		return nil, fmt.Errorf("item %s: %w", shipment.ItemID, ErrNotFound)
	}
	if item.Quantity < shipment.Quantity {
		return nil, &InsufficientStockError{Lines: []apierror.ShortfallLine{{
			ItemCode:  item.Code,
			Requested: shipment.Quantity,
			Available: item.Quantity,
		}}}
	}

	now := time.Now().UTC()
	txErr := runTx(ctx, s.shipments.DB(), func(tx *gorm.DB) error {
		reason := fmt.Sprintf("shipment to %s", shipment.Destination)
		if err := s.ledger.ApplyTx(tx, item, -shipment.Quantity, actor, reason, &shipment.ID); err != nil {
			return err
		}
		shipment.Status = model.StatusApproved
		shipment.ProcessedBy = &actor.ID
		shipment.ProcessedAt = &now
		return s.shipments.UpdateTx(tx, shipment)
	})
	if txErr != nil {
		return nil, txErr
	}

	if s.notifier != nil {
		_ = s.notifier.QueueNotification(ctx, "Shipment approved",
			fmt.Sprintf("Shipment of %d × %s to %s approved by %s.",
				shipment.Quantity, item.Code, shipment.Destination, actor.Name))
	}
	return shipmentToResponse(shipment), nil
}

func (s *shipmentRequestService) Cancel(ctx context.Context, id uuid.UUID, actor Actor) (*dto.ShipmentRequestResponse, error) {
	shipment, err := s.shipments.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("shipment request %s: %w", id, ErrNotFound)
	}
	if shipment.Status != model.StatusPending {
		return nil, fmt.Errorf("cannot cancel from %q: %w", shipment.Status, ErrInvalidTransition)
	}
	now := time.Now().UTC()
	shipment.Status = model.StatusCancelled
	shipment.ProcessedBy = &actor.ID
	shipment.ProcessedAt = &now
	if err := s.shipments.Update(ctx, shipment); err != nil {
		return nil, err
	}
	return shipmentToResponse(shipment), nil
}

func shipmentToResponse(r *model.ShipmentRequest) *dto.ShipmentRequestResponse {
	resp := &dto.ShipmentRequestResponse{
		ID:          r.ID.String(),
		ItemID:      r.ItemID.String(),
		Quantity:    r.Quantity,
		Destination: r.Destination,
		Status:      r.Status,
		RequestedBy: r.RequestedBy.String(),
		CreatedAt:   r.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if r.Item != nil {
		resp.ItemCode = r.Item.Code
		resp.ItemName = r.Item.Name
	}
	if r.ProcessedBy != nil {
		v := r.ProcessedBy.String()
		resp.ProcessedBy = &v
	}
	return resp
}
