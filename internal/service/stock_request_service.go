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

// Notifier enqueues an asynchronous notification. Implemented by the worker
// dispatcher; a nil Notifier disables notifications (unit test mode).
type Notifier interface {
	QueueNotification(ctx context.Context, subject, body string) error
}

// StockRequestService drives the shop → warehouse request workflow.
//
//	pending ⇄ processing → completed | cancelled
//
// Approval is all-or-nothing: either every line decrements and one operation
// per line is appended, or nothing changes and the shortfall report names
// every offending line.
type StockRequestService interface {
	Submit(ctx context.Context, req dto.SubmitStockRequest, actor Actor) (*dto.StockRequestResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.StockRequestResponse, error)
	List(ctx context.Context, filter dto.StockRequestFilter) (*dto.StockRequestListResponse, error)
	StartProcessing(ctx context.Context, id uuid.UUID, actor Actor) (*dto.StockRequestResponse, error)
	ReturnForRevision(ctx context.Context, id uuid.UUID, notes string, actor Actor) (*dto.StockRequestResponse, error)
	Approve(ctx context.Context, id uuid.UUID, actor Actor) (*dto.StockRequestResponse, error)
	Cancel(ctx context.Context, id uuid.UUID, actor Actor) (*dto.StockRequestResponse, error)
}

type stockRequestService struct {
	requests repository.StockRequestRepository
	items    repository.ItemRepository
	shops    repository.ShopRepository
	ledger   LedgerService
	notifier Notifier
}

func NewStockRequestService(
	requests repository.StockRequestRepository,
	items repository.ItemRepository,
	shops repository.ShopRepository,
	ledger LedgerService,
	notifier Notifier,
) StockRequestService {
	return &stockRequestService{
		requests: requests,
		items:    items,
		shops:    shops,
		ledger:   ledger,
		notifier: notifier,
	}
}

// Submit validates every line against the active catalog and snapshots
// item name and type onto the lines. One invalid code rejects the whole
// request; nothing is persisted.
func (s *stockRequestService) Submit(ctx context.Context, req dto.SubmitStockRequest, actor Actor) (*dto.StockRequestResponse, error) {
	shopID, err := uuid.Parse(req.ShopID)
	if err != nil {
		return nil, fmt.Errorf("shop %s: %w", req.ShopID, ErrNotFound)
	}
	if _, err := s.shops.FindByID(ctx, shopID); err != nil {
		return nil, fmt.Errorf("shop %s: %w", req.ShopID, ErrNotFound)
	}

	lines := make([]model.StockRequestLine, 0, len(req.Lines))
	for _, l := range req.Lines {
		item, err := s.items.FindByCode(ctx, l.ItemCode)
		if err != nil {
			return nil, fmt.Errorf("code %s: %w", l.ItemCode, ErrInvalidCode)
		}
		lines = append(lines, model.StockRequestLine{
			ItemCode: item.Code,
			ItemName: item.Name,
			ItemType: item.Type,
			Quantity: l.Quantity,
		})
	}

	request := &model.StockRequest{
		ShopID:      shopID,
		Status:      model.StatusPending,
		RequestedBy: actor.ID,
		Lines:       lines,
	}
	if err := s.requests.Create(ctx, request); err != nil {
		return nil, err
	}
	return stockRequestToResponse(request), nil
}

func (s *stockRequestService) GetByID(ctx context.Context, id uuid.UUID) (*dto.StockRequestResponse, error) {
	request, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("stock request %s: %w", id, ErrNotFound)
	}
	return stockRequestToResponse(request), nil
}

func (s *stockRequestService) List(ctx context.Context, filter dto.StockRequestFilter) (*dto.StockRequestListResponse, error) {
	requests, total, err := s.requests.List(ctx, filter)
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
	data := make([]dto.StockRequestResponse, 0, len(requests))
	for i := range requests {
		data = append(data, *stockRequestToResponse(&requests[i]))
	}
	return &dto.StockRequestListResponse{Data: data, Total: total, Page: page, Limit: limit}, nil
}

func (s *stockRequestService) StartProcessing(ctx context.Context, id uuid.UUID, actor Actor) (*dto.StockRequestResponse, error) {
	request, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("stock request %s: %w", id, ErrNotFound)
	}
	if request.Status != model.StatusPending {
		return nil, fmt.Errorf("cannot start processing from %q: %w", request.Status, ErrInvalidTransition)
	}
	request.Status = model.StatusProcessing
	request.ProcessedBy = &actor.ID
	if err := s.requests.Update(ctx, request); err != nil {
		return nil, err
	}
	return stockRequestToResponse(request), nil
}

// ReturnForRevision hands a processing request back to the shop with a note
// explaining what to change. The note accumulates — earlier remarks survive.
func (s *stockRequestService) ReturnForRevision(ctx context.Context, id uuid.UUID, notes string, actor Actor) (*dto.StockRequestResponse, error) {
	request, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("stock request %s: %w", id, ErrNotFound)
	}
	if request.Status != model.StatusProcessing {
		return nil, fmt.Errorf("cannot return from %q: %w", request.Status, ErrInvalidTransition)
	}
	request.Status = model.StatusPending
	if request.Notes != "" {
		request.Notes += "\n"
	}
	request.Notes += notes
	if err := s.requests.Update(ctx, request); err != nil {
		return nil, err
	}
	return stockRequestToResponse(request), nil
}

// Approve is the hot path of the whole system. The code locks serialize it
// against every other quantity write touching the same items, so the
// sufficiency check and the guarded decrements see one consistent picture.
func (s *stockRequestService) Approve(ctx context.Context, id uuid.UUID, actor Actor) (*dto.StockRequestResponse, error) {
	request, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("stock request %s: %w", id, ErrNotFound)
	}
	if request.Status != model.StatusPending && request.Status != model.StatusProcessing {
		return nil, fmt.Errorf("cannot approve from %q: %w", request.Status, ErrInvalidTransition)
	}

	codes := make([]string, 0, len(request.Lines))
	for _, l := range request.Lines {
		codes = append(codes, l.ItemCode)
	}
	release := s.ledger.LockCodes(codes...)
	defer release()

	// Pre-check under the locks, collecting every shortfall rather than
	// failing on the first.
	items := make(map[string]*model.Item, len(request.Lines))
	var shortfalls []apierror.ShortfallLine
	for _, l := range request.Lines {
		item, err := s.items.FindByCode(ctx, l.ItemCode)
		if err != nil {
			return nil, fmt.Errorf("code %s: %w", l.ItemCode, ErrInvalidCode)
		}
		items[l.ItemCode] = item
		if item.Quantity < l.Quantity {
			shortfalls = append(shortfalls, apierror.ShortfallLine{
				ItemCode:  l.ItemCode,
				Requested: l.Quantity,
				Available: item.Quantity,
			})
		}
	}
	if len(shortfalls) > 0 {
		return nil, &InsufficientStockError{Lines: shortfalls}
	}

	now := time.Now().UTC()
	txErr := runTx(ctx, s.requests.DB(), func(tx *gorm.DB) error {
		for _, l := range request.Lines {
			reason := fmt.Sprintf("stock request %s", request.ID)
			if err := s.ledger.ApplyTx(tx, items[l.ItemCode], -l.Quantity, actor, reason, &request.ID); err != nil {
				return err
			}
		}
		request.Status = model.StatusCompleted
		request.ProcessedBy = &actor.ID
		request.ProcessedAt = &now
		return s.requests.UpdateTx(tx, request)
	})
	if txErr != nil {
		return nil, txErr
	}

	s.notify(ctx, "Stock request fulfilled",
		fmt.Sprintf("Stock request %s was approved and fulfilled by %s.", request.ID, actor.Name))
	return stockRequestToResponse(request), nil
}

// Cancel never touches quantities or the ledger.
func (s *stockRequestService) Cancel(ctx context.Context, id uuid.UUID, actor Actor) (*dto.StockRequestResponse, error) {
	request, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("stock request %s: %w", id, ErrNotFound)
	}
	if request.Status != model.StatusPending && request.Status != model.StatusProcessing {
		return nil, fmt.Errorf("cannot cancel from %q: %w", request.Status, ErrInvalidTransition)
	}
	now := time.Now().UTC()
	request.Status = model.StatusCancelled
	request.ProcessedBy = &actor.ID
	request.ProcessedAt = &now
	if err := s.requests.Update(ctx, request); err != nil {
		return nil, err
	}
	return stockRequestToResponse(request), nil
}

func (s *stockRequestService) notify(ctx context.Context, subject, body string) {
	if s.notifier == nil {
		return
	}
	// Notification failures never fail the business operation
	_ = s.notifier.QueueNotification(ctx, subject, body)
}

func stockRequestToResponse(r *model.StockRequest) *dto.StockRequestResponse {
	resp := &dto.StockRequestResponse{
		ID:          r.ID.String(),
		ShopID:      r.ShopID.String(),
		Status:      r.Status,
		RequestedBy: r.RequestedBy.String(),
		Notes:       r.Notes,
		CreatedAt:   r.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if r.Shop != nil {
		resp.ShopName = r.Shop.Name
	}
	if r.ProcessedBy != nil {
		v := r.ProcessedBy.String()
		resp.ProcessedBy = &v
	}
	if r.ProcessedAt != nil {
		v := r.ProcessedAt.Format("2006-01-02T15:04:05Z")
		resp.ProcessedAt = &v
	}
	resp.Lines = make([]dto.StockRequestLineResponse, 0, len(r.Lines))
	for _, l := range r.Lines {
		resp.Lines = append(resp.Lines, dto.StockRequestLineResponse{
			ItemCode: l.ItemCode,
			ItemName: l.ItemName,
			ItemType: l.ItemType,
			Quantity: l.Quantity,
		})
	}
	return resp
}
