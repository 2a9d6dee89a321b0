package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"strconv"
	"time"

	"stockroom/internal/dto"
	"stockroom/internal/infra"
	"stockroom/internal/repository"

	"github.com/shopspring/decimal"
)

// ReportService produces read-only projections over the ledger, the request
// workflows and the delivery history. Reports never mutate anything.
type ReportService interface {
	Summary(ctx context.Context, filter dto.ReportFilter) (*dto.InventoryReport, error)
	ExportCSV(ctx context.Context, filter dto.ReportFilter) ([]byte, error)
	ExportXLSX(ctx context.Context, filter dto.ReportFilter) ([]byte, error)
	ExportPDF(ctx context.Context, filter dto.ReportFilter) ([]byte, error)
}

type reportService struct {
	ops        repository.OperationRepository
	items      repository.ItemRepository
	requests   repository.StockRequestRepository
	shipments  repository.ShipmentRequestRepository
	deliveries repository.DeliveryRepository
}

func NewReportService(
	ops repository.OperationRepository,
	items repository.ItemRepository,
	requests repository.StockRequestRepository,
	shipments repository.ShipmentRequestRepository,
	deliveries repository.DeliveryRepository,
) ReportService {
	return &reportService{
		ops:        ops,
		items:      items,
		requests:   requests,
		shipments:  shipments,
		deliveries: deliveries,
	}
}

// reportWindow resolves the filter to a concrete [from, to) window.
// Defaults: last 30 days up to tomorrow, so "today" is always included.
func reportWindow(filter dto.ReportFilter) (time.Time, time.Time) {
	now := time.Now().UTC()
	to := now.AddDate(0, 0, 1).Truncate(24 * time.Hour)
	from := to.AddDate(0, 0, -31)
	if filter.From != "" {
		if d, err := time.Parse("2006-01-02", filter.From); err == nil {
			from = d
		}
	}
	if filter.To != "" {
		if d, err := time.Parse("2006-01-02", filter.To); err == nil {
			to = d.AddDate(0, 0, 1) // inclusive upper bound
		}
	}
	return from, to
}

func (s *reportService) Summary(ctx context.Context, filter dto.ReportFilter) (*dto.InventoryReport, error) {
	from, to := reportWindow(filter)

	byDirection, err := s.ops.TotalsByDirection(ctx, from, to)
	if err != nil {
		return nil, err
	}
	byType, err := s.ops.TotalsByItemType(ctx, from, to)
	if err != nil {
		return nil, err
	}
	byDestination, err := s.shipments.TotalsByDestination(ctx, from, to)
	if err != nil {
		return nil, err
	}
	byStatus, err := s.requests.CountByStatus(ctx, from, to)
	if err != nil {
		return nil, err
	}
	deliveries, err := s.deliveries.Count(ctx, from, to)
	if err != nil {
		return nil, err
	}
	valuation, err := s.stockValuation(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.InventoryReport{
		From:             from.Format("2006-01-02"),
		To:               to.AddDate(0, 0, -1).Format("2006-01-02"),
		ByDirection:      byDirection,
		ByItemType:       byType,
		ByDestination:    byDestination,
		RequestsByStatus: byStatus,
		DeliveriesCount:  int(deliveries),
		StockValuation:   valuation,
		GeneratedAt:      time.Now().UTC().Format("2006-01-02T15:04:05Z"),
	}, nil
}

// stockValuation sums quantity × unit cost over the active catalog.
// decimal keeps the arithmetic exact; floats drift on large catalogs.
func (s *reportService) stockValuation(ctx context.Context) (decimal.Decimal, error) {
	items, err := s.items.ListActive(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, i := range items {
		total = total.Add(i.UnitCost.Mul(decimal.NewFromInt(int64(i.Quantity))))
	}
	return total, nil
}

// ExportCSV renders the current active catalog with the summary header rows.
func (s *reportService) ExportCSV(ctx context.Context, filter dto.ReportFilter) ([]byte, error) {
	report, err := s.Summary(ctx, filter)
	if err != nil {
		return nil, err
	}
	items, err := s.items.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	_ = w.Write([]string{"report_from", report.From, "report_to", report.To})
	_ = w.Write([]string{"stock_valuation", report.StockValuation.StringFixed(2)})
	_ = w.Write(nil)
	_ = w.Write([]string{"code", "name", "type", "quantity", "min_quantity", "unit_cost", "expiry_date"})
	for _, i := range items {
		expiry := ""
		if i.ExpiryDate != nil {
			expiry = i.ExpiryDate.Format("2006-01-02")
		}
		_ = w.Write([]string{
			i.Code,
			i.Name,
			i.Type,
			strconv.Itoa(i.Quantity),
			strconv.Itoa(i.MinQuantity),
			i.UnitCost.StringFixed(2),
			expiry,
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *reportService) ExportXLSX(ctx context.Context, filter dto.ReportFilter) ([]byte, error) {
	report, err := s.Summary(ctx, filter)
	if err != nil {
		return nil, err
	}
	items, err := s.items.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return infra.RenderReportXLSX(report, items)
}

func (s *reportService) ExportPDF(ctx context.Context, filter dto.ReportFilter) ([]byte, error) {
	report, err := s.Summary(ctx, filter)
	if err != nil {
		return nil, err
	}
	items, err := s.items.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return infra.RenderReportPDF(report, items)
}
