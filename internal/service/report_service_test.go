package service_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"stockroom/internal/dto"
	"stockroom/internal/model"
	"stockroom/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reportFixture struct {
	items      *stubItemRepo
	ops        *stubOperationRepo
	requests   *stubStockRequestRepo
	shipments  *stubShipmentRepo
	deliveries *stubDeliveryRepo
	svc        service.ReportService
}

func newReportFixture() *reportFixture {
	items := newStubItemRepo()
	ops := newStubOperationRepo()
	requests := newStubStockRequestRepo()
	shipments := newStubShipmentRepo()
	deliveries := newStubDeliveryRepo()
	return &reportFixture{
		items:      items,
		ops:        ops,
		requests:   requests,
		shipments:  shipments,
		deliveries: deliveries,
		svc:        service.NewReportService(ops, items, requests, shipments, deliveries),
	}
}

func TestReportSummary_AggregatesLedgerAndValuation(t *testing.T) {
	f := newReportFixture()
	ctx := context.Background()

	a := f.items.add(&model.Item{
		Code: "IC0001", Type: model.TypeIceCream, Name: "Vanilla Tub",
		Quantity: 4, UnitCost: decimal.NewFromFloat(2.50), Active: true,
	})
	f.items.add(&model.Item{
		Code: "DR0001", Type: model.TypeDrink, Name: "Cola 1.5L",
		Quantity: 10, UnitCost: decimal.NewFromFloat(1.25), Active: true,
	})

	require.NoError(t, f.ops.Create(ctx, &model.Operation{ItemID: a.ID, Direction: model.DirectionIn, Quantity: 6}))
	require.NoError(t, f.ops.Create(ctx, &model.Operation{ItemID: a.ID, Direction: model.DirectionOut, Quantity: 2}))
	require.NoError(t, f.requests.Create(ctx, &model.StockRequest{Status: model.StatusPending}))
	require.NoError(t, f.requests.Create(ctx, &model.StockRequest{Status: model.StatusCompleted}))

	report, err := f.svc.Summary(ctx, dto.ReportFilter{})
	require.NoError(t, err)

	totals := map[string]dto.DirectionTotal{}
	for _, d := range report.ByDirection {
		totals[d.Direction] = d
	}
	assert.Equal(t, 6, totals[model.DirectionIn].Quantity)
	assert.Equal(t, 2, totals[model.DirectionOut].Quantity)

	// 4 × 2.50 + 10 × 1.25 = 22.50, exact
	assert.Equal(t, "22.50", report.StockValuation.StringFixed(2))
	assert.Len(t, report.RequestsByStatus, 2)
}

func TestReportExportCSV_ContainsCatalogRows(t *testing.T) {
	f := newReportFixture()
	f.items.add(&model.Item{
		Code: "IC0001", Type: model.TypeIceCream, Name: "Vanilla Tub",
		Quantity: 4, MinQuantity: 2, UnitCost: decimal.NewFromFloat(2.50), Active: true,
	})

	raw, err := f.svc.ExportCSV(context.Background(), dto.ReportFilter{})
	require.NoError(t, err)

	out := string(raw)
	assert.Contains(t, out, "stock_valuation,10.00")
	assert.Contains(t, out, "code,name,type,quantity,min_quantity,unit_cost,expiry_date")
	assert.Contains(t, out, "IC0001,Vanilla Tub,ice-cream,4,2,2.50,")
}

func TestReportExportXLSX_ProducesWorkbook(t *testing.T) {
	f := newReportFixture()
	f.items.add(&model.Item{
		Code: "IC0001", Type: model.TypeIceCream, Name: "Vanilla Tub",
		Quantity: 4, UnitCost: decimal.NewFromFloat(2.50), Active: true,
	})

	raw, err := f.svc.ExportXLSX(context.Background(), dto.ReportFilter{})
	require.NoError(t, err)
	// XLSX is a zip container
	assert.True(t, bytes.HasPrefix(raw, []byte("PK")))
}

func TestReportExportPDF_ProducesDocument(t *testing.T) {
	f := newReportFixture()
	f.items.add(&model.Item{
		Code: "IC0001", Type: model.TypeIceCream, Name: "Vanilla Tub",
		Quantity: 4, UnitCost: decimal.NewFromFloat(2.50), Active: true,
	})

	raw, err := f.svc.ExportPDF(context.Background(), dto.ReportFilter{})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "%PDF"))
}
