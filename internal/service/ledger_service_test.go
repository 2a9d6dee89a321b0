package service_test

import (
	"context"
	"testing"

	"stockroom/internal/model"
	"stockroom/internal/repository"
	"stockroom/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testActor = service.Actor{ID: uuid.New(), Name: "Warehouse Clerk"}

func newLedgerFixture() (*stubItemRepo, *stubOperationRepo, service.LedgerService) {
	items := newStubItemRepo()
	ops := newStubOperationRepo()
	return items, ops, service.NewLedgerService(items, ops)
}

func seedItem(items *stubItemRepo, code, itemType, name string, qty int) *model.Item {
	return items.add(&model.Item{
		Code:        code,
		Type:        itemType,
		Name:        name,
		Quantity:    qty,
		MinQuantity: 5,
		UnitCost:    decimal.NewFromFloat(3.50),
		Active:      true,
	})
}

func TestAdjustQuantity_IncrementAppendsInOperation(t *testing.T) {
	items, ops, ledger := newLedgerFixture()
	item := seedItem(items, "IC0001", model.TypeIceCream, "Vanilla Tub", 10)

	resp, err := ledger.AdjustQuantity(context.Background(), "IC0001", 5, testActor, "manual restock")
	require.NoError(t, err)
	assert.Equal(t, 15, resp.Quantity)

	entries := ops.byItem(item.ID)
	require.Len(t, entries, 1)
	assert.Equal(t, model.DirectionIn, entries[0].Direction)
	assert.Equal(t, 5, entries[0].Quantity)
	assert.Equal(t, testActor.ID, entries[0].ActorID)
	assert.Equal(t, "manual restock", entries[0].Notes)
}

func TestAdjustQuantity_DecrementAppendsOutOperation(t *testing.T) {
	items, ops, ledger := newLedgerFixture()
	item := seedItem(items, "DR0003", model.TypeDrink, "Cola 1.5L", 8)

	resp, err := ledger.AdjustQuantity(context.Background(), "DR0003", -3, testActor, "breakage")
	require.NoError(t, err)
	assert.Equal(t, 5, resp.Quantity)

	entries := ops.byItem(item.ID)
	require.Len(t, entries, 1)
	assert.Equal(t, model.DirectionOut, entries[0].Direction)
	// Operation quantity is always positive; direction carries the sign
	assert.Equal(t, 3, entries[0].Quantity)
}

func TestAdjustQuantity_NeverDrivesQuantityNegative(t *testing.T) {
	items, ops, ledger := newLedgerFixture()
	item := seedItem(items, "KT0010", model.TypeKitchen, "Napkins", 2)

	_, err := ledger.AdjustQuantity(context.Background(), "KT0010", -5, testActor, "oops")
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrInsufficientStock)

	assert.Equal(t, 2, items.items[item.ID].Quantity)
	assert.Empty(t, ops.byItem(item.ID))
}

func TestAdjustQuantity_UnknownCode(t *testing.T) {
	_, _, ledger := newLedgerFixture()

	_, err := ledger.AdjustQuantity(context.Background(), "IC9999", 1, testActor, "n/a")
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestSetQuantity_RecordsImpliedDelta(t *testing.T) {
	items, ops, ledger := newLedgerFixture()
	item := seedItem(items, "NK0001", model.TypeSnack, "Chips", 10)

	resp, err := ledger.SetQuantity(context.Background(), item.ID, 4, testActor, "stock count")
	require.NoError(t, err)
	assert.Equal(t, 4, resp.Quantity)

	entries := ops.byItem(item.ID)
	require.Len(t, entries, 1)
	assert.Equal(t, model.DirectionOut, entries[0].Direction)
	assert.Equal(t, 6, entries[0].Quantity)
}

func TestSetQuantity_SameValueWritesNothing(t *testing.T) {
	items, ops, ledger := newLedgerFixture()
	item := seedItem(items, "NK0002", model.TypeSnack, "Peanuts", 7)

	resp, err := ledger.SetQuantity(context.Background(), item.ID, 7, testActor, "stock count")
	require.NoError(t, err)
	assert.Equal(t, 7, resp.Quantity)
	assert.Empty(t, ops.byItem(item.ID))
}

func TestListOperations_FiltersByItem(t *testing.T) {
	items, _, ledger := newLedgerFixture()
	a := seedItem(items, "IC0001", model.TypeIceCream, "Vanilla Tub", 10)
	seedItem(items, "DR0001", model.TypeDrink, "Water 500ml", 10)

	_, err := ledger.AdjustQuantity(context.Background(), "IC0001", 2, testActor, "restock")
	require.NoError(t, err)
	_, err = ledger.AdjustQuantity(context.Background(), "DR0001", 3, testActor, "restock")
	require.NoError(t, err)

	resp, err := ledger.ListOperations(context.Background(), repository.OperationFilter{ItemID: &a.ID})
	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, a.ID.String(), resp.Data[0].ItemID)
}
