package service_test

import (
	"context"
	"testing"

	"minakistock/internal/apierror"
	"minakistock/internal/model"
	"minakistock/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedEntry(entries *stubEntryRepo, productType, productID, name string, qty int, box *model.StorageObject) {
	e := &model.ProductEntry{
		ProductType:     productType,
		ProductID:       productID,
		ProductName:     name,
		SKU:             productID,
		Quantity:        qty,
		StorageObjectID: box.ID,
		StorageObject:   box,
	}
	entries.put(e)
}

func TestInventorySummaryGroupsByProduct(t *testing.T) {
	entries := newStubEntryRepo()
	locations := newStubLocationRepo()
	svc := service.NewSummaryService(entries, locations)

	boxA := &model.StorageObject{ID: uuid.New(), Code: "BOX-A"}
	boxB := &model.StorageObject{ID: uuid.New(), Code: "BOX-B"}

	seedEntry(entries, model.ProductTypeRealJewelry, "LAB-001", "Lab Diamond Ring", 2, boxA)
	seedEntry(entries, model.ProductTypeRealJewelry, "LAB-001", "Lab Diamond Ring", 3, boxB)
	seedEntry(entries, model.ProductTypeZakya, "ZK-9", "Silver Anklet", 7, boxA)

	resp, err := svc.GetInventorySummary(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, resp.Products, 2)
	assert.Equal(t, 2, resp.Total)

	// deterministic ordering: real_jewelry sorts before zakya_product
	ring := resp.Products[0]
	assert.Equal(t, "LAB-001", ring.ProductID)
	assert.Equal(t, 5, ring.TotalQuantity)
	assert.Equal(t, []string{"BOX-A", "BOX-B"}, ring.StorageObjectCodes)
	assert.Equal(t, 2, ring.NumStorageObjects)

	anklet := resp.Products[1]
	assert.Equal(t, "ZK-9", anklet.ProductID)
	assert.Equal(t, 7, anklet.TotalQuantity)
	assert.Equal(t, []string{"BOX-A"}, anklet.StorageObjectCodes)
}

func TestInventorySummaryUnknownLocation(t *testing.T) {
	svc := service.NewSummaryService(newStubEntryRepo(), newStubLocationRepo())

	id := uuid.New()
	_, err := svc.GetInventorySummary(context.Background(), &id)
	assert.Equal(t, apierror.KindNotFound, apierror.KindOf(err))
}

func TestInventorySummaryUnresolvedStorageObject(t *testing.T) {
	// Entries whose box no longer resolves are bucketed visibly, never dropped.
	entries := newStubEntryRepo()
	locations := newStubLocationRepo()
	svc := service.NewSummaryService(entries, locations)

	e := &model.ProductEntry{
		ProductType:     model.ProductTypeZakya,
		ProductID:       "ZK-9",
		ProductName:     "Silver Anklet",
		SKU:             "ZK-9",
		Quantity:        4,
		StorageObjectID: uuid.New(),
		StorageObject:   nil,
	}
	entries.put(e)

	resp, err := svc.GetInventorySummary(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, resp.Products, 1)
	assert.Equal(t, 4, resp.Products[0].TotalQuantity)
	assert.Equal(t, []string{"(unresolved)"}, resp.Products[0].StorageObjectCodes)
}
