package service

import (
	"context"
	"sort"

	"minakistock/internal/apierror"
	"minakistock/internal/dto"
	"minakistock/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// unresolvedBucket labels entries whose storage object mapping no longer
// resolves. They are reported, never silently reassigned.
const unresolvedBucket = "(unresolved)"

// SummaryService is the read-side projection over the ledger's current state.
// It holds no state of its own and can be re-derived at any time.
type SummaryService interface {
	GetInventorySummary(ctx context.Context, locationID *uuid.UUID) (*dto.InventorySummaryResponse, error)
}

type summaryService struct {
	entries   repository.EntryRepository
	locations repository.LocationRepository
}

func NewSummaryService(entries repository.EntryRepository, locations repository.LocationRepository) SummaryService {
	return &summaryService{entries: entries, locations: locations}
}

func (s *summaryService) GetInventorySummary(ctx context.Context, locationID *uuid.UUID) (*dto.InventorySummaryResponse, error) {
	if locationID != nil {
		if _, err := s.locations.FindByID(ctx, *locationID); err != nil {
			return nil, apierror.NotFound("location not found: " + locationID.String())
		}
	}

	entries, err := s.entries.ListForSummary(ctx, locationID)
	if err != nil {
		return nil, err
	}

	type key struct{ productType, productID string }
	groups := make(map[key]*dto.ProductSummary)
	codes := make(map[key]map[string]struct{})

	for _, e := range entries {
		k := key{e.ProductType, e.ProductID}
		g, ok := groups[k]
		if !ok {
			g = &dto.ProductSummary{
				ProductID:   e.ProductID,
				ProductType: e.ProductType,
				ProductName: e.ProductName,
			}
			groups[k] = g
			codes[k] = make(map[string]struct{})
		}
		g.TotalQuantity += e.Quantity

		code := unresolvedBucket
		if e.StorageObject != nil {
			code = e.StorageObject.Code
		} else {
			log.Warn().
				Str("entry_id", e.ID.String()).
				Str("storage_object_id", e.StorageObjectID.String()).
				Str("product_id", e.ProductID).
				Msg("summary: entry references an unresolvable storage object")
		}
		codes[k][code] = struct{}{}
	}

	products := make([]dto.ProductSummary, 0, len(groups))
	for k, g := range groups {
		for code := range codes[k] {
			g.StorageObjectCodes = append(g.StorageObjectCodes, code)
		}
		sort.Strings(g.StorageObjectCodes)
		g.NumStorageObjects = len(g.StorageObjectCodes)
		products = append(products, *g)
	}
	sort.Slice(products, func(i, j int) bool {
		if products[i].ProductType != products[j].ProductType {
			return products[i].ProductType < products[j].ProductType
		}
		return products[i].ProductID < products[j].ProductID
	})

	resp := &dto.InventorySummaryResponse{Products: products, Total: len(products)}
	if locationID != nil {
		id := locationID.String()
		resp.LocationID = &id
	}
	return resp, nil
}
