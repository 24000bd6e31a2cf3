package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"minakistock/internal/apierror"
	"minakistock/internal/dto"
	"minakistock/internal/model"
	"minakistock/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// LedgerService is the core state machine over product location entries.
// Every mutation runs in a single transaction with row locks on the affected
// entries and appends exactly one Movement audit record.
type LedgerService interface {
	Search(ctx context.Context, filter dto.SearchFilter) ([]dto.EntryResponse, error)
	Find(ctx context.Context, productType, productID string) ([]dto.EntryResponse, error)
	AddToBox(ctx context.Context, req dto.AddToBoxRequest) (*dto.EntryResponse, error)
	Transfer(ctx context.Context, req dto.TransferRequest) (*dto.EntryResponse, error)
	BulkTransfer(ctx context.Context, req dto.BulkTransferRequest) (*dto.BulkTransferResponse, error)
	UpdateQuantity(ctx context.Context, entryID uuid.UUID, req dto.UpdateQuantityRequest) (*dto.EntryResponse, error)
	Remove(ctx context.Context, entryID uuid.UUID, req dto.RemoveRequest) error
	GetMovements(ctx context.Context, productType, productID string, limit int) ([]dto.MovementResponse, error)
	ListMovements(ctx context.Context, filter dto.MovementFilter) (*dto.MovementListResponse, error)
}

type ledgerService struct {
	entries   repository.EntryRepository
	movements repository.MovementRepository
	objects   repository.StorageObjectRepository
}

func NewLedgerService(
	entries repository.EntryRepository,
	movements repository.MovementRepository,
	objects repository.StorageObjectRepository,
) LedgerService {
	return &ledgerService{entries: entries, movements: movements, objects: objects}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

func validProductType(pt string) bool {
	return pt == model.ProductTypeRealJewelry || pt == model.ProductTypeZakya
}

// ── Search / Find ────────────────────────────────────────────────────────────

func (s *ledgerService) Search(ctx context.Context, filter dto.SearchFilter) ([]dto.EntryResponse, error) {
	if filter.ProductType != "" && !validProductType(filter.ProductType) {
		return nil, apierror.Validation("unknown product_type: " + filter.ProductType)
	}
	entries, err := s.entries.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	return mapEntries(entries), nil
}

func (s *ledgerService) Find(ctx context.Context, productType, productID string) ([]dto.EntryResponse, error) {
	if !validProductType(productType) {
		return nil, apierror.Validation("unknown product_type: " + productType)
	}
	entries, err := s.entries.FindByProduct(ctx, productType, productID)
	if err != nil {
		return nil, err
	}
	return mapEntries(entries), nil
}

// ── AddToBox ─────────────────────────────────────────────────────────────────
// Each call creates a new entry row, never merging into an existing entry for
// the same product and box. Parallel rows act as lots; transfer-in is the only
// operation that merges.

func (s *ledgerService) AddToBox(ctx context.Context, req dto.AddToBoxRequest) (*dto.EntryResponse, error) {
	if !validProductType(req.ProductType) {
		return nil, apierror.Validation("unknown product_type: " + req.ProductType)
	}
	if req.Quantity <= 0 {
		return nil, apierror.InvalidQuantity("quantity must be positive")
	}
	if req.MovedBy == "" {
		return nil, apierror.Validation("moved_by is required")
	}
	if req.ProductType == model.ProductTypeRealJewelry {
		if req.MetalWeightG == nil || !req.MetalWeightG.IsPositive() {
			return nil, apierror.Validation("metal_weight_g is required and must be > 0 for real_jewelry")
		}
		if req.PurityK == nil || *req.PurityK <= 0 {
			return nil, apierror.Validation("purity_k is required and must be > 0 for real_jewelry")
		}
	}

	objectID, err := uuid.Parse(req.StorageObjectID)
	if err != nil {
		return nil, apierror.Validation("storage_object_id is not a valid uuid")
	}
	object, err := s.objects.FindByID(ctx, objectID)
	if err != nil {
		return nil, apierror.NotFound("storage object not found: " + req.StorageObjectID)
	}

	entry := &model.ProductEntry{
		ProductType:     req.ProductType,
		ProductID:       req.ProductID,
		StorageObjectID: objectID,
		Quantity:        req.Quantity,
		SKU:             req.SKU,
		ProductName:     req.ProductName,
		MetalWeightG:    req.MetalWeightG,
		PurityK:         req.PurityK,
	}

	txErr := runTx(ctx, s.entries.DB(), func(tx *gorm.DB) error {
		if err := s.entries.CreateTx(tx, entry); err != nil {
			return err
		}
		toRef := objectID
		mov := &model.Movement{
			EntryID:           entry.ID,
			ProductType:       entry.ProductType,
			ProductID:         entry.ProductID,
			MovementType:      model.MovementAdd,
			ToStorageObjectID: &toRef,
			QuantityDelta:     req.Quantity,
			MovedBy:           req.MovedBy,
		}
		if err := s.movements.CreateTx(tx, mov); err != nil {
			return err
		}
		s.warnIfOverCapacity(tx, object)
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := mapEntry(*entry)
	return &resp, nil
}

// ── Transfer ─────────────────────────────────────────────────────────────────

func (s *ledgerService) Transfer(ctx context.Context, req dto.TransferRequest) (*dto.EntryResponse, error) {
	if req.Quantity <= 0 {
		return nil, apierror.InvalidQuantity("quantity must be positive")
	}
	if req.MovedBy == "" {
		return nil, apierror.Validation("moved_by is required")
	}
	entryID, err := uuid.Parse(req.FromEntryID)
	if err != nil {
		return nil, apierror.Validation("from_location_id is not a valid uuid")
	}
	targetID, err := uuid.Parse(req.ToStorageObjectID)
	if err != nil {
		return nil, apierror.Validation("to_storage_object_id is not a valid uuid")
	}
	return s.transferEntry(ctx, entryID, targetID, req.Quantity, req.MovedBy, req.Reason, req.Notes)
}

// transferEntry applies transfer semantics to one entry. quantity == 0 means
// "the entire current quantity" (used by bulk transfers). The whole move is a
// single transaction: source decrement and destination increment commit
// together or not at all.
func (s *ledgerService) transferEntry(ctx context.Context, entryID, targetID uuid.UUID, quantity int, movedBy string, reason, notes *string) (*dto.EntryResponse, error) {
	target, err := s.objects.FindByID(ctx, targetID)
	if err != nil {
		return nil, apierror.NotFound("target storage object not found: " + targetID.String())
	}

	var dest model.ProductEntry
	txErr := runTx(ctx, s.entries.DB(), func(tx *gorm.DB) error {
		src, err := s.entries.FindByIDForUpdateTx(tx, entryID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierror.NotFound("ledger entry not found: " + entryID.String())
			}
			return err
		}
		if src.StorageObjectID == targetID {
			return apierror.Validation("entry is already stored in the target storage object")
		}
		qty := quantity
		if qty == 0 {
			qty = src.Quantity
		}
		if qty > src.Quantity {
			return apierror.InsufficientStock(fmt.Sprintf(
				"requested %d units but entry holds %d", qty, src.Quantity))
		}

		// Destination: merge into an existing entry for the same product in
		// the target box, or create a fresh one.
		existing, err := s.entries.FindMergeTargetTx(tx, src.ProductType, src.ProductID, targetID, src.ID)
		switch {
		case err == nil:
			dest = *existing
			dest.Quantity += qty
			if err := s.entries.SetQuantityTx(tx, dest.ID, dest.Quantity); err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			dest = model.ProductEntry{
				ProductType:     src.ProductType,
				ProductID:       src.ProductID,
				StorageObjectID: targetID,
				Quantity:        qty,
				SKU:             src.SKU,
				ProductName:     src.ProductName,
				MetalWeightG:    src.MetalWeightG,
				PurityK:         src.PurityK,
			}
			if err := s.entries.CreateTx(tx, &dest); err != nil {
				return err
			}
		default:
			return err
		}

		// Source: decrement, deleting the row once empty.
		remaining := src.Quantity - qty
		if remaining == 0 {
			if err := s.entries.DeleteTx(tx, src.ID); err != nil {
				return err
			}
		} else {
			if err := s.entries.SetQuantityTx(tx, src.ID, remaining); err != nil {
				return err
			}
		}

		fromRef := src.StorageObjectID
		toRef := targetID
		mov := &model.Movement{
			EntryID:             src.ID,
			ProductType:         src.ProductType,
			ProductID:           src.ProductID,
			MovementType:        model.MovementTransfer,
			FromStorageObjectID: &fromRef,
			ToStorageObjectID:   &toRef,
			QuantityDelta:       -qty,
			MovedBy:             movedBy,
			Reason:              reason,
			Notes:               notes,
		}
		if err := s.movements.CreateTx(tx, mov); err != nil {
			return err
		}
		s.warnIfOverCapacity(tx, target)
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := mapEntry(dest)
	return &resp, nil
}

// ── BulkTransfer ─────────────────────────────────────────────────────────────
// Moves the entire quantity of each listed entry to the target box. Each item
// is its own transaction: a failure is reported in the summary but does not
// roll back entries already transferred.

func (s *ledgerService) BulkTransfer(ctx context.Context, req dto.BulkTransferRequest) (*dto.BulkTransferResponse, error) {
	if req.MovedBy == "" {
		return nil, apierror.Validation("moved_by is required")
	}
	targetID, err := uuid.Parse(req.TargetBoxID)
	if err != nil {
		return nil, apierror.Validation("target_box_id is not a valid uuid")
	}
	if _, err := s.objects.FindByID(ctx, targetID); err != nil {
		return nil, apierror.NotFound("target storage object not found: " + req.TargetBoxID)
	}

	resp := &dto.BulkTransferResponse{Requested: len(req.EntryIDs)}
	for _, raw := range req.EntryIDs {
		result := dto.BulkTransferItemResult{EntryID: raw}
		entryID, err := uuid.Parse(raw)
		if err != nil {
			result.Status = "failed"
			result.Error = "invalid entry id"
			resp.Failed++
			resp.Results = append(resp.Results, result)
			continue
		}
		if _, err := s.transferEntry(ctx, entryID, targetID, 0, req.MovedBy, req.Reason, nil); err != nil {
			result.Status = "failed"
			result.Error = err.Error()
			resp.Failed++
			log.Warn().
				Str("entry_id", raw).
				Str("target_box_id", req.TargetBoxID).
				Err(err).
				Msg("bulk transfer: item failed")
		} else {
			result.Status = "transferred"
			resp.Succeeded++
		}
		resp.Results = append(resp.Results, result)
	}
	return resp, nil
}

// ── UpdateQuantity ───────────────────────────────────────────────────────────

func (s *ledgerService) UpdateQuantity(ctx context.Context, entryID uuid.UUID, req dto.UpdateQuantityRequest) (*dto.EntryResponse, error) {
	if req.NewQuantity == nil || *req.NewQuantity < 0 {
		return nil, apierror.InvalidQuantity("new_quantity must be >= 0")
	}
	if req.UpdatedBy == "" {
		return nil, apierror.Validation("updated_by is required")
	}
	newQty := *req.NewQuantity

	var updated model.ProductEntry
	txErr := runTx(ctx, s.entries.DB(), func(tx *gorm.DB) error {
		entry, err := s.entries.FindByIDForUpdateTx(tx, entryID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierror.NotFound("ledger entry not found: " + entryID.String())
			}
			return err
		}
		delta := newQty - entry.Quantity

		if newQty == 0 {
			if err := s.entries.DeleteTx(tx, entry.ID); err != nil {
				return err
			}
		} else {
			if err := s.entries.SetQuantityTx(tx, entry.ID, newQty); err != nil {
				return err
			}
		}
		updated = *entry
		updated.Quantity = newQty

		boxRef := entry.StorageObjectID
		mov := &model.Movement{
			EntryID:             entry.ID,
			ProductType:         entry.ProductType,
			ProductID:           entry.ProductID,
			MovementType:        model.MovementQuantityUpdate,
			FromStorageObjectID: &boxRef,
			QuantityDelta:       delta,
			MovedBy:             req.UpdatedBy,
			Reason:              req.Reason,
		}
		return s.movements.CreateTx(tx, mov)
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := mapEntry(updated)
	return &resp, nil
}

// ── Remove ───────────────────────────────────────────────────────────────────

func (s *ledgerService) Remove(ctx context.Context, entryID uuid.UUID, req dto.RemoveRequest) error {
	if req.Quantity <= 0 {
		return apierror.InvalidQuantity("quantity must be positive")
	}
	if req.RemovedBy == "" {
		return apierror.Validation("removed_by is required")
	}

	return runTx(ctx, s.entries.DB(), func(tx *gorm.DB) error {
		entry, err := s.entries.FindByIDForUpdateTx(tx, entryID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierror.NotFound("ledger entry not found: " + entryID.String())
			}
			return err
		}
		if req.Quantity > entry.Quantity {
			return apierror.InsufficientStock(fmt.Sprintf(
				"requested %d units but entry holds %d", req.Quantity, entry.Quantity))
		}

		remaining := entry.Quantity - req.Quantity
		if remaining == 0 {
			if err := s.entries.DeleteTx(tx, entry.ID); err != nil {
				return err
			}
		} else {
			if err := s.entries.SetQuantityTx(tx, entry.ID, remaining); err != nil {
				return err
			}
		}

		boxRef := entry.StorageObjectID
		mov := &model.Movement{
			EntryID:             entry.ID,
			ProductType:         entry.ProductType,
			ProductID:           entry.ProductID,
			MovementType:        model.MovementRemove,
			FromStorageObjectID: &boxRef,
			QuantityDelta:       -req.Quantity,
			MovedBy:             req.RemovedBy,
			Reason:              req.Reason,
		}
		return s.movements.CreateTx(tx, mov)
	})
}

// ── GetMovements ─────────────────────────────────────────────────────────────

func (s *ledgerService) GetMovements(ctx context.Context, productType, productID string, limit int) ([]dto.MovementResponse, error) {
	if !validProductType(productType) {
		return nil, apierror.Validation("unknown product_type: " + productType)
	}
	movements, err := s.movements.ListByProduct(ctx, productType, productID, limit)
	if err != nil {
		return nil, err
	}
	result := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		result = append(result, mapMovement(m))
	}
	return result, nil
}

// ListMovements pages through the whole audit trail with optional filters.
func (s *ledgerService) ListMovements(ctx context.Context, filter dto.MovementFilter) (*dto.MovementListResponse, error) {
	if filter.ProductType != "" && !validProductType(filter.ProductType) {
		return nil, apierror.Validation("unknown product_type: " + filter.ProductType)
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 500 {
		filter.Limit = 50
	}
	movements, total, err := s.movements.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		data = append(data, mapMovement(m))
	}
	return &dto.MovementListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// warnIfOverCapacity logs when a box exceeds its advisory capacity. Capacity
// is never enforced; a zero capacity means unbounded.
func (s *ledgerService) warnIfOverCapacity(tx *gorm.DB, object *model.StorageObject) {
	if object == nil || object.Capacity <= 0 {
		return
	}
	total, err := s.entries.SumQuantityByObjectTx(tx, object.ID)
	if err != nil {
		return
	}
	if total > object.Capacity {
		log.Warn().
			Str("storage_object_id", object.ID.String()).
			Str("code", object.Code).
			Int("capacity", object.Capacity).
			Int("total_units", total).
			Msg("storage object over advisory capacity")
	}
}

// ── Mapping ──────────────────────────────────────────────────────────────────

func mapEntries(entries []model.ProductEntry) []dto.EntryResponse {
	result := make([]dto.EntryResponse, 0, len(entries))
	for _, e := range entries {
		result = append(result, mapEntry(e))
	}
	return result
}

func mapEntry(e model.ProductEntry) dto.EntryResponse {
	resp := dto.EntryResponse{
		ID:              e.ID.String(),
		ProductType:     e.ProductType,
		ProductID:       e.ProductID,
		StorageObjectID: e.StorageObjectID.String(),
		Quantity:        e.Quantity,
		SKU:             e.SKU,
		ProductName:     e.ProductName,
		MetalWeightG:    e.MetalWeightG,
		PurityK:         e.PurityK,
		CreatedAt:       e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       e.UpdatedAt.Format(time.RFC3339),
	}
	if e.StorageObject != nil {
		resp.StorageObjectCode = e.StorageObject.Code
		if e.StorageObject.StorageType != nil {
			resp.StorageTypeName = e.StorageObject.StorageType.Name
			if e.StorageObject.StorageType.Location != nil {
				resp.LocationName = e.StorageObject.StorageType.Location.Name
			}
		}
	}
	return resp
}

func mapMovement(m model.Movement) dto.MovementResponse {
	resp := dto.MovementResponse{
		ID:            m.ID.String(),
		EntryID:       m.EntryID.String(),
		ProductType:   m.ProductType,
		ProductID:     m.ProductID,
		MovementType:  m.MovementType,
		QuantityDelta: m.QuantityDelta,
		MovedBy:       m.MovedBy,
		Reason:        m.Reason,
		Notes:         m.Notes,
		Timestamp:     m.CreatedAt.Format(time.RFC3339),
	}
	if m.FromStorageObjectID != nil {
		from := m.FromStorageObjectID.String()
		resp.FromStorageObjectID = &from
	}
	if m.ToStorageObjectID != nil {
		to := m.ToStorageObjectID.String()
		resp.ToStorageObjectID = &to
	}
	return resp
}
