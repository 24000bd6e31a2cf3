package service_test

import (
	"context"
	"errors"
	"sort"
	"strings"

	"minakistock/internal/dto"
	"minakistock/internal/model"
	"minakistock/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ── In-memory EntryRepository stub ───────────────────────────────────────────

type stubEntryRepo struct {
	entries map[uuid.UUID]*model.ProductEntry
	seq     int // insertion order, stands in for created_at ordering
	order   map[uuid.UUID]int
}

func newStubEntryRepo() *stubEntryRepo {
	return &stubEntryRepo{
		entries: make(map[uuid.UUID]*model.ProductEntry),
		order:   make(map[uuid.UUID]int),
	}
}

func (r *stubEntryRepo) put(e *model.ProductEntry) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	r.entries[e.ID] = e
	r.seq++
	r.order[e.ID] = r.seq
}

func (r *stubEntryRepo) sorted() []*model.ProductEntry {
	result := make([]*model.ProductEntry, 0, len(r.entries))
	for _, e := range r.entries {
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool {
		return r.order[result[i].ID] < r.order[result[j].ID]
	})
	return result
}

func (r *stubEntryRepo) Create(_ context.Context, e *model.ProductEntry) error {
	r.put(e)
	return nil
}

func (r *stubEntryRepo) CreateTx(_ *gorm.DB, e *model.ProductEntry) error {
	r.put(e)
	return nil
}

func (r *stubEntryRepo) FindByID(_ context.Context, id uuid.UUID) (*model.ProductEntry, error) {
	e, ok := r.entries[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return e, nil
}

func (r *stubEntryRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.ProductEntry, error) {
	e, ok := r.entries[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *stubEntryRepo) FindMergeTargetTx(_ *gorm.DB, productType, productID string, storageObjectID, excludeID uuid.UUID) (*model.ProductEntry, error) {
	for _, e := range r.sorted() {
		if e.ID == excludeID {
			continue
		}
		if e.ProductType == productType && e.ProductID == productID && e.StorageObjectID == storageObjectID {
			cp := *e
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubEntryRepo) SetQuantityTx(_ *gorm.DB, id uuid.UUID, quantity int) error {
	e, ok := r.entries[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	e.Quantity = quantity
	return nil
}

func (r *stubEntryRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	delete(r.entries, id)
	return nil
}

func (r *stubEntryRepo) Search(_ context.Context, filter dto.SearchFilter) ([]model.ProductEntry, error) {
	var result []model.ProductEntry
	for _, e := range r.sorted() {
		if filter.SKU != "" && !strings.Contains(strings.ToLower(e.SKU), strings.ToLower(filter.SKU)) {
			continue
		}
		if filter.ProductName != "" && !strings.Contains(strings.ToLower(e.ProductName), strings.ToLower(filter.ProductName)) {
			continue
		}
		if filter.ProductType != "" && e.ProductType != filter.ProductType {
			continue
		}
		if filter.StorageObjectID != "" && e.StorageObjectID.String() != filter.StorageObjectID {
			continue
		}
		result = append(result, *e)
	}
	return result, nil
}

func (r *stubEntryRepo) FindByProduct(_ context.Context, productType, productID string) ([]model.ProductEntry, error) {
	var result []model.ProductEntry
	for _, e := range r.sorted() {
		if e.ProductType == productType && e.ProductID == productID {
			result = append(result, *e)
		}
	}
	return result, nil
}

func (r *stubEntryRepo) ListForSummary(_ context.Context, _ *uuid.UUID) ([]model.ProductEntry, error) {
	var result []model.ProductEntry
	for _, e := range r.sorted() {
		result = append(result, *e)
	}
	return result, nil
}

func (r *stubEntryRepo) SumQuantityByObjectTx(_ *gorm.DB, storageObjectID uuid.UUID) (int, error) {
	total := 0
	for _, e := range r.entries {
		if e.StorageObjectID == storageObjectID {
			total += e.Quantity
		}
	}
	return total, nil
}

func (r *stubEntryRepo) HasEntriesForObject(_ context.Context, storageObjectID uuid.UUID) (bool, error) {
	for _, e := range r.entries {
		if e.StorageObjectID == storageObjectID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubEntryRepo) DB() *gorm.DB {
	// nil keeps the service's transaction helper on the direct path.
	return nil
}

var _ repository.EntryRepository = (*stubEntryRepo)(nil)

// ── In-memory MovementRepository stub ────────────────────────────────────────

type stubMovementRepo struct {
	movements []model.Movement
}

func newStubMovementRepo() *stubMovementRepo { return &stubMovementRepo{} }

func (r *stubMovementRepo) record(m *model.Movement) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movements = append(r.movements, *m)
}

func (r *stubMovementRepo) Create(_ context.Context, m *model.Movement) error {
	r.record(m)
	return nil
}

func (r *stubMovementRepo) CreateTx(_ *gorm.DB, m *model.Movement) error {
	r.record(m)
	return nil
}

func (r *stubMovementRepo) ListByProduct(_ context.Context, productType, productID string, limit int) ([]model.Movement, error) {
	var result []model.Movement
	// most recent first
	for i := len(r.movements) - 1; i >= 0; i-- {
		m := r.movements[i]
		if m.ProductType == productType && m.ProductID == productID {
			result = append(result, m)
			if limit > 0 && len(result) >= limit {
				break
			}
		}
	}
	return result, nil
}

func (r *stubMovementRepo) List(_ context.Context, filter dto.MovementFilter) ([]model.Movement, int64, error) {
	var result []model.Movement
	for i := len(r.movements) - 1; i >= 0; i-- {
		m := r.movements[i]
		if filter.ProductType != "" && m.ProductType != filter.ProductType {
			continue
		}
		if filter.ProductID != "" && m.ProductID != filter.ProductID {
			continue
		}
		if filter.MovementType != "" && m.MovementType != filter.MovementType {
			continue
		}
		if filter.MovedBy != "" && m.MovedBy != filter.MovedBy {
			continue
		}
		result = append(result, m)
	}
	return result, int64(len(result)), nil
}

var _ repository.MovementRepository = (*stubMovementRepo)(nil)

// ── In-memory StorageObjectRepository stub ───────────────────────────────────

type stubObjectRepo struct {
	objects map[uuid.UUID]*model.StorageObject
}

func newStubObjectRepo() *stubObjectRepo {
	return &stubObjectRepo{objects: make(map[uuid.UUID]*model.StorageObject)}
}

func (r *stubObjectRepo) Create(_ context.Context, so *model.StorageObject) error {
	if so.ID == uuid.Nil {
		so.ID = uuid.New()
	}
	r.objects[so.ID] = so
	return nil
}

func (r *stubObjectRepo) FindByID(_ context.Context, id uuid.UUID) (*model.StorageObject, error) {
	so, ok := r.objects[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return so, nil
}

func (r *stubObjectRepo) ListByStorageType(_ context.Context, storageTypeID uuid.UUID) ([]model.StorageObject, error) {
	var result []model.StorageObject
	for _, so := range r.objects {
		if so.StorageTypeID == storageTypeID {
			result = append(result, *so)
		}
	}
	return result, nil
}

func (r *stubObjectRepo) Update(_ context.Context, so *model.StorageObject) error {
	r.objects[so.ID] = so
	return nil
}

func (r *stubObjectRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.objects[id]; !ok {
		return errors.New("record not found")
	}
	delete(r.objects, id)
	return nil
}

var _ repository.StorageObjectRepository = (*stubObjectRepo)(nil)

// ── In-memory StorageTypeRepository stub ─────────────────────────────────────

type stubTypeRepo struct {
	types map[uuid.UUID]*model.StorageType
}

func newStubTypeRepo() *stubTypeRepo {
	return &stubTypeRepo{types: make(map[uuid.UUID]*model.StorageType)}
}

func (r *stubTypeRepo) Create(_ context.Context, st *model.StorageType) error {
	if st.ID == uuid.Nil {
		st.ID = uuid.New()
	}
	r.types[st.ID] = st
	return nil
}

func (r *stubTypeRepo) FindByID(_ context.Context, id uuid.UUID) (*model.StorageType, error) {
	st, ok := r.types[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return st, nil
}

func (r *stubTypeRepo) ListByLocation(_ context.Context, locationID uuid.UUID, activeOnly bool) ([]model.StorageType, error) {
	var result []model.StorageType
	for _, st := range r.types {
		if st.LocationID != locationID {
			continue
		}
		if activeOnly && !st.IsActive {
			continue
		}
		result = append(result, *st)
	}
	return result, nil
}

func (r *stubTypeRepo) Update(_ context.Context, st *model.StorageType) error {
	r.types[st.ID] = st
	return nil
}

func (r *stubTypeRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	st, ok := r.types[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	st.IsActive = false
	return nil
}

var _ repository.StorageTypeRepository = (*stubTypeRepo)(nil)

// ── In-memory LocationRepository stub ────────────────────────────────────────

type stubLocationRepo struct {
	locations map[uuid.UUID]*model.Location
}

func newStubLocationRepo() *stubLocationRepo {
	return &stubLocationRepo{locations: make(map[uuid.UUID]*model.Location)}
}

func (r *stubLocationRepo) Create(_ context.Context, l *model.Location) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	r.locations[l.ID] = l
	return nil
}

func (r *stubLocationRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Location, error) {
	l, ok := r.locations[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return l, nil
}

func (r *stubLocationRepo) List(_ context.Context, activeOnly bool) ([]model.Location, error) {
	var result []model.Location
	for _, l := range r.locations {
		if activeOnly && !l.IsActive {
			continue
		}
		result = append(result, *l)
	}
	return result, nil
}

func (r *stubLocationRepo) Update(_ context.Context, l *model.Location) error {
	r.locations[l.ID] = l
	return nil
}

func (r *stubLocationRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	l, ok := r.locations[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	l.IsActive = false
	return nil
}

var _ repository.LocationRepository = (*stubLocationRepo)(nil)
