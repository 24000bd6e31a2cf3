package service

import (
	"context"
	"encoding/json"
	"time"

	"minakistock/internal/apierror"
	"minakistock/internal/dto"
	"minakistock/internal/model"
	"minakistock/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const registryCacheTTL = 10 * time.Minute

// LocationService manages the top level of the storage hierarchy.
type LocationService interface {
	Create(ctx context.Context, req dto.CreateLocationRequest) (*dto.LocationResponse, error)
	List(ctx context.Context, activeOnly bool) ([]dto.LocationResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateLocationRequest) (*dto.LocationResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type locationService struct {
	repo repository.LocationRepository
	rdb  *redis.Client
}

func NewLocationService(repo repository.LocationRepository, rdb *redis.Client) LocationService {
	return &locationService{repo: repo, rdb: rdb}
}

// Listings are cached in Redis best-effort and invalidated on every write.
// The cache is never authoritative; a miss or a Redis outage falls through to
// the database.
func locationsCacheKey(activeOnly bool) string {
	if activeOnly {
		return "registry:locations:active"
	}
	return "registry:locations:all"
}

func cacheGet(ctx context.Context, rdb *redis.Client, key string, out interface{}) bool {
	if rdb == nil {
		return false
	}
	data, err := rdb.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(data, out) == nil
}

func cacheSet(ctx context.Context, rdb *redis.Client, key string, v interface{}) {
	if rdb == nil {
		return
	}
	if data, err := json.Marshal(v); err == nil {
		_ = rdb.Set(ctx, key, data, registryCacheTTL).Err()
	}
}

func cacheDel(ctx context.Context, rdb *redis.Client, keys ...string) {
	if rdb == nil {
		return
	}
	_ = rdb.Del(ctx, keys...).Err()
}

func (s *locationService) Create(ctx context.Context, req dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	l := &model.Location{Name: req.Name, Code: req.Code, IsActive: true}
	if err := s.repo.Create(ctx, l); err != nil {
		return nil, err
	}
	cacheDel(ctx, s.rdb, locationsCacheKey(true), locationsCacheKey(false))
	resp := mapLocation(*l)
	return &resp, nil
}

func (s *locationService) List(ctx context.Context, activeOnly bool) ([]dto.LocationResponse, error) {
	key := locationsCacheKey(activeOnly)
	var cached []dto.LocationResponse
	if cacheGet(ctx, s.rdb, key, &cached) {
		return cached, nil
	}

	locations, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	result := make([]dto.LocationResponse, 0, len(locations))
	for _, l := range locations {
		result = append(result, mapLocation(l))
	}
	cacheSet(ctx, s.rdb, key, result)
	return result, nil
}

func (s *locationService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateLocationRequest) (*dto.LocationResponse, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("location not found: " + id.String())
	}
	if req.Name != nil {
		l.Name = *req.Name
	}
	if req.Code != nil {
		l.Code = *req.Code
	}
	if err := s.repo.Update(ctx, l); err != nil {
		return nil, err
	}
	cacheDel(ctx, s.rdb, locationsCacheKey(true), locationsCacheKey(false))
	resp := mapLocation(*l)
	return &resp, nil
}

func (s *locationService) Deactivate(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return apierror.NotFound("location not found: " + id.String())
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	cacheDel(ctx, s.rdb, locationsCacheKey(true), locationsCacheKey(false))
	return nil
}

func mapLocation(l model.Location) dto.LocationResponse {
	return dto.LocationResponse{
		ID:        l.ID.String(),
		Name:      l.Name,
		Code:      l.Code,
		IsActive:  l.IsActive,
		CreatedAt: l.CreatedAt.Format(time.RFC3339),
	}
}

// StorageService manages storage types and storage objects. The two registries
// are coupled through parent validation, so they share one service.
type StorageService interface {
	CreateType(ctx context.Context, req dto.CreateStorageTypeRequest) (*dto.StorageTypeResponse, error)
	ListTypes(ctx context.Context, locationID uuid.UUID, activeOnly bool) ([]dto.StorageTypeResponse, error)
	UpdateType(ctx context.Context, id uuid.UUID, req dto.UpdateStorageTypeRequest) (*dto.StorageTypeResponse, error)
	DeactivateType(ctx context.Context, id uuid.UUID) error

	CreateObject(ctx context.Context, req dto.CreateStorageObjectRequest) (*dto.StorageObjectResponse, error)
	ListObjects(ctx context.Context, storageTypeID uuid.UUID) ([]dto.StorageObjectResponse, error)
	UpdateObject(ctx context.Context, id uuid.UUID, req dto.UpdateStorageObjectRequest) (*dto.StorageObjectResponse, error)
	DeleteObject(ctx context.Context, id uuid.UUID) error
}

type storageService struct {
	types     repository.StorageTypeRepository
	objects   repository.StorageObjectRepository
	locations repository.LocationRepository
	entries   repository.EntryRepository
	rdb       *redis.Client
}

func NewStorageService(
	types repository.StorageTypeRepository,
	objects repository.StorageObjectRepository,
	locations repository.LocationRepository,
	entries repository.EntryRepository,
	rdb *redis.Client,
) StorageService {
	return &storageService{types: types, objects: objects, locations: locations, entries: entries, rdb: rdb}
}

func typesCacheKey(locationID uuid.UUID, activeOnly bool) string {
	suffix := ":all"
	if activeOnly {
		suffix = ":active"
	}
	return "registry:storage_types:" + locationID.String() + suffix
}

func objectsCacheKey(storageTypeID uuid.UUID) string {
	return "registry:storage_objects:" + storageTypeID.String()
}

// ── Storage types ────────────────────────────────────────────────────────────

func (s *storageService) CreateType(ctx context.Context, req dto.CreateStorageTypeRequest) (*dto.StorageTypeResponse, error) {
	locationID, err := uuid.Parse(req.LocationID)
	if err != nil {
		return nil, apierror.Validation("location_id is not a valid uuid")
	}
	if _, err := s.locations.FindByID(ctx, locationID); err != nil {
		return nil, apierror.NotFound("location not found: " + req.LocationID)
	}

	st := &model.StorageType{LocationID: locationID, Name: req.Name, Code: req.Code, IsActive: true}
	if err := s.types.Create(ctx, st); err != nil {
		return nil, err
	}
	cacheDel(ctx, s.rdb, typesCacheKey(locationID, true), typesCacheKey(locationID, false))
	resp := mapStorageType(*st)
	return &resp, nil
}

func (s *storageService) ListTypes(ctx context.Context, locationID uuid.UUID, activeOnly bool) ([]dto.StorageTypeResponse, error) {
	if _, err := s.locations.FindByID(ctx, locationID); err != nil {
		return nil, apierror.NotFound("location not found: " + locationID.String())
	}

	key := typesCacheKey(locationID, activeOnly)
	var cached []dto.StorageTypeResponse
	if cacheGet(ctx, s.rdb, key, &cached) {
		return cached, nil
	}

	types, err := s.types.ListByLocation(ctx, locationID, activeOnly)
	if err != nil {
		return nil, err
	}
	result := make([]dto.StorageTypeResponse, 0, len(types))
	for _, st := range types {
		result = append(result, mapStorageType(st))
	}
	cacheSet(ctx, s.rdb, key, result)
	return result, nil
}

func (s *storageService) UpdateType(ctx context.Context, id uuid.UUID, req dto.UpdateStorageTypeRequest) (*dto.StorageTypeResponse, error) {
	st, err := s.types.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("storage type not found: " + id.String())
	}
	if req.Name != nil {
		st.Name = *req.Name
	}
	if req.Code != nil {
		st.Code = *req.Code
	}
	if err := s.types.Update(ctx, st); err != nil {
		return nil, err
	}
	cacheDel(ctx, s.rdb, typesCacheKey(st.LocationID, true), typesCacheKey(st.LocationID, false))
	resp := mapStorageType(*st)
	return &resp, nil
}

func (s *storageService) DeactivateType(ctx context.Context, id uuid.UUID) error {
	st, err := s.types.FindByID(ctx, id)
	if err != nil {
		return apierror.NotFound("storage type not found: " + id.String())
	}
	if err := s.types.SoftDelete(ctx, id); err != nil {
		return err
	}
	cacheDel(ctx, s.rdb, typesCacheKey(st.LocationID, true), typesCacheKey(st.LocationID, false))
	return nil
}

// ── Storage objects ──────────────────────────────────────────────────────────

func (s *storageService) CreateObject(ctx context.Context, req dto.CreateStorageObjectRequest) (*dto.StorageObjectResponse, error) {
	storageTypeID, err := uuid.Parse(req.StorageTypeID)
	if err != nil {
		return nil, apierror.Validation("storage_type_id is not a valid uuid")
	}
	if _, err := s.types.FindByID(ctx, storageTypeID); err != nil {
		return nil, apierror.NotFound("storage type not found: " + req.StorageTypeID)
	}

	so := &model.StorageObject{
		StorageTypeID: storageTypeID,
		Label:         req.Label,
		Code:          req.Code,
		Capacity:      req.Capacity,
	}
	if err := s.objects.Create(ctx, so); err != nil {
		return nil, err
	}
	cacheDel(ctx, s.rdb, objectsCacheKey(storageTypeID))
	resp := mapStorageObject(*so)
	return &resp, nil
}

func (s *storageService) ListObjects(ctx context.Context, storageTypeID uuid.UUID) ([]dto.StorageObjectResponse, error) {
	if _, err := s.types.FindByID(ctx, storageTypeID); err != nil {
		return nil, apierror.NotFound("storage type not found: " + storageTypeID.String())
	}

	key := objectsCacheKey(storageTypeID)
	var cached []dto.StorageObjectResponse
	if cacheGet(ctx, s.rdb, key, &cached) {
		return cached, nil
	}

	objects, err := s.objects.ListByStorageType(ctx, storageTypeID)
	if err != nil {
		return nil, err
	}
	result := make([]dto.StorageObjectResponse, 0, len(objects))
	for _, so := range objects {
		result = append(result, mapStorageObject(so))
	}
	cacheSet(ctx, s.rdb, key, result)
	return result, nil
}

func (s *storageService) UpdateObject(ctx context.Context, id uuid.UUID, req dto.UpdateStorageObjectRequest) (*dto.StorageObjectResponse, error) {
	so, err := s.objects.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("storage object not found: " + id.String())
	}
	if req.Label != nil {
		so.Label = *req.Label
	}
	if req.Code != nil {
		so.Code = *req.Code
	}
	if req.Capacity != nil {
		so.Capacity = *req.Capacity
	}
	if err := s.objects.Update(ctx, so); err != nil {
		return nil, err
	}
	cacheDel(ctx, s.rdb, objectsCacheKey(so.StorageTypeID))
	resp := mapStorageObject(*so)
	return &resp, nil
}

func (s *storageService) DeleteObject(ctx context.Context, id uuid.UUID) error {
	so, err := s.objects.FindByID(ctx, id)
	if err != nil {
		return apierror.NotFound("storage object not found: " + id.String())
	}
	occupied, err := s.entries.HasEntriesForObject(ctx, id)
	if err != nil {
		return err
	}
	if occupied {
		return apierror.Conflict("storage object still holds inventory and cannot be deleted")
	}
	if err := s.objects.Delete(ctx, id); err != nil {
		return err
	}
	cacheDel(ctx, s.rdb, objectsCacheKey(so.StorageTypeID))
	return nil
}

func mapStorageType(st model.StorageType) dto.StorageTypeResponse {
	return dto.StorageTypeResponse{
		ID:         st.ID.String(),
		LocationID: st.LocationID.String(),
		Name:       st.Name,
		Code:       st.Code,
		IsActive:   st.IsActive,
		CreatedAt:  st.CreatedAt.Format(time.RFC3339),
	}
}

func mapStorageObject(so model.StorageObject) dto.StorageObjectResponse {
	return dto.StorageObjectResponse{
		ID:            so.ID.String(),
		StorageTypeID: so.StorageTypeID.String(),
		Label:         so.Label,
		Code:          so.Code,
		Capacity:      so.Capacity,
		CreatedAt:     so.CreatedAt.Format(time.RFC3339),
	}
}
