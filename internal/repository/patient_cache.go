package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/clinica-io/clinica-api/internal/cache"
	"github.com/clinica-io/clinica-api/internal/domain"
	"github.com/clinica-io/clinica-api/internal/domain/patient"
)

// CachedPatientRepository wraps a patient.Repository with a read-through
// cache. Invalidation is coarse: any write discards every cached patient
// lookup.
type CachedPatientRepository struct {
	inner patient.Repository
	cache *cache.Cache
}

func NewCachedPatientRepository(inner patient.Repository, c *cache.Cache) *CachedPatientRepository {
	return &CachedPatientRepository{inner: inner, cache: c}
}

func (r *CachedPatientRepository) Create(ctx context.Context, p *patient.Patient) error {
	if err := r.inner.Create(ctx, p); err != nil {
		return err
	}
	r.cache.Invalidate(ctx, domain.EntityPatient)
	return nil
}

func (r *CachedPatientRepository) GetByID(ctx context.Context, id uuid.UUID) (*patient.Patient, error) {
	lookup := "id:" + id.String()
	var cached patient.Patient
	if r.cache.Get(ctx, domain.EntityPatient, lookup, &cached) {
		return &cached, nil
	}
	p, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.cache.Set(ctx, domain.EntityPatient, lookup, p)
	return p, nil
}

func (r *CachedPatientRepository) GetByDocument(ctx context.Context, document string) (*patient.Patient, error) {
	lookup := "document:" + document
	var cached patient.Patient
	if r.cache.Get(ctx, domain.EntityPatient, lookup, &cached) {
		return &cached, nil
	}
	p, err := r.inner.GetByDocument(ctx, document)
	if err != nil {
		return nil, err
	}
	r.cache.Set(ctx, domain.EntityPatient, lookup, p)
	return p, nil
}

func (r *CachedPatientRepository) List(ctx context.Context, page domain.PageRequest) (*patient.PagedPatients, error) {
	page = page.Normalize()
	lookup := pageLookup(page)
	var cached patient.PagedPatients
	if r.cache.Get(ctx, domain.EntityPatient, lookup, &cached) {
		return &cached, nil
	}
	result, err := r.inner.List(ctx, page)
	if err != nil {
		return nil, err
	}
	r.cache.Set(ctx, domain.EntityPatient, lookup, result)
	return result, nil
}

func (r *CachedPatientRepository) Save(ctx context.Context, p *patient.Patient) error {
	if err := r.inner.Save(ctx, p); err != nil {
		return err
	}
	r.cache.Invalidate(ctx, domain.EntityPatient)
	return nil
}
