package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/clinica-io/clinica-api/internal/cache"
	"github.com/clinica-io/clinica-api/internal/domain"
	"github.com/clinica-io/clinica-api/internal/domain/doctor"
)

// CachedDoctorRepository wraps a doctor.Repository with a read-through cache.
// Invalidation is coarse: any write discards every cached doctor lookup.
type CachedDoctorRepository struct {
	inner doctor.Repository
	cache *cache.Cache
}

func NewCachedDoctorRepository(inner doctor.Repository, c *cache.Cache) *CachedDoctorRepository {
	return &CachedDoctorRepository{inner: inner, cache: c}
}

func (r *CachedDoctorRepository) Create(ctx context.Context, d *doctor.Doctor) error {
	if err := r.inner.Create(ctx, d); err != nil {
		return err
	}
	r.cache.Invalidate(ctx, domain.EntityDoctor)
	return nil
}

func (r *CachedDoctorRepository) GetByID(ctx context.Context, id uuid.UUID) (*doctor.Doctor, error) {
	lookup := "id:" + id.String()
	var cached doctor.Doctor
	if r.cache.Get(ctx, domain.EntityDoctor, lookup, &cached) {
		return &cached, nil
	}
	d, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.cache.Set(ctx, domain.EntityDoctor, lookup, d)
	return d, nil
}

func (r *CachedDoctorRepository) GetByDocument(ctx context.Context, document string) (*doctor.Doctor, error) {
	lookup := "document:" + document
	var cached doctor.Doctor
	if r.cache.Get(ctx, domain.EntityDoctor, lookup, &cached) {
		return &cached, nil
	}
	d, err := r.inner.GetByDocument(ctx, document)
	if err != nil {
		return nil, err
	}
	r.cache.Set(ctx, domain.EntityDoctor, lookup, d)
	return d, nil
}

func (r *CachedDoctorRepository) List(ctx context.Context, page domain.PageRequest) (*doctor.PagedDoctors, error) {
	page = page.Normalize()
	lookup := pageLookup(page)
	var cached doctor.PagedDoctors
	if r.cache.Get(ctx, domain.EntityDoctor, lookup, &cached) {
		return &cached, nil
	}
	result, err := r.inner.List(ctx, page)
	if err != nil {
		return nil, err
	}
	r.cache.Set(ctx, domain.EntityDoctor, lookup, result)
	return result, nil
}

func (r *CachedDoctorRepository) Save(ctx context.Context, d *doctor.Doctor) error {
	if err := r.inner.Save(ctx, d); err != nil {
		return err
	}
	r.cache.Invalidate(ctx, domain.EntityDoctor)
	return nil
}

func pageLookup(page domain.PageRequest) string {
	return fmt.Sprintf("page:p%d:s%d:%s:%s", page.Page, page.Size, page.SortBy, page.SortOrder)
}
