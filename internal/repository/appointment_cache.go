package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/clinica-io/clinica-api/internal/cache"
	"github.com/clinica-io/clinica-api/internal/domain"
	"github.com/clinica-io/clinica-api/internal/domain/appointment"
)

// CachedAppointmentRepository wraps an appointment.Repository with a
// read-through cache. Invalidation is coarse: any write discards every cached
// appointment lookup.
type CachedAppointmentRepository struct {
	inner appointment.Repository
	cache *cache.Cache
}

func NewCachedAppointmentRepository(inner appointment.Repository, c *cache.Cache) *CachedAppointmentRepository {
	return &CachedAppointmentRepository{inner: inner, cache: c}
}

func (r *CachedAppointmentRepository) Create(ctx context.Context, a *appointment.Appointment) error {
	if err := r.inner.Create(ctx, a); err != nil {
		return err
	}
	r.cache.Invalidate(ctx, domain.EntityAppointment)
	return nil
}

func (r *CachedAppointmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	lookup := "id:" + id.String()
	var cached appointment.Appointment
	if r.cache.Get(ctx, domain.EntityAppointment, lookup, &cached) {
		return &cached, nil
	}
	a, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.cache.Set(ctx, domain.EntityAppointment, lookup, a)
	return a, nil
}

func (r *CachedAppointmentRepository) List(ctx context.Context, q appointment.ListQuery) (*appointment.PagedAppointments, error) {
	q.Page = q.Page.Normalize()
	lookup := listLookup(q)
	var cached appointment.PagedAppointments
	if r.cache.Get(ctx, domain.EntityAppointment, lookup, &cached) {
		return &cached, nil
	}
	result, err := r.inner.List(ctx, q)
	if err != nil {
		return nil, err
	}
	r.cache.Set(ctx, domain.EntityAppointment, lookup, result)
	return result, nil
}

func (r *CachedAppointmentRepository) Save(ctx context.Context, a *appointment.Appointment) error {
	if err := r.inner.Save(ctx, a); err != nil {
		return err
	}
	r.cache.Invalidate(ctx, domain.EntityAppointment)
	return nil
}

func listLookup(q appointment.ListQuery) string {
	doctorID, patientID := "", ""
	if q.DoctorID != nil {
		doctorID = q.DoctorID.String()
	}
	if q.PatientID != nil {
		patientID = q.PatientID.String()
	}
	return fmt.Sprintf("list:d%s:p%s:%s", doctorID, patientID, pageLookup(q.Page))
}
