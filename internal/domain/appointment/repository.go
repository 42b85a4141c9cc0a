package appointment

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Create persists a new appointment; the store assigns the id.
	Create(ctx context.Context, a *Appointment) error

	// GetByID retrieves a live appointment by primary key. Returns
	// ErrAppointmentNotFound for absent and soft-deleted records alike.
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)

	// List returns a page of live appointments matching q.
	List(ctx context.Context, q ListQuery) (*PagedAppointments, error)

	// Save overwrites the stored record with a, state included. Idempotent.
	Save(ctx context.Context, a *Appointment) error
}
