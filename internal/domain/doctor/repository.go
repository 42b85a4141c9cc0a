package doctor

import (
	"context"

	"github.com/google/uuid"

	"github.com/clinica-io/clinica-api/internal/domain"
)

type Repository interface {
	// Create persists a new doctor; the store assigns the id.
	Create(ctx context.Context, d *Doctor) error

	// GetByID retrieves a live doctor by primary key. Returns
	// ErrDoctorNotFound for absent and soft-deleted records alike.
	GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error)

	// GetByDocument retrieves a live doctor by the natural document key.
	GetByDocument(ctx context.Context, document string) (*Doctor, error)

	// List returns a page of live doctors.
	List(ctx context.Context, page domain.PageRequest) (*PagedDoctors, error)

	// Save overwrites the stored record with d, state included. Idempotent.
	Save(ctx context.Context, d *Doctor) error
}
