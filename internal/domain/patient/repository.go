package patient

import (
	"context"

	"github.com/google/uuid"

	"github.com/clinica-io/clinica-api/internal/domain"
)

type Repository interface {
	// Create persists a new patient; the store assigns the id.
	Create(ctx context.Context, p *Patient) error

	// GetByID retrieves a live patient by primary key. Returns
	// ErrPatientNotFound for absent and soft-deleted records alike.
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)

	// GetByDocument retrieves a live patient by the natural document key.
	GetByDocument(ctx context.Context, document string) (*Patient, error)

	// List returns a page of live patients.
	List(ctx context.Context, page domain.PageRequest) (*PagedPatients, error)

	// Save overwrites the stored record with p, state included. Idempotent.
	Save(ctx context.Context, p *Patient) error
}
