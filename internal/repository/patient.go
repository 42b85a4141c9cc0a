package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clinica-io/clinica-api/internal/domain"
	"github.com/clinica-io/clinica-api/internal/domain/patient"
)

var patientSortColumns = map[string]string{
	"name":      "name",
	"surname":   "surname",
	"document":  "document",
	"sSNumber":  "ss_number",
	"createdAt": "created_at",
}

type PatientRepository struct {
	db *gorm.DB
}

func NewPatientRepository(db *gorm.DB) *PatientRepository {
	return &PatientRepository{db: db}
}

func (r *PatientRepository) Create(ctx context.Context, p *patient.Patient) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("failed to create patient: %w", err)
	}
	return nil
}

func (r *PatientRepository) GetByID(ctx context.Context, id uuid.UUID) (*patient.Patient, error) {
	var p patient.Patient
	err := r.db.WithContext(ctx).
		Where("id = ? AND state = ?", id, domain.StateActive).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, patient.ErrPatientNotFound
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return &p, nil
}

func (r *PatientRepository) GetByDocument(ctx context.Context, document string) (*patient.Patient, error) {
	var p patient.Patient
	err := r.db.WithContext(ctx).
		Where("document = ? AND state = ?", document, domain.StateActive).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, patient.ErrPatientNotFound
		}
		return nil, fmt.Errorf("failed to get patient by document: %w", err)
	}
	return &p, nil
}

func (r *PatientRepository) List(ctx context.Context, page domain.PageRequest) (*patient.PagedPatients, error) {
	page = page.Normalize()

	query := r.db.WithContext(ctx).
		Model(&patient.Patient{}).
		Where("state = ?", domain.StateActive)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count patients: %w", err)
	}

	var patients []*patient.Patient
	err := query.
		Order(orderClause(patientSortColumns, page, "surname")).
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&patients).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}

	return &patient.PagedPatients{
		Patients:   patients,
		TotalCount: total,
		Page:       page.Page,
		PageSize:   page.Size,
		TotalPages: totalPages(total, page.Size),
	}, nil
}

func (r *PatientRepository) Save(ctx context.Context, p *patient.Patient) error {
	if err := r.db.WithContext(ctx).Save(p).Error; err != nil {
		return fmt.Errorf("failed to save patient: %w", err)
	}
	return nil
}
