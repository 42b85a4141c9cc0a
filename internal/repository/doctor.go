package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clinica-io/clinica-api/internal/domain"
	"github.com/clinica-io/clinica-api/internal/domain/doctor"
)

var doctorSortColumns = map[string]string{
	"name":       "name",
	"surname":    "surname",
	"document":   "document",
	"licenseNum": "license_num",
	"mirDate":    "mir_date",
	"createdAt":  "created_at",
}

type DoctorRepository struct {
	db *gorm.DB
}

func NewDoctorRepository(db *gorm.DB) *DoctorRepository {
	return &DoctorRepository{db: db}
}

func (r *DoctorRepository) Create(ctx context.Context, d *doctor.Doctor) error {
	if err := r.db.WithContext(ctx).Create(d).Error; err != nil {
		return fmt.Errorf("failed to create doctor: %w", err)
	}
	return nil
}

func (r *DoctorRepository) GetByID(ctx context.Context, id uuid.UUID) (*doctor.Doctor, error) {
	var d doctor.Doctor
	err := r.db.WithContext(ctx).
		Where("id = ? AND state = ?", id, domain.StateActive).
		First(&d).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, doctor.ErrDoctorNotFound
		}
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	return &d, nil
}

func (r *DoctorRepository) GetByDocument(ctx context.Context, document string) (*doctor.Doctor, error) {
	var d doctor.Doctor
	err := r.db.WithContext(ctx).
		Where("document = ? AND state = ?", document, domain.StateActive).
		First(&d).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, doctor.ErrDoctorNotFound
		}
		return nil, fmt.Errorf("failed to get doctor by document: %w", err)
	}
	return &d, nil
}

func (r *DoctorRepository) List(ctx context.Context, page domain.PageRequest) (*doctor.PagedDoctors, error) {
	page = page.Normalize()

	query := r.db.WithContext(ctx).
		Model(&doctor.Doctor{}).
		Where("state = ?", domain.StateActive)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count doctors: %w", err)
	}

	var doctors []*doctor.Doctor
	err := query.
		Order(orderClause(doctorSortColumns, page, "surname")).
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&doctors).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}

	return &doctor.PagedDoctors{
		Doctors:    doctors,
		TotalCount: total,
		Page:       page.Page,
		PageSize:   page.Size,
		TotalPages: totalPages(total, page.Size),
	}, nil
}

func (r *DoctorRepository) Save(ctx context.Context, d *doctor.Doctor) error {
	if err := r.db.WithContext(ctx).Save(d).Error; err != nil {
		return fmt.Errorf("failed to save doctor: %w", err)
	}
	return nil
}
