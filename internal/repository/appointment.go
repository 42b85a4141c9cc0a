package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clinica-io/clinica-api/internal/domain"
	"github.com/clinica-io/clinica-api/internal/domain/appointment"
)

var appointmentSortColumns = map[string]string{
	"date":      "date",
	"createdAt": "created_at",
}

type AppointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

func (r *AppointmentRepository) Create(ctx context.Context, a *appointment.Appointment) error {
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	var a appointment.Appointment
	err := r.db.WithContext(ctx).
		Where("id = ? AND state = ?", id, domain.StateActive).
		First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appointment.ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &a, nil
}

func (r *AppointmentRepository) List(ctx context.Context, q appointment.ListQuery) (*appointment.PagedAppointments, error) {
	page := q.Page.Normalize()

	query := r.db.WithContext(ctx).
		Model(&appointment.Appointment{}).
		Where("state = ?", domain.StateActive)
	if q.DoctorID != nil {
		query = query.Where("doctor_id = ?", *q.DoctorID)
	}
	if q.PatientID != nil {
		query = query.Where("patient_id = ?", *q.PatientID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count appointments: %w", err)
	}

	var appointments []*appointment.Appointment
	err := query.
		Order(orderClause(appointmentSortColumns, page, "date")).
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&appointments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}

	return &appointment.PagedAppointments{
		Appointments: appointments,
		TotalCount:   total,
		Page:         page.Page,
		PageSize:     page.Size,
		TotalPages:   totalPages(total, page.Size),
	}, nil
}

func (r *AppointmentRepository) Save(ctx context.Context, a *appointment.Appointment) error {
	if err := r.db.WithContext(ctx).Save(a).Error; err != nil {
		return fmt.Errorf("failed to save appointment: %w", err)
	}
	return nil
}
