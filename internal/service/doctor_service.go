package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clinica-io/clinica-api/internal/domain"
	"github.com/clinica-io/clinica-api/internal/domain/doctor"
)

// DoctorService owns the doctor collection. It publishes no events today;
// doctor mutations stay silent until the downstream consumers are ready for
// them.
// TODO: add a notifier here once the events pipeline grows doctor topics.
type DoctorService struct {
	repo doctor.Repository
	log  *zap.Logger
}

func NewDoctorService(repo doctor.Repository, log *zap.Logger) *DoctorService {
	return &DoctorService{repo: repo, log: log}
}

func (s *DoctorService) CreateDoctor(ctx context.Context, d *doctor.Doctor) (*doctor.Doctor, error) {
	if err := validateDoctor(d); err != nil {
		return nil, err
	}

	d.ID = uuid.Nil
	d.State = domain.StateActive
	d.AppointmentIDs = nil

	if err := s.repo.Create(ctx, d); err != nil {
		s.log.Error("failed to create doctor", zap.Error(err))
		return nil, fmt.Errorf("creating doctor: %w", err)
	}

	s.log.Info("doctor created",
		zap.String("doctor_id", d.ID.String()),
		zap.String("document", d.PersonalInformation.Document),
	)
	return d, nil
}

func (s *DoctorService) GetDoctor(ctx context.Context, id uuid.UUID) (*doctor.Doctor, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *DoctorService) GetDoctorByDocument(ctx context.Context, document string) (*doctor.Doctor, error) {
	return s.repo.GetByDocument(ctx, document)
}

func (s *DoctorService) ListDoctors(ctx context.Context, page domain.PageRequest) (*doctor.PagedDoctors, error) {
	if page.Size > domain.MaxPageSize {
		return nil, ErrMaximumPagination
	}
	return s.repo.List(ctx, page)
}

// UpdateDoctor replaces the mutable fields of the stored doctor with those of
// in. Identity, lifecycle state, and the appointment back-references survive
// the overwrite.
func (s *DoctorService) UpdateDoctor(ctx context.Context, id uuid.UUID, in *doctor.Doctor) (*doctor.Doctor, error) {
	stored, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	stored.LicenseNum = in.LicenseNum
	stored.MIRDate = in.MIRDate
	stored.PersonalInformation = in.PersonalInformation
	stored.Specializations = in.Specializations

	if err := s.repo.Save(ctx, stored); err != nil {
		s.log.Error("failed to update doctor", zap.Error(err))
		return nil, fmt.Errorf("updating doctor: %w", err)
	}
	return stored, nil
}

// PatchDoctor merges the present fields of cmd onto the stored doctor. An
// empty patch returns the stored record untouched without a write.
func (s *DoctorService) PatchDoctor(ctx context.Context, id uuid.UUID, cmd *doctor.UpdateDoctorCommand) (*doctor.Doctor, error) {
	stored, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cmd.IsEmpty() {
		return stored, nil
	}

	cmd.ApplyTo(stored)

	if err := s.repo.Save(ctx, stored); err != nil {
		s.log.Error("failed to patch doctor", zap.Error(err))
		return nil, fmt.Errorf("patching doctor: %w", err)
	}
	return stored, nil
}

// DeleteDoctor soft-deletes the doctor. Deleting an absent or already deleted
// doctor succeeds; the requested end state already holds.
func (s *DoctorService) DeleteDoctor(ctx context.Context, id uuid.UUID) error {
	stored, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, doctor.ErrDoctorNotFound) {
			return nil
		}
		return err
	}

	stored.MarkDeleted()
	if err := s.repo.Save(ctx, stored); err != nil {
		s.log.Error("failed to delete doctor", zap.Error(err))
		return fmt.Errorf("deleting doctor: %w", err)
	}

	s.log.Info("doctor deleted", zap.String("doctor_id", id.String()))
	return nil
}

// persist saves a doctor verbatim. Reserved for same-package collaborators
// that maintain the appointment back-references.
func (s *DoctorService) persist(ctx context.Context, d *doctor.Doctor) error {
	return s.repo.Save(ctx, d)
}

func validateDoctor(d *doctor.Doctor) error {
	var fields []string
	if strings.TrimSpace(d.PersonalInformation.Name) == "" {
		fields = append(fields, "personalInformation.name is required")
	}
	if strings.TrimSpace(d.PersonalInformation.Document) == "" {
		fields = append(fields, "personalInformation.document is required")
	}
	if d.PersonalInformation.IDDocument != "" && !d.PersonalInformation.IDDocument.IsValid() {
		fields = append(fields, "personalInformation.idDocument must be DNI, NIE, or passport")
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
