package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clinica-io/clinica-api/internal/domain"
	"github.com/clinica-io/clinica-api/internal/domain/patient"
	"github.com/clinica-io/clinica-api/internal/events"
)

// PatientService owns the patient collection and announces every committed
// mutation on the notifier.
type PatientService struct {
	repo     patient.Repository
	notifier events.Notifier
	log      *zap.Logger
}

func NewPatientService(repo patient.Repository, notifier events.Notifier, log *zap.Logger) *PatientService {
	return &PatientService{
		repo:     repo,
		notifier: notifier,
		log:      log,
	}
}

func (s *PatientService) CreatePatient(ctx context.Context, p *patient.Patient) (*patient.Patient, error) {
	if err := validatePatient(p); err != nil {
		return nil, err
	}

	p.ID = uuid.Nil
	p.State = domain.StateActive
	p.AppointmentIDs = nil

	if err := s.repo.Create(ctx, p); err != nil {
		s.log.Error("failed to create patient", zap.Error(err))
		return nil, fmt.Errorf("creating patient: %w", err)
	}

	s.notifier.Created(ctx, domain.EntityPatient, p.ID.String(), p)

	s.log.Info("patient created",
		zap.String("patient_id", p.ID.String()),
		zap.String("document", p.PersonalInformation.Document),
	)
	return p, nil
}

func (s *PatientService) GetPatient(ctx context.Context, id uuid.UUID) (*patient.Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *PatientService) GetPatientByDocument(ctx context.Context, document string) (*patient.Patient, error) {
	return s.repo.GetByDocument(ctx, document)
}

func (s *PatientService) ListPatients(ctx context.Context, page domain.PageRequest) (*patient.PagedPatients, error) {
	if page.Size > domain.MaxPageSize {
		return nil, ErrMaximumPagination
	}
	return s.repo.List(ctx, page)
}

// UpdatePatient replaces the mutable fields of the stored patient with those
// of in. Identity, lifecycle state, and the appointment back-references
// survive the overwrite.
func (s *PatientService) UpdatePatient(ctx context.Context, id uuid.UUID, in *patient.Patient) (*patient.Patient, error) {
	stored, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	stored.SSNumber = in.SSNumber
	stored.Height = in.Height
	stored.Weight = in.Weight
	stored.PersonalInformation = in.PersonalInformation

	if err := s.repo.Save(ctx, stored); err != nil {
		s.log.Error("failed to update patient", zap.Error(err))
		return nil, fmt.Errorf("updating patient: %w", err)
	}

	s.notifier.Modified(ctx, domain.EntityPatient, id.String(), stored)
	return stored, nil
}

// PatchPatient merges the present fields of cmd onto the stored patient. An
// empty patch returns the stored record untouched without a write and without
// a notification.
func (s *PatientService) PatchPatient(ctx context.Context, id uuid.UUID, cmd *patient.UpdatePatientCommand) (*patient.Patient, error) {
	stored, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cmd.IsEmpty() {
		return stored, nil
	}

	cmd.ApplyTo(stored)

	if err := s.repo.Save(ctx, stored); err != nil {
		s.log.Error("failed to patch patient", zap.Error(err))
		return nil, fmt.Errorf("patching patient: %w", err)
	}

	s.notifier.Modified(ctx, domain.EntityPatient, id.String(), stored)
	return stored, nil
}

// DeletePatient soft-deletes the patient. Deleting an absent or already
// deleted patient succeeds; the requested end state already holds.
func (s *PatientService) DeletePatient(ctx context.Context, id uuid.UUID) error {
	stored, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, patient.ErrPatientNotFound) {
			return nil
		}
		return err
	}

	stored.MarkDeleted()
	if err := s.repo.Save(ctx, stored); err != nil {
		s.log.Error("failed to delete patient", zap.Error(err))
		return fmt.Errorf("deleting patient: %w", err)
	}

	s.notifier.Deleted(ctx, domain.EntityPatient, id.String(), stored)

	s.log.Info("patient deleted", zap.String("patient_id", id.String()))
	return nil
}

// persist saves a patient verbatim. Reserved for same-package collaborators
// that maintain the appointment back-references.
func (s *PatientService) persist(ctx context.Context, p *patient.Patient) error {
	return s.repo.Save(ctx, p)
}

func validatePatient(p *patient.Patient) error {
	var fields []string
	if strings.TrimSpace(p.PersonalInformation.Name) == "" {
		fields = append(fields, "personalInformation.name is required")
	}
	if strings.TrimSpace(p.PersonalInformation.Document) == "" {
		fields = append(fields, "personalInformation.document is required")
	}
	if p.PersonalInformation.IDDocument != "" && !p.PersonalInformation.IDDocument.IsValid() {
		fields = append(fields, "personalInformation.idDocument must be DNI, NIE, or passport")
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
