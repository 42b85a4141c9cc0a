package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clinica-io/clinica-api/internal/domain"
	"github.com/clinica-io/clinica-api/internal/domain/appointment"
	"github.com/clinica-io/clinica-api/internal/domain/doctor"
	"github.com/clinica-io/clinica-api/internal/domain/patient"
	"github.com/clinica-io/clinica-api/internal/events"
)

// CreateAppointmentCommand links a stored doctor and patient, looked up by
// their documents. Any other populated doctor or patient fields are merged
// onto the stored records before the snapshots are embedded.
type CreateAppointmentCommand struct {
	Doctor     doctor.Doctor   `json:"doctor"`
	Patient    patient.Patient `json:"patient"`
	Date       time.Time       `json:"date"`
	Diagnostic string          `json:"diagnostic"`
	Treatment  string          `json:"treatment"`
}

// AppointmentService orchestrates the appointment collection and keeps the
// doctor and patient back-reference lists consistent with it. Writes follow a
// fixed order: the appointment row first, then both back-reference lists,
// then the notification. A crash between steps leaves a gap the reconciler
// can repair, never a dangling notification.
type AppointmentService struct {
	repo     appointment.Repository
	doctors  *DoctorService
	patients *PatientService
	notifier events.Notifier
	log      *zap.Logger
}

func NewAppointmentService(repo appointment.Repository, doctors *DoctorService, patients *PatientService, notifier events.Notifier, log *zap.Logger) *AppointmentService {
	return &AppointmentService{
		repo:     repo,
		doctors:  doctors,
		patients: patients,
		notifier: notifier,
		log:      log,
	}
}

func (s *AppointmentService) CreateAppointment(ctx context.Context, cmd *CreateAppointmentCommand) (*appointment.Appointment, error) {
	if err := validateCreateAppointment(cmd); err != nil {
		return nil, err
	}

	p, err := s.resolvePatient(ctx, &cmd.Patient)
	if err != nil {
		return nil, err
	}
	d, err := s.resolveDoctor(ctx, &cmd.Doctor)
	if err != nil {
		return nil, err
	}

	p.Merge(&cmd.Patient)
	d.Merge(&cmd.Doctor)

	a := &appointment.Appointment{
		Date:       cmd.Date,
		Diagnostic: cmd.Diagnostic,
		Treatment:  cmd.Treatment,
		State:      domain.StateActive,
	}
	a.Embed(d, p)

	if err := s.repo.Create(ctx, a); err != nil {
		s.log.Error("failed to create appointment", zap.Error(err))
		return nil, fmt.Errorf("creating appointment: %w", err)
	}

	d.AddAppointment(a.ID)
	if err := s.doctors.persist(ctx, d); err != nil {
		s.log.Error("failed to record appointment on doctor",
			zap.String("appointment_id", a.ID.String()),
			zap.String("doctor_id", d.ID.String()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("linking appointment to doctor: %w", err)
	}

	p.AddAppointment(a.ID)
	if err := s.patients.persist(ctx, p); err != nil {
		s.log.Error("failed to record appointment on patient",
			zap.String("appointment_id", a.ID.String()),
			zap.String("patient_id", p.ID.String()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("linking appointment to patient: %w", err)
	}

	s.notifier.Created(ctx, domain.EntityAppointment, a.ID.String(), a)

	s.log.Info("appointment created",
		zap.String("appointment_id", a.ID.String()),
		zap.String("doctor_id", d.ID.String()),
		zap.String("patient_id", p.ID.String()),
	)
	return a, nil
}

// resolvePatient loads the linked patient by id when the caller supplied one,
// falling back to the natural document key.
func (s *AppointmentService) resolvePatient(ctx context.Context, in *patient.Patient) (*patient.Patient, error) {
	if in.ID != uuid.Nil {
		return s.patients.repo.GetByID(ctx, in.ID)
	}
	return s.patients.repo.GetByDocument(ctx, in.PersonalInformation.Document)
}

func (s *AppointmentService) resolveDoctor(ctx context.Context, in *doctor.Doctor) (*doctor.Doctor, error) {
	if in.ID != uuid.Nil {
		return s.doctors.repo.GetByID(ctx, in.ID)
	}
	return s.doctors.repo.GetByDocument(ctx, in.PersonalInformation.Document)
}

func (s *AppointmentService) GetAppointment(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *AppointmentService) ListAppointments(ctx context.Context, page domain.PageRequest) (*appointment.PagedAppointments, error) {
	if page.Size > domain.MaxPageSize {
		return nil, ErrMaximumPagination
	}
	return s.repo.List(ctx, appointment.ListQuery{Page: page})
}

// ListByDoctorDocument returns the live appointments of the doctor holding
// document.
func (s *AppointmentService) ListByDoctorDocument(ctx context.Context, document string, page domain.PageRequest) (*appointment.PagedAppointments, error) {
	if page.Size > domain.MaxPageSize {
		return nil, ErrMaximumPagination
	}
	d, err := s.doctors.repo.GetByDocument(ctx, document)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, appointment.ListQuery{DoctorID: &d.ID, Page: page})
}

// ListByPatientDocument returns the live appointments of the patient holding
// document.
func (s *AppointmentService) ListByPatientDocument(ctx context.Context, document string, page domain.PageRequest) (*appointment.PagedAppointments, error) {
	if page.Size > domain.MaxPageSize {
		return nil, ErrMaximumPagination
	}
	p, err := s.patients.repo.GetByDocument(ctx, document)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, appointment.ListQuery{PatientID: &p.ID, Page: page})
}

// ReplaceAppointment overwrites the appointment's own fields with those of
// in, zero values included. The embedded snapshots and the linkage to doctor
// and patient are not rewritten; re-linking requires delete and re-create.
func (s *AppointmentService) ReplaceAppointment(ctx context.Context, id uuid.UUID, in *appointment.Appointment) (*appointment.Appointment, error) {
	stored, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	stored.Date = in.Date
	stored.Diagnostic = in.Diagnostic
	stored.Treatment = in.Treatment

	if err := s.repo.Save(ctx, stored); err != nil {
		s.log.Error("failed to replace appointment", zap.Error(err))
		return nil, fmt.Errorf("replacing appointment: %w", err)
	}

	s.notifier.Modified(ctx, domain.EntityAppointment, id.String(), stored)
	return stored, nil
}

// UpdateAppointment merges the present fields of cmd onto the stored
// appointment. An empty patch returns the stored record untouched without a
// write and without a notification. The linked doctor and patient cannot be
// changed here.
func (s *AppointmentService) UpdateAppointment(ctx context.Context, id uuid.UUID, cmd *appointment.UpdateAppointmentCommand) (*appointment.Appointment, error) {
	stored, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cmd.IsEmpty() {
		return stored, nil
	}

	cmd.ApplyTo(stored)

	if err := s.repo.Save(ctx, stored); err != nil {
		s.log.Error("failed to update appointment", zap.Error(err))
		return nil, fmt.Errorf("updating appointment: %w", err)
	}

	s.notifier.Modified(ctx, domain.EntityAppointment, id.String(), stored)
	return stored, nil
}

// DeleteAppointment soft-deletes the appointment and prunes its id from the
// live doctor and patient back-reference lists. Deleting an absent or already
// deleted appointment succeeds without side effects. A back-reference that is
// already gone, or whose owner is itself deleted, is left alone.
func (s *AppointmentService) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	stored, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointment.ErrAppointmentNotFound) {
			return nil
		}
		return err
	}

	stored.MarkDeleted()
	if err := s.repo.Save(ctx, stored); err != nil {
		s.log.Error("failed to delete appointment", zap.Error(err))
		return fmt.Errorf("deleting appointment: %w", err)
	}

	if err := s.unlinkDoctor(ctx, stored.DoctorID, id); err != nil {
		return err
	}
	if err := s.unlinkPatient(ctx, stored.PatientID, id); err != nil {
		return err
	}

	s.notifier.Deleted(ctx, domain.EntityAppointment, id.String(), stored)

	s.log.Info("appointment deleted", zap.String("appointment_id", id.String()))
	return nil
}

func (s *AppointmentService) unlinkDoctor(ctx context.Context, doctorID, appointmentID uuid.UUID) error {
	d, err := s.doctors.repo.GetByID(ctx, doctorID)
	if err != nil {
		if errors.Is(err, doctor.ErrDoctorNotFound) {
			return nil
		}
		return fmt.Errorf("unlinking appointment from doctor: %w", err)
	}
	if !d.RemoveAppointment(appointmentID) {
		return nil
	}
	if err := s.doctors.persist(ctx, d); err != nil {
		return fmt.Errorf("unlinking appointment from doctor: %w", err)
	}
	return nil
}

func (s *AppointmentService) unlinkPatient(ctx context.Context, patientID, appointmentID uuid.UUID) error {
	p, err := s.patients.repo.GetByID(ctx, patientID)
	if err != nil {
		if errors.Is(err, patient.ErrPatientNotFound) {
			return nil
		}
		return fmt.Errorf("unlinking appointment from patient: %w", err)
	}
	if !p.RemoveAppointment(appointmentID) {
		return nil
	}
	if err := s.patients.persist(ctx, p); err != nil {
		return fmt.Errorf("unlinking appointment from patient: %w", err)
	}
	return nil
}

func validateCreateAppointment(cmd *CreateAppointmentCommand) error {
	var fields []string
	if cmd.Doctor.ID == uuid.Nil && cmd.Doctor.PersonalInformation.Document == "" {
		fields = append(fields, "doctor.id or doctor.personalInformation.document is required")
	}
	if cmd.Patient.ID == uuid.Nil && cmd.Patient.PersonalInformation.Document == "" {
		fields = append(fields, "patient.id or patient.personalInformation.document is required")
	}
	if cmd.Date.IsZero() {
		fields = append(fields, "date is required")
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
