package appointment

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clinica-io/clinica-api/internal/domain"
	"github.com/clinica-io/clinica-api/internal/domain/doctor"
	"github.com/clinica-io/clinica-api/internal/domain/patient"
)

// Appointment stores full denormalized snapshots of the doctor and patient it
// links, plus flat id and document columns so paged lookups never have to
// reach into the JSON snapshots.
type Appointment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"appointmentId"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`

	Doctor  doctor.Doctor   `gorm:"column:doctor;serializer:json" json:"doctor"`
	Patient patient.Patient `gorm:"column:patient;serializer:json" json:"patient"`

	DoctorID        uuid.UUID `gorm:"column:doctor_id;type:uuid;index" json:"-"`
	PatientID       uuid.UUID `gorm:"column:patient_id;type:uuid;index" json:"-"`
	DoctorDocument  string    `gorm:"column:doctor_document;type:varchar(50);index" json:"-"`
	PatientDocument string    `gorm:"column:patient_document;type:varchar(50);index" json:"-"`

	Date       time.Time `gorm:"column:date;index" json:"date"`
	Diagnostic string    `gorm:"column:diagnostic;type:text" json:"diagnostic"`
	Treatment  string    `gorm:"column:treatment;type:text" json:"treatment"`

	State domain.RecordState `gorm:"column:state;type:varchar(10);not null;default:'active';index" json:"-"`
}

func (Appointment) TableName() string {
	return "clinical.appointments"
}

func (a *Appointment) IsActive() bool {
	return a.State != domain.StateDeleted
}

// MarkDeleted moves the record to its terminal state. There is no inverse.
func (a *Appointment) MarkDeleted() {
	a.State = domain.StateDeleted
}

// Embed snapshots d and p into the appointment and refreshes the flat filter
// columns from them.
func (a *Appointment) Embed(d *doctor.Doctor, p *patient.Patient) {
	a.Doctor = *d
	a.Patient = *p
	a.DoctorID = d.ID
	a.PatientID = p.ID
	a.DoctorDocument = d.PersonalInformation.Document
	a.PatientDocument = p.PersonalInformation.Document
}

type UpdateAppointmentCommand struct {
	Date       *time.Time `json:"date"`
	Diagnostic *string    `json:"diagnostic"`
	Treatment  *string    `json:"treatment"`
}

// IsEmpty reports whether the patch carries no fields at all.
func (c *UpdateAppointmentCommand) IsEmpty() bool {
	return c.Date == nil && c.Diagnostic == nil && c.Treatment == nil
}

// ApplyTo merges the patch-present fields onto a. The linked doctor and
// patient are not patchable; re-linking requires delete and re-create.
func (c *UpdateAppointmentCommand) ApplyTo(a *Appointment) {
	if c.Date != nil {
		a.Date = *c.Date
	}
	if c.Diagnostic != nil && strings.TrimSpace(*c.Diagnostic) != "" {
		a.Diagnostic = *c.Diagnostic
	}
	if c.Treatment != nil && strings.TrimSpace(*c.Treatment) != "" {
		a.Treatment = *c.Treatment
	}
}

// ListQuery filters paged appointment queries. A nil filter matches all live
// appointments.
type ListQuery struct {
	DoctorID  *uuid.UUID
	PatientID *uuid.UUID
	Page      domain.PageRequest
}

type PagedAppointments struct {
	Appointments []*Appointment `json:"appointments"`
	TotalCount   int64          `json:"totalCount"`
	Page         int            `json:"page"`
	PageSize     int            `json:"pageSize"`
	TotalPages   int            `json:"totalPages"`
}
