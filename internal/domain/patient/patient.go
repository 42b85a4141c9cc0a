package patient

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clinica-io/clinica-api/internal/domain"
)

type Patient struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`

	SSNumber string `gorm:"column:ss_number;type:varchar(50);index" json:"sSNumber"`

	PersonalInformation domain.PersonalInformation `gorm:"embedded" json:"personalInformation"`

	Height float64 `gorm:"column:height" json:"height"`
	Weight float64 `gorm:"column:weight" json:"weight"`

	// Ids of live appointments referencing this patient. Only the appointment
	// orchestrator mutates this list.
	AppointmentIDs []uuid.UUID `gorm:"column:appointment_ids;serializer:json" json:"idPatientAppointments"`

	State domain.RecordState `gorm:"column:state;type:varchar(10);not null;default:'active';index" json:"-"`
}

func (Patient) TableName() string {
	return "clinical.patients"
}

func (p *Patient) IsActive() bool {
	return p.State != domain.StateDeleted
}

// MarkDeleted moves the record to its terminal state. There is no inverse.
func (p *Patient) MarkDeleted() {
	p.State = domain.StateDeleted
}

// AddAppointment appends id to the back-reference list. The list is a set;
// adding an id already present is a no-op and reports false.
func (p *Patient) AddAppointment(id uuid.UUID) bool {
	for _, existing := range p.AppointmentIDs {
		if existing == id {
			return false
		}
	}
	p.AppointmentIDs = append(p.AppointmentIDs, id)
	return true
}

// RemoveAppointment drops id from the back-reference list. Removing an id
// that is not present is a no-op and reports false.
func (p *Patient) RemoveAppointment(id uuid.UUID) bool {
	for i, existing := range p.AppointmentIDs {
		if existing == id {
			p.AppointmentIDs = append(p.AppointmentIDs[:i], p.AppointmentIDs[i+1:]...)
			return true
		}
	}
	return false
}

// Merge overlays the non-zero fields of in onto p. Identity, state, and the
// back-reference list are never merged.
func (p *Patient) Merge(in *Patient) {
	if in == nil {
		return
	}
	if strings.TrimSpace(in.SSNumber) != "" {
		p.SSNumber = in.SSNumber
	}
	if in.Height != 0 {
		p.Height = in.Height
	}
	if in.Weight != 0 {
		p.Weight = in.Weight
	}
	p.PersonalInformation.Merge(in.PersonalInformation)
}

type UpdatePatientCommand struct {
	SSNumber            *string                     `json:"sSNumber"`
	Height              *float64                    `json:"height"`
	Weight              *float64                    `json:"weight"`
	PersonalInformation *domain.PersonalInformation `json:"personalInformation"`
}

// IsEmpty reports whether the patch carries no fields at all.
func (c *UpdatePatientCommand) IsEmpty() bool {
	return c.SSNumber == nil && c.Height == nil && c.Weight == nil && c.PersonalInformation == nil
}

// ApplyTo merges the patch-present fields onto p.
func (c *UpdatePatientCommand) ApplyTo(p *Patient) {
	if c.SSNumber != nil {
		p.SSNumber = *c.SSNumber
	}
	if c.Height != nil {
		p.Height = *c.Height
	}
	if c.Weight != nil {
		p.Weight = *c.Weight
	}
	if c.PersonalInformation != nil {
		p.PersonalInformation.Merge(*c.PersonalInformation)
	}
}

type PagedPatients struct {
	Patients   []*Patient `json:"patients"`
	TotalCount int64      `json:"totalCount"`
	Page       int        `json:"page"`
	PageSize   int        `json:"pageSize"`
	TotalPages int        `json:"totalPages"`
}
