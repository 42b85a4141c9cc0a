package doctor

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clinica-io/clinica-api/internal/domain"
)

type Doctor struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`

	LicenseNum string    `gorm:"column:license_num;type:varchar(50);index" json:"licenseNum"`
	MIRDate    time.Time `gorm:"column:mir_date" json:"mirDate"`

	PersonalInformation domain.PersonalInformation `gorm:"embedded" json:"personalInformation"`

	Specializations []string `gorm:"column:specializations;serializer:json" json:"specializations"`

	// Ids of live appointments referencing this doctor. Only the appointment
	// orchestrator mutates this list.
	AppointmentIDs []uuid.UUID `gorm:"column:appointment_ids;serializer:json" json:"idDoctorAppointments"`

	State domain.RecordState `gorm:"column:state;type:varchar(10);not null;default:'active';index" json:"-"`
}

func (Doctor) TableName() string {
	return "clinical.doctors"
}

func (d *Doctor) IsActive() bool {
	return d.State != domain.StateDeleted
}

// MarkDeleted moves the record to its terminal state. There is no inverse.
func (d *Doctor) MarkDeleted() {
	d.State = domain.StateDeleted
}

// AddAppointment appends id to the back-reference list. The list is a set;
// adding an id already present is a no-op and reports false.
func (d *Doctor) AddAppointment(id uuid.UUID) bool {
	for _, existing := range d.AppointmentIDs {
		if existing == id {
			return false
		}
	}
	d.AppointmentIDs = append(d.AppointmentIDs, id)
	return true
}

// RemoveAppointment drops id from the back-reference list. Removing an id
// that is not present (already pruned by a concurrent call) is a no-op and
// reports false.
func (d *Doctor) RemoveAppointment(id uuid.UUID) bool {
	for i, existing := range d.AppointmentIDs {
		if existing == id {
			d.AppointmentIDs = append(d.AppointmentIDs[:i], d.AppointmentIDs[i+1:]...)
			return true
		}
	}
	return false
}

// Merge overlays the non-zero fields of in onto d. Identity, state, and the
// back-reference list are never merged.
func (d *Doctor) Merge(in *Doctor) {
	if in == nil {
		return
	}
	if strings.TrimSpace(in.LicenseNum) != "" {
		d.LicenseNum = in.LicenseNum
	}
	if !in.MIRDate.IsZero() {
		d.MIRDate = in.MIRDate
	}
	d.PersonalInformation.Merge(in.PersonalInformation)
	if len(in.Specializations) > 0 {
		d.Specializations = in.Specializations
	}
}

type UpdateDoctorCommand struct {
	LicenseNum          *string                     `json:"licenseNum"`
	MIRDate             *time.Time                  `json:"mirDate"`
	PersonalInformation *domain.PersonalInformation `json:"personalInformation"`
	Specializations     *[]string                   `json:"specializations"`
}

// IsEmpty reports whether the patch carries no fields at all. An empty patch
// must leave the stored record untouched.
func (c *UpdateDoctorCommand) IsEmpty() bool {
	return c.LicenseNum == nil && c.MIRDate == nil && c.PersonalInformation == nil && c.Specializations == nil
}

// ApplyTo merges the patch-present fields onto d.
func (c *UpdateDoctorCommand) ApplyTo(d *Doctor) {
	if c.LicenseNum != nil {
		d.LicenseNum = *c.LicenseNum
	}
	if c.MIRDate != nil {
		d.MIRDate = *c.MIRDate
	}
	if c.PersonalInformation != nil {
		d.PersonalInformation.Merge(*c.PersonalInformation)
	}
	if c.Specializations != nil {
		d.Specializations = *c.Specializations
	}
}

type PagedDoctors struct {
	Doctors    []*Doctor `json:"doctors"`
	TotalCount int64     `json:"totalCount"`
	Page       int       `json:"page"`
	PageSize   int       `json:"pageSize"`
	TotalPages int       `json:"totalPages"`
}
